package asm

import "testing"

func TestError_Error(t *testing.T) {
	e := &Error{File: "main.s", Line: 12, Msg: "syntax error"}
	want := "main.s:12: syntax error"
	if got := e.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestErrorList_Error_Singular(t *testing.T) {
	l := ErrorList{{File: "a.s", Line: 1, Msg: "boom"}}
	want := "a.s:1: boom"
	if got := l.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestErrorList_Error_Plural(t *testing.T) {
	l := ErrorList{
		{File: "a.s", Line: 1, Msg: "first"},
		{File: "a.s", Line: 2, Msg: "second"},
	}
	got := l.Error()
	want := "2 errors:\n\ta.s:1: first\n\ta.s:2: second"
	if got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}
