package reloc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	cases := []struct {
		name      string
		positions []int
		initial   int
	}{
		{"empty", nil, 0},
		{"single", []int{5}, 0},
		{"adjacent", []int{3, 3 + 1, 3 + 2}, 3},
		{"large delta needs escape", []int{0, 40}, 0},
		{"many large deltas", []int{0, 14, 28, 42, 100}, 0},
		{"text stream starts at 3", []int{3, 10, 255}, 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			enc := Encode(c.positions, c.initial)
			got, consumed := Decode(enc, c.initial)
			if consumed != len(enc) {
				t.Errorf("consumed = %d, want %d", consumed, len(enc))
			}
			want := c.positions
			if len(want) == 0 {
				want = nil
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Decode(Encode(%v)) mismatch (-want +got):\n%s", c.positions, diff)
			}
		})
	}
}

func TestEncode_EndsInTerminator(t *testing.T) {
	enc := Encode([]int{1, 2}, 0)
	last := enc[len(enc)-1]
	if last&0xf != terminator && last>>4 != terminator {
		t.Errorf("last byte %#02x contains no terminator nibble", last)
	}
}

func TestDecode_StopsAtTerminatorIgnoringTrailingData(t *testing.T) {
	enc := Encode([]int{1}, 0)
	enc = append(enc, 0xab) // garbage past the terminator must be ignored
	got, consumed := Decode(enc, 0)
	if consumed != len(enc)-1 {
		t.Errorf("consumed = %d, want %d", consumed, len(enc)-1)
	}
	if diff := cmp.Diff([]int{1}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
