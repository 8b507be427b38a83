// Copyright 2022 Andreas Baumann
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package objfile

import (
	"io"

	"github.com/pkg/errors"
)

// ErrWriter wraps an io.Writer and latches the first write error, so
// a long sequence of unconditional writes can be written without
// checking an error after every call; the caller checks Err once at
// the end.
type ErrWriter struct {
	w   io.Writer
	Err error
}

// NewErrWriter wraps w.
func NewErrWriter(w io.Writer) *ErrWriter {
	return &ErrWriter{w: w}
}

func (w *ErrWriter) Write(p []byte) (int, error) {
	if w.Err != nil {
		return 0, w.Err
	}
	n, err := w.w.Write(p)
	if err != nil {
		w.Err = errors.Wrap(err, "object write failed")
	}
	return n, w.Err
}

// WriteSequence writes each chunk in order, stopping at the first
// error; it is how Object.Write composes the header, code, and two
// relocation streams into one latched-error sequence without
// repeating an error check after every piece.
func (w *ErrWriter) WriteSequence(chunks ...[]byte) error {
	for _, c := range chunks {
		if _, err := w.Write(c); err != nil {
			return err
		}
	}
	return w.Err
}
