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
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// HeaderSize is the fixed on-disk size of a Header.
const HeaderSize = 7

// trampoline is the fixed JMP $0000 instruction the loader overwrites
// with the real entry point once it knows where the text segment
// landed. It occupies file offsets 4-6; the mandatory text relocation
// mark at file offset 3 falls on the high byte of the TextSize word
// just before it.
var trampoline = [3]byte{0x4c, 0x00, 0x00}

// Header is the seven-byte prefix of an object file.
type Header struct {
	ZeroPageUsage byte   // bytes of zero page this module consumes
	TPAPages      byte   // TextSize in 256-byte pages, rounded up
	TextSize      uint16 // size in bytes of the header plus code
}

// Marshal encodes h in its on-disk seven-byte form.
func (h Header) Marshal() []byte {
	buf := make([]byte, HeaderSize)
	buf[0] = h.ZeroPageUsage
	buf[1] = h.TPAPages
	binary.LittleEndian.PutUint16(buf[2:4], h.TextSize)
	copy(buf[4:7], trampoline[:])
	return buf
}

// ReadHeader reads and decodes a Header from r.
func ReadHeader(r io.Reader) (Header, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Header{}, errors.Wrap(err, "read object header")
	}
	return Header{
		ZeroPageUsage: buf[0],
		TPAPages:      buf[1],
		TextSize:      binary.LittleEndian.Uint16(buf[2:4]),
	}, nil
}

// PagesFor rounds a byte count up to whole 256-byte pages, as the
// header's TPAPages field requires.
func PagesFor(size int) byte {
	return byte((size + 255) / 256)
}

// Object is a fully assembled module: its header, code image, and the
// two relocation streams. ZeroPageRelocations may be empty (a module
// with no zero-page fixups), but TextRelocations always carries at
// least the mandatory header mark.
type Object struct {
	Header             Header
	Code               []byte
	ZeroPageRelocations []byte
	TextRelocations     []byte
}

// Write serializes o to w: header, then code, then the zero-page
// stream, then the text stream, in that order, matching the format
// multilink and the loader expect.
func (o *Object) Write(w io.Writer) error {
	return NewErrWriter(w).WriteSequence(
		o.Header.Marshal(),
		o.Code,
		o.ZeroPageRelocations,
		o.TextRelocations,
	)
}

// PatchTPAForRelocations returns h with TPAPages raised, if needed, to
// cover the text size plus relocBytes (the combined size of the
// relocation streams about to be appended after the code), so a
// loader reading only the header still learns the true extent of the
// file. It never lowers TPAPages below what h already carried.
// Grounded directly on multilink.cc's in-place patch of the header's
// TPA-page byte.
func (h Header) PatchTPAForRelocations(relocBytes int) Header {
	required := PagesFor(int(h.TextSize) + relocBytes)
	if required > h.TPAPages {
		h.TPAPages = required
	}
	return h
}

// ReadObject parses a full object file out of r. The relocation stream
// lengths aren't stored explicitly; each is read to its own 0xF
// terminator via reloc.Decode by the caller, so ReadObject only
// separates the header from the remaining bytes and leaves stream
// splitting to the caller that knows which initial cursor each stream
// starts from.
func ReadObject(r io.Reader) (Header, []byte, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return Header{}, nil, err
	}
	rest, err := io.ReadAll(r)
	if err != nil {
		return Header{}, nil, errors.Wrap(err, "read object body")
	}
	return h, rest, nil
}
