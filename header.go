/*
Copyright 2023 Alexander Bartolomey (github@alexanderbartolomey.de)

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package ipfix

import (
	"encoding/binary"
	"io"
)

// Set id space, per RFC 7011 section 3.3.2.
const (
	// SetIDTemplate identifies a template set.
	SetIDTemplate uint16 = 2
	// SetIDOptionsTemplate identifies an options template set.
	SetIDOptionsTemplate uint16 = 3
	// minDataSetID is the lowest set id usable as a data set's template id.
	minDataSetID uint16 = 256
)

// messageHeaderLength is the fixed size, in bytes, of the IPFIX message
// header (version, length, export time, sequence number, domain id).
const messageHeaderLength = 16

// setHeaderLength is the fixed size, in bytes, of a set header (id, length).
const setHeaderLength = 4

// SetHeader is the common (id, length) prefix of every set in a message.
// Length includes the header itself.
type SetHeader struct {
	ID     uint16
	Length uint16
}

func parseSetHeader(b []byte) (SetHeader, error) {
	if len(b) < setHeaderLength {
		return SetHeader{}, ErrShortSet
	}
	return SetHeader{
		ID:     binary.BigEndian.Uint16(b[0:2]),
		Length: binary.BigEndian.Uint16(b[2:4]),
	}, nil
}

// Encode writes the set header in its on-wire form.
func (sh SetHeader) Encode(w io.Writer) (int, error) {
	b := make([]byte, 0, setHeaderLength)
	b = binary.BigEndian.AppendUint16(b, sh.ID)
	b = binary.BigEndian.AppendUint16(b, sh.Length)
	return w.Write(b)
}
