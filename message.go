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
	"fmt"
	"io"
	"time"

	"github.com/flowkit/ipfixd/iana/version"
)

// Message is one fully-decoded IPFIX datagram: the fixed header plus the
// ordered sequence of sets it carries.
type Message struct {
	Version             version.ProtocolVersion
	ExportTime          time.Time
	SequenceNumber      uint32
	ObservationDomainID uint32
	Sets                []Set
}

// Parse decodes a complete IPFIX message from a buffer holding exactly one
// datagram. Unlike the streaming Decode found in earlier iterations of this
// package, Parse takes the whole buffer at once: a UDP datagram always
// arrives fully assembled, so there is nothing to gain from an io.Reader
// interface on the decode path, and a slice lets callers avoid a copy into
// a bytes.Reader just to hand it back out again.
func Parse(input []byte) (*Message, error) {
	if len(input) < messageHeaderLength {
		return nil, fmt.Errorf("%w: message header needs %d bytes, got %d", ErrShortSet, messageHeaderLength, len(input))
	}

	ver := version.ProtocolVersion(binary.BigEndian.Uint16(input[0:2]))
	if ver != version.IPFIX {
		return nil, badVersion(uint16(ver))
	}

	length := binary.BigEndian.Uint16(input[2:4])
	if int(length) > len(input) {
		return nil, fmt.Errorf("%w: message declares length %d but buffer holds %d", ErrShortSet, length, len(input))
	}
	if int(length) < len(input) {
		return nil, fmt.Errorf("%w: %d unconsumed after declared length %d", ErrTrailingBytes, len(input)-int(length), length)
	}

	exportSeconds := binary.BigEndian.Uint32(input[4:8])
	sequence := binary.BigEndian.Uint32(input[8:12])
	domainID := binary.BigEndian.Uint32(input[12:16])

	m := &Message{
		Version:             ver,
		ExportTime:          time.Unix(int64(exportSeconds), 0).UTC(),
		SequenceNumber:      sequence,
		ObservationDomainID: domainID,
	}

	body := input[messageHeaderLength:length]
	for len(body) > 0 {
		set, n, err := parseSet(body)
		if err != nil {
			return nil, err
		}
		m.Sets = append(m.Sets, set)
		body = body[n:]
	}

	return m, nil
}

// Encode writes the message, header and all sets, in its on-wire form.
func (m *Message) Encode(w io.Writer) (int, error) {
	var body []byte
	for _, s := range m.Sets {
		buf := &byteCounter{}
		if _, err := s.Encode(buf); err != nil {
			return 0, err
		}
		body = append(body, buf.bytes...)
	}

	length := messageHeaderLength + len(body)
	header := make([]byte, 0, messageHeaderLength)
	header = binary.BigEndian.AppendUint16(header, uint16(m.Version))
	header = binary.BigEndian.AppendUint16(header, uint16(length))
	header = binary.BigEndian.AppendUint32(header, uint32(m.ExportTime.Unix()))
	header = binary.BigEndian.AppendUint32(header, m.SequenceNumber)
	header = binary.BigEndian.AppendUint32(header, m.ObservationDomainID)

	n, err := w.Write(header)
	if err != nil {
		return n, err
	}
	bn, err := w.Write(body)
	return n + bn, err
}

// byteCounter is a minimal io.Writer sink used to materialize a Set's
// encoding into a byte slice before appending it to the message body.
type byteCounter struct {
	bytes []byte
}

func (b *byteCounter) Write(p []byte) (int, error) {
	b.bytes = append(b.bytes, p...)
	return len(p), nil
}
