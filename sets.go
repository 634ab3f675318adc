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
	"fmt"
	"io"
)

// SetKind discriminates the three set variants a Message may carry.
type SetKind uint8

const (
	SetKindTemplate SetKind = iota
	SetKindOptions
	SetKindData
)

func (k SetKind) String() string {
	switch k {
	case SetKindTemplate:
		return "TemplateSet"
	case SetKindOptions:
		return "OptionsSet"
	case SetKindData:
		return "DataSet"
	default:
		return "unknown"
	}
}

// Set is one tagged element of a Message's body. Exactly one of Templates,
// or DataSet is meaningful, selected by Kind; OptionsSet sets carry no
// parsed content (their body is discarded per spec).
type Set struct {
	Header SetHeader
	Kind   SetKind

	// Templates holds the parsed records when Kind == SetKindTemplate.
	Templates []TemplateRecord

	// DataSet holds the set id (a template id) and unparsed payload when
	// Kind == SetKindData. The payload borrows from the input buffer.
	DataSet *DataSet
}

func (s Set) String() string {
	switch s.Kind {
	case SetKindTemplate:
		return fmt.Sprintf("%s<id=%d>%v", s.Kind, s.Header.ID, s.Templates)
	case SetKindData:
		return fmt.Sprintf("%s<id=%d,bytes=%d>", s.Kind, s.DataSet.ID, len(s.DataSet.Payload))
	default:
		return fmt.Sprintf("%s<id=%d>", s.Kind, s.Header.ID)
	}
}

// DataSet carries the (as yet undecoded) bytes of one data set along with
// the template id they must be resolved against.
type DataSet struct {
	// ID is the set id, which for a data set is the id of the template
	// describing its records.
	ID uint16
	// Payload is the set body, excluding the 4-byte set header. It
	// borrows from the buffer the enclosing Message was parsed from.
	Payload []byte
}

// parseSet decodes one set (header + body) from the head of b, returning
// the parsed Set and the number of bytes consumed (including the header).
func parseSet(b []byte) (Set, int, error) {
	h, err := parseSetHeader(b)
	if err != nil {
		return Set{}, 0, err
	}
	if int(h.Length) < setHeaderLength {
		return Set{}, 0, fmt.Errorf("%w: set %d declares length %d shorter than header", ErrShortSet, h.ID, h.Length)
	}
	bodyLen := int(h.Length) - setHeaderLength
	if len(b) < setHeaderLength+bodyLen {
		return Set{}, 0, fmt.Errorf("%w: set %d declares length %d but only %d bytes remain", ErrShortSet, h.ID, h.Length, len(b))
	}
	body := b[setHeaderLength : setHeaderLength+bodyLen]

	switch {
	case h.ID == SetIDTemplate:
		records, err := parseTemplateSet(body)
		if err != nil {
			return Set{}, 0, fmt.Errorf("template set: %w", err)
		}
		return Set{Header: h, Kind: SetKindTemplate, Templates: records}, setHeaderLength + bodyLen, nil
	case h.ID == SetIDOptionsTemplate:
		// Options template descriptors are parsed only enough to skip
		// them; their contents are discarded per spec (§4.3, §9).
		return Set{Header: h, Kind: SetKindOptions}, setHeaderLength + bodyLen, nil
	case h.ID >= minDataSetID:
		return Set{
			Header:  h,
			Kind:    SetKindData,
			DataSet: &DataSet{ID: h.ID, Payload: body},
		}, setHeaderLength + bodyLen, nil
	default:
		return Set{}, 0, reservedSetID(h.ID)
	}
}

// parseTemplateSet decodes the repeated TemplateRecords inside a template
// set's body. An empty template set is ill-formed.
func parseTemplateSet(b []byte) ([]TemplateRecord, error) {
	records := make([]TemplateRecord, 0, 1)
	for len(b) > 0 {
		tr, n, err := parseTemplateRecord(b)
		if err != nil {
			return nil, err
		}
		records = append(records, tr)
		b = b[n:]
	}
	if len(records) == 0 {
		return nil, ErrEmptyTemplate
	}
	return records, nil
}

// Encode writes the set, including its header, in on-wire form.
func (s Set) Encode(w io.Writer) (n int, err error) {
	hn, err := s.Header.Encode(w)
	n += hn
	if err != nil {
		return n, err
	}
	switch s.Kind {
	case SetKindTemplate:
		for _, tr := range s.Templates {
			tn, err := tr.Encode(w)
			n += tn
			if err != nil {
				return n, err
			}
		}
	case SetKindData:
		if s.DataSet != nil {
			wn, err := w.Write(s.DataSet.Payload)
			n += wn
			if err != nil {
				return n, err
			}
		}
	}
	return n, nil
}
