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
)

// enterpriseBit is bit 15 of the on-wire field id, signalling that a
// 4-byte enterprise number follows the (id, length) pair.
const enterpriseBit uint16 = 0x8000

// VariableLength is the sentinel on-wire length value indicating that a
// field's actual length is carried inline in each data record rather than
// fixed by the template.
const VariableLength uint16 = 0xFFFF

// FieldSpecifier describes one field's on-wire width and identity within a
// TemplateRecord. Id has already had the enterprise bit masked off.
type FieldSpecifier struct {
	ID           uint16
	Length       uint16
	EnterpriseID uint32
}

// HasEnterprise reports whether the field specifier carries a private
// enterprise number, i.e. whether the wire form includes the 4-byte PEN.
func (fs FieldSpecifier) HasEnterprise() bool {
	return fs.EnterpriseID != 0
}

// IsVariableLength reports whether the field's length is determined per
// data record rather than fixed by the template.
func (fs FieldSpecifier) IsVariableLength() bool {
	return fs.Length == VariableLength
}

func (fs FieldSpecifier) String() string {
	return fmt.Sprintf("{id:%d length:%d pen:%d}", fs.ID, fs.Length, fs.EnterpriseID)
}

// parseFieldSpecifier decodes one FieldSpecifier from the head of b,
// returning the number of bytes consumed (4, or 8 when enterprise-scoped).
func parseFieldSpecifier(b []byte) (FieldSpecifier, int, error) {
	if len(b) < 4 {
		return FieldSpecifier{}, 0, fmt.Errorf("%w: field specifier needs at least 4 bytes, got %d", ErrShortSet, len(b))
	}
	rawID := binary.BigEndian.Uint16(b[0:2])
	length := binary.BigEndian.Uint16(b[2:4])

	fs := FieldSpecifier{
		ID:     rawID &^ enterpriseBit,
		Length: length,
	}

	if rawID&enterpriseBit == 0 {
		return fs, 4, nil
	}

	if len(b) < 8 {
		return FieldSpecifier{}, 0, fmt.Errorf("%w: enterprise field specifier needs 8 bytes, got %d", ErrShortSet, len(b))
	}
	fs.EnterpriseID = binary.BigEndian.Uint32(b[4:8])
	return fs, 8, nil
}

// Encode writes the field specifier in its on-wire form.
func (fs FieldSpecifier) Encode(w io.Writer) (int, error) {
	b := make([]byte, 0, 8)
	id := fs.ID
	if fs.HasEnterprise() {
		id |= enterpriseBit
	}
	b = binary.BigEndian.AppendUint16(b, id)
	b = binary.BigEndian.AppendUint16(b, fs.Length)
	if fs.HasEnterprise() {
		b = binary.BigEndian.AppendUint32(b, fs.EnterpriseID)
	}
	return w.Write(b)
}

// TemplateRecord is one schema definition carried inside a TemplateSet.
type TemplateRecord struct {
	ID     uint16
	Fields []FieldSpecifier
}

func (tr TemplateRecord) String() string {
	return fmt.Sprintf("<id=%d,fields=%d>%v", tr.ID, len(tr.Fields), tr.Fields)
}

// parseTemplateRecord decodes one TemplateRecord from the head of b,
// returning the number of bytes consumed.
func parseTemplateRecord(b []byte) (TemplateRecord, int, error) {
	if len(b) < 4 {
		return TemplateRecord{}, 0, fmt.Errorf("%w: template record header needs 4 bytes, got %d", ErrShortSet, len(b))
	}
	id := binary.BigEndian.Uint16(b[0:2])
	fieldCount := binary.BigEndian.Uint16(b[2:4])

	tr := TemplateRecord{ID: id, Fields: make([]FieldSpecifier, 0, fieldCount)}
	consumed := 4
	for i := uint16(0); i < fieldCount; i++ {
		fs, n, err := parseFieldSpecifier(b[consumed:])
		if err != nil {
			return TemplateRecord{}, 0, fmt.Errorf("template record %d, field %d: %w", id, i, err)
		}
		tr.Fields = append(tr.Fields, fs)
		consumed += n
	}
	return tr, consumed, nil
}

// Encode writes the template record in its on-wire form.
func (tr TemplateRecord) Encode(w io.Writer) (n int, err error) {
	b := make([]byte, 0, 4)
	b = binary.BigEndian.AppendUint16(b, tr.ID)
	b = binary.BigEndian.AppendUint16(b, uint16(len(tr.Fields)))
	wn, err := w.Write(b)
	n += wn
	if err != nil {
		return n, err
	}
	for _, fs := range tr.Fields {
		fn, err := fs.Encode(w)
		n += fn
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// stride returns the fixed byte length of one data record under this
// template, and whether the template is fixed-stride at all (false if any
// field is variable-length).
func (tr TemplateRecord) stride() (int, bool) {
	total := 0
	for _, fs := range tr.Fields {
		if fs.IsVariableLength() {
			return 0, false
		}
		total += int(fs.Length)
	}
	return total, true
}
