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
	"context"

	"github.com/go-logr/logr"
)

// Record is one decoded (field id, value) pair from a data record.
type Record struct {
	FieldID uint16
	Value   Value
}

// RecordSet is the generic decode of one data record: its fields in
// template order. FieldParser leaves TemplateID at zero; a Parser receives
// the template's field layout but not the template id.
type RecordSet struct {
	TemplateID uint16
	Records    []Record
}

// Parser is the pluggable capability a Session drives once per data
// record. Implementations map a template's field layout and the record's
// raw bytes into a caller-chosen output type. Composition is single-level:
// a Parser may wrap another Parser (DebugParser does), but wrapping a
// wrapper is not a pattern this package supports.
type Parser[T any] interface {
	Parse(ctx context.Context, fields []FieldSpecifier, record []byte) (T, bool)
}

// splitFields walks record splitting it into one slice per field, honoring
// both fixed-width and variable-length (1-byte, or 3-byte when the 1-byte
// prefix is 0xFF) encodings. It stops and returns ok == false as soon as
// record is exhausted before a field can be read in full — callers decide
// whether a partial result is still usable (FlowParser emits it anyway;
// FieldParser does too, simply with fewer records).
func splitFields(fields []FieldSpecifier, record []byte) ([][]byte, bool) {
	out := make([][]byte, 0, len(fields))
	for _, fs := range fields {
		length := int(fs.Length)
		if fs.IsVariableLength() {
			if len(record) < 1 {
				return out, false
			}
			length = int(record[0])
			record = record[1:]
			if length == 0xFF {
				if len(record) < 2 {
					return out, false
				}
				length = int(record[0])<<8 | int(record[1])
				record = record[2:]
			}
		}
		if len(record) < length {
			return out, false
		}
		out = append(out, record[:length])
		record = record[length:]
	}
	return out, true
}

// FieldParser is the generic/debug projector: it decodes every field it
// recognizes via FieldDictionary and records the rest as Value::Unknown,
// producing a RecordSet that mirrors the template's own field order.
type FieldParser struct {
	Log logr.Logger
}

var _ Parser[RecordSet] = FieldParser{}

func (p FieldParser) Parse(ctx context.Context, fields []FieldSpecifier, record []byte) (RecordSet, bool) {
	slices, ok := splitFields(fields, record)
	rs := RecordSet{Records: make([]Record, 0, len(slices))}
	for i, b := range slices {
		fs := fields[i]
		if fd, found := LookupField(fs.ID); found {
			rs.Records = append(rs.Records, Record{FieldID: fs.ID, Value: fd.Decode(b)})
		} else {
			p.Log.V(2).Info("unrecognized field", "fieldID", fs.ID, "length", len(b))
			rs.Records = append(rs.Records, Record{FieldID: fs.ID, Value: unknownValue(b)})
		}
	}
	return rs, ok || len(rs.Records) > 0
}

// DebugParser wraps another Parser, logging each decoded (field id, name,
// value) triple before delegating. It always decodes via FieldDictionary
// for logging purposes, independent of what the wrapped Parser does with
// the same bytes.
type DebugParser[T any] struct {
	Inner Parser[T]
	Log   logr.Logger
}

var _ Parser[RecordSet] = DebugParser[RecordSet]{}

func (p DebugParser[T]) Parse(ctx context.Context, fields []FieldSpecifier, record []byte) (T, bool) {
	if slices, _ := splitFields(fields, record); slices != nil {
		for i, b := range slices {
			fs := fields[i]
			name := "unknown"
			var v Value
			if fd, found := LookupField(fs.ID); found {
				name = fd.Name
				v = fd.Decode(b)
			} else {
				v = unknownValue(b)
			}
			p.Log.V(1).Info("field", "fieldID", fs.ID, "name", name, "value", v.String())
		}
	}
	return p.Inner.Parse(ctx, fields, record)
}
