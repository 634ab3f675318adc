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
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr"
)

// scenarioA is a worked-example datagram: one template (id 256, fields
// src_addr/dst_addr/src_port) followed by an options set that must be
// skipped, and no data set.
func scenarioA(t *testing.T) []byte {
	t.Helper()
	// Message length (16 header + 20 template set + 14 options set = 50)
	// is computed below rather than hardcoded, since the fixture is
	// assembled incrementally.
	b := []byte{
		0x00, 0x0a, 0x00, 0x00, // version=10, length=TBD
		0x60, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, // export_time, seq, domain
		0x00, 0x02, 0x00, 0x14, // set_id=2 (template), set_len=20
		0x01, 0x00, 0x00, 0x03, // template_id=256, field_count=3
		0x00, 0x08, 0x00, 0x04, // IE8 len4
		0x00, 0x0c, 0x00, 0x04, // IE12 len4
		0x00, 0x07, 0x00, 0x02, // IE7 len2
		0x00, 0x03, 0x00, 0x0e, // set_id=3 (options), set_len=14
	}
	// Pad the options set body to its declared length (10 bytes of body).
	b = append(b, make([]byte, 10)...)
	if len(b) != 50 {
		t.Fatalf("scenario A fixture is %d bytes, want 50", len(b))
	}
	b[2] = byte(len(b) >> 8)
	b[3] = byte(len(b))
	return b
}

func TestScenarioA_TemplateAndOptionsNoFlow(t *testing.T) {
	msg, err := Parse(scenarioA(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(msg.Sets) != 2 {
		t.Fatalf("got %d sets, want 2", len(msg.Sets))
	}
	if msg.Sets[0].Kind != SetKindTemplate {
		t.Fatalf("set 0 kind = %v, want Template", msg.Sets[0].Kind)
	}
	if msg.Sets[1].Kind != SetKindOptions {
		t.Fatalf("set 1 kind = %v, want Options", msg.Sets[1].Kind)
	}

	session := NewSession[RecordSet](FieldParser{Log: logr.Discard()}, logr.Discard())
	out := session.Handle(context.Background(), msg)
	if len(out) != 0 {
		t.Fatalf("got %d records, want 0", len(out))
	}
	if session.Cache.Len() != 1 {
		t.Fatalf("cache has %d templates, want 1", session.Cache.Len())
	}
}

func TestScenarioB_DataSetAgainstTemplate(t *testing.T) {
	session := NewSession[*Flow](FlowParser{}, logr.Discard())
	msg, err := Parse(scenarioA(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	session.Handle(context.Background(), msg)

	payload := []byte{
		0x0a, 0x00, 0x00, 0x01, // src_addr = 10.0.0.1
		0x0a, 0x00, 0x00, 0x02, // dst_addr = 10.0.0.2
		0x00, 0x50, // src_port = 80
	}
	dataMsg := &Message{
		ObservationDomainID: 0,
		Sets: []Set{{
			Header:  SetHeader{ID: 256, Length: uint16(setHeaderLength + len(payload))},
			Kind:    SetKindData,
			DataSet: &DataSet{ID: 256, Payload: payload},
		}},
	}

	flows := session.Handle(context.Background(), dataMsg)
	if len(flows) != 1 {
		t.Fatalf("got %d flows, want 1", len(flows))
	}
	f := flows[0]
	if f.SrcAddr.String() != "10.0.0.1" {
		t.Errorf("SrcAddr = %s, want 10.0.0.1", f.SrcAddr)
	}
	if f.DstAddr.String() != "10.0.0.2" {
		t.Errorf("DstAddr = %s, want 10.0.0.2", f.DstAddr)
	}
	if f.SrcPort != 80 {
		t.Errorf("SrcPort = %d, want 80", f.SrcPort)
	}
	if f.DstPort != 0 {
		t.Errorf("DstPort = %d, want 0 (default)", f.DstPort)
	}
}

func TestScenarioC_TemplateMiss(t *testing.T) {
	session := NewSession[*Flow](FlowParser{}, logr.Discard())
	msg := &Message{
		Sets: []Set{{
			Header:  SetHeader{ID: 999, Length: 10},
			Kind:    SetKindData,
			DataSet: &DataSet{ID: 999, Payload: []byte{1, 2, 3, 4, 5, 6}},
		}},
	}
	flows := session.Handle(context.Background(), msg)
	if len(flows) != 0 {
		t.Fatalf("got %d flows, want 0", len(flows))
	}
	if session.Cache.Len() != 0 {
		t.Fatalf("cache has %d templates, want 0", session.Cache.Len())
	}
}

func TestScenarioD_TemplateReplacement(t *testing.T) {
	session := NewSession[*Flow](FlowParser{}, logr.Discard())
	key := TemplateKey{TemplateID: 256}

	session.Cache.Add(key, []FieldSpecifier{{ID: 1, Length: 8}})
	flows := session.Handle(context.Background(), &Message{
		Sets: []Set{{
			Header:  SetHeader{ID: 256},
			Kind:    SetKindData,
			DataSet: &DataSet{ID: 256, Payload: []byte{0, 0, 0, 0, 0, 0, 0x04, 0x00}},
		}},
	})
	if len(flows) != 1 || flows[0].Bytes != 1024 {
		t.Fatalf("first generation: got %+v, want Bytes=1024", flows)
	}

	session.Cache.Add(key, []FieldSpecifier{{ID: 1, Length: 4}})
	flows = session.Handle(context.Background(), &Message{
		Sets: []Set{{
			Header:  SetHeader{ID: 256},
			Kind:    SetKindData,
			DataSet: &DataSet{ID: 256, Payload: []byte{0, 0, 0x02, 0x00}},
		}},
	})
	if len(flows) != 1 || flows[0].Bytes != 512 {
		t.Fatalf("second generation: got %+v, want Bytes=512", flows)
	}
}

func TestScenarioE_VariableLengthField(t *testing.T) {
	fields := []FieldSpecifier{{ID: 82, Length: VariableLength}}
	payload := []byte{0x05, 'h', 'e', 'l', 'l', 'o'}

	session := NewSession[RecordSet](FieldParser{Log: logr.Discard()}, logr.Discard())
	session.Cache.Add(TemplateKey{TemplateID: 256}, fields)

	out := session.Handle(context.Background(), &Message{
		Sets: []Set{{
			Header:  SetHeader{ID: 256},
			Kind:    SetKindData,
			DataSet: &DataSet{ID: 256, Payload: payload},
		}},
	})
	if len(out) != 1 {
		t.Fatalf("got %d record sets, want 1", len(out))
	}
	if len(out[0].Records) != 1 {
		t.Fatalf("got %d records, want 1", len(out[0].Records))
	}
	s, ok := out[0].Records[0].Value.AsString()
	if !ok || s != "hello" {
		t.Fatalf("record value = %+v, want String(hello)", out[0].Records[0].Value)
	}
}

func TestScenarioF_BadVersion(t *testing.T) {
	b := append([]byte{0x00, 0x09}, make([]byte, 14)...)
	_, err := Parse(b)
	if !errors.Is(err, ErrBadVersion) {
		t.Fatalf("got %v, want ErrBadVersion", err)
	}
}

func TestRoundTripTemplateSet(t *testing.T) {
	original := Set{
		Header: SetHeader{ID: SetIDTemplate},
		Kind:   SetKindTemplate,
		Templates: []TemplateRecord{
			{ID: 256, Fields: []FieldSpecifier{
				{ID: 8, Length: 4},
				{ID: 12, Length: 4},
				{ID: 7, Length: 2},
			}},
			{ID: 257, Fields: []FieldSpecifier{
				{ID: 99, Length: 4, EnterpriseID: 12345},
			}},
		},
	}

	var body bytes.Buffer
	for _, tr := range original.Templates {
		if _, err := tr.Encode(&body); err != nil {
			t.Fatalf("Encode template record: %v", err)
		}
	}
	original.Header.Length = uint16(setHeaderLength + body.Len())

	var buf bytes.Buffer
	if _, err := original.Encode(&buf); err != nil {
		t.Fatalf("Encode set: %v", err)
	}

	decoded, n, err := parseSet(buf.Bytes())
	if err != nil {
		t.Fatalf("parseSet: %v", err)
	}
	if n != buf.Len() {
		t.Fatalf("consumed %d bytes, want %d", n, buf.Len())
	}
	if len(decoded.Templates) != len(original.Templates) {
		t.Fatalf("got %d templates, want %d", len(decoded.Templates), len(original.Templates))
	}
	for i, tr := range decoded.Templates {
		want := original.Templates[i]
		if tr.ID != want.ID || len(tr.Fields) != len(want.Fields) {
			t.Fatalf("template %d = %+v, want %+v", i, tr, want)
		}
		for j, fs := range tr.Fields {
			if fs != want.Fields[j] {
				t.Fatalf("template %d field %d = %+v, want %+v", i, j, fs, want.Fields[j])
			}
		}
	}
}

func TestStrideConsistency(t *testing.T) {
	fields := []FieldSpecifier{{ID: 1, Length: 4}, {ID: 2, Length: 2}}
	stride, fixed := (TemplateRecord{Fields: fields}).stride()
	if !fixed || stride != 6 {
		t.Fatalf("stride = (%d, %v), want (6, true)", stride, fixed)
	}

	payload := make([]byte, stride*3+2) // 3 full records, 2 bytes padding
	records := splitDataSet(fields, payload)
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	for _, r := range records {
		if len(r) != stride {
			t.Fatalf("record length = %d, want %d", len(r), stride)
		}
	}
}

func TestEndianness(t *testing.T) {
	v, err := parseNumber([]byte{0x00, 0x01, 0x02, 0x03})
	if err != nil {
		t.Fatalf("parseNumber: %v", err)
	}
	n, ok := v.AsU32()
	if !ok || n != 0x00010203 {
		t.Fatalf("got (%d, %v), want (0x00010203, true)", n, ok)
	}
}
