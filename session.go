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

// Session is the stateful decoder driving a single collector: it owns a
// TemplateCache shared across every datagram handled by the UDP listener,
// and a Parser producing the caller-chosen output type from each decoded
// data record.
//
// Session itself holds no lock beyond what TemplateCache provides; it is
// safe to call Handle concurrently from multiple goroutines against the
// same Session as long as the TemplateCache implementation is (the default
// EphemeralCache is).
type Session[T any] struct {
	Cache  TemplateCache
	Parser Parser[T]
	Log    logr.Logger
}

// NewSession constructs a Session over a fresh EphemeralCache.
func NewSession[T any](parser Parser[T], log logr.Logger) *Session[T] {
	return &Session[T]{
		Cache:  NewEphemeralCache(),
		Parser: parser,
		Log:    log,
	}
}

// Handle processes one parsed Message against the session's template
// cache, in wire order: template sets are installed before any data set
// appearing later in the same datagram is resolved, matching RFC 7011's
// within-message ordering guarantee (§5 "Ordering").
func (s *Session[T]) Handle(ctx context.Context, msg *Message) []T {
	var out []T
	for _, set := range msg.Sets {
		switch set.Kind {
		case SetKindTemplate:
			for _, tr := range set.Templates {
				key := TemplateKey{ObservationDomainID: msg.ObservationDomainID, TemplateID: tr.ID}
				s.Cache.Add(key, tr.Fields)
				metricTemplatesInstalled.Inc()
			}
		case SetKindOptions:
			// Discarded per §4.3; no options-template tracking.
		case SetKindData:
			out = append(out, s.handleDataSet(ctx, msg.ObservationDomainID, set.DataSet)...)
		}
	}
	return out
}

func (s *Session[T]) handleDataSet(ctx context.Context, domain uint32, ds *DataSet) []T {
	key := TemplateKey{ObservationDomainID: domain, TemplateID: ds.ID}
	tmpl, ok := s.Cache.Get(key)
	if !ok {
		// Template-before-data ordering is assumed but not enforced
		// across datagrams; a miss is documented data loss, not an
		// error (§4.3, §7 TemplateMiss).
		s.Log.V(1).Info("template miss, dropping data set", "key", key.String(), "bytes", len(ds.Payload))
		metricTemplateMisses.Inc()
		return nil
	}

	records := splitDataSet(tmpl.Fields, ds.Payload)
	metricRecordsDecoded.Add(float64(len(records)))

	out := make([]T, 0, len(records))
	for _, rec := range records {
		v, ok := s.Parser.Parse(ctx, tmpl.Fields, rec)
		if !ok {
			metricRecordsDropped.Inc()
			continue
		}
		out = append(out, v)
	}
	return out
}

// splitDataSet divides a data set's payload into individual records. The
// fast path (§4.3 "Fixed-stride path is the hot path") applies when the
// template has no variable-length field: the payload length must then be
// an integer multiple of the stride, trailing padding permitted. The slow
// path walks the payload once, letting each record consume as many bytes
// as its own variable-length prefixes dictate.
func splitDataSet(fields []FieldSpecifier, payload []byte) [][]byte {
	if stride, fixed := (TemplateRecord{Fields: fields}).stride(); fixed {
		if stride == 0 {
			return nil
		}
		n := len(payload) / stride
		records := make([][]byte, 0, n)
		for i := 0; i < n; i++ {
			records = append(records, payload[i*stride:(i+1)*stride])
		}
		return records
	}

	var records [][]byte
	for len(payload) > 0 {
		n, ok := recordLength(fields, payload)
		if !ok || n == 0 || n > len(payload) {
			break
		}
		records = append(records, payload[:n])
		payload = payload[n:]
	}
	return records
}

// recordLength computes how many bytes of payload one record consumes
// under fields, honoring variable-length prefixes (1 byte, or 3 bytes
// when that byte is 0xFF) the same way splitFields does when actually
// decoding. It does not allocate the per-field slices splitFields builds,
// since the variable-length slow path above only needs the total length.
func recordLength(fields []FieldSpecifier, payload []byte) (int, bool) {
	total := 0
	remaining := payload
	for _, fs := range fields {
		length := int(fs.Length)
		if fs.IsVariableLength() {
			if len(remaining) < 1 {
				return 0, false
			}
			length = int(remaining[0])
			remaining = remaining[1:]
			total++
			if length == 0xFF {
				if len(remaining) < 2 {
					return 0, false
				}
				length = int(remaining[0])<<8 | int(remaining[1])
				remaining = remaining[2:]
				total += 2
			}
		}
		if len(remaining) < length {
			return 0, false
		}
		remaining = remaining[length:]
		total += length
	}
	return total, true
}
