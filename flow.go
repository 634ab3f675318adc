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
	"encoding/json"
	"net"
	"time"

	"github.com/flowkit/ipfixd/iana/version"
)

// defaultFlowAddr is the address slot default: IE8/12/15/225/226 are
// populated with the loopback address when absent from a record.
var defaultFlowAddr = net.ParseIP("127.0.0.1").To4()

// broadcastMAC is the MAC slot default for src/dst MAC addresses.
var broadcastMAC = net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// Flow is the canonical projected record handed to publishers. Every
// field is always populated, defaulted when the source record carried no
// corresponding information element (§4.5).
type Flow struct {
	Type         version.ProtocolVersion
	TimeReceived time.Time

	Bytes   uint64
	Packets uint64

	SrcPort uint16
	SrcAddr net.IP
	SrcNet  uint8

	DstPort uint16
	DstAddr net.IP
	DstNet  uint8

	NextHopAddr net.IP

	FlowStartSysUpTime uint64
	FlowEndSysUpTime   uint64
	FlowAge            time.Duration

	SrcMAC net.HardwareAddr
	DstMAC net.HardwareAddr

	VLANID     uint16
	PostVLANID uint16

	PostNATSrcAddr  net.IP
	PostNATDstAddr  net.IP
	PostNAPTSrcPort uint16
	PostNAPTDstPort uint16

	EthernetType uint16
}

// NewFlow returns a Flow with every slot set to its documented default,
// ready for a FlowParser to overwrite as it recognizes fields.
func NewFlow() *Flow {
	return &Flow{
		Type:           version.IPFIX,
		SrcAddr:        cloneIP(defaultFlowAddr),
		DstAddr:        cloneIP(defaultFlowAddr),
		NextHopAddr:    cloneIP(defaultFlowAddr),
		PostNATSrcAddr: cloneIP(defaultFlowAddr),
		PostNATDstAddr: cloneIP(defaultFlowAddr),
		SrcMAC:         cloneMAC(broadcastMAC),
		DstMAC:         cloneMAC(broadcastMAC),
	}
}

func cloneIP(ip net.IP) net.IP {
	cp := make(net.IP, len(ip))
	copy(cp, ip)
	return cp
}

func cloneMAC(mac net.HardwareAddr) net.HardwareAddr {
	cp := make(net.HardwareAddr, len(mac))
	copy(cp, mac)
	return cp
}

// flowDocument is the JSON wire shape of a Flow (§6 "Publisher contract"):
// one object per flow, field names matching what a JSON-oriented publisher
// (the console and elastic sinks) is expected to emit.
type flowDocument struct {
	Type         string `json:"type"`
	TimeReceived string `json:"time_received"`
	FlowAge      int64  `json:"flow_age"`

	Bytes   uint64 `json:"bytes"`
	Packets uint64 `json:"packets"`

	EthernetType uint16 `json:"ethernet_type"`

	SrcMAC string `json:"src_mac"`
	DstMAC string `json:"dst_mac"`

	SrcAddr        string `json:"src_addr"`
	DstAddr        string `json:"dst_addr"`
	PostNATSrcAddr string `json:"post_nat_src_addr"`
	PostNATDstAddr string `json:"post_nat_dst_addr"`
	NextHopAddr    string `json:"next_hop_addr"`

	SrcNet uint8 `json:"src_net"`
	DstNet uint8 `json:"dst_net"`

	SrcPort         uint16 `json:"src_port"`
	DstPort         uint16 `json:"dst_port"`
	PostNAPTSrcPort uint16 `json:"post_napt_src_port"`
	PostNAPTDstPort uint16 `json:"post_napt_dst_port"`

	VLANID     uint16 `json:"vlan_id"`
	PostVLANID uint16 `json:"post_vlan_id"`
}

// MarshalJSON renders the Flow into the wire shape documented in §6.
func (f *Flow) MarshalJSON() ([]byte, error) {
	return json.Marshal(flowDocument{
		Type:            f.Type.String(),
		TimeReceived:    f.TimeReceived.UTC().Format(time.RFC3339),
		FlowAge:         f.FlowAge.Milliseconds(),
		Bytes:           f.Bytes,
		Packets:         f.Packets,
		EthernetType:    f.EthernetType,
		SrcMAC:          f.SrcMAC.String(),
		DstMAC:          f.DstMAC.String(),
		SrcAddr:         f.SrcAddr.String(),
		DstAddr:         f.DstAddr.String(),
		PostNATSrcAddr:  f.PostNATSrcAddr.String(),
		PostNATDstAddr:  f.PostNATDstAddr.String(),
		NextHopAddr:     f.NextHopAddr.String(),
		SrcNet:          f.SrcNet,
		DstNet:          f.DstNet,
		SrcPort:         f.SrcPort,
		DstPort:         f.DstPort,
		PostNAPTSrcPort: f.PostNAPTSrcPort,
		PostNAPTDstPort: f.PostNAPTDstPort,
		VLANID:          f.VLANID,
		PostVLANID:      f.PostVLANID,
	})
}

// FlowParser is the canonical Parser: it recognizes the field table in
// §4.5 and writes matches into a Flow, ignoring every other field id.
type FlowParser struct{}

var _ Parser[*Flow] = FlowParser{}

func (FlowParser) Parse(ctx context.Context, fields []FieldSpecifier, record []byte) (*Flow, bool) {
	f := NewFlow()
	f.TimeReceived = time.Now()

	for _, fs := range fields {
		length := int(fs.Length)
		if fs.IsVariableLength() {
			if len(record) < 1 {
				break
			}
			length = int(record[0])
			record = record[1:]
			if length == 0xFF {
				if len(record) < 2 {
					break
				}
				length = int(record[0])<<8 | int(record[1])
				record = record[2:]
			}
		}
		if len(record) < length {
			// Tolerant of truncation: stop here, keep what's decoded.
			break
		}
		b := record[:length]
		record = record[length:]

		applyFlowField(f, fs.ID, b)
	}

	f.FlowAge = flowAge(f.FlowStartSysUpTime, f.FlowEndSysUpTime)
	return f, true
}

// applyFlowField writes one field's bytes into the Flow slot named for its
// information element id in §4.5, silently ignoring field ids the table
// does not list and bytes that fail to decode under the expected type.
func applyFlowField(f *Flow, id uint16, b []byte) {
	switch id {
	case 1, 23: // octetDeltaCount, postOctetDeltaCount (overwrites)
		if v, err := parseNumber(b); err == nil {
			if n, ok := v.AsU64(); ok {
				f.Bytes = n
			}
		}
	case 2, 24: // packetDeltaCount, postPacketDeltaCount (overwrites)
		if v, err := parseNumber(b); err == nil {
			if n, ok := v.AsU64(); ok {
				f.Packets = n
			}
		}
	case 7:
		if v, err := parseNumber(b); err == nil {
			if n, ok := v.AsU16(); ok {
				f.SrcPort = n
			}
		}
	case 8:
		if v, err := parseIPv4(b); err == nil {
			if ip, ok := v.AsIPv4(); ok {
				f.SrcAddr = ip
			}
		}
	case 9:
		if v, err := parseNumber(b); err == nil {
			if n, ok := v.AsU8(); ok {
				f.SrcNet = n
			}
		}
	case 11:
		if v, err := parseNumber(b); err == nil {
			if n, ok := v.AsU16(); ok {
				f.DstPort = n
			}
		}
	case 12:
		if v, err := parseIPv4(b); err == nil {
			if ip, ok := v.AsIPv4(); ok {
				f.DstAddr = ip
			}
		}
	case 13:
		if v, err := parseNumber(b); err == nil {
			if n, ok := v.AsU8(); ok {
				f.DstNet = n
			}
		}
	case 15:
		if v, err := parseIPv4(b); err == nil {
			if ip, ok := v.AsIPv4(); ok {
				f.NextHopAddr = ip
			}
		}
	case 21:
		if v, err := parseNumber(b); err == nil {
			if n, ok := v.AsU64(); ok {
				f.FlowEndSysUpTime = n
			}
		}
	case 22:
		if v, err := parseNumber(b); err == nil {
			if n, ok := v.AsU64(); ok {
				f.FlowStartSysUpTime = n
			}
		}
	case 56:
		if v, err := parseMAC(b); err == nil {
			if mac, ok := v.AsMAC6(); ok {
				f.SrcMAC = mac
			}
		}
	case 58:
		if v, err := parseNumber(b); err == nil {
			if n, ok := v.AsU16(); ok {
				f.VLANID = n
			}
		}
	case 59:
		if v, err := parseNumber(b); err == nil {
			if n, ok := v.AsU16(); ok {
				f.PostVLANID = n
			}
		}
	case 81:
		if v, err := parseMAC(b); err == nil {
			if mac, ok := v.AsMAC6(); ok {
				f.DstMAC = mac
			}
		}
	case 225:
		if v, err := parseIPv4(b); err == nil {
			if ip, ok := v.AsIPv4(); ok {
				f.PostNATSrcAddr = ip
			}
		}
	case 226:
		if v, err := parseIPv4(b); err == nil {
			if ip, ok := v.AsIPv4(); ok {
				f.PostNATDstAddr = ip
			}
		}
	case 227:
		if v, err := parseNumber(b); err == nil {
			if n, ok := v.AsU16(); ok {
				f.PostNAPTSrcPort = n
			}
		}
	case 228:
		if v, err := parseNumber(b); err == nil {
			if n, ok := v.AsU16(); ok {
				f.PostNAPTDstPort = n
			}
		}
	case 256:
		if v, err := parseNumber(b); err == nil {
			if n, ok := v.AsU16(); ok {
				f.EthernetType = n
			}
		}
	}
}

// flowAge computes end-start saturating at zero, per the Open Questions
// resolution recorded in DESIGN.md: the original decoder underflows when
// end precedes start, this one does not.
func flowAge(start, end uint64) time.Duration {
	if end < start {
		return 0
	}
	return time.Duration(end-start) * time.Millisecond
}
