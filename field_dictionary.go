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

// FieldDescriptor names one enterprise-0 information element and supplies
// the decoder its bytes should be run through.
type FieldDescriptor struct {
	Name   string
	Decode func(b []byte) Value
}

// numberField decodes via parse_number, falling back to Unknown on a bad
// byte width rather than failing the whole record (§7 FieldDecodeError).
func numberField(b []byte) Value {
	v, err := parseNumber(b)
	if err != nil {
		return unknownValue(b)
	}
	return v
}

func ipv4Field(b []byte) Value {
	v, err := parseIPv4(b)
	if err != nil {
		return unknownValue(b)
	}
	return v
}

func ipv6Field(b []byte) Value {
	v, err := parseIPv6(b)
	if err != nil {
		return unknownValue(b)
	}
	return v
}

func macField(b []byte) Value {
	v, err := parseMAC(b)
	if err != nil {
		return unknownValue(b)
	}
	return v
}

func stringField(b []byte) Value {
	return parseString(b)
}

func bytesField(b []byte) Value {
	return parseBytes(b)
}

// FieldDictionary maps enterprise-0 IPFIX information element ids to their
// name and decoder. It is a build-time constant (§9 "Field dictionary as
// static data") covering the IANA IPFIX Information Elements registry
// entries this collector is prepared to recognize; ids absent from this
// table decode to Value::Unknown wherever a Parser cannot find them.
var FieldDictionary = map[uint16]FieldDescriptor{
	1:   {"octetDeltaCount", numberField},
	2:   {"packetDeltaCount", numberField},
	3:   {"deltaFlowCount", numberField},
	4:   {"protocolIdentifier", numberField},
	5:   {"ipClassOfService", numberField},
	6:   {"tcpControlBits", numberField},
	7:   {"sourceTransportPort", numberField},
	8:   {"sourceIPv4Address", ipv4Field},
	9:   {"sourceIPv4PrefixLength", numberField},
	10:  {"ingressInterface", numberField},
	11:  {"destinationTransportPort", numberField},
	12:  {"destinationIPv4Address", ipv4Field},
	13:  {"destinationIPv4PrefixLength", numberField},
	14:  {"egressInterface", numberField},
	15:  {"ipNextHopIPv4Address", ipv4Field},
	16:  {"bgpSourceAsNumber", numberField},
	17:  {"bgpDestinationAsNumber", numberField},
	18:  {"bgpNextHopIPv4Address", ipv4Field},
	19:  {"postMCastPacketDeltaCount", numberField},
	20:  {"postMCastOctetDeltaCount", numberField},
	21:  {"flowEndSysUpTime", numberField},
	22:  {"flowStartSysUpTime", numberField},
	23:  {"postOctetDeltaCount", numberField},
	24:  {"postPacketDeltaCount", numberField},
	25:  {"minimumIpTotalLength", numberField},
	26:  {"maximumIpTotalLength", numberField},
	27:  {"sourceIPv6Address", ipv6Field},
	28:  {"destinationIPv6Address", ipv6Field},
	29:  {"sourceIPv6PrefixLength", numberField},
	30:  {"destinationIPv6PrefixLength", numberField},
	31:  {"flowLabelIPv6", numberField},
	32:  {"icmpTypeCodeIPv4", numberField},
	33:  {"igmpType", numberField},
	36:  {"flowActiveTimeout", numberField},
	37:  {"flowIdleTimeout", numberField},
	40:  {"exportedOctetTotalCount", numberField},
	41:  {"exportedMessageTotalCount", numberField},
	42:  {"exportedFlowRecordTotalCount", numberField},
	44:  {"sourceIPv4Prefix", ipv4Field},
	45:  {"destinationIPv4Prefix", ipv4Field},
	46:  {"mplsTopLabelType", numberField},
	47:  {"mplsTopLabelIPv4Address", ipv4Field},
	52:  {"minimumTTL", numberField},
	53:  {"maximumTTL", numberField},
	54:  {"fragmentIdentification", numberField},
	55:  {"postIpClassOfService", numberField},
	56:  {"sourceMacAddress", macField},
	57:  {"postDestinationMacAddress", macField},
	58:  {"vlanId", numberField},
	59:  {"postVlanId", numberField},
	60:  {"ipVersion", numberField},
	61:  {"flowDirection", numberField},
	62:  {"ipNextHopIPv6Address", ipv6Field},
	63:  {"bgpNextHopIPv6Address", ipv6Field},
	64:  {"ipv6ExtensionHeaders", numberField},
	70:  {"mplsTopLabelStackSection", bytesField},
	80:  {"destinationMacAddress", macField},
	81:  {"destinationMacAddress", macField},
	82:  {"interfaceName", stringField},
	83:  {"interfaceDescription", stringField},
	84:  {"samplerName", stringField},
	85:  {"octetTotalCount", numberField},
	86:  {"packetTotalCount", numberField},
	88:  {"fragmentOffset", numberField},
	90:  {"mplsVpnRouteDistinguisher", bytesField},
	128: {"bgpNextAdjacentAsNumber", numberField},
	129: {"bgpPrevAdjacentAsNumber", numberField},
	130: {"exporterIPv4Address", ipv4Field},
	131: {"exporterIPv6Address", ipv6Field},
	132: {"droppedOctetDeltaCount", numberField},
	133: {"droppedPacketDeltaCount", numberField},
	136: {"flowEndReason", numberField},
	137: {"commonPropertiesId", numberField},
	138: {"observationPointId", numberField},
	139: {"icmpTypeCodeIPv6", numberField},
	140: {"mplsTopLabelIPv6Address", ipv6Field},
	141: {"lineCardId", numberField},
	142: {"portId", numberField},
	143: {"meteringProcessId", numberField},
	144: {"exportingProcessId", numberField},
	145: {"templateId", numberField},
	146: {"wlanChannelId", numberField},
	147: {"wlanSSID", stringField},
	148: {"flowId", numberField},
	149: {"observationDomainId", numberField},
	150: {"flowStartSeconds", numberField},
	151: {"flowEndSeconds", numberField},
	152: {"flowStartMilliseconds", numberField},
	153: {"flowEndMilliseconds", numberField},
	154: {"flowStartMicroseconds", numberField},
	155: {"flowEndMicroseconds", numberField},
	156: {"flowStartNanoseconds", numberField},
	157: {"flowEndNanoseconds", numberField},
	160: {"systemInitTimeMilliseconds", numberField},
	161: {"flowDurationMilliseconds", numberField},
	162: {"flowDurationMicroseconds", numberField},
	163: {"observedFlowTotalCount", numberField},
	164: {"ignoredPacketTotalCount", numberField},
	165: {"ignoredOctetTotalCount", numberField},
	166: {"notSentFlowTotalCount", numberField},
	167: {"notSentPacketTotalCount", numberField},
	168: {"notSentOctetTotalCount", numberField},
	169: {"destinationIPv6Prefix", ipv6Field},
	170: {"sourceIPv6Prefix", ipv6Field},
	171: {"postOctetTotalCount", numberField},
	172: {"postPacketTotalCount", numberField},
	173: {"flowKeyIndicator", numberField},
	174: {"postMCastPacketTotalCount", numberField},
	175: {"postMCastOctetTotalCount", numberField},
	176: {"icmpTypeIPv4", numberField},
	177: {"icmpCodeIPv4", numberField},
	178: {"icmpTypeIPv6", numberField},
	179: {"icmpCodeIPv6", numberField},
	180: {"udpSourcePort", numberField},
	181: {"udpDestinationPort", numberField},
	182: {"tcpSourcePort", numberField},
	183: {"tcpDestinationPort", numberField},
	184: {"tcpSequenceNumber", numberField},
	185: {"tcpAcknowledgementNumber", numberField},
	186: {"tcpWindowSize", numberField},
	187: {"tcpUrgentPointer", numberField},
	188: {"tcpHeaderLength", numberField},
	189: {"ipHeaderLength", numberField},
	190: {"totalLengthIPv4", numberField},
	191: {"payloadLengthIPv6", numberField},
	192: {"ipTTL", numberField},
	193: {"nextHeaderIPv6", numberField},
	194: {"mplsPayloadLength", numberField},
	195: {"ipDiffServCodePoint", numberField},
	196: {"ipPrecedence", numberField},
	197: {"fragmentFlags", numberField},
	198: {"octetDeltaSumOfSquares", numberField},
	199: {"octetTotalSumOfSquares", numberField},
	200: {"mplsTopLabelTTL", numberField},
	201: {"mplsLabelStackLength", numberField},
	202: {"mplsLabelStackDepth", numberField},
	203: {"mplsTopLabelExp", numberField},
	204: {"ipPayloadLength", numberField},
	205: {"udpMessageLength", numberField},
	206: {"isMulticast", numberField},
	207: {"ipv4IHL", numberField},
	208: {"ipv4Options", numberField},
	209: {"tcpOptions", bytesField},
	210: {"paddingOctets", bytesField},
	211: {"collectorIPv4Address", ipv4Field},
	212: {"collectorIPv6Address", ipv6Field},
	213: {"exportInterface", numberField},
	214: {"exportProtocolVersion", numberField},
	215: {"exportTransportProtocol", numberField},
	216: {"collectorTransportPort", numberField},
	217: {"exporterTransportPort", numberField},
	218: {"tcpSynTotalCount", numberField},
	219: {"tcpFinTotalCount", numberField},
	220: {"tcpRstTotalCount", numberField},
	221: {"tcpPshTotalCount", numberField},
	222: {"tcpAckTotalCount", numberField},
	223: {"tcpUrgTotalCount", numberField},
	224: {"ipTotalLength", numberField},
	225: {"postNATSourceIPv4Address", ipv4Field},
	226: {"postNATDestinationIPv4Address", ipv4Field},
	227: {"postNAPTSourceTransportPort", numberField},
	228: {"postNAPTDestinationTransportPort", numberField},
	229: {"natOriginatingAddressRealm", numberField},
	230: {"natEvent", numberField},
	231: {"initiatorOctets", numberField},
	232: {"responderOctets", numberField},
	233: {"firewallEvent", numberField},
	234: {"ingressVRFID", numberField},
	235: {"egressVRFID", numberField},
	236: {"VRFname", stringField},
	237: {"postMplsTopLabelExp", numberField},
	238: {"tcpWindowScale", numberField},
	239: {"biflowDirection", numberField},
	240: {"ethernetHeaderLength", numberField},
	241: {"ethernetPayloadLength", numberField},
	242: {"ethernetTotalLength", numberField},
	243: {"dot1qVlanId", numberField},
	244: {"dot1qPriority", numberField},
	245: {"dot1qCustomerVlanId", numberField},
	246: {"dot1qCustomerPriority", numberField},
	247: {"metroEvcId", stringField},
	248: {"metroEvcType", numberField},
	249: {"pseudoWireId", numberField},
	250: {"pseudoWireType", numberField},
	251: {"pseudoWireControlWord", numberField},
	252: {"ingressPhysicalInterface", numberField},
	253: {"egressPhysicalInterface", numberField},
	254: {"postDot1qVlanId", numberField},
	255: {"postDot1qCustomerVlanId", numberField},
	256: {"ethernetType", numberField},
	257: {"postIpPrecedence", numberField},
	258: {"collectionTimeMilliseconds", numberField},
	259: {"exportSctpStreamId", numberField},
	260: {"maxExportSeconds", numberField},
	261: {"maxFlowEndSeconds", numberField},
	262: {"messageMD5Checksum", bytesField},
	263: {"messageScope", numberField},
	264: {"minExportSeconds", numberField},
	265: {"minFlowStartSeconds", numberField},
	266: {"opaqueOctets", bytesField},
	267: {"sessionScope", numberField},
	268: {"maxFlowEndMicroseconds", numberField},
	269: {"maxFlowEndMilliseconds", numberField},
	270: {"maxFlowEndNanoseconds", numberField},
	271: {"minFlowStartMicroseconds", numberField},
	272: {"minFlowStartMilliseconds", numberField},
	273: {"minFlowStartNanoseconds", numberField},
}

// LookupField returns the descriptor registered for an enterprise-0 field
// id, or ok == false if none is registered.
func LookupField(id uint16) (FieldDescriptor, bool) {
	fd, ok := FieldDictionary[id]
	return fd, ok
}
