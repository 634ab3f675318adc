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

/*
Package ipfix implements a flow-record collector core for IPFIX (RFC 7011)
export datagrams: a binary wire decoder, a template cache correlating data
sets with previously observed template definitions, a pluggable field
decoding pipeline, and a projector from decoded fields into the canonical
Flow record.

# Overview

An IPFIX exporter (router, switch, firewall) periodically announces
template records describing the shape of the flow records it will send,
then sends data sets of raw bytes whose fields can only be interpreted by
looking up the matching template. This package's Session type owns that
correlation: it installs templates as they arrive and, for every data set,
looks up the referenced template and hands each decoded record to a
Parser.

Two Parser implementations are provided. FieldParser is a generic,
dictionary-driven projector that emits a RecordSet of (field id, Value)
pairs, useful for inspection and debugging. FlowParser recognizes a fixed
set of information elements and writes them into a canonical Flow, the
record type this collector ultimately hands to a publisher.

# Data structures

A Message is the top-level decode of one UDP datagram: a 16-byte header
followed by an ordered sequence of Sets. A Set is one of a TemplateSet (one
or more TemplateRecords, each describing a field layout), an OptionsSet
(parsed only enough to be skipped), or a DataSet (an unparsed byte slice,
keyed by the template id it must be decoded against).

Values decoded from a data record's bytes are represented by Value, a
small tagged union over the wire's primitive types: unsigned integers of
1/2/4/8 bytes, IPv4/IPv6 addresses, 6- and 8-byte MAC addresses, UTF-8
strings, and raw byte blobs for anything else. Coercion helpers widen
across integer variants but never narrow, and never panic on a type
mismatch.

# Concurrency

Session's template cache is the only mutable state shared across
concurrently handled datagrams. The default EphemeralCache implementation
guards it with a sync.RWMutex: template installation is exclusive, lookups
during projection run in parallel. Parse, template-install, and projection
are synchronous; only the UDP receive and a publisher's Publish call may
suspend.
*/
package ipfix
