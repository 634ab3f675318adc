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

import "github.com/prometheus/client_golang/prometheus"

var (
	PacketsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "collector_decoded_packets_total",
		Help: "Total number of IPFIX messages successfully decoded",
	})
	ErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "collector_parse_errors_total",
		Help: "Total number of messages dropped whole due to a parse error",
	})
	DurationMicroseconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "collector_decode_duration_microseconds",
		Help:    "Duration of decoding one message, in microseconds",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})
	DecodedSets = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "collector_decoded_sets_total",
		Help: "Total number of decoded sets per kind",
	}, []string{"kind"})
)

// Session / template cache metrics.
var (
	metricTemplatesInstalled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "collector_templates_installed_total",
		Help: "Total number of template records installed or replaced in the template cache",
	})
	metricTemplateMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "collector_template_misses_total",
		Help: "Total number of data sets dropped because their template id was not cached",
	})
	metricRecordsDecoded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "collector_records_decoded_total",
		Help: "Total number of data records split out of data sets for projection",
	})
	metricRecordsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "collector_records_dropped_total",
		Help: "Total number of data records a Parser declined to project",
	})
)

// Flow projection and publishing metrics.
var (
	FlowsProjected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "collector_flows_projected_total",
		Help: "Total number of Flow records produced by the FlowParser",
	})
	PublishErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "collector_publish_errors_total",
		Help: "Total number of publisher errors per sink",
	}, []string{"sink"})
	PublishDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "collector_publish_duration_seconds",
		Help:    "Duration of one Publish call per sink",
		Buckets: prometheus.DefBuckets,
	}, []string{"sink"})
)

// UDP listener metrics.
var (
	UDPPacketsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "udp_listener_packets_total",
		Help: "Total number of datagrams received via the UDP listener",
	})
	UDPErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "udp_listener_errors_total",
		Help: "Total number of errors encountered in the UDP listener",
	})
	UDPPacketBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "udp_listener_packet_bytes",
		Help: "Total number of bytes read by the UDP listener",
	})
)
