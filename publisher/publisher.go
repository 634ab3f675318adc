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

// Package publisher provides the downstream sinks a Session's projected
// Flow records are handed to: a structured-log console sink and a
// bulk-indexing Elasticsearch sink, both behind the same Publisher
// contract described in the collector's external interfaces.
package publisher

import (
	"context"

	"github.com/flowkit/ipfixd"
)

// Publisher is the single contract the collector core calls against: one
// Publish per projected Flow, called inline with per-datagram ordering
// preserved; failures are logged by the caller and are never fatal.
type Publisher interface {
	Publish(ctx context.Context, flow *ipfix.Flow) error
	Close(ctx context.Context) error
}
