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

package publisher

import (
	"context"
	"encoding/json"

	"github.com/flowkit/ipfixd"
	"github.com/go-logr/logr"
)

// Console publishes each Flow as one structured info-level log line,
// through whichever logr.Logger the enclosing context carries (see
// ipfix.FromContext). It never fails: Publish always returns nil, matching
// the "formatted console writer" collaborator described as external to the
// core.
type Console struct {
	Log logr.Logger
}

var _ Publisher = Console{}

// NewConsole constructs a Console publisher logging through log.
func NewConsole(log logr.Logger) Console {
	return Console{Log: log.WithName("publisher.console")}
}

func (c Console) Publish(ctx context.Context, flow *ipfix.Flow) error {
	log := c.Log
	if ctx != nil {
		log = ipfix.FromContext(ctx).WithName("publisher.console")
	}
	b, err := json.Marshal(flow)
	if err != nil {
		log.Error(err, "failed to marshal flow")
		return nil
	}
	log.Info("flow", "flow", json.RawMessage(b))
	return nil
}

func (c Console) Close(ctx context.Context) error {
	return nil
}
