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
	"sync"

	"github.com/go-logr/logr"
)

// rootLog backs FromContext when the caller has no logger in its context
// (e.g. the UDP listener's accept goroutine, started before a per-request
// context exists). ipfixd's cmd/ipfixd/main.go calls SetLogger exactly
// once at startup; nothing here needs to support rebinding it afterward.
var (
	rootLogMu sync.RWMutex
	rootLog   = logr.Discard()
)

// SetLogger installs the logger returned by FromContext for callers that
// were not handed one through their context.
func SetLogger(l logr.Logger) {
	rootLogMu.Lock()
	defer rootLogMu.Unlock()
	rootLog = l
}

// FromContext returns the logger carried by ctx, falling back to the
// logger installed via SetLogger.
func FromContext(ctx context.Context, keysAndValues ...interface{}) logr.Logger {
	if ctx != nil {
		if logger, err := logr.FromContext(ctx); err == nil {
			return logger.WithValues(keysAndValues...)
		}
	}
	rootLogMu.RLock()
	defer rootLogMu.RUnlock()
	return rootLog.WithValues(keysAndValues...)
}

// IntoContext returns a copy of ctx carrying l, retrievable via FromContext.
func IntoContext(ctx context.Context, l logr.Logger) context.Context {
	return logr.NewContext(ctx, l)
}
