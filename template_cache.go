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
	"fmt"
	"sync"
	"time"
)

// TemplateKey identifies a template within the scope it was advertised in.
// Observation domain id and template id are independent namespaces per
// RFC 7011 §3.4.1, so both are required to address a template uniquely.
type TemplateKey struct {
	ObservationDomainID uint32
	TemplateID          uint16
}

func (k TemplateKey) String() string {
	return fmt.Sprintf("%d/%d", k.ObservationDomainID, k.TemplateID)
}

// Template is an installed schema: the field layout from its defining
// TemplateRecord, plus the bookkeeping a cache needs to report on itself.
type Template struct {
	Key                 TemplateKey
	Fields              []FieldSpecifier
	CreationTimestamp   time.Time
}

// stride returns the fixed byte length of one data record under this
// template, and whether the template is fixed-stride at all.
func (t Template) stride() (int, bool) {
	return TemplateRecord{Fields: t.Fields}.stride()
}

// TemplateCache stores templates advertised by exporters, keyed by
// observation domain and template id. Implementations must be safe for
// concurrent use: Add and Get may be called from different goroutines
// servicing different datagrams.
type TemplateCache interface {
	// Add installs or replaces the template for key. Replacing an
	// existing key (an exporter re-announcing a template, e.g. after
	// restart) is not an error: the new definition simply wins.
	Add(key TemplateKey, fields []FieldSpecifier)

	// Get returns the template for key, or ok == false if none has
	// been installed yet.
	Get(key TemplateKey) (Template, bool)

	// Delete removes the template for key, if any.
	Delete(key TemplateKey)

	// Len reports the number of templates currently cached.
	Len() int
}

// EphemeralCache is a TemplateCache backed by an in-memory map guarded by
// a RWMutex. Templates live for the lifetime of the process; there is no
// expiry and no persistence across restarts, matching the transient,
// rebuild-on-reconnect lifecycle of IPFIX templates.
type EphemeralCache struct {
	mu        sync.RWMutex
	templates map[TemplateKey]Template
}

var _ TemplateCache = (*EphemeralCache)(nil)

// NewEphemeralCache constructs an empty, ready to use cache.
func NewEphemeralCache() *EphemeralCache {
	return &EphemeralCache{
		templates: make(map[TemplateKey]Template),
	}
}

func (c *EphemeralCache) Add(key TemplateKey, fields []FieldSpecifier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.templates[key] = Template{
		Key:               key,
		Fields:            fields,
		CreationTimestamp: time.Now(),
	}
}

func (c *EphemeralCache) Get(key TemplateKey) (Template, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.templates[key]
	return t, ok
}

func (c *EphemeralCache) Delete(key TemplateKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.templates, key)
}

func (c *EphemeralCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.templates)
}
