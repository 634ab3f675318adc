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
	"sync"
	"testing"
)

func TestEphemeralCacheAddGetDelete(t *testing.T) {
	c := NewEphemeralCache()
	key := TemplateKey{ObservationDomainID: 1, TemplateID: 256}

	if _, ok := c.Get(key); ok {
		t.Fatalf("Get on empty cache returned ok=true")
	}

	fields := []FieldSpecifier{{ID: 8, Length: 4}}
	c.Add(key, fields)
	tmpl, ok := c.Get(key)
	if !ok {
		t.Fatalf("Get after Add returned ok=false")
	}
	if len(tmpl.Fields) != 1 || tmpl.Fields[0].ID != 8 {
		t.Fatalf("got %+v", tmpl.Fields)
	}

	c.Delete(key)
	if _, ok := c.Get(key); ok {
		t.Fatalf("Get after Delete returned ok=true")
	}
}

func TestEphemeralCacheDistinctObservationDomains(t *testing.T) {
	c := NewEphemeralCache()
	a := TemplateKey{ObservationDomainID: 1, TemplateID: 256}
	b := TemplateKey{ObservationDomainID: 2, TemplateID: 256}

	c.Add(a, []FieldSpecifier{{ID: 1, Length: 4}})
	if _, ok := c.Get(b); ok {
		t.Fatalf("template installed under domain 1 visible under domain 2")
	}
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
}

func TestEphemeralCacheConcurrentAccess(t *testing.T) {
	c := NewEphemeralCache()
	key := TemplateKey{TemplateID: 256}
	c.Add(key, []FieldSpecifier{{ID: 1, Length: 4}})

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.Add(TemplateKey{TemplateID: uint16(i)}, []FieldSpecifier{{ID: 1, Length: 4}})
		}(i)
		go func() {
			defer wg.Done()
			c.Get(key)
		}()
	}
	wg.Wait()
}
