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
	"errors"
	"testing"
)

func TestNumberCoercionMonotonicity(t *testing.T) {
	cases := []struct {
		bytes []byte
		width int
	}{
		{[]byte{0x2a}, 1},
		{[]byte{0x01, 0x02}, 2},
		{[]byte{0x00, 0x01, 0x02, 0x03}, 4},
		{[]byte{0, 0, 0, 0, 0, 0, 0, 1}, 8},
	}
	for _, c := range cases {
		v, err := parseNumber(c.bytes)
		if err != nil {
			t.Fatalf("parseNumber(%v): %v", c.bytes, err)
		}

		if _, ok := v.AsU8(); c.width <= 1 && !ok {
			t.Errorf("width %d: AsU8 ok=false, want true", c.width)
		} else if c.width > 1 && ok {
			t.Errorf("width %d: AsU8 ok=true, want false", c.width)
		}

		if _, ok := v.AsU16(); c.width <= 2 && !ok {
			t.Errorf("width %d: AsU16 ok=false, want true", c.width)
		} else if c.width > 2 && ok {
			t.Errorf("width %d: AsU16 ok=true, want false", c.width)
		}

		if _, ok := v.AsU32(); c.width <= 4 && !ok {
			t.Errorf("width %d: AsU32 ok=false, want true", c.width)
		} else if c.width > 4 && ok {
			t.Errorf("width %d: AsU32 ok=true, want false", c.width)
		}

		if _, ok := v.AsU64(); !ok {
			t.Errorf("width %d: AsU64 ok=false, want true", c.width)
		}
	}
}

func TestParseNumberBadWidth(t *testing.T) {
	_, err := parseNumber([]byte{1, 2, 3})
	if !errors.Is(err, ErrBadNumberWidth) {
		t.Fatalf("got %v, want ErrBadNumberWidth", err)
	}
}

func TestParseIPv4(t *testing.T) {
	v, err := parseIPv4([]byte{10, 0, 0, 1})
	if err != nil {
		t.Fatalf("parseIPv4: %v", err)
	}
	ip, ok := v.AsIPv4()
	if !ok || ip.String() != "10.0.0.1" {
		t.Fatalf("got (%v, %v), want (10.0.0.1, true)", ip, ok)
	}
	if _, ok := v.AsIPv6(); ok {
		t.Fatalf("AsIPv6 on an IPv4 Value should not succeed")
	}
}

func TestParseMACWidths(t *testing.T) {
	if _, err := parseMAC(make([]byte, 6)); err != nil {
		t.Errorf("6-byte MAC: %v", err)
	}
	if _, err := parseMAC(make([]byte, 8)); err != nil {
		t.Errorf("8-byte MAC: %v", err)
	}
	if _, err := parseMAC(make([]byte, 5)); !errors.Is(err, ErrBadMACWidth) {
		t.Errorf("5-byte MAC: got %v, want ErrBadMACWidth", err)
	}
}

func TestParseStringLossyReplacement(t *testing.T) {
	v := parseString([]byte{'o', 'k', 0xff, 0xfe})
	s, ok := v.AsString()
	if !ok {
		t.Fatalf("AsString ok=false")
	}
	if s[:2] != "ok" {
		t.Fatalf("got %q, want prefix \"ok\"", s)
	}
}
