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
	"fmt"
)

// Sentinel errors returned by the packet parser. Wrapped with additional
// context via fmt.Errorf("%w", ...); callers should use errors.Is against
// these values rather than string comparison.
var (
	ErrBadVersion      = errors.New("unsupported message version")
	ErrTrailingBytes   = errors.New("trailing bytes after message length")
	ErrReservedSetID   = errors.New("reserved set id")
	ErrEmptyTemplate   = errors.New("template set contains no records")
	ErrShortSet        = errors.New("set body shorter than declared length")
	ErrBadNumberWidth  = errors.New("number field has unsupported byte width")
	ErrBadAddressWidth = errors.New("address field has unsupported byte width")
	ErrBadMACWidth     = errors.New("MAC address field has unsupported byte width")

	ErrTemplateNotFound = errors.New("template not found")
)

func badVersion(v uint16) error {
	return fmt.Errorf("%w: %d, only version 10 (IPFIX) is supported", ErrBadVersion, v)
}

func reservedSetID(id uint16) error {
	return fmt.Errorf("%w: %d", ErrReservedSetID, id)
}

func templateNotFound(key TemplateKey) error {
	return fmt.Errorf("%w: observation domain %d, template %d", ErrTemplateNotFound, key.ObservationDomainID, key.TemplateID)
}
