/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package importmap

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// InvalidTargetError is returned by Build when an entry's target is not an
// absolute URL.
type InvalidTargetError struct {
	Specifier string
	Target    string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("Target for import specifier must be an absolute URL. %q maps to %q", e.Specifier, e.Target)
}

// Mapping is the resolved specifier to URL table for one build.
// It cannot be modified once built.
type Mapping struct {
	entries map[string]string
}

// Build overlays inline entries on fetched ones and resolves the result.
// Entries keyed by bare specifiers are dropped; only "/", "./" and "../"
// prefixed specifiers are kept. Any kept entry whose target does not start
// with "http" fails the whole build with *InvalidTargetError.
func Build(fetched, inline map[string]Target) (*Mapping, error) {
	all := make(map[string]Target, len(fetched)+len(inline))
	maps.Copy(all, fetched)
	maps.Copy(all, inline)

	m := &Mapping{entries: make(map[string]string, len(all))}
	// Sorted so the reported error is stable when several targets are bad.
	for _, specifier := range slices.Sorted(maps.Keys(all)) {
		if IsBare(specifier) {
			continue
		}
		target := all[specifier].URL()
		if !IsAbsoluteURL(target) {
			return nil, &InvalidTargetError{Specifier: specifier, Target: target}
		}
		m.entries[specifier] = target
	}
	return m, nil
}

// IsBare reports whether specifier is package-style rather than a path.
func IsBare(specifier string) bool {
	return !strings.HasPrefix(specifier, "/") &&
		!strings.HasPrefix(specifier, "./") &&
		!strings.HasPrefix(specifier, "../")
}

// IsAbsoluteURL reports whether target is an http(s) URL.
func IsAbsoluteURL(target string) bool {
	return strings.HasPrefix(target, "http")
}

// Get returns the URL mapped to specifier.
func (m *Mapping) Get(specifier string) (string, bool) {
	if m == nil {
		return "", false
	}
	url, ok := m.entries[specifier]
	return url, ok
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Specifiers returns the mapped specifiers in sorted order.
func (m *Mapping) Specifiers() []string {
	if m == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(m.entries))
}

// MarshalJSON renders the mapping as an import map document.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	imports := map[string]string{}
	if m != nil {
		imports = m.entries
	}
	return json.Marshal(struct {
		Imports map[string]string `json:"imports"`
	}{imports})
}

// ToJSON converts the mapping to an indented import map JSON string.
func (m *Mapping) ToJSON() string {
	bytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return ""
	}
	return string(bytes)
}
