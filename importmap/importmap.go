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
// Package importmap provides the import map documents cssmap fetches and the
// resolved specifier mapping it rewrites stylesheets with.
// See https://developer.mozilla.org/en-US/docs/Web/HTML/Element/script/type/importmap
package importmap

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Target is the value of an import map entry. Documents may give either a
// single URL or an ordered list of fallbacks; only the first is ever used.
type Target []string

// URL returns the first candidate, or "" for an empty list.
func (t Target) URL() string {
	if len(t) == 0 {
		return ""
	}
	return t[0]
}

// UnmarshalJSON accepts a string or an array of strings.
func (t *Target) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = Target{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("import map target must be a string or an array of strings: %s", data)
	}
	*t = Target(list)
	return nil
}

// MarshalJSON writes single-candidate targets as a plain string.
func (t Target) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return json.Marshal(t[0])
	}
	return json.Marshal([]string(t))
}

// Document is a remote import map document.
type Document struct {
	// Imports maps specifiers to targets.
	Imports map[string]Target `json:"imports,omitempty"`
}

// Parse parses JSON data into a Document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Merge combines this document with another, with the other taking
// precedence on shared specifiers. Entries are replaced whole, never merged.
// The result is a new Document; neither input is modified.
func (doc *Document) Merge(other *Document) *Document {
	if doc == nil {
		if other == nil {
			return &Document{}
		}
		return other.Clone()
	}
	if other == nil {
		return doc.Clone()
	}

	result := &Document{Imports: make(map[string]Target, len(doc.Imports)+len(other.Imports))}
	maps.Copy(result.Imports, doc.Imports)
	maps.Copy(result.Imports, other.Imports)
	if len(result.Imports) == 0 {
		result.Imports = nil
	}
	return result
}

// Clone creates a copy of the document. Targets are shared.
func (doc *Document) Clone() *Document {
	if doc == nil {
		return nil
	}
	result := &Document{}
	if doc.Imports != nil {
		result.Imports = maps.Clone(doc.Imports)
	}
	return result
}

// Specifiers returns the document's specifiers in sorted order.
func (doc *Document) Specifiers() []string {
	if doc == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(doc.Imports))
}
