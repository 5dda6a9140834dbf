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
// Package packagejson parses the parts of package.json that cssmap reads.
package packagejson

import (
	"bytes"
	"encoding/json"
	"errors"

	"bennypowers.dev/cssmap/fs"
)

// ErrNoEikConfig is returned by EikConfig when package.json has no usable
// "eik" object.
var ErrNoEikConfig = errors.New("package.json has no eik configuration")

// PackageJSON represents the subset of package.json relevant to cssmap.
type PackageJSON struct {
	Name    string          `json:"name"`
	Version string          `json:"version"`
	Eik     json.RawMessage `json:"eik,omitempty"`
}

// Parse parses package.json data.
func Parse(data []byte) (*PackageJSON, error) {
	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// ParseFile parses a package.json file.
func ParseFile(fs fs.FileSystem, path string) (*PackageJSON, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// EikConfig decodes the "eik" field as a JSON object, keeping each member raw.
// Returns ErrNoEikConfig when the field is absent, null, or not an object.
func (pkg *PackageJSON) EikConfig() (map[string]json.RawMessage, error) {
	raw := bytes.TrimSpace(pkg.Eik)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ErrNoEikConfig
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, errors.Join(ErrNoEikConfig, err)
	}
	return fields, nil
}
