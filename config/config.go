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

// Package config loads Eik configuration from eik.json and package.json and
// turns it into the ordered list of import map sources to fetch.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"bennypowers.dev/cssmap/fs"
	"bennypowers.dev/cssmap/packagejson"
)

const (
	// LegacyFile is the default name of the standalone Eik config document.
	LegacyFile = "eik.json"
	// PackageFile is the default name of the package metadata document.
	PackageFile = "package.json"
	// ImportMapField names the field listing import map source URLs.
	ImportMapField = "import-map"
)

// ConflictError is returned when both eik.json and the "eik" field of
// package.json define import maps, leaving precedence ambiguous.
type ConflictError struct {
	LegacyPath  string
	PackagePath string
}

func (e *ConflictError) Error() string {
	return "Eik configuration was defined in both in package.json and eik.json. You must specify one or the other."
}

// configReadError records a config document that could not be read or
// decoded. Load never returns it; the document is treated as empty.
type configReadError struct {
	Path string
	Err  error
}

func (e *configReadError) Error() string {
	return fmt.Sprintf("reading config %s: %v", e.Path, e.Err)
}

func (e *configReadError) Unwrap() error {
	return e.Err
}

// Config is the merged Eik configuration.
type Config struct {
	Name    string
	Version string
	Server  string
	Type    string

	// ImportMaps lists import map source URLs in declaration order.
	ImportMaps []string

	fields map[string]json.RawMessage
}

// Field returns a merged config member by name, undecoded.
func (c *Config) Field(name string) (json.RawMessage, bool) {
	raw, ok := c.fields[name]
	return raw, ok
}

// Fields returns the merged member names in sorted order.
func (c *Config) Fields() []string {
	return slices.Sorted(maps.Keys(c.fields))
}

// MarshalJSON renders the merged document, with the import map field
// normalized to an array.
func (c *Config) MarshalJSON() ([]byte, error) {
	out := maps.Clone(c.fields)
	if out == nil {
		out = make(map[string]json.RawMessage)
	}
	sources, err := json.Marshal(c.ImportMaps)
	if err != nil {
		return nil, err
	}
	out[ImportMapField] = sources
	return json.Marshal(out)
}

// Load reads the legacy eik.json at legacyPath and the "eik" object of the
// package.json at packagePath and merges them, package.json members taking
// precedence. Missing or malformed documents count as empty.
func Load(fsys fs.FileSystem, legacyPath, packagePath string, log *zap.Logger) (*Config, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("config")

	legacy, err := readLegacy(fsys, legacyPath)
	if err != nil {
		log.Debug("Ignoring config document", zap.Error(err))
	}
	eik, err := readPackageEik(fsys, packagePath)
	if err != nil {
		log.Debug("Ignoring config document", zap.Error(err))
	}

	if defined(legacy, ImportMapField) && defined(eik, ImportMapField) {
		return nil, &ConflictError{LegacyPath: legacyPath, PackagePath: packagePath}
	}

	merged := make(map[string]json.RawMessage, len(legacy)+len(eik))
	maps.Copy(merged, legacy)
	maps.Copy(merged, eik)

	sources, err := importMaps(merged[ImportMapField])
	if err != nil {
		return nil, err
	}
	delete(merged, ImportMapField)

	cfg := &Config{
		Name:       stringField(merged, "name"),
		Version:    stringField(merged, "version"),
		Server:     stringField(merged, "server"),
		Type:       stringField(merged, "type"),
		ImportMaps: sources,
		fields:     merged,
	}
	log.Debug("Loaded config",
		zap.String("legacy", legacyPath),
		zap.String("package", packagePath),
		zap.Strings("importMaps", sources))
	return cfg, nil
}

// LoadMapSources loads the config and returns only its import map sources.
func LoadMapSources(fsys fs.FileSystem, legacyPath, packagePath string, log *zap.Logger) ([]string, error) {
	cfg, err := Load(fsys, legacyPath, packagePath, log)
	if err != nil {
		return nil, err
	}
	return cfg.ImportMaps, nil
}

func readLegacy(fsys fs.FileSystem, path string) (map[string]json.RawMessage, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, &configReadError{Path: path, Err: err}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &configReadError{Path: path, Err: err}
	}
	return fields, nil
}

func readPackageEik(fsys fs.FileSystem, path string) (map[string]json.RawMessage, error) {
	pkg, err := packagejson.ParseFile(fsys, path)
	if err != nil {
		return nil, &configReadError{Path: path, Err: err}
	}
	fields, err := pkg.EikConfig()
	if err != nil {
		return nil, &configReadError{Path: path, Err: err}
	}
	return fields, nil
}

func defined(fields map[string]json.RawMessage, name string) bool {
	raw, ok := fields[name]
	return ok && !isNull(raw)
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// importMaps normalizes the import map field: a string becomes a one-element
// list, absence becomes an empty list.
func importMaps(raw json.RawMessage) ([]string, error) {
	if isNull(raw) {
		return []string{}, nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("%q must be a string or an array of strings: %w", ImportMapField, err)
	}
	return list, nil
}

func stringField(fields map[string]json.RawMessage, name string) string {
	var s string
	if raw, ok := fields[name]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}
