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

package importmap_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"bennypowers.dev/cssmap/importmap"
)

func targets(entries map[string]string) map[string]importmap.Target {
	out := make(map[string]importmap.Target, len(entries))
	for k, v := range entries {
		out[k] = importmap.Target{v}
	}
	return out
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name    string
		fetched map[string]importmap.Target
		inline  map[string]importmap.Target
		want    []string
	}{
		{
			name: "union of disjoint entries",
			fetched: targets(map[string]string{
				"./a.css":    "https://cdn.example/a.css",
				"/b.css":     "https://cdn.example/b.css",
				"../c/d.css": "http://cdn.example/c/d.css",
			}),
			want: []string{"../c/d.css", "./a.css", "/b.css"},
		},
		{
			name: "bare specifiers are dropped",
			fetched: targets(map[string]string{
				"lodash":            "https://cdn.example/lodash.js",
				"@scope/pkg/x.css":  "https://cdn.example/x.css",
				"./kept.css":        "https://cdn.example/kept.css",
				"not-even-a-url":    "relative/path.css",
				".hidden/style.css": "https://cdn.example/hidden.css",
			}),
			want: []string{"./kept.css"},
		},
		{
			name:   "inline only",
			inline: targets(map[string]string{"./a.css": "https://inline.example/a.css"}),
			want:   []string{"./a.css"},
		},
		{
			name: "empty",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := importmap.Build(tt.fetched, tt.inline)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			got := m.Specifiers()
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Specifiers() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildInlineWins(t *testing.T) {
	fetched := targets(map[string]string{"./a.css": "https://fetched.example/a.css"})
	inline := targets(map[string]string{"./a.css": "https://inline.example/a.css"})

	m, err := importmap.Build(fetched, inline)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got, _ := m.Get("./a.css"); got != "https://inline.example/a.css" {
		t.Errorf("Get(./a.css) = %q, want inline target", got)
	}
}

func TestBuildUsesFirstFallback(t *testing.T) {
	fetched := map[string]importmap.Target{
		"./a.css": {"https://first.example/a.css", "https://second.example/a.css"},
	}

	m, err := importmap.Build(fetched, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got, _ := m.Get("./a.css"); got != "https://first.example/a.css" {
		t.Errorf("Get(./a.css) = %q, want first element", got)
	}
}

func TestBuildInvalidTarget(t *testing.T) {
	tests := []struct {
		name   string
		target importmap.Target
	}{
		{"relative target", importmap.Target{"./local/a.css"}},
		{"root target", importmap.Target{"/assets/a.css"}},
		{"empty fallback list", importmap.Target{}},
		{"non-http first fallback", importmap.Target{"ftp://x/a.css", "https://x/a.css"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := importmap.Build(map[string]importmap.Target{"./a.css": tt.target}, nil)
			var invalid *importmap.InvalidTargetError
			if !errors.As(err, &invalid) {
				t.Fatalf("Build() error = %v, want *InvalidTargetError", err)
			}
			if invalid.Specifier != "./a.css" {
				t.Errorf("Specifier = %q", invalid.Specifier)
			}
		})
	}
}

func TestBuildIgnoresInvalidBareTargets(t *testing.T) {
	m, err := importmap.Build(targets(map[string]string{"lodash": "not a url"}), nil)
	if err != nil {
		t.Fatalf("Build failed for a dropped bare entry: %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestMappingJSON(t *testing.T) {
	m, err := importmap.Build(targets(map[string]string{"./a.css": "https://x/a.css"}), nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	var doc struct {
		Imports map[string]string `json:"imports"`
	}
	if err := json.Unmarshal([]byte(m.ToJSON()), &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if doc.Imports["./a.css"] != "https://x/a.css" {
		t.Errorf("ToJSON imports = %v", doc.Imports)
	}

	var nilMapping *importmap.Mapping
	if _, ok := nilMapping.Get("./a.css"); ok {
		t.Error("nil mapping reported a hit")
	}
}
