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

package flags

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"bennypowers.dev/cssmap/internal/mapfs"
)

func TestParseImports(t *testing.T) {
	got, err := ParseImports([]string{
		"./a.css=https://cdn.example/a.css",
		"/b.css=https://cdn.example/b.css?v=2",
	})
	if err != nil {
		t.Fatalf("ParseImports failed: %v", err)
	}
	if got["./a.css"].URL() != "https://cdn.example/a.css" {
		t.Errorf("./a.css = %v", got["./a.css"])
	}
	if got["/b.css"].URL() != "https://cdn.example/b.css?v=2" {
		t.Errorf("/b.css = %v, want everything after the first '='", got["/b.css"])
	}

	for _, bad := range []string{"no-equals", "=https://x"} {
		if _, err := ParseImports([]string{bad}); err == nil {
			t.Errorf("ParseImports(%q) succeeded, want error", bad)
		}
	}
}

func TestTransformOptions(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	viper.Set("package", dir)
	viper.Set("package-json", "/elsewhere/package.json")
	viper.Set("map", []string{"https://maps.example/a.json"})
	viper.Set("import", []string{"./a.css=https://cdn.example/a.css"})

	opts, err := TransformOptions(mapfs.New(), nil)
	if err != nil {
		t.Fatalf("TransformOptions failed: %v", err)
	}
	if opts.Path != filepath.Join(dir, "eik.json") {
		t.Errorf("Path = %q", opts.Path)
	}
	if opts.PackagePath != "/elsewhere/package.json" {
		t.Errorf("PackagePath = %q", opts.PackagePath)
	}
	if len(opts.URLs) != 1 || opts.URLs[0] != "https://maps.example/a.json" {
		t.Errorf("URLs = %v", opts.URLs)
	}
	if opts.Imports["./a.css"].URL() != "https://cdn.example/a.css" {
		t.Errorf("Imports = %v", opts.Imports)
	}
}
