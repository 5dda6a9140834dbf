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

// Package flags turns the CLI's viper-bound settings into transform options.
package flags

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"bennypowers.dev/cssmap/config"
	"bennypowers.dev/cssmap/fs"
	"bennypowers.dev/cssmap/importmap"
	"bennypowers.dev/cssmap/transform"
)

// Paths returns the eik.json and package.json locations. Explicit
// --eik-json and --package-json values win over the --package directory.
func Paths() (legacy, pkg string, err error) {
	root, err := filepath.Abs(viper.GetString("package"))
	if err != nil {
		return "", "", fmt.Errorf("invalid package directory: %w", err)
	}
	legacy = viper.GetString("eik-json")
	if legacy == "" {
		legacy = filepath.Join(root, config.LegacyFile)
	}
	pkg = viper.GetString("package-json")
	if pkg == "" {
		pkg = filepath.Join(root, config.PackageFile)
	}
	return legacy, pkg, nil
}

// ParseImports parses "specifier=url" pairs into inline import entries.
func ParseImports(pairs []string) (map[string]importmap.Target, error) {
	imports := make(map[string]importmap.Target, len(pairs))
	for _, pair := range pairs {
		specifier, url, ok := strings.Cut(pair, "=")
		if !ok || specifier == "" {
			return nil, fmt.Errorf("invalid --import %q: want specifier=url", pair)
		}
		imports[specifier] = importmap.Target{url}
	}
	return imports, nil
}

// TransformOptions assembles transform.Options from the bound flags.
func TransformOptions(osfs fs.FileSystem, log *zap.Logger) (transform.Options, error) {
	legacy, pkg, err := Paths()
	if err != nil {
		return transform.Options{}, err
	}
	imports, err := ParseImports(viper.GetStringSlice("import"))
	if err != nil {
		return transform.Options{}, err
	}
	return transform.Options{
		Path:        legacy,
		PackagePath: pkg,
		URLs:        viper.GetStringSlice("map"),
		Imports:     imports,
		FS:          osfs,
		Logger:      log,
	}, nil
}
