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

// Package resolve provides the resolve command for cssmap.
package resolve

import (
	"github.com/spf13/cobra"

	"bennypowers.dev/cssmap/fs"
	"bennypowers.dev/cssmap/internal/flags"
	"bennypowers.dev/cssmap/internal/logging"
	"bennypowers.dev/cssmap/internal/output"
	"bennypowers.dev/cssmap/transform"
)

// Cmd is the resolve command.
var Cmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the import map used to rewrite stylesheets",
	Long: `Fetch and merge the project's import maps and print the resulting
specifier to URL mapping. Bare specifiers are omitted since they are never
rewritten.`,
	Example: `  cssmap resolve
  cssmap resolve --map https://cdn.example/map.json -o map.json`,
	RunE: run,
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	osfs := fs.NewOSFileSystem()

	opts, err := flags.TransformOptions(osfs, logging.FromContext(ctx))
	if err != nil {
		return err
	}
	mapping, err := transform.New(ctx, opts).Mapping(ctx)
	if err != nil {
		return err
	}
	return output.Write(cmd.OutOrStdout(), osfs, mapping.ToJSON())
}
