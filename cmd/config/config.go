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

// Package config provides the config command for cssmap.
package config

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"bennypowers.dev/cssmap/config"
	"bennypowers.dev/cssmap/fs"
	"bennypowers.dev/cssmap/internal/flags"
	"bennypowers.dev/cssmap/internal/logging"
	"bennypowers.dev/cssmap/internal/output"
)

// Cmd is the config command.
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Print the merged Eik configuration",
	Long: `Print the Eik configuration merged from eik.json and package.json,
with "import-map" normalized to the ordered list of map sources.`,
	RunE: run,
}

func run(cmd *cobra.Command, args []string) error {
	osfs := fs.NewOSFileSystem()
	legacy, pkg, err := flags.Paths()
	if err != nil {
		return err
	}
	cfg, err := config.Load(osfs, legacy, pkg, logging.FromContext(cmd.Context()))
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	return output.Write(cmd.OutOrStdout(), osfs, string(out))
}
