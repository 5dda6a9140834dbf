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

// Package rewrite provides the rewrite command for cssmap.
package rewrite

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bennypowers.dev/cssmap/batch"
	"bennypowers.dev/cssmap/fs"
	"bennypowers.dev/cssmap/internal/flags"
	"bennypowers.dev/cssmap/internal/logging"
	"bennypowers.dev/cssmap/internal/output"
	"bennypowers.dev/cssmap/stylesheet"
	"bennypowers.dev/cssmap/transform"
)

// Cmd is the rewrite command.
var Cmd = &cobra.Command{
	Use:   "rewrite [files...]",
	Short: "Rewrite CSS @import rules using import maps",
	Long: `Rewrite CSS @import rules whose specifiers appear in the project's import maps.

Import maps are read from the "import-map" field of eik.json or of the "eik"
object in package.json, from --map URLs, and from --import overrides.
The first @import of each mapped specifier is rewritten to the absolute URL;
later @imports of the same specifier are removed.

Files are rewritten in place. Pass "-" to read a stylesheet from stdin and
write the result to stdout (or --output).`,
	Example: `  # Rewrite every stylesheet under dist/
  cssmap rewrite --glob "dist/**/*.css"

  # Add an extra import map and an inline override
  cssmap rewrite --map https://cdn.example/map.json \
    --import ./theme.css=https://cdn.example/theme/v2/theme.css styles.css

  # Preview without writing
  cssmap rewrite --glob "dist/**/*.css" --dry-run

  # Filter mode
  cat in.css | cssmap rewrite - > out.css`,
	RunE: run,
}

func init() {
	Cmd.Flags().String("glob", "", "Glob pattern matching CSS files")
	Cmd.Flags().IntP("jobs", "j", 0, "Number of parallel workers (default: number of CPUs)")
	Cmd.Flags().Bool("dry-run", false, "Show what would change without modifying files")
	Cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)
	osfs := fs.NewOSFileSystem()

	opts, err := flags.TransformOptions(osfs, log)
	if err != nil {
		return err
	}

	if slices.Equal(args, []string{"-"}) {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		plugin := transform.New(ctx, opts)
		out, _, err := batch.Rewrite(ctx, plugin, stylesheet.NewParser(log), data, "<stdin>")
		if err != nil {
			return err
		}
		return output.Write(cmd.OutOrStdout(), osfs, string(out))
	}

	files, err := collectFiles(cmd, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Warn("No files matched")
		return nil
	}

	parallel, _ := cmd.Flags().GetInt("jobs")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	format, _ := cmd.Flags().GetString("format")

	// Resolution starts here, before any file is read.
	plugin := transform.New(ctx, opts)
	results := batch.RewriteBatch(ctx, osfs, plugin, files, batch.Options{
		Parallel: parallel,
		DryRun:   dryRun,
		Logger:   log,
	})

	out := cmd.OutOrStdout()
	encoder := json.NewEncoder(out)
	var stats batch.Stats
	var all []batch.Result
	for result := range results {
		stats.Add(result)
		all = append(all, result)
		switch {
		case format == "json" && (result.Error != "" || result.Modified):
			_ = encoder.Encode(result)
		case result.Error != "":
			log.Error("Rewrite failed", zap.String("file", result.File), zap.String("error", result.Error))
		case result.Modified && dryRun:
			fmt.Fprintf(out, "would rewrite %s\n", result.File)
		}
	}

	if format == "json" {
		_ = encoder.Encode(stats)
	} else {
		verb := "Rewrote"
		if dryRun {
			verb = "Dry run: would rewrite"
		}
		fmt.Fprintf(out, "%s %d files (%d imports rewritten, %d duplicates removed), %d unchanged, %d errors\n",
			verb, stats.Modified, stats.Rewritten, stats.Removed, stats.Skipped, stats.Errors)
	}

	return batch.Errors(all)
}

// collectFiles merges positional files with --glob matches, deduplicated by
// absolute path.
func collectFiles(cmd *cobra.Command, args []string) ([]string, error) {
	candidates := slices.Clone(args)
	if pattern, _ := cmd.Flags().GetString("glob"); pattern != "" {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern: %w", err)
		}
		candidates = append(candidates, matches...)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no input: pass files, --glob, or - for stdin")
	}

	seen := make(map[string]struct{})
	var files []string
	for _, candidate := range candidates {
		absPath, err := filepath.Abs(candidate)
		if err != nil {
			return nil, fmt.Errorf("invalid file path %q: %w", candidate, err)
		}
		if _, exists := seen[absPath]; !exists {
			seen[absPath] = struct{}{}
			files = append(files, absPath)
		}
	}
	return files, nil
}
