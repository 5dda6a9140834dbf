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

// Package batch rewrites the @import rules of many stylesheets in parallel,
// sharing one resolved import map between them.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"bennypowers.dev/cssmap/fs"
	"bennypowers.dev/cssmap/stylesheet"
	"bennypowers.dev/cssmap/transform"
)

// Options configures a batch rewrite.
type Options struct {
	// Parallel is the number of parallel workers. Default: number of CPUs.
	Parallel int
	// DryRun prevents writing files when true.
	DryRun bool
	Logger *zap.Logger
}

// Result holds the result of rewriting a single file.
type Result struct {
	File      string `json:"file"`
	Modified  bool   `json:"modified"`
	Rewritten int    `json:"rewritten,omitempty"`
	Removed   int    `json:"removed,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Stats holds aggregate statistics from a batch rewrite.
type Stats struct {
	Total     int `json:"total"`
	Modified  int `json:"modified"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
	Rewritten int `json:"rewritten"`
	Removed   int `json:"removed"`
}

// Add folds a result into the stats.
func (s *Stats) Add(r Result) {
	s.Total++
	s.Rewritten += r.Rewritten
	s.Removed += r.Removed
	switch {
	case r.Error != "":
		s.Errors++
	case r.Modified:
		s.Modified++
	default:
		s.Skipped++
	}
}

// Rewrite applies the plugin's mapping to one stylesheet's source.
func Rewrite(ctx context.Context, plugin *transform.Plugin, parser *stylesheet.Parser, data []byte, source string) ([]byte, transform.Report, error) {
	sheet, err := parser.Parse(data, source)
	if err != nil {
		return nil, transform.Report{}, fmt.Errorf("parsing %s: %w", source, err)
	}
	pr := plugin.Prepare()
	if err := pr.Run(ctx, sheet); err != nil {
		return nil, transform.Report{}, err
	}
	return []byte(sheet.String()), pr.Report(), nil
}

// RewriteBatch rewrites files in place using a pool of workers. Every file
// gets its own Processor; the import map is resolved once for all of them.
func RewriteBatch(ctx context.Context, osfs fs.FileSystem, plugin *transform.Plugin, files []string, opts Options) <-chan Result {
	results := make(chan Result, len(files))

	go func() {
		defer close(results)

		parallel := opts.Parallel
		if parallel <= 0 {
			parallel = runtime.NumCPU()
		}
		log := opts.Logger
		if log == nil {
			log = zap.NewNop()
		}
		parser := stylesheet.NewParser(log)

		jobs := make(chan string, len(files))

		var wg sync.WaitGroup
		for range parallel {
			wg.Go(func() {
				for file := range jobs {
					results <- rewriteFile(ctx, osfs, plugin, parser, file, opts.DryRun)
				}
			})
		}

		for _, file := range files {
			jobs <- file
		}
		close(jobs)

		wg.Wait()
	}()

	return results
}

func rewriteFile(ctx context.Context, osfs fs.FileSystem, plugin *transform.Plugin, parser *stylesheet.Parser, file string, dryRun bool) Result {
	result := Result{File: file}

	content, err := osfs.ReadFile(file)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	rewritten, report, err := Rewrite(ctx, plugin, parser, content, file)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Rewritten = report.Rewritten
	result.Removed = report.Removed

	if string(rewritten) == string(content) {
		return result
	}
	result.Modified = true

	if dryRun {
		return result
	}

	if err := fs.Replace(osfs, file, rewritten); err != nil {
		result.Error = fmt.Sprintf("failed to write file: %v", err)
		result.Modified = false
	}
	return result
}

// Errors combines the errors of failed results, in the order given.
func Errors(results []Result) error {
	var err error
	for _, r := range results {
		if r.Error != "" {
			err = multierr.Append(err, fmt.Errorf("%s: %s", r.File, r.Error))
		}
	}
	return err
}
