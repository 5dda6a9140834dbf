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

// Package transform rewrites CSS @import rules that reference import map
// specifiers to the absolute URLs those specifiers map to.
//
// A Plugin resolves the import map once, eagerly, when it is created: it
// loads eik.json and package.json, fetches every map source, and builds an
// importmap.Mapping. Each stylesheet is then handled by its own Processor,
// which exposes the two hooks a host pipeline drives: Once, a whole-sheet
// pass run before anything else, and AtRule, called for every @import rule
// the host visits. Both await the same mapping.
package transform

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/zap"

	"bennypowers.dev/cssmap/config"
	"bennypowers.dev/cssmap/fetch"
	"bennypowers.dev/cssmap/fs"
	"bennypowers.dev/cssmap/importmap"
)

// Name identifies the transform to host pipelines.
const Name = "cssmap/import-map"

// Options configures a Plugin.
type Options struct {
	// Path is the eik.json location. Default: eik.json in the working directory.
	Path string
	// PackagePath is the package.json location. Default: package.json in the working directory.
	PackagePath string
	// URLs are map sources fetched before those named by config.
	URLs []string
	// Imports are inline entries. They override fetched entries.
	Imports map[string]importmap.Target

	FS      fs.FileSystem
	Fetcher fetch.Fetcher
	Logger  *zap.Logger
}

// Plugin owns the import map resolution for one build.
type Plugin struct {
	log     *zap.Logger
	mapping *future[*importmap.Mapping]
}

// New starts resolving the import map in the background and returns
// immediately. Cancelling ctx aborts in-flight fetches.
func New(ctx context.Context, opts Options) *Plugin {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.FS == nil {
		opts.FS = fs.NewOSFileSystem()
	}
	if opts.Fetcher == nil {
		opts.Fetcher = fetch.NewHTTPFetcher()
	}
	if opts.Path == "" || opts.PackagePath == "" {
		cwd, _ := os.Getwd()
		if opts.Path == "" {
			opts.Path = filepath.Join(cwd, config.LegacyFile)
		}
		if opts.PackagePath == "" {
			opts.PackagePath = filepath.Join(cwd, config.PackageFile)
		}
	}

	p := &Plugin{log: opts.Logger.Named("transform")}
	p.mapping = startFuture(func() (*importmap.Mapping, error) {
		return resolve(ctx, opts)
	})
	return p
}

// resolve merges caller and config map sources, fetches them, and builds
// the mapping with inline imports layered on top.
func resolve(ctx context.Context, opts Options) (*importmap.Mapping, error) {
	fromConfig, err := config.LoadMapSources(opts.FS, opts.Path, opts.PackagePath, opts.Logger)
	if err != nil {
		return nil, err
	}
	sources := append(slices.Clone(opts.URLs), fromConfig...)

	fetched, err := fetch.Maps(ctx, opts.Fetcher, sources, opts.Logger)
	if err != nil {
		return nil, err
	}

	mapping, err := importmap.Build(fetched, opts.Imports)
	if err != nil {
		return nil, err
	}
	opts.Logger.Named("transform").Debug("Resolved import map",
		zap.Int("sources", len(sources)),
		zap.Int("entries", mapping.Len()))
	return mapping, nil
}

// Mapping waits for the import map to be resolved.
func (p *Plugin) Mapping(ctx context.Context) (*importmap.Mapping, error) {
	return p.mapping.wait(ctx)
}

// Prepare returns a Processor for one stylesheet. Processors share the
// plugin's mapping but nothing else.
func (p *Plugin) Prepare() *Processor {
	return &Processor{
		plugin:    p,
		log:       p.log,
		processed: make(map[Declaration]struct{}),
		replaced:  make(map[string]struct{}),
	}
}
