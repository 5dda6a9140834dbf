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

package fetch

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bennypowers.dev/cssmap/importmap"
)

// Maps fetches every source concurrently and merges their imports in source
// order, later sources overriding earlier ones. The first failure cancels
// the remaining requests and is returned as *AggregateError; no partial
// result is kept. With no sources nothing is fetched.
func Maps(ctx context.Context, fetcher Fetcher, sources []string, log *zap.Logger) (map[string]importmap.Target, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("fetch")

	if len(sources) == 0 {
		return map[string]importmap.Target{}, nil
	}

	docs := make([]*importmap.Document, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, source := range sources {
		g.Go(func() error {
			doc, err := fetchOne(gctx, fetcher, source)
			if err != nil {
				return err
			}
			log.Debug("Fetched import map", zap.String("url", source), zap.Int("imports", len(doc.Imports)))
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &AggregateError{Err: err}
	}

	var merged *importmap.Document
	for _, doc := range docs {
		merged = merged.Merge(doc)
	}
	if merged.Imports == nil {
		return map[string]importmap.Target{}, nil
	}
	return merged.Imports, nil
}

func fetchOne(ctx context.Context, fetcher Fetcher, source string) (*importmap.Document, error) {
	body, err := fetcher.Fetch(ctx, source)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			return nil, classify(fe)
		}
		return nil, err
	}
	doc, err := importmap.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", source, err)
	}
	return doc, nil
}
