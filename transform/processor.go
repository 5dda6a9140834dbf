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

package transform

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"bennypowers.dev/cssmap/importmap"
	"bennypowers.dev/cssmap/stylesheet"
)

// Declaration is an @import rule owned by the host's stylesheet tree.
// Implementations must be comparable, normally a pointer type; the
// Processor remembers declarations by identity.
type Declaration interface {
	Params() string
	SetParams(params string)
	Remove()
}

// Report counts what a Processor changed.
type Report struct {
	Rewritten int
	Removed   int
}

// Processor applies the mapping to the @import rules of one stylesheet.
//
// The first rule referencing a mapped specifier is rewritten to the absolute
// URL; later rules referencing the same specifier are removed. Each
// declaration is handled at most once, however many hooks see it.
//
// A Processor is not safe for concurrent use. Hosts visit rules one at a
// time; one that visits in parallel must give each goroutine's rules to a
// single Processor under a lock.
type Processor struct {
	plugin *Plugin
	log    *zap.Logger

	processed map[Declaration]struct{}
	replaced  map[string]struct{}
	report    Report
}

// Once rewrites every @import rule in sheet. Hosts run it before any other
// stage that resolves imports.
func (pr *Processor) Once(ctx context.Context, sheet *stylesheet.Sheet) error {
	mapping, err := pr.plugin.Mapping(ctx)
	if err != nil {
		return err
	}
	sheet.WalkAtRules("import", func(rule *stylesheet.AtRule) {
		pr.apply(mapping, rule)
	})
	return nil
}

// AtRule rewrites a single @import rule. Hosts call it for each rule they
// visit, including rules added after Once ran.
func (pr *Processor) AtRule(ctx context.Context, decl Declaration) error {
	mapping, err := pr.plugin.Mapping(ctx)
	if err != nil {
		return err
	}
	pr.apply(mapping, decl)
	return nil
}

// Run drives both hooks over sheet the way a host pipeline does: Once, then
// AtRule for each @import rule still present.
func (pr *Processor) Run(ctx context.Context, sheet *stylesheet.Sheet) error {
	if err := pr.Once(ctx, sheet); err != nil {
		return err
	}
	for _, rule := range sheet.AtRules("import") {
		if err := pr.AtRule(ctx, rule); err != nil {
			return err
		}
	}
	return nil
}

// Report returns the changes made so far.
func (pr *Processor) Report() Report {
	return pr.report
}

func (pr *Processor) apply(mapping *importmap.Mapping, decl Declaration) {
	if _, ok := pr.processed[decl]; ok {
		return
	}

	specifier := Specifier(decl.Params())
	if _, ok := pr.replaced[specifier]; ok {
		decl.Remove()
		pr.report.Removed++
		pr.log.Debug("Removed duplicate @import", zap.String("specifier", specifier))
	} else if url, ok := mapping.Get(specifier); ok {
		decl.SetParams("'" + url + "'")
		pr.replaced[specifier] = struct{}{}
		pr.report.Rewritten++
		pr.log.Debug("Rewrote @import", zap.String("specifier", specifier), zap.String("url", url))
	}

	pr.processed[decl] = struct{}{}
}

var quotes = strings.NewReplacer(`"`, "", `'`, "")

// Specifier extracts the import specifier from @import params: the first
// url(...) argument if there is one, otherwise the params with quotes
// removed. A leading "~" (webpack's node_modules marker) is dropped.
func Specifier(params string) string {
	var key string
	if urls := stylesheet.URLs(params); len(urls) > 0 {
		key = urls[0]
	} else {
		key = quotes.Replace(params)
	}
	return strings.TrimPrefix(key, "~")
}
