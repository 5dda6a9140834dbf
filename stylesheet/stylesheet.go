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

// Package stylesheet holds a CSS document as a flat sequence of untouched
// source text and @import rules, so that import rules can be rewritten or
// dropped while every other byte of the input round-trips unchanged.
package stylesheet

import (
	"errors"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Sheet is a parsed stylesheet.
type Sheet struct {
	nodes []node
}

// node is either verbatim source text or an @import rule.
type node struct {
	raw  string
	rule *AtRule
}

// AtRule is one @import statement. Its params are everything between the
// keyword and the terminating semicolon, e.g. `url("a.css") screen`.
type AtRule struct {
	keyword     string // as written, e.g. "@import" or "@IMPORT"
	sep         string // whitespace between keyword and params
	params      string
	afterParams string // whitespace between params and terminator
	terminator  string // ";" or "" at end of input
	trailing    string // whitespace following the rule, dropped with it
	removed     bool
}

// Name returns the lowercased rule name without "@".
func (r *AtRule) Name() string {
	return strings.ToLower(strings.TrimPrefix(r.keyword, "@"))
}

// Params returns the rule's parameter text.
func (r *AtRule) Params() string {
	return r.params
}

// SetParams replaces the rule's parameter text.
func (r *AtRule) SetParams(params string) {
	r.params = params
	if r.sep == "" {
		r.sep = " "
	}
}

// Remove drops the rule, and the whitespace that followed it, from the sheet.
func (r *AtRule) Remove() {
	r.removed = true
}

// Removed reports whether Remove was called.
func (r *AtRule) Removed() bool {
	return r.removed
}

func (r *AtRule) String() string {
	return r.keyword + r.sep + r.params + r.afterParams + r.terminator
}

// Parser parses CSS source into Sheets.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new stylesheet parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("stylesheet")}
}

type token struct {
	tt   css.TokenType
	text string
}

// Parse splits data into a Sheet.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) (*Sheet, error) {
	tokens, err := lex(data)
	if err != nil {
		return nil, err
	}

	sheet := &Sheet{}
	var raw strings.Builder
	flush := func() {
		if raw.Len() > 0 {
			sheet.nodes = append(sheet.nodes, node{raw: raw.String()})
			raw.Reset()
		}
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.tt != css.AtKeywordToken || !strings.EqualFold(tok.text, "@import") {
			raw.WriteString(tok.text)
			continue
		}

		rule, next, rest, ok := parseImport(tokens, i)
		if !ok {
			raw.WriteString(tok.text)
			continue
		}
		flush()
		sheet.nodes = append(sheet.nodes, node{rule: rule})
		raw.WriteString(rest)
		i = next - 1
	}
	flush()

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsed stylesheet",
			zap.String("source", source[0]),
			zap.Int("bytes", len(data)),
			zap.Int("imports", len(sheet.AtRules("import"))))
	}
	return sheet, nil
}

func lex(data []byte) ([]token, error) {
	lexer := css.NewLexer(parse.NewInputBytes(data))
	var tokens []token
	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			if err := lexer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return tokens, nil
		}
		tokens = append(tokens, token{tt: tt, text: string(text)})
	}
}

// parseImport reads the @import statement starting at tokens[start]. It
// returns the index just past the rule and any whitespace after the rule's
// line break, which belongs to the surrounding text. A statement that opens
// a block is not an import and is left to the caller as raw text.
func parseImport(tokens []token, start int) (*AtRule, int, string, bool) {
	rule := &AtRule{keyword: tokens[start].text}

	var params strings.Builder
	i := start + 1
loop:
	for ; i < len(tokens); i++ {
		switch tokens[i].tt {
		case css.SemicolonToken:
			rule.terminator = ";"
			i++
			break loop
		case css.RightBraceToken:
			// End of an enclosing block; it is not ours to consume.
			break loop
		case css.LeftBraceToken:
			return nil, 0, "", false
		}
		params.WriteString(tokens[i].text)
	}

	text := params.String()
	trimmedLeft := strings.TrimLeft(text, " \t\r\n\f")
	rule.sep = text[:len(text)-len(trimmedLeft)]
	rule.params = strings.TrimRight(trimmedLeft, " \t\r\n\f")
	rule.afterParams = trimmedLeft[len(rule.params):]

	var rest string
	if rule.terminator != "" && i < len(tokens) && tokens[i].tt == css.WhitespaceToken {
		ws := tokens[i].text
		if nl := strings.IndexByte(ws, '\n'); nl >= 0 {
			rule.trailing, rest = ws[:nl+1], ws[nl+1:]
		} else {
			rule.trailing = ws
		}
		i++
	}
	return rule, i, rest, true
}

// WalkAtRules calls fn for each live rule named name ("import"), in document
// order. Rules appended or removed by fn during the walk are not revisited.
func (s *Sheet) WalkAtRules(name string, fn func(*AtRule)) {
	for _, rule := range s.AtRules(name) {
		if !rule.removed {
			fn(rule)
		}
	}
}

// AtRules returns the live rules named name, in document order.
func (s *Sheet) AtRules(name string) []*AtRule {
	var rules []*AtRule
	for _, n := range s.nodes {
		if n.rule != nil && !n.rule.removed && n.rule.Name() == name {
			rules = append(rules, n.rule)
		}
	}
	return rules
}

// AppendAtRule adds a new rule at the end of the sheet and returns it.
func (s *Sheet) AppendAtRule(name, params string) *AtRule {
	rule := &AtRule{
		keyword:    "@" + name,
		sep:        " ",
		params:     params,
		terminator: ";",
		trailing:   "\n",
	}
	if len(s.nodes) > 0 {
		last := s.nodes[len(s.nodes)-1]
		switch {
		case last.rule != nil && last.rule.trailing == "":
			last.rule.trailing = "\n"
		case last.rule == nil && !strings.HasSuffix(last.raw, "\n"):
			s.nodes = append(s.nodes, node{raw: "\n"})
		}
	}
	s.nodes = append(s.nodes, node{rule: rule})
	return rule
}

// String renders the sheet back to CSS.
func (s *Sheet) String() string {
	var sb strings.Builder
	for _, n := range s.nodes {
		switch {
		case n.rule == nil:
			sb.WriteString(n.raw)
		case !n.rule.removed:
			sb.WriteString(n.rule.String())
			sb.WriteString(n.rule.trailing)
		}
	}
	return sb.String()
}
