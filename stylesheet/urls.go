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

package stylesheet

import (
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// URLs returns the URLs embedded as url(...) in CSS text, in order.
// Both url(a.css) and url("a.css") forms are recognized; plain strings are not.
func URLs(text string) []string {
	lexer := css.NewLexer(parse.NewInputString(text))
	var urls []string
	inURLFunc := false
	for {
		tt, data := lexer.Next()
		switch tt {
		case css.ErrorToken:
			return urls
		case css.URLToken:
			if u := urlTokenValue(string(data)); u != "" {
				urls = append(urls, u)
			}
		case css.FunctionToken:
			inURLFunc = strings.EqualFold(string(data), "url(")
			continue
		case css.StringToken:
			if inURLFunc {
				if u := unquote(string(data)); u != "" {
					urls = append(urls, u)
				}
			}
		case css.WhitespaceToken, css.CommentToken:
			continue
		}
		inURLFunc = false
	}
}

// urlTokenValue strips url( ) and any quotes from a URL token.
func urlTokenValue(s string) string {
	if len(s) < 4 || !strings.EqualFold(s[:4], "url(") {
		return ""
	}
	s = strings.TrimSuffix(s[4:], ")")
	return unquote(s)
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') ||
		(s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
