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

import "fmt"

// NotFoundError reports a map source that answered 404.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Import map could not be found on server (%s)", e.URL)
}

// RejectedError reports a map source that answered with a 4xx status other than 404.
type RejectedError struct {
	URL        string
	StatusCode int
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("Server rejected client request (%s: HTTP %d)", e.URL, e.StatusCode)
}

// ServerError reports a map source that answered with a 5xx status.
type ServerError struct {
	URL        string
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("Server error (%s: HTTP %d)", e.URL, e.StatusCode)
}

// AggregateError wraps whatever stopped the import maps from loading:
// a transport failure, a bad status, or an unparsable body.
type AggregateError struct {
	Err error
}

func (e *AggregateError) Error() string {
	return "Unable to load import map file from server: " + e.Err.Error()
}

func (e *AggregateError) Unwrap() error {
	return e.Err
}

// classify turns a status-bearing FetchError into the matching typed error.
func classify(err *FetchError) error {
	switch {
	case err.StatusCode == 404:
		return &NotFoundError{URL: err.URL}
	case err.StatusCode >= 400 && err.StatusCode < 500:
		return &RejectedError{URL: err.URL, StatusCode: err.StatusCode}
	case err.StatusCode >= 500:
		return &ServerError{URL: err.URL, StatusCode: err.StatusCode}
	}
	return err
}
