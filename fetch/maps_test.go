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
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"bennypowers.dev/cssmap/importmap"
)

// MockFetcher is a test implementation of the Fetcher interface.
type MockFetcher struct {
	responses map[string][]byte
	errors    map[string]error
	delays    map[string]time.Duration
	calls     atomic.Int32

	mu      sync.Mutex
	fetched []string
}

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		responses: make(map[string][]byte),
		errors:    make(map[string]error),
		delays:    make(map[string]time.Duration),
	}
}

func (m *MockFetcher) AddResponse(url string, data string) {
	m.responses[url] = []byte(data)
}

func (m *MockFetcher) AddError(url string, err error) {
	m.errors[url] = err
}

func (m *MockFetcher) AddDelay(url string, d time.Duration) {
	m.delays[url] = d
}

func (m *MockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.fetched = append(m.fetched, url)
	m.mu.Unlock()

	if d, ok := m.delays[url]; ok {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, &FetchError{URL: url, Message: ctx.Err().Error()}
		}
	}
	if err, ok := m.errors[url]; ok {
		return nil, err
	}
	if data, ok := m.responses[url]; ok {
		return data, nil
	}
	return nil, &FetchError{URL: url, StatusCode: 404, Message: "Not Found"}
}

func urls(imports map[string]importmap.Target) map[string]string {
	out := make(map[string]string, len(imports))
	for k, v := range imports {
		out[k] = v.URL()
	}
	return out
}

func TestMapsMergesInSourceOrder(t *testing.T) {
	f := NewMockFetcher()
	f.AddResponse("https://a.example/map.json", `{"imports":{"./x.css":"https://a.example/x.css","./a.css":"https://a.example/a.css"}}`)
	f.AddResponse("https://b.example/map.json", `{"imports":{"./x.css":["https://b.example/x.css"],"./b.css":"https://b.example/b.css"}}`)
	// The earlier source finishes last; order must still follow the source list.
	f.AddDelay("https://a.example/map.json", 20*time.Millisecond)

	got, err := Maps(context.Background(), f, []string{
		"https://a.example/map.json",
		"https://b.example/map.json",
	}, nil)
	if err != nil {
		t.Fatalf("Maps failed: %v", err)
	}

	want := map[string]string{
		"./x.css": "https://b.example/x.css",
		"./a.css": "https://a.example/a.css",
		"./b.css": "https://b.example/b.css",
	}
	gotURLs := urls(got)
	if len(gotURLs) != len(want) {
		t.Fatalf("Maps() = %v, want %v", gotURLs, want)
	}
	for k, v := range want {
		if gotURLs[k] != v {
			t.Errorf("Maps()[%q] = %q, want %q", k, gotURLs[k], v)
		}
	}
	if f.calls.Load() != 2 {
		t.Errorf("Fetch called %d times, want 2", f.calls.Load())
	}
}

func TestMapsNoSources(t *testing.T) {
	f := NewMockFetcher()

	got, err := Maps(context.Background(), f, nil, nil)
	if err != nil {
		t.Fatalf("Maps failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Maps() = %v, want empty", got)
	}
	if f.calls.Load() != 0 {
		t.Errorf("Fetch called %d times, want 0", f.calls.Load())
	}
}

func TestMapsDocumentWithoutImports(t *testing.T) {
	f := NewMockFetcher()
	f.AddResponse("https://a.example/map.json", `{}`)

	got, err := Maps(context.Background(), f, []string{"https://a.example/map.json"}, nil)
	if err != nil {
		t.Fatalf("Maps failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Maps() = %v, want empty", got)
	}
}

func TestMapsStatusClassification(t *testing.T) {
	const source = "https://maps.example/map.json"

	tests := []struct {
		name    string
		status  int
		message string
		check   func(error) bool
	}{
		{"not found", 404, "could not be found", func(err error) bool {
			var target *NotFoundError
			return errors.As(err, &target) && target.URL == source
		}},
		{"forbidden", 403, "Server rejected client request", func(err error) bool {
			var target *RejectedError
			return errors.As(err, &target) && target.StatusCode == 403
		}},
		{"bad request", 400, "Server rejected client request", func(err error) bool {
			var target *RejectedError
			return errors.As(err, &target)
		}},
		{"internal error", 500, "Server error", func(err error) bool {
			var target *ServerError
			return errors.As(err, &target) && target.StatusCode == 500
		}},
		{"unavailable", 503, "Server error", func(err error) bool {
			var target *ServerError
			return errors.As(err, &target)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewMockFetcher()
			f.AddError(source, &FetchError{URL: source, StatusCode: tt.status, Message: "status"})

			got, err := Maps(context.Background(), f, []string{source}, nil)
			if got != nil {
				t.Errorf("Maps() returned partial result %v", got)
			}

			var agg *AggregateError
			if !errors.As(err, &agg) {
				t.Fatalf("Maps() error = %v, want *AggregateError", err)
			}
			if !strings.HasPrefix(err.Error(), "Unable to load import map file from server: ") {
				t.Errorf("error %q lacks the load failure prefix", err)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error %q does not contain %q", err, tt.message)
			}
			if !strings.Contains(err.Error(), source) {
				t.Errorf("error %q does not name the failing source", err)
			}
			if !tt.check(err) {
				t.Errorf("error %v has the wrong type", err)
			}
		})
	}
}

func TestMapsOneFailureDiscardsAll(t *testing.T) {
	f := NewMockFetcher()
	f.AddResponse("https://ok.example/map.json", `{"imports":{"./a.css":"https://ok.example/a.css"}}`)
	// Unregistered URLs answer 404.

	got, err := Maps(context.Background(), f, []string{
		"https://ok.example/map.json",
		"https://missing.example/map.json",
	}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if got != nil {
		t.Errorf("Maps() = %v, want nil on failure", got)
	}
	var notFound *NotFoundError
	if !errors.As(err, &notFound) || notFound.URL != "https://missing.example/map.json" {
		t.Errorf("error = %v, want NotFoundError for the missing source", err)
	}
}

func TestMapsTransportAndParseErrors(t *testing.T) {
	t.Run("transport", func(t *testing.T) {
		f := NewMockFetcher()
		f.AddError("https://down.example/map.json", &FetchError{URL: "https://down.example/map.json", Message: "connection refused"})

		_, err := Maps(context.Background(), f, []string{"https://down.example/map.json"}, nil)
		var fe *FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("error = %v, want wrapped *FetchError", err)
		}
		if !strings.Contains(err.Error(), "connection refused") {
			t.Errorf("error %q lost the inner message", err)
		}
	})

	t.Run("parse", func(t *testing.T) {
		f := NewMockFetcher()
		f.AddResponse("https://bad.example/map.json", `<html>oops</html>`)

		_, err := Maps(context.Background(), f, []string{"https://bad.example/map.json"}, nil)
		var agg *AggregateError
		if !errors.As(err, &agg) {
			t.Fatalf("error = %v, want *AggregateError", err)
		}
		if !strings.Contains(err.Error(), "https://bad.example/map.json") {
			t.Errorf("error %q does not name the source", err)
		}
	})
}

func TestFetchError(t *testing.T) {
	withStatus := &FetchError{URL: "https://x", StatusCode: 404, Message: "Not Found"}
	if !withStatus.IsNotFound() {
		t.Error("IsNotFound() = false for 404")
	}
	if got := withStatus.Error(); got != "fetch https://x: HTTP 404: Not Found" {
		t.Errorf("Error() = %q", got)
	}
	transport := &FetchError{URL: "https://x", Message: "timeout"}
	if transport.IsNotFound() {
		t.Error("IsNotFound() = true for transport error")
	}
	if got := transport.Error(); got != "fetch https://x: timeout" {
		t.Errorf("Error() = %q", got)
	}
}
