// Package testutil provides fixtures and fakes shared by causalview tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npratt/causalview/internal/graph"
)

// WriteFile writes content to a file in the given directory.
// It creates parent directories as needed and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// ReadFile reads a file and returns its contents.
// It fails the test if the file cannot be read.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// MustLoad builds a store from a JSON document or fails the test.
func MustLoad(t *testing.T, doc string) *graph.Store {
	t.Helper()
	s, err := graph.Load(strings.NewReader(doc), graph.FormatJSON)
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return s
}

// MustFilter runs graph.Filter or fails the test.
func MustFilter(t *testing.T, s *graph.Store, threshold float64, focus string) graph.Subgraph {
	t.Helper()
	sg, err := graph.Filter(s, threshold, focus)
	if err != nil {
		t.Fatalf("filter(%v, %q): %v", threshold, focus, err)
	}
	return sg
}
