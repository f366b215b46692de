// Package jsonsource exposes JSON documents as record collections.
//
// Records are bands.JSONRecord values, so field paths on them use gjson
// syntax and stay on the raw document.
package jsonsource

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/benjaminschreck/go-bands/pkg/bands"
)

// Source is a JSON document, or JSON Lines stream, read as a bands.Collection
type Source struct {
	data  []byte
	path  string
	lines bool
}

// Option configures a Source
type Option func(*Source)

// WithPath selects the records with a gjson path, e.g. "data.items".
// The value found may be an array (one record per element) or a single value.
func WithPath(path string) Option {
	return func(s *Source) {
		s.path = strings.TrimSpace(path)
	}
}

// WithLines reads the input as JSON Lines: one document per line
func WithLines() Option {
	return func(s *Source) {
		s.lines = true
	}
}

// New validates data and returns a source over it
func New(data []byte, opts ...Option) (*Source, error) {
	s := &Source{data: data}
	for _, opt := range opts {
		opt(s)
	}

	if s.lines {
		var bad int
		gjson.ForEachLine(string(data), func(line gjson.Result) bool {
			if !gjson.Valid(line.Raw) {
				bad++
			}
			return true
		})
		if bad > 0 {
			return nil, fmt.Errorf("invalid JSON lines input: %d malformed lines", bad)
		}
		return s, nil
	}

	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON input")
	}
	return s, nil
}

// Open reads a file. Files ending in .jsonl or .ndjson are read as JSON Lines.
func Open(filename string, opts ...Option) (*Source, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jsonl", ".ndjson":
		opts = append([]Option{WithLines()}, opts...)
	}

	s, err := New(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

// Records implements bands.Collection
func (s *Source) Records() ([]interface{}, error) {
	if s.lines {
		return s.lineRecords()
	}

	doc := bands.JSONRecord(s.data)
	if s.path == "" {
		return doc.Records()
	}

	value, found := doc.Get(s.path)
	if !found {
		return nil, fmt.Errorf("path %q not found in JSON input", s.path)
	}
	if jr, ok := value.(bands.JSONRecord); ok {
		return jr.Records()
	}
	return []interface{}{value}, nil
}

func (s *Source) lineRecords() ([]interface{}, error) {
	records := make([]interface{}, 0)
	gjson.ForEachLine(string(s.data), func(line gjson.Result) bool {
		raw := bytes.TrimSpace([]byte(line.Raw))
		if len(raw) == 0 {
			return true
		}
		if s.path == "" {
			records = append(records, bands.JSONRecord(raw))
			return true
		}
		if value, found := bands.JSONRecord(raw).Get(s.path); found {
			records = append(records, value)
		}
		return true
	})

	bands.GetLogger().Debug().Int("records", len(records)).Msg("json lines read")
	return records, nil
}
