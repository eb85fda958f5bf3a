package shortname

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/enrollmate/enrollmate/internal/logger"
)

//go:embed data/course_short_names.json
var bundled []byte

// Table is an immutable-after-load mapping of full course name to short
// name. Keys keep the order they had in the source document so that partial
// matches are resolved the same way on every run.
type Table struct {
	keys  []string
	names map[string]string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{names: make(map[string]string)}
}

// Set adds or replaces an entry. New keys are appended to the iteration order.
func (t *Table) Set(full, short string) {
	if _, exists := t.names[full]; !exists {
		t.keys = append(t.keys, full)
	}
	t.names[full] = short
}

// Lookup returns the short name stored under exactly full.
func (t *Table) Lookup(full string) (string, bool) {
	if t == nil {
		return "", false
	}
	short, ok := t.names[full]
	return short, ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// each calls fn for every entry in source order until fn returns true.
func (t *Table) each(fn func(full, short string) bool) {
	if t == nil {
		return
	}
	for _, k := range t.keys {
		if fn(k, t.names[k]) {
			return
		}
	}
}

// Parse reads a JSON object of string to string. Entries with an empty key
// or an empty value are skipped.
func Parse(r io.Reader) (*Table, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading table: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("reading table: expected JSON object, got %v", tok)
	}

	t := NewTable()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading key: %w", err)
		}
		key, _ := keyTok.(string)

		var short string
		if err := dec.Decode(&short); err != nil {
			return nil, fmt.Errorf("reading value for %q: %w", key, err)
		}
		if key == "" || short == "" {
			continue
		}
		t.Set(key, short)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("reading table end: %w", err)
	}
	return t, nil
}

// Load parses r and falls back to an empty table on any error.
func Load(r io.Reader, source string) *Table {
	t, err := Parse(r)
	if err != nil {
		logger.Warn("Short-name table unavailable, using empty table", logger.Fields{
			"source": source,
			"error":  err.Error(),
		})
		return NewTable()
	}
	logger.Debug("Loaded short-name table", logger.Fields{
		"source":  source,
		"entries": t.Len(),
	})
	logger.SetGauge("short_names.entries", float64(t.Len()))
	return t
}

// LoadFile loads a table from path. An unreadable file yields an empty table.
func LoadFile(path string) *Table {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("Short-name table unavailable, using empty table", logger.Fields{
			"source": path,
			"error":  err.Error(),
		})
		return NewTable()
	}
	defer f.Close()
	return Load(f, path)
}

// Bundled returns the table shipped with the binary.
func Bundled() *Table {
	return Load(bytes.NewReader(bundled), "bundled")
}
