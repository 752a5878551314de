// Package workfile reads and writes the intermediate serialized form: an
// ordered JSON array of extraction records, human-diffable, written and read
// whole-file. The external translation step edits only the translated field.
package workfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/LouisLau-art/simple-renpy-translator/internal/parser"
)

// ErrMalformed signals that a work file failed to parse. Injection aborts
// and writes nothing when this is returned.
var ErrMalformed = errors.New("malformed work file")

// Save writes records to path as indented UTF-8 JSON, creating parent
// directories as needed.
func Save(path string, records []parser.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create work file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("encode work file: %w", err)
	}
	return nil
}

// Load reads the full record list from path.
func Load(path string) ([]parser.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read work file: %w", err)
	}

	var records []parser.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return records, nil
}
