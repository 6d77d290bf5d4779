// Package snapshot reads and writes the local JSON catalog files. The write
// path is a full replace; the read path validates the document against the
// snapshot schema before unmarshalling, so a hand-edited or truncated file
// fails loudly instead of feeding bad records downstream.
package snapshot

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/mcpcatalog/registry/pkg/model"
)

//go:embed schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("snapshot/schema.json", schemaJSON)

// Write serializes the records as an indented JSON array, preserving order,
// overwriting any prior snapshot.
func Write(path string, records []model.CatalogRecord) error {
	if records == nil {
		records = []model.CatalogRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Read loads and validates a snapshot file, returning the records in file
// order.
func Read(path string) ([]model.CatalogRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var doc any
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("snapshot failed schema validation: %w", err)
	}

	var records []model.CatalogRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return records, nil
}
