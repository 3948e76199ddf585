package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// Load reads a JSON file and unmarshals it into a Report.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse JSON in %s: %w", path, err)
	}

	if r.SchemaVersion != SchemaVersion {
		log.Warn().
			Str("path", path).
			Str("schema_version", r.SchemaVersion).
			Str("expected", SchemaVersion).
			Msg("Schema version may not be fully supported")
	}

	return &r, nil
}

// LoadAll loads every path in order and stops at the first failure.
func LoadAll(paths []string) ([]*Report, error) {
	reports := make([]*Report, 0, len(paths))
	for _, p := range paths {
		r, err := Load(p)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// Write stores the report as indented JSON.
func Write(path string, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
