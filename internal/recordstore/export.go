package recordstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes the project's records to
// exportDir/takeoff-<project>.yaml and returns the path.
func (s *Store) ExportYAML(ctx context.Context, projectRef string) (string, error) {
	records, err := s.Records(ctx, projectRef)
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}

	data, err := yaml.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return s.writeExport(projectRef, "yaml", data)
}

// ExportJSON writes the project's records to
// exportDir/takeoff-<project>.json and returns the path.
func (s *Store) ExportJSON(ctx context.Context, projectRef string) (string, error) {
	records, err := s.Records(ctx, projectRef)
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return s.writeExport(projectRef, "json", data)
}

func (s *Store) writeExport(projectRef, ext string, data []byte) (string, error) {
	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(s.exportDir, fmt.Sprintf("takeoff-%s.%s", exportSlug(projectRef), ext))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}

// exportSlug keeps project references filesystem-safe.
func exportSlug(projectRef string) string {
	out := make([]rune, 0, len(projectRef))
	for _, r := range projectRef {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "project"
	}
	return string(out)
}
