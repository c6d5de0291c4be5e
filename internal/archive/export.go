// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"
)

// ExportRun holds one run with its terms for export. Values are decimal
// strings.
type ExportRun struct {
	ID        string       `json:"id" yaml:"id"`
	CreatedAt time.Time    `json:"created_at" yaml:"created_at"`
	Requested int          `json:"requested" yaml:"requested"`
	Mode      string       `json:"mode" yaml:"mode"`
	Terms     []ExportTerm `json:"terms" yaml:"terms"`
}

// ExportTerm is one term in an export entry.
type ExportTerm struct {
	Index int    `json:"index" yaml:"index"`
	PMax  uint64 `json:"pmax" yaml:"pmax"`
	Value string `json:"value" yaml:"value"`
}

// ExportYAML writes every run to <dir>/export.yaml and returns the path.
func (s *Store) ExportYAML(ctx context.Context) (string, error) {
	runs, err := s.exportRuns(ctx)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.yaml")
	data, err := yaml.Marshal(runs)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes every run to <dir>/export.json and returns the path.
func (s *Store) ExportJSON(ctx context.Context) (string, error) {
	runs, err := s.exportRuns(ctx)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.json")
	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportRuns(ctx context.Context) ([]ExportRun, error) {
	runs, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	out := make([]ExportRun, len(runs))
	for i, r := range runs {
		terms, err := s.terms(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		out[i] = ExportRun{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			Requested: r.Requested,
			Mode:      string(r.Mode),
			Terms:     make([]ExportTerm, len(terms)),
		}
		for j, t := range terms {
			out[i].Terms[j] = ExportTerm{Index: t.Index, PMax: t.PMax, Value: t.Value.String()}
		}
	}
	return out, nil
}
