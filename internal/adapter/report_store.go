package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	m "mutok.dev/pkg/mutok/internal/model"
)

// ReportStore persists evaluation summaries.
type ReportStore interface {
	SaveSummary(ctx context.Context, path m.Path, summary m.Summary) error
	LoadSummary(ctx context.Context, path m.Path) (m.Summary, error)
}

// YAMLReportStore stores summaries as YAML documents.
type YAMLReportStore struct{}

// NewReportStore returns a YAML backed ReportStore.
func NewReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// SaveSummary implements ReportStore.
func (s *YAMLReportStore) SaveSummary(ctx context.Context, path m.Path, summary m.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	content, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	if err := os.WriteFile(string(path), content, 0o600); err != nil {
		return fmt.Errorf("failed to write summary %s: %w", path, err)
	}

	return nil
}

// LoadSummary implements ReportStore.
func (s *YAMLReportStore) LoadSummary(ctx context.Context, path m.Path) (m.Summary, error) {
	if err := ctx.Err(); err != nil {
		return m.Summary{}, err
	}

	content, err := os.ReadFile(string(path))
	if err != nil {
		return m.Summary{}, fmt.Errorf("failed to read summary %s: %w", path, err)
	}

	var summary m.Summary
	if err := yaml.Unmarshal(content, &summary); err != nil {
		return m.Summary{}, fmt.Errorf("failed to decode summary %s: %w", path, err)
	}

	return summary, nil
}
