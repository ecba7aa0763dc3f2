package service

import (
	"fmt"
	"os"
	"strings"

	"talentflow_backend/internal/pipeline/repository"

	"gopkg.in/yaml.v3"
)

// FallbackStageName is where applications go when their stage is deleted.
const FallbackStageName = "New"

// BuiltinDefaults returns the seven stages every new tenant starts with.
func BuiltinDefaults() []repository.DefaultStage {
	return []repository.DefaultStage{
		{Name: "New", SortOrder: 1},
		{Name: "Screening", SortOrder: 2},
		{Name: "Interview 1", SortOrder: 3},
		{Name: "Interview 2", SortOrder: 4},
		{Name: "Offer", SortOrder: 5},
		{Name: "Hired", SortOrder: 6},
		{Name: "Rejected", SortOrder: 7},
	}
}

type defaultsFile struct {
	Stages []repository.DefaultStage `yaml:"stages"`
}

// LoadDefaults reads the seeded stage set from a YAML file:
//
//	stages:
//	  - name: New
//	    sortOrder: 1
//
// An empty path returns the built-in set. Missing sort orders follow file order.
func LoadDefaults(path string) ([]repository.DefaultStage, error) {
	if strings.TrimSpace(path) == "" {
		return BuiltinDefaults(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline defaults: %w", err)
	}
	return ParseDefaults(raw)
}

// ParseDefaults decodes and validates a defaults document.
func ParseDefaults(raw []byte) ([]repository.DefaultStage, error) {
	var file defaultsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse pipeline defaults: %w", err)
	}
	if len(file.Stages) == 0 {
		return nil, fmt.Errorf("pipeline defaults: no stages defined")
	}

	seen := make(map[string]struct{}, len(file.Stages))
	out := make([]repository.DefaultStage, 0, len(file.Stages))
	for i, st := range file.Stages {
		name := strings.TrimSpace(st.Name)
		if name == "" {
			return nil, fmt.Errorf("pipeline defaults: stage %d has no name", i+1)
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("pipeline defaults: duplicate stage %q", name)
		}
		seen[key] = struct{}{}

		order := st.SortOrder
		if order <= 0 {
			order = i + 1
		}
		out = append(out, repository.DefaultStage{Name: name, SortOrder: order})
	}
	return out, nil
}
