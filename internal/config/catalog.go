package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/futig/docqa/internal/entity"
	"gopkg.in/yaml.v3"
)

// ModelCatalog lists the selectable models and their context windows
type ModelCatalog struct {
	Default string             `yaml:"default"`
	Models  []entity.ModelInfo `yaml:"models"`
}

var defaultModelCatalog = ModelCatalog{
	Default: "gemma3:1b",
	Models: []entity.ModelInfo{
		{ID: "gemma3:270m", ContextWindow: 32000},
		{ID: "gemma3:1b", ContextWindow: 32000},
		{ID: "qwen3:4b", ContextWindow: 256000},
	},
}

// DefaultModelCatalog returns a copy of the built-in catalog
func DefaultModelCatalog() ModelCatalog {
	c := defaultModelCatalog
	c.Models = append([]entity.ModelInfo(nil), defaultModelCatalog.Models...)
	return c
}

// LoadModelCatalog reads the YAML catalog. A missing file falls back to the built-in catalog.
func LoadModelCatalog(path string) (ModelCatalog, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Printf("Warning: model catalog not found at %s, using built-in models\n", path)
		return DefaultModelCatalog(), nil
	}
	if err != nil {
		return ModelCatalog{}, fmt.Errorf("read model catalog: %w", err)
	}

	var catalog ModelCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return ModelCatalog{}, fmt.Errorf("parse model catalog YAML: %w", err)
	}

	if err := catalog.validate(); err != nil {
		return ModelCatalog{}, fmt.Errorf("model catalog %s: %w", path, err)
	}

	return catalog, nil
}

func (c ModelCatalog) validate() error {
	if len(c.Models) == 0 {
		return errors.New("no models listed")
	}

	seen := make(map[string]struct{}, len(c.Models))
	for _, m := range c.Models {
		if m.ID == "" {
			return errors.New("model without id")
		}
		if m.ContextWindow <= 0 {
			return fmt.Errorf("model %s: context_window must be positive", m.ID)
		}
		if _, dup := seen[m.ID]; dup {
			return fmt.Errorf("model %s listed twice", m.ID)
		}
		seen[m.ID] = struct{}{}
	}

	if _, ok := seen[c.Default]; !ok {
		return fmt.Errorf("default model %q is not listed", c.Default)
	}

	return nil
}

func (c ModelCatalog) Lookup(id string) (entity.ModelInfo, bool) {
	for _, m := range c.Models {
		if m.ID == id {
			return m, true
		}
	}
	return entity.ModelInfo{}, false
}

// Resolve maps an empty id to the default model and rejects unknown ids
func (c ModelCatalog) Resolve(id string) (entity.ModelInfo, error) {
	if id == "" {
		id = c.Default
	}

	m, ok := c.Lookup(id)
	if !ok {
		return entity.ModelInfo{}, fmt.Errorf("%w: %s", entity.ErrUnknownModel, id)
	}
	return m, nil
}

func (c ModelCatalog) List() []entity.ModelInfo {
	return append([]entity.ModelInfo(nil), c.Models...)
}

func (c ModelCatalog) DefaultModel() string {
	return c.Default
}
