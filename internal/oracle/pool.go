package oracle

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/dalfonso89/fortune-teller-service/internal/models"
)

//go:embed data/pool.yaml
var embeddedPool []byte

// Pool is the local sentence bank: fallback fortunes and interpretation
// phrases, both keyed by category with "all" as the catch-all.
type Pool struct {
	Fortunes map[string][]string `yaml:"fortunes"`
	Phrases  map[string][]string `yaml:"phrases"`
}

var (
	defaultPoolOnce sync.Once
	defaultPool     *Pool
)

// DefaultPool returns the embedded pool, parsed once
func DefaultPool() *Pool {
	defaultPoolOnce.Do(func() {
		pool, err := LoadPool(embeddedPool)
		if err != nil {
			panic(fmt.Sprintf("embedded fortune pool: %v", err))
		}
		defaultPool = pool
	})
	return defaultPool
}

// LoadPool parses a pool document and checks that every category is covered
func LoadPool(raw []byte) (*Pool, error) {
	var pool Pool
	if err := yaml.Unmarshal(raw, &pool); err != nil {
		return nil, fmt.Errorf("parse pool: %w", err)
	}

	required := append([]models.Category{models.CategoryAll}, models.ConcreteCategories...)
	for _, category := range required {
		if len(pool.Fortunes[string(category)]) == 0 {
			return nil, fmt.Errorf("pool has no fortunes for %q", category)
		}
		if len(pool.Phrases[string(category)]) == 0 {
			return nil, fmt.Errorf("pool has no phrases for %q", category)
		}
	}
	return &pool, nil
}

// Sentences returns the fallback sentences for category, or the "all" bank
func (p *Pool) Sentences(category models.Category) []string {
	if sentences, ok := p.Fortunes[string(category)]; ok && len(sentences) > 0 {
		return sentences
	}
	return p.Fortunes[string(models.CategoryAll)]
}

// PhraseBank returns the interpretation phrases for category, or the "all" bank
func (p *Pool) PhraseBank(category models.Category) []string {
	if phrases, ok := p.Phrases[string(category)]; ok && len(phrases) > 0 {
		return phrases
	}
	return p.Phrases[string(models.CategoryAll)]
}
