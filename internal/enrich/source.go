package enrich

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source finds review page URLs for a search query.
type Source interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// StaticSource answers queries from a fixed table, typically loaded from a
// YAML file of the form:
//
//	reviews:
//	  "Bosch Performance Line CX review":
//	    - https://example.com/bosch-cx
type StaticSource struct {
	Reviews map[string][]string `yaml:"reviews"`
}

// LoadStaticSource reads a review source file.
func LoadStaticSource(path string) (*StaticSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading review source: %w", err)
	}
	var s StaticSource
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing review source %s: %w", path, err)
	}
	return &s, nil
}

// Search returns the URLs listed for query. Lookup ignores case and
// surrounding whitespace.
func (s *StaticSource) Search(_ context.Context, query string) ([]string, error) {
	if urls, ok := s.Reviews[query]; ok {
		return urls, nil
	}
	q := strings.TrimSpace(query)
	for k, urls := range s.Reviews {
		if strings.EqualFold(strings.TrimSpace(k), q) {
			return urls, nil
		}
	}
	return nil, nil
}

var _ Source = (*StaticSource)(nil)
