package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Items []Item `yaml:"items"`
}

// LoadFile reads an item catalog from a yaml file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	for _, it := range f.Items {
		if it.ID <= 0 {
			return nil, fmt.Errorf("catalog entry %q: invalid id %d", it.Name, it.ID)
		}
		if it.Cost < 0 {
			return nil, fmt.Errorf("catalog entry %d: negative cost %d", it.ID, it.Cost)
		}
	}

	return New(f.Items...), nil
}
