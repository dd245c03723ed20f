package standard

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed beman-standard.yml
var defaultStandard []byte

type rawDescriptor struct {
	Type         string         `yaml:"type"`
	FullTextBody string         `yaml:"full_text_body"`
	Params       map[string]any `yaml:",inline"`
}

// Default returns the catalogue compiled into the binary.
func Default() (*Catalogue, error) {
	c, err := Parse(defaultStandard)
	if err != nil {
		return nil, fmt.Errorf("embedded standard: %w", err)
	}
	return c, nil
}

// LoadFile reads a catalogue from a YAML file.
func LoadFile(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading standard %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing standard %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML mapping of check name to descriptor. Document
// order is kept as catalogue order.
func Parse(data []byte) (*Catalogue, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalogue, err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidCatalogue)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping", ErrInvalidCatalogue)
	}

	descs := make([]Descriptor, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		var raw rawDescriptor
		if err := root.Content[i+1].Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: check %q: %v", ErrInvalidCatalogue, name, err)
		}
		sev, err := ParseSeverity(raw.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: check %q: %v", ErrInvalidCatalogue, name, err)
		}
		descs = append(descs, Descriptor{
			Name:        name,
			Severity:    sev,
			Description: raw.FullTextBody,
			Params:      raw.Params,
		})
	}
	return NewCatalogue(descs)
}
