package ingest

import (
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
)

type feedFile struct {
	Episodes []FrontMatter `yaml:"episodes"`
}

// LoadFeed reads a YAML feed file. The document is either a list of records
// or a mapping with an "episodes" list.
func LoadFeed(path string) ([]FrontMatter, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: read feed: %w", err)
	}
	return parseFeed(raw)
}

func parseFeed(raw []byte) ([]FrontMatter, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("ingest: parse feed: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var list []FrontMatter
		if err := root.Decode(&list); err != nil {
			return nil, fmt.Errorf("ingest: decode feed: %w", err)
		}
		return list, nil
	case yaml.MappingNode:
		var f feedFile
		if err := root.Decode(&f); err != nil {
			return nil, fmt.Errorf("ingest: decode feed: %w", err)
		}
		return f.Episodes, nil
	default:
		return nil, fmt.Errorf("ingest: feed must be a list or a mapping, got %s", kindName(root.Kind))
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	}
	return fmt.Sprintf("kind %d", k)
}
