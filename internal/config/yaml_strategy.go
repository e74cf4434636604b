package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlStrategy is the structured parsing strategy. It hands the whole
// document to gopkg.in/yaml.v3 and converts the resulting node tree into the
// shared generic representation.
type yamlStrategy struct{}

func (yamlStrategy) Name() string { return "yaml" }

func (yamlStrategy) Parse(data []byte) (*node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return newMapping(), nil
	}
	return fromYAMLNode(doc.Content[0])
}

func fromYAMLNode(y *yaml.Node) (*node, error) {
	switch y.Kind {
	case yaml.ScalarNode:
		return newScalar(y.Value), nil
	case yaml.MappingNode:
		m := newMapping()
		for i := 0; i+1 < len(y.Content); i += 2 {
			keyNode := y.Content[i]
			child, err := fromYAMLNode(y.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.put(keyNode.Value, child)
		}
		return m, nil
	case yaml.SequenceNode:
		seq := &node{kind: sequenceNode}
		for _, item := range y.Content {
			child, err := fromYAMLNode(item)
			if err != nil {
				return nil, err
			}
			seq.items = append(seq.items, child)
		}
		return seq, nil
	case yaml.AliasNode:
		return fromYAMLNode(y.Alias)
	default:
		return nil, fmt.Errorf("unsupported YAML node kind %d at line %d", y.Kind, y.Line)
	}
}
