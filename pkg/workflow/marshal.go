package workflow

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Marshal normalizes w and encodes it as workflow YAML. Jobs and steps keep
// their declaration order; absent fields are left out.
func Marshal(w Workflow) ([]byte, error) {
	normalized, err := Normalize(w)
	if err != nil {
		return nil, fmt.Errorf("normalize workflow %q: %w", w.Name, err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(normalized); err != nil {
		return nil, fmt.Errorf("encode workflow %q: %w", w.Name, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode workflow %q: %w", w.Name, err)
	}
	return buf.Bytes(), nil
}

// MarshalYAML writes the jobs as a mapping in slice order.
func (js Jobs) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, entry := range js {
		if entry.Job == nil {
			return nil, fmt.Errorf("job %q is nil: %w", entry.Key, ErrInvalidJob)
		}
		value := &yaml.Node{}
		if err := value.Encode(entry.Job); err != nil {
			return nil, fmt.Errorf("job %q: %w", entry.Key, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: entry.Key},
			value,
		)
	}
	return node, nil
}
