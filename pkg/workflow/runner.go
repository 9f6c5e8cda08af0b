package workflow

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Runner selects the machine a job runs on.
type Runner struct {
	labels []string
}

// Hosted returns a runner for a single GitHub-hosted label such as
// "ubuntu-22.04".
func Hosted(label string) Runner {
	return Runner{labels: []string{label}}
}

// Ubuntu returns the hosted Ubuntu runner for version ("22.04", "latest", ...).
func Ubuntu(version string) Runner { return Hosted("ubuntu-" + version) }

// MacOS returns the hosted macOS runner for version.
func MacOS(version string) Runner { return Hosted("macos-" + version) }

// Windows returns the hosted Windows runner for version.
func Windows(version string) Runner { return Hosted("windows-" + version) }

// SelfHosted returns a self-hosted runner matched by labels.
func SelfHosted(labels ...string) Runner {
	return Runner{labels: append([]string{"self-hosted"}, labels...)}
}

// Labels returns a copy of the runner labels.
func (r Runner) Labels() []string {
	return append([]string(nil), r.labels...)
}

// IsZero reports whether no runner was chosen.
func (r Runner) IsZero() bool {
	return len(r.labels) == 0
}

// MarshalYAML writes a hosted runner as a scalar and a self-hosted runner as
// a label sequence.
func (r Runner) MarshalYAML() (interface{}, error) {
	switch {
	case len(r.labels) == 0:
		return nil, fmt.Errorf("runs-on: %w", ErrNoRunner)
	case len(r.labels) == 1 && r.labels[0] != "self-hosted":
		return r.labels[0], nil
	}
	node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, label := range r.labels {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: label})
	}
	return node, nil
}
