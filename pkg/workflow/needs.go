package workflow

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Dependency is one entry of a job's needs: either a job key or a pointer to
// another job in the same workflow.
type Dependency struct {
	id  string
	job *Job
	ref bool
}

// ID depends on the job stored under key.
func ID(key string) Dependency {
	return Dependency{id: key}
}

// Ref depends on job by identity. The pointer must also appear in the
// workflow's Jobs for Normalize to resolve it.
func Ref(job *Job) Dependency {
	return Dependency{job: job, ref: true}
}

// Key returns the job key and whether the dependency is already a key.
func (d Dependency) Key() (string, bool) {
	return d.id, !d.ref
}

// Job returns the referenced job, or nil for key dependencies.
func (d Dependency) Job() *Job {
	return d.job
}

func (d Dependency) target() string {
	if d.job == nil {
		return "<nil>"
	}
	return d.job.Name
}

// Needs holds a job's dependencies. The zero value means no dependencies.
// A value built with One renders as a scalar, one built with All renders as
// a sequence even when it holds a single entry. All with no arguments is the
// same as the zero value.
type Needs struct {
	deps []Dependency
	list bool
}

// One declares a single dependency written as a scalar.
func One(dep Dependency) Needs {
	return Needs{deps: []Dependency{dep}}
}

// All declares dependencies written as a sequence.
func All(deps ...Dependency) Needs {
	return Needs{deps: append([]Dependency(nil), deps...), list: true}
}

// IsZero reports whether the job declares no dependencies.
func (n Needs) IsZero() bool {
	return len(n.deps) == 0
}

// IsList reports whether the dependencies render as a sequence.
func (n Needs) IsList() bool {
	return n.list
}

// Dependencies returns a copy of the declared dependencies.
func (n Needs) Dependencies() []Dependency {
	return append([]Dependency(nil), n.deps...)
}

// Keys returns the dependency keys. It fails with ErrUnresolvedReference if
// any entry is still a job pointer.
func (n Needs) Keys() ([]string, error) {
	keys := make([]string, 0, len(n.deps))
	for _, dep := range n.deps {
		key, ok := dep.Key()
		if !ok {
			return nil, fmt.Errorf("needs job %q: %w", dep.target(), ErrUnresolvedReference)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// MarshalYAML writes the dependency keys. Pointers must have been resolved by
// Normalize first.
func (n Needs) MarshalYAML() (interface{}, error) {
	keys, err := n.Keys()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}
	if !n.list {
		return keys[0], nil
	}
	node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, key := range keys {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key})
	}
	return node, nil
}
