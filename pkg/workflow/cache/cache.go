// Package cache pairs a workflow step with an actions/cache step keyed on the
// step's inputs, and gates the original step on a cache miss.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"
	"unicode"

	"github.com/bgricker/workflowgen/pkg/workflow"
	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultAction is the pinned cache action used when Options.Uses is empty.
	DefaultAction = "actions/cache@v3"
	// IDPrefix prefixes ids derived from step names.
	IDPrefix = "cache-"
	// RunnerOS expands to the runner's operating system at run time.
	RunnerOS = "${{ runner.os }}"
)

var (
	// ErrNoCacheID indicates that neither Options.ID nor the step name yields an id.
	ErrNoCacheID = errors.New("cache step needs an id or a named step")
	// ErrConditionConflict indicates a step that already has an if condition
	// would also need the cache-hit gate. Combine both conditions in the step
	// and pass runEvenOnHit instead.
	ErrConditionConflict = errors.New("step already has an if condition")
)

// Options configure the synthesized cache step.
type Options struct {
	// ID overrides the derived step id.
	ID string
	// Name overrides the default "Cache - <step name>".
	Name string
	// Uses overrides DefaultAction.
	Uses string
	// Path lists what to cache, one path per line.
	Path string
	// RestoreKeys lists fallback key prefixes, one per line.
	RestoreKeys string
	// KeySuffix is appended to the generated key.
	KeySuffix string
}

// WithCache returns a cache step for step and a copy of step that only runs
// when the cache missed. With runEvenOnHit the copy is returned unchanged.
//
// The cache id and key depend only on the step name, opts and the content of
// step.With, so regenerating an unchanged workflow yields identical output.
func WithCache(step workflow.Step, opts Options, runEvenOnHit bool) (workflow.Step, workflow.Step, error) {
	id := opts.ID
	if id == "" {
		if slug := Slug(step.Name); slug != "" {
			id = IDPrefix + slug
		}
	}
	if id == "" {
		return workflow.Step{}, workflow.Step{}, ErrNoCacheID
	}

	fingerprint, err := Fingerprint(step.With)
	if err != nil {
		return workflow.Step{}, workflow.Step{}, fmt.Errorf("fingerprint step %q: %w", step.Name, err)
	}

	name := opts.Name
	if name == "" {
		name = "Cache - " + step.Name
	}
	uses := opts.Uses
	if uses == "" {
		uses = DefaultAction
	}
	key := id + "-" + RunnerOS + "-" + fingerprint
	if opts.KeySuffix != "" {
		key += "-" + opts.KeySuffix
	}

	with := map[string]any{
		"path": opts.Path,
		"key":  key,
	}
	if opts.RestoreKeys != "" {
		with["restore-keys"] = opts.RestoreKeys
	}
	cacheStep := workflow.Step{
		Name: name,
		ID:   id,
		Uses: uses,
		With: with,
	}

	gated := step
	gated.With = maps.Clone(step.With)
	gated.Env = maps.Clone(step.Env)
	if !runEvenOnHit {
		if step.If != "" {
			return workflow.Step{}, workflow.Step{}, fmt.Errorf("gate step %q on %s: %w", step.Name, id, ErrConditionConflict)
		}
		gated.If = MissCondition(id)
	}
	return cacheStep, gated, nil
}

// Steps is WithCache returning both steps as a slice ready to be spliced into
// a job.
func Steps(step workflow.Step, opts Options, runEvenOnHit bool) ([]workflow.Step, error) {
	cacheStep, gated, err := WithCache(step, opts, runEvenOnHit)
	if err != nil {
		return nil, err
	}
	return []workflow.Step{cacheStep, gated}, nil
}

// MissCondition is the if expression that skips a step when the cache step
// with the given id reported a hit.
func MissCondition(id string) string {
	return fmt.Sprintf("steps.%s.outputs.cache-hit != 'true'", id)
}

// Fingerprint hashes the canonical JSON form of with. Map keys are sorted at
// every depth, and nil and empty maps hash alike.
func Fingerprint(with map[string]any) (string, error) {
	if with == nil {
		with = map[string]any{}
	}
	canonical, err := json.Marshal(with)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:8]), nil
}

// Slug lower-cases s, strips accents ("Café" becomes "cafe") and collapses
// every run of remaining characters other than ASCII letters and digits into
// a single "-". Letters without an ASCII base, such as "ß", act as separators.
func Slug(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range norm.NFD.String(strings.ToLower(s)) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}
