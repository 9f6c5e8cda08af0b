package workflow

import (
	"fmt"
	"maps"
	"slices"
)

// Normalize returns a copy of w in which every needs entry is a job key.
//
// Pointer dependencies are resolved by identity against w.Jobs, so two jobs
// with identical content still resolve to their own keys. A pointer to a job
// missing from w.Jobs fails with a *DanglingReferenceError, and a nil pointer
// or an empty key fails with ErrInvalidJob. Whether needs is a
// scalar or a sequence is kept per job. w is not modified.
func Normalize(w Workflow) (Workflow, error) {
	keys, err := indexJobs(w.Jobs)
	if err != nil {
		return Workflow{}, err
	}

	out := w
	out.Jobs = make(Jobs, 0, len(w.Jobs))
	for _, entry := range w.Jobs {
		needs, err := resolveNeeds(entry, keys)
		if err != nil {
			return Workflow{}, err
		}
		job := cloneJob(entry.Job)
		job.Needs = needs
		out.Jobs = append(out.Jobs, JobEntry{Key: entry.Key, Job: job})
	}
	return out, nil
}

func indexJobs(jobs Jobs) (map[*Job]string, error) {
	keys := make(map[*Job]string, len(jobs))
	seen := make(map[string]struct{}, len(jobs))
	for i, entry := range jobs {
		if entry.Key == "" {
			return nil, fmt.Errorf("job %d has no key: %w", i, ErrInvalidJob)
		}
		if entry.Job == nil {
			return nil, fmt.Errorf("job %q is nil: %w", entry.Key, ErrInvalidJob)
		}
		if _, ok := seen[entry.Key]; ok {
			return nil, fmt.Errorf("job %q: %w", entry.Key, ErrDuplicateJobKey)
		}
		seen[entry.Key] = struct{}{}
		if _, ok := keys[entry.Job]; !ok {
			keys[entry.Job] = entry.Key
		}
	}
	return keys, nil
}

func resolveNeeds(entry JobEntry, keys map[*Job]string) (Needs, error) {
	needs := entry.Job.Needs
	if needs.IsZero() {
		return Needs{}, nil
	}
	out := Needs{deps: make([]Dependency, 0, len(needs.deps)), list: needs.list}
	for _, dep := range needs.deps {
		if !dep.ref {
			if dep.id == "" {
				return Needs{}, fmt.Errorf("job %q needs an empty key: %w", entry.Key, ErrInvalidJob)
			}
			out.deps = append(out.deps, dep)
			continue
		}
		if dep.job == nil {
			return Needs{}, fmt.Errorf("job %q needs a nil job: %w", entry.Key, ErrInvalidJob)
		}
		key, ok := keys[dep.job]
		if !ok {
			return Needs{}, &DanglingReferenceError{Job: entry.Key, Target: dep.job.Name}
		}
		out.deps = append(out.deps, ID(key))
	}
	return out, nil
}

func cloneJob(job *Job) *Job {
	out := *job
	out.Steps = make([]Step, len(job.Steps))
	for i, step := range job.Steps {
		step.With = maps.Clone(step.With)
		step.Env = maps.Clone(step.Env)
		out.Steps[i] = step
	}
	out.RunsOn = Runner{labels: slices.Clone(job.RunsOn.labels)}
	return &out
}
