package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bgricker/workflowgen/internal/provider"
	"github.com/bgricker/workflowgen/pkg/workflow"
)

// Pattern represents a compiled filter condition supporting substring and regex matching.
type Pattern struct {
	raw   string
	regex *regexp.Regexp
	lower string
}

// Compile transforms raw pattern strings into Pattern values. A pattern
// wrapped in slashes is a regular expression, anything else a
// case-insensitive substring.
func Compile(patterns []string) ([]Pattern, error) {
	result := make([]Pattern, 0, len(patterns))
	for _, raw := range patterns {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.HasPrefix(raw, "/") && strings.HasSuffix(raw, "/") && len(raw) >= 2 {
			re, err := regexp.Compile(raw[1 : len(raw)-1])
			if err != nil {
				return nil, fmt.Errorf("compile regexp %q: %w", raw, err)
			}
			result = append(result, Pattern{raw: raw, regex: re})
			continue
		}
		result = append(result, Pattern{raw: raw, lower: strings.ToLower(raw)})
	}
	return result, nil
}

// String returns the pattern as written.
func (p Pattern) String() string {
	return p.raw
}

// Match reports whether the pattern matches the supplied string.
func (p Pattern) Match(s string) bool {
	if s == "" {
		return false
	}
	if p.regex != nil {
		return p.regex.MatchString(s)
	}
	return strings.Contains(strings.ToLower(s), p.lower)
}

// Any reports whether any pattern matches any of values. No patterns match
// everything.
func Any(patterns []Pattern, values ...string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		for _, v := range values {
			if pattern.Match(v) {
				return true
			}
		}
	}
	return false
}

// SelectWorkflows keeps workflows whose name or file name matches.
func SelectWorkflows(workflows []workflow.Workflow, patterns []Pattern) []workflow.Workflow {
	result := make([]workflow.Workflow, 0, len(workflows))
	for _, wf := range workflows {
		if Any(patterns, wf.Name, workflow.FileName(wf.Name)) {
			result = append(result, wf)
		}
	}
	return result
}

// FilterJobs keeps jobs whose key or name matches, dropping workflows left
// without jobs.
func FilterJobs(workflows []provider.Workflow, jobPatterns []Pattern) []provider.Workflow {
	if len(workflows) == 0 {
		return nil
	}

	result := make([]provider.Workflow, 0, len(workflows))
	for _, wf := range workflows {
		filteredJobs := make([]provider.Job, 0, len(wf.Jobs))
		for _, job := range wf.Jobs {
			if Any(jobPatterns, job.Name, job.RawID) {
				filteredJobs = append(filteredJobs, job)
			}
		}
		if len(filteredJobs) == 0 {
			continue
		}
		wfCopy := wf
		wfCopy.Jobs = filteredJobs
		result = append(result, wfCopy)
	}
	return result
}
