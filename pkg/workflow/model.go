// Package workflow models GitHub Actions workflows as Go values and renders
// them to workflow YAML.
//
// Jobs may depend on each other either by job key or by holding a pointer to
// the other *Job. Pointers are resolved back into keys by Normalize before a
// workflow is encoded.
package workflow

// Workflow is the top-level document: triggers plus an ordered set of jobs.
type Workflow struct {
	Name string   `yaml:"name"`
	On   Triggers `yaml:"on"`
	Jobs Jobs     `yaml:"jobs"`
}

// Triggers lists the events that start a workflow.
type Triggers struct {
	Push             *BranchFilter `yaml:"push,omitempty"`
	PullRequest      *BranchFilter `yaml:"pull_request,omitempty"`
	Schedule         []Schedule    `yaml:"schedule,omitempty"`
	WorkflowDispatch *Dispatch     `yaml:"workflow_dispatch,omitempty"`
	WorkflowCall     *Call         `yaml:"workflow_call,omitempty"`
}

// BranchFilter restricts push and pull_request triggers. An empty filter
// matches every ref.
type BranchFilter struct {
	Branches []string `yaml:"branches,omitempty"`
	Tags     []string `yaml:"tags,omitempty"`
	Paths    []string `yaml:"paths,omitempty"`
}

// Schedule is a cron trigger.
type Schedule struct {
	Cron string `yaml:"cron"`
}

// Dispatch enables manual runs.
type Dispatch struct {
	Inputs map[string]Input `yaml:"inputs,omitempty"`
}

// Call makes the workflow reusable from other workflows.
type Call struct {
	Inputs  map[string]Input  `yaml:"inputs,omitempty"`
	Secrets map[string]Secret `yaml:"secrets,omitempty"`
}

// Input types accepted by workflow_dispatch and workflow_call.
const (
	InputString  = "string"
	InputBoolean = "boolean"
	InputNumber  = "number"
	InputChoice  = "choice"
)

// Input declares a workflow input.
type Input struct {
	Description string   `yaml:"description,omitempty"`
	Required    bool     `yaml:"required,omitempty"`
	Type        string   `yaml:"type,omitempty"`
	Default     any      `yaml:"default,omitempty"`
	Options     []string `yaml:"options,omitempty"`
}

// Secret declares a secret a reusable workflow expects.
type Secret struct {
	Description string `yaml:"description,omitempty"`
	Required    bool   `yaml:"required,omitempty"`
}

// Job is a named unit of execution.
type Job struct {
	Name   string `yaml:"name"`
	RunsOn Runner `yaml:"runs-on"`
	Needs  Needs  `yaml:"needs,omitempty"`
	If     string `yaml:"if,omitempty"`
	Steps  []Step `yaml:"steps"`
}

// Step is a single action or command inside a job. ID is only needed when a
// later step refers to this one, for example to read its outputs.
type Step struct {
	Name string         `yaml:"name"`
	ID   string         `yaml:"id,omitempty"`
	If   string         `yaml:"if,omitempty"`
	Uses string         `yaml:"uses,omitempty"`
	Run  string         `yaml:"run,omitempty"`
	With map[string]any `yaml:"with,omitempty"`
	Env  map[string]any `yaml:"env,omitempty"`
}

// JobEntry binds a job to its key in the jobs mapping.
type JobEntry struct {
	Key string
	Job *Job
}

// Jobs is the jobs mapping. Slice order is the order jobs are written in.
type Jobs []JobEntry

// Lookup returns the job stored under key.
func (js Jobs) Lookup(key string) (*Job, bool) {
	for _, entry := range js {
		if entry.Key == key {
			return entry.Job, true
		}
	}
	return nil, false
}

// Keys returns the job keys in declaration order.
func (js Jobs) Keys() []string {
	keys := make([]string, 0, len(js))
	for _, entry := range js {
		keys = append(keys, entry.Key)
	}
	return keys
}
