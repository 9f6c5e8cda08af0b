package provider

// Pipeline represents a parsed set of workflows from a provider.
type Pipeline struct {
	Provider  string     `json:"provider"`
	Workflows []Workflow `json:"workflows"`
	Warnings  []Warning  `json:"warnings"`
}

// Warning captures non-fatal issues encountered while parsing workflows.
type Warning struct {
	Workflow string `json:"workflow"`
	Job      string `json:"job"`
	Message  string `json:"message"`
}

// Workflow is a flattened view of a GitHub Actions workflow file.
type Workflow struct {
	Path     string   `json:"path"`
	Name     string   `json:"name"`
	Triggers []string `json:"triggers,omitempty"`
	Jobs     []Job    `json:"jobs"`
}

// Job represents a workflow job in document order.
type Job struct {
	Name   string   `json:"name"`
	RawID  string   `json:"id"`
	RunsOn []string `json:"runs_on,omitempty"`
	Needs  []string `json:"needs,omitempty"`
	If     string   `json:"if,omitempty"`
	Steps  []Step   `json:"steps"`
}

// Step represents an individual GitHub Actions workflow step.
type Step struct {
	ID   string            `json:"id,omitempty"`
	Name string            `json:"name"`
	If   string            `json:"if,omitempty"`
	Run  string            `json:"run,omitempty"`
	Uses string            `json:"uses,omitempty"`
	With map[string]string `json:"with,omitempty"`
	Env  map[string]string `json:"env,omitempty"`
}
