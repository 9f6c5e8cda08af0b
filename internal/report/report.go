package report

import "time"

// File statuses recorded by the generation runner.
const (
	StatusWritten   = "written"
	StatusUnchanged = "unchanged"
	StatusPlanned   = "planned"
	StatusDrift     = "drift"
	StatusMissing   = "missing"
)

// FileResult captures the outcome for one generated workflow file.
type FileResult struct {
	WorkflowName string `json:"workflow_name"`
	Path         string `json:"path"`
	Status       string `json:"status"`
	Bytes        int    `json:"bytes"`
}

// Summary aggregates a generation run.
type Summary struct {
	TotalWorkflows int           `json:"total_workflows"`
	TotalJobs      int           `json:"total_jobs"`
	TotalSteps     int           `json:"total_steps"`
	Written        int           `json:"written"`
	Unchanged      int           `json:"unchanged"`
	Planned        int           `json:"planned"`
	Drift          int           `json:"drift"`
	Missing        int           `json:"missing"`
	Duration       time.Duration `json:"-"`
	DurationMS     int64         `json:"duration_ms"`
	ExitCode       int           `json:"exit_code"`
}

// Add counts a result under its status.
func (s *Summary) Add(result FileResult) {
	switch result.Status {
	case StatusWritten:
		s.Written++
	case StatusUnchanged:
		s.Unchanged++
	case StatusPlanned:
		s.Planned++
	case StatusDrift:
		s.Drift++
	case StatusMissing:
		s.Missing++
	}
}
