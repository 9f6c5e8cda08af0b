package github

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/bgricker/workflowgen/internal/provider"
	"github.com/bgricker/workflowgen/internal/version"
	"gopkg.in/yaml.v3"
)

const ProviderName = "github"

var stepRefRegex = regexp.MustCompile(`steps\.([A-Za-z0-9_-]+)\.`)

// Parser loads GitHub Actions workflow files from disk.
type Parser struct {
	Root string
	// ActionVersions enables the cross-workflow major version check.
	ActionVersions bool
}

// NewParser constructs a Parser that resolves workflow paths relative to root.
func NewParser(root string) *Parser {
	return &Parser{Root: root, ActionVersions: true}
}

// Parse reads the supplied workflow paths and produces a Pipeline data model.
func (p *Parser) Parse(paths []string) (provider.Pipeline, error) {
	pipeline := provider.Pipeline{Provider: ProviderName}
	for _, relPath := range paths {
		full := relPath
		if !filepath.IsAbs(full) {
			full = filepath.Join(p.Root, relPath)
		}
		wf, warnings, err := parseWorkflow(full, relPath)
		if err != nil {
			return provider.Pipeline{}, err
		}
		pipeline.Workflows = append(pipeline.Workflows, wf)
		pipeline.Warnings = append(pipeline.Warnings, warnings...)
	}
	if p.ActionVersions {
		pipeline.Warnings = append(pipeline.Warnings, CheckActionVersions(pipeline.Workflows)...)
	}
	return pipeline, nil
}

func parseWorkflow(fullPath, displayPath string) (provider.Workflow, []provider.Warning, error) {
	f, err := os.Open(fullPath)
	if err != nil {
		return provider.Workflow{}, nil, fmt.Errorf("open workflow %q: %w", displayPath, err)
	}
	defer f.Close()
	return Decode(f, displayPath)
}

// Decode parses one workflow document. Jobs and steps keep document order.
func Decode(r io.Reader, displayPath string) (provider.Workflow, []provider.Warning, error) {
	decoder := yaml.NewDecoder(r)

	var wfDoc workflowDocument
	if err := decoder.Decode(&wfDoc); err != nil {
		return provider.Workflow{}, nil, fmt.Errorf("parse workflow %q: %w", displayPath, err)
	}

	wf := provider.Workflow{
		Path:     displayPath,
		Name:     wfDoc.Name,
		Triggers: triggerNames(&wfDoc.On),
	}
	if wf.Name == "" {
		wf.Name = filepath.Base(displayPath)
	}

	warnings := make([]provider.Warning, 0)
	warn := func(job, format string, args ...interface{}) {
		warnings = append(warnings, provider.Warning{
			Workflow: displayPath,
			Job:      job,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	if wfDoc.Jobs.Kind != 0 && wfDoc.Jobs.Kind != yaml.MappingNode {
		return provider.Workflow{}, nil, fmt.Errorf("parse workflow %q: jobs must be a mapping", displayPath)
	}

	known := make(map[string]struct{})
	wf.Jobs = make([]provider.Job, 0, len(wfDoc.Jobs.Content)/2)
	for i := 0; i+1 < len(wfDoc.Jobs.Content); i += 2 {
		jobID := wfDoc.Jobs.Content[i].Value
		var jobDoc jobDocument
		if err := wfDoc.Jobs.Content[i+1].Decode(&jobDoc); err != nil {
			return provider.Workflow{}, nil, fmt.Errorf("parse job %q in %q: %w", jobID, displayPath, err)
		}
		known[jobID] = struct{}{}

		job := provider.Job{
			RawID:  jobID,
			Name:   jobDoc.Name,
			RunsOn: scalarOrList(&jobDoc.RunsOn),
			Needs:  scalarOrList(&jobDoc.Needs),
			If:     jobDoc.If,
		}
		if job.Name == "" {
			job.Name = jobID
		}

		declared := make(map[string]struct{})
		job.Steps = make([]provider.Step, 0, len(jobDoc.Steps))
		for idx, stepDoc := range jobDoc.Steps {
			step := provider.Step{
				ID:   stepDoc.ID,
				Name: stepDoc.Name,
				If:   stepDoc.If,
				Run:  stepDoc.Run,
				Uses: stepDoc.Uses,
				With: convertMap(stepDoc.With),
				Env:  convertMap(stepDoc.Env),
			}
			if step.Name == "" {
				step.Name = fmt.Sprintf("step %d", idx+1)
			}
			for _, match := range stepRefRegex.FindAllStringSubmatch(step.If, -1) {
				if _, ok := declared[match[1]]; !ok {
					warn(jobID, "step %q refers to undeclared step id %q", step.Name, match[1])
				}
			}
			if step.Uses != "" {
				if action, ok := version.ParseAction(step.Uses); ok && !action.Pinned() {
					warn(jobID, "step %q uses unpinned action %q", step.Name, step.Uses)
				}
			}
			if step.ID != "" {
				declared[step.ID] = struct{}{}
			}
			job.Steps = append(job.Steps, step)
		}

		wf.Jobs = append(wf.Jobs, job)
	}

	for _, job := range wf.Jobs {
		for _, need := range job.Needs {
			if _, ok := known[need]; !ok {
				warn(job.RawID, "needs unknown job %q", need)
			}
		}
	}

	return wf, warnings, nil
}

// CheckActionVersions warns when one action is referenced at more than one
// major version across workflows.
func CheckActionVersions(workflows []provider.Workflow) []provider.Warning {
	type use struct {
		action   version.Action
		workflow string
		job      string
	}
	first := make(map[string]use)
	reported := make(map[string]struct{})
	var warnings []provider.Warning

	for _, wf := range workflows {
		for _, job := range wf.Jobs {
			for _, step := range job.Steps {
				action, ok := version.ParseAction(step.Uses)
				if !ok || !action.Pinned() {
					continue
				}
				prev, seen := first[action.Name()]
				if !seen {
					first[action.Name()] = use{action: action, workflow: wf.Path, job: job.RawID}
					continue
				}
				if version.SameMajor(prev.action, action) {
					continue
				}
				key := action.Name() + "@" + action.Major()
				if _, done := reported[key]; done {
					continue
				}
				reported[key] = struct{}{}
				warnings = append(warnings, provider.Warning{
					Workflow: wf.Path,
					Job:      job.RawID,
					Message: fmt.Sprintf("action %s used at %s here but %s in %s:%s",
						action.Name(), action.Ref, prev.action.Ref, prev.workflow, prev.job),
				})
			}
		}
	}
	return warnings
}

type workflowDocument struct {
	Name string    `yaml:"name"`
	On   yaml.Node `yaml:"on"`
	Jobs yaml.Node `yaml:"jobs"`
}

type jobDocument struct {
	Name   string         `yaml:"name"`
	RunsOn yaml.Node      `yaml:"runs-on"`
	Needs  yaml.Node      `yaml:"needs"`
	If     string         `yaml:"if"`
	Steps  []stepDocument `yaml:"steps"`
}

type stepDocument struct {
	ID   string                 `yaml:"id"`
	Name string                 `yaml:"name"`
	If   string                 `yaml:"if"`
	Run  string                 `yaml:"run"`
	Uses string                 `yaml:"uses"`
	With map[string]interface{} `yaml:"with"`
	Env  map[string]interface{} `yaml:"env"`
}

// triggerNames accepts the three shapes of `on`: a single event, a list of
// events, or a mapping of events to their filters.
func triggerNames(node *yaml.Node) []string {
	switch node.Kind {
	case yaml.ScalarNode:
		return []string{node.Value}
	case yaml.SequenceNode:
		return scalarOrList(node)
	case yaml.MappingNode:
		names := make([]string, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			names = append(names, node.Content[i].Value)
		}
		return names
	}
	return nil
}

func scalarOrList(node *yaml.Node) []string {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == "" {
			return nil
		}
		return []string{node.Value}
	case yaml.SequenceNode:
		out := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			out = append(out, item.Value)
		}
		return out
	}
	return nil
}

func convertMap(input map[string]interface{}) map[string]string {
	if len(input) == 0 {
		return nil
	}
	out := make(map[string]string, len(input))
	for k, v := range input {
		out[k] = fmt.Sprint(v)
	}
	return out
}
