// Package templates declares this repository's own GitHub workflows.
package templates

import (
	"fmt"

	"github.com/bgricker/workflowgen/pkg/workflow"
	"github.com/bgricker/workflowgen/pkg/workflow/cache"
)

// All returns every workflow generated for the repository, in a fixed order.
func All() ([]workflow.Workflow, error) {
	ci, err := ContinuousIntegration()
	if err != nil {
		return nil, err
	}
	release, err := Release()
	if err != nil {
		return nil, err
	}
	return []workflow.Workflow{ci, release}, nil
}

// BasicSetup checks out the repository and installs Go.
func BasicSetup() []workflow.Step {
	return []workflow.Step{
		{Name: "Checkout", Uses: Checkout},
		{
			Name: "Set up Go",
			Uses: SetupGo,
			With: map[string]any{"go-version": GoVersion, "cache": false},
		},
	}
}

// moduleDownload fetches modules, skipped when the module cache was restored.
func moduleDownload() ([]workflow.Step, error) {
	steps, err := cache.Steps(workflow.Step{
		Name: "Download modules",
		Run:  "go mod download",
	}, cache.Options{
		Uses:        Cache,
		Path:        "~/go/pkg/mod",
		RestoreKeys: "cache-download-modules-",
		KeySuffix:   "${{ hashFiles('**/go.sum') }}",
	}, false)
	if err != nil {
		return nil, fmt.Errorf("cache module download: %w", err)
	}
	return steps, nil
}

// TestJob runs the test suite.
func TestJob() (*workflow.Job, error) {
	download, err := moduleDownload()
	if err != nil {
		return nil, err
	}
	steps := append(BasicSetup(), download...)
	steps = append(steps, workflow.Step{Name: "Run tests", Run: "go test -race ./..."})
	return &workflow.Job{
		Name:   "Run tests",
		RunsOn: workflow.Ubuntu("22.04"),
		Steps:  steps,
	}, nil
}

// ContinuousIntegration lints and tests every push and pull request to main.
func ContinuousIntegration() (workflow.Workflow, error) {
	lint := &workflow.Job{
		Name:   "Lint",
		RunsOn: workflow.Ubuntu("22.04"),
		Steps: append(BasicSetup(), workflow.Step{
			Name: "golangci-lint",
			Uses: GolangciLint,
			With: map[string]any{"version": "latest"},
		}),
	}
	test, err := TestJob()
	if err != nil {
		return workflow.Workflow{}, err
	}
	test.Needs = workflow.One(workflow.Ref(lint))

	return workflow.Workflow{
		Name: "Run all tests",
		On: workflow.Triggers{
			Push:        &workflow.BranchFilter{Branches: []string{"main"}},
			PullRequest: &workflow.BranchFilter{Branches: []string{"main"}},
		},
		Jobs: workflow.Jobs{
			{Key: "lint", Job: lint},
			{Key: "test", Job: test},
		},
	}, nil
}

// Release tests and publishes tagged versions.
func Release() (workflow.Workflow, error) {
	test, err := TestJob()
	if err != nil {
		return workflow.Workflow{}, err
	}
	publish := &workflow.Job{
		Name:   "Publish release",
		RunsOn: workflow.Ubuntu("22.04"),
		Needs:  workflow.All(workflow.Ref(test)),
		Steps: append(BasicSetup(), workflow.Step{
			Name: "Run GoReleaser",
			Uses: GoReleaser,
			With: map[string]any{"version": "latest", "args": "release --clean"},
			Env:  map[string]any{"GITHUB_TOKEN": "${{ secrets.GITHUB_TOKEN }}"},
		}),
	}

	return workflow.Workflow{
		Name: "Release",
		On: workflow.Triggers{
			Push:             &workflow.BranchFilter{Tags: []string{"v*"}},
			WorkflowDispatch: &workflow.Dispatch{},
		},
		Jobs: workflow.Jobs{
			{Key: "test", Job: test},
			{Key: "publish", Job: publish},
		},
	}, nil
}
