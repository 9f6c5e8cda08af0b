package runner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bgricker/workflowgen/internal/report"
	"github.com/bgricker/workflowgen/pkg/workflow"
)

func sampleWorkflow(name, command string) workflow.Workflow {
	build := &workflow.Job{
		Name:   "Build",
		RunsOn: workflow.Ubuntu("latest"),
		Steps:  []workflow.Step{{Name: "Build", Run: command}},
	}
	test := &workflow.Job{
		Name:   "Test",
		RunsOn: workflow.Ubuntu("latest"),
		Needs:  workflow.One(workflow.Ref(build)),
		Steps:  []workflow.Step{{Name: "Test", Run: "go test ./..."}},
	}
	return workflow.Workflow{
		Name: name,
		On:   workflow.Triggers{Push: &workflow.BranchFilter{}},
		Jobs: workflow.Jobs{{Key: "build", Job: build}, {Key: "test", Job: test}},
	}
}

func TestRunnerWritesThenUnchanged(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".github"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	wf := sampleWorkflow("Build and test", "go build ./...")

	results, summary, err := New(Options{Root: root}).Run([]workflow.Workflow{wf})
	if err != nil {
		t.Fatalf("runner Run: %v", err)
	}
	if len(results) != 1 || results[0].Status != report.StatusWritten {
		t.Fatalf("expected written result, got %+v", results)
	}
	wantPath := filepath.Join(".github", "workflows", "Build-and-test.yml")
	if results[0].Path != wantPath {
		t.Fatalf("expected path %q, got %q", wantPath, results[0].Path)
	}
	if summary.Written != 1 || summary.TotalJobs != 2 || summary.TotalSteps != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	data, err := os.ReadFile(filepath.Join(root, wantPath))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want, _ := workflow.Marshal(wf)
	if string(data) != string(want) {
		t.Fatalf("written file differs from rendered workflow")
	}

	results, summary, err = New(Options{Root: root}).Run([]workflow.Workflow{wf})
	if err != nil {
		t.Fatalf("runner Run: %v", err)
	}
	if results[0].Status != report.StatusUnchanged || summary.Unchanged != 1 {
		t.Fatalf("expected unchanged on second run, got %+v", results[0])
	}
}

func TestRunnerDryRun(t *testing.T) {
	root := t.TempDir()
	results, summary, err := New(Options{Root: root, OutputDir: "out", DryRun: true}).Run([]workflow.Workflow{sampleWorkflow("ci", "make")})
	if err != nil {
		t.Fatalf("runner Run: %v", err)
	}
	if results[0].Status != report.StatusPlanned || summary.Planned != 1 {
		t.Fatalf("expected planned result, got %+v", results[0])
	}
	if _, err := os.Stat(filepath.Join(root, "out", "ci.yml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("dry run wrote a file: %v", err)
	}
}

func TestRunnerCheck(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "out")
	fresh := sampleWorkflow("fresh", "make")
	stale := sampleWorkflow("stale", "make")
	missing := sampleWorkflow("missing", "make")

	if _, _, err := New(Options{Root: root, OutputDir: out}).Run([]workflow.Workflow{fresh, stale}); err != nil {
		t.Fatalf("seed run: %v", err)
	}
	stale = sampleWorkflow("stale", "make all")

	results, summary, err := New(Options{Root: root, OutputDir: out, Check: true}).Run([]workflow.Workflow{fresh, stale, missing})
	if err != nil {
		t.Fatalf("runner Run: %v", err)
	}
	want := []string{report.StatusUnchanged, report.StatusDrift, report.StatusMissing}
	for i, status := range want {
		if results[i].Status != status {
			t.Fatalf("result %d: want %s, got %s", i, status, results[i].Status)
		}
	}
	if summary.ExitCode != 1 {
		t.Fatalf("expected exit code 1, got %d", summary.ExitCode)
	}

	data, err := os.ReadFile(filepath.Join(out, "stale.yml"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	rendered, _ := workflow.Marshal(stale)
	if string(data) == string(rendered) {
		t.Fatalf("check mode must not rewrite files")
	}
}

func TestRunnerRenderFailureWritesNothing(t *testing.T) {
	root := t.TempDir()
	good := sampleWorkflow("good", "make")
	orphan := &workflow.Job{Name: "Orphan", RunsOn: workflow.Ubuntu("latest")}
	bad := sampleWorkflow("bad", "make")
	bad.Jobs[1].Job.Needs = workflow.One(workflow.Ref(orphan))

	_, _, err := New(Options{Root: root, OutputDir: "out"}).Run([]workflow.Workflow{good, bad})
	if !errors.Is(err, workflow.ErrDanglingReference) {
		t.Fatalf("expected dangling reference error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "out")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected nothing written, stat err %v", err)
	}
}
