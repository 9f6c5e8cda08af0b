package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bgricker/workflowgen/pkg/workflow"
)

func sampleWorkflows() []workflow.Workflow {
	lint := &workflow.Job{
		Name:   "Lint",
		RunsOn: workflow.Ubuntu("latest"),
		Steps:  []workflow.Step{{Name: "Vet", Run: "go vet ./..."}},
	}
	test := &workflow.Job{
		Name:   "Test",
		RunsOn: workflow.Ubuntu("latest"),
		Needs:  workflow.One(workflow.Ref(lint)),
		Steps:  []workflow.Step{{Name: "Test", Run: "go test ./..."}},
	}
	return []workflow.Workflow{{
		Name: "Run all tests",
		On:   workflow.Triggers{Push: &workflow.BranchFilter{}},
		Jobs: workflow.Jobs{{Key: "lint", Job: lint}, {Key: "test", Job: test}},
	}}
}

func TestServeWorkflowYAML(t *testing.T) {
	srv := httptest.NewServer(New(sampleWorkflows(), nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/workflows/Run-all-tests.yml")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/yaml" {
		t.Fatalf("unexpected content type %q", ct)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	want, err := workflow.Marshal(sampleWorkflows()[0])
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if string(body) != string(want) {
		t.Fatalf("unexpected body:\n%s", body)
	}
}

func TestServeList(t *testing.T) {
	rec := httptest.NewRecorder()
	New(sampleWorkflows(), nil).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/workflows", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body listResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Workflows) != 1 {
		t.Fatalf("expected 1 workflow, got %d", len(body.Workflows))
	}
	jobs := body.Workflows[0].Jobs
	if len(jobs) != 2 || jobs[0].RawID != "lint" || jobs[1].Needs[0] != "lint" {
		t.Fatalf("unexpected jobs %+v", jobs)
	}
}

func TestServeNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	New(sampleWorkflows(), nil).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/workflows/nope.yml", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestServeRenderFailure(t *testing.T) {
	workflows := sampleWorkflows()
	workflows[0].Jobs[1].Job.Needs = workflow.One(workflow.Ref(&workflow.Job{Name: "Ghost"}))

	rec := httptest.NewRecorder()
	New(workflows, nil).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/workflows/Run-all-tests.yml", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "dangling dependency reference") {
		t.Fatalf("expected error message, got %q", rec.Body.String())
	}
}
