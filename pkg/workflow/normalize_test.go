package workflow

import (
	"errors"
	"reflect"
	"testing"
)

func sampleJob(name string) *Job {
	return &Job{
		Name:   name,
		RunsOn: Ubuntu("22.04"),
		Steps:  []Step{{Name: "Echo", Run: "echo " + name}},
	}
}

func TestNormalizeResolvesReferences(t *testing.T) {
	a := sampleJob("A")
	b := sampleJob("B")
	b.Needs = One(Ref(a))
	c := sampleJob("C")
	c.Needs = All(Ref(a), Ref(b))

	wf := Workflow{Name: "Needs", Jobs: Jobs{{"jobA", a}, {"jobB", b}, {"jobC", c}}}
	got, err := Normalize(wf)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if keys := got.Jobs.Keys(); !reflect.DeepEqual(keys, []string{"jobA", "jobB", "jobC"}) {
		t.Fatalf("unexpected job order %v", keys)
	}

	jobB, _ := got.Jobs.Lookup("jobB")
	if jobB.Needs.IsList() {
		t.Fatalf("expected scalar needs for jobB")
	}
	keys, err := jobB.Needs.Keys()
	if err != nil || !reflect.DeepEqual(keys, []string{"jobA"}) {
		t.Fatalf("jobB needs: %v (%v)", keys, err)
	}

	jobC, _ := got.Jobs.Lookup("jobC")
	if !jobC.Needs.IsList() {
		t.Fatalf("expected sequence needs for jobC")
	}
	keys, err = jobC.Needs.Keys()
	if err != nil || !reflect.DeepEqual(keys, []string{"jobA", "jobB"}) {
		t.Fatalf("jobC needs: %v (%v)", keys, err)
	}

	jobA, _ := got.Jobs.Lookup("jobA")
	if !jobA.Needs.IsZero() {
		t.Fatalf("expected jobA needs to stay absent")
	}

	shared := sampleJob("Shared")
	d := sampleJob("D")
	d.Needs = One(Ref(shared))
	got, err = Normalize(Workflow{Jobs: Jobs{{"primary", shared}, {"alias", shared}, {"d", d}}})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	jobD, _ := got.Jobs.Lookup("d")
	keys, _ = jobD.Needs.Keys()
	if !reflect.DeepEqual(keys, []string{"primary"}) {
		t.Fatalf("expected a job stored twice to resolve to its first key, got %v", keys)
	}
}

func TestNormalizeUsesIdentityNotContent(t *testing.T) {
	first := sampleJob("Same")
	second := sampleJob("Same")
	dependent := sampleJob("Dependent")
	dependent.Needs = All(Ref(second), Ref(first))

	wf := Workflow{Jobs: Jobs{{"first", first}, {"second", second}, {"dependent", dependent}}}
	got, err := Normalize(wf)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	job, _ := got.Jobs.Lookup("dependent")
	keys, _ := job.Needs.Keys()
	if !reflect.DeepEqual(keys, []string{"second", "first"}) {
		t.Fatalf("expected identity resolution, got %v", keys)
	}
}

func TestNormalizeKeepsStringIDs(t *testing.T) {
	a := sampleJob("A")
	b := sampleJob("B")
	b.Needs = All(ID("external"), Ref(a))

	got, err := Normalize(Workflow{Jobs: Jobs{{"a", a}, {"b", b}}})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	job, _ := got.Jobs.Lookup("b")
	keys, _ := job.Needs.Keys()
	if !reflect.DeepEqual(keys, []string{"external", "a"}) {
		t.Fatalf("unexpected needs %v", keys)
	}
}

func TestNormalizeSingletonSequenceStaysSequence(t *testing.T) {
	a := sampleJob("A")
	b := sampleJob("B")
	b.Needs = All(Ref(a))

	got, err := Normalize(Workflow{Jobs: Jobs{{"a", a}, {"b", b}}})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	job, _ := got.Jobs.Lookup("b")
	if !job.Needs.IsList() {
		t.Fatalf("expected one-element sequence to keep sequence shape")
	}
}

func TestNormalizeDanglingReference(t *testing.T) {
	outside := sampleJob("Outside")
	b := sampleJob("B")
	b.Needs = One(Ref(outside))

	_, err := Normalize(Workflow{Jobs: Jobs{{"b", b}}})
	if !errors.Is(err, ErrDanglingReference) {
		t.Fatalf("expected ErrDanglingReference, got %v", err)
	}
	var dangling *DanglingReferenceError
	if !errors.As(err, &dangling) {
		t.Fatalf("expected *DanglingReferenceError, got %T", err)
	}
	if dangling.Job != "b" || dangling.Target != "Outside" {
		t.Fatalf("unexpected error details: %+v", dangling)
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	a := sampleJob("A")
	b := sampleJob("B")
	b.Needs = One(Ref(a))
	b.Steps[0].With = map[string]any{"k": "v"}

	wf := Workflow{Jobs: Jobs{{"a", a}, {"b", b}}}
	got, err := Normalize(wf)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if b.Needs.Dependencies()[0].Job() != a {
		t.Fatalf("input needs was rewritten")
	}
	if wf.Jobs[1].Job != b {
		t.Fatalf("input jobs slice was modified")
	}
	job, _ := got.Jobs.Lookup("b")
	if job == b {
		t.Fatalf("expected a fresh job value")
	}
	job.Steps[0].With["k"] = "changed"
	if b.Steps[0].With["k"] != "v" {
		t.Fatalf("output shares step maps with input")
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	a := sampleJob("A")
	b := sampleJob("B")
	b.Needs = All(Ref(a), ID("z"))
	wf := Workflow{Jobs: Jobs{{"a", a}, {"b", b}}}

	first, err := Normalize(wf)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	second, err := Normalize(wf)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalize is not deterministic")
	}
}

func TestNormalizeInvalidJobs(t *testing.T) {
	a := sampleJob("A")
	cases := []struct {
		name string
		jobs Jobs
		want error
	}{
		{"missing key", Jobs{{"", a}}, ErrInvalidJob},
		{"nil job", Jobs{{"a", nil}}, ErrInvalidJob},
		{"duplicate", Jobs{{"a", a}, {"a", sampleJob("B")}}, ErrDuplicateJobKey},
		{"nil reference", Jobs{{"a", a}, {"b", withNeeds(One(Ref(nil)))}}, ErrInvalidJob},
		{"nil reference in list", Jobs{{"a", a}, {"b", withNeeds(All(Ref(a), Ref(nil)))}}, ErrInvalidJob},
		{"empty key", Jobs{{"a", a}, {"b", withNeeds(One(ID("")))}}, ErrInvalidJob},
	}
	for _, tc := range cases {
		if _, err := Normalize(Workflow{Jobs: tc.jobs}); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestNormalizeEmptyAllIsAbsent(t *testing.T) {
	a := sampleJob("A")
	a.Needs = All()
	if !a.Needs.IsZero() {
		t.Fatalf("expected All() with no dependencies to be zero")
	}
	got, err := Normalize(Workflow{Jobs: Jobs{{"a", a}}})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	job, _ := got.Jobs.Lookup("a")
	if !job.Needs.IsZero() {
		t.Fatalf("expected needs to stay absent")
	}
}

func withNeeds(needs Needs) *Job {
	job := sampleJob("B")
	job.Needs = needs
	return job
}
