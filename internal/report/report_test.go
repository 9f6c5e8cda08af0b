package report

import "testing"

func TestSummaryAdd(t *testing.T) {
	var s Summary
	for _, status := range []string{StatusWritten, StatusWritten, StatusUnchanged, StatusPlanned, StatusDrift, StatusMissing, "other"} {
		s.Add(FileResult{Status: status})
	}
	if s.Written != 2 || s.Unchanged != 1 || s.Planned != 1 || s.Drift != 1 || s.Missing != 1 {
		t.Fatalf("unexpected summary %+v", s)
	}
}
