package version

import "testing"

func TestParseAction(t *testing.T) {
	cases := []struct {
		in     string
		ok     bool
		name   string
		ref    string
		pinned bool
	}{
		{"actions/checkout@v4", true, "actions/checkout", "v4", true},
		{"github/codeql-action/init@v3.1.0", true, "github/codeql-action/init", "v3.1.0", true},
		{"actions/cache", true, "actions/cache", "", false},
		{"./.github/actions/setup", false, "", "", false},
		{"docker://alpine:3.19", false, "", "", false},
		{"", false, "", "", false},
		{"checkout@v4", false, "", "", false},
	}
	for _, c := range cases {
		got, ok := ParseAction(c.in)
		if ok != c.ok {
			t.Fatalf("ParseAction(%q) ok = %v, want %v", c.in, ok, c.ok)
		}
		if !ok {
			continue
		}
		if got.Name() != c.name || got.Ref != c.ref || got.Pinned() != c.pinned {
			t.Fatalf("ParseAction(%q) = %+v", c.in, got)
		}
	}
}

func TestMajor(t *testing.T) {
	cases := []struct {
		ref  string
		want string
	}{
		{"v4", "v4"},
		{"v4.1.2", "v4"},
		{"main", "main"},
		{"8e5e7e5ab8b370d6c329ec480221332ada57f0ab", "8e5e7e5ab8b370d6c329ec480221332ada57f0ab"},
		{"", ""},
	}
	for _, c := range cases {
		if got := (Action{Ref: c.ref}).Major(); got != c.want {
			t.Fatalf("Major(%q) = %q, want %q", c.ref, got, c.want)
		}
	}
}

func TestSameMajor(t *testing.T) {
	tests := []struct {
		a, b  string
		match bool
	}{
		{"v4", "v4.2.0", true},
		{"v3", "v4", false},
		{"", "v4", true},
		{"V4", "v4.0.1", true},
	}
	for _, tt := range tests {
		if got := SameMajor(Action{Ref: tt.a}, Action{Ref: tt.b}); got != tt.match {
			t.Fatalf("SameMajor(%q,%q)=%v want %v", tt.a, tt.b, got, tt.match)
		}
	}
}
