package version

import (
	"regexp"
	"strings"
)

// Action is a parsed `uses:` reference of the form owner/repo[/path]@ref.
type Action struct {
	Repo string
	Path string
	Ref  string
}

var shaRegex = regexp.MustCompile(`^[0-9a-f]{40}$`)

// ParseAction splits a uses reference. Local actions ("./...") and docker
// images ("docker://...") are not repository actions and report false.
func ParseAction(uses string) (Action, bool) {
	uses = strings.TrimSpace(uses)
	if uses == "" || strings.HasPrefix(uses, "./") || strings.HasPrefix(uses, "docker://") {
		return Action{}, false
	}
	name, ref, _ := strings.Cut(uses, "@")
	parts := strings.SplitN(name, "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Action{}, false
	}
	action := Action{Repo: parts[0] + "/" + parts[1], Ref: ref}
	if len(parts) == 3 {
		action.Path = parts[2]
	}
	return action, true
}

// Name returns the action without its ref.
func (a Action) Name() string {
	if a.Path == "" {
		return a.Repo
	}
	return a.Repo + "/" + a.Path
}

// Pinned reports whether the action names a ref.
func (a Action) Pinned() bool {
	return a.Ref != ""
}

// Major returns the major component of the ref: "v4" for "v4.1.2", the full
// ref for commit SHAs and branch names.
func (a Action) Major() string {
	if shaRegex.MatchString(a.Ref) {
		return a.Ref
	}
	major, _, _ := strings.Cut(a.Ref, ".")
	return major
}

// SameMajor reports whether two refs of one action share a major version.
func SameMajor(a, b Action) bool {
	if a.Major() == "" || b.Major() == "" {
		return true
	}
	return strings.EqualFold(a.Major(), b.Major())
}
