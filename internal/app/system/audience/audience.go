// Package audience decides whether targeted content (events, notices) is
// visible to a viewer. An empty target set means everyone.
package audience

import (
	"strconv"
	"strings"
)

// Target is the branch and semester targeting of an event or notice.
type Target struct {
	Branches  []string
	Semesters []int
}

// Viewer is the filter applied to a Target. Zero values mean "not supplied"
// and do not filter; semesters start at 1.
type Viewer struct {
	Branch   string
	Semester int
}

// Matches reports whether v sees t. Each axis passes when the viewer did not
// supply a value, the target set is empty, or the set contains the value.
func Matches(t Target, v Viewer) bool {
	return matchBranch(t.Branches, v.Branch) && matchSemester(t.Semesters, v.Semester)
}

// MatchesAny is Matches with multi-valued filters: an axis passes when any
// of the supplied values passes.
func MatchesAny(t Target, branches []string, semesters []int) bool {
	return anyBranch(t.Branches, branches) && anySemester(t.Semesters, semesters)
}

func matchBranch(set []string, b string) bool {
	if b == "" || len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == b {
			return true
		}
	}
	return false
}

func matchSemester(set []int, n int) bool {
	if n == 0 || len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == n {
			return true
		}
	}
	return false
}

func anyBranch(set, want []string) bool {
	if len(want) == 0 || len(set) == 0 {
		return true
	}
	for _, b := range want {
		if matchBranch(set, b) && b != "" {
			return true
		}
	}
	return false
}

func anySemester(set, want []int) bool {
	if len(want) == 0 || len(set) == 0 {
		return true
	}
	for _, n := range want {
		if n != 0 && matchSemester(set, n) {
			return true
		}
	}
	return false
}

// ParseSemester parses a semester number as entered in a form or query
// string. ok is false for blanks, non-numbers, and values below 1.
func ParseSemester(s string) (n int, ok bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// ParseSemesters parses each value, skipping invalid ones.
func ParseSemesters(in []string) []int {
	out := make([]int, 0, len(in))
	for _, s := range in {
		if n, ok := ParseSemester(s); ok {
			out = append(out, n)
		}
	}
	return out
}
