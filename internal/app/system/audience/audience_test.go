package audience_test

import (
	"testing"

	"github.com/dalemusser/campushub/internal/app/system/audience"
	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	cseSem3 := audience.Target{Branches: []string{"CSE", "ECE"}, Semesters: []int{3, 5}}

	tests := []struct {
		name   string
		target audience.Target
		viewer audience.Viewer
		want   bool
	}{
		{"global target, any viewer", audience.Target{}, audience.Viewer{Branch: "ME", Semester: 1}, true},
		{"no filter supplied", cseSem3, audience.Viewer{}, true},
		{"branch and semester match", cseSem3, audience.Viewer{Branch: "CSE", Semester: 3}, true},
		{"branch mismatch", cseSem3, audience.Viewer{Branch: "ME", Semester: 3}, false},
		{"semester mismatch", cseSem3, audience.Viewer{Branch: "CSE", Semester: 4}, false},
		{"branch only", cseSem3, audience.Viewer{Branch: "ECE"}, true},
		{"semester only", cseSem3, audience.Viewer{Semester: 5}, true},
		{"empty branches, semester targeted", audience.Target{Semesters: []int{2}}, audience.Viewer{Branch: "ME", Semester: 2}, true},
		{"branch case is significant", cseSem3, audience.Viewer{Branch: "cse"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, audience.Matches(tt.target, tt.viewer))
		})
	}
}

func TestMatchesAny(t *testing.T) {
	target := audience.Target{Branches: []string{"CSE"}, Semesters: []int{3}}

	assert.True(t, audience.MatchesAny(target, nil, nil))
	assert.True(t, audience.MatchesAny(target, []string{"ME", "CSE"}, []int{1, 3}))
	assert.False(t, audience.MatchesAny(target, []string{"ME"}, nil))
	assert.False(t, audience.MatchesAny(target, nil, []int{4, 6}))
	assert.True(t, audience.MatchesAny(audience.Target{}, []string{"ME"}, []int{8}))
}

func TestParseSemester(t *testing.T) {
	n, ok := audience.ParseSemester("3")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	for _, bad := range []string{"", "x", "0", "-2"} {
		_, ok := audience.ParseSemester(bad)
		assert.False(t, ok, bad)
	}

	assert.Equal(t, []int{1, 4}, audience.ParseSemesters([]string{"1", "", "four", " 4 "}))
}
