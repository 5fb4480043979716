package notices

import (
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/audience"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForViewer(t *testing.T) {
	all := []models.Notice{
		{Title: "Global"},
		{Title: "CSE only", TargetBranches: []string{"CSE"}},
		{Title: "IT sem 5", TargetBranches: []string{"IT"}, TargetSemesters: models.Semesters{5}},
		{Title: "Sem 3", TargetSemesters: models.Semesters{3}},
	}

	got := forViewer(all, audience.Viewer{Branch: "CSE", Semester: 3})
	titles := make([]string, 0, len(got))
	for _, it := range got {
		titles = append(titles, it.Title)
	}
	assert.Equal(t, []string{"Global", "CSE only", "Sem 3"}, titles)

	// A profile without branch or semester sees everything.
	assert.Len(t, forViewer(all, audience.Viewer{}), 4)
}

func TestBody_SanitizesMarkdown(t *testing.T) {
	html := string(body("**Bold** <script>alert(1)</script>"))
	assert.Contains(t, html, "<strong>Bold</strong>")
	assert.False(t, strings.Contains(html, "<script>"))
}

func TestTargetLabel(t *testing.T) {
	assert.Equal(t, "Everyone", targetLabel(models.Notice{}))
	assert.Equal(t, "CSE, IT · Sem 3, 4", targetLabel(models.Notice{
		TargetBranches:  []string{"CSE", "IT"},
		TargetSemesters: models.Semesters{3, 4},
	}))
}

func TestStamp_MarksEdits(t *testing.T) {
	created := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	n := models.Notice{CreatedAt: created}
	require.Equal(t, "Jan 5, 2026 9:00 AM", stamp(n))

	edited := created.Add(26 * time.Hour)
	n.UpdatedAt = &edited
	assert.Equal(t, "Jan 5, 2026 9:00 AM (edited Jan 6, 2026 11:00 AM)", stamp(n))
}
