// internal/app/features/notices/render.go
package notices

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/dalemusser/campushub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/campushub/internal/domain/models"
)

// body renders notice markdown to sanitized HTML. Content that fails to
// render is shown as escaped plain text.
func body(content string) template.HTML {
	html, err := htmlsanitize.RenderMarkdown(content)
	if err != nil {
		return template.HTML(htmlsanitize.PlainTextToHTML(content))
	}
	return html
}

// targetLabel describes who a notice is aimed at.
func targetLabel(n models.Notice) string {
	var parts []string
	if len(n.TargetBranches) > 0 {
		parts = append(parts, strings.Join(n.TargetBranches, ", "))
	}
	if len(n.TargetSemesters) > 0 {
		sems := make([]string, 0, len(n.TargetSemesters))
		for _, s := range n.TargetSemesters {
			sems = append(sems, strconv.Itoa(s))
		}
		parts = append(parts, "Sem "+strings.Join(sems, ", "))
	}
	if len(parts) == 0 {
		return "Everyone"
	}
	return strings.Join(parts, " · ")
}

func stamp(n models.Notice) string {
	s := n.CreatedAt.UTC().Format("Jan 2, 2006 3:04 PM")
	if n.UpdatedAt != nil {
		s += " (edited " + n.UpdatedAt.UTC().Format("Jan 2, 2006 3:04 PM") + ")"
	}
	return s
}
