// internal/app/features/notices/feed.go
package notices

import (
	"context"
	"html/template"
	"net/http"

	"github.com/dalemusser/campushub/internal/app/system/audience"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/system/viewdata"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

type feedItem struct {
	Title  string
	Body   template.HTML
	Author string
	Stamp  string
}

type feedData struct {
	viewdata.BaseVM
	Items []feedItem
}

// forViewer keeps the notices v can see. Order is preserved.
func forViewer(all []models.Notice, v audience.Viewer) []feedItem {
	out := make([]feedItem, 0, len(all))
	for _, n := range all {
		if !audience.Matches(audience.Target{Branches: n.TargetBranches, Semesters: n.TargetSemesters}, v) {
			continue
		}
		out = append(out, feedItem{
			Title:  n.Title,
			Body:   body(n.Content),
			Author: n.AuthorName,
			Stamp:  stamp(n),
		})
	}
	return out
}

// ServeFeed shows the notices aimed at the signed-in student's branch and
// semester, plus global ones.
func (h *Handler) ServeFeed(w http.ResponseWriter, r *http.Request) {
	var v audience.Viewer
	if u, ok := auth.CurrentUser(r); ok {
		v = audience.Viewer{Branch: u.Branch, Semester: u.Semester}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	all, err := h.Store.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list notices failed", err, "Could not load notices.", "/dashboard/student")
		return
	}

	templates.Render(w, r, "notices_feed", feedData{
		BaseVM: viewdata.NewBaseVM(r, "Notices", "/dashboard/student"),
		Items:  forViewer(all, v),
	})
}
