// internal/app/features/notices/admin.go
package notices

import (
	"context"
	"errors"
	"net/http"

	noticestore "github.com/dalemusser/campushub/internal/app/store/notices"
	"github.com/dalemusser/campushub/internal/app/system/audience"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/campushub/internal/app/system/inputval"
	"github.com/dalemusser/campushub/internal/app/system/normalize"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/system/viewdata"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type noticeRow struct {
	ID        string
	Title     string
	Excerpt   string
	Target    string
	Author    string
	Stamp     string
	CSRFToken string
}

type listData struct {
	viewdata.BaseVM
	Items []noticeRow
}

type formData struct {
	viewdata.BaseVM
	ID          string
	NoticeTitle string
	Content     string
	Branches    []string
	Semesters   []int
	Editing     bool

	BranchOptions   []string
	SemesterOptions []int
}

// BranchChecked reports whether b is a chosen target branch.
func (d formData) BranchChecked(b string) bool {
	for _, x := range d.Branches {
		if x == b {
			return true
		}
	}
	return false
}

// SemesterChecked reports whether n is a chosen target semester.
func (d formData) SemesterChecked(n int) bool {
	for _, x := range d.Semesters {
		if x == n {
			return true
		}
	}
	return false
}

type noticeInput struct {
	Title   string `validate:"required,max=200" label:"Title"`
	Content string `validate:"required,max=20000" label:"Content"`
}

var successText = map[string]string{
	"created": "Notice posted.",
	"updated": "Notice updated.",
	"deleted": "Notice deleted.",
}

var errorText = map[string]string{
	"not_found":     "That notice no longer exists.",
	"delete_failed": "Could not delete the notice. Please try again.",
}

// List shows every notice, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	all, err := h.Store.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list notices failed", err, "Could not load notices.", "/dashboard/admin")
		return
	}

	vm := viewdata.NewBaseVM(r, "Notices", "/dashboard/admin")
	vm.Success = successText[query.Get(r, "success")]
	vm.Error = errorText[query.Get(r, "error")]

	rows := make([]noticeRow, 0, len(all))
	for _, n := range all {
		rows = append(rows, noticeRow{
			ID:        n.ID.Hex(),
			Title:     n.Title,
			Excerpt:   htmlsanitize.Excerpt(n.Content, 160),
			Target:    targetLabel(n),
			Author:    n.AuthorName,
			Stamp:     stamp(n),
			CSRFToken: vm.CSRFToken,
		})
	}

	templates.Render(w, r, "notices_admin_list", listData{BaseVM: vm, Items: rows})
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, d formData, msg string) {
	title := "New Notice"
	if d.Editing {
		title = "Edit Notice"
	}
	d.BaseVM = viewdata.NewBaseVM(r, title, "/admin/notices")
	d.BaseVM.Error = msg
	d.BranchOptions = models.Branches
	d.SemesterOptions = models.SemesterOptions()
	templates.Render(w, r, "notices_form", d)
}

// ShowNew renders an empty notice form.
func (h *Handler) ShowNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, formData{}, "")
}

// Create posts a notice to its target audience.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse notice form failed", err, "Invalid form.", "/admin/notices")
		return
	}

	in := noticeInput{
		Title:   normalize.Name(r.PostFormValue("title")),
		Content: r.PostFormValue("content"),
	}
	d := formData{
		NoticeTitle: in.Title,
		Content:     in.Content,
		Branches:    normalize.Branches(r.PostForm["branches"]),
		Semesters:   audience.ParseSemesters(r.PostForm["semesters"]),
	}
	if res := inputval.Validate(in); res.HasErrors() {
		h.renderForm(w, r, d, res.First())
		return
	}

	_, author, actorID, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Store.Create(ctx, models.Notice{
		Title:           in.Title,
		Content:         in.Content,
		TargetBranches:  d.Branches,
		TargetSemesters: d.Semesters,
		AuthorName:      author,
		CreatedBy:       actorID,
	})
	if err != nil {
		h.Log.Error("create notice failed", zap.Error(err), zap.String("title", in.Title))
		h.renderForm(w, r, d, "Could not post the notice. Please try again.")
		return
	}

	h.AuditLog.NoticeCreated(ctx, r, actorID.Hex(), n.ID, n.Title)
	http.Redirect(w, r, "/admin/notices?success=created", http.StatusSeeOther)
}

func noticeID(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	return id, err == nil
}

// ShowEdit renders the form for an existing notice. Targets are shown but
// not editable.
func (h *Handler) ShowEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := noticeID(r)
	if !ok {
		http.Redirect(w, r, "/admin/notices?error=not_found", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Store.GetByID(ctx, id)
	if errors.Is(err, noticestore.ErrNotFound) {
		http.Redirect(w, r, "/admin/notices?error=not_found", http.StatusSeeOther)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load notice failed", err, "Could not load the notice.", "/admin/notices")
		return
	}

	h.renderForm(w, r, formData{
		ID:          n.ID.Hex(),
		NoticeTitle: n.Title,
		Content:     n.Content,
		Branches:    n.TargetBranches,
		Semesters:   n.TargetSemesters,
		Editing:     true,
	}, "")
}

// Update changes a notice's title and content.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := noticeID(r)
	if !ok {
		http.Redirect(w, r, "/admin/notices?error=not_found", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse notice form failed", err, "Invalid form.", "/admin/notices")
		return
	}

	in := noticeInput{
		Title:   normalize.Name(r.PostFormValue("title")),
		Content: r.PostFormValue("content"),
	}
	d := formData{ID: id.Hex(), NoticeTitle: in.Title, Content: in.Content, Editing: true}
	if res := inputval.Validate(in); res.HasErrors() {
		h.renderForm(w, r, d, res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.Store.Update(ctx, id, in.Title, in.Content)
	if errors.Is(err, noticestore.ErrNotFound) {
		http.Redirect(w, r, "/admin/notices?error=not_found", http.StatusSeeOther)
		return
	}
	if err != nil {
		h.Log.Error("update notice failed", zap.Error(err), zap.String("notice_id", id.Hex()))
		h.renderForm(w, r, d, "Could not save the notice. Please try again.")
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.NoticeUpdated(ctx, r, actorID.Hex(), id, in.Title)
	http.Redirect(w, r, "/admin/notices?success=updated", http.StatusSeeOther)
}

// Delete removes a notice.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := noticeID(r)
	if !ok {
		http.Redirect(w, r, "/admin/notices?error=not_found", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.Store.Delete(ctx, id)
	if errors.Is(err, noticestore.ErrNotFound) {
		http.Redirect(w, r, "/admin/notices?error=not_found", http.StatusSeeOther)
		return
	}
	if err != nil {
		h.Log.Error("delete notice failed", zap.Error(err), zap.String("notice_id", id.Hex()))
		http.Redirect(w, r, "/admin/notices?error=delete_failed", http.StatusSeeOther)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.NoticeDeleted(ctx, r, actorID.Hex(), id)
	http.Redirect(w, r, "/admin/notices?success=deleted", http.StatusSeeOther)
}

// Preview returns the sanitized HTML for posted markdown.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(body(r.PostFormValue("content"))))
}
