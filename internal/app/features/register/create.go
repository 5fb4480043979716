// internal/app/features/register/create.go
package register

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	identitystore "github.com/dalemusser/campushub/internal/app/store/identities"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/inputval"
	"github.com/dalemusser/campushub/internal/app/system/normalize"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/system/viewdata"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type formData struct {
	viewdata.BaseVM
	Name      string
	Email     string
	Branch    string
	Semester  string
	Branches  []string
	Semesters []int
}

type studentInput struct {
	Name     string `validate:"required,max=100" label:"Name"`
	Email    string `validate:"required,emailaddr" label:"Email"`
	Password string `validate:"required,min=6" label:"Password"`
	Confirm  string `validate:"eqfield=Password" label:"Password confirmation"`
	Branch   string `validate:"required,max=20" label:"Branch"`
	Semester int    `validate:"semester" label:"Semester"`
}

var successText = map[string]string{
	"registered": "Student registered.",
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, in formData, msg string) {
	in.BaseVM = viewdata.NewBaseVM(r, "Register student", "/dashboard/admin")
	in.BaseVM.Error = msg
	in.BaseVM.Success = successText[query.Get(r, "success")]
	in.Branches = models.Branches
	in.Semesters = models.SemesterOptions()
	templates.Render(w, r, "register_student", in)
}

// ServeNew renders the empty form.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, formData{}, "")
}

// HandleCreate creates the identity and then the student profile. If the
// profile write fails the identity is removed again so the email can be
// reused.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse register form failed", err, "Invalid form.", "/register")
		return
	}

	sem, _ := strconv.Atoi(strings.TrimSpace(r.PostFormValue("semester")))
	in := studentInput{
		Name:     normalize.Name(r.PostFormValue("name")),
		Email:    normalize.Email(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Confirm:  r.PostFormValue("confirm"),
		Branch:   normalize.Branch(r.PostFormValue("branch")),
		Semester: sem,
	}
	back := formData{
		Name:     in.Name,
		Email:    in.Email,
		Branch:   in.Branch,
		Semester: r.PostFormValue("semester"),
	}

	if res := inputval.Validate(in); res.HasErrors() {
		h.render(w, r, back, res.First())
		return
	}
	if !models.IsBranch(in.Branch) {
		h.render(w, r, back, "Choose a branch from the list.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := h.Identities.Create(ctx, in.Email, in.Name, in.Password)
	if errors.Is(err, identitystore.ErrDuplicateEmail) {
		h.render(w, r, back, "An account with this email already exists.")
		return
	}
	if err != nil {
		h.Log.Error("create identity failed", zap.Error(err), zap.String("email", in.Email))
		h.render(w, r, back, "Could not create the account. Please try again.")
		return
	}

	u, err := h.Users.Create(ctx, models.User{
		ID:       id.ID,
		Role:     models.RoleStudent,
		Name:     in.Name,
		Email:    in.Email,
		Branch:   in.Branch,
		Semester: in.Semester,
	})
	if err != nil {
		h.Log.Error("create profile failed", zap.Error(err), zap.String("email", in.Email))
		if derr := h.Identities.Delete(ctx, id.ID); derr != nil {
			h.Log.Error("rollback identity failed", zap.Error(derr), zap.String("identity_id", id.ID.Hex()))
		}
		h.render(w, r, back, "Could not create the student profile. Please try again.")
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.StudentRegistered(ctx, r, actorID.Hex(), u.ID, u.Email, u.Branch)
	h.Log.Info("student registered", zap.String("user_id", u.ID.Hex()), zap.String("branch", u.Branch))

	http.Redirect(w, r, "/register?success=registered", http.StatusSeeOther)
}
