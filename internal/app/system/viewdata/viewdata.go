// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/preferences"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

const SiteName = "CampusHub"

// BaseVM is embedded by every page model; layout.gohtml reads these fields.
// Success and Error hold flash text a feature resolved from its
// ?success= / ?error= codes.
type BaseVM struct {
	SiteName    string
	Title       string
	Theme       string
	CSRFToken   string
	CurrentPath string
	BackURL     string

	IsLoggedIn bool
	Role       string
	UserName   string

	Success string
	Error   string
}

// NewBaseVM fills the layout fields from the request. backDefault is used
// when the request carries no safe return path.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	vm := BaseVM{
		SiteName:    SiteName,
		Title:       title,
		Theme:       preferences.From(r).Theme,
		CSRFToken:   csrf.Token(r),
		CurrentPath: httpnav.CurrentPath(r),
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
	}
	vm.Role, vm.UserName, _, vm.IsLoggedIn = authz.UserCtx(r)
	return vm
}

func (vm BaseVM) IsAdmin() bool   { return vm.Role == "admin" }
func (vm BaseVM) IsStudent() bool { return vm.Role == "student" }
