// Package rolerepair decides the effective role of a profile at sign-in and
// lists the field corrections to persist for legacy documents.
//
// Profiles are never created here. A signed-in identity without a profile is
// refused with ErrProfileNotFound.
package rolerepair

import (
	"errors"
	"strings"

	"github.com/dalemusser/campushub/internal/domain/models"
)

// ErrProfileNotFound means the identity has no portal profile. The caller
// signs the identity out.
var ErrProfileNotFound = errors.New("account not registered")

// Correction is a single field write needed to repair a profile.
type Correction struct {
	Field string
	Value string
}

// Resolution is the outcome of Resolve.
type Resolution struct {
	Role        string
	Name        string
	Corrections []Correction
}

// NeedsRepair reports whether any correction must be persisted.
func (r Resolution) NeedsRepair() bool { return len(r.Corrections) > 0 }

// Resolve computes the effective role and display name for profile.
//
// A missing role becomes student. A profile with neither name nor fname
// gets fname set to the local part of email. Nothing else is touched.
func Resolve(profile *models.User, email string) (Resolution, error) {
	if profile == nil {
		return Resolution{}, ErrProfileNotFound
	}

	var res Resolution

	res.Role = strings.ToLower(strings.TrimSpace(profile.Role))
	if res.Role == "" {
		res.Role = models.RoleStudent
		res.Corrections = append(res.Corrections, Correction{Field: "role", Value: models.RoleStudent})
	}

	if email == "" {
		email = profile.Email
	}
	local := LocalPart(email)

	res.Name = profile.DisplayName(local)
	if profile.Name == "" && profile.FName == "" && local != "" {
		res.Corrections = append(res.Corrections, Correction{Field: "fname", Value: local})
	}

	return res, nil
}

// LocalPart returns the text before the first "@" of email.
func LocalPart(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	return local
}
