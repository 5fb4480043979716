package rolerepair_test

import (
	"testing"

	"github.com/dalemusser/campushub/internal/app/system/rolerepair"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_NilProfile(t *testing.T) {
	_, err := rolerepair.Resolve(nil, "a@b.edu")
	assert.ErrorIs(t, err, rolerepair.ErrProfileNotFound)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		profile     models.User
		email       string
		wantRole    string
		wantName    string
		corrections []rolerepair.Correction
	}{
		{
			name:     "complete student profile",
			profile:  models.User{Role: "student", Name: "Asha"},
			email:    "asha@college.edu",
			wantRole: "student",
			wantName: "Asha",
		},
		{
			name:     "admin keeps role",
			profile:  models.User{Role: "admin", FName: "Ravi"},
			email:    "ravi@college.edu",
			wantRole: "admin",
			wantName: "Ravi",
		},
		{
			name:        "missing role defaults to student",
			profile:     models.User{Name: "Meera"},
			email:       "meera@college.edu",
			wantRole:    "student",
			wantName:    "Meera",
			corrections: []rolerepair.Correction{{Field: "role", Value: "student"}},
		},
		{
			name:        "legacy fname without role",
			profile:     models.User{FName: "X", Email: "a@b.com"},
			email:       "a@b.com",
			wantRole:    "student",
			wantName:    "X",
			corrections: []rolerepair.Correction{{Field: "role", Value: "student"}},
		},
		{
			name:     "missing role and names",
			profile:  models.User{},
			email:    "kiran.s@college.edu",
			wantRole: "student",
			wantName: "kiran.s",
			corrections: []rolerepair.Correction{
				{Field: "role", Value: "student"},
				{Field: "fname", Value: "kiran.s"},
			},
		},
		{
			name:     "name wins over fname",
			profile:  models.User{Role: "student", Name: "New", FName: "Old"},
			email:    "x@college.edu",
			wantRole: "student",
			wantName: "New",
		},
		{
			name:     "role is case folded",
			profile:  models.User{Role: " Admin ", Name: "A"},
			email:    "a@college.edu",
			wantRole: "admin",
			wantName: "A",
		},
		{
			name:        "falls back to profile email",
			profile:     models.User{Role: "student", Email: "dev@college.edu"},
			wantRole:    "student",
			wantName:    "dev",
			corrections: []rolerepair.Correction{{Field: "fname", Value: "dev"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.profile
			res, err := rolerepair.Resolve(&p, tt.email)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, res.Role)
			assert.Equal(t, tt.wantName, res.Name)
			assert.Equal(t, tt.corrections, res.Corrections)
			assert.Equal(t, len(tt.corrections) > 0, res.NeedsRepair())
		})
	}
}

func TestResolve_DoesNotMutateProfile(t *testing.T) {
	p := models.User{}
	_, err := rolerepair.Resolve(&p, "z@college.edu")
	require.NoError(t, err)
	assert.Empty(t, p.Role)
	assert.Empty(t, p.FName)
}
