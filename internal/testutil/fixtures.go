package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateIdentity inserts an identity with a bcrypt hash of password.
// An empty password leaves the identity without password sign-in.
func (f *Fixtures) CreateIdentity(ctx context.Context, email, password string) models.Identity {
	f.t.Helper()

	now := time.Now().UTC()
	id := models.Identity{
		ID:        primitive.NewObjectID(),
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			f.t.Fatalf("hash password: %v", err)
		}
		s := string(hash)
		id.PasswordHash = &s
	}

	if _, err := f.db.Collection("identities").InsertOne(ctx, id); err != nil {
		f.t.Fatalf("failed to create test identity: %v", err)
	}
	return id
}

// CreateProfile inserts a profile document as given. ID and CreatedAt are
// filled when zero.
func (f *Fixtures) CreateProfile(ctx context.Context, u models.User) models.User {
	f.t.Helper()

	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test profile: %v", err)
	}
	return u
}

// CreateStudent creates an identity and a student profile sharing its id.
func (f *Fixtures) CreateStudent(ctx context.Context, name, email, password, branch string, semester int) models.User {
	f.t.Helper()

	id := f.CreateIdentity(ctx, email, password)
	return f.CreateProfile(ctx, models.User{
		ID:       id.ID,
		Role:     models.RoleStudent,
		Name:     name,
		Email:    email,
		Branch:   branch,
		Semester: semester,
	})
}

// CreateAdmin creates an identity and an admin profile sharing its id.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email, password string) models.User {
	f.t.Helper()

	id := f.CreateIdentity(ctx, email, password)
	return f.CreateProfile(ctx, models.User{
		ID:    id.ID,
		Role:  models.RoleAdmin,
		Name:  name,
		Email: email,
	})
}

// CreateEvent inserts an event at date. Optional mutators adjust it first.
func (f *Fixtures) CreateEvent(ctx context.Context, title string, date time.Time, opts ...func(*models.Event)) models.Event {
	f.t.Helper()

	ev := models.Event{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: title + " description",
		Date:        models.At(date),
		Venue:       "Main Hall",
		Category:    "Technical",
		Branches:    []string{},
		Semesters:   models.Semesters{},
		CreatedAt:   time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&ev)
	}

	if _, err := f.db.Collection("events").InsertOne(ctx, ev); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	return ev
}

// WithVolunteers enables volunteering with the given roles.
func WithVolunteers(roles ...string) func(*models.Event) {
	return func(ev *models.Event) {
		ev.EnableVolunteers = true
		ev.VolunteerRoles = roles
	}
}

// CreateNotice inserts a notice.
func (f *Fixtures) CreateNotice(ctx context.Context, title string, branches []string, semesters []int) models.Notice {
	f.t.Helper()

	n := models.Notice{
		ID:              primitive.NewObjectID(),
		Title:           title,
		Content:         "**" + title + "**",
		TargetBranches:  branches,
		TargetSemesters: semesters,
		AuthorName:      "Test Admin",
		CreatedAt:       time.Now().UTC(),
	}
	if _, err := f.db.Collection("notices").InsertOne(ctx, n); err != nil {
		f.t.Fatalf("failed to create test notice: %v", err)
	}
	return n
}

// CreateRegistration registers user for ev.
func (f *Fixtures) CreateRegistration(ctx context.Context, ev models.Event, u models.User) models.Registration {
	f.t.Helper()

	reg := models.Registration{
		ID:           primitive.NewObjectID(),
		EventID:      ev.ID,
		UserID:       u.ID,
		UserName:     u.DisplayName(u.Email),
		Email:        u.Email,
		EventTitle:   ev.Title,
		RegisteredAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("registrations").InsertOne(ctx, reg); err != nil {
		f.t.Fatalf("failed to create test registration: %v", err)
	}
	return reg
}

// CreateApplication inserts a volunteer application with status.
func (f *Fixtures) CreateApplication(ctx context.Context, ev models.Event, u models.User, role, status string) models.VolunteerApplication {
	f.t.Helper()

	app := models.VolunteerApplication{
		ID:        primitive.NewObjectID(),
		EventID:   ev.ID,
		UserID:    u.ID,
		UserName:  u.DisplayName(u.Email),
		Email:     u.Email,
		Role:      role,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("volunteer_applications").InsertOne(ctx, app); err != nil {
		f.t.Fatalf("failed to create test application: %v", err)
	}
	return app
}
