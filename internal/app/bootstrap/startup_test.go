package bootstrap

import (
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/app/store/audit"
	identitystore "github.com/dalemusser/campushub/internal/app/store/identities"
	userstore "github.com/dalemusser/campushub/internal/app/store/users"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestEnsureBootstrapAdmin_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	if err := ensureBootstrapAdmin(ctx, deps, " Dean@Campus.edu ", testLogger()); err != nil {
		t.Fatalf("ensureBootstrapAdmin failed: %v", err)
	}

	id, err := identitystore.New(db).GetByEmail(ctx, "dean@campus.edu")
	if err != nil {
		t.Fatalf("identity not created: %v", err)
	}
	if id.PasswordHash != nil {
		t.Error("bootstrap identity should not have a password")
	}
	u, err := userstore.New(db).GetByID(ctx, id.ID)
	if err != nil {
		t.Fatalf("profile not created: %v", err)
	}
	if u.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", u.Role)
	}
	if u.DisplayName("") != "dean" {
		t.Errorf("name = %q, want dean", u.DisplayName(""))
	}
}

func TestEnsureBootstrapAdmin_PromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fx.CreateStudent(ctx, "Existing", "existing@campus.edu", "pw", "CSE", 4)

	deps := DBDeps{MongoDatabase: db}
	if err := ensureBootstrapAdmin(ctx, deps, "existing@campus.edu", testLogger()); err != nil {
		t.Fatalf("ensureBootstrapAdmin failed: %v", err)
	}

	u, err := userstore.New(db).GetByID(ctx, student.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if u.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", u.Role)
	}
	if u.Branch != "CSE" {
		t.Errorf("branch changed to %q", u.Branch)
	}
}

func TestEnsureBootstrapAdmin_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	for i := 0; i < 2; i++ {
		if err := ensureBootstrapAdmin(ctx, deps, "dean@campus.edu", testLogger()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	n, _ := db.Collection("identities").CountDocuments(ctx, bson.M{"email": "dean@campus.edu"})
	if n != 1 {
		t.Errorf("identities = %d, want 1", n)
	}
}

func TestValidateConfig(t *testing.T) {
	good := AppConfig{
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "campushub_test",
		SessionKey:    "0123456789abcdef0123456789abcdef",
		BaseURL:       "http://localhost:8080",
		AuditLogAuth:  "all",
		AuditLogAdmin: "db",
		DBTimeout:     5 * time.Second,
	}

	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"valid", func(*AppConfig) {}, false},
		{"bad uri", func(c *AppConfig) { c.MongoURI = "postgres://x" }, true},
		{"short session key", func(c *AppConfig) { c.SessionKey = "short" }, true},
		{"google id without secret", func(c *AppConfig) { c.GoogleClientID = "id" }, true},
		{"google configured", func(c *AppConfig) { c.GoogleClientID, c.GoogleClientSecret = "id", "secret" }, false},
		{"bad audit mode", func(c *AppConfig) { c.AuditLogAdmin = "loud" }, true},
		{"zero db timeout", func(c *AppConfig) { c.DBTimeout = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := good
			tt.mutate(&cfg)
			err := ValidateConfig(nil, cfg, testLogger())
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnsureBootstrapAdmin_RecordsAudit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	if err := ensureBootstrapAdmin(ctx, deps, "dean@campus.edu", testLogger()); err != nil {
		t.Fatalf("ensureBootstrapAdmin failed: %v", err)
	}

	got, err := audit.New(db).Find(ctx, audit.Filter{EventType: audit.EventAdminBootstrapped})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 || got[0].Details["action"] != "created" {
		t.Errorf("expected one created event, got %+v", got)
	}
}

func TestLogDecodeIssues_WarnsOnBadSemester(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logDecodeIssues(zap.New(core))
	t.Cleanup(func() { models.OnDecodeIssue(nil) })

	data, err := bson.Marshal(bson.M{"semesters": bson.A{"III", int32(4)}})
	if err != nil {
		t.Fatal(err)
	}
	var ev models.Event
	if err := bson.Unmarshal(data, &ev); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(ev.Semesters) != 1 || ev.Semesters[0] != 4 {
		t.Errorf("Semesters = %v, want [4]", ev.Semesters)
	}
	entries := logs.FilterField(zap.String("field", "semesters")).All()
	if len(entries) != 1 {
		t.Fatalf("got %d warnings, want 1", len(entries))
	}
}
