package oauthstate_test

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/app/store/oauthstate"
	"github.com/dalemusser/campushub/internal/testutil"
)

func TestStore_SaveAndConsumeOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.Save(ctx, oauthstate.Pending{
		State:     "state-1",
		Verifier:  "verifier-1",
		ReturnURL: "/notices",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	p, err := store.Consume(ctx, "state-1")
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if p.ReturnURL != "/notices" || p.Verifier != "verifier-1" {
		t.Errorf("Consume = %+v", p)
	}
	if p.CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped")
	}

	if _, err := store.Consume(ctx, "state-1"); !errors.Is(err, oauthstate.ErrInvalid) {
		t.Errorf("second Consume err = %v, want ErrInvalid", err)
	}
}

func TestStore_ConsumeExpiredOrUnknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_ = store.Save(ctx, oauthstate.Pending{State: "old", ExpiresAt: time.Now().Add(-time.Minute)})

	for _, s := range []string{"old", "never-issued"} {
		if _, err := store.Consume(ctx, s); !errors.Is(err, oauthstate.ErrInvalid) {
			t.Errorf("Consume(%q) err = %v, want ErrInvalid", s, err)
		}
	}
}

func TestStore_CleanupExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_ = store.Save(ctx, oauthstate.Pending{State: "a", ExpiresAt: time.Now().Add(-time.Hour)})
	_ = store.Save(ctx, oauthstate.Pending{State: "b", ExpiresAt: time.Now().Add(time.Hour)})

	n, err := store.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("CleanupExpired failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d, want 1", n)
	}
}
