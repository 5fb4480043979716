// Package ledger answers "is this student registered for this event?" from
// a registration snapshot, and guards registration writes against
// duplicates.
package ledger

import (
	"context"
	"errors"
	"sync"

	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrDuplicate is what a Writer returns when the (event, user) pair already
// exists in storage.
var ErrDuplicate = errors.New("registration already exists")

// Writer persists a registration.
type Writer interface {
	Create(ctx context.Context, reg models.Registration) (models.Registration, error)
}

type key struct {
	event primitive.ObjectID
	user  primitive.ObjectID
}

// Ledger is a membership set of (event, user) pairs. Safe for concurrent use.
type Ledger struct {
	mu      sync.RWMutex
	members map[key]struct{}
	counts  map[primitive.ObjectID]int
}

// New builds a ledger from a snapshot. Duplicate rows count once.
func New(regs []models.Registration) *Ledger {
	l := &Ledger{
		members: make(map[key]struct{}, len(regs)),
		counts:  make(map[primitive.ObjectID]int),
	}
	for _, r := range regs {
		l.add(r.EventID, r.UserID)
	}
	return l
}

func (l *Ledger) add(eventID, userID primitive.ObjectID) bool {
	k := key{eventID, userID}
	if _, ok := l.members[k]; ok {
		return false
	}
	l.members[k] = struct{}{}
	l.counts[eventID]++
	return true
}

// IsRegistered reports whether userID is registered for eventID.
func (l *Ledger) IsRegistered(eventID, userID primitive.ObjectID) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.members[key{eventID, userID}]
	return ok
}

// Count returns the number of registrations for eventID.
func (l *Ledger) Count(eventID primitive.ObjectID) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.counts[eventID]
}

// Register writes reg unless the pair is already known. created is false
// when the pair was already present, either in the snapshot or in storage
// (the writer answered ErrDuplicate). Other write errors are returned and
// leave the ledger unchanged.
func (l *Ledger) Register(ctx context.Context, w Writer, reg models.Registration) (created bool, err error) {
	if l.IsRegistered(reg.EventID, reg.UserID) {
		return false, nil
	}

	_, err = w.Create(ctx, reg)
	switch {
	case errors.Is(err, ErrDuplicate):
		created = false
	case err != nil:
		return false, err
	default:
		created = true
	}

	l.mu.Lock()
	l.add(reg.EventID, reg.UserID)
	l.mu.Unlock()
	return created, nil
}
