// internal/app/features/dashboard/stream.go
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/live"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// heartbeatInterval keeps idle proxies from closing the stream.
var heartbeatInterval = 25 * time.Second

// update is one feed delivery, tagged with the feed name. apply replaces
// that feed's part of the board state.
type update struct {
	feed  string
	apply func(*boardState)
}

// feedRunner runs one subscription, sending updates on out until ctx ends
// or the subscription fails.
type feedRunner func(ctx context.Context, out chan<- update) error

func runFeed[T any](f live.Feed[T], set func(*boardState, []T)) feedRunner {
	return func(ctx context.Context, out chan<- update) error {
		return f.Run(ctx, func(items []T) {
			select {
			case out <- update{feed: f.Name, apply: func(st *boardState) { set(st, items) }}:
			case <-ctx.Done():
			}
		})
	}
}

// bounded gives each snapshot load its own deadline; the subscription
// itself lives as long as the request.
func bounded[T any](load live.Loader[T]) live.Loader[T] {
	return func(ctx context.Context) ([]T, error) {
		ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
		defer cancel()
		return load(ctx)
	}
}

// studentFeeds subscribes to the four collections behind the student board.
// Registrations and applications are reloaded for userID only.
func (h *Handler) studentFeeds(userID primitive.ObjectID) []feedRunner {
	return []feedRunner{
		runFeed(live.Feed[models.Event]{
			Name:   "events",
			Source: h.Events.Source(),
			Load:   bounded[models.Event](h.Events.List),
			Log:    h.Log,
		}, func(st *boardState, v []models.Event) { st.Events = v }),
		runFeed(live.Feed[models.Notice]{
			Name:   "notices",
			Source: h.Notices.Source(),
			Load:   bounded[models.Notice](h.Notices.List),
			Log:    h.Log,
		}, func(st *boardState, v []models.Notice) { st.Notices = v }),
		runFeed(live.Feed[models.Registration]{
			Name:   "registrations",
			Source: h.Registrations.Source(),
			Load: bounded[models.Registration](func(ctx context.Context) ([]models.Registration, error) {
				return h.Registrations.ListByUser(ctx, userID)
			}),
			Log: h.Log,
		}, func(st *boardState, v []models.Registration) { st.Registrations = v }),
		runFeed(live.Feed[models.VolunteerApplication]{
			Name:   "applications",
			Source: h.Applications.Source(),
			Load: bounded[models.VolunteerApplication](func(ctx context.Context) ([]models.VolunteerApplication, error) {
				return h.Applications.ListByUser(ctx, userID)
			}),
			Log: h.Log,
		}, func(st *boardState, v []models.VolunteerApplication) { st.Applications = v }),
	}
}

// pump runs feeds concurrently and merges their updates on one channel.
// After each update it calls onState with the current state. onTick runs on
// every heartbeat. The first feed failure stops every feed and is returned;
// a nil return means ctx ended.
func pump(ctx context.Context, feeds []feedRunner, heartbeat time.Duration, onState func(boardState) error, onTick func() error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan update)
	g, gctx := errgroup.WithContext(ctx)
	for _, f := range feeds {
		f := f
		g.Go(func() error { return f(gctx, updates) })
	}
	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	var st boardState
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-done:
			return err
		case up := <-updates:
			up.apply(&st)
			if err := onState(st); err != nil {
				return err
			}
		case <-ticker.C:
			if err := onTick(); err != nil {
				return err
			}
		}
	}
}

// SSE event names; public/js/board.js listens for these.
const (
	eventBoard = "board"
	eventError = "error"
)

func writeEvent(w io.Writer, name string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, b)
	return err
}

type streamError struct {
	Feed    string `json:"feed"`
	Message string `json:"message"`
}

// ServeStudentStream is a Server-Sent Events stream of the student board.
// Every feed update sends a "board" event with the recomputed view. If a
// subscription fails the stream sends one "error" event and closes; the
// page keeps the last board it received.
func (h *Handler) ServeStudentStream(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	v, ok := viewerFrom(u)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	c := criteriaFromRequest(r)
	// Each connection gets its own id so one tab's stream can be followed
	// through the logs.
	log := h.Log.With(zap.String("user_id", v.ID.Hex()), zap.String("stream_id", uuid.NewString()))

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	onState := func(st boardState) error {
		if err := writeEvent(w, eventBoard, buildStudentView(st, v, c, time.Now().UTC())); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}
	onTick := func() error {
		if _, err := io.WriteString(w, ": ping\n\n"); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	err := pump(r.Context(), h.studentFeeds(v.ID), heartbeatInterval, onState, onTick)

	var se *live.SubscriptionError
	switch {
	case err == nil:
		log.Debug("student stream closed")
	case errors.As(err, &se):
		log.Error("live subscription failed", zap.String("feed", se.Feed), zap.String("op", se.Op), zap.Error(se.Err))
		_ = writeEvent(w, eventError, streamError{
			Feed:    se.Feed,
			Message: "Live updates stopped. Reload the page to try again.",
		})
		flusher.Flush()
	default:
		// Write failures mean the client went away.
		log.Debug("student stream ended", zap.Error(err))
	}
}
