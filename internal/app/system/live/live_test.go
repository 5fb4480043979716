package live_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/live"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStream yields one notification per value sent on events.
type fakeStream struct {
	events chan struct{}
	err    error
	mu     sync.Mutex
	closed bool
}

func (s *fakeStream) Next(ctx context.Context) bool {
	select {
	case _, ok := <-s.events:
		return ok
	case <-ctx.Done():
		return false
	}
}

func (s *fakeStream) Err() error { return s.err }

func (s *fakeStream) Close(context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

type fakeSource struct {
	stream *fakeStream
	err    error
}

func (f fakeSource) Watch(context.Context) (live.Stream, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stream, nil
}

// counterLoader returns snapshots [1], [1 2], [1 2 3], ...
func counterLoader() live.Loader[int] {
	var mu sync.Mutex
	var n int
	return func(context.Context) ([]int, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		out := make([]int, n)
		for i := range out {
			out[i] = i + 1
		}
		return out, nil
	}
}

func TestFeed_InitialSnapshotThenChanges(t *testing.T) {
	stream := &fakeStream{events: make(chan struct{})}
	feed := live.Feed[int]{Name: "events", Source: fakeSource{stream: stream}, Load: counterLoader()}

	ctx, cancel := context.WithCancel(context.Background())
	snaps := make(chan []int, 4)
	done := make(chan error, 1)
	go func() { done <- feed.Run(ctx, func(s []int) { snaps <- s }) }()

	assert.Equal(t, []int{1}, <-snaps)
	stream.events <- struct{}{}
	assert.Equal(t, []int{1, 2}, <-snaps)
	stream.events <- struct{}{}
	assert.Equal(t, []int{1, 2, 3}, <-snaps)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("feed did not stop after cancel")
	}
	stream.mu.Lock()
	assert.True(t, stream.closed)
	stream.mu.Unlock()
}

func TestFeed_WatchFailure(t *testing.T) {
	boom := errors.New("not a replica set")
	feed := live.Feed[int]{Name: "notices", Source: fakeSource{err: boom}, Load: counterLoader()}

	err := feed.Run(context.Background(), func([]int) { t.Fatal("no snapshot expected") })

	var subErr *live.SubscriptionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, "notices", subErr.Feed)
	assert.Equal(t, "watch", subErr.Op)
	assert.ErrorIs(t, err, boom)
}

func TestFeed_LoadFailureEndsFeed(t *testing.T) {
	stream := &fakeStream{events: make(chan struct{}, 1)}
	boom := errors.New("read failed")
	calls := 0
	load := func(context.Context) ([]int, error) {
		calls++
		if calls > 1 {
			return nil, boom
		}
		return []int{7}, nil
	}
	feed := live.Feed[int]{Name: "registrations", Source: fakeSource{stream: stream}, Load: load}

	var got [][]int
	stream.events <- struct{}{}
	err := feed.Run(context.Background(), func(s []int) { got = append(got, s) })

	var subErr *live.SubscriptionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, "load", subErr.Op)
	assert.Equal(t, [][]int{{7}}, got, "last good snapshot is the only one delivered")
}

func TestFeed_StreamClosedByServer(t *testing.T) {
	stream := &fakeStream{events: make(chan struct{})}
	close(stream.events)
	feed := live.Feed[int]{Name: "events", Source: fakeSource{stream: stream}, Load: counterLoader()}

	err := feed.Run(context.Background(), func([]int) {})
	assert.ErrorIs(t, err, live.ErrStreamClosed)
}
