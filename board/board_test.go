package board

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/acikkaynak/needs-board-go/broker"
	"github.com/acikkaynak/needs-board-go/geo"
	"github.com/acikkaynak/needs-board-go/history"
	"github.com/acikkaynak/needs-board-go/metrics"
	"github.com/acikkaynak/needs-board-go/needs"
	"github.com/acikkaynak/needs-board-go/providers"
	"github.com/acikkaynak/needs-board-go/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []broker.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e broker.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []broker.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]broker.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

var admin = session.Claims{Admin: true}

func newTestBoard(t *testing.T) (*Board, *metrics.Metrics, *recordingPublisher) {
	t.Helper()

	m := metrics.NewMetrics(prometheus.NewRegistry())
	pub := &recordingPublisher{}
	b := New(Options{
		Roster:    providers.DefaultRoster(),
		Admin:     Credentials{User: "admin", Password: "admin123"},
		Metrics:   m,
		Publisher: pub,
		Clock:     func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) },
	})
	return b, m, pub
}

func request(author string, lat, lng string) needs.CreateNeedRequest {
	return needs.CreateNeedRequest{
		Author:   author,
		Need:     "first aid kit",
		Location: "Udupi",
		Category: "Medical",
		Lat:      lat,
		Lng:      lng,
	}
}

func availability(b *Board) map[string]bool {
	out := map[string]bool{}
	for _, p := range b.Providers() {
		out[p.Name] = p.Available
	}
	return out
}

func TestSubmit(t *testing.T) {
	t.Run("sequential ids", func(t *testing.T) {
		b, _, _ := newTestBoard(t)
		ctx := context.Background()

		for want := int64(1); want <= 3; want++ {
			n, err := b.Submit(ctx, request("asha", "13.359", "74.781"))
			require.NoError(t, err)
			assert.Equal(t, want, n.ID)
		}
	})

	t.Run("assigns the nearest provider", func(t *testing.T) {
		b, m, pub := newTestBoard(t)
		point := geo.Point{Lat: 13.359, Lng: 74.781}
		want := "Ravi"
		if geo.Haversine(point, geo.Point{Lat: 13.358, Lng: 74.785}) < geo.Haversine(point, geo.Point{Lat: 13.360, Lng: 74.780}) {
			want = "Sneha"
		}

		n, err := b.Submit(context.Background(), request("asha", "13.359", "74.781"))

		require.NoError(t, err)
		assert.Equal(t, want, n.AssignedTo)
		assert.False(t, availability(b)[want])
		assert.Equal(t, 1.0, testutil.ToFloat64(m.NeedsSubmitted.WithLabelValues("assigned")))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.AvailableProviders))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.OpenNeeds))
		assert.Equal(t, []broker.EventType{broker.NeedCreated}, pub.types())
		assert.Equal(t, want, pub.events[0].AssignedTo)
		assert.NotEqual(t, "asha", pub.events[0].Author)
	})

	t.Run("third need stays unassigned", func(t *testing.T) {
		b, m, _ := newTestBoard(t)
		ctx := context.Background()

		for i := 0; i < 2; i++ {
			_, err := b.Submit(ctx, request("asha", "13.359", "74.781"))
			require.NoError(t, err)
		}
		n, err := b.Submit(ctx, request("asha", "13.359", "74.781"))

		require.NoError(t, err)
		assert.False(t, n.IsAssigned())
		assert.Equal(t, 1.0, testutil.ToFloat64(m.NeedsSubmitted.WithLabelValues("unassigned")))
		assert.Equal(t, 0.0, testutil.ToFloat64(m.AvailableProviders))
	})

	t.Run("missing lat is rejected", func(t *testing.T) {
		b, m, pub := newTestBoard(t)

		_, err := b.Submit(context.Background(), request("asha", "", "74.781"))

		assert.ErrorIs(t, err, ErrValidation)
		assert.Empty(t, b.Needs(needs.Filter{}))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.NeedsRejected))
		assert.Empty(t, pub.types())
		for _, available := range availability(b) {
			assert.True(t, available)
		}
	})
}

func TestComplete(t *testing.T) {
	t.Run("releases the provider", func(t *testing.T) {
		b, _, _ := newTestBoard(t)
		ctx := context.Background()
		n, err := b.Submit(ctx, request("asha", "13.358", "74.785"))
		require.NoError(t, err)
		require.Equal(t, "Sneha", n.AssignedTo)
		require.False(t, availability(b)["Sneha"])

		assert.True(t, b.Complete(ctx, n.ID))

		assert.True(t, availability(b)["Sneha"])
		got, ok := b.Need(n.ID)
		require.True(t, ok)
		assert.True(t, got.Completed)
	})

	t.Run("second completion is a no-op", func(t *testing.T) {
		b, m, pub := newTestBoard(t)
		ctx := context.Background()
		_, err := b.Submit(ctx, request("asha", "13.359", "74.781"))
		require.NoError(t, err)

		assert.True(t, b.Complete(ctx, 1))
		assert.False(t, b.Complete(ctx, 1))

		completed := 0
		for _, e := range b.History() {
			if e.Action == history.ActionCompleted {
				completed++
			}
		}
		assert.Equal(t, 1, completed)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.NeedsCompleted))
		assert.Equal(t, []broker.EventType{broker.NeedCreated, broker.NeedCompleted}, pub.types())
	})

	t.Run("unknown need", func(t *testing.T) {
		b, _, _ := newTestBoard(t)

		assert.False(t, b.Complete(context.Background(), 99))
		assert.Empty(t, b.History())
	})
}

func TestDelete(t *testing.T) {
	t.Run("non-admin cannot delete", func(t *testing.T) {
		b, _, _ := newTestBoard(t)
		ctx := context.Background()
		_, err := b.Submit(ctx, request("asha", "13.359", "74.781"))
		require.NoError(t, err)

		for _, claims := range []session.Claims{{}, {Provider: "Ravi"}} {
			deleted, err := b.Delete(ctx, claims, 1)

			assert.ErrorIs(t, err, ErrForbidden)
			assert.False(t, deleted)
		}

		_, ok := b.Need(1)
		assert.True(t, ok)
		assert.Empty(t, b.History())
	})

	t.Run("admin delete keeps the provider busy", func(t *testing.T) {
		b, m, pub := newTestBoard(t)
		ctx := context.Background()
		n, err := b.Submit(ctx, request("asha", "13.360", "74.780"))
		require.NoError(t, err)
		require.Equal(t, "Ravi", n.AssignedTo)

		deleted, err := b.Delete(ctx, admin, n.ID)

		require.NoError(t, err)
		assert.True(t, deleted)
		_, ok := b.Need(n.ID)
		assert.False(t, ok)
		assert.False(t, availability(b)["Ravi"])

		entries := b.History()
		require.Len(t, entries, 1)
		assert.Equal(t, history.ActionDeleted, entries[0].Action)
		assert.Equal(t, "first aid kit", entries[0].Task)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.NeedsDeleted))
		assert.Equal(t, 0.0, testutil.ToFloat64(m.OpenNeeds))
		assert.Equal(t, []broker.EventType{broker.NeedCreated, broker.NeedDeleted}, pub.types())
	})

	t.Run("unknown need", func(t *testing.T) {
		b, _, _ := newTestBoard(t)

		deleted, err := b.Delete(context.Background(), admin, 5)

		assert.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestLogins(t *testing.T) {
	b, m, _ := newTestBoard(t)

	assert.NoError(t, b.AdminLogin("admin", "admin123"))
	assert.ErrorIs(t, b.AdminLogin("admin", "nope"), ErrInvalidCredentials)
	assert.ErrorIs(t, b.AdminLogin("", ""), ErrInvalidCredentials)

	p, err := b.ProviderLogin("ravi", "ravi123")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", p.Name)

	_, err = b.ProviderLogin("ravi", "sneha123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorContains(t, err, providers.ErrInvalidCredentials.Error())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Logins.WithLabelValues("admin", "success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Logins.WithLabelValues("admin", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Logins.WithLabelValues("provider", "failure")))
}

func TestAssignedTo(t *testing.T) {
	b, _, _ := newTestBoard(t)
	ctx := context.Background()

	first, err := b.Submit(ctx, request("asha", "13.360", "74.780"))
	require.NoError(t, err)
	require.True(t, b.Complete(ctx, first.ID))
	second, err := b.Submit(ctx, request("ravi", "13.360", "74.780"))
	require.NoError(t, err)
	require.Equal(t, "Ravi", second.AssignedTo)

	open := b.AssignedTo("Ravi")
	require.Len(t, open, 1)
	assert.Equal(t, second.ID, open[0].ID)
	assert.Empty(t, b.AssignedTo("Sneha"))
	assert.Empty(t, b.AssignedTo(""))
}

func TestPublishFailureIsNotSurfaced(t *testing.T) {
	b, m, pub := newTestBoard(t)
	pub.err = errors.New("broker down")

	_, err := b.Submit(context.Background(), request("asha", "13.359", "74.781"))

	assert.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublished.WithLabelValues(string(broker.NeedCreated), "failure")))
}

func TestConcurrentSubmissions(t *testing.T) {
	b, _, _ := newTestBoard(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := b.Submit(ctx, request("asha", "13.359", "74.781"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all := b.Needs(needs.Filter{})
	require.Len(t, all, 50)
	assigned := 0
	for i, n := range all {
		assert.Equal(t, int64(i+1), n.ID)
		if n.IsAssigned() {
			assigned++
		}
	}
	assert.Equal(t, 2, assigned)
}
