package board

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/acikkaynak/needs-board-go/broker"
	"github.com/acikkaynak/needs-board-go/dispatch"
	"github.com/acikkaynak/needs-board-go/history"
	"github.com/acikkaynak/needs-board-go/metrics"
	"github.com/acikkaynak/needs-board-go/needs"
	"github.com/acikkaynak/needs-board-go/providers"
	"github.com/acikkaynak/needs-board-go/session"
	masker "github.com/ggwhite/go-masker"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Credentials is the single administrator account.
type Credentials struct {
	User     string
	Password string
}

type Options struct {
	Roster    []providers.Provider
	Admin     Credentials
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	Publisher broker.Publisher
	Clock     func() time.Time
}

// Board owns the need, provider and history registries. One lock guards all
// of them, so an assignment or a completion is atomic across registries.
type Board struct {
	mu        sync.RWMutex
	needs     *needs.Registry
	roster    *providers.Registry
	history   *history.Log
	admin     Credentials
	log       *zap.Logger
	metrics   *metrics.Metrics
	publisher broker.Publisher
	now       func() time.Time
}

func New(opts Options) *Board {
	b := &Board{
		roster:    providers.NewRegistry(opts.Roster),
		history:   history.NewLog(),
		admin:     opts.Admin,
		log:       opts.Logger,
		metrics:   opts.Metrics,
		publisher: opts.Publisher,
		now:       opts.Clock,
	}
	if b.log == nil {
		b.log = zap.NewNop()
	}
	if b.publisher == nil {
		b.publisher = broker.NopPublisher{}
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.metrics == nil {
		b.metrics = metrics.NewMetrics(prometheus.NewRegistry())
	}

	engine := dispatch.NewEngine(b.roster)
	engine.OnAssign(b.observeAssignment)
	b.needs = needs.NewRegistry(engine, b.roster, b.history, needs.WithClock(b.now))

	b.refreshGauges()
	return b
}

// Submit stores a new need and assigns it to the nearest available provider.
func (b *Board) Submit(ctx context.Context, req needs.CreateNeedRequest) (needs.Need, error) {
	b.mu.Lock()
	n, err := b.needs.Create(req)
	if err == nil {
		b.refreshGauges()
	}
	b.mu.Unlock()

	if err != nil {
		b.metrics.NeedsRejected.Inc()
		b.log.Debug("need rejected", zap.Error(err))
		return needs.Need{}, fmt.Errorf("could not create need: %w", err)
	}

	assignment := "unassigned"
	if n.IsAssigned() {
		assignment = "assigned"
	}
	b.metrics.NeedsSubmitted.WithLabelValues(assignment).Inc()
	b.log.Info("need submitted",
		zap.Int64("needID", n.ID),
		zap.String("author", masker.Name(n.Author)),
		zap.String("category", n.Category),
		zap.String("assignedTo", n.AssignedTo),
	)

	e := broker.NewEvent(broker.NeedCreated, n.ID, n.Timestamp)
	e.Category = n.Category
	e.AssignedTo = n.AssignedTo
	b.publish(ctx, e, n.Author)

	return n, nil
}

// Complete marks a need as done and frees its provider.
// It returns false when the need is unknown or already completed.
func (b *Board) Complete(ctx context.Context, id int64) bool {
	b.mu.Lock()
	n, ok := b.needs.Complete(id)
	if ok {
		b.refreshGauges()
	}
	b.mu.Unlock()

	if !ok {
		return false
	}

	b.metrics.NeedsCompleted.Inc()
	b.log.Info("need completed", zap.Int64("needID", n.ID), zap.String("releasedProvider", n.AssignedTo))

	e := broker.NewEvent(broker.NeedCompleted, n.ID, b.now())
	e.Category = n.Category
	e.AssignedTo = n.AssignedTo
	b.publish(ctx, e, n.Author)

	return true
}

// Delete removes a need. Only administrators may delete, and the assigned
// provider stays unavailable. It returns false when the need is unknown.
func (b *Board) Delete(ctx context.Context, claims session.Claims, id int64) (bool, error) {
	if !claims.Admin {
		return false, ErrForbidden
	}

	b.mu.Lock()
	n, ok := b.needs.Delete(id)
	if ok {
		b.refreshGauges()
	}
	b.mu.Unlock()

	if !ok {
		return false, nil
	}

	b.metrics.NeedsDeleted.Inc()
	b.log.Info("need deleted", zap.Int64("needID", n.ID), zap.Bool("wasCompleted", n.Completed))

	e := broker.NewEvent(broker.NeedDeleted, n.ID, b.now())
	e.Category = n.Category
	e.AssignedTo = n.AssignedTo
	b.publish(ctx, e, n.Author)

	return true, nil
}

// AdminLogin checks user and password against the administrator account.
func (b *Board) AdminLogin(user, password string) error {
	if user != b.admin.User || password != b.admin.Password {
		b.metrics.Logins.WithLabelValues("admin", "failure").Inc()
		return ErrInvalidCredentials
	}
	b.metrics.Logins.WithLabelValues("admin", "success").Inc()
	return nil
}

// ProviderLogin returns the provider owning the credentials.
func (b *Board) ProviderLogin(user, password string) (providers.Provider, error) {
	b.mu.RLock()
	p, err := b.roster.Authenticate(user, password)
	b.mu.RUnlock()

	if err != nil {
		b.metrics.Logins.WithLabelValues("provider", "failure").Inc()
		return providers.Provider{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	b.metrics.Logins.WithLabelValues("provider", "success").Inc()
	return p, nil
}

func (b *Board) Needs(filter needs.Filter) []needs.Need {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.needs.List(filter)
}

func (b *Board) Need(id int64) (needs.Need, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.needs.Get(id)
}

// AssignedTo lists the open needs a provider is working on.
func (b *Board) AssignedTo(provider string) []needs.Need {
	if provider == "" {
		return []needs.Need{}
	}
	return b.Needs(needs.Filter{AssignedTo: provider, Status: needs.StatusOpen})
}

func (b *Board) Providers() []providers.Provider {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.roster.List()
}

func (b *Board) History() []history.Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.history.List()
}

// observeAssignment runs under the write lock from inside Submit.
func (b *Board) observeAssignment(n needs.Need, p providers.Provider, distanceKm float64) {
	b.metrics.AssignmentDistance.Observe(distanceKm)
	b.log.Debug("need assigned",
		zap.Int64("needID", n.ID),
		zap.String("provider", p.Name),
		zap.Float64("distanceKm", distanceKm),
	)
}

// refreshGauges must be called with the lock held.
func (b *Board) refreshGauges() {
	b.metrics.OpenNeeds.Set(float64(len(b.needs.List(needs.Filter{Status: needs.StatusOpen}))))
	b.metrics.AvailableProviders.Set(float64(b.roster.AvailableCount()))
}

func (b *Board) publish(ctx context.Context, e broker.Event, author string) {
	e.Author = masker.Name(author)

	if err := b.publisher.Publish(ctx, e); err != nil {
		b.metrics.EventsPublished.WithLabelValues(string(e.Type), "failure").Inc()
		b.log.Error("failed to publish need event",
			zap.String("eventID", e.ID),
			zap.String("type", string(e.Type)),
			zap.Error(err),
		)
		return
	}
	b.metrics.EventsPublished.WithLabelValues(string(e.Type), "success").Inc()
}
