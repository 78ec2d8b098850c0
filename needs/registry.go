package needs

import (
	"time"

	"github.com/acikkaynak/needs-board-go/history"
)

// Assigner binds a freshly created need to a provider, if one is available.
type Assigner interface {
	Assign(n *Need)
}

// Releaser makes a provider available again after its need is completed.
type Releaser interface {
	ReleaseByName(name string) bool
}

// Recorder receives audit entries.
type Recorder interface {
	Append(entry history.Entry)
}

// Registry keeps needs in submission order. IDs start at 1 and are never reused.
// It is not safe for concurrent use; the board serialises access.
type Registry struct {
	lastID   int64
	items    []*Need
	assigner Assigner
	releaser Releaser
	recorder Recorder
	now      func() time.Time
}

type Option func(*Registry)

// WithClock replaces the clock used for need and history timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

func NewRegistry(assigner Assigner, releaser Releaser, recorder Recorder, opts ...Option) *Registry {
	r := &Registry{
		assigner: assigner,
		releaser: releaser,
		recorder: recorder,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create validates req, stores a new need and runs assignment on it.
// Nothing is stored when validation fails.
func (r *Registry) Create(req CreateNeedRequest) (Need, error) {
	s, err := req.validate()
	if err != nil {
		return Need{}, err
	}

	r.lastID++
	n := &Need{
		ID:          r.lastID,
		Author:      s.author,
		Description: s.description,
		Location:    s.location,
		Category:    s.category,
		Timestamp:   r.now().UTC(),
		Lat:         s.lat,
		Lng:         s.lng,
	}

	if r.assigner != nil {
		r.assigner.Assign(n)
	}
	r.items = append(r.items, n)

	return *n, nil
}

// Complete marks the need as done, frees its provider and records the action.
// It returns false when the need does not exist or was already completed.
func (r *Registry) Complete(id int64) (Need, bool) {
	n := r.find(id)
	if n == nil || n.Completed {
		return Need{}, false
	}

	n.Completed = true
	if n.IsAssigned() && r.releaser != nil {
		r.releaser.ReleaseByName(n.AssignedTo)
	}
	r.record(history.ActionCompleted, n)

	return *n, true
}

// Delete records and removes the need. The assigned provider is left untouched.
// It returns false when the need does not exist.
func (r *Registry) Delete(id int64) (Need, bool) {
	for i, n := range r.items {
		if n.ID != id {
			continue
		}
		r.record(history.ActionDeleted, n)
		r.items = append(r.items[:i], r.items[i+1:]...)
		return *n, true
	}
	return Need{}, false
}

func (r *Registry) Get(id int64) (Need, bool) {
	if n := r.find(id); n != nil {
		return *n, true
	}
	return Need{}, false
}

// List returns copies of the matching needs in submission order.
func (r *Registry) List(filter Filter) []Need {
	out := make([]Need, 0, len(r.items))
	for _, n := range r.items {
		if filter.match(n) {
			out = append(out, *n)
		}
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.items)
}

func (r *Registry) find(id int64) *Need {
	for _, n := range r.items {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (r *Registry) record(action history.Action, n *Need) {
	if r.recorder == nil {
		return
	}
	r.recorder.Append(history.Entry{
		Action: action,
		Task:   n.Description,
		Author: n.Author,
		Time:   r.now().UTC(),
	})
}
