package providers

import (
	"errors"
	"math"

	"github.com/acikkaynak/needs-board-go/geo"
)

// ErrInvalidCredentials is returned when no provider matches a username/password pair.
var ErrInvalidCredentials = errors.New("invalid provider credentials")

type Provider struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Location  geo.Point `json:"location"`
	Available bool      `json:"available"`
	Username  string    `json:"-"`
	Password  string    `json:"-"`
}

// DefaultRoster is the roster the board starts with.
func DefaultRoster() []Provider {
	return []Provider{
		{ID: 1, Name: "Ravi", Location: geo.Point{Lat: 13.360, Lng: 74.780}, Available: true, Username: "ravi", Password: "ravi123"},
		{ID: 2, Name: "Sneha", Location: geo.Point{Lat: 13.358, Lng: 74.785}, Available: true, Username: "sneha", Password: "sneha123"},
	}
}

// Registry holds a fixed roster of providers in the order they were given.
// Every lookup scans in that order and the first match wins.
// It is not safe for concurrent use; the board serialises access.
type Registry struct {
	providers []*Provider
}

func NewRegistry(roster []Provider) *Registry {
	r := &Registry{providers: make([]*Provider, 0, len(roster))}
	for i := range roster {
		p := roster[i]
		r.providers = append(r.providers, &p)
	}
	return r
}

// FindAvailableNearest returns the available provider closest to point together
// with its distance in kilometres. Ties keep the provider that comes first.
// ok is false when nobody is available.
func (r *Registry) FindAvailableNearest(point geo.Point) (*Provider, float64, bool) {
	var nearest *Provider
	minDistance := math.Inf(1)

	for _, p := range r.providers {
		if !p.Available {
			continue
		}
		if d := geo.Haversine(point, p.Location); d < minDistance {
			minDistance = d
			nearest = p
		}
	}

	if nearest == nil {
		return nil, 0, false
	}
	return nearest, minDistance, true
}

// ReleaseByName marks the first provider called name as available again.
// It reports whether such a provider exists.
func (r *Registry) ReleaseByName(name string) bool {
	for _, p := range r.providers {
		if p.Name == name {
			p.Available = true
			return true
		}
	}
	return false
}

// Authenticate returns the first provider whose credentials match exactly.
func (r *Registry) Authenticate(username, password string) (Provider, error) {
	for _, p := range r.providers {
		if p.Username == username && p.Password == password {
			return *p, nil
		}
	}
	return Provider{}, ErrInvalidCredentials
}

// List returns a snapshot of the roster.
func (r *Registry) List() []Provider {
	out := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		out = append(out, *p)
	}
	return out
}

// AvailableCount returns how many providers can take a new need.
func (r *Registry) AvailableCount() int {
	n := 0
	for _, p := range r.providers {
		if p.Available {
			n++
		}
	}
	return n
}
