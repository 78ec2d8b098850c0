package dispatch

import (
	"github.com/acikkaynak/needs-board-go/needs"
	"github.com/acikkaynak/needs-board-go/providers"
)

// AssignFunc observes a committed assignment.
type AssignFunc func(need needs.Need, provider providers.Provider, distanceKm float64)

// Engine assigns new needs to the nearest available provider.
type Engine struct {
	roster   *providers.Registry
	onAssign AssignFunc
}

func NewEngine(roster *providers.Registry) *Engine {
	return &Engine{roster: roster}
}

// OnAssign registers fn to be called after every successful assignment.
func (e *Engine) OnAssign(fn AssignFunc) {
	e.onAssign = fn
}

// Assign binds n to the closest available provider and marks that provider busy.
// When nobody is available n is left unassigned and the roster is not touched.
func (e *Engine) Assign(n *needs.Need) {
	p, distance, ok := e.roster.FindAvailableNearest(n.Point())
	if !ok {
		return
	}

	n.AssignedTo = p.Name
	p.Available = false

	if e.onAssign != nil {
		e.onAssign(*n, *p, distance)
	}
}
