package needs

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/acikkaynak/needs-board-go/geo"
)

const (
	DefaultLocation = "Unknown"
	DefaultCategory = "General"
)

// ErrValidation is returned when a submission lacks a required field.
var ErrValidation = errors.New("all fields including location are required")

// CreateNeedRequest is the submission form as posted by the board page.
type CreateNeedRequest struct {
	Author   string `form:"author"`
	Need     string `form:"need"`
	Location string `form:"location"`
	Category string `form:"category"`
	Lat      string `form:"lat"`
	Lng      string `form:"lng"`
}

type Need struct {
	ID          int64     `json:"id"`
	Author      string    `json:"author"`
	Description string    `json:"need"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Timestamp   time.Time `json:"timestamp"`
	Completed   bool      `json:"completed"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	AssignedTo  string    `json:"assigned_to,omitempty"`
}

func (n Need) Point() geo.Point {
	return geo.Point{Lat: n.Lat, Lng: n.Lng}
}

func (n Need) IsAssigned() bool {
	return n.AssignedTo != ""
}

// submission is a validated CreateNeedRequest.
type submission struct {
	author      string
	description string
	location    string
	category    string
	lat         float64
	lng         float64
}

func (req CreateNeedRequest) validate() (submission, error) {
	author := strings.TrimSpace(req.Author)
	description := strings.TrimSpace(req.Need)
	if author == "" || description == "" {
		return submission{}, ErrValidation
	}

	lat, err := parseCoordinate(req.Lat, 90)
	if err != nil {
		return submission{}, err
	}
	lng, err := parseCoordinate(req.Lng, 180)
	if err != nil {
		return submission{}, err
	}

	s := submission{
		author:      author,
		description: description,
		location:    strings.TrimSpace(req.Location),
		category:    strings.TrimSpace(req.Category),
		lat:         lat,
		lng:         lng,
	}
	if s.location == "" {
		s.location = DefaultLocation
	}
	if s.category == "" {
		s.category = DefaultCategory
	}
	return s, nil
}

func parseCoordinate(raw string, limit float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrValidation
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.Abs(v) > limit {
		return 0, ErrValidation
	}
	return v, nil
}

type Status int

const (
	StatusAny Status = iota
	StatusOpen
	StatusCompleted
)

// Filter narrows List. The zero value matches every need.
type Filter struct {
	AssignedTo string
	Status     Status
}

func (f Filter) match(n *Need) bool {
	if f.AssignedTo != "" && n.AssignedTo != f.AssignedTo {
		return false
	}
	switch f.Status {
	case StatusOpen:
		return !n.Completed
	case StatusCompleted:
		return n.Completed
	}
	return true
}
