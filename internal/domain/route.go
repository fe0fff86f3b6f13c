package domain

import "time"

// Represents a single visiting location in a route.
// A Point is immutable once geocoded; only IsDepot is assigned, once,
// by the route builder.
type Point struct {
	Address string
	Coordinates
	IsDepot bool
}

// Represents an ordered visiting sequence.
// Stops are stored in visiting order and the first stop, if any, is the depot.
// TotalDistanceKm is the sum of consecutive great-circle legs rounded to
// two decimals. A Route is built once and never mutated afterwards.
type Route struct {
	Stops           []Point
	TotalDistanceKm float64
}

// Depot returns the origin of the route, or false for an empty route.
func (r Route) Depot() (Point, bool) {
	if len(r.Stops) == 0 {
		return Point{}, false
	}
	return r.Stops[0], true
}

// Represents the outcome of turning one free-text request into a route.
// Unresolved lists addresses the geocoder could not locate; they are not
// part of the route.
type RoutePlan struct {
	ID         string
	RawInput   string
	Route      Route
	Unresolved []string
	CreatedAt  time.Time
}
