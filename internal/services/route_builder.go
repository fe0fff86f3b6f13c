package services

import (
	"math"
	"routeflow-service/internal/domain"
)

// Build a visiting route using a greedy nearest-neighbor algorithm.
//
// The first input point is the depot. At each step the unvisited point
// closest (great-circle distance) to the last appended stop is visited next.
// It does not attempt global route optimization; n is expected to be small
// and the scan is O(n²).
//
// Ties are broken by input order: unvisited points stay in their original
// relative order and only a strictly shorter distance replaces the current
// best, so the earliest input point wins.
func BuildRoute(points []domain.Point) domain.Route {
	if len(points) == 0 {
		return domain.Route{Stops: []domain.Point{}, TotalDistanceKm: 0}
	}

	stops := make([]domain.Point, 0, len(points))

	depot := points[0]
	depot.IsDepot = true
	stops = append(stops, depot)

	remaining := make([]domain.Point, 0, len(points)-1)
	for _, p := range points[1:] {
		p.IsDepot = false
		remaining = append(remaining, p)
	}

	for len(remaining) > 0 {
		current := stops[len(stops)-1]

		bestIdx := 0
		minDistance := math.Inf(1)

		// Select next stop by minimum distance (greedy step).
		for i, p := range remaining {
			d := current.DistanceKm(p.Coordinates)
			if d < minDistance {
				minDistance = d
				bestIdx = i
			}
		}

		stops = append(stops, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return domain.Route{
		Stops:           stops,
		TotalDistanceKm: TotalDistanceKm(stops),
	}
}

// TotalDistanceKm sums the great-circle legs between consecutive stops and
// rounds the result to two decimals.
func TotalDistanceKm(stops []domain.Point) float64 {
	total := 0.0
	for i := 1; i < len(stops); i++ {
		total += stops[i-1].DistanceKm(stops[i].Coordinates)
	}
	return math.Round(total*100) / 100
}
