package dto

import "routeflow-service/internal/domain"

type PointRequest struct {
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude" binding:"required,latitude"`
	Longitude *float64 `json:"longitude" binding:"required,longitude"`
}

type BuildRouteRequest struct {
	Points []PointRequest `json:"points" binding:"max=1000,dive"`
}

// ToPoints converts a bound request; coordinates are already validated.
func (r BuildRouteRequest) ToPoints() []domain.Point {
	points := make([]domain.Point, 0, len(r.Points))
	for _, p := range r.Points {
		points = append(points, domain.Point{
			Address:     p.Address,
			Coordinates: domain.Coordinates{Lat: *p.Latitude, Lon: *p.Longitude},
		})
	}
	return points
}

type StopResponse struct {
	Order     int     `json:"order"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	IsDepot   bool    `json:"is_depot"`
}

type RouteResponse struct {
	Stops           []StopResponse `json:"stops"`
	TotalDistanceKm float64        `json:"total_distance_km"`
}

func NewRouteResponse(r domain.Route) RouteResponse {
	res := RouteResponse{
		Stops:           make([]StopResponse, 0, len(r.Stops)),
		TotalDistanceKm: r.TotalDistanceKm,
	}
	for i, s := range r.Stops {
		res.Stops = append(res.Stops, StopResponse{
			Order:     i + 1,
			Address:   s.Address,
			Latitude:  s.Lat,
			Longitude: s.Lon,
			IsDepot:   s.IsDepot,
		})
	}
	return res
}
