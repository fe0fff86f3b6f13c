package dto

import (
	"routeflow-service/internal/domain"
	"time"
)

type CreatePlanRequest struct {
	Text string `json:"text" binding:"required"`
}

type PlanResponse struct {
	ID         string        `json:"id"`
	RawInput   string        `json:"raw_input"`
	Route      RouteResponse `json:"route"`
	Unresolved []string      `json:"unresolved"`
	CreatedAt  time.Time     `json:"created_at"`
}

type ListPlansResponse struct {
	Plans []PlanResponse `json:"plans"`
}

// NewPlanResponse is the wire form of a plan, shared by the API and the CLI.
func NewPlanResponse(p *domain.RoutePlan) PlanResponse {
	unresolved := p.Unresolved
	if unresolved == nil {
		unresolved = []string{}
	}
	return PlanResponse{
		ID:         p.ID,
		RawInput:   p.RawInput,
		Route:      NewRouteResponse(p.Route),
		Unresolved: unresolved,
		CreatedAt:  p.CreatedAt,
	}
}
