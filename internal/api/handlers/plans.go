package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"routeflow-service/internal/api/dto"
	"routeflow-service/internal/ports"
	"routeflow-service/internal/render"
	"routeflow-service/internal/services"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

type PlanHandler struct {
	Extractor   ports.TextExtractor
	Geocoder    ports.Geocoder
	Plans       ports.RoutePlanRepository
	Concurrency int
}

// Create turns free-form text into a stored route plan.
// It coordinates extraction, geocoding, route building and persistence.
func (h *PlanHandler) Create(c *gin.Context) {
	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, bindError(err))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(c, http.StatusBadRequest, "text is required")
		return
	}

	ctx := c.Request.Context()
	plan, err := services.PlanFromText(
		ctx,
		services.PlanFromTextRequest{RawText: req.Text, Concurrency: h.Concurrency},
		h.Extractor,
		h.Geocoder,
	)
	switch {
	case err == nil:
	case errors.Is(err, ports.ErrNoAddresses):
		writeError(c, http.StatusUnprocessableEntity, "no addresses found in text")
		return
	case errors.Is(err, ports.ErrExtractorRateLimited):
		writeError(c, http.StatusTooManyRequests, "address extraction is rate limited, try again later")
		return
	case errors.Is(err, ports.ErrExtractorUnauthenticated), errors.Is(err, ports.ErrExtractorModelUnavailable):
		writeInternalError(c, http.StatusBadGateway, "plans.create", err, "address extraction unavailable")
		return
	default:
		writeInternalError(c, http.StatusInternalServerError, "plans.create", err, "internal server error")
		return
	}

	if err := h.Plans.Save(ctx, plan); err != nil {
		writeInternalError(c, http.StatusInternalServerError, "plans.save", err, "internal server error")
		return
	}

	c.JSON(http.StatusCreated, dto.NewPlanResponse(plan))
}

func (h *PlanHandler) List(c *gin.Context) {
	limit := DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, MaxListLimit)
	}

	plans, err := h.Plans.List(c.Request.Context(), limit)
	if err != nil {
		writeInternalError(c, http.StatusInternalServerError, "plans.list", err, "internal server error")
		return
	}

	res := dto.ListPlansResponse{Plans: make([]dto.PlanResponse, 0, len(plans))}
	for _, p := range plans {
		res.Plans = append(res.Plans, dto.NewPlanResponse(p))
	}
	c.JSON(http.StatusOK, res)
}

func (h *PlanHandler) Get(c *gin.Context) {
	plan, err := h.Plans.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeLookupError(c, "plans.get", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPlanResponse(plan))
}

// GeoJSON serves the plan as a map layer: stop markers plus the route line.
func (h *PlanHandler) GeoJSON(c *gin.Context) {
	plan, err := h.Plans.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeLookupError(c, "plans.geojson", err)
		return
	}

	b, err := json.Marshal(render.GeoJSON(plan.Route))
	if err != nil {
		writeInternalError(c, http.StatusInternalServerError, "plans.geojson", err, "internal server error")
		return
	}
	c.Data(http.StatusOK, "application/geo+json", b)
}

func (h *PlanHandler) Delete(c *gin.Context) {
	if err := h.Plans.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeLookupError(c, "plans.delete", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PlanHandler) writeLookupError(c *gin.Context, op string, err error) {
	if errors.Is(err, ports.ErrPlanNotFound) {
		writeError(c, http.StatusNotFound, "plan not found")
		return
	}
	writeInternalError(c, http.StatusInternalServerError, op, err, "internal server error")
}
