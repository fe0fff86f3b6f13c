package api

import (
	"net/http"
	"routeflow-service/internal/api/handlers"
	"routeflow-service/internal/ports"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type Deps struct {
	Extractor          ports.TextExtractor
	Geocoder           ports.Geocoder
	Plans              ports.RoutePlanRepository
	GeocodeConcurrency int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	binding.EnableDecoderDisallowUnknownFields = true

	r := gin.New()
	r.Use(requestID(), accessLog(), recovery())

	planHandler := &handlers.PlanHandler{
		Extractor:   deps.Extractor,
		Geocoder:    deps.Geocoder,
		Plans:       deps.Plans,
		Concurrency: deps.GeocodeConcurrency,
	}

	r.GET("/health", handlers.Health)
	r.POST("/routes", handlers.BuildRoute)

	plans := r.Group("/plans")
	plans.POST("", planHandler.Create)
	plans.GET("", planHandler.List)
	plans.GET("/:id", planHandler.Get)
	plans.GET("/:id/geojson", planHandler.GeoJSON)
	plans.DELETE("/:id", planHandler.Delete)

	return r
}
