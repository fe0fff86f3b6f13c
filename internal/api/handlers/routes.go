package handlers

import (
	"net/http"
	"routeflow-service/internal/api/dto"
	"routeflow-service/internal/services"

	"github.com/gin-gonic/gin"
)

// BuildRoute orders caller-supplied coordinates without extraction or geocoding.
func BuildRoute(c *gin.Context) {
	var req dto.BuildRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, bindError(err))
		return
	}

	c.JSON(http.StatusOK, dto.NewRouteResponse(services.BuildRoute(req.ToPoints())))
}
