package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tilab/tilab/internal/app/models/dto"
	"github.com/tilab/tilab/internal/store"
)

// HealthController reports liveness and storage reachability
type HealthController struct {
	store  store.Store
	driver string
}

// NewHealthController creates a new HealthController
func NewHealthController(st store.Store, driver string) *HealthController {
	return &HealthController{store: st, driver: driver}
}

// Health checks the store
// @Summary Health check
// @Description Reports whether the API and its storage backend are reachable
// @Tags health
// @Produce json
// @Success 200 {object} dto.StructuredResponse{data=dto.HealthResponse} "Service is healthy"
// @Failure 503 {object} dto.ErrorResponse "Storage unreachable"
// @Router /health [get]
func (h *HealthController) Health(ctx *gin.Context) {
	if err := h.store.Ping(ctx.Request.Context()); err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeStorageError, "Storage unreachable").WithDetails(err.Error())
		ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(detail))
		return
	}
	respondOK(ctx, dto.HealthResponse{Status: "ok", Storage: h.driver}, "Service is healthy")
}

// Ping answers with pong
// @Summary Ping
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *HealthController) Ping(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "pong"})
}
