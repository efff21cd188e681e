package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tilab/tilab/internal/app/models/dto"
	"github.com/tilab/tilab/internal/app/services"
	"github.com/tilab/tilab/internal/middleware"
)

// KitController handles kit operations
type KitController struct {
	kitService services.KitService
}

// NewKitController creates a new KitController
func NewKitController(kitService services.KitService) *KitController {
	return &KitController{kitService: kitService}
}

// ListKits lists kits, or looks one up when a code is given
// @Summary List kits
// @Description Lists kits filtered by a name or code search. With code set, returns the single kit carrying that code.
// @Tags kits
// @Produce json
// @Param search query string false "Search term"
// @Param code query string false "Exact kit code"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param all query bool false "Return every kit"
// @Success 200 {object} dto.StructuredResponse{data=dto.PaginatedResponse{items=[]models.Kit}} "Kits retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Kit not found"
// @Router /kits [get]
func (c *KitController) ListKits(ctx *gin.Context) {
	if code := strings.TrimSpace(ctx.Query("code")); code != "" {
		kit, err := c.kitService.GetKitByCode(ctx.Request.Context(), code)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		respondOK(ctx, kit, "Kit retrieved successfully")
		return
	}

	items, page, err := c.kitService.ListKits(ctx.Request.Context(), listParams(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, items, page, "Kits retrieved successfully")
}

// GetKit retrieves a kit by ID
// @Summary Get kit
// @Tags kits
// @Produce json
// @Param id path string true "Kit ID"
// @Success 200 {object} dto.StructuredResponse{data=models.Kit} "Kit retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Kit not found"
// @Router /kits/{id} [get]
func (c *KitController) GetKit(ctx *gin.Context) {
	kit, err := c.kitService.GetKitByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, kit, "Kit retrieved successfully")
}

// CreateKit creates a kit
// @Summary Create kit
// @Tags kits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateKitRequest true "Kit information"
// @Success 201 {object} dto.StructuredResponse{data=models.Kit} "Kit created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid kit data"
// @Failure 404 {object} dto.ErrorResponse "Component not found"
// @Failure 409 {object} dto.ErrorResponse "Kit code already exists"
// @Router /kits [post]
func (c *KitController) CreateKit(ctx *gin.Context) {
	var req dto.CreateKitRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	kit, err := c.kitService.CreateKit(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, kit, "Kit created successfully")
}

// UpdateKit partially updates a kit
// @Summary Update kit
// @Description Updates only the fields present in the body
// @Tags kits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Kit ID"
// @Param request body dto.UpdateKitRequest true "Kit fields"
// @Success 200 {object} dto.StructuredResponse{data=models.Kit} "Kit updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid kit data"
// @Failure 404 {object} dto.ErrorResponse "Kit not found"
// @Failure 409 {object} dto.ErrorResponse "Kit code already exists"
// @Router /kits/{id} [put]
func (c *KitController) UpdateKit(ctx *gin.Context) {
	var req dto.UpdateKitRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	kit, err := c.kitService.UpdateKit(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, kit, "Kit updated successfully")
}

// DeleteKit deletes a kit
// @Summary Delete kit
// @Tags kits
// @Produce json
// @Security BearerAuth
// @Param id path string true "Kit ID"
// @Success 200 {object} dto.StructuredResponse "Kit deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Kit not found"
// @Failure 409 {object} dto.ErrorResponse "Kit is on loan"
// @Router /kits/{id} [delete]
func (c *KitController) DeleteKit(ctx *gin.Context) {
	if err := c.kitService.DeleteKit(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Kit deleted successfully")
}
