package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/tilab/tilab/internal/app/models/dto"
	"github.com/tilab/tilab/internal/app/services"
	"github.com/tilab/tilab/internal/middleware"
)

// ComponentController handles component inventory operations
type ComponentController struct {
	componentService services.ComponentService
}

// NewComponentController creates a new ComponentController
func NewComponentController(componentService services.ComponentService) *ComponentController {
	return &ComponentController{componentService: componentService}
}

// ListComponents lists components
// @Summary List components
// @Description Lists inventory components, optionally filtered by a name or description search
// @Tags components
// @Produce json
// @Param search query string false "Search term"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param all query bool false "Return every component"
// @Success 200 {object} dto.StructuredResponse{data=dto.PaginatedResponse{items=[]models.Component}} "Components retrieved successfully"
// @Failure 503 {object} dto.ErrorResponse "Simulated server error"
// @Router /components [get]
func (c *ComponentController) ListComponents(ctx *gin.Context) {
	items, page, err := c.componentService.ListComponents(ctx.Request.Context(), listParams(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, items, page, "Components retrieved successfully")
}

// GetComponent retrieves a component by ID
// @Summary Get component
// @Tags components
// @Produce json
// @Param id path string true "Component ID"
// @Success 200 {object} dto.StructuredResponse{data=models.Component} "Component retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Component not found"
// @Router /components/{id} [get]
func (c *ComponentController) GetComponent(ctx *gin.Context) {
	component, err := c.componentService.GetComponentByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, component, "Component retrieved successfully")
}

// CreateComponent creates a component
// @Summary Create component
// @Description Adds a component to the inventory. Quantity may be sent as a number or as text.
// @Tags components
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ComponentRequest true "Component information"
// @Success 201 {object} dto.StructuredResponse{data=models.Component} "Component created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid component data"
// @Failure 503 {object} dto.ErrorResponse "Simulated server error"
// @Router /components [post]
func (c *ComponentController) CreateComponent(ctx *gin.Context) {
	var req dto.ComponentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	component, err := c.componentService.CreateComponent(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, component, "Component created successfully")
}

// UpdateComponent replaces a component's fields
// @Summary Update component
// @Tags components
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Component ID"
// @Param request body dto.ComponentRequest true "Component information"
// @Success 200 {object} dto.StructuredResponse{data=models.Component} "Component updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid component data"
// @Failure 404 {object} dto.ErrorResponse "Component not found"
// @Router /components/{id} [put]
func (c *ComponentController) UpdateComponent(ctx *gin.Context) {
	var req dto.ComponentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	component, err := c.componentService.UpdateComponent(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, component, "Component updated successfully")
}

// DeleteComponent deletes a component
// @Summary Delete component
// @Tags components
// @Produce json
// @Security BearerAuth
// @Param id path string true "Component ID"
// @Success 200 {object} dto.StructuredResponse "Component deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Component not found"
// @Router /components/{id} [delete]
func (c *ComponentController) DeleteComponent(ctx *gin.Context) {
	if err := c.componentService.DeleteComponent(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Component deleted successfully")
}
