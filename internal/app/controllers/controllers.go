// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tilab/tilab/internal/app/models/dto"
	"github.com/tilab/tilab/internal/app/services"
	"github.com/tilab/tilab/internal/pkg/helpers"
)

// Controllers groups the controller instances
type Controllers struct {
	HealthController    *HealthController
	AuthController      *AuthController
	ComponentController *ComponentController
	CourseController    *CourseController
	KitController       *KitController
	LoanController      *LoanController
}

// listParams reads page, size and search from the query string
func listParams(ctx *gin.Context) services.ListParams {
	var filter dto.ListFilter
	// a lone string field cannot fail to bind
	_ = ctx.ShouldBindQuery(&filter)

	page, size := helpers.ParsePaginationParams(ctx)
	return services.ListParams{
		Page:   page,
		Size:   size,
		Search: strings.TrimSpace(filter.Search),
	}
}

func respondOK(ctx *gin.Context, data interface{}, message string) {
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(data, message))
}

func respondCreated(ctx *gin.Context, data interface{}, message string) {
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(data, message))
}

func respondPage(ctx *gin.Context, items interface{}, page dto.PaginationInfo, message string) {
	respondOK(ctx, dto.PaginatedResponse{Items: items, Pagination: page}, message)
}
