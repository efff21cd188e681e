package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/tilab/tilab/internal/app/models/dto"
	"github.com/tilab/tilab/internal/app/services"
	"github.com/tilab/tilab/internal/middleware"
)

// LoanController handles loan operations
type LoanController struct {
	loanService services.LoanService
}

// NewLoanController creates a new LoanController
func NewLoanController(loanService services.LoanService) *LoanController {
	return &LoanController{loanService: loanService}
}

// ListLoans lists loans
// @Summary List loans
// @Tags loans
// @Produce json
// @Param status query string false "Loan status" Enums(active, returned)
// @Param search query string false "Borrower name or email"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param all query bool false "Return every loan"
// @Success 200 {object} dto.StructuredResponse{data=dto.PaginatedResponse{items=[]models.Loan}} "Loans retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Router /loans [get]
func (c *LoanController) ListLoans(ctx *gin.Context) {
	var filter dto.LoanFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items, page, err := c.loanService.ListLoans(ctx.Request.Context(), filter.Status, listParams(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, items, page, "Loans retrieved successfully")
}

// ListActiveLoans lists loans that have not been returned
// @Summary List active loans
// @Tags loans
// @Produce json
// @Success 200 {object} dto.StructuredResponse{data=[]models.Loan} "Active loans retrieved successfully"
// @Router /loans/active [get]
func (c *LoanController) ListActiveLoans(ctx *gin.Context) {
	loans, err := c.loanService.ListActiveLoans(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, loans, "Active loans retrieved successfully")
}

// GetLoan retrieves a loan by ID
// @Summary Get loan
// @Tags loans
// @Produce json
// @Param id path string true "Loan ID"
// @Success 200 {object} dto.StructuredResponse{data=models.Loan} "Loan retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Router /loans/{id} [get]
func (c *LoanController) GetLoan(ctx *gin.Context) {
	loan, err := c.loanService.GetLoanByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, loan, "Loan retrieved successfully")
}

// CreateLoan lends components and kits to a borrower
// @Summary Create loan
// @Description Decrements component stock and marks kits as loaned in a single transaction
// @Tags loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateLoanRequest true "Loan information"
// @Success 201 {object} dto.StructuredResponse{data=models.Loan} "Loan created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan data"
// @Failure 404 {object} dto.ErrorResponse "Component, kit or course not found"
// @Failure 409 {object} dto.ErrorResponse "Insufficient stock or kit not available"
// @Router /loans [post]
func (c *LoanController) CreateLoan(ctx *gin.Context) {
	var req dto.CreateLoanRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	loan, err := c.loanService.CreateLoan(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, loan, "Loan created successfully")
}

// UpdateLoan updates borrower details, expected return date and notes
// @Summary Update loan
// @Tags loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Param request body dto.UpdateLoanRequest true "Loan fields"
// @Success 200 {object} dto.StructuredResponse{data=models.Loan} "Loan updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan data"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Router /loans/{id} [put]
func (c *LoanController) UpdateLoan(ctx *gin.Context) {
	var req dto.UpdateLoanRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	loan, err := c.loanService.UpdateLoan(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, loan, "Loan updated successfully")
}

// ReturnLoan marks a loan as returned and restores stock
// @Summary Return loan
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} dto.StructuredResponse{data=models.Loan} "Loan returned successfully"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 409 {object} dto.ErrorResponse "Loan has already been returned"
// @Router /loans/{id}/return [put]
func (c *LoanController) ReturnLoan(ctx *gin.Context) {
	loan, err := c.loanService.ReturnLoan(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, loan, "Loan returned successfully")
}
