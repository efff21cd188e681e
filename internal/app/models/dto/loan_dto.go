package dto

import "time"

// LoanItemRequest is either a component line or a kit
type LoanItemRequest struct {
	ComponentID  *string `json:"componentId" example:"comp_1700000000000_abc123xyz"`
	KitID        *string `json:"kitId" example:"kit_1700000000000_abc123xyz"`
	Quantity     int     `json:"quantity" example:"2"`
	SerialNumber *string `json:"serialNumber" validate:"omitempty,max=100" example:"SN-0001"`
}

// CreateLoanRequest is the body of loan creation
type CreateLoanRequest struct {
	BorrowerName       string            `json:"borrowerName" example:"María López"`
	BorrowerEmail      string            `json:"borrowerEmail" example:"maria.lopez@example.edu"`
	CourseID           *string           `json:"courseId"`
	SectionID          *string           `json:"sectionId"`
	Items              []LoanItemRequest `json:"items" validate:"dive"`
	ExpectedReturnDate *time.Time        `json:"expectedReturnDate" example:"2025-05-30T18:00:00Z"`
	Notes              *string           `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateLoanRequest is the body of a partial loan update
type UpdateLoanRequest struct {
	BorrowerName       *string    `json:"borrowerName" validate:"omitempty,max=255"`
	BorrowerEmail      *string    `json:"borrowerEmail" validate:"omitempty,max=255"`
	ExpectedReturnDate *time.Time `json:"expectedReturnDate"`
	Notes              *string    `json:"notes" validate:"omitempty,max=2000"`
}

// LoanFilter holds list query parameters
type LoanFilter struct {
	Status string `form:"status" example:"active"`
}
