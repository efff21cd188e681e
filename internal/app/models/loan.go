package models

import "time"

// LoanStatus is the lifecycle state of a loan
type LoanStatus string

const (
	LoanActive   LoanStatus = "active"
	LoanReturned LoanStatus = "returned"
)

// Loan records components and kits handed to a borrower
type Loan struct {
	ID                 string     `json:"id"`
	BorrowerName       string     `json:"borrowerName"`
	BorrowerEmail      string     `json:"borrowerEmail"`
	CourseID           *string    `json:"courseId,omitempty"`
	SectionID          *string    `json:"sectionId,omitempty"`
	Items              []LoanItem `json:"items"`
	Status             LoanStatus `json:"status"`
	LoanDate           time.Time  `json:"loanDate"`
	ExpectedReturnDate time.Time  `json:"expectedReturnDate"`
	ReturnDate         *time.Time `json:"returnDate,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// LoanItem is either a component line or a whole kit
type LoanItem struct {
	ComponentID  *string `json:"componentId,omitempty"`
	KitID        *string `json:"kitId,omitempty"`
	Quantity     int     `json:"quantity"`
	SerialNumber *string `json:"serialNumber,omitempty"`
}
