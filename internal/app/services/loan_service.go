package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tilab/tilab/internal/app/models"
	"github.com/tilab/tilab/internal/app/models/dto"
	"github.com/tilab/tilab/internal/pkg/apperrors"
	"github.com/tilab/tilab/internal/pkg/helpers"
	"github.com/tilab/tilab/internal/pkg/simulation"
	"github.com/tilab/tilab/internal/pkg/validation"
	"github.com/tilab/tilab/internal/pkg/websocket"
	"github.com/tilab/tilab/internal/store"
)

// LoanService defines the interface for loan-related operations
type LoanService interface {
	ListLoans(ctx context.Context, status string, params ListParams) ([]models.Loan, dto.PaginationInfo, error)
	ListActiveLoans(ctx context.Context) ([]models.Loan, error)
	GetLoanByID(ctx context.Context, id string) (*models.Loan, error)
	CreateLoan(ctx context.Context, req *dto.CreateLoanRequest) (*models.Loan, error)
	UpdateLoan(ctx context.Context, id string, req *dto.UpdateLoanRequest) (*models.Loan, error)
	ReturnLoan(ctx context.Context, id string) (*models.Loan, error)
}

type loanServiceImpl struct {
	*base
}

// NewLoanService creates a new loan service instance
func NewLoanService(b *base) LoanService {
	return &loanServiceImpl{base: b}
}

func checkBorrowerName(errs *validation.Errors, raw string) string {
	v := validation.NewStringValidation(raw).
		WithRequired(true, "Borrower name is required").
		WithMinLength(validation.NameMinLength, "Name must be at least 2 characters").
		WithMaxLength(validation.NameMaxLength, "Name must be at most 255 characters")
	errs.Add("borrowerName", v.Check())
	return v.Value
}

func checkBorrowerEmail(errs *validation.Errors, raw string) string {
	v := validation.NewStringValidation(raw).
		WithRequired(true, "Borrower email is required").
		WithPattern(validation.CompiledPatterns.Email, "Must be a valid email address")
	errs.Add("borrowerEmail", v.Check())
	return strings.ToLower(v.Value)
}

// validateNewLoan checks the form and returns the loan it describes, not yet
// checked against stock or kit availability
func (s *loanServiceImpl) validateNewLoan(req *dto.CreateLoanRequest, now time.Time) (*models.Loan, error) {
	errs := validation.NewErrors()

	loan := &models.Loan{
		BorrowerName:  checkBorrowerName(errs, req.BorrowerName),
		BorrowerEmail: checkBorrowerEmail(errs, req.BorrowerEmail),
		CourseID:      optionalTextPtr(req.CourseID),
		SectionID:     optionalTextPtr(req.SectionID),
		Notes:         optionalTextPtr(req.Notes),
		Status:        models.LoanActive,
		LoanDate:      now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if loan.SectionID != nil && loan.CourseID == nil {
		errs.Add("courseId", "Course is required when a section is selected")
	}

	switch {
	case req.ExpectedReturnDate == nil || req.ExpectedReturnDate.IsZero():
		errs.Add("expectedReturnDate", "Expected return date is required")
	case req.ExpectedReturnDate.Before(now):
		errs.Add("expectedReturnDate", "Expected return date cannot be before the loan date")
	default:
		loan.ExpectedReturnDate = *req.ExpectedReturnDate
	}

	if len(req.Items) == 0 {
		errs.Add("items", "At least one item is required")
	}
	for i, item := range req.Items {
		field := fmt.Sprintf("items[%d]", i)
		componentID := optionalTextPtr(item.ComponentID)
		kitID := optionalTextPtr(item.KitID)

		switch {
		case (componentID == nil) == (kitID == nil):
			errs.Add(field, "Item must reference either a component or a kit")
		case componentID != nil && item.Quantity <= 0:
			errs.Add(field+".quantity", "Quantity must be greater than 0")
		case componentID != nil && item.Quantity > validation.MaxQuantity:
			errs.Add(field+".quantity", validation.QuantityTooLargeMessage())
		}

		line := models.LoanItem{
			ComponentID:  componentID,
			KitID:        kitID,
			Quantity:     item.Quantity,
			SerialNumber: optionalTextPtr(item.SerialNumber),
		}
		if kitID != nil {
			line.Quantity = 1
		}
		loan.Items = append(loan.Items, line)
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return loan, nil
}

// ListLoans returns one page of loans, optionally filtered by status
func (s *loanServiceImpl) ListLoans(ctx context.Context, status string, params ListParams) ([]models.Loan, dto.PaginationInfo, error) {
	st := models.LoanStatus(strings.ToLower(strings.TrimSpace(status)))
	if st != "" && st != models.LoanActive && st != models.LoanReturned {
		return nil, dto.PaginationInfo{}, validation.NewErrors().Add("status", "Status must be active or returned")
	}

	var list []models.Loan
	err := s.read(ctx, simulation.List, "loan.list", func(tx store.Tx) error {
		var err error
		list, err = s.repos.LoanRepository.ListByStatus(tx, st)
		return err
	})
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("error retrieving loans: %w", err)
	}

	if term := strings.ToLower(strings.TrimSpace(params.Search)); term != "" {
		filtered := make([]models.Loan, 0, len(list))
		for _, l := range list {
			if strings.Contains(strings.ToLower(l.BorrowerName), term) ||
				strings.Contains(strings.ToLower(l.BorrowerEmail), term) {
				filtered = append(filtered, l)
			}
		}
		list = filtered
	}

	page, info := helpers.Paginate(list, params.Page, params.Size)
	return page, info, nil
}

// ListActiveLoans returns every loan not yet returned
func (s *loanServiceImpl) ListActiveLoans(ctx context.Context) ([]models.Loan, error) {
	var list []models.Loan
	err := s.read(ctx, simulation.List, "loan.list", func(tx store.Tx) error {
		var err error
		list, err = s.repos.LoanRepository.ListByStatus(tx, models.LoanActive)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error retrieving active loans: %w", err)
	}
	return list, nil
}

// GetLoanByID retrieves a loan by ID
func (s *loanServiceImpl) GetLoanByID(ctx context.Context, id string) (*models.Loan, error) {
	var loan *models.Loan
	err := s.read(ctx, simulation.Get, "loan.get", func(tx store.Tx) error {
		var err error
		loan, err = s.repos.LoanRepository.FindByID(tx, id)
		return err
	})
	return loan, err
}

// CreateLoan records a loan, taking stock from components and marking kits
// as loaned. Nothing changes unless every line can be served.
func (s *loanServiceImpl) CreateLoan(ctx context.Context, req *dto.CreateLoanRequest) (*models.Loan, error) {
	now := s.now()
	loan, err := s.validateNewLoan(req, now)
	if err != nil {
		return nil, err
	}
	loan.ID = s.ids.New(models.PrefixLoan)

	var touchedComponents, touchedKits []string
	err = s.write(ctx, simulation.Write, "loan.create", func(tx store.Tx) error {
		if err := s.checkCourse(tx, loan.CourseID, loan.SectionID); err != nil {
			return err
		}

		components, err := s.repos.ComponentRepository.List(tx)
		if err != nil {
			return err
		}
		kits, err := s.repos.KitRepository.List(tx)
		if err != nil {
			return err
		}

		compIndex := indexBy(components, func(c *models.Component) string { return c.ID })
		kitIndex := indexBy(kits, func(k *models.Kit) string { return k.ID })

		demand := make(map[string]int)
		var order []string
		lentKits := make(map[string]bool)

		for _, item := range loan.Items {
			if item.ComponentID != nil {
				id := *item.ComponentID
				i, ok := compIndex[id]
				if !ok {
					return fmt.Errorf("%w: %s", apperrors.ErrComponentNotFound, id)
				}
				if components[i].RequiresSerialNumber && item.SerialNumber == nil {
					return fmt.Errorf("%w: %s", apperrors.ErrSerialRequired, components[i].Name)
				}
				// demand never exceeds stock, so the sum cannot overflow
				if item.Quantity > components[i].Quantity-demand[id] {
					return fmt.Errorf("%w: %s has %d, %d requested", apperrors.ErrInsufficientStock,
						components[i].Name, components[i].Quantity, demand[id]+item.Quantity)
				}
				if _, seen := demand[id]; !seen {
					order = append(order, id)
				}
				demand[id] += item.Quantity
				continue
			}

			id := *item.KitID
			i, ok := kitIndex[id]
			if !ok {
				return fmt.Errorf("%w: %s", apperrors.ErrKitNotFound, id)
			}
			if kits[i].Status != models.KitAvailable || lentKits[id] {
				return fmt.Errorf("%w: %s", apperrors.ErrKitNotAvailable, kits[i].Name)
			}
			lentKits[id] = true
		}

		for _, id := range order {
			c := &components[compIndex[id]]
			c.Quantity -= demand[id]
			c.UpdatedAt = now
			touchedComponents = append(touchedComponents, id)
		}
		for id := range lentKits {
			k := &kits[kitIndex[id]]
			k.Status = models.KitLoaned
			k.UpdatedAt = now
			touchedKits = append(touchedKits, id)
		}

		if len(touchedComponents) > 0 {
			if err := s.repos.ComponentRepository.SaveAll(tx, components); err != nil {
				return err
			}
		}
		if len(touchedKits) > 0 {
			if err := s.repos.KitRepository.SaveAll(tx, kits); err != nil {
				return err
			}
		}
		return s.repos.LoanRepository.Insert(tx, loan)
	})
	if err != nil {
		return nil, err
	}

	s.publish(websocket.EventCreated, models.KeyLoans, loan.ID, "")
	for _, id := range touchedComponents {
		s.publish(websocket.EventUpdated, models.KeyComponents, id, "")
	}
	for _, id := range touchedKits {
		s.publish(websocket.EventUpdated, models.KeyKits, id, "")
	}
	s.notify(loan, false)

	return loan, nil
}

// UpdateLoan changes borrower details, due date or notes
func (s *loanServiceImpl) UpdateLoan(ctx context.Context, id string, req *dto.UpdateLoanRequest) (*models.Loan, error) {
	errs := validation.NewErrors()
	var name, mail string
	if req.BorrowerName != nil {
		name = checkBorrowerName(errs, *req.BorrowerName)
	}
	if req.BorrowerEmail != nil {
		mail = checkBorrowerEmail(errs, *req.BorrowerEmail)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	var loan *models.Loan
	err := s.write(ctx, simulation.Write, "loan.update", func(tx store.Tx) error {
		var err error
		loan, err = s.repos.LoanRepository.FindByID(tx, id)
		if err != nil {
			return err
		}

		if req.ExpectedReturnDate != nil {
			if req.ExpectedReturnDate.Before(loan.LoanDate) {
				return validation.NewErrors().Add("expectedReturnDate", "Expected return date cannot be before the loan date")
			}
			loan.ExpectedReturnDate = *req.ExpectedReturnDate
		}
		if req.BorrowerName != nil {
			loan.BorrowerName = name
		}
		if req.BorrowerEmail != nil {
			loan.BorrowerEmail = mail
		}
		if req.Notes != nil {
			loan.Notes = optionalTextPtr(req.Notes)
		}
		loan.UpdatedAt = s.now()

		return s.repos.LoanRepository.Replace(tx, loan)
	})
	if err != nil {
		return nil, err
	}

	s.publish(websocket.EventUpdated, models.KeyLoans, loan.ID, "")
	return loan, nil
}

// ReturnLoan closes an active loan, restoring stock and freeing kits
func (s *loanServiceImpl) ReturnLoan(ctx context.Context, id string) (*models.Loan, error) {
	var loan *models.Loan
	var touchedComponents, touchedKits []string

	err := s.write(ctx, simulation.Write, "loan.return", func(tx store.Tx) error {
		var err error
		loan, err = s.repos.LoanRepository.FindByID(tx, id)
		if err != nil {
			return err
		}
		if loan.Status == models.LoanReturned {
			return apperrors.ErrLoanAlreadyReturned
		}

		components, err := s.repos.ComponentRepository.List(tx)
		if err != nil {
			return err
		}
		kits, err := s.repos.KitRepository.List(tx)
		if err != nil {
			return err
		}
		compIndex := indexBy(components, func(c *models.Component) string { return c.ID })
		kitIndex := indexBy(kits, func(k *models.Kit) string { return k.ID })

		now := s.now()
		for _, item := range loan.Items {
			switch {
			case item.ComponentID != nil:
				i, ok := compIndex[*item.ComponentID]
				if !ok {
					s.logger.Warn().Str("loanID", loan.ID).Str("componentID", *item.ComponentID).
						Msg("Returned component no longer exists, stock not restored")
					continue
				}
				components[i].Quantity = addStock(components[i].Quantity, item.Quantity)
				components[i].UpdatedAt = now
				touchedComponents = append(touchedComponents, components[i].ID)
			case item.KitID != nil:
				i, ok := kitIndex[*item.KitID]
				if !ok {
					s.logger.Warn().Str("loanID", loan.ID).Str("kitID", *item.KitID).
						Msg("Returned kit no longer exists")
					continue
				}
				kits[i].Status = models.KitAvailable
				kits[i].UpdatedAt = now
				touchedKits = append(touchedKits, kits[i].ID)
			}
		}

		if len(touchedComponents) > 0 {
			if err := s.repos.ComponentRepository.SaveAll(tx, components); err != nil {
				return err
			}
		}
		if len(touchedKits) > 0 {
			if err := s.repos.KitRepository.SaveAll(tx, kits); err != nil {
				return err
			}
		}

		loan.Status = models.LoanReturned
		loan.ReturnDate = &now
		loan.UpdatedAt = now
		return s.repos.LoanRepository.Replace(tx, loan)
	})
	if err != nil {
		return nil, err
	}

	s.publish(websocket.EventReturned, models.KeyLoans, loan.ID, "")
	for _, id := range touchedComponents {
		s.publish(websocket.EventUpdated, models.KeyComponents, id, "")
	}
	for _, id := range touchedKits {
		s.publish(websocket.EventUpdated, models.KeyKits, id, "")
	}
	s.notify(loan, true)

	return loan, nil
}

// checkCourse verifies the optional course and that the section belongs to it
func (s *loanServiceImpl) checkCourse(tx store.Tx, courseID, sectionID *string) error {
	if courseID == nil {
		return nil
	}
	course, err := s.repos.CourseRepository.FindByID(tx, *courseID)
	if err != nil {
		return err
	}
	if sectionID != nil && course.SectionIndex(*sectionID) < 0 {
		return apperrors.ErrSectionNotFound
	}
	return nil
}

// notify emails the borrower in the background; failures are only logged
func (s *loanServiceImpl) notify(loan *models.Loan, returned bool) {
	if s.email == nil {
		return
	}
	snapshot := *loan
	go func() {
		var err error
		if returned {
			err = s.email.SendLoanReturnedEmail(&snapshot)
		} else {
			err = s.email.SendLoanCreatedEmail(&snapshot)
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("loanID", snapshot.ID).Msg("Loan notification failed")
		}
	}()
}

// addStock returns stock+n, saturating instead of wrapping
func addStock(stock, n int) int {
	if n > 0 && stock > math.MaxInt-n {
		return math.MaxInt
	}
	return stock + n
}

func indexBy[T any](list []T, key func(*T) string) map[string]int {
	idx := make(map[string]int, len(list))
	for i := range list {
		idx[key(&list[i])] = i
	}
	return idx
}
