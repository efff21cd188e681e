package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilab/tilab/internal/app/models"
	"github.com/tilab/tilab/internal/app/models/dto"
	"github.com/tilab/tilab/internal/pkg/apperrors"
	"github.com/tilab/tilab/internal/pkg/validation"
	"github.com/tilab/tilab/internal/pkg/websocket"
)

func (e *testEnv) dueDate() *time.Time {
	d := e.now.Add(7 * 24 * time.Hour)
	return &d
}

func (e *testEnv) quantityOf(t *testing.T, id string) int {
	t.Helper()
	c, err := e.svc.ComponentService.GetComponentByID(context.Background(), id)
	require.NoError(t, err)
	return c.Quantity
}

func (e *testEnv) statusOf(t *testing.T, id string) models.KitStatus {
	t.Helper()
	k, err := e.svc.KitService.GetKitByID(context.Background(), id)
	require.NoError(t, err)
	return k.Status
}

func TestCreateLoan_Validation(t *testing.T) {
	env := newTestEnv(t, nil)
	past := env.now.Add(-time.Hour)

	_, err := env.svc.LoanService.CreateLoan(context.Background(), &dto.CreateLoanRequest{
		BorrowerEmail:      "not-an-email",
		SectionID:          strPtr("section_1"),
		ExpectedReturnDate: &past,
		Items: []dto.LoanItemRequest{
			{},
			{ComponentID: strPtr("comp_1"), Quantity: 0},
		},
	})
	var verrs *validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "Borrower name is required", verrs.Get("borrowerName"))
	assert.Equal(t, "Must be a valid email address", verrs.Get("borrowerEmail"))
	assert.Equal(t, "Course is required when a section is selected", verrs.Get("courseId"))
	assert.Equal(t, "Expected return date cannot be before the loan date", verrs.Get("expectedReturnDate"))
	assert.Equal(t, "Item must reference either a component or a kit", verrs.Get("items[0]"))
	assert.Equal(t, "Quantity must be greater than 0", verrs.Get("items[1].quantity"))

	_, err = env.svc.LoanService.CreateLoan(context.Background(), &dto.CreateLoanRequest{
		BorrowerName:  "María López",
		BorrowerEmail: "maria@example.edu",
	})
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "At least one item is required", verrs.Get("items"))
	assert.Equal(t, "Expected return date is required", verrs.Get("expectedReturnDate"))
}

func TestLoan_DecrementsAndRestoresStock(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	led := env.component(t, "LED Rojo 5mm", "75", false)
	res := env.component(t, "Resistencia 10k Ω", "150", false)

	loan, err := env.svc.LoanService.CreateLoan(ctx, &dto.CreateLoanRequest{
		BorrowerName:       "María López",
		BorrowerEmail:      "Maria.Lopez@Example.edu",
		ExpectedReturnDate: env.dueDate(),
		Items: []dto.LoanItemRequest{
			{ComponentID: &led.ID, Quantity: 10},
			{ComponentID: &res.ID, Quantity: 20},
			{ComponentID: &led.ID, Quantity: 5},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.LoanActive, loan.Status)
	assert.Equal(t, "maria.lopez@example.edu", loan.BorrowerEmail)
	assert.Equal(t, 60, env.quantityOf(t, led.ID))
	assert.Equal(t, 130, env.quantityOf(t, res.ID))
	assert.Equal(t, "created:maria.lopez@example.edu", <-env.mailer.sent)

	active, err := env.svc.LoanService.ListActiveLoans(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	returned, err := env.svc.LoanService.ReturnLoan(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LoanReturned, returned.Status)
	require.NotNil(t, returned.ReturnDate)
	assert.Equal(t, 75, env.quantityOf(t, led.ID))
	assert.Equal(t, 150, env.quantityOf(t, res.ID))
	assert.Equal(t, "returned:maria.lopez@example.edu", <-env.mailer.sent)

	_, err = env.svc.LoanService.ReturnLoan(ctx, loan.ID)
	assert.ErrorIs(t, err, apperrors.ErrLoanAlreadyReturned)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, 75, env.quantityOf(t, led.ID), "double return must not restore twice")

	list, _, err := env.svc.LoanService.ListLoans(ctx, "returned", ListParams{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateLoan_InsufficientStockChangesNothing(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	led := env.component(t, "LED Rojo 5mm", "75", false)
	arduino := env.component(t, "Arduino Uno R3", "2", false)

	_, err := env.svc.LoanService.CreateLoan(ctx, &dto.CreateLoanRequest{
		BorrowerName:       "María López",
		BorrowerEmail:      "maria@example.edu",
		ExpectedReturnDate: env.dueDate(),
		Items: []dto.LoanItemRequest{
			{ComponentID: &led.ID, Quantity: 10},
			{ComponentID: &arduino.ID, Quantity: 3},
		},
	})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
	assert.Equal(t, 75, env.quantityOf(t, led.ID))
	assert.Equal(t, 2, env.quantityOf(t, arduino.ID))

	loans, _, err := env.svc.LoanService.ListLoans(ctx, "", ListParams{})
	require.NoError(t, err)
	assert.Empty(t, loans)
}

func TestCreateLoan_RejectsOversizedQuantities(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	led := env.component(t, "LED Rojo 5mm", "75", false)

	_, err := env.svc.LoanService.CreateLoan(ctx, &dto.CreateLoanRequest{
		BorrowerName:       "María López",
		BorrowerEmail:      "maria@example.edu",
		ExpectedReturnDate: env.dueDate(),
		Items: []dto.LoanItemRequest{
			{ComponentID: &led.ID, Quantity: math.MaxInt},
			{ComponentID: &led.ID, Quantity: math.MaxInt},
		},
	})
	var verrs *validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "Quantity must be at most 1000000", verrs.Get("items[0].quantity"))
	assert.Equal(t, "Quantity must be at most 1000000", verrs.Get("items[1].quantity"))
	assert.Equal(t, 75, env.quantityOf(t, led.ID))
}

func TestCreateLoan_RepeatedLinesCannotExceedStock(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	led := env.component(t, "LED Rojo 5mm", "75", false)
	arduino := env.component(t, "Arduino Uno R3", "12", false)

	tests := []struct {
		name  string
		items []dto.LoanItemRequest
	}{
		{"sum above stock", []dto.LoanItemRequest{
			{ComponentID: &led.ID, Quantity: 50},
			{ComponentID: &led.ID, Quantity: 50},
		}},
		{"largest allowed then more", []dto.LoanItemRequest{
			{ComponentID: &arduino.ID, Quantity: 1_000_000},
			{ComponentID: &arduino.ID, Quantity: 20},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.LoanService.CreateLoan(ctx, &dto.CreateLoanRequest{
				BorrowerName:       "María López",
				BorrowerEmail:      "maria@example.edu",
				ExpectedReturnDate: env.dueDate(),
				Items:              tt.items,
			})
			assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
			assert.Equal(t, 75, env.quantityOf(t, led.ID))
			assert.Equal(t, 12, env.quantityOf(t, arduino.ID))
		})
	}

	loan, err := env.svc.LoanService.CreateLoan(ctx, &dto.CreateLoanRequest{
		BorrowerName:       "María López",
		BorrowerEmail:      "maria@example.edu",
		ExpectedReturnDate: env.dueDate(),
		Items: []dto.LoanItemRequest{
			{ComponentID: &led.ID, Quantity: 40},
			{ComponentID: &led.ID, Quantity: 35},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, env.quantityOf(t, led.ID))
	assert.Equal(t, "created:maria@example.edu", <-env.mailer.sent)

	_, err = env.svc.LoanService.ReturnLoan(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, env.quantityOf(t, led.ID))
}

func TestAddStock_Saturates(t *testing.T) {
	assert.Equal(t, 80, addStock(75, 5))
	assert.Equal(t, math.MaxInt, addStock(math.MaxInt-1, 5))
	assert.Equal(t, math.MaxInt, addStock(math.MaxInt, math.MaxInt))
}

func TestCreateLoan_SerialNumberRequired(t *testing.T) {
	env := newTestEnv(t, nil)
	scope := env.component(t, "Osciloscopio", "2", true)

	req := &dto.CreateLoanRequest{
		BorrowerName:       "María López",
		BorrowerEmail:      "maria@example.edu",
		ExpectedReturnDate: env.dueDate(),
		Items:              []dto.LoanItemRequest{{ComponentID: &scope.ID, Quantity: 1}},
	}
	_, err := env.svc.LoanService.CreateLoan(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrSerialRequired)

	req.Items[0].SerialNumber = strPtr("SN-0001")
	_, err = env.svc.LoanService.CreateLoan(context.Background(), req)
	require.NoError(t, err)
}

func TestLoan_KitTogglesAvailability(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	led := env.component(t, "LED Rojo 5mm", "75", false)
	kit := env.kit(t, "Kit Básico", dto.KitItemRequest{ComponentID: led.ID, Quantity: 5})

	req := &dto.CreateLoanRequest{
		BorrowerName:       "María López",
		BorrowerEmail:      "maria@example.edu",
		ExpectedReturnDate: env.dueDate(),
		Items:              []dto.LoanItemRequest{{KitID: &kit.ID}},
	}
	loan, err := env.svc.LoanService.CreateLoan(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, loan.Items[0].Quantity)
	assert.Equal(t, models.KitLoaned, env.statusOf(t, kit.ID))
	assert.Equal(t, 75, env.quantityOf(t, led.ID), "kit loans leave component stock alone")

	_, err = env.svc.LoanService.CreateLoan(ctx, req)
	assert.ErrorIs(t, err, apperrors.ErrKitNotAvailable)

	err = env.svc.KitService.DeleteKit(ctx, kit.ID)
	assert.ErrorIs(t, err, apperrors.ErrKitOnLoan)

	_, err = env.svc.LoanService.ReturnLoan(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.KitAvailable, env.statusOf(t, kit.ID))
	require.NoError(t, env.svc.KitService.DeleteKit(ctx, kit.ID))
}

func TestCreateLoan_UnknownReferences(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	led := env.component(t, "LED Rojo 5mm", "75", false)

	base := dto.CreateLoanRequest{
		BorrowerName:       "María López",
		BorrowerEmail:      "maria@example.edu",
		ExpectedReturnDate: env.dueDate(),
		Items:              []dto.LoanItemRequest{{ComponentID: &led.ID, Quantity: 1}},
	}

	req := base
	req.Items = []dto.LoanItemRequest{{ComponentID: strPtr("comp_missing"), Quantity: 1}}
	_, err := env.svc.LoanService.CreateLoan(ctx, &req)
	assert.ErrorIs(t, err, apperrors.ErrComponentNotFound)

	req = base
	req.Items = []dto.LoanItemRequest{{KitID: strPtr("kit_missing")}}
	_, err = env.svc.LoanService.CreateLoan(ctx, &req)
	assert.ErrorIs(t, err, apperrors.ErrKitNotFound)

	req = base
	req.CourseID = strPtr("course_missing")
	_, err = env.svc.LoanService.CreateLoan(ctx, &req)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	course, err := env.svc.CourseService.CreateCourse(ctx, &dto.CourseRequest{Name: "Electrónica"})
	require.NoError(t, err)
	req = base
	req.CourseID = &course.ID
	req.SectionID = strPtr("section_missing")
	_, err = env.svc.LoanService.CreateLoan(ctx, &req)
	assert.ErrorIs(t, err, apperrors.ErrSectionNotFound)
}

func TestUpdateLoan(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	led := env.component(t, "LED Rojo 5mm", "75", false)

	loan, err := env.svc.LoanService.CreateLoan(ctx, &dto.CreateLoanRequest{
		BorrowerName:       "María López",
		BorrowerEmail:      "maria@example.edu",
		ExpectedReturnDate: env.dueDate(),
		Items:              []dto.LoanItemRequest{{ComponentID: &led.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := env.svc.LoanService.UpdateLoan(ctx, loan.ID, &dto.UpdateLoanRequest{
		BorrowerName: strPtr("María José López"),
		Notes:        strPtr("Devolver en laboratorio 2"),
	})
	require.NoError(t, err)
	assert.Equal(t, "María José López", updated.BorrowerName)
	assert.Equal(t, "maria@example.edu", updated.BorrowerEmail)
	require.NotNil(t, updated.Notes)

	early := env.now.Add(-48 * time.Hour)
	_, err = env.svc.LoanService.UpdateLoan(ctx, loan.ID, &dto.UpdateLoanRequest{ExpectedReturnDate: &early})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestListLoans_InvalidStatus(t *testing.T) {
	env := newTestEnv(t, nil)

	_, _, err := env.svc.LoanService.ListLoans(context.Background(), "lost", ListParams{})
	var verrs *validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "Status must be active or returned", verrs.Get("status"))
}

func TestCreateLoan_PublishesStockChanges(t *testing.T) {
	env := newTestEnv(t, nil)
	led := env.component(t, "LED Rojo 5mm", "75", false)

	_, err := env.svc.LoanService.CreateLoan(context.Background(), &dto.CreateLoanRequest{
		BorrowerName:       "María López",
		BorrowerEmail:      "maria@example.edu",
		ExpectedReturnDate: env.dueDate(),
		Items:              []dto.LoanItemRequest{{ComponentID: &led.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	events := env.events.Events()
	require.Len(t, events, 3)
	assert.Equal(t, models.KeyLoans, events[1].Resource)
	assert.Equal(t, websocket.EventCreated, events[1].Type)
	assert.Equal(t, models.KeyComponents, events[2].Resource)
	assert.Equal(t, led.ID, events[2].ID)
}
