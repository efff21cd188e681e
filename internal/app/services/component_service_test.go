package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilab/tilab/internal/app/models"
	"github.com/tilab/tilab/internal/app/models/dto"
	"github.com/tilab/tilab/internal/pkg/apperrors"
	"github.com/tilab/tilab/internal/pkg/idgen"
	"github.com/tilab/tilab/internal/pkg/simulation"
	"github.com/tilab/tilab/internal/pkg/validation"
	"github.com/tilab/tilab/internal/pkg/websocket"
)

func TestCreateComponent_Validation(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name     string
		req      dto.ComponentRequest
		field    string
		expected string
	}{
		{"empty name", dto.ComponentRequest{Name: "  ", Quantity: dto.NewQuantityInput("1")}, "name", "Component name is required"},
		{"short name", dto.ComponentRequest{Name: "R", Quantity: dto.NewQuantityInput("1")}, "name", "Name must be at least 2 characters"},
		{"missing quantity", dto.ComponentRequest{Name: "LED"}, "quantity", "Quantity is required"},
		{"text quantity", dto.ComponentRequest{Name: "LED", Quantity: dto.NewQuantityInput("ten")}, "quantity", "Must be a valid number"},
		{"negative quantity", dto.ComponentRequest{Name: "LED", Quantity: dto.NewQuantityInput("-3")}, "quantity", "Quantity cannot be negative"},
		{"quantity above limit", dto.ComponentRequest{Name: "LED", Quantity: dto.NewQuantityInput("1000001")}, "quantity", "Quantity must be at most 1000000"},
		{"max int quantity", dto.ComponentRequest{Name: "LED", Quantity: dto.NewQuantityInput("9223372036854775807")}, "quantity", "Quantity must be at most 1000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.ComponentService.CreateComponent(context.Background(), &tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

			var verrs *validation.Errors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, tt.expected, verrs.Get(tt.field))
		})
	}
}

func TestCreateComponent_ReportsEveryField(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.svc.ComponentService.CreateComponent(context.Background(), &dto.ComponentRequest{})
	var verrs *validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs.Fields(), 2)
}

func TestComponentLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	created, err := env.svc.ComponentService.CreateComponent(ctx, &dto.ComponentRequest{
		Name:        "  Resistencia 10k Ω ",
		Quantity:    dto.NewQuantityInput("150"),
		Description: "Resistencia de carbón",
	})
	require.NoError(t, err)
	assert.True(t, idgen.HasPrefix(created.ID, models.PrefixComponent))
	assert.Equal(t, "Resistencia 10k Ω", created.Name)
	assert.Equal(t, 150, created.Quantity)
	require.NotNil(t, created.Description)

	got, err := env.svc.ComponentService.GetComponentByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)

	updated, err := env.svc.ComponentService.UpdateComponent(ctx, created.ID, &dto.ComponentRequest{
		Name:     "Resistencia 1k Ω",
		Quantity: dto.NewQuantityInput("0"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Quantity)
	assert.Nil(t, updated.Description)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	require.NoError(t, env.svc.ComponentService.DeleteComponent(ctx, created.ID))
	_, err = env.svc.ComponentService.GetComponentByID(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	err = env.svc.ComponentService.DeleteComponent(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	events := env.events.Events()
	require.Len(t, events, 3)
	assert.Equal(t, websocket.EventCreated, events[0].Type)
	assert.Equal(t, websocket.EventUpdated, events[1].Type)
	assert.Equal(t, websocket.EventDeleted, events[2].Type)
	assert.Equal(t, models.KeyComponents, events[2].Resource)
}

func TestListComponents_SearchAndPaging(t *testing.T) {
	env := newTestEnv(t, nil)
	env.component(t, "LED Rojo 5mm", "75", false)
	env.component(t, "LED Verde 5mm", "40", false)
	env.component(t, "Arduino Uno R3", "12", false)

	list, page, err := env.svc.ComponentService.ListComponents(context.Background(), ListParams{Page: 1, Size: 10, Search: "led"})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, int64(2), page.TotalItems)

	list, page, err = env.svc.ComponentService.ListComponents(context.Background(), ListParams{Page: 2, Size: 2})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Arduino Uno R3", list[0].Name)
	assert.Equal(t, 2, page.TotalPages)
}

func TestCreateComponent_InjectedFailure(t *testing.T) {
	always := simulation.New(simulation.Options{FailureRate: 1, FailOperations: []string{"component.create"}, Seed: 1})
	env := newTestEnv(t, always)

	_, err := env.svc.ComponentService.CreateComponent(context.Background(), &dto.ComponentRequest{
		Name:     "LED",
		Quantity: dto.NewQuantityInput("1"),
	})
	assert.ErrorIs(t, err, apperrors.ErrInjectedFailure)

	list, _, err := env.svc.ComponentService.ListComponents(context.Background(), ListParams{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, env.events.Events())
}

func TestCreateComponent_NeverFailsAtZeroRate(t *testing.T) {
	never := simulation.New(simulation.Options{FailureRate: 0, FailOperations: []string{"component.create"}, Seed: 1})
	env := newTestEnv(t, never)

	for i := 0; i < 20; i++ {
		_, err := env.svc.ComponentService.CreateComponent(context.Background(), &dto.ComponentRequest{
			Name:     "LED",
			Quantity: dto.NewQuantityInput("1"),
		})
		require.NoError(t, err)
	}
}
