package services

import (
	"context"
	"fmt"

	"github.com/tilab/tilab/internal/app/models"
	"github.com/tilab/tilab/internal/app/models/dto"
	"github.com/tilab/tilab/internal/pkg/helpers"
	"github.com/tilab/tilab/internal/pkg/simulation"
	"github.com/tilab/tilab/internal/pkg/validation"
	"github.com/tilab/tilab/internal/pkg/websocket"
	"github.com/tilab/tilab/internal/store"
)

// ListParams selects one page of a list
type ListParams struct {
	Page   int
	Size   int
	Search string
}

// ComponentService defines the interface for component-related operations
type ComponentService interface {
	ListComponents(ctx context.Context, params ListParams) ([]models.Component, dto.PaginationInfo, error)
	GetComponentByID(ctx context.Context, id string) (*models.Component, error)
	CreateComponent(ctx context.Context, req *dto.ComponentRequest) (*models.Component, error)
	UpdateComponent(ctx context.Context, id string, req *dto.ComponentRequest) (*models.Component, error)
	DeleteComponent(ctx context.Context, id string) error
}

// componentServiceImpl implements the ComponentService interface
type componentServiceImpl struct {
	*base
}

// NewComponentService creates a new component service instance
func NewComponentService(b *base) ComponentService {
	return &componentServiceImpl{base: b}
}

// componentFields is a validated component form
type componentFields struct {
	name                 string
	quantity             int
	description          *string
	requiresSerialNumber bool
}

// validateComponent checks every field and reports all failures together
func validateComponent(req *dto.ComponentRequest) (*componentFields, error) {
	errs := validation.NewErrors()

	name := validation.NewStringValidation(req.Name).
		WithRequired(true, "Component name is required").
		WithMinLength(validation.NameMinLength, "Name must be at least 2 characters").
		WithMaxLength(validation.NameMaxLength, "Name must be at most 255 characters")
	errs.Add("name", name.Check())

	quantity, msg := validation.NewQuantityValidation(req.Quantity.Raw()).Parse()
	errs.Add("quantity", msg)

	description := validation.NewStringValidation(req.Description).
		WithRequired(false, "").
		WithMaxLength(validation.DescriptionMaxLength, "Description is too long")
	errs.Add("description", description.Check())

	if err := errs.Err(); err != nil {
		return nil, err
	}

	return &componentFields{
		name:                 name.Value,
		quantity:             quantity,
		description:          optionalText(req.Description),
		requiresSerialNumber: req.RequiresSerialNumber,
	}, nil
}

// ListComponents returns one page of components, optionally filtered by name
func (s *componentServiceImpl) ListComponents(ctx context.Context, params ListParams) ([]models.Component, dto.PaginationInfo, error) {
	var list []models.Component
	err := s.read(ctx, simulation.List, "component.list", func(tx store.Tx) error {
		var err error
		list, err = s.repos.ComponentRepository.Search(tx, params.Search)
		return err
	})
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("error retrieving components: %w", err)
	}

	page, info := helpers.Paginate(list, params.Page, params.Size)
	return page, info, nil
}

// GetComponentByID retrieves a component by ID
func (s *componentServiceImpl) GetComponentByID(ctx context.Context, id string) (*models.Component, error) {
	var component *models.Component
	err := s.read(ctx, simulation.Get, "component.get", func(tx store.Tx) error {
		var err error
		component, err = s.repos.ComponentRepository.FindByID(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return component, nil
}

// CreateComponent validates the form and appends a new component
func (s *componentServiceImpl) CreateComponent(ctx context.Context, req *dto.ComponentRequest) (*models.Component, error) {
	fields, err := validateComponent(req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	component := &models.Component{
		ID:                   s.ids.New(models.PrefixComponent),
		Name:                 fields.name,
		Quantity:             fields.quantity,
		Description:          fields.description,
		RequiresSerialNumber: fields.requiresSerialNumber,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	err = s.write(ctx, simulation.Write, "component.create", func(tx store.Tx) error {
		return s.repos.ComponentRepository.Insert(tx, component)
	})
	if err != nil {
		return nil, err
	}

	s.publish(websocket.EventCreated, models.KeyComponents, component.ID, "")
	return component, nil
}

// UpdateComponent replaces the editable fields of a component
func (s *componentServiceImpl) UpdateComponent(ctx context.Context, id string, req *dto.ComponentRequest) (*models.Component, error) {
	fields, err := validateComponent(req)
	if err != nil {
		return nil, err
	}

	var component *models.Component
	err = s.write(ctx, simulation.Write, "component.update", func(tx store.Tx) error {
		var err error
		component, err = s.repos.ComponentRepository.FindByID(tx, id)
		if err != nil {
			return err
		}

		component.Name = fields.name
		component.Quantity = fields.quantity
		component.Description = fields.description
		component.RequiresSerialNumber = fields.requiresSerialNumber
		component.UpdatedAt = s.now()

		return s.repos.ComponentRepository.Replace(tx, component)
	})
	if err != nil {
		return nil, err
	}

	s.publish(websocket.EventUpdated, models.KeyComponents, component.ID, "")
	return component, nil
}

// DeleteComponent deletes a component by ID
func (s *componentServiceImpl) DeleteComponent(ctx context.Context, id string) error {
	err := s.write(ctx, simulation.Delete, "component.delete", func(tx store.Tx) error {
		return s.repos.ComponentRepository.Delete(tx, id)
	})
	if err != nil {
		return err
	}

	s.publish(websocket.EventDeleted, models.KeyComponents, id, "")
	return nil
}
