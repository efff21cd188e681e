package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tilab/tilab/internal/app/models"
	"github.com/tilab/tilab/internal/app/models/dto"
	"github.com/tilab/tilab/internal/pkg/apperrors"
	"github.com/tilab/tilab/internal/pkg/helpers"
	"github.com/tilab/tilab/internal/pkg/simulation"
	"github.com/tilab/tilab/internal/pkg/validation"
	"github.com/tilab/tilab/internal/pkg/websocket"
	"github.com/tilab/tilab/internal/store"
)

// KitService defines the interface for kit-related operations
type KitService interface {
	ListKits(ctx context.Context, params ListParams) ([]models.Kit, dto.PaginationInfo, error)
	GetKitByID(ctx context.Context, id string) (*models.Kit, error)
	GetKitByCode(ctx context.Context, code string) (*models.Kit, error)
	CreateKit(ctx context.Context, req *dto.CreateKitRequest) (*models.Kit, error)
	UpdateKit(ctx context.Context, id string, req *dto.UpdateKitRequest) (*models.Kit, error)
	DeleteKit(ctx context.Context, id string) error
}

type kitServiceImpl struct {
	*base
}

// NewKitService creates a new kit service instance
func NewKitService(b *base) KitService {
	return &kitServiceImpl{base: b}
}

func checkKitName(errs *validation.Errors, raw string) string {
	name := validation.NewStringValidation(raw).
		WithRequired(true, "Kit name is required").
		WithMinLength(validation.NameMinLength, "Name must be at least 2 characters").
		WithMaxLength(validation.NameMaxLength, "Name must be at most 255 characters")
	errs.Add("name", name.Check())
	return name.Value
}

func checkKitItems(errs *validation.Errors, items []dto.KitItemRequest) []models.KitItem {
	out := make([]models.KitItem, 0, len(items))
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		id := strings.TrimSpace(item.ComponentID)
		switch {
		case id == "":
			errs.Add(fmt.Sprintf("items[%d].componentId", i), "Component is required")
		case seen[id]:
			errs.Add(fmt.Sprintf("items[%d].componentId", i), "Component is listed more than once")
		}
		switch {
		case item.Quantity <= 0:
			errs.Add(fmt.Sprintf("items[%d].quantity", i), "Quantity must be greater than 0")
		case item.Quantity > validation.MaxQuantity:
			errs.Add(fmt.Sprintf("items[%d].quantity", i), validation.QuantityTooLargeMessage())
		}
		seen[id] = true
		out = append(out, models.KitItem{ComponentID: id, Quantity: item.Quantity})
	}
	return out
}

// ensureComponents checks that every kit line references a stored component
func (s *kitServiceImpl) ensureComponents(tx store.Tx, items []models.KitItem) error {
	for _, item := range items {
		if _, err := s.repos.ComponentRepository.FindByID(tx, item.ComponentID); err != nil {
			if apperrors.Is(err, apperrors.ErrResourceNotFound) {
				return fmt.Errorf("%w: %s", apperrors.ErrComponentNotFound, item.ComponentID)
			}
			return err
		}
	}
	return nil
}

func (s *kitServiceImpl) ensureCodeFree(tx store.Tx, code *string, exceptID string) error {
	if code == nil {
		return nil
	}
	taken, err := s.repos.KitRepository.CodeTaken(tx, *code, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.ErrKitCodeExists
	}
	return nil
}

// ListKits returns one page of kits
func (s *kitServiceImpl) ListKits(ctx context.Context, params ListParams) ([]models.Kit, dto.PaginationInfo, error) {
	var list []models.Kit
	err := s.read(ctx, simulation.List, "kit.list", func(tx store.Tx) error {
		var err error
		list, err = s.repos.KitRepository.List(tx)
		return err
	})
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("error retrieving kits: %w", err)
	}

	if term := strings.ToLower(strings.TrimSpace(params.Search)); term != "" {
		filtered := make([]models.Kit, 0, len(list))
		for _, k := range list {
			if strings.Contains(strings.ToLower(k.Name), term) ||
				(k.Code != nil && strings.Contains(strings.ToLower(*k.Code), term)) {
				filtered = append(filtered, k)
			}
		}
		list = filtered
	}

	page, info := helpers.Paginate(list, params.Page, params.Size)
	return page, info, nil
}

// GetKitByID retrieves a kit by ID
func (s *kitServiceImpl) GetKitByID(ctx context.Context, id string) (*models.Kit, error) {
	var kit *models.Kit
	err := s.read(ctx, simulation.Get, "kit.get", func(tx store.Tx) error {
		var err error
		kit, err = s.repos.KitRepository.FindByID(tx, id)
		return err
	})
	return kit, err
}

// GetKitByCode retrieves a kit by its code
func (s *kitServiceImpl) GetKitByCode(ctx context.Context, code string) (*models.Kit, error) {
	var kit *models.Kit
	err := s.read(ctx, simulation.Get, "kit.get", func(tx store.Tx) error {
		var err error
		kit, err = s.repos.KitRepository.FindByCode(tx, strings.TrimSpace(code))
		return err
	})
	return kit, err
}

// CreateKit validates and stores a new available kit
func (s *kitServiceImpl) CreateKit(ctx context.Context, req *dto.CreateKitRequest) (*models.Kit, error) {
	errs := validation.NewErrors()
	name := checkKitName(errs, req.Name)
	items := checkKitItems(errs, req.Items)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	now := s.now()
	kit := &models.Kit{
		ID:          s.ids.New(models.PrefixKit),
		Code:        optionalTextPtr(req.Code),
		Name:        name,
		Description: optionalTextPtr(req.Description),
		Items:       items,
		Status:      models.KitAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.write(ctx, simulation.Write, "kit.create", func(tx store.Tx) error {
		if err := s.ensureCodeFree(tx, kit.Code, ""); err != nil {
			return err
		}
		if err := s.ensureComponents(tx, kit.Items); err != nil {
			return err
		}
		return s.repos.KitRepository.Insert(tx, kit)
	})
	if err != nil {
		return nil, err
	}

	s.publish(websocket.EventCreated, models.KeyKits, kit.ID, "")
	return kit, nil
}

// UpdateKit changes only the fields present in req
func (s *kitServiceImpl) UpdateKit(ctx context.Context, id string, req *dto.UpdateKitRequest) (*models.Kit, error) {
	errs := validation.NewErrors()
	var name string
	if req.Name != nil {
		name = checkKitName(errs, *req.Name)
	}
	var items []models.KitItem
	if req.Items != nil {
		items = checkKitItems(errs, *req.Items)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	var kit *models.Kit
	err := s.write(ctx, simulation.Write, "kit.update", func(tx store.Tx) error {
		var err error
		kit, err = s.repos.KitRepository.FindByID(tx, id)
		if err != nil {
			return err
		}

		if req.Code != nil {
			kit.Code = optionalTextPtr(req.Code)
			if err := s.ensureCodeFree(tx, kit.Code, kit.ID); err != nil {
				return err
			}
		}
		if req.Name != nil {
			kit.Name = name
		}
		if req.Description != nil {
			kit.Description = optionalTextPtr(req.Description)
		}
		if req.Items != nil {
			if err := s.ensureComponents(tx, items); err != nil {
				return err
			}
			kit.Items = items
		}
		kit.UpdatedAt = s.now()

		return s.repos.KitRepository.Replace(tx, kit)
	})
	if err != nil {
		return nil, err
	}

	s.publish(websocket.EventUpdated, models.KeyKits, kit.ID, "")
	return kit, nil
}

// DeleteKit deletes a kit unless it is currently lent out
func (s *kitServiceImpl) DeleteKit(ctx context.Context, id string) error {
	err := s.write(ctx, simulation.Delete, "kit.delete", func(tx store.Tx) error {
		kit, err := s.repos.KitRepository.FindByID(tx, id)
		if err != nil {
			return err
		}
		if kit.Status == models.KitLoaned {
			return apperrors.ErrKitOnLoan
		}
		return s.repos.KitRepository.Delete(tx, id)
	})
	if err != nil {
		return err
	}

	s.publish(websocket.EventDeleted, models.KeyKits, id, "")
	return nil
}
