package repositories

import (
	"strings"

	"github.com/tilab/tilab/internal/app/models"
	"github.com/tilab/tilab/internal/pkg/apperrors"
	"github.com/tilab/tilab/internal/store"
)

// KitRepository persists kits under the "kits" key
type KitRepository struct {
	collection[models.Kit]
}

// NewKitRepository creates a new KitRepository
func NewKitRepository() *KitRepository {
	return &KitRepository{collection[models.Kit]{
		key:      models.KeyKits,
		idOf:     func(k *models.Kit) string { return k.ID },
		notFound: apperrors.ErrKitNotFound,
	}}
}

// FindByCode returns the kit with the given code, compared case-insensitively
func (r *KitRepository) FindByCode(tx store.Tx, code string) (*models.Kit, error) {
	list, err := r.List(tx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].Code != nil && strings.EqualFold(*list[i].Code, code) {
			kit := list[i]
			return &kit, nil
		}
	}
	return nil, apperrors.ErrKitNotFound
}

// CodeTaken reports whether another kit than exceptID already uses code
func (r *KitRepository) CodeTaken(tx store.Tx, code, exceptID string) (bool, error) {
	kit, err := r.FindByCode(tx, code)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return false, nil
		}
		return false, err
	}
	return kit.ID != exceptID, nil
}
