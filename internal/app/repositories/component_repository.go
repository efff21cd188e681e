package repositories

import (
	"strings"

	"github.com/tilab/tilab/internal/app/models"
	"github.com/tilab/tilab/internal/pkg/apperrors"
	"github.com/tilab/tilab/internal/store"
)

// ComponentRepository persists components under the "components" key
type ComponentRepository struct {
	collection[models.Component]
}

// NewComponentRepository creates a new ComponentRepository
func NewComponentRepository() *ComponentRepository {
	return &ComponentRepository{collection[models.Component]{
		key:      models.KeyComponents,
		idOf:     func(c *models.Component) string { return c.ID },
		notFound: apperrors.ErrComponentNotFound,
	}}
}

// Search returns components whose name contains term, case-insensitively.
// An empty term matches everything.
func (r *ComponentRepository) Search(tx store.Tx, term string) ([]models.Component, error) {
	list, err := r.List(tx)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return list, nil
	}

	out := make([]models.Component, 0, len(list))
	for _, c := range list {
		if strings.Contains(strings.ToLower(c.Name), term) {
			out = append(out, c)
		}
	}
	return out, nil
}
