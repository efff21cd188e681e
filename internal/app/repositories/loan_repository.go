package repositories

import (
	"github.com/tilab/tilab/internal/app/models"
	"github.com/tilab/tilab/internal/pkg/apperrors"
	"github.com/tilab/tilab/internal/store"
)

// LoanRepository persists loans under the "loans" key
type LoanRepository struct {
	collection[models.Loan]
}

// NewLoanRepository creates a new LoanRepository
func NewLoanRepository() *LoanRepository {
	return &LoanRepository{collection[models.Loan]{
		key:      models.KeyLoans,
		idOf:     func(l *models.Loan) string { return l.ID },
		notFound: apperrors.ErrLoanNotFound,
	}}
}

// ListByStatus returns loans with the given status; an empty status matches all
func (r *LoanRepository) ListByStatus(tx store.Tx, status models.LoanStatus) ([]models.Loan, error) {
	list, err := r.List(tx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return list, nil
	}

	out := make([]models.Loan, 0, len(list))
	for _, l := range list {
		if l.Status == status {
			out = append(out, l)
		}
	}
	return out, nil
}
