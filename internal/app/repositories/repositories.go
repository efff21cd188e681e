package repositories

import (
	"github.com/tilab/tilab/internal/store"
)

// Repositories holds all the repository instances
type Repositories struct {
	Store               store.Store
	ComponentRepository *ComponentRepository
	CourseRepository    *CourseRepository
	KitRepository       *KitRepository
	LoanRepository      *LoanRepository
}

// NewRepositories initializes all repositories over one store
func NewRepositories(s store.Store) *Repositories {
	return &Repositories{
		Store:               s,
		ComponentRepository: NewComponentRepository(),
		CourseRepository:    NewCourseRepository(),
		KitRepository:       NewKitRepository(),
		LoanRepository:      NewLoanRepository(),
	}
}
