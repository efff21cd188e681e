package repositories

import (
	"github.com/tilab/tilab/internal/app/models"
	"github.com/tilab/tilab/internal/pkg/apperrors"
)

// CourseRepository persists courses, with their sections embedded, under the
// "courses" key
type CourseRepository struct {
	collection[models.Course]
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository() *CourseRepository {
	return &CourseRepository{collection[models.Course]{
		key:      models.KeyCourses,
		idOf:     func(c *models.Course) string { return c.ID },
		notFound: apperrors.ErrCourseNotFound,
	}}
}
