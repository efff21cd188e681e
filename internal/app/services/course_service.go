package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tilab/tilab/internal/app/models"
	"github.com/tilab/tilab/internal/app/models/dto"
	"github.com/tilab/tilab/internal/pkg/helpers"
	"github.com/tilab/tilab/internal/pkg/simulation"
	"github.com/tilab/tilab/internal/pkg/validation"
	"github.com/tilab/tilab/internal/pkg/websocket"
	"github.com/tilab/tilab/internal/store"
)

// CourseService defines the interface for course-related operations
type CourseService interface {
	ListCourses(ctx context.Context, params ListParams) ([]models.Course, dto.PaginationInfo, error)
	GetCourseByID(ctx context.Context, id string) (*models.Course, error)
	CreateCourse(ctx context.Context, req *dto.CourseRequest) (*models.Course, error)
	UpdateCourse(ctx context.Context, id string, req *dto.CourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, id string) error
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	*base
}

// NewCourseService creates a new course service instance
func NewCourseService(b *base) CourseService {
	return &courseServiceImpl{base: b}
}

func validateCourse(req *dto.CourseRequest) (string, *string, error) {
	errs := validation.NewErrors()

	name := validation.NewStringValidation(req.Name).
		WithRequired(true, "Course name is required").
		WithMinLength(validation.NameMinLength, "Name must be at least 2 characters").
		WithMaxLength(validation.NameMaxLength, "Name must be at most 255 characters")
	errs.Add("name", name.Check())

	description := validation.NewStringValidation(req.Description).
		WithRequired(false, "").
		WithMaxLength(validation.DescriptionMaxLength, "Description is too long")
	errs.Add("description", description.Check())

	if err := errs.Err(); err != nil {
		return "", nil, err
	}
	return name.Value, optionalText(req.Description), nil
}

// ListCourses returns one page of courses with their sections
func (s *courseServiceImpl) ListCourses(ctx context.Context, params ListParams) ([]models.Course, dto.PaginationInfo, error) {
	var list []models.Course
	err := s.read(ctx, simulation.List, "course.list", func(tx store.Tx) error {
		var err error
		list, err = s.repos.CourseRepository.List(tx)
		return err
	})
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("error retrieving courses: %w", err)
	}

	if term := strings.ToLower(strings.TrimSpace(params.Search)); term != "" {
		filtered := make([]models.Course, 0, len(list))
		for _, c := range list {
			if strings.Contains(strings.ToLower(c.Name), term) {
				filtered = append(filtered, c)
			}
		}
		list = filtered
	}

	page, info := helpers.Paginate(list, params.Page, params.Size)
	return page, info, nil
}

// GetCourseByID retrieves a course by ID
func (s *courseServiceImpl) GetCourseByID(ctx context.Context, id string) (*models.Course, error) {
	var course *models.Course
	err := s.read(ctx, simulation.Get, "course.get", func(tx store.Tx) error {
		var err error
		course, err = s.repos.CourseRepository.FindByID(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

// CreateCourse creates a course with no sections
func (s *courseServiceImpl) CreateCourse(ctx context.Context, req *dto.CourseRequest) (*models.Course, error) {
	name, description, err := validateCourse(req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	course := &models.Course{
		ID:          s.ids.New(models.PrefixCourse),
		Name:        name,
		Description: description,
		Sections:    []models.Section{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.write(ctx, simulation.Write, "course.create", func(tx store.Tx) error {
		return s.repos.CourseRepository.Insert(tx, course)
	})
	if err != nil {
		return nil, err
	}

	s.publish(websocket.EventCreated, models.KeyCourses, course.ID, "")
	return course, nil
}

// UpdateCourse changes name and description; sections are kept
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, id string, req *dto.CourseRequest) (*models.Course, error) {
	name, description, err := validateCourse(req)
	if err != nil {
		return nil, err
	}

	var course *models.Course
	err = s.write(ctx, simulation.Write, "course.update", func(tx store.Tx) error {
		var err error
		course, err = s.repos.CourseRepository.FindByID(tx, id)
		if err != nil {
			return err
		}
		course.Name = name
		course.Description = description
		course.UpdatedAt = s.now()
		return s.repos.CourseRepository.Replace(tx, course)
	})
	if err != nil {
		return nil, err
	}

	s.publish(websocket.EventUpdated, models.KeyCourses, course.ID, "")
	return course, nil
}

// DeleteCourse deletes a course together with its sections
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id string) error {
	err := s.write(ctx, simulation.Delete, "course.delete", func(tx store.Tx) error {
		return s.repos.CourseRepository.Delete(tx, id)
	})
	if err != nil {
		return err
	}

	s.publish(websocket.EventDeleted, models.KeyCourses, id, "")
	return nil
}
