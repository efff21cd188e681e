package services

import (
	"context"

	"github.com/tilab/tilab/internal/app/models"
	"github.com/tilab/tilab/internal/app/models/dto"
	"github.com/tilab/tilab/internal/pkg/apperrors"
	"github.com/tilab/tilab/internal/pkg/simulation"
	"github.com/tilab/tilab/internal/pkg/validation"
	"github.com/tilab/tilab/internal/pkg/websocket"
	"github.com/tilab/tilab/internal/store"
)

// SectionService manages the sections embedded in a course. Every mutation
// rewrites the parent course.
type SectionService interface {
	ListSections(ctx context.Context, courseID string) ([]models.Section, error)
	CreateSection(ctx context.Context, courseID string, req *dto.SectionRequest) (*models.Section, error)
	UpdateSection(ctx context.Context, courseID, sectionID string, req *dto.SectionRequest) (*models.Section, error)
	DeleteSection(ctx context.Context, courseID, sectionID string) error
}

type sectionServiceImpl struct {
	*base
}

// NewSectionService creates a new section service instance
func NewSectionService(b *base) SectionService {
	return &sectionServiceImpl{base: b}
}

func validateSection(req *dto.SectionRequest) (name, professor string, err error) {
	errs := validation.NewErrors()

	n := validation.NewStringValidation(req.Name).
		WithRequired(true, "Section name is required").
		WithMinLength(validation.NameMinLength, "Name must be at least 2 characters").
		WithMaxLength(validation.NameMaxLength, "Name must be at most 255 characters")
	errs.Add("name", n.Check())

	p := validation.NewStringValidation(req.Professor).
		WithRequired(true, "Professor name is required").
		WithMaxLength(validation.NameMaxLength, "Name must be at most 255 characters")
	errs.Add("professor", p.Check())

	if err := errs.Err(); err != nil {
		return "", "", err
	}
	return n.Value, p.Value, nil
}

// ListSections returns the sections of a course in order
func (s *sectionServiceImpl) ListSections(ctx context.Context, courseID string) ([]models.Section, error) {
	var sections []models.Section
	err := s.read(ctx, simulation.List, "section.list", func(tx store.Tx) error {
		course, err := s.repos.CourseRepository.FindByID(tx, courseID)
		if err != nil {
			return err
		}
		sections = course.Sections
		return nil
	})
	if err != nil {
		return nil, err
	}
	if sections == nil {
		sections = []models.Section{}
	}
	return sections, nil
}

// CreateSection appends a section to a course
func (s *sectionServiceImpl) CreateSection(ctx context.Context, courseID string, req *dto.SectionRequest) (*models.Section, error) {
	name, professor, err := validateSection(req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	section := models.Section{
		ID:        s.ids.New(models.PrefixSection),
		Name:      name,
		Professor: professor,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.write(ctx, simulation.Write, "section.create", func(tx store.Tx) error {
		course, err := s.repos.CourseRepository.FindByID(tx, courseID)
		if err != nil {
			return err
		}
		course.Sections = append(course.Sections, section)
		course.UpdatedAt = now
		return s.repos.CourseRepository.Replace(tx, course)
	})
	if err != nil {
		return nil, err
	}

	s.publish(websocket.EventCreated, models.ResourceSections, section.ID, courseID)
	return &section, nil
}

// UpdateSection renames a section or changes its professor
func (s *sectionServiceImpl) UpdateSection(ctx context.Context, courseID, sectionID string, req *dto.SectionRequest) (*models.Section, error) {
	name, professor, err := validateSection(req)
	if err != nil {
		return nil, err
	}

	var section models.Section
	err = s.write(ctx, simulation.Write, "section.update", func(tx store.Tx) error {
		course, err := s.repos.CourseRepository.FindByID(tx, courseID)
		if err != nil {
			return err
		}
		i := course.SectionIndex(sectionID)
		if i < 0 {
			return apperrors.ErrSectionNotFound
		}

		now := s.now()
		course.Sections[i].Name = name
		course.Sections[i].Professor = professor
		course.Sections[i].UpdatedAt = now
		course.UpdatedAt = now
		section = course.Sections[i]

		return s.repos.CourseRepository.Replace(tx, course)
	})
	if err != nil {
		return nil, err
	}

	s.publish(websocket.EventUpdated, models.ResourceSections, sectionID, courseID)
	return &section, nil
}

// DeleteSection removes a section from its course
func (s *sectionServiceImpl) DeleteSection(ctx context.Context, courseID, sectionID string) error {
	err := s.write(ctx, simulation.Delete, "section.delete", func(tx store.Tx) error {
		course, err := s.repos.CourseRepository.FindByID(tx, courseID)
		if err != nil {
			return err
		}
		i := course.SectionIndex(sectionID)
		if i < 0 {
			return apperrors.ErrSectionNotFound
		}

		course.Sections = append(course.Sections[:i], course.Sections[i+1:]...)
		course.UpdatedAt = s.now()
		return s.repos.CourseRepository.Replace(tx, course)
	})
	if err != nil {
		return err
	}

	s.publish(websocket.EventDeleted, models.ResourceSections, sectionID, courseID)
	return nil
}
