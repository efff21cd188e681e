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
	"github.com/tilab/tilab/internal/pkg/validation"
	"github.com/tilab/tilab/internal/pkg/websocket"
)

func TestCreateCourse_Validation(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.svc.CourseService.CreateCourse(context.Background(), &dto.CourseRequest{Name: ""})
	var verrs *validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "Course name is required", verrs.Get("name"))

	_, err = env.svc.CourseService.CreateCourse(context.Background(), &dto.CourseRequest{Name: "X"})
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "Name must be at least 2 characters", verrs.Get("name"))
}

func TestSections_PersistThroughCourse(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	course, err := env.svc.CourseService.CreateCourse(ctx, &dto.CourseRequest{Name: "Robótica Básica"})
	require.NoError(t, err)
	assert.Empty(t, course.Sections)

	section, err := env.svc.SectionService.CreateSection(ctx, course.ID, &dto.SectionRequest{Name: "Sección A", Professor: "Dr. García"})
	require.NoError(t, err)

	got, err := env.svc.CourseService.GetCourseByID(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, got.Sections, 1)
	assert.Equal(t, section.ID, got.Sections[0].ID)

	_, err = env.svc.SectionService.UpdateSection(ctx, course.ID, section.ID, &dto.SectionRequest{Name: "Sección B", Professor: "Ing. López"})
	require.NoError(t, err)

	sections, err := env.svc.SectionService.ListSections(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "Sección B", sections[0].Name)
	assert.Equal(t, "Ing. López", sections[0].Professor)

	// renaming the course keeps its sections
	_, err = env.svc.CourseService.UpdateCourse(ctx, course.ID, &dto.CourseRequest{Name: "Robótica Avanzada"})
	require.NoError(t, err)
	got, err = env.svc.CourseService.GetCourseByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Len(t, got.Sections, 1)

	require.NoError(t, env.svc.SectionService.DeleteSection(ctx, course.ID, section.ID))
	sections, err = env.svc.SectionService.ListSections(ctx, course.ID)
	require.NoError(t, err)
	assert.Empty(t, sections)

	err = env.svc.SectionService.DeleteSection(ctx, course.ID, section.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestCreateSection_Errors(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.svc.SectionService.CreateSection(ctx, "course_missing", &dto.SectionRequest{Name: "Sección A", Professor: "Dr. García"})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	course, err := env.svc.CourseService.CreateCourse(ctx, &dto.CourseRequest{Name: "Electrónica"})
	require.NoError(t, err)

	_, err = env.svc.SectionService.CreateSection(ctx, course.ID, &dto.SectionRequest{Name: "Sección A"})
	var verrs *validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "Professor name is required", verrs.Get("professor"))
}

func TestSections_PublishEventsUnderCourse(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	course, err := env.svc.CourseService.CreateCourse(ctx, &dto.CourseRequest{Name: "Electrónica"})
	require.NoError(t, err)
	section, err := env.svc.SectionService.CreateSection(ctx, course.ID, &dto.SectionRequest{Name: "Sección A", Professor: "Dr. García"})
	require.NoError(t, err)
	_, err = env.svc.SectionService.UpdateSection(ctx, course.ID, section.ID, &dto.SectionRequest{Name: "Sección B", Professor: "Dr. García"})
	require.NoError(t, err)
	require.NoError(t, env.svc.SectionService.DeleteSection(ctx, course.ID, section.ID))

	events := env.events.Events()
	require.Len(t, events, 4)
	assert.Equal(t, models.KeyCourses, events[0].Resource)
	for i, want := range []string{websocket.EventCreated, websocket.EventUpdated, websocket.EventDeleted} {
		e := events[i+1]
		assert.Equal(t, models.ResourceSections, e.Resource)
		assert.Equal(t, want, e.Type)
		assert.Equal(t, section.ID, e.ID)
		assert.Equal(t, course.ID, e.ParentID)
	}
}

func TestDeleteCourse(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	course, err := env.svc.CourseService.CreateCourse(ctx, &dto.CourseRequest{Name: "Electrónica"})
	require.NoError(t, err)
	require.NoError(t, env.svc.CourseService.DeleteCourse(ctx, course.ID))

	list, _, err := env.svc.CourseService.ListCourses(ctx, ListParams{})
	require.NoError(t, err)
	assert.Empty(t, list)
}
