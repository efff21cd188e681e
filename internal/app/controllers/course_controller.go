package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/tilab/tilab/internal/app/models/dto"
	"github.com/tilab/tilab/internal/app/services"
	"github.com/tilab/tilab/internal/middleware"
)

// CourseController handles courses and their sections
type CourseController struct {
	courseService  services.CourseService
	sectionService services.SectionService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService, sectionService services.SectionService) *CourseController {
	return &CourseController{
		courseService:  courseService,
		sectionService: sectionService,
	}
}

// ListCourses lists courses
// @Summary List courses
// @Tags courses
// @Produce json
// @Param search query string false "Search term"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param all query bool false "Return every course"
// @Success 200 {object} dto.StructuredResponse{data=dto.PaginatedResponse{items=[]models.Course}} "Courses retrieved successfully"
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	items, page, err := c.courseService.ListCourses(ctx.Request.Context(), listParams(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, items, page, "Courses retrieved successfully")
}

// GetCourse retrieves a course with its sections
// @Summary Get course
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} dto.StructuredResponse{data=models.Course} "Course retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	course, err := c.courseService.GetCourseByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, course, "Course retrieved successfully")
}

// CreateCourse creates a course
// @Summary Create course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CourseRequest true "Course information"
// @Success 201 {object} dto.StructuredResponse{data=models.Course} "Course created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course data"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.CreateCourse(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, course, "Course created successfully")
}

// UpdateCourse updates a course's name and description
// @Summary Update course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param request body dto.CourseRequest true "Course information"
// @Success 200 {object} dto.StructuredResponse{data=models.Course} "Course updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course data"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	var req dto.CourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.UpdateCourse(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, course, "Course updated successfully")
}

// DeleteCourse deletes a course and its sections
// @Summary Delete course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} dto.StructuredResponse "Course deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	if err := c.courseService.DeleteCourse(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Course deleted successfully")
}

// ListSections lists the sections of a course
// @Summary List sections
// @Tags sections
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} dto.StructuredResponse{data=[]models.Section} "Sections retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/sections [get]
func (c *CourseController) ListSections(ctx *gin.Context) {
	sections, err := c.sectionService.ListSections(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, sections, "Sections retrieved successfully")
}

// CreateSection adds a section to a course
// @Summary Create section
// @Tags sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param request body dto.SectionRequest true "Section information"
// @Success 201 {object} dto.StructuredResponse{data=models.Section} "Section created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid section data"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/sections [post]
func (c *CourseController) CreateSection(ctx *gin.Context) {
	var req dto.SectionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	section, err := c.sectionService.CreateSection(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, section, "Section created successfully")
}

// UpdateSection updates a section of a course
// @Summary Update section
// @Tags sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param sectionId path string true "Section ID"
// @Param request body dto.SectionRequest true "Section information"
// @Success 200 {object} dto.StructuredResponse{data=models.Section} "Section updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid section data"
// @Failure 404 {object} dto.ErrorResponse "Course or section not found"
// @Router /courses/{id}/sections/{sectionId} [put]
func (c *CourseController) UpdateSection(ctx *gin.Context) {
	var req dto.SectionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	section, err := c.sectionService.UpdateSection(ctx.Request.Context(), ctx.Param("id"), ctx.Param("sectionId"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, section, "Section updated successfully")
}

// DeleteSection removes a section from a course
// @Summary Delete section
// @Tags sections
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param sectionId path string true "Section ID"
// @Success 200 {object} dto.StructuredResponse "Section deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Course or section not found"
// @Router /courses/{id}/sections/{sectionId} [delete]
func (c *CourseController) DeleteSection(ctx *gin.Context) {
	if err := c.sectionService.DeleteSection(ctx.Request.Context(), ctx.Param("id"), ctx.Param("sectionId")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Section deleted successfully")
}
