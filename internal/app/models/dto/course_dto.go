package dto

// CourseRequest is the body of course create and update
type CourseRequest struct {
	Name        string `json:"name" example:"Introducción a la Electrónica"`
	Description string `json:"description" example:"Curso básico de electrónica analógica y digital"`
}

// SectionRequest is the body of section create and update
type SectionRequest struct {
	Name      string `json:"name" example:"Sección A"`
	Professor string `json:"professor" example:"Dr. García"`
}
