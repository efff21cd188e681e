package models

import "time"

// Course is an academic course. It owns its sections by composition.
type Course struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Sections    []Section `json:"sections"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Section is a teaching section of a course
type Section struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Professor string    `json:"professor"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SectionIndex returns the position of the section with the given ID, or -1
func (c *Course) SectionIndex(sectionID string) int {
	for i := range c.Sections {
		if c.Sections[i].ID == sectionID {
			return i
		}
	}
	return -1
}
