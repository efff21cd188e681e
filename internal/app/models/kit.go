package models

import "time"

// KitStatus tracks whether a kit can be lent
type KitStatus string

const (
	KitAvailable KitStatus = "available"
	KitLoaned    KitStatus = "loaned"
)

// Kit is a named bundle of components lent as a unit
type Kit struct {
	ID          string    `json:"id"`
	Code        *string   `json:"code,omitempty"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Items       []KitItem `json:"items"`
	Status      KitStatus `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// KitItem is one component line of a kit
type KitItem struct {
	ComponentID string `json:"componentId"`
	Quantity    int    `json:"quantity"`
}
