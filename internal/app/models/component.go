package models

import "time"

// Component is an inventory item with a quantity on hand
type Component struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Quantity             int       `json:"quantity"`
	Description          *string   `json:"description,omitempty"`
	RequiresSerialNumber bool      `json:"requiresSerialNumber"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}
