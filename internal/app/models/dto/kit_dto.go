package dto

// KitItemRequest is one component line of a kit. Items are checked by the
// service so each line reports the form message.
type KitItemRequest struct {
	ComponentID string `json:"componentId" example:"comp_1700000000000_abc123xyz"`
	Quantity    int    `json:"quantity" example:"10"`
}

// CreateKitRequest is the body of kit creation
type CreateKitRequest struct {
	Code        *string          `json:"code" validate:"omitempty,max=50" example:"KIT-001"`
	Name        string           `json:"name" example:"Kit de Electrónica Básico"`
	Description *string          `json:"description" example:"Kit con componentes básicos"`
	Items       []KitItemRequest `json:"items" validate:"dive"`
}

// UpdateKitRequest is the body of a partial kit update; absent fields are kept
type UpdateKitRequest struct {
	Code        *string           `json:"code" validate:"omitempty,max=50" example:"KIT-001"`
	Name        *string           `json:"name" example:"Kit de Electrónica Básico"`
	Description *string           `json:"description"`
	Items       *[]KitItemRequest `json:"items" validate:"omitempty,dive"`
}
