package dto

// ComponentRequest is the body of component create and update. Fields are
// checked by the service so that all form messages are reported together.
type ComponentRequest struct {
	Name                 string        `json:"name" example:"Resistencia 10k Ω"`
	Quantity             QuantityInput `json:"quantity" swaggertype:"string" example:"150"`
	Description          string        `json:"description" example:"Resistencia de carbón 1/4W"`
	RequiresSerialNumber bool          `json:"requiresSerialNumber" example:"false"`
}
