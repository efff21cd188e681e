package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ListFilter holds the search query parameter shared by list endpoints.
// Paging is read separately by helpers.ParsePaginationParams.
type ListFilter struct {
	Search string `form:"search" example:"led"`
}

// QuantityInput accepts a quantity typed into a form, sent either as a JSON
// number or as a string. Interpretation is left to the service layer so the
// form's own messages apply.
type QuantityInput struct {
	raw string
	set bool
}

// NewQuantityInput wraps an already known value
func NewQuantityInput(raw string) QuantityInput {
	return QuantityInput{raw: raw, set: true}
}

// Raw returns the text as received, "" when absent or null
func (q QuantityInput) Raw() string {
	return q.raw
}

// IsSet reports whether the field was present and not null
func (q QuantityInput) IsSet() bool {
	return q.set
}

// UnmarshalJSON implements json.Unmarshaler
func (q *QuantityInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*q = QuantityInput{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = QuantityInput{raw: s, set: true}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("quantity must be a number or a string")
	}
	*q = QuantityInput{raw: n.String(), set: true}
	return nil
}
