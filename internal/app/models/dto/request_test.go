package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantityInput_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		body string
		raw  string
		set  bool
	}{
		{"number", `{"quantity": 15}`, "15", true},
		{"string", `{"quantity": "15"}`, "15", true},
		{"negative", `{"quantity": -3}`, "-3", true},
		{"decimal", `{"quantity": 1.5}`, "1.5", true},
		{"text", `{"quantity": "abc"}`, "abc", true},
		{"null", `{"quantity": null}`, "", false},
		{"absent", `{}`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req ComponentRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.raw, req.Quantity.Raw())
			assert.Equal(t, tt.set, req.Quantity.IsSet())
		})
	}
}

func TestQuantityInput_RejectsObjects(t *testing.T) {
	var req ComponentRequest
	assert.Error(t, json.Unmarshal([]byte(`{"quantity": {"n": 1}}`), &req))
}
