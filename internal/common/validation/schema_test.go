package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() JSONSchema {
	return JSONSchema{
		Type:     "object",
		Required: []string{"nicheName"},
		Properties: map[string]Property{
			"nicheName": {Type: "string", MinLength: IntPtr(1)},
			"limit":     {Type: "integer", Minimum: FloatPtr(0)},
			"tier":      {Type: "string", Enum: []string{"低", "中等", "高"}},
			"skills": {
				Type:     "array",
				MaxItems: IntPtr(2),
				Items:    &Property{Type: "string"},
			},
		},
		AdditionalProperties: true,
	}
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name      string
		input     map[string]interface{}
		valid     bool
		wantField string
		wantCode  string
	}{
		{
			name:  "valid input with extra process variables",
			input: map[string]interface{}{"nicheName": "AI应用开发", "limit": 3, "tier": "高", "processVar": true},
			valid: true,
		},
		{
			name:      "missing required field",
			input:     map[string]interface{}{"limit": 3},
			wantField: "nicheName",
			wantCode:  "REQUIRED",
		},
		{
			name:      "nil input misses required field",
			input:     nil,
			wantField: "nicheName",
			wantCode:  "REQUIRED",
		},
		{
			name:      "enum violation",
			input:     map[string]interface{}{"nicheName": "x", "tier": "极高"},
			wantField: "tier",
			wantCode:  "ENUM",
		},
		{
			name:      "wrong type",
			input:     map[string]interface{}{"nicheName": 5},
			wantField: "nicheName",
			wantCode:  "INVALID_TYPE",
		},
		{
			name:      "negative limit",
			input:     map[string]interface{}{"nicheName": "x", "limit": -1},
			wantField: "limit",
			wantCode:  "NUMBER_GTE",
		},
		{
			name:      "too many skills",
			input:     map[string]interface{}{"nicheName": "x", "skills": []string{"a", "b", "c"}},
			wantField: "skills",
			wantCode:  "ARRAY_MAX_ITEMS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateInput(tt.input, testSchema())
			assert.Equal(t, tt.valid, result.Valid)
			if tt.valid {
				assert.Empty(t, result.Errors)
				return
			}
			require.NotEmpty(t, result.Errors)
			assert.Equal(t, tt.wantField, result.Errors[0].Field)
			assert.Equal(t, tt.wantCode, result.Errors[0].Code)
			assert.Len(t, result.GetErrorMessages(), len(result.Errors))
		})
	}
}

func TestValidateInput_AdditionalPropertiesDisallowed(t *testing.T) {
	schema := testSchema()
	schema.AdditionalProperties = false

	result := ValidateInput(map[string]interface{}{"nicheName": "x", "extra": 1}, schema)
	assert.False(t, result.Valid)
}

func TestValidateInput_InvalidSchema(t *testing.T) {
	result := ValidateInput(map[string]interface{}{}, JSONSchema{
		Type:       "object",
		Properties: map[string]Property{"x": {Type: "no-such-type"}},
	})
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "INVALID_SCHEMA", result.Errors[0].Code)
}

func TestToMap(t *testing.T) {
	type input struct {
		Name   string   `json:"name"`
		Skills []string `json:"skills,omitempty"`
	}

	m, err := ToMap(input{Name: "张三"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"name": "张三"}, m)
}
