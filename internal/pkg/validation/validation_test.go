package validation

import (
	"testing"

	"realty-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	CustomID string `json:"custom_id" validate:"required,custom_id"`
	Phone    string `json:"owner_phone" validate:"required,phone"`
	Color    string `json:"color" validate:"omitempty,status_color"`
}

func TestStruct_ReportsJSONFieldName(t *testing.T) {
	err := Struct(sample{Phone: "+374 91 123456"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "custom_id", ve.Field)
	assert.Equal(t, "custom_id is required", ve.Message)
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(sample{CustomID: "GL100", Phone: "(010) 55-44-33", Color: "red"}))
}

func TestStruct_BadColor(t *testing.T) {
	err := Struct(sample{CustomID: "GL100", Phone: "091123456", Color: "teal"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "color", ve.Field)
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("+37491123456"))
	assert.False(t, IsValidPhone("12345"))
	assert.False(t, IsValidPhone("call me"))
}

func TestIsValidCustomID(t *testing.T) {
	assert.True(t, IsValidCustomID("GL100"))
	assert.True(t, IsValidCustomID("a-2041_b"))
	assert.False(t, IsValidCustomID("-GL"))
	assert.False(t, IsValidCustomID("GL 100"))
}
