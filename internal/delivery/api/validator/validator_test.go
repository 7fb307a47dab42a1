package validator

import (
	"testing"

	"tasker/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=5,max=48"`
	Email    string `json:"email" validate:"required,email"`
}

type patchRequest struct {
	Title       *string               `json:"title" validate:"omitempty,min=5,max=32"`
	Description util.Nullable[string] `json:"description" validate:"omitempty,max=256"`
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Validate(&registerRequest{Username: "abc", Email: "not-an-email"})
	require.Error(t, err)

	details := FieldErrors(err)
	assert.ElementsMatch(t, []FieldError{
		{Field: "username", Rule: "min", Param: "5"},
		{Field: "email", Rule: "email"},
	}, details)
}

func TestValidate_Passes(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&registerRequest{Username: "alice", Email: "alice@example.com"}))
}

func TestValidate_Nullable(t *testing.T) {
	v := New()
	long := make([]byte, 257)
	for i := range long {
		long[i] = 'x'
	}

	tests := []struct {
		name    string
		input   patchRequest
		wantErr bool
	}{
		{name: "absent", input: patchRequest{}},
		{name: "explicit null", input: patchRequest{Description: util.Null[string]()}},
		{name: "short value", input: patchRequest{Description: util.Some("fine")}},
		{name: "too long", input: patchRequest{Description: util.Some(string(long))}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "description", FieldErrors(err)[0].Field)

				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFieldErrors_NonValidationError(t *testing.T) {
	assert.Nil(t, FieldErrors(assert.AnError))
}
