package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/homework-tracker-api/pkg/errors"
)

type payload struct {
	Email    string `json:"email" validate:"required,email"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Title    string `json:"title" validate:"required"`
}

func TestStructTranslatesFieldErrors(t *testing.T) {
	v := New()
	err := v.Struct(payload{Email: "not-an-email", Priority: "urgent"})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "title is required", appErr.Details["title"])
	assert.Contains(t, appErr.Details["email"], "valid email")
	assert.Contains(t, appErr.Details["priority"], "priority")
}

func TestStructValid(t *testing.T) {
	assert.NoError(t, New().Struct(payload{Email: "a@b.test", Title: "Essay"}))
}
