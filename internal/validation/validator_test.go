package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/promptgallery/gallery-server/internal/errors"
	"github.com/promptgallery/gallery-server/internal/validation"
)

type testRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8,max=1024"`
	Tags     []string `json:"tags" validate:"required,min=1,max=3,dive,tagname"`
}

func validRequest() testRequest {
	return testRequest{Email: "test@example.com", Password: "password123", Tags: []string{"nature"}}
}

func TestValidator_ValidateSuccess(t *testing.T) {
	assert.NoError(t, validation.New().Validate(validRequest()))
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		mutate    func(r *testRequest)
		wantField string
		wantMsg   string
	}{
		{
			name:      "invalid email",
			mutate:    func(r *testRequest) { r.Email = "not-an-email" },
			wantField: "email",
			wantMsg:   "must be a valid email address",
		},
		{
			name:      "password too short",
			mutate:    func(r *testRequest) { r.Password = "short" },
			wantField: "password",
			wantMsg:   "must be at least 8 characters",
		},
		{
			name:      "too many tags",
			mutate:    func(r *testRequest) { r.Tags = []string{"a", "b", "c", "d"} },
			wantField: "tags",
			wantMsg:   "must contain at most 3 items",
		},
		{
			name:      "bad tag name",
			mutate:    func(r *testRequest) { r.Tags = []string{"ok", "bad!tag"} },
			wantField: "tags[1]",
			wantMsg:   "tag name can only contain letters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := v.Validate(req)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details[tt.wantField], tt.wantMsg)
		})
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	req := validRequest()
	req.Email = ""

	err := validation.New().Validate(req)
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	details := domainErr.Details.(map[string]string)
	assert.Contains(t, details, "email")
	assert.NotContains(t, details, "Email")
}
