package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/careslot/backend/internal/domain/entities"
	apperrors "github.com/careslot/backend/pkg/errors"
)

type stubSessionReader struct {
	user *entities.CurrentUser
}

func (s *stubSessionReader) Current(ctx context.Context) (*entities.CurrentUser, error) {
	if s.user == nil {
		return nil, apperrors.NewNotFoundError("no current user")
	}
	return s.user, nil
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name         string
		user         *entities.CurrentUser
		expectedCode int
	}{
		{"admin passes admin gate", &entities.CurrentUser{Role: entities.RoleAdmin}, http.StatusOK},
		{"user is rejected by admin gate", &entities.CurrentUser{Role: entities.RoleUser}, http.StatusForbidden},
		{"anonymous is rejected", nil, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard := RequireRole(&stubSessionReader{user: tt.user}, entities.RoleAdmin)

			req := httptest.NewRequest(http.MethodDelete, "/api/doctors/d1", nil)
			w := httptest.NewRecorder()
			guard(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}
