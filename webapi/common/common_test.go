package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/amirasaad/onramp/pkg/domain"
)

func TestErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"fiber error", fiber.ErrNotFound, fiber.StatusNotFound},
		{"invalid request", domain.NewInvalidRequest("network", "is required"), fiber.StatusBadRequest},
		{"unknown provider", fmt.Errorf("redirect: %w", domain.ErrUnknownProvider), fiber.StatusBadRequest},
		{"unsupported network", domain.ErrUnsupportedNetwork, fiber.StatusUnprocessableEntity},
		{"unavailable", domain.ErrProviderUnavailable, fiber.StatusServiceUnavailable},
		{"other", errors.New("boom"), fiber.StatusInternalServerError},
		{"nil", nil, fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorToStatusCode(tt.err))
		})
	}
}
