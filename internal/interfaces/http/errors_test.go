package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Recaudo-api/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError_Mapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", fmt.Errorf("obligación 9: %w", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"already settled", &domain.AlreadySettledError{ObligationID: 9}, http.StatusConflict, "ALREADY_SETTLED"},
		{"empty account", &domain.EmptyAccountError{Account: "A1"}, http.StatusUnprocessableEntity, "EMPTY_ACCOUNT"},
		{"transient", fmt.Errorf("try settle: %w", domain.ErrTransient), http.StatusServiceUnavailable, "TRANSIENT"},
		{"invalid", domain.ErrInvalidInput, http.StatusBadRequest, "VALIDATION"},
		{"internal", fmt.Errorf("algo raro"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return writeError(c, zerolog.Nop(), tt.err) })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body["code"])
			if tt.wantStatus == http.StatusServiceUnavailable {
				assert.Equal(t, retryAfterSeconds, resp.Header.Get("Retry-After"))
			}
		})
	}
}
