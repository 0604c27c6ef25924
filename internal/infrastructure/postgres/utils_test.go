package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/Recaudo-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestWrapErr_Classification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{"lock timeout", &pgconn.PgError{Code: "55P03"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"statement timeout", &pgconn.PgError{Code: "57014"}, true},
		{"connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), true},
		{"check violation", &pgconn.PgError{Code: "23514"}, false},
		{"trigger raise", &pgconn.PgError{Code: "P0001"}, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapErr("try settle", tt.err)
			assert.Equal(t, tt.transient, errors.Is(err, domain.ErrTransient))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
