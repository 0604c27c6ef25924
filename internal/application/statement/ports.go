package statement

import (
	"context"
	"time"

	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Document datos de un estado de cuenta: foto de las obligaciones pendientes de una cuenta.
type Document struct {
	Account     entity.AccountRef
	Obligations []*entity.Obligation
	Total       decimal.Decimal
	GeneratedAt time.Time
}

// Renderer produce el PDF del estado de cuenta.
type Renderer interface {
	RenderStatement(ctx context.Context, doc Document) ([]byte, error)
}

// Mail mensaje con el estado de cuenta adjunto.
type Mail struct {
	To       string
	Account  entity.AccountRef
	Total    decimal.Decimal
	Filename string
	PDF      []byte
}

// Notifier entrega el estado de cuenta por correo.
type Notifier interface {
	SendStatement(ctx context.Context, msg Mail) error
}
