package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Errores de dominio.
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrAlreadySettled = errors.New("la obligación ya fue pagada")
	ErrAmountMismatch = errors.New("el monto enviado no coincide con el adeudo")
	ErrEmptyAccount   = errors.New("la cuenta no tiene obligaciones pendientes")
	// ErrTransient indica que el almacén no estuvo disponible (timeout, conexión, lock).
	// Es el único error que el caller puede reintentar.
	ErrTransient = errors.New("almacén no disponible temporalmente")
)

// AmountMismatchError lleva el monto esperado y el enviado para que el caller concilie sin re-consultar.
type AmountMismatchError struct {
	Expected  decimal.Decimal
	Submitted decimal.Decimal
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("%s: esperado %s, enviado %s",
		ErrAmountMismatch, e.Expected.StringFixed(2), e.Submitted.StringFixed(2))
}

func (e *AmountMismatchError) Unwrap() error { return ErrAmountMismatch }

// AlreadySettledError identifica la obligación (o la cuenta, en pagos totales) que ya no está pendiente.
// SettledAt es nil cuando el pago concurrente se detectó en la escritura y no se volvió a leer.
type AlreadySettledError struct {
	ObligationID int64
	Account      string
	SettledAt    *time.Time
}

func (e *AlreadySettledError) Error() string {
	if e.ObligationID != 0 {
		return fmt.Sprintf("%s: obligación %d", ErrAlreadySettled, e.ObligationID)
	}
	return fmt.Sprintf("%s: cuenta %s", ErrAlreadySettled, e.Account)
}

func (e *AlreadySettledError) Unwrap() error { return ErrAlreadySettled }

// EmptyAccountError cuenta sin obligaciones pendientes al momento de validar.
type EmptyAccountError struct {
	Account string
}

func (e *EmptyAccountError) Error() string {
	return fmt.Sprintf("%s: %s", ErrEmptyAccount, e.Account)
}

func (e *EmptyAccountError) Unwrap() error { return ErrEmptyAccount }
