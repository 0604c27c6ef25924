package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ObligationSummary proyección de una obligación para listados.
type ObligationSummary struct {
	ID            int64           `json:"id"`
	Category      string          `json:"category"`
	Concept       string          `json:"concept,omitempty"`
	Address       string          `json:"address,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	IssuedAt      string          `json:"issued_at"` // 2006-01-02
	DueAt         string          `json:"due_at"`    // 2006-01-02
	Status        string          `json:"status"`
	SettledAt     *time.Time      `json:"settled_at,omitempty"`
	SettledOnTime *bool           `json:"settled_on_time,omitempty"`
}

// OutstandingTotalResponse respuesta de GET /api/{fines|assessments}/:account/total.
type OutstandingTotalResponse struct {
	Category string          `json:"category"`
	Account  string          `json:"account"`
	Total    decimal.Decimal `json:"total"`
}

// SettleOneRequest body para POST /api/{fines|assessments}/pay.
// Amount debe coincidir exactamente con el adeudo; no hay pagos parciales.
type SettleOneRequest struct {
	ObligationID int64           `json:"obligation_id" validate:"required,gt=0"`
	Amount       decimal.Decimal `json:"amount"`
}

// SettleAllRequest body para POST /api/{fines|assessments}/pay-all.
type SettleAllRequest struct {
	Account string          `json:"account" validate:"required,max=64"`
	Amount  decimal.Decimal `json:"amount"`
}

// ReceiptResponse comprobante de pago individual.
type ReceiptResponse struct {
	ObligationID  int64     `json:"obligation_id"`
	SettledAt     time.Time `json:"settled_at"`
	SettledOnTime bool      `json:"settled_on_time"`
}

// BatchReceiptResponse comprobante de pago total.
// count_settled y total_paid pueden ser menores a lo enviado si otra petición
// pagó parte de las obligaciones entre la validación y la escritura.
type BatchReceiptResponse struct {
	Category      string          `json:"category"`
	Account       string          `json:"account"`
	CountSettled  int             `json:"count_settled"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	SettledAt     time.Time       `json:"settled_at"`
	ObligationIDs []int64         `json:"obligation_ids"`
}

// SettlementErrorResponse error de negocio con el detalle para conciliar sin re-consultar.
type SettlementErrorResponse struct {
	Code         string           `json:"code"`
	Message      string           `json:"message"`
	Expected     *decimal.Decimal `json:"expected,omitempty"`
	Submitted    *decimal.Decimal `json:"submitted,omitempty"`
	ObligationID int64            `json:"obligation_id,omitempty"`
	Account      string           `json:"account,omitempty"`
	SettledAt    *time.Time       `json:"settled_at,omitempty"`
}

// SendStatementRequest body para POST /api/{fines|assessments}/send-statement.
type SendStatementRequest struct {
	Account string `json:"account" validate:"required,max=64"`
	Email   string `json:"email" validate:"required,email"`
}

// StatementSentResponse confirmación de envío del estado de cuenta.
type StatementSentResponse struct {
	Message  string          `json:"message"`
	Email    string          `json:"email"`
	Category string          `json:"category"`
	Account  string          `json:"account"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
	Filename string          `json:"filename"`
	SentAt   time.Time       `json:"sent_at"`
}
