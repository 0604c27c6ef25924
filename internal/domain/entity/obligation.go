package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category clase de obligación.
type Category string

const (
	CategoryFine       Category = "FINE"       // Multa de tránsito (cuenta = placa)
	CategoryAssessment Category = "ASSESSMENT" // Impuesto predial (cuenta = domicilio)
)

// Valid reporta si la categoría es conocida.
func (c Category) Valid() bool {
	return c == CategoryFine || c == CategoryAssessment
}

// Status estado de la obligación. Única transición: PENDING → SETTLED.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSettled Status = "SETTLED"
)

// AccountRef clave de agrupación: placa del vehículo o id del domicilio, dentro de su categoría.
type AccountRef struct {
	Category Category
	Key      string
}

func (a AccountRef) String() string {
	return string(a.Category) + ":" + a.Key
}

// Obligation adeudo individual (multa o predial).
// Amount es inmutable; SettledAt y SettledOnTime se fijan una sola vez, al pagar.
type Obligation struct {
	ID            int64
	Account       string
	Category      Category
	Concept       string // Tipo de multa; vacío en prediales
	Address       string
	Amount        decimal.Decimal
	IssuedAt      time.Time
	DueAt         time.Time // Fecha límite (solo importa el día)
	Status        Status
	SettledAt     *time.Time
	SettledOnTime *bool
}

// IsSettled reporta si la obligación ya fue pagada.
func (o *Obligation) IsSettled() bool {
	return o.Status == StatusSettled
}

// AccountRef devuelve la cuenta a la que pertenece la obligación.
func (o *Obligation) AccountRef() AccountRef {
	return AccountRef{Category: o.Category, Key: o.Account}
}

// Receipt comprobante de un pago individual.
type Receipt struct {
	ObligationID  int64
	SettledAt     time.Time
	SettledOnTime bool
}

// BatchResult lo que realmente cambió de estado en un pago total.
type BatchResult struct {
	SettledIDs []int64
	Total      decimal.Decimal
}

// BatchReceipt comprobante de un pago total por cuenta.
// CountSettled/TotalPaid reflejan solo las obligaciones que esta petición pagó.
type BatchReceipt struct {
	Account       AccountRef
	CountSettled  int
	TotalPaid     decimal.Decimal
	SettledAt     time.Time
	ObligationIDs []int64
}
