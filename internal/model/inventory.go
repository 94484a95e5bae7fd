package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryMaterial is one row of the shared stockpile: available quantity
// (never negative) and weighted-average unit cost. Mutated only through
// movements applied by the ledger.
type InventoryMaterial struct {
	Name        string
	Quantity    float64
	AvgUnitCost decimal.Decimal
	UpdatedAt   time.Time
}

type MovementDirection string

const (
	MovementEntry MovementDirection = "ENTRY"
	MovementExit  MovementDirection = "EXIT"
)

// MovementRecord is an append-only ledger entry, never mutated after creation.
type MovementRecord struct {
	ID             uuid.UUID
	OccurredAt     time.Time
	Direction      MovementDirection
	Material       string
	Quantity       float64
	QuantityBefore float64
	QuantityAfter  float64
	UnitCost       decimal.Decimal
	Counterpart    string
	ReportID       uuid.UUID
	Actor          string
}
