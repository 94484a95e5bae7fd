package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SaleClass string

const (
	SaleClassMaterial        SaleClass = "MATERIAL"
	SaleClassFreight         SaleClass = "FREIGHT"
	SaleClassMaterialFreight SaleClass = "MATERIAL_FREIGHT"
)

type LineItemKind string

const (
	LineItemMaterial LineItemKind = "MATERIAL"
	LineItemFreight  LineItemKind = "FREIGHT"
)

type LineItem struct {
	ID          uuid.UUID
	SaleID      uuid.UUID
	Kind        LineItemKind
	Description string
	Quantity    float64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// Sale is a commercial transaction assembled from one eligible Report or one
// complete CommercialOperation. Created once, never mutated by the engine.
type Sale struct {
	ID           uuid.UUID
	Date         time.Time
	Client       string
	SubLocation  string
	Class        SaleClass
	Origin       string
	Destination  string
	PaymentTerms string
	Note         string
	Automatic    bool
	Items        []LineItem
	Total        decimal.Decimal
	CreatedAt    time.Time
}

// SaleFilter narrows SaleStore.List; zero values mean "any".
type SaleFilter struct {
	Client    string
	Day       time.Time
	Automatic *bool
	From      time.Time
	To        time.Time
}
