package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TariffKind string

const (
	TariffKindMaterial TariffKind = "MATERIAL"
	TariffKindFreight  TariffKind = "FREIGHT"
)

// Tariff is immutable reference data owned by master data. The three tiers of
// the cascade are encoded by which selector fields are set: client-specific
// rows carry Client (and optionally SubLocation), route rows carry only
// Origin/Destination, base-price rows carry only Material.
type Tariff struct {
	ID          uuid.UUID
	Kind        TariffKind
	Client      string
	SubLocation string
	Origin      string
	Destination string
	Material    string
	Price       decimal.Decimal
}

type TariffQuery struct {
	Kind        TariffKind
	Client      string
	SubLocation string
	Origin      string
	Destination string
	Material    string
}
