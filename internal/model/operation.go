package model

import (
	"time"

	"github.com/google/uuid"
)

// OperationKey identifies one physical delivery: all reports for the same
// day, client and material describe the same commercial operation.
type OperationKey struct {
	Day      time.Time
	Client   string
	Material string
}

// CommercialOperation correlates the reports that jointly describe one
// delivery (typically a loader leg plus a truck leg). Append-only: created on
// the first matching report, never deleted.
type CommercialOperation struct {
	ID            uuid.UUID
	Day           time.Time
	Client        string
	Material      string
	ReportIDs     []uuid.UUID
	Quantity      float64
	Complete      bool
	SaleGenerated bool
	SaleID        *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (o CommercialOperation) Key() OperationKey {
	return OperationKey{Day: o.Day, Client: o.Client, Material: o.Material}
}

func (o CommercialOperation) HasReport(id uuid.UUID) bool {
	for _, rid := range o.ReportIDs {
		if rid == id {
			return true
		}
	}
	return false
}
