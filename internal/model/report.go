package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ReportType string

const (
	ReportTypeWorkedHours   ReportType = "WORKED_HOURS"
	ReportTypeOvertimeHours ReportType = "OVERTIME_HOURS"
	ReportTypeTrips         ReportType = "TRIPS"
	ReportTypeFuel          ReportType = "FUEL"
	ReportTypeMaintenance   ReportType = "MAINTENANCE"
	ReportTypeDebrisReceipt ReportType = "DEBRIS_RECEIPT"
)

type MachineCategory string

const (
	MachineCategoryLoader    MachineCategory = "LOADER"
	MachineCategoryTruck     MachineCategory = "TRUCK"
	MachineCategoryExcavator MachineCategory = "EXCAVATOR"
	MachineCategoryOther     MachineCategory = "OTHER"
	MachineCategoryUnknown   MachineCategory = ""
)

type Machine struct {
	ID       uuid.UUID
	Name     string
	Category MachineCategory
}

// Location is an origin or destination point. Stockpile is resolved once at
// the boundary from configuration, never re-derived from the name downstream.
type Location struct {
	Name      string
	Stockpile bool
}

// Destination identifies who the event is billed to.
type Destination struct {
	Client      string
	SubLocation string
}

// Report is an operational event owned by the reporting subsystem; the engine
// only reads it. Fields are populated per Type and Validate enforces the
// per-type shape.
type Report struct {
	ID          uuid.UUID
	Type        ReportType
	Machine     Machine
	Worker      string
	ReportedAt  time.Time
	Origin      *Location
	Destination *Destination
	Material    string
	Quantity    float64
	TripCount   int
	Hours       float64
	Value       float64
	Note        string
}

func (r Report) Validate() error {
	if r.ID == uuid.Nil {
		return fmt.Errorf("report id is required")
	}
	if r.ReportedAt.IsZero() {
		return fmt.Errorf("report timestamp is required")
	}
	switch r.Type {
	case ReportTypeWorkedHours, ReportTypeOvertimeHours:
		if r.Hours <= 0 {
			return fmt.Errorf("%s report requires hours > 0", r.Type)
		}
	case ReportTypeTrips:
		if r.TripCount <= 0 {
			return fmt.Errorf("trips report requires trip count > 0")
		}
	case ReportTypeDebrisReceipt:
		if r.TripCount <= 0 {
			return fmt.Errorf("debris receipt requires unit count > 0")
		}
	case ReportTypeFuel, ReportTypeMaintenance:
		// Accepted but never billed.
	default:
		return fmt.Errorf("unknown report type %q", r.Type)
	}
	return nil
}

// Day truncates the report timestamp to its calendar day in UTC.
func (r Report) Day() time.Time {
	y, m, d := r.ReportedAt.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (r Report) HasDestinationClient() bool {
	return r.Destination != nil && r.Destination.Client != ""
}

func (r Report) OriginIsStockpile() bool {
	return r.Origin != nil && r.Origin.Stockpile
}
