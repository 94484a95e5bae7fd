package recon

import (
	"github.com/dromero/quarryops-recon/internal/model"
)

type Action string

const (
	ActionSkip             Action = "SKIP"
	ActionGenerateNow      Action = "GENERATE_NOW"
	ActionAwaitCorrelation Action = "AWAIT_CORRELATION"
)

type StockEffect string

const (
	StockNone  StockEffect = ""
	StockEntry StockEffect = "ENTRY"
	StockExit  StockEffect = "EXIT"
)

// Decision is the full eligibility verdict for one report: whether to bill,
// how the sale is classified, whether the report moves stock, and whether it
// must be registered with the correlator.
type Decision struct {
	Action    Action
	Class     model.SaleClass
	Stock     StockEffect
	Correlate bool
	Reason    string
}

// ClassifyInput is a report with its boundary lookups already resolved:
// machine category from master data and client existence for the billing
// destination. Classify itself performs no I/O.
type ClassifyInput struct {
	Report      model.Report
	Category    model.MachineCategory
	ClientKnown bool
}

// Classify decides how a report enters the reconciliation flow. The rules are
// evaluated in order; the default for unlisted report types is Skip.
func Classify(in ClassifyInput) Decision {
	r := in.Report

	switch r.Type {
	case model.ReportTypeWorkedHours, model.ReportTypeOvertimeHours:
		if !r.HasDestinationClient() || !in.ClientKnown {
			return Decision{Action: ActionSkip, Reason: "hours report without a known work site"}
		}
		return Decision{Action: ActionGenerateNow, Class: model.SaleClassFreight}

	case model.ReportTypeDebrisReceipt:
		if !r.HasDestinationClient() {
			return Decision{Action: ActionSkip, Reason: "debris receipt without a billable client"}
		}
		return Decision{Action: ActionGenerateNow, Class: model.SaleClassFreight, Stock: StockEntry}

	case model.ReportTypeTrips:
		if !r.HasDestinationClient() {
			return Decision{Action: ActionSkip, Reason: "trips report without a destination"}
		}
		switch in.Category {
		case model.MachineCategoryLoader:
			// Loaders always bill. Stockpile legs still register with the
			// correlator so the paired truck leg is not billed twice.
			return Decision{
				Action:    ActionGenerateNow,
				Class:     model.SaleClassMaterialFreight,
				Correlate: r.OriginIsStockpile(),
			}
		case model.MachineCategoryTruck:
			if r.OriginIsStockpile() {
				return Decision{
					Action:    ActionAwaitCorrelation,
					Class:     model.SaleClassMaterialFreight,
					Stock:     StockExit,
					Correlate: true,
				}
			}
			// Direct haul from an external source: material was already sold
			// by the supplying party, only the freight is ours.
			return Decision{Action: ActionGenerateNow, Class: model.SaleClassFreight}
		default:
			return Decision{Action: ActionGenerateNow, Class: model.SaleClassMaterialFreight}
		}

	default:
		return Decision{Action: ActionSkip, Reason: "report type is not billable"}
	}
}
