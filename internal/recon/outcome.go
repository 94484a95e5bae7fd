package recon

import (
	"github.com/google/uuid"

	"github.com/dromero/quarryops-recon/internal/model"
)

type OutcomeStatus string

const (
	OutcomeCreated      OutcomeStatus = "CREATED"
	OutcomeDeduplicated OutcomeStatus = "DEDUPLICATED"
	OutcomeDeferred     OutcomeStatus = "DEFERRED"
	OutcomeSkipped      OutcomeStatus = "SKIPPED"
	OutcomeFailed       OutcomeStatus = "FAILED"
)

// Outcome is the single caller-visible result of processing one report.
// Internal failures never escape the engine except through Err.
type Outcome struct {
	Status      OutcomeStatus
	Sale        *model.Sale
	SaleID      uuid.UUID
	OperationID uuid.UUID
	Reason      string
	Err         error
}

func created(sale *model.Sale, opID uuid.UUID) Outcome {
	return Outcome{Status: OutcomeCreated, Sale: sale, SaleID: sale.ID, OperationID: opID}
}

func deduplicated(saleID, opID uuid.UUID) Outcome {
	return Outcome{Status: OutcomeDeduplicated, SaleID: saleID, OperationID: opID}
}

func deferred(opID uuid.UUID) Outcome {
	return Outcome{Status: OutcomeDeferred, OperationID: opID}
}

func skipped(reason string) Outcome {
	return Outcome{Status: OutcomeSkipped, Reason: reason}
}

func failed(err error) Outcome {
	return Outcome{Status: OutcomeFailed, Err: err}
}
