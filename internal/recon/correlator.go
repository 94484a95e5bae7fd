package recon

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dromero/quarryops-recon/internal/model"
)

// Correlator groups the reports that describe one physical delivery into a
// commercial operation keyed by (day, client, material). The registry is
// append-only: operations are created on first sight and never deleted.
type Correlator struct {
	store OperationStore
}

func NewCorrelator(store OperationStore) *Correlator {
	return &Correlator{store: store}
}

// Register attaches a report to its operation, creating the operation on the
// first matching report. Re-registering the same report id is a no-op, and
// the second return value reports whether the report was newly attached. An
// operation becomes complete exactly when its second distinct report arrives
// and stays complete afterward.
func (c *Correlator) Register(ctx context.Context, report model.Report) (*model.CommercialOperation, bool, error) {
	key := model.OperationKey{
		Day:      report.Day(),
		Client:   report.Destination.Client,
		Material: report.Material,
	}

	op, err := c.store.GetByKey(ctx, key)
	if err != nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	if op == nil {
		op = &model.CommercialOperation{
			ID:        uuid.New(),
			Day:       key.Day,
			Client:    key.Client,
			Material:  key.Material,
			ReportIDs: []uuid.UUID{report.ID},
			Quantity:  report.Quantity,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := c.store.Create(ctx, op); err != nil {
			return nil, false, err
		}
		return op, true, nil
	}

	if op.HasReport(report.ID) {
		return op, false, nil
	}

	op.ReportIDs = append(op.ReportIDs, report.ID)
	if report.Quantity > op.Quantity {
		// Both legs describe the same load; keep the larger reported figure.
		op.Quantity = report.Quantity
	}
	if len(op.ReportIDs) >= 2 {
		op.Complete = true
	}
	op.UpdatedAt = now

	if err := c.store.Update(ctx, op); err != nil {
		return nil, false, err
	}
	return op, true, nil
}

// MarkSaleGenerated records that a durably persisted sale covers this
// operation. Called only after the sale write succeeded.
func (c *Correlator) MarkSaleGenerated(ctx context.Context, opID, saleID uuid.UUID) error {
	return c.store.MarkSaleGenerated(ctx, opID, saleID)
}

// GetOperation is the read-only introspection hook for the dashboard.
func (c *Correlator) GetOperation(ctx context.Context, key model.OperationKey) (*model.CommercialOperation, error) {
	return c.store.GetByKey(ctx, key)
}
