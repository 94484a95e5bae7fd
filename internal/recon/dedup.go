package recon

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dromero/quarryops-recon/internal/model"
)

// DuplicateGuard prevents two automatic sales for the same underlying event.
// Two sales are considered the same event when they share the client and the
// calendar day and their totals differ by less than epsilon.
type DuplicateGuard struct {
	sales   SaleStore
	epsilon decimal.Decimal
}

func NewDuplicateGuard(sales SaleStore, epsilon decimal.Decimal) *DuplicateGuard {
	return &DuplicateGuard{sales: sales, epsilon: epsilon}
}

// FindExisting returns the id of an already-persisted automatic sale matching
// the candidate, if any.
func (g *DuplicateGuard) FindExisting(ctx context.Context, client string, day time.Time, total decimal.Decimal) (uuid.UUID, bool, error) {
	automatic := true
	existing, err := g.sales.List(ctx, model.SaleFilter{
		Client:    client,
		Day:       day,
		Automatic: &automatic,
	})
	if err != nil {
		return uuid.Nil, false, err
	}

	for _, sale := range existing {
		if sale.Total.Sub(total).Abs().LessThan(g.epsilon) {
			return sale.ID, true, nil
		}
	}
	return uuid.Nil, false, nil
}
