package recon

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dromero/quarryops-recon/internal/model"
)

// TariffResolver prices one unit of material or freight through the tariff
// cascade: client-specific rate, then generic route rate, then material base
// price. Precedence is applied here, in memory, so it never depends on the
// ordering of rows in the underlying store.
type TariffResolver struct {
	master MasterData
}

func NewTariffResolver(master MasterData) *TariffResolver {
	return &TariffResolver{master: master}
}

// ResolvePrice returns the best-matching unit price and whether any tariff
// matched. A miss is a normal outcome: callers omit the line item rather than
// pricing it at zero.
func (t *TariffResolver) ResolvePrice(ctx context.Context, q model.TariffQuery) (decimal.Decimal, bool, error) {
	tariffs, err := t.master.GetTariffs(ctx, q)
	if err != nil {
		return decimal.Zero, false, err
	}

	if price, ok := bestClientTariff(tariffs, q); ok {
		return price, true, nil
	}
	for _, tf := range tariffs {
		if tf.Kind != q.Kind || tf.Client != "" {
			continue
		}
		if tf.Origin != "" && tf.Origin == q.Origin && tf.Destination == q.Destination {
			return tf.Price, true, nil
		}
	}
	for _, tf := range tariffs {
		if tf.Kind != q.Kind || tf.Client != "" || tf.Origin != "" || tf.Destination != "" {
			continue
		}
		if tf.Material != "" && tf.Material == q.Material {
			return tf.Price, true, nil
		}
	}
	return decimal.Zero, false, nil
}

// bestClientTariff picks the most specific client tariff: a row pinned to the
// exact sub-location wins over a client-wide one.
func bestClientTariff(tariffs []model.Tariff, q model.TariffQuery) (decimal.Decimal, bool) {
	var clientWide *model.Tariff
	for i := range tariffs {
		tf := tariffs[i]
		if tf.Kind != q.Kind || tf.Client == "" || tf.Client != q.Client {
			continue
		}
		if tf.Origin != "" && tf.Origin != q.Origin {
			continue
		}
		if tf.Destination != "" && tf.Destination != q.Destination {
			continue
		}
		if tf.Material != "" && tf.Material != q.Material {
			continue
		}
		if tf.SubLocation != "" {
			if tf.SubLocation == q.SubLocation {
				return tf.Price, true
			}
			continue
		}
		if clientWide == nil {
			clientWide = &tariffs[i]
		}
	}
	if clientWide != nil {
		return clientWide.Price, true
	}
	return decimal.Zero, false
}
