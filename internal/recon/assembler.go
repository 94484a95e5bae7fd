package recon

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dromero/quarryops-recon/internal/model"
)

// Assembler turns an eligible report (or a complete operation) into a priced
// sale. Unpriced or empty lines are omitted, and a sale whose total comes out
// to zero is not created at all; both are policy, not failures.
type Assembler struct {
	tariffs         *TariffResolver
	defaultHourRate decimal.Decimal
	paymentTerms    string
}

func NewAssembler(tariffs *TariffResolver, defaultHourRate decimal.Decimal, paymentTerms string) *Assembler {
	return &Assembler{
		tariffs:         tariffs,
		defaultHourRate: defaultHourRate,
		paymentTerms:    paymentTerms,
	}
}

type AssembleInput struct {
	Report    model.Report
	Operation *model.CommercialOperation
	Client    *model.Client
	Class     model.SaleClass
}

// Build assembles the sale, or returns (nil, nil) when the event prices to
// zero.
func (a *Assembler) Build(ctx context.Context, in AssembleInput) (*model.Sale, error) {
	r := in.Report

	var items []model.LineItem
	var err error
	switch r.Type {
	case model.ReportTypeWorkedHours, model.ReportTypeOvertimeHours:
		items = a.hourItems(r)
	case model.ReportTypeDebrisReceipt:
		items = a.debrisItems(r)
	case model.ReportTypeTrips:
		items, err = a.tripItems(ctx, in)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: type %s is not billable", ErrInvalidReport, r.Type)
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal)
	}
	if len(items) == 0 || total.IsZero() {
		return nil, nil
	}

	saleID := uuid.New()
	for i := range items {
		items[i].ID = uuid.New()
		items[i].SaleID = saleID
	}

	sale := &model.Sale{
		ID:           saleID,
		Date:         r.Day(),
		Client:       r.Destination.Client,
		SubLocation:  r.Destination.SubLocation,
		Class:        in.Class,
		PaymentTerms: a.paymentTermsFor(in.Client),
		Note:         a.buildNote(in),
		Automatic:    true,
		Items:        items,
		Total:        total,
		CreatedAt:    time.Now().UTC(),
	}
	if r.Origin != nil {
		sale.Origin = r.Origin.Name
	}
	sale.Destination = r.Destination.SubLocation
	if sale.Destination == "" {
		sale.Destination = r.Destination.Client
	}
	return sale, nil
}

func (a *Assembler) hourItems(r model.Report) []model.LineItem {
	if r.Hours <= 0 {
		return nil
	}

	unitPrice := a.defaultHourRate
	if r.Value > 0 {
		unitPrice = decimal.NewFromFloat(r.Value).Div(decimal.NewFromFloat(r.Hours))
	}
	if !unitPrice.IsPositive() {
		return nil
	}

	description := "Horas trabajadas"
	if r.Type == model.ReportTypeOvertimeHours {
		description = "Horas extra"
	}
	if r.Machine.Name != "" {
		description = fmt.Sprintf("%s - %s", description, r.Machine.Name)
	}
	return []model.LineItem{lineItem(model.LineItemFreight, description, r.Hours, unitPrice)}
}

func (a *Assembler) debrisItems(r model.Report) []model.LineItem {
	if r.TripCount <= 0 || r.Value <= 0 {
		return nil
	}
	unitPrice := decimal.NewFromFloat(r.Value).Div(decimal.NewFromInt(int64(r.TripCount)))
	return []model.LineItem{lineItem(model.LineItemFreight, "Flete de ripio", float64(r.TripCount), unitPrice)}
}

func (a *Assembler) tripItems(ctx context.Context, in AssembleInput) ([]model.LineItem, error) {
	r := in.Report

	quantity := r.Quantity
	if quantity <= 0 && in.Operation != nil {
		quantity = in.Operation.Quantity
	}
	if quantity <= 0 {
		return nil, nil
	}

	query := model.TariffQuery{
		Client:      r.Destination.Client,
		SubLocation: r.Destination.SubLocation,
		Destination: r.Destination.Client,
		Material:    r.Material,
	}
	if r.Origin != nil {
		query.Origin = r.Origin.Name
	}

	var items []model.LineItem
	if in.Class == model.SaleClassMaterial || in.Class == model.SaleClassMaterialFreight {
		query.Kind = model.TariffKindMaterial
		price, found, err := a.tariffs.ResolvePrice(ctx, query)
		if err != nil {
			return nil, err
		}
		if found {
			items = append(items, lineItem(model.LineItemMaterial, r.Material, quantity, price))
		}
	}
	if in.Class == model.SaleClassFreight || in.Class == model.SaleClassMaterialFreight {
		query.Kind = model.TariffKindFreight
		price, found, err := a.tariffs.ResolvePrice(ctx, query)
		if err != nil {
			return nil, err
		}
		if found {
			description := "Flete"
			if r.Material != "" {
				description = fmt.Sprintf("Flete %s", r.Material)
			}
			items = append(items, lineItem(model.LineItemFreight, description, quantity, price))
		}
	}
	return items, nil
}

func (a *Assembler) paymentTermsFor(client *model.Client) string {
	if client != nil && client.PaymentTerms != "" {
		return client.PaymentTerms
	}
	return a.paymentTerms
}

func (a *Assembler) buildNote(in AssembleInput) string {
	if in.Operation != nil {
		return fmt.Sprintf("Generado automáticamente - operación %s", in.Operation.ID)
	}
	return fmt.Sprintf("Generado automáticamente - reporte %s", in.Report.ID)
}

func lineItem(kind model.LineItemKind, description string, quantity float64, unitPrice decimal.Decimal) model.LineItem {
	return model.LineItem{
		Kind:        kind,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    unitPrice.Mul(decimal.NewFromFloat(quantity)).Round(2),
	}
}
