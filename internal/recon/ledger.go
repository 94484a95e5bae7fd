package recon

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dromero/quarryops-recon/internal/model"
)

// Ledger owns the shared stockpile: available quantity per material and its
// weighted-average unit cost. All mutation goes through ApplyEntry/ApplyExit,
// each of which appends one immutable movement record.
type Ledger struct {
	store LedgerStore
}

func NewLedger(store LedgerStore) *Ledger {
	return &Ledger{store: store}
}

// MovementInput carries the audit fields every movement records.
type MovementInput struct {
	Material    string
	Quantity    float64
	UnitCost    decimal.Decimal
	Counterpart string
	ReportID    uuid.UUID
	Actor       string
}

// ApplyEntry adds stock, creating the material row if absent. A positive unit
// cost re-weights the average cost; a zero one leaves it unchanged.
func (l *Ledger) ApplyEntry(ctx context.Context, in MovementInput) (*model.MovementRecord, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: entry of %.3f %s", ErrInvalidQuantity, in.Quantity, in.Material)
	}

	material, err := l.store.GetMaterial(ctx, in.Material)
	if err != nil {
		return nil, err
	}
	if material == nil {
		material = &model.InventoryMaterial{Name: in.Material, AvgUnitCost: decimal.Zero}
	}

	before := material.Quantity
	after := before + in.Quantity

	if in.UnitCost.IsPositive() {
		oldValue := decimal.NewFromFloat(before).Mul(material.AvgUnitCost)
		newValue := decimal.NewFromFloat(in.Quantity).Mul(in.UnitCost)
		material.AvgUnitCost = oldValue.Add(newValue).Div(decimal.NewFromFloat(after))
	}
	material.Quantity = after
	material.UpdatedAt = time.Now().UTC()

	if err := l.store.Upsert(ctx, material); err != nil {
		return nil, err
	}

	record := &model.MovementRecord{
		ID:             uuid.New(),
		OccurredAt:     material.UpdatedAt,
		Direction:      model.MovementEntry,
		Material:       in.Material,
		Quantity:       in.Quantity,
		QuantityBefore: before,
		QuantityAfter:  after,
		UnitCost:       in.UnitCost,
		Counterpart:    in.Counterpart,
		ReportID:       in.ReportID,
		Actor:          in.Actor,
	}
	if err := l.store.AppendMovement(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// ApplyExit removes stock. Exits beyond availability are rejected outright,
// never clamped; the residue clamp below only absorbs float fuzz.
func (l *Ledger) ApplyExit(ctx context.Context, in MovementInput) (*model.MovementRecord, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: exit of %.3f %s", ErrInvalidQuantity, in.Quantity, in.Material)
	}

	material, err := l.store.GetMaterial(ctx, in.Material)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMaterial, in.Material)
	}
	if in.Quantity > material.Quantity {
		return nil, fmt.Errorf("%w: %s has %.3f, exit of %.3f requested",
			ErrInsufficientStock, in.Material, material.Quantity, in.Quantity)
	}

	before := material.Quantity
	after := before - in.Quantity
	if after < 0 {
		after = 0
	}
	material.Quantity = after
	material.UpdatedAt = time.Now().UTC()

	if err := l.store.Upsert(ctx, material); err != nil {
		return nil, err
	}

	record := &model.MovementRecord{
		ID:             uuid.New(),
		OccurredAt:     material.UpdatedAt,
		Direction:      model.MovementExit,
		Material:       in.Material,
		Quantity:       in.Quantity,
		QuantityBefore: before,
		QuantityAfter:  after,
		UnitCost:       material.AvgUnitCost,
		Counterpart:    in.Counterpart,
		ReportID:       in.ReportID,
		Actor:          in.Actor,
	}
	if err := l.store.AppendMovement(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Applied reports whether a movement in the given direction, attributed to
// the report, is still in effect. A movement followed by its compensating
// reversal nets out to false, so a retried report re-applies it.
func (l *Ledger) Applied(ctx context.Context, reportID uuid.UUID, materialName string, direction model.MovementDirection) (bool, error) {
	movements, err := l.store.ListMovements(ctx, materialName)
	if err != nil {
		return false, err
	}
	net := 0
	for _, m := range movements {
		if m.ReportID != reportID {
			continue
		}
		if m.Direction == direction {
			net++
		} else {
			net--
		}
	}
	return net > 0, nil
}

// Validate is the read-only precheck the orchestrator runs before committing
// to a sale, so a doomed ledger update aborts the reconciliation up front.
func (l *Ledger) Validate(ctx context.Context, materialName string, quantity float64, direction model.MovementDirection) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: %.3f %s", ErrInvalidQuantity, quantity, materialName)
	}
	if direction == model.MovementEntry {
		return nil
	}

	material, err := l.store.GetMaterial(ctx, materialName)
	if err != nil {
		return err
	}
	if material == nil {
		return fmt.Errorf("%w: %s", ErrUnknownMaterial, materialName)
	}
	if quantity > material.Quantity {
		return fmt.Errorf("%w: %s has %.3f, exit of %.3f requested",
			ErrInsufficientStock, materialName, material.Quantity, quantity)
	}
	return nil
}

// State returns the current stockpile row for diagnostics.
func (l *Ledger) State(ctx context.Context, materialName string) (*model.InventoryMaterial, error) {
	return l.store.GetMaterial(ctx, materialName)
}

// Movements returns the audit log for one material.
func (l *Ledger) Movements(ctx context.Context, materialName string) ([]model.MovementRecord, error) {
	return l.store.ListMovements(ctx, materialName)
}
