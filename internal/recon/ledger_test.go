package recon

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dromero/quarryops-recon/internal/model"
)

func TestLedgerEntryRecomputesAverageCost(t *testing.T) {
	store := newFakeLedgerStore()
	ledger := NewLedger(store)
	ctx := context.Background()

	if _, err := ledger.ApplyEntry(ctx, MovementInput{
		Material: "Ripio",
		Quantity: 100,
		UnitCost: decimal.NewFromInt(50),
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := ledger.ApplyEntry(ctx, MovementInput{
		Material: "Ripio",
		Quantity: 100,
		UnitCost: decimal.NewFromInt(70),
	}); err != nil {
		t.Fatal(err)
	}

	state, err := ledger.State(ctx, "Ripio")
	if err != nil {
		t.Fatal(err)
	}
	if state.Quantity != 200 {
		t.Errorf("quantity = %.3f, want 200", state.Quantity)
	}
	if !state.AvgUnitCost.Equal(decimal.NewFromInt(60)) {
		t.Errorf("avg cost = %s, want 60", state.AvgUnitCost)
	}
}

func TestLedgerEntryWithoutCostKeepsAverage(t *testing.T) {
	store := newFakeLedgerStore()
	ledger := NewLedger(store)
	ctx := context.Background()

	if _, err := ledger.ApplyEntry(ctx, MovementInput{
		Material: "Arena",
		Quantity: 50,
		UnitCost: decimal.NewFromInt(80),
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := ledger.ApplyEntry(ctx, MovementInput{
		Material: "Arena",
		Quantity: 25,
	}); err != nil {
		t.Fatal(err)
	}

	state, _ := ledger.State(ctx, "Arena")
	if state.Quantity != 75 {
		t.Errorf("quantity = %.3f, want 75", state.Quantity)
	}
	if !state.AvgUnitCost.Equal(decimal.NewFromInt(80)) {
		t.Errorf("avg cost = %s, want 80 unchanged", state.AvgUnitCost)
	}
}

func TestLedgerExitRejectsOverdraw(t *testing.T) {
	store := newFakeLedgerStore()
	ledger := NewLedger(store)
	ctx := context.Background()

	if _, err := ledger.ApplyEntry(ctx, MovementInput{Material: "Arena", Quantity: 30}); err != nil {
		t.Fatal(err)
	}

	_, err := ledger.ApplyExit(ctx, MovementInput{Material: "Arena", Quantity: 45})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	// The rejected exit must leave both the balance and the audit log alone.
	state, _ := ledger.State(ctx, "Arena")
	if state.Quantity != 30 {
		t.Errorf("quantity = %.3f, want 30 untouched", state.Quantity)
	}
	movements, _ := ledger.Movements(ctx, "Arena")
	if len(movements) != 1 {
		t.Errorf("movements = %d, want only the original entry", len(movements))
	}
}

func TestLedgerExitUnknownMaterial(t *testing.T) {
	ledger := NewLedger(newFakeLedgerStore())

	_, err := ledger.ApplyExit(context.Background(), MovementInput{Material: "Granito", Quantity: 1})
	if !errors.Is(err, ErrUnknownMaterial) {
		t.Fatalf("err = %v, want ErrUnknownMaterial", err)
	}
}

func TestLedgerRejectsNonPositiveQuantities(t *testing.T) {
	ledger := NewLedger(newFakeLedgerStore())
	ctx := context.Background()

	if _, err := ledger.ApplyEntry(ctx, MovementInput{Material: "Arena", Quantity: 0}); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("entry err = %v, want ErrInvalidQuantity", err)
	}
	if _, err := ledger.ApplyExit(ctx, MovementInput{Material: "Arena", Quantity: -3}); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("exit err = %v, want ErrInvalidQuantity", err)
	}
}

func TestLedgerMovementRecordsBracketBalances(t *testing.T) {
	store := newFakeLedgerStore()
	ledger := NewLedger(store)
	ctx := context.Background()
	reportID := uuid.New()

	if _, err := ledger.ApplyEntry(ctx, MovementInput{
		Material:    "Ripio",
		Quantity:    40,
		UnitCost:    decimal.NewFromInt(10),
		Counterpart: "Demolición Centro",
		ReportID:    reportID,
		Actor:       "jperez",
	}); err != nil {
		t.Fatal(err)
	}
	record, err := ledger.ApplyExit(ctx, MovementInput{
		Material:    "Ripio",
		Quantity:    15,
		Counterpart: "Constructora Sur",
		ReportID:    reportID,
	})
	if err != nil {
		t.Fatal(err)
	}

	if record.Direction != model.MovementExit {
		t.Errorf("direction = %s, want EXIT", record.Direction)
	}
	if record.QuantityBefore != 40 || record.QuantityAfter != 25 {
		t.Errorf("balances = %.3f -> %.3f, want 40 -> 25", record.QuantityBefore, record.QuantityAfter)
	}
	if !record.UnitCost.Equal(decimal.NewFromInt(10)) {
		t.Errorf("exit unit cost = %s, want the running average 10", record.UnitCost)
	}
	if record.ReportID != reportID {
		t.Error("movement must carry the originating report id")
	}
}

func TestLedgerApplied(t *testing.T) {
	store := newFakeLedgerStore()
	ledger := NewLedger(store)
	ctx := context.Background()
	reportID := uuid.New()

	if _, err := ledger.ApplyEntry(ctx, MovementInput{Material: "Arena", Quantity: 50}); err != nil {
		t.Fatal(err)
	}
	if _, err := ledger.ApplyExit(ctx, MovementInput{Material: "Arena", Quantity: 20, ReportID: reportID}); err != nil {
		t.Fatal(err)
	}

	applied, err := ledger.Applied(ctx, reportID, "Arena", model.MovementExit)
	if err != nil {
		t.Fatal(err)
	}
	if !applied {
		t.Fatal("exit must count as applied")
	}

	// A compensating entry under the same report id cancels it out.
	if _, err := ledger.ApplyEntry(ctx, MovementInput{Material: "Arena", Quantity: 20, ReportID: reportID}); err != nil {
		t.Fatal(err)
	}
	applied, err = ledger.Applied(ctx, reportID, "Arena", model.MovementExit)
	if err != nil {
		t.Fatal(err)
	}
	if applied {
		t.Fatal("reversed exit must not count as applied")
	}

	applied, err = ledger.Applied(ctx, uuid.New(), "Arena", model.MovementExit)
	if err != nil {
		t.Fatal(err)
	}
	if applied {
		t.Fatal("unrelated report must have no applied movement")
	}
}

func TestLedgerValidate(t *testing.T) {
	store := newFakeLedgerStore()
	ledger := NewLedger(store)
	ctx := context.Background()

	if _, err := ledger.ApplyEntry(ctx, MovementInput{Material: "Arena", Quantity: 20}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		material  string
		quantity  float64
		direction model.MovementDirection
		wantErr   error
	}{
		{name: "entry never needs stock", material: "Granito", quantity: 5, direction: model.MovementEntry},
		{name: "covered exit passes", material: "Arena", quantity: 20, direction: model.MovementExit},
		{name: "overdrawn exit fails", material: "Arena", quantity: 21, direction: model.MovementExit, wantErr: ErrInsufficientStock},
		{name: "unknown material fails", material: "Granito", quantity: 1, direction: model.MovementExit, wantErr: ErrUnknownMaterial},
		{name: "zero quantity fails", material: "Arena", quantity: 0, direction: model.MovementExit, wantErr: ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ledger.Validate(ctx, tt.material, tt.quantity, tt.direction)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
