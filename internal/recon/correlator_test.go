package recon

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dromero/quarryops-recon/internal/model"
)

func legReport(quantity float64) model.Report {
	return model.Report{
		ID:          uuid.New(),
		Type:        model.ReportTypeTrips,
		ReportedAt:  time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		Origin:      &model.Location{Name: "Acopio", Stockpile: true},
		Destination: &model.Destination{Client: "Constructora Sur"},
		Material:    "Arena",
		Quantity:    quantity,
		TripCount:   1,
	}
}

func TestCorrelatorCreatesOperationOnFirstLeg(t *testing.T) {
	correlator := NewCorrelator(newFakeOperationStore())
	ctx := context.Background()
	report := legReport(12)

	op, attached, err := correlator.Register(ctx, report)
	if err != nil {
		t.Fatal(err)
	}
	if !attached {
		t.Fatal("first leg must attach")
	}
	if op.Complete {
		t.Error("single-leg operation must not be complete")
	}
	if op.Quantity != 12 {
		t.Errorf("quantity = %.3f, want 12", op.Quantity)
	}
	if !op.Day.Equal(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("day = %s, want the calendar day", op.Day)
	}
}

func TestCorrelatorCompletesOnSecondLeg(t *testing.T) {
	correlator := NewCorrelator(newFakeOperationStore())
	ctx := context.Background()

	first, _, err := correlator.Register(ctx, legReport(12))
	if err != nil {
		t.Fatal(err)
	}
	second, attached, err := correlator.Register(ctx, legReport(14))
	if err != nil {
		t.Fatal(err)
	}

	if !attached {
		t.Fatal("second leg must attach")
	}
	if second.ID != first.ID {
		t.Fatal("both legs must land on the same operation")
	}
	if !second.Complete {
		t.Error("operation must be complete with two legs")
	}
	if second.Quantity != 14 {
		t.Errorf("quantity = %.3f, want the larger leg 14", second.Quantity)
	}
	if len(second.ReportIDs) != 2 {
		t.Errorf("report ids = %d, want 2", len(second.ReportIDs))
	}
}

func TestCorrelatorReRegisterIsNoOp(t *testing.T) {
	store := newFakeOperationStore()
	correlator := NewCorrelator(store)
	ctx := context.Background()
	report := legReport(12)

	if _, _, err := correlator.Register(ctx, report); err != nil {
		t.Fatal(err)
	}
	op, attached, err := correlator.Register(ctx, report)
	if err != nil {
		t.Fatal(err)
	}

	if attached {
		t.Error("re-registering the same report must not attach again")
	}
	if len(op.ReportIDs) != 1 {
		t.Errorf("report ids = %d, want 1", len(op.ReportIDs))
	}
	if op.Complete {
		t.Error("a repeated leg must not complete the operation")
	}
}

func TestCorrelatorKeysByDayClientMaterial(t *testing.T) {
	correlator := NewCorrelator(newFakeOperationStore())
	ctx := context.Background()

	base := legReport(10)
	otherDay := legReport(10)
	otherDay.ReportedAt = base.ReportedAt.Add(24 * time.Hour)
	otherClient := legReport(10)
	otherClient.Destination = &model.Destination{Client: "Vial del Norte"}
	otherMaterial := legReport(10)
	otherMaterial.Material = "Ripio"

	ids := make(map[uuid.UUID]bool)
	for _, report := range []model.Report{base, otherDay, otherClient, otherMaterial} {
		op, _, err := correlator.Register(ctx, report)
		if err != nil {
			t.Fatal(err)
		}
		ids[op.ID] = true
	}
	if len(ids) != 4 {
		t.Fatalf("distinct operations = %d, want 4", len(ids))
	}
}

func TestCorrelatorStaysCompleteAfterExtraLegs(t *testing.T) {
	correlator := NewCorrelator(newFakeOperationStore())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, _, err := correlator.Register(ctx, legReport(10)); err != nil {
			t.Fatal(err)
		}
	}
	op, _, err := correlator.Register(ctx, legReport(9))
	if err != nil {
		t.Fatal(err)
	}

	if !op.Complete {
		t.Error("operation must stay complete once completed")
	}
	if op.Quantity != 10 {
		t.Errorf("quantity = %.3f, want 10 kept over the smaller leg", op.Quantity)
	}
	if len(op.ReportIDs) != 3 {
		t.Errorf("report ids = %d, want 3", len(op.ReportIDs))
	}
}

func TestCorrelatorMarkSaleGenerated(t *testing.T) {
	store := newFakeOperationStore()
	correlator := NewCorrelator(store)
	ctx := context.Background()

	op, _, err := correlator.Register(ctx, legReport(10))
	if err != nil {
		t.Fatal(err)
	}
	saleID := uuid.New()
	if err := correlator.MarkSaleGenerated(ctx, op.ID, saleID); err != nil {
		t.Fatal(err)
	}

	stored, err := correlator.GetOperation(ctx, op.Key())
	if err != nil {
		t.Fatal(err)
	}
	if !stored.SaleGenerated {
		t.Error("operation must be flagged as billed")
	}
	if stored.SaleID == nil || *stored.SaleID != saleID {
		t.Error("operation must reference the covering sale")
	}
}
