package recon

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dromero/quarryops-recon/internal/metrics"
	"github.com/dromero/quarryops-recon/internal/model"
)

// Config carries the engine's tunables, loaded from the service configuration.
type Config struct {
	StockpileNames  []string
	DefaultHourRate decimal.Decimal
	DedupEpsilon    decimal.Decimal
	PaymentTerms    string
}

// Engine is the reconciliation orchestrator: it drives a report through
// eligibility, correlation, the stockpile ledger, sale assembly and the
// duplicate guard, and translates every internal failure into an Outcome.
//
// Process runs under a single mutex: the validate-then-apply window on the
// ledger, the operation registry and the duplicate-guard query must not
// interleave across concurrent submissions.
type Engine struct {
	mu         sync.Mutex
	master     MasterData
	sales      SaleStore
	ledger     *Ledger
	correlator *Correlator
	assembler  *Assembler
	guard      *DuplicateGuard
	stockpiles map[string]struct{}
	log        zerolog.Logger
	metrics    *metrics.Recorder
}

func NewEngine(
	master MasterData,
	sales SaleStore,
	ledgerStore LedgerStore,
	operations OperationStore,
	cfg Config,
	log zerolog.Logger,
	recorder *metrics.Recorder,
) *Engine {
	stockpiles := make(map[string]struct{}, len(cfg.StockpileNames))
	for _, name := range cfg.StockpileNames {
		stockpiles[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}

	tariffs := NewTariffResolver(master)
	return &Engine{
		master:     master,
		sales:      sales,
		ledger:     NewLedger(ledgerStore),
		correlator: NewCorrelator(operations),
		assembler:  NewAssembler(tariffs, cfg.DefaultHourRate, cfg.PaymentTerms),
		guard:      NewDuplicateGuard(sales, cfg.DedupEpsilon),
		stockpiles: stockpiles,
		log:        log,
		metrics:    recorder,
	}
}

// Process reconciles one report. An accepted report always resolves to
// exactly one outcome; nothing is thrown past this boundary.
func (e *Engine) Process(ctx context.Context, report model.Report) Outcome {
	start := time.Now()
	outcome := e.process(ctx, report)
	e.metrics.Observe(string(outcome.Status), time.Since(start))

	evt := e.log.Info()
	if outcome.Status == OutcomeFailed {
		evt = e.log.Error().Err(outcome.Err)
	}
	evt.
		Str("report_id", report.ID.String()).
		Str("report_type", string(report.Type)).
		Str("outcome", string(outcome.Status)).
		Msg("report reconciled")
	return outcome
}

func (e *Engine) process(ctx context.Context, report model.Report) Outcome {
	if err := report.Validate(); err != nil {
		return failed(fmt.Errorf("%w: %v", ErrInvalidReport, err))
	}
	e.resolveStockpile(&report)

	category := report.Machine.Category
	if category == model.MachineCategoryUnknown && report.Machine.Name != "" {
		resolved, err := e.master.GetMachineCategory(ctx, report.Machine.Name)
		if err != nil {
			return failed(err)
		}
		category = resolved
	}

	var client *model.Client
	if report.HasDestinationClient() {
		found, err := e.master.GetClient(ctx, report.Destination.Client)
		if err != nil {
			return failed(err)
		}
		client = found
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	decision := Classify(ClassifyInput{Report: report, Category: category, ClientKnown: client != nil})
	if decision.Action == ActionSkip {
		return skipped(decision.Reason)
	}

	movementNeeded := decision.Stock != StockNone && report.Quantity > 0
	if movementNeeded {
		// The movement log is the source of truth for resubmissions: a leg
		// whose movement still stands must not move stock twice, but one
		// whose movement was reversed after a failed sale write has to
		// re-apply it on retry.
		applied, err := e.ledger.Applied(ctx, report.ID, report.Material, directionOf(decision.Stock))
		if err != nil {
			return failed(err)
		}
		movementNeeded = !applied
	}
	if decision.Stock == StockExit && movementNeeded {
		if err := e.ledger.Validate(ctx, report.Material, report.Quantity, model.MovementExit); err != nil {
			return failed(err)
		}
	}

	var op *model.CommercialOperation
	if decision.Correlate {
		registered, _, err := e.correlator.Register(ctx, report)
		if err != nil {
			return failed(err)
		}
		op = registered
	}

	var movement *model.MovementRecord
	if decision.Action == ActionAwaitCorrelation {
		if movementNeeded {
			applied, err := e.applyStock(ctx, decision.Stock, report)
			if err != nil {
				return failed(err)
			}
			movement = applied
			movementNeeded = false
		}
		if op.SaleGenerated {
			return deduplicated(opSaleID(op), op.ID)
		}
		if !op.Complete {
			return deferred(op.ID)
		}
		// This leg completed the operation; fall through and bill it.
	}

	if op != nil && op.SaleGenerated {
		return deduplicated(opSaleID(op), op.ID)
	}

	sale, err := e.assembler.Build(ctx, AssembleInput{
		Report:    report,
		Operation: op,
		Client:    client,
		Class:     decision.Class,
	})
	if err != nil {
		return failed(err)
	}
	if sale == nil {
		return skipped("zero-value event")
	}

	existingID, isDuplicate, err := e.guard.FindExisting(ctx, sale.Client, sale.Date, sale.Total)
	if err != nil {
		return failed(err)
	}
	if isDuplicate {
		return deduplicated(existingID, opID(op))
	}

	if movementNeeded {
		movement, err = e.applyStock(ctx, decision.Stock, report)
		if err != nil {
			return failed(err)
		}
	}

	saleID, err := e.sales.Append(ctx, sale)
	if err != nil {
		if movement != nil {
			e.reverseMovement(ctx, movement)
		}
		return failed(fmt.Errorf("%w: %v", ErrPersistence, err))
	}
	sale.ID = saleID

	if op != nil {
		if err := e.correlator.MarkSaleGenerated(ctx, op.ID, saleID); err != nil {
			// The sale is durable; the duplicate guard still protects the
			// operation on resubmission.
			e.log.Error().Err(err).
				Str("operation_id", op.ID.String()).
				Str("sale_id", saleID.String()).
				Msg("failed to mark operation as billed")
		}
	}
	return created(sale, opID(op))
}

func (e *Engine) applyStock(ctx context.Context, effect StockEffect, report model.Report) (*model.MovementRecord, error) {
	in := MovementInput{
		Material: report.Material,
		Quantity: report.Quantity,
		ReportID: report.ID,
		Actor:    report.Worker,
	}
	switch effect {
	case StockEntry:
		if report.Origin != nil {
			in.Counterpart = report.Origin.Name
		}
		if report.Value > 0 && report.Quantity > 0 {
			in.UnitCost = decimal.NewFromFloat(report.Value).Div(decimal.NewFromFloat(report.Quantity))
		}
		return e.ledger.ApplyEntry(ctx, in)
	case StockExit:
		in.Counterpart = report.Destination.Client
		return e.ledger.ApplyExit(ctx, in)
	default:
		return nil, nil
	}
}

// reverseMovement compensates a stock movement whose sale failed to persist,
// so the ledger is never decremented without a corresponding sale.
func (e *Engine) reverseMovement(ctx context.Context, movement *model.MovementRecord) {
	in := MovementInput{
		Material:    movement.Material,
		Quantity:    movement.Quantity,
		UnitCost:    movement.UnitCost,
		Counterpart: "reversa",
		ReportID:    movement.ReportID,
		Actor:       movement.Actor,
	}
	var err error
	if movement.Direction == model.MovementExit {
		_, err = e.ledger.ApplyEntry(ctx, in)
	} else {
		_, err = e.ledger.ApplyExit(ctx, in)
	}
	if err != nil {
		e.log.Error().Err(err).
			Str("material", movement.Material).
			Float64("quantity", movement.Quantity).
			Msg("failed to reverse stock movement")
	}
}

// resolveStockpile swaps in a flagged copy of the origin when its name is a
// configured stockpile. The caller's Location is never written through.
func (e *Engine) resolveStockpile(report *model.Report) {
	if report.Origin == nil || report.Origin.Stockpile {
		return
	}
	if _, ok := e.stockpiles[strings.ToLower(strings.TrimSpace(report.Origin.Name))]; ok {
		origin := *report.Origin
		origin.Stockpile = true
		report.Origin = &origin
	}
}

func directionOf(effect StockEffect) model.MovementDirection {
	if effect == StockEntry {
		return model.MovementEntry
	}
	return model.MovementExit
}

// GetOperation exposes the correlation registry for diagnostics.
func (e *Engine) GetOperation(ctx context.Context, key model.OperationKey) (*model.CommercialOperation, error) {
	return e.correlator.GetOperation(ctx, key)
}

// LedgerState exposes one stockpile row for diagnostics.
func (e *Engine) LedgerState(ctx context.Context, material string) (*model.InventoryMaterial, error) {
	return e.ledger.State(ctx, material)
}

// LedgerMovements exposes the movement log for one material.
func (e *Engine) LedgerMovements(ctx context.Context, material string) ([]model.MovementRecord, error) {
	return e.ledger.Movements(ctx, material)
}

func opID(op *model.CommercialOperation) uuid.UUID {
	if op == nil {
		return uuid.Nil
	}
	return op.ID
}

func opSaleID(op *model.CommercialOperation) uuid.UUID {
	if op.SaleID == nil {
		return uuid.Nil
	}
	return *op.SaleID
}
