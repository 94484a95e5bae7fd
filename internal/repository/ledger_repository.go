package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dromero/quarryops-recon/internal/model"
)

type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) GetMaterial(ctx context.Context, name string) (*model.InventoryMaterial, error) {
	var material model.InventoryMaterial
	if err := r.db.WithContext(ctx).Raw(`
		SELECT name, quantity, avg_unit_cost, updated_at
		FROM inventory_materials
		WHERE name = ?
		LIMIT 1
	`, name).Scan(&material).Error; err != nil {
		return nil, err
	}
	if material.Name == "" {
		return nil, nil
	}
	return &material, nil
}

func (r *LedgerRepository) Upsert(ctx context.Context, material *model.InventoryMaterial) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO inventory_materials (name, quantity, avg_unit_cost, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			avg_unit_cost = EXCLUDED.avg_unit_cost,
			updated_at = EXCLUDED.updated_at
	`, material.Name, material.Quantity, material.AvgUnitCost, material.UpdatedAt).Error
}

func (r *LedgerRepository) AppendMovement(ctx context.Context, record *model.MovementRecord) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO stock_movements (
			id,
			occurred_at,
			direction,
			material,
			quantity,
			quantity_before,
			quantity_after,
			unit_cost,
			counterpart,
			report_id,
			actor
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID,
		record.OccurredAt,
		record.Direction,
		record.Material,
		record.Quantity,
		record.QuantityBefore,
		record.QuantityAfter,
		record.UnitCost,
		record.Counterpart,
		record.ReportID,
		record.Actor,
	).Error
}

func (r *LedgerRepository) ListMovements(ctx context.Context, material string) ([]model.MovementRecord, error) {
	var records []model.MovementRecord
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			occurred_at,
			direction,
			material,
			quantity,
			quantity_before,
			quantity_after,
			unit_cost,
			counterpart,
			report_id,
			actor
		FROM stock_movements
		WHERE material = ?
		ORDER BY occurred_at ASC
	`, material).Scan(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
