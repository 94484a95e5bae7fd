package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dromero/quarryops-recon/internal/model"
)

type OperationRepository struct {
	db *gorm.DB
}

func NewOperationRepository(db *gorm.DB) *OperationRepository {
	return &OperationRepository{db: db}
}

func (r *OperationRepository) GetByKey(ctx context.Context, key model.OperationKey) (*model.CommercialOperation, error) {
	var op model.CommercialOperation
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, day, client, material, quantity, complete, sale_generated, sale_id, created_at, updated_at
		FROM commercial_operations
		WHERE day = ? AND client = ? AND material = ?
		LIMIT 1
	`, key.Day.Format("2006-01-02"), key.Client, key.Material).Scan(&op).Error; err != nil {
		return nil, err
	}
	if op.ID == uuid.Nil {
		return nil, nil
	}
	return r.withReportIDs(ctx, &op)
}

func (r *OperationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CommercialOperation, error) {
	var op model.CommercialOperation
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, day, client, material, quantity, complete, sale_generated, sale_id, created_at, updated_at
		FROM commercial_operations
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&op).Error; err != nil {
		return nil, err
	}
	if op.ID == uuid.Nil {
		return nil, nil
	}
	return r.withReportIDs(ctx, &op)
}

func (r *OperationRepository) Create(ctx context.Context, op *model.CommercialOperation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
			INSERT INTO commercial_operations (
				id, day, client, material, quantity, complete, sale_generated, sale_id, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			op.ID,
			op.Day,
			op.Client,
			op.Material,
			op.Quantity,
			op.Complete,
			op.SaleGenerated,
			op.SaleID,
			op.CreatedAt,
			op.UpdatedAt,
		).Error; err != nil {
			return err
		}
		return insertReportIDs(tx, op)
	})
}

func (r *OperationRepository) Update(ctx context.Context, op *model.CommercialOperation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
			UPDATE commercial_operations
			SET quantity = ?, complete = ?, updated_at = ?
			WHERE id = ?
		`, op.Quantity, op.Complete, op.UpdatedAt, op.ID).Error; err != nil {
			return err
		}
		return insertReportIDs(tx, op)
	})
}

func (r *OperationRepository) MarkSaleGenerated(ctx context.Context, opID, saleID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE commercial_operations
		SET sale_generated = TRUE, sale_id = ?, updated_at = NOW()
		WHERE id = ?
	`, saleID, opID).Error
}

func (r *OperationRepository) withReportIDs(ctx context.Context, op *model.CommercialOperation) (*model.CommercialOperation, error) {
	var reportIDs []uuid.UUID
	if err := r.db.WithContext(ctx).Raw(`
		SELECT report_id
		FROM operation_reports
		WHERE operation_id = ?
		ORDER BY report_id
	`, op.ID).Scan(&reportIDs).Error; err != nil {
		return nil, err
	}
	op.ReportIDs = reportIDs
	return op, nil
}

func insertReportIDs(tx *gorm.DB, op *model.CommercialOperation) error {
	for _, reportID := range op.ReportIDs {
		if err := tx.Exec(`
			INSERT INTO operation_reports (operation_id, report_id)
			VALUES (?, ?)
			ON CONFLICT DO NOTHING
		`, op.ID, reportID).Error; err != nil {
			return err
		}
	}
	return nil
}
