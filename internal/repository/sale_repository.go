package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dromero/quarryops-recon/internal/model"
)

type SaleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

func (r *SaleRepository) List(ctx context.Context, f model.SaleFilter) ([]model.Sale, error) {
	baseQuery := `
		SELECT
			id,
			sale_date AS date,
			client,
			sub_location,
			class,
			origin,
			destination,
			payment_terms,
			note,
			automatic,
			total,
			created_at
		FROM sales
		WHERE 1=1
	`
	var args []interface{}
	if f.Client != "" {
		baseQuery += " AND client = ?"
		args = append(args, f.Client)
	}
	if !f.Day.IsZero() {
		baseQuery += " AND sale_date = ?"
		args = append(args, f.Day.Format("2006-01-02"))
	}
	if f.Automatic != nil {
		baseQuery += " AND automatic = ?"
		args = append(args, *f.Automatic)
	}
	if !f.From.IsZero() {
		baseQuery += " AND sale_date >= ?"
		args = append(args, f.From.Format("2006-01-02"))
	}
	if !f.To.IsZero() {
		baseQuery += " AND sale_date <= ?"
		args = append(args, f.To.Format("2006-01-02"))
	}
	baseQuery += " ORDER BY created_at ASC"

	var sales []model.Sale
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&sales).Error; err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return sales, nil
	}

	ids := make([]uuid.UUID, 0, len(sales))
	for _, sale := range sales {
		ids = append(ids, sale.ID)
	}

	var items []model.LineItem
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, sale_id, kind, description, quantity, unit_price, subtotal
		FROM sale_items
		WHERE sale_id = ANY(?)
		ORDER BY sale_id, id
	`, ids).Scan(&items).Error; err != nil {
		return nil, err
	}

	bySale := make(map[uuid.UUID][]model.LineItem, len(sales))
	for _, item := range items {
		bySale[item.SaleID] = append(bySale[item.SaleID], item)
	}
	for i := range sales {
		sales[i].Items = bySale[sales[i].ID]
	}
	return sales, nil
}

func (r *SaleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			sale_date AS date,
			client,
			sub_location,
			class,
			origin,
			destination,
			payment_terms,
			note,
			automatic,
			total,
			created_at
		FROM sales
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&sale).Error; err != nil {
		return nil, err
	}
	if sale.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, sale_id, kind, description, quantity, unit_price, subtotal
		FROM sale_items
		WHERE sale_id = ?
		ORDER BY id
	`, id).Scan(&sale.Items).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *SaleRepository) Append(ctx context.Context, sale *model.Sale) (uuid.UUID, error) {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now().UTC()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
			INSERT INTO sales (
				id,
				sale_date,
				client,
				sub_location,
				class,
				origin,
				destination,
				payment_terms,
				note,
				automatic,
				total,
				created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			sale.ID,
			sale.Date,
			sale.Client,
			sale.SubLocation,
			sale.Class,
			sale.Origin,
			sale.Destination,
			sale.PaymentTerms,
			sale.Note,
			sale.Automatic,
			sale.Total,
			sale.CreatedAt,
		).Error; err != nil {
			return err
		}

		for _, item := range sale.Items {
			if err := tx.Exec(`
				INSERT INTO sale_items (id, sale_id, kind, description, quantity, unit_price, subtotal)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`,
				item.ID,
				sale.ID,
				item.Kind,
				item.Description,
				item.Quantity,
				item.UnitPrice,
				item.Subtotal,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return sale.ID, nil
}
