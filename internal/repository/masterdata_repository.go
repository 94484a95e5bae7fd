package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dromero/quarryops-recon/internal/model"
)

// MasterDataRepository reads reference data (clients, machines, tariffs)
// maintained by the surrounding application. The engine never writes here.
type MasterDataRepository struct {
	db *gorm.DB
}

func NewMasterDataRepository(db *gorm.DB) *MasterDataRepository {
	return &MasterDataRepository{db: db}
}

func (r *MasterDataRepository) GetClient(ctx context.Context, name string) (*model.Client, error) {
	var client model.Client
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, tax_id, address, phone, payment_terms
		FROM clients
		WHERE name = ?
		LIMIT 1
	`, name).Scan(&client).Error; err != nil {
		return nil, err
	}
	if client.ID == uuid.Nil {
		return nil, nil
	}
	return &client, nil
}

// GetTariffs returns every tariff row that could participate in the cascade
// for the query; precedence between them is the resolver's business.
func (r *MasterDataRepository) GetTariffs(ctx context.Context, q model.TariffQuery) ([]model.Tariff, error) {
	var tariffs []model.Tariff
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, kind, client, sub_location, origin, destination, material, price
		FROM tariffs
		WHERE kind = ?
			AND (client = ? OR client = '')
			AND (material = ? OR material = '')
		ORDER BY created_at ASC
	`, q.Kind, q.Client, q.Material).Scan(&tariffs).Error
	if err != nil {
		return nil, err
	}
	return tariffs, nil
}

func (r *MasterDataRepository) GetMachineCategory(ctx context.Context, machineName string) (model.MachineCategory, error) {
	var category string
	if err := r.db.WithContext(ctx).Raw(`
		SELECT category
		FROM machines
		WHERE name = ?
		LIMIT 1
	`, machineName).Scan(&category).Error; err != nil {
		return model.MachineCategoryUnknown, err
	}
	if category == "" {
		return model.MachineCategoryUnknown, nil
	}
	return model.MachineCategory(category), nil
}
