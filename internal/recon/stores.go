package recon

import (
	"context"

	"github.com/google/uuid"

	"github.com/dromero/quarryops-recon/internal/model"
)

// MasterData exposes reference data owned by the surrounding application.
// Lookups that find nothing return (nil, nil) rather than an error.
type MasterData interface {
	GetClient(ctx context.Context, name string) (*model.Client, error)
	GetTariffs(ctx context.Context, q model.TariffQuery) ([]model.Tariff, error)
	GetMachineCategory(ctx context.Context, machineName string) (model.MachineCategory, error)
}

// SaleStore persists assembled sales.
type SaleStore interface {
	List(ctx context.Context, f model.SaleFilter) ([]model.Sale, error)
	Append(ctx context.Context, sale *model.Sale) (uuid.UUID, error)
}

// LedgerStore owns the stockpile rows and the append-only movement log.
type LedgerStore interface {
	GetMaterial(ctx context.Context, name string) (*model.InventoryMaterial, error)
	Upsert(ctx context.Context, material *model.InventoryMaterial) error
	AppendMovement(ctx context.Context, record *model.MovementRecord) error
	ListMovements(ctx context.Context, material string) ([]model.MovementRecord, error)
}

// OperationStore persists the append-only commercial operation registry.
type OperationStore interface {
	GetByKey(ctx context.Context, key model.OperationKey) (*model.CommercialOperation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.CommercialOperation, error)
	Create(ctx context.Context, op *model.CommercialOperation) error
	Update(ctx context.Context, op *model.CommercialOperation) error
	MarkSaleGenerated(ctx context.Context, opID, saleID uuid.UUID) error
}
