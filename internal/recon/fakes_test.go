package recon

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/dromero/quarryops-recon/internal/model"
)

type fakeMasterData struct {
	clients    map[string]*model.Client
	tariffs    []model.Tariff
	categories map[string]model.MachineCategory
}

func newFakeMasterData() *fakeMasterData {
	return &fakeMasterData{
		clients:    make(map[string]*model.Client),
		categories: make(map[string]model.MachineCategory),
	}
}

func (f *fakeMasterData) addClient(name string) {
	f.clients[name] = &model.Client{ID: uuid.New(), Name: name}
}

func (f *fakeMasterData) GetClient(_ context.Context, name string) (*model.Client, error) {
	return f.clients[name], nil
}

func (f *fakeMasterData) GetTariffs(_ context.Context, _ model.TariffQuery) ([]model.Tariff, error) {
	return f.tariffs, nil
}

func (f *fakeMasterData) GetMachineCategory(_ context.Context, machineName string) (model.MachineCategory, error) {
	if category, ok := f.categories[strings.ToLower(machineName)]; ok {
		return category, nil
	}
	return model.MachineCategoryUnknown, nil
}

type fakeSaleStore struct {
	sales      []model.Sale
	appendErr  error
	listCalled int
}

func (f *fakeSaleStore) List(_ context.Context, filter model.SaleFilter) ([]model.Sale, error) {
	f.listCalled++
	var result []model.Sale
	for _, sale := range f.sales {
		if filter.Client != "" && sale.Client != filter.Client {
			continue
		}
		if !filter.Day.IsZero() && !sale.Date.Equal(filter.Day) {
			continue
		}
		if filter.Automatic != nil && sale.Automatic != *filter.Automatic {
			continue
		}
		result = append(result, sale)
	}
	return result, nil
}

func (f *fakeSaleStore) Append(_ context.Context, sale *model.Sale) (uuid.UUID, error) {
	if f.appendErr != nil {
		return uuid.Nil, f.appendErr
	}
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	f.sales = append(f.sales, *sale)
	return sale.ID, nil
}

type fakeLedgerStore struct {
	materials map[string]model.InventoryMaterial
	movements []model.MovementRecord
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{materials: make(map[string]model.InventoryMaterial)}
}

func (f *fakeLedgerStore) GetMaterial(_ context.Context, name string) (*model.InventoryMaterial, error) {
	material, ok := f.materials[name]
	if !ok {
		return nil, nil
	}
	copied := material
	return &copied, nil
}

func (f *fakeLedgerStore) Upsert(_ context.Context, material *model.InventoryMaterial) error {
	f.materials[material.Name] = *material
	return nil
}

func (f *fakeLedgerStore) AppendMovement(_ context.Context, record *model.MovementRecord) error {
	f.movements = append(f.movements, *record)
	return nil
}

func (f *fakeLedgerStore) ListMovements(_ context.Context, material string) ([]model.MovementRecord, error) {
	var result []model.MovementRecord
	for _, record := range f.movements {
		if record.Material == material {
			result = append(result, record)
		}
	}
	return result, nil
}

type fakeOperationStore struct {
	ops map[uuid.UUID]*model.CommercialOperation
}

func newFakeOperationStore() *fakeOperationStore {
	return &fakeOperationStore{ops: make(map[uuid.UUID]*model.CommercialOperation)}
}

func (f *fakeOperationStore) GetByKey(_ context.Context, key model.OperationKey) (*model.CommercialOperation, error) {
	for _, op := range f.ops {
		if op.Day.Equal(key.Day) && op.Client == key.Client && op.Material == key.Material {
			return cloneOperation(op), nil
		}
	}
	return nil, nil
}

func (f *fakeOperationStore) GetByID(_ context.Context, id uuid.UUID) (*model.CommercialOperation, error) {
	op, ok := f.ops[id]
	if !ok {
		return nil, nil
	}
	return cloneOperation(op), nil
}

func (f *fakeOperationStore) Create(_ context.Context, op *model.CommercialOperation) error {
	f.ops[op.ID] = cloneOperation(op)
	return nil
}

func (f *fakeOperationStore) Update(_ context.Context, op *model.CommercialOperation) error {
	stored, ok := f.ops[op.ID]
	if !ok {
		f.ops[op.ID] = cloneOperation(op)
		return nil
	}
	clone := cloneOperation(op)
	clone.SaleGenerated = stored.SaleGenerated
	clone.SaleID = stored.SaleID
	f.ops[op.ID] = clone
	return nil
}

func (f *fakeOperationStore) MarkSaleGenerated(_ context.Context, opID, saleID uuid.UUID) error {
	if op, ok := f.ops[opID]; ok {
		op.SaleGenerated = true
		id := saleID
		op.SaleID = &id
	}
	return nil
}

func cloneOperation(op *model.CommercialOperation) *model.CommercialOperation {
	clone := *op
	clone.ReportIDs = append([]uuid.UUID(nil), op.ReportIDs...)
	if op.SaleID != nil {
		id := *op.SaleID
		clone.SaleID = &id
	}
	return &clone
}
