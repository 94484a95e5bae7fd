package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`CREATE TABLE IF NOT EXISTS clients (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		tax_id VARCHAR(64),
		address TEXT,
		phone VARCHAR(64),
		payment_terms VARCHAR(64),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_clients_name ON clients (name);`,
	`CREATE TABLE IF NOT EXISTS machines (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		category VARCHAR(32) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_machines_name ON machines (name);`,
	`CREATE TABLE IF NOT EXISTS tariffs (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		kind VARCHAR(16) NOT NULL,
		client VARCHAR(255) NOT NULL DEFAULT '',
		sub_location VARCHAR(255) NOT NULL DEFAULT '',
		origin VARCHAR(255) NOT NULL DEFAULT '',
		destination VARCHAR(255) NOT NULL DEFAULT '',
		material VARCHAR(255) NOT NULL DEFAULT '',
		price NUMERIC(18,4) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_tariffs_kind_client ON tariffs (kind, client);`,
	`CREATE TABLE IF NOT EXISTS inventory_materials (
		name VARCHAR(255) PRIMARY KEY,
		quantity NUMERIC(18,3) NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		avg_unit_cost NUMERIC(18,4) NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS stock_movements (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		occurred_at TIMESTAMPTZ NOT NULL,
		direction VARCHAR(8) NOT NULL,
		material VARCHAR(255) NOT NULL,
		quantity NUMERIC(18,3) NOT NULL,
		quantity_before NUMERIC(18,3) NOT NULL,
		quantity_after NUMERIC(18,3) NOT NULL,
		unit_cost NUMERIC(18,4) NOT NULL DEFAULT 0,
		counterpart VARCHAR(255),
		report_id UUID,
		actor VARCHAR(255)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_stock_movements_material ON stock_movements (material, occurred_at);`,
	`CREATE TABLE IF NOT EXISTS commercial_operations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		day DATE NOT NULL,
		client VARCHAR(255) NOT NULL,
		material VARCHAR(255) NOT NULL,
		quantity NUMERIC(18,3) NOT NULL DEFAULT 0,
		complete BOOLEAN NOT NULL DEFAULT FALSE,
		sale_generated BOOLEAN NOT NULL DEFAULT FALSE,
		sale_id UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_commercial_operations_key ON commercial_operations (day, client, material);`,
	`CREATE TABLE IF NOT EXISTS operation_reports (
		operation_id UUID NOT NULL REFERENCES commercial_operations(id) ON DELETE CASCADE,
		report_id UUID NOT NULL,
		PRIMARY KEY (operation_id, report_id)
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_operation_reports_report_id ON operation_reports (report_id);`,
	`CREATE TABLE IF NOT EXISTS sales (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		sale_date DATE NOT NULL,
		client VARCHAR(255) NOT NULL,
		sub_location VARCHAR(255),
		class VARCHAR(32) NOT NULL,
		origin VARCHAR(255),
		destination VARCHAR(255),
		payment_terms VARCHAR(64),
		note TEXT,
		automatic BOOLEAN NOT NULL DEFAULT FALSE,
		total NUMERIC(18,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_sales_client_date ON sales (client, sale_date);`,
	`CREATE TABLE IF NOT EXISTS sale_items (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		sale_id UUID NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
		kind VARCHAR(16) NOT NULL,
		description TEXT NOT NULL,
		quantity NUMERIC(18,3) NOT NULL,
		unit_price NUMERIC(18,4) NOT NULL,
		subtotal NUMERIC(18,2) NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_sale_items_sale_id ON sale_items (sale_id);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
