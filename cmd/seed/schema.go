package main

const schemaSQL = `
CREATE TABLE IF NOT EXISTS products (
	id BIGSERIAL PRIMARY KEY,
	code TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	current_stock INTEGER NOT NULL DEFAULT 0 CHECK (current_stock >= 0),
	min_stock INTEGER NOT NULL DEFAULT 10,
	max_stock INTEGER NOT NULL DEFAULT 100,
	reorder_point INTEGER NOT NULL DEFAULT 20,
	stock_unit TEXT NOT NULL DEFAULT 'ea',
	low_stock_alert BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS stock_records (
	id BIGSERIAL PRIMARY KEY,
	product_code TEXT NOT NULL REFERENCES products(code),
	quantity INTEGER NOT NULL,
	quantity_change INTEGER NOT NULL DEFAULT 0,
	confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	source TEXT NOT NULL,
	frame_ref TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_stock_records_code_ts
	ON stock_records (product_code, timestamp);
`
