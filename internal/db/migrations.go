package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'travel_status') THEN
			CREATE TYPE travel_status AS ENUM ('DRAFT', 'FINAL');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS zones (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		code VARCHAR(32) NOT NULL,
		name VARCHAR(128) NOT NULL
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_zones_code ON zones (code);`,
	`CREATE TABLE IF NOT EXISTS master_codes (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		code VARCHAR(64) NOT NULL,
		name VARCHAR(128) NOT NULL,
		parent_id UUID REFERENCES master_codes(id),
		depth INT NOT NULL DEFAULT 0,
		sort_order INT NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_master_codes_code ON master_codes (code);`,
	`CREATE INDEX IF NOT EXISTS idx_master_codes_parent_id ON master_codes (parent_id) WHERE parent_id IS NOT NULL;`,
	`CREATE TABLE IF NOT EXISTS instructors (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		phone VARCHAR(32) NOT NULL DEFAULT '',
		email VARCHAR(128) NOT NULL DEFAULT '',
		home_address TEXT,
		home_latitude NUMERIC(10,7),
		home_longitude NUMERIC(10,7),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS institutions (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		address TEXT,
		latitude NUMERIC(10,7),
		longitude NUMERIC(10,7),
		phone VARCHAR(32) NOT NULL DEFAULT '',
		zone_id UUID REFERENCES zones(id),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_institutions_zone_id ON institutions (zone_id) WHERE zone_id IS NOT NULL;`,
	`CREATE TABLE IF NOT EXISTS trainings (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		category_code VARCHAR(64) NOT NULL DEFAULT '',
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS training_periods (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		training_id UUID NOT NULL REFERENCES trainings(id),
		instructor_id UUID NOT NULL REFERENCES instructors(id),
		institution_id UUID NOT NULL REFERENCES institutions(id),
		period_date DATE NOT NULL,
		start_at TIMESTAMPTZ NOT NULL,
		end_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_training_periods_instructor_date ON training_periods (instructor_id, period_date);`,
	`CREATE TABLE IF NOT EXISTS travel_policies (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		min_km NUMERIC(10,2) NOT NULL,
		max_km NUMERIC(10,2),
		amount_krw BIGINT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		valid_from DATE,
		valid_to DATE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS daily_travel_records (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		instructor_id UUID NOT NULL REFERENCES instructors(id),
		travel_date DATE NOT NULL,
		work_month VARCHAR(7) NOT NULL,
		total_distance_km NUMERIC(10,2) NOT NULL DEFAULT 0,
		travel_fee_amount_krw BIGINT NOT NULL DEFAULT 0,
		snapshot_url TEXT,
		status travel_status NOT NULL DEFAULT 'DRAFT',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_daily_travel_instructor_date ON daily_travel_records (instructor_id, travel_date);`,
	`CREATE INDEX IF NOT EXISTS idx_daily_travel_work_month ON daily_travel_records (instructor_id, work_month);`,
	`CREATE TABLE IF NOT EXISTS travel_waypoints (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		record_id UUID NOT NULL REFERENCES daily_travel_records(id) ON DELETE CASCADE,
		seq INT NOT NULL,
		name VARCHAR(128) NOT NULL,
		address TEXT,
		latitude NUMERIC(10,7) NOT NULL,
		longitude NUMERIC(10,7) NOT NULL,
		institution_id UUID REFERENCES institutions(id),
		training_id UUID REFERENCES trainings(id),
		is_home BOOLEAN NOT NULL DEFAULT FALSE
	);`,
	`CREATE INDEX IF NOT EXISTS idx_travel_waypoints_record_id ON travel_waypoints (record_id);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_travel_waypoints_record_seq ON travel_waypoints (record_id, seq);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
