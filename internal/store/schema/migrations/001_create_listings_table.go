package migrations

import "github.com/sol-flex/aijobcareer/internal/store/schema"

// ReplacingMergeTree keyed on (company, application_url): saves are inserts,
// the newest updated_at version wins, and duplicate adds from overlapping
// runs collapse at merge time.
var CreateListingsTable = schema.Migration{
	Version:     1,
	Description: "Create listings table",
	Up: `
		CREATE TABLE IF NOT EXISTS listings (
			id UUID,
			company String,
			company_logo String,
			title String,
			primary_role String,
			position_type String,
			location_type String,
			country String,
			locations String,
			description String,
			keywords String,
			currency String,
			salary_min Nullable(Float64),
			salary_max Nullable(Float64),
			equity_min Nullable(Float64),
			equity_max Nullable(Float64),
			crypto_payment Bool,
			application_method String,
			application_url String,
			application_email String,
			published Bool,
			payment_status String,
			removed Bool,
			removed_at Nullable(DateTime),
			platform String,
			published_at DateTime,
			expires_at DateTime,
			created_at DateTime,
			updated_at DateTime
		) ENGINE = ReplacingMergeTree(updated_at)
		PARTITION BY toYYYYMM(created_at)
		ORDER BY (company, application_url)
		SETTINGS index_granularity = 8192
	`,
	Down: `DROP TABLE IF EXISTS listings`,
}
