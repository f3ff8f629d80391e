package migrations

import "github.com/sol-flex/aijobcareer/internal/store/schema"

var CreateAccountsTable = schema.Migration{
	Version:     2,
	Description: "Create accounts table",
	Up: `
		CREATE TABLE IF NOT EXISTS accounts (
			name String,
			website String,
			entry_url String,
			logo String,
			categories Array(String),
			platform String,
			num_listings UInt32,
			last_synced_at DateTime,
			created_at DateTime,
			updated_at DateTime
		) ENGINE = ReplacingMergeTree(updated_at)
		ORDER BY (name)
	`,
	Down: `DROP TABLE IF EXISTS accounts`,
}

// All returns the migrations in apply order.
func All() []schema.Migration {
	return []schema.Migration{
		CreateListingsTable,
		CreateAccountsTable,
	}
}
