package main

import (
	"context"
	"log"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sol-flex/aijobcareer/internal/config"
	"github.com/sol-flex/aijobcareer/internal/store/schema"
	"github.com/sol-flex/aijobcareer/internal/store/schema/migrations"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: strings.Split(cfg.ClickHouseDSN, ","),
		Auth: clickhouse.Auth{
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
		},
	})
	if err != nil {
		logger.Fatal("Failed to connect to ClickHouse", zap.Error(err))
	}
	defer conn.Close()

	ctx := context.Background()

	migrator := schema.NewMigrator(conn, logger)

	if err := migrator.CreateMigrationsTable(ctx); err != nil {
		logger.Fatal("Failed to create migrations table", zap.Error(err))
	}

	applied, err := migrator.GetAppliedMigrations(ctx)
	if err != nil {
		logger.Fatal("Failed to get applied migrations", zap.Error(err))
	}

	for _, migration := range migrations.All() {
		if _, ok := applied[migration.Version]; ok {
			logger.Info("Migration already applied",
				zap.Int("version", migration.Version),
				zap.String("description", migration.Description),
			)
			continue
		}

		logger.Info("Applying migration",
			zap.Int("version", migration.Version),
			zap.String("description", migration.Description),
		)

		if err := migrator.ApplyMigration(ctx, migration); err != nil {
			logger.Fatal("Failed to apply migration",
				zap.Int("version", migration.Version),
				zap.Error(err),
			)
		}
	}

	logger.Info("All migrations completed successfully")
}
