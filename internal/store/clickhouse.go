package store

import (
	"context"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"go.uber.org/zap"

	"github.com/sol-flex/aijobcareer/internal/config"
	"github.com/sol-flex/aijobcareer/internal/models"
	"github.com/sol-flex/aijobcareer/internal/syncerrors"
	"github.com/sol-flex/aijobcareer/internal/telemetry"
)

var tracer = telemetry.GetTracer("aijobcareer/sync/store")

type ClickHouseStore struct {
	conn   clickhouse.Conn
	logger *zap.Logger
}

// NewClickHouse opens and pings the connection. A failure here is the one
// fatal error of the whole system: without a store there is nothing to
// reconcile against.
func NewClickHouse(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*ClickHouseStore, error) {
	hostAndParams := strings.Split(cfg.ClickHouseDSN, "?")
	host := hostAndParams[0]

	conn, err := clickhouse.Open(&clickhouse.Options{
		Protocol: clickhouse.Native,
		Addr:     []string{host},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		Auth: clickhouse.Auth{
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
		},
		DialTimeout:     time.Second * 30,
		MaxOpenConns:    cfg.ClickHouseMaxOpenConns,
		MaxIdleConns:    cfg.ClickHouseMaxIdleConns,
		ConnMaxLifetime: cfg.ClickHouseConnMaxLife,
	})
	if err != nil {
		return nil, syncerrors.Fatal("creating clickhouse connection", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, syncerrors.Fatal("pinging clickhouse", err)
	}

	return &ClickHouseStore{
		conn:   conn,
		logger: logger,
	}, nil
}

func (s *ClickHouseStore) Conn() clickhouse.Conn { return s.conn }

func (s *ClickHouseStore) Close() error { return s.conn.Close() }

// buildAccountsQuery assembles the filtered accounts select. Split out so
// the condition logic is testable without a live connection.
func buildAccountsQuery(filter AccountFilter) (string, []interface{}) {
	query := `
		SELECT name, website, entry_url, logo, categories, platform,
		       num_listings, last_synced_at, created_at, updated_at
		FROM accounts FINAL
	`
	var (
		conds []string
		args  []interface{}
	)
	if filter.Name != "" {
		conds = append(conds, "name = ?")
		args = append(args, filter.Name)
	}
	if filter.Category != "" {
		conds = append(conds, "has(categories, ?)")
		args = append(args, filter.Category)
	}
	if !filter.SyncedBefore.IsZero() {
		conds = append(conds, "last_synced_at < ?")
		args = append(args, filter.SyncedBefore)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name"
	return query, args
}

func (s *ClickHouseStore) Accounts(ctx context.Context, filter AccountFilter) ([]models.Account, error) {
	ctx, span := tracer.Start(ctx, "store.Accounts")
	defer span.End()

	query, args := buildAccountsQuery(filter)
	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		return nil, syncerrors.Persistence("querying accounts", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var (
			a        models.Account
			platform string
		)
		if err := rows.Scan(&a.Name, &a.Website, &a.EntryURL, &a.Logo, &a.Categories,
			&platform, &a.NumListings, &a.LastSyncedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
			span.RecordError(err)
			return nil, syncerrors.Persistence("scanning account row", err)
		}
		a.Platform = models.Platform(platform)
		accounts = append(accounts, a)
	}

	span.SetAttributes(telemetry.Int("accounts.count", len(accounts)))
	return accounts, nil
}

func (s *ClickHouseStore) Account(ctx context.Context, name string) (*models.Account, error) {
	accounts, err := s.Accounts(ctx, AccountFilter{Name: name})
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, ErrAccountNotFound
	}
	return &accounts[0], nil
}

func (s *ClickHouseStore) SaveAccount(ctx context.Context, account *models.Account) error {
	ctx, span := tracer.Start(ctx, "store.SaveAccount")
	defer span.End()
	span.SetAttributes(telemetry.String("account", account.Name))

	account.UpdatedAt = time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = account.UpdatedAt
	}

	query := `
		INSERT INTO accounts (
			name, website, entry_url, logo, categories, platform,
			num_listings, last_synced_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	if err := s.conn.Exec(ctx, query,
		account.Name,
		account.Website,
		account.EntryURL,
		account.Logo,
		account.Categories,
		string(account.Platform),
		account.NumListings,
		account.LastSyncedAt,
		account.CreatedAt,
		account.UpdatedAt,
	); err != nil {
		span.RecordError(err)
		return syncerrors.Persistence("saving account", err)
	}
	return nil
}

const listingColumns = `
	id, company, company_logo, title, primary_role, position_type,
	location_type, country, locations, description, keywords,
	currency, salary_min, salary_max, equity_min, equity_max, crypto_payment,
	application_method, application_url, application_email,
	published, payment_status, removed, removed_at,
	platform, published_at, expires_at, created_at, updated_at
`

func (s *ClickHouseStore) ActiveListings(ctx context.Context, account string) ([]models.CanonicalListing, error) {
	ctx, span := tracer.Start(ctx, "store.ActiveListings")
	defer span.End()
	span.SetAttributes(telemetry.String("account", account))

	query := "SELECT " + listingColumns + `
		FROM listings FINAL
		WHERE company = ? AND removed = false
		ORDER BY application_url
	`

	rows, err := s.conn.Query(ctx, query, account)
	if err != nil {
		span.RecordError(err)
		return nil, syncerrors.Persistence("querying active listings", err)
	}
	defer rows.Close()

	var listings []models.CanonicalListing
	for rows.Next() {
		var (
			l        models.CanonicalListing
			platform string
		)
		if err := rows.Scan(
			&l.ID, &l.Company, &l.CompanyLogo, &l.Title, &l.PrimaryRole, &l.PositionType,
			&l.LocationType, &l.Country, &l.Locations, &l.Description, &l.Keywords,
			&l.Currency, &l.SalaryMin, &l.SalaryMax, &l.EquityMin, &l.EquityMax, &l.CryptoPayment,
			&l.ApplicationMethod, &l.ApplicationURL, &l.ApplicationEmail,
			&l.Published, &l.PaymentStatus, &l.Removed, &l.RemovedAt,
			&platform, &l.PublishedAt, &l.ExpiresAt, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			span.RecordError(err)
			return nil, syncerrors.Persistence("scanning listing row", err)
		}
		l.Platform = models.Platform(platform)
		listings = append(listings, l)
	}

	span.SetAttributes(telemetry.Int("listings.count", len(listings)))
	return listings, nil
}

func (s *ClickHouseStore) SaveListing(ctx context.Context, listing *models.CanonicalListing) error {
	ctx, span := tracer.Start(ctx, "store.SaveListing")
	defer span.End()
	span.SetAttributes(
		telemetry.String("account", listing.Company),
		telemetry.String("listing.url", listing.ApplicationURL),
	)

	query := "INSERT INTO listings (" + listingColumns + `) VALUES (
		?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
	)`

	if err := s.conn.Exec(ctx, query,
		listing.ID,
		listing.Company,
		listing.CompanyLogo,
		listing.Title,
		listing.PrimaryRole,
		listing.PositionType,
		listing.LocationType,
		listing.Country,
		listing.Locations,
		listing.Description,
		listing.Keywords,
		listing.Currency,
		listing.SalaryMin,
		listing.SalaryMax,
		listing.EquityMin,
		listing.EquityMax,
		listing.CryptoPayment,
		listing.ApplicationMethod,
		listing.ApplicationURL,
		listing.ApplicationEmail,
		listing.Published,
		listing.PaymentStatus,
		listing.Removed,
		listing.RemovedAt,
		string(listing.Platform),
		listing.PublishedAt,
		listing.ExpiresAt,
		listing.CreatedAt,
		listing.UpdatedAt,
	); err != nil {
		span.RecordError(err)
		return syncerrors.Persistence("saving listing", err)
	}
	return nil
}

func (s *ClickHouseStore) MarkRemoved(ctx context.Context, listing *models.CanonicalListing, at time.Time) error {
	ctx, span := tracer.Start(ctx, "store.MarkRemoved")
	defer span.End()

	listing.Removed = true
	listing.RemovedAt = &at
	listing.Published = false
	listing.UpdatedAt = at

	if err := s.SaveListing(ctx, listing); err != nil {
		return err
	}

	s.logger.Debug("listing marked removed",
		zap.String("account", listing.Company),
		zap.String("url", listing.ApplicationURL))
	return nil
}
