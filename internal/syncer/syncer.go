// Package syncer drives a whole reconciliation run: for every eligible
// account it resolves the platform, fetches the upstream index, diffs it
// against the store, applies removals then capped additions, and writes the
// account's sync metadata back. It is the only component that persists
// state.
package syncer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sol-flex/aijobcareer/internal/adapters"
	"github.com/sol-flex/aijobcareer/internal/config"
	"github.com/sol-flex/aijobcareer/internal/detect"
	"github.com/sol-flex/aijobcareer/internal/events"
	"github.com/sol-flex/aijobcareer/internal/models"
	"github.com/sol-flex/aijobcareer/internal/normalize"
	"github.com/sol-flex/aijobcareer/internal/reconcile"
	"github.com/sol-flex/aijobcareer/internal/store"
	"github.com/sol-flex/aijobcareer/internal/syncerrors"
	"github.com/sol-flex/aijobcareer/internal/telemetry"
)

var tracer = telemetry.GetTracer("aijobcareer/sync/syncer")

// AdapterResolver maps a platform tag to its adapter. Satisfied by
// adapters.Factory; tests substitute fakes.
type AdapterResolver interface {
	ForPlatform(platform models.Platform) (adapters.Adapter, error)
}

// Options narrows a run. Zero value syncs every account.
type Options struct {
	Account      string
	Category     string
	SyncedBefore time.Time
}

type Syncer struct {
	store      store.Store
	adapters   AdapterResolver
	normalizer *normalize.Normalizer
	publisher  events.Publisher
	logger     *zap.Logger

	maxNew       int
	itemDelay    time.Duration
	accountDelay time.Duration
}

func New(st store.Store, resolver AdapterResolver, normalizer *normalize.Normalizer, publisher events.Publisher, logger *zap.Logger, cfg *config.Config) *Syncer {
	return &Syncer{
		store:        st,
		adapters:     resolver,
		normalizer:   normalizer,
		publisher:    publisher,
		logger:       logger,
		maxNew:       cfg.MaxNewListings,
		itemDelay:    cfg.ItemDelay,
		accountDelay: cfg.AccountDelay,
	}
}

// Run executes one sequential pass over all eligible accounts. One
// account's failure never aborts the others; failures become counters in
// the returned stats. The returned error is non-nil only when the account
// list itself cannot be loaded.
func (s *Syncer) Run(ctx context.Context, opts Options) (*models.RunStats, error) {
	ctx, span := tracer.Start(ctx, "Syncer.Run")
	defer span.End()

	stats := &models.RunStats{StartedAt: time.Now()}

	accounts, err := s.store.Accounts(ctx, store.AccountFilter{
		Name:         opts.Account,
		Category:     opts.Category,
		SyncedBefore: opts.SyncedBefore,
	})
	if err != nil {
		span.RecordError(err)
		return nil, syncerrors.Fatal("loading accounts", err)
	}

	s.logger.Info("starting sync run",
		zap.Int("accounts", len(accounts)),
		zap.String("filter_account", opts.Account),
		zap.String("filter_category", opts.Category))

	for i := range accounts {
		accountStats, cost := s.syncAccount(ctx, &accounts[i])
		stats.Add(accountStats)
		stats.ExtractionCost += cost

		if i < len(accounts)-1 {
			sleepCtx(ctx, s.accountDelay)
		}
	}

	stats.FinishedAt = time.Now()
	span.SetAttributes(
		telemetry.Int("run.accounts", stats.Accounts),
		telemetry.Int("run.added", stats.Added),
		telemetry.Int("run.removed", stats.Removed),
		telemetry.Int("run.errors", stats.Errors),
	)
	s.logSummary(stats)
	return stats, nil
}

func (s *Syncer) syncAccount(ctx context.Context, account *models.Account) (models.AccountStats, float64) {
	ctx, span := tracer.Start(ctx, "Syncer.syncAccount")
	defer span.End()
	span.SetAttributes(telemetry.String("account", account.Name))

	st := models.AccountStats{Account: account.Name}

	platform, identifier := detect.Detect(account.EntryURL)
	if platform == models.PlatformUnknown {
		// Accounts flagged generic fall back to scraping their entry page.
		if account.Platform == models.PlatformGeneric {
			platform, identifier = models.PlatformGeneric, account.EntryURL
		} else {
			st.Skipped = true
			st.SkipReason = "unsupported platform"
			s.logger.Info("skipping account on unsupported platform",
				zap.String("account", account.Name),
				zap.String("entry_url", account.EntryURL))
			return st, 0
		}
	}
	st.Platform = platform
	span.SetAttributes(telemetry.String("platform", string(platform)))

	adapter, err := s.adapters.ForPlatform(platform)
	if err != nil {
		st.Skipped = true
		st.SkipReason = "unsupported platform"
		return st, 0
	}

	upstream, err := adapter.FetchIndex(ctx, identifier)
	if err != nil {
		// Skipped for this run; the next scheduled run retries the account.
		span.RecordError(err)
		st.Errors++
		s.logger.Error("failed to fetch upstream index",
			zap.String("account", account.Name),
			zap.String("platform", string(platform)),
			zap.Error(err))
		return st, 0
	}

	stored, err := s.store.ActiveListings(ctx, account.Name)
	if err != nil {
		span.RecordError(err)
		st.Errors++
		s.logger.Error("failed to load stored listings",
			zap.String("account", account.Name),
			zap.Error(err))
		return st, 0
	}

	diff := reconcile.Diff(upstream, stored, s.maxNew)
	st.Unchanged = diff.Unchanged

	s.logger.Info("reconciled account",
		zap.String("account", account.Name),
		zap.Int("upstream", len(upstream)),
		zap.Int("stored", len(stored)),
		zap.Int("to_add", len(diff.ToAdd)),
		zap.Int("to_remove", len(diff.ToRemove)),
		zap.Int("deferred", diff.Deferred),
		zap.Int("unchanged", diff.Unchanged))

	// Removals are applied before any addition.
	s.processRemovals(ctx, diff.ToRemove, &st)

	s.backfillLogos(ctx, account, upstream, stored, &st)

	cost := s.processAdditions(ctx, account, adapter, identifier, diff.ToAdd, &st)

	// Metadata write failure must not roll back listing changes already
	// committed; partial progress is preserved.
	account.Platform = platform
	account.NumListings = uint32(st.Unchanged + st.Added)
	account.LastSyncedAt = time.Now()
	if err := s.store.SaveAccount(ctx, account); err != nil {
		st.Errors++
		s.logger.Error("failed to update account sync metadata",
			zap.String("account", account.Name),
			zap.Error(err))
	}

	return st, cost
}

func (s *Syncer) processRemovals(ctx context.Context, toRemove []models.CanonicalListing, st *models.AccountStats) {
	now := time.Now()
	for i := range toRemove {
		listing := toRemove[i]
		if err := s.store.MarkRemoved(ctx, &listing, now); err != nil {
			st.Errors++
			s.logger.Error("failed to mark listing removed",
				zap.String("account", listing.Company),
				zap.String("url", listing.ApplicationURL),
				zap.Error(err))
			continue
		}
		st.Removed++
		s.logger.Info("listing removed upstream",
			zap.String("account", listing.Company),
			zap.String("title", listing.Title),
			zap.String("url", listing.ApplicationURL))

		if err := s.publisher.ListingRemoved(ctx, &listing); err != nil {
			s.logger.Warn("failed to publish removal event", zap.Error(err))
		}
	}
}

func (s *Syncer) processAdditions(ctx context.Context, account *models.Account, adapter adapters.Adapter, identifier string, toAdd []models.SourceListingRef, st *models.AccountStats) float64 {
	var cost float64
	for i, ref := range toAdd {
		if i > 0 {
			sleepCtx(ctx, s.itemDelay)
		}

		detail, err := adapter.FetchDetail(ctx, identifier, ref)
		if err != nil {
			st.Errors++
			s.logger.Error("failed to fetch listing detail",
				zap.String("account", account.Name),
				zap.String("url", ref.URL),
				zap.Error(err))
			continue
		}

		listing, itemCost, err := s.normalizer.Normalize(ctx, account, detail)
		cost += itemCost
		if err != nil {
			// Item stays absent from the store and reappears as new in the
			// next diff.
			st.Errors++
			s.logger.Error("failed to normalize listing",
				zap.String("account", account.Name),
				zap.String("url", ref.URL),
				zap.Error(err))
			continue
		}

		if err := s.store.SaveListing(ctx, listing); err != nil {
			st.Errors++
			s.logger.Error("failed to save listing",
				zap.String("account", account.Name),
				zap.String("url", ref.URL),
				zap.Error(err))
			continue
		}

		st.Added++
		s.logger.Info("listing added",
			zap.String("account", account.Name),
			zap.String("title", listing.Title),
			zap.String("url", listing.ApplicationURL))

		if err := s.publisher.ListingAdded(ctx, listing); err != nil {
			s.logger.Warn("failed to publish addition event", zap.Error(err))
		}
	}
	return cost
}

// backfillLogos pushes an updated account logo onto listings that are
// otherwise unchanged.
func (s *Syncer) backfillLogos(ctx context.Context, account *models.Account, upstream []models.SourceListingRef, stored []models.CanonicalListing, st *models.AccountStats) {
	if account.Logo == "" {
		return
	}

	upstreamURLs := make(map[string]struct{}, len(upstream))
	for _, ref := range upstream {
		upstreamURLs[ref.URL] = struct{}{}
	}

	for i := range stored {
		listing := stored[i]
		if _, ok := upstreamURLs[listing.ApplicationURL]; !ok {
			continue
		}
		if listing.CompanyLogo == account.Logo {
			continue
		}
		listing.CompanyLogo = account.Logo
		listing.UpdatedAt = time.Now()
		if err := s.store.SaveListing(ctx, &listing); err != nil {
			st.Errors++
			s.logger.Error("failed to backfill listing logo",
				zap.String("account", account.Name),
				zap.String("url", listing.ApplicationURL),
				zap.Error(err))
			continue
		}
		s.logger.Debug("backfilled listing logo",
			zap.String("account", account.Name),
			zap.String("url", listing.ApplicationURL))
	}
}

func (s *Syncer) logSummary(stats *models.RunStats) {
	for _, a := range stats.PerAccount {
		if a.Skipped {
			s.logger.Info("account summary",
				zap.String("account", a.Account),
				zap.String("skipped", a.SkipReason))
			continue
		}
		s.logger.Info("account summary",
			zap.String("account", a.Account),
			zap.String("platform", string(a.Platform)),
			zap.Int("added", a.Added),
			zap.Int("unchanged", a.Unchanged),
			zap.Int("removed", a.Removed),
			zap.Int("errors", a.Errors))
	}

	s.logger.Info("sync run complete",
		zap.Duration("duration", stats.FinishedAt.Sub(stats.StartedAt)),
		zap.Int("accounts", stats.Accounts),
		zap.Int("skipped", stats.Skipped),
		zap.Int("added", stats.Added),
		zap.Int("unchanged", stats.Unchanged),
		zap.Int("removed", stats.Removed),
		zap.Int("errors", stats.Errors),
		zap.Float64("extraction_cost_usd", stats.ExtractionCost))
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
