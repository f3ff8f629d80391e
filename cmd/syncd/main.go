package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sol-flex/aijobcareer/internal/adapters"
	"github.com/sol-flex/aijobcareer/internal/cache"
	cacheredis "github.com/sol-flex/aijobcareer/internal/cache/redis"
	"github.com/sol-flex/aijobcareer/internal/config"
	"github.com/sol-flex/aijobcareer/internal/events"
	"github.com/sol-flex/aijobcareer/internal/normalize"
	"github.com/sol-flex/aijobcareer/internal/store"
	"github.com/sol-flex/aijobcareer/internal/syncer"
	"github.com/sol-flex/aijobcareer/internal/telemetry"
)

var (
	accountFlag      = flag.String("account", "", "sync a single account by name")
	categoryFlag     = flag.String("category", "", "only sync accounts tagged with this category")
	syncedBeforeFlag = flag.Duration("synced-before", 0, "only sync accounts last synced more than this long ago")
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return zap.NewProduction()
}

func newStore(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	st, err := store.NewClickHouse(context.Background(), cfg, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return st.Close()
		},
	})
	return st, nil
}

func newPublisher(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (events.Publisher, error) {
	if cfg.NATSURL == "" {
		logger.Info("no NATS URL configured, listing events disabled")
		return events.NopPublisher{}, nil
	}
	pub, err := events.NewNATSPublisher(cfg.NATSURL, cfg.NATSConnTimeout, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pub.Close()
			return nil
		},
	})
	return pub, nil
}

func newCache(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) cache.Cache {
	if cfg.RedisAddr == "" {
		logger.Info("no redis address configured, detail caching disabled")
		return nil
	}
	c := cacheredis.New(cache.Options{
		DefaultTTL:    cfg.CacheTTL,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
	})
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return c.Close()
		},
	})
	return c
}

func newExtractor(cfg *config.Config, logger *zap.Logger) (normalize.Extractor, error) {
	if cfg.OpenAIAPIKey == "" {
		logger.Info("no OpenAI API key configured, generative extraction disabled")
		return nil, nil
	}
	return normalize.NewOpenAIExtractor(cfg, logger)
}

func newAdapterFactory(cfg *config.Config, logger *zap.Logger, c cache.Cache) *adapters.Factory {
	return adapters.NewFactory(adapters.Deps{
		Config:  cfg,
		Logger:  logger,
		Cache:   c,
		Limiter: adapters.NewHostLimiter(cfg.HostRateLimit, cfg.HostRateBurst),
	})
}

func newNormalizer(extractor normalize.Extractor, logger *zap.Logger) *normalize.Normalizer {
	return normalize.New(extractor, logger)
}

func newSyncer(st store.Store, factory *adapters.Factory, normalizer *normalize.Normalizer, publisher events.Publisher, logger *zap.Logger, cfg *config.Config) *syncer.Syncer {
	return syncer.New(st, factory, normalizer, publisher, logger, cfg)
}

func runSync(lc fx.Lifecycle, s *syncer.Syncer, cfg *config.Config, logger *zap.Logger, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				ctx := context.Background()

				if cfg.OTELCollectorURL != "" {
					cleanup, err := telemetry.InitTracer(ctx, "aijobcareer-sync", cfg.OTELCollectorURL)
					if err != nil {
						logger.Warn("failed to initialize tracing", zap.Error(err))
					} else {
						defer cleanup()
					}
				}

				opts := syncer.Options{
					Account:  *accountFlag,
					Category: *categoryFlag,
				}
				if *syncedBeforeFlag > 0 {
					opts.SyncedBefore = time.Now().Add(-*syncedBeforeFlag)
				}

				code := 0
				if _, err := s.Run(ctx, opts); err != nil {
					logger.Error("sync run aborted", zap.Error(err))
					code = 1
				}
				_ = shutdowner.Shutdown(fx.ExitCode(code))
			}()
			return nil
		},
	})
}

func main() {
	_ = godotenv.Load()
	flag.Parse()

	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			newLogger,
			newStore,
			newPublisher,
			newCache,
			newExtractor,
			newAdapterFactory,
			newNormalizer,
			newSyncer,
		),
		fx.Invoke(runSync),
	)

	startCtx := context.Background()
	if err := app.Start(startCtx); err != nil {
		log.Fatal(err)
	}

	sig := <-app.Wait()

	stopCtx := context.Background()
	if err := app.Stop(stopCtx); err != nil {
		log.Fatal(err)
	}
	os.Exit(sig.ExitCode)
}
