package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	bagservice "dewey/contexts/player-experience/bag-service"
	"dewey/contexts/player-experience/bag-service/adapters/alerting"
	bagmongo "dewey/contexts/player-experience/bag-service/adapters/mongo"
	bagredis "dewey/contexts/player-experience/bag-service/adapters/redis"
	"dewey/contexts/player-experience/bag-service/adapters/system"
	bagentities "dewey/contexts/player-experience/bag-service/domain/entities"
	bagports "dewey/contexts/player-experience/bag-service/ports"
	disccatalog "dewey/contexts/reference-data/disc-catalog"
	catalogpostgres "dewey/contexts/reference-data/disc-catalog/adapters/postgres"
	catalogports "dewey/contexts/reference-data/disc-catalog/ports"
	"dewey/internal/platform/cache"
	"dewey/internal/platform/config"
	"dewey/internal/platform/db"
	"dewey/internal/platform/httpserver"
	"dewey/internal/platform/messaging"
	"dewey/internal/platform/mongodb"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server    *httpserver.Server
	postgres  *db.Postgres
	mongo     *mongodb.Mongo
	publisher *messaging.Publisher
	logger    *slog.Logger
}

type WorkerApp struct {
	projector func(context.Context) error
	mongo     *mongodb.Mongo
	redis     *cache.Redis
	logger    *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg.ServiceName, "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	catalogRepo := catalogpostgres.NewRepository(pg.DB, logger)
	if err := catalogRepo.Migrate(context.Background()); err != nil {
		_ = pg.Close()
		return nil, err
	}
	catalogModule := disccatalog.NewModule(disccatalog.Dependencies{
		Discs:   catalogRepo,
		Courses: catalogRepo,
		Logger:  logger,
	})

	mongoConn, err := mongodb.Connect(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	publisher, err := messaging.NewPublisher(cfg.KafkaBrokers, logger)
	if err != nil {
		_ = mongoConn.Close()
		_ = pg.Close()
		return nil, err
	}

	bagStore := bagmongo.NewStore(mongoConn.Database, logger)
	bagModule := bagservice.NewModule(bagservice.Dependencies{
		Publisher:      publisher,
		Reads:          bagStore,
		Catalog:        catalogSnapshotProvider{discs: catalogRepo},
		Clock:          system.Clock{},
		IDGenerator:    system.UUIDGenerator{},
		Source:         cfg.ServiceName + "-api",
		Topic:          cfg.BagUpdatesTopic,
		PublishTimeout: cfg.PublishTimeout,
		Logger:         logger,
	})

	server := httpserver.New(bagModule, catalogModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:    server,
		postgres:  pg,
		mongo:     mongoConn,
		publisher: publisher,
		logger:    logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg.ServiceName, "worker")

	mongoConn, err := mongodb.Connect(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}

	bagStore := bagmongo.NewStore(mongoConn.Database, logger)
	if err := bagStore.EnsureIndexes(context.Background()); err != nil {
		_ = mongoConn.Close()
		return nil, err
	}

	redisConn, err := cache.Connect(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		_ = mongoConn.Close()
		return nil, err
	}

	alerter := alerting.LogAlerter{Logger: logger}
	subscriber, err := messaging.NewSubscriber(cfg.KafkaBrokers, cfg.ConsumerMaxRetries, alerter, logger)
	if err != nil {
		_ = redisConn.Close()
		_ = mongoConn.Close()
		return nil, err
	}

	bagModule := bagservice.NewModule(bagservice.Dependencies{
		Subscriber:    subscriber,
		Writes:        bagStore,
		Dedup:         bagredis.NewDedupStore(redisConn.Client),
		Clock:         system.Clock{},
		Topic:         cfg.BagUpdatesTopic,
		ConsumerGroup: cfg.BagConsumerGroup,
		DedupTTL:      cfg.EventDedupTTL,
		Logger:        logger,
	})

	projector := bagModule.Projector
	return &WorkerApp{
		projector: projector.Start,
		mongo:     mongoConn,
		redis:     redisConn,
		logger:    logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return a.server.Start()
}

func (a *APIApp) Close() error {
	var errs []error
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}
	if a.mongo != nil {
		errs = append(errs, a.mongo.Close())
	}
	if a.postgres != nil {
		errs = append(errs, a.postgres.Close())
	}
	return errors.Join(errs...)
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.projector(ctx); err != nil {
		return err
	}

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)

	<-ctx.Done()
	return nil
}

func (w *WorkerApp) Close() error {
	var errs []error
	if w.redis != nil {
		errs = append(errs, w.redis.Close())
	}
	if w.mongo != nil {
		errs = append(errs, w.mongo.Close())
	}
	return errors.Join(errs...)
}

// catalogSnapshotProvider bridges the catalog read side into the bag
// command path without a cross-context package import.
type catalogSnapshotProvider struct {
	discs catalogports.DiscRepository
}

func (p catalogSnapshotProvider) GetDisc(ctx context.Context, discID string) (bagentities.DiscSnapshot, bool, error) {
	disc, found, err := p.discs.GetDisc(ctx, discID)
	if err != nil || !found {
		return bagentities.DiscSnapshot{}, found, err
	}
	return bagentities.DiscSnapshot{
		ID:           disc.ID,
		Name:         disc.Name,
		Manufacturer: disc.Manufacturer,
		Type:         string(disc.Type),
		Speed:        disc.Speed,
		Glide:        disc.Glide,
		Turn:         disc.Turn,
		Fade:         disc.Fade,
		Stability:    string(disc.Stability),
		Plastic:      disc.Plastic,
	}, true, nil
}

var _ bagports.DiscCatalog = catalogSnapshotProvider{}

func newLogger(serviceName string, process string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, nil)
	return slog.New(handler).With("service", serviceName, "process", process)
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
