package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jatmnk9/UNAYOE-web-sub001/config"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/application/navigation"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/application/store"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/messaging"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/persistence/postgres"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/persistence/redis"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/persistence/session"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/persistence/sqlite"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/portal"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/transport"
	"github.com/jatmnk9/UNAYOE-web-sub001/pkg/logger"
)

// app holds every wired component of one CLI invocation.
type app struct {
	cfg *config.Config
	log *slog.Logger

	bus     *messaging.InMemoryEventBus
	storage session.Storage
	client  *transport.Client

	auth            *store.AuthStore
	diary           *store.DiaryStore
	appointments    *store.AppointmentsStore
	recommendations *store.RecommendationsStore
	psychologist    *store.PsychologistStore

	policy navigation.Policy
}

var _ navigation.Authenticator = (*store.AuthStore)(nil)

// newApp wires configuration, storage, transport, services and stores, then
// restores any persisted session.
func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app, error) {
	policy, err := navigation.PolicyFor(cfg.Store.LoginRedirect)
	if err != nil {
		return nil, err
	}

	storage, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open session storage: %w", err)
	}

	busCfg := messaging.DefaultInMemoryEventBusConfig()
	busCfg.Logger = log
	bus := messaging.NewInMemoryEventBus(busCfg)

	clientCfg := transport.DefaultClientConfig(cfg.API.BaseURL)
	clientCfg.Timeout = cfg.API.Timeout
	clientCfg.Debug = cfg.API.Debug
	clientCfg.UserAgent = cfg.App.Name + "/" + cfg.App.Version
	clientCfg.Logger = log.With(logger.Component("transport"))
	client := transport.NewClient(clientCfg)

	opts := store.Options{
		Logger:           log,
		Events:           bus,
		SerializeToggles: cfg.Store.SerializeToggles,
	}

	a := &app{
		cfg:             cfg,
		log:             log,
		bus:             bus,
		storage:         storage,
		client:          client,
		auth:            store.NewAuthStore(portal.NewAuthService(client, log), storage, opts),
		diary:           store.NewDiaryStore(portal.NewDiaryService(client, log), opts),
		appointments:    store.NewAppointmentsStore(portal.NewAppointmentService(client, log), opts),
		recommendations: store.NewRecommendationsStore(portal.NewRecommendationService(client, log), opts),
		psychologist:    store.NewPsychologistStore(portal.NewPsychologistService(client, log), opts),
		policy:          policy,
	}

	client.SetTokenSource(a.auth)
	client.OnUnauthorized(a.auth.HandleUnauthorized)

	a.auth.CheckAuth(ctx)
	return a, nil
}

// openStorage builds the configured session backend, sealed when a key is
// set.
func openStorage(ctx context.Context, cfg *config.Config) (session.Storage, error) {
	var (
		storage session.Storage
		err     error
	)

	switch cfg.Session.Backend {
	case config.BackendMemory:
		storage = session.NewMemory()

	case config.BackendSQLite:
		storage, err = sqlite.Open(cfg.Session.SQLitePath)

	case config.BackendRedis:
		rc := redis.DefaultConfig()
		rc.Host = cfg.Redis.Host
		rc.Port = cfg.Redis.Port
		rc.Password = cfg.Redis.Password
		rc.DB = cfg.Redis.DB
		rc.PoolSize = cfg.Redis.PoolSize
		rc.MinIdleConns = cfg.Redis.MinIdleConns
		rc.DialTimeout = cfg.Redis.DialTimeout
		rc.ReadTimeout = cfg.Redis.ReadTimeout
		rc.WriteTimeout = cfg.Redis.WriteTimeout
		rc.Namespace = cfg.Session.Namespace
		rc.TTL = cfg.Session.TTL
		storage, err = redis.NewCache(rc)

	case config.BackendPostgres:
		storage, err = openPostgres(ctx, cfg)

	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Session.SealingKey == "" {
		return storage, nil
	}
	sealed, err := session.NewSealed(storage, cfg.Session.SealingKey)
	if err != nil {
		closeStorage(storage)
		return nil, err
	}
	return sealed, nil
}

func openPostgres(ctx context.Context, cfg *config.Config) (*postgres.SessionStore, error) {
	pc := postgres.DefaultConfig()
	pc.URL = cfg.Database.URL
	pc.MaxConns = int32(cfg.Database.MaxConns)
	pc.MinConns = int32(cfg.Database.MinConns)
	pc.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	pc.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime
	pc.ConnectTimeout = cfg.Database.ConnectTimeout

	conn, err := postgres.NewConnection(ctx, pc)
	if err != nil {
		return nil, err
	}

	s := postgres.NewSessionStore(conn, cfg.Session.Namespace)
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the event bus and the session backend.
func (a *app) Close() error {
	var errs []error
	if err := a.bus.Close(); err != nil {
		errs = append(errs, err)
	}
	if c, ok := a.storage.(session.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func closeStorage(s session.Storage) {
	if c, ok := s.(session.Closer); ok {
		_ = c.Close()
	}
}

// setupLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := logger.DefaultOptions()
	opts.Output = os.Stderr
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	opts.Format = logger.Format(cfg.Observability.LogFormat)
	if cfg.App.Debug && cfg.Observability.LogLevel == "" {
		opts.Level = slog.LevelDebug
	}

	log := logger.New(opts).With("app", cfg.App.Name)
	slog.SetDefault(log)
	return log
}
