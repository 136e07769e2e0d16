// Command server wires the registry services behind the HTTP API. Business
// logic lives in the internal service packages; main only assembles
// dependencies and owns the process lifecycle.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"recrusearch/internal/consent"
	"recrusearch/internal/domain"
	"recrusearch/internal/escrow"
	"recrusearch/internal/identity"
	"recrusearch/internal/jwttoken"
	"recrusearch/internal/jwttoken/revocation"
	"recrusearch/internal/platform/config"
	"recrusearch/internal/platform/httpserver"
	"recrusearch/internal/platform/logger"
	"recrusearch/internal/platform/metrics"
	redisclient "recrusearch/internal/platform/redis"
	"recrusearch/internal/privacy"
	"recrusearch/internal/registry"
	"recrusearch/internal/study"
	httptransport "recrusearch/internal/transport/http"
	"recrusearch/internal/wallet"
	audit "recrusearch/pkg/platform/audit"
	kafkapublisher "recrusearch/pkg/platform/audit/publisher"
	auditmemory "recrusearch/pkg/platform/audit/store/memory"
	auditpostgres "recrusearch/pkg/platform/audit/store/postgres"
	auditworker "recrusearch/pkg/platform/audit/worker"
	"recrusearch/pkg/platform/sentinel"
)

const (
	tokenIssuer   = "recrusearch"
	tokenAudience = "recrusearch-api"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	store, db, err := newRecordStore(ctx, cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}
	if err := bootstrap(ctx, store, domain.Authority(cfg.AdminAuthority), log); err != nil {
		return err
	}

	auditStore, closeAudit, err := newAuditStore(ctx, cfg, db)
	if err != nil {
		return err
	}
	if closeAudit != nil {
		defer closeAudit()
	}
	sink := auditworker.New(auditStore, cfg.AuditBuffer, log)

	trl, closeRedis, err := newRevocationList(cfg, log)
	if err != nil {
		return err
	}
	if closeRedis != nil {
		defer closeRedis()
	}
	tokens := jwttoken.NewService(cfg.JWTSigningKey, tokenIssuer, tokenAudience, trl)

	ledger := escrow.NewMemoryLedger()
	payments := escrow.NewService(ledger, log)

	router := httptransport.NewRouter(httptransport.Deps{
		Identity:  identity.NewService(store, sink, m, log),
		Study:     study.NewService(store, payments, ledger, sink, m, log),
		Consent:   consent.NewService(store, consent.NewMemoryMint(), sink, m, log),
		Wallet:    wallet.NewService(store, sink, m, log),
		Privacy:   privacy.NewService(store, sink, m, log),
		Tokens:    tokens,
		Validator: tokens,
		Metrics:   m,
		Logger:    log,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sink.Run(gctx)
	})
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newRecordStore picks postgres when configured, memory otherwise.
func newRecordStore(ctx context.Context, cfg config.Server) (registry.Store, *sql.DB, error) {
	if cfg.PostgresURL == "" {
		return registry.NewMemoryStore(), nil, nil
	}
	db, err := sql.Open("postgres", cfg.PostgresURL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	pg := registry.NewPostgresStore(db)
	if err := pg.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return pg, db, nil
}

// newAuditStore prefers Kafka, then the postgres outbox, then memory.
func newAuditStore(ctx context.Context, cfg config.Server, db *sql.DB) (audit.Store, func(), error) {
	if len(cfg.Kafka.Brokers) > 0 {
		k, err := kafkapublisher.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return nil, nil, err
		}
		if err := k.EnsureTopic(ctx, 1); err != nil {
			k.Close()
			return nil, nil, err
		}
		return k, k.Close, nil
	}
	if db != nil {
		pg := auditpostgres.New(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, nil, err
		}
		return pg, nil, nil
	}
	return auditmemory.New(), nil, nil
}

// newRevocationList uses redis when configured so revocations survive
// restarts and propagate across instances.
func newRevocationList(cfg config.Server, log *slog.Logger) (jwttoken.RevocationList, func(), error) {
	client, err := redisclient.New(cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		log.Info("redis not configured, using in-memory token revocation list")
		return revocation.NewMemoryTRL(), nil, nil
	}
	return revocation.NewRedisTRL(client.Client), func() { _ = client.Close() }, nil
}

// bootstrap creates the Admin and ConsentRegistry singletons on first start.
// A conflict means a previous start already created them.
func bootstrap(ctx context.Context, store registry.Store, admin domain.Authority, log *slog.Logger) error {
	for _, rec := range []domain.Record{
		domain.NewAdmin(admin, time.Now().UTC()),
		domain.NewConsentRegistry(),
	} {
		err := store.Create(ctx, rec)
		switch {
		case err == nil:
			log.Info("bootstrapped record", "key", rec.Key().String())
		case errors.Is(err, sentinel.ErrConflict):
		default:
			return err
		}
	}
	return nil
}
