package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrymomot/tenantgate/pkg/access"
	"github.com/dmitrymomot/tenantgate/pkg/api"
	"github.com/dmitrymomot/tenantgate/pkg/audit"
	"github.com/dmitrymomot/tenantgate/pkg/config"
	"github.com/dmitrymomot/tenantgate/pkg/httpserver"
	"github.com/dmitrymomot/tenantgate/pkg/identity"
	"github.com/dmitrymomot/tenantgate/pkg/logger"
	"github.com/dmitrymomot/tenantgate/pkg/metrics"
	"github.com/dmitrymomot/tenantgate/pkg/pg"
	"github.com/dmitrymomot/tenantgate/pkg/pgstore"
	"github.com/dmitrymomot/tenantgate/pkg/plans"
	"github.com/dmitrymomot/tenantgate/pkg/quota"
	"github.com/dmitrymomot/tenantgate/pkg/redis"
	"github.com/dmitrymomot/tenantgate/pkg/requestid"
	"github.com/dmitrymomot/tenantgate/pkg/subscription"
)

const sessionCacheCapacity = 10_000

func newLogger(cfg config.Log, level slog.Level) *slog.Logger {
	return logger.New(
		logger.WithLevel(level),
		logger.WithFormat(logger.Format(cfg.Format)),
		logger.WithOutput(os.Stderr),
		logger.WithEnvironment(cfg.Env, cfg.Service),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
}

// bootstrap connects the stores and builds the engine. cleanup flushes the
// audit queue and closes connections in reverse order.
func bootstrap(ctx context.Context, app config.App, log *slog.Logger) (api.Deps, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (api.Deps, func(), error) {
		cleanup()
		return api.Deps{}, func() {}, err
	}

	catalog, err := plans.SourceFor(app.Engine.PlanCatalogPath).Load(ctx)
	if err != nil {
		return fail(err)
	}
	policy, err := subscription.ParseCancelPolicy(app.Engine.CancelPolicy)
	if err != nil {
		return fail(err)
	}

	var pgCfg pg.Config
	if err := config.Load(&pgCfg); err != nil {
		return fail(err)
	}
	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, pool.Close)
	ready := []httpserver.Check{{Name: "postgres", Fn: pg.Healthcheck(pool)}}

	sessions := subscription.NewLRUSessionCache(sessionCacheCapacity, app.Engine.SessionCacheTTL)
	if app.Engine.SessionCache == "redis" {
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return fail(err)
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() { _ = client.Close() })
		sessions = redis.NewSessionCache(client, redisCfg.KeyPrefix, app.Engine.SessionCacheTTL)
		ready = append(ready, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.New(reg)

	auditQueue := audit.NewAsyncStorage(pgstore.NewAuditStore(pool), audit.AsyncOptions{Logger: log})
	closers = append(closers, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := auditQueue.Close(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit queue not drained", logger.Error(err))
		}
	})
	recorder := audit.NewRecorder(auditQueue, audit.WithRequestIDExtractor(requestid.FromContext))

	manager := subscription.NewManager(pgstore.NewSubscriptionStore(pool),
		subscription.WithCatalog(catalog),
		subscription.WithTrialDuration(app.Engine.TrialDuration()),
		subscription.WithCancelPolicy(policy),
		subscription.WithSessionCache(sessions),
		subscription.WithLogger(log),
	)

	usage := pgstore.NewUsage(pool)
	engine := quota.NewEngine(catalog, usage,
		quota.WithCounters(usage.Counters()),
		quota.WithLogger(log),
	)

	facade := access.New(pgstore.NewDirectory(pool), manager, engine,
		access.WithAuditor(recorder),
		access.WithMetrics(collector),
		access.WithLogger(log),
	)

	tokens, err := identity.NewService([]byte(app.Auth.SigningKey),
		identity.WithIssuer(app.Auth.Issuer),
		identity.WithTTL(app.Auth.TokenTTL),
	)
	if err != nil {
		return fail(err)
	}

	return api.Deps{
		Facade:        facade,
		Subscriptions: manager,
		Quotas:        engine,
		Catalog:       catalog,
		Tokens:        tokens,
		Projects:      pgstore.NewProjects(pool, pgstore.NewAdmitter(pool, usage)),
		Metrics:       collector,
		Logger:        log,
		Ready:         ready,
	}, cleanup, nil
}
