package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/dmitrymomot/planbridge/pkg/config"
	"github.com/dmitrymomot/planbridge/pkg/httpserver"
	"github.com/dmitrymomot/planbridge/pkg/logger"
	"github.com/dmitrymomot/planbridge/pkg/mongo"
	"github.com/dmitrymomot/planbridge/pkg/redis"
	"github.com/dmitrymomot/planbridge/pkg/requestid"
	"github.com/dmitrymomot/planbridge/pkg/subscription"
	"github.com/dmitrymomot/planbridge/svc/billing"
)

func main() {
	var logCfg logger.Config
	config.MustLoad(&logCfg)

	log := logger.NewFromConfig(logCfg,
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	if err := run(context.Background(), log); err != nil {
		log.Error("server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	var (
		httpCfg    httpserver.Config
		mongoCfg   mongo.Config
		redisCfg   redis.Config
		stripeCfg  subscription.StripeConfig
		billingCfg billing.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&httpCfg) },
		func() error { return config.Load(&mongoCfg) },
		func() error { return config.Load(&redisCfg) },
		func() error { return config.Load(&stripeCfg) },
		func() error { return config.Load(&billingCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	if stripeCfg.SecretKey == "" || stripeCfg.WebhookSecret == "" || billingCfg.FrontendURL == "" {
		log.Warn("stripe or frontend configuration is incomplete, affected endpoints will answer 500",
			slog.Bool("secret_key_set", stripeCfg.SecretKey != ""),
			slog.Bool("webhook_secret_set", stripeCfg.WebhookSecret != ""),
			slog.Bool("frontend_url_set", billingCfg.FrontendURL != ""),
		)
	}

	catalog := subscription.MustNewCatalog(subscription.DefaultPlans...)
	prices, err := subscription.NewPriceResolver(catalog,
		subscription.MergePriceMappings(subscription.DefaultPriceMapping, stripeCfg.PricePlans))
	if err != nil {
		return err
	}

	db, err := mongo.NewWithDatabase(ctx, mongoCfg)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Client().Disconnect(shutdownCtx); err != nil {
			log.Warn("failed to disconnect from mongodb", logger.Error(err))
		}
	}()

	readiness := []httpserver.HealthCheck{
		{Name: "mongodb", Check: mongo.Healthcheck(db.Client())},
	}

	provider := subscription.NewStripeProvider(stripeCfg)
	reconciler := subscription.NewReconciler(catalog, prices,
		billing.NewMongoStore(db, billingCfg.UsersCollection),
		subscription.WithProvider(provider),
		subscription.WithLogger(log),
	)

	handlerOpts := []billing.HandlerOption{billing.WithLogger(log)}
	if redisCfg.Enabled() {
		rdb, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()

		handlerOpts = append(handlerOpts, billing.WithDeduper(billing.NewRedisDeduper(rdb, billingCfg.DedupTTL)))
		readiness = append(readiness, httpserver.HealthCheck{Name: "redis", Check: redis.Healthcheck(rdb)})
	} else {
		log.Info("redis is not configured, webhook event deduplication disabled")
	}

	router := billing.Router(billing.RouterOptions{
		Handler:         billing.NewHandler(billingCfg, provider, reconciler, handlerOpts...),
		AllowedOrigins:  billingCfg.AllowedOrigins,
		ReadinessChecks: readiness,
		Logger:          log,
	})

	return httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log)).Run(ctx, router)
}
