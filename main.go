package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"utrippin/internal/activities"
	"utrippin/internal/assistant"
	"utrippin/internal/cache"
	intconfig "utrippin/internal/config"
	"utrippin/internal/db"
	"utrippin/internal/events"
	"utrippin/internal/flights"
	router "utrippin/internal/http"
	"utrippin/internal/http/handlers"
	"utrippin/internal/http/middleware"
	"utrippin/internal/logging"
	"utrippin/internal/tracing"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	env, err := intconfig.LoadEnv()
	if err != nil {
		panic(err)
	}
	if err := logging.Init(env.Log.Level); err != nil {
		panic(err)
	}
	defer logging.Sync()
	log := logging.L()

	if env.HTTP.GinMode != "" {
		gin.SetMode(env.HTTP.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Enabled:     env.Tracing.Enabled,
		Endpoint:    env.Tracing.Endpoint,
		ServiceName: env.App.Name,
	})
	if err != nil {
		log.Fatal("tracing init failed", zap.Error(err))
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	conn, err := intconfig.ConnectDB(env.MySQL)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer intconfig.CloseDB()
	if err := db.EnsureSchema(ctx, conn); err != nil {
		log.Fatal("schema bootstrap failed", zap.Error(err))
	}

	// redis is optional: searches fall back to memory, idempotency turns off
	var rdb *redis.Client
	if client, err := intconfig.NewRedisClient(ctx, env.Redis); err != nil {
		log.Warn("redis unavailable, using in-memory search cache", zap.Error(err))
	} else {
		rdb = client
		defer func() { _ = rdb.Close() }()
	}

	deps := handlers.Deps{
		Searches:      cache.NewSearches(rdb, env.Flights.SearchTTL),
		AlertCooldown: env.Alerts.Cooldown,
	}

	catalog, err := flights.NewCatalog(env.Flights.CatalogPath)
	if err != nil {
		log.Fatal("flight catalog load failed", zap.Error(err))
	}
	deps.Offers = catalog

	matcher, err := activities.NewMatcher()
	if err != nil {
		log.Fatal("activity catalogue load failed", zap.Error(err))
	}
	deps.Matcher = matcher
	log.Info("catalogues loaded",
		zap.Int("flight_templates", catalog.Len()),
		zap.Int("experiences", len(matcher.Experiences())))

	if env.Kafka.Enabled {
		producer := events.NewProducer(events.Config{Brokers: env.Kafka.Brokers, Topic: env.Kafka.AlertsTopic})
		defer func() { _ = producer.Close() }()
		deps.Notifier = events.AlertPublisher{Sender: producer}
		log.Info("usage alerts publish to kafka", zap.String("topic", producer.Topic()))
	}

	if env.Gemini.APIKey != "" {
		gen, err := assistant.NewGeminiGenerator(ctx, env.Gemini.APIKey, env.Gemini.Model)
		if err != nil {
			log.Warn("assistant model unavailable", zap.Error(err))
		} else {
			deps.Generator = gen
		}
	}

	var idem middleware.IdempotencyStore
	if rdb != nil {
		idem = cache.NewIdempotency(rdb)
	}

	r := router.NewRouter(env, deps, idem)

	srv := &http.Server{
		Addr:              env.HTTP.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       env.HTTP.ReadTimeout,
		WriteTimeout:      env.HTTP.WriteTimeout,
		IdleTimeout:       env.HTTP.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", zap.String("addr", env.HTTP.AppAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if env.Alerts.Enabled {
		g.Go(func() error {
			return handlers.AlertService("alert-worker").Run(gctx, env.Alerts.Interval)
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		return
	}
	log.Info("server stopped")
}
