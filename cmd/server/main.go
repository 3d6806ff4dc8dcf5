// Command server runs the quire platform: article catalog, profile wizard,
// moderation queue, and privacy endpoints behind one HTTP listener.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"quire/internal/admin"
	"quire/internal/admin/adapters"
	"quire/internal/affiliation"
	"quire/internal/article/handler"
	articleService "quire/internal/article/service"
	articleStore "quire/internal/article/store"
	"quire/internal/audit"
	httpapi "quire/internal/http"
	moderationHandler "quire/internal/moderation/handler"
	moderationService "quire/internal/moderation/service"
	moderationStore "quire/internal/moderation/store"
	"quire/internal/platform/config"
	"quire/internal/platform/httpserver"
	"quire/internal/platform/logger"
	"quire/internal/platform/metrics"
	platformRedis "quire/internal/platform/redis"
	"quire/internal/platform/token"
	profileHandler "quire/internal/profile/handler"
	profileService "quire/internal/profile/service"
	"quire/internal/profile/session"
	profileStore "quire/internal/profile/store"
	"quire/internal/profile/validate"
	"quire/internal/privacy"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	registry, err := affiliation.LoadRegistry()
	if err != nil {
		log.Error("load institution registry failed", "error", err)
		os.Exit(1)
	}

	// Audit: everything lands in the in-memory trail; Kafka is attached
	// when brokers are configured.
	trail := audit.NewTrail(4096)
	sinks := []audit.Sink{trail}
	var kafkaSink *audit.KafkaSink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err = audit.NewKafkaSink(context.Background(), cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("kafka audit sink failed", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()
		sinks = append(sinks, kafkaSink)
	}
	publisher := audit.NewPublisher(256, log, sinks...)

	// Profiles: Postgres when configured, memory otherwise.
	var profiles profileService.Store
	if cfg.Postgres.DSN != "" {
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			log.Error("open postgres failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Error("postgres ping failed", "error", err)
			os.Exit(1)
		}
		profiles = profileStore.NewPostgres(db)
		log.Info("profile store: postgres")
	} else {
		profiles = profileStore.NewMemory()
		log.Info("profile store: memory")
	}

	// Article views: Redis when configured, memory otherwise.
	var views articleStore.ViewCounter = articleStore.NewMemoryViews()
	redisClient, err := platformRedis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		views = articleStore.NewRedisViews(redisClient.Client)
		log.Info("view counter: redis")
	}

	tokens := token.NewValidator(cfg.JWTSigningKey, cfg.JWTIssuer)
	validator := validate.New(validate.Config{RequireDepartment: cfg.RequireDepartment})
	sessions := session.NewStore(cfg.SessionTTL)

	profileSvc := profileService.New(profiles,
		profileService.WithLogger(log),
		profileService.WithMetrics(m),
		profileService.WithAuditPublisher(publisher),
	)
	articleSvc := articleService.New(articleStore.NewMemory(articleStore.SeedCatalog()), views,
		articleService.WithLogger(log),
		articleService.WithMetrics(m),
	)
	moderationSvc := moderationService.New(moderationStore.NewMemory(),
		moderationService.WithLogger(log),
		moderationService.WithMetrics(m),
		moderationService.WithAuditPublisher(publisher),
	)
	privacySvc := privacy.New(profileSvc, trail,
		privacy.WithLogger(log),
		privacy.WithAuditPublisher(publisher),
	)

	router := httpapi.NewRouter(
		handler.New(articleSvc, log, m),
		profileHandler.New(sessions, validator, registry, profileSvc, tokens, log, m),
		moderationHandler.New(moderationSvc, tokens, cfg.AdminToken, log, m),
		admin.NewHandler(adapters.NewProfileAdapter(profileSvc), trail, cfg.AdminToken, log, m),
		privacy.NewHandler(privacySvc, tokens, log, m),
	)

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting quire", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return publisher.Run(ctx)
	})
	g.Go(func() error {
		return sessions.Janitor(ctx, time.Minute)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
