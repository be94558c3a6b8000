package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"servihub/internal/config"
	"servihub/internal/domain/ports/repository"
	"servihub/internal/infra/auth"
	pg "servihub/internal/infra/db/postgres"
	"servihub/internal/infra/email"
	"servihub/internal/infra/logging"
	"servihub/internal/infra/metrics"
	red "servihub/internal/infra/redis"
	"servihub/internal/infra/web"
	"servihub/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, relaxed sampling)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis (optional) ----
	var redisClient red.RedisClient
	var rateLimiter *red.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err = red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		rateLimiter = red.NewRateLimiter(redisClient)
	} else {
		logger.Warn().Msg("redis not configured; plan cache and login throttling disabled")
	}

	// ---- Repositories ----
	accountRepo := pg.NewAccountRepo(pool)
	adminRepo := pg.NewAdminRepo(pool)
	serviceRepo := pg.NewServiceRepo(pool)
	usageRepo := pg.NewUsageRepo(pool)
	channelRepo := pg.NewChannelRepo(pool)
	paymentRepo := pg.NewPaymentRepo(pool)
	subscriptionRepo := pg.NewSubscriptionRepo(pool)

	var planRepo repository.SubscriptionPlanRepository = pg.NewPlanRepo(pool)
	if redisClient != nil {
		planRepo = pg.NewPlanRepoCacheDecorator(planRepo, redisClient, cfg.Redis.TTL)
	}

	tm := pg.NewTxManager(pool)

	// ---- Adapters ----
	mailer := email.NewSMTPMailer(cfg.SMTP, cfg.Server.BaseURL)

	// ---- Use cases ----
	accountUC := usecase.NewAccountUseCase(accountRepo, adminRepo, mailer, logger)
	catalogUC := usecase.NewCatalogUseCase(serviceRepo, planRepo, channelRepo, paymentRepo, logger)
	ledgerUC := usecase.NewLedgerUseCase(accountRepo, serviceRepo, usageRepo, planRepo, subscriptionRepo, tm, cfg.Billing.ServiceCost, logger)
	paymentUC := usecase.NewPaymentUseCase(paymentRepo, channelRepo, accountRepo, tm, logger)

	// ---- HTTP ----
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	gate := auth.NewGate(accountRepo, adminRepo)
	server := web.NewServer(cfg, accountUC, ledgerUC, paymentUC, catalogUC, tokens, gate, rateLimiter, logger)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	// ---- Shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	logger.Info().Msg("bye")
}
