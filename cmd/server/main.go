package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/AyanAlikhan11/connext-Alumni/internal/auth"
	"github.com/AyanAlikhan11/connext-Alumni/internal/config"
	"github.com/AyanAlikhan11/connext-Alumni/internal/domain"
	"github.com/AyanAlikhan11/connext-Alumni/internal/handler"
	"github.com/AyanAlikhan11/connext-Alumni/internal/hub"
	"github.com/AyanAlikhan11/connext-Alumni/internal/middleware"
	"github.com/AyanAlikhan11/connext-Alumni/internal/repository"
	"github.com/AyanAlikhan11/connext-Alumni/internal/service"
	"github.com/AyanAlikhan11/connext-Alumni/pkg/database"
	"github.com/AyanAlikhan11/connext-Alumni/pkg/log"
)

func main() {
	// Local development reads secrets from a .env file, like the original.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		l := log.L()
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Init(cfg.Log)
	logger := log.L()

	if cfg.Auth.Secret == "" {
		logger.Fatal().Msg("AUTH_SECRET is required")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.AutoMigrate(db,
		&domain.UserModel{},
		&domain.ConversationModel{},
		&domain.ParticipantModel{},
		&domain.MessageModel{},
	); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("database connected")

	// Redis is optional: it backs token revocation and rate limiting when
	// configured, with in-process fallbacks otherwise.
	var redisClient *redis.Client
	var revocation auth.RevocationStore = auth.NewMemoryRevocationStore()
	if cfg.Redis.Address != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		revocation = auth.NewRedisRevocationStore(redisClient)
		logger.Info().Str("address", cfg.Redis.Address).Msg("redis connected")
	}

	tokens := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL, cfg.Auth.Issuer, revocation)
	auth.RegisterValidators()

	userRepo := repository.NewGormUserRepository(db)
	convRepo := repository.NewGormConversationRepository(db)

	authSvc := service.NewAuthService(userRepo, tokens)
	convSvc := service.NewConversationService(convRepo, userRepo)

	relayHub := hub.NewHub(cfg.WebSocket)

	authMw := middleware.NewAuthMiddleware(tokens)
	limiter := middleware.NewRateLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window, logger)

	httpHandler := handler.NewHandler(authSvc, convSvc, authMw)
	wsHandler := handler.NewWSHandler(relayHub, tokens, cfg.WebSocket, cfg.Server.FrontendOrigin)

	router := handler.NewRouter(logger, cfg.Server.FrontendOrigin, limiter, httpHandler, wsHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		relayHub.Run(ctx)
		return nil
	})

	g.Go(func() error {
		logger.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
}
