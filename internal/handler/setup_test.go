package handler

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/AyanAlikhan11/connext-Alumni/internal/auth"
	"github.com/AyanAlikhan11/connext-Alumni/internal/config"
	"github.com/AyanAlikhan11/connext-Alumni/internal/domain"
	"github.com/AyanAlikhan11/connext-Alumni/internal/hub"
	"github.com/AyanAlikhan11/connext-Alumni/internal/middleware"
	"github.com/AyanAlikhan11/connext-Alumni/internal/repository"
	"github.com/AyanAlikhan11/connext-Alumni/internal/service"
	"github.com/AyanAlikhan11/connext-Alumni/pkg/database"
)

// testServer boots the full stack against a throwaway sqlite database and
// returns the running httptest server.
func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	req := require.New(t)

	auth.RegisterValidators()

	db, err := database.New(&database.Config{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	})
	req.NoError(err)
	req.NoError(database.AutoMigrate(db,
		&domain.UserModel{},
		&domain.ConversationModel{},
		&domain.ParticipantModel{},
		&domain.MessageModel{},
	))

	tokens := auth.NewTokenManager("test-secret", time.Hour, "connext-test", auth.NewMemoryRevocationStore())

	userRepo := repository.NewGormUserRepository(db)
	convRepo := repository.NewGormConversationRepository(db)
	authSvc := service.NewAuthService(userRepo, tokens)
	convSvc := service.NewConversationService(convRepo, userRepo)

	wsCfg := config.WebSocketConfig{
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 4096,
	}

	relayHub := hub.NewHub(wsCfg)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go relayHub.Run(ctx)

	authMw := middleware.NewAuthMiddleware(tokens)
	limiter := middleware.NewRateLimiter(nil, 0, 0, zerolog.Nop())

	httpHandler := NewHandler(authSvc, convSvc, authMw)
	wsHandler := NewWSHandler(relayHub, tokens, wsCfg, "http://localhost:3000")

	router := NewRouter(zerolog.Nop(), "http://localhost:3000", limiter, httpHandler, wsHandler)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}
