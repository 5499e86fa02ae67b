package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AyanAlikhan11/connext-Alumni/internal/domain"
	"github.com/AyanAlikhan11/connext-Alumni/internal/middleware"
	"github.com/AyanAlikhan11/connext-Alumni/internal/repository"
	"github.com/AyanAlikhan11/connext-Alumni/internal/service"
	"github.com/AyanAlikhan11/connext-Alumni/pkg/log"
	"github.com/AyanAlikhan11/connext-Alumni/pkg/response"
)

// Handler handles the REST surface: auth lifecycle and conversation history.
type Handler struct {
	authService         service.AuthService
	conversationService service.ConversationService
	authMiddleware      *middleware.AuthMiddleware
}

// NewHandler creates a new HTTP handler.
func NewHandler(authService service.AuthService, conversationService service.ConversationService, authMiddleware *middleware.AuthMiddleware) *Handler {
	return &Handler{
		authService:         authService,
		conversationService: conversationService,
		authMiddleware:      authMiddleware,
	}
}

// RegisterRoutes registers all REST routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
			auth.POST("/logout", h.authMiddleware.RequireAuth(), h.Logout)
			auth.GET("/me", h.authMiddleware.RequireAuth(), h.Me)
			auth.PUT("/profile", h.authMiddleware.RequireAuth(), h.UpdateProfile)
		}

		messages := api.Group("/messages")
		messages.Use(h.authMiddleware.RequireAuth())
		{
			messages.GET("/conversations", h.ListConversations)
			messages.POST("/conversations", h.CreateConversation)
			messages.GET("/conversations/:id", h.ListMessages)
			messages.POST("/conversations/:id", h.SendMessage)
		}

		api.GET("/health", h.Health)
	}
}

// Register handles account creation.
func (h *Handler) Register(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid register request")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Register(ctx, &req)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			response.Conflict(c, "email already exists")
			return
		}
		if errors.Is(err, repository.ErrUsernameExists) {
			response.Conflict(c, "username already exists")
			return
		}
		l.Error().Err(err).Msg("register failed")
		response.InternalError(c, "failed to register")
		return
	}

	response.Created(c, result)
}

// Login handles credential authentication. Invalid credentials are a client
// fault, not a session fault, so this responds 400 rather than the 401 that
// makes the gateway discard its session.
func (h *Handler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid login request")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Login(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.BadRequest(c, "invalid email or password")
			return
		}
		l.Error().Err(err).Msg("login failed")
		response.InternalError(c, "failed to login")
		return
	}

	response.Success(c, result)
}

// Logout revokes the presented token.
func (h *Handler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.authService.Logout(ctx, middleware.GetToken(c)); err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("logout failed")
		response.InternalError(c, "failed to logout")
		return
	}
	response.Success(c, gin.H{"message": "logged out"})
}

// Me returns the authenticated user.
func (h *Handler) Me(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := h.authService.Me(ctx, middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("me lookup failed")
		response.InternalError(c, "failed to load profile")
		return
	}
	response.Success(c, user)
}

// UpdateProfile applies profile changes for the authenticated user.
func (h *Handler) UpdateProfile(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.UpdateProfile(ctx, middleware.GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		l.Error().Err(err).Msg("profile update failed")
		response.InternalError(c, "failed to update profile")
		return
	}
	response.Success(c, user)
}

// ListConversations returns the caller's conversation summaries.
func (h *Handler) ListConversations(c *gin.Context) {
	ctx := c.Request.Context()

	summaries, err := h.conversationService.ListConversations(ctx, middleware.GetUserID(c))
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("conversation listing failed")
		response.InternalError(c, "failed to list conversations")
		return
	}
	response.Success(c, summaries)
}

// CreateConversation explicitly starts a conversation with another alumnus.
func (h *Handler) CreateConversation(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	conv, err := h.conversationService.CreateConversation(ctx, middleware.GetUserID(c), req.ParticipantID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.NotFound(c, "participant not found")
			return
		}
		if errors.Is(err, service.ErrNotParticipant) {
			response.BadRequest(c, "cannot start a conversation with yourself")
			return
		}
		l.Error().Err(err).Msg("conversation creation failed")
		response.InternalError(c, "failed to create conversation")
		return
	}
	response.Created(c, conv)
}

// ListMessages returns a conversation's history in creation order.
func (h *Handler) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()

	msgs, err := h.conversationService.ListMessages(ctx, c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) || errors.Is(err, service.ErrNotParticipant) {
			response.NotFound(c, "conversation not found")
			return
		}
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("message listing failed")
		response.InternalError(c, "failed to list messages")
		return
	}
	response.Success(c, msgs)
}

// SendMessage appends a message to a conversation.
func (h *Handler) SendMessage(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	msg, err := h.conversationService.AppendMessage(ctx, c.Param("id"), middleware.GetUserID(c), req.Message)
	if err != nil {
		if errors.Is(err, service.ErrEmptyBody) {
			response.BadRequest(c, "message body is empty")
			return
		}
		if errors.Is(err, repository.ErrConversationNotFound) || errors.Is(err, service.ErrNotParticipant) {
			response.NotFound(c, "conversation not found")
			return
		}
		l.Error().Err(err).Msg("message append failed")
		response.InternalError(c, "failed to send message")
		return
	}
	response.Created(c, msg)
}

// Health reports service liveness, shaped like the original API's check.
func (h *Handler) Health(c *gin.Context) {
	response.Success(c, gin.H{
		"status":    "OK",
		"message":   "ConnextAlumni API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
