package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/ichi/internal/account"
	"github.com/vovakirdan/ichi/internal/auth"
)

// APIHandlers serves the plain-text account endpoints.
type APIHandlers struct {
	authService *auth.Service
	log         *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(authService *auth.Service, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{
		authService: authService,
		log:         logger,
	}
}

// StatsResponse is the body of a successful statistics lookup.
type StatsResponse struct {
	Username    string `json:"username"`
	GamesPlayed int    `json:"gamesPlayed"`
	GamesWon    int    `json:"gamesWon"`
}

// Login checks credentials.
// POST /login, body "<username> <password>"
func (h *APIHandlers) Login(c *gin.Context) {
	username, password, ok := readCredentials(c)
	if !ok {
		c.String(http.StatusOK, account.ReplyFailure)
		return
	}

	if err := h.authService.Login(c.Request.Context(), username, password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, auth.ErrMalformedCredentials) {
			h.log.Debug().Str("username", username).Msg("login refused")
			c.String(http.StatusOK, account.ReplyFailure)
			return
		}
		h.log.Error().Err(err).Str("username", username).Msg("failed to login user")
		c.String(http.StatusInternalServerError, account.ReplyFailure)
		return
	}

	h.log.Info().Str("username", username).Msg("user logged in successfully")
	c.String(http.StatusOK, account.ReplySuccess)
}

// CreateAccount registers a user.
// POST /createAccount, body "<username> <password>"
func (h *APIHandlers) CreateAccount(c *gin.Context) {
	username, password, ok := readCredentials(c)
	if !ok {
		c.String(http.StatusOK, account.ReplyFailure)
		return
	}

	if err := h.authService.CreateAccount(c.Request.Context(), username, password); err != nil {
		if errors.Is(err, auth.ErrUserExists) || errors.Is(err, auth.ErrMalformedCredentials) {
			h.log.Debug().Err(err).Str("username", username).Msg("account refused")
			c.String(http.StatusOK, account.ReplyFailure)
			return
		}
		h.log.Error().Err(err).Str("username", username).Msg("failed to register user")
		c.String(http.StatusInternalServerError, account.ReplyFailure)
		return
	}

	h.log.Info().Str("username", username).Msg("user registered successfully")
	c.String(http.StatusOK, account.ReplySuccess)
}

// Statistics returns a player's record.
// POST /get, body "<username>"
func (h *APIHandlers) Statistics(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.String(http.StatusBadRequest, account.ReplyFailure)
		return
	}
	username := strings.TrimSpace(string(raw))

	stats, err := h.authService.Statistics(c.Request.Context(), username)
	if err != nil {
		if !errors.Is(err, auth.ErrUnknownUser) {
			h.log.Error().Err(err).Str("username", username).Msg("failed to load statistics")
		}
		c.String(http.StatusOK, account.ReplyFailure)
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		Username:    stats.Username,
		GamesPlayed: stats.GamesPlayed,
		GamesWon:    stats.GamesWon,
	})
}

func readCredentials(c *gin.Context) (username, password string, ok bool) {
	raw, err := c.GetRawData()
	if err != nil {
		return "", "", false
	}
	return strings.Cut(string(raw), " ")
}
