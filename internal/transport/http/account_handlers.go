package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/socialmedia-server/internal/service/accounts"
)

// AccountHandlers provides HTTP handlers for registration and login.
type AccountHandlers struct {
	service *accounts.Service
	log     *zerolog.Logger
}

// NewAccountHandlers creates a new account handlers instance.
func NewAccountHandlers(svc *accounts.Service, logger *zerolog.Logger) *AccountHandlers {
	return &AccountHandlers{
		service: svc,
		log:     logger,
	}
}

// Register handles account registration.
// POST /register
func (h *AccountHandlers) Register(c *gin.Context) {
	var req AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestLogger(c, h.log).Debug().Err(err).Msg("invalid register request")
		c.JSON(http.StatusBadRequest, errClientError)
		return
	}

	account, err := h.service.Register(c.Request.Context(), req.toAccount())
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrDuplicateUsername):
			c.JSON(http.StatusConflict, errConflict)
		case errors.Is(err, accounts.ErrInvalidUsername), errors.Is(err, accounts.ErrInvalidPassword):
			c.JSON(http.StatusBadRequest, errClientError)
		default:
			requestLogger(c, h.log).Error().Err(err).Str("username", req.Username).Msg("failed to register account")
			c.JSON(http.StatusInternalServerError, errInternal)
		}
		return
	}

	requestLogger(c, h.log).Info().Int64("account_id", account.ID).Str("username", account.Username).Msg("account registered")
	c.JSON(http.StatusOK, accountToResponse(account))
}

// Login handles account login.
// POST /login
func (h *AccountHandlers) Login(c *gin.Context) {
	var req AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestLogger(c, h.log).Debug().Err(err).Msg("invalid login request")
		c.JSON(http.StatusBadRequest, errClientError)
		return
	}

	account, err := h.service.Login(c.Request.Context(), req.toAccount())
	if err != nil {
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, errUnauthorized)
			return
		}
		requestLogger(c, h.log).Error().Err(err).Str("username", req.Username).Msg("failed to login account")
		c.JSON(http.StatusInternalServerError, errInternal)
		return
	}

	c.JSON(http.StatusOK, accountToResponse(account))
}
