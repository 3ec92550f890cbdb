package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/socialmedia-server/internal/service/messages"
)

// MessageHandlers provides HTTP handlers for message endpoints.
type MessageHandlers struct {
	service *messages.Service
	log     *zerolog.Logger
}

// NewMessageHandlers creates a new message handlers instance.
func NewMessageHandlers(svc *messages.Service, logger *zerolog.Logger) *MessageHandlers {
	return &MessageHandlers{
		service: svc,
		log:     logger,
	}
}

// Post handles message creation.
// POST /messages
func (h *MessageHandlers) Post(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestLogger(c, h.log).Debug().Err(err).Msg("invalid post message request")
		c.JSON(http.StatusBadRequest, errClientError)
		return
	}

	msg, err := h.service.Post(c.Request.Context(), req.toMessage())
	if err != nil {
		if errors.Is(err, messages.ErrUserNotInDB) || errors.Is(err, messages.ErrInvalidMessageText) {
			requestLogger(c, h.log).Debug().Err(err).Int64("posted_by", req.PostedBy).Msg("message rejected")
			c.JSON(http.StatusBadRequest, errClientError)
			return
		}
		requestLogger(c, h.log).Error().Err(err).Int64("posted_by", req.PostedBy).Msg("failed to post message")
		c.JSON(http.StatusInternalServerError, errInternal)
		return
	}

	c.JSON(http.StatusOK, messageToResponse(msg))
}

// List handles listing all messages.
// GET /messages
func (h *MessageHandlers) List(c *gin.Context) {
	msgs, err := h.service.List(c.Request.Context())
	if err != nil {
		requestLogger(c, h.log).Error().Err(err).Msg("failed to list messages")
		c.JSON(http.StatusInternalServerError, errInternal)
		return
	}

	c.JSON(http.StatusOK, messagesToResponse(msgs))
}

// Get handles fetching a single message. An unknown id yields 200 with an empty body.
// GET /messages/:messageId
func (h *MessageHandlers) Get(c *gin.Context) {
	id, ok := pathID(c, "messageId")
	if !ok {
		return
	}

	msg, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, messages.ErrMessageNotFound) {
			c.Status(http.StatusOK)
			return
		}
		requestLogger(c, h.log).Error().Err(err).Int64("message_id", id).Msg("failed to get message")
		c.JSON(http.StatusInternalServerError, errInternal)
		return
	}

	c.JSON(http.StatusOK, messageToResponse(msg))
}

// Delete handles message deletion. An unknown id yields 200 with an empty body.
// DELETE /messages/:messageId
func (h *MessageHandlers) Delete(c *gin.Context) {
	id, ok := pathID(c, "messageId")
	if !ok {
		return
	}

	affected, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, messages.ErrMessageNotFound) {
			c.Status(http.StatusOK)
			return
		}
		requestLogger(c, h.log).Error().Err(err).Int64("message_id", id).Msg("failed to delete message")
		c.JSON(http.StatusInternalServerError, errInternal)
		return
	}

	c.JSON(http.StatusOK, affected)
}

// Update handles replacing a message's text.
// PATCH /messages/:messageId
func (h *MessageHandlers) Update(c *gin.Context) {
	id, ok := pathID(c, "messageId")
	if !ok {
		return
	}

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestLogger(c, h.log).Debug().Err(err).Msg("invalid update message request")
		c.JSON(http.StatusBadRequest, errClientError)
		return
	}

	affected, err := h.service.Update(c.Request.Context(), id, req.toMessage())
	if err != nil {
		if errors.Is(err, messages.ErrInvalidMessageText) || errors.Is(err, messages.ErrMessageNotFound) {
			c.JSON(http.StatusBadRequest, errClientError)
			return
		}
		requestLogger(c, h.log).Error().Err(err).Int64("message_id", id).Msg("failed to update message")
		c.JSON(http.StatusInternalServerError, errInternal)
		return
	}

	c.JSON(http.StatusOK, affected)
}

// ListByAccount handles listing the messages of one account.
// GET /accounts/:accountId/messages
func (h *MessageHandlers) ListByAccount(c *gin.Context) {
	accountID, ok := pathID(c, "accountId")
	if !ok {
		return
	}

	msgs, err := h.service.ListByAccount(c.Request.Context(), accountID)
	if err != nil {
		requestLogger(c, h.log).Error().Err(err).Int64("account_id", accountID).Msg("failed to list account messages")
		c.JSON(http.StatusInternalServerError, errInternal)
		return
	}

	c.JSON(http.StatusOK, messagesToResponse(msgs))
}

// pathID parses an integer path parameter, answering 400 itself when it is malformed.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errClientError)
		return 0, false
	}
	return id, true
}
