package api

import (
	"errors"
	"net/http"

	"tablebook/internal/domain/conversation"
	reqdto "tablebook/internal/handler/dto/request"
	resdto "tablebook/internal/handler/dto/response"
	"tablebook/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ConversationHandler struct {
	conversationUseCase usecase.ConversationUseCase
}

func NewConversationHandler(conversationUseCase usecase.ConversationUseCase) *ConversationHandler {
	return &ConversationHandler{
		conversationUseCase: conversationUseCase,
	}
}

// @Summary Start conversation
// @Description Start a new booking conversation session
// @Tags conversations
// @Produce json
// @Success 201 {object} resdto.SessionResponse
// @Router /conversations [post]
func (h *ConversationHandler) Start(c *gin.Context) {
	snapshot, err := h.conversationUseCase.Start(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromSnapshot(snapshot))
}

// @Summary Get conversation
// @Description Get the current state and context of a conversation session
// @Tags conversations
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.SessionResponse
// @Failure 404 {object} map[string]string
// @Router /conversations/{id} [get]
func (h *ConversationHandler) Get(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	snapshot, err := h.conversationUseCase.Get(id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSnapshot(snapshot))
}

// @Summary Update conversation context
// @Description Apply extracted field values to the conversation context
// @Tags conversations
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body reqdto.UpdateContextRequest true "Field updates"
// @Success 200 {object} resdto.UpdateContextResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /conversations/{id}/context [patch]
func (h *ConversationHandler) UpdateContext(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req reqdto.UpdateContextRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	updates, parseErrors := req.ToUpdates()
	result, snapshot, err := h.conversationUseCase.UpdateFields(id, updates)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromUpdateResult(result, snapshot, parseErrors))
}

// @Summary Transition conversation state
// @Description Explicitly move the conversation to a target state
// @Tags conversations
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body reqdto.TransitionRequest true "Target state"
// @Success 200 {object} resdto.SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /conversations/{id}/transition [post]
func (h *ConversationHandler) Transition(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req reqdto.TransitionRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	target := conversation.State(req.State)
	if !target.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown state",
		})
		return
	}

	snapshot, err := h.conversationUseCase.TransitionTo(id, target)
	if err != nil {
		var transitionErr *conversation.StateTransitionError
		if errors.As(err, &transitionErr) {
			c.JSON(http.StatusConflict, gin.H{
				"error": transitionErr.Reason,
			})
			return
		}
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSnapshot(snapshot))
}

// @Summary Advance conversation
// @Description Move the conversation to the next logical state based on collected fields
// @Tags conversations
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.SessionResponse
// @Failure 404 {object} map[string]string
// @Router /conversations/{id}/advance [post]
func (h *ConversationHandler) Advance(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	snapshot, _, err := h.conversationUseCase.Advance(id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSnapshot(snapshot))
}

// @Summary Reset conversation
// @Description Discard the collected context and return to greeting
// @Tags conversations
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.SessionResponse
// @Failure 404 {object} map[string]string
// @Router /conversations/{id}/reset [post]
func (h *ConversationHandler) Reset(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	snapshot, err := h.conversationUseCase.Reset(id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSnapshot(snapshot))
}

// @Summary Complete conversation
// @Description Create the reservation from the collected context
// @Tags conversations
// @Produce json
// @Param id path string true "Session ID"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]any
// @Failure 422 {object} map[string]string
// @Router /conversations/{id}/complete [post]
func (h *ConversationHandler) Complete(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	reservation, _, err := h.conversationUseCase.Complete(c.Request.Context(), id)
	if err != nil {
		var capErr *usecase.CapacityError
		switch {
		case errors.As(err, &capErr):
			c.JSON(http.StatusConflict, gin.H{
				"error":  "Insufficient capacity for the requested slot",
				"detail": resdto.FromCapacityError(capErr),
			})
		case errors.Is(err, usecase.ErrDuplicateBooking):
			c.JSON(http.StatusConflict, gin.H{
				"error": "A booking with this phone already exists for the slot",
			})
		case errors.Is(err, usecase.ErrBookingNotReady):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Conversation has not collected all required fields",
			})
		case errors.Is(err, usecase.ErrPastDate),
			errors.Is(err, usecase.ErrBeyondWindow),
			errors.Is(err, usecase.ErrClosedDay),
			errors.Is(err, usecase.ErrOutsideHours),
			errors.Is(err, usecase.ErrUnalignedTime):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": err.Error(),
			})
		case errors.Is(err, usecase.ErrAlreadyCompleted):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Conversation already completed a booking",
			})
		default:
			h.handleError(c, err)
		}
		return
	}
	c.JSON(http.StatusCreated, resdto.FromReservation(reservation))
}

func (h *ConversationHandler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid session ID",
		})
		return uuid.Nil, false
	}
	return id, true
}

func (h *ConversationHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Session not found",
		})
	case errors.Is(err, usecase.ErrPolicyUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Restaurant policy is not configured",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
