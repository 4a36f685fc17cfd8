package api

import (
	"errors"
	"net/http"
	"time"

	reqdto "tablebook/internal/handler/dto/request"
	resdto "tablebook/internal/handler/dto/response"
	"tablebook/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	bookingUseCase usecase.BookingUseCase
	policyUseCase  usecase.PolicyUseCase
}

func NewAdminHandler(bookingUseCase usecase.BookingUseCase, policyUseCase usecase.PolicyUseCase) *AdminHandler {
	return &AdminHandler{
		bookingUseCase: bookingUseCase,
		policyUseCase:  policyUseCase,
	}
}

// @Summary Generate time slots
// @Description Pre-create the slot rows for a date, or for the whole booking window when no date is given; a no-op where rows exist
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.GenerateSlotsRequest false "Target date"
// @Success 200 {object} resdto.GenerateSlotsResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /admin/slots [post]
func (h *AdminHandler) GenerateSlots(c *gin.Context) {
	var req reqdto.GenerateSlotsRequest
	if c.Request.ContentLength > 0 {
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request format",
			})
			return
		}
	}

	var (
		created int
		err     error
	)
	if req.Date == "" {
		created, err = h.bookingUseCase.GenerateHorizonSlots(c.Request.Context())
	} else {
		var date time.Time
		date, err = req.ParseDate()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
		created, err = h.bookingUseCase.GenerateTimeSlots(c.Request.Context(), date)
	}
	if err != nil {
		if errors.Is(err, usecase.ErrPolicyUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Restaurant policy is not configured",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, resdto.GenerateSlotsResponse{
		Date:    req.Date,
		Created: created,
	})
}

// @Summary Reload policy
// @Description Re-read the restaurant policy from the database
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /admin/policy/reload [post]
func (h *AdminHandler) ReloadPolicy(c *gin.Context) {
	cfg, err := h.policyUseCase.Reload(c.Request.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrPolicyUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Restaurant policy is not configured",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"restaurant": cfg.RestaurantName(),
	})
}
