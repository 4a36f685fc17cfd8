package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"tablebook/internal/domain/booking"
	reqdto "tablebook/internal/handler/dto/request"
	resdto "tablebook/internal/handler/dto/response"
	"tablebook/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingUseCase usecase.BookingUseCase
}

func NewBookingHandler(bookingUseCase usecase.BookingUseCase) *BookingHandler {
	return &BookingHandler{
		bookingUseCase: bookingUseCase,
	}
}

// @Summary Get availability
// @Description List the time slots on a date that can still seat the party
// @Tags availability
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param party_size query int false "Party size" default(1)
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Router /availability [get]
func (h *BookingHandler) GetAvailability(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid or missing date, want YYYY-MM-DD",
		})
		return
	}

	partySize := 1
	if raw := c.Query("party_size"); raw != "" {
		parsed, parseErr := strconv.Atoi(raw)
		if parseErr != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid party size",
			})
			return
		}
		partySize = parsed
	}

	infos, err := h.bookingUseCase.GetAvailableSlots(c.Request.Context(), date, partySize)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPastDate):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Date is in the past",
			})
		case errors.Is(err, usecase.ErrBeyondWindow):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Date is beyond the booking window",
			})
		default:
			h.handleError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromSlotInfos(date, infos))
}

// @Summary Create booking
// @Description Book a table directly, without a conversation session
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]any
// @Failure 422 {object} map[string]string
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	domainReq, err := req.ToDomain()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	reservation, err := h.bookingUseCase.CreateBooking(c.Request.Context(), domainReq)
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
		case errors.Is(err, usecase.ErrPastDate):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Date is in the past",
			})
		case errors.Is(err, usecase.ErrBeyondWindow):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Date is beyond the booking window",
			})
		case errors.Is(err, usecase.ErrClosedDay):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Restaurant is closed on the requested day",
			})
		case errors.Is(err, usecase.ErrOutsideHours):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Requested time is outside operating hours",
			})
		case errors.Is(err, usecase.ErrUnalignedTime):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Requested time is not on the slot schedule",
			})
		case errors.Is(err, booking.ErrPartySizeTooSmall), errors.Is(err, booking.ErrPartySizeTooLarge):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid party size",
			})
		case errors.Is(err, booking.ErrEmptyCustomerName),
			errors.Is(err, booking.ErrCustomerNameTooLong),
			errors.Is(err, booking.ErrInvalidPhone),
			errors.Is(err, booking.ErrInvalidEmail):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": err.Error(),
			})
		default:
			h.handleError(c, err)
		}
		return
	}
	c.JSON(http.StatusCreated, resdto.FromReservation(reservation))
}

// @Summary Get booking
// @Description Get a reservation by ID
// @Tags bookings
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, ok := h.reservationID(c)
	if !ok {
		return
	}
	reservation, err := h.bookingUseCase.GetReservation(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrReservationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
			return
		}
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservation(reservation))
}

// @Summary Cancel booking
// @Description Cancel a reservation and release its seats
// @Tags bookings
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id} [delete]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, ok := h.reservationID(c)
	if !ok {
		return
	}
	reservation, err := h.bookingUseCase.CancelReservation(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
		case errors.Is(err, booking.ErrReservationCancelled):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Reservation is already cancelled",
			})
		case errors.Is(err, booking.ErrReservationCompleted):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Reservation is already completed",
			})
		default:
			h.handleError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservation(reservation))
}

func (h *BookingHandler) reservationID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID",
		})
		return uuid.Nil, false
	}
	return id, true
}

func (h *BookingHandler) handleError(c *gin.Context, err error) {
	if errors.Is(err, usecase.ErrPolicyUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Restaurant policy is not configured",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
	})
}
