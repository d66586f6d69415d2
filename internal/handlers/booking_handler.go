package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sakurahouse/booking-backend/internal/models"
	"github.com/sakurahouse/booking-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// ErrorResponse is the standard error payload
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// BookingHandler handles booking-related HTTP requests
type BookingHandler struct {
	bookingService *services.BookingService
	logger         *logrus.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *services.BookingService, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         logger,
	}
}

// PaymentConfirmed handles POST /api/v1/payments/confirmed
//
// The request carries a cart whose payment has already been captured.
// Either every item becomes a reservation (201) or none do: an
// unallocatable item aborts the whole batch (409) and the caller must
// refund.
func (h *BookingHandler) PaymentConfirmed(c *gin.Context) {
	var req models.PaymentConfirmedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	reservations, err := h.bookingService.OnPaymentConfirmed(&req)
	if err != nil {
		var batchErr *models.BatchError
		if errors.As(err, &batchErr) {
			c.JSON(http.StatusConflict, batchErr)
			return
		}

		if isStorageError(err) {
			h.logger.WithError(err).Error("Booking commit failed: storage unavailable")
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{
				Error:   models.ReasonStorageUnavailable,
				Message: "Could not persist the booking, please retry",
			})
			return
		}

		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, models.BookingResultResponse{
		Status:       "booked",
		Reservations: reservations,
	})
}

// GetAvailability handles GET /api/v1/availability
func (h *BookingHandler) GetAvailability(c *gin.Context) {
	var req models.AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	dates, err := models.NewDateRange(req.StartDate, req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	units, err := h.bookingService.AvailableUnits(models.RoomCategory(req.RoomCategory), dates)
	if err != nil {
		if isStorageError(err) {
			h.logger.WithError(err).Error("Availability query failed")
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{
				Error:   models.ReasonStorageUnavailable,
				Message: "Could not read availability, please retry",
			})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.AvailabilityResponse{
		RoomCategory:   models.RoomCategory(req.RoomCategory),
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		AvailableUnits: units,
	})
}

// ListReservations handles GET /api/v1/reservations
func (h *BookingHandler) ListReservations(c *gin.Context) {
	reservations, err := h.bookingService.ListReservations()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list reservations")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   models.ReasonStorageUnavailable,
			Message: "Could not read reservations, please retry",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reservations": reservations,
		"total":        len(reservations),
	})
}

// GetReservation handles GET /api/v1/reservations/:id
func (h *BookingHandler) GetReservation(c *gin.Context) {
	reservation, err := h.bookingService.GetReservation(c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrReservationNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Reservation not found",
			})
			return
		}
		h.logger.WithError(err).Error("Failed to fetch reservation")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   models.ReasonStorageUnavailable,
			Message: "Could not read reservation, please retry",
		})
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// UpdateReservation handles PUT /api/v1/reservations/:id
func (h *BookingHandler) UpdateReservation(c *gin.Context) {
	var req models.UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	reservation, err := h.bookingService.UpdateReservation(c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, models.ErrReservationNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Reservation not found",
			})
			return
		}

		var conflictErr *models.ConflictError
		if errors.As(err, &conflictErr) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "unit_conflict",
				Message: conflictErr.Error(),
			})
			return
		}

		if isStorageError(err) {
			h.logger.WithError(err).Error("Failed to update reservation")
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{
				Error:   models.ReasonStorageUnavailable,
				Message: "Could not update reservation, please retry",
			})
			return
		}

		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// DeleteReservation handles DELETE /api/v1/reservations/:id
func (h *BookingHandler) DeleteReservation(c *gin.Context) {
	if err := h.bookingService.DeleteReservation(c.Param("id")); err != nil {
		if errors.Is(err, models.ErrReservationNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Reservation not found",
			})
			return
		}
		h.logger.WithError(err).Error("Failed to delete reservation")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   models.ReasonStorageUnavailable,
			Message: "Could not delete reservation, please retry",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reservation deleted"})
}

func isStorageError(err error) bool {
	var storageErr *models.StorageError
	return errors.As(err, &storageErr)
}
