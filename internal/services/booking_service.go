package services

import (
	"errors"
	"fmt"

	"github.com/sakurahouse/booking-backend/internal/catalog"
	"github.com/sakurahouse/booking-backend/internal/database"
	"github.com/sakurahouse/booking-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// BookingServiceConfig holds configuration for the booking engine
type BookingServiceConfig struct {
	// CommitRetries bounds how often a batch is retried after losing a
	// transactional conflict with a concurrent booking.
	CommitRetries int
}

// DefaultBookingConfig returns default configuration
func DefaultBookingConfig() BookingServiceConfig {
	return BookingServiceConfig{CommitRetries: 3}
}

// BookingService turns a confirmed payment into committed reservations:
// it allocates one physical unit per cart item and persists the batch
// atomically.
type BookingService struct {
	reservationRepo *database.ReservationRepository
	catalog         *catalog.Catalog
	config          BookingServiceConfig
	logger          *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	reservationRepo *database.ReservationRepository,
	cat *catalog.Catalog,
	config BookingServiceConfig,
	logger *logrus.Logger,
) *BookingService {
	if config.CommitRetries < 0 {
		config = DefaultBookingConfig()
	}
	return &BookingService{
		reservationRepo: reservationRepo,
		catalog:         cat,
		config:          config,
		logger:          logger,
	}
}

// allocate picks the first unit in catalog order that is not in the taken
// set. Lowest catalog index wins so allocation is reproducible for a given
// overlap set. ok=false means the category is unknown, empty, or full.
func (s *BookingService) allocate(category models.RoomCategory, taken map[string]struct{}) (string, bool) {
	for _, unit := range s.catalog.UnitsFor(category) {
		if _, reserved := taken[unit]; !reserved {
			return unit, true
		}
	}
	return "", false
}

// OnPaymentConfirmed is the entry point for a confirmed payment event.
// It validates and normalizes the cart, commits the batch, and returns
// the reservations in cart order. Validation failures reject the whole
// cart before any allocation is attempted.
func (s *BookingService) OnPaymentConfirmed(req *models.PaymentConfirmedRequest) ([]models.Reservation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	items := make([]models.BookingItem, len(req.CartItems))
	for i, cartItem := range req.CartItems {
		category := models.RoomCategory(cartItem.RoomCategory)
		if !s.catalog.HasCategory(category) {
			return nil, fmt.Errorf("cart item %d: unknown room category %q", i, cartItem.RoomCategory)
		}

		dates, err := models.NewDateRange(cartItem.StartDate, cartItem.EndDate)
		if err != nil {
			return nil, fmt.Errorf("cart item %d: %w", i, err)
		}

		items[i] = models.BookingItem{
			Category:  category,
			Dates:     dates,
			PartySize: cartItem.PartySize,
			Total:     cartItem.Total,
		}
	}

	return s.CommitBatch(req.PayerName, req.PayerEmail, items)
}

// CommitBatch allocates and persists one reservation per item, in order,
// inside a single transaction. A batch that loses a serialization conflict
// with a concurrent booking is retried against refreshed availability, a
// bounded number of times, before the outcome is surfaced.
func (s *BookingService) CommitBatch(guestName, payerEmail string, items []models.BookingItem) ([]models.Reservation, error) {
	if len(items) == 0 {
		return nil, errors.New("batch must contain at least one item")
	}

	var lastErr error
	attempts := s.config.CommitRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		reservations, err := s.reservationRepo.CreateBatch(guestName, payerEmail, items, s.allocate)
		if err == nil {
			s.logger.WithFields(logrus.Fields{
				"guest":        guestName,
				"items":        len(items),
				"reservations": len(reservations),
				"attempt":      attempt,
			}).Info("Booking batch committed")
			return reservations, nil
		}

		var batchErr *models.BatchError
		if errors.As(err, &batchErr) {
			s.logger.WithFields(logrus.Fields{
				"guest":        guestName,
				"failed_index": batchErr.FailedIndex,
				"category":     batchErr.Category,
				"start_date":   batchErr.StartDate,
				"end_date":     batchErr.EndDate,
			}).Warn("Booking batch aborted: no available unit")
			return nil, batchErr
		}

		if database.IsRetryableTxError(err) && attempt < attempts {
			s.logger.WithError(err).WithField("attempt", attempt).
				Warn("Booking batch lost a transactional conflict, retrying")
			lastErr = err
			continue
		}

		return nil, fmt.Errorf("failed to commit booking batch: %w", err)
	}

	return nil, fmt.Errorf("failed to commit booking batch after %d attempts: %w", attempts, lastErr)
}

// AvailableUnits returns the free units of a category for a date range,
// in catalog order.
func (s *BookingService) AvailableUnits(category models.RoomCategory, dates models.DateRange) ([]string, error) {
	if !s.catalog.HasCategory(category) {
		return nil, fmt.Errorf("unknown room category %q", category)
	}

	taken, err := s.reservationRepo.FindOverlappingUnits(category, dates)
	if err != nil {
		return nil, err
	}

	free := []string{}
	for _, unit := range s.catalog.UnitsFor(category) {
		if _, reserved := taken[unit]; !reserved {
			free = append(free, unit)
		}
	}
	return free, nil
}

// ListReservations returns all persisted reservations
func (s *BookingService) ListReservations() ([]models.Reservation, error) {
	return s.reservationRepo.List()
}

// GetReservation returns a single reservation by ID
func (s *BookingService) GetReservation(id string) (*models.Reservation, error) {
	return s.reservationRepo.GetByID(id)
}

// UpdateReservation rewrites a reservation, enforcing the same non-overlap
// invariant as booking: the requested unit must be free for the new dates.
func (s *BookingService) UpdateReservation(id string, req *models.UpdateReservationRequest) (*models.Reservation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	category := models.RoomCategory(req.RoomCategory)
	if !s.catalog.HasCategory(category) {
		return nil, fmt.Errorf("unknown room category %q", req.RoomCategory)
	}

	unitKnown := false
	for _, unit := range s.catalog.UnitsFor(category) {
		if unit == req.Unit {
			unitKnown = true
			break
		}
	}
	if !unitKnown {
		return nil, fmt.Errorf("unit %q does not belong to category %q", req.Unit, req.RoomCategory)
	}

	dates, err := models.NewDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	updated, err := s.reservationRepo.Update(id, &models.Reservation{
		GuestName:    req.GuestName,
		PayerEmail:   req.PayerEmail,
		RoomCategory: category,
		Unit:         req.Unit,
		StartDate:    dates.Start,
		EndDate:      dates.End,
		PartySize:    req.PartySize,
		Total:        req.Total,
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"reservation_id": id,
		"unit":           updated.Unit,
		"category":       updated.RoomCategory,
	}).Info("Reservation updated")

	return updated, nil
}

// DeleteReservation removes a reservation by ID
func (s *BookingService) DeleteReservation(id string) error {
	if err := s.reservationRepo.Delete(id); err != nil {
		return err
	}

	s.logger.WithField("reservation_id", id).Info("Reservation deleted")
	return nil
}
