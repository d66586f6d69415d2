package models

import (
	"errors"
	"fmt"
	"time"
)

// RoomCategory identifies a class of accommodation
type RoomCategory string

const (
	CategoryDormitory     RoomCategory = "Dormitory"
	CategoryDoubleShared  RoomCategory = "Double Room Shared Toilet & Shower"
	CategoryDoublePrivate RoomCategory = "Double Room Private Toilet & Bath"
	CategoryJapaneseTwin  RoomCategory = "Japanese Twin Room"
	CategoryFourBed       RoomCategory = "4 Bed Room"
)

// DateFormat is the wire format for stay dates (no time component)
const DateFormat = "2006-01-02"

// DateRange is an inclusive span of stay dates. Both endpoints count as
// occupied nights, so a checkout day still blocks the unit.
type DateRange struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// NewDateRange parses a date range from wire-format strings
func NewDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateFormat, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.Parse(DateFormat, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	r := DateRange{Start: s, End: e}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// Validate checks the range invariant start <= end
func (r DateRange) Validate() error {
	if r.End.Before(r.Start) {
		return fmt.Errorf("end date %s is before start date %s",
			r.End.Format(DateFormat), r.Start.Format(DateFormat))
	}
	return nil
}

// Overlaps reports whether two closed intervals share at least one date:
// NOT (a.End < b.Start OR a.Start > b.End)
func (r DateRange) Overlaps(other DateRange) bool {
	return !(r.End.Before(other.Start) || r.Start.After(other.End))
}

// Reservation represents a committed stay for one physical room
type Reservation struct {
	ID           string       `json:"id" db:"id"`
	GuestName    string       `json:"guest_name" db:"guest_name"`
	PayerEmail   string       `json:"payer_email" db:"payer_email"`
	RoomCategory RoomCategory `json:"room_category" db:"room_category"`
	Unit         string       `json:"unit" db:"unit"`
	StartDate    time.Time    `json:"start_date" db:"start_date"`
	EndDate      time.Time    `json:"end_date" db:"end_date"`
	PartySize    int          `json:"party_size" db:"party_size"`
	Total        float64      `json:"total" db:"total"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// Dates returns the reservation's stay interval
func (r *Reservation) Dates() DateRange {
	return DateRange{Start: r.StartDate, End: r.EndDate}
}

// BookingItem is one validated cart line item ready for allocation
type BookingItem struct {
	Category  RoomCategory
	Dates     DateRange
	PartySize int
	Total     float64
}

// Failure reasons surfaced to callers
const (
	ReasonNoAvailableUnit    = "no_available_unit"
	ReasonStorageUnavailable = "storage_unavailable"
)

// ErrReservationNotFound is returned for operations on unknown reservation IDs
var ErrReservationNotFound = errors.New("reservation not found")

// BatchError reports which cart item could not be allocated. No
// reservations from the batch survive when it is returned.
type BatchError struct {
	FailedIndex int          `json:"failed_item_index"`
	Category    RoomCategory `json:"room_category"`
	Dates       DateRange    `json:"-"`
	StartDate   string       `json:"start_date"`
	EndDate     string       `json:"end_date"`
	Reason      string       `json:"reason"`
}

// Error implements the error interface
func (e *BatchError) Error() string {
	return fmt.Sprintf("no available unit for item %d (%s, %s to %s)",
		e.FailedIndex, e.Category, e.StartDate, e.EndDate)
}

// NewBatchError builds a BatchError for an unallocatable item
func NewBatchError(index int, category RoomCategory, dates DateRange) *BatchError {
	return &BatchError{
		FailedIndex: index,
		Category:    category,
		Dates:       dates,
		StartDate:   dates.Start.Format(DateFormat),
		EndDate:     dates.End.Format(DateFormat),
		Reason:      ReasonNoAvailableUnit,
	}
}

// StorageError wraps a database failure. Callers treat it as transient:
// nothing about the request itself was wrong.
type StorageError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying driver error
func (e *StorageError) Unwrap() error {
	return e.Err
}

// ConflictError reports an update that would double-book a unit
type ConflictError struct {
	Unit  string
	Dates DateRange
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return fmt.Sprintf("unit %s is already reserved between %s and %s",
		e.Unit, e.Dates.Start.Format(DateFormat), e.Dates.End.Format(DateFormat))
}
