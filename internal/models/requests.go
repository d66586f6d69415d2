package models

import (
	"errors"
	"fmt"
	"strings"
)

// CartItem is one line item of a paid cart as received from the payment flow
type CartItem struct {
	RoomCategory string  `json:"room_category" binding:"required"`
	StartDate    string  `json:"start_date" binding:"required"`
	EndDate      string  `json:"end_date" binding:"required"`
	PartySize    int     `json:"party_size" binding:"required,min=1"`
	Total        float64 `json:"total"`
}

// PaymentConfirmedRequest is the confirmed-payment event consumed by the
// booking engine. Payment capture itself happens upstream; by the time
// this arrives the money has been taken for every item in the cart.
type PaymentConfirmedRequest struct {
	PayerName  string     `json:"payer_name" binding:"required"`
	PayerEmail string     `json:"payer_email" binding:"required,email"`
	CartItems  []CartItem `json:"cart_items" binding:"required"`
}

// Validate validates the payment confirmed request
func (r *PaymentConfirmedRequest) Validate() error {
	if strings.TrimSpace(r.PayerName) == "" {
		return errors.New("payer_name is required")
	}
	if strings.TrimSpace(r.PayerEmail) == "" {
		return errors.New("payer_email is required")
	}
	if len(r.CartItems) == 0 {
		return errors.New("cart_items must contain at least one item")
	}
	for i, item := range r.CartItems {
		if strings.TrimSpace(item.RoomCategory) == "" {
			return fmt.Errorf("cart item %d: room_category is required", i)
		}
		if item.PartySize <= 0 {
			return fmt.Errorf("cart item %d: party_size must be at least 1", i)
		}
		if item.Total < 0 {
			return fmt.Errorf("cart item %d: total must not be negative", i)
		}
	}
	return nil
}

// UpdateReservationRequest updates an existing reservation. The same
// non-overlap invariant applies as on create.
type UpdateReservationRequest struct {
	GuestName    string  `json:"guest_name" binding:"required"`
	PayerEmail   string  `json:"payer_email" binding:"required,email"`
	RoomCategory string  `json:"room_category" binding:"required"`
	Unit         string  `json:"unit" binding:"required"`
	StartDate    string  `json:"start_date" binding:"required"`
	EndDate      string  `json:"end_date" binding:"required"`
	PartySize    int     `json:"party_size" binding:"required,min=1"`
	Total        float64 `json:"total"`
}

// Validate validates the update request
func (r *UpdateReservationRequest) Validate() error {
	if strings.TrimSpace(r.GuestName) == "" {
		return errors.New("guest_name is required")
	}
	if strings.TrimSpace(r.Unit) == "" {
		return errors.New("unit is required")
	}
	if r.PartySize <= 0 {
		return errors.New("party_size must be at least 1")
	}
	return nil
}

// AvailabilityRequest queries free units for a category and date range
type AvailabilityRequest struct {
	RoomCategory string `form:"room_category" binding:"required"`
	StartDate    string `form:"start_date" binding:"required"`
	EndDate      string `form:"end_date" binding:"required"`
}

// AvailabilityResponse lists free units in catalog order
type AvailabilityResponse struct {
	RoomCategory   RoomCategory `json:"room_category"`
	StartDate      string       `json:"start_date"`
	EndDate        string       `json:"end_date"`
	AvailableUnits []string     `json:"available_units"`
}

// BookingResultResponse is returned when every cart item was booked
type BookingResultResponse struct {
	Status       string        `json:"status"`
	Reservations []Reservation `json:"reservations"`
}
