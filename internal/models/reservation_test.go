package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDateRange(t *testing.T) {
	t.Run("Valid Range", func(t *testing.T) {
		r, err := NewDateRange("2026-03-10", "2026-03-15")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), r.Start)
		assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), r.End)
	})

	t.Run("Single Day", func(t *testing.T) {
		r, err := NewDateRange("2026-03-10", "2026-03-10")
		require.NoError(t, err)
		assert.Equal(t, r.Start, r.End)
	})

	t.Run("End Before Start", func(t *testing.T) {
		_, err := NewDateRange("2026-03-15", "2026-03-10")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "before start date")
	})

	t.Run("Invalid Start Format", func(t *testing.T) {
		_, err := NewDateRange("10-03-2026", "2026-03-15")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid start date")
	})

	t.Run("Invalid End Format", func(t *testing.T) {
		_, err := NewDateRange("2026-03-10", "not-a-date")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid end date")
	})
}

func TestDateRangeOverlaps(t *testing.T) {
	mustRange := func(start, end string) DateRange {
		r, err := NewDateRange(start, end)
		require.NoError(t, err)
		return r
	}

	tests := []struct {
		name     string
		a        DateRange
		b        DateRange
		overlaps bool
	}{
		{
			name:     "Disjoint",
			a:        mustRange("2026-03-01", "2026-03-05"),
			b:        mustRange("2026-03-10", "2026-03-12"),
			overlaps: false,
		},
		{
			name:     "Partial Overlap",
			a:        mustRange("2026-03-01", "2026-03-10"),
			b:        mustRange("2026-03-08", "2026-03-15"),
			overlaps: true,
		},
		{
			name:     "Contained",
			a:        mustRange("2026-03-01", "2026-03-31"),
			b:        mustRange("2026-03-10", "2026-03-12"),
			overlaps: true,
		},
		{
			// Closed intervals: a stay ending on the 10th still blocks a
			// stay starting on the 10th.
			name:     "Shared Boundary Day",
			a:        mustRange("2026-03-01", "2026-03-10"),
			b:        mustRange("2026-03-10", "2026-03-15"),
			overlaps: true,
		},
		{
			name:     "Adjacent Days",
			a:        mustRange("2026-03-01", "2026-03-09"),
			b:        mustRange("2026-03-10", "2026-03-15"),
			overlaps: false,
		},
		{
			name:     "Identical",
			a:        mustRange("2026-03-01", "2026-03-05"),
			b:        mustRange("2026-03-01", "2026-03-05"),
			overlaps: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.overlaps, tt.b.Overlaps(tt.a))
		})
	}
}

func TestPaymentConfirmedRequestValidate(t *testing.T) {
	valid := func() PaymentConfirmedRequest {
		return PaymentConfirmedRequest{
			PayerName:  "Aiko Tanaka",
			PayerEmail: "aiko@example.com",
			CartItems: []CartItem{
				{
					RoomCategory: string(CategoryDormitory),
					StartDate:    "2026-03-10",
					EndDate:      "2026-03-15",
					PartySize:    1,
					Total:        120.00,
				},
			},
		}
	}

	t.Run("Valid", func(t *testing.T) {
		req := valid()
		assert.NoError(t, req.Validate())
	})

	t.Run("Missing Payer Name", func(t *testing.T) {
		req := valid()
		req.PayerName = "  "
		assert.Error(t, req.Validate())
	})

	t.Run("Missing Email", func(t *testing.T) {
		req := valid()
		req.PayerEmail = ""
		assert.Error(t, req.Validate())
	})

	t.Run("Empty Cart", func(t *testing.T) {
		req := valid()
		req.CartItems = nil
		err := req.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least one item")
	})

	t.Run("Zero Party Size", func(t *testing.T) {
		req := valid()
		req.CartItems[0].PartySize = 0
		err := req.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "party_size")
	})

	t.Run("Negative Total", func(t *testing.T) {
		req := valid()
		req.CartItems[0].Total = -1
		assert.Error(t, req.Validate())
	})
}

func TestBatchError(t *testing.T) {
	dates, err := NewDateRange("2026-03-10", "2026-03-15")
	require.NoError(t, err)

	batchErr := NewBatchError(2, CategoryJapaneseTwin, dates)
	assert.Equal(t, 2, batchErr.FailedIndex)
	assert.Equal(t, CategoryJapaneseTwin, batchErr.Category)
	assert.Equal(t, "2026-03-10", batchErr.StartDate)
	assert.Equal(t, "2026-03-15", batchErr.EndDate)
	assert.Equal(t, ReasonNoAvailableUnit, batchErr.Reason)
	assert.Contains(t, batchErr.Error(), "item 2")
}
