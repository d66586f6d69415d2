package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sakurahouse/booking-backend/internal/models"
)

// PickUnit chooses a free unit for a cart item given the set of units
// already reserved for an overlapping interval. Returning ok=false means
// no unit of that category is free for the requested dates.
type PickUnit func(category models.RoomCategory, taken map[string]struct{}) (string, bool)

// ReservationRepository handles database operations for the reservations table
type ReservationRepository struct {
	db *sqlx.DB
}

// NewReservationRepository creates a new ReservationRepository
func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

const reservationColumns = `id, guest_name, payer_email, room_category, unit,
		start_date, end_date, party_size, total, created_at, updated_at`

// The overlap predicate treats date ranges as closed intervals: two stays
// conflict unless one ends strictly before the other starts.
const overlapCondition = `NOT (end_date < $2 OR start_date > $3)`

// FindOverlappingUnits returns the units of a category that already carry a
// reservation intersecting the given date range. The result is complete or
// the call errors; there is no partial answer.
func (r *ReservationRepository) FindOverlappingUnits(category models.RoomCategory, dates models.DateRange) (map[string]struct{}, error) {
	query := `
		SELECT unit FROM reservations
		WHERE room_category = $1 AND ` + overlapCondition

	rows, err := r.db.Query(query, category, dates.Start, dates.End)
	if err != nil {
		return nil, &models.StorageError{Op: "query overlapping reservations", Err: err}
	}
	defer rows.Close()

	return collectUnits(rows)
}

// CreateBatch persists one reservation per cart item inside a single
// transaction. Items are processed strictly in order so that an earlier
// item's allocation is visible to the next item's availability check.
//
// Before each availability read the transaction takes a per-category
// advisory lock, serializing concurrent commits that compete for the same
// units; the lock is released automatically at commit or rollback. If any
// item cannot be allocated the whole transaction rolls back and a
// *models.BatchError names the failing item.
func (r *ReservationRepository) CreateBatch(
	guestName, payerEmail string,
	items []models.BookingItem,
	pick PickUnit,
) ([]models.Reservation, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, &models.StorageError{Op: "begin transaction", Err: err}
	}
	defer tx.Rollback()

	created := make([]models.Reservation, 0, len(items))
	for i, item := range items {
		if err := lockCategory(tx, item.Category); err != nil {
			return nil, err
		}

		taken, err := findOverlappingUnitsTx(tx, item.Category, item.Dates)
		if err != nil {
			return nil, err
		}

		unit, ok := pick(item.Category, taken)
		if !ok {
			// Rollback via defer: nothing from this batch survives.
			return nil, models.NewBatchError(i, item.Category, item.Dates)
		}

		reservation := models.Reservation{
			ID:           uuid.New().String(),
			GuestName:    guestName,
			PayerEmail:   payerEmail,
			RoomCategory: item.Category,
			Unit:         unit,
			StartDate:    item.Dates.Start,
			EndDate:      item.Dates.End,
			PartySize:    item.PartySize,
			Total:        item.Total,
		}

		insertQuery := `
			INSERT INTO reservations (
				id, guest_name, payer_email, room_category, unit,
				start_date, end_date, party_size, total
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9
			)
			RETURNING created_at, updated_at`

		err = tx.QueryRowx(insertQuery,
			reservation.ID, reservation.GuestName, reservation.PayerEmail,
			reservation.RoomCategory, reservation.Unit,
			reservation.StartDate, reservation.EndDate,
			reservation.PartySize, reservation.Total,
		).Scan(&reservation.CreatedAt, &reservation.UpdatedAt)
		if err != nil {
			return nil, &models.StorageError{Op: fmt.Sprintf("create reservation for item %d", i), Err: err}
		}

		created = append(created, reservation)
	}

	if err := tx.Commit(); err != nil {
		return nil, &models.StorageError{Op: "commit transaction", Err: err}
	}

	return created, nil
}

// GetByID retrieves a reservation by ID
func (r *ReservationRepository) GetByID(id string) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	reservation := &models.Reservation{}
	err := r.db.QueryRowx(query, id).StructScan(reservation)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrReservationNotFound
		}
		return nil, &models.StorageError{Op: "fetch reservation", Err: err}
	}

	return reservation, nil
}

// List retrieves all reservations ordered by stay start
func (r *ReservationRepository) List() ([]models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations ORDER BY start_date, unit`

	reservations := []models.Reservation{}
	if err := r.db.Select(&reservations, query); err != nil {
		return nil, &models.StorageError{Op: "list reservations", Err: err}
	}

	return reservations, nil
}

// Update rewrites a reservation. The non-overlap invariant is re-checked
// inside the same transaction: the target unit must be free for the new
// dates, ignoring the reservation being updated.
func (r *ReservationRepository) Update(id string, updated *models.Reservation) (*models.Reservation, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, &models.StorageError{Op: "begin transaction", Err: err}
	}
	defer tx.Rollback()

	if err := lockCategory(tx, updated.RoomCategory); err != nil {
		return nil, err
	}

	var conflicts int
	conflictQuery := `
		SELECT COUNT(*) FROM reservations
		WHERE unit = $1 AND id <> $4 AND ` + overlapCondition
	err = tx.QueryRowx(conflictQuery,
		updated.Unit, updated.StartDate, updated.EndDate, id,
	).Scan(&conflicts)
	if err != nil {
		return nil, &models.StorageError{Op: "check for conflicting reservations", Err: err}
	}
	if conflicts > 0 {
		return nil, &models.ConflictError{
			Unit:  updated.Unit,
			Dates: updated.Dates(),
		}
	}

	updateQuery := `
		UPDATE reservations
		SET guest_name = $2, payer_email = $3, room_category = $4, unit = $5,
			start_date = $6, end_date = $7, party_size = $8, total = $9,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + reservationColumns

	result := &models.Reservation{}
	err = tx.QueryRowx(updateQuery,
		id, updated.GuestName, updated.PayerEmail, updated.RoomCategory,
		updated.Unit, updated.StartDate, updated.EndDate,
		updated.PartySize, updated.Total,
	).StructScan(result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrReservationNotFound
		}
		return nil, &models.StorageError{Op: "update reservation", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return nil, &models.StorageError{Op: "commit transaction", Err: err}
	}

	return result, nil
}

// Delete removes a reservation by ID
func (r *ReservationRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return &models.StorageError{Op: "delete reservation", Err: err}
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrReservationNotFound
	}

	return nil
}

// lockCategory takes a transaction-scoped advisory lock derived from the
// category name. Two transactions allocating within the same category are
// forced to run their check-then-reserve sequences one after the other.
func lockCategory(tx *sqlx.Tx, category models.RoomCategory) error {
	if _, err := tx.Exec(`SELECT pg_advisory_xact_lock(hashtext($1))`, string(category)); err != nil {
		return &models.StorageError{Op: fmt.Sprintf("lock category %s", category), Err: err}
	}
	return nil
}

// findOverlappingUnitsTx is the transaction-scoped availability read used
// by CreateBatch, so item i+1 sees item i's freshly inserted reservation.
func findOverlappingUnitsTx(tx *sqlx.Tx, category models.RoomCategory, dates models.DateRange) (map[string]struct{}, error) {
	query := `
		SELECT unit FROM reservations
		WHERE room_category = $1 AND ` + overlapCondition

	rows, err := tx.Query(query, category, dates.Start, dates.End)
	if err != nil {
		return nil, &models.StorageError{Op: "query overlapping reservations", Err: err}
	}
	defer rows.Close()

	return collectUnits(rows)
}

func collectUnits(rows *sql.Rows) (map[string]struct{}, error) {
	units := make(map[string]struct{})
	for rows.Next() {
		var unit string
		if err := rows.Scan(&unit); err != nil {
			return nil, &models.StorageError{Op: "scan reserved unit", Err: err}
		}
		units[unit] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, &models.StorageError{Op: "read reserved units", Err: err}
	}
	return units, nil
}

// IsRetryableTxError reports whether the error is a serialization or
// deadlock failure worth retrying against refreshed availability.
func IsRetryableTxError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}
