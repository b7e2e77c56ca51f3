package repository

import (
	"context"
	"database/sql"
	"time"

	"table-reservation-service/internal/model"
)

// ReservationRepo provides access to the reservations table.  From this
// engine's perspective the table is append-only: rows are inserted by
// the commit pipeline and never updated or deleted.  All DATETIME
// values are naive local wall-clock values; no timezone conversion is
// applied when reading or writing.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const dbDateTime = "2006-01-02 15:04:05"

// ListByDate returns the committed reservations whose start time falls
// on the given service date, grouped by area ID.  The service window
// ends at 22:00 and the span is two hours, so no reservation from an
// adjacent date can overlap this date's slots.  Order within a group is
// unspecified; the availability builder tolerates arbitrary order.
func (r *ReservationRepo) ListByDate(ctx context.Context, date time.Time) (map[uint64][]model.Reservation, error) {
	y, m, d := date.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	const q = `SELECT id, user_id, area_id, guests, children, smoking, birthday, birthday_guest_name, datetime, created_at
               FROM reservations
               WHERE datetime >= ? AND datetime < ?`
	rows, err := r.db.QueryContext(ctx, q, dayStart.Format(dbDateTime), dayEnd.Format(dbDateTime))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byArea := make(map[uint64][]model.Reservation)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		byArea[res.AreaID] = append(byArea[res.AreaID], res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return byArea, nil
}

// ListByContact returns the committed reservations whose owning user
// matches the given email OR phone (inclusive OR), newest first.  The
// stored contact fields are included so the duplicate detector can
// report which field matched.  Empty email/phone arguments never match
// a row.
func (r *ReservationRepo) ListByContact(ctx context.Context, email, phone string) ([]model.ContactReservation, error) {
	const q = `SELECT r.id, r.user_id, r.area_id, r.guests, r.children, r.smoking, r.birthday, r.birthday_guest_name, r.datetime, r.created_at,
                      u.email, u.phone_number
               FROM reservations r
               JOIN users u ON u.id = r.user_id
               WHERE (? <> '' AND u.email = ?) OR (? <> '' AND u.phone_number = ?)
               ORDER BY r.created_at DESC`
	email = normalizeEmail(email)
	rows, err := r.db.QueryContext(ctx, q, email, email, phone, phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ContactReservation, 0)
	for rows.Next() {
		var cr model.ContactReservation
		var guestName sql.NullString
		var startStr, createdStr string
		if err := rows.Scan(
			&cr.ID, &cr.UserID, &cr.AreaID, &cr.Guests, &cr.Children, &cr.Smoking, &cr.Birthday,
			&guestName, &startStr, &createdStr, &cr.Email, &cr.Phone,
		); err != nil {
			return nil, err
		}
		if guestName.Valid {
			n := guestName.String
			cr.BirthdayGuestName = &n
		}
		if cr.StartsAt, err = time.ParseInLocation(dbDateTime, startStr, time.Local); err != nil {
			return nil, err
		}
		if cr.CreatedAt, err = time.ParseInLocation(dbDateTime, createdStr, time.Local); err != nil {
			return nil, err
		}
		out = append(out, cr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// InsertTx inserts a reservation row within the scope of an existing
// transaction and populates the generated ID and creation timestamp on
// the provided record.  The caller must commit or roll back the
// transaction.
func (r *ReservationRepo) InsertTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations (user_id, area_id, guests, children, smoking, birthday, birthday_guest_name, datetime)
               VALUES (?,?,?,?,?,?,?,?)`
	result, err := tx.ExecContext(ctx, q,
		res.UserID, res.AreaID, res.Guests, res.Children, res.Smoking, res.Birthday,
		res.BirthdayGuestName, res.StartsAt.Format(dbDateTime))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	res.CreatedAt = time.Now()
	return nil
}

// scanReservation reads one reservations row.  DATETIME columns are
// scanned as strings and parsed in the local location to preserve the
// naive wall-clock contract.
func scanReservation(rows *sql.Rows) (model.Reservation, error) {
	var res model.Reservation
	var guestName sql.NullString
	var startStr, createdStr string
	if err := rows.Scan(
		&res.ID, &res.UserID, &res.AreaID, &res.Guests, &res.Children, &res.Smoking, &res.Birthday,
		&guestName, &startStr, &createdStr,
	); err != nil {
		return model.Reservation{}, err
	}
	if guestName.Valid {
		n := guestName.String
		res.BirthdayGuestName = &n
	}
	var err error
	if res.StartsAt, err = time.ParseInLocation(dbDateTime, startStr, time.Local); err != nil {
		return model.Reservation{}, err
	}
	if res.CreatedAt, err = time.ParseInLocation(dbDateTime, createdStr, time.Local); err != nil {
		return model.Reservation{}, err
	}
	return res, nil
}
