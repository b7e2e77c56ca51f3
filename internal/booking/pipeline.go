package booking

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"table-reservation-service/internal/model"
	"table-reservation-service/internal/queue"
	"table-reservation-service/internal/repository"
	"table-reservation-service/internal/schedule"
)

// Notifier receives the invalidation event for a freshly committed
// reservation.  The pipeline calls it strictly after a successful
// transaction commit, never before and never on rollback.
type Notifier interface {
	ReservationCreated(ctx context.Context, ev queue.ReservationCreatedEvent)
}

// Pipeline commits a reservation: it sanitizes and validates the draft,
// upserts the contact as a user row, inserts the reservation row — all
// inside one transaction — and then triggers the invalidation
// broadcast.  Two concurrent bookings for the same new contact are
// resolved by the users table's unique constraints: the loser's insert
// fails with a duplicate key and is retried as an update, so exactly
// one user row ever exists per contact.
type Pipeline struct {
	db           *sql.DB
	users        *repository.UserRepo
	reservations *repository.ReservationRepo
	areas        []model.Area
	notifier     Notifier
}

// NewPipeline constructs a Pipeline.  notifier may be nil, in which
// case commits succeed silently without broadcasting.
func NewPipeline(db *sql.DB, users *repository.UserRepo, reservations *repository.ReservationRepo, areas []model.Area, notifier Notifier) *Pipeline {
	if db == nil || users == nil || reservations == nil {
		panic("nil dependency passed to NewPipeline")
	}
	return &Pipeline{db: db, users: users, reservations: reservations, areas: areas, notifier: notifier}
}

// Commit runs the full pipeline for a draft.  originID identifies the
// submitting client so the broadcast can exclude it.  Validation
// failures wrap ErrValidation and carry the field; any storage failure
// rolls the transaction back and surfaces as ErrCommitFailed with the
// cause logged, so the caller must not assume partial success.
func (p *Pipeline) Commit(ctx context.Context, draft model.Draft, originID string) (*model.Reservation, error) {
	clean, area, err := ValidateDraft(draft, p.areas)
	if err != nil {
		return nil, err
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("pipeline: begin tx failed: %v", err)
		return nil, ErrCommitFailed
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	userID, err := p.upsertUser(ctx, tx, clean)
	if err != nil {
		log.Printf("pipeline: user upsert failed: %v", err)
		return nil, ErrCommitFailed
	}

	res := &model.Reservation{
		UserID:   userID,
		AreaID:   area.ID,
		Guests:   clean.Guests,
		Children: clean.Children,
		Smoking:  clean.Smoking,
		Birthday: clean.Birthday,
		StartsAt: clean.StartsAt,
	}
	if clean.Birthday {
		name := clean.BirthdayGuestName
		res.BirthdayGuestName = &name
	}
	if err := p.reservations.InsertTx(ctx, tx, res); err != nil {
		log.Printf("pipeline: reservation insert failed: %v", err)
		return nil, ErrCommitFailed
	}

	if err := tx.Commit(); err != nil {
		log.Printf("pipeline: commit failed: %v", err)
		return nil, ErrCommitFailed
	}
	committed = true

	// Notification strictly follows the commit so no client refreshes
	// into a state that does not yet reflect the write.
	if p.notifier != nil {
		p.notifier.ReservationCreated(ctx, queue.ReservationCreatedEvent{
			AreaKey:  area.Key,
			Datetime: schedule.FormatDateTime(res.StartsAt),
			Date:     res.StartsAt.Format(schedule.DateFormat),
			OriginID: originID,
		})
	}
	return res, nil
}

// upsertUser resolves the draft's contact to a user ID inside the
// transaction.  Lookup by email OR phone; found rows are refreshed to
// the latest values, absent contacts are inserted.  An insert losing
// the uniqueness race is retried as a lookup-then-update.
func (p *Pipeline) upsertUser(ctx context.Context, tx *sql.Tx, clean model.Draft) (uint64, error) {
	existing, err := p.users.FindByContactTx(ctx, tx, clean.Email, clean.Phone)
	switch {
	case err == nil:
		if err := p.users.UpdateTx(ctx, tx, existing.ID, clean.Name, clean.Email, clean.Phone); err != nil {
			return 0, err
		}
		return existing.ID, nil
	case errors.Is(err, sql.ErrNoRows):
		id, err := p.users.InsertTx(ctx, tx, clean.Name, clean.Email, clean.Phone)
		if errors.Is(err, repository.ErrDuplicateKey) {
			// A concurrent commit created the row first; reuse it.
			raced, ferr := p.users.FindByContactTx(ctx, tx, clean.Email, clean.Phone)
			if ferr != nil {
				return 0, ferr
			}
			if uerr := p.users.UpdateTx(ctx, tx, raced.ID, clean.Name, clean.Email, clean.Phone); uerr != nil {
				return 0, uerr
			}
			return raced.ID, nil
		}
		return id, err
	default:
		return 0, err
	}
}
