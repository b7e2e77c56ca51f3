package booking

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-reservation-service/internal/model"
	"table-reservation-service/internal/queue"
	"table-reservation-service/internal/repository"
)

type fakeNotifier struct {
	events []queue.ReservationCreatedEvent
	onCall func()
}

func (f *fakeNotifier) ReservationCreated(_ context.Context, ev queue.ReservationCreatedEvent) {
	if f.onCall != nil {
		f.onCall()
	}
	f.events = append(f.events, ev)
}

func newTestPipeline(t *testing.T) (*Pipeline, sqlmock.Sqlmock, *fakeNotifier) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	notifier := &fakeNotifier{}
	p := NewPipeline(db, repository.NewUserRepo(db), repository.NewReservationRepo(db), testAreas, notifier)
	return p, mock, notifier
}

// userRows mirrors what the mysql driver actually delivers: with
// parseTime off, DATETIME columns arrive as raw bytes, not time.Time.
func userRows(id uint64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "email", "phone_number", "created_at", "updated_at"}).
		AddRow(id, "Jane Doe", "jane@example.com", "+12025550101",
			[]byte("2026-02-10 12:00:00"), []byte("2026-02-10 12:00:00"))
}

func TestCommitExistingUser(t *testing.T) {
	p, mock, notifier := newTestPipeline(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, name, email, phone_number").WillReturnRows(userRows(5))
	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO reservations").WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	// The broadcast must observe a fully committed transaction.
	notifier.onCall = func() {
		assert.NoError(t, mock.ExpectationsWereMet(), "notifier fired before commit")
	}

	res, err := p.Commit(context.Background(), validDraft(), "client-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), res.ID)
	assert.Equal(t, uint64(5), res.UserID)

	require.Len(t, notifier.events, 1)
	ev := notifier.events[0]
	assert.Equal(t, model.AreaMainHall, ev.AreaKey)
	assert.Equal(t, "2026-02-14 19:00", ev.Datetime)
	assert.Equal(t, "2026-02-14", ev.Date)
	assert.Equal(t, "client-1", ev.OriginID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitNewUserDuplicateKeyRetriesAsUpdate(t *testing.T) {
	// Two concurrent bookings for the same new contact: this commit
	// loses the insert race on the users table, re-finds the winner's
	// row and updates it instead.  Exactly one user row exists.
	p, mock, notifier := newTestPipeline(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, name, email, phone_number").WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'jane@example.com' for key 'users.email'"))
	mock.ExpectQuery("SELECT id, name, email, phone_number").WillReturnRows(userRows(8))
	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO reservations").WillReturnResult(sqlmock.NewResult(43, 1))
	mock.ExpectCommit()

	res, err := p.Commit(context.Background(), validDraft(), "")
	require.NoError(t, err)
	assert.Equal(t, uint64(8), res.UserID)
	assert.Len(t, notifier.events, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitInsertFailureRollsBackWithoutNotify(t *testing.T) {
	p, mock, notifier := newTestPipeline(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, name, email, phone_number").WillReturnRows(userRows(5))
	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO reservations").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := p.Commit(context.Background(), validDraft(), "client-1")
	assert.ErrorIs(t, err, ErrCommitFailed)
	assert.Empty(t, notifier.events, "rolled-back commit must not broadcast")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitValidationFailureTouchesNothing(t *testing.T) {
	p, mock, notifier := newTestPipeline(t)

	draft := validDraft()
	draft.Guests = 0

	_, err := p.Commit(context.Background(), draft, "")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, notifier.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}
