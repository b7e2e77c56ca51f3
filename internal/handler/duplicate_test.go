package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-reservation-service/internal/repository"
)

func newDuplicateTest(t *testing.T) (*DuplicateHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDuplicateHandler(repository.NewAreaRepo(db), repository.NewReservationRepo(db)), mock
}

func postDuplicateCheck(t *testing.T, h *DuplicateHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/reservations/duplicate-check", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Check(e.NewContext(req, rec)))
	return rec
}

func TestDuplicateCheckRequiresContact(t *testing.T) {
	h, _ := newDuplicateTest(t)
	rec := postDuplicateCheck(t, h, `{"datetime":"2026-02-14 19:00"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDuplicateCheckRejectsMalformedDatetime(t *testing.T) {
	h, _ := newDuplicateTest(t)
	rec := postDuplicateCheck(t, h, `{"email":"jane@example.com","datetime":"tonight"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDuplicateCheckFailsOpenOnLookupError(t *testing.T) {
	h, mock := newDuplicateTest(t)
	mock.ExpectQuery("SELECT r.id").WillReturnError(errors.New("connection reset"))

	rec := postDuplicateCheck(t, h,
		`{"email":"jane@example.com","datetime":"2026-02-14 19:00"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["duplicate"])
}

func TestDuplicateCheckReportsConflict(t *testing.T) {
	h, mock := newDuplicateTest(t)
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "area_id", "guests", "children", "smoking", "birthday",
		"birthday_guest_name", "datetime", "created_at", "email", "phone_number",
	}).AddRow(7, 5, 2, 4, 0, false, false, nil,
		[]byte("2026-02-14 19:30:00"), []byte("2026-02-10 12:00:00"),
		"jane@example.com", "+12025550101")
	mock.ExpectQuery("SELECT r.id").WillReturnRows(rows)
	mock.ExpectQuery("SELECT id, area_key").WillReturnRows(
		sqlmock.NewRows([]string{"id", "area_key", "name", "capacity", "allows_children", "allows_smoking", "max_guests"}).
			AddRow(2, "terrace", "Terrace", 20, true, true, 12))

	rec := postDuplicateCheck(t, h,
		`{"email":"jane@example.com","datetime":"2026-02-14 19:00"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Duplicate   bool   `json:"duplicate"`
		MatchedBy   string `json:"matchedBy"`
		Conflicting *struct {
			ID       uint64 `json:"id"`
			Datetime string `json:"datetime"`
			Guests   int    `json:"guests"`
			Area     string `json:"areaId"`
		} `json:"conflictingReservation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Duplicate)
	assert.Equal(t, "email", resp.MatchedBy)
	require.NotNil(t, resp.Conflicting)
	assert.Equal(t, uint64(7), resp.Conflicting.ID)
	assert.Equal(t, "2026-02-14 19:30", resp.Conflicting.Datetime)
	assert.Equal(t, 4, resp.Conflicting.Guests)
	assert.Equal(t, "terrace", resp.Conflicting.Area)
}
