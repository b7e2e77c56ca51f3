package handler

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"table-reservation-service/internal/booking"
	"table-reservation-service/internal/repository"
	"table-reservation-service/internal/schedule"
)

// DuplicateHandler answers the pre-submission warning check: does this
// contact already hold a reservation overlapping the chosen time?
type DuplicateHandler struct {
	areas        *repository.AreaRepo
	reservations *repository.ReservationRepo
}

// NewDuplicateHandler constructs the handler.
func NewDuplicateHandler(areas *repository.AreaRepo, reservations *repository.ReservationRepo) *DuplicateHandler {
	return &DuplicateHandler{areas: areas, reservations: reservations}
}

type duplicateCheckRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Datetime string `json:"datetime"` // "YYYY-MM-DD HH:MM", naive wall clock
}

type conflictingReservation struct {
	ID       uint64 `json:"id"`
	Datetime string `json:"datetime"`
	Guests   int    `json:"guests"`
	Area     string `json:"areaId,omitempty"`
}

type duplicateCheckResponse struct {
	Duplicate   bool                    `json:"duplicate"`
	MatchedBy   string                  `json:"matchedBy,omitempty"`
	Conflicting *conflictingReservation `json:"conflictingReservation,omitempty"`
}

// Check handles POST /v1/reservations/duplicate-check.
//
// The check is advisory only. When the lookup itself fails the handler
// reports "no duplicate" and lets the guest proceed; blocking a booking
// over a degraded database would be worse than a double warning missed.
func (h *DuplicateHandler) Check(c echo.Context) error {
	var req duplicateCheckRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}
	startsAt, err := schedule.ParseDateTime(req.Datetime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "datetime must be formatted as YYYY-MM-DD HH:MM",
		})
	}
	if req.Email == "" && req.Phone == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "email or phone is required",
		})
	}

	ctx := c.Request().Context()
	existing, err := h.reservations.ListByContact(ctx, req.Email, req.Phone)
	if err != nil {
		log.Printf("duplicate-check: lookup failed: %v", err)
		return c.JSON(http.StatusOK, duplicateCheckResponse{Duplicate: false})
	}

	match := booking.FindDuplicate(req.Email, req.Phone, startsAt, existing)
	if match == nil {
		return c.JSON(http.StatusOK, duplicateCheckResponse{Duplicate: false})
	}

	conflicting := &conflictingReservation{
		ID:       match.Reservation.ID,
		Datetime: schedule.FormatDateTime(match.Reservation.StartsAt),
		Guests:   match.Reservation.Guests,
	}
	// Resolving the area key is cosmetic; a failed lookup leaves it out.
	if areas, err := h.areas.ListAll(ctx); err == nil {
		for _, a := range areas {
			if a.ID == match.Reservation.AreaID {
				conflicting.Area = a.Key
				break
			}
		}
	}
	return c.JSON(http.StatusOK, duplicateCheckResponse{
		Duplicate:   true,
		MatchedBy:   match.MatchedBy,
		Conflicting: conflicting,
	})
}
