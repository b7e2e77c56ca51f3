package handler

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"table-reservation-service/internal/availability"
	"table-reservation-service/internal/model"
	"table-reservation-service/internal/repository"
	"table-reservation-service/internal/schedule"
)

// AvailabilityHandler serves the per-date availability snapshot the
// booking widget renders its calendar from.
type AvailabilityHandler struct {
	areas        *repository.AreaRepo
	reservations *repository.ReservationRepo
	cache        *availability.SnapshotCache
}

// NewAvailabilityHandler constructs the handler. cache may be nil when
// Redis is unavailable; every request then rebuilds the snapshot.
func NewAvailabilityHandler(areas *repository.AreaRepo, reservations *repository.ReservationRepo, cache *availability.SnapshotCache) *AvailabilityHandler {
	return &AvailabilityHandler{areas: areas, reservations: reservations, cache: cache}
}

// Get handles GET /v1/availability?date=YYYY-MM-DD.
//
// A malformed date is the caller's error and yields 400. Storage
// trouble, on the other hand, must not take the widget down: the
// handler logs the cause and answers with an empty snapshot, which
// renders as a fully open venue until the next refresh succeeds.
func (h *AvailabilityHandler) Get(c echo.Context) error {
	raw := c.QueryParam("date")
	date, err := schedule.ParseDate(raw)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "date must be formatted as YYYY-MM-DD",
		})
	}
	key := date.Format(schedule.DateFormat)

	ctx := c.Request().Context()
	if snap, ok := h.cache.Get(ctx, key); ok {
		return c.JSON(http.StatusOK, snap)
	}

	areas, err := h.areas.ListAll(ctx)
	if err != nil {
		log.Printf("availability: list areas failed: %v", err)
		return c.JSON(http.StatusOK, &model.VenueSnapshot{Date: key})
	}
	byArea, err := h.reservations.ListByDate(ctx, date)
	if err != nil {
		log.Printf("availability: list reservations failed: %v", err)
		return c.JSON(http.StatusOK, &model.VenueSnapshot{Date: key})
	}

	snap := availability.BuildVenue(areas, date, byArea)
	h.cache.Set(ctx, key, snap)
	return c.JSON(http.StatusOK, snap)
}
