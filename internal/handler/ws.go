package handler

import (
	"github.com/labstack/echo/v4"

	"table-reservation-service/internal/ws"
)

// WSHandler upgrades booking widget connections onto the push hub.
type WSHandler struct {
	hub       *ws.Hub
	committer ws.Committer
}

// NewWSHandler constructs the handler.
func NewWSHandler(hub *ws.Hub, committer ws.Committer) *WSHandler {
	return &WSHandler{hub: hub, committer: committer}
}

// Connect handles GET /v1/ws.
func (h *WSHandler) Connect(c echo.Context) error {
	return ws.Serve(h.hub, h.committer, c.Response(), c.Request())
}
