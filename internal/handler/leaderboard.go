package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"ecocredit/internal/service"
)

// LeaderboardHandler serves the public ranking.  The route sits behind
// the Redis response cache; each uncached call recomputes the full
// ranking from the current user snapshot.
type LeaderboardHandler struct {
	Leaderboard *service.Leaderboard
}

func NewLeaderboardHandler(l *service.Leaderboard) *LeaderboardHandler {
	if l == nil {
		panic("nil dependency passed to NewLeaderboardHandler")
	}
	return &LeaderboardHandler{Leaderboard: l}
}

// Get handles GET /v1/leaderboard.
func (h *LeaderboardHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, stats, err := h.Leaderboard.Snapshot(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"leaderboard": rows,
		"stats":       stats,
	})
}
