package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"ecocredit/internal/service"
)

// DashboardHandler serves the per-user summary view.
type DashboardHandler struct {
	Dashboard *service.Dashboard
	Users     service.UserStore
}

func NewDashboardHandler(d *service.Dashboard, users service.UserStore) *DashboardHandler {
	if d == nil || users == nil {
		panic("nil dependency passed to NewDashboardHandler")
	}
	return &DashboardHandler{Dashboard: d, Users: users}
}

// Summary handles GET /v1/dashboard/summary.  A user with no entries
// gets zero totals and an empty monthly series.
func (h *DashboardHandler) Summary(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	summary, err := h.Dashboard.Summarize(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"summary":        summary,
		"carbon_credits": u.CarbonCredits,
	})
}
