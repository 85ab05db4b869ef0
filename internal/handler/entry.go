package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"ecocredit/internal/middleware"
	"ecocredit/internal/model"
	"ecocredit/internal/queue"
	"ecocredit/internal/repository"
	"ecocredit/internal/service"
)

// EntryHandler exposes the billing and recycling submission and history
// endpoints.  Submissions run through the ledger service, which owns
// validation, conversion and the atomic append; the handler's job is
// mapping HTTP to the service and the service's errors back to HTTP.
// After an accepted submission the handler invalidates the cached
// leaderboard and publishes an audit event, both best effort.
type EntryHandler struct {
	Ledger      *service.Ledger
	Users       service.UserStore
	Redis       *redis.Client // may be nil; invalidation becomes a no-op
	CachePrefix string
}

func NewEntryHandler(ledger *service.Ledger, users service.UserStore, rdb *redis.Client, cachePrefix string) *EntryHandler {
	if ledger == nil || users == nil {
		panic("nil dependency passed to NewEntryHandler")
	}
	return &EntryHandler{Ledger: ledger, Users: users, Redis: rdb, CachePrefix: cachePrefix}
}

type billingReq struct {
	EnergyType    string  `json:"energy_type"`
	UnitsConsumed float64 `json:"units_consumed"`
	Date          string  `json:"date"`
}
type recyclingReq struct {
	WasteType string  `json:"waste_type"`
	WeightKg  float64 `json:"weight_kg"`
	Date      string  `json:"date"`
}

type entryPart struct {
	ID              uint64  `json:"id"`
	Kind            string  `json:"kind"`
	Category        string  `json:"category"`
	Quantity        float64 `json:"quantity"`
	CarbonEmissions float64 `json:"carbon_emissions"`
	CreditsEarned   int64   `json:"credits_earned"`
	Date            string  `json:"date"`
}
type submitResp struct {
	Entry           entryPart `json:"entry"`
	CarbonEmissions float64   `json:"carbon_emissions"`
	CreditsEarned   int64     `json:"credits_earned"`
	CarbonCredits   int64     `json:"carbon_credits"` // balance after this submission
}

// SubmitBilling handles POST /v1/billing.
func (h *EntryHandler) SubmitBilling(c echo.Context) error {
	var req billingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	return h.submit(c, model.KindBilling, req.EnergyType, req.UnitsConsumed, req.Date)
}

// SubmitRecycling handles POST /v1/recycling.
func (h *EntryHandler) SubmitRecycling(c echo.Context) error {
	var req recyclingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	return h.submit(c, model.KindRecycling, req.WasteType, req.WeightKg, req.Date)
}

func (h *EntryHandler) submit(c echo.Context, kind, category string, quantity float64, date string) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entry, err := h.Ledger.RecordEntry(ctx, userID, kind, category, quantity, date)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid submission: quantity must be positive and date formatted YYYY-MM-DD"})
		case errors.Is(err, repository.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save entry failed"})
		}
	}

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		// Entry is committed; report it even if the re-read failed.
		u = model.User{ID: userID}
	}

	// The cached leaderboard reflects a stale balance now; drop it.
	if err := middleware.InvalidateCache(ctx, h.Redis, h.CachePrefix); err != nil {
		c.Logger().Warnf("leaderboard cache invalidation failed: %v", err)
	}

	ev := queue.EntryRecordedEvent{
		EntryID:         entry.ID,
		UserID:          userID,
		Username:        u.Username,
		Kind:            entry.Kind,
		Category:        entry.Category,
		Quantity:        entry.Quantity,
		CarbonEmissions: entry.CarbonEmissions,
		CreditsEarned:   entry.CreditsEarned,
		Date:            entry.Date.Format(service.DateLayout),
		RecordedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	go func() { _ = queue.PublishEntryRecorded(context.Background(), ev) }()

	return c.JSON(http.StatusCreated, submitResp{
		Entry:           toEntryPart(entry),
		CarbonEmissions: entry.CarbonEmissions,
		CreditsEarned:   entry.CreditsEarned,
		CarbonCredits:   u.CarbonCredits,
	})
}

// BillingHistory handles GET /v1/billing.
func (h *EntryHandler) BillingHistory(c echo.Context) error {
	return h.history(c, model.KindBilling)
}

// RecyclingHistory handles GET /v1/recycling.
func (h *EntryHandler) RecyclingHistory(c echo.Context) error {
	return h.history(c, model.KindRecycling)
}

func (h *EntryHandler) history(c echo.Context, kind string) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entries, err := h.Ledger.History(ctx, userID, kind)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]entryPart, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryPart(e))
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": out})
}

func toEntryPart(e model.ConsumptionEntry) entryPart {
	return entryPart{
		ID:              e.ID,
		Kind:            e.Kind,
		Category:        e.Category,
		Quantity:        e.Quantity,
		CarbonEmissions: e.CarbonEmissions,
		CreditsEarned:   e.CreditsEarned,
		Date:            e.Date.Format(service.DateLayout),
	}
}
