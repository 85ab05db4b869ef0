package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecocredit/internal/model"
	"ecocredit/internal/repository"
	"ecocredit/internal/service"
)

// fakeStore backs the handlers in tests, standing in for both the user
// and entry repositories with the same atomic-append contract.
type fakeStore struct {
	mu      sync.Mutex
	users   map[uint64]model.User
	entries []model.ConsumptionEntry
	nextID  uint64
}

func newFakeStore(users ...model.User) *fakeStore {
	f := &fakeStore{users: make(map[uint64]model.User), nextID: 1}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeStore) ListByCredits(_ context.Context, _ int) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeStore) Append(_ context.Context, e *model.ConsumptionEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[e.UserID]
	if !ok {
		return repository.ErrUserNotFound
	}
	e.ID = f.nextID
	f.nextID++
	f.entries = append(f.entries, *e)
	u.CarbonCredits += e.CreditsEarned
	f.users[e.UserID] = u
	return nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID uint64) ([]model.ConsumptionEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ConsumptionEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByUserKind(_ context.Context, userID uint64, kind string) ([]model.ConsumptionEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ConsumptionEntry
	for _, e := range f.entries {
		if e.UserID == userID && e.Kind == kind {
			out = append(out, e)
		}
	}
	return out, nil
}

// doJSON runs one handler invocation with the given body and the
// user_id already resolved, the way the JWT middleware leaves it.
func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string, userID uint64) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("user_id", userID)
	}
	require.NoError(t, h(c))
	return rec
}

func TestSubmitBillingCreatesEntry(t *testing.T) {
	store := newFakeStore(model.User{ID: 1, Username: "guru", CarbonCredits: 500})
	ledger := service.NewLedger(store, store)
	h := NewEntryHandler(ledger, store, nil, "cache")

	rec := doJSON(t, h.SubmitBilling, http.MethodPost, "/v1/billing",
		`{"energy_type":"Electricity (kWh)","units_consumed":450,"date":"2024-06-01"}`, 1)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp submitResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 180, resp.CarbonEmissions, 1e-9)
	assert.Equal(t, int64(18000), resp.CreditsEarned)
	assert.Equal(t, int64(18500), resp.CarbonCredits)
	assert.Equal(t, "billing", resp.Entry.Kind)
	assert.Equal(t, "Electricity (kWh)", resp.Entry.Category)
	assert.Equal(t, "2024-06-01", resp.Entry.Date)
	assert.Equal(t, int64(18500), func() int64 {
		u, _ := store.GetByID(context.Background(), 1)
		return u.CarbonCredits
	}())
}

func TestSubmitRecyclingCreatesEntry(t *testing.T) {
	store := newFakeStore(model.User{ID: 7, Username: "eco"})
	ledger := service.NewLedger(store, store)
	h := NewEntryHandler(ledger, store, nil, "cache")

	rec := doJSON(t, h.SubmitRecycling, http.MethodPost, "/v1/recycling",
		`{"waste_type":"Plastic","weight_kg":4,"date":"2024-03-10"}`, 7)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp submitResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 2, resp.CarbonEmissions, 1e-9)
	assert.Equal(t, int64(200), resp.CreditsEarned)
	assert.Equal(t, "recycling", resp.Entry.Kind)
}

func TestSubmitBillingRejectsBadInput(t *testing.T) {
	store := newFakeStore(model.User{ID: 1})
	ledger := service.NewLedger(store, store)
	h := NewEntryHandler(ledger, store, nil, "cache")

	tests := []struct {
		name string
		body string
	}{
		{"zero units", `{"energy_type":"Electricity (kWh)","units_consumed":0,"date":"2024-06-01"}`},
		{"negative units", `{"energy_type":"Electricity (kWh)","units_consumed":-1,"date":"2024-06-01"}`},
		{"missing type", `{"units_consumed":10,"date":"2024-06-01"}`},
		{"bad date", `{"energy_type":"Electricity (kWh)","units_consumed":10,"date":"06/01/2024"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h.SubmitBilling, http.MethodPost, "/v1/billing", tc.body, 1)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Empty(t, store.entries)
}

func TestSubmitBillingUnknownUser(t *testing.T) {
	store := newFakeStore()
	ledger := service.NewLedger(store, store)
	h := NewEntryHandler(ledger, store, nil, "cache")

	rec := doJSON(t, h.SubmitBilling, http.MethodPost, "/v1/billing",
		`{"energy_type":"Electricity (kWh)","units_consumed":10,"date":"2024-06-01"}`, 99)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitBillingWithoutIdentity(t *testing.T) {
	store := newFakeStore(model.User{ID: 1})
	ledger := service.NewLedger(store, store)
	h := NewEntryHandler(ledger, store, nil, "cache")

	rec := doJSON(t, h.SubmitBilling, http.MethodPost, "/v1/billing",
		`{"energy_type":"Electricity (kWh)","units_consumed":10,"date":"2024-06-01"}`, 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHistorySplitsByKind(t *testing.T) {
	store := newFakeStore(model.User{ID: 1, Username: "guru"})
	ledger := service.NewLedger(store, store)
	h := NewEntryHandler(ledger, store, nil, "cache")

	doJSON(t, h.SubmitBilling, http.MethodPost, "/v1/billing",
		`{"energy_type":"Natural Gas (therms)","units_consumed":12,"date":"2024-02-01"}`, 1)
	doJSON(t, h.SubmitRecycling, http.MethodPost, "/v1/recycling",
		`{"waste_type":"Glass","weight_kg":2,"date":"2024-02-02"}`, 1)

	rec := doJSON(t, h.BillingHistory, http.MethodGet, "/v1/billing", "", 1)
	require.Equal(t, http.StatusOK, rec.Code)
	var billing struct {
		Entries []entryPart `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &billing))
	require.Len(t, billing.Entries, 1)
	assert.Equal(t, "Natural Gas (therms)", billing.Entries[0].Category)

	rec = doJSON(t, h.RecyclingHistory, http.MethodGet, "/v1/recycling", "", 1)
	require.Equal(t, http.StatusOK, rec.Code)
	var recycling struct {
		Entries []entryPart `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recycling))
	require.Len(t, recycling.Entries, 1)
	assert.Equal(t, "Glass", recycling.Entries[0].Category)
}

func TestDashboardSummary(t *testing.T) {
	store := newFakeStore(model.User{ID: 1, Username: "guru"})
	ledger := service.NewLedger(store, store)
	eh := NewEntryHandler(ledger, store, nil, "cache")
	dh := NewDashboardHandler(service.NewDashboard(store), store)

	doJSON(t, eh.SubmitBilling, http.MethodPost, "/v1/billing",
		`{"energy_type":"Electricity (kWh)","units_consumed":100,"date":"2024-01-15"}`, 1)
	doJSON(t, eh.SubmitRecycling, http.MethodPost, "/v1/recycling",
		`{"waste_type":"Metal","weight_kg":10,"date":"2024-03-02"}`, 1)

	rec := doJSON(t, dh.Summary, http.MethodGet, "/v1/dashboard/summary", "", 1)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Summary       model.DashboardSummary `json:"summary"`
		CarbonCredits int64                  `json:"carbon_credits"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Summary.EntryCount)
	assert.InDelta(t, 110, resp.Summary.TotalConsumption, 1e-9)
	assert.InDelta(t, 48.5, resp.Summary.TotalEmissions, 1e-9) // 100*0.4 + 10*0.85
	assert.Equal(t, int64(4850), resp.Summary.TotalCredits)
	require.Len(t, resp.Summary.Monthly, 2)
	assert.Equal(t, "2024-01", resp.Summary.Monthly[0].Month)
	assert.Equal(t, "2024-03", resp.Summary.Monthly[1].Month)
	assert.Equal(t, int64(4850), resp.CarbonCredits)
}

func TestLeaderboardRanking(t *testing.T) {
	store := newFakeStore(
		model.User{ID: 1, Username: "low", CarbonCredits: 100},
		model.User{ID: 2, Username: "top", CarbonCredits: 9000},
		model.User{ID: 3, Username: "mid", CarbonCredits: 4500},
		model.User{ID: 4, Username: "last", CarbonCredits: 50},
	)
	h := NewLeaderboardHandler(service.NewLeaderboard(store))

	rec := doJSON(t, h.Get, http.MethodGet, "/v1/leaderboard", "", 0)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Leaderboard []model.LeaderboardRow `json:"leaderboard"`
		Stats       model.LeaderboardStats `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Leaderboard, 4)
	assert.Equal(t, "top", resp.Leaderboard[0].Username)
	assert.Equal(t, model.BadgeGold, resp.Leaderboard[0].Badge)
	assert.Equal(t, model.BadgeSilver, resp.Leaderboard[1].Badge)
	assert.Equal(t, model.BadgeBronze, resp.Leaderboard[2].Badge)
	assert.Equal(t, model.BadgeNone, resp.Leaderboard[3].Badge)
	assert.Equal(t, 1, resp.Leaderboard[0].Rank)
	assert.Equal(t, int64(90), resp.Leaderboard[0].EstimatedReductionKg)

	assert.Equal(t, 4, resp.Stats.TotalUsers)
	assert.Equal(t, int64(13650), resp.Stats.TotalCredits)
}
