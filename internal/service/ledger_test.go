package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecocredit/internal/model"
	"ecocredit/internal/repository"
)

// memStore is an in-memory stand-in for the MySQL repositories.  Append
// mirrors the transactional contract: the entry insert and the balance
// increment happen under one lock, all-or-nothing.
type memStore struct {
	mu        sync.Mutex
	users     map[uint64]model.User
	entries   []model.ConsumptionEntry
	nextID    uint64
	appendErr error // when set, Append fails without mutating anything
}

func newMemStore(users ...model.User) *memStore {
	m := &memStore{users: make(map[uint64]model.User), nextID: 1}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *memStore) ListByCredits(_ context.Context, _ int) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memStore) Append(_ context.Context, e *model.ConsumptionEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	u, ok := m.users[e.UserID]
	if !ok {
		return repository.ErrUserNotFound
	}
	e.ID = m.nextID
	m.nextID++
	m.entries = append(m.entries, *e)
	u.CarbonCredits += e.CreditsEarned
	m.users[e.UserID] = u
	return nil
}

func (m *memStore) ListByUser(_ context.Context, userID uint64) ([]model.ConsumptionEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ConsumptionEntry
	for _, e := range m.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) ListByUserKind(_ context.Context, userID uint64, kind string) ([]model.ConsumptionEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ConsumptionEntry
	for _, e := range m.entries {
		if e.UserID == userID && e.Kind == kind {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) balance(id uint64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id].CarbonCredits
}

func TestRecordEntryComputesAndPersists(t *testing.T) {
	store := newMemStore(model.User{ID: 1, Username: "guru"})
	ledger := NewLedger(store, store)

	entry, err := ledger.RecordEntry(context.Background(), 1, model.KindBilling, "Natural Gas (therms)", 100, "2024-06-01")
	require.NoError(t, err)

	assert.Equal(t, uint64(1), entry.ID)
	assert.InDelta(t, 1170, entry.CarbonEmissions, 1e-9)
	assert.Equal(t, int64(117000), entry.CreditsEarned)
	assert.Equal(t, "2024-06-01", entry.Date.Format(DateLayout))
	assert.Equal(t, int64(117000), store.balance(1))
}

func TestRecordEntryRejectsInvalidInput(t *testing.T) {
	store := newMemStore(model.User{ID: 1})
	ledger := NewLedger(store, store)
	ctx := context.Background()

	tests := []struct {
		name     string
		kind     string
		category string
		quantity float64
		date     string
	}{
		{"zero quantity", model.KindBilling, "Electricity (kWh)", 0, "2024-06-01"},
		{"negative quantity", model.KindBilling, "Electricity (kWh)", -5, "2024-06-01"},
		{"empty category", model.KindBilling, "   ", 10, "2024-06-01"},
		{"bad date", model.KindBilling, "Electricity (kWh)", 10, "June 1st"},
		{"unknown kind", "donation", "Electricity (kWh)", 10, "2024-06-01"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.RecordEntry(ctx, 1, tc.kind, tc.category, tc.quantity, tc.date)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	// Rejected submissions never touch the store.
	assert.Empty(t, store.entries)
	assert.Zero(t, store.balance(1))
}

func TestRecordEntryUnknownUser(t *testing.T) {
	store := newMemStore()
	ledger := NewLedger(store, store)

	_, err := ledger.RecordEntry(context.Background(), 42, model.KindBilling, "Electricity (kWh)", 10, "2024-06-01")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.Empty(t, store.entries)
}

func TestRecordEntryStorageFailureLeavesNoPartialState(t *testing.T) {
	store := newMemStore(model.User{ID: 1})
	store.appendErr = errors.New("connection reset")
	ledger := NewLedger(store, store)

	_, err := ledger.RecordEntry(context.Background(), 1, model.KindBilling, "Electricity (kWh)", 10, "2024-06-01")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, store.entries)
	assert.Zero(t, store.balance(1))
}

// TestRecordEntrySequentialInvariant checks the ledger invariant: after
// any number of submissions the balance equals the sum of credits
// earned across the stored entries.
func TestRecordEntrySequentialInvariant(t *testing.T) {
	store := newMemStore(model.User{ID: 1})
	ledger := NewLedger(store, store)
	ctx := context.Background()

	var want int64
	for i := 0; i < 25; i++ {
		entry, err := ledger.RecordEntry(ctx, 1, model.KindRecycling, "Plastic", 0.25, "2024-03-10")
		require.NoError(t, err)
		want += entry.CreditsEarned
	}
	assert.Equal(t, want, store.balance(1))

	entries, err := store.ListByUser(ctx, 1)
	require.NoError(t, err)
	var sum int64
	for _, e := range entries {
		sum += e.CreditsEarned
	}
	assert.Equal(t, store.balance(1), sum)
}

// TestRecordEntryConcurrentWritersLoseNoIncrement simulates concurrent
// submissions for the same user and verifies no increment is lost.
func TestRecordEntryConcurrentWritersLoseNoIncrement(t *testing.T) {
	store := newMemStore(model.User{ID: 1})
	ledger := NewLedger(store, store)

	const writers = 16
	const perWriter = 10

	var wg sync.WaitGroup
	wg.Add(writers)
	for w := 0; w < writers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_, err := ledger.RecordEntry(context.Background(), 1, model.KindBilling, "Electricity (kWh)", 450, "2024-06-01")
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	// 450 kWh is exactly 18000 credits per submission.
	assert.Equal(t, int64(writers*perWriter*18000), store.balance(1))

	entries, err := store.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, entries, writers*perWriter)
}

func TestHistoryFiltersByKind(t *testing.T) {
	store := newMemStore(model.User{ID: 1})
	ledger := NewLedger(store, store)
	ctx := context.Background()

	_, err := ledger.RecordEntry(ctx, 1, model.KindBilling, "Electricity (kWh)", 10, "2024-05-01")
	require.NoError(t, err)
	_, err = ledger.RecordEntry(ctx, 1, model.KindRecycling, "Glass", 3, "2024-05-02")
	require.NoError(t, err)

	billing, err := ledger.History(ctx, 1, model.KindBilling)
	require.NoError(t, err)
	require.Len(t, billing, 1)
	assert.Equal(t, "Electricity (kWh)", billing[0].Category)

	recycling, err := ledger.History(ctx, 1, model.KindRecycling)
	require.NoError(t, err)
	require.Len(t, recycling, 1)
	assert.Equal(t, "Glass", recycling[0].Category)

	_, err = ledger.History(ctx, 1, "everything")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
