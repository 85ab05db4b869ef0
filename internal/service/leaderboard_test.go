package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecocredit/internal/model"
)

func TestBuildLeaderboardOrderingAndBadges(t *testing.T) {
	users := []model.User{
		{ID: 4, Username: "sprout", CarbonCredits: 890},
		{ID: 1, Username: "guru", CarbonCredits: 12450},
		{ID: 3, Username: "joe", CarbonCredits: 8920},
		{ID: 2, Username: "warrior", CarbonCredits: 10230},
	}

	rows, stats := BuildLeaderboard(users)
	require.Len(t, rows, 4)

	// Credits descending with contiguous 1-based ranks.
	for i, row := range rows {
		assert.Equal(t, i+1, row.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, rows[i-1].Credits, row.Credits)
		}
	}
	assert.Equal(t, "guru", rows[0].Username)
	assert.Equal(t, model.BadgeGold, rows[0].Badge)
	assert.Equal(t, "warrior", rows[1].Username)
	assert.Equal(t, model.BadgeSilver, rows[1].Badge)
	assert.Equal(t, "joe", rows[2].Username)
	assert.Equal(t, model.BadgeBronze, rows[2].Badge)
	assert.Equal(t, model.BadgeNone, rows[3].Badge)

	assert.Equal(t, 4, stats.TotalUsers)
	assert.Equal(t, int64(12450+10230+8920+890), stats.TotalCredits)
}

func TestBuildLeaderboardTieBreakByUserID(t *testing.T) {
	users := []model.User{
		{ID: 9, Username: "late", CarbonCredits: 500},
		{ID: 2, Username: "early", CarbonCredits: 500},
		{ID: 5, Username: "mid", CarbonCredits: 500},
	}

	rows, _ := BuildLeaderboard(users)
	require.Len(t, rows, 3)

	// Equal balances break ties by ascending user id, and every row
	// still gets a distinct sequential rank.
	assert.Equal(t, uint64(2), rows[0].UserID)
	assert.Equal(t, uint64(5), rows[1].UserID)
	assert.Equal(t, uint64(9), rows[2].UserID)
	assert.Equal(t, []int{1, 2, 3}, []int{rows[0].Rank, rows[1].Rank, rows[2].Rank})
}

func TestBuildLeaderboardFewerThanThreeUsers(t *testing.T) {
	rows, stats := BuildLeaderboard([]model.User{
		{ID: 1, Username: "solo", CarbonCredits: 100},
		{ID: 2, Username: "duo", CarbonCredits: 50},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, model.BadgeGold, rows[0].Badge)
	assert.Equal(t, model.BadgeSilver, rows[1].Badge)
	assert.Equal(t, 2, stats.TotalUsers)

	rows, stats = BuildLeaderboard(nil)
	assert.Empty(t, rows)
	assert.Equal(t, model.LeaderboardStats{}, stats)
}

func TestBuildLeaderboardStableAcrossCalls(t *testing.T) {
	users := []model.User{
		{ID: 3, Username: "c", CarbonCredits: 70},
		{ID: 1, Username: "a", CarbonCredits: 70},
		{ID: 2, Username: "b", CarbonCredits: 90},
	}
	first, _ := BuildLeaderboard(users)
	for i := 0; i < 10; i++ {
		again, _ := BuildLeaderboard(users)
		require.Equal(t, first, again)
	}
	// The input snapshot is left untouched.
	assert.Equal(t, uint64(3), users[0].ID)
}

func TestBuildLeaderboardEstimatedReduction(t *testing.T) {
	rows, stats := BuildLeaderboard([]model.User{{ID: 1, Username: "u", CarbonCredits: 12450}})
	require.Len(t, rows, 1)
	// 12450 credits at 100 credits per kg is roughly 125 kg (rounded).
	assert.Equal(t, int64(125), rows[0].EstimatedReductionKg)
	assert.Equal(t, int64(125), stats.TotalReductionKg)
}
