package service

import (
	"context"
	"sort"

	"ecocredit/internal/emission"
	"ecocredit/internal/model"
)

// LeaderboardLimit caps how many users a snapshot ranks.
const LeaderboardLimit = 100

// Leaderboard computes ranked snapshots of all users. Every call
// recomputes from the current user set; any caching happens outside
// this engine (the HTTP layer caches responses and invalidates them
// whenever a balance changes).
type Leaderboard struct {
	Users UserStore
}

func NewLeaderboard(users UserStore) *Leaderboard { return &Leaderboard{Users: users} }

// Snapshot reads the current users and ranks them.
func (l *Leaderboard) Snapshot(ctx context.Context) ([]model.LeaderboardRow, model.LeaderboardStats, error) {
	users, err := l.Users.ListByCredits(ctx, LeaderboardLimit)
	if err != nil {
		return nil, model.LeaderboardStats{}, err
	}
	rows, stats := BuildLeaderboard(users)
	return rows, stats, nil
}

// BuildLeaderboard orders users by credit balance descending, breaking
// ties by ascending user id, and assigns contiguous 1-based ranks.
// Ranks are sequential even on exact balance ties, so every row gets a
// distinct rank and badges stay unambiguous: rank 1 gold, 2 silver,
// 3 bronze, everyone else none. The input slice is not modified.
func BuildLeaderboard(users []model.User) ([]model.LeaderboardRow, model.LeaderboardStats) {
	ordered := make([]model.User, len(users))
	copy(ordered, users)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].CarbonCredits != ordered[j].CarbonCredits {
			return ordered[i].CarbonCredits > ordered[j].CarbonCredits
		}
		return ordered[i].ID < ordered[j].ID
	})

	rows := make([]model.LeaderboardRow, 0, len(ordered))
	var stats model.LeaderboardStats
	for i, u := range ordered {
		rows = append(rows, model.LeaderboardRow{
			Rank:                 i + 1,
			UserID:               u.ID,
			Username:             u.Username,
			FullName:             u.FullName,
			Credits:              u.CarbonCredits,
			EstimatedReductionKg: emission.EstimatedReductionKg(u.CarbonCredits),
			Badge:                badgeForRank(i + 1),
		})
		stats.TotalUsers++
		stats.TotalCredits += u.CarbonCredits
	}
	stats.TotalReductionKg = emission.EstimatedReductionKg(stats.TotalCredits)
	return rows, stats
}

func badgeForRank(rank int) string {
	switch rank {
	case 1:
		return model.BadgeGold
	case 2:
		return model.BadgeSilver
	case 3:
		return model.BadgeBronze
	default:
		return model.BadgeNone
	}
}
