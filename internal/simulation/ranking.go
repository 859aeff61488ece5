package simulation

import "codespark/internal/models"

const (
	rankingBase        = 5000
	rankingTimeCeiling = 120
	rankingBoostFactor = 5
	rankingPlayers     = 15000
)

// Rank derives an illustrative leaderboard position from a best result.
// It returns nil when there is no result.
func Rank(best *models.BestResult) *models.Ranking {
	if best == nil {
		return nil
	}

	boost := rankingTimeCeiling - best.Time
	if boost < 0 {
		boost = 0
	}
	position := roundHalfUp(float64(rankingBase - boost*rankingBoostFactor))
	if position < 1 {
		position = 1
	}

	return &models.Ranking{
		Position:     position,
		TotalPlayers: rankingPlayers,
	}
}
