package game

import (
	"fmt"
	"math"
	"sort"

	"github.com/MarshHawk/unlimited-poker/util"
)

// ResolveWinner picks the player who collects the pot. A single remaining
// player wins without a showdown. Otherwise the highest score wins and a
// tie goes to the tied player that comes first in the given turn order.
func ResolveWinner(active []ActivePlayer, players []Player) (winnerID string, showdown bool, err error) {
	remaining := make([]ActivePlayer, 0, len(active))
	for _, ap := range active {
		if !ap.IsInactive {
			remaining = append(remaining, ap)
		}
	}
	switch len(remaining) {
	case 0:
		return "", false, fmt.Errorf("No active player left to win the pot")
	case 1:
		return remaining[0].ID, false, nil
	}

	scores := make(map[string]float64, len(players))
	for _, p := range players {
		scores[p.ID] = p.Score
	}

	found := false
	var best float64
	for _, ap := range remaining {
		score, ok := scores[ap.ID]
		if !ok {
			return "", true, PlayerNotFoundError{PlayerID: ap.ID}
		}
		if !found || util.Greater(score, best) {
			winnerID = ap.ID
			best = score
			found = true
		}
	}
	return winnerID, true, nil
}

// DistributePot splits the pot into layers by how much each player put in.
// A layer goes to the best hand among players still in play who covered
// it, so an all-in player only wins what they matched. A layer no player
// in play covered is returned to whoever put it in. Payouts follow seat
// order.
func DistributePot(active []ActivePlayer, players []Player, contributed map[string]float64) ([]Payout, error) {
	levels := make([]float64, 0, len(players))
	for _, p := range players {
		if c := contributed[p.ID]; util.Greater(c, 0) {
			levels = append(levels, c)
		}
	}
	sort.Float64s(levels)

	share := func(id string, from float64, to float64) float64 {
		c := contributed[id]
		return math.Max(0, math.Min(c, to)-math.Min(c, from))
	}

	won := make(map[string]float64, len(players))
	prev := 0.0
	for _, level := range levels {
		if util.NearlyEqual(level, prev) {
			continue
		}
		eligible := make([]ActivePlayer, 0, len(active))
		for _, ap := range active {
			if !ap.IsInactive && util.GreaterOrNearlyEqual(contributed[ap.ID], level) {
				eligible = append(eligible, ap)
			}
		}

		if len(eligible) == 0 {
			for _, p := range players {
				won[p.ID] += share(p.ID, prev, level)
			}
		} else {
			winnerID, _, err := ResolveWinner(eligible, players)
			if err != nil {
				return nil, err
			}
			layer := 0.0
			for _, p := range players {
				layer += share(p.ID, prev, level)
			}
			won[winnerID] += layer
		}
		prev = level
	}

	payouts := make([]Payout, 0, len(won))
	for _, p := range players {
		if amount := util.RoundChips(won[p.ID]); util.Greater(amount, 0) {
			payouts = append(payouts, Payout{PlayerID: p.ID, Amount: amount})
		}
	}
	return payouts, nil
}
