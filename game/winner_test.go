package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWinnerSingleSurvivor(t *testing.T) {
	active := actives("a", "b", "c")
	active[0].IsInactive = true
	active[2].IsInactive = true
	players := []Player{{ID: "a", Score: 9}, {ID: "b", Score: 1}, {ID: "c", Score: 5}}

	winner, showdown, err := ResolveWinner(active, players)
	require.NoError(t, err)
	assert.Equal(t, "b", winner)
	assert.False(t, showdown)
}

func TestResolveWinnerHighestScore(t *testing.T) {
	active := actives("a", "b", "c")
	active[1].IsInactive = true
	players := []Player{{ID: "a", Score: 3.5}, {ID: "b", Score: 99}, {ID: "c", Score: 7.25}}

	winner, showdown, err := ResolveWinner(active, players)
	require.NoError(t, err)
	assert.Equal(t, "c", winner)
	assert.True(t, showdown)
}

func TestResolveWinnerTieGoesToFirstInOrder(t *testing.T) {
	active := actives("c", "a", "b")
	players := []Player{{ID: "a", Score: 10}, {ID: "b", Score: 10}, {ID: "c", Score: 10}}

	winner, _, err := ResolveWinner(active, players)
	require.NoError(t, err)
	assert.Equal(t, "c", winner)
}

func TestResolveWinnerErrors(t *testing.T) {
	active := actives("a")
	active[0].IsInactive = true
	_, _, err := ResolveWinner(active, nil)
	assert.Error(t, err)

	_, _, err = ResolveWinner(actives("a", "ghost"), []Player{{ID: "a"}})
	assert.IsType(t, PlayerNotFoundError{}, err)
}

func TestDistributePotSidePot(t *testing.T) {
	active := actives("a", "b", "c")
	players := []Player{{ID: "a", Score: 9}, {ID: "b", Score: 5}, {ID: "c", Score: 1}}
	contributed := map[string]float64{"a": 30, "b": 100, "c": 100}

	payouts, err := DistributePot(active, players, contributed)
	require.NoError(t, err)
	assert.Equal(t, []Payout{{PlayerID: "a", Amount: 90}, {PlayerID: "b", Amount: 140}}, payouts)
}

func TestDistributePotReturnsUnmatchedChips(t *testing.T) {
	active := actives("a", "b")
	active[0].IsInactive = true
	players := []Player{{ID: "a", Score: 9}, {ID: "b", Score: 1}, {ID: "gone", Score: 4}}
	contributed := map[string]float64{"a": 50, "b": 20, "gone": 10}

	payouts, err := DistributePot(active, players, contributed)
	require.NoError(t, err)
	assert.Equal(t, []Payout{{PlayerID: "a", Amount: 30}, {PlayerID: "b", Amount: 50}}, payouts)
}

func TestDistributePotSingleLayer(t *testing.T) {
	active := actives("a", "b")
	players := []Player{{ID: "a", Score: 2}, {ID: "b", Score: 2}}

	payouts, err := DistributePot(active, players, map[string]float64{"a": 20, "b": 20})
	require.NoError(t, err)
	assert.Equal(t, []Payout{{PlayerID: "a", Amount: 40}}, payouts)
}
