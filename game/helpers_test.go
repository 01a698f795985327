package game

import (
	"context"
	"fmt"
	"sync"
)

// fixedDealer hands out cards and scores in seat order. Scores are taken
// from scores and default to zero.
type fixedDealer struct {
	lock   sync.Mutex
	scores []float64
	err    error
	calls  int
}

func (d *fixedDealer) Deal(ctx context.Context, seatCount int) (*DealResult, error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hands := make([]DealtHand, seatCount)
	for i := range hands {
		score := 0.0
		if i < len(d.scores) {
			score = d.scores[i]
		}
		hands[i] = DealtHand{
			Score:       score,
			Cards:       []string{fmt.Sprintf("%dh", i+2), fmt.Sprintf("%dd", i+2)},
			Description: fmt.Sprintf("seat %d", i),
		}
	}
	return &DealResult{
		Board: Cards{Flop: []string{"Ac", "Kc", "Qc"}, Turn: "Jc", River: "9s"},
		Hands: hands,
	}, nil
}

func (d *fixedDealer) Calls() int {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.calls
}

func seating(tableID string, stacks ...float64) DealInput {
	players := make([]PlayerInput, len(stacks))
	for i, s := range stacks {
		players[i] = PlayerInput{ID: fmt.Sprintf("p%d", i), Stack: s}
	}
	return DealInput{TableID: tableID, Players: players}
}

func newTestHand(scores []float64, stacks ...float64) *Hand {
	dealer := &fixedDealer{scores: scores}
	deal, err := dealer.Deal(context.Background(), len(stacks))
	if err != nil {
		panic(err)
	}
	hand, err := StartHand("hand-1", seating("table-1", stacks...), deal, Blinds{Small: 10, Big: 20}, testTime)
	if err != nil {
		panic(err)
	}
	return hand
}

func activeIDs(players []ActivePlayer) []string {
	ids := make([]string, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.ID)
	}
	return ids
}

func stackOf(hand *Hand, playerID string) float64 {
	p, ok := hand.FindPlayer(playerID)
	if !ok {
		panic(fmt.Sprintf("no player %s", playerID))
	}
	return p.Stack
}
