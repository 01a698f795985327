package test

import (
	"context"
	"fmt"
	"sync"

	"github.com/MarshHawk/unlimited-poker/game"
)

// scriptedDealer deals the script's board and per-seat scores for the
// first hand. Later hands get the same board and unscored hole cards.
type scriptedDealer struct {
	lock     sync.Mutex
	script   *GameScript
	failNext bool
	calls    int
}

func newScriptedDealer(script *GameScript) *scriptedDealer {
	return &scriptedDealer{script: script, failNext: script.FailDealer}
}

func (d *scriptedDealer) Deal(ctx context.Context, seatCount int) (*game.DealResult, error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.calls++
	first := d.calls == 1
	if !first && d.failNext {
		return nil, fmt.Errorf("scripted dealer failure")
	}
	if first && seatCount != len(d.script.Players) {
		return nil, fmt.Errorf("dealer expected %d seats, got %d", len(d.script.Players), seatCount)
	}

	hands := make([]game.DealtHand, seatCount)
	for i := range hands {
		hands[i] = game.DealtHand{Cards: []string{"Xx", "Xx"}, Description: "unscored"}
		if first {
			p := d.script.Players[i]
			hands[i] = game.DealtHand{
				Score:       p.Score,
				Cards:       p.Cards,
				Description: fmt.Sprintf("score %v", p.Score),
			}
		}
	}
	flop := d.script.Board.Flop
	if len(flop) == 0 {
		flop = []string{"2c", "7d", "Jh"}
	}
	return &game.DealResult{
		Board: game.Cards{Flop: flop, Turn: d.script.Board.Turn, River: d.script.Board.River},
		Hands: hands,
	}, nil
}

func (d *scriptedDealer) Calls() int {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.calls
}
