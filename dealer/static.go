package dealer

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/MarshHawk/unlimited-poker/game"
)

var (
	ranks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "T", "J", "Q", "K", "A"}
	suits = []string{"c", "d", "h", "s"}
)

const boardSize = 5

// StaticDealer deals from a seeded deck. Two dealers built with the same
// seed produce the same sequence of deals. Scores only compare the best
// hole card and are meant for local play and tests, not for ranking.
type StaticDealer struct {
	lock sync.Mutex
	rng  *rand.Rand
}

func NewStaticDealer(seed int64) *StaticDealer {
	return &StaticDealer{rng: rand.New(rand.NewSource(seed))}
}

func newDeck() []string {
	deck := make([]string, 0, len(ranks)*len(suits))
	for _, s := range suits {
		for _, r := range ranks {
			deck = append(deck, r+s)
		}
	}
	return deck
}

func rankOf(card string) int {
	for i, r := range ranks {
		if card[:1] == r {
			return i
		}
	}
	return -1
}

func (d *StaticDealer) Deal(ctx context.Context, seatCount int) (*game.DealResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	deck := newDeck()
	if seatCount < 1 || seatCount*2+boardSize > len(deck) {
		return nil, fmt.Errorf("Cannot deal %d seats from one deck", seatCount)
	}

	d.lock.Lock()
	d.rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	d.lock.Unlock()

	result := &game.DealResult{
		Board: game.Cards{
			Flop:  append([]string(nil), deck[:3]...),
			Turn:  deck[3],
			River: deck[4],
		},
		Hands: make([]game.DealtHand, seatCount),
	}
	idx := boardSize
	for i := 0; i < seatCount; i++ {
		cards := []string{deck[idx], deck[idx+1]}
		idx += 2
		hi, lo := rankOf(cards[0]), rankOf(cards[1])
		if lo > hi {
			hi, lo = lo, hi
		}
		score := float64(hi*len(ranks) + lo)
		description := fmt.Sprintf("%s high", ranks[hi])
		if hi == lo {
			score += float64(len(ranks) * len(ranks))
			description = fmt.Sprintf("pair of %s", ranks[hi])
		}
		result.Hands[i] = game.DealtHand{
			Score:       score,
			Cards:       cards,
			Description: description,
		}
	}
	return result, nil
}
