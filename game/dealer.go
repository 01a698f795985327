package game

import "context"

// DealtHand is one seat's share of a deal, in seating order.
type DealtHand struct {
	Score       float64  `json:"score"`
	Cards       []string `json:"cards"`
	Description string   `json:"description"`
}

type DealResult struct {
	Board Cards       `json:"board"`
	Hands []DealtHand `json:"hands"`
}

// DealClient requests a freshly dealt board and hole cards for a number of
// seats. Shuffling and ranking happen on the other side.
type DealClient interface {
	Deal(ctx context.Context, seatCount int) (*DealResult, error)
}
