package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/MarshHawk/unlimited-poker/util"
)

type PlayerAction string

const (
	ActionBet   PlayerAction = "BET"
	ActionCheck PlayerAction = "CHECK"
	ActionFold  PlayerAction = "FOLD"
)

func ParsePlayerAction(s string) (PlayerAction, error) {
	switch PlayerAction(strings.ToUpper(strings.TrimSpace(s))) {
	case ActionBet:
		return ActionBet, nil
	case ActionCheck:
		return ActionCheck, nil
	case ActionFold:
		return ActionFold, nil
	}
	return "", fmt.Errorf("Unknown player action [%s]", s)
}

type StreetType string

const (
	StreetPreflop StreetType = "PREFLOP"
	StreetFlop    StreetType = "FLOP"
	StreetTurn    StreetType = "TURN"
	StreetRiver   StreetType = "RIVER"
)

// Next returns the street that follows s. River wraps back to Preflop,
// which is reported with wrapped = true and means the hand is over.
func (s StreetType) Next() (next StreetType, wrapped bool) {
	switch s {
	case StreetPreflop:
		return StreetFlop, false
	case StreetFlop:
		return StreetTurn, false
	case StreetTurn:
		return StreetRiver, false
	default:
		return StreetPreflop, true
	}
}

func ParseStreetType(s string) (StreetType, error) {
	switch StreetType(strings.ToUpper(strings.TrimSpace(s))) {
	case StreetPreflop:
		return StreetPreflop, nil
	case StreetFlop:
		return StreetFlop, nil
	case StreetTurn:
		return StreetTurn, nil
	case StreetRiver:
		return StreetRiver, nil
	}
	return "", fmt.Errorf("Unknown street type [%s]", s)
}

// Cards is the community board produced by the dealing service.
type Cards struct {
	Flop  []string `json:"flop"`
	Turn  string   `json:"turn"`
	River string   `json:"river"`
}

type Player struct {
	ID          string   `json:"id"`
	Stack       float64  `json:"stack"`
	Cards       []string `json:"cards"`
	Score       float64  `json:"score"`
	Description string   `json:"description"`
}

type PlayerEvent struct {
	PlayerID     string       `json:"playerId"`
	Action       PlayerAction `json:"action"`
	Amount       float64      `json:"amount"`
	StreetType   StreetType   `json:"streetType"`
	CurrentStack float64      `json:"currentStack"`
	CurrentPot   float64      `json:"currentPot"`
}

// ActivePlayer is a seat's state within one street snapshot. Bet only
// counts chips put in during the current street.
type ActivePlayer struct {
	ID         string  `json:"id"`
	Bet        float64 `json:"bet"`
	Stack      float64 `json:"stack"`
	IsInactive bool    `json:"isInactive"`
	IsBigBlind bool    `json:"isBigBlind"`
}

// StreetEvent is a turn order snapshot. Pot is cumulative for the hand.
type StreetEvent struct {
	StreetType           StreetType     `json:"streetType"`
	Pot                  float64        `json:"pot"`
	CurrentActivePlayers []ActivePlayer `json:"currentActivePlayers"`
}

type Blinds struct {
	Small float64 `json:"small" yaml:"small"`
	Big   float64 `json:"big" yaml:"big"`
}

type PlayerInput struct {
	ID    string  `json:"id" binding:"required"`
	Stack float64 `json:"stack"`
}

type DealInput struct {
	TableID string        `json:"tableId"`
	Players []PlayerInput `json:"players" binding:"required"`
}

// Payout is what one player collects when the hand is over.
type Payout struct {
	PlayerID string  `json:"playerId"`
	Amount   float64 `json:"amount"`
}

// HandResult is set once the hand is over. WinnerID holds the best hand
// still in play; Payouts says who collects which part of the pot.
type HandResult struct {
	WinnerID    string    `json:"winnerId"`
	Pot         float64   `json:"pot"`
	Showdown    bool      `json:"showdown"`
	Payouts     []Payout  `json:"payouts"`
	NextSeating DealInput `json:"nextSeating"`
	NextHandID  string    `json:"nextHandId,omitempty"`
}

type Hand struct {
	ID           string        `json:"id"`
	TableID      string        `json:"tableId"`
	Players      []Player      `json:"players"`
	Cards        Cards         `json:"cards"`
	PlayerEvents []PlayerEvent `json:"playerEvents"`
	StreetEvents []StreetEvent `json:"streetEvents"`
	Blinds       Blinds        `json:"blinds"`
	Result       *HandResult   `json:"result,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

func (h *Hand) IsClosed() bool {
	return h.Result != nil
}

// CurrentStreet returns the latest street snapshot.
func (h *Hand) CurrentStreet() *StreetEvent {
	if len(h.StreetEvents) == 0 {
		return nil
	}
	return &h.StreetEvents[len(h.StreetEvents)-1]
}

// StreetOpening returns the first snapshot of the current street type,
// which fixes the turn order for that street.
func (h *Hand) StreetOpening() *StreetEvent {
	if len(h.StreetEvents) == 0 {
		return nil
	}
	last := len(h.StreetEvents) - 1
	streetType := h.StreetEvents[last].StreetType
	i := last
	for i > 0 && h.StreetEvents[i-1].StreetType == streetType {
		i--
	}
	return &h.StreetEvents[i]
}

// ClosingOrder returns the snapshot whose last entry closes the current
// street. It is the snapshot in which the latest raise of the street was
// made, or the street's opening snapshot when nobody has raised.
func (h *Hand) ClosingOrder() []ActivePlayer {
	opening := h.StreetOpening()
	if opening == nil {
		return nil
	}
	first := len(h.StreetEvents) - 1
	for first > 0 && h.StreetEvents[first-1].StreetType == opening.StreetType {
		first--
	}
	for i := len(h.StreetEvents) - 1; i > first; i-- {
		if util.Greater(maxActiveBet(h.StreetEvents[i].CurrentActivePlayers), maxActiveBet(h.StreetEvents[i-1].CurrentActivePlayers)) {
			return h.StreetEvents[i-1].CurrentActivePlayers
		}
	}
	return opening.CurrentActivePlayers
}

func (h *Hand) playerIndex(playerID string) int {
	for i := range h.Players {
		if h.Players[i].ID == playerID {
			return i
		}
	}
	return -1
}

func (h *Hand) FindPlayer(playerID string) (*Player, bool) {
	i := h.playerIndex(playerID)
	if i < 0 {
		return nil, false
	}
	return &h.Players[i], true
}

// ChipsInPlay is the sum of all stacks plus the current pot. It stays
// constant for the lifetime of a hand.
func (h *Hand) ChipsInPlay() float64 {
	amounts := make([]float64, 0, len(h.Players)+1)
	for _, p := range h.Players {
		amounts = append(amounts, p.Stack)
	}
	if street := h.CurrentStreet(); street != nil {
		amounts = append(amounts, street.Pot)
	}
	return util.SumChips(amounts...)
}

func (h *Hand) Clone() *Hand {
	c := *h
	c.Players = make([]Player, len(h.Players))
	for i, p := range h.Players {
		p.Cards = cloneStrings(p.Cards)
		c.Players[i] = p
	}
	c.Cards.Flop = cloneStrings(h.Cards.Flop)
	c.PlayerEvents = append([]PlayerEvent(nil), h.PlayerEvents...)
	c.StreetEvents = make([]StreetEvent, len(h.StreetEvents))
	for i, s := range h.StreetEvents {
		s.CurrentActivePlayers = cloneActivePlayers(s.CurrentActivePlayers)
		c.StreetEvents[i] = s
	}
	if h.Result != nil {
		r := *h.Result
		r.NextSeating.Players = append([]PlayerInput(nil), h.Result.NextSeating.Players...)
		r.Payouts = append([]Payout(nil), h.Result.Payouts...)
		c.Result = &r
	}
	return &c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func cloneActivePlayers(in []ActivePlayer) []ActivePlayer {
	if in == nil {
		return nil
	}
	return append([]ActivePlayer(nil), in...)
}
