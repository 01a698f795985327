package game

import (
	"fmt"
	"math"
	"time"

	"github.com/MarshHawk/unlimited-poker/util"
)

// Outcome is the result of applying one action. Hand is a new copy; the
// hand passed to ApplyAction is never modified.
type Outcome struct {
	Hand         *Hand
	PlayerEvent  PlayerEvent
	Events       []HandEventPayload
	StreetClosed bool
	Completed    bool
}

// ValidateSeating checks a deal request before anything is dealt.
func ValidateSeating(input DealInput) error {
	if input.TableID == "" {
		return InvalidActionError{Msg: "table id is required"}
	}
	if len(input.Players) < 2 {
		return InvalidActionError{Msg: fmt.Sprintf("at least 2 players are required, got %d", len(input.Players))}
	}
	seen := make(map[string]bool, len(input.Players))
	for i, p := range input.Players {
		if p.ID == "" {
			return InvalidActionError{Msg: fmt.Sprintf("seat %d has no player id", i)}
		}
		if seen[p.ID] {
			return InvalidActionError{PlayerID: p.ID, Msg: "player is seated twice"}
		}
		seen[p.ID] = true
		if p.Stack < 0 || math.IsNaN(p.Stack) || math.IsInf(p.Stack, 0) {
			return InvalidActionError{PlayerID: p.ID, Msg: fmt.Sprintf("invalid stack %v", p.Stack)}
		}
		if !wholeCents(p.Stack) {
			return InvalidActionError{PlayerID: p.ID, Msg: fmt.Sprintf("stack %v is not a whole number of cents", p.Stack)}
		}
	}
	return nil
}

func wholeCents(amount float64) bool {
	return util.NearlyEqual(amount, util.RoundChips(amount))
}

func validateDealResult(deal *DealResult, seats int) error {
	if deal == nil {
		return fmt.Errorf("empty deal result")
	}
	if len(deal.Hands) != seats {
		return fmt.Errorf("dealer returned %d hands for %d seats", len(deal.Hands), seats)
	}
	if len(deal.Board.Flop) != 3 {
		return fmt.Errorf("dealer returned a flop of %d cards", len(deal.Board.Flop))
	}
	return nil
}

// StartHand builds a new hand from a seating list and a deal. Seat 0 posts
// the small blind and seat 1 the big blind.
func StartHand(id string, input DealInput, deal *DealResult, blinds Blinds, createdAt time.Time) (*Hand, error) {
	if err := ValidateSeating(input); err != nil {
		return nil, err
	}
	if err := validateDealResult(deal, len(input.Players)); err != nil {
		return nil, ExternalServiceError{Service: "dealer", HandID: id, Err: err}
	}

	players := make([]Player, len(input.Players))
	active := make([]ActivePlayer, len(input.Players))
	blindEvents := make([]PlayerEvent, 0, 2)
	pot := 0.0
	for i, seat := range input.Players {
		post := 0.0
		switch i {
		case 0:
			post = math.Min(blinds.Small, seat.Stack)
		case 1:
			post = math.Min(blinds.Big, seat.Stack)
		}
		stack := util.RoundChips(seat.Stack - post)
		dealt := deal.Hands[i]
		players[i] = Player{
			ID:          seat.ID,
			Stack:       stack,
			Cards:       cloneStrings(dealt.Cards),
			Score:       dealt.Score,
			Description: dealt.Description,
		}
		active[i] = ActivePlayer{
			ID:         seat.ID,
			Bet:        post,
			Stack:      stack,
			IsBigBlind: i == 1,
		}
		if i < 2 {
			pot = util.RoundChips(pot + post)
			blindEvents = append(blindEvents, PlayerEvent{
				PlayerID:     seat.ID,
				Action:       ActionBet,
				Amount:       post,
				StreetType:   StreetPreflop,
				CurrentStack: stack,
				CurrentPot:   pot,
			})
		}
	}

	return &Hand{
		ID:      id,
		TableID: input.TableID,
		Players: players,
		Cards: Cards{
			Flop:  cloneStrings(deal.Board.Flop),
			Turn:  deal.Board.Turn,
			River: deal.Board.River,
		},
		PlayerEvents: blindEvents,
		StreetEvents: []StreetEvent{{
			StreetType:           StreetPreflop,
			Pot:                  pot,
			CurrentActivePlayers: NormalizeSeating(active),
		}},
		Blinds:    blinds,
		CreatedAt: createdAt,
	}, nil
}

func maxActiveBet(players []ActivePlayer) float64 {
	maxBet := 0.0
	for _, p := range players {
		if !p.IsInactive && p.Bet > maxBet {
			maxBet = p.Bet
		}
	}
	return maxBet
}

// betsLevel reports whether every player still in the hand has matched the
// highest bet. All-in players cannot put in more and count as level.
func betsLevel(players []ActivePlayer) bool {
	maxBet := maxActiveBet(players)
	for _, p := range players {
		if p.IsInactive || util.NearlyEqual(p.Bet, maxBet) || util.NearlyEqual(p.Stack, 0) {
			continue
		}
		return false
	}
	return true
}

func validateAction(handID string, ap ActivePlayer, maxBet float64, action PlayerAction, amount float64) error {
	invalid := func(format string, args ...interface{}) error {
		return InvalidActionError{HandID: handID, PlayerID: ap.ID, Msg: fmt.Sprintf(format, args...)}
	}
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return invalid("invalid amount %v", amount)
	}
	if !wholeCents(amount) {
		return invalid("amount %v is not a whole number of cents", amount)
	}
	allIn := util.NearlyEqual(ap.Stack, 0)
	switch action {
	case ActionBet:
		if util.NearlyEqual(amount, 0) {
			return invalid("bet amount must be positive")
		}
		if util.Greater(amount, ap.Stack) {
			return invalid("bet %v exceeds stack %v", amount, ap.Stack)
		}
		if util.Less(ap.Bet+amount, maxBet) && !util.NearlyEqual(amount, ap.Stack) {
			return invalid("bet %v does not cover the call of %v", amount, maxBet-ap.Bet)
		}
	case ActionCheck:
		if !util.NearlyEqual(amount, 0) {
			return invalid("check cannot carry an amount")
		}
		if util.Less(ap.Bet, maxBet) && !allIn {
			return invalid("cannot check facing a bet of %v", maxBet-ap.Bet)
		}
	case ActionFold:
		if !util.NearlyEqual(amount, 0) {
			return invalid("fold cannot carry an amount")
		}
	default:
		return invalid("unknown action [%s]", action)
	}
	return nil
}

// ApplyAction plays one action on the hand and returns the new hand state
// together with the events to publish.
func ApplyAction(hand *Hand, playerID string, action PlayerAction, amount float64) (*Outcome, error) {
	if hand.IsClosed() {
		return nil, InvalidActionError{HandID: hand.ID, PlayerID: playerID, Msg: "hand is already over"}
	}
	if hand.CurrentStreet() == nil {
		return nil, InvalidActionError{HandID: hand.ID, PlayerID: playerID, Msg: "hand has no street"}
	}
	playerIdx := hand.playerIndex(playerID)
	if playerIdx < 0 {
		return nil, PlayerNotFoundError{HandID: hand.ID, PlayerID: playerID}
	}

	h := hand.Clone()
	current := h.CurrentStreet()
	active := cloneActivePlayers(current.CurrentActivePlayers)
	ai := indexOfActive(active, playerID)
	if ai < 0 || active[ai].IsInactive {
		return nil, InvalidActionError{HandID: h.ID, PlayerID: playerID, Msg: "player has folded"}
	}
	if next, _ := NextToAct(active); next.ID != playerID {
		return nil, InvalidActionError{HandID: h.ID, PlayerID: playerID, Msg: fmt.Sprintf("waiting for player %s to act", next.ID)}
	}
	if err := validateAction(h.ID, active[ai], maxActiveBet(active), action, amount); err != nil {
		return nil, err
	}

	player := &h.Players[playerIdx]
	player.Stack = util.RoundChips(player.Stack - amount)
	pot := current.Pot
	if action == ActionBet {
		pot = util.RoundChips(pot + amount)
	}

	ap := &active[ai]
	ap.Bet = util.RoundChips(ap.Bet + amount)
	ap.Stack = player.Stack
	if action == ActionFold {
		ap.IsInactive = true
	}

	playerEvent := PlayerEvent{
		PlayerID:     playerID,
		Action:       action,
		Amount:       amount,
		StreetType:   current.StreetType,
		CurrentStack: player.Stack,
		CurrentPot:   pot,
	}
	h.PlayerEvents = append(h.PlayerEvents, playerEvent)

	reference := h.ClosingOrder()
	if util.Greater(maxActiveBet(active), maxActiveBet(current.CurrentActivePlayers)) {
		reference = current.CurrentActivePlayers
	}
	streetClosed := betsLevel(active) && isClosingActor(reference, active, playerID)
	nextStreet, wrapped := current.StreetType.Next()
	completed := inPlayCount(active) == 1 || (streetClosed && wrapped)

	outcome := &Outcome{
		PlayerEvent:  playerEvent,
		StreetClosed: streetClosed,
		Completed:    completed,
	}

	if !completed {
		streetType := current.StreetType
		order := Advance(active, playerID)
		if streetClosed {
			streetType = nextStreet
			order = openStreet(order)
		}
		street := StreetEvent{StreetType: streetType, Pot: pot, CurrentActivePlayers: order}
		h.StreetEvents = append(h.StreetEvents, street)
		outcome.Hand = h
		outcome.Events = []HandEventPayload{{
			MutationType: MutationUpdated,
			HandID:       h.ID,
			StreetEvent:  copyStreetEvent(street),
			PlayerEvent:  copyPlayerEvent(playerEvent),
		}}
		return outcome, nil
	}

	// The closing snapshot keeps the street type and records the final pot.
	final := StreetEvent{StreetType: current.StreetType, Pot: pot, CurrentActivePlayers: active}
	h.StreetEvents = append(h.StreetEvents, final)

	winnerID, showdown, err := ResolveWinner(active, h.Players)
	if err != nil {
		return nil, err
	}
	payouts, err := DistributePot(active, h.Players, contributions(h.PlayerEvents))
	if err != nil {
		return nil, err
	}
	h.Result = &HandResult{
		WinnerID:    winnerID,
		Pot:         pot,
		Showdown:    showdown,
		Payouts:     payouts,
		NextSeating: nextSeating(h, payouts),
	}
	board := h.Cards
	board.Flop = cloneStrings(h.Cards.Flop)
	outcome.Hand = h
	outcome.Events = []HandEventPayload{{
		MutationType: MutationUpdated,
		HandID:       h.ID,
		StreetEvent:  copyStreetEvent(final),
		PlayerEvent:  copyPlayerEvent(playerEvent),
		Cards:        &board,
	}}
	return outcome, nil
}

// contributions sums what each player put into the pot, blinds included.
func contributions(events []PlayerEvent) map[string]float64 {
	out := make(map[string]float64)
	for _, ev := range events {
		if ev.Action == ActionBet {
			out[ev.PlayerID] = util.RoundChips(out[ev.PlayerID] + ev.Amount)
		}
	}
	return out
}

// nextSeating applies the payouts, drops busted players and moves the
// first seat to the back.
func nextSeating(h *Hand, payouts []Payout) DealInput {
	won := make(map[string]float64, len(payouts))
	for _, p := range payouts {
		won[p.PlayerID] += p.Amount
	}
	seats := make([]PlayerInput, 0, len(h.Players))
	for _, p := range h.Players {
		stack := util.RoundChips(p.Stack + won[p.ID])
		seats = append(seats, PlayerInput{ID: p.ID, Stack: stack})
	}
	rotated := RotateSeating(seats)
	funded := make([]PlayerInput, 0, len(rotated))
	for _, s := range rotated {
		if util.Greater(s.Stack, 0) {
			funded = append(funded, s)
		}
	}
	return DealInput{TableID: h.TableID, Players: funded}
}

func copyStreetEvent(s StreetEvent) *StreetEvent {
	s.CurrentActivePlayers = cloneActivePlayers(s.CurrentActivePlayers)
	return &s
}

func copyPlayerEvent(p PlayerEvent) *PlayerEvent {
	return &p
}
