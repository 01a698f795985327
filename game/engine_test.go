package game

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)

type step struct {
	player string
	action PlayerAction
	amount float64
}

// play applies the steps in order, checking chip conservation and that
// earlier log entries never change.
func play(t *testing.T, hand *Hand, steps ...step) (*Hand, *Outcome) {
	t.Helper()
	chips := hand.ChipsInPlay()
	var outcome *Outcome
	for i, s := range steps {
		before := hand.Clone()
		var err error
		outcome, err = ApplyAction(hand, s.player, s.action, s.amount)
		require.NoError(t, err, "step %d (%s %s %v)", i, s.player, s.action, s.amount)

		if diff := cmp.Diff(before, hand); diff != "" {
			t.Fatalf("step %d modified the input hand (-before +after):\n%s", i, diff)
		}
		next := outcome.Hand
		require.Len(t, next.PlayerEvents, len(hand.PlayerEvents)+1)
		require.Len(t, next.StreetEvents, len(hand.StreetEvents)+1)
		if diff := cmp.Diff(hand.PlayerEvents, next.PlayerEvents[:len(hand.PlayerEvents)]); diff != "" {
			t.Fatalf("step %d rewrote player events:\n%s", i, diff)
		}
		if diff := cmp.Diff(hand.StreetEvents, next.StreetEvents[:len(hand.StreetEvents)]); diff != "" {
			t.Fatalf("step %d rewrote street events:\n%s", i, diff)
		}
		assert.InDelta(t, chips, next.ChipsInPlay(), 0.0001, "step %d chips", i)
		hand = next
	}
	return hand, outcome
}

func TestStartHandPostsBlinds(t *testing.T) {
	hand := newTestHand(nil, 100, 100, 100, 100)

	assert.Equal(t, "hand-1", hand.ID)
	assert.Equal(t, "table-1", hand.TableID)
	assert.Equal(t, 90.0, stackOf(hand, "p0"))
	assert.Equal(t, 80.0, stackOf(hand, "p1"))
	assert.Equal(t, 100.0, stackOf(hand, "p2"))
	require.Len(t, hand.StreetEvents, 1)

	street := hand.StreetEvents[0]
	assert.Equal(t, StreetPreflop, street.StreetType)
	assert.Equal(t, 30.0, street.Pot)
	assert.Equal(t, []string{"p2", "p3", "p0", "p1"}, activeIDs(street.CurrentActivePlayers))
	assert.True(t, street.CurrentActivePlayers[3].IsBigBlind)
	assert.Equal(t, 20.0, street.CurrentActivePlayers[3].Bet)

	require.Len(t, hand.PlayerEvents, 2)
	assert.Equal(t, PlayerEvent{PlayerID: "p0", Action: ActionBet, Amount: 10, StreetType: StreetPreflop, CurrentStack: 90, CurrentPot: 10}, hand.PlayerEvents[0])
	assert.Equal(t, PlayerEvent{PlayerID: "p1", Action: ActionBet, Amount: 20, StreetType: StreetPreflop, CurrentStack: 80, CurrentPot: 30}, hand.PlayerEvents[1])
	assert.Equal(t, []string{"Ac", "Kc", "Qc"}, hand.Cards.Flop)
	assert.False(t, hand.IsClosed())
}

func TestStartHandShortBlind(t *testing.T) {
	hand := newTestHand(nil, 5, 100)
	assert.Equal(t, 0.0, stackOf(hand, "p0"))
	assert.Equal(t, 25.0, hand.CurrentStreet().Pot)
	assert.Equal(t, 5.0, hand.PlayerEvents[0].Amount)
}

func TestStartHandRejectsBadInput(t *testing.T) {
	dealer := &fixedDealer{}
	deal, _ := dealer.Deal(context.Background(), 2)

	_, err := StartHand("h", seating("t", 100), deal, Blinds{Small: 10, Big: 20}, testTime)
	assert.IsType(t, InvalidActionError{}, err)

	dup := DealInput{TableID: "t", Players: []PlayerInput{{ID: "a", Stack: 10}, {ID: "a", Stack: 10}}}
	_, err = StartHand("h", dup, deal, Blinds{Small: 10, Big: 20}, testTime)
	assert.IsType(t, InvalidActionError{}, err)

	_, err = StartHand("h", seating("t", 100, 100, 100), deal, Blinds{Small: 10, Big: 20}, testTime)
	assert.IsType(t, ExternalServiceError{}, err)

	deal.Board.Flop = deal.Board.Flop[:2]
	_, err = StartHand("h", seating("t", 100, 100), deal, Blinds{Small: 10, Big: 20}, testTime)
	assert.IsType(t, ExternalServiceError{}, err)
}

func TestThreePlayerShowdown(t *testing.T) {
	hand := newTestHand([]float64{2, 7, 9}, 100, 100, 100)

	hand, outcome := play(t, hand,
		step{"p2", ActionFold, 0},
		step{"p0", ActionBet, 10},
		step{"p1", ActionCheck, 0},
	)
	assert.True(t, outcome.StreetClosed)
	flop := hand.CurrentStreet()
	assert.Equal(t, StreetFlop, flop.StreetType)
	assert.Equal(t, 40.0, flop.Pot)
	assert.Equal(t, []string{"p0", "p1"}, activeIDs(flop.CurrentActivePlayers))
	for _, p := range flop.CurrentActivePlayers {
		assert.Zero(t, p.Bet)
	}

	hand, outcome = play(t, hand,
		step{"p0", ActionCheck, 0},
		step{"p1", ActionCheck, 0},
		step{"p0", ActionCheck, 0},
		step{"p1", ActionCheck, 0},
		step{"p0", ActionCheck, 0},
	)
	assert.Equal(t, StreetRiver, hand.CurrentStreet().StreetType)
	assert.False(t, outcome.Completed)

	hand, outcome = play(t, hand, step{"p1", ActionCheck, 0})
	require.True(t, outcome.Completed)
	require.True(t, hand.IsClosed())
	assert.Equal(t, "p1", hand.Result.WinnerID)
	assert.True(t, hand.Result.Showdown)
	assert.Equal(t, 40.0, hand.Result.Pot)
	assert.Equal(t, 80.0, stackOf(hand, "p1"), "winnings are carried into the next seating, not the closed hand")

	assert.Equal(t, DealInput{
		TableID: "table-1",
		Players: []PlayerInput{{ID: "p1", Stack: 120}, {ID: "p2", Stack: 100}, {ID: "p0", Stack: 80}},
	}, hand.Result.NextSeating)

	require.Len(t, outcome.Events, 1)
	ev := outcome.Events[0]
	assert.Equal(t, MutationUpdated, ev.MutationType)
	require.NotNil(t, ev.Cards)
	assert.Equal(t, "9s", ev.Cards.River)
	assert.Equal(t, ActionCheck, ev.PlayerEvent.Action)
	assert.Equal(t, 40.0, ev.StreetEvent.Pot)

	_, err := ApplyAction(hand, "p0", ActionCheck, 0)
	assert.IsType(t, InvalidActionError{}, err)
}

func TestHeadsUpFold(t *testing.T) {
	hand := newTestHand(nil, 100, 100)
	assert.Equal(t, []string{"p0", "p1"}, activeIDs(hand.CurrentStreet().CurrentActivePlayers))

	hand, outcome := play(t, hand, step{"p0", ActionFold, 0})
	require.True(t, outcome.Completed)
	assert.Equal(t, "p1", hand.Result.WinnerID)
	assert.False(t, hand.Result.Showdown)
	assert.Equal(t, []PlayerInput{{ID: "p1", Stack: 110}, {ID: "p0", Stack: 90}}, hand.Result.NextSeating.Players)
	assert.Equal(t, StreetPreflop, hand.CurrentStreet().StreetType)
	assert.Equal(t, 30.0, hand.CurrentStreet().Pot)
}

func TestRaiseIsAnsweredBeforeStreetCloses(t *testing.T) {
	hand := newTestHand(nil, 100, 100)

	hand, outcome := play(t, hand,
		step{"p0", ActionBet, 10},
		step{"p1", ActionBet, 20},
	)
	assert.False(t, outcome.StreetClosed)
	assert.Equal(t, []string{"p0", "p1"}, activeIDs(hand.CurrentStreet().CurrentActivePlayers))

	hand, outcome = play(t, hand, step{"p0", ActionBet, 20})
	assert.True(t, outcome.StreetClosed)
	flop := hand.CurrentStreet()
	assert.Equal(t, StreetFlop, flop.StreetType)
	assert.Equal(t, 80.0, flop.Pot)
	assert.Equal(t, []string{"p1", "p0"}, activeIDs(flop.CurrentActivePlayers))
}

func TestBigBlindGetsOption(t *testing.T) {
	hand := newTestHand(nil, 100, 100, 100)

	hand, outcome := play(t, hand,
		step{"p2", ActionBet, 20},
		step{"p0", ActionBet, 10},
	)
	assert.False(t, outcome.StreetClosed)
	next, _ := NextToAct(hand.CurrentStreet().CurrentActivePlayers)
	assert.Equal(t, "p1", next.ID)

	// the big blind raises, so the others have to act again
	hand, outcome = play(t, hand,
		step{"p1", ActionBet, 40},
		step{"p2", ActionBet, 40},
	)
	assert.False(t, outcome.StreetClosed)
	hand, outcome = play(t, hand, step{"p0", ActionFold, 0})
	assert.True(t, outcome.StreetClosed)
	assert.Equal(t, StreetFlop, hand.CurrentStreet().StreetType)
	assert.Equal(t, 140.0, hand.CurrentStreet().Pot)
	assert.Equal(t, []string{"p1", "p2"}, activeIDs(hand.CurrentStreet().CurrentActivePlayers))
}

func TestAllInRunsOut(t *testing.T) {
	hand := newTestHand([]float64{5, 1}, 100, 100)

	hand, outcome := play(t, hand,
		step{"p0", ActionBet, 90},
		step{"p1", ActionBet, 80},
	)
	assert.True(t, outcome.StreetClosed)
	assert.Equal(t, 200.0, hand.CurrentStreet().Pot)

	hand, outcome = play(t, hand,
		step{"p0", ActionCheck, 0},
		step{"p1", ActionCheck, 0},
		step{"p0", ActionCheck, 0},
		step{"p1", ActionCheck, 0},
		step{"p0", ActionCheck, 0},
		step{"p1", ActionCheck, 0},
	)
	require.True(t, outcome.Completed)
	assert.Equal(t, "p0", hand.Result.WinnerID)
	assert.Equal(t, []PlayerInput{{ID: "p0", Stack: 200}}, hand.Result.NextSeating.Players, "busted players leave the table")
}

func TestShortAllInCall(t *testing.T) {
	hand := newTestHand([]float64{1, 2, 3}, 100, 100, 30)

	hand, outcome := play(t, hand,
		step{"p2", ActionBet, 30},
		step{"p0", ActionBet, 90},
		step{"p1", ActionFold, 0},
	)
	assert.False(t, outcome.StreetClosed)
	hand, outcome = play(t, hand, step{"p2", ActionCheck, 0})
	assert.True(t, outcome.StreetClosed)
	assert.Equal(t, 150.0, hand.CurrentStreet().Pot)

	hand = checkDown(t, hand)
	assert.Equal(t, "p2", hand.Result.WinnerID)
	assert.Equal(t, 150.0, hand.Result.Pot)
	assert.Equal(t, []Payout{{PlayerID: "p0", Amount: 70}, {PlayerID: "p2", Amount: 80}}, hand.Result.Payouts,
		"p2 only wins what it matched")
	assert.Equal(t, []PlayerInput{{ID: "p1", Stack: 80}, {ID: "p2", Stack: 80}, {ID: "p0", Stack: 70}}, hand.Result.NextSeating.Players)
}

// checkDown checks for whoever is next to act until the hand is over.
func checkDown(t *testing.T, hand *Hand) *Hand {
	t.Helper()
	for i := 0; !hand.IsClosed(); i++ {
		require.Less(t, i, 20, "hand did not finish")
		next, ok := NextToAct(hand.CurrentStreet().CurrentActivePlayers)
		require.True(t, ok)
		hand, _ = play(t, hand, step{next.ID, ActionCheck, 0})
	}
	return hand
}

func TestPayoutsConserveChips(t *testing.T) {
	hand := newTestHand([]float64{1, 2, 3}, 100, 100, 30)
	chips := hand.ChipsInPlay()
	hand, _ = play(t, hand,
		step{"p2", ActionBet, 30},
		step{"p0", ActionBet, 90},
		step{"p1", ActionFold, 0},
		step{"p2", ActionCheck, 0},
	)
	hand = checkDown(t, hand)

	total := 0.0
	for _, seat := range hand.Result.NextSeating.Players {
		total += seat.Stack
	}
	assert.InDelta(t, chips, total, 0.0001)
}

func TestSubCentAmountsRejected(t *testing.T) {
	hand := newTestHand(nil, 100, 100)

	_, err := ApplyAction(hand, "p0", ActionBet, 10.005)
	assert.IsType(t, InvalidActionError{}, err)

	hand, _ = play(t, hand, step{"p0", ActionBet, 10.25})
	assert.Equal(t, 79.75, stackOf(hand, "p0"))
	assert.Equal(t, 40.25, hand.CurrentStreet().Pot)

	_, err = StartHand("hand-2", DealInput{TableID: "table-1", Players: []PlayerInput{
		{ID: "p0", Stack: 100.001},
		{ID: "p1", Stack: 100},
	}}, &DealResult{Board: Cards{Flop: []string{"Ac", "Kc", "Qc"}}, Hands: make([]DealtHand, 2)}, Blinds{Small: 10, Big: 20}, testTime)
	assert.IsType(t, InvalidActionError{}, err)
}

func TestFoldShrinksActivePlayers(t *testing.T) {
	hand := newTestHand(nil, 100, 100, 100, 100)
	before := inPlayCount(hand.CurrentStreet().CurrentActivePlayers)

	hand, _ = play(t, hand, step{"p2", ActionFold, 0})
	players := hand.CurrentStreet().CurrentActivePlayers
	assert.Equal(t, before-1, inPlayCount(players))
	assert.Equal(t, []string{"p3", "p0", "p1", "p2"}, activeIDs(players))
	assert.True(t, players[3].IsInactive)
}

func TestInvalidActions(t *testing.T) {
	hand := newTestHand(nil, 100, 100, 100)

	tests := []struct {
		name   string
		player string
		action PlayerAction
		amount float64
		errT   interface{}
	}{
		{"unknown player", "ghost", ActionCheck, 0, PlayerNotFoundError{}},
		{"out of turn", "p0", ActionBet, 10, InvalidActionError{}},
		{"negative amount", "p2", ActionBet, -5, InvalidActionError{}},
		{"bet over stack", "p2", ActionBet, 150, InvalidActionError{}},
		{"zero bet", "p2", ActionBet, 0, InvalidActionError{}},
		{"short call", "p2", ActionBet, 10, InvalidActionError{}},
		{"check facing bet", "p2", ActionCheck, 0, InvalidActionError{}},
		{"fold with amount", "p2", ActionFold, 5, InvalidActionError{}},
		{"unknown action", "p2", PlayerAction("RAISE"), 20, InvalidActionError{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := hand.Clone()
			_, err := ApplyAction(hand, tc.player, tc.action, tc.amount)
			assert.IsType(t, tc.errT, err)
			assert.Empty(t, cmp.Diff(before, hand))
		})
	}
}

func TestFoldedPlayerCannotAct(t *testing.T) {
	hand := newTestHand(nil, 100, 100, 100)
	hand, _ = play(t, hand,
		step{"p2", ActionFold, 0},
		step{"p0", ActionBet, 10},
		step{"p1", ActionCheck, 0},
	)
	_, err := ApplyAction(hand, "p2", ActionCheck, 0)
	assert.IsType(t, InvalidActionError{}, err)
}

func TestNonTerminalEventRotatesActor(t *testing.T) {
	hand := newTestHand(nil, 100, 100, 100)
	_, outcome := play(t, hand, step{"p2", ActionBet, 20})

	require.Len(t, outcome.Events, 1)
	ev := outcome.Events[0]
	assert.Nil(t, ev.Cards)
	assert.Equal(t, "hand-1", ev.HandID)
	assert.True(t, IsLastActor(ev.StreetEvent.CurrentActivePlayers, "p2"))
	assert.Equal(t, 50.0, ev.PlayerEvent.CurrentPot)
	assert.Equal(t, 80.0, ev.PlayerEvent.CurrentStack)
}

func TestHeadsUpFlopOrderFollowsPreflopCloser(t *testing.T) {
	hand := newTestHand(nil, 100, 100)
	hand, outcome := play(t, hand,
		step{"p0", ActionBet, 10},
		step{"p1", ActionCheck, 0},
	)
	assert.True(t, outcome.StreetClosed)
	assert.Equal(t, StreetFlop, hand.CurrentStreet().StreetType)
	assert.Equal(t, []string{"p0", "p1"}, activeIDs(hand.CurrentStreet().CurrentActivePlayers))
}
