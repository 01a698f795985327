package test

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/MarshHawk/unlimited-poker/game"
	"github.com/MarshHawk/unlimited-poker/util"
)

func (g *GameScript) run() error {
	config := game.DefaultEngineConfig()
	if g.Blinds != nil {
		config.SmallBlind = g.Blinds.Small
		config.BigBlind = g.Blinds.Big
	}
	dealer := newScriptedDealer(g)
	manager := game.NewManager(game.NewMemoryHandStore(), dealer, nil, nil, config)
	ctx := context.Background()

	table := g.Table
	if table == "" {
		table = "script-table"
	}
	seats := make([]game.PlayerInput, 0, len(g.Players))
	for _, p := range g.Players {
		seats = append(seats, game.PlayerInput{ID: p.ID, Stack: p.Stack})
	}
	hand, err := manager.Deal(ctx, game.DealInput{TableID: table, Players: seats})
	if err != nil {
		e := errors.Wrap(err, "[deal section] Unable to deal the first hand")
		g.result.addError(e)
		return e
	}
	chips := hand.ChipsInPlay()

	var lastResult *game.TurnResult
	var lastErr error
	for i, a := range g.Actions {
		where := fmt.Sprintf("[action %d: %s %s %v]", i+1, a.Player, a.Action, a.Amount)
		action, err := game.ParsePlayerAction(a.Action)
		if err != nil {
			e := fmt.Errorf("%s %v", where, err)
			g.result.addError(e)
			return e
		}
		result, err := manager.PlayTurn(ctx, game.ActionRequest{
			HandID:   hand.ID,
			PlayerID: a.Player,
			Action:   action,
			Amount:   a.Amount,
		})
		if result != nil {
			lastResult = result
		}
		lastErr = err

		if e := g.verifyAction(where, a.Verify, result, err); e != nil {
			g.result.addError(e)
			return e
		}
		if err != nil {
			continue
		}
		if !util.NearlyEqual(chips, result.Hand.ChipsInPlay()) {
			e := fmt.Errorf("%s Chips in play changed from %v to %v", where, chips, result.Hand.ChipsInPlay())
			g.result.addError(e)
			return e
		}
	}

	if g.Result != nil {
		if e := g.verifyResult(lastResult, lastErr, dealer); e != nil {
			g.result.addError(e)
			return e
		}
	}
	return nil
}

func errorKind(err error) string {
	var (
		playerNotFound game.PlayerNotFoundError
		handNotFound   game.HandNotFoundError
		invalid        game.InvalidActionError
		successor      game.SuccessorHandError
		external       game.ExternalServiceError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &successor):
		return "SuccessorHand"
	case errors.As(err, &playerNotFound):
		return "PlayerNotFound"
	case errors.As(err, &handNotFound):
		return "HandNotFound"
	case errors.As(err, &invalid):
		return "InvalidAction"
	case errors.As(err, &external):
		return "ExternalService"
	}
	return "Unknown"
}

func (g *GameScript) verifyAction(where string, check *ActionCheck, result *game.TurnResult, err error) error {
	expectedErr := ""
	if check != nil {
		expectedErr = check.Error
	}
	if kind := errorKind(err); kind != expectedErr {
		return fmt.Errorf("%s Expected error [%s], got [%s]: %v", where, expectedErr, kind, err)
	}
	if check == nil || result == nil {
		return nil
	}

	street := result.Hand.CurrentStreet()
	if check.Street != "" {
		expected, err := game.ParseStreetType(check.Street)
		if err != nil {
			return fmt.Errorf("%s %v", where, err)
		}
		if street.StreetType != expected {
			return fmt.Errorf("%s Expected street %s, actual %s", where, expected, street.StreetType)
		}
	}
	if check.Pot != nil && !util.NearlyEqual(*check.Pot, street.Pot) {
		return fmt.Errorf("%s Expected pot %v, actual %v", where, *check.Pot, street.Pot)
	}
	if check.Order != nil {
		actual := make([]string, 0, len(street.CurrentActivePlayers))
		for _, p := range street.CurrentActivePlayers {
			actual = append(actual, p.ID)
		}
		if fmt.Sprint(actual) != fmt.Sprint(check.Order) {
			return fmt.Errorf("%s Expected order %v, actual %v", where, check.Order, actual)
		}
	}
	if check.Next != "" {
		next, _ := game.NextToAct(street.CurrentActivePlayers)
		if next.ID != check.Next {
			return fmt.Errorf("%s Expected %s to act next, actual %s", where, check.Next, next.ID)
		}
	}
	return nil
}

func (g *GameScript) verifyResult(last *game.TurnResult, lastErr error, dealer *scriptedDealer) error {
	expected := g.Result
	if kind := errorKind(lastErr); kind != expected.Error {
		return fmt.Errorf("[result section] Expected error [%s], got [%s]: %v", expected.Error, kind, lastErr)
	}
	if last == nil || !last.Hand.IsClosed() {
		return fmt.Errorf("[result section] Hand is not over")
	}
	actual := last.Hand.Result
	if actual.WinnerID != expected.Winner {
		return fmt.Errorf("[result section] Expected winner %s, actual %s", expected.Winner, actual.WinnerID)
	}
	if actual.Showdown != expected.Showdown {
		return fmt.Errorf("[result section] Expected showdown %v, actual %v", expected.Showdown, actual.Showdown)
	}
	if !util.NearlyEqual(actual.Pot, expected.Pot) {
		return fmt.Errorf("[result section] Expected pot %v, actual %v", expected.Pot, actual.Pot)
	}
	for id, stack := range expected.Stacks {
		p, ok := last.Hand.FindPlayer(id)
		if !ok {
			return fmt.Errorf("[result section] Player %s is not in the hand", id)
		}
		if !util.NearlyEqual(p.Stack, stack) {
			return fmt.Errorf("[result section] Player %s stack does not match. Expected: %v, actual: %v", id, stack, p.Stack)
		}
	}
	if expected.NextSeating != nil {
		seats := actual.NextSeating.Players
		if len(seats) != len(expected.NextSeating) {
			return fmt.Errorf("[result section] Expected %d seats for the next hand, actual %d", len(expected.NextSeating), len(seats))
		}
		for i, seat := range expected.NextSeating {
			if seats[i].ID != seat.ID || !util.NearlyEqual(seats[i].Stack, seat.Stack) {
				return fmt.Errorf("[result section] Seat %d expected %v, actual %v", i, seat, seats[i])
			}
		}
	}
	if expected.NextHand != (last.NextHandID != "") {
		return fmt.Errorf("[result section] Expected next hand %v, actual next hand id [%s] after %d deals",
			expected.NextHand, last.NextHandID, dealer.Calls())
	}
	return nil
}
