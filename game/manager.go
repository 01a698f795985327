package game

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/MarshHawk/unlimited-poker/logging"
	"github.com/MarshHawk/unlimited-poker/util"
)

var managerLogger = logging.GetZeroLogger("game::manager", nil)

// TableIndex remembers the most recent hand of each table.
type TableIndex interface {
	Set(tableID string, handID string)
	Get(tableID string) (string, bool)
}

type noTableIndex struct{}

func (noTableIndex) Set(string, string) {}

func (noTableIndex) Get(string) (string, bool) {
	return "", false
}

type ActionRequest struct {
	HandID   string
	PlayerID string
	Action   PlayerAction
	Amount   float64
}

// TurnResult is returned for every accepted action. NextHandID is set when
// the action ended the hand and the next hand was dealt.
type TurnResult struct {
	Hand       *Hand
	NextHandID string
}

// Manager runs hands against a store, a dealer and a broadcaster. Actions
// on the same hand are applied one at a time.
type Manager struct {
	store       HandStore
	dealer      DealClient
	broadcaster *Broadcaster
	tables      TableIndex
	config      EngineConfig
	locks       *handLocks
	now         func() time.Time
	newID       func() string
	logger      *zerolog.Logger
}

func NewManager(store HandStore, dealer DealClient, broadcaster *Broadcaster, tables TableIndex, config EngineConfig) *Manager {
	config = config.withDefaults()
	if broadcaster == nil {
		broadcaster = NewBroadcaster(config.SubscriberBuffer)
	}
	if tables == nil {
		tables = noTableIndex{}
	}
	return &Manager{
		store:       store,
		dealer:      dealer,
		broadcaster: broadcaster,
		tables:      tables,
		config:      config,
		locks:       newHandLocks(),
		now:         time.Now,
		newID:       newHandID,
		logger:      managerLogger,
	}
}

func newHandID() string {
	return uuid.New().String()
}

func (m *Manager) Broadcaster() *Broadcaster {
	return m.broadcaster
}

func (m *Manager) Config() EngineConfig {
	return m.config
}

// Deal seeds a new hand for the given seating and announces it.
func (m *Manager) Deal(ctx context.Context, input DealInput) (*Hand, error) {
	if err := ValidateSeating(input); err != nil {
		return nil, err
	}
	id := m.newID()

	dealCtx, cancel := context.WithTimeout(ctx, m.config.DealTimeout())
	deal, err := m.dealer.Deal(dealCtx, len(input.Players))
	cancel()
	if err != nil {
		return nil, ExternalServiceError{Service: "dealer", HandID: id, Err: err}
	}

	hand, err := StartHand(id, input, deal, m.config.Blinds(), m.now().UTC())
	if err != nil {
		return nil, err
	}

	storeCtx, cancel := context.WithTimeout(ctx, m.config.StoreTimeout())
	err = m.store.Save(storeCtx, hand)
	cancel()
	if err != nil {
		return nil, ExternalServiceError{Service: "store", HandID: id, Err: err}
	}

	m.tables.Set(hand.TableID, hand.ID)
	util.Metrics.HandDealt()
	m.broadcaster.PublishDeal(DealEvent{
		MutationType: MutationCreated,
		HandID:       hand.ID,
		TableID:      hand.TableID,
	})
	m.logger.Info().
		Str(logging.HandIDKey, hand.ID).
		Str(logging.TableIDKey, hand.TableID).
		Int("players", len(hand.Players)).
		Msg("Hand dealt")
	return hand, nil
}

// PlayTurn applies one player action. When the action ends the hand, the
// closed hand is stored first and the next hand is dealt with the rotated
// seating. If that deal fails the closed hand is still returned together
// with a SuccessorHandError.
func (m *Manager) PlayTurn(ctx context.Context, req ActionRequest) (*TurnResult, error) {
	unlock := m.locks.Lock(req.HandID)
	util.Metrics.SetActiveHandLocks(m.locks.Count())
	defer func() {
		unlock()
		util.Metrics.SetActiveHandLocks(m.locks.Count())
	}()

	hand, err := m.load(ctx, req.HandID)
	if err != nil {
		return nil, err
	}
	logger := logging.ForHand(*m.logger, hand.ID, hand.TableID)

	outcome, err := ApplyAction(hand, req.PlayerID, req.Action, req.Amount)
	if err != nil {
		util.Metrics.ActionRejected()
		logger.Debug().
			Str(logging.PlayerIDKey, req.PlayerID).
			Str(logging.ActionKey, string(req.Action)).
			Float64(logging.AmountKey, req.Amount).
			Msgf("Action rejected: %v", err)
		return nil, err
	}
	closed := outcome.Hand

	if err := m.upsert(ctx, closed); err != nil {
		return nil, err
	}
	util.Metrics.ActionApplied(string(req.Action))
	for _, ev := range outcome.Events {
		m.broadcaster.PublishHandEvent(ev)
	}
	logger.Info().
		Str(logging.PlayerIDKey, req.PlayerID).
		Str(logging.ActionKey, string(req.Action)).
		Float64(logging.AmountKey, req.Amount).
		Str(logging.StreetKey, string(outcome.PlayerEvent.StreetType)).
		Bool("streetClosed", outcome.StreetClosed).
		Msg("Action applied")

	result := &TurnResult{Hand: closed}
	if !outcome.Completed {
		return result, nil
	}

	util.Metrics.HandCompleted(closed.Result.Showdown)
	logger.Info().
		Str("winner", closed.Result.WinnerID).
		Float64("pot", closed.Result.Pot).
		Bool("showdown", closed.Result.Showdown).
		Msg("Hand completed")

	seating := closed.Result.NextSeating
	if len(seating.Players) < 2 {
		logger.Info().Msg("Not enough funded players for another hand")
		return result, nil
	}

	next, err := m.Deal(ctx, seating)
	if err != nil {
		util.Metrics.SuccessorFailed()
		logger.Error().Err(err).Msg("Could not deal the next hand")
		return result, SuccessorHandError{ClosedHandID: closed.ID, Seating: seating, Err: err}
	}

	closed.Result.NextHandID = next.ID
	result.NextHandID = next.ID
	if err := m.upsert(ctx, closed); err != nil {
		logger.Warn().Err(err).Str(logging.NextHandIDKey, next.ID).Msg("Could not record the next hand id")
	}
	return result, nil
}

// Hand returns a stored hand, open or closed.
func (m *Manager) Hand(ctx context.Context, id string) (*Hand, error) {
	return m.load(ctx, id)
}

// CurrentHand returns the latest hand dealt for a table.
func (m *Manager) CurrentHand(ctx context.Context, tableID string) (*Hand, error) {
	handID, ok := m.tables.Get(tableID)
	if !ok {
		return nil, TableNotFoundError{TableID: tableID}
	}
	return m.load(ctx, handID)
}

func (m *Manager) load(ctx context.Context, id string) (*Hand, error) {
	storeCtx, cancel := context.WithTimeout(ctx, m.config.StoreTimeout())
	defer cancel()
	hand, err := m.store.FindByID(storeCtx, id)
	if err != nil {
		var notFound HandNotFoundError
		if errors.As(err, &notFound) {
			return nil, notFound
		}
		return nil, ExternalServiceError{Service: "store", HandID: id, Err: err}
	}
	return hand, nil
}

func (m *Manager) upsert(ctx context.Context, hand *Hand) error {
	storeCtx, cancel := context.WithTimeout(ctx, m.config.StoreTimeout())
	defer cancel()
	if err := m.store.Upsert(storeCtx, hand.ID, hand); err != nil {
		return ExternalServiceError{Service: "store", HandID: hand.ID, Err: err}
	}
	return nil
}
