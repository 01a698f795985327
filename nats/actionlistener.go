package nats

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/MarshHawk/unlimited-poker/game"
	"github.com/MarshHawk/unlimited-poker/logging"
)

var actionLogger = log.With().Str("logger_name", "nats::action").Logger()

// TurnPlayer applies player actions. *game.Manager implements it.
type TurnPlayer interface {
	PlayTurn(ctx context.Context, req game.ActionRequest) (*game.TurnResult, error)
}

// ActionMessage is sent by players to player.<handID>.action.
type ActionMessage struct {
	PlayerID string  `json:"playerId"`
	Action   string  `json:"action"`
	Amount   float64 `json:"amount"`
}

// ActionReply is published to the reply subject of an action message.
type ActionReply struct {
	HandID     string `json:"handId"`
	NextHandID string `json:"nextHandId,omitempty"`
	Completed  bool   `json:"completed"`
	Error      string `json:"error,omitempty"`
}

// ActionListener applies player actions received over NATS. nats.go runs a
// subscription's callbacks one after another, so every message is played on
// its own goroutine and a slow hand never holds up the others. Actions on
// the same hand are still ordered by the manager's hand lock.
type ActionListener struct {
	turns     TurnPlayer
	publisher Publisher
	timeout   time.Duration
	sub       *natsgo.Subscription
	inflight  sync.WaitGroup
}

type subscriberPublisher interface {
	Subscriber
	Publisher
}

func NewActionListener(nc subscriberPublisher, turns TurnPlayer, timeout time.Duration) (*ActionListener, error) {
	l := &ActionListener{
		turns:     turns,
		publisher: nc,
		timeout:   timeout,
	}
	actionLogger.Info().Msgf("Listening nats subject: %s for player actions", PlayerActionSubjects)
	sub, err := nc.Subscribe(PlayerActionSubjects, l.handle)
	if err != nil {
		return nil, err
	}
	l.sub = sub
	return l, nil
}

func handIDFromSubject(subject string) (string, error) {
	parts := strings.Split(subject, ".")
	if len(parts) != 3 || parts[0] != "player" || parts[2] != "action" || parts[1] == "" {
		return "", fmt.Errorf("Unexpected action subject [%s]", subject)
	}
	return parts[1], nil
}

func (l *ActionListener) handle(msg *natsgo.Msg) {
	l.inflight.Add(1)
	go func() {
		defer l.inflight.Done()
		l.respond(msg, l.process(msg))
	}()
}

func (l *ActionListener) respond(msg *natsgo.Msg, reply ActionReply) {
	if msg.Reply == "" {
		return
	}
	data, err := jsoniter.Marshal(reply)
	if err != nil {
		actionLogger.Error().Err(err).Msg("Unable to marshal action reply")
		return
	}
	if err := l.publisher.Publish(msg.Reply, data); err != nil {
		actionLogger.Error().Err(err).Str(logging.SubjectKey, msg.Reply).Msg("Unable to send action reply")
	}
}

func (l *ActionListener) process(msg *natsgo.Msg) ActionReply {
	handID, err := handIDFromSubject(msg.Subject)
	if err != nil {
		return ActionReply{Error: err.Error()}
	}
	var message ActionMessage
	if err := jsoniter.Unmarshal(msg.Data, &message); err != nil {
		actionLogger.Error().Str(logging.HandIDKey, handID).Msgf("Invalid action message: %s", string(msg.Data))
		return ActionReply{HandID: handID, Error: fmt.Sprintf("Invalid action message: %v", err)}
	}
	action, err := game.ParsePlayerAction(message.Action)
	if err != nil {
		return ActionReply{HandID: handID, Error: err.Error()}
	}

	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	result, err := l.turns.PlayTurn(ctx, game.ActionRequest{
		HandID:   handID,
		PlayerID: message.PlayerID,
		Action:   action,
		Amount:   message.Amount,
	})
	reply := ActionReply{HandID: handID}
	if result != nil {
		reply.NextHandID = result.NextHandID
		reply.Completed = result.Hand != nil && result.Hand.IsClosed()
	}
	if err != nil {
		reply.Error = err.Error()
	}
	return reply
}

// Close stops the subscription and waits for actions in flight.
func (l *ActionListener) Close() error {
	var err error
	if l.sub != nil {
		err = l.sub.Unsubscribe()
	}
	l.inflight.Wait()
	return err
}
