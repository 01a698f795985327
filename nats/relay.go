package nats

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"

	"github.com/MarshHawk/unlimited-poker/game"
	"github.com/MarshHawk/unlimited-poker/logging"
)

var relayLogger = log.With().Str("logger_name", "nats::relay").Logger()

// Publisher is the part of *natsgo.Conn the relay needs.
type Publisher interface {
	Publish(subj string, data []byte) error
}

// Relay forwards broadcaster events to NATS so that other processes can
// follow hands without holding a websocket.
type Relay struct {
	publisher   Publisher
	broadcaster *game.Broadcaster
}

func NewRelay(publisher Publisher, broadcaster *game.Broadcaster) *Relay {
	return &Relay{
		publisher:   publisher,
		broadcaster: broadcaster,
	}
}

// Start subscribes to the broadcaster and relays events until ctx is done.
// The returned channel is closed once relaying has stopped.
func (r *Relay) Start(ctx context.Context) <-chan struct{} {
	deals := r.broadcaster.SubscribeDeals(nil)
	handEvents := r.broadcaster.SubscribeHandEvents(nil)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer deals.Close()
		defer handEvents.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-deals.C():
				if !ok {
					return
				}
				r.publish(GetDealSubject(ev.TableID), ev)
			case ev, ok := <-handEvents.C():
				if !ok {
					return
				}
				r.publish(GetHandEventSubject(ev.HandID), ev)
			}
		}
	}()
	return done
}

func (r *Relay) publish(subject string, event interface{}) {
	data, err := jsoniter.Marshal(event)
	if err != nil {
		relayLogger.Error().Err(err).Str(logging.SubjectKey, subject).Msg("Unable to marshal event")
		return
	}
	if err := r.publisher.Publish(subject, data); err != nil {
		relayLogger.Error().Err(err).Str(logging.SubjectKey, subject).Msg("Unable to publish event")
		return
	}
	relayLogger.Debug().Str(logging.SubjectKey, subject).Msg("Event relayed")
}
