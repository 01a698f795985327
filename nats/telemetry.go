package nats

import (
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/MarshHawk/unlimited-poker/logging"
	"github.com/MarshHawk/unlimited-poker/pubsub"
)

var telemetryLogger = log.With().Str("logger_name", "nats::telemetry").Logger()

// Telemetry is a message seen on one of the telemetry subjects.
type Telemetry struct {
	Subject    string    `json:"subject"`
	Payload    string    `json:"payload"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// Subscriber is the part of *natsgo.Conn the listeners need.
type Subscriber interface {
	Subscribe(subj string, cb natsgo.MsgHandler) (*natsgo.Subscription, error)
}

type TelemetryListener struct {
	broker *pubsub.Broker[Telemetry]
	sub    *natsgo.Subscription
}

func NewTelemetryListener(nc Subscriber, broker *pubsub.Broker[Telemetry]) (*TelemetryListener, error) {
	l := &TelemetryListener{broker: broker}
	telemetryLogger.Info().Msgf("Listening nats subject: %s for telemetry", TelemetrySubject)
	sub, err := nc.Subscribe(TelemetrySubject, l.handle)
	if err != nil {
		return nil, err
	}
	l.sub = sub
	return l, nil
}

func (l *TelemetryListener) handle(msg *natsgo.Msg) {
	n := l.broker.Publish(Telemetry{
		Subject:    msg.Subject,
		Payload:    string(msg.Data),
		ReceivedAt: time.Now().UTC(),
	})
	telemetryLogger.Debug().Str(logging.SubjectKey, msg.Subject).Int("subscribers", n).Msg("Telemetry received")
}

func (l *TelemetryListener) Close() error {
	if l.sub == nil {
		return nil
	}
	return l.sub.Unsubscribe()
}
