package game

import (
	"github.com/MarshHawk/unlimited-poker/pubsub"
	"github.com/MarshHawk/unlimited-poker/util"
)

type MutationType string

const (
	MutationCreated MutationType = "CREATED"
	MutationUpdated MutationType = "UPDATED"
)

// DealEvent announces a newly seeded hand.
type DealEvent struct {
	MutationType MutationType `json:"mutationType"`
	HandID       string       `json:"id"`
	TableID      string       `json:"tableId"`
}

// HandEventPayload carries a street or player update within a hand.
// Cards is only set when the hand is over and the board is revealed.
type HandEventPayload struct {
	MutationType MutationType `json:"mutationType"`
	HandID       string       `json:"handId"`
	StreetEvent  *StreetEvent `json:"streetEvent,omitempty"`
	PlayerEvent  *PlayerEvent `json:"playerEvent,omitempty"`
	Cards        *Cards       `json:"cards,omitempty"`
}

// Broadcaster keeps one broker per event type.
type Broadcaster struct {
	deals      *pubsub.Broker[DealEvent]
	handEvents *pubsub.Broker[HandEventPayload]
}

func NewBroadcaster(bufferSize int) *Broadcaster {
	b := &Broadcaster{
		deals:      pubsub.NewBroker[DealEvent](bufferSize),
		handEvents: pubsub.NewBroker[HandEventPayload](bufferSize),
	}
	b.deals.OnDrop(util.Metrics.EventDropped)
	b.handEvents.OnDrop(util.Metrics.EventDropped)
	return b
}

func (b *Broadcaster) PublishDeal(event DealEvent) int {
	return b.deals.Publish(event)
}

func (b *Broadcaster) PublishHandEvent(event HandEventPayload) int {
	return b.handEvents.Publish(event)
}

func (b *Broadcaster) SubscribeDeals(filter pubsub.Filter[DealEvent]) *pubsub.Subscription[DealEvent] {
	return b.deals.Subscribe(filter)
}

func (b *Broadcaster) SubscribeHandEvents(filter pubsub.Filter[HandEventPayload]) *pubsub.Subscription[HandEventPayload] {
	return b.handEvents.Subscribe(filter)
}

// DealFilter matches deal events by mutation type and table. Empty values
// match everything.
func DealFilter(mutationType MutationType, tableID string) pubsub.Filter[DealEvent] {
	return func(ev DealEvent) bool {
		if mutationType != "" && ev.MutationType != mutationType {
			return false
		}
		return tableID == "" || ev.TableID == tableID
	}
}

// HandEventFilter matches hand events by mutation type and hand id. Empty
// values match everything.
func HandEventFilter(mutationType MutationType, handID string) pubsub.Filter[HandEventPayload] {
	return func(ev HandEventPayload) bool {
		if mutationType != "" && ev.MutationType != mutationType {
			return false
		}
		return handID == "" || ev.HandID == handID
	}
}
