package pubsub

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	HandID string
	Seq    int
}

func drain(sub *Subscription[testEvent]) []testEvent {
	events := make([]testEvent, 0)
	for {
		select {
		case ev, ok := <-sub.C():
			if !ok {
				return events
			}
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestSubscriberBeforePublishReceivesOnce(t *testing.T) {
	b := NewBroker[testEvent](8)
	sub := b.Subscribe(nil)
	defer sub.Close()

	n := b.Publish(testEvent{HandID: "h1", Seq: 1})
	assert.Equal(t, 1, n)

	events := drain(sub)
	require.Len(t, events, 1)
	assert.Equal(t, testEvent{HandID: "h1", Seq: 1}, events[0])
	assert.Empty(t, drain(sub))
}

func TestSubscriberAfterPublishSeesNothing(t *testing.T) {
	b := NewBroker[testEvent](8)
	early := b.Subscribe(nil)
	defer early.Close()

	b.Publish(testEvent{HandID: "h1", Seq: 1})

	late := b.Subscribe(nil)
	defer late.Close()
	assert.Empty(t, drain(late))

	b.Publish(testEvent{HandID: "h1", Seq: 2})
	lateEvents := drain(late)
	require.Len(t, lateEvents, 1)
	assert.Equal(t, 2, lateEvents[0].Seq)
	assert.Len(t, drain(early), 2)
}

func TestFilterIsPerSubscriber(t *testing.T) {
	b := NewBroker[testEvent](8)
	onlyH1 := b.Subscribe(func(ev testEvent) bool { return ev.HandID == "h1" })
	all := b.Subscribe(nil)
	defer onlyH1.Close()
	defer all.Close()

	b.Publish(testEvent{HandID: "h1", Seq: 1})
	b.Publish(testEvent{HandID: "h2", Seq: 2})

	h1Events := drain(onlyH1)
	require.Len(t, h1Events, 1)
	assert.Equal(t, "h1", h1Events[0].HandID)
	assert.Len(t, drain(all), 2)
}

func TestPublishOrderPreservedPerSubscriber(t *testing.T) {
	b := NewBroker[testEvent](16)
	sub := b.Subscribe(nil)
	defer sub.Close()

	for i := 1; i <= 10; i++ {
		b.Publish(testEvent{HandID: "h1", Seq: i})
	}
	events := drain(sub)
	require.Len(t, events, 10)
	for i, ev := range events {
		assert.Equal(t, i+1, ev.Seq)
	}
}

func TestSlowSubscriberDropsOldest(t *testing.T) {
	b := NewBroker[testEvent](2)
	drops := 0
	b.OnDrop(func() { drops++ })
	sub := b.Subscribe(nil)
	defer sub.Close()

	for i := 1; i <= 5; i++ {
		b.Publish(testEvent{HandID: "h1", Seq: i})
	}

	events := drain(sub)
	require.Len(t, events, 2)
	assert.Equal(t, 4, events[0].Seq)
	assert.Equal(t, 5, events[1].Seq)
	assert.Equal(t, uint64(3), sub.Dropped())
	assert.Equal(t, 3, drops)
}

func TestCloseUnsubscribes(t *testing.T) {
	b := NewBroker[testEvent](4)
	sub := b.Subscribe(nil)
	assert.Equal(t, 1, b.Subscribers())

	sub.Close()
	sub.Close()
	assert.Equal(t, 0, b.Subscribers())
	assert.Equal(t, 0, b.Publish(testEvent{HandID: "h1"}))

	_, ok := <-sub.C()
	assert.False(t, ok)
}

func TestConcurrentSubscribePublish(t *testing.T) {
	b := NewBroker[testEvent](4)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.Publish(testEvent{HandID: "h", Seq: j})
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				sub := b.Subscribe(nil)
				drain(sub)
				sub.Close()
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publishers blocked")
	}
	assert.Equal(t, 0, b.Subscribers())
}
