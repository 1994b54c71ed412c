package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe("tui")
	assert.Equal(t, 1, bus.SubscriberCount())

	bus.Publish(Event{Source: Alerts, Detail: "notify"})
	select {
	case ev := <-ch:
		assert.Equal(t, Event{Source: Alerts, Detail: "notify"}, ev)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timed out waiting for event")
	}

	bus.Unsubscribe("tui")
	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, bus.SubscriberCount())
}

func TestBus_DropsWhenFull(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe("slow")

	done := make(chan struct{})
	go func() {
		for i := 0; i < subBufferSize*4; i++ {
			bus.Publish(Event{Source: Screen})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked")
	}
	assert.Len(t, ch, subBufferSize)
}

func TestBus_ResubscribeClosesPrevious(t *testing.T) {
	bus := NewBus()
	old := bus.Subscribe("tui")
	cur := bus.Subscribe("tui")
	_, ok := <-old
	assert.False(t, ok)

	bus.Publish(Event{Source: Navigation})
	require.Len(t, cur, 1)
}

func TestBus_NilPublish(t *testing.T) {
	var bus *Bus
	assert.NotPanics(t, func() { bus.Publish(Event{Source: Session}) })
}
