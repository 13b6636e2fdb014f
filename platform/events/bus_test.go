package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"crm_insights_backend/platform/logger"
)

type testEvent struct {
	BaseEvent
	Value int
}

func (e testEvent) EventName() string { return "test.event" }

func TestInMemoryBus_PublishDeliversToAllSubscribers(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	var wg sync.WaitGroup
	wg.Add(2)
	var mu sync.Mutex
	received := make([]int, 0, 2)

	handler := HandlerFunc(func(_ context.Context, event Event) error {
		defer wg.Done()
		e, ok := event.(testEvent)
		if !ok {
			t.Errorf("unexpected event type %T", event)
			return nil
		}
		mu.Lock()
		received = append(received, e.Value)
		mu.Unlock()
		return nil
	})

	bus.Subscribe("test.event", handler)
	bus.Subscribe("test.event", handler)

	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent(), Value: 7})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("handlers did not run")
	}

	if len(received) != 2 || received[0] != 7 || received[1] != 7 {
		t.Fatalf("expected both subscribers to receive 7, got %v", received)
	}
}

func TestInMemoryBus_PublishSyncReturnsFirstError(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))
	wantErr := errors.New("handler failed")

	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		return wantErr
	}))
	ran := false
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		ran = true
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent()})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected handler error, got %v", err)
	}
	if ran {
		t.Fatalf("expected delivery to stop at the first error")
	}
}

func TestInMemoryBus_NoSubscribersIsFine(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent()})
	if err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
