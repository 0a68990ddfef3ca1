package eventbus

import "testing"

func TestPublishSubscribe(t *testing.T) {
	bus := NewTyped[int]()
	sub := bus.Subscribe()
	bus.Publish(42)
	select {
	case v := <-sub:
		if v != 42 {
			t.Fatalf("expected 42, got %d", v)
		}
	default:
		t.Fatalf("no event delivered")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := NewTyped[string]()
	sub := bus.Subscribe()
	bus.Unsubscribe(sub)
	if _, ok := <-sub; ok {
		t.Fatalf("channel should be closed")
	}
}

func TestPublishAfterClose(t *testing.T) {
	bus := NewTyped[int]()
	sub := bus.Subscribe()
	bus.Close()
	bus.Publish(1) // must not panic
	if _, ok := <-sub; ok {
		t.Fatalf("channel should be closed")
	}
}

func TestPublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	bus := NewTyped[int]()
	_ = bus.Subscribe()
	for i := 0; i < 200; i++ {
		bus.Publish(i)
	}
}
