package eventbus

import "testing"

func TestPublishInvokesSubscribersInOrder(t *testing.T) {
	b := New()
	var order []int
	b.Subscribe("topic", func(event interface{}) { order = append(order, 1) })
	b.Subscribe("topic", func(event interface{}) { order = append(order, 2) })
	b.Subscribe("topic", func(event interface{}) { order = append(order, 3) })
	b.Publish("topic", nil)
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("expected handlers invoked in registration order, got %v", order)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	calls := 0
	token := b.Subscribe("topic", func(event interface{}) { calls++ })
	b.Publish("topic", nil)
	b.Unsubscribe("topic", token)
	b.Publish("topic", nil)
	if calls != 1 {
		t.Errorf("expected exactly one delivered call, got %d", calls)
	}
}

func TestPublishPassesPayload(t *testing.T) {
	b := New()
	var got interface{}
	b.Subscribe("topic", func(event interface{}) { got = event })
	b.Publish("topic", 42)
	if got != 42 {
		t.Errorf("expected payload 42, got %v", got)
	}
}

func TestDifferentTopicsAreIsolated(t *testing.T) {
	b := New()
	calls := 0
	b.Subscribe("a", func(event interface{}) { calls++ })
	b.Publish("b", nil)
	if calls != 0 {
		t.Error("expected no cross-topic delivery")
	}
}

func TestCompositeDisposableTearsDownAll(t *testing.T) {
	b := New()
	calls := 0
	var composite CompositeDisposable
	composite.Add(b.SubscribeDisposable("topic", func(event interface{}) { calls++ }))
	composite.Add(b.SubscribeDisposable("topic", func(event interface{}) { calls++ }))
	b.Publish("topic", nil)
	composite.Dispose()
	b.Publish("topic", nil)
	if calls != 2 {
		t.Errorf("expected 2 calls before disposal, got %d", calls)
	}
}
