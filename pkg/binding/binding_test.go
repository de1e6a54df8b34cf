package binding

import (
	"fmt"
	"testing"
)

func TestCreate_InitialValue(t *testing.T) {
	b, _ := Create(10)
	if b.Value() != 10 {
		t.Errorf("expected initial value 10, got %v", b.Value())
	}
}

func TestSetter_UpdatesValueAndNotifies(t *testing.T) {
	b, set := Create(10)

	var seen []any
	b.Subscribe(func(v any) {
		seen = append(seen, v)
	})

	set(20)
	set(30)

	if b.Value() != 30 {
		t.Errorf("expected value 30, got %v", b.Value())
	}
	if len(seen) != 2 || seen[0] != 20 || seen[1] != 30 {
		t.Errorf("expected notifications [20 30], got %v", seen)
	}
}

func TestSubscribe_RegistrationOrder(t *testing.T) {
	b, set := Create(0)

	var order []string
	b.Subscribe(func(any) { order = append(order, "first") })
	b.Subscribe(func(any) { order = append(order, "second") })
	b.Subscribe(func(any) { order = append(order, "third") })

	set(1)

	expected := []string{"first", "second", "third"}
	if len(order) != len(expected) {
		t.Fatalf("expected %d notifications, got %d", len(expected), len(order))
	}
	for i, name := range expected {
		if order[i] != name {
			t.Errorf("notification %d: expected %q, got %q", i, name, order[i])
		}
	}
}

func TestDisconnect_Idempotent(t *testing.T) {
	b, set := Create(0)

	calls := 0
	disconnect := b.Subscribe(func(any) { calls++ })

	set(1)
	disconnect()
	disconnect()
	disconnect()
	set(2)

	if calls != 1 {
		t.Errorf("expected exactly 1 notification, got %d", calls)
	}
}

func TestDisconnect_OnlyRemovesOwnSubscriber(t *testing.T) {
	b, set := Create(0)

	var first, second int
	disconnectFirst := b.Subscribe(func(any) { first++ })
	b.Subscribe(func(any) { second++ })

	disconnectFirst()
	disconnectFirst()
	set(1)

	if first != 0 {
		t.Errorf("expected disconnected subscriber to see 0 notifications, got %d", first)
	}
	if second != 1 {
		t.Errorf("expected remaining subscriber to see 1 notification, got %d", second)
	}
}

func TestMap_InitialValue(t *testing.T) {
	b, _ := Create(3)
	doubled := b.Map(func(v any) any { return v.(int) * 2 })

	if doubled.Value() != 6 {
		t.Errorf("expected mapped initial value 6, got %v", doubled.Value())
	}
}

func TestMap_FollowsSource(t *testing.T) {
	b, set := Create(1)
	label := b.Map(func(v any) any { return fmt.Sprintf("%d points", v) })

	var seen []any
	label.Subscribe(func(v any) { seen = append(seen, v) })

	set(5)

	if label.Value() != "5 points" {
		t.Errorf("expected mapped value '5 points', got %v", label.Value())
	}
	if len(seen) != 1 || seen[0] != "5 points" {
		t.Errorf("expected notification ['5 points'], got %v", seen)
	}
}

func TestMap_ChainedTransforms(t *testing.T) {
	b, set := Create(2)
	doubled := b.Map(func(v any) any { return v.(int) * 2 })
	shifted := doubled.Map(func(v any) any { return v.(int) + 1 })

	var seen []any
	shifted.Subscribe(func(v any) { seen = append(seen, v) })

	set(10)

	if shifted.Value() != 21 {
		t.Errorf("expected chained value 21, got %v", shifted.Value())
	}
	if len(seen) != 1 || seen[0] != 21 {
		t.Errorf("expected notification [21], got %v", seen)
	}
}

func TestMap_UpstreamTornDownOnLastDisconnect(t *testing.T) {
	b, set := Create(1)
	derived := b.Map(func(v any) any { return v.(int) * 10 })

	derivedCalls := 0
	disconnect := derived.Subscribe(func(any) { derivedCalls++ })

	set(2)
	if derivedCalls != 1 {
		t.Fatalf("expected 1 derived notification, got %d", derivedCalls)
	}

	disconnect()

	// With the upstream link torn down, further source updates must
	// produce no derived-side effect.
	set(3)
	if derivedCalls != 1 {
		t.Errorf("expected no notifications after disconnect, got %d", derivedCalls)
	}
	if derived.Value() != 20 {
		t.Errorf("expected derived value frozen at 20, got %v", derived.Value())
	}
}

func TestMap_TeardownSurvivesRepeatedDisconnects(t *testing.T) {
	b, set := Create(1)
	derived := b.Map(func(v any) any { return v })

	first := derived.Subscribe(func(any) {})
	second := derived.Subscribe(func(any) {})

	first()
	first()

	// One subscriber remains; upstream must still be connected.
	calls := 0
	derived.Subscribe(func(any) { calls++ })
	set(2)
	if calls != 1 {
		t.Fatalf("expected upstream to remain connected, got %d notifications", calls)
	}

	second()
	second()
}

func TestUpdate_ReentrantSubscriber(t *testing.T) {
	b, set := Create(0)

	var seen []any
	b.Subscribe(func(v any) {
		seen = append(seen, v)
		// Drive the binding toward a fixed point from inside the
		// notification.
		if v.(int) < 3 {
			set(v.(int) + 1)
		}
	})

	set(1)

	if b.Value() != 3 {
		t.Errorf("expected fixed point 3, got %v", b.Value())
	}
	if len(seen) != 3 {
		t.Errorf("expected 3 notifications, got %d (%v)", len(seen), seen)
	}
}

func TestUpdate_SubscriberAddedDuringNotification(t *testing.T) {
	b, set := Create(0)

	lateCalls := 0
	b.Subscribe(func(v any) {
		if v == 1 {
			b.Subscribe(func(any) { lateCalls++ })
		}
	})

	set(1)
	if lateCalls != 0 {
		t.Errorf("expected late subscriber to miss the in-flight notification, got %d", lateCalls)
	}

	set(2)
	if lateCalls != 1 {
		t.Errorf("expected late subscriber to see the next update, got %d", lateCalls)
	}
}

func TestUpdate_SubscriberDisconnectedDuringNotification(t *testing.T) {
	b, set := Create(0)

	var secondDisconnect func()
	b.Subscribe(func(any) {
		if secondDisconnect != nil {
			secondDisconnect()
		}
	})

	secondCalls := 0
	secondDisconnect = b.Subscribe(func(any) { secondCalls++ })

	set(1)

	// The first subscriber disconnected the second mid-walk; the second
	// must not fire.
	if secondCalls != 0 {
		t.Errorf("expected subscriber disconnected mid-notification not to fire, got %d", secondCalls)
	}
}
