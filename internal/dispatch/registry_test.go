package dispatch

import (
	"testing"
	"time"

	"github.com/snarg/uamp-sim/internal/simevent"
)

func TestRegistryBroadcast(t *testing.T) {
	t.Run("listener_receives_matching_event", func(t *testing.T) {
		r := NewRegistry()
		var got simevent.Event
		r.Subscribe(simevent.Screen, func(e simevent.Event) { got = e }, nil)

		want := simevent.Event{Timestamp: time.Unix(0, 0), Type: simevent.Screen}
		r.Broadcast(want)

		if got.Type != simevent.Screen {
			t.Errorf("handler did not receive event, got %+v", got)
		}
	})

	t.Run("filter_excludes_non_matching", func(t *testing.T) {
		r := NewRegistry()
		calls := 0
		filter := func(e simevent.Event) bool {
			p, ok := e.Payload.(simevent.ScreenPayload)
			return ok && p.State == 2 // USER_PRESENT
		}
		r.Subscribe(simevent.Screen, func(simevent.Event) { calls++ }, filter)

		r.Broadcast(simevent.Event{Type: simevent.Screen, Payload: simevent.ScreenPayload{State: 1}})
		if calls != 0 {
			t.Fatalf("calls = %d, want 0 for non-matching filter", calls)
		}

		r.Broadcast(simevent.Event{Type: simevent.Screen, Payload: simevent.ScreenPayload{State: 2}})
		if calls != 1 {
			t.Fatalf("calls = %d, want 1 for matching filter", calls)
		}
	})

	t.Run("multiple_listeners_fire_in_registration_order", func(t *testing.T) {
		r := NewRegistry()
		var order []int
		r.Subscribe(simevent.AppLaunch, func(simevent.Event) { order = append(order, 1) }, nil)
		r.Subscribe(simevent.AppLaunch, func(simevent.Event) { order = append(order, 2) }, nil)
		r.Subscribe(simevent.AppLaunch, func(simevent.Event) { order = append(order, 3) }, nil)

		r.Broadcast(simevent.Event{Type: simevent.AppLaunch})

		if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
			t.Errorf("order = %v, want [1 2 3]", order)
		}
	})

	t.Run("unsubscribed_type_is_a_no_op", func(t *testing.T) {
		r := NewRegistry()
		r.Broadcast(simevent.Event{Type: simevent.Bluetooth})
	})

	t.Run("nested_broadcast_completes_before_outer_continues", func(t *testing.T) {
		r := NewRegistry()
		var order []string
		r.Subscribe(simevent.Screen, func(simevent.Event) {
			order = append(order, "outer-start")
			r.Broadcast(simevent.Event{Type: simevent.PreloadApp})
			order = append(order, "outer-end")
		}, nil)
		r.Subscribe(simevent.PreloadApp, func(simevent.Event) {
			order = append(order, "inner")
		}, nil)
		r.Subscribe(simevent.Screen, func(simevent.Event) {
			order = append(order, "second-outer-listener")
		}, nil)

		r.Broadcast(simevent.Event{Type: simevent.Screen})

		want := []string{"outer-start", "inner", "outer-end", "second-outer-listener"}
		if len(order) != len(want) {
			t.Fatalf("order = %v, want %v", order, want)
		}
		for i := range want {
			if order[i] != want[i] {
				t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
			}
		}
	})

	t.Run("subscribe_during_dispatch_is_deferred", func(t *testing.T) {
		r := NewRegistry()
		fired := 0
		r.Subscribe(simevent.Screen, func(simevent.Event) {
			r.Subscribe(simevent.Screen, func(simevent.Event) { fired++ }, nil)
		}, nil)

		r.Broadcast(simevent.Event{Type: simevent.Screen})
		if fired != 0 {
			t.Fatalf("fired = %d, want 0 on the broadcast that added the listener", fired)
		}

		r.Broadcast(simevent.Event{Type: simevent.Screen})
		if fired != 1 {
			t.Fatalf("fired = %d, want 1 on the next broadcast", fired)
		}
	})
}
