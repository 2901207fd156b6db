package predictor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/snarg/uamp-sim/internal/alarm"
	"github.com/snarg/uamp-sim/internal/device"
	"github.com/snarg/uamp-sim/internal/dispatch"
	"github.com/snarg/uamp-sim/internal/simevent"
)

// fakeEngine is a minimal Handle that records subscriptions, alarms, and
// broadcasts without running a real event loop.
type fakeEngine struct {
	now        time.Time
	alarms     []*alarm.Alarm
	broadcasts []simevent.Event
	listeners  map[simevent.Type][]struct {
		h dispatch.Handler
		f dispatch.Filter
	}
}

func newFakeEngine(now time.Time) *fakeEngine {
	return &fakeEngine{
		now: now,
		listeners: make(map[simevent.Type][]struct {
			h dispatch.Handler
			f dispatch.Filter
		}),
	}
}

func (f *fakeEngine) Subscribe(eventType simevent.Type, handler dispatch.Handler, filter dispatch.Filter) {
	f.listeners[eventType] = append(f.listeners[eventType], struct {
		h dispatch.Handler
		f dispatch.Filter
	}{handler, filter})
}

func (f *fakeEngine) RegisterAlarm(a *alarm.Alarm) {
	f.alarms = append(f.alarms, a)
}

func (f *fakeEngine) CurrentTime() time.Time {
	return f.now
}

func (f *fakeEngine) Broadcast(event simevent.Event) {
	f.broadcasts = append(f.broadcasts, event)
}

func (f *fakeEngine) dispatch(event simevent.Event) {
	for _, l := range f.listeners[event.Type] {
		if l.f == nil || l.f(event) {
			l.h(event)
		}
	}
}

func usageEvent(ts time.Time, appID string) simevent.Event {
	return simevent.Event{
		Timestamp: ts,
		Type:      simevent.AppActivityUsage,
		Payload:   simevent.AppActivityUsagePayload{AppID: appID, Usage: simevent.MoveForeground},
	}
}

func unlockEvent(ts time.Time) simevent.Event {
	return simevent.Event{
		Timestamp: ts,
		Type:      simevent.Screen,
		Payload:   simevent.ScreenPayload{State: device.ScreenUserPresent},
	}
}

func primeBucket(t *testing.T, p *Preload, engine *fakeEngine, base time.Time, appID string, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		engine.dispatch(usageEvent(base, appID))
	}
}

func TestPreload(t *testing.T) {
	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	t.Run("hit_predicts_and_confirms", func(t *testing.T) {
		engine := newFakeEngine(base)
		p := New("preload", engine, 6, 0.9)
		require.NoError(t, p.Build())
		require.Len(t, engine.alarms, 1)

		primeBucket(t, p, engine, base, "com.a", PreloadThreshold+1)

		engine.dispatch(unlockEvent(base))
		require.Len(t, engine.broadcasts, 1)
		require.Equal(t, simevent.PreloadApp, engine.broadcasts[0].Type)

		engine.dispatch(usageEvent(base.Add(time.Minute), "com.a"))
		require.Equal(t, 1, p.correct)
	})

	t.Run("miss_wrong_app", func(t *testing.T) {
		engine := newFakeEngine(base)
		p := New("preload", engine, 6, 0.9)
		require.NoError(t, p.Build())

		primeBucket(t, p, engine, base, "com.a", PreloadThreshold+1)
		engine.dispatch(unlockEvent(base))
		engine.dispatch(usageEvent(base.Add(time.Minute), "com.b"))
		require.Equal(t, 0, p.correct)
	})

	t.Run("miss_late", func(t *testing.T) {
		engine := newFakeEngine(base)
		p := New("preload", engine, 6, 0.9)
		require.NoError(t, p.Build())

		primeBucket(t, p, engine, base, "com.a", PreloadThreshold+1)
		engine.dispatch(unlockEvent(base))
		engine.dispatch(usageEvent(base.Add(10*time.Minute), "com.a"))
		require.Equal(t, 0, p.correct)
	})

	t.Run("below_threshold_does_not_predict", func(t *testing.T) {
		engine := newFakeEngine(base)
		p := New("preload", engine, 6, 0.9)
		require.NoError(t, p.Build())

		primeBucket(t, p, engine, base, "com.a", 5)
		engine.dispatch(unlockEvent(base))
		require.Empty(t, engine.broadcasts)
	})

	t.Run("rejects_interval_that_does_not_divide_24", func(t *testing.T) {
		engine := newFakeEngine(base)
		p := New("preload", engine, 5, 0.9)
		require.Error(t, p.Build())
	})
}
