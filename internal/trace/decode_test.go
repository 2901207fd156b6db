package trace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/snarg/uamp-sim/internal/device"
	"github.com/snarg/uamp-sim/internal/simevent"
)

func TestDecodeWireEvent(t *testing.T) {
	t.Run("screen_event", func(t *testing.T) {
		e, err := decodeWireEvent(wireEvent{
			EventType: "screen",
			Timestamp: "2026-01-01T08:30:00Z",
			State:     2,
		})
		require.NoError(t, err)
		require.Equal(t, simevent.Screen, e.Type)
		require.Equal(t, time.Date(2026, 1, 1, 8, 30, 0, 0, time.UTC), e.Timestamp)
		payload, ok := e.Payload.(simevent.ScreenPayload)
		require.True(t, ok)
		require.Equal(t, device.ScreenUserPresent, payload.State)
	})

	t.Run("app_activity_usage_event", func(t *testing.T) {
		e, err := decodeWireEvent(wireEvent{
			EventType:   "app.activity_usage",
			Timestamp:   "2026-01-01T09:31:00Z",
			AppID:       "com.example.app",
			SourceClass: "MainActivity",
			UsageEvent:  1,
		})
		require.NoError(t, err)
		payload, ok := e.Payload.(simevent.AppActivityUsagePayload)
		require.True(t, ok)
		require.Equal(t, "com.example.app", payload.AppID)
		require.Equal(t, simevent.MoveForeground, payload.Usage)
	})

	t.Run("unrecognised_event_type_errors", func(t *testing.T) {
		_, err := decodeWireEvent(wireEvent{EventType: "bogus", Timestamp: "2026-01-01T00:00:00Z"})
		require.Error(t, err)
	})

	t.Run("malformed_timestamp_errors", func(t *testing.T) {
		_, err := decodeWireEvent(wireEvent{EventType: "pseudo", Timestamp: "not-a-time"})
		require.Error(t, err)
	})
}

func TestDecodeTraceLogOrdering(t *testing.T) {
	data := []byte(`[
		{"event_type": "screen", "timestamp": "2026-01-01T08:00:00Z", "state": 1},
		{"event_type": "app.launch", "timestamp": "2026-01-01T08:05:00Z", "app_id": "com.a"}
	]`)
	events, err := decodeTraceLog(data)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, simevent.Screen, events[0].Type)
	require.Equal(t, simevent.AppLaunch, events[1].Type)
	require.True(t, events[0].Timestamp.Before(events[1].Timestamp))
}
