package trace

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/snarg/uamp-sim/internal/device"
	"github.com/snarg/uamp-sim/internal/simevent"
)

// wireEvent mirrors the JSON object shape from spec.md §6: a common
// envelope (event_type, timestamp) plus whichever variant-specific fields
// apply, ported from original_source/events.py's json_decode_event.
type wireEvent struct {
	EventType       string `json:"event_type"`
	Timestamp       string `json:"timestamp"`
	AppID           string `json:"app_id"`
	SourceClass     string `json:"source_class"`
	UsageEvent      int    `json:"usage_event"`
	State           int    `json:"state"`
	NetworkType     int    `json:"network_type"`
	Level           int    `json:"level"`
	Temperature     int    `json:"temperature"`
	Action          int    `json:"action"`
	NotificationID  string `json:"notification_id"`
	Tag             string `json:"tag"`
	ConnectionEvent int    `json:"connection_event"`
	ManagementEvent int    `json:"management_event"`
}

// decodeWireEvent maps a wireEvent to a simevent.Event per the taxonomy in
// spec.md §6. Unrecognised event_type strings are an error, which
// JSONSource.Build reports as a trace *Error.
func decodeWireEvent(w wireEvent) (simevent.Event, error) {
	ts, err := time.Parse(time.RFC3339, w.Timestamp)
	if err != nil {
		return simevent.Event{}, fmt.Errorf("parse timestamp %q: %w", w.Timestamp, err)
	}

	e := simevent.Event{Timestamp: ts, Type: simevent.Type(w.EventType)}

	switch e.Type {
	case simevent.Pseudo, simevent.Network, simevent.Battery, simevent.Sim, simevent.SimDebug,
		simevent.SystemMemorySnapshot:
		// header-only variants, no payload
	case simevent.AppLaunch:
		e.Payload = simevent.AppLaunchPayload{AppID: w.AppID}
	case simevent.AppActivityUsage:
		e.Payload = simevent.AppActivityUsagePayload{
			AppID:       w.AppID,
			SourceClass: w.SourceClass,
			Usage:       simevent.UsageEvent(w.UsageEvent),
		}
	case simevent.Screen:
		e.Payload = simevent.ScreenPayload{State: device.ScreenState(w.State)}
	case simevent.ScreenOrientation:
		e.Payload = simevent.ScreenOrientationPayload{State: device.ScreenOrientation(w.State)}
	case simevent.Phone:
		e.Payload = simevent.PhoneStatePayload{State: device.PhoneState(w.State)}
	case simevent.Package:
		e.Payload = simevent.PackagePayload{
			ManagementEvent: simevent.PackageManagementEvent(w.ManagementEvent),
			AppID:           w.AppID,
		}
	case simevent.Notification:
		e.Payload = simevent.NotificationPayload{
			Action:         simevent.NotificationAction(w.Action),
			AppID:          w.AppID,
			NotificationID: w.NotificationID,
			Tag:            w.Tag,
		}
	case simevent.NetworkStatus:
		e.Payload = simevent.NetworkStatusPayload{State: device.NetworkConnectionState(w.State)}
	case simevent.NetworkType:
		e.Payload = simevent.NetworkTypePayload{NetworkType: device.NetworkType(w.NetworkType)}
	case simevent.BatteryEnergyState:
		e.Payload = simevent.BatteryEnergyPayload{State: device.BatteryEnergyState(w.State)}
	case simevent.BatteryStatus:
		e.Payload = simevent.BatteryStatusPayload{Status: device.BatteryStatus(w.State)}
	case simevent.BatteryPlugStatus:
		e.Payload = simevent.BatteryPlugStatePayload{State: device.BatteryPlugState(w.State)}
	case simevent.BatteryLevel:
		e.Payload = simevent.BatteryLevelPayload{Level: w.Level}
	case simevent.BatteryTemperature:
		e.Payload = simevent.BatteryTempPayload{Temperature: w.Temperature}
	case simevent.Storage:
		e.Payload = simevent.DeviceStoragePayload{State: device.StorageState(w.State)}
	case simevent.Headset:
		e.Payload = simevent.HeadsetPayload{State: device.HeadsetState(w.State)}
	case simevent.Dock:
		e.Payload = simevent.DockPayload{State: device.DockState(w.State)}
	case simevent.Bluetooth:
		e.Payload = simevent.BluetoothPayload{ConnectionEvent: simevent.BluetoothConnectionEvent(w.ConnectionEvent)}
	default:
		return simevent.Event{}, fmt.Errorf("unrecognised event_type %q", w.EventType)
	}
	return e, nil
}

// decodeTraceLog decodes a JSON array of wire events.
func decodeTraceLog(data []byte) ([]simevent.Event, error) {
	var wireEvents []wireEvent
	if err := json.Unmarshal(data, &wireEvents); err != nil {
		return nil, err
	}
	events := make([]simevent.Event, 0, len(wireEvents))
	for _, w := range wireEvents {
		e, err := decodeWireEvent(w)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}
