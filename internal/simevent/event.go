// Package simevent defines the tagged event variants the engine dispatches
// and the fixed event-type taxonomy from the trace wire format. Handlers
// dispatch on Type; payloads are a tagged union via the Payload interface,
// not a deep struct hierarchy.
package simevent

import (
	"time"

	"github.com/snarg/uamp-sim/internal/device"
)

// Type is one of the wire-exact event-type strings from the trace format.
// Event types form a dotted hierarchy (network.type ⊂ network) but the
// dispatcher matches on the exact string — no hierarchical subscription.
type Type string

const (
	Pseudo               Type = "pseudo"
	AppLaunch            Type = "app.launch"
	AppActivityUsage     Type = "app.activity_usage"
	Screen               Type = "screen"
	ScreenOrientation    Type = "screen_orientation"
	Phone                Type = "phone"
	Package              Type = "package"
	Notification         Type = "notification"
	Network              Type = "network"
	NetworkType          Type = "network.type"
	NetworkStatus        Type = "network.status"
	Battery              Type = "battery"
	BatteryLevel         Type = "battery.level"
	BatteryTemperature   Type = "battery.temperature"
	BatteryStatus        Type = "battery.status"
	BatteryPlugStatus    Type = "battery.plug_status"
	BatteryEnergyState   Type = "battery.energy_state"
	Storage              Type = "storage"
	Headset              Type = "headset"
	Dock                 Type = "dock"
	Bluetooth            Type = "bluetooth"
	SystemMemorySnapshot Type = "system.memory_snapshot"
	PreloadApp           Type = "preload_app"
	Sim                  Type = "sim"
	SimDebug             Type = "sim.debug"

	// SimAlarm and TraceEnd are engine-internal markers, not part of the
	// wire taxonomy in spec.md §6 — they never appear in a decoded trace.
	SimAlarm Type = "sim.alarm"
	TraceEnd Type = "sim.trace_end"
)

// AllTypes enumerates the wire-exact event-type taxonomy from spec.md §6,
// in declaration order. FrequencyCounter subscribes to each of these.
var AllTypes = []Type{
	Pseudo, AppLaunch, AppActivityUsage, Screen, ScreenOrientation, Phone,
	Package, Notification, Network, NetworkType, NetworkStatus, Battery,
	BatteryLevel, BatteryTemperature, BatteryStatus, BatteryPlugStatus,
	BatteryEnergyState, Storage, Headset, Dock, Bluetooth,
	SystemMemorySnapshot, PreloadApp, Sim, SimDebug,
}

// Event is the common envelope every simulator event carries. Payload is
// nil for header-only events (Pseudo, Network, Battery, SystemMemorySnapshot,
// Sim, SimDebug, SimAlarm, TraceEnd).
type Event struct {
	Timestamp time.Time
	Type      Type
	Payload   Payload
}

// Payload is the marker interface every variant-specific payload implements.
type Payload interface {
	isPayload()
}

// AppLaunchPayload carries the app.launch variant's fields.
type AppLaunchPayload struct {
	AppID string
}

func (AppLaunchPayload) isPayload() {}

// UsageEvent is whether an app moved to the foreground or background.
type UsageEvent int

const (
	MoveBackground UsageEvent = iota
	MoveForeground
)

// AppActivityUsagePayload carries the app.activity_usage variant's fields.
type AppActivityUsagePayload struct {
	AppID       string
	SourceClass string
	Usage       UsageEvent
}

func (AppActivityUsagePayload) isPayload() {}

// ScreenPayload carries the screen variant's new state.
type ScreenPayload struct {
	State device.ScreenState
}

func (ScreenPayload) isPayload() {}

// ScreenOrientationPayload carries the screen_orientation variant's new state.
type ScreenOrientationPayload struct {
	State device.ScreenOrientation
}

func (ScreenOrientationPayload) isPayload() {}

// PhoneStatePayload carries the phone variant's new state.
type PhoneStatePayload struct {
	State device.PhoneState
}

func (PhoneStatePayload) isPayload() {}

// PackageManagementEvent is the kind of package-management event that occurred.
type PackageManagementEvent int

const (
	PackageInstalled PackageManagementEvent = iota
	PackageUninstalled
	PackageUpdated
	PackageReplaced
)

// PackagePayload carries the package variant's fields.
type PackagePayload struct {
	ManagementEvent PackageManagementEvent
	AppID           string
}

func (PackagePayload) isPayload() {}

// NotificationAction is whether a notification was posted or removed.
type NotificationAction int

const (
	NotificationRemoved NotificationAction = iota
	NotificationPosted
)

// NotificationPayload carries the notification variant's fields.
type NotificationPayload struct {
	Action         NotificationAction
	AppID          string
	NotificationID string
	Tag            string
}

func (NotificationPayload) isPayload() {}

// NetworkStatusPayload carries the network.status variant's new state.
type NetworkStatusPayload struct {
	State device.NetworkConnectionState
}

func (NetworkStatusPayload) isPayload() {}

// NetworkTypePayload carries the network.type variant's new type.
type NetworkTypePayload struct {
	NetworkType device.NetworkType
}

func (NetworkTypePayload) isPayload() {}

// BatteryEnergyPayload carries the battery.energy_state variant's new state.
type BatteryEnergyPayload struct {
	State device.BatteryEnergyState
}

func (BatteryEnergyPayload) isPayload() {}

// BatteryStatusPayload carries the battery.status variant's new status.
type BatteryStatusPayload struct {
	Status device.BatteryStatus
}

func (BatteryStatusPayload) isPayload() {}

// BatteryPlugStatePayload carries the battery.plug_status variant's new state.
type BatteryPlugStatePayload struct {
	State device.BatteryPlugState
}

func (BatteryPlugStatePayload) isPayload() {}

// BatteryLevelPayload carries the battery.level variant's value.
type BatteryLevelPayload struct {
	Level int
}

func (BatteryLevelPayload) isPayload() {}

// BatteryTempPayload carries the battery.temperature variant's value.
type BatteryTempPayload struct {
	Temperature int
}

func (BatteryTempPayload) isPayload() {}

// DeviceStoragePayload carries the storage variant's new state.
type DeviceStoragePayload struct {
	State device.StorageState
}

func (DeviceStoragePayload) isPayload() {}

// HeadsetPayload carries the headset variant's new state.
type HeadsetPayload struct {
	State device.HeadsetState
}

func (HeadsetPayload) isPayload() {}

// DockPayload carries the dock variant's new state.
type DockPayload struct {
	State device.DockState
}

func (DockPayload) isPayload() {}

// BluetoothConnectionEvent is whether a bluetooth device connected or disconnected.
type BluetoothConnectionEvent int

const (
	BluetoothDisconnected BluetoothConnectionEvent = iota
	BluetoothConnected
)

// BluetoothPayload carries the bluetooth variant's fields.
type BluetoothPayload struct {
	ConnectionEvent BluetoothConnectionEvent
}

func (BluetoothPayload) isPayload() {}

// PreloadAppPayload carries the synthetic preload_app variant's fields.
type PreloadAppPayload struct {
	AppID string
}

func (PreloadAppPayload) isPayload() {}

// String renders an event the way uamp_sim.py's Event.__repr__ did, for
// verbose-mode tracing.
func (e Event) String() string {
	return "[" + e.Timestamp.Format(time.RFC3339) + "] " + string(e.Type)
}
