// Package device holds the device-state enums and the aggregate DeviceState
// the engine owns and updates as it dispatches events. Modules read this
// state but never mutate it.
package device

// ScreenState is the screen's current lock/power state.
type ScreenState int

const (
	ScreenUnknown ScreenState = iota - 1
	ScreenOff
	ScreenOn
	ScreenUserPresent
)

func (s ScreenState) IsOn() bool {
	return s == ScreenOn || s == ScreenUserPresent
}

func (s ScreenState) IsOff() bool {
	return s == ScreenOff
}

func (s ScreenState) String() string {
	switch s {
	case ScreenOff:
		return "OFF"
	case ScreenOn:
		return "ON"
	case ScreenUserPresent:
		return "USER_PRESENT"
	default:
		return "UNKNOWN"
	}
}

// ScreenOrientation is the screen's current rotation.
type ScreenOrientation int

const (
	OrientationUnknown    ScreenOrientation = -1
	OrientationZero       ScreenOrientation = 0
	OrientationNinety     ScreenOrientation = 90
	OrientationOneEighty  ScreenOrientation = 180
	OrientationTwoSeventy ScreenOrientation = 270
)

func (o ScreenOrientation) IsPortrait() bool {
	return o == OrientationZero || o == OrientationOneEighty
}

func (o ScreenOrientation) IsLandscape() bool {
	return o == OrientationNinety || o == OrientationTwoSeventy
}

// PhoneState is the device's current call state.
type PhoneState int

const (
	PhoneUnknown PhoneState = iota - 1
	PhoneIdle
	PhoneOffHook
	PhoneRinging
)

// HeadsetState tracks whether a headset is plugged in.
type HeadsetState int

const (
	HeadsetUnknown HeadsetState = iota - 1
	HeadsetUnplugged
	HeadsetPlugged
)

func (h HeadsetState) IsPlugged() bool   { return h == HeadsetPlugged }
func (h HeadsetState) IsUnplugged() bool { return h == HeadsetUnplugged }

// DockState tracks what, if anything, the device is docked into.
type DockState int

const (
	DockUnknown DockState = iota - 1
	DockUndocked
	DockCar
	DockDesk
	DockHEDesk
	DockLEDesk
)

func (d DockState) IsUndocked() bool { return d == DockUndocked }

// NetworkType is the type of network the device is connected to.
type NetworkType int

const (
	NetworkUnknown NetworkType = iota - 1
	NetworkMobile
	NetworkEthernet
	NetworkWifi
	NetworkBluetooth
	NetworkWimax
)

// NetworkConnectionState tracks the network connection's lifecycle state.
type NetworkConnectionState int

const (
	NetworkConnUnknown NetworkConnectionState = iota - 1
	NetworkDisconnected
	NetworkConnecting
	NetworkConnected
)

// NetworkState is the aggregate network sub-state.
type NetworkState struct {
	Type             NetworkType
	ConnectionState  NetworkConnectionState
}

// BatteryStatus is the device's current charge direction.
type BatteryStatus int

const (
	BatteryStatusUnknown BatteryStatus = iota - 1
	BatteryDischarging
	BatteryNotCharging
	BatteryCharging
	BatteryFull
)

// BatteryPlugState is what the device is plugged into, if anything.
type BatteryPlugState int

const (
	BatteryPlugNone BatteryPlugState = iota
	BatteryPlugAC
	BatteryPlugUSB
	BatteryPlugWireless
)

// BatteryEnergyState is a coarse low/okay signal Android surfaces to apps.
type BatteryEnergyState int

const (
	BatteryEnergyUnknown BatteryEnergyState = iota - 1
	BatteryEnergyLow
	BatteryEnergyOkay
)

// BatteryState is the aggregate battery sub-state.
type BatteryState struct {
	Level      int
	Temp       int
	Status     BatteryStatus
	PlugState  BatteryPlugState
	EnergyState BatteryEnergyState
}

// StorageState is a coarse low/okay signal for free device storage.
type StorageState int

const (
	StorageUnknown StorageState = iota - 1
	StorageLow
	StorageOkay
)

// State is the engine-owned aggregate of everything known about the
// simulated device at the current point in logical time. The engine updates
// it as relevant events are dispatched; modules read it via
// Engine.DeviceState but never mutate it directly.
type State struct {
	Screen            ScreenState
	ScreenOrientation ScreenOrientation
	Phone             PhoneState
	Headset           HeadsetState
	Dock              DockState
	Network           NetworkState
	Battery           BatteryState
}

// New returns a DeviceState with every field at its UNKNOWN/zero value.
func New() State {
	return State{
		Screen:            ScreenUnknown,
		ScreenOrientation: OrientationUnknown,
		Phone:             PhoneUnknown,
		Headset:           HeadsetUnknown,
		Dock:              DockUnknown,
		Network: NetworkState{
			Type:            NetworkUnknown,
			ConnectionState: NetworkConnUnknown,
		},
		Battery: BatteryState{
			Status:      BatteryStatusUnknown,
			PlugState:   BatteryPlugNone,
			EnergyState: BatteryEnergyUnknown,
		},
	}
}
