package domain

// NetworkEventKind tags a NetworkEvent.
type NetworkEventKind int

const (
	EventRegistrationStatus NetworkEventKind = iota
	EventPSMUpdate
	EventEDRXUpdate
	EventRRCUpdate
	EventCellUpdate
	EventLTEModeUpdate
	EventTAUPreWarning
	EventNeighborCellMeasurement
	EventModemSleepExitPreWarning
	EventModemSleepExit
	EventModemSleepEnter
	EventModemEvent
)

var networkEventKindNames = map[NetworkEventKind]string{
	EventRegistrationStatus:       "registration_status",
	EventPSMUpdate:                "psm_update",
	EventEDRXUpdate:               "edrx_update",
	EventRRCUpdate:                "rrc_update",
	EventCellUpdate:               "cell_update",
	EventLTEModeUpdate:            "lte_mode_update",
	EventTAUPreWarning:            "tau_pre_warning",
	EventNeighborCellMeasurement:  "neighbor_cell_measurement",
	EventModemSleepExitPreWarning: "modem_sleep_exit_pre_warning",
	EventModemSleepExit:           "modem_sleep_exit",
	EventModemSleepEnter:          "modem_sleep_enter",
	EventModemEvent:               "modem_event",
}

// String returns the snake_case name of the kind.
func (k NetworkEventKind) String() string {
	if name, ok := networkEventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseNetworkEventKind is the inverse of NetworkEventKind.String.
func ParseNetworkEventKind(s string) (NetworkEventKind, bool) {
	for k, name := range networkEventKindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// RegistrationStatus is the network registration state. Values follow the
// 3GPP TS 27.007 +CEREG <stat> codes.
type RegistrationStatus int

const (
	RegNotRegistered      RegistrationStatus = 0
	RegRegisteredHome     RegistrationStatus = 1
	RegSearching          RegistrationStatus = 2
	RegRegistrationDenied RegistrationStatus = 3
	RegUnknown            RegistrationStatus = 4
	RegRegisteredRoaming  RegistrationStatus = 5
	RegUICCFail           RegistrationStatus = 90
)

// Registered reports whether the status is registered-home or registered-roaming.
func (s RegistrationStatus) Registered() bool {
	return s == RegRegisteredHome || s == RegRegisteredRoaming
}

// String returns a human-readable representation of the status.
func (s RegistrationStatus) String() string {
	switch s {
	case RegNotRegistered:
		return "not_registered"
	case RegRegisteredHome:
		return "home"
	case RegSearching:
		return "searching"
	case RegRegistrationDenied:
		return "denied"
	case RegUnknown:
		return "unknown"
	case RegRegisteredRoaming:
		return "roaming"
	case RegUICCFail:
		return "uicc_fail"
	default:
		return "invalid"
	}
}

// RRCMode is the radio resource control connection state.
type RRCMode int

const (
	RRCIdle RRCMode = iota
	RRCConnected
)

// String returns a human-readable representation of the mode.
func (m RRCMode) String() string {
	switch m {
	case RRCIdle:
		return "idle"
	case RRCConnected:
		return "connected"
	default:
		return "other"
	}
}

// NetworkEvent is a single event reported by the network link.
// Only RegStatus (for EventRegistrationStatus) and RRC (for EventRRCUpdate)
// carry data; the remaining kinds are informational.
type NetworkEvent struct {
	Kind      NetworkEventKind
	RegStatus RegistrationStatus
	RRC       RRCMode
}

// RegistrationEvent builds an EventRegistrationStatus event.
func RegistrationEvent(status RegistrationStatus) NetworkEvent {
	return NetworkEvent{Kind: EventRegistrationStatus, RegStatus: status}
}

// RRCEvent builds an EventRRCUpdate event.
func RRCEvent(mode RRCMode) NetworkEvent {
	return NetworkEvent{Kind: EventRRCUpdate, RRC: mode}
}
