package domain

import (
	"fmt"
	"strings"
)

// FunctionalMode is the radio's operating state.
type FunctionalMode int

const (
	ModeUnknown FunctionalMode = iota
	ModeOff
	ModeOffline
	ModeNormal
)

// String returns a human-readable representation of the mode.
func (m FunctionalMode) String() string {
	switch m {
	case ModeOff:
		return "off"
	case ModeOffline:
		return "offline"
	case ModeNormal:
		return "normal"
	default:
		return "unknown"
	}
}

// Valid reports whether m is one of the modes a link can be put into.
func (m FunctionalMode) Valid() bool {
	return m == ModeOff || m == ModeOffline || m == ModeNormal
}

// ParseFunctionalMode parses a mode name as written by String.
func ParseFunctionalMode(s string) (FunctionalMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off":
		return ModeOff, nil
	case "offline":
		return ModeOffline, nil
	case "normal":
		return ModeNormal, nil
	default:
		return ModeUnknown, fmt.Errorf("unknown functional mode %q", s)
	}
}
