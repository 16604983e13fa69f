package simlink

import (
	"fmt"
	"strings"
	"time"

	"github.com/bft-labs/modemprov/internal/domain"
)

// Step is one scripted event, delivered Delay after the previous one.
type Step struct {
	Delay time.Duration
	Event domain.NetworkEvent
}

// DefaultScript searches, registers on the home network, then reports one
// RRC connect/idle cycle.
func DefaultScript(delay time.Duration) []Step {
	return []Step{
		{Delay: delay, Event: domain.RegistrationEvent(domain.RegSearching)},
		{Delay: delay, Event: domain.RegistrationEvent(domain.RegRegisteredHome)},
		{Delay: delay, Event: domain.RRCEvent(domain.RRCConnected)},
		{Delay: delay, Event: domain.RRCEvent(domain.RRCIdle)},
	}
}

var registrationStatuses = []domain.RegistrationStatus{
	domain.RegNotRegistered,
	domain.RegRegisteredHome,
	domain.RegSearching,
	domain.RegRegistrationDenied,
	domain.RegUnknown,
	domain.RegRegisteredRoaming,
	domain.RegUICCFail,
}

// ParseScript parses a comma-separated event list such as
// "reg:searching,reg:home,rrc:connected,psm_update". Each step waits delay.
func ParseScript(s string, delay time.Duration) ([]Step, error) {
	var steps []Step
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		evt, err := parseEvent(tok)
		if err != nil {
			return nil, err
		}
		steps = append(steps, Step{Delay: delay, Event: evt})
	}
	return steps, nil
}

func parseEvent(tok string) (domain.NetworkEvent, error) {
	name, arg, _ := strings.Cut(strings.ToLower(tok), ":")

	switch name {
	case "reg", "registration":
		for _, st := range registrationStatuses {
			if st.String() == arg {
				return domain.RegistrationEvent(st), nil
			}
		}
		return domain.NetworkEvent{}, fmt.Errorf("unknown registration status %q", arg)

	case "rrc":
		switch arg {
		case "connected":
			return domain.RRCEvent(domain.RRCConnected), nil
		case "idle":
			return domain.RRCEvent(domain.RRCIdle), nil
		}
		return domain.NetworkEvent{}, fmt.Errorf("unknown rrc mode %q", arg)
	}

	kind, ok := domain.ParseNetworkEventKind(name)
	if !ok {
		return domain.NetworkEvent{}, fmt.Errorf("unknown network event %q", tok)
	}
	return domain.NetworkEvent{Kind: kind}, nil
}
