package ioplan

import "strings"

// SignalType is the electrical/protocol characteristic of a point or card.
type SignalType string

const (
	SignalCurrentLoop  SignalType = "4-20mA"
	SignalHART         SignalType = "HART"
	SignalDigital      SignalType = "digital"
	SignalRTD          SignalType = "RTD"
	SignalThermocouple SignalType = "thermocouple"
	Signal24VDC        SignalType = "24VDC"
	SignalDryContact   SignalType = "dry-contact"
	SignalAnalog       SignalType = "analog"
)

// SignalTypes lists every known signal type.
var SignalTypes = []SignalType{
	SignalCurrentLoop,
	SignalHART,
	SignalDigital,
	SignalRTD,
	SignalThermocouple,
	Signal24VDC,
	SignalDryContact,
	SignalAnalog,
}

// IsValid reports whether the signal type is one of the closed set.
func (s SignalType) IsValid() bool {
	switch s {
	case SignalCurrentLoop, SignalHART, SignalDigital, SignalRTD,
		SignalThermocouple, Signal24VDC, SignalDryContact, SignalAnalog:
		return true
	default:
		return false
	}
}

// NormalizeSignalType validates and normalizes a signal type string.
func NormalizeSignalType(value string) (SignalType, bool) {
	trimmed := strings.TrimSpace(value)
	for _, s := range SignalTypes {
		if strings.EqualFold(trimmed, string(s)) {
			return s, true
		}
	}
	return "", false
}

// Compatible reports whether a card of the first signal type accepts a
// point of the second. Exact equality is always compatible. An absent
// signal on either side is permissive: the I/O type is the binding
// constraint, not the signal.
func Compatible(card, point SignalType) bool {
	if card == "" || point == "" {
		return true
	}
	if card == point {
		return true
	}
	switch card {
	case SignalCurrentLoop:
		return point == SignalHART || point == SignalAnalog
	case SignalHART:
		return point == SignalCurrentLoop
	case SignalDigital:
		return point == SignalDryContact || point == Signal24VDC
	case SignalRTD:
		return false
	case SignalThermocouple:
		return false
	case Signal24VDC:
		return point == SignalDigital
	case SignalDryContact:
		return point == SignalDigital
	case SignalAnalog:
		return point == SignalCurrentLoop || point == SignalHART
	default:
		return false
	}
}
