package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned by ParseMode for values outside the five supported modes.
var ErrUnknownMode = errors.New("unknown transportation mode")

// Mode is the way the traveller gets around for the whole day.
type Mode string

const (
	ModeWalking   Mode = "walking"
	ModeBicycling Mode = "bicycling"
	ModeDriving   Mode = "driving"
	ModeBus       Mode = "bus"
	ModeTrain     Mode = "train"
)

// DefaultMode is used when a request leaves the mode empty.
const DefaultMode = ModeWalking

// Modes lists the supported modes in display order.
var Modes = []Mode{ModeWalking, ModeBicycling, ModeDriving, ModeBus, ModeTrain}

// ParseMode accepts the mode names case-insensitively. Empty input means DefaultMode.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultMode, nil
	}
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Label is the human readable name shown in forms and prompts.
func (m Mode) Label() string {
	switch m {
	case ModeWalking:
		return "Walking"
	case ModeBicycling:
		return "Bicycle"
	case ModeDriving:
		return "Car"
	case ModeBus:
		return "Bus"
	case ModeTrain:
		return "Train"
	}
	return string(m)
}

// TravelMode maps m onto the Directions travel modes understood by the duration tool.
// Bus and train both become transit.
func (m Mode) TravelMode() string {
	switch m {
	case ModeBus, ModeTrain:
		return "transit"
	case ModeWalking, ModeBicycling, ModeDriving:
		return string(m)
	}
	return ""
}
