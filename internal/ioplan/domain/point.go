package ioplan

import (
	"errors"
	"strings"
	"time"
)

// IOType classifies the direction of a point or card.
type IOType string

const (
	IOAnalogInput   IOType = "AI"
	IOAnalogOutput  IOType = "AO"
	IODigitalInput  IOType = "DI"
	IODigitalOutput IOType = "DO"
)

// IsValid reports whether the I/O type is one of the closed set.
func (t IOType) IsValid() bool {
	switch t {
	case IOAnalogInput, IOAnalogOutput, IODigitalInput, IODigitalOutput:
		return true
	default:
		return false
	}
}

// NormalizeIOType validates and normalizes an I/O type string.
func NormalizeIOType(value string) (IOType, bool) {
	t := IOType(strings.ToUpper(strings.TrimSpace(value)))
	if t.IsValid() {
		return t, true
	}
	return "", false
}

// IOPoint is a logical signal that occupies one hardware channel.
// Rack, Slot and Channel are nil until the point has been placed.
type IOPoint struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Tag         string     `json:"tag"`
	Description string     `json:"description,omitempty"`
	IOType      IOType     `json:"io_type,omitempty"`
	SignalType  SignalType `json:"signal_type,omitempty"`

	PLCName string `json:"plc_name,omitempty"`
	Rack    *int   `json:"rack,omitempty"`
	Slot    *int   `json:"slot,omitempty"`
	Channel *int   `json:"channel,omitempty"`

	TerminalBlock string `json:"terminal_block,omitempty"`
	CableID       string `json:"cable_id,omitempty"`
	Notes         string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Assigned reports whether all four placement fields are present.
func (p IOPoint) Assigned() bool {
	return p.PLCName != "" && p.Rack != nil && p.Slot != nil && p.Channel != nil
}

// CardHint returns the card identity named by the point's placement hint.
// The hint is complete when controller, rack and slot are all present;
// channel is not part of card identity.
func (p IOPoint) CardHint() (CardRef, bool) {
	if p.PLCName == "" || p.Rack == nil || p.Slot == nil {
		return CardRef{}, false
	}
	return CardRef{PLCName: p.PLCName, Rack: *p.Rack, Slot: *p.Slot}, true
}

// Validate checks point invariants.
func (p IOPoint) Validate() error {
	if strings.TrimSpace(p.Tag) == "" {
		return errors.New("io point: empty tag")
	}
	if p.ProjectID == "" {
		return errors.New("io point: empty project id")
	}
	if p.IOType != "" && !p.IOType.IsValid() {
		return errors.New("io point: unknown io type")
	}
	if p.SignalType != "" && !p.SignalType.IsValid() {
		return errors.New("io point: unknown signal type")
	}
	if p.Channel != nil && *p.Channel < 0 {
		return errors.New("io point: negative channel")
	}
	return nil
}
