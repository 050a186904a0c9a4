package ioplan

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// CardRef identifies a card by its physical position inside a controller.
type CardRef struct {
	PLCName string `json:"plc_name"`
	Rack    int    `json:"rack"`
	Slot    int    `json:"slot"`
}

// String renders the identity for messages.
func (r CardRef) String() string {
	return fmt.Sprintf("%s rack %d slot %d", r.PLCName, r.Rack, r.Slot)
}

// Card is a physical hardware module exposing a fixed number of channels.
type Card struct {
	ID         string     `json:"id"`
	ProjectID  string     `json:"project_id"`
	PLCName    string     `json:"plc_name"`
	Rack       int        `json:"rack"`
	Slot       int        `json:"slot"`
	IOType     IOType     `json:"io_type"`
	SignalType SignalType `json:"signal_type,omitempty"`
	Channels   int        `json:"channels"`
	Name       string     `json:"name,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Ref returns the card's identity triple.
func (c Card) Ref() CardRef {
	return CardRef{PLCName: c.PLCName, Rack: c.Rack, Slot: c.Slot}
}

// Validate checks card invariants.
func (c Card) Validate() error {
	if strings.TrimSpace(c.PLCName) == "" {
		return errors.New("card: empty controller name")
	}
	if c.ProjectID == "" {
		return errors.New("card: empty project id")
	}
	if c.Rack < 0 || c.Slot < 0 {
		return errors.New("card: negative rack or slot")
	}
	if !c.IOType.IsValid() {
		return errors.New("card: unknown io type")
	}
	if c.SignalType != "" && !c.SignalType.IsValid() {
		return errors.New("card: unknown signal type")
	}
	if c.Channels <= 0 {
		return errors.New("card: channel count must be positive")
	}
	return nil
}

// FindCard returns the first card matching the identity triple.
func FindCard(cards []Card, ref CardRef) (Card, bool) {
	for _, card := range cards {
		if card.PLCName == ref.PLCName && card.Rack == ref.Rack && card.Slot == ref.Slot {
			return card, true
		}
	}
	return Card{}, false
}

// UsedChannels returns the sorted channel indices occupied on the card.
func UsedChannels(card Card, points []IOPoint) []int {
	var used []int
	for _, point := range points {
		if !point.Assigned() {
			continue
		}
		if point.PLCName != card.PLCName || *point.Rack != card.Rack || *point.Slot != card.Slot {
			continue
		}
		used = append(used, *point.Channel)
	}
	sort.Ints(used)
	return used
}

// NextFreeChannel scans channel indices 0..Channels-1 ascending and
// returns the first index not present in used. The ascending scan
// compacts assignments toward low channel numbers.
func NextFreeChannel(card Card, used []int) (int, bool) {
	taken := make(map[int]struct{}, len(used))
	for _, channel := range used {
		taken[channel] = struct{}{}
	}
	for channel := 0; channel < card.Channels; channel++ {
		if _, ok := taken[channel]; !ok {
			return channel, true
		}
	}
	return 0, false
}
