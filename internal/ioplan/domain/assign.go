package ioplan

import (
	"fmt"
	"sort"
)

// AssignmentResult is the outcome of one placement attempt. Failures are
// data, not errors: Message and Suggestions are populated instead of
// panicking or returning an error.
type AssignmentResult struct {
	Assigned    bool     `json:"assigned"`
	Channel     int      `json:"channel"`
	Card        *CardRef `json:"card,omitempty"`
	Message     string   `json:"message,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func assignFailure(message string, suggestions ...string) AssignmentResult {
	return AssignmentResult{Message: message, Suggestions: suggestions}
}

// AssignToCard places a point onto the card at ref. The inputs are not
// mutated; the caller applies the returned channel to the point record.
func AssignToCard(point IOPoint, ref CardRef, cards []Card, points []IOPoint) AssignmentResult {
	if point.IOType == "" {
		return assignFailure(
			fmt.Sprintf("point %s has no I/O type", point.Tag),
			"set the point's I/O type (AI, AO, DI or DO) before assigning",
		)
	}

	card, ok := FindCard(cards, ref)
	if !ok {
		return assignFailure(
			fmt.Sprintf("no card at %s", ref),
			"add a card at that position",
			"use auto-assignment to pick a compatible card",
		)
	}
	if card.IOType != point.IOType {
		return assignFailure(
			fmt.Sprintf("card at %s is %s, point %s requires %s", ref, card.IOType, point.Tag, point.IOType),
			fmt.Sprintf("pick a %s card", point.IOType),
			"use auto-assignment to pick a compatible card",
		)
	}
	if !Compatible(card.SignalType, point.SignalType) {
		return assignFailure(
			fmt.Sprintf("card at %s (%s) does not accept %s signals", ref, card.SignalType, point.SignalType),
			fmt.Sprintf("pick a card accepting %s signals", point.SignalType),
			"use auto-assignment to pick a compatible card",
		)
	}

	used := UsedChannels(card, points)
	channel, ok := NextFreeChannel(card, used)
	if !ok {
		return assignFailure(
			fmt.Sprintf("card at %s has no free channels (%d of %d used)", ref, len(used), card.Channels),
			"free a channel on this card",
			"add another compatible card",
			"use auto-assignment to pick a card with spare capacity",
		)
	}

	cardRef := card.Ref()
	return AssignmentResult{Assigned: true, Channel: channel, Card: &cardRef}
}

// AutoAssign places a point onto the least-utilized compatible card.
// Cards on the controller named by the point's placement hint are
// preferred; ties are broken by ascending utilization ratio, then by
// card identity so placement is reproducible.
func AutoAssign(point IOPoint, cards []Card, points []IOPoint) AssignmentResult {
	if point.IOType == "" {
		return assignFailure(
			fmt.Sprintf("point %s has no I/O type", point.Tag),
			"set the point's I/O type (AI, AO, DI or DO) before assigning",
		)
	}

	type candidate struct {
		card  Card
		used  []int
		ratio float64
	}

	var compatible []candidate
	for _, card := range cards {
		if card.IOType != point.IOType {
			continue
		}
		if !Compatible(card.SignalType, point.SignalType) {
			continue
		}
		used := UsedChannels(card, points)
		ratio := 1.0
		if card.Channels > 0 {
			ratio = float64(len(used)) / float64(card.Channels)
		}
		compatible = append(compatible, candidate{card: card, used: used, ratio: ratio})
	}
	if len(compatible) == 0 {
		return assignFailure(
			fmt.Sprintf("no %s card accepts %s points", point.IOType, describeSignal(point.SignalType)),
			fmt.Sprintf("add a %s card compatible with %s signals", point.IOType, describeSignal(point.SignalType)),
		)
	}

	var open []candidate
	for _, c := range compatible {
		if _, ok := NextFreeChannel(c.card, c.used); ok {
			open = append(open, c)
		}
	}
	if len(open) == 0 {
		return assignFailure(
			fmt.Sprintf("all %d compatible cards are full", len(compatible)),
			"add another compatible card",
			"free a channel on an existing card",
		)
	}

	hint := point.PLCName
	sort.SliceStable(open, func(i, j int) bool {
		a, b := open[i], open[j]
		if hint != "" {
			aHit := a.card.PLCName == hint
			bHit := b.card.PLCName == hint
			if aHit != bHit {
				return aHit
			}
		}
		if a.ratio != b.ratio {
			return a.ratio < b.ratio
		}
		ar, br := a.card.Ref(), b.card.Ref()
		if ar.PLCName != br.PLCName {
			return ar.PLCName < br.PLCName
		}
		if ar.Rack != br.Rack {
			return ar.Rack < br.Rack
		}
		return ar.Slot < br.Slot
	})

	chosen := open[0]
	channel, _ := NextFreeChannel(chosen.card, chosen.used)
	ref := chosen.card.Ref()
	return AssignmentResult{Assigned: true, Channel: channel, Card: &ref}
}

func describeSignal(signal SignalType) string {
	if signal == "" {
		return "untyped"
	}
	return string(signal)
}
