package ioplan

import (
	"fmt"
	"strings"
)

// ConflictKind classifies a placement invariant violation.
type ConflictKind string

const (
	ConflictChannelOccupied    ConflictKind = "channel_occupied"
	ConflictIncompatibleSignal ConflictKind = "incompatible_signal"
	ConflictCardOverCapacity   ConflictKind = "card_over_capacity"
	ConflictMissingCard        ConflictKind = "missing_card"
)

// Conflict is one detected violation.
type Conflict struct {
	Kind        ConflictKind `json:"kind"`
	PointTag    string       `json:"point_tag"`
	Card        CardRef      `json:"card"`
	Message     string       `json:"message"`
	Suggestions []string     `json:"suggestions,omitempty"`
}

// ConflictReport is the result of a full-snapshot audit.
type ConflictReport struct {
	HasConflicts bool       `json:"has_conflicts"`
	Conflicts    []Conflict `json:"conflicts"`
}

// DetectConflicts audits the whole snapshot against the placement
// invariants. It never panics; an empty conflict list is a valid, common
// result. The audit is deterministic: groups and conflicts follow the
// encounter order of the point slice.
func DetectConflicts(points []IOPoint, cards []Card) ConflictReport {
	byCard := make(map[CardRef][]IOPoint)
	var order []CardRef
	for _, point := range points {
		if !point.Assigned() {
			continue
		}
		ref := CardRef{PLCName: point.PLCName, Rack: *point.Rack, Slot: *point.Slot}
		if _, seen := byCard[ref]; !seen {
			order = append(order, ref)
		}
		byCard[ref] = append(byCard[ref], point)
	}

	var conflicts []Conflict
	for _, ref := range order {
		group := byCard[ref]

		card, ok := FindCard(cards, ref)
		if !ok {
			for _, point := range group {
				conflicts = append(conflicts, Conflict{
					Kind:     ConflictMissingCard,
					PointTag: point.Tag,
					Card:     ref,
					Message:  fmt.Sprintf("point %s is assigned to %s but no such card exists", point.Tag, ref),
					Suggestions: []string{
						"add a card at that position",
						"clear the point's placement and auto-assign it",
					},
				})
			}
			continue
		}

		occupants := make(map[int][]string, len(group))
		for _, point := range group {
			occupants[*point.Channel] = append(occupants[*point.Channel], point.Tag)
		}
		for _, point := range group {
			tags := occupants[*point.Channel]
			if len(tags) < 2 {
				continue
			}
			others := make([]string, 0, len(tags)-1)
			for _, tag := range tags {
				if tag != point.Tag {
					others = append(others, tag)
				}
			}
			conflicts = append(conflicts, Conflict{
				Kind:     ConflictChannelOccupied,
				PointTag: point.Tag,
				Card:     ref,
				Message: fmt.Sprintf("channel %d on %s is also used by %s",
					*point.Channel, ref, strings.Join(others, ", ")),
				Suggestions: []string{
					"move one of the points to a free channel",
					"use auto-assignment to resolve the collision",
				},
			})
		}

		for _, point := range group {
			if point.IOType != "" && point.IOType != card.IOType {
				conflicts = append(conflicts, Conflict{
					Kind:     ConflictIncompatibleSignal,
					PointTag: point.Tag,
					Card:     ref,
					Message: fmt.Sprintf("point %s is %s but the card at %s is %s",
						point.Tag, point.IOType, ref, card.IOType),
					Suggestions: []string{
						fmt.Sprintf("move the point to a %s card", point.IOType),
					},
				})
			}
		}

		for _, point := range group {
			if Compatible(card.SignalType, point.SignalType) {
				continue
			}
			conflicts = append(conflicts, Conflict{
				Kind:     ConflictIncompatibleSignal,
				PointTag: point.Tag,
				Card:     ref,
				Message: fmt.Sprintf("point %s carries a %s signal but the card at %s accepts %s",
					point.Tag, point.SignalType, ref, card.SignalType),
				Suggestions: []string{
					fmt.Sprintf("move the point to a card accepting %s signals", point.SignalType),
				},
			})
		}

		if len(group) > card.Channels {
			// A non-positive channel count makes every occupant an offender.
			cutoff := card.Channels
			if cutoff < 0 {
				cutoff = 0
			}
			for _, point := range group[cutoff:] {
				conflicts = append(conflicts, Conflict{
					Kind:     ConflictCardOverCapacity,
					PointTag: point.Tag,
					Card:     ref,
					Message: fmt.Sprintf("card at %s holds %d points but has only %d channels",
						ref, len(group), card.Channels),
					Suggestions: []string{
						"add another compatible card",
						"move the point elsewhere",
					},
				})
			}
		}
	}

	return ConflictReport{HasConflicts: len(conflicts) > 0, Conflicts: conflicts}
}
