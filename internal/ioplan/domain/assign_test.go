package ioplan

import (
	"strings"
	"testing"
)

func aiCard(plc string, rack, slot, channels int) Card {
	return Card{
		ID:         "card-" + plc,
		ProjectID:  "proj-1",
		PLCName:    plc,
		Rack:       rack,
		Slot:       slot,
		IOType:     IOAnalogInput,
		SignalType: SignalCurrentLoop,
		Channels:   channels,
	}
}

func TestAssignToCardCompaction(t *testing.T) {
	card := aiCard("PLC-1", 0, 1, 8)
	ref := card.Ref()
	point := IOPoint{Tag: "AI-100", IOType: IOAnalogInput, SignalType: SignalCurrentLoop}

	result := AssignToCard(point, ref, []Card{card}, nil)
	if !result.Assigned || result.Channel != 0 {
		t.Fatalf("expected channel 0 on empty card, got %+v", result)
	}

	occupied := []IOPoint{placedPoint("AI-1", "PLC-1", 0, 1, 0)}
	result = AssignToCard(point, ref, []Card{card}, occupied)
	if !result.Assigned || result.Channel != 1 {
		t.Fatalf("expected channel 1 after channel 0 taken, got %+v", result)
	}
}

func TestAssignToCardBounds(t *testing.T) {
	card := aiCard("PLC-1", 0, 1, 4)
	var points []IOPoint
	for i := 0; i < 4; i++ {
		result := AssignToCard(IOPoint{Tag: "AI-x", IOType: IOAnalogInput}, card.Ref(), []Card{card}, points)
		if !result.Assigned {
			t.Fatalf("assignment %d failed: %s", i, result.Message)
		}
		if result.Channel < 0 || result.Channel >= card.Channels {
			t.Fatalf("channel %d out of bounds", result.Channel)
		}
		points = append(points, placedPoint("AI-x", "PLC-1", 0, 1, result.Channel))
	}
}

func TestAssignToCardMissingIOType(t *testing.T) {
	card := aiCard("PLC-1", 0, 1, 8)
	result := AssignToCard(IOPoint{Tag: "AI-100"}, card.Ref(), []Card{card}, nil)
	if result.Assigned {
		t.Fatal("expected failure without io type")
	}
	if len(result.Suggestions) == 0 {
		t.Fatal("expected suggestions on failure")
	}
}

func TestAssignToCardMissingCard(t *testing.T) {
	result := AssignToCard(
		IOPoint{Tag: "AI-100", IOType: IOAnalogInput},
		CardRef{PLCName: "PLC-9", Rack: 0, Slot: 1},
		nil, nil,
	)
	if result.Assigned {
		t.Fatal("expected failure for missing card")
	}
	if !strings.Contains(result.Message, "no card") {
		t.Fatalf("expected missing-card message, got %q", result.Message)
	}
}

func TestAssignToCardTypeMismatch(t *testing.T) {
	card := aiCard("PLC-1", 0, 1, 8)
	result := AssignToCard(IOPoint{Tag: "DI-100", IOType: IODigitalInput}, card.Ref(), []Card{card}, nil)
	if result.Assigned {
		t.Fatal("expected failure for io type mismatch")
	}
	if !strings.Contains(result.Message, "DI") {
		t.Fatalf("expected message to name the required type, got %q", result.Message)
	}
}

func TestAssignToCardSignalMismatch(t *testing.T) {
	card := aiCard("PLC-1", 0, 1, 8)
	card.SignalType = SignalRTD
	result := AssignToCard(
		IOPoint{Tag: "AI-100", IOType: IOAnalogInput, SignalType: SignalThermocouple},
		card.Ref(), []Card{card}, nil,
	)
	if result.Assigned {
		t.Fatal("expected failure for signal mismatch")
	}
}

func TestAssignToCardCapacityMessage(t *testing.T) {
	card := aiCard("PLC-1", 0, 1, 2)
	points := []IOPoint{
		placedPoint("AI-1", "PLC-1", 0, 1, 0),
		placedPoint("AI-2", "PLC-1", 0, 1, 1),
	}
	result := AssignToCard(IOPoint{Tag: "AI-3", IOType: IOAnalogInput}, card.Ref(), []Card{card}, points)
	if result.Assigned {
		t.Fatal("expected failure on a full card")
	}
	if !strings.Contains(result.Message, "no free channels") {
		t.Fatalf("expected capacity-specific message, got %q", result.Message)
	}
}

func TestAutoAssignPrefersLeastUtilized(t *testing.T) {
	busy := aiCard("PLC-1", 0, 1, 8)
	idle := aiCard("PLC-1", 0, 2, 8)
	idle.Slot = 2
	points := []IOPoint{
		placedPoint("AI-1", "PLC-1", 0, 1, 0),
		placedPoint("AI-2", "PLC-1", 0, 1, 1),
		placedPoint("AI-3", "PLC-1", 0, 1, 2),
		placedPoint("AI-4", "PLC-1", 0, 1, 3),
		placedPoint("AI-5", "PLC-1", 0, 2, 0),
	}
	result := AutoAssign(IOPoint{Tag: "AI-new", IOType: IOAnalogInput, SignalType: SignalCurrentLoop}, []Card{busy, idle}, points)
	if !result.Assigned {
		t.Fatalf("expected assignment, got %q", result.Message)
	}
	if result.Card == nil || result.Card.Slot != 2 {
		t.Fatalf("expected the 12%%-utilized card in slot 2, got %+v", result.Card)
	}
	if result.Channel != 1 {
		t.Fatalf("expected channel 1, got %d", result.Channel)
	}
}

func TestAutoAssignHonorsControllerHint(t *testing.T) {
	near := aiCard("PLC-2", 0, 1, 8)
	far := aiCard("PLC-1", 0, 1, 8)
	// The far card is emptier, but the point asks for PLC-2.
	points := []IOPoint{placedPoint("AI-1", "PLC-2", 0, 1, 0)}
	result := AutoAssign(
		IOPoint{Tag: "AI-new", IOType: IOAnalogInput, SignalType: SignalCurrentLoop, PLCName: "PLC-2"},
		[]Card{far, near}, points,
	)
	if !result.Assigned {
		t.Fatalf("expected assignment, got %q", result.Message)
	}
	if result.Card == nil || result.Card.PLCName != "PLC-2" {
		t.Fatalf("expected hinted controller PLC-2, got %+v", result.Card)
	}
}

func TestAutoAssignNoCompatibleCard(t *testing.T) {
	card := aiCard("PLC-1", 0, 1, 8)
	result := AutoAssign(IOPoint{Tag: "DI-1", IOType: IODigitalInput}, []Card{card}, nil)
	if result.Assigned {
		t.Fatal("expected failure with no compatible card")
	}
	if !strings.Contains(result.Message, "no DI card") {
		t.Fatalf("expected no-compatible-card message, got %q", result.Message)
	}
}

func TestAutoAssignAllCardsFull(t *testing.T) {
	card := aiCard("PLC-1", 0, 1, 1)
	points := []IOPoint{placedPoint("AI-1", "PLC-1", 0, 1, 0)}
	result := AutoAssign(IOPoint{Tag: "AI-2", IOType: IOAnalogInput, SignalType: SignalCurrentLoop}, []Card{card}, points)
	if result.Assigned {
		t.Fatal("expected failure when every compatible card is full")
	}
	if !strings.Contains(result.Message, "full") {
		t.Fatalf("expected full-cards message, got %q", result.Message)
	}
}

func TestAutoAssignDeterministicTieBreak(t *testing.T) {
	a := aiCard("PLC-1", 0, 2, 8)
	b := aiCard("PLC-1", 0, 1, 8)
	point := IOPoint{Tag: "AI-new", IOType: IOAnalogInput, SignalType: SignalCurrentLoop}
	first := AutoAssign(point, []Card{a, b}, nil)
	second := AutoAssign(point, []Card{b, a}, nil)
	if first.Card == nil || second.Card == nil {
		t.Fatal("expected assignments on both orderings")
	}
	if *first.Card != *second.Card {
		t.Fatalf("expected identical choice regardless of input order, got %+v vs %+v", first.Card, second.Card)
	}
	if first.Card.Slot != 1 {
		t.Fatalf("expected identity order to pick slot 1, got slot %d", first.Card.Slot)
	}
}

func TestAutoAssignDoesNotMutateInputs(t *testing.T) {
	card := aiCard("PLC-1", 0, 1, 8)
	point := IOPoint{Tag: "AI-new", IOType: IOAnalogInput}
	result := AutoAssign(point, []Card{card}, nil)
	if !result.Assigned {
		t.Fatalf("expected assignment, got %q", result.Message)
	}
	if point.Channel != nil || point.Assigned() {
		t.Fatal("expected the input point to stay untouched")
	}
}
