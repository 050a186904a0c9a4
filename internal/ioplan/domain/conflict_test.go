package ioplan

import (
	"reflect"
	"strings"
	"testing"
)

func TestDetectConflictsCleanSnapshot(t *testing.T) {
	card := aiCard("PLC-1", 0, 1, 8)
	points := []IOPoint{
		placedPoint("AI-1", "PLC-1", 0, 1, 0),
		placedPoint("AI-2", "PLC-1", 0, 1, 1),
		{Tag: "AI-3", IOType: IOAnalogInput},
	}
	report := DetectConflicts(points, []Card{card})
	if report.HasConflicts || len(report.Conflicts) != 0 {
		t.Fatalf("expected a clean report, got %+v", report.Conflicts)
	}
}

func TestDetectConflictsChannelCollision(t *testing.T) {
	card := aiCard("PLC-1", 0, 1, 8)
	points := []IOPoint{
		placedPoint("AI-1", "PLC-1", 0, 1, 3),
		placedPoint("AI-2", "PLC-1", 0, 1, 3),
	}
	report := DetectConflicts(points, []Card{card})
	if len(report.Conflicts) != 2 {
		t.Fatalf("expected exactly 2 conflicts, got %d", len(report.Conflicts))
	}
	for _, conflict := range report.Conflicts {
		if conflict.Kind != ConflictChannelOccupied {
			t.Fatalf("expected channel_occupied, got %s", conflict.Kind)
		}
	}
	first, second := report.Conflicts[0], report.Conflicts[1]
	if first.PointTag != "AI-1" || !strings.Contains(first.Message, "AI-2") {
		t.Fatalf("expected AI-1's conflict to name AI-2, got %+v", first)
	}
	if second.PointTag != "AI-2" || !strings.Contains(second.Message, "AI-1") {
		t.Fatalf("expected AI-2's conflict to name AI-1, got %+v", second)
	}
}

func TestDetectConflictsMissingCard(t *testing.T) {
	points := []IOPoint{placedPoint("AI-1", "PLC-9", 2, 4, 0)}
	report := DetectConflicts(points, nil)
	if len(report.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(report.Conflicts))
	}
	conflict := report.Conflicts[0]
	if conflict.Kind != ConflictMissingCard {
		t.Fatalf("expected missing_card, got %s", conflict.Kind)
	}
	if conflict.Card != (CardRef{PLCName: "PLC-9", Rack: 2, Slot: 4}) {
		t.Fatalf("expected conflict to carry the phantom position, got %+v", conflict.Card)
	}
}

func TestDetectConflictsTypeMismatch(t *testing.T) {
	card := aiCard("PLC-1", 0, 1, 8)
	point := placedPoint("DO-1", "PLC-1", 0, 1, 0)
	point.IOType = IODigitalOutput
	report := DetectConflicts([]IOPoint{point}, []Card{card})
	if len(report.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %+v", report.Conflicts)
	}
	if report.Conflicts[0].Kind != ConflictIncompatibleSignal {
		t.Fatalf("expected incompatible_signal for io type mismatch, got %s", report.Conflicts[0].Kind)
	}
}

func TestDetectConflictsSignalMismatch(t *testing.T) {
	card := aiCard("PLC-1", 0, 1, 8)
	card.SignalType = SignalRTD
	point := placedPoint("AI-1", "PLC-1", 0, 1, 0)
	point.SignalType = SignalThermocouple
	report := DetectConflicts([]IOPoint{point}, []Card{card})
	if len(report.Conflicts) != 1 || report.Conflicts[0].Kind != ConflictIncompatibleSignal {
		t.Fatalf("expected a single incompatible_signal conflict, got %+v", report.Conflicts)
	}
}

func TestDetectConflictsUntypedPointPasses(t *testing.T) {
	card := aiCard("PLC-1", 0, 1, 8)
	card.SignalType = SignalRTD
	point := placedPoint("AI-1", "PLC-1", 0, 1, 0)
	point.IOType = ""
	point.SignalType = ""
	report := DetectConflicts([]IOPoint{point}, []Card{card})
	if report.HasConflicts {
		t.Fatalf("expected untyped point to raise nothing, got %+v", report.Conflicts)
	}
}

func TestDetectConflictsOverCapacityEncounterOrder(t *testing.T) {
	card := aiCard("PLC-1", 0, 1, 2)
	points := []IOPoint{
		placedPoint("AI-1", "PLC-1", 0, 1, 0),
		placedPoint("AI-2", "PLC-1", 0, 1, 1),
		placedPoint("AI-3", "PLC-1", 0, 1, 2),
		placedPoint("AI-4", "PLC-1", 0, 1, 3),
	}
	report := DetectConflicts(points, []Card{card})
	var over []string
	for _, conflict := range report.Conflicts {
		if conflict.Kind == ConflictCardOverCapacity {
			over = append(over, conflict.PointTag)
		}
	}
	if !reflect.DeepEqual(over, []string{"AI-3", "AI-4"}) {
		t.Fatalf("expected the points beyond capacity in encounter order, got %v", over)
	}
}

func TestDetectConflictsNegativeChannelCount(t *testing.T) {
	card := aiCard("PLC-1", 0, 1, -1)
	points := []IOPoint{placedPoint("AI-1", "PLC-1", 0, 1, 0)}
	report := DetectConflicts(points, []Card{card})
	var over []string
	for _, conflict := range report.Conflicts {
		if conflict.Kind == ConflictCardOverCapacity {
			over = append(over, conflict.PointTag)
		}
	}
	if !reflect.DeepEqual(over, []string{"AI-1"}) {
		t.Fatalf("expected every occupant flagged on a corrupt channel count, got %v", over)
	}
}

func TestDetectConflictsIdempotent(t *testing.T) {
	card := aiCard("PLC-1", 0, 1, 2)
	points := []IOPoint{
		placedPoint("AI-1", "PLC-1", 0, 1, 0),
		placedPoint("AI-2", "PLC-1", 0, 1, 0),
		placedPoint("AI-3", "PLC-1", 0, 1, 1),
	}
	first := DetectConflicts(points, []Card{card})
	second := DetectConflicts(points, []Card{card})
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected repeated audits of an unchanged snapshot to match")
	}
}

func TestDetectConflictsAfterAssignmentStaysClean(t *testing.T) {
	card := aiCard("PLC-1", 0, 1, 8)
	points := []IOPoint{
		placedPoint("AI-1", "PLC-1", 0, 1, 0),
		placedPoint("AI-2", "PLC-1", 0, 1, 1),
	}
	point := IOPoint{Tag: "AI-3", IOType: IOAnalogInput, SignalType: SignalCurrentLoop}
	result := AutoAssign(point, []Card{card}, points)
	if !result.Assigned {
		t.Fatalf("expected assignment, got %q", result.Message)
	}
	point.PLCName = result.Card.PLCName
	point.Rack = intp(result.Card.Rack)
	point.Slot = intp(result.Card.Slot)
	point.Channel = intp(result.Channel)
	report := DetectConflicts(append(points, point), []Card{card})
	if report.HasConflicts {
		t.Fatalf("expected no new conflicts after applying an assignment, got %+v", report.Conflicts)
	}
}
