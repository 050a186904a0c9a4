package ioplan

import "testing"

func TestValidateSnapshotClean(t *testing.T) {
	card := aiCard("PLC-1", 0, 1, 8)
	points := []IOPoint{
		placedPoint("AI-1", "PLC-1", 0, 1, 0),
		{Tag: "AI-2", IOType: IOAnalogInput},
	}
	if findings := ValidateSnapshot(points, []Card{card}); len(findings) != 0 {
		t.Fatalf("expected no findings, got %+v", findings)
	}
}

func TestValidateSnapshotDuplicateCardPosition(t *testing.T) {
	a := aiCard("PLC-1", 0, 1, 8)
	b := aiCard("PLC-1", 0, 1, 16)
	findings := ValidateSnapshot(nil, []Card{a, b})
	if len(findings) != 1 {
		t.Fatalf("expected one finding, got %+v", findings)
	}
	if findings[0].Severity != SeverityError || findings[0].Field != "plc_name/rack/slot" {
		t.Fatalf("expected a position error, got %+v", findings[0])
	}
}

func TestValidateSnapshotDuplicateTagCaseInsensitive(t *testing.T) {
	points := []IOPoint{
		{Tag: "FT-101", IOType: IOAnalogInput},
		{Tag: "ft-101", IOType: IOAnalogInput},
	}
	findings := ValidateSnapshot(points, nil)
	if len(findings) != 1 {
		t.Fatalf("expected one finding, got %+v", findings)
	}
	if findings[0].Subject != "ft-101" || findings[0].Field != "tag" {
		t.Fatalf("expected the second spelling to be flagged, got %+v", findings[0])
	}
}

func TestValidateSnapshotEmptyTag(t *testing.T) {
	findings := ValidateSnapshot([]IOPoint{{ID: "pt-1", Tag: "  "}}, nil)
	if len(findings) != 1 || findings[0].Field != "tag" {
		t.Fatalf("expected an empty-tag finding, got %+v", findings)
	}
}

func TestValidateSnapshotChannelOutOfRange(t *testing.T) {
	card := aiCard("PLC-1", 0, 1, 8)
	points := []IOPoint{placedPoint("AI-1", "PLC-1", 0, 1, 8)}
	findings := ValidateSnapshot(points, []Card{card})
	if len(findings) != 1 || findings[0].Field != "channel" {
		t.Fatalf("expected an out-of-range channel finding, got %+v", findings)
	}
}

func TestValidateSnapshotNonPositiveChannels(t *testing.T) {
	card := aiCard("PLC-1", 0, 1, 0)
	findings := ValidateSnapshot(nil, []Card{card})
	if len(findings) != 1 || findings[0].Field != "channels" {
		t.Fatalf("expected a channel-count finding, got %+v", findings)
	}
}

func TestSnapshotErrorsFilters(t *testing.T) {
	findings := []Finding{
		{Severity: SeverityError, Subject: "a"},
		{Severity: SeverityWarning, Subject: "b"},
		{Severity: SeverityError, Subject: "c"},
	}
	errs := SnapshotErrors(findings)
	if len(errs) != 2 || errs[0].Subject != "a" || errs[1].Subject != "c" {
		t.Fatalf("expected the two errors, got %+v", errs)
	}
}
