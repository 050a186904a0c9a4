package ioplan

import (
	"fmt"
	"strings"
)

// FindingSeverity grades a snapshot validation finding.
type FindingSeverity string

const (
	SeverityError   FindingSeverity = "error"
	SeverityWarning FindingSeverity = "warning"
	SeverityInfo    FindingSeverity = "info"
)

// Finding is one snapshot validation result.
type Finding struct {
	Severity     FindingSeverity `json:"severity"`
	Subject      string          `json:"subject"`
	Field        string          `json:"field,omitempty"`
	Message      string          `json:"message"`
	SuggestedFix string          `json:"suggested_fix,omitempty"`
}

// ValidateSnapshot checks ingestion-level invariants the conflict audit
// assumes: card identities are unique, point tags are unique
// (case-insensitive) and non-empty, and channel counts are positive.
// Duplicate card identities are errors; callers should reject them at
// ingestion rather than rely on first-match card lookup.
func ValidateSnapshot(points []IOPoint, cards []Card) []Finding {
	var findings []Finding

	seenRefs := make(map[CardRef]bool, len(cards))
	for _, card := range cards {
		ref := card.Ref()
		if seenRefs[ref] {
			findings = append(findings, Finding{
				Severity:     SeverityError,
				Subject:      ref.String(),
				Field:        "plc_name/rack/slot",
				Message:      fmt.Sprintf("more than one card at %s", ref),
				SuggestedFix: "remove or re-slot the duplicate card",
			})
		}
		seenRefs[ref] = true

		if card.Channels <= 0 {
			findings = append(findings, Finding{
				Severity:     SeverityError,
				Subject:      ref.String(),
				Field:        "channels",
				Message:      fmt.Sprintf("card at %s has a channel count of %d", ref, card.Channels),
				SuggestedFix: "set a positive channel count",
			})
		}
	}

	seenTags := make(map[string]bool, len(points))
	for _, point := range points {
		tag := strings.TrimSpace(point.Tag)
		if tag == "" {
			findings = append(findings, Finding{
				Severity:     SeverityError,
				Subject:      point.ID,
				Field:        "tag",
				Message:      "point tag is required",
				SuggestedFix: "enter a unique tag (e.g. IO-001)",
			})
			continue
		}
		key := strings.ToLower(tag)
		if seenTags[key] {
			findings = append(findings, Finding{
				Severity:     SeverityError,
				Subject:      point.Tag,
				Field:        "tag",
				Message:      fmt.Sprintf("duplicate point tag %q", point.Tag),
				SuggestedFix: "change to a unique tag or use auto-numbering",
			})
		}
		seenTags[key] = true

		if point.Assigned() {
			if card, ok := FindCard(cards, CardRef{PLCName: point.PLCName, Rack: *point.Rack, Slot: *point.Slot}); ok {
				if *point.Channel < 0 || *point.Channel >= card.Channels {
					findings = append(findings, Finding{
						Severity:     SeverityError,
						Subject:      point.Tag,
						Field:        "channel",
						Message:      fmt.Sprintf("channel %d is outside the card's 0..%d range", *point.Channel, card.Channels-1),
						SuggestedFix: "re-assign the point to a valid channel",
					})
				}
			}
		}
	}

	return findings
}

// SnapshotErrors filters findings down to errors.
func SnapshotErrors(findings []Finding) []Finding {
	var errs []Finding
	for _, finding := range findings {
		if finding.Severity == SeverityError {
			errs = append(errs, finding)
		}
	}
	return errs
}
