package ioplan

import "math"

// UtilizationStatus bands a card's channel usage.
type UtilizationStatus string

const (
	UtilizationLow    UtilizationStatus = "low"
	UtilizationMedium UtilizationStatus = "medium"
	UtilizationHigh   UtilizationStatus = "high"
	UtilizationFull   UtilizationStatus = "full"
)

// UtilizationRow reports channel usage for one card.
type UtilizationRow struct {
	Card       CardRef           `json:"card"`
	Name       string            `json:"name,omitempty"`
	IOType     IOType            `json:"io_type"`
	Total      int               `json:"total"`
	Used       int               `json:"used"`
	Available  int               `json:"available"`
	Percentage int               `json:"percentage"`
	Status     UtilizationStatus `json:"status"`
}

// CardUtilization derives one row per card from the same occupancy
// primitive the assigner uses. Rows are independent of each other.
func CardUtilization(cards []Card, points []IOPoint) []UtilizationRow {
	rows := make([]UtilizationRow, 0, len(cards))
	for _, card := range cards {
		used := len(UsedChannels(card, points))
		percentage := 0
		if card.Channels > 0 {
			percentage = int(math.Round(float64(used) / float64(card.Channels) * 100))
		}
		rows = append(rows, UtilizationRow{
			Card:       card.Ref(),
			Name:       card.Name,
			IOType:     card.IOType,
			Total:      card.Channels,
			Used:       used,
			Available:  card.Channels - used,
			Percentage: percentage,
			Status:     utilizationStatus(percentage),
		})
	}
	return rows
}

func utilizationStatus(percentage int) UtilizationStatus {
	switch {
	case percentage >= 100:
		return UtilizationFull
	case percentage >= 90:
		return UtilizationHigh
	case percentage >= 70:
		return UtilizationMedium
	default:
		return UtilizationLow
	}
}
