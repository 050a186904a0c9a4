package ioplan

import "sort"

// StandardCardSizes are the catalog channel counts considered when
// recommending additional hardware, largest first.
var StandardCardSizes = []int{32, 16, 8}

// CardSuggestion recommends a number of cards of one size for a group of
// points sharing the same I/O and signal types.
type CardSuggestion struct {
	IOType     IOType     `json:"io_type"`
	SignalType SignalType `json:"signal_type,omitempty"`
	Channels   int        `json:"channels"`
	Count      int        `json:"count"`
}

// SuggestCards proposes cards covering the given points using the
// standard card sizes.
func SuggestCards(points []IOPoint) []CardSuggestion {
	return SuggestCardsWithSizes(points, StandardCardSizes)
}

// SuggestCardsWithSizes proposes a minimal card set for points lacking
// placement, greedily covering each (I/O type, signal type) group with
// the given sizes largest-first; any remainder gets one card of the
// smallest size. Suggestions are sorted by I/O type, then by descending
// channel count.
func SuggestCardsWithSizes(points []IOPoint, sizes []int) []CardSuggestion {
	normalized := normalizeSizes(sizes)
	if len(normalized) == 0 {
		normalized = normalizeSizes(StandardCardSizes)
	}
	smallest := normalized[len(normalized)-1]

	type groupKey struct {
		io     IOType
		signal SignalType
	}
	counts := make(map[groupKey]int)
	var order []groupKey
	for _, point := range points {
		key := groupKey{io: point.IOType, signal: point.SignalType}
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	var suggestions []CardSuggestion
	for _, key := range order {
		remaining := counts[key]
		for _, size := range normalized {
			needed := remaining / size
			if needed == 0 {
				continue
			}
			suggestions = append(suggestions, CardSuggestion{
				IOType:     key.io,
				SignalType: key.signal,
				Channels:   size,
				Count:      needed,
			})
			remaining -= needed * size
		}
		if remaining > 0 {
			suggestions = append(suggestions, CardSuggestion{
				IOType:     key.io,
				SignalType: key.signal,
				Channels:   smallest,
				Count:      1,
			})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].IOType != suggestions[j].IOType {
			return suggestions[i].IOType < suggestions[j].IOType
		}
		return suggestions[i].Channels > suggestions[j].Channels
	})
	return suggestions
}

func normalizeSizes(sizes []int) []int {
	var result []int
	for _, size := range sizes {
		if size > 0 {
			result = append(result, size)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(result)))
	return result
}
