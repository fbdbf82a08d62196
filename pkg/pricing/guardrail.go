package pricing

// Inventory guardrail notes, also surfaced in the recommendation output.
const (
	NoteLowInventory  = "Low inventory → +3% price."
	NoteHighInventory = "High inventory → -3% price."
)

// AdjustForInventory nudges the optimizer's chosen price for stock pressure
// and re-clamps it into the candidate band, so the adjustment can never
// escape the feasible range. The returned note is empty when no guardrail
// fired.
func AdjustForInventory(price float64, onHand, reorderPoint int, candidates []float64) (float64, string) {
	adjusted := price
	note := ""

	switch {
	case onHand <= reorderPoint:
		adjusted = Round2(price * 1.03)
		note = NoteLowInventory
	case onHand > 2*reorderPoint:
		adjusted = Round2(price * 0.97)
		note = NoteHighInventory
	}

	return clampToBand(adjusted, candidates), note
}

func clampToBand(price float64, candidates []float64) float64 {
	if len(candidates) == 0 {
		return price
	}
	lo, hi := candidates[0], candidates[0]
	for _, c := range candidates[1:] {
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}
	if price < lo {
		return lo
	}
	if price > hi {
		return hi
	}
	return price
}
