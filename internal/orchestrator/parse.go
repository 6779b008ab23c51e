package orchestrator

import (
	"math"
	"strings"
	"unicode"

	"github.com/doeshing/agentgate/internal/domain"
)

// defaultMagnitude is applied when a mutating instruction names no number.
const defaultMagnitude = 100

// firstInt extracts the first integer token from text.
func firstInt(text string) (int, bool) {
	value := 0
	found := false
	for _, r := range text {
		if unicode.IsDigit(r) {
			value = value*10 + int(r-'0')
			found = true
			continue
		}
		if found {
			break
		}
	}
	return value, found
}

// mentionsPercentage reports whether the instruction is phrased as a
// percentage change rather than an absolute quantity.
func mentionsPercentage(text string) bool {
	return strings.Contains(text, "%") || strings.Contains(text, "percent")
}

// percentageDelta converts p% of the current quantity into an absolute delta,
// rounded to the nearest integer.
func percentageDelta(current, percent int) int {
	return int(math.Round(float64(current) * float64(percent) / 100))
}

var (
	decreaseKeywords = []string{"decrease", "reduce", "remove", "subtract"}
	increaseKeywords = []string{"increase", "add", "restock", "replenish"}
)

// detectQuantityOp reads the mutation direction out of the instruction text.
func detectQuantityOp(text string) domain.QuantityOp {
	switch {
	case containsAny(text, decreaseKeywords):
		return domain.QuantityDecrease
	case containsAny(text, increaseKeywords):
		return domain.QuantityIncrease
	default:
		return domain.QuantitySet
	}
}
