package utils

import (
	"strings"

	"github.com/google/uuid"
)

// RunLabel creates a short, human-readable label for one simulation run.
// Format: {operation}-{scenarioSlug}-{8charHexID}
//
// Example:
//   - Input: operation="simulate", scenario="Slow Operator"
//   - Output: "simulate-slow-operator-a3f8e2b1"
func RunLabel(operation, scenario string, id uuid.UUID) string {
	return operation + "-" + slug(scenario) + "-" + shortID(id)
}

// slug lower-cases a name and collapses every run of other characters into one hyphen.
//   - "Slow Operator" -> "slow-operator"
//   - "datacore_loss" -> "datacore-loss"
//   - "" -> "unnamed"
func slug(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	if b.Len() == 0 {
		return "unnamed"
	}
	return b.String()
}

// shortID returns the first 8 hex characters of a UUID
func shortID(id uuid.UUID) string {
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
