package simpleado

import (
	"strconv"
	"strings"
)

// joinPlaceholders renders n placeholders separated by commas. mark returns
// the placeholder for the 1-based position i.
func joinPlaceholders(n int, mark func(i int) string) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = mark(i + 1)
	}
	return strings.Join(parts, ", ")
}

func dollar(i int) string { return "$" + strconv.Itoa(i) }

func question(int) string { return "?" }

func atP(i int) string { return "@p" + strconv.Itoa(i) }
