package models

import (
	"fmt"
	"math"
)

// FormatResponseTime renders an average response time given in hours:
// under an hour in minutes, under a day in whole hours, a day or more as
// days with a remainder of hours.
func FormatResponseTime(hours float64) string {
	if hours <= 0 {
		return "0m"
	}
	if hours < 1 {
		return fmt.Sprintf("%dm", int(math.Round(hours*60)))
	}
	whole := int(hours)
	if whole < 24 {
		return fmt.Sprintf("%dh", whole)
	}
	days := whole / 24
	rem := whole % 24
	if rem == 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dd %dh", days, rem)
}
