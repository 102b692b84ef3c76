// Package utils provides small shared helpers.
package utils

import "math"

// Round2 rounds v to two decimal places. All display-facing percentages and
// prices in the API are rounded with this to keep tables stable.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
