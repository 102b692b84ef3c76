package utils

import (
	"fmt"
	"math"
	"time"
)

// FormatPercent renders a percentage with two decimals. Values that round to
// zero print without a sign so "-0.00%" never appears.
func FormatPercent(v float64) string {
	if math.Round(v*100) == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", v)
}

// FormatPercentSigned is FormatPercent with an explicit "+" on positives.
func FormatPercentSigned(v float64) string {
	if math.Round(v*100) == 0 {
		return "0.00%"
	}
	if v > 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

// FormatDateUS renders an ISO date as MM/DD/YYYY. Unparseable inputs pass
// through unchanged.
func FormatDateUS(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("01/02/2006")
}

// FormatDaysRemaining renders a day count with a pluralized unit.
func FormatDaysRemaining(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}
