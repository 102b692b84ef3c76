package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "12.34%", FormatPercent(12.34))
	assert.Equal(t, "-5.00%", FormatPercent(-5))
	// Values rounding to zero drop the sign.
	assert.Equal(t, "0.00%", FormatPercent(-0.001))
	assert.Equal(t, "0.00%", FormatPercent(0))
}

func TestFormatPercentSigned(t *testing.T) {
	assert.Equal(t, "+12.34%", FormatPercentSigned(12.34))
	assert.Equal(t, "-5.00%", FormatPercentSigned(-5))
	assert.Equal(t, "0.00%", FormatPercentSigned(-0.001))
}

func TestFormatDateUS(t *testing.T) {
	assert.Equal(t, "04/30/2027", FormatDateUS("2027-04-30"))
	assert.Equal(t, "not-a-date", FormatDateUS("not-a-date"))
}

func TestFormatDaysRemaining(t *testing.T) {
	assert.Equal(t, "197 days", FormatDaysRemaining(197))
	assert.Equal(t, "1 day", FormatDaysRemaining(1))
	assert.Equal(t, "0 days", FormatDaysRemaining(0))
}
