package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.2345))
	assert.Equal(t, 1.24, Round2(1.235))
	assert.Equal(t, -5.0, Round2(-5.0004))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, -12.35, Round2(-12.3456))
}
