package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedClock_Frozen(t *testing.T) {
	at := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	c := NewFixedClock(at)

	assert.Equal(t, at, c.Now())
	assert.Equal(t, at, c.Now())
}

func TestFixedClock_SetAndAdvance(t *testing.T) {
	c := NewFixedClock(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC))

	c.AdvanceDays(3)
	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), c.Now())

	c.Set(time.Date(2027, 1, 1, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, 2027, c.Now().Year())
}
