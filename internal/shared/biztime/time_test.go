package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedClock(t *testing.T) {
	start := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)
	clock := NewFixedClock(start)

	assert.Equal(t, start, clock.Now())

	clock.Advance(time.Hour)
	assert.Equal(t, start.Add(time.Hour), clock.Now())
}

func TestAddDays(t *testing.T) {
	base := time.Date(2026, 3, 28, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 4, 4, 12, 0, 0, 0, time.UTC), AddDays(base, 7))
	assert.Equal(t, time.Date(2026, 3, 27, 12, 0, 0, 0, time.UTC), AddDays(base, -1))
}

func TestLocationDefaultsToUTC(t *testing.T) {
	assert.Equal(t, "UTC", Location().String())
}
