package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixed(t *testing.T) {
	c := MustParseDate("2025-06-18")
	assert.Equal(t, time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC), c.Now())
	assert.Equal(t, c.Now(), c.Now())
}

func TestMustParseDate_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParseDate("18.06.2025") })
}

func TestSystem(t *testing.T) {
	before := time.Now()
	now := System{}.Now()
	assert.False(t, now.Before(before))
}
