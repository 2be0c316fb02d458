package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFake_AdvanceFiresDueTimers(t *testing.T) {
	c := NewFake(time.Unix(1_700_000_000, 0))
	var fired []string

	c.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
	c.AfterFunc(time.Second, func() { fired = append(fired, "a") })
	c.AfterFunc(time.Minute, func() { fired = append(fired, "c") })

	c.Advance(3 * time.Second)
	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Equal(t, 1, c.Pending())

	c.Advance(time.Minute)
	assert.Equal(t, []string{"a", "b", "c"}, fired)
	assert.Equal(t, 0, c.Pending())
}

func TestFake_Stop(t *testing.T) {
	c := NewFake(time.Now())
	fired := false
	tm := c.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, tm.Stop())
	assert.False(t, tm.Stop())

	c.Advance(time.Hour)
	assert.False(t, fired)
}

func TestFake_ZeroDelayFiresOnAdvance(t *testing.T) {
	c := NewFake(time.Now())
	fired := false
	tm := c.AfterFunc(0, func() { fired = true })

	c.Advance(0)
	assert.True(t, fired)
	assert.False(t, tm.Stop())
}
