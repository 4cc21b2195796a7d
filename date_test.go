package rugged

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Date_AddSubRoundTrip(t *testing.T) {
	assert := assert.New(t)
	d := NewDate(1000, 0.75)
	shifted := d.Add(10.5)
	assert.InDelta(10.5, shifted.Sub(d), 1e-9)
}

func Test_Date_NormalizesFraction(t *testing.T) {
	assert := assert.New(t)
	d := NewDate(0, 1.25)
	assert.InDelta(1.25, d.Seconds(), 1e-9)
}

func Test_Date_Ordering(t *testing.T) {
	assert := assert.New(t)
	a := DateFromSeconds(10.0)
	b := DateFromSeconds(10.5)
	assert.True(a.Before(b))
	assert.True(b.After(a))
	assert.False(a.Equal(b))
}
