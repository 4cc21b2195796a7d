package rugged

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_LineSensor_LOSInterpolatesBetweenPixels(t *testing.T) {
	assert := assert.New(t)
	los := []Vector3{{Z: -1}, {X: 0.1, Z: -1}, {X: 0.2, Z: -1}}
	datation := NewConstantRateLineDatation(0, NewDate(0, 0), 1.0)
	sensor, err := NewLineSensor("s", Vector3{}, los, datation, Vector3{})
	assert.NoError(err)

	mid := sensor.LOS(0.5)
	assert.True(mid.X > 0 && mid.X < 0.1)
	assert.InDelta(1.0, mid.Norm(), 1e-9)

	assert.Equal(sensor.LOS(-5).X, sensor.LOS(0).X)
	assert.Equal(sensor.LOS(50).X, sensor.LOS(2).X)
}

func Test_LineSensor_RejectsTooFewPixels(t *testing.T) {
	assert := assert.New(t)
	datation := NewConstantRateLineDatation(0, NewDate(0, 0), 1.0)
	_, err := NewLineSensor("s", Vector3{}, []Vector3{{Z: -1}}, datation, Vector3{})
	assert.Error(err)
}

func Test_ComputeMeanPlaneNormal_PlanarLOSGivesOrthogonalNormal(t *testing.T) {
	assert := assert.New(t)
	los := make([]Vector3, 9)
	for i := range los {
		angle := (float64(i)/8 - 0.5) * 0.5
		v, _ := Vector3{X: math.Sin(angle), Z: -math.Cos(angle)}.Normalize()
		los[i] = v
	}
	normal := computeMeanPlaneNormal(los)
	for _, v := range los {
		assert.InDelta(0, v.Dot(normal), 1e-6)
	}
}

func Test_ConstantRateLineDatation_RoundTrip(t *testing.T) {
	assert := assert.New(t)
	d := NewConstantRateLineDatation(100, NewDate(1000, 0), 2.0)
	date := d.DateAtLine(110)
	assert.InDelta(1005.0, date.Seconds(), 1e-9)
	assert.InDelta(110.0, d.LineAtDate(date), 1e-9)
}
