package rugged

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// constantOrbit is a minimal ScToInertialProvider for tests: a spacecraft
// sitting still (in the inertial frame) at a fixed position and attitude.
type constantOrbit struct {
	transform Transform
}

func (c constantOrbit) TransformAt(t Date) (Transform, error) { return c.transform, nil }

func buildTestSensor(t *testing.T, nPixels int) *LineSensor {
	los := make([]Vector3, nPixels)
	for i := range los {
		angle := (float64(i)/float64(nPixels-1) - 0.5) * 0.02 // +/-0.01 rad across track
		// nadir of a spacecraft on the +X axis, tilted across track
		los[i] = Vector3{X: -math.Cos(angle), Y: 0, Z: math.Sin(angle)}
	}
	datation := NewConstantRateLineDatation(0, NewDate(0, 0), 1.0)
	sensor, err := NewLineSensor("test-sensor", Vector3{}, los, datation, Vector3{})
	assert.NoError(t, err)
	return sensor
}

func Test_DirectInverse_RoundTrip_IgnoreDEM(t *testing.T) {
	assert := assert.New(t)
	cfg := NewBuilder().
		WithAlgorithm(IgnoreDemUseEllipsoid).
		WithLightTimeCorrection(false).
		WithAberrationOfLightCorrection(false).
		Build()

	position := NewEllipsoid(6378137.0, 1.0/298.257223563, ITRF).
		ToCartesian(GeodeticPoint{Latitude: 0, Longitude: 0, Altitude: 700000})
	orbit := movingOrbit{at: func(t Date) Transform {
		return Transform{Rotation: Quaternion{W: 1}, Translation: position.Add(Vector3{Y: 7000 * t.Seconds()})}
	}}
	frame := NewUniformRotatingFrame(NewDate(0, 0), 0)

	r, err := NewRugged(cfg, orbit, frame, nil)
	assert.NoError(err)
	r.AddSensor(buildTestSensor(t, 11))

	const wantLine, wantPixel = 4.0, 7.0
	gp, err := r.DirectLocalization("test-sensor", wantLine, wantPixel)
	assert.NoError(err)

	got, err := r.InverseLocalization("test-sensor", gp, 0, 10)
	assert.NoError(err)
	if assert.NotNil(got) {
		assert.InDelta(wantLine, got.Line, 1e-1)
		assert.InDelta(wantPixel, got.Pixel, 1e-1)
	}
}

func Test_DirectLocalization_ReducesToEllipsoidWhenCorrectionsOff(t *testing.T) {
	assert := assert.New(t)
	cfg := NewBuilder().
		WithAlgorithm(IgnoreDemUseEllipsoid).
		WithLightTimeCorrection(false).
		WithAberrationOfLightCorrection(false).
		Build()

	ell := NewEllipsoid(6378137.0, 1.0/298.257223563, ITRF)
	position := ell.ToCartesian(GeodeticPoint{Latitude: 0, Longitude: 0, Altitude: 700000})
	orbit := constantOrbit{transform: Transform{Rotation: Quaternion{W: 1}, Translation: position}}
	frame := NewUniformRotatingFrame(NewDate(0, 0), 0)

	r, err := NewRugged(cfg, orbit, frame, nil)
	assert.NoError(err)
	sensor := buildTestSensor(t, 11)
	r.AddSensor(sensor)

	gp, err := r.DirectLocalization("test-sensor", 5, 5)
	assert.NoError(err)

	direct, err := ell.PointOnGround(position, sensor.LOS(5))
	assert.NoError(err)
	assert.InDelta(direct.Latitude, gp.Latitude, 1e-9)
	assert.InDelta(direct.Longitude, gp.Longitude, 1e-9)
}

func Test_InverseLocalization_NoCrossingReturnsNil(t *testing.T) {
	assert := assert.New(t)
	cfg := NewBuilder().
		WithAlgorithm(IgnoreDemUseEllipsoid).
		WithLightTimeCorrection(false).
		WithAberrationOfLightCorrection(false).
		Build()

	position := NewEllipsoid(6378137.0, 1.0/298.257223563, ITRF).
		ToCartesian(GeodeticPoint{Latitude: 0, Longitude: 0, Altitude: 700000})
	orbit := constantOrbit{transform: Transform{Rotation: Quaternion{W: 1}, Translation: position}}
	frame := NewUniformRotatingFrame(NewDate(0, 0), 0)

	r, err := NewRugged(cfg, orbit, frame, nil)
	assert.NoError(err)
	r.AddSensor(buildTestSensor(t, 11))

	farAway := GeodeticPoint{Latitude: 1.2, Longitude: 1.2, Altitude: 0}
	got, err := r.InverseLocalization("test-sensor", farAway, 0, 10)
	assert.NoError(err)
	assert.Nil(got)
}

func Test_Rugged_UnknownSensor(t *testing.T) {
	assert := assert.New(t)
	cfg := NewBuilder().WithAlgorithm(IgnoreDemUseEllipsoid).Build()
	orbit := constantOrbit{transform: Transform{Rotation: Quaternion{W: 1}}}
	frame := NewUniformRotatingFrame(NewDate(0, 0), 0)
	r, err := NewRugged(cfg, orbit, frame, nil)
	assert.NoError(err)

	_, err = r.DirectLocalization("missing", 0, 0)
	assert.Error(err)
	le, ok := AsLocalizationError(err)
	assert.True(ok)
	assert.Equal(ErrUnknownSensor, le.Kind())
}
