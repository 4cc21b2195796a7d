package rugged

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test_DirectLocalization_DEMBacked exercises the full Rugged facade with a
// real TileUpdater and the Duvenhage algorithm (not IgnoreDemUseEllipsoid),
// so tile construction and hierarchical traversal actually run. The DEM
// carries a hill, so the located point must sit noticeably above the bare
// ellipsoid.
func Test_DirectLocalization_DEMBacked(t *testing.T) {
	assert := assert.New(t)
	ell := NewEllipsoid(6378137.0, 1.0/298.257223563, ITRF)
	updater := flatTileUpdaterAt(-0.01, -0.01, 0.02, 33)

	cfg := NewBuilder().
		WithAlgorithm(Duvenhage).
		WithLightTimeCorrection(false).
		WithAberrationOfLightCorrection(false).
		Build()

	position := ell.ToCartesian(GeodeticPoint{Latitude: 0.002, Longitude: -0.003, Altitude: 700000})
	orbit := constantOrbit{transform: Transform{Rotation: Quaternion{W: 1}, Translation: position}}
	frame := NewUniformRotatingFrame(NewDate(0, 0), 0)

	r, err := NewRugged(cfg, orbit, frame, updater)
	assert.NoError(err)

	up, _ := position.Normalize()
	nadir := up.Scale(-1)
	los := []Vector3{nadir, nadir.Add(Vector3{Z: 1e-3})}
	datation := NewConstantRateLineDatation(0, NewDate(0, 0), 1.0)
	sensor, err := NewLineSensor("nadir", Vector3{}, los, datation, Vector3{})
	assert.NoError(err)
	r.AddSensor(sensor)

	gp, err := r.DirectLocalization("nadir", 0, 0)
	assert.NoError(err)
	assert.InDelta(0.002, gp.Latitude, 1e-4)
	assert.InDelta(-0.003, gp.Longitude, 1e-4)

	scanCache, err := NewTileCache(updater, 4)
	assert.NoError(err)
	scan := &BasicScanAlgorithm{cache: scanCache}
	want, err := scan.Intersection(ell, position, nadir)
	assert.NoError(err)
	assert.InDelta(want.Altitude, gp.Altitude, 1.0)
}

// movingOrbit is a ScToInertialProvider whose position advances linearly
// with time and whose inertial velocity is large enough to make
// aberration-of-light and light-time corrections measurable.
type movingOrbit struct {
	at func(t Date) Transform
}

func (m movingOrbit) TransformAt(t Date) (Transform, error) { return m.at(t), nil }

func Test_DirectLocalization_AberrationChangesResult(t *testing.T) {
	assert := assert.New(t)
	ell := NewEllipsoid(6378137.0, 1.0/298.257223563, ITRF)
	position := ell.ToCartesian(GeodeticPoint{Latitude: 0, Longitude: 0, Altitude: 700000})
	velocity := Vector3{X: 0, Y: 7500, Z: 0} // low-orbit along-track speed

	orbit := movingOrbit{at: func(Date) Transform {
		return Transform{Rotation: Quaternion{W: 1}, Translation: position, LinearVelocity: velocity}
	}}
	frame := NewUniformRotatingFrame(NewDate(0, 0), 0)
	cfg := NewBuilder().
		WithAlgorithm(IgnoreDemUseEllipsoid).
		WithLightTimeCorrection(false).
		WithAberrationOfLightCorrection(true).
		Build()

	r, err := NewRugged(cfg, orbit, frame, nil)
	assert.NoError(err)
	r.AddSensor(buildTestSensor(t, 11))

	withAberration, err := r.DirectLocalization("test-sensor", 5, 5)
	assert.NoError(err)
	withoutAberration, err := r.DirectLocalization("test-sensor", 5, 5, WithAberrationOfLightCorrection(false))
	assert.NoError(err)

	assert.NotInDelta(withoutAberration.Longitude, withAberration.Longitude, 1e-12)
}

func Test_DirectLocalization_LightTimeChangesResult(t *testing.T) {
	assert := assert.New(t)
	ell := NewEllipsoid(6378137.0, 1.0/298.257223563, ITRF)
	position := ell.ToCartesian(GeodeticPoint{Latitude: 0, Longitude: 0, Altitude: 700000})
	velocity := Vector3{X: 0, Y: 7500, Z: 0}

	orbit := movingOrbit{at: func(Date) Transform {
		return Transform{Rotation: Quaternion{W: 1}, Translation: position, LinearVelocity: velocity}
	}}
	rate := 7.3e-5 // roughly Earth's rotation rate, rad/s
	frame := NewUniformRotatingFrame(NewDate(0, 0), rate)
	cfg := NewBuilder().
		WithAlgorithm(IgnoreDemUseEllipsoid).
		WithLightTimeCorrection(true).
		WithAberrationOfLightCorrection(false).
		Build()

	r, err := NewRugged(cfg, orbit, frame, nil)
	assert.NoError(err)
	r.AddSensor(buildTestSensor(t, 11))

	withLightTime, err := r.DirectLocalization("test-sensor", 5, 5)
	assert.NoError(err)
	withoutLightTime, err := r.DirectLocalization("test-sensor", 5, 5, WithLightTimeCorrection(false))
	assert.NoError(err)

	assert.NotInDelta(withoutLightTime.Longitude, withLightTime.Longitude, 1e-12)
}

// Test_TileCache_EvictsUnderPressure exercises spec §8 scenario 6: a cache
// bounded to fewer tiles than the distinct tiles requested must evict.
func Test_TileCache_EvictsUnderPressure(t *testing.T) {
	assert := assert.New(t)
	calls := 0
	updater := TileUpdaterFunc(func(lat, lon float64, tile *UpdatableTile) error {
		calls++
		minLat := 0.02 * float64(int(lat/0.02))
		minLon := 0.02 * float64(int(lon/0.02))
		tile.SetGeometry(minLat, minLon, 0.005, 0.005, 5, 5)
		for i := 0; i < 5; i++ {
			for j := 0; j < 5; j++ {
				tile.SetElevation(i, j, 0)
			}
		}
		return nil
	})

	cache, err := NewTileCache(updater, 2)
	assert.NoError(err)

	centres := [][2]float64{{0.01, 0.01}, {0.03, 0.01}, {0.05, 0.01}, {0.07, 0.01}}
	for _, c := range centres {
		_, err := cache.GetTile(c[0], c[1])
		assert.NoError(err)
	}

	assert.Greater(cache.Stats.Evictions, int64(0))
	assert.Equal(int64(len(centres)), cache.Stats.Misses)
}
