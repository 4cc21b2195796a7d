package rugged

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func flatTileUpdaterAt(minLat, minLon, span float64, n int) TileUpdater {
	step := span / float64(n-1)
	return TileUpdaterFunc(func(lat, lon float64, tile *UpdatableTile) error {
		tile.SetGeometry(minLat, minLon, step, step, n, n)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				h := 100.0 * math.Sin(float64(i)/float64(n)*math.Pi) * math.Cos(float64(j)/float64(n)*math.Pi)
				tile.SetElevation(i, j, h)
			}
		}
		return nil
	})
}

func Test_Duvenhage_AgreesWithBasicScan(t *testing.T) {
	assert := assert.New(t)
	ell := NewEllipsoid(6378137.0, 1.0/298.257223563, ITRF)

	cacheD, err := NewTileCache(flatTileUpdaterAt(-0.01, -0.01, 0.02, 33), 4)
	assert.NoError(err)
	cacheB, err := NewTileCache(flatTileUpdaterAt(-0.01, -0.01, 0.02, 33), 4)
	assert.NoError(err)

	duv := &DuvenhageAlgorithm{cache: cacheD}
	scan := &BasicScanAlgorithm{cache: cacheB}

	origin := ell.ToCartesian(GeodeticPoint{Latitude: 0.002, Longitude: -0.003, Altitude: 700000})
	nadir, err := origin.Normalize()
	assert.NoError(err)
	los := nadir.Scale(-1)

	gotD, errD := duv.Intersection(ell, origin, los)
	gotB, errB := scan.Intersection(ell, origin, los)
	assert.NoError(errD)
	assert.NoError(errB)
	assert.InDelta(gotB.Latitude, gotD.Latitude, 1e-7)
	assert.InDelta(gotB.Longitude, gotD.Longitude, 1e-7)
	assert.InDelta(gotB.Altitude, gotD.Altitude, 1e-2)
}

func Test_Duvenhage_EntryBehindSpacecraft(t *testing.T) {
	assert := assert.New(t)
	ell := NewEllipsoid(6378137.0, 1.0/298.257223563, ITRF)
	cache, err := NewTileCache(flatTileUpdaterAt(-0.01, -0.01, 0.02, 9), 4)
	assert.NoError(err)
	duv := &DuvenhageAlgorithm{cache: cache}

	origin := ell.ToCartesian(GeodeticPoint{Latitude: 0, Longitude: 0, Altitude: 700000})
	zenith, err := origin.Normalize()
	assert.NoError(err)

	_, err = duv.Intersection(ell, origin, zenith)
	assert.Error(err)
	le, ok := AsLocalizationError(err)
	assert.True(ok)
	assert.Equal(ErrDemEntryPointIsBehindSpacecraft, le.Kind())
}

func Test_Duvenhage_RefineIntersectionMatchesScan(t *testing.T) {
	assert := assert.New(t)
	ell := NewEllipsoid(6378137.0, 1.0/298.257223563, ITRF)
	cache, err := NewTileCache(flatTileUpdaterAt(-0.01, -0.01, 0.02, 17), 4)
	assert.NoError(err)
	duv := &DuvenhageAlgorithm{cache: cache}

	origin := ell.ToCartesian(GeodeticPoint{Latitude: 0.001, Longitude: 0.001, Altitude: 700000})
	nadir, _ := origin.Normalize()
	los := nadir.Scale(-1)

	approx, err := duv.Intersection(ell, origin, los)
	assert.NoError(err)
	refined, err := duv.RefineIntersection(ell, origin, los, approx)
	assert.NoError(err)
	assert.InDelta(approx.Latitude, refined.Latitude, 1e-6)
	assert.InDelta(approx.Longitude, refined.Longitude, 1e-6)
}
