package rugged

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Ellipsoid_CartesianRoundTrip(t *testing.T) {
	assert := assert.New(t)
	ell := NewEllipsoid(6378137.0, 1.0/298.257223563, ITRF)
	p := GeodeticPoint{Latitude: 0.7, Longitude: -1.2, Altitude: 1234.5}
	cart := ell.ToCartesian(p)
	back := ell.ToGeodetic(cart)
	assert.InDelta(p.Latitude, back.Latitude, 1e-9)
	assert.InDelta(p.Longitude, back.Longitude, 1e-9)
	assert.InDelta(p.Altitude, back.Altitude, 1e-3)
}

func Test_Ellipsoid_PointOnGround_Nadir(t *testing.T) {
	assert := assert.New(t)
	ell := NewEllipsoid(6378137.0, 1.0/298.257223563, ITRF)
	origin := ell.ToCartesian(GeodeticPoint{Latitude: 0.5, Longitude: 0.3, Altitude: 700000})
	up, err := origin.Sub(ell.ToCartesian(GeodeticPoint{Latitude: 0.5, Longitude: 0.3})).Normalize()
	assert.NoError(err)
	los := up.Scale(-1)
	gp, err := ell.PointOnGround(origin, los)
	assert.NoError(err)
	assert.InDelta(0.5, gp.Latitude, 1e-6)
	assert.InDelta(0.3, gp.Longitude, 1e-6)
	assert.InDelta(0.0, gp.Altitude, 1e-2)
}

func Test_Ellipsoid_PointOnGround_MissesWhenLooksAway(t *testing.T) {
	assert := assert.New(t)
	ell := NewEllipsoid(6378137.0, 1.0/298.257223563, ITRF)
	origin := ell.ToCartesian(GeodeticPoint{Latitude: 0, Longitude: 0, Altitude: 700000})
	zenith, err := origin.Normalize()
	assert.NoError(err)
	_, err = ell.PointOnGround(origin, zenith)
	assert.Error(err)
	le, ok := AsLocalizationError(err)
	assert.True(ok)
	assert.Equal(ErrLineOfSightDoesNotReachGround, le.Kind())
}

func Test_Ellipsoid_PointAtLatitude_RejectsPole(t *testing.T) {
	assert := assert.New(t)
	ell := NewEllipsoid(6378137.0, 1.0/298.257223563, ITRF)
	_, err := ell.PointAtLatitude(Vector3{X: 7e6}, Vector3{Z: -1}, math.Pi/2, Vector3{})
	assert.Error(err)
}

func Test_Ellipsoid_PointAtLongitude(t *testing.T) {
	assert := assert.New(t)
	ell := NewEllipsoid(6378137.0, 1.0/298.257223563, ITRF)
	origin := ell.ToCartesian(GeodeticPoint{Latitude: 0.1, Longitude: 0.2, Altitude: 700000})
	nadir, _ := origin.Normalize()
	gp, err := ell.PointAtLongitude(origin, nadir.Scale(-1), 0.2, origin)
	assert.NoError(err)
	assert.InDelta(0.2, gp.Longitude, 1e-6)
}
