package rugged

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_AtmosphericRefraction_HitsFlatTileBelow(t *testing.T) {
	assert := assert.New(t)
	ell := NewEllipsoid(6378137.0, 1.0/298.257223563, ITRF)
	elev := [][]float64{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}
	tile, err := NewTile(-0.01, -0.01, 0.01, 0.01, elev)
	assert.NoError(err)

	origin := ell.ToCartesian(GeodeticPoint{Latitude: 0, Longitude: 0, Altitude: 700000})
	nadir, err := origin.Normalize()
	assert.NoError(err)

	ar := NewAtmosphericRefraction(ell)
	gp, err := ar.GetPointOnGround(origin, nadir.Scale(-1), tile)
	assert.NoError(err)
	assert.InDelta(0, gp.Latitude, 1e-4)
	assert.InDelta(0, gp.Longitude, 1e-4)
}

func Test_RefractSnell_NormalIncidenceIsUnchanged(t *testing.T) {
	assert := assert.New(t)
	ell := NewEllipsoid(6378137.0, 1.0/298.257223563, ITRF)
	p := ell.ToCartesian(GeodeticPoint{Latitude: 0.3, Longitude: 0.4, Altitude: 5000})
	normal, _ := p.Normalize()
	incident := normal.Scale(-1)

	refracted := refractSnell(ell, p, incident, 1.0001, 1.0002)
	assert.InDelta(incident.X, refracted.X, 1e-6)
	assert.InDelta(incident.Y, refracted.Y, 1e-6)
	assert.InDelta(incident.Z, refracted.Z, 1e-6)
}
