package rugged

import "math"

// refractionLayer is one entry of the fixed (altitude lower bound,
// refractive index) table of spec §6.
type refractionLayer struct {
	altitude float64
	index    float64
}

// defaultRefractionLayers is the fixed table of spec §6, ascending by
// altitude as specified; AtmosphericRefraction walks it top-down.
var defaultRefractionLayers = []refractionLayer{
	{-1000, 1.000306},
	{0, 1.000278},
	{1000, 1.000252},
	{3000, 1.000206},
	{5000, 1.000167},
	{7000, 1.000134},
	{9000, 1.000106},
	{11000, 1.000083},
	{14000, 1.000052},
	{18000, 1.000028},
	{23000, 1.000012},
	{30000, 1.000004},
	{40000, 1.000001},
	{50000, 1.000000},
	{100000, 1.000000},
}

// AtmosphericRefraction is the optional collaborator of spec §6:
// getPointOnGround refracts a line of sight across the fixed layer table
// by Snell's law and finally intersects the supplied tile. Its algorithm
// is explicitly out of core scope (spec §1); this is one reasonable,
// self-consistent reading of the single paragraph spec §6 gives it.
type AtmosphericRefraction struct {
	ellipsoid *ExtendedEllipsoid
	layers    []refractionLayer
}

func NewAtmosphericRefraction(ellipsoid *ExtendedEllipsoid) *AtmosphericRefraction {
	return &AtmosphericRefraction{ellipsoid: ellipsoid, layers: defaultRefractionLayers}
}

// GetPointOnGround refracts (initialPos, initialLos) across the layer
// table in descending altitude order and intersects the final ray with
// tile. Layers at or below the tile's maximum elevation are not walked:
// the ray continues straight from the last crossing above the tile.
// previousIndex starts at the sentinel -1: the topmost
// layer only records an entry index, since there is no layer above it to
// refract across (spec §9 Open Question -- this module reads the
// sentinel as "nothing to refract against yet", not an off-by-one).
func (ar *AtmosphericRefraction) GetPointOnGround(initialPos, initialLos Vector3, tile *Tile) (GeodeticPoint, error) {
	los, err := initialLos.Normalize()
	if err != nil {
		return GeodeticPoint{}, newInternalError("initial line of sight is degenerate")
	}
	if tile == nil {
		return GeodeticPoint{}, newError(ErrNoLayerData, "no tile supplied for the final atmospheric-refraction intersection")
	}
	_, tileMax := tile.DEMStatistics()
	pos := initialPos
	previousIndex := -1.0

	for i := len(ar.layers) - 1; i >= 0; i-- {
		layer := ar.layers[i]
		if layer.altitude <= tileMax {
			break
		}
		exit, err := ar.ellipsoid.PointAtAltitudeCartesian(pos, los, layer.altitude)
		if err != nil {
			continue // ray already below this shell (or never reaches it); move on
		}
		crossing := ar.ellipsoid.ToCartesian(exit)
		if previousIndex >= 0 {
			los = refractSnell(ar.ellipsoid, crossing, los, previousIndex, layer.index)
		}
		pos = crossing
		previousIndex = layer.index
	}

	pt, ok := scanTile(ar.ellipsoid, tile, pos, los)
	if !ok {
		return GeodeticPoint{}, newError(ErrLineOfSightDoesNotReachGround, "refracted ray does not reach the supplied tile")
	}
	return pt, nil
}

// refractSnell bends incident direction d crossing a shell boundary at
// point p from a medium of refractive index n1 into one of index n2,
// using the ellipsoidal normal (up direction) at p as the interface
// normal, via the standard vector form of Snell's law.
func refractSnell(ell *ExtendedEllipsoid, p, d Vector3, n1, n2 float64) Vector3 {
	geo := ell.ToGeodetic(p)
	cosLat, sinLat := math.Cos(geo.Latitude), math.Sin(geo.Latitude)
	cosLon, sinLon := math.Cos(geo.Longitude), math.Sin(geo.Longitude)
	normal := Vector3{X: cosLat * cosLon, Y: cosLat * sinLon, Z: sinLat}

	eta := n1 / n2
	cosI := -normal.Dot(d)
	sin2T := eta * eta * (1 - cosI*cosI)
	if sin2T > 1 {
		return d // total internal reflection: not physical at these near-1 indices, keep direction
	}
	cosT := math.Sqrt(1 - sin2T)
	refracted := d.Scale(eta).Add(normal.Scale(eta*cosI - cosT))
	n, err := refracted.Normalize()
	if err != nil {
		return d
	}
	return n
}

// scanTile brute-force scans every cell of tile for the nearest positive
// hit of ray (p, los) -- the same exhaustive search BasicScanAlgorithm
// does, duplicated here since AtmosphericRefraction is handed a bare tile
// rather than a cache.
func scanTile(ell *ExtendedEllipsoid, tile *Tile, p, los Vector3) (GeodeticPoint, bool) {
	best := math.Inf(1)
	var bestPt GeodeticPoint
	found := false
	for i := 0; i < tile.Rows()-1; i++ {
		for j := 0; j < tile.Columns()-1; j++ {
			pt, ok := tile.CellIntersection(ell, p, los, i, j)
			if !ok {
				continue
			}
			t := ell.ToCartesian(pt).Sub(p).Dot(los)
			if t >= 0 && t < best {
				best, bestPt, found = t, pt, true
			}
		}
	}
	return bestPt, found
}
