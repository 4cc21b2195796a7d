package rugged

import "math"

// BasicScanAlgorithm is the brute-force reference variant of spec §4.4.2:
// intersect every cell of the single tile containing the ray's entry point
// at the DEM's maximum altitude, returning the nearest positive hit. Cells
// of other tiles are not examined. Not for production use -- it exists to
// validate Duvenhage in tests, exactly as spec.md frames it.
type BasicScanAlgorithm struct {
	cache *TileCache
}

func (a *BasicScanAlgorithm) Intersection(ell *ExtendedEllipsoid, p, los Vector3) (GeodeticPoint, error) {
	hMax, err := a.globalMax(ell, p, los)
	if err != nil {
		return GeodeticPoint{}, err
	}
	entry, err := ell.PointAtAltitudeCartesian(p, los, hMax)
	if err != nil {
		return GeodeticPoint{}, newError(ErrLineOfSightDoesNotReachGround,
			"ray does not reach the DEM's maximum altitude %.3f", hMax)
	}

	tile, err := a.cache.GetTile(entry.Latitude, entry.Longitude)
	if err != nil {
		return GeodeticPoint{}, err
	}

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
	if !found {
		return GeodeticPoint{}, newError(ErrLineOfSightDoesNotReachGround, "no cell of the tile is hit by the ray")
	}
	return bestPt, nil
}

func (a *BasicScanAlgorithm) RefineIntersection(ell *ExtendedEllipsoid, p, los Vector3, approx GeodeticPoint) (GeodeticPoint, error) {
	return refineInTile(ell, a.cache, p, los, approx)
}

func (a *BasicScanAlgorithm) globalMax(ell *ExtendedEllipsoid, p, los Vector3) (float64, error) {
	approx, err := ell.PointOnGround(p, los)
	if err != nil {
		return 0, err
	}
	tile, err := a.cache.GetTile(approx.Latitude, approx.Longitude)
	if err != nil {
		return 0, err
	}
	_, hMax := tile.DEMStatistics()
	return hMax, nil
}

// refineInTile locates approx's cell in the tile covering it and
// recomputes CellIntersection exactly -- the common second stage shared by
// BasicScanAlgorithm and DuvenhageAlgorithm's RefineIntersection (spec
// §4.4.1: "locate its cell in the (possibly already cached) tile and
// recompute cellIntersection exactly").
func refineInTile(ell *ExtendedEllipsoid, cache *TileCache, p, los Vector3, approx GeodeticPoint) (GeodeticPoint, error) {
	tile, err := cache.GetTile(approx.Latitude, approx.Longitude)
	if err != nil {
		return GeodeticPoint{}, err
	}
	fi := (approx.Latitude - tile.MinLatitude()) / tile.latStep
	fj := (approx.Longitude - tile.MinLongitude()) / tile.lonStep
	i := int(math.Floor(fi))
	j := int(math.Floor(fj))
	if i < 0 {
		i = 0
	}
	if i > tile.Rows()-2 {
		i = tile.Rows() - 2
	}
	if j < 0 {
		j = 0
	}
	if j > tile.Columns()-2 {
		j = tile.Columns() - 2
	}
	pt, ok := tile.CellIntersection(ell, p, los, i, j)
	if !ok {
		return approx, nil
	}
	return pt, nil
}
