package rugged

import "math"

const maxTileHops = 64

// DuvenhageAlgorithm is the primary intersection variant of spec §4.4.1:
// hierarchical min/max tile traversal with tile-cache-backed tile
// acquisition and boundary re-entry. flatBody selects the locally-planar
// altitude-shell approximation of spec §4.4.1 step 5.
type DuvenhageAlgorithm struct {
	cache    *TileCache
	flatBody bool
}

func (a *DuvenhageAlgorithm) Intersection(ell *ExtendedEllipsoid, p, los Vector3) (GeodeticPoint, error) {
	approx, err := ell.PointOnGround(p, los)
	if err != nil {
		if _, t2, ok := ell.quadraticRayIntersection(p, los, 0); ok && t2 < 0 {
			return GeodeticPoint{}, newError(ErrDemEntryPointIsBehindSpacecraft,
				"the ray meets the ground only behind the spacecraft")
		}
		return GeodeticPoint{}, err
	}
	firstTile, err := a.cache.GetTile(approx.Latitude, approx.Longitude)
	if err != nil {
		return GeodeticPoint{}, err
	}
	_, hMax := firstTile.DEMStatistics()

	entryCart, err := a.entryPoint(ell, p, los, hMax)
	if err != nil {
		return GeodeticPoint{}, err
	}
	entryGeo := ell.ToGeodetic(entryCart)
	ref := entryGeo.Longitude

	for hop := 0; hop < maxTileHops; hop++ {
		tile, err := a.cache.GetTile(entryGeo.Latitude, entryGeo.Longitude)
		if err != nil {
			return GeodeticPoint{}, err
		}
		pt, hit, err := a.traverse(tile.root, tile, ell, p, los)
		if err != nil {
			return GeodeticPoint{}, err
		}
		if hit {
			pt.Longitude = NormalizeLongitude(pt.Longitude, ref)
			return pt, nil
		}

		t0, t1, ok := a.nodeSegment(ell, tile, tile.root, p, los)
		if !ok || t1 < t0 {
			return GeodeticPoint{}, newError(ErrLineOfSightDoesNotReachGround,
				"ray exits the DEM without crossing any cell")
		}
		const nudge = 1e-6
		exit := p.Add(los.Scale(t1 + nudge))
		entryGeo = ell.ToGeodetic(exit)
		entryGeo.Longitude = NormalizeLongitude(entryGeo.Longitude, ref)
	}
	return GeodeticPoint{}, newError(ErrInternal, "tile boundary re-entry exceeded %d hops", maxTileHops)
}

func (a *DuvenhageAlgorithm) RefineIntersection(ell *ExtendedEllipsoid, p, los Vector3, approx GeodeticPoint) (GeodeticPoint, error) {
	return refineInTile(ell, a.cache, p, los, approx)
}

// entryPoint intersects the ray with the offset ellipsoid at the DEM's
// global maximum altitude (spec §4.4.1 step 1), distinguishing a genuine
// miss from an intersection that only exists behind the spacecraft.
func (a *DuvenhageAlgorithm) entryPoint(ell *ExtendedEllipsoid, p, los Vector3, hMax float64) (Vector3, error) {
	t1, t2, ok := ell.quadraticRayIntersection(p, los, hMax)
	if !ok {
		return Vector3{}, newError(ErrLineOfSightDoesNotReachGround,
			"ray never reaches the DEM's maximum altitude %.3f", hMax)
	}
	if t2 < 0 {
		return Vector3{}, newError(ErrDemEntryPointIsBehindSpacecraft,
			"the only intersections with altitude %.3f lie behind the spacecraft", hMax)
	}
	t := t1
	if t < 0 {
		t = t2
	}
	return p.Add(los.Scale(t)), nil
}

// traverse performs the recursive min/max-tree descent of spec §4.4.1
// step 3.
func (a *DuvenhageAlgorithm) traverse(node *minMaxNode, tile *Tile, ell *ExtendedEllipsoid, p, los Vector3) (GeodeticPoint, bool, error) {
	t0, t1, ok := a.nodeSegment(ell, tile, node, p, los)
	if !ok || t0 > t1 {
		return GeodeticPoint{}, false, nil
	}
	if node.leaf {
		pt, hit := tile.CellIntersection(ell, p, los, node.leafI, node.leafJ)
		return pt, hit, nil
	}

	t0L, _, okL := a.nodeSegment(ell, tile, node.left, p, los)
	t0R, _, okR := a.nodeSegment(ell, tile, node.right, p, los)

	first, second := node.left, node.right
	firstOk, secondOk := okL, okR
	if okL && okR && t0R < t0L {
		first, second, firstOk, secondOk = node.right, node.left, okR, okL
	} else if okR && !okL {
		first, second, firstOk, secondOk = node.right, node.left, okR, okL
	}

	if firstOk {
		pt, hit, err := a.traverse(first, tile, ell, p, los)
		if err != nil || hit {
			return pt, hit, err
		}
	}
	if secondOk {
		return a.traverse(second, tile, ell, p, los)
	}
	return GeodeticPoint{}, false, nil
}

// nodeSegment computes the [t0, t1] portion of the ray lying both inside
// the node's lat/long rectangle and inside its [hMin, hMax] altitude
// shell (spec §4.4.1 step 3). The altitude test uses true offset-ellipsoid
// shells for Duvenhage and a tangent-plane approximation at the tile
// centre for DuvenhageFlatBody (spec §4.4.1 step 5).
func (a *DuvenhageAlgorithm) nodeSegment(ell *ExtendedEllipsoid, tile *Tile, node *minMaxNode, p, los Vector3) (t0, t1 float64, ok bool) {
	latMin := tile.minLat + float64(node.iMin)*tile.latStep
	latMax := tile.minLat + float64(node.iMax+1)*tile.latStep
	lonMin := tile.minLon + float64(node.jMin)*tile.lonStep
	lonMax := tile.minLon + float64(node.jMax+1)*tile.lonStep

	var altLo, altHi float64
	var altOk bool
	if a.flatBody {
		altLo, altHi, altOk = flatAltitudeShellSegment(ell, p, los,
			0.5*(tile.MinLatitude()+tile.MaxLatitude()), 0.5*(tile.MinLongitude()+tile.MaxLongitude()), node.hMin, node.hMax)
	} else {
		altLo, altHi, altOk = altitudeShellSegment(ell, p, los, node.hMin, node.hMax)
	}
	if !altOk {
		return 0, 0, false
	}

	lonLo, lonHi, lonOk := longitudeBandSegment(los, p, lonMin, lonMax)
	if !lonOk {
		return 0, 0, false
	}
	latLo, latHi, latOk := latitudeBandSegment(ell, p, los, latMin, latMax)
	if !latOk {
		return 0, 0, false
	}

	t0 = math.Max(0, math.Max(altLo, math.Max(lonLo, latLo)))
	t1 = math.Min(altHi, math.Min(lonHi, latHi))
	return t0, t1, t0 <= t1
}

// altitudeShellSegment bounds the t-range where the ray's altitude above
// the reference ellipsoid lies within [hMin, hMax], using the entry
// intersections with the two offset ellipsoids.
func altitudeShellSegment(ell *ExtendedEllipsoid, p, los Vector3, hMin, hMax float64) (float64, float64, bool) {
	outer1, outer2, okOuter := ell.quadraticRayIntersection(p, los, hMax)
	if !okOuter {
		return 0, 0, false
	}
	tOuterIn := math.Min(outer1, outer2)
	tOuterOut := math.Max(outer1, outer2)

	inner1, inner2, okInner := ell.quadraticRayIntersection(p, los, hMin)
	if !okInner {
		return tOuterIn, tOuterOut, true
	}
	tInnerIn := math.Min(inner1, inner2)
	return tOuterIn, tInnerIn, true
}

// flatAltitudeShellSegment is the DuvenhageFlatBody approximation: treat
// the altitude shell as two parallel planes tangent to the ellipsoid at
// (centreLat, centreLon).
func flatAltitudeShellSegment(ell *ExtendedEllipsoid, p, los Vector3, centreLat, centreLon, hMin, hMax float64) (float64, float64, bool) {
	surface := ell.ToCartesian(GeodeticPoint{Latitude: centreLat, Longitude: centreLon})
	cosLat := math.Cos(centreLat)
	up := Vector3{X: cosLat * math.Cos(centreLon), Y: cosLat * math.Sin(centreLon), Z: math.Sin(centreLat)}
	denom := los.Dot(up)
	if math.Abs(denom) < 1e-15 {
		return 0, 0, false
	}
	base := p.Sub(surface).Dot(up)
	tLo := (hMin - base) / denom
	tHi := (hMax - base) / denom
	if tLo > tHi {
		tLo, tHi = tHi, tLo
	}
	return tLo, tHi, true
}

// longitudeBandSegment bounds the t-range where the ray's longitude lies
// within [lonMin, lonMax], from the linear crossing equation used in
// ExtendedEllipsoid.PointAtLongitude.
func longitudeBandSegment(los, p Vector3, lonMin, lonMax float64) (float64, float64, bool) {
	t1, ok1 := longitudeCrossingT(los, p, lonMin)
	t2, ok2 := longitudeCrossingT(los, p, lonMax)
	if !ok1 || !ok2 {
		return -1e18, 1e18, true // degenerate (ray parallel to a meridian): do not prune
	}
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	return t1, t2, true
}

func longitudeCrossingT(los, p Vector3, lambda float64) (float64, bool) {
	cosl, sinl := math.Cos(lambda), math.Sin(lambda)
	denom := los.Y*cosl - los.X*sinl
	if math.Abs(denom) < 1e-15 {
		return 0, false
	}
	return -(p.Y*cosl - p.X*sinl) / denom, true
}

// latitudeBandSegment bounds the t-range where the ray's geodetic latitude
// lies within [latMin, latMax], from the cone equation used in
// ExtendedEllipsoid.PointAtLatitude.
func latitudeBandSegment(ell *ExtendedEllipsoid, p, los Vector3, latMin, latMax float64) (float64, float64, bool) {
	t1, ok1 := smallestPositiveLatitudeCrossing(ell, p, los, latMin)
	t2, ok2 := smallestPositiveLatitudeCrossing(ell, p, los, latMax)
	if !ok1 || !ok2 {
		return -1e18, 1e18, true
	}
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	return t1, t2, true
}

func smallestPositiveLatitudeCrossing(ell *ExtendedEllipsoid, p, los Vector3, phi float64) (float64, bool) {
	if math.Abs(phi) >= math.Pi/2-1e-9 {
		return 0, false
	}
	k := (1.0 - ell.e2) * math.Tan(phi)
	a := los.Z*los.Z - k*k*(los.X*los.X+los.Y*los.Y)
	b := 2 * (p.Z*los.Z - k*k*(p.X*los.X+p.Y*los.Y))
	c := p.Z*p.Z - k*k*(p.X*p.X+p.Y*p.Y)
	if math.Abs(a) < 1e-24 {
		if math.Abs(b) < 1e-24 {
			return 0, false
		}
		return -c / b, true
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	return math.Min((-b-sq)/(2*a), (-b+sq)/(2*a)), true
}
