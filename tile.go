package rugged

import "math"

// TileLocation classifies where a query point falls relative to a tile
// (spec §3).
type TileLocation int

const (
	OutOfTile TileLocation = iota
	HasRawData
	HasInterpolationNeighbors
)

// Tile is a rectangular lat/long-indexed DEM patch: a regular grid of
// elevation samples plus the min/max k-d-tree used by the Duvenhage
// traversal (spec §3, §4.2). Origin is the (lat, lon) of sample [0][0];
// step is strictly positive in both directions.
type Tile struct {
	minLat, minLon   float64
	latStep, lonStep float64
	nLat, nLon       int
	elevations       [][]float64 // [i][j], i over latitude, j over longitude
	root             *minMaxNode
}

// NewTile validates and builds a Tile from raw sample data, the shape the
// TileUpdater callback delivers (spec §6). Mirrors the teacher's
// validate-before-accept convention in ReadSp3Body/ReadSAP.
func NewTile(minLat, minLon, latStep, lonStep float64, elevations [][]float64) (*Tile, error) {
	nLat := len(elevations)
	if latStep <= 0 || lonStep <= 0 {
		return nil, newError(ErrEmptyTile, "non-positive step (%.3g, %.3g)", latStep, lonStep)
	}
	if nLat < 2 {
		return nil, newError(ErrEmptyTile, "fewer than 2 latitude rows (%d)", nLat)
	}
	nLon := len(elevations[0])
	if nLon < 2 {
		return nil, newError(ErrEmptyTile, "fewer than 2 longitude columns (%d)", nLon)
	}
	for _, row := range elevations {
		if len(row) != nLon {
			return nil, newError(ErrEmptyTile, "ragged elevation grid")
		}
	}
	t := &Tile{
		minLat: minLat, minLon: minLon,
		latStep: latStep, lonStep: lonStep,
		nLat: nLat, nLon: nLon,
		elevations: elevations,
	}
	t.root = buildMinMaxTree(elevations, 0, nLat-2, 0, nLon-2)
	return t, nil
}

func (t *Tile) MinLatitude() float64  { return t.minLat }
func (t *Tile) MinLongitude() float64 { return t.minLon }
func (t *Tile) MaxLatitude() float64  { return t.minLat + float64(t.nLat-1)*t.latStep }
func (t *Tile) MaxLongitude() float64 { return t.minLon + float64(t.nLon-1)*t.lonStep }
func (t *Tile) Rows() int             { return t.nLat }
func (t *Tile) Columns() int          { return t.nLon }

// DEMStatistics returns the global (min, max) elevation of the tile -- the
// root min/max node's cover, used by the Duvenhage entry-point step
// (spec §4.4.1 step 1), by the basic scan and by atmospheric refraction.
func (t *Tile) DEMStatistics() (min, max float64) { return t.root.hMin, t.root.hMax }

// GetElevationAtIndices is a bounds-checked raw lookup (spec §4.2).
func (t *Tile) GetElevationAtIndices(i, j int) (float64, error) {
	if i < 0 || i >= t.nLat || j < 0 || j >= t.nLon {
		return 0, newError(ErrOutOfTileIndices, "indices (%d,%d) out of [0,%d)x[0,%d)", i, j, t.nLat, t.nLon)
	}
	return t.elevations[i][j], nil
}

// Locate classifies (lat, lon) relative to the tile (spec §3).
func (t *Tile) Locate(lat, lon float64) TileLocation {
	i := (lat - t.minLat) / t.latStep
	j := (lon - t.minLon) / t.lonStep
	if i < 0 || j < 0 || i > float64(t.nLat-1) || j > float64(t.nLon-1) {
		return OutOfTile
	}
	if i < 1 || j < 1 || i > float64(t.nLat-2) || j > float64(t.nLon-2) {
		return HasRawData
	}
	return HasInterpolationNeighbors
}

// InterpolateElevation bilinearly interpolates the elevation at (lat, lon)
// (spec §4.2).
func (t *Tile) InterpolateElevation(lat, lon float64) (float64, error) {
	fi := (lat - t.minLat) / t.latStep
	fj := (lon - t.minLon) / t.lonStep
	if fi < 0 || fj < 0 || fi > float64(t.nLat-1) || fj > float64(t.nLon-1) {
		return 0, newError(ErrOutOfTileAngles, "(%.6f,%.6f) outside tile bounds", lat, lon)
	}
	i := int(math.Floor(fi))
	if i >= t.nLat-1 {
		i = t.nLat - 2
	}
	j := int(math.Floor(fj))
	if j >= t.nLon-1 {
		j = t.nLon - 2
	}
	u, v := fi-float64(i), fj-float64(j)
	h00, h10, h01, h11 := t.elevations[i][j], t.elevations[i+1][j], t.elevations[i][j+1], t.elevations[i+1][j+1]
	return (1-u)*(1-v)*h00 + u*(1-v)*h10 + (1-u)*v*h01 + u*v*h11, nil
}

// cellMinMax returns the (hMin, hMax) cover of a single leaf cell (i,j)
// from its four corner elevations.
func (t *Tile) cellMinMax(i, j int) (float64, float64) {
	h00, h10, h01, h11 := t.elevations[i][j], t.elevations[i+1][j], t.elevations[i][j+1], t.elevations[i+1][j+1]
	min, max := h00, h00
	for _, h := range []float64{h10, h01, h11} {
		if h < min {
			min = h
		}
		if h > max {
			max = h
		}
	}
	return min, max
}

// cellCorners returns the four Cartesian corners of cell (i,j) in the
// order (u=0,v=0),(u=1,v=0),(u=0,v=1),(u=1,v=1), with u along latitude and
// v along longitude, as used by cellIntersection's bilinear patch.
func (t *Tile) cellCorners(ell *ExtendedEllipsoid, i, j int) (p00, p10, p01, p11 Vector3) {
	lat0 := t.minLat + float64(i)*t.latStep
	lat1 := t.minLat + float64(i+1)*t.latStep
	lon0 := t.minLon + float64(j)*t.lonStep
	lon1 := t.minLon + float64(j+1)*t.lonStep
	h00, h10, h01, h11 := t.elevations[i][j], t.elevations[i+1][j], t.elevations[i][j+1], t.elevations[i+1][j+1]
	p00 = ell.ToCartesian(GeodeticPoint{Latitude: lat0, Longitude: lon0, Altitude: h00})
	p10 = ell.ToCartesian(GeodeticPoint{Latitude: lat1, Longitude: lon0, Altitude: h10})
	p01 = ell.ToCartesian(GeodeticPoint{Latitude: lat0, Longitude: lon1, Altitude: h01})
	p11 = ell.ToCartesian(GeodeticPoint{Latitude: lat1, Longitude: lon1, Altitude: h11})
	return
}

// CellIntersection intersects ray (p, los), expressed in the same body
// frame the tile's geodetic coordinates live in, with the bilinear surface
// patch of cell (i,j) (spec §4.2). Returns ok=false ("return null") if the
// ray misses the patch within u,v in [0,1] and t >= 0.
func (t *Tile) CellIntersection(ell *ExtendedEllipsoid, p, los Vector3, i, j int) (GeodeticPoint, bool) {
	if i < 0 || i >= t.nLat-1 || j < 0 || j >= t.nLon-1 {
		return GeodeticPoint{}, false
	}
	p00, p10, p01, p11 := t.cellCorners(ell, i, j)
	pt, ok := rayBilinearPatchIntersection(p, los, p00, p10, p01, p11)
	if !ok {
		return GeodeticPoint{}, false
	}
	return ell.ToGeodetic(pt), true
}

// rayBilinearPatchIntersection solves for the first t>=0 at which ray
// (o, d) meets the bilinear patch S(u,v) = (1-u)(1-v)p00 + u(1-v)p10 +
// (1-u)v*p01 + u*v*p11, u,v in [0,1]. This is the Ramsey/Potter/Hansen
// construction: project the surface equation onto two vectors spanning the
// plane perpendicular to d, eliminating t to get two bilinear equations in
// (u,v), then eliminate u to get one quadratic in v.
func rayBilinearPatchIntersection(o, d, p00, p10, p01, p11 Vector3) (Vector3, bool) {
	// A + u*B + v*C + u*v*D
	A := p00
	B := p10.Sub(p00)
	C := p01.Sub(p00)
	D := p11.Sub(p10).Sub(p01).Add(p00)

	q1, q2, ok := perpendicularBasis(d)
	if !ok {
		return Vector3{}, false
	}
	aOff := A.Sub(o)
	a0, a1, a2, a3 := q1.Dot(aOff), q1.Dot(B), q1.Dot(C), q1.Dot(D)
	b0, b1, b2, b3 := q2.Dot(aOff), q2.Dot(B), q2.Dot(C), q2.Dot(D)

	Av := a3*b2 - a2*b3
	Bv := a3*b0 + a1*b2 - a2*b1 - a0*b3
	Cv := a1*b0 - a0*b1

	var vRoots []float64
	const eps = 1e-12
	if math.Abs(Av) < eps {
		if math.Abs(Bv) > eps {
			vRoots = append(vRoots, -Cv/Bv)
		}
	} else {
		disc := Bv*Bv - 4*Av*Cv
		if disc < 0 {
			return Vector3{}, false
		}
		q := -0.5 * (Bv + math.Copysign(math.Sqrt(disc), Bv))
		vRoots = append(vRoots, q/Av, Cv/q)
	}

	const bound = 1e-9
	bestT := math.Inf(1)
	var bestPt Vector3
	found := false
	for _, v := range vRoots {
		if v < -bound || v > 1+bound {
			continue
		}
		var u float64
		denom1 := a1 + a3*v
		denom2 := b1 + b3*v
		if math.Abs(denom1) >= math.Abs(denom2) && math.Abs(denom1) > eps {
			u = -(a0 + a2*v) / denom1
		} else if math.Abs(denom2) > eps {
			u = -(b0 + b2*v) / denom2
		} else {
			continue
		}
		if u < -bound || u > 1+bound {
			continue
		}
		pt := A.Add(B.Scale(u)).Add(C.Scale(v)).Add(D.Scale(u * v))
		denomD := d.Dot(d)
		if denomD < eps {
			continue
		}
		tt := d.Dot(pt.Sub(o)) / denomD
		if tt < -bound {
			continue
		}
		if tt < bestT {
			bestT, bestPt, found = tt, pt, true
		}
	}
	return bestPt, found
}

// perpendicularBasis returns two vectors spanning the plane perpendicular
// to d.
func perpendicularBasis(d Vector3) (Vector3, Vector3, bool) {
	n, err := d.Normalize()
	if err != nil {
		return Vector3{}, Vector3{}, false
	}
	ref := Vector3{X: 1}
	if math.Abs(n.X) > 0.9 {
		ref = Vector3{Y: 1}
	}
	q1, err := n.Cross(ref).Normalize()
	if err != nil {
		return Vector3{}, Vector3{}, false
	}
	q2 := n.Cross(q1)
	return q1, q2, true
}

// minMaxNode is a node of the tile's min/max k-d-tree (spec §3): alternating
// subdivision along the larger side down to single cells, each internal
// node storing the (hMin, hMax) cover of its subregion.
type minMaxNode struct {
	iMin, iMax, jMin, jMax int // cell index ranges, inclusive
	hMin, hMax             float64
	leaf                   bool
	leafI, leafJ           int
	left, right            *minMaxNode
	splitLat               bool // true if split along latitude (i) axis
}

func buildMinMaxTree(elev [][]float64, iMin, iMax, jMin, jMax int) *minMaxNode {
	node := &minMaxNode{iMin: iMin, iMax: iMax, jMin: jMin, jMax: jMax}
	if iMin == iMax && jMin == jMax {
		node.leaf = true
		node.leafI, node.leafJ = iMin, jMin
		node.hMin, node.hMax = cellMinMaxOf(elev, iMin, jMin)
		return node
	}
	latSpan := iMax - iMin
	lonSpan := jMax - jMin
	if latSpan >= lonSpan && latSpan > 0 {
		mid := iMin + (latSpan+1)/2 - 1
		if mid < iMin {
			mid = iMin
		}
		node.splitLat = true
		node.left = buildMinMaxTree(elev, iMin, mid, jMin, jMax)
		node.right = buildMinMaxTree(elev, mid+1, iMax, jMin, jMax)
	} else {
		mid := jMin + (lonSpan+1)/2 - 1
		if mid < jMin {
			mid = jMin
		}
		node.splitLat = false
		node.left = buildMinMaxTree(elev, iMin, iMax, jMin, mid)
		node.right = buildMinMaxTree(elev, iMin, iMax, mid+1, jMax)
	}
	node.hMin = math.Min(node.left.hMin, node.right.hMin)
	node.hMax = math.Max(node.left.hMax, node.right.hMax)
	return node
}

func cellMinMaxOf(elev [][]float64, i, j int) (float64, float64) {
	h00, h10, h01, h11 := elev[i][j], elev[i+1][j], elev[i][j+1], elev[i+1][j+1]
	min, max := h00, h00
	for _, h := range []float64{h10, h01, h11} {
		if h < min {
			min = h
		}
		if h > max {
			max = h
		}
	}
	return min, max
}

// MinMaxCover walks the tree and returns the (hMin, hMax) cover of the
// smallest node fully containing the given cell sub-rectangle -- used by
// tests to check the invariant of spec §8 and available for callers that
// want a tighter bound than the root's.
func (t *Tile) MinMaxCover(iMin, iMax, jMin, jMax int) (float64, float64) {
	return coverOf(t.root, iMin, iMax, jMin, jMax)
}

func coverOf(n *minMaxNode, iMin, iMax, jMin, jMax int) (float64, float64) {
	if n.leaf || (n.iMin == iMin && n.iMax == iMax && n.jMin == jMin && n.jMax == jMax) {
		return n.hMin, n.hMax
	}
	if n.splitLat {
		mid := n.left.iMax
		if iMax <= mid {
			return coverOf(n.left, iMin, iMax, jMin, jMax)
		}
		if iMin > mid {
			return coverOf(n.right, iMin, iMax, jMin, jMax)
		}
	} else {
		mid := n.left.jMax
		if jMax <= mid {
			return coverOf(n.left, iMin, iMax, jMin, jMax)
		}
		if jMin > mid {
			return coverOf(n.right, iMin, iMax, jMin, jMax)
		}
	}
	return n.hMin, n.hMax
}
