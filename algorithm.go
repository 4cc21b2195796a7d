package rugged

// AlgorithmId names a built-in intersection algorithm variant (spec §6).
type AlgorithmId int

const (
	Duvenhage AlgorithmId = iota
	DuvenhageFlatBody
	BasicSlowExhaustiveScanForTestsOnly
	IgnoreDemUseEllipsoid
)

// IntersectionAlgorithm is the capability set every DEM-intersection
// variant implements (spec §4.4, design note §9: "no deep hierarchy is
// needed"). p and los are in the body frame; the return is a geodetic
// point on the DEM (or ellipsoid) surface.
type IntersectionAlgorithm interface {
	// Intersection performs a full search from scratch.
	Intersection(ell *ExtendedEllipsoid, p, los Vector3) (GeodeticPoint, error)
	// RefineIntersection recomputes an exact hit near a known approximate
	// one, used as the second stage of light-time correction (spec §4.7).
	RefineIntersection(ell *ExtendedEllipsoid, p, los Vector3, approx GeodeticPoint) (GeodeticPoint, error)
}

// NewAlgorithm builds the named variant. Duvenhage, DuvenhageFlatBody and
// the basic scan need a tile cache; IgnoreDemUseEllipsoid ignores it.
func NewAlgorithm(id AlgorithmId, cache *TileCache) (IntersectionAlgorithm, error) {
	switch id {
	case Duvenhage:
		if cache == nil {
			return nil, newInternalError("Duvenhage algorithm requires a tile cache")
		}
		return &DuvenhageAlgorithm{cache: cache, flatBody: false}, nil
	case DuvenhageFlatBody:
		if cache == nil {
			return nil, newInternalError("DuvenhageFlatBody algorithm requires a tile cache")
		}
		return &DuvenhageAlgorithm{cache: cache, flatBody: true}, nil
	case BasicSlowExhaustiveScanForTestsOnly:
		if cache == nil {
			return nil, newInternalError("basic scan algorithm requires a tile cache")
		}
		return &BasicScanAlgorithm{cache: cache}, nil
	case IgnoreDemUseEllipsoid:
		return &IgnoreDEMAlgorithm{}, nil
	default:
		return nil, newInternalError("unknown algorithm id %d", int(id))
	}
}
