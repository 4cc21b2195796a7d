package rugged

// IgnoreDEMAlgorithm treats the DEM as absent: intersection is the
// ellipsoid surface at altitude 0, refine is the identity (spec §4.4.3).
type IgnoreDEMAlgorithm struct{}

func (a *IgnoreDEMAlgorithm) Intersection(ell *ExtendedEllipsoid, p, los Vector3) (GeodeticPoint, error) {
	return ell.PointOnGround(p, los)
}

func (a *IgnoreDEMAlgorithm) RefineIntersection(ell *ExtendedEllipsoid, p, los Vector3, approx GeodeticPoint) (GeodeticPoint, error) {
	return approx, nil
}

// FixedAltitudeAlgorithm replaces the DEM with an ellipsoid offset by a
// fixed altitude (spec §4.4.4), used internally by inverse localization's
// bilinear refinement over the four-corner quadrilateral.
type FixedAltitudeAlgorithm struct {
	Altitude float64
}

func NewFixedAltitudeAlgorithm(altitude float64) *FixedAltitudeAlgorithm {
	return &FixedAltitudeAlgorithm{Altitude: altitude}
}

func (a *FixedAltitudeAlgorithm) Intersection(ell *ExtendedEllipsoid, p, los Vector3) (GeodeticPoint, error) {
	return ell.PointOnGroundAtAltitude(p, los, a.Altitude)
}

func (a *FixedAltitudeAlgorithm) RefineIntersection(ell *ExtendedEllipsoid, p, los Vector3, approx GeodeticPoint) (GeodeticPoint, error) {
	return a.Intersection(ell, p, los)
}
