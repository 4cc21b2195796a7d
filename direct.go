package rugged

// DirectLocalizationOption overrides one per-query toggle of direct
// localization (SPEC_FULL.md §3 supplement: per-query override of the
// light-time/aberration corrections that are otherwise configured once at
// Builder time).
type DirectLocalizationOption func(*directLocalizationSettings)

type directLocalizationSettings struct {
	lightTime bool
	aberration bool
}

// WithLightTimeCorrection overrides whether light-time correction runs for
// this call only.
func WithLightTimeCorrection(enabled bool) DirectLocalizationOption {
	return func(s *directLocalizationSettings) { s.lightTime = enabled }
}

// WithAberrationOfLightCorrection overrides whether aberration-of-light
// correction runs for this call only.
func WithAberrationOfLightCorrection(enabled bool) DirectLocalizationOption {
	return func(s *directLocalizationSettings) { s.aberration = enabled }
}

// directLocalization is the per-pixel pipeline of spec §4.7: look up the
// pixel's acquisition date, transport its line of sight from the
// spacecraft frame to the body frame, optionally correct for
// aberration-of-light and light-time, then intersect with the DEM.
func directLocalization(
	sensor *LineSensor,
	pixel float64,
	line float64,
	scToInertial ScToInertialProvider,
	inertialToBody InertialToBodyProvider,
	ellipsoid *ExtendedEllipsoid,
	algorithm IntersectionAlgorithm,
	lightTimeCorrection bool,
	aberrationOfLightCorrection bool,
	opts ...DirectLocalizationOption,
) (GeodeticPoint, error) {
	settings := directLocalizationSettings{lightTime: lightTimeCorrection, aberration: aberrationOfLightCorrection}
	for _, opt := range opts {
		opt(&settings)
	}

	date := sensor.DateAtLine(line)
	scToInertialT, err := scToInertial.TransformAt(date)
	if err != nil {
		return GeodeticPoint{}, err
	}
	inertialToBodyT, err := inertialToBody.TransformAt(date)
	if err != nil {
		return GeodeticPoint{}, err
	}

	losSc := sensor.LOS(pixel)
	losInertial := scToInertialT.TransformVector(losSc)
	position := scToInertialT.TransformPosition(sensor.Position)

	if settings.aberration {
		losInertial = correctAberrationOfLight(losInertial, scToInertialT.LinearVelocity)
	}

	losBody := inertialToBodyT.TransformVector(losInertial)
	pBody := inertialToBodyT.TransformPosition(position)

	if !settings.lightTime {
		return algorithm.Intersection(ellipsoid, pBody, losBody)
	}
	return intersectWithLightTimeCorrection(ellipsoid, algorithm, inertialToBody, date, position, losInertial)
}

// correctAberrationOfLight applies the classical (non-relativistic)
// velocity composition: the apparent direction an observer moving at
// velocity v sees light arrive from, given the true inertial direction
// los and CLight the speed of light.
func correctAberrationOfLight(los, velocity Vector3) Vector3 {
	corrected := los.Scale(CLight).Add(velocity)
	n, err := corrected.Normalize()
	if err != nil {
		return los
	}
	return n
}

// intersectWithLightTimeCorrection performs the two-pass light-time
// correction of spec §4.7: find a coarse ellipsoid ground point, estimate
// the light travel time from it, shift the body transform backward by that
// time (the body rotated less by the time the light actually left the
// ground) and run the full intersection in the shifted body frame; then
// re-estimate the travel time from that point, shift again and refine.
func intersectWithLightTimeCorrection(
	ellipsoid *ExtendedEllipsoid,
	algorithm IntersectionAlgorithm,
	inertialToBody InertialToBodyProvider,
	date Date,
	positionInertial, losInertial Vector3,
) (GeodeticPoint, error) {
	transform0, err := inertialToBody.TransformAt(date)
	if err != nil {
		return GeodeticPoint{}, err
	}
	pBody := transform0.TransformPosition(positionInertial)
	losBody := transform0.TransformVector(losInertial)

	coarse, err := ellipsoid.PointOnGround(pBody, losBody)
	if err != nil {
		return GeodeticPoint{}, err
	}
	travelTime := ellipsoid.ToCartesian(coarse).Sub(pBody).Norm() / CLight

	shifted := transform0.ShiftedBy(-travelTime)
	pBodyShifted := shifted.TransformPosition(positionInertial)
	approx, err := algorithm.Intersection(ellipsoid, pBodyShifted, shifted.TransformVector(losInertial))
	if err != nil {
		return GeodeticPoint{}, err
	}
	travelTime = ellipsoid.ToCartesian(approx).Sub(pBodyShifted).Norm() / CLight

	shifted = transform0.ShiftedBy(-travelTime)
	pBodyShifted = shifted.TransformPosition(positionInertial)
	losBodyShifted := shifted.TransformVector(losInertial)

	return algorithm.RefineIntersection(ellipsoid, pBodyShifted, losBodyShifted, approx)
}
