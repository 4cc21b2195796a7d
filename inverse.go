package rugged

import "math"

const inverseMaxEval = 1000
const inverseLineAccuracy = 1e-2

// InverseLocalization solves spec §4.8: given a ground point, find the
// (line, pixel) of sensor that observes it, searching lines in
// [lineMin, lineMax]. A nil, nil return means the ground point's mean
// plane (or its pixel row, once the crossing line is found) is never
// bracketed within range -- not an error, per spec §7's propagation
// policy for a geometrically absent solution.
func InverseLocalization(
	sensor *LineSensor,
	groundPoint GeodeticPoint,
	ellipsoid *ExtendedEllipsoid,
	scToInertial ScToInertialProvider,
	inertialToBody InertialToBodyProvider,
	algorithm IntersectionAlgorithm,
	lineMin, lineMax float64,
	lightTimeCorrection, aberrationOfLightCorrection bool,
) (*SensorPixel, error) {
	targetBody := ellipsoid.ToCartesian(groundPoint)

	line, direction, ok, err := meanPlaneCrossing(sensor, scToInertial, inertialToBody, targetBody, lineMin, lineMax)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	pixel, ok, err := pixelCrossing(sensor, direction)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	if pixel < 0 || pixel > float64(sensor.NbPixels()-1) {
		return nil, newError(ErrGroundPointOutOfColumnRange,
			"ground point crosses the sensor row at pixel %.3f, outside [0,%d)", pixel, sensor.NbPixels())
	}

	refinedLine, refinedPixel, err := bilinearRefine(
		sensor, ellipsoid, scToInertial, inertialToBody, algorithm,
		targetBody, line, pixel, lightTimeCorrection, aberrationOfLightCorrection)
	if err != nil {
		return nil, err
	}

	return &SensorPixel{Line: refinedLine, Pixel: refinedPixel}, nil
}

// sensorFrameDirection transports the target ground point back into the
// spacecraft frame at the date corresponding to line, returning the
// (un-normalized) direction from the sensor's optical centre to the
// target.
func sensorFrameDirection(sensor *LineSensor, scToInertial ScToInertialProvider, inertialToBody InertialToBodyProvider, targetBody Vector3, line float64) (Vector3, error) {
	date := sensor.DateAtLine(line)
	inertialToBodyT, err := inertialToBody.TransformAt(date)
	if err != nil {
		return Vector3{}, err
	}
	scToInertialT, err := scToInertial.TransformAt(date)
	if err != nil {
		return Vector3{}, err
	}
	targetInertial := inertialToBodyT.Invert().TransformPosition(targetBody)
	targetSc := scToInertialT.Invert().TransformPosition(targetInertial)
	return targetSc.Sub(sensor.Position), nil
}

// meanPlaneCrossing brackets and bisects for the line at which the target
// ground point's direction (as seen from the sensor) lies in the sensor's
// mean plane (spec §4.8.1). Returns ok=false, no error, if the sign of the
// signed distance never changes across [lineMin, lineMax].
func meanPlaneCrossing(sensor *LineSensor, scToInertial ScToInertialProvider, inertialToBody InertialToBodyProvider, targetBody Vector3, lineMin, lineMax float64) (float64, Vector3, bool, error) {
	normal := sensor.MeanPlaneNormal()
	signedDistance := func(line float64) (float64, Vector3, error) {
		dir, err := sensorFrameDirection(sensor, scToInertial, inertialToBody, targetBody, line)
		if err != nil {
			return 0, Vector3{}, err
		}
		return dir.Dot(normal), dir, nil
	}

	fLo, dirLo, err := signedDistance(lineMin)
	if err != nil {
		return 0, Vector3{}, false, err
	}
	fHi, dirHi, err := signedDistance(lineMax)
	if err != nil {
		return 0, Vector3{}, false, err
	}
	if fLo == 0 {
		return lineMin, dirLo, true, nil
	}
	if fHi == 0 {
		return lineMax, dirHi, true, nil
	}
	if (fLo > 0) == (fHi > 0) {
		return 0, Vector3{}, false, nil
	}

	lo, hi := lineMin, lineMax
	var midDir Vector3
	for eval := 0; eval < inverseMaxEval; eval++ {
		mid := 0.5 * (lo + hi)
		fMid, dir, err := signedDistance(mid)
		if err != nil {
			return 0, Vector3{}, false, err
		}
		midDir = dir
		if (fMid > 0) == (fLo > 0) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
		if hi-lo < inverseLineAccuracy {
			return 0.5 * (lo + hi), midDir, true, nil
		}
	}
	return 0, Vector3{}, false, newError(ErrSolverExhausted, "mean plane crossing did not converge within %d evaluations", inverseMaxEval)
}

// pixelCrossing bisects over the sensor's pixel range for the pixel whose
// interpolated line of sight best aligns with direction, measuring
// misalignment as the component of (los x direction) along the mean plane
// normal -- zero exactly when los and direction are coplanar with the
// normal, i.e. parallel within the mean plane (spec §4.8.2).
func pixelCrossing(sensor *LineSensor, direction Vector3) (float64, bool, error) {
	normal := sensor.MeanPlaneNormal()
	dirNorm, err := direction.Normalize()
	if err != nil {
		return 0, false, newInternalError("target direction from sensor is degenerate")
	}
	misalignment := func(pixel float64) float64 {
		return sensor.LOS(pixel).Cross(dirNorm).Dot(normal)
	}

	lo, hi := 0.0, float64(sensor.NbPixels()-1)
	fLo, fHi := misalignment(lo), misalignment(hi)
	if (fLo > 0) == (fHi > 0) && fLo != 0 && fHi != 0 {
		return 0, false, nil
	}

	for eval := 0; eval < inverseMaxEval; eval++ {
		mid := 0.5 * (lo + hi)
		fMid := misalignment(mid)
		if (fMid > 0) == (fLo > 0) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
		if hi-lo < inverseLineAccuracy {
			return 0.5 * (lo + hi), true, nil
		}
	}
	return 0, false, newError(ErrSolverExhausted, "pixel crossing did not converge within %d evaluations", inverseMaxEval)
}

// bilinearRefine is the final stage of spec §4.8.3: forward-evaluate direct
// localization (through a FixedAltitudeAlgorithm at the target's own
// altitude) at the four integer (line, pixel) corners around the
// approximate solution, and Newton-solve
// the bilinear patch equation target = A + u*B + v*C + u*v*D for the
// fractional coordinates (u, v) via solve2x2 on its normal equations.
func bilinearRefine(
	sensor *LineSensor,
	ellipsoid *ExtendedEllipsoid,
	scToInertial ScToInertialProvider,
	inertialToBody InertialToBodyProvider,
	algorithm IntersectionAlgorithm,
	target Vector3,
	line, pixel float64,
	lightTimeCorrection, aberrationOfLightCorrection bool,
) (float64, float64, error) {
	line0 := math.Floor(line)
	pixel0 := math.Floor(pixel)
	if line0 < 0 {
		line0 = 0
	}
	if pixel0 < 0 {
		pixel0 = 0
	}
	if line0 > line {
		line0 = line - 1
	}
	if maxPixel0 := float64(sensor.NbPixels() - 2); pixel0 > maxPixel0 {
		pixel0 = maxPixel0
	}

	cornerAlgorithm := NewFixedAltitudeAlgorithm(ellipsoid.ToGeodetic(target).Altitude)
	forward := func(l, p float64) (Vector3, error) {
		pt, err := directLocalization(sensor, p, l, scToInertial, inertialToBody, ellipsoid, cornerAlgorithm, lightTimeCorrection, aberrationOfLightCorrection)
		if err != nil {
			return Vector3{}, err
		}
		return ellipsoid.ToCartesian(pt), nil
	}

	p00, err := forward(line0, pixel0)
	if err != nil {
		return 0, 0, err
	}
	p10, err := forward(line0, pixel0+1)
	if err != nil {
		return 0, 0, err
	}
	p01, err := forward(line0+1, pixel0)
	if err != nil {
		return 0, 0, err
	}
	p11, err := forward(line0+1, pixel0+1)
	if err != nil {
		return 0, 0, err
	}

	a := p00
	b := p10.Sub(p00)
	c := p01.Sub(p00)
	d := p11.Sub(p10).Sub(p01).Add(p00)

	u := clamp01(pixel - pixel0)
	v := clamp01(line - line0)
	for iter := 0; iter < 8; iter++ {
		estimate := a.Add(b.Scale(u)).Add(c.Scale(v)).Add(d.Scale(u * v))
		residual := target.Sub(estimate)
		j1 := b.Add(d.Scale(v))
		j2 := c.Add(d.Scale(u))
		du, dv, ok := solve2x2(j1.Dot(j1), j1.Dot(j2), j1.Dot(j2), j2.Dot(j2), j1.Dot(residual), j2.Dot(residual))
		if !ok {
			break
		}
		u = clamp01(u + du)
		v = clamp01(v + dv)
	}

	return line0 + v, pixel0 + u, nil
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
