package rugged

// PVSample is one ephemeris sample: spacecraft position and velocity in an
// inertial frame at a given date (spec §4.5).
type PVSample struct {
	Date     Date
	Position Vector3
	Velocity Vector3
}

// AttitudeSample is one attitude sample: spacecraft-to-inertial rotation
// and angular rate at a given date (spec §4.5).
type AttitudeSample struct {
	Date            Date
	Rotation        Quaternion
	AngularVelocity Vector3
}

// ScToBody holds the two time-ordered, immutable sample series spec §3
// describes ("owned by their provider, read-only once built") and answers
// getScToInertial(date) by interpolation, the same shape as the teacher's
// PEphPos: binary search to a bracketing window, then Neville's algorithm
// (interpPol, below) over a small centred window of samples.
type ScToBody struct {
	pv                   []PVSample
	attitude             []AttitudeSample
	pvInterpolationOrder int
	aInterpolationOrder  int
}

// NewScToBody builds a provider from ephemeris and attitude samples, both
// required to be sorted by Date ascending. order is the Neville polynomial
// order (number of points - 1) used for each interpolation; spec §6 default
// is 8 for PV and 4 for attitude.
func NewScToBody(pv []PVSample, attitude []AttitudeSample, pvInterpolationOrder, aInterpolationOrder int) (*ScToBody, error) {
	if len(pv) < 2 {
		return nil, newInternalError("spacecraft-to-body needs at least 2 PV samples, got %d", len(pv))
	}
	if len(attitude) < 2 {
		return nil, newInternalError("spacecraft-to-body needs at least 2 attitude samples, got %d", len(attitude))
	}
	if pvInterpolationOrder < 1 || pvInterpolationOrder >= len(pv) {
		return nil, newInternalError("pv interpolation order %d out of range for %d samples", pvInterpolationOrder, len(pv))
	}
	if aInterpolationOrder < 1 || aInterpolationOrder >= len(attitude) {
		return nil, newInternalError("attitude interpolation order %d out of range for %d samples", aInterpolationOrder, len(attitude))
	}
	return &ScToBody{pv: pv, attitude: attitude, pvInterpolationOrder: pvInterpolationOrder, aInterpolationOrder: aInterpolationOrder}, nil
}

// TransformAt implements ScToInertialProvider: interpolates a PV sample and
// an attitude sample bracketing t and composes them into a single
// spacecraft-to-inertial transform.
func (s *ScToBody) TransformAt(t Date) (Transform, error) {
	pos, vel, err := interpolatePV(s.pv, s.pvInterpolationOrder, t)
	if err != nil {
		return Transform{}, err
	}
	rot, rate, err := interpolateAttitude(s.attitude, s.aInterpolationOrder, t)
	if err != nil {
		return Transform{}, err
	}
	// Spacecraft-to-inertial: rotation carries spacecraft-frame vectors into
	// inertial coordinates, translation is the spacecraft's inertial position.
	return Transform{
		Rotation:        rot,
		Translation:     pos,
		AngularVelocity: rate,
		LinearVelocity:  vel,
	}, nil
}

// bracketPV returns i such that samples[i].Date < t <= samples[i+1].Date
// (clamped at the ends), by the same binary search shape as PEphPos.
func bracketPV(samples []PVSample, t Date) int {
	i, j := 0, len(samples)-1
	for i < j {
		k := (i + j) / 2
		if samples[k].Date.Sub(t) < 0 {
			i = k + 1
		} else {
			j = k
		}
	}
	if i > 0 {
		i--
	}
	return i
}

func bracketAttitude(samples []AttitudeSample, t Date) int {
	i, j := 0, len(samples)-1
	for i < j {
		k := (i + j) / 2
		if samples[k].Date.Sub(t) < 0 {
			i = k + 1
		} else {
			j = k
		}
	}
	if i > 0 {
		i--
	}
	return i
}

// interpPol is Neville's algorithm, carried over verbatim from the
// teacher's preceph.go InterpPol: x holds interpolation abscissas (here,
// sample-date-minus-t in seconds), y holds the ordinates, destructively
// reduced down to y[0].
func interpPol(x, y []float64) float64 {
	n := len(x)
	for j := 1; j < n; j++ {
		for i := 0; i < n-j; i++ {
			y[i] = (x[i+j]*y[i] - x[i]*y[i+1]) / (x[i+j] - x[i])
		}
	}
	return y[0]
}

func windowStart(center, order, n int) int {
	i := center - order/2
	if i < 0 {
		i = 0
	} else if i+order >= n {
		i = n - order - 1
	}
	return i
}

func interpolatePV(samples []PVSample, order int, t Date) (Vector3, Vector3, error) {
	n := len(samples)
	if n < order+1 {
		return Vector3{}, Vector3{}, newError(ErrOutOfTimeRange, "not enough PV samples (%d) for interpolation order %d", n, order)
	}
	if t.Before(samples[0].Date) || t.After(samples[n-1].Date) {
		return Vector3{}, Vector3{}, newError(ErrOutOfTimeRange, "date is outside the PV ephemeris span")
	}
	start := windowStart(bracketPV(samples, t), order, n)

	xs := make([]float64, order+1)
	for i := 0; i <= order; i++ {
		xs[i] = samples[start+i].Date.Sub(t)
	}

	interp := func(get func(PVSample) float64) float64 {
		y := make([]float64, order+1)
		for i := 0; i <= order; i++ {
			y[i] = get(samples[start+i])
		}
		xcopy := append([]float64(nil), xs...)
		return interpPol(xcopy, y)
	}

	pos := Vector3{
		X: interp(func(s PVSample) float64 { return s.Position.X }),
		Y: interp(func(s PVSample) float64 { return s.Position.Y }),
		Z: interp(func(s PVSample) float64 { return s.Position.Z }),
	}
	vel := Vector3{
		X: interp(func(s PVSample) float64 { return s.Velocity.X }),
		Y: interp(func(s PVSample) float64 { return s.Velocity.Y }),
		Z: interp(func(s PVSample) float64 { return s.Velocity.Z }),
	}
	return pos, vel, nil
}

// interpolateAttitude interpolates quaternion components componentwise with
// Neville's algorithm and renormalizes -- an approximation of a proper
// SLERP spline, adequate over the short windows a attitude samples are
// spaced at (spec does not mandate a specific attitude spline, only that
// one exists).
func interpolateAttitude(samples []AttitudeSample, order int, t Date) (Quaternion, Vector3, error) {
	n := len(samples)
	if n < order+1 {
		return Quaternion{}, Vector3{}, newError(ErrOutOfTimeRange, "not enough attitude samples (%d) for interpolation order %d", n, order)
	}
	if t.Before(samples[0].Date) || t.After(samples[n-1].Date) {
		return Quaternion{}, Vector3{}, newError(ErrOutOfTimeRange, "date is outside the attitude ephemeris span")
	}
	start := windowStart(bracketAttitude(samples, t), order, n)

	xs := make([]float64, order+1)
	for i := 0; i <= order; i++ {
		xs[i] = samples[start+i].Date.Sub(t)
	}
	ref := samples[start+order/2].Rotation

	interp := func(get func(AttitudeSample) float64) float64 {
		y := make([]float64, order+1)
		for i := 0; i <= order; i++ {
			y[i] = get(samples[start+i])
		}
		xcopy := append([]float64(nil), xs...)
		return interpPol(xcopy, y)
	}

	w := interp(func(s AttitudeSample) float64 {
		q := s.Rotation
		if q.W*ref.W+q.X*ref.X+q.Y*ref.Y+q.Z*ref.Z < 0 {
			return -q.W
		}
		return q.W
	})
	x := interp(func(s AttitudeSample) float64 {
		q := s.Rotation
		if q.W*ref.W+q.X*ref.X+q.Y*ref.Y+q.Z*ref.Z < 0 {
			return -q.X
		}
		return q.X
	})
	y := interp(func(s AttitudeSample) float64 {
		q := s.Rotation
		if q.W*ref.W+q.X*ref.X+q.Y*ref.Y+q.Z*ref.Z < 0 {
			return -q.Y
		}
		return q.Y
	})
	z := interp(func(s AttitudeSample) float64 {
		q := s.Rotation
		if q.W*ref.W+q.X*ref.X+q.Y*ref.Y+q.Z*ref.Z < 0 {
			return -q.Z
		}
		return q.Z
	})
	rot := Quaternion{w, x, y, z}.Normalize()

	rateV := Vector3{
		X: interp(func(s AttitudeSample) float64 { return s.AngularVelocity.X }),
		Y: interp(func(s AttitudeSample) float64 { return s.AngularVelocity.Y }),
		Z: interp(func(s AttitudeSample) float64 { return s.AngularVelocity.Z }),
	}
	return rot, rateV, nil
}
