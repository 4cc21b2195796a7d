package rugged

import "math"

// ExtendedEllipsoid is the reference body ellipsoid plus the ray/surface
// intersection operations of spec §4.1. It generalizes the teacher's
// hardcoded WGS84 Ecef2Pos/Pos2Ecef pair (common.go) into a value
// constructed from an arbitrary (a, f), associated with a named
// body-rotating frame. All methods are pure -- no hidden state, per spec
// §4.1's closing note.
type ExtendedEllipsoid struct {
	a    float64
	f    float64
	e2   float64
	b    float64
	Body BodyRotatingFrame
}

// NewEllipsoid builds an ExtendedEllipsoid from an equatorial radius (m)
// and flattening, exactly the (a, f) -> e2, b derivation of spec §3.
func NewEllipsoid(a, f float64, body BodyRotatingFrame) *ExtendedEllipsoid {
	return &ExtendedEllipsoid{
		a:    a,
		f:    f,
		e2:   f * (2.0 - f),
		b:    a * (1.0 - f),
		Body: body,
	}
}

func (e *ExtendedEllipsoid) EquatorialRadius() float64 { return e.a }
func (e *ExtendedEllipsoid) Flattening() float64       { return e.f }

// ToCartesian transforms a geodetic point to body-frame ECEF coordinates.
// Adapted from common.go's Pos2Ecef, generalized from the hardcoded
// RE_WGS84/FE_WGS84 pair to this ellipsoid's own (a, e2).
func (e *ExtendedEllipsoid) ToCartesian(p GeodeticPoint) Vector3 {
	sinp, cosp := math.Sin(p.Latitude), math.Cos(p.Latitude)
	sinl, cosl := math.Sin(p.Longitude), math.Cos(p.Longitude)
	v := e.a / math.Sqrt(1.0-e.e2*sinp*sinp)
	return Vector3{
		X: (v + p.Altitude) * cosp * cosl,
		Y: (v + p.Altitude) * cosp * sinl,
		Z: (v*(1.0-e.e2) + p.Altitude) * sinp,
	}
}

// ToGeodetic transforms a body-frame ECEF position to a geodetic point.
// Adapted from common.go's Ecef2Pos -- same iterative refinement of the
// latitude via the auxiliary z' variable, generalized to this ellipsoid.
func (e *ExtendedEllipsoid) ToGeodetic(r Vector3) GeodeticPoint {
	r2 := r.X*r.X + r.Y*r.Y
	var z, zk, sinp float64
	v := e.a
	z = r.Z
	for math.Abs(z-zk) >= 1e-4 {
		zk = z
		sinp = z / math.Sqrt(r2+z*z)
		v = e.a / math.Sqrt(1.0-e.e2*sinp*sinp)
		z = r.Z + v*e.e2*sinp
	}
	var lat, lon float64
	if r2 > 1e-12 {
		lat = math.Atan(z / math.Sqrt(r2))
	} else if r.Z > 0 {
		lat = math.Pi / 2
	} else {
		lat = -math.Pi / 2
	}
	if r2 > 1e-12 {
		lon = math.Atan2(r.Y, r.X)
	}
	alt := math.Sqrt(r2+z*z) - v
	return GeodeticPoint{Latitude: lat, Longitude: lon, Altitude: alt}
}

// quadraticRayIntersection solves for t in |p + t*los| on the ellipsoid
// offset by altitude h (semi-axes a+h, a+h, b+h), per spec §4.4.1's "offset
// ellipsoid at altitude" device. Returns both real roots sorted ascending,
// or ok=false if the ray misses.
func (e *ExtendedEllipsoid) quadraticRayIntersection(p, los Vector3, h float64) (t1, t2 float64, ok bool) {
	A := e.a + h
	B := e.b + h
	if A <= 0 || B <= 0 {
		return 0, 0, false
	}
	A2, B2 := A*A, B*B
	a := (los.X*los.X+los.Y*los.Y)/A2 + los.Z*los.Z/B2
	b := 2 * ((p.X*los.X+p.Y*los.Y)/A2 + p.Z*los.Z/B2)
	c := (p.X*p.X+p.Y*p.Y)/A2 + p.Z*p.Z/B2 - 1.0
	disc := b*b - 4*a*c
	if disc < 0 || math.Abs(a) < 1e-30 {
		return 0, 0, false
	}
	sq := math.Sqrt(disc)
	r1 := (-b - sq) / (2 * a)
	r2 := (-b + sq) / (2 * a)
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	return r1, r2, true
}

// PointOnGround returns the first intersection of ray (p, los) with the
// ellipsoid surface at altitude 0.
func (e *ExtendedEllipsoid) PointOnGround(p, los Vector3) (GeodeticPoint, error) {
	return e.PointAtAltitudeCartesian(p, los, 0)
}

// PointOnGroundAtAltitude intersects the ellipsoid offset by the given
// altitude (spec §4.1's second pointOnGround overload).
func (e *ExtendedEllipsoid) PointOnGroundAtAltitude(p, los Vector3, altitude float64) (GeodeticPoint, error) {
	return e.PointAtAltitudeCartesian(p, los, altitude)
}

// PointAtAltitudeCartesian returns the nearest-ahead intersection of ray
// (p, los) with the ellipsoid offset by the given altitude.
func (e *ExtendedEllipsoid) PointAtAltitudeCartesian(p, los Vector3, altitude float64) (GeodeticPoint, error) {
	t1, t2, ok := e.quadraticRayIntersection(p, los, altitude)
	if !ok {
		return GeodeticPoint{}, newError(ErrLineOfSightDoesNotReachGround,
			"ray from %v along %v misses the ellipsoid at altitude %.3f", p, los, altitude)
	}
	t := t1
	if t < 0 {
		t = t2
	}
	if t < 0 {
		return GeodeticPoint{}, newError(ErrLineOfSightDoesNotReachGround,
			"ray from %v along %v intersects the ellipsoid only behind its origin", p, los)
	}
	return e.ToGeodetic(p.Add(los.Scale(t))), nil
}

// PointAtAltitude is the GeodeticPoint-returning form used by the solver
// when it already has a closeRef to disambiguate two roots.
func (e *ExtendedEllipsoid) PointAtAltitude(p, los Vector3, altitude float64, closeRef Vector3) (GeodeticPoint, error) {
	t1, t2, ok := e.quadraticRayIntersection(p, los, altitude)
	if !ok {
		return GeodeticPoint{}, newError(ErrLineOfSightNeverCrossesAltitude,
			"ray never reaches altitude %.3f", altitude)
	}
	c1, c2 := p.Add(los.Scale(t1)), p.Add(los.Scale(t2))
	if c1.Sub(closeRef).Norm() <= c2.Sub(closeRef).Norm() {
		return e.ToGeodetic(c1), nil
	}
	return e.ToGeodetic(c2), nil
}

// PointAtLongitude returns the intersection of ray (p, los) with the
// half-plane of constant longitude lambda. The equation is linear in t
// (y*cos(lambda) - x*sin(lambda) = 0 along the ray), so there is at most
// one root, unless the ray lies inside the meridian plane: then every point
// of it is a root and the point ahead of the origin closest to closeRef is
// returned.
func (e *ExtendedEllipsoid) PointAtLongitude(p, los Vector3, lambda float64, closeRef Vector3) (GeodeticPoint, error) {
	cosl, sinl := math.Cos(lambda), math.Sin(lambda)
	denom := los.Y*cosl - los.X*sinl
	offset := p.Y*cosl - p.X*sinl
	if math.Abs(denom) < 1e-18 {
		if math.Abs(offset) > 1e-9*math.Max(1, p.Norm()) {
			return GeodeticPoint{}, newError(ErrLineOfSightNeverCrossesLongitude,
				"ray is parallel to the meridian plane at longitude %.6f", lambda)
		}
		t := math.Max(0, closeRef.Sub(p).Dot(los)/los.Dot(los))
		return e.ToGeodetic(p.Add(los.Scale(t))), nil
	}
	t := -offset / denom
	if t < 0 {
		return GeodeticPoint{}, newError(ErrLineOfSightNeverCrossesLongitude,
			"ray crosses longitude %.6f only behind its origin", lambda)
	}
	pt := p.Add(los.Scale(t))
	if pt.X*cosl+pt.Y*sinl < 0 {
		return GeodeticPoint{}, newError(ErrLineOfSightNeverCrossesLongitude,
			"ray crosses the meridian plane of longitude %.6f only on the opposite half-plane", lambda)
	}
	return e.ToGeodetic(pt), nil
}

// PointAtLatitude returns the intersection of ray (p, los) with the cone of
// constant geodetic latitude phi: all points whose direction from the
// ellipsoid center satisfies z = rho*(1-e2)*tan(phi), which is exactly the
// relation a surface point at latitude phi satisfies between its height
// and its distance from the polar axis; for points off the surface the cone
// only approximates the constant-latitude locus. Squaring to eliminate rho = sqrt(x^2+y^2)
// introduces the cone's other nappe as spurious roots, filtered out by
// sign(z) below.
func (e *ExtendedEllipsoid) PointAtLatitude(p, los Vector3, phi float64, closeRef Vector3) (GeodeticPoint, error) {
	if math.Abs(phi) >= math.Pi/2-1e-12 {
		return GeodeticPoint{}, newError(ErrLineOfSightNeverCrossesLatitude,
			"latitude %.6f is at a pole, not a well-defined cone", phi)
	}
	k := (1.0 - e.e2) * math.Tan(phi)
	a := los.Z*los.Z - k*k*(los.X*los.X+los.Y*los.Y)
	b := 2 * (p.Z*los.Z - k*k*(p.X*los.X+p.Y*los.Y))
	c := p.Z*p.Z - k*k*(p.X*p.X+p.Y*p.Y)

	var roots []float64
	if math.Abs(a) < 1e-24 {
		if math.Abs(b) > 1e-24 {
			roots = append(roots, -c/b)
		}
	} else {
		disc := b*b - 4*a*c
		if disc < 0 {
			return GeodeticPoint{}, newError(ErrLineOfSightNeverCrossesLatitude,
				"ray never crosses latitude %.6f", phi)
		}
		sq := math.Sqrt(disc)
		roots = append(roots, (-b-sq)/(2*a), (-b+sq)/(2*a))
	}

	var best Vector3
	bestDist := math.Inf(1)
	found := false
	for _, t := range roots {
		if t < 0 {
			continue
		}
		cand := p.Add(los.Scale(t))
		sameNappe := (cand.Z >= 0) == (k >= 0)
		if !sameNappe && math.Abs(k) > 1e-15 {
			continue
		}
		d := cand.Sub(closeRef).Norm()
		if d < bestDist {
			bestDist, best, found = d, cand, true
		}
	}
	if !found {
		return GeodeticPoint{}, newError(ErrLineOfSightNeverCrossesLatitude,
			"ray never crosses latitude %.6f ahead of its origin", phi)
	}
	return e.ToGeodetic(best), nil
}
