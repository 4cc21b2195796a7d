package rugged

// Fundamental constants, carried over from the teacher's types.go macro
// block (PI, D2R, R2D, CLIGHT, OMGE) and generalized where the teacher
// hardcoded a single body (RE_WGS84/FE_WGS84 become one of several named
// Ellipsoid presets below).
const (
	piConst float64 = 3.1415926535897932
	d2r             = piConst / 180.0
	r2d             = 180.0 / piConst

	// CLight is the speed of light in vacuum (m/s), used by light-time
	// correction and by aberration-of-light correction.
	CLight float64 = 299792458.0

	// EarthRotationRate is the nominal Earth rotation rate (rad/s), a
	// typical rate for NewUniformRotatingFrame; no code of this package
	// reads it.
	EarthRotationRate float64 = 7.2921151467e-5
)

// EllipsoidId names a built-in reference ellipsoid preset (spec §6).
type EllipsoidId int

const (
	GRS80 EllipsoidId = iota
	WGS84
	IERS96
	IERS2003
)

// ellipsoidPreset holds the (equatorial radius, flattening) pair for a
// named preset; mirrors the teacher's RE_WGS84/FE_WGS84 constant pair,
// extended to every preset spec §6 names.
type ellipsoidPreset struct {
	a float64
	f float64
}

var ellipsoidPresets = map[EllipsoidId]ellipsoidPreset{
	GRS80:    {a: 6378137.0, f: 1.0 / 298.257222101},
	WGS84:    {a: 6378137.0, f: 1.0 / 298.257223563},
	IERS96:   {a: 6378136.49, f: 1.0 / 298.25645},
	IERS2003: {a: 6378136.6, f: 1.0 / 298.25642},
}

// NewExtendedEllipsoid builds an ExtendedEllipsoid from a named preset,
// associated with the given body-rotating frame.
func NewExtendedEllipsoid(id EllipsoidId, frame BodyRotatingFrame) (*ExtendedEllipsoid, error) {
	p, ok := ellipsoidPresets[id]
	if !ok {
		return nil, newInternalError("unknown ellipsoid preset %d", int(id))
	}
	return NewEllipsoid(p.a, p.f, frame), nil
}
