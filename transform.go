package rugged

// Transform is a time-stamped rigid transform between two frames: a
// rotation plus the translation of one frame's origin as seen from the
// other, together with the instantaneous angular and linear velocities
// needed to extrapolate it (spec §4.5). The teacher has no frame/attitude
// abstraction of its own (GNSS positioning never needs one); this is new,
// built to the "cleanly abstract a TransformProvider" design note.
type Transform struct {
	Rotation        Quaternion
	Translation     Vector3
	AngularVelocity Vector3 // rad/s, expressed in the destination frame
	LinearVelocity  Vector3 // m/s, expressed in the destination frame
}

// TransformPosition transports a position from the source frame to the
// destination frame.
func (tr Transform) TransformPosition(p Vector3) Vector3 {
	return tr.Rotation.Rotate(p).Add(tr.Translation)
}

// TransformVector transports a free vector (direction, velocity) -- no
// translation applied.
func (tr Transform) TransformVector(v Vector3) Vector3 {
	return tr.Rotation.Rotate(v)
}

// ShiftedBy returns the approximate transform at t+dt using first-order
// kinematics: rotate by omega*dt about the angular velocity axis, and
// translate by v*dt. Spec §4.5: "This is the mechanism for light-time
// correction." and §4.7 uses it both for the light-time shift of
// inertialToBody and, implicitly, for any provider wanting cheap
// extrapolation instead of a fresh interpolation.
func (tr Transform) ShiftedBy(dt float64) Transform {
	var dRotation Quaternion
	if tr.AngularVelocity.Norm() > 0 {
		angle := tr.AngularVelocity.Norm() * dt
		dRotation = QuaternionFromAxisAngle(tr.AngularVelocity, angle)
	} else {
		dRotation = Quaternion{W: 1}
	}
	return Transform{
		Rotation:        dRotation.Multiply(tr.Rotation).Normalize(),
		Translation:     tr.Translation.Add(tr.LinearVelocity.Scale(dt)),
		AngularVelocity: tr.AngularVelocity,
		LinearVelocity:  tr.LinearVelocity,
	}
}

// Invert returns the transform mapping the destination frame back to the
// source frame.
func (tr Transform) Invert() Transform {
	inv := tr.Rotation.Conjugate()
	return Transform{
		Rotation:        inv,
		Translation:     inv.Rotate(tr.Translation.Scale(-1)),
		AngularVelocity: inv.Rotate(tr.AngularVelocity.Scale(-1)),
		LinearVelocity:  inv.Rotate(tr.LinearVelocity.Scale(-1)),
	}
}

// InertialFrameId names an inertial frame preset (spec §6); the rotation
// math for each is delegated to a TransformProvider, never computed here.
type InertialFrameId int

const (
	GCRF InertialFrameId = iota
	EME2000
	MOD
	TOD
	VEIS1950
)

// BodyRotatingFrame names a body-fixed rotating frame preset (spec §6).
type BodyRotatingFrame int

const (
	ITRF BodyRotatingFrame = iota
	ITRFEquinox
	GTOD
)

// InertialToBodyProvider is the external collaborator spec §9 calls for:
// "cleanly abstract a TransformProvider trait with pluggable back-ends".
// A real deployment plugs in an IERS-conventions implementation (frame
// bias, precession, nutation, polar motion, UT1-UTC); this module ships
// only the interface plus one simple, explicitly-approximate
// implementation (UniformRotatingFrame) good enough to exercise the rest
// of the pipeline and to reproduce spec §8 scenario 3 (light-time
// sanity), which is specified against a uniformly-rotating Earth.
type InertialToBodyProvider interface {
	TransformAt(t Date) (Transform, error)
}

// ScToInertialProvider composes attitude and ephemeris into the
// spacecraft-to-inertial transform (spec §4.5).
type ScToInertialProvider interface {
	TransformAt(t Date) (Transform, error)
}

// UniformRotatingFrame is a minimal InertialToBodyProvider: a body rotating
// about the inertial Z axis at a constant rate, starting aligned with the
// inertial frame at t=epoch. It stands in for the out-of-scope IERS/frame
// library (spec §1: "frame libraries ... only interfaces are specified").
type UniformRotatingFrame struct {
	Epoch Date
	Rate  float64 // rad/s, positive = prograde about +Z
}

func NewUniformRotatingFrame(epoch Date, rate float64) *UniformRotatingFrame {
	return &UniformRotatingFrame{Epoch: epoch, Rate: rate}
}

func (f *UniformRotatingFrame) TransformAt(t Date) (Transform, error) {
	dt := t.Sub(f.Epoch)
	angle := f.Rate * dt
	// Rotation from inertial to body: body has turned +angle about Z, so
	// expressing an inertial vector in body coordinates rotates it by -angle.
	q := QuaternionFromAxisAngle(Vector3{Z: 1}, -angle)
	return Transform{
		Rotation:        q,
		Translation:     Vector3{},
		AngularVelocity: Vector3{Z: -f.Rate},
		LinearVelocity:  Vector3{},
	}, nil
}
