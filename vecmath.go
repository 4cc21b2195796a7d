package rugged

import "math"

// Vector3 is a Cartesian 3-vector. The teacher represents every vector as a
// raw []float64 and operates on it through free functions (Dot, Cross3,
// Norm, NormV3 in common.go); this module generalizes those same operations
// into methods on a value type, which is the idiomatic Go rendering of the
// same linear algebra the teacher hand-rolls rather than pulling in a
// vector-math library (no repo in the retrieved pack imports one for this).
type Vector3 struct {
	X, Y, Z float64
}

func NewVector3(x, y, z float64) Vector3 { return Vector3{X: x, Y: y, Z: z} }

func (v Vector3) Add(o Vector3) Vector3 { return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector3) Sub(o Vector3) Vector3 { return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Dot mirrors common.go's Dot(a,b,n) specialized to n=3.
func (v Vector3) Dot(o Vector3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross mirrors common.go's Cross3.
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Norm mirrors common.go's Norm(a,n).
func (v Vector3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize mirrors common.go's NormV3, returning the unit vector along v.
// Reports an internal error if v is (numerically) the zero vector, the same
// guard NormV3 applies before dividing.
func (v Vector3) Normalize() (Vector3, error) {
	n := v.Norm()
	if n < 1e-12 {
		return Vector3{}, newInternalError("cannot normalize a near-zero vector")
	}
	return v.Scale(1.0 / n), nil
}

// MustNormalize is Normalize without the error return, for call sites that
// have already established v is non-degenerate (e.g. a LOS vector read from
// a validated sensor model).
func (v Vector3) MustNormalize() Vector3 {
	n, err := v.Normalize()
	if err != nil {
		return Vector3{}
	}
	return n
}

func (v Vector3) Angle(o Vector3) float64 {
	cos := v.Dot(o) / (v.Norm() * o.Norm())
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}

// Lerp linearly interpolates between v and o at fraction t in [0,1] and
// renormalizes -- used for fractional-pixel LOS interpolation (spec §4.8.2).
func (v Vector3) Lerp(o Vector3, t float64) Vector3 {
	return v.Scale(1 - t).Add(o.Scale(t)).MustNormalize()
}

// Quaternion is a unit rotation quaternion (w + xi + yj + zk), used by the
// spacecraft-to-body pipeline to represent attitude samples and to rotate
// vectors between frames. The teacher has no attitude/rotation type of its
// own (GNSS positioning never rotates a 3-vector by a quaternion); this is
// a new type built in the same hand-rolled-linear-algebra idiom as Vector3.
type Quaternion struct {
	W, X, Y, Z float64
}

func NewQuaternion(w, x, y, z float64) Quaternion { return Quaternion{w, x, y, z} }

func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

func (q Quaternion) Normalize() Quaternion {
	n := q.Norm()
	if n < 1e-12 {
		return Quaternion{1, 0, 0, 0}
	}
	return Quaternion{q.W / n, q.X / n, q.Y / n, q.Z / n}
}

func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{q.W, -q.X, -q.Y, -q.Z}
}

func (q Quaternion) Multiply(o Quaternion) Quaternion {
	return Quaternion{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

// Rotate applies the rotation represented by q to vector v.
func (q Quaternion) Rotate(v Vector3) Vector3 {
	p := Quaternion{0, v.X, v.Y, v.Z}
	r := q.Multiply(p).Multiply(q.Conjugate())
	return Vector3{r.X, r.Y, r.Z}
}

// QuaternionFromAxisAngle builds the rotation of angle radians about axis
// (need not be unit length), used by shiftedBy's first-order kinematic
// extrapolation (spec §4.5: "rotation by ω·Δt").
func QuaternionFromAxisAngle(axis Vector3, angle float64) Quaternion {
	axis, err := axis.Normalize()
	if err != nil {
		return Quaternion{1, 0, 0, 0}
	}
	half := angle / 2
	s := math.Sin(half)
	return Quaternion{math.Cos(half), axis.X * s, axis.Y * s, axis.Z * s}
}

// solve2x2 solves the 2x2 linear system [[a,b],[c,d]]*[x,y] = [e,f] by
// Cramer's rule -- the small-system analogue of common.go's generic
// LUDcmp/LUBksb pair, specialized to the one size this module ever needs
// (the bilinear-coordinate refinement of spec §4.8.3).
func solve2x2(a, b, c, d, e, f float64) (x, y float64, ok bool) {
	det := a*d - b*c
	if math.Abs(det) < 1e-18 {
		return 0, 0, false
	}
	x = (e*d - b*f) / det
	y = (a*f - e*c) / det
	return x, y, true
}
