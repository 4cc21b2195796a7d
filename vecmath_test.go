package rugged

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Vector3_DotCrossNorm(t *testing.T) {
	assert := assert.New(t)
	a := NewVector3(1, 0, 0)
	b := NewVector3(0, 1, 0)
	assert.InDelta(0.0, a.Dot(b), 1e-12)
	assert.Equal(Vector3{X: 0, Y: 0, Z: 1}, a.Cross(b))
	assert.InDelta(1.0, a.Norm(), 1e-12)
}

func Test_Vector3_NormalizeRejectsZero(t *testing.T) {
	assert := assert.New(t)
	_, err := Vector3{}.Normalize()
	assert.Error(err)
}

func Test_Vector3_Lerp(t *testing.T) {
	assert := assert.New(t)
	a := NewVector3(1, 0, 0)
	b := NewVector3(0, 1, 0)
	m := a.Lerp(b, 0.5)
	assert.InDelta(1.0, m.Norm(), 1e-12)
	assert.InDelta(m.X, m.Y, 1e-9)
}

func Test_Quaternion_RotateAboutZ(t *testing.T) {
	assert := assert.New(t)
	q := QuaternionFromAxisAngle(Vector3{Z: 1}, math.Pi/2)
	v := q.Rotate(Vector3{X: 1})
	assert.InDelta(0.0, v.X, 1e-9)
	assert.InDelta(1.0, v.Y, 1e-9)
}

func Test_Quaternion_ConjugateUndoesRotation(t *testing.T) {
	assert := assert.New(t)
	q := QuaternionFromAxisAngle(Vector3{X: 0.3, Y: 0.6, Z: 0.2}, 1.1)
	v := NewVector3(0.4, -0.7, 0.2)
	back := q.Conjugate().Rotate(q.Rotate(v))
	assert.InDelta(v.X, back.X, 1e-9)
	assert.InDelta(v.Y, back.Y, 1e-9)
	assert.InDelta(v.Z, back.Z, 1e-9)
}

func Test_solve2x2(t *testing.T) {
	assert := assert.New(t)
	x, y, ok := solve2x2(2, 0, 0, 3, 4, 9)
	assert.True(ok)
	assert.InDelta(2.0, x, 1e-12)
	assert.InDelta(3.0, y, 1e-12)

	_, _, ok = solve2x2(1, 1, 1, 1, 2, 2)
	assert.False(ok)
}
