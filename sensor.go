package rugged

import "math"

// SensorPixel identifies a (line, pixel) location in a LineSensor's image,
// line being the along-track sample index and pixel the across-track one
// (spec §4.6, §4.8).
type SensorPixel struct {
	Line  float64
	Pixel float64
}

// LineToDate maps a (fractional) line number to an acquisition Date -- the
// pushbroom scan-rate model (spec §4.6's "line-to-date mapping function").
type LineToDate interface {
	DateAtLine(line float64) Date
	LineAtDate(d Date) float64
}

// ConstantRateLineDatation is the simplest LineToDate: a scan that advances
// through lines at a fixed rate starting from a reference line and date.
type ConstantRateLineDatation struct {
	ReferenceLine float64
	ReferenceDate Date
	LineRate      float64 // lines per second
}

func NewConstantRateLineDatation(refLine float64, refDate Date, lineRate float64) *ConstantRateLineDatation {
	return &ConstantRateLineDatation{ReferenceLine: refLine, ReferenceDate: refDate, LineRate: lineRate}
}

func (d *ConstantRateLineDatation) DateAtLine(line float64) Date {
	return d.ReferenceDate.Add((line - d.ReferenceLine) / d.LineRate)
}

func (d *ConstantRateLineDatation) LineAtDate(t Date) float64 {
	return d.ReferenceLine + t.Sub(d.ReferenceDate)*d.LineRate
}

// LineSensor is the pushbroom sensor model of spec §4.6: a named array of
// per-pixel line-of-sight directions in the spacecraft frame, the sensor's
// optical-centre position in the spacecraft frame, a plane normal used by
// inverse localization's mean-plane crossing stage, and the scan-rate
// model mapping lines to dates.
type LineSensor struct {
	Name     string
	Position Vector3 // sensor optical centre, spacecraft frame
	los      []Vector3
	datation LineToDate
	meanPlaneNormal Vector3
}

// NewLineSensor builds a sensor from its per-pixel LOS array (pixel 0 is
// the first column). meanPlaneNormal, if the zero vector, is computed from
// the LOS array via computeMeanPlaneNormal (spec §4.8.1: "this plane's
// normal ... is either supplied or computed (e.g. via PCA)").
func NewLineSensor(name string, position Vector3, los []Vector3, datation LineToDate, meanPlaneNormal Vector3) (*LineSensor, error) {
	if len(los) < 2 {
		return nil, newInternalError("line sensor %q needs at least 2 pixels, got %d", name, len(los))
	}
	normalized := make([]Vector3, len(los))
	for i, v := range los {
		n, err := v.Normalize()
		if err != nil {
			return nil, newInternalError("line sensor %q pixel %d has a degenerate line of sight", name, i)
		}
		normalized[i] = n
	}
	normal := meanPlaneNormal
	if normal.Norm() < 1e-12 {
		normal = computeMeanPlaneNormal(normalized)
	} else {
		var err error
		normal, err = normal.Normalize()
		if err != nil {
			return nil, newInternalError("line sensor %q has a degenerate mean plane normal", name)
		}
	}
	return &LineSensor{Name: name, Position: position, los: normalized, datation: datation, meanPlaneNormal: normal}, nil
}

func (s *LineSensor) NbPixels() int { return len(s.los) }

// LOS returns the unit line-of-sight direction for a fractional pixel
// index, linearly interpolating between the two neighboring integral
// pixels (spec §4.8.2) and clamping at the array ends.
func (s *LineSensor) LOS(pixel float64) Vector3 {
	n := len(s.los)
	if pixel <= 0 {
		return s.los[0]
	}
	if pixel >= float64(n-1) {
		return s.los[n-1]
	}
	i := int(math.Floor(pixel))
	frac := pixel - float64(i)
	return s.los[i].Lerp(s.los[i+1], frac)
}

// MeanPlaneNormal returns the sensor's mean-plane normal used by inverse
// localization's first stage (spec §4.8.1).
func (s *LineSensor) MeanPlaneNormal() Vector3 { return s.meanPlaneNormal }

func (s *LineSensor) DateAtLine(line float64) Date { return s.datation.DateAtLine(line) }
func (s *LineSensor) LineAtDate(t Date) float64     { return s.datation.LineAtDate(t) }

// computeMeanPlaneNormal fits the plane of smallest variance through the
// pixel LOS directions: accumulate the outer-product scatter matrix of the
// direction set (no mean is subtracted, since LOS directions already
// radiate from one origin) and take its smallest-eigenvalue eigenvector,
// found by the cyclic Jacobi diagonalization below. Mirrors the teacher's own preference for
// a small closed iterative solver (common.go's LUDcmp/MatInv) over pulling
// in a linear-algebra package for a one-off 3x3 eigenproblem.
func computeMeanPlaneNormal(los []Vector3) Vector3 {
	var sxx, syy, szz, sxy, sxz, syz float64
	for _, v := range los {
		sxx += v.X * v.X
		syy += v.Y * v.Y
		szz += v.Z * v.Z
		sxy += v.X * v.Y
		sxz += v.X * v.Z
		syz += v.Y * v.Z
	}
	m := [3][3]float64{
		{sxx, sxy, sxz},
		{sxy, syy, syz},
		{sxz, syz, szz},
	}
	return smallestEigenvector(m)
}

// smallestEigenvector finds the eigenvector of the smallest eigenvalue of a
// symmetric 3x3 matrix using cyclic Jacobi rotations, then reads off the
// column of the accumulated rotation matching the smallest diagonal entry.
func smallestEigenvector(a [3][3]float64) Vector3 {
	v := [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for sweep := 0; sweep < 50; sweep++ {
		off := math.Abs(a[0][1]) + math.Abs(a[0][2]) + math.Abs(a[1][2])
		if off < 1e-14 {
			break
		}
		for _, pq := range [][2]int{{0, 1}, {0, 2}, {1, 2}} {
			p, q := pq[0], pq[1]
			if math.Abs(a[p][q]) < 1e-18 {
				continue
			}
			theta := (a[q][q] - a[p][p]) / (2 * a[p][q])
			t := math.Copysign(1, theta) / (math.Abs(theta) + math.Sqrt(1+theta*theta))
			c := 1 / math.Sqrt(1+t*t)
			s := t * c
			app, aqq, apq := a[p][p], a[q][q], a[p][q]
			a[p][p] = app - t*apq
			a[q][q] = aqq + t*apq
			a[p][q], a[q][p] = 0, 0
			for i := 0; i < 3; i++ {
				if i != p && i != q {
					aip, aiq := a[i][p], a[i][q]
					a[i][p] = c*aip - s*aiq
					a[p][i] = a[i][p]
					a[i][q] = s*aip + c*aiq
					a[q][i] = a[i][q]
				}
				vip, viq := v[i][p], v[i][q]
				v[i][p] = c*vip - s*viq
				v[i][q] = s*vip + c*viq
			}
		}
	}
	best := 0
	for i := 1; i < 3; i++ {
		if a[i][i] < a[best][best] {
			best = i
		}
	}
	n, err := Vector3{X: v[0][best], Y: v[1][best], Z: v[2][best]}.Normalize()
	if err != nil {
		return Vector3{Z: 1}
	}
	return n
}
