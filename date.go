package rugged

import "math"

// Date is an absolute instant, represented the way the teacher's Gtime
// represents GPS/UTC epochs: an integer second count plus a sub-second
// fraction, kept separate so that differencing two dates close in time
// does not lose precision to a single float64's ~15 significant digits --
// the same reason Gtime in common.go splits {Time int64; Sec float64}
// instead of using one float64 seconds-since-epoch value.
type Date struct {
	sec  int64
	frac float64 // in [0, 1)
}

// NewDate builds a Date from a second count and fractional remainder.
func NewDate(sec int64, frac float64) Date {
	wholeAdjust := math.Floor(frac)
	return Date{sec: sec + int64(wholeAdjust), frac: frac - wholeAdjust}
}

// DateFromSeconds builds a Date from a single float64 seconds value,
// analogous to the teacher's Epoch2Time for callers that do not need
// sub-microsecond precision across long intervals.
func DateFromSeconds(s float64) Date {
	whole := math.Floor(s)
	return NewDate(int64(whole), s-whole)
}

// Seconds returns the date as a single float64, mirroring Time2Epoch's
// collapse back to calendar math for display purposes.
func (d Date) Seconds() float64 { return float64(d.sec) + d.frac }

// Add mirrors common.go's TimeAdd(t, sec): returns d shifted by dt seconds.
func (d Date) Add(dt float64) Date {
	wholeDt := math.Floor(dt)
	return NewDate(d.sec+int64(wholeDt), d.frac+(dt-wholeDt))
}

// Sub mirrors common.go's TimeDiff(t1, t2): returns d-other in seconds.
func (d Date) Sub(other Date) float64 {
	return float64(d.sec-other.sec) + (d.frac - other.frac)
}

func (d Date) Before(other Date) bool { return d.Sub(other) < 0 }
func (d Date) After(other Date) bool  { return d.Sub(other) > 0 }
func (d Date) Equal(other Date) bool  { return d.Sub(other) == 0 }
