package fuzzy

import "fmt"

// Triangle is a triangular membership function with feet at A and C and
// peak at B. A == B or B == C produces a shouldered (right-angle) triangle,
// which is how partitions behave at the edges of a universe.
type Triangle struct {
	A, B, C float64
}

// Degree returns the membership of x in [0,1].
func (t Triangle) Degree(x float64) float64 {
	if x < t.A || x > t.C {
		return 0
	}
	switch {
	case x == t.B:
		return 1
	case x < t.B:
		return (x - t.A) / (t.B - t.A)
	default:
		if t.C == t.B {
			return 1
		}
		return (t.C - x) / (t.C - t.B)
	}
}

// validate rejects triangles whose points are out of order.
func (t Triangle) validate() error {
	if t.A > t.B || t.B > t.C {
		return fmt.Errorf("triangle points must be ordered a <= b <= c, got [%v, %v, %v]", t.A, t.B, t.C)
	}
	return nil
}

// AutoPartition divides [lo, hi] into len(names) evenly spaced, overlapping
// triangles: peaks sit at lo + i*(hi-lo)/(n-1), each triangle's feet at the
// neighbouring peaks, and the two edge triangles are shouldered. Adjacent
// memberships always sum to 1, so every point of the universe is covered.
func AutoPartition(lo, hi float64, names []string) ([]Term, error) {
	n := len(names)
	if n < 2 {
		return nil, fmt.Errorf("partition needs at least 2 names, got %d", n)
	}
	if hi <= lo {
		return nil, fmt.Errorf("partition range [%v, %v] is empty", lo, hi)
	}
	width := (hi - lo) / float64(n-1)
	terms := make([]Term, n)
	for i, name := range names {
		peak := lo + float64(i)*width
		tri := Triangle{A: peak - width, B: peak, C: peak + width}
		if i == 0 {
			tri.A = lo
		}
		if i == n-1 {
			tri.C = hi
		}
		terms[i] = Term{Name: name, MF: tri}
	}
	return terms, nil
}
