package colorspace

// Distancer is implemented by every color type. Distance2 is the value used
// for ordering, Distance is the metric as reported to a user.
type Distancer[T any] interface {
	Distance(T) float64
	Distance2(T) float64
}

// Nearest returns the index of the entry in points with the smallest
// Distance2 to p. Equal distances keep the earlier index. It returns false if
// points is empty.
func Nearest[T Distancer[T]](p T, points []T) (int, bool) {
	if len(points) == 0 {
		return 0, false
	}
	best, bestDist := 0, p.Distance2(points[0])
	for i := 1; i < len(points); i++ {
		if d := p.Distance2(points[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, true
}
