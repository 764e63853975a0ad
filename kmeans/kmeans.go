/*
Package kmeans implements Lloyd's k-means clustering over any point type that
can be added, scaled and measured.

Centroids are seeded by naive sharding: points are sorted by the sum of their
coordinates, split into k contiguous shards and each shard is averaged. The
result only depends on the input, there is no randomness.
*/
package kmeans

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/bodgit/imgcpr/colorspace"
)

const (
	// DefaultThreshold is the largest centroid movement, in the units of
	// the point type, that still counts as converged.
	DefaultThreshold = 0.00005

	// DefaultMaxIterations bounds the refinement loop.
	DefaultMaxIterations = 250
)

var (
	errNoPoints      = errors.New("kmeans: no points")
	errBadK          = errors.New("kmeans: k must be positive")
	errBadIterations = errors.New("kmeans: max iterations must be positive")
)

// Point is the set of operations clustering needs from a point type.
type Point[T any] interface {
	colorspace.Distancer[T]
	Add(T) T
	Scale(float64) T
	// Composite is the scalar key used to order points for sharding.
	Composite() float64
	// Bits identifies a point by the exact bit pattern of its coordinates.
	Bits() [3]uint64
}

// EmptyPolicy decides what happens to a centroid that attracts no points.
type EmptyPolicy int

const (
	// Reseed moves the centroid onto the point farthest from its own
	// centroid that doesn't coincide with any other centroid after the
	// update. If there is no such point the previous centroid is kept.
	Reseed EmptyPolicy = iota
	// KeepPrevious leaves the centroid where it was.
	KeepPrevious
)

func (p EmptyPolicy) String() string {
	switch p {
	case Reseed:
		return "reseed"
	case KeepPrevious:
		return "keep"
	}
	return "unknown"
}

// UnmarshalText implements encoding.TextUnmarshaler, accepting the names
// returned by String.
func (p *EmptyPolicy) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "reseed":
		*p = Reseed
	case "keep":
		*p = KeepPrevious
	default:
		return fmt.Errorf("kmeans: unknown empty cluster policy %q", b)
	}
	return nil
}

// Config holds the clustering parameters.
type Config struct {
	K             int
	Threshold     float64
	MaxIterations int
	Empty         EmptyPolicy
}

// Result describes a finished clustering run.
type Result[T any] struct {
	// Initial is the seed produced by naive sharding.
	Initial []T
	// Centroids are the final k centroids.
	Centroids []T
	// Changes holds the largest centroid displacement of each iteration.
	Changes []float64
	// Reseeded counts the empty clusters that were moved onto a point.
	Reseeded int
}

// Iterations returns how many refinement steps ran.
func (r *Result[T]) Iterations() int {
	return len(r.Changes)
}

// Shard returns k centroids seeded by naive sharding. The sorted points are
// cut into shards of ceil(n/k) points, the last one taking the remainder.
// When that would leave fewer than k shards the points are split as evenly
// as possible instead, and with fewer points than k some points seed more
// than one centroid.
func Shard[T Point[T]](points []T, k int) []T {
	sorted := slices.Clone(points)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return cmp.Compare(a.Composite(), b.Composite())
	})

	n := len(sorted)
	size := (n + k - 1) / k
	centroids := make([]T, k)
	for i := range centroids {
		var lo, hi int
		if (k-1)*size < n {
			lo, hi = i*size, min((i+1)*size, n)
		} else {
			lo, hi = i*n/k, (i+1)*n/k
			if hi == lo {
				hi = lo + 1
			}
		}
		centroids[i] = mean(sorted[lo:hi])
	}
	return centroids
}

func mean[T Point[T]](points []T) T {
	var sum T
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float64(len(points)))
}

// Fit clusters points into c.K groups and returns the centroids.
func Fit[T Point[T]](points []T, c Config) (*Result[T], error) {
	switch {
	case len(points) == 0:
		return nil, errNoPoints
	case c.K < 1:
		return nil, errBadK
	case c.MaxIterations < 1:
		return nil, errBadIterations
	}

	centroids := Shard(points, c.K)
	r := &Result[T]{
		Initial: slices.Clone(centroids),
	}

	spread := make([]float64, len(points))
	sums := make([]T, c.K)
	counts := make([]int, c.K)

	for iter := 0; iter < c.MaxIterations; iter++ {
		clear(sums)
		clear(counts)

		for i, p := range points {
			j, _ := colorspace.Nearest(p, centroids)
			spread[i] = p.Distance2(centroids[j])
			sums[j] = sums[j].Add(p)
			counts[j]++
		}

		next := make([]T, c.K)
		used := make(map[[3]uint64]struct{}, c.K)
		for j := range next {
			if counts[j] > 0 {
				next[j] = sums[j].Scale(1 / float64(counts[j]))
				used[next[j].Bits()] = struct{}{}
			}
		}
		for j := range next {
			if counts[j] > 0 {
				continue
			}
			next[j] = centroids[j]
			if c.Empty != Reseed {
				continue
			}
			if i, ok := farthest(points, spread, used); ok {
				next[j] = points[i]
				used[points[i].Bits()] = struct{}{}
				spread[i] = 0
				r.Reseeded++
			}
		}

		var change float64
		for j := range next {
			change = math.Max(change, math.Sqrt(next[j].Distance2(centroids[j])))
		}
		centroids = next
		r.Changes = append(r.Changes, change)

		if change <= c.Threshold {
			break
		}
	}

	r.Centroids = centroids
	return r, nil
}

// farthest returns the point with the largest positive spread that is not
// already in use. Ties keep the lowest index.
func farthest[T Point[T]](points []T, spread []float64, used map[[3]uint64]struct{}) (int, bool) {
	best, found := 0, false
	for i, p := range points {
		if spread[i] <= 0 || (found && spread[i] <= spread[best]) {
			continue
		}
		if _, ok := used[p.Bits()]; ok {
			continue
		}
		best, found = i, true
	}
	return best, found
}
