package palette

import (
	"github.com/bodgit/imgcpr/colorspace"
	"github.com/bodgit/imgcpr/kmeans"
)

// cluster runs k-means in the color space given by to and from. Pixels are
// indexed against the centroids in that space rather than against the
// rounded palette.
func cluster[T kmeans.Point[T]](pix []colorspace.RGB8, to func(colorspace.RGB8) T, from func(T) colorspace.RGB8, o Options) *Result {
	converted := make(map[colorspace.RGB8]T)
	points := make([]T, len(pix))
	for i, c := range pix {
		p, ok := converted[c]
		if !ok {
			p = to(c)
			converted[c] = p
		}
		points[i] = p
	}

	r, err := kmeans.Fit(points, kmeans.Config{
		K:             o.Size,
		Threshold:     o.Threshold,
		MaxIterations: o.MaxIterations,
		Empty:         o.Empty,
	})
	if err != nil {
		// Not reachable, the options and pixels have been checked already
		panic(err)
	}

	p := make(Palette, len(r.Centroids))
	for i, c := range r.Centroids {
		p[i] = from(c)
	}

	indices := make([]uint8, len(pix))
	cache := make(map[colorspace.RGB8]uint8, len(converted))
	for i, c := range pix {
		idx, ok := cache[c]
		if !ok {
			j, _ := colorspace.Nearest(converted[c], r.Centroids)
			idx = uint8(j)
			cache[c] = idx
		}
		indices[i] = idx
	}

	return &Result{
		Palette:    p,
		Indices:    indices,
		Iterations: r.Iterations(),
		Reseeded:   r.Reseeded,
	}
}
