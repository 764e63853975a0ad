package palette

import (
	"cmp"
	"slices"

	"github.com/bodgit/imgcpr/colorspace"
)

type bucket struct {
	sum   [3]int
	count int
}

// Round to nearest of the pixels that fell into the bucket
func (b *bucket) mean() colorspace.RGB8 {
	half := b.count / 2
	return colorspace.RGB8{
		R: uint8((b.sum[0] + half) / b.count),
		G: uint8((b.sum[1] + half) / b.count),
		B: uint8((b.sum[2] + half) / b.count),
	}
}

// ByFrequency returns up to size colors, most frequent first. Pixels are
// grouped by the top four bits of each channel and each group is represented
// by the mean of its pixels. Groups are visited by descending count, ties in
// the order they were first seen, and a group is skipped if its color is
// within reject of a color already chosen.
func ByFrequency(pix []colorspace.RGB8, size int, reject float64) Palette {
	keys := make(map[colorspace.RGB8]int)
	var buckets []*bucket
	for _, c := range pix {
		key := colorspace.RGB8{R: c.R & 0xf0, G: c.G & 0xf0, B: c.B & 0xf0}
		i, ok := keys[key]
		if !ok {
			i = len(buckets)
			keys[key] = i
			buckets = append(buckets, new(bucket))
		}
		b := buckets[i]
		b.sum[0] += int(c.R)
		b.sum[1] += int(c.G)
		b.sum[2] += int(c.B)
		b.count++
	}

	slices.SortStableFunc(buckets, func(a, b *bucket) int {
		return cmp.Compare(b.count, a.count)
	})

	limit := reject * reject
	p := make(Palette, 0, size)
candidates:
	for _, b := range buckets {
		if len(p) == size {
			break
		}
		c := b.mean()
		for _, e := range p {
			if e.Distance2(c) < limit {
				continue candidates
			}
		}
		p = append(p, c)
	}

	return p
}
