package sampler

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/prismgo/cloud"
)

// Assemble merges per-bin selections into a single sampled cloud.
//
// Selected indices from every bin are unioned into a bitmap and walked in
// ascending order, so the output preserves the input's relative point
// ordering regardless of bin discovery order. Surviving points are copied
// whole: position, color, and the raw attribute record stay untouched.
func Assemble(pc *cloud.PointCloud, selections [][]int) *cloud.PointCloud {
	selected := roaring.New()
	for _, sel := range selections {
		for _, i := range sel {
			selected.Add(uint32(i))
		}
	}

	out := cloud.New(int(selected.GetCardinality()))
	it := selected.Iterator()
	for it.HasNext() {
		out.Append(pc.Points[it.Next()])
	}
	return out
}
