package outlier

import (
	"math"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/prismgo/cloud"
)

// Options configures statistical outlier removal.
type Options struct {
	// NumNeighbors is the neighborhood size used for the per-point mean
	// distance. Larger values smooth the statistic but cost more.
	NumNeighbors int

	// StdRatio is the cutoff in standard deviations above the global mean
	// neighbor distance. Smaller values remove more points.
	StdRatio float64
}

// DefaultOptions match the tuning commonly used for terrestrial scans.
var DefaultOptions = Options{
	NumNeighbors: 20,
	StdRatio:     2.0,
}

// cellKey addresses one cell of the uniform spatial hash grid.
type cellKey [3]int32

// Remove returns a new cloud without statistical outliers. Clouds smaller
// than the neighborhood size are returned unchanged: the statistic is
// meaningless there.
func Remove(pc *cloud.PointCloud, optFns ...func(o *Options)) *cloud.PointCloud {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.NumNeighbors < 1 {
		opts.NumNeighbors = DefaultOptions.NumNeighbors
	}
	if opts.StdRatio <= 0 {
		opts.StdRatio = DefaultOptions.StdRatio
	}

	n := pc.Len()
	if n <= opts.NumNeighbors+1 {
		return pc.Subset(allIndices(n))
	}

	grid, cellSize := buildGrid(pc, opts.NumNeighbors)
	span := gridSpan(grid)

	// Per-point mean distance to the k nearest neighbors.
	means := make([]float64, n)
	for i := range pc.Points {
		means[i] = meanNeighborDistance(pc, grid, cellSize, span, i, opts.NumNeighbors)
	}

	var sum, sumSq float64
	for _, m := range means {
		sum += m
		sumSq += m * m
	}
	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if variance < 0 {
		variance = 0
	}
	cutoff := mean + opts.StdRatio*math.Sqrt(variance)

	keep := roaring.New()
	for i, m := range means {
		if m <= cutoff {
			keep.Add(uint32(i))
		}
	}

	out := cloud.New(int(keep.GetCardinality()))
	it := keep.Iterator()
	for it.HasNext() {
		out.Append(pc.Points[it.Next()])
	}
	return out
}

func allIndices(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return indices
}

// buildGrid hashes every point into a uniform grid whose cell volume is
// sized to hold roughly one neighborhood.
func buildGrid(pc *cloud.PointCloud, neighbors int) (map[cellKey][]int, float64) {
	min := pc.Points[0].Position
	max := min
	for _, p := range pc.Points {
		for a := 0; a < 3; a++ {
			if p.Position[a] < min[a] {
				min[a] = p.Position[a]
			}
			if p.Position[a] > max[a] {
				max[a] = p.Position[a]
			}
		}
	}

	volume := 1.0
	for a := 0; a < 3; a++ {
		extent := max[a] - min[a]
		if extent <= 0 {
			extent = 1
		}
		volume *= extent
	}
	cellSize := math.Cbrt(volume * float64(neighbors) / float64(pc.Len()))
	if cellSize <= 0 || math.IsNaN(cellSize) || math.IsInf(cellSize, 0) {
		cellSize = 1
	}

	grid := make(map[cellKey][]int)
	for i, p := range pc.Points {
		grid[cellOf(p.Position, cellSize)] = append(grid[cellOf(p.Position, cellSize)], i)
	}
	return grid, cellSize
}

func cellOf(p cloud.Position, cellSize float64) cellKey {
	return cellKey{
		int32(math.Floor(p[0] / cellSize)),
		int32(math.Floor(p[1] / cellSize)),
		int32(math.Floor(p[2] / cellSize)),
	}
}

// meanNeighborDistance expands a cube of grid cells around the point
// until enough candidates are found, then averages the k smallest
// distances.
func meanNeighborDistance(pc *cloud.PointCloud, grid map[cellKey][]int, cellSize float64, span, idx, k int) float64 {
	center := cellOf(pc.Points[idx].Position, cellSize)
	pos := pc.Points[idx].Position

	var dists []float64
	for radius := int32(1); ; radius++ {
		dists = dists[:0]
		for dx := -radius; dx <= radius; dx++ {
			for dy := -radius; dy <= radius; dy++ {
				for dz := -radius; dz <= radius; dz++ {
					members := grid[cellKey{center[0] + dx, center[1] + dy, center[2] + dz}]
					for _, m := range members {
						if m == idx {
							continue
						}
						dists = append(dists, pos.SquaredDistance(pc.Points[m].Position))
					}
				}
			}
		}
		if len(dists) >= k || int(radius)*2+1 >= span {
			break
		}
	}

	if len(dists) == 0 {
		return 0
	}
	sort.Float64s(dists)
	if len(dists) > k {
		dists = dists[:k]
	}
	var sum float64
	for _, d := range dists {
		sum += math.Sqrt(d)
	}
	return sum / float64(len(dists))
}

// gridSpan returns the largest cell extent along any axis, used to bound
// the neighbor search expansion for degenerate distributions.
func gridSpan(grid map[cellKey][]int) int {
	var min, max cellKey
	first := true
	for k := range grid {
		if first {
			min, max = k, k
			first = false
			continue
		}
		for a := 0; a < 3; a++ {
			if k[a] < min[a] {
				min[a] = k[a]
			}
			if k[a] > max[a] {
				max[a] = k[a]
			}
		}
	}
	span := 1
	for a := 0; a < 3; a++ {
		if s := int(max[a]-min[a]) + 1; s > span {
			span = s
		}
	}
	return span
}
