package cloud

// Color is a parsed color triple with channel values normalized to [0, 1].
// Codecs are responsible for scaling from their native channel type
// (e.g. uchar 0..255) on decode; the raw record keeps the native values.
type Color [3]float64

// Sum returns the total intensity of the color.
func (c Color) Sum() float64 {
	return c[0] + c[1] + c[2]
}

// Position is a 3D point position.
type Position [3]float64

// SquaredDistance returns the squared Euclidean distance to other.
func (p Position) SquaredDistance(other Position) float64 {
	dx := p[0] - other[0]
	dy := p[1] - other[1]
	dz := p[2] - other[2]
	return dx*dx + dy*dy + dz*dz
}

// Point is one sample of a colored point cloud.
//
// Raw holds the point's original encoded record (one ASCII line or one
// binary vertex record, codec-dependent). It is opaque to the pipeline
// and is what writers emit, so attributes beyond position and color are
// never inspected or altered.
type Point struct {
	Position Position
	Color    Color
	Raw      []byte
}

// PointCloud is an ordered sequence of points.
type PointCloud struct {
	Points []Point
}

// New returns an empty PointCloud with capacity for size points.
func New(size int) *PointCloud {
	return &PointCloud{
		Points: make([]Point, 0, size),
	}
}

// Len returns the number of points in the cloud.
func (pc *PointCloud) Len() int {
	if pc == nil {
		return 0
	}
	return len(pc.Points)
}

// Append adds a point to the end of the cloud.
func (pc *PointCloud) Append(p Point) {
	pc.Points = append(pc.Points, p)
}

// Subset returns a new cloud containing the points at the given indices,
// in the order the indices are provided. Point values are copied; Raw
// slices are shared with the source cloud, which is safe because the
// pipeline never mutates them.
func (pc *PointCloud) Subset(indices []int) *PointCloud {
	out := New(len(indices))
	for _, i := range indices {
		out.Points = append(out.Points, pc.Points[i])
	}
	return out
}
