package ply

import (
	"bufio"
	"fmt"
	"io"

	"github.com/hupe1980/prismgo/cloud"
)

// Encode writes a point cloud using the vertex layout and format of the
// given header. Only the vertex element is emitted: connectivity elements
// reference vertex indices and do not survive subsetting.
//
// Each point's raw record is written verbatim, so no attribute is ever
// recomputed, rounded, or lost on the way through.
func Encode(w io.Writer, h Header, pc *cloud.PointCloud) error {
	vertex := h.Vertex()
	if vertex == nil {
		return fmt.Errorf("%w: no vertex element", ErrInvalidHeader)
	}

	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "ply")
	fmt.Fprintf(bw, "format %s %s\n", h.Format, h.Version)
	for _, c := range h.Comments {
		fmt.Fprintf(bw, "comment %s\n", c)
	}
	for _, o := range h.ObjInfo {
		fmt.Fprintf(bw, "obj_info %s\n", o)
	}
	fmt.Fprintf(bw, "element vertex %d\n", pc.Len())
	for _, p := range vertex.Properties {
		if p.List {
			fmt.Fprintf(bw, "property list %s %s %s\n", p.CountType, p.Type, p.Name)
		} else {
			fmt.Fprintf(bw, "property %s %s\n", p.Type, p.Name)
		}
	}
	fmt.Fprintln(bw, "end_header")

	for i := range pc.Points {
		if _, err := bw.Write(pc.Points[i].Raw); err != nil {
			return err
		}
		if h.Format == FormatASCII {
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
