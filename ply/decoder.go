package ply

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/hupe1980/prismgo/cloud"
)

// File is a decoded PLY file: the header (needed to write the result in
// the same format) plus the point cloud.
type File struct {
	Header Header
	Cloud  *cloud.PointCloud
}

// vertexLayout locates the position and color properties inside the
// vertex element.
type vertexLayout struct {
	x, y, z int
	r, g, b int
}

// resolveLayout finds x/y/z and a color triple in the vertex element.
// Color names follow the two common conventions: red/green/blue and
// diffuse_red/diffuse_green/diffuse_blue.
func resolveLayout(el *Element) (vertexLayout, error) {
	l := vertexLayout{x: -1, y: -1, z: -1, r: -1, g: -1, b: -1}
	for i, p := range el.Properties {
		if p.List {
			continue
		}
		switch p.Name {
		case "x":
			l.x = i
		case "y":
			l.y = i
		case "z":
			l.z = i
		case "red", "diffuse_red":
			l.r = i
		case "green", "diffuse_green":
			l.g = i
		case "blue", "diffuse_blue":
			l.b = i
		}
	}
	if l.x < 0 || l.y < 0 || l.z < 0 {
		return l, fmt.Errorf("%w: vertex element lacks x/y/z", ErrInvalidHeader)
	}
	if l.r < 0 || l.g < 0 || l.b < 0 {
		return l, ErrMissingColor
	}
	return l, nil
}

// Decode parses a PLY stream into a File. The vertex element must carry
// positions and colors; other elements are consumed and dropped.
func Decode(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)

	h, err := parseHeader(br)
	if err != nil {
		return nil, err
	}

	vertex := h.Vertex()
	if vertex == nil {
		return nil, fmt.Errorf("%w: no vertex element", ErrInvalidHeader)
	}
	layout, err := resolveLayout(vertex)
	if err != nil {
		return nil, err
	}

	f := &File{Header: *h}
	for i := range h.Elements {
		el := &h.Elements[i]
		if el.Name == "vertex" {
			if h.Format == FormatASCII {
				f.Cloud, err = decodeASCIIVertices(br, el, layout)
			} else {
				f.Cloud, err = decodeBinaryVertices(br, el, layout)
			}
		} else {
			err = consumeElement(br, h.Format, el)
		}
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}

func decodeASCIIVertices(br *bufio.Reader, el *Element, layout vertexLayout) (*cloud.PointCloud, error) {
	pc := cloud.New(el.Count)
	for n := 0; n < el.Count; n++ {
		line, err := readBodyLine(br)
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", n, err)
		}

		fields := strings.Fields(line)
		values := make([]float64, len(el.Properties))
		pos := 0
		for i, prop := range el.Properties {
			if pos >= len(fields) {
				return nil, fmt.Errorf("vertex %d: truncated record", n)
			}
			v, err := strconv.ParseFloat(fields[pos], 64)
			if err != nil {
				return nil, fmt.Errorf("vertex %d: %w", n, err)
			}
			if prop.List {
				count := int(v)
				pos += 1 + count
				if pos > len(fields) {
					return nil, fmt.Errorf("vertex %d: truncated list", n)
				}
				continue
			}
			values[i] = v
			pos++
		}

		pc.Append(makePoint(el, layout, values, []byte(line)))
	}
	return pc, nil
}

func decodeBinaryVertices(br *bufio.Reader, el *Element, layout vertexLayout) (*cloud.PointCloud, error) {
	pc := cloud.New(el.Count)
	for n := 0; n < el.Count; n++ {
		var record []byte
		values := make([]float64, len(el.Properties))

		for i, prop := range el.Properties {
			if prop.List {
				countRaw, count, err := readBinaryScalar(br, prop.CountType)
				if err != nil {
					return nil, fmt.Errorf("vertex %d: %w", n, err)
				}
				record = append(record, countRaw...)
				for j := 0; j < int(count); j++ {
					raw, _, err := readBinaryScalar(br, prop.Type)
					if err != nil {
						return nil, fmt.Errorf("vertex %d: %w", n, err)
					}
					record = append(record, raw...)
				}
				continue
			}

			raw, v, err := readBinaryScalar(br, prop.Type)
			if err != nil {
				return nil, fmt.Errorf("vertex %d: %w", n, err)
			}
			record = append(record, raw...)
			values[i] = v
		}

		pc.Append(makePoint(el, layout, values, record))
	}
	return pc, nil
}

// makePoint builds a point from decoded property values, scaling color
// channels to [0, 1] by each channel's type range.
func makePoint(el *Element, layout vertexLayout, values []float64, raw []byte) cloud.Point {
	return cloud.Point{
		Position: cloud.Position{values[layout.x], values[layout.y], values[layout.z]},
		Color: cloud.Color{
			values[layout.r] / el.Properties[layout.r].Type.maxValue(),
			values[layout.g] / el.Properties[layout.g].Type.maxValue(),
			values[layout.b] / el.Properties[layout.b].Type.maxValue(),
		},
		Raw: raw,
	}
}

// consumeElement reads past an element the pipeline does not use.
func consumeElement(br *bufio.Reader, format Format, el *Element) error {
	for n := 0; n < el.Count; n++ {
		if format == FormatASCII {
			if _, err := readBodyLine(br); err != nil {
				return fmt.Errorf("element %s record %d: %w", el.Name, n, err)
			}
			continue
		}
		for _, prop := range el.Properties {
			if prop.List {
				_, count, err := readBinaryScalar(br, prop.CountType)
				if err != nil {
					return fmt.Errorf("element %s record %d: %w", el.Name, n, err)
				}
				if _, err := br.Discard(int(count) * prop.Type.Size()); err != nil {
					return fmt.Errorf("element %s record %d: %w", el.Name, n, err)
				}
				continue
			}
			if _, err := br.Discard(prop.Type.Size()); err != nil {
				return fmt.Errorf("element %s record %d: %w", el.Name, n, err)
			}
		}
	}
	return nil
}

func readBodyLine(br *bufio.Reader) (string, error) {
	for {
		line, err := br.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) != "" {
			return line, nil
		}
		if err == io.EOF {
			return "", io.ErrUnexpectedEOF
		}
	}
}

// readBinaryScalar reads one little-endian scalar, returning both its raw
// bytes (for the passthrough record) and its numeric value.
func readBinaryScalar(br *bufio.Reader, t ScalarType) ([]byte, float64, error) {
	buf := make([]byte, t.Size())
	if _, err := io.ReadFull(br, buf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, 0, err
	}

	var v float64
	switch t {
	case Int8:
		v = float64(int8(buf[0]))
	case UInt8:
		v = float64(buf[0])
	case Int16:
		v = float64(int16(binary.LittleEndian.Uint16(buf)))
	case UInt16:
		v = float64(binary.LittleEndian.Uint16(buf))
	case Int32:
		v = float64(int32(binary.LittleEndian.Uint32(buf)))
	case UInt32:
		v = float64(binary.LittleEndian.Uint32(buf))
	case Float32:
		v = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf)))
	default:
		v = math.Float64frombits(binary.LittleEndian.Uint64(buf))
	}
	return buf, v, nil
}
