package ply

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidHeader is returned for files that are not valid PLY.
	ErrInvalidHeader = errors.New("invalid PLY header")

	// ErrUnsupportedFormat is returned for PLY variants the codec does
	// not handle (currently big-endian files).
	ErrUnsupportedFormat = errors.New("unsupported PLY format")

	// ErrMissingColor is returned when the vertex element lacks a
	// recognizable color triple.
	ErrMissingColor = errors.New("point cloud has no color attribute")
)

// Format is the PLY body encoding.
type Format int

const (
	FormatASCII Format = iota
	FormatBinaryLittleEndian
)

// String returns the header spelling of the format.
func (f Format) String() string {
	if f == FormatBinaryLittleEndian {
		return "binary_little_endian"
	}
	return "ascii"
}

// ScalarType is a PLY scalar property type.
type ScalarType int

const (
	Int8 ScalarType = iota
	UInt8
	Int16
	UInt16
	Int32
	UInt32
	Float32
	Float64
)

// Size returns the encoded size of the type in bytes.
func (t ScalarType) Size() int {
	switch t {
	case Int8, UInt8:
		return 1
	case Int16, UInt16:
		return 2
	case Int32, UInt32, Float32:
		return 4
	default:
		return 8
	}
}

// String returns the canonical header spelling of the type.
func (t ScalarType) String() string {
	switch t {
	case Int8:
		return "char"
	case UInt8:
		return "uchar"
	case Int16:
		return "short"
	case UInt16:
		return "ushort"
	case Int32:
		return "int"
	case UInt32:
		return "uint"
	case Float32:
		return "float"
	default:
		return "double"
	}
}

// maxValue returns the largest representable value for integer types,
// used to scale color channels to [0, 1]. Float types return 1: float
// colors are conventionally already normalized.
func (t ScalarType) maxValue() float64 {
	switch t {
	case Int8:
		return 127
	case UInt8:
		return 255
	case Int16:
		return 32767
	case UInt16:
		return 65535
	case Int32:
		return 2147483647
	case UInt32:
		return 4294967295
	default:
		return 1
	}
}

func parseScalarType(s string) (ScalarType, error) {
	switch s {
	case "char", "int8":
		return Int8, nil
	case "uchar", "uint8":
		return UInt8, nil
	case "short", "int16":
		return Int16, nil
	case "ushort", "uint16":
		return UInt16, nil
	case "int", "int32":
		return Int32, nil
	case "uint", "uint32":
		return UInt32, nil
	case "float", "float32":
		return Float32, nil
	case "double", "float64":
		return Float64, nil
	default:
		return 0, fmt.Errorf("%w: unknown property type %q", ErrInvalidHeader, s)
	}
}

// Property describes one vertex property.
type Property struct {
	Name      string
	Type      ScalarType
	List      bool
	CountType ScalarType // only meaningful when List is true
}

// Element describes one PLY element and its property layout.
type Element struct {
	Name       string
	Count      int
	Properties []Property
}

// Header is the parsed PLY header.
type Header struct {
	Format   Format
	Version  string
	Comments []string
	ObjInfo  []string
	Elements []Element
}

// Vertex returns the vertex element, or nil if the file has none.
func (h *Header) Vertex() *Element {
	for i := range h.Elements {
		if h.Elements[i].Name == "vertex" {
			return &h.Elements[i]
		}
	}
	return nil
}

// parseHeader reads and validates the header section.
func parseHeader(br *bufio.Reader) (*Header, error) {
	magic, err := readHeaderLine(br)
	if err != nil {
		return nil, err
	}
	if magic != "ply" {
		return nil, fmt.Errorf("%w: missing ply magic", ErrInvalidHeader)
	}

	h := &Header{Version: "1.0"}
	sawFormat := false

	for {
		line, err := readHeaderLine(br)
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "end_header":
			if !sawFormat {
				return nil, fmt.Errorf("%w: missing format line", ErrInvalidHeader)
			}
			return h, nil

		case "format":
			if len(fields) < 3 {
				return nil, fmt.Errorf("%w: malformed format line", ErrInvalidHeader)
			}
			switch fields[1] {
			case "ascii":
				h.Format = FormatASCII
			case "binary_little_endian":
				h.Format = FormatBinaryLittleEndian
			case "binary_big_endian":
				return nil, fmt.Errorf("%w: binary_big_endian", ErrUnsupportedFormat)
			default:
				return nil, fmt.Errorf("%w: format %q", ErrUnsupportedFormat, fields[1])
			}
			h.Version = fields[2]
			sawFormat = true

		case "comment":
			h.Comments = append(h.Comments, strings.TrimSpace(strings.TrimPrefix(line, "comment")))

		case "obj_info":
			h.ObjInfo = append(h.ObjInfo, strings.TrimSpace(strings.TrimPrefix(line, "obj_info")))

		case "element":
			if len(fields) != 3 {
				return nil, fmt.Errorf("%w: malformed element line", ErrInvalidHeader)
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("%w: element count %q", ErrInvalidHeader, fields[2])
			}
			h.Elements = append(h.Elements, Element{Name: fields[1], Count: count})

		case "property":
			if len(h.Elements) == 0 {
				return nil, fmt.Errorf("%w: property before element", ErrInvalidHeader)
			}
			el := &h.Elements[len(h.Elements)-1]
			switch {
			case len(fields) == 5 && fields[1] == "list":
				countType, err := parseScalarType(fields[2])
				if err != nil {
					return nil, err
				}
				valueType, err := parseScalarType(fields[3])
				if err != nil {
					return nil, err
				}
				el.Properties = append(el.Properties, Property{
					Name:      fields[4],
					Type:      valueType,
					List:      true,
					CountType: countType,
				})
			case len(fields) == 3:
				typ, err := parseScalarType(fields[1])
				if err != nil {
					return nil, err
				}
				el.Properties = append(el.Properties, Property{Name: fields[2], Type: typ})
			default:
				return nil, fmt.Errorf("%w: malformed property line", ErrInvalidHeader)
			}

		default:
			// Unknown header keywords are ignored.
		}
	}
}

func readHeaderLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("%w: truncated header", ErrInvalidHeader)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
