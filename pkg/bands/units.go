package bands

import (
	"fmt"
	"strings"
)

// Lengths are expressed in PostScript points.
const (
	Point = 1.0
	Inch  = 72.0
	Cm    = Inch / 2.54
	Mm    = Cm / 10
)

// PageSize is a (width, height) pair in points
type PageSize struct {
	Width  float64
	Height float64
}

// Common page sizes in portrait orientation.
var (
	A3     = PageSize{Width: 297 * Mm, Height: 420 * Mm}
	A4     = PageSize{Width: 210 * Mm, Height: 297 * Mm}
	A5     = PageSize{Width: 148 * Mm, Height: 210 * Mm}
	Letter = PageSize{Width: 8.5 * Inch, Height: 11 * Inch}
	Legal  = PageSize{Width: 8.5 * Inch, Height: 14 * Inch}
)

var namedPageSizes = map[string]PageSize{
	"a3":     A3,
	"a4":     A4,
	"a5":     A5,
	"letter": Letter,
	"legal":  Legal,
}

// LookupPageSize finds a predefined page size by case-insensitive name
func LookupPageSize(name string) (PageSize, bool) {
	size, ok := namedPageSizes[strings.ToLower(strings.TrimSpace(name))]
	return size, ok
}

// Landscape swaps the width and height of a page size
func Landscape(size PageSize) PageSize {
	return PageSize{Width: size.Height, Height: size.Width}
}

// Color is an opaque color value handed through to generators unchanged.
// By convention it holds a hex RGB string such as "#000000".
type Color string

const (
	Black Color = "#000000"
	White Color = "#ffffff"
)

// RGB builds a Color from 8-bit channels
func RGB(r, g, b uint8) Color {
	return Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
}

// Style holds raw style attributes (font, alignment, ...). No cascade is applied.
type Style map[string]interface{}

// Clone returns a deep copy: nested maps and slices are copied too. nil stays nil.
func (s Style) Clone() Style {
	if s == nil {
		return nil
	}
	out := make(Style, len(s))
	for k, v := range s {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue copies the maps and slices a decoded document is made of.
// Any other value is returned as is.
func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case Style:
		return val.Clone()
	case map[string]interface{}:
		if val == nil {
			return val
		}
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []interface{}:
		if val == nil {
			return val
		}
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case JSONRecord:
		return append(JSONRecord(nil), val...)
	}
	return v
}

// Border describes one stroked edge
type Border struct {
	Width float64
	Color Color
}

// Edge identifies one side of a rectangle
type Edge int

const (
	EdgeTop Edge = iota
	EdgeRight
	EdgeBottom
	EdgeLeft
)

func (e Edge) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeRight:
		return "right"
	case EdgeBottom:
		return "bottom"
	case EdgeLeft:
		return "left"
	default:
		return "unknown"
	}
}

// Borders holds one optional border per edge. All applies to every edge that has no
// explicit border of its own.
type Borders struct {
	All    *Border
	Top    *Border
	Right  *Border
	Bottom *Border
	Left   *Border
}

// Edge returns the border drawn on the given side, or nil
func (b Borders) Edge(e Edge) *Border {
	var edge *Border
	switch e {
	case EdgeTop:
		edge = b.Top
	case EdgeRight:
		edge = b.Right
	case EdgeBottom:
		edge = b.Bottom
	case EdgeLeft:
		edge = b.Left
	}
	if edge != nil {
		return edge
	}
	return b.All
}

// IsZero reports whether no edge has a border
func (b Borders) IsZero() bool {
	return b.All == nil && b.Top == nil && b.Right == nil && b.Bottom == nil && b.Left == nil
}

// Clone returns a copy that shares no pointers with b
func (b Borders) Clone() Borders {
	return Borders{
		All:    cloneBorder(b.All),
		Top:    cloneBorder(b.Top),
		Right:  cloneBorder(b.Right),
		Bottom: cloneBorder(b.Bottom),
		Left:   cloneBorder(b.Left),
	}
}

func cloneBorder(b *Border) *Border {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}
