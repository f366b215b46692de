package bands

import (
	"reflect"
	"strconv"
)

// Dimension is either a fixed length in points or a marker meaning
// "use the corresponding dimension of the containing band".
type Dimension struct {
	value   float64
	inherit bool
}

// Inherit defers a width or height to the containing band
var Inherit = Dimension{inherit: true}

// Fixed returns a concrete dimension
func Fixed(v float64) Dimension {
	return Dimension{value: v}
}

// IsInherit reports whether d defers to its container
func (d Dimension) IsInherit() bool {
	return d.inherit
}

// Value returns the fixed length. It is 0 for an unresolved Inherit.
func (d Dimension) Value() float64 {
	if d.inherit {
		return 0
	}
	return d.value
}

func (d Dimension) String() string {
	if d.inherit {
		return "band"
	}
	return strconv.FormatFloat(d.value, 'f', -1, 64)
}

// Container is anything an element can take inherited dimensions from
type Container interface {
	ContainerWidth() float64
	ContainerHeight() float64
}

// ResolveWidth returns a fixed width unchanged. An inherited width takes the
// container's width, or stays Inherit when c is nil.
func ResolveWidth(d Dimension, c Container) Dimension {
	if d.inherit && !isNilContainer(c) {
		return Fixed(c.ContainerWidth())
	}
	return d
}

// ResolveHeight is the vertical counterpart of ResolveWidth
func ResolveHeight(d Dimension, c Container) Dimension {
	if d.inherit && !isNilContainer(c) {
		return Fixed(c.ContainerHeight())
	}
	return d
}

func isNilContainer(c Container) bool {
	if c == nil {
		return true
	}
	rv := reflect.ValueOf(c)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
