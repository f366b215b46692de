package bands

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Box is the geometry and raw style shared by every element. Width and
// Height are stored as given; use ResolveWidth/ResolveHeight to read them
// against the containing band.
type Box struct {
	Left   float64
	Top    float64
	Width  Dimension
	Height Dimension
	Style  Style
}

// SetWidth stores w without validation
func (b *Box) SetWidth(w Dimension) { b.Width = w }

// SetHeight stores h without validation
func (b *Box) SetHeight(h Dimension) { b.Height = h }

// ResolveWidth returns the fixed width, or the container's width when the
// box inherits it. With no container an inherited width stays Inherit.
func (b *Box) ResolveWidth(c Container) Dimension {
	return ResolveWidth(b.Width, c)
}

// ResolveHeight is the vertical counterpart of ResolveWidth
func (b *Box) ResolveHeight(c Container) Dimension {
	return ResolveHeight(b.Height, c)
}

func (b Box) clone() Box {
	b.Style = b.Style.Clone()
	return b
}

// Element is a positionable visual leaf placed inside a band
type Element interface {
	Geometry() *Box
	// Clone returns an independent copy; mutating it never affects the receiver
	Clone() Element
}

// Label prints fixed text
type Label struct {
	Box
	Text string
}

func (l *Label) Geometry() *Box { return &l.Box }

func (l *Label) Clone() Element {
	c := *l
	c.Box = l.Box.clone()
	return &c
}

// ObjectValue prints the value of a record field. A detail band is cloned
// per record and the clone's ObjectValues are bound to that record.
type ObjectValue struct {
	Box
	AttributeName string
	// DisplayFormat is a fmt verb such as "%.2f"; "%v" when empty
	DisplayFormat string
	// Compute replaces the attribute lookup when set
	Compute func(record interface{}) (interface{}, error)

	Value interface{}
	Bound bool
}

func (o *ObjectValue) Geometry() *Box { return &o.Box }

func (o *ObjectValue) Clone() Element {
	c := *o
	c.Box = o.Box.clone()
	c.Value = cloneValue(o.Value)
	return &c
}

// Bind reads the value for record. A missing field leaves the value empty,
// unless StrictFields is set in the global configuration.
func (o *ObjectValue) Bind(record interface{}) error {
	var (
		value interface{}
		err   error
	)
	if o.Compute != nil {
		value, err = o.Compute(record)
	} else {
		value, err = FieldValue(record, o.AttributeName)
	}

	if err != nil {
		if IsFieldError(err) && !GetGlobalConfig().StrictFields {
			value, err = nil, nil
		} else {
			return WithContext(err, "bind object value", map[string]interface{}{"attribute": o.AttributeName})
		}
	}

	o.Value = value
	o.Bound = true
	return nil
}

// Text formats the bound value
func (o *ObjectValue) Text() string {
	if o.Value == nil {
		return ""
	}
	format := o.DisplayFormat
	if format == "" {
		format = "%v"
	}
	return fmt.Sprintf(format, o.Value)
}

// SystemContext carries the values SystemField placeholders expand to
type SystemContext struct {
	Title      string
	Author     string
	PageNumber int
	PageCount  int
	Now        time.Time
	Locale     string
}

// SystemField prints report-level values. Expression placeholders:
//
//	%(report_title)s  %(report_author)s  %(page_number)d  %(page_count)d
//	%(now)s           %(now:%d/%m/%Y)s
type SystemField struct {
	Box
	Expression string
}

func (s *SystemField) Geometry() *Box { return &s.Box }

func (s *SystemField) Clone() Element {
	c := *s
	c.Box = s.Box.clone()
	return &c
}

var systemPlaceholder = regexp.MustCompile(`%\(([a-z_]+)(?::([^)]*))?\)([sd])`)

// Render expands the placeholders of the expression. Unknown placeholders are left as written.
func (s *SystemField) Render(ctx SystemContext) string {
	return systemPlaceholder.ReplaceAllStringFunc(s.Expression, func(match string) string {
		parts := systemPlaceholder.FindStringSubmatch(match)
		name, pattern := parts[1], parts[2]

		switch name {
		case "report_title":
			return ctx.Title
		case "report_author":
			return ctx.Author
		case "page_number":
			return strconv.Itoa(ctx.PageNumber)
		case "page_count":
			return strconv.Itoa(ctx.PageCount)
		case "now":
			if pattern == "" {
				pattern = "%Y-%m-%d %H:%M"
			}
			return FormatDateLocale(ctx.Now, pattern, ctx.Locale)
		default:
			return match
		}
	})
}

// Line is a straight stroke from (Left, Top) to (Left+Width, Top+Height)
type Line struct {
	Box
	Stroke Border
}

func (l *Line) Geometry() *Box { return &l.Box }

func (l *Line) Clone() Element {
	c := *l
	c.Box = l.Box.clone()
	return &c
}

// Rect is a rectangle with an optional fill and stroke
type Rect struct {
	Box
	Fill   *Color
	Stroke *Border
}

func (r *Rect) Geometry() *Box { return &r.Box }

func (r *Rect) Clone() Element {
	c := *r
	c.Box = r.Box.clone()
	if r.Fill != nil {
		fill := *r.Fill
		c.Fill = &fill
	}
	c.Stroke = cloneBorder(r.Stroke)
	return &c
}
