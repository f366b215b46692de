package bands

import "fmt"

// DefaultBandHeight is the height of a band that does not declare one
const DefaultBandHeight = 1 * Cm

// BandConfig lists every option a band accepts. Nil pointers and empty
// slices take the defaults.
type BandConfig struct {
	Height       *float64
	Width        float64
	Visible      *bool
	ForceNewPage bool
	Borders      Borders
	Elements     []Element
	ChildBands   []*Band
	DefaultStyle Style
}

// Band is a horizontal region holding elements and nested child bands.
// A band declared on a report is a template: generators render clones of
// it so per-record state never reaches the template.
type Band struct {
	Height       float64
	Width        float64
	Visible      bool
	ForceNewPage bool
	Borders      Borders
	Elements     []Element
	ChildBands   []*Band
	DefaultStyle Style
}

// Float returns a pointer to v, for optional config fields
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v, for optional config fields
func Bool(v bool) *bool { return &v }

// NewBand builds a band from cfg. Element and child band slices are copied,
// never aliased.
func NewBand(cfg BandConfig) (*Band, error) {
	cerr := &ConfigurationError{Component: "band"}

	b := &Band{
		Height:       DefaultBandHeight,
		Width:        cfg.Width,
		Visible:      true,
		ForceNewPage: cfg.ForceNewPage,
		Borders:      cfg.Borders.Clone(),
		Elements:     make([]Element, 0, len(cfg.Elements)),
		ChildBands:   make([]*Band, 0, len(cfg.ChildBands)),
		DefaultStyle: cfg.DefaultStyle.Clone(),
	}
	if b.DefaultStyle == nil {
		b.DefaultStyle = Style{}
	}

	if cfg.Height != nil {
		if *cfg.Height < 0 {
			cerr.Add("height", "cannot be negative, got %g", *cfg.Height)
		}
		b.Height = *cfg.Height
	}
	if cfg.Width < 0 {
		cerr.Add("width", "cannot be negative, got %g", cfg.Width)
	}
	if cfg.Visible != nil {
		b.Visible = *cfg.Visible
	}

	for i, el := range cfg.Elements {
		if el == nil {
			cerr.Add(fmt.Sprintf("elements[%d]", i), "element is nil")
			continue
		}
		b.Elements = append(b.Elements, el)
	}
	for i, child := range cfg.ChildBands {
		if child == nil {
			cerr.Add(fmt.Sprintf("child_bands[%d]", i), "band is nil")
			continue
		}
		b.ChildBands = append(b.ChildBands, child)
	}

	if err := cerr.Err(); err != nil {
		return nil, err
	}
	return b, nil
}

// MustBand is like NewBand but panics on an invalid config. It is meant for
// report declarations in package-level variables.
func MustBand(cfg BandConfig) *Band {
	b, err := NewBand(cfg)
	if err != nil {
		panic(err)
	}
	return b
}

// ContainerWidth implements Container
func (b *Band) ContainerWidth() float64 { return b.Width }

// ContainerHeight implements Container
func (b *Band) ContainerHeight() float64 { return b.Height }

// AddElement appends elements to the band
func (b *Band) AddElement(elements ...Element) {
	b.Elements = append(b.Elements, elements...)
}

// AddChild appends nested bands rendered right after this one
func (b *Band) AddChild(children ...*Band) {
	b.ChildBands = append(b.ChildBands, children...)
}

// Clone returns a deep copy: elements, child bands (recursively), borders
// and style are all duplicated.
func (b *Band) Clone() *Band {
	if b == nil {
		return nil
	}

	c := &Band{
		Height:       b.Height,
		Width:        b.Width,
		Visible:      b.Visible,
		ForceNewPage: b.ForceNewPage,
		Borders:      b.Borders.Clone(),
		DefaultStyle: b.DefaultStyle.Clone(),
	}
	if b.Elements != nil {
		c.Elements = make([]Element, len(b.Elements))
		for i, el := range b.Elements {
			if el != nil {
				c.Elements[i] = el.Clone()
			}
		}
	}
	if b.ChildBands != nil {
		c.ChildBands = make([]*Band, len(b.ChildBands))
		for i, child := range b.ChildBands {
			c.ChildBands[i] = child.Clone()
		}
	}
	return c
}

// Walk calls fn for b and every nested child band, depth first
func (b *Band) Walk(fn func(*Band)) {
	if b == nil {
		return
	}
	fn(b)
	for _, child := range b.ChildBands {
		child.Walk(fn)
	}
}

// Bind binds every ObjectValue of the band tree to record. Call it on a clone.
func (b *Band) Bind(record interface{}) error {
	var err error
	b.Walk(func(band *Band) {
		if err != nil {
			return
		}
		for _, el := range band.Elements {
			if ov, ok := el.(*ObjectValue); ok {
				if err = ov.Bind(record); err != nil {
					return
				}
			}
		}
	})
	return err
}

// TotalHeight is the height of the band plus its visible child bands
func (b *Band) TotalHeight() float64 {
	if b == nil || !b.Visible {
		return 0
	}
	total := b.Height
	for _, child := range b.ChildBands {
		total += child.TotalHeight()
	}
	return total
}
