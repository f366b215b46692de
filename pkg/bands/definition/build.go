package definition

import (
	"errors"
	"fmt"

	"github.com/benjaminschreck/go-bands/pkg/bands"
)

// builder turns a Definition into bands values, collecting every issue
// under its dotted location in the file.
type builder struct {
	cerr *bands.ConfigurationError
}

// Build creates the report declared by d, bound to records
func (d *Definition) Build(records bands.Collection) (*bands.Report, error) {
	b := &builder{cerr: &bands.ConfigurationError{Component: "definition"}}

	cfg := bands.ReportConfig{
		Title:              d.Title,
		Author:             d.Author,
		PrintIfEmpty:       d.PrintIfEmpty,
		Locale:             d.Locale,
		DefaultStyle:       d.Style,
		DefaultFontColor:   d.Colors.Font,
		DefaultStrokeColor: d.Colors.Stroke,
		DefaultFillColor:   d.Colors.Fill,
		Borders:            d.Borders.build(),
		Begin:              b.band("bands.begin", d.Bands.Begin),
		Summary:            b.band("bands.summary", d.Bands.Summary),
		PageHeader:         b.band("bands.page_header", d.Bands.PageHeader),
		PageFooter:         b.band("bands.page_footer", d.Bands.PageFooter),
		Detail:             b.band("bands.detail", d.Bands.Detail),
		Groups:             b.groups("groups", d.Groups),
	}

	global := bands.GetGlobalConfig()
	switch size, ok := bands.LookupPageSize(global.DefaultPageSize); {
	case d.PageSize != nil:
		cfg.PageSize = d.PageSize.Size
	case ok:
		cfg.PageSize = size
	default:
		cfg.PageSize = bands.A4
	}
	if d.Landscape {
		cfg.PageSize = bands.Landscape(cfg.PageSize)
	}
	if d.Margins != nil {
		m := d.Margins.build(global.DefaultMargin)
		cfg.Margins = &m
	}

	for i, s := range d.SubReports {
		if sub := b.subReport(fmt.Sprintf("subreports[%d]", i), s); sub != nil {
			cfg.SubReports = append(cfg.SubReports, sub)
		}
	}

	if err := b.cerr.Err(); err != nil {
		return nil, err
	}

	report, err := bands.NewReport(cfg, records)
	if err != nil {
		b.merge("", err)
		return nil, b.cerr
	}
	return report, nil
}

// Validate builds the definition without records and reports any issue
func (d *Definition) Validate() error {
	_, err := d.Build(nil)
	return err
}

// merge copies the issues of a configuration error under prefix
func (b *builder) merge(prefix string, err error) {
	var cerr *bands.ConfigurationError
	if !errors.As(err, &cerr) {
		b.cerr.Add(prefix, "%v", err)
		return
	}
	for _, issue := range cerr.Issues {
		field := issue.Field
		if prefix != "" {
			field = prefix + "." + field
		}
		b.cerr.Add(field, "%s", issue.Message)
	}
}

func (b *builder) band(at string, def *Band) *bands.Band {
	if def == nil {
		return nil
	}

	elements := make([]bands.Element, 0, len(def.Elements))
	for i, el := range def.Elements {
		if element := b.element(fmt.Sprintf("%s.elements[%d]", at, i), el); element != nil {
			elements = append(elements, element)
		}
	}

	children := make([]*bands.Band, 0, len(def.Children))
	for i := range def.Children {
		if child := b.band(fmt.Sprintf("%s.children[%d]", at, i), &def.Children[i]); child != nil {
			children = append(children, child)
		}
	}

	band, err := bands.NewBand(bands.BandConfig{
		Height:       def.Height,
		Width:        def.Width,
		Visible:      def.Visible,
		ForceNewPage: def.ForceNewPage,
		Borders:      def.Borders.build(),
		Elements:     elements,
		ChildBands:   children,
		DefaultStyle: def.Style,
	})
	if err != nil {
		b.merge(at, err)
		return nil
	}
	return band
}

func (b *builder) element(at string, def Element) bands.Element {
	box := bands.Box{
		Left:   def.Left,
		Top:    def.Top,
		Width:  def.Width.Dimension,
		Height: def.Height.Dimension,
		Style:  def.Style,
	}

	unexpected := func(key string, set bool) {
		if set {
			b.cerr.Add(at+"."+key, "not allowed on %s elements", def.Kind)
		}
	}

	switch def.Kind {
	case KindLabel:
		unexpected("attribute", def.Attribute != "")
		unexpected("expression", def.Expression != "")
		return &bands.Label{Box: box, Text: def.Text}

	case KindValue:
		if def.Attribute == "" {
			b.cerr.Add(at+".attribute", "is required")
			return nil
		}
		unexpected("text", def.Text != "")
		return &bands.ObjectValue{Box: box, AttributeName: def.Attribute, DisplayFormat: def.Format}

	case KindSystem:
		if def.Expression == "" {
			b.cerr.Add(at+".expression", "is required")
			return nil
		}
		unexpected("attribute", def.Attribute != "")
		return &bands.SystemField{Box: box, Expression: def.Expression}

	case KindLine:
		unexpected("fill", def.Fill != nil)
		line := &bands.Line{Box: box, Stroke: bands.Border{Width: 1, Color: bands.Black}}
		if def.Stroke != nil {
			line.Stroke = def.Stroke.build()
		}
		return line

	case KindRect:
		rect := &bands.Rect{Box: box, Fill: def.Fill}
		if def.Stroke != nil {
			stroke := def.Stroke.build()
			rect.Stroke = &stroke
		}
		return rect

	case "":
		b.cerr.Add(at+".kind", "is required")
	default:
		b.cerr.Add(at+".kind", "unknown element kind %q", def.Kind)
	}
	return nil
}

func (b *builder) groups(at string, defs []Group) []*bands.Group {
	out := make([]*bands.Group, 0, len(defs))
	for i, def := range defs {
		loc := fmt.Sprintf("%s[%d]", at, i)
		g, err := bands.NewGroup(bands.GroupConfig{
			AttributeName: def.Attribute,
			Header:        b.band(loc+".header", def.Header),
			Footer:        b.band(loc+".footer", def.Footer),
		})
		if err != nil {
			b.merge(loc, err)
			continue
		}
		out = append(out, g)
	}
	return out
}

func (b *builder) subReport(at string, def SubReport) *bands.SubReport {
	var (
		resolver bands.RelationResolver
		set      int
	)
	if def.Query != "" {
		resolver = bands.NewExpression(def.Query, nil)
		set++
	}
	if def.Path != "" {
		resolver = bands.FieldAccess{Path: def.Path}
		set++
	}
	if def.JSONPath != "" {
		resolver = bands.JSONPath{Path: def.JSONPath}
		set++
	}
	if set != 1 {
		b.cerr.Add(at, "exactly one of query, path or jsonpath is required")
	}

	cfg := bands.SubReportConfig{
		Resolver:     resolver,
		Begin:        b.band(at+".bands.begin", def.Bands.Begin),
		Summary:      b.band(at+".bands.summary", def.Bands.Summary),
		PageHeader:   b.band(at+".bands.page_header", def.Bands.PageHeader),
		PageFooter:   b.band(at+".bands.page_footer", def.Bands.PageFooter),
		Detail:       b.band(at+".bands.detail", def.Bands.Detail),
		Groups:       b.groups(at+".groups", def.Groups),
		PrintIfEmpty: def.PrintIfEmpty,

		DefaultFontColor:   def.Colors.Font,
		DefaultStrokeColor: def.Colors.Stroke,
		DefaultFillColor:   def.Colors.Fill,
		Borders:            def.Borders.build(),
	}
	if set != 1 {
		return nil
	}

	sub, err := bands.NewSubReport(cfg)
	if err != nil {
		b.merge(at, err)
		return nil
	}
	return sub
}

func (m *Margins) build(fallback float64) bands.Margins {
	side := func(v *float64) float64 {
		if v == nil {
			return fallback
		}
		return *v
	}
	return bands.Margins{
		Top:    side(m.Top),
		Bottom: side(m.Bottom),
		Left:   side(m.Left),
		Right:  side(m.Right),
	}
}

func (b *Border) build() bands.Border {
	color := b.Color
	if color == "" {
		color = bands.Black
	}
	return bands.Border{Width: b.Width, Color: color}
}

func (b *Borders) build() bands.Borders {
	if b == nil {
		return bands.Borders{}
	}
	edge := func(e *Border) *bands.Border {
		if e == nil {
			return nil
		}
		built := e.build()
		return &built
	}
	return bands.Borders{
		All:    edge(b.All),
		Top:    edge(b.Top),
		Right:  edge(b.Right),
		Bottom: edge(b.Bottom),
		Left:   edge(b.Left),
	}
}
