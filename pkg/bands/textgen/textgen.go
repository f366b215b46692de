// Package textgen is a plain-text generator for bands reports.
//
// Each visible band becomes one line of text (plus one per visible child
// band). Elements are placed at the column matching their horizontal
// position; lines are drawn with dashes and rectangles are skipped.
// Subreport lines are indented under the detail record they belong to.
//
//	lines, err := report.GenerateBy(textgen.New(os.Stdout, textgen.WithWidth(100)))
package textgen

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/benjaminschreck/go-bands/pkg/bands"
)

// DefaultWidth is the number of columns the printable page width maps to
const DefaultWidth = 80

// Option configures a Generator
type Option func(*Generator)

// WithWidth sets the number of text columns
func WithWidth(columns int) Option {
	return func(g *Generator) {
		g.width = columns
	}
}

// WithIndent sets the prefix added per subreport level
func WithIndent(indent string) Option {
	return func(g *Generator) {
		g.indent = indent
	}
}

// Generator writes a report as text. It works on a clone of the report, so
// binding records never touches the declaration it was built from.
type Generator struct {
	report *bands.Report
	w      *bufio.Writer
	width  int
	indent string
	ctx    bands.SystemContext
	lines  int
}

// New returns a generator constructor for bands.Report.GenerateBy. Execute
// returns the number of lines written.
func New(w io.Writer, opts ...Option) bands.NewGeneratorFunc {
	return func(r *bands.Report) (bands.Generator, error) {
		if w == nil {
			return nil, errors.New("textgen: no writer")
		}
		g := &Generator{
			report: r.Clone(),
			w:      bufio.NewWriter(w),
			width:  DefaultWidth,
			indent: "  ",
		}
		for _, opt := range opts {
			opt(g)
		}
		if g.width <= 0 {
			return nil, fmt.Errorf("textgen: width must be positive, got %d", g.width)
		}
		return g, nil
	}
}

// section is the part of a report or subreport the generator walks
type section struct {
	begin      *bands.Band
	summary    *bands.Band
	pageHeader *bands.Band
	pageFooter *bands.Band
	detail     *bands.Band
	groups     []*bands.Group
	subreports []*bands.SubReport
}

// Execute implements bands.Generator
func (g *Generator) Execute() (interface{}, error) {
	r := g.report

	records, err := r.ObjectsList()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 && !r.PrintIfEmpty {
		bands.GetLogger().Debug().Str("report", r.Title).Msg("no records, nothing printed")
		return 0, nil
	}

	g.ctx = r.SystemContext(1, 1)
	s := section{
		begin:      r.Begin,
		summary:    r.Summary,
		pageHeader: r.PageHeader,
		pageFooter: r.PageFooter,
		detail:     r.Detail,
		groups:     r.Groups,
		subreports: r.SubReports,
	}
	if err := g.renderSection(s, records, 0); err != nil {
		return nil, err
	}
	if err := g.w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}
	return g.lines, nil
}

func (g *Generator) renderSection(s section, records []interface{}, depth int) error {
	if err := g.emit(s.pageHeader, nil, depth); err != nil {
		return err
	}
	if err := g.emit(s.begin, nil, depth); err != nil {
		return err
	}

	var previous []interface{}
	for i, record := range records {
		values, err := groupValues(s.groups, record)
		if err != nil {
			return err
		}

		changed := 0
		if i > 0 {
			changed = firstChange(previous, values)
			for level := len(s.groups) - 1; level >= changed; level-- {
				if err := g.emit(s.groups[level].Footer, records[i-1], depth); err != nil {
					return err
				}
			}
		}
		for level := changed; level < len(s.groups); level++ {
			if err := g.emit(s.groups[level].Header, record, depth); err != nil {
				return err
			}
		}

		if err := g.emit(s.detail, record, depth); err != nil {
			return err
		}
		for _, sub := range s.subreports {
			if err := g.renderSubReport(sub, record, depth+1); err != nil {
				return err
			}
		}
		previous = values
	}

	if len(records) > 0 {
		last := records[len(records)-1]
		for level := len(s.groups) - 1; level >= 0; level-- {
			if err := g.emit(s.groups[level].Footer, last, depth); err != nil {
				return err
			}
		}
	}

	if err := g.emit(s.summary, nil, depth); err != nil {
		return err
	}
	return g.emit(s.pageFooter, nil, depth)
}

func (g *Generator) renderSubReport(sub *bands.SubReport, parent interface{}, depth int) error {
	sub.SetParent(parent)
	records, err := sub.ObjectsList()
	if err != nil {
		return err
	}
	if len(records) == 0 && !sub.PrintIfEmpty {
		return nil
	}
	return g.renderSection(section{
		begin:      sub.Begin,
		summary:    sub.Summary,
		pageHeader: sub.PageHeader,
		pageFooter: sub.PageFooter,
		detail:     sub.Detail,
		groups:     sub.Groups,
	}, records, depth)
}

func groupValues(groups []*bands.Group, record interface{}) ([]interface{}, error) {
	values := make([]interface{}, len(groups))
	for i, group := range groups {
		value, err := group.Value(record)
		if err != nil {
			return nil, bands.WithContext(err, "group records", map[string]interface{}{"attribute": group.AttributeName})
		}
		values[i] = value
	}
	return values, nil
}

// firstChange returns the outermost group level whose value changed, or
// len(values) when none did
func firstChange(previous, values []interface{}) int {
	for i := range values {
		if fmt.Sprint(previous[i]) != fmt.Sprint(values[i]) {
			return i
		}
	}
	return len(values)
}

// emit renders a clone of band bound to record
func (g *Generator) emit(band *bands.Band, record interface{}, depth int) error {
	if band == nil || !band.Visible {
		return nil
	}
	prepared := g.report.Prepare(band)
	if record != nil {
		if err := prepared.Bind(record); err != nil {
			return err
		}
	}
	return g.writeBand(prepared, depth)
}

func (g *Generator) writeBand(b *bands.Band, depth int) error {
	if !b.Visible {
		return nil
	}

	line := strings.Repeat(g.indent, depth) + g.layout(b)
	if _, err := g.w.WriteString(strings.TrimRight(line, " ") + "\n"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	g.lines++

	for _, child := range b.ChildBands {
		if err := g.writeBand(child, depth); err != nil {
			return err
		}
	}
	return nil
}

// layout places the text of every element at its column
func (g *Generator) layout(b *bands.Band) string {
	bandWidth := b.Width
	if bandWidth <= 0 {
		bandWidth = g.report.BandWidth()
	}
	scale := float64(g.width) / bandWidth

	elements := make([]bands.Element, len(b.Elements))
	copy(elements, b.Elements)
	sort.SliceStable(elements, func(i, j int) bool {
		return elements[i].Geometry().Left < elements[j].Geometry().Left
	})

	var line []rune
	for _, el := range elements {
		text := []rune(g.text(el, b, scale))
		if len(text) == 0 {
			continue
		}

		col := columns(el.Geometry().Left, scale)
		if len(line) > col {
			col = len(line) + 1
		}
		for len(line) < col {
			line = append(line, ' ')
		}
		line = append(line, text...)
	}
	return string(line)
}

func (g *Generator) text(el bands.Element, b *bands.Band, scale float64) string {
	var text string
	switch e := el.(type) {
	case *bands.Label:
		text = e.Text
	case *bands.ObjectValue:
		text = e.Text()
	case *bands.SystemField:
		text = e.Render(g.ctx)
	case *bands.Line:
		return strings.Repeat("-", columns(e.ResolveWidth(b).Value(), scale))
	default:
		return ""
	}

	if limit := columns(el.Geometry().ResolveWidth(b).Value(), scale); limit > 0 {
		if runes := []rune(text); len(runes) > limit {
			text = string(runes[:limit])
		}
	}
	return text
}

func columns(points, scale float64) int {
	return int(math.Round(points * scale))
}
