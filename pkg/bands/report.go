package bands

import (
	"fmt"
	"time"
)

// Margins are the four page margins, in points
type Margins struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// UniformMargins returns margins of m on every side
func UniformMargins(m float64) Margins {
	return Margins{Top: m, Bottom: m, Left: m, Right: m}
}

// PageRect is the printable area of a page
type PageRect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
	Width  float64
	Height float64
}

// ReportConfig declares a report: its page, bands, groups, subreports and
// the records it uses when none are given to NewReport.
type ReportConfig struct {
	Title  string
	Author string

	// PageSize defaults to the configured default page size (A4)
	PageSize PageSize
	// Margins default to the configured default margin on every side
	Margins *Margins

	Begin      *Band
	Summary    *Band
	PageHeader *Band
	PageFooter *Band
	Detail     *Band
	Groups     []*Group
	SubReports []*SubReport

	Records      Collection
	PrintIfEmpty bool
	Locale       string

	DefaultStyle       Style
	DefaultFontColor   Color
	DefaultStrokeColor Color
	DefaultFillColor   Color
	Borders            Borders
}

// Report is the top-level declaration handed to a generator
type Report struct {
	base

	Title  string
	Author string
	Locale string

	// PageSize and Margins may be assigned directly, but PageRect keeps the
	// value computed on its first call. Use SetPageSize/SetMargins or
	// ResetPageRect to have changes picked up.
	PageSize PageSize
	Margins  Margins

	SubReports   []*SubReport
	DefaultStyle Style

	records  Collection
	pageRect *PageRect
}

// NewReport builds a report from cfg. records overrides cfg.Records when not nil.
func NewReport(cfg ReportConfig, records Collection) (*Report, error) {
	global := GetGlobalConfig()
	cerr := &ConfigurationError{Component: "report"}

	r := &Report{
		base:         newBase(),
		Title:        cfg.Title,
		Author:       cfg.Author,
		Locale:       cfg.Locale,
		PageSize:     cfg.PageSize,
		SubReports:   make([]*SubReport, 0, len(cfg.SubReports)),
		DefaultStyle: cfg.DefaultStyle.Clone(),
		records:      cfg.Records,
	}
	if records != nil {
		r.records = records
	}
	if r.DefaultStyle == nil {
		r.DefaultStyle = Style{}
	}
	if r.Locale == "" {
		r.Locale = global.Locale
	}

	if r.PageSize == (PageSize{}) {
		size, ok := LookupPageSize(global.DefaultPageSize)
		if !ok {
			size = A4
		}
		r.PageSize = size
	}
	if cfg.Margins != nil {
		r.Margins = *cfg.Margins
	} else {
		r.Margins = UniformMargins(global.DefaultMargin)
	}

	r.Begin = cfg.Begin
	r.Summary = cfg.Summary
	r.PageHeader = cfg.PageHeader
	r.PageFooter = cfg.PageFooter
	r.Detail = cfg.Detail
	r.PrintIfEmpty = cfg.PrintIfEmpty
	r.Borders = cfg.Borders.Clone()
	if cfg.DefaultFontColor != "" {
		r.DefaultFontColor = cfg.DefaultFontColor
	}
	if cfg.DefaultStrokeColor != "" {
		r.DefaultStrokeColor = cfg.DefaultStrokeColor
	}
	if cfg.DefaultFillColor != "" {
		r.DefaultFillColor = cfg.DefaultFillColor
	}

	for i, g := range cfg.Groups {
		if g == nil {
			cerr.Add(fmt.Sprintf("groups[%d]", i), "group is nil")
			continue
		}
		r.Groups = append(r.Groups, g)
	}
	for i, s := range cfg.SubReports {
		if s == nil {
			cerr.Add(fmt.Sprintf("subreports[%d]", i), "subreport is nil")
			continue
		}
		r.SubReports = append(r.SubReports, s)
	}

	validateGeometry(cerr, r.PageSize, r.Margins)
	if err := cerr.Err(); err != nil {
		return nil, err
	}

	GetLogger().Debug().
		Str("title", r.Title).
		Float64("page_width", r.PageSize.Width).
		Float64("page_height", r.PageSize.Height).
		Int("groups", len(r.Groups)).
		Int("subreports", len(r.SubReports)).
		Msg("report declared")

	return r, nil
}

func validateGeometry(cerr *ConfigurationError, size PageSize, m Margins) {
	if size.Width <= 0 || size.Height <= 0 {
		cerr.Add("page_size", "width and height must be positive, got %gx%g", size.Width, size.Height)
		return
	}
	margins := []struct {
		name  string
		value float64
	}{
		{"margin_top", m.Top},
		{"margin_bottom", m.Bottom},
		{"margin_left", m.Left},
		{"margin_right", m.Right},
	}
	for _, margin := range margins {
		if margin.value < 0 {
			cerr.Add(margin.name, "cannot be negative, got %g", margin.value)
		}
	}
	if m.Left+m.Right >= size.Width {
		cerr.Add("margins", "left and right margins leave no printable width")
	}
	if m.Top+m.Bottom >= size.Height {
		cerr.Add("margins", "top and bottom margins leave no printable height")
	}
}

// Collection returns the bound record collection, or nil
func (r *Report) Collection() Collection {
	return r.records
}

// SetCollection binds a record collection
func (r *Report) SetCollection(c Collection) {
	r.records = c
}

// ObjectsList returns the records to render in order. It is empty when no
// collection is bound.
func (r *Report) ObjectsList() ([]interface{}, error) {
	records, err := objectsList(r.records)
	if err != nil {
		return nil, WithContext(err, "list report records", map[string]interface{}{"report": r.Title})
	}
	return records, nil
}

// AddSubReport appends subreports rendered for every detail record. nil
// subreports are ignored.
func (r *Report) AddSubReport(subreports ...*SubReport) {
	for _, s := range subreports {
		if s != nil {
			r.SubReports = append(r.SubReports, s)
		}
	}
}

// PageRect returns the printable area. It is computed from PageSize and
// Margins on the first call and cached for the life of the report.
func (r *Report) PageRect() PageRect {
	if r.pageRect == nil {
		clientWidth := r.PageSize.Width - r.Margins.Left - r.Margins.Right
		clientHeight := r.PageSize.Height - r.Margins.Top - r.Margins.Bottom

		r.pageRect = &PageRect{
			Left:   r.Margins.Left,
			Top:    r.Margins.Top,
			Right:  r.PageSize.Width - r.Margins.Right,
			Bottom: r.PageSize.Height - r.Margins.Bottom,
			Width:  clientWidth,
			Height: clientHeight,
		}
		GetLogger().Debug().Interface("page_rect", r.pageRect).Msg("page rect computed")
	}
	return *r.pageRect
}

// ResetPageRect drops the cached page rect
func (r *Report) ResetPageRect() {
	r.pageRect = nil
}

// SetPageSize changes the page size and drops the cached page rect
func (r *Report) SetPageSize(size PageSize) {
	r.PageSize = size
	r.ResetPageRect()
}

// SetMargins changes the margins and drops the cached page rect
func (r *Report) SetMargins(m Margins) {
	r.Margins = m
	r.ResetPageRect()
}

// BandWidth is the width bands are laid out in: the printable page width
func (r *Report) BandWidth() float64 {
	return r.PageRect().Width
}

// Prepare returns a clone of b sized to the printable width, ready to be
// bound and rendered. Child bands get the same width.
func (r *Report) Prepare(b *Band) *Band {
	if b == nil {
		return nil
	}
	c := b.Clone()
	width := r.BandWidth()
	c.Walk(func(band *Band) {
		band.Width = width
	})
	return c
}

// FormatDate formats t with a strftime style pattern in the report locale
func (r *Report) FormatDate(t time.Time, pattern string) string {
	return FormatDateLocale(t, pattern, r.Locale)
}

// SystemContext returns the values system fields expand to on a page
func (r *Report) SystemContext(pageNumber, pageCount int) SystemContext {
	return SystemContext{
		Title:      r.Title,
		Author:     r.Author,
		PageNumber: pageNumber,
		PageCount:  pageCount,
		Now:        time.Now(),
		Locale:     r.Locale,
	}
}

// Clone returns a copy of the report with cloned bands, groups and
// subreports and a fresh page rect cache. The record collection is shared.
// nil groups and subreports assigned directly to the slices are dropped.
func (r *Report) Clone() *Report {
	c := &Report{
		base:         r.base,
		Title:        r.Title,
		Author:       r.Author,
		Locale:       r.Locale,
		PageSize:     r.PageSize,
		Margins:      r.Margins,
		DefaultStyle: r.DefaultStyle.Clone(),
		records:      r.records,
	}
	c.Begin = r.Begin.Clone()
	c.Summary = r.Summary.Clone()
	c.PageHeader = r.PageHeader.Clone()
	c.PageFooter = r.PageFooter.Clone()
	c.Detail = r.Detail.Clone()
	c.Groups = cloneGroups(r.Groups)
	c.Borders = r.Borders.Clone()
	c.SubReports = make([]*SubReport, 0, len(r.SubReports))
	for _, s := range r.SubReports {
		if s != nil {
			c.SubReports = append(c.SubReports, s.Clone())
		}
	}
	return c
}
