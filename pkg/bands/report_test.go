package bands

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReport(t *testing.T, cfg ReportConfig, records Collection) *Report {
	t.Helper()
	r, err := NewReport(cfg, records)
	require.NoError(t, err)
	return r
}

func TestNewReportDefaults(t *testing.T) {
	r := newTestReport(t, ReportConfig{Title: "Customers"}, nil)

	assert.Equal(t, "Customers", r.Title)
	assert.Equal(t, A4, r.PageSize)
	assert.Equal(t, UniformMargins(1*Cm), r.Margins)
	assert.NotNil(t, r.Groups)
	assert.Empty(t, r.Groups)
	assert.NotNil(t, r.SubReports)
	assert.Equal(t, Black, r.DefaultFontColor)
	assert.Equal(t, Black, r.DefaultStrokeColor)
	assert.Equal(t, Black, r.DefaultFillColor)
	assert.False(t, r.PrintIfEmpty)
	assert.NotNil(t, r.DefaultStyle)
	assert.Nil(t, r.Detail)
}

func TestNewReportUsesGlobalDefaults(t *testing.T) {
	original := GetGlobalConfig()
	defer SetGlobalConfig(original)

	SetGlobalConfig(&Config{LogLevel: "off", DefaultPageSize: "letter", DefaultMargin: 36, Locale: "de"})

	r := newTestReport(t, ReportConfig{}, nil)
	assert.Equal(t, Letter, r.PageSize)
	assert.Equal(t, UniformMargins(36), r.Margins)
	assert.Equal(t, "de", r.Locale)
}

func TestNewReportConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		cfg    ReportConfig
		fields []string
	}{
		{
			name:   "negative page size",
			cfg:    ReportConfig{PageSize: PageSize{Width: -1, Height: 100}},
			fields: []string{"page_size"},
		},
		{
			name:   "negative margins",
			cfg:    ReportConfig{PageSize: PageSize{Width: 600, Height: 800}, Margins: &Margins{Top: -1, Left: -2}},
			fields: []string{"margin_top", "margin_left"},
		},
		{
			name:   "margins consume the page",
			cfg:    ReportConfig{PageSize: PageSize{Width: 100, Height: 100}, Margins: &Margins{Left: 60, Right: 40, Top: 10}},
			fields: []string{"margins"},
		},
		{
			name:   "nil group and subreport",
			cfg:    ReportConfig{Groups: []*Group{nil}, SubReports: []*SubReport{nil}},
			fields: []string{"groups[0]", "subreports[0]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReport(tt.cfg, nil)
			require.Error(t, err)

			var cerr *ConfigurationError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, "report", cerr.Component)

			var fields []string
			for _, issue := range cerr.Issues {
				fields = append(fields, issue.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestReportObjectsList(t *testing.T) {
	t.Run("no collection", func(t *testing.T) {
		r := newTestReport(t, ReportConfig{}, nil)

		records, err := r.ObjectsList()
		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})

	t.Run("order is preserved", func(t *testing.T) {
		r := newTestReport(t, ReportConfig{}, Records{"r1", "r2", "r3"})

		records, err := r.ObjectsList()
		require.NoError(t, err)
		assert.Equal(t, []interface{}{"r1", "r2", "r3"}, records)
	})

	t.Run("explicit records override the config", func(t *testing.T) {
		r := newTestReport(t, ReportConfig{Records: Records{"cfg"}}, Records{"arg"})

		records, err := r.ObjectsList()
		require.NoError(t, err)
		assert.Equal(t, []interface{}{"arg"}, records)
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		r := newTestReport(t, ReportConfig{}, Records{"r1", "r2"})

		first, err := r.ObjectsList()
		require.NoError(t, err)
		first[0] = "changed"

		second, err := r.ObjectsList()
		require.NoError(t, err)
		assert.Equal(t, "r1", second[0])
	})

	t.Run("collection failure", func(t *testing.T) {
		boom := errors.New("connection reset")
		r := newTestReport(t, ReportConfig{Title: "Broken"}, CollectionFunc(func() ([]interface{}, error) {
			return nil, boom
		}))

		_, err := r.ObjectsList()
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "report=Broken")
	})

	t.Run("SetCollection rebinds", func(t *testing.T) {
		r := newTestReport(t, ReportConfig{}, nil)
		r.SetCollection(SliceOf([]int{3, 1, 2}))

		records, err := r.ObjectsList()
		require.NoError(t, err)
		assert.Equal(t, []interface{}{3, 1, 2}, records)
	})
}

func TestReportPageRect(t *testing.T) {
	margins := Margins{Top: 10, Bottom: 20, Left: 5, Right: 15}
	r := newTestReport(t, ReportConfig{
		PageSize: PageSize{Width: 600, Height: 800},
		Margins:  &margins,
	}, nil)

	want := PageRect{Left: 5, Top: 10, Right: 585, Bottom: 780, Width: 580, Height: 770}
	assert.Equal(t, want, r.PageRect())
	assert.Equal(t, 580.0, r.BandWidth())

	t.Run("direct mutation is not seen", func(t *testing.T) {
		r.Margins.Left = 50
		r.PageSize = PageSize{Width: 1000, Height: 1000}
		assert.Equal(t, want, r.PageRect())
	})

	t.Run("ResetPageRect recomputes", func(t *testing.T) {
		r.ResetPageRect()
		rect := r.PageRect()
		assert.Equal(t, 50.0, rect.Left)
		assert.Equal(t, 935.0, rect.Width)
	})

	t.Run("SetMargins recomputes", func(t *testing.T) {
		r.SetMargins(UniformMargins(100))
		assert.Equal(t, PageRect{Left: 100, Top: 100, Right: 900, Bottom: 900, Width: 800, Height: 800}, r.PageRect())
	})

	t.Run("SetPageSize recomputes", func(t *testing.T) {
		r.SetPageSize(Landscape(PageSize{Width: 600, Height: 800}))
		rect := r.PageRect()
		assert.Equal(t, 600.0, rect.Width)
		assert.Equal(t, 400.0, rect.Height)
	})

	t.Run("returned value cannot change the cache", func(t *testing.T) {
		rect := r.PageRect()
		rect.Width = 1
		assert.Equal(t, 600.0, r.PageRect().Width)
	})
}

func TestReportPrepare(t *testing.T) {
	margins := UniformMargins(50)
	child := MustBand(BandConfig{Height: Float(10)})
	detail := MustBand(BandConfig{
		Height:     Float(20),
		Elements:   []Element{&ObjectValue{AttributeName: "Name", Box: Box{Width: Inherit}}},
		ChildBands: []*Band{child},
	})
	r := newTestReport(t, ReportConfig{
		PageSize: PageSize{Width: 600, Height: 800},
		Margins:  &margins,
		Detail:   detail,
	}, nil)

	prepared := r.Prepare(r.Detail)
	require.NotNil(t, prepared)
	assert.NotSame(t, detail, prepared)
	assert.Equal(t, 500.0, prepared.Width)
	assert.Equal(t, 500.0, prepared.ChildBands[0].Width)
	assert.Equal(t, 0.0, detail.Width, "template band must stay untouched")

	ov := prepared.Elements[0].(*ObjectValue)
	assert.Equal(t, Fixed(500), ov.ResolveWidth(prepared))

	assert.Nil(t, r.Prepare(nil))
}

func TestReportFormatDate(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

	r := newTestReport(t, ReportConfig{}, nil)
	assert.Equal(t, "05/03/2024", r.FormatDate(ts, "%d/%m/%Y"))

	r.Locale = "de"
	assert.Equal(t, "05. März 2024", r.FormatDate(ts, "%d. %B %Y"))
}

func TestReportSystemContext(t *testing.T) {
	r := newTestReport(t, ReportConfig{Title: "Invoices", Author: "Accounts", Locale: "fr"}, nil)

	ctx := r.SystemContext(2, 7)
	assert.Equal(t, "Invoices", ctx.Title)
	assert.Equal(t, "Accounts", ctx.Author)
	assert.Equal(t, 2, ctx.PageNumber)
	assert.Equal(t, 7, ctx.PageCount)
	assert.Equal(t, "fr", ctx.Locale)
	assert.WithinDuration(t, time.Now(), ctx.Now, time.Minute)
}

func TestReportClone(t *testing.T) {
	detail := MustBand(BandConfig{Elements: []Element{&Label{Text: "x"}}})
	group, err := NewGroup(GroupConfig{AttributeName: "Status", Header: MustBand(BandConfig{})})
	require.NoError(t, err)
	sub, err := NewSubReport(SubReportConfig{Resolver: FieldAccess{Path: "Orders"}})
	require.NoError(t, err)

	r := newTestReport(t, ReportConfig{
		Title:      "Original",
		Detail:     detail,
		Groups:     []*Group{group},
		SubReports: []*SubReport{sub},
	}, Records{"a"})
	_ = r.PageRect()

	c := r.Clone()
	assert.Equal(t, r.Detail, c.Detail)
	assert.NotSame(t, r.Detail, c.Detail)
	assert.NotSame(t, r.Groups[0], c.Groups[0])
	assert.NotSame(t, r.SubReports[0], c.SubReports[0])
	assert.Equal(t, r.Collection(), c.Collection())

	c.Detail.Elements[0].(*Label).Text = "y"
	assert.Equal(t, "x", r.Detail.Elements[0].(*Label).Text)

	sub.SetParent(newCustomer())
	assert.Nil(t, c.SubReports[0].Parent())
}

func TestReportNilGroupsAndSubReports(t *testing.T) {
	r, err := NewReport(ReportConfig{}, nil)
	require.NoError(t, err)

	r.AddGroup(nil)
	r.AddSubReport(nil)
	assert.Empty(t, r.Groups)
	assert.Empty(t, r.SubReports)

	group, err := NewGroup(GroupConfig{AttributeName: "Name"})
	require.NoError(t, err)
	sub, err := NewSubReport(SubReportConfig{})
	require.NoError(t, err)
	r.Groups = append(r.Groups, nil, group)
	r.SubReports = append(r.SubReports, nil, sub)

	var c *Report
	require.NotPanics(t, func() { c = r.Clone() })
	require.Len(t, c.Groups, 1)
	assert.Equal(t, "Name", c.Groups[0].AttributeName)
	assert.Len(t, c.SubReports, 1)

	sub.Groups = append(sub.Groups, nil)
	assert.Empty(t, sub.Clone().Groups)
}

func TestLandscape(t *testing.T) {
	assert.Equal(t, PageSize{Width: 800, Height: 600}, Landscape(PageSize{Width: 600, Height: 800}))
	assert.Equal(t, A4.Height, Landscape(A4).Width)
}
