package definition

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjaminschreck/go-bands/pkg/bands"
)

const customersYAML = `
title: Customers
author: Sales
page_size: [600, 800]
margins: {top: 10, bottom: 20, left: 5, right: 15}
locale: de
print_if_empty: true
colors: {font: "#333333"}
bands:
  page_header:
    height: 30
    borders:
      bottom: {width: 0.5}
    elements:
      - {kind: system, expression: "%(report_title)s", width: band}
  detail:
    height: 18
    elements:
      - {kind: value, attribute: name, width: 200}
      - {kind: value, attribute: balance, left: 200, format: "%.2f"}
      - {kind: line, top: 17, width: band, stroke: {width: 0.25, color: "#cccccc"}}
    children:
      - height: 12
        visible: false
        elements:
          - {kind: label, text: "notes", style: {italic: true}}
  summary:
    elements:
      - {kind: rect, width: band, height: 2, fill: "#eeeeee"}
groups:
  - attribute: country
    header:
      elements: [{kind: value, attribute: country}]
subreports:
  - path: orders
    bands:
      detail:
        elements: [{kind: value, attribute: id, left: 20}]
  - query: 'filter(%(object)s.orders, "status", "open")'
  - jsonpath: "$.orders[*]"
    print_if_empty: true
`

func TestLoad(t *testing.T) {
	r, err := Load(strings.NewReader(customersYAML), bands.Records{"r1"})
	require.NoError(t, err)

	assert.Equal(t, "Customers", r.Title)
	assert.Equal(t, "Sales", r.Author)
	assert.Equal(t, "de", r.Locale)
	assert.True(t, r.PrintIfEmpty)
	assert.Equal(t, bands.Color("#333333"), r.DefaultFontColor)
	assert.Equal(t, bands.Black, r.DefaultFillColor)
	assert.Equal(t, bands.PageRect{Left: 5, Top: 10, Right: 585, Bottom: 780, Width: 580, Height: 770}, r.PageRect())

	require.NotNil(t, r.PageHeader)
	assert.Equal(t, 30.0, r.PageHeader.Height)
	assert.Equal(t, 0.5, r.PageHeader.Borders.Edge(bands.EdgeBottom).Width)
	assert.Equal(t, bands.Black, r.PageHeader.Borders.Edge(bands.EdgeBottom).Color)
	sf := r.PageHeader.Elements[0].(*bands.SystemField)
	assert.Equal(t, "%(report_title)s", sf.Expression)
	assert.True(t, sf.Width.IsInherit())

	require.NotNil(t, r.Detail)
	require.Len(t, r.Detail.Elements, 3)
	balance := r.Detail.Elements[1].(*bands.ObjectValue)
	assert.Equal(t, "balance", balance.AttributeName)
	assert.Equal(t, "%.2f", balance.DisplayFormat)
	assert.Equal(t, 200.0, balance.Left)
	line := r.Detail.Elements[2].(*bands.Line)
	assert.Equal(t, bands.Color("#cccccc"), line.Stroke.Color)

	require.Len(t, r.Detail.ChildBands, 1)
	child := r.Detail.ChildBands[0]
	assert.False(t, child.Visible)
	assert.Equal(t, true, child.Elements[0].(*bands.Label).Style["italic"])

	rect := r.Summary.Elements[0].(*bands.Rect)
	require.NotNil(t, rect.Fill)
	assert.Equal(t, bands.Color("#eeeeee"), *rect.Fill)
	assert.Equal(t, bands.DefaultBandHeight, r.Summary.Height)

	require.Len(t, r.Groups, 1)
	assert.Equal(t, "country", r.Groups[0].AttributeName)

	require.Len(t, r.SubReports, 3)
	assert.Equal(t, bands.FieldAccess{Path: "orders"}, r.SubReports[0].Resolver())
	assert.Equal(t, `filter(%(object)s.orders, "status", "open")`, r.SubReports[1].Query())
	assert.Equal(t, bands.JSONPath{Path: "$.orders[*]"}, r.SubReports[2].Resolver())
	assert.True(t, r.SubReports[2].PrintIfEmpty)

	records, err := r.ObjectsList()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"r1"}, records)
}

func TestPageSizeForms(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want bands.PageSize
	}{
		{"named", "page_size: letter", bands.Letter},
		{"named landscape", "page_size: A4\nlandscape: true", bands.Landscape(bands.A4)},
		{"pair", "page_size: [300, 400]", bands.PageSize{Width: 300, Height: 400}},
		{"default", "title: x", bands.A4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Load(strings.NewReader(tt.yaml), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.PageSize)
		})
	}
}

func TestLandscapeWithUnknownDefaultPageSize(t *testing.T) {
	previous := bands.GetGlobalConfig()
	t.Cleanup(func() { bands.SetGlobalConfig(previous) })

	config := *previous
	config.DefaultPageSize = "B9"
	bands.SetGlobalConfig(&config)

	r, err := Load(strings.NewReader("landscape: true"), nil)
	require.NoError(t, err)
	assert.Equal(t, bands.Landscape(bands.A4), r.PageSize)
}

func TestSubReportStyleDefaults(t *testing.T) {
	r, err := Load(strings.NewReader(`
subreports:
  - path: orders
    colors: {font: "#222222", fill: "#eeeeee"}
    borders:
      top: {width: 0.5}
`), nil)
	require.NoError(t, err)
	require.Len(t, r.SubReports, 1)

	sub := r.SubReports[0]
	assert.Equal(t, bands.Color("#222222"), sub.DefaultFontColor)
	assert.Equal(t, bands.Black, sub.DefaultStrokeColor)
	assert.Equal(t, bands.Color("#eeeeee"), sub.DefaultFillColor)
	require.NotNil(t, sub.Borders.Edge(bands.EdgeTop))
	assert.Equal(t, bands.Border{Width: 0.5, Color: bands.Black}, *sub.Borders.Edge(bands.EdgeTop))
}

func TestPartialMargins(t *testing.T) {
	r, err := Load(strings.NewReader("margins: {left: 0}"), nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.Margins.Left)
	assert.Equal(t, bands.GetGlobalConfig().DefaultMargin, r.Margins.Top)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantMsg string
	}{
		{"unknown top level key", "titel: typo", "titel"},
		{"unknown element key", "bands:\n  detail:\n    elements: [{kind: label, txt: x}]", "txt"},
		{"bad page size name", "page_size: B9", "unknown page size"},
		{"bad page size pair", "page_size: [1, 2, 3]", "width, height"},
		{"bad dimension", "bands:\n  detail:\n    elements: [{kind: label, width: wide}]", "dimension"},
		{"wrong type", "print_if_empty: [1]", "cannot unmarshal"},
		{"not yaml", "title: [unclosed", "yaml"},
		{"empty", "", "empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.True(t, bands.IsConfigurationError(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		fields []string
	}{
		{
			name:   "element kind",
			yaml:   "bands:\n  detail:\n    elements: [{text: x}, {kind: chart}]",
			fields: []string{"bands.detail.elements[0].kind", "bands.detail.elements[1].kind"},
		},
		{
			name:   "required element keys",
			yaml:   "bands:\n  detail:\n    elements: [{kind: value}, {kind: system}]",
			fields: []string{"bands.detail.elements[0].attribute", "bands.detail.elements[1].expression"},
		},
		{
			name:   "keys of another kind",
			yaml:   "bands:\n  detail:\n    elements: [{kind: label, attribute: name}, {kind: value, attribute: a, text: t}]",
			fields: []string{"bands.detail.elements[0].attribute", "bands.detail.elements[1].text"},
		},
		{
			name:   "negative band height",
			yaml:   "bands:\n  summary:\n    height: -4\n    children: [{width: -1}]",
			fields: []string{"bands.summary.children[0].width", "bands.summary.height"},
		},
		{
			name:   "group without attribute",
			yaml:   "groups: [{header: {height: 10}}]",
			fields: []string{"groups[0].attribute_name"},
		},
		{
			name:   "subreport relation",
			yaml:   "subreports: [{bands: {}}, {path: a, query: b}]",
			fields: []string{"subreports[0]", "subreports[1]"},
		},
		{
			name:   "geometry",
			yaml:   "page_size: [100, 100]\nmargins: {left: 60, right: 50}",
			fields: []string{"margins"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := Parse(strings.NewReader(tt.yaml))
			require.NoError(t, err)

			err = def.Validate()
			require.Error(t, err)

			var cerr *bands.ConfigurationError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, "definition", cerr.Component)

			var fields []string
			for _, issue := range cerr.Issues {
				fields = append(fields, issue.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "report.yaml")
	require.NoError(t, os.WriteFile(path, []byte(customersYAML), 0o600))

	r, err := LoadFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "Customers", r.Title)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("groups: [{}]"), 0o600))
	_, err = LoadFile(bad, nil)
	require.Error(t, err)
	assert.True(t, bands.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "bad.yaml")

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestJSONDefinition(t *testing.T) {
	r, err := Load(strings.NewReader(`{"title": "From JSON", "page_size": "A5", "bands": {"detail": {"elements": [{"kind": "value", "attribute": "id"}]}}}`), nil)
	require.NoError(t, err)
	assert.Equal(t, "From JSON", r.Title)
	assert.Equal(t, bands.A5, r.PageSize)
	assert.Len(t, r.Detail.Elements, 1)
}
