// Package definition reads report declarations from YAML (or JSON) files.
//
//	title: Customers
//	page_size: A4
//	landscape: true
//	margins: {top: 20, bottom: 20, left: 25, right: 25}
//	bands:
//	  page_header:
//	    height: 30
//	    elements:
//	      - {kind: system, expression: "%(report_title)s", width: band}
//	  detail:
//	    height: 18
//	    elements:
//	      - {kind: value, attribute: name, width: 200}
//	      - {kind: value, attribute: balance, left: 200, format: "%.2f"}
//	groups:
//	  - attribute: country
//	    header:
//	      elements: [{kind: value, attribute: country}]
//	subreports:
//	  - path: orders
//	    bands:
//	      detail:
//	        elements: [{kind: value, attribute: id, left: 20}]
//
// Unknown keys are rejected. Every problem found is reported through a
// single *bands.ConfigurationError.
package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/benjaminschreck/go-bands/pkg/bands"
)

// Definition is the decoded form of a report definition file
type Definition struct {
	Title        string      `yaml:"title"`
	Author       string      `yaml:"author"`
	PageSize     *PageSize   `yaml:"page_size"`
	Landscape    bool        `yaml:"landscape"`
	Margins      *Margins    `yaml:"margins"`
	PrintIfEmpty bool        `yaml:"print_if_empty"`
	Locale       string      `yaml:"locale"`
	Style        bands.Style `yaml:"style"`
	Colors       Colors      `yaml:"colors"`
	Borders      *Borders    `yaml:"borders"`
	Bands        BandSlots   `yaml:"bands"`
	Groups       []Group     `yaml:"groups"`
	SubReports   []SubReport `yaml:"subreports"`
}

// PageSize is a named size ("A4", "letter") or a [width, height] pair in points
type PageSize struct {
	Name string
	Size bands.PageSize
}

// UnmarshalYAML implements yaml.Unmarshaler
func (p *PageSize) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		size, ok := bands.LookupPageSize(value.Value)
		if !ok {
			return fmt.Errorf("line %d: unknown page size %q", value.Line, value.Value)
		}
		p.Name = value.Value
		p.Size = size
		return nil
	case yaml.SequenceNode:
		var pair []float64
		if err := value.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("line %d: page size needs [width, height], got %d values", value.Line, len(pair))
		}
		p.Size = bands.PageSize{Width: pair[0], Height: pair[1]}
		return nil
	}
	return fmt.Errorf("line %d: page size must be a name or [width, height]", value.Line)
}

// Margins are the page margins in points. Unset sides use the configured default.
type Margins struct {
	Top    *float64 `yaml:"top"`
	Bottom *float64 `yaml:"bottom"`
	Left   *float64 `yaml:"left"`
	Right  *float64 `yaml:"right"`
}

// Colors are the report default colors
type Colors struct {
	Font   bands.Color `yaml:"font"`
	Stroke bands.Color `yaml:"stroke"`
	Fill   bands.Color `yaml:"fill"`
}

// Border is one stroked edge
type Border struct {
	Width float64     `yaml:"width"`
	Color bands.Color `yaml:"color"`
}

// Borders sets borders per edge; all applies to every unset edge
type Borders struct {
	All    *Border `yaml:"all"`
	Top    *Border `yaml:"top"`
	Right  *Border `yaml:"right"`
	Bottom *Border `yaml:"bottom"`
	Left   *Border `yaml:"left"`
}

// BandSlots holds the bands of a report or subreport
type BandSlots struct {
	Begin      *Band `yaml:"begin"`
	Summary    *Band `yaml:"summary"`
	PageHeader *Band `yaml:"page_header"`
	PageFooter *Band `yaml:"page_footer"`
	Detail     *Band `yaml:"detail"`
}

// Band declares a band
type Band struct {
	Height       *float64    `yaml:"height"`
	Width        float64     `yaml:"width"`
	Visible      *bool       `yaml:"visible"`
	ForceNewPage bool        `yaml:"force_new_page"`
	Borders      *Borders    `yaml:"borders"`
	Style        bands.Style `yaml:"style"`
	Elements     []Element   `yaml:"elements"`
	Children     []Band      `yaml:"children"`
}

// Element kinds
const (
	KindLabel  = "label"
	KindValue  = "value"
	KindSystem = "system"
	KindLine   = "line"
	KindRect   = "rect"
)

// Element declares one element. Kind selects which of the remaining keys apply.
type Element struct {
	Kind   string      `yaml:"kind"`
	Left   float64     `yaml:"left"`
	Top    float64     `yaml:"top"`
	Width  Dimension   `yaml:"width"`
	Height Dimension   `yaml:"height"`
	Style  bands.Style `yaml:"style"`

	Text       string       `yaml:"text"`
	Attribute  string       `yaml:"attribute"`
	Format     string       `yaml:"format"`
	Expression string       `yaml:"expression"`
	Stroke     *Border      `yaml:"stroke"`
	Fill       *bands.Color `yaml:"fill"`
}

// Dimension is a length in points or the word "band" to inherit from the
// containing band. Unset dimensions are zero.
type Dimension struct {
	bands.Dimension
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Dimension) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: dimension must be a number or \"band\"", value.Line)
	}
	if strings.EqualFold(strings.TrimSpace(value.Value), "band") {
		d.Dimension = bands.Inherit
		return nil
	}
	v, err := strconv.ParseFloat(value.Value, 64)
	if err != nil {
		return fmt.Errorf("line %d: dimension must be a number or \"band\", got %q", value.Line, value.Value)
	}
	d.Dimension = bands.Fixed(v)
	return nil
}

// Group declares a report group
type Group struct {
	Attribute string `yaml:"attribute"`
	Header    *Band  `yaml:"header"`
	Footer    *Band  `yaml:"footer"`
}

// SubReport declares a subreport. Exactly one of Query, Path and JSONPath
// selects the records derived from each detail record.
type SubReport struct {
	Query        string    `yaml:"query"`
	Path         string    `yaml:"path"`
	JSONPath     string    `yaml:"jsonpath"`
	PrintIfEmpty bool      `yaml:"print_if_empty"`
	Colors       Colors    `yaml:"colors"`
	Borders      *Borders  `yaml:"borders"`
	Bands        BandSlots `yaml:"bands"`
	Groups       []Group   `yaml:"groups"`
}

// Parse decodes a definition. Syntax errors and unknown keys are returned
// as a *bands.ConfigurationError.
func Parse(r io.Reader) (*Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, bands.NewConfigurationError("definition", "document", "is empty")
		}
		return nil, decodeError(err)
	}
	return &def, nil
}

// ParseBytes decodes a definition held in memory
func ParseBytes(data []byte) (*Definition, error) {
	return Parse(bytes.NewReader(data))
}

// ParseFile decodes a definition file
func ParseFile(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}
	defer f.Close()

	def, err := Parse(f)
	if err != nil {
		return nil, bands.WithContext(err, "parse definition", map[string]interface{}{"file": path})
	}
	return def, nil
}

// Load decodes a definition and builds the report it declares
func Load(r io.Reader, records bands.Collection) (*bands.Report, error) {
	def, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return def.Build(records)
}

// LoadFile decodes a definition file and builds the report it declares
func LoadFile(path string, records bands.Collection) (*bands.Report, error) {
	def, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	report, err := def.Build(records)
	if err != nil {
		return nil, bands.WithContext(err, "build report", map[string]interface{}{"file": path})
	}
	return report, nil
}

func decodeError(err error) error {
	cerr := &bands.ConfigurationError{Component: "definition"}

	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		for _, msg := range typeErr.Errors {
			cerr.Add("yaml", "%s", strings.TrimPrefix(msg, "yaml: "))
		}
		return cerr
	}

	cerr.Add("yaml", "%s", strings.TrimPrefix(err.Error(), "yaml: "))
	return cerr
}
