package bands

import "reflect"

// SubReportConfig lists the options of a subreport. Set either Query or
// Resolver; Functions extends the query language.
type SubReportConfig struct {
	Query     string
	Resolver  RelationResolver
	Functions map[string]QueryFunc

	Begin        *Band
	Summary      *Band
	PageHeader   *Band
	PageFooter   *Band
	Detail       *Band
	Groups       []*Group
	PrintIfEmpty bool

	// Colors default to Black when empty
	DefaultFontColor   Color
	DefaultStrokeColor Color
	DefaultFillColor   Color
	Borders            Borders
}

// SubReport is a report fragment whose records are derived from one parent
// record. The derived records are computed on first read and kept until the
// parent or the relation is assigned again.
//
// A SubReport is not safe for concurrent rebinding; give each worker its own
// instance (see Clone).
type SubReport struct {
	base

	functions map[string]QueryFunc
	parent    interface{}
	resolver  RelationResolver

	records  []interface{}
	computed bool
}

// NewSubReport validates cfg and builds a subreport
func NewSubReport(cfg SubReportConfig) (*SubReport, error) {
	if cfg.Query != "" && cfg.Resolver != nil {
		return nil, NewConfigurationError("subreport", "query", "query and resolver are mutually exclusive")
	}

	s := &SubReport{base: newBase(), functions: cfg.Functions}
	s.Begin = cfg.Begin
	s.Summary = cfg.Summary
	s.PageHeader = cfg.PageHeader
	s.PageFooter = cfg.PageFooter
	s.Detail = cfg.Detail
	s.Groups = append(s.Groups, cfg.Groups...)
	s.PrintIfEmpty = cfg.PrintIfEmpty
	s.Borders = cfg.Borders.Clone()
	if cfg.DefaultFontColor != "" {
		s.DefaultFontColor = cfg.DefaultFontColor
	}
	if cfg.DefaultStrokeColor != "" {
		s.DefaultStrokeColor = cfg.DefaultStrokeColor
	}
	if cfg.DefaultFillColor != "" {
		s.DefaultFillColor = cfg.DefaultFillColor
	}

	if cfg.Resolver != nil {
		s.resolver = cfg.Resolver
	} else if cfg.Query != "" {
		s.resolver = NewExpression(cfg.Query, cfg.Functions)
	}
	return s, nil
}

// Parent returns the bound parent record
func (s *SubReport) Parent() interface{} {
	return s.parent
}

// SetParent binds the subreport to a parent record and drops the derived
// records, even when parent is the record already bound.
func (s *SubReport) SetParent(parent interface{}) {
	s.invalidate()
	s.parent = parent
}

// Resolver returns the relation used to derive records
func (s *SubReport) Resolver() RelationResolver {
	return s.resolver
}

// SetResolver replaces the relation and drops the derived records
func (s *SubReport) SetResolver(r RelationResolver) {
	s.invalidate()
	s.resolver = r
}

// Query returns the query string when the relation is an Expression
func (s *SubReport) Query() string {
	if e, ok := s.resolver.(*Expression); ok {
		return e.Query
	}
	return ""
}

// SetQuery replaces the relation with a query expression and drops the
// derived records. An empty query unsets the relation.
func (s *SubReport) SetQuery(query string) {
	if query == "" {
		s.SetResolver(nil)
		return
	}
	s.SetResolver(NewExpression(query, s.functions))
}

// Computed reports whether derived records are cached
func (s *SubReport) Computed() bool {
	return s.computed
}

func (s *SubReport) invalidate() {
	s.records = nil
	s.computed = false
}

// Records returns a copy of the records derived from the parent. Without a
// parent or a relation it returns an empty slice and evaluates nothing.
// Failures are returned to the caller as *EvaluationError and are not cached.
func (s *SubReport) Records() ([]interface{}, error) {
	if s.computed {
		return copyRecords(s.records), nil
	}

	if isNilRecord(s.parent) || s.resolver == nil {
		return []interface{}{}, nil
	}

	logger := GetLogger()
	logger.Debug().
		Str("relation", describeResolver(s.resolver)).
		Str("parent", describeRecord(s.parent)).
		Msg("resolving subreport records")

	records, err := s.resolver.Resolve(s.parent)
	if err != nil {
		if !IsEvaluationError(err) {
			err = NewEvaluationError(describeResolver(s.resolver), err)
		}
		return nil, err
	}
	s.records = copyRecords(records)
	s.computed = true
	logger.Debug().Int("records", len(records)).Msg("subreport records resolved")
	return copyRecords(s.records), nil
}

// copyRecords returns a fresh, non-nil slice holding the same records
func copyRecords(records []interface{}) []interface{} {
	out := make([]interface{}, len(records))
	copy(out, records)
	return out
}

// ObjectsList returns a copy of the derived records
func (s *SubReport) ObjectsList() ([]interface{}, error) {
	return s.Records()
}

// Clone returns an unbound copy with cloned bands, for use by another worker
func (s *SubReport) Clone() *SubReport {
	c := &SubReport{
		base:      s.base,
		functions: s.functions,
		resolver:  s.resolver,
	}
	c.Begin = s.Begin.Clone()
	c.Summary = s.Summary.Clone()
	c.PageHeader = s.PageHeader.Clone()
	c.PageFooter = s.PageFooter.Clone()
	c.Detail = s.Detail.Clone()
	c.Groups = cloneGroups(s.Groups)
	c.Borders = s.Borders.Clone()
	return c
}

func cloneGroups(groups []*Group) []*Group {
	out := make([]*Group, 0, len(groups))
	for _, g := range groups {
		if g == nil {
			continue
		}
		out = append(out, &Group{
			AttributeName: g.AttributeName,
			Header:        g.Header.Clone(),
			Footer:        g.Footer.Clone(),
		})
	}
	return out
}

func isNilRecord(record interface{}) bool {
	if record == nil {
		return true
	}
	rv := reflect.ValueOf(record)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func describeResolver(r RelationResolver) string {
	if s, ok := r.(interface{ String() string }); ok {
		return s.String()
	}
	return describeRecord(r)
}
