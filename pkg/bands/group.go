package bands

import "strings"

// GroupConfig lists the options of a report group
type GroupConfig struct {
	AttributeName string
	Header        *Band
	Footer        *Band
}

// Group segments a record collection on the value of one attribute.
// Generators print Header before the first record of a segment and Footer
// after its last one; detecting the boundary is up to them.
type Group struct {
	AttributeName string
	Header        *Band
	Footer        *Band
}

// NewGroup validates cfg and builds a group
func NewGroup(cfg GroupConfig) (*Group, error) {
	if strings.TrimSpace(cfg.AttributeName) == "" {
		return nil, NewConfigurationError("group", "attribute_name", "is required")
	}
	return &Group{
		AttributeName: cfg.AttributeName,
		Header:        cfg.Header,
		Footer:        cfg.Footer,
	}, nil
}

// Value reads the grouping attribute of record
func (g *Group) Value(record interface{}) (interface{}, error) {
	return FieldValue(record, g.AttributeName)
}
