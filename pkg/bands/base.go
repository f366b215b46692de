package bands

// base holds what reports and subreports have in common: the band slots,
// the groups and the style defaults. A slot holds at most one band.
type base struct {
	Begin      *Band
	Summary    *Band
	PageHeader *Band
	PageFooter *Band
	Detail     *Band
	Groups     []*Group

	// PrintIfEmpty generates the report even when it has no records
	PrintIfEmpty bool

	DefaultFontColor   Color
	DefaultStrokeColor Color
	DefaultFillColor   Color
	Borders            Borders
}

func newBase() base {
	return base{
		Groups:             make([]*Group, 0),
		DefaultFontColor:   Black,
		DefaultStrokeColor: Black,
		DefaultFillColor:   Black,
	}
}

// AddGroup appends groups, outermost first. nil groups are ignored.
func (b *base) AddGroup(groups ...*Group) {
	for _, g := range groups {
		if g != nil {
			b.Groups = append(b.Groups, g)
		}
	}
}

// objectsList materializes a collection. No collection yields an empty,
// non-nil slice.
func objectsList(c Collection) ([]interface{}, error) {
	if c == nil {
		return []interface{}{}, nil
	}
	records, err := c.Records()
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, len(records))
	copy(out, records)
	return out, nil
}
