package hermes

// Raw runs a hand written statement. Arguments are bound to "{}" markers.
type Raw struct {
	Query
	querystring QueryString
}

func newRaw(table *Table, querystring QueryString) *Raw {
	r := &Raw{
		querystring: querystring,
	}
	r.Query = newQuery(table, r, dialects{
		Default: r.defaultQuerystrings,
	})

	return r
}

func (r *Raw) Apply(clauses ...Clause) *Raw {
	r.apply(clauses)
	return r
}

func (r *Raw) defaultQuerystrings() ([]QueryString, error) {
	return []QueryString{r.querystring}, nil
}
