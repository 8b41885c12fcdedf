package hermes

// Objects selects whole rows and returns them as models.
type Objects struct {
	Query
	whereDelegate
	orderByDelegate
	limitDelegate
	outputDelegate
}

func newObjects(table *Table) *Objects {
	o := &Objects{
		outputDelegate: outputDelegate{
			output: Output{AsObjects: true},
		},
	}
	o.Query = newQuery(table, o, dialects{
		Default: o.defaultQuerystrings,
		Overrides: map[string]Producer{
			EngineSQLite: o.sqliteQuerystrings,
		},
	})
	o.Query.output = &o.outputDelegate.output
	o.Query.responseHandler = o.firstRow
	o.Query.freezeHooks = o.freezeFirst

	return o
}

func (o *Objects) Apply(clauses ...Clause) *Objects {
	o.apply(clauses)
	return o
}

func (o *Objects) Where(conditions ...Combinable) *Objects {
	o.addWhere(conditions...)
	return o
}

func (o *Objects) OrderBy(columns ...Selectable) *Objects {
	o.addOrderBy(true, columns...)
	return o
}

func (o *Objects) OrderByDescending(columns ...Selectable) *Objects {
	o.addOrderBy(false, columns...)
	return o
}

func (o *Objects) Limit(limit int) *Objects {
	o.setLimit(limit)
	return o
}

func (o *Objects) Offset(offset int) *Objects {
	o.setOffset(offset)
	return o
}

func (o *Objects) First() *Objects {
	o.setFirst()
	return o
}

// Output keeps the models and only toggles JSON rendering.
func (o *Objects) Output(output Output) *Objects {
	o.setOutput(output)
	return o
}

func (o *Objects) setOutput(output Output) {
	output.AsObjects = true
	output.AsList = false
	o.outputDelegate.setOutput(output)
}

func (o *Objects) defaultQuerystrings() ([]QueryString, error) {
	return single(o.build(dialectDefault))
}

func (o *Objects) sqliteQuerystrings() ([]QueryString, error) {
	return single(o.build(EngineSQLite))
}

func (o *Objects) build(dialect string) (QueryString, error) {
	return buildSelect(dialect, selectParts{
		table:   o.table,
		where:   &o.whereDelegate,
		orderBy: &o.orderByDelegate,
		limit:   &o.limitDelegate,
	})
}
