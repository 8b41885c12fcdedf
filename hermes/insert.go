package hermes

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lunagic/hermes/hermestools"
)

// Insert writes models to the table. Generated primary keys are written back
// into the inserted models.
type Insert struct {
	Query
	models []*Model
}

func newInsert(table *Table, models ...*Model) *Insert {
	i := &Insert{}
	i.Query = newQuery(table, i, dialects{
		Default: i.defaultQuerystrings,
		Overrides: map[string]Producer{
			EngineSQLite: i.sqliteQuerystrings,
		},
	})
	i.Query.runCallback = i.setPrimaryKeys
	i.Query.freezeHooks = i.freezeModels
	i.Add(models...)

	return i
}

func (i *Insert) Apply(clauses ...Clause) *Insert {
	i.apply(clauses)
	return i
}

func (i *Insert) Add(models ...*Model) *Insert {
	for _, model := range models {
		if model.table != i.table {
			i.addError(fmt.Errorf("cannot insert a %s row into %s", model.table.Name, i.table.Name))
			continue
		}

		i.models = append(i.models, model)
	}

	return i
}

func (i *Insert) defaultQuerystrings() ([]QueryString, error) {
	return single(i.build(dialectDefault))
}

// SQLite stores arrays and JSON as text.
func (i *Insert) sqliteQuerystrings() ([]QueryString, error) {
	return single(i.build(EngineSQLite))
}

func (i *Insert) build(dialect string) (QueryString, error) {
	if len(i.models) == 0 {
		return QueryString{}, fmt.Errorf("%s: nothing to insert", i.table.Name)
	}

	primaryKey := i.table.PrimaryKey()
	includePrimaryKey := false
	for _, model := range i.models {
		if primaryKey != nil && model.Get(primaryKey.Name) != nil {
			includePrimaryKey = true
		}
	}

	columns := hermestools.Filter(i.table.columns, func(column *Column) bool {
		return column != primaryKey || includePrimaryKey
	})

	rows := []QueryString{}
	for _, model := range i.models {
		values := []any{}
		for _, column := range columns {
			value, err := bindValue(dialect, column, model.Get(column.Name))
			if err != nil {
				return QueryString{}, fmt.Errorf("%s.%s: %w", i.table.Name, column.Name, err)
			}
			values = append(values, value)
		}

		markers := strings.TrimSuffix(strings.Repeat(placeholder+", ", len(values)), ", ")
		rows = append(rows, NewQueryString("("+markers+")", values...))
	}

	names := hermestools.Map(columns, func(column *Column) string {
		return column.quoted()
	})

	querystring := NewQueryString(
		fmt.Sprintf("INSERT INTO %s (%s) VALUES {}", i.table.quoted(), strings.Join(names, ", ")),
		JoinQueryStrings(", ", rows...),
	)

	if primaryKey != nil {
		querystring = querystring.Combine(NewQueryString(" RETURNING " + primaryKey.quoted()))
	}

	return querystring, nil
}

// freezeModels writes generated keys into the models added before the freeze.
func (i *Insert) freezeModels(frozen *Query) {
	snapshot := &Insert{
		Query:  Query{table: i.table},
		models: slices.Clone(i.models),
	}
	frozen.runCallback = snapshot.setPrimaryKeys
}

func (i *Insert) setPrimaryKeys(rows []Row) error {
	primaryKey := i.table.PrimaryKey()
	if primaryKey == nil || len(rows) != len(i.models) {
		return nil
	}

	for index, row := range rows {
		value, found := row.Get(primaryKey.Name)
		if !found {
			continue
		}

		normalized, err := primaryKey.Type.normalize(value)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", i.table.Name, primaryKey.Name, err)
		}

		i.models[index].Set(primaryKey.Name, normalized)
	}

	return nil
}
