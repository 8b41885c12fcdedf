package hermes

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lunagic/hermes/hermestools"
)

// Alter changes the table's schema. Each action becomes one or more
// statements, run in order.
type Alter struct {
	Query
	actions []alterAction
}

type alterAction func(dialect string) ([]QueryString, error)

func newAlter(table *Table) *Alter {
	a := &Alter{}
	a.Query = newQuery(table, a, dialects{
		Default: a.defaultQuerystrings,
		Overrides: map[string]Producer{
			EngineSQLite: a.sqliteQuerystrings,
		},
	})
	a.Query.validate = a.validateAlter

	return a
}

func (a *Alter) Apply(clauses ...Clause) *Alter {
	a.apply(clauses)
	return a
}

func (a *Alter) validateAlter() error {
	if len(a.actions) == 0 {
		return fmt.Errorf("%s: nothing to alter", a.table.Name)
	}

	return nil
}

func (a *Alter) prefix() string {
	return "ALTER TABLE " + a.table.quoted()
}

func (a *Alter) DropTable(ifExists bool) *Alter {
	a.actions = append(a.actions, func(dialect string) ([]QueryString, error) {
		if ifExists {
			return []QueryString{NewQueryString("DROP TABLE IF EXISTS " + a.table.quoted())}, nil
		}

		return []QueryString{NewQueryString("DROP TABLE " + a.table.quoted())}, nil
	})

	return a
}

func (a *Alter) AddColumn(column *Column) *Alter {
	a.actions = append(a.actions, func(dialect string) ([]QueryString, error) {
		return []QueryString{
			NewQueryString(a.prefix() + " ADD COLUMN " + columnDefinition(dialect, column)),
		}, nil
	})

	return a
}

func (a *Alter) DropColumn(name string) *Alter {
	a.actions = append(a.actions, func(dialect string) ([]QueryString, error) {
		return []QueryString{
			NewQueryString(a.prefix() + " DROP COLUMN " + quoteIdentifier(name)),
		}, nil
	})

	return a
}

func (a *Alter) RenameColumn(from string, to string) *Alter {
	a.actions = append(a.actions, func(dialect string) ([]QueryString, error) {
		return []QueryString{
			NewQueryString(a.prefix() + " RENAME COLUMN " + quoteIdentifier(from) + " TO " + quoteIdentifier(to)),
		}, nil
	})

	return a
}

// SetColumnType changes a column's type. SQLite cannot alter a column in
// place, so there the table is rebuilt from its declared columns.
func (a *Alter) SetColumnType(name string, columnType ColumnType) *Alter {
	a.actions = append(a.actions, func(dialect string) ([]QueryString, error) {
		if _, found := a.table.Column(name); !found {
			return nil, fmt.Errorf("%w: %s is not a column of %s", ErrUnknownColumn, name, a.table.Name)
		}

		if dialect == EngineSQLite {
			return a.rebuild(name, columnType), nil
		}

		newType := columnType.PostgresType()

		return []QueryString{
			NewQueryString(fmt.Sprintf(
				"%s ALTER COLUMN %s TYPE %s USING %s::%s",
				a.prefix(),
				quoteIdentifier(name),
				newType,
				quoteIdentifier(name),
				newType,
			)),
		}, nil
	})

	return a
}

func (a *Alter) rebuild(name string, columnType ColumnType) []QueryString {
	target := &Table{
		Name:    a.table.Name,
		Indexes: a.table.Indexes,
	}
	for _, column := range a.table.columns {
		changed := *column
		if changed.Name == name {
			changed.Type = columnType
		}
		target.columns = append(target.columns, &changed)
	}

	tempName := uuid.NewString()
	columns := strings.Join(hermestools.Map(target.columns, func(column *Column) string {
		return column.quoted()
	}), ", ")

	statements := createTableQuerystrings(EngineSQLite, &Table{Name: tempName, columns: target.columns}, tempName, false)
	statements = append(statements,
		NewQueryString(fmt.Sprintf(
			"INSERT INTO %s (%s) SELECT %s FROM %s",
			quoteIdentifier(tempName),
			columns,
			columns,
			a.table.quoted(),
		)),
		NewQueryString("DROP TABLE "+a.table.quoted()),
		NewQueryString("ALTER TABLE "+quoteIdentifier(tempName)+" RENAME TO "+a.table.quoted()),
	)

	// Dropping the table dropped its indexes.
	for _, index := range target.Indexes {
		statements = append(statements, indexQueryString(target, index, false))
	}

	return statements
}

func (a *Alter) defaultQuerystrings() ([]QueryString, error) {
	return a.build(dialectDefault)
}

func (a *Alter) sqliteQuerystrings() ([]QueryString, error) {
	return a.build(EngineSQLite)
}

func (a *Alter) build(dialect string) ([]QueryString, error) {
	querystrings := []QueryString{}
	for _, action := range a.actions {
		statements, err := action(dialect)
		if err != nil {
			return nil, err
		}
		querystrings = append(querystrings, statements...)
	}

	return querystrings, nil
}
