package hermes

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Model is one row of a table, with values normalized by column type.
type Model struct {
	table  *Table
	values map[string]any
	extra  Row
}

// NewModel builds a model from column values. Values are normalized by their
// column's type; keys that are not columns of the table are kept as-is.
func (table *Table) NewModel(values map[string]any) (*Model, error) {
	row := Row{}
	for _, key := range slices.Sorted(maps.Keys(values)) {
		row.Keys = append(row.Keys, key)
		row.Values = append(row.Values, values[key])
	}

	return table.modelFromRow(row)
}

func (table *Table) modelFromRow(row Row) (*Model, error) {
	model := &Model{
		table:  table,
		values: map[string]any{},
	}

	for i, key := range row.Keys {
		value := row.Values[i]
		column, found := table.Column(key)
		if !found {
			model.extra.Keys = append(model.extra.Keys, key)
			model.extra.Values = append(model.extra.Values, value)
			continue
		}

		normalized, err := column.Type.normalize(value)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", table.Name, column.Name, err)
		}

		model.values[key] = normalized
	}

	return model, nil
}

func (model *Model) Table() *Table {
	return model.table
}

func (model *Model) Get(name string) any {
	if value, found := model.values[name]; found {
		return value
	}

	value, _ := model.extra.Get(name)

	return value
}

func (model *Model) Set(name string, value any) *Model {
	model.values[name] = value
	return model
}

func (model *Model) has(name string) bool {
	_, found := model.values[name]
	return found
}

// Values returns the model's column values in table column order.
func (model *Model) Values() Row {
	row := Row{}
	for _, column := range model.table.columns {
		row.Keys = append(row.Keys, column.Name)
		row.Values = append(row.Values, model.values[column.Name])
	}

	row.Keys = append(row.Keys, model.extra.Keys...)
	row.Values = append(row.Values, model.extra.Values...)

	return row
}

func (model *Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(model.Values())
}

// Runner is anything that can be executed against the table's engine.
type Runner interface {
	Run(ctx context.Context, opts ...RunOption) (any, error)
	RunSync(opts ...RunOption) (any, error)
}

// Save inserts the model when its primary key is unset and updates the
// matching row otherwise.
func (model *Model) Save() Runner {
	primaryKey := model.table.PrimaryKey()
	if primaryKey == nil || model.Get(primaryKey.Name) == nil {
		return model.table.Insert(model)
	}

	assignments := []Assignment{}
	for _, column := range model.table.columns {
		if column == primaryKey || !model.has(column.Name) {
			continue
		}

		assignments = append(assignments, Set(column, model.values[column.Name]))
	}

	return model.table.Update(assignments...).Where(Equal(primaryKey, model.Get(primaryKey.Name)))
}
