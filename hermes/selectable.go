package hermes

import (
	"fmt"
	"reflect"
	"strings"
)

// Selectable is anything that can appear in the column list of a select.
type Selectable interface {
	selectQueryString(dialect string) (QueryString, error)
	outputName() string
}

type jsonField struct {
	column *Column
	key    string
}

// Field selects a single key out of a JSON column. The value comes back under
// "column.key".
func Field(column *Column, key string) Selectable {
	return jsonField{
		column: column,
		key:    key,
	}
}

func (field jsonField) outputName() string {
	return field.column.Name + "$" + field.key
}

func (field jsonField) selectQueryString(dialect string) (QueryString, error) {
	alias := quoteIdentifier(field.outputName())
	if dialect == EngineSQLite {
		path := `$."` + strings.ReplaceAll(field.key, `"`, `\"`) + `"`
		return NewQueryString(fmt.Sprintf(
			"json_extract(%s, %s) AS %s",
			field.column.quoted(),
			quoteLiteral(path),
			alias,
		)), nil
	}

	return NewQueryString(fmt.Sprintf(
		"%s -> %s AS %s",
		field.column.quoted(),
		quoteLiteral(field.key),
		alias,
	)), nil
}

type arrayIndex struct {
	column *Column
	index  int
}

// Index selects one element of an array column, counting from zero.
func Index(column *Column, index int) Selectable {
	return arrayIndex{
		column: column,
		index:  index,
	}
}

func (index arrayIndex) outputName() string {
	return index.column.Name
}

func (index arrayIndex) selectQueryString(dialect string) (QueryString, error) {
	if _, ok := index.column.Type.(Array); !ok {
		return QueryString{}, fmt.Errorf("%s is not an array column", index.column.Name)
	}

	if dialect == EngineSQLite {
		return NewQueryString(fmt.Sprintf(
			"json_extract(%s, '$[%d]') AS %s",
			index.column.quoted(),
			index.index,
			index.column.quoted(),
		)), nil
	}

	// Postgres arrays start at 1.
	return NewQueryString(fmt.Sprintf(
		"%s[%d] AS %s",
		index.column.quoted(),
		index.index+1,
		index.column.quoted(),
	)), nil
}

// Assignment sets one column in an update.
type Assignment struct {
	column *Column
	value  any
}

func Set(column *Column, value any) Assignment {
	return Assignment{
		column: column,
		value:  value,
	}
}

type arrayAppend struct {
	values any
}

// Cat appends to an array column. A single value is appended as a one element
// array. Only Postgres can do this.
func Cat(column *Column, value any) Assignment {
	return Assignment{
		column: column,
		value:  arrayAppend{values: value},
	}
}

func (assignment Assignment) Column() *Column {
	return assignment.column
}

func (assignment Assignment) queryString(dialect string) (QueryString, error) {
	if appended, ok := assignment.value.(arrayAppend); ok {
		if dialect != EnginePostgres {
			return QueryString{}, &CapabilityError{Message: "Only Postgres supports array appending."}
		}

		return NewQueryString(
			fmt.Sprintf("%s = array_cat(%s, {})", assignment.column.quoted(), assignment.column.quoted()),
			asSlice(appended.values),
		), nil
	}

	value, err := bindValue(dialect, assignment.column, assignment.value)
	if err != nil {
		return QueryString{}, err
	}

	return NewQueryString(assignment.column.quoted()+" = {}", value), nil
}

func asSlice(value any) any {
	if value == nil {
		return []any{}
	}

	reflected := reflect.ValueOf(value)
	if reflected.Kind() == reflect.Slice || reflected.Kind() == reflect.Array {
		return value
	}

	slice := reflect.MakeSlice(reflect.SliceOf(reflected.Type()), 0, 1)

	return reflect.Append(slice, reflected).Interface()
}

func quoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
