package hermes

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"
)

type Column struct {
	Name       string
	Type       ColumnType
	PrimaryKey bool
	Null       bool
	Unique     bool
	table      *Table
}

func (column *Column) Table() *Table {
	return column.table
}

func (column *Column) quoted() string {
	return quoteIdentifier(column.Name)
}

func (column *Column) selectQueryString(dialect string) (QueryString, error) {
	return NewQueryString(column.quoted()), nil
}

func (column *Column) outputName() string {
	return column.Name
}

// ColumnType describes how a column is declared on each engine and how values
// read back from the engine are normalized.
type ColumnType interface {
	PostgresType() string
	SQLiteType() string
	normalize(value any) (any, error)
	encodeSQLite(value any) (any, error)
}

type Serial struct{}

func (Serial) PostgresType() string { return "SERIAL" }
func (Serial) SQLiteType() string { return "INTEGER" }
func (Serial) normalize(value any) (any, error) { return toInt64(value) }
func (Serial) encodeSQLite(value any) (any, error) { return value, nil }

type Integer struct{}

func (Integer) PostgresType() string { return "INTEGER" }
func (Integer) SQLiteType() string { return "INTEGER" }
func (Integer) normalize(value any) (any, error) { return toInt64(value) }
func (Integer) encodeSQLite(value any) (any, error) { return value, nil }

type BigInt struct{}

func (BigInt) PostgresType() string { return "BIGINT" }
func (BigInt) SQLiteType() string { return "INTEGER" }
func (BigInt) normalize(value any) (any, error) { return toInt64(value) }
func (BigInt) encodeSQLite(value any) (any, error) { return value, nil }

type Varchar struct {
	Length int
}

func (varchar Varchar) PostgresType() string {
	if varchar.Length <= 0 {
		return "VARCHAR"
	}
	return fmt.Sprintf("VARCHAR(%d)", varchar.Length)
}

func (varchar Varchar) SQLiteType() string { return varchar.PostgresType() }
func (Varchar) normalize(value any) (any, error) { return toString(value), nil }
func (Varchar) encodeSQLite(value any) (any, error) { return value, nil }

type Text struct{}

func (Text) PostgresType() string { return "TEXT" }
func (Text) SQLiteType() string { return "TEXT" }
func (Text) normalize(value any) (any, error) { return toString(value), nil }
func (Text) encodeSQLite(value any) (any, error) { return value, nil }

type Boolean struct{}

func (Boolean) PostgresType() string { return "BOOLEAN" }
func (Boolean) SQLiteType() string { return "BOOLEAN" }

func (Boolean) normalize(value any) (any, error) {
	switch typed := value.(type) {
	case nil, bool:
		return typed, nil
	case int64:
		return typed != 0, nil
	}

	integer, err := toInt64(value)
	if err != nil {
		return nil, err
	}

	return integer.(int64) != 0, nil
}

func (Boolean) encodeSQLite(value any) (any, error) { return value, nil }

type Real struct{}

func (Real) PostgresType() string { return "REAL" }
func (Real) SQLiteType() string { return "REAL" }

func (Real) normalize(value any) (any, error) {
	switch typed := value.(type) {
	case nil, float64:
		return typed, nil
	case float32:
		return float64(typed), nil
	}

	integer, err := toInt64(value)
	if err != nil {
		return nil, err
	}

	return float64(integer.(int64)), nil
}

func (Real) encodeSQLite(value any) (any, error) { return value, nil }

type Timestamp struct{}

func (Timestamp) PostgresType() string { return "TIMESTAMP" }
func (Timestamp) SQLiteType() string { return "TIMESTAMP" }

func (Timestamp) normalize(value any) (any, error) {
	switch typed := value.(type) {
	case nil, time.Time:
		return typed, nil
	case string:
		return time.Parse("2006-01-02 15:04:05.999999999", typed)
	}

	return nil, fmt.Errorf("cannot read %T as a timestamp", value)
}

func (Timestamp) encodeSQLite(value any) (any, error) { return value, nil }

// JSON columns hold arbitrary documents. SQLite stores them as text.
type JSON struct{}

func (JSON) PostgresType() string { return "JSON" }
func (JSON) SQLiteType() string { return "JSON" }

func (JSON) normalize(value any) (any, error) {
	switch typed := value.(type) {
	case string:
		return decodeJSON([]byte(typed))
	case []byte:
		return decodeJSON(typed)
	}

	return value, nil
}

func (JSON) encodeSQLite(value any) (any, error) {
	return encodeJSON(value)
}

// Array columns are native arrays on Postgres. SQLite has no array type so the
// column is declared as ARRAY and the values are stored as JSON text.
type Array struct {
	Base ColumnType
}

func (array Array) PostgresType() string {
	return array.Base.PostgresType() + "[]"
}

func (Array) SQLiteType() string {
	return "ARRAY"
}

// Dimensions counts how deeply the array is nested.
func (array Array) Dimensions() int {
	if inner, ok := array.Base.(Array); ok {
		return inner.Dimensions() + 1
	}

	return 1
}

func (array Array) normalize(value any) (any, error) {
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case string:
		decoded, err := decodeJSON([]byte(typed))
		if err != nil {
			return nil, err
		}
		return array.normalize(decoded)
	case []byte:
		decoded, err := decodeJSON(typed)
		if err != nil {
			return nil, err
		}
		return array.normalize(decoded)
	}

	reflected := reflect.ValueOf(value)
	if reflected.Kind() != reflect.Slice && reflected.Kind() != reflect.Array {
		return nil, fmt.Errorf("cannot read %T as an array", value)
	}

	result := make([]any, 0, reflected.Len())
	for i := range reflected.Len() {
		element, err := array.Base.normalize(reflected.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		result = append(result, element)
	}

	return result, nil
}

func (Array) encodeSQLite(value any) (any, error) {
	return encodeJSON(value)
}

func decodeJSON(data []byte) (any, error) {
	var target any
	if err := json.Unmarshal(data, &target); err != nil {
		return nil, err
	}

	return target, nil
}

func encodeJSON(value any) (any, error) {
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case string:
		return typed, nil
	}

	jsonBytes, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	return string(jsonBytes), nil
}

func toInt64(value any) (any, error) {
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case int:
		return int64(typed), nil
	case int8:
		return int64(typed), nil
	case int16:
		return int64(typed), nil
	case int32:
		return int64(typed), nil
	case int64:
		return typed, nil
	case uint8:
		return int64(typed), nil
	case uint16:
		return int64(typed), nil
	case uint32:
		return int64(typed), nil
	case uint64:
		return int64(typed), nil
	case float64:
		if typed == float64(int64(typed)) {
			return int64(typed), nil
		}
	case json.Number:
		return typed.Int64()
	case string:
		return strconv.ParseInt(typed, 10, 64)
	case []byte:
		return strconv.ParseInt(string(typed), 10, 64)
	}

	return nil, fmt.Errorf("cannot read %T as an integer", value)
}

func toString(value any) any {
	if typed, ok := value.([]byte); ok {
		return string(typed)
	}

	return value
}
