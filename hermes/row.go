package hermes

import (
	"bytes"
	"encoding/json"
)

// Row is a single result record. Keys keep the column order reported by the
// engine.
type Row struct {
	Keys   []string
	Values []any
}

func NewRow(keys []string, values []any) Row {
	return Row{
		Keys:   keys,
		Values: values,
	}
}

func (row Row) Len() int {
	return len(row.Keys)
}

func (row Row) Get(key string) (any, bool) {
	for i, k := range row.Keys {
		if k == key {
			return row.Values[i], true
		}
	}

	return nil, false
}

func (row Row) Map() map[string]any {
	result := make(map[string]any, len(row.Keys))
	for i, key := range row.Keys {
		result[key] = row.Values[i]
	}

	return result
}

func (row Row) MarshalJSON() ([]byte, error) {
	buffer := bytes.Buffer{}
	buffer.WriteByte('{')
	for i, key := range row.Keys {
		if i > 0 {
			buffer.WriteByte(',')
		}

		keyBytes, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buffer.Write(keyBytes)
		buffer.WriteByte(':')

		valueBytes, err := json.Marshal(row.Values[i])
		if err != nil {
			return nil, err
		}
		buffer.Write(valueBytes)
	}
	buffer.WriteByte('}')

	return buffer.Bytes(), nil
}
