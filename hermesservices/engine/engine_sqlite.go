package engine

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lunagic/hermes/hermes"
	_ "github.com/mattn/go-sqlite3"
)

const defaultStatementCacheSize = 128

type SQLiteConfig struct {
	Path               string
	StatementCacheSize int
}

func (config SQLiteConfig) DSN() string {
	return fmt.Sprintf("file:%s?cache=shared&_foreign_keys=on", config.Path)
}

// SQLite runs querystrings on a database file. Pooled runs reuse prepared
// statements; other runs take a dedicated connection and skip the statement
// cache.
type SQLite struct {
	hooks
	config     SQLiteConfig
	db         *sql.DB
	statements *statementCache
}

func NewSQLite(config SQLiteConfig, configFuncs ...ConfigFunc) (*SQLite, error) {
	db, err := sql.Open("sqlite3", config.DSN())
	if err != nil {
		return nil, err
	}

	return newSQLiteWithDB(config, db, configFuncs...)
}

func newSQLiteWithDB(config SQLiteConfig, db *sql.DB, configFuncs ...ConfigFunc) (*SQLite, error) {
	size := config.StatementCacheSize
	if size <= 0 {
		size = defaultStatementCacheSize
	}

	statements, err := newStatementCache(size)
	if err != nil {
		return nil, err
	}

	engine := &SQLite{
		config:     config,
		db:         db,
		statements: statements,
	}

	if err := engine.configure(configFuncs); err != nil {
		return nil, err
	}

	return engine, nil
}

func (engine *SQLite) EngineType() string {
	return hermes.EngineSQLite
}

func (engine *SQLite) Ping(ctx context.Context) error {
	return engine.db.PingContext(ctx)
}

func (engine *SQLite) Close() error {
	engine.statements.close()
	return engine.db.Close()
}

func (engine *SQLite) RunQueryString(ctx context.Context, querystring hermes.QueryString, inPool bool) ([]hermes.Row, error) {
	return engine.run(ctx, hermes.EngineSQLite, querystring, func(statement string, args []any) ([]hermes.Row, error) {
		if inPool {
			stmt, err := engine.statements.prepare(ctx, engine.db, statement)
			if err != nil {
				return nil, err
			}

			rows, err := stmt.QueryContext(ctx, args...)
			if err != nil {
				engine.statements.forget(statement)
				return nil, err
			}

			return collectSQLiteRows(rows)
		}

		conn, err := engine.db.Conn(ctx)
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = conn.Close()
		}()

		rows, err := conn.QueryContext(ctx, statement, args...)
		if err != nil {
			return nil, err
		}

		return collectSQLiteRows(rows)
	})
}

func collectSQLiteRows(rows *sql.Rows) ([]hermes.Row, error) {
	defer func() {
		_ = rows.Close()
	}()

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	keys := []string{}
	for _, columnType := range columnTypes {
		keys = append(keys, columnType.Name())
	}

	result := []hermes.Row{}
	for rows.Next() {
		values := make([]any, len(keys))
		pointers := make([]any, len(keys))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		for i, columnType := range columnTypes {
			values[i], err = decodeSQLiteValue(columnType.DatabaseTypeName(), values[i])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", keys[i], err)
			}
		}

		result = append(result, hermes.NewRow(keys, values))
	}

	return result, rows.Err()
}

// decodeSQLiteValue turns the JSON text stored in ARRAY and JSON columns back
// into values.
func decodeSQLiteValue(databaseType string, value any) (any, error) {
	switch strings.ToUpper(databaseType) {
	case "ARRAY", "JSON":
		var text []byte
		switch typed := value.(type) {
		case string:
			text = []byte(typed)
		case []byte:
			text = typed
		default:
			return value, nil
		}

		var decoded any
		if err := json.Unmarshal(text, &decoded); err != nil {
			return nil, err
		}

		return decoded, nil
	}

	if bytes, ok := value.([]byte); ok {
		return append([]byte{}, bytes...), nil
	}

	return value, nil
}
