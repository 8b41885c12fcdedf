package engine

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lunagic/hermes/hermes"
	"github.com/lunagic/hermes/hermestools"
)

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Pass     string
	Name     string
	MaxConns int32
}

func (config PostgresConfig) DSN() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(config.User, config.Pass),
		Host:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Path:     "/" + config.Name,
		RawQuery: "sslmode=disable",
	}

	return dsn.String()
}

// Postgres runs querystrings on a pgx pool. Runs outside the pool open a
// dedicated connection for the single statement.
type Postgres struct {
	hooks
	config PostgresConfig
	pool   *pgxpool.Pool
}

func NewPostgres(ctx context.Context, config PostgresConfig, configFuncs ...ConfigFunc) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(config.DSN())
	if err != nil {
		return nil, err
	}

	if config.MaxConns > 0 {
		poolConfig.MaxConns = config.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	engine := &Postgres{
		config: config,
		pool:   pool,
	}

	if err := engine.configure(configFuncs); err != nil {
		pool.Close()
		return nil, err
	}

	return engine, nil
}

func (engine *Postgres) EngineType() string {
	return hermes.EnginePostgres
}

func (engine *Postgres) Ping(ctx context.Context) error {
	return engine.pool.Ping(ctx)
}

func (engine *Postgres) Close() {
	engine.pool.Close()
}

func (engine *Postgres) RunQueryString(ctx context.Context, querystring hermes.QueryString, inPool bool) ([]hermes.Row, error) {
	return engine.run(ctx, hermes.EnginePostgres, querystring, func(statement string, args []any) ([]hermes.Row, error) {
		if inPool {
			rows, err := engine.pool.Query(ctx, statement, args...)
			if err != nil {
				return nil, err
			}

			return collectPostgresRows(rows)
		}

		conn, err := pgx.Connect(ctx, engine.config.DSN())
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = conn.Close(ctx)
		}()

		rows, err := conn.Query(ctx, statement, args...)
		if err != nil {
			return nil, err
		}

		return collectPostgresRows(rows)
	})
}

func collectPostgresRows(rows pgx.Rows) ([]hermes.Row, error) {
	defer rows.Close()

	keys := hermestools.Map(rows.FieldDescriptions(), func(field pgconn.FieldDescription) string {
		return field.Name
	})

	result := []hermes.Row{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}

		result = append(result, hermes.NewRow(keys, values))
	}

	return result, rows.Err()
}
