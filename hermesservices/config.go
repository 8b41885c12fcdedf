package hermesservices

import (
	"context"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/lunagic/hermes/hermes"
	"github.com/lunagic/hermes/hermesservices/cache"
	"github.com/lunagic/hermes/hermesservices/engine"
)

const envPrefix = "HERMES_"

type Config struct {
	// Drivers
	DriverDatabase string `koanf:"driver_database"`
	DriverCache    string `koanf:"driver_cache"`
	// Services
	PostgresHost             string `koanf:"postgres_host"`
	PostgresName             string `koanf:"postgres_name"`
	PostgresPass             string `koanf:"postgres_pass"`
	PostgresPort             int    `koanf:"postgres_port"`
	PostgresUser             string `koanf:"postgres_user"`
	PostgresMaxConns         int32  `koanf:"postgres_max_conns"`
	RedisHost                string `koanf:"redis_host"`
	RedisNumber              int    `koanf:"redis_number"`
	RedisPass                string `koanf:"redis_pass"`
	RedisPort                int    `koanf:"redis_port"`
	RedisPrefix              string `koanf:"redis_prefix"`
	RedisUser                string `koanf:"redis_user"`
	SQLitePath               string `koanf:"sqlite_path"`
	SQLiteStatementCacheSize int    `koanf:"sqlite_statement_cache_size"`
}

func NewConfig() Config {
	return Config{
		DriverCache:              "memory",
		DriverDatabase:           hermes.EngineSQLite,
		PostgresHost:             "127.0.0.1",
		PostgresPort:             5432,
		RedisHost:                "127.0.0.1",
		RedisPort:                6379,
		SQLitePath:               "database.sqlite",
		SQLiteStatementCacheSize: 128,
	}
}

// LoadConfig layers the defaults, an optional YAML file and HERMES_
// environment variables, later sources winning.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")

	defaults := NewConfig()
	if err := k.Load(confmap.Provider(map[string]any{
		"driver_cache":                defaults.DriverCache,
		"driver_database":             defaults.DriverDatabase,
		"postgres_host":               defaults.PostgresHost,
		"postgres_port":               defaults.PostgresPort,
		"redis_host":                  defaults.RedisHost,
		"redis_port":                  defaults.RedisPort,
		"sqlite_path":                 defaults.SQLitePath,
		"sqlite_statement_cache_size": defaults.SQLiteStatementCacheSize,
	}, "."), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// HERMES_POSTGRES_HOST -> postgres_host
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load env vars: %w", err)
	}

	config := Config{}
	if err := k.Unmarshal("", &config); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}

	return config, nil
}

func (config Config) Engine(ctx context.Context, configFuncs ...engine.ConfigFunc) (hermes.Engine, error) {
	switch config.DriverDatabase {
	case hermes.EngineSQLite:
		sqlite, err := engine.NewSQLite(
			engine.SQLiteConfig{
				Path:               config.SQLitePath,
				StatementCacheSize: config.SQLiteStatementCacheSize,
			},
			configFuncs...,
		)
		if err != nil {
			return nil, err
		}

		return sqlite, nil
	case hermes.EnginePostgres:
		postgres, err := engine.NewPostgres(
			ctx,
			engine.PostgresConfig{
				Host:     config.PostgresHost,
				Port:     config.PostgresPort,
				User:     config.PostgresUser,
				Pass:     config.PostgresPass,
				Name:     config.PostgresName,
				MaxConns: config.PostgresMaxConns,
			},
			configFuncs...,
		)
		if err != nil {
			return nil, err
		}

		return postgres, nil
	}

	return nil, fmt.Errorf("invalid database driver: %s", config.DriverDatabase)
}

func (config Config) Cache() (cache.Driver, error) {
	switch config.DriverCache {
	case "memory":
		return cache.NewDriverMemory()
	case "redis":
		return cache.NewDriverRedis(cache.DriverRedisConfig{
			Host:   config.RedisHost,
			Number: config.RedisNumber,
			Pass:   config.RedisPass,
			Port:   config.RedisPort,
			User:   config.RedisUser,
			Prefix: config.RedisPrefix,
		})
	}

	return nil, fmt.Errorf("invalid cache driver: %s", config.DriverCache)
}
