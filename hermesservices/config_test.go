package hermesservices_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lunagic/hermes/hermes"
	"github.com/lunagic/hermes/hermesservices"
	"github.com/lunagic/hermes/hermesservices/engine"
	"gotest.tools/v3/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := hermesservices.LoadConfig("")
	assert.NilError(t, err)
	assert.DeepEqual(t, hermesservices.NewConfig(), config)
}

func TestLoadConfigLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hermes.yaml")
	assert.NilError(t, os.WriteFile(path, []byte(`
driver_database: postgres
driver_cache: redis
postgres_host: db.internal
postgres_port: 5433
postgres_max_conns: 8
sqlite_path: from-file.sqlite
`), 0o600))

	t.Setenv("HERMES_SQLITE_PATH", "from-env.sqlite")
	t.Setenv("HERMES_REDIS_NUMBER", "3")

	config, err := hermesservices.LoadConfig(path)
	assert.NilError(t, err)

	expected := hermesservices.NewConfig()
	expected.DriverDatabase = hermes.EnginePostgres
	expected.DriverCache = "redis"
	expected.PostgresHost = "db.internal"
	expected.PostgresPort = 5433
	expected.PostgresMaxConns = 8
	expected.RedisNumber = 3
	expected.SQLitePath = "from-env.sqlite"

	assert.DeepEqual(t, expected, config)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := hermesservices.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "error reading config file")
}

func TestConfigEngine(t *testing.T) {
	t.Parallel()

	config := hermesservices.NewConfig()
	config.SQLitePath = filepath.Join(t.TempDir(), "config.sqlite")

	db, err := config.Engine(t.Context())
	assert.NilError(t, err)
	assert.Equal(t, hermes.EngineSQLite, db.EngineType())

	sqlite, ok := db.(*engine.SQLite)
	assert.Assert(t, ok)
	assert.NilError(t, sqlite.Close())

	config.DriverDatabase = "mysql"
	_, err = config.Engine(t.Context())
	assert.Error(t, err, "invalid database driver: mysql")
}

func TestConfigCache(t *testing.T) {
	t.Parallel()

	config := hermesservices.NewConfig()

	driver, err := config.Cache()
	assert.NilError(t, err)

	assert.NilError(t, driver.Set(t.Context(), "key", "value", time.Minute))
	value, err := driver.Get(t.Context(), "key")
	assert.NilError(t, err)
	assert.Equal(t, "value", value)

	config.DriverCache = "memcached"
	_, err = config.Cache()
	assert.Error(t, err, "invalid cache driver: memcached")
}
