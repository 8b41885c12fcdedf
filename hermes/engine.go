package hermes

import "context"

const (
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// Engine executes compiled querystrings. Implementations own their
// connection pools; inPool asks for a pooled connection rather than a
// dedicated one.
type Engine interface {
	EngineType() string
	RunQueryString(ctx context.Context, querystring QueryString, inPool bool) ([]Row, error)
}

// UsesNumberedParameters reports whether the given engine type expects "$n"
// placeholders instead of "?".
func UsesNumberedParameters(engineType string) bool {
	return engineType == EnginePostgres
}
