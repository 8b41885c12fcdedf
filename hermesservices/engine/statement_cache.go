package engine

import (
	"context"
	"database/sql"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// statementCache keeps prepared statements by SQL text. Evicted statements
// are closed.
type statementCache struct {
	mutex sync.Mutex
	cache *lru.Cache[string, *sql.Stmt]
}

func newStatementCache(size int) (*statementCache, error) {
	cache, err := lru.NewWithEvict(size, func(_ string, stmt *sql.Stmt) {
		_ = stmt.Close()
	})
	if err != nil {
		return nil, err
	}

	return &statementCache{
		cache: cache,
	}, nil
}

func (statements *statementCache) prepare(ctx context.Context, db *sql.DB, statement string) (*sql.Stmt, error) {
	statements.mutex.Lock()
	defer statements.mutex.Unlock()

	if stmt, ok := statements.cache.Get(statement); ok {
		return stmt, nil
	}

	stmt, err := db.PrepareContext(ctx, statement)
	if err != nil {
		return nil, err
	}

	statements.cache.Add(statement, stmt)

	return stmt, nil
}

func (statements *statementCache) forget(statement string) {
	statements.mutex.Lock()
	defer statements.mutex.Unlock()

	statements.cache.Remove(statement)
}

func (statements *statementCache) len() int {
	return statements.cache.Len()
}

func (statements *statementCache) close() {
	statements.mutex.Lock()
	defer statements.mutex.Unlock()

	statements.cache.Purge()
}
