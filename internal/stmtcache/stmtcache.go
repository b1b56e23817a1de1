// Package stmtcache keeps prepared statements keyed by their SQL so that
// repeated inserts and reads of one model prepare once.
package stmtcache

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/forcedfields/forcedfields/internal/lru"
)

type Stmt struct {
	*sql.Stmt
	prepared   chan struct{}
	prepareErr error
}

func (stmt *Stmt) Error() error {
	return stmt.prepareErr
}

// Close waits for preparation to finish, then closes the statement.
func (stmt *Stmt) Close() error {
	<-stmt.prepared

	if stmt.Stmt != nil {
		return stmt.Stmt.Close()
	}
	return nil
}

type ConnPool interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

const (
	defaultMaxSize = 256
	defaultTTL     = time.Hour * 24
)

// Cache is safe for concurrent use. Concurrent callers asking for the same
// query share one preparation.
type Cache struct {
	mu  sync.Mutex
	lru *lru.LRU[string, *Stmt]
}

func New(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = defaultMaxSize
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}

	onEvicted := func(k string, v *Stmt) {
		if v != nil {
			go v.Close()
		}
	}
	return &Cache{lru: lru.NewLRU[string, *Stmt](size, onEvicted, ttl)}
}

// Prepare returns the cached statement for query, preparing it on conn
// the first time.
func (c *Cache) Prepare(ctx context.Context, conn ConnPool, query string) (*sql.Stmt, error) {
	c.mu.Lock()
	if stmt, ok := c.lru.Get(query); ok {
		c.mu.Unlock()
		<-stmt.prepared
		if stmt.prepareErr != nil {
			return nil, stmt.prepareErr
		}
		return stmt.Stmt, nil
	}

	cacheStmt := &Stmt{prepared: make(chan struct{})}
	c.lru.Add(query, cacheStmt)
	c.mu.Unlock()

	defer close(cacheStmt.prepared)

	var err error
	cacheStmt.Stmt, err = conn.PrepareContext(ctx, query)
	if err != nil {
		cacheStmt.prepareErr = err
		c.lru.Remove(query)
		return nil, err
	}
	return cacheStmt.Stmt, nil
}

// Keys lists the cached queries.
func (c *Cache) Keys() []string {
	return c.lru.Keys()
}

// Close drops every statement.
func (c *Cache) Close() {
	c.lru.Purge()
}
