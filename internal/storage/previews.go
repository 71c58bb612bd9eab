/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	applog "gocanvaseditor/internal/log"
)

// MemoryPath opens a private in-memory cache.
const MemoryPath = ":memory:"

// DefaultMaxBytes caps the cache when no bound is given.
const DefaultMaxBytes int64 = 64 << 20

// Previews is a size-bounded blob cache. Safe for concurrent use.
type Previews struct {
	db       *sql.DB
	path     string
	maxBytes int64
	log      *slog.Logger

	mu   sync.Mutex
	last int64 // last access stamp handed out
}

// OpenPreviews opens or creates the cache at path. An empty path or ":memory:"
// keeps the cache in memory; files use WAL mode. maxBytes <= 0 uses
// DefaultMaxBytes.
func OpenPreviews(path string, maxBytes int64) (*Previews, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = MemoryPath
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	l := applog.WithOperation(applog.WithComponent("storage"), "previews_open").With(slog.String("path", path))

	dsn := MemoryPath
	if path != MemoryPath {
		// Convert to forward slashes for the SQLite URI.
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps an in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if path != MemoryPath {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
			_ = db.Close()
			l.Error("enable WAL failed", slog.Any("err", err))
			return nil, fmt.Errorf("enable WAL: %w", err)
		}
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}
	l.Info("preview cache ready", slog.Int64("max_bytes", maxBytes))
	return &Previews{db: db, path: path, maxBytes: maxBytes, log: applog.WithComponent("storage")}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS previews (
			key          TEXT    PRIMARY KEY,
			blob         BLOB    NOT NULL,
			size         INTEGER NOT NULL,
			updated_at   TEXT    NOT NULL,
			last_access  INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_previews_access ON previews(last_access);`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure previews schema: %w", err)
		}
	}
	return nil
}

// Path is the database location, or ":memory:".
func (p *Previews) Path() string { return p.path }

// MaxBytes is the size bound.
func (p *Previews) MaxBytes() int64 { return p.maxBytes }

// Close releases the database.
func (p *Previews) Close() error { return p.db.Close() }

// stamp returns a strictly increasing access time so LRU order is total
// even on coarse clocks.
func (p *Previews) stamp() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now().UnixNano()
	if now <= p.last {
		now = p.last + 1
	}
	p.last = now
	return now
}

// Get returns the blob for key and marks it recently used. A missing key
// yields nil, nil.
func (p *Previews) Get(ctx context.Context, key string) ([]byte, error) {
	var blob []byte
	err := p.db.QueryRowContext(ctx, `SELECT blob FROM previews WHERE key=?`, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query preview: %w", err)
	}
	// touch
	_, _ = p.db.ExecContext(ctx, `UPDATE previews SET last_access=? WHERE key=?`, p.stamp(), key)
	return blob, nil
}

// Put upserts the blob for key and evicts least recently used entries until
// the cache fits MaxBytes. The entry just written is never evicted.
func (p *Previews) Put(ctx context.Context, key string, blob []byte) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("preview key is required")
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := p.db.ExecContext(ctx, `INSERT INTO previews(key,blob,size,updated_at,last_access)
		VALUES(?,?,?,?,?)
		ON CONFLICT(key) DO UPDATE SET blob=excluded.blob, size=excluded.size, updated_at=excluded.updated_at, last_access=excluded.last_access`,
		key, blob, len(blob), now, p.stamp())
	if err != nil {
		return fmt.Errorf("upsert preview: %w", err)
	}
	return p.evictToFit(ctx, key)
}

// GetOrCreate returns the cached blob or generates, stores and returns it.
func (p *Previews) GetOrCreate(ctx context.Context, key string, gen func(context.Context) ([]byte, error)) ([]byte, error) {
	if b, err := p.Get(ctx, key); err != nil {
		return nil, err
	} else if b != nil {
		return b, nil
	}
	if gen == nil {
		return nil, nil
	}
	data, err := gen(ctx)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	if err := p.Put(ctx, key, data); err != nil {
		return nil, err
	}
	return data, nil
}

// Evict removes key.
func (p *Previews) Evict(ctx context.Context, key string) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM previews WHERE key=?`, key); err != nil {
		return fmt.Errorf("evict preview: %w", err)
	}
	return nil
}

// TotalBytes is the sum of all stored blob sizes.
func (p *Previews) TotalBytes(ctx context.Context) (int64, error) {
	var total int64
	if err := p.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(size),0) FROM previews`).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum previews size: %w", err)
	}
	return total, nil
}

// Keys lists cached keys, least recently used first.
func (p *Previews) Keys(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT key FROM previews ORDER BY last_access ASC`)
	if err != nil {
		return nil, fmt.Errorf("list previews: %w", err)
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// evictToFit deletes least recently used rows other than keep until the
// total size is within MaxBytes.
func (p *Previews) evictToFit(ctx context.Context, keep string) error {
	total, err := p.TotalBytes(ctx)
	if err != nil {
		return err
	}
	if total <= p.maxBytes {
		return nil
	}
	rows, err := p.db.QueryContext(ctx, `SELECT key, size FROM previews WHERE key<>? ORDER BY last_access ASC`, keep)
	if err != nil {
		return fmt.Errorf("select victims: %w", err)
	}
	var victims []any
	cur := total
	for rows.Next() && cur > p.maxBytes {
		var k string
		var sz int64
		if err := rows.Scan(&k, &sz); err != nil {
			_ = rows.Close()
			return err
		}
		victims = append(victims, k)
		cur -= sz
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	// Close the cursor before writing; the pool has a single connection.
	if err := rows.Close(); err != nil {
		return err
	}
	if len(victims) == 0 {
		return nil
	}
	q := `DELETE FROM previews WHERE key IN (?` + strings.Repeat(",?", len(victims)-1) + `)`
	if _, err := p.db.ExecContext(ctx, q, victims...); err != nil {
		return fmt.Errorf("evict delete: %w", err)
	}
	p.log.Debug("previews evicted", slog.Int("count", len(victims)), slog.Int64("bytes_after", cur))
	return nil
}
