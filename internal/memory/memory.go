// Package memory provides an optional Postgres-backed translation memory:
// previously translated lines are pushed in, and empty stub lines are filled
// from it before files go out to translators.
package memory

import (
	"context"
	"fmt"
	"sync"

	"rpgscribe/internal/textutil"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS translation_memory (
	hash       TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	translated TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Store is a translation memory backed by PostgreSQL with an in-memory
// read-through layer.
type Store struct {
	pool *pgxpool.Pool

	mu     sync.RWMutex
	cached map[string]string // hash -> translated text
}

// Open connects to the database and ensures the memory table exists.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect translation memory: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure memory schema: %w", err)
	}
	return &Store{pool: pool, cached: make(map[string]string)}, nil
}

// Close releases the connection pool.
func (s *Store) Close() { s.pool.Close() }

// Push upserts (source, translated) pairs, keyed by source hash. Returns the
// number of stored pairs.
func (s *Store) Push(ctx context.Context, src, trans []string) (int, error) {
	stored := 0
	for i, source := range src {
		if i >= len(trans) || source == "" || trans[i] == "" {
			continue
		}
		hash := textutil.Hash(source)
		_, err := s.pool.Exec(ctx, `
			INSERT INTO translation_memory (hash, source, translated)
			VALUES ($1, $2, $3)
			ON CONFLICT (hash) DO UPDATE
			SET translated = EXCLUDED.translated, updated_at = now()`,
			hash, source, trans[i])
		if err != nil {
			return stored, fmt.Errorf("store pair: %w", err)
		}

		s.mu.Lock()
		s.cached[hash] = trans[i]
		s.mu.Unlock()
		stored++
	}

	log.Info().Int("stored", stored).Msg("Pushed pairs into translation memory")
	return stored, nil
}

// Fill replaces empty translation lines with remembered translations of the
// same source line. Returns the updated lines and the fill count.
func (s *Store) Fill(ctx context.Context, src, trans []string) ([]string, int, error) {
	out := make([]string, len(trans))
	copy(out, trans)

	filled := 0
	for i, source := range src {
		if i >= len(out) || source == "" || out[i] != "" {
			continue
		}
		translated, ok, err := s.lookup(ctx, source)
		if err != nil {
			return nil, filled, err
		}
		if !ok {
			continue
		}
		out[i] = translated
		filled++
	}
	return out, filled, nil
}

func (s *Store) lookup(ctx context.Context, source string) (string, bool, error) {
	hash := textutil.Hash(source)

	s.mu.RLock()
	if v, ok := s.cached[hash]; ok {
		s.mu.RUnlock()
		return v, true, nil
	}
	s.mu.RUnlock()

	var translated string
	err := s.pool.QueryRow(ctx,
		`SELECT translated FROM translation_memory WHERE hash = $1`, hash).Scan(&translated)
	if err != nil {
		// Not found or unreachable: either way the line stays empty.
		return "", false, nil
	}

	s.mu.Lock()
	s.cached[hash] = translated
	s.mu.Unlock()
	return translated, true, nil
}
