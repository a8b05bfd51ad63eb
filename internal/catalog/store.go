package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Store keeps named catalogs in Postgres with an in-memory fallback. The
// fallback is an explicit, logged degradation, never a silent one: the
// first storage error flips Degraded and every later reader can see it.
// With a nil db the store runs memory-only, which is a configuration
// choice, not a degradation.
type Store struct {
	db  *sql.DB
	log *slog.Logger

	mu       sync.RWMutex
	mem      map[string]Catalog
	degraded bool
}

func NewStore(db *sql.DB, log *slog.Logger) *Store {
	return &Store{db: db, log: log, mem: map[string]Catalog{}}
}

// EnsureSchema creates the catalogs table and seeds the default catalog.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s.db == nil {
		s.seedDefault()
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			payload JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		s.degrade("create catalogs table", err)
		s.seedDefault()
		return nil
	}
	if err := s.Put(ctx, DefaultName, Default()); err != nil {
		return err
	}
	return nil
}

func (s *Store) seedDefault() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.mem[DefaultName]; !ok {
		s.mem[DefaultName] = Default()
	}
}

func (s *Store) degrade(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.degraded {
		s.log.Warn("catalog store degraded to in-memory fallback", "op", op, "err", err)
		s.degraded = true
	}
}

// Degraded reports whether a storage error has forced the in-memory
// fallback. Surfaced by the health endpoint.
func (s *Store) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

func (s *Store) Get(ctx context.Context, name string) (Catalog, error) {
	if s.db != nil {
		var payload []byte
		err := s.db.QueryRowContext(ctx, "SELECT payload FROM catalogs WHERE name=$1", name).Scan(&payload)
		switch {
		case err == nil:
			var cat Catalog
			if err := json.Unmarshal(payload, &cat); err != nil {
				return nil, fmt.Errorf("decode catalog %q: %w", name, err)
			}
			return cat, nil
		case err == sql.ErrNoRows:
			// fall through to the in-memory map
		default:
			s.degrade("get catalog", err)
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	cat, ok := s.mem[name]
	if !ok {
		return nil, fmt.Errorf("catalog %q not found", name)
	}
	return cat, nil
}

func (s *Store) Put(ctx context.Context, name string, cat Catalog) error {
	if s.db != nil {
		payload, err := json.Marshal(cat)
		if err != nil {
			return fmt.Errorf("encode catalog %q: %w", name, err)
		}
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO catalogs (name, payload) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload`, name, payload)
		if err == nil {
			return nil
		}
		s.degrade("put catalog", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mem[name] = cat
	return nil
}

func (s *Store) Names(ctx context.Context) ([]string, error) {
	if s.db != nil {
		rows, err := s.db.QueryContext(ctx, "SELECT name FROM catalogs ORDER BY name")
		if err == nil {
			defer rows.Close()
			var names []string
			for rows.Next() {
				var n string
				if err := rows.Scan(&n); err != nil {
					return nil, err
				}
				names = append(names, n)
			}
			return names, rows.Err()
		}
		s.degrade("list catalogs", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.mem))
	for n := range s.mem {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}
