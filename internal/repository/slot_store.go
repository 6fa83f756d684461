package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// ErrSlotNotFound is returned when a slot is absent or expired.
var ErrSlotNotFound = errors.New("slot not found")

// SlotStore persists opaque payloads under string keys. A ttl of zero keeps the slot
// until it is overwritten or deleted.
type SlotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type memorySlot struct {
	value     []byte
	expiresAt time.Time
}

// MemorySlotStore keeps slots in process memory.
type MemorySlotStore struct {
	mu    sync.RWMutex
	slots map[string]memorySlot
	now   func() time.Time
}

// NewMemorySlotStore builds an empty in-memory store.
func NewMemorySlotStore() *MemorySlotStore {
	return &MemorySlotStore{slots: make(map[string]memorySlot), now: time.Now}
}

// Get returns a copy of the slot payload.
func (s *MemorySlotStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	slot, ok := s.slots[key]
	s.mu.RUnlock()
	if !ok || (!slot.expiresAt.IsZero() && !s.now().Before(slot.expiresAt)) {
		return nil, ErrSlotNotFound
	}
	return append([]byte(nil), slot.value...), nil
}

// Put stores a copy of value.
func (s *MemorySlotStore) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	slot := memorySlot{value: append([]byte(nil), value...)}
	if ttl > 0 {
		slot.expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.slots[key] = slot
	s.mu.Unlock()
	return nil
}

// Delete removes a slot.
func (s *MemorySlotStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.slots, key)
	s.mu.Unlock()
	return nil
}

// RedisSlotStore maps slots onto plain redis string keys.
type RedisSlotStore struct {
	client *redis.Client
}

// NewRedisSlotStore wraps a redis client.
func NewRedisSlotStore(client *redis.Client) *RedisSlotStore {
	return &RedisSlotStore{client: client}
}

// Get reads a slot.
func (s *RedisSlotStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, nil
}

// Put writes a slot.
func (s *RedisSlotStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes a slot.
func (s *RedisSlotStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

// SQLSlotStore keeps slots in a kv_slots table. Queries are written with ? bindvars and
// rebound per driver so the same store serves postgres and sqlite.
type SQLSlotStore struct {
	db  *sqlx.DB
	now func() time.Time
}

const slotSchema = `CREATE TABLE IF NOT EXISTS kv_slots (
	slot_key TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	expires_at BIGINT,
	updated_at BIGINT NOT NULL
)`

// NewSQLSlotStore wraps a database handle.
func NewSQLSlotStore(db *sqlx.DB) *SQLSlotStore {
	return &SQLSlotStore{db: db, now: time.Now}
}

// EnsureSchema creates the kv_slots table if needed.
func (s *SQLSlotStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, slotSchema); err != nil {
		return fmt.Errorf("create kv_slots: %w", err)
	}
	return nil
}

type slotRow struct {
	Payload   string        `db:"payload"`
	ExpiresAt sql.NullInt64 `db:"expires_at"`
}

// Get reads a slot, treating expired rows as absent.
func (s *SQLSlotStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := s.db.Rebind(`SELECT payload, expires_at FROM kv_slots WHERE slot_key = ?`)
	var row slotRow
	if err := s.db.GetContext(ctx, &row, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("get slot %s: %w", key, err)
	}
	if row.ExpiresAt.Valid && s.now().Unix() >= row.ExpiresAt.Int64 {
		return nil, ErrSlotNotFound
	}
	return []byte(row.Payload), nil
}

// Put upserts a slot.
func (s *SQLSlotStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := s.now()
	var expires sql.NullInt64
	if ttl > 0 {
		expires = sql.NullInt64{Int64: now.Add(ttl).Unix(), Valid: true}
	}
	query := s.db.Rebind(`INSERT INTO kv_slots (slot_key, payload, expires_at, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT (slot_key) DO UPDATE SET payload = excluded.payload, expires_at = excluded.expires_at, updated_at = excluded.updated_at`)
	if _, err := s.db.ExecContext(ctx, query, key, string(value), expires, now.Unix()); err != nil {
		return fmt.Errorf("put slot %s: %w", key, err)
	}
	return nil
}

// Delete removes a slot.
func (s *SQLSlotStore) Delete(ctx context.Context, key string) error {
	query := s.db.Rebind(`DELETE FROM kv_slots WHERE slot_key = ?`)
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("delete slot %s: %w", key, err)
	}
	return nil
}

// PurgeExpired deletes rows whose ttl has passed and returns how many were removed.
func (s *SQLSlotStore) PurgeExpired(ctx context.Context) (int64, error) {
	query := s.db.Rebind(`DELETE FROM kv_slots WHERE expires_at IS NOT NULL AND expires_at <= ?`)
	res, err := s.db.ExecContext(ctx, query, s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("purge expired slots: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
