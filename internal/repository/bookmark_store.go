package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const bookmarkPrefix = "l2l:bookmarks:"

func bookmarkKey(userID string) string {
	return bookmarkPrefix + userID
}

// SlotBookmarkStore keeps each user's bookmarked mentor ids as a JSON array in a slot.
type SlotBookmarkStore struct {
	mu    sync.Mutex
	store SlotStore
	ttl   time.Duration
}

// NewSlotBookmarkStore constructs a bookmark store over any slot store.
func NewSlotBookmarkStore(store SlotStore, ttl time.Duration) *SlotBookmarkStore {
	return &SlotBookmarkStore{store: store, ttl: ttl}
}

// List returns the bookmarked ids in ascending order.
func (s *SlotBookmarkStore) List(ctx context.Context, userID string) ([]int, error) {
	return s.load(ctx, userID)
}

// Toggle flips one mentor id and reports whether it is now bookmarked.
func (s *SlotBookmarkStore) Toggle(ctx context.Context, userID string, mentorID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.load(ctx, userID)
	if err != nil {
		return false, err
	}
	next := make([]int, 0, len(ids)+1)
	removed := false
	for _, id := range ids {
		if id == mentorID {
			removed = true
			continue
		}
		next = append(next, id)
	}
	if !removed {
		next = append(next, mentorID)
		sort.Ints(next)
	}
	payload, err := json.Marshal(next)
	if err != nil {
		return false, fmt.Errorf("encode bookmarks: %w", err)
	}
	if err := s.store.Put(ctx, bookmarkKey(userID), payload, s.ttl); err != nil {
		return false, err
	}
	return !removed, nil
}

func (s *SlotBookmarkStore) load(ctx context.Context, userID string) ([]int, error) {
	raw, err := s.store.Get(ctx, bookmarkKey(userID))
	if err != nil {
		if errors.Is(err, ErrSlotNotFound) {
			return []int{}, nil
		}
		return nil, err
	}
	var ids []int
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode bookmarks: %w", err)
	}
	sort.Ints(ids)
	return ids, nil
}

// RedisBookmarkStore keeps bookmarks in a redis set per user.
type RedisBookmarkStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBookmarkStore wraps a redis client.
func NewRedisBookmarkStore(client *redis.Client, ttl time.Duration) *RedisBookmarkStore {
	return &RedisBookmarkStore{client: client, ttl: ttl}
}

// List returns the bookmarked ids in ascending order.
func (s *RedisBookmarkStore) List(ctx context.Context, userID string) ([]int, error) {
	members, err := s.client.SMembers(ctx, bookmarkKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers: %w", err)
	}
	ids := make([]int, 0, len(members))
	for _, m := range members {
		id, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

// Toggle flips one mentor id and reports whether it is now bookmarked.
func (s *RedisBookmarkStore) Toggle(ctx context.Context, userID string, mentorID int) (bool, error) {
	key := bookmarkKey(userID)
	member := strconv.Itoa(mentorID)

	removed, err := s.client.SRem(ctx, key, member).Result()
	if err != nil {
		return false, fmt.Errorf("redis srem: %w", err)
	}
	if removed > 0 {
		return false, nil
	}
	if err := s.client.SAdd(ctx, key, member).Err(); err != nil {
		return false, fmt.Errorf("redis sadd: %w", err)
	}
	if s.ttl > 0 {
		if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
			return true, fmt.Errorf("redis expire: %w", err)
		}
	}
	return true, nil
}
