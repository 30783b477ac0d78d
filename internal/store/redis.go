package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

var _ Store = (*RedisStore)(nil)

// ErrConcurrentRotation is returned when the generation pointer changed during Rotate.
var ErrConcurrentRotation = errors.New("generation pointer changed during rotation")

// RedisStore keeps each slot as a hash of base -> document and the pointer as a string key.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore creates a RedisStore whose keys start with prefix.
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) headKey() string        { return s.prefix + ":generations:newer" }
func (s *RedisStore) slotKey(sl Slot) string { return s.prefix + ":generations:{" + string(sl) + "}" }
func (s *RedisStore) comparisonKey() string  { return s.prefix + ":comparison" }

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *RedisStore) head(ctx context.Context, c stringGetter) (Slot, error) {
	v, err := c.Get(ctx, s.headKey()).Result()
	if errors.Is(err, redis.Nil) {
		return SlotA, nil
	}
	if err != nil {
		return "", fmt.Errorf("read generation pointer: %w", err)
	}
	slot := Slot(v)
	if !slot.Valid() {
		return "", fmt.Errorf("generation pointer holds unknown slot %q", v)
	}
	return slot, nil
}

func (s *RedisStore) resolve(ctx context.Context, gen Generation) (Slot, error) {
	newer, err := s.head(ctx, s.rdb)
	if err != nil {
		return "", err
	}
	return SlotFor(newer, gen)
}

// ReadSnapshot returns the stored document for base in gen.
func (s *RedisStore) ReadSnapshot(ctx context.Context, gen Generation, base string) ([]byte, error) {
	slot, err := s.resolve(ctx, gen)
	if err != nil {
		return nil, err
	}
	doc, err := s.rdb.HGet(ctx, s.slotKey(slot), strings.ToUpper(base)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s/%s: %w", gen, base, err)
	}
	return doc, nil
}

// WriteSnapshot replaces the document for base in gen.
func (s *RedisStore) WriteSnapshot(ctx context.Context, gen Generation, base string, doc []byte) error {
	slot, err := s.resolve(ctx, gen)
	if err != nil {
		return err
	}
	if err := s.rdb.HSet(ctx, s.slotKey(slot), strings.ToUpper(base), doc).Err(); err != nil {
		return fmt.Errorf("write snapshot %s/%s: %w", gen, base, err)
	}
	return nil
}

// ClearStaging deletes the staging slot hash.
func (s *RedisStore) ClearStaging(ctx context.Context) error {
	slot, err := s.resolve(ctx, Staging)
	if err != nil {
		return err
	}
	if err := s.rdb.Del(ctx, s.slotKey(slot)).Err(); err != nil {
		return fmt.Errorf("clear slot %s: %w", slot, err)
	}
	return nil
}

// Rotate moves the pointer to the staging slot and deletes the older slot hash
// inside one MULTI/EXEC.
func (s *RedisStore) Rotate(ctx context.Context) error {
	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		newer, err := s.head(ctx, tx)
		if err != nil {
			return err
		}
		staging := newer.Next()
		n, err := tx.HLen(ctx, s.slotKey(staging)).Result()
		if err != nil {
			return fmt.Errorf("count snapshots in slot %s: %w", staging, err)
		}
		if n == 0 {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.headKey(), string(staging), 0)
			pipe.Del(ctx, s.slotKey(newer.Prev()))
			return nil
		})
		return err
	}, s.headKey())

	if errors.Is(err, redis.TxFailedErr) {
		return ErrConcurrentRotation
	}
	return err
}

// ReadComparison returns the comparison document.
func (s *RedisStore) ReadComparison(ctx context.Context) ([]byte, error) {
	doc, err := s.rdb.Get(ctx, s.comparisonKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read comparison: %w", err)
	}
	return doc, nil
}

// WriteComparison replaces the comparison document.
func (s *RedisStore) WriteComparison(ctx context.Context, doc []byte) error {
	if err := s.rdb.Set(ctx, s.comparisonKey(), doc, 0).Err(); err != nil {
		return fmt.Errorf("write comparison: %w", err)
	}
	return nil
}
