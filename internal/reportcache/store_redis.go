// Package reportcache keeps rendered reports in Redis, keyed by the PGN input.
package reportcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "cs:report:"
	defaultTTL = 24 * time.Hour
)

// Entry is one cached analysis.
type Entry struct {
	Report    string    `json:"report"`
	Plies     int       `json:"plies"`
	CreatedAt time.Time `json:"created_at"`
}

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

// Open connects to REDIS_URL and pings it.
func Open(ctx context.Context, redisURL string, ttl time.Duration) (*Store, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, errors.New("REDIS_URL required for report cache")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewStore(rdb, ttl), nil
}

func (s *Store) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

// Hash fingerprints the raw input together with every setting that shapes
// the rendered text.
func Hash(input []byte, variant string) string {
	h := sha256.New()
	h.Write(input)
	h.Write([]byte{0})
	h.Write([]byte(variant))
	return hex.EncodeToString(h.Sum(nil))
}

func Key(hash string) string { return keyPrefix + hash }

// Load returns nil, nil on a miss.
func (s *Store) Load(ctx context.Context, key string) (*Entry, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	return &e, nil
}

func (s *Store) Save(ctx context.Context, key string, e *Entry) error {
	if e == nil {
		return nil
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, raw, s.ttl).Err()
}
