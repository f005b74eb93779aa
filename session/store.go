package session

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL matches the lifetime of the session cookie.
const TTL = 7 * 24 * time.Hour

// Store keeps per-session state in Redis. The only state we hold is the
// cart: a hash from product id to requested quantity, keyed by session id.
type Store struct {
	rdb *redis.Client
}

func New(addr string) *Store {
	return &Store{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func cartKey(sid string) string { return "cart:" + sid }

// Cart returns the product→quantity mapping for the session. A missing key
// is an empty cart. Entries that fail to parse are skipped.
func (s *Store) Cart(ctx context.Context, sid string) (map[uint]int, error) {
	raw, err := s.rdb.HGetAll(ctx, cartKey(sid)).Result()
	if err != nil {
		return nil, err
	}
	cart := make(map[uint]int, len(raw))
	for field, val := range raw {
		pid, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			continue
		}
		qty, err := strconv.Atoi(val)
		if err != nil || qty <= 0 {
			continue
		}
		cart[uint(pid)] = qty
	}
	return cart, nil
}

func (s *Store) SetQuantity(ctx context.Context, sid string, productID uint, qty int) error {
	key := cartKey(sid)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, strconv.FormatUint(uint64(productID), 10), qty)
	pipe.Expire(ctx, key, TTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) Remove(ctx context.Context, sid string, productID uint) error {
	return s.rdb.HDel(ctx, cartKey(sid), strconv.FormatUint(uint64(productID), 10)).Err()
}

func (s *Store) Clear(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, cartKey(sid)).Err()
}
