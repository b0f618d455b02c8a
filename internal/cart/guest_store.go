package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

// Guest carts expire on their own if the shopper never returns.
const guestCartTTL = 30 * 24 * time.Hour

type guestKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	GuestCartKey(sessionID string) string
}

// GuestStore persists anonymous carts in Redis keyed by the shopper's
// session id.
type GuestStore struct {
	kv guestKV
}

// NewGuestStore builds a guest cart store over the provided Redis client.
func NewGuestStore(kv guestKV) (*GuestStore, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &GuestStore{kv: kv}, nil
}

// Load returns the guest cart lines, or an empty slice when no cart exists.
func (s *GuestStore) Load(ctx context.Context, sessionID string) ([]CartLine, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id required")
	}
	raw, err := s.kv.Get(ctx, s.kv.GuestCartKey(sessionID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return []CartLine{}, nil
		}
		return nil, err
	}

	var lines []CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		// A corrupt record is treated as an empty cart rather than a
		// permanent failure for the session.
		return []CartLine{}, nil
	}
	return lines, nil
}

// Save overwrites the guest cart, refreshing its TTL.
func (s *GuestStore) Save(ctx context.Context, sessionID string, lines []CartLine) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id required")
	}
	if lines == nil {
		lines = []CartLine{}
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.kv.GuestCartKey(sessionID), string(payload), guestCartTTL)
}

// Delete removes the guest cart record.
func (s *GuestStore) Delete(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id required")
	}
	return s.kv.Del(ctx, s.kv.GuestCartKey(sessionID))
}
