package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/velvetrow/velvetrow-backend/internal/cart"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
	"github.com/velvetrow/velvetrow-backend/pkg/types"
)

// Attempt is the pending checkout snapshot persisted between Begin and
// Confirm. It expires on its own; an expired attempt can no longer be
// confirmed.
type Attempt struct {
	Reference       string               `json:"reference"`
	UserID          *uuid.UUID           `json:"user_id,omitempty"`
	GuestSessionID  string               `json:"guest_session_id,omitempty"`
	CustomerName    string               `json:"customer_name"`
	CustomerEmail   string               `json:"customer_email"`
	CustomerPhone   *string              `json:"customer_phone,omitempty"`
	ShippingAddress types.Address        `json:"shipping_address"`
	ShippingMethod  enums.ShippingMethod `json:"shipping_method"`
	ShippingKobo    int64                `json:"shipping_kobo"`
	SubtotalKobo    int64                `json:"subtotal_kobo"`
	TotalKobo       int64                `json:"total_kobo"`
	Lines           []cart.CartLine      `json:"lines"`
	CreatedAt       time.Time            `json:"created_at"`
}

// Session rebuilds the cart session handle the attempt was opened with.
func (a Attempt) Session() cart.Session {
	return cart.Session{UserID: a.UserID, GuestSessionID: a.GuestSessionID}
}

// ErrAttemptNotFound is returned when a reference has no live attempt.
var ErrAttemptNotFound = errors.New("checkout attempt not found or expired")

type attemptKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CheckoutAttemptKey(reference string) string
}

// AttemptStore persists pending checkout attempts in Redis keyed by the
// payment reference.
type AttemptStore struct {
	kv  attemptKV
	ttl time.Duration
}

// NewAttemptStore builds an attempt store with the configured TTL.
func NewAttemptStore(kv attemptKV, ttl time.Duration) (*AttemptStore, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("attempt ttl must be positive")
	}
	return &AttemptStore{kv: kv, ttl: ttl}, nil
}

// Save persists the attempt under its reference.
func (s *AttemptStore) Save(ctx context.Context, attempt Attempt) error {
	if strings.TrimSpace(attempt.Reference) == "" {
		return fmt.Errorf("attempt reference required")
	}
	payload, err := json.Marshal(attempt)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.kv.CheckoutAttemptKey(attempt.Reference), string(payload), s.ttl)
}

// Load returns the attempt for the reference, or ErrAttemptNotFound when
// it never existed or already expired.
func (s *AttemptStore) Load(ctx context.Context, reference string) (*Attempt, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, ErrAttemptNotFound
	}
	raw, err := s.kv.Get(ctx, s.kv.CheckoutAttemptKey(reference))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}
	var attempt Attempt
	if err := json.Unmarshal([]byte(raw), &attempt); err != nil {
		return nil, ErrAttemptNotFound
	}
	return &attempt, nil
}

// Delete removes the attempt once it reaches a terminal outcome.
func (s *AttemptStore) Delete(ctx context.Context, reference string) error {
	if strings.TrimSpace(reference) == "" {
		return nil
	}
	return s.kv.Del(ctx, s.kv.CheckoutAttemptKey(reference))
}
