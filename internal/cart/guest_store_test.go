package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGuestKV struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeGuestKV() *fakeGuestKV {
	return &fakeGuestKV{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeGuestKV) Get(_ context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (f *fakeGuestKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	f.data[key] = value.(string)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeGuestKV) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
		delete(f.ttls, k)
	}
	return nil
}

func (f *fakeGuestKV) GuestCartKey(sessionID string) string {
	return "vr:guest_cart:" + sessionID
}

func TestGuestStoreRoundTrip(t *testing.T) {
	kv := newFakeGuestKV()
	store, err := NewGuestStore(kv)
	require.NoError(t, err)
	ctx := context.Background()

	lines := []CartLine{
		{ProductID: uuid.New(), Name: "silk-scarf", UnitPriceKobo: 250000, Quantity: 2, Size: "M"},
	}
	require.NoError(t, store.Save(ctx, "sess-1", lines))
	assert.Equal(t, guestCartTTL, kv.ttls["vr:guest_cart:sess-1"])

	loaded, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, lines, loaded)

	require.NoError(t, store.Delete(ctx, "sess-1"))
	loaded, err = store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestGuestStoreMissingCartIsEmpty(t *testing.T) {
	store, err := NewGuestStore(newFakeGuestKV())
	require.NoError(t, err)

	lines, err := store.Load(context.Background(), "sess-none")
	require.NoError(t, err)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestGuestStoreCorruptPayloadIsEmpty(t *testing.T) {
	kv := newFakeGuestKV()
	kv.data["vr:guest_cart:sess-bad"] = "{not json"
	store, err := NewGuestStore(kv)
	require.NoError(t, err)

	lines, err := store.Load(context.Background(), "sess-bad")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestGuestStoreRequiresSessionID(t *testing.T) {
	store, err := NewGuestStore(newFakeGuestKV())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Load(ctx, "  ")
	assert.Error(t, err)
	assert.Error(t, store.Save(ctx, "", nil))
	assert.Error(t, store.Delete(ctx, ""))
}
