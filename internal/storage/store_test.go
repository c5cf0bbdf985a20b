package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopcart-backend/pkg/config"
	"github.com/angelmondragon/shopcart-backend/pkg/db"
	"github.com/angelmondragon/shopcart-backend/pkg/enums"
	"github.com/angelmondragon/shopcart-backend/pkg/migrate"
	"github.com/angelmondragon/shopcart-backend/pkg/redis"
)

func newGormStore(t *testing.T) *GormStore {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+strings.ReplaceAll(t.Name(), "/", "_")+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migrate.Run(context.Background(), sqlDB, enums.StorageDriverSQLite, "up"))

	store, err := NewGormStore(db.NewFromConn(conn, enums.StorageDriverSQLite))
	require.NoError(t, err)
	return store
}

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := redis.New(context.Background(), config.RedisConfig{Address: mr.Addr()}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	store, err := NewRedisStore(client, "test")
	require.NoError(t, err)
	return store
}

func backends() map[string]func(*testing.T) BlobStore {
	return map[string]func(*testing.T) BlobStore{
		"memory": func(*testing.T) BlobStore { return NewMemoryStore() },
		"gorm":   func(t *testing.T) BlobStore { return newGormStore(t) },
		"redis":  func(t *testing.T) BlobStore { return newRedisStore(t) },
	}
}

func TestBlobStoreContract(t *testing.T) {
	for name, build := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := build(t)

			_, err := store.Load(ctx, KeyCart)
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Save(ctx, KeyCart, []byte(`[]`)))
			got, err := store.Load(ctx, KeyCart)
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got))

			require.NoError(t, store.Save(ctx, KeyCart, []byte(`[1]`)))
			got, err = store.Load(ctx, KeyCart)
			require.NoError(t, err)
			assert.Equal(t, `[1]`, string(got))

			require.NoError(t, store.SaveMany(ctx, map[string][]byte{
				KeyCart:           []byte(`[]`),
				KeySelectedCoupon: []byte(`null`),
			}))
			got, err = store.Load(ctx, KeySelectedCoupon)
			require.NoError(t, err)
			assert.Equal(t, `null`, string(got))

			require.NoError(t, store.Delete(ctx, KeyCart))
			_, err = store.Load(ctx, KeyCart)
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	value := []byte("abc")
	require.NoError(t, store.Save(ctx, KeyProducts, value))
	value[0] = 'x'

	got, err := store.Load(ctx, KeyProducts)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestLoadJSONFallsBack(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	fallback := []string{"seed"}

	got, found, err := LoadJSON(ctx, store, nil, KeyProducts, fallback)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, fallback, got)

	require.NoError(t, store.Save(ctx, KeyProducts, []byte("{not json")))
	got, found, err = LoadJSON(ctx, store, nil, KeyProducts, fallback)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, fallback, got)

	require.NoError(t, SaveJSON(ctx, store, KeyProducts, []string{"a", "b"}))
	got, found, err = LoadJSON(ctx, store, nil, KeyProducts, fallback)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestOpenMemoryBackend(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "memory"}}
	backend, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, backend.Store)
	assert.Empty(t, backend.Pingers())
	assert.NoError(t, backend.Close())
}

func TestOpenRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: "redis", CartID: "default"},
		Redis:   config.RedisConfig{Address: mr.Addr()},
	}
	backend, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	require.NoError(t, backend.Store.Save(context.Background(), KeyCart, []byte("[]")))
	assert.True(t, mr.Exists("shopcart:blob:default:cart"))
	assert.Contains(t, backend.Pingers(), "redis")
}
