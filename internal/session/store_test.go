package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"niche-finder/internal/common/config"
	apperrors "niche-finder/internal/common/errors"
	"niche-finder/internal/common/logger"
	"niche-finder/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func setupMiniredis(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewStore(client, config.SessionConfig{TTL: 3600, KeyPrefix: "test:session:"}, logger.NewTestLogger(t))
	return store, mr
}

func testProfile() *models.UserProfile {
	return &models.UserProfile{
		Skills:             []string{"编程基础", "数据分析"},
		Interests:          []string{"技术开发"},
		TimeAvailability:   models.TierHigh,
		InvestmentCapacity: models.TierMedium,
		Name:               "张三",
	}
}

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, code, stdErr.Code)
}

// ==========================
// Store Tests (miniredis)
// ==========================

func TestStore_SaveAndLoad(t *testing.T) {
	store, mr := setupMiniredis(t)
	ctx := context.Background()

	id, err := store.Save(ctx, testProfile())
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	assert.True(t, mr.Exists("test:session:"+id))
	assert.Equal(t, time.Hour, mr.TTL("test:session:"+id))

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, testProfile(), loaded)
}

func TestStore_SessionsAreIndependent(t *testing.T) {
	store, _ := setupMiniredis(t)
	ctx := context.Background()

	first, err := store.Save(ctx, testProfile())
	require.NoError(t, err)

	other := testProfile()
	other.Skills = []string{"写作能力"}
	second, err := store.Save(ctx, other)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	loaded, err := store.Load(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, []string{"编程基础", "数据分析"}, loaded.Skills)
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	store, mr := setupMiniredis(t)
	ctx := context.Background()

	id, err := store.Save(ctx, testProfile())
	require.NoError(t, err)

	mr.FastForward(time.Hour + time.Second)

	_, err = store.Load(ctx, id)
	requireCode(t, err, apperrors.ErrCodeProfileNotFound)

	err = store.Replace(ctx, id, testProfile())
	requireCode(t, err, apperrors.ErrCodeSessionExpired)
}

func TestStore_ReplaceSwapsWholeProfile(t *testing.T) {
	store, mr := setupMiniredis(t)
	ctx := context.Background()

	id, err := store.Save(ctx, testProfile())
	require.NoError(t, err)

	mr.FastForward(30 * time.Minute)

	replacement := &models.UserProfile{Skills: []string{"写作能力"}, TimeAvailability: models.TierLow}
	require.NoError(t, store.Replace(ctx, id, replacement))
	assert.Equal(t, time.Hour, mr.TTL("test:session:"+id))

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, replacement, loaded)
	assert.Empty(t, loaded.Name)
}

func TestStore_Delete(t *testing.T) {
	store, _ := setupMiniredis(t)
	ctx := context.Background()

	id, err := store.Save(ctx, testProfile())
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, id))
	require.NoError(t, store.Delete(ctx, id))

	_, err = store.Load(ctx, id)
	requireCode(t, err, apperrors.ErrCodeProfileNotFound)
}

func TestStore_InvalidInputs(t *testing.T) {
	store, mr := setupMiniredis(t)
	ctx := context.Background()

	_, err := store.Save(ctx, nil)
	requireCode(t, err, apperrors.ErrCodeProfileInvalid)

	_, err = store.Load(ctx, "not-a-uuid")
	requireCode(t, err, apperrors.ErrCodeProfileNotFound)

	err = store.Replace(ctx, "not-a-uuid", testProfile())
	requireCode(t, err, apperrors.ErrCodeSessionExpired)

	id := uuid.NewString()
	require.NoError(t, mr.Set("test:session:"+id, "{broken"))
	_, err = store.Load(ctx, id)
	requireCode(t, err, apperrors.ErrCodeProfileInvalid)
}

func TestStore_SaveWhenRedisDown(t *testing.T) {
	store, mr := setupMiniredis(t)
	mr.Close()

	_, err := store.Save(context.Background(), testProfile())
	requireCode(t, err, apperrors.ErrCodeSessionStoreFailed)
}

func TestNewStore_Defaults(t *testing.T) {
	store := NewStore(redis.NewClient(&redis.Options{}), config.SessionConfig{}, nil)
	assert.Equal(t, DefaultTTL, store.TTL())
	assert.Equal(t, DefaultKeyPrefix+"x", store.key("x"))
}

// ==========================
// Store Tests (redismock)
// ==========================

func TestStore_RedisErrors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewStore(client, config.SessionConfig{TTL: 60, KeyPrefix: "s:"}, logger.NewNoOpLogger())
	ctx := context.Background()
	id := uuid.NewString()

	mock.ExpectGet("s:" + id).SetErr(errors.New("i/o timeout"))
	_, err := store.Load(ctx, id)
	requireCode(t, err, apperrors.ErrCodeSessionStoreFailed)

	data, err := json.Marshal(testProfile())
	require.NoError(t, err)
	mock.ExpectSetXX("s:"+id, string(data), time.Minute).SetErr(errors.New("READONLY"))
	err = store.Replace(ctx, id, testProfile())
	requireCode(t, err, apperrors.ErrCodeSessionStoreFailed)

	mock.ExpectDel("s:" + id).SetErr(errors.New("connection reset"))
	err = store.Delete(ctx, id)
	requireCode(t, err, apperrors.ErrCodeSessionStoreFailed)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LoadMissingKey(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewStore(client, config.SessionConfig{TTL: 60, KeyPrefix: "s:"}, nil)
	id := uuid.NewString()

	mock.ExpectGet("s:" + id).RedisNil()
	_, err := store.Load(context.Background(), id)
	requireCode(t, err, apperrors.ErrCodeProfileNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Resolve(t *testing.T) {
	store, _ := setupMiniredis(t)
	ctx := context.Background()

	id, err := store.Save(ctx, testProfile())
	require.NoError(t, err)

	inline := &models.UserProfile{Skills: []string{"写作能力"}}
	got, err := store.Resolve(ctx, id, inline)
	require.NoError(t, err)
	assert.Same(t, inline, got)

	got, err = store.Resolve(ctx, id, nil)
	require.NoError(t, err)
	assert.Equal(t, testProfile(), got)

	_, err = store.Resolve(ctx, "", nil)
	requireCode(t, err, apperrors.ErrCodeProfileInvalid)

	var noStore *Store
	_, err = noStore.Resolve(ctx, id, nil)
	requireCode(t, err, apperrors.ErrCodeProfileNotFound)
}
