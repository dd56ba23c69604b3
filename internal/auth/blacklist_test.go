package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshan-spec/Discussion-Board-API/internal/database/databasetest"
	"github.com/keshan-spec/Discussion-Board-API/internal/models"
)

func TestDBBlacklist(t *testing.T) {
	ctx := context.Background()
	bl := NewDBBlacklist(databasetest.Open(t))

	ok, err := bl.Contains(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, bl.Add(ctx, "token-a", time.Now().Add(time.Hour)))
	require.NoError(t, bl.Add(ctx, "token-a", time.Now().Add(time.Hour)), "adding twice is fine")

	ok, err = bl.Contains(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDBBlacklist_Purge(t *testing.T) {
	ctx := context.Background()
	db := databasetest.Open(t)
	bl := NewDBBlacklist(db)

	require.NoError(t, bl.Add(ctx, "old", time.Now().Add(-time.Minute)))
	require.NoError(t, bl.Add(ctx, "fresh", time.Now().Add(time.Hour)))

	n, err := bl.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var left []models.BlacklistedToken
	require.NoError(t, db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, HashToken("fresh"), left[0].TokenHash)
}

func TestStartPurger_BadSpec(t *testing.T) {
	_, err := StartPurger("not a schedule", NewDBBlacklist(databasetest.Open(t)), databasetest.Logger())
	assert.Error(t, err)
}

func TestStartPurger(t *testing.T) {
	c, err := StartPurger("@every 1h", NewDBBlacklist(databasetest.Open(t)), databasetest.Logger())
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()
}

func setupRedisBlacklist(t *testing.T) (*RedisBlacklist, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	bl, err := NewRedisBlacklist("redis://" + s.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = bl.Close() })
	return bl, s
}

func TestRedisBlacklist(t *testing.T) {
	ctx := context.Background()
	bl, s := setupRedisBlacklist(t)

	require.NoError(t, bl.Add(ctx, "token-a", time.Now().Add(time.Minute)))

	ok, err := bl.Contains(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, s.Exists("blacklist:"+HashToken("token-a")))

	s.FastForward(2 * time.Minute)

	ok, err = bl.Contains(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisBlacklist_ExpiredTokenIsSkipped(t *testing.T) {
	ctx := context.Background()
	bl, s := setupRedisBlacklist(t)

	require.NoError(t, bl.Add(ctx, "gone", time.Now().Add(-time.Second)))
	assert.Empty(t, s.Keys())
}

func TestNewRedisBlacklist_BadURL(t *testing.T) {
	_, err := NewRedisBlacklist("not-a-url")
	assert.Error(t, err)
}
