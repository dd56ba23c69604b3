package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshan-spec/Discussion-Board-API/internal/config"
	"github.com/keshan-spec/Discussion-Board-API/internal/logging"
	"github.com/keshan-spec/Discussion-Board-API/internal/models"
)

func openSQLite(t *testing.T) Service {
	t.Helper()
	cfg := config.Config{DBDriver: "sqlite", DBDSN: filepath.Join(t.TempDir(), "nested", "forum.db"), LogLevel: "error"}
	svc, err := New(cfg, logging.New(nil, "error", "text"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	require.NoError(t, Migrate(svc.GetDB()))
	return svc
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New(config.Config{DBDriver: "oracle"}, nil)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestHealth_Up(t *testing.T) {
	svc := openSQLite(t)

	stats := svc.Health()
	assert.Equal(t, "up", stats["status"])
	assert.Equal(t, "sqlite", stats["driver"])
}

func TestMigrate_CreatesTables(t *testing.T) {
	db := openSQLite(t).GetDB()

	for _, model := range []any{&models.User{}, &models.Post{}, &models.Comment{},
		&models.PostUpvote{}, &models.CommentUpvote{}, &models.BlacklistedToken{}} {
		assert.True(t, db.Migrator().HasTable(model), "missing table for %T", model)
	}
	assert.True(t, db.Migrator().HasIndex(&models.PostUpvote{}, "idx_post_upvote_voter"))
	assert.True(t, db.Migrator().HasIndex(&models.CommentUpvote{}, "idx_comment_upvote_voter"))
}

func TestSeed_IsIdempotent(t *testing.T) {
	db := openSQLite(t).GetDB()

	require.NoError(t, Seed(db, "123", 4, nil))
	require.NoError(t, Seed(db, "123", 4, nil))

	var users, posts, comments int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Post{}).Count(&posts)
	db.Model(&models.Comment{}).Count(&comments)
	assert.Equal(t, int64(3), users)
	assert.Equal(t, int64(4), posts)
	assert.Equal(t, int64(2), comments)
}

func TestSeed_RequiresPassword(t *testing.T) {
	db := openSQLite(t).GetDB()

	assert.Error(t, Seed(db, "", 1, nil))
}
