package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/keshan-spec/Discussion-Board-API/internal/config"
	"github.com/keshan-spec/Discussion-Board-API/internal/database"
	"github.com/keshan-spec/Discussion-Board-API/internal/database/databasetest"
	"github.com/keshan-spec/Discussion-Board-API/internal/forum"
	"github.com/keshan-spec/Discussion-Board-API/internal/models"
)

func mustStartPostgres(t *testing.T) database.Service {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("forum"),
		postgres.WithUsername("forum"),
		postgres.WithPassword("forum"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	svc, err := database.New(config.Config{DBDriver: "postgres", DBDSN: dsn, LogLevel: "error"}, databasetest.Logger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	require.NoError(t, database.Migrate(svc.GetDB()))
	return svc
}

func TestPostgres_ConcurrentTogglesStayConsistent(t *testing.T) {
	svc := mustStartPostgres(t)
	db := svc.GetDB()
	ctx := context.Background()

	assert.Equal(t, "up", svc.Health()["status"])

	u := createUser(t, db, "racer")
	post := createPost(t, db, u.ID, "t")
	votes := NewPostVotes(db)
	ledger := forum.NewLedger(forum.LedgerPost, votes)

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.Toggle(ctx, post.ID, u.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var rows int64
	require.NoError(t, db.Model(&models.PostUpvote{}).Where("post_id = ? AND voter_id = ?", post.ID, u.ID).Count(&rows).Error)
	assert.LessOrEqual(t, rows, int64(1))

	err := votes.Insert(ctx, post.ID, u.ID)
	if rows == 1 {
		assert.ErrorIs(t, err, forum.ErrDuplicateVote)
	} else {
		assert.NoError(t, err)
	}
}
