package forum

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_ToggleTwiceRestores(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(LedgerPost, newMemVotes())

	n, err := l.Toggle(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	voted, err := l.HasVoted(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, voted)

	n, err = l.Toggle(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	voted, err = l.HasVoted(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, voted)
}

func TestLedger_CountsDistinctVoters(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(LedgerComment, newMemVotes())

	for voter := uint(1); voter <= 3; voter++ {
		_, err := l.Toggle(ctx, 5, voter)
		require.NoError(t, err)
	}
	_, err := l.Toggle(ctx, 6, 1)
	require.NoError(t, err)

	n, err := l.Count(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	counts, err := l.CountMany(ctx, []uint{5, 6, 7})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{5: 3, 6: 1}, counts)
}

func TestLedger_CountManyEmpty(t *testing.T) {
	counts, err := NewLedger(LedgerPost, newMemVotes()).CountMany(context.Background(), nil)

	require.NoError(t, err)
	assert.NotNil(t, counts)
	assert.Empty(t, counts)
}

func TestLedger_LostInsertRaceRemovesVote(t *testing.T) {
	ctx := context.Background()
	votes := newMemVotes()
	l := NewLedger(LedgerPost, votes)

	// A concurrent toggle by the same voter lands between our delete and insert.
	votes.beforeInsert = func() {
		votes.mu.Lock()
		votes.votes[voteKey{1, 10}] = true
		votes.mu.Unlock()
	}

	n, err := l.Toggle(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	voted, err := l.HasVoted(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, voted)
}

func TestLedger_ConcurrentTogglesKeepOneVotePerVoter(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(LedgerPost, newMemVotes())

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Toggle(ctx, 1, 10)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	n, err := l.Count(ctx, 1)
	require.NoError(t, err)
	assert.LessOrEqual(t, n, int64(1))
}

type failingVotes struct{ *memVotes }

func (f failingVotes) Delete(context.Context, uint, uint) (bool, error) {
	return false, errors.New("connection reset")
}

func TestLedger_StoreFailure(t *testing.T) {
	l := NewLedger(LedgerPost, failingVotes{newMemVotes()})

	_, err := l.Toggle(context.Background(), 1, 10)

	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "delete vote", se.Op)
}
