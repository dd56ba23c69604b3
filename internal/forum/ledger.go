package forum

import (
	"context"
	"errors"
)

// Ledger names.
const (
	LedgerPost    = "post"
	LedgerComment = "comment"
)

// Ledger records at most one vote per (voter, target). Posts and comments each get their own.
type Ledger struct {
	name  string
	votes VoteStore
}

func NewLedger(name string, votes VoteStore) *Ledger {
	return &Ledger{name: name, votes: votes}
}

// Toggle removes the voter's vote if it exists and adds one otherwise, then
// returns the target's new total.
//
// The delete is attempted first so the existence check and the removal are a
// single statement. If the insert then loses a race to a concurrent toggle by
// the same voter, the unique constraint rejects it; the vote existed by then,
// so this call removes it.
func (l *Ledger) Toggle(ctx context.Context, targetID, voterID uint) (int64, error) {
	outcome, err := l.toggle(ctx, targetID, voterID)
	voteToggles.WithLabelValues(l.name, outcome).Inc()
	if err != nil {
		return 0, err
	}
	return l.Count(ctx, targetID)
}

func (l *Ledger) toggle(ctx context.Context, targetID, voterID uint) (string, error) {
	removed, err := l.votes.Delete(ctx, targetID, voterID)
	if err != nil {
		return "error", storeErr("delete vote", err)
	}
	if removed {
		return "removed", nil
	}

	err = l.votes.Insert(ctx, targetID, voterID)
	switch {
	case err == nil:
		return "added", nil
	case errors.Is(err, ErrDuplicateVote):
		if _, err := l.votes.Delete(ctx, targetID, voterID); err != nil {
			return "error", storeErr("delete vote", err)
		}
		return "race_removed", nil
	default:
		return "error", storeErr("insert vote", err)
	}
}

// Count returns the number of votes on a target; zero when there are none.
func (l *Ledger) Count(ctx context.Context, targetID uint) (int64, error) {
	n, err := l.votes.Count(ctx, targetID)
	if err != nil {
		return 0, storeErr("count votes", err)
	}
	return n, nil
}

// CountMany returns vote totals keyed by target. Targets without votes are absent.
func (l *Ledger) CountMany(ctx context.Context, targetIDs []uint) (map[uint]int64, error) {
	if len(targetIDs) == 0 {
		return map[uint]int64{}, nil
	}
	counts, err := l.votes.CountMany(ctx, targetIDs)
	if err != nil {
		return nil, storeErr("count votes", err)
	}
	return counts, nil
}

func (l *Ledger) HasVoted(ctx context.Context, targetID, voterID uint) (bool, error) {
	ok, err := l.votes.Exists(ctx, targetID, voterID)
	if err != nil {
		return false, storeErr("check vote", err)
	}
	return ok, nil
}
