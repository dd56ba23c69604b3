package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/keshan-spec/Discussion-Board-API/internal/forum"
	"github.com/keshan-spec/Discussion-Board-API/internal/models"
)

// Votes is one vote ledger table. The (voter_id, target) unique index does the
// deduplication; Insert surfaces a violation as forum.ErrDuplicateVote.
type Votes struct {
	db     *gorm.DB
	model  any
	column string
	row    func(targetID, voterID uint) any
}

var _ forum.VoteStore = (*Votes)(nil)

// NewPostVotes returns the post upvote ledger.
func NewPostVotes(db *gorm.DB) *Votes {
	return &Votes{
		db:     db,
		model:  &models.PostUpvote{},
		column: "post_id",
		row: func(targetID, voterID uint) any {
			return &models.PostUpvote{PostID: targetID, VoterID: voterID}
		},
	}
}

// NewCommentVotes returns the comment upvote ledger.
func NewCommentVotes(db *gorm.DB) *Votes {
	return &Votes{
		db:     db,
		model:  &models.CommentUpvote{},
		column: "comment_id",
		row: func(targetID, voterID uint) any {
			return &models.CommentUpvote{CommentID: targetID, VoterID: voterID}
		},
	}
}

func (v *Votes) Insert(ctx context.Context, targetID, voterID uint) error {
	err := v.db.WithContext(ctx).Create(v.row(targetID, voterID)).Error
	if isDuplicate(err) {
		return forum.ErrDuplicateVote
	}
	return err
}

func (v *Votes) Delete(ctx context.Context, targetID, voterID uint) (bool, error) {
	res := v.db.WithContext(ctx).
		Where(v.column+" = ? AND voter_id = ?", targetID, voterID).
		Delete(v.model)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (v *Votes) Exists(ctx context.Context, targetID, voterID uint) (bool, error) {
	var n int64
	err := v.db.WithContext(ctx).Model(v.model).
		Where(v.column+" = ? AND voter_id = ?", targetID, voterID).
		Count(&n).Error
	return n > 0, err
}

func (v *Votes) Count(ctx context.Context, targetID uint) (int64, error) {
	var n int64
	err := v.db.WithContext(ctx).Model(v.model).Where(v.column+" = ?", targetID).Count(&n).Error
	return n, err
}

func (v *Votes) CountMany(ctx context.Context, targetIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(targetIDs))
	if len(targetIDs) == 0 {
		return counts, nil
	}

	type countResult struct {
		TargetID uint
		Count    int64
	}
	var results []countResult
	err := v.db.WithContext(ctx).Model(v.model).
		Select(v.column+" AS target_id, COUNT(*) AS count").
		Where(v.column+" IN ?", targetIDs).
		Group(v.column).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		counts[r.TargetID] = r.Count
	}
	return counts, nil
}
