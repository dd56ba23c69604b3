package models

import "time"

// PostUpvote tracks one user's upvote on a post.
// The composite unique index is what keeps concurrent toggles from double counting.
type PostUpvote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VoterID   uint      `gorm:"not null;uniqueIndex:idx_post_upvote_voter,priority:1" json:"liked_by"`
	Voter     User      `gorm:"foreignKey:VoterID;constraint:OnDelete:CASCADE;" json:"-"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_upvote_voter,priority:2;index" json:"post_id"`
	Post      Post      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentUpvote tracks one user's upvote on a comment.
type CommentUpvote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VoterID   uint      `gorm:"not null;uniqueIndex:idx_comment_upvote_voter,priority:1" json:"liked_by"`
	Voter     User      `gorm:"foreignKey:VoterID;constraint:OnDelete:CASCADE;" json:"-"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_upvote_voter,priority:2;index" json:"comment_id"`
	Comment   Comment   `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
