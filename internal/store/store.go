// Package store implements the forum persistence ports on gorm.
package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/keshan-spec/Discussion-Board-API/internal/forum"
	"github.com/keshan-spec/Discussion-Board-API/internal/models"
)

// Posts stores posts and their comments.
type Posts struct {
	db *gorm.DB
}

func NewPosts(db *gorm.DB) *Posts {
	return &Posts{db: db}
}

var _ forum.Store = (*Posts)(nil)

func (s *Posts) Post(ctx context.Context, id uint) (models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return models.Post{}, notFound(err, forum.ErrPostNotFound)
	}
	return post, nil
}

func (s *Posts) PostsPage(ctx context.Context, page, size int) ([]models.Post, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := db.Preload("User").
		Order("created_on DESC, id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *Posts) PostsByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_on DESC, id DESC").
		Find(&posts).Error
	return posts, err
}

func (s *Posts) CreatePost(ctx context.Context, post *models.Post) error {
	return s.db.WithContext(ctx).Create(post).Error
}

func (s *Posts) ClosePost(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Update("is_closed", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return forum.ErrPostNotFound
	}
	return nil
}

// DeletePost removes the post, its comments and every vote on either.
func (s *Posts) DeletePost(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comments := tx.Model(&models.Comment{}).Select("id").Where("post_id = ?", id)
		if err := tx.Where("comment_id IN (?)", comments).Delete(&models.CommentUpvote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostUpvote{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return forum.ErrPostNotFound
		}
		return nil
	})
}

func (s *Posts) Comment(ctx context.Context, id uint) (models.Comment, error) {
	var c models.Comment
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return models.Comment{}, notFound(err, forum.ErrCommentNotFound)
	}
	return c, nil
}

func (s *Posts) RepliesForPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_on ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

func (s *Posts) CreateComment(ctx context.Context, comment *models.Comment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

func (s *Posts) RepliesByParent(ctx context.Context, parentIDs []uint) ([]models.Comment, error) {
	return repliesByParent(s.db.WithContext(ctx), parentIDs)
}

func repliesByParent(db *gorm.DB, parentIDs []uint) ([]models.Comment, error) {
	var comments []models.Comment
	if len(parentIDs) == 0 {
		return comments, nil
	}
	err := db.Where("parent_id IN ?", parentIDs).
		Order("created_on ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

// subtree returns roots and every reply below them, walking one level per query.
func subtree(db *gorm.DB, roots []uint) ([]uint, error) {
	all := append([]uint(nil), roots...)
	seen := make(map[uint]bool, len(roots))
	for _, id := range roots {
		seen[id] = true
	}
	frontier := roots
	for len(frontier) > 0 {
		children, err := repliesByParent(db, frontier)
		if err != nil {
			return nil, err
		}
		frontier = nil
		for _, c := range children {
			if !seen[c.ID] {
				seen[c.ID] = true
				all = append(all, c.ID)
				frontier = append(frontier, c.ID)
			}
		}
	}
	return all, nil
}

// DeleteComment removes a comment with its whole reply subtree and their votes.
func (s *Posts) DeleteComment(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Comment{}).Where("id = ?", id).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return forum.ErrCommentNotFound
		}

		doomed, err := subtree(tx, []uint{id})
		if err != nil {
			return err
		}
		return deleteComments(tx, doomed)
	})
}

func deleteComments(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("comment_id IN ?", ids).Delete(&models.CommentUpvote{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&models.Comment{}).Error
}

func (s *Posts) CountComments(ctx context.Context, postID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}

func (s *Posts) CountCommentsByPost(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	type countResult struct {
		PostID uint
		Count  int64
	}
	var results []countResult
	err := s.db.WithContext(ctx).Model(&models.Comment{}).
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		counts[r.PostID] = r.Count
	}
	return counts, nil
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// isDuplicate reports a unique constraint violation. gorm translates it for
// both drivers; the pgconn check covers statements that bypass translation.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
