package store

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"gorm.io/gorm"

	"github.com/keshan-spec/Discussion-Board-API/internal/forum"
	"github.com/keshan-spec/Discussion-Board-API/internal/models"
)

// Users stores accounts and resolves authors.
type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

var _ forum.IdentityLookup = (*Users)(nil)

// Create inserts a new account. A taken email or handle yields forum.ErrConflict.
func (u *Users) Create(ctx context.Context, user *models.User) error {
	err := u.db.WithContext(ctx).Create(user).Error
	if isDuplicate(err) {
		return forum.ErrConflict
	}
	return err
}

func (u *Users) ByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, notFound(err, forum.ErrUserNotFound)
	}
	return user, nil
}

func (u *Users) ByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return models.User{}, notFound(err, forum.ErrUserNotFound)
	}
	return user, nil
}

// Update saves the editable profile columns of user.
func (u *Users) Update(ctx context.Context, user *models.User) error {
	res := u.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]any{
		"first_name":       user.FirstName,
		"last_name":        user.LastName,
		"email":            user.Email,
		"handle":           user.Handle,
		"profanity_filter": user.ProfanityFilter,
		"modified_at":      time.Now(),
	})
	if isDuplicate(res.Error) {
		return forum.ErrConflict
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return forum.ErrUserNotFound
	}
	return nil
}

func (u *Users) SetPassword(ctx context.Context, id uint, hash string) error {
	res := u.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]any{
		"password":    hash,
		"modified_at": time.Now(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return forum.ErrUserNotFound
	}
	return nil
}

// Delete removes the account together with its posts, its comments and the
// replies below them, the votes it cast and the votes on anything removed.
func (u *Users) Delete(ctx context.Context, id uint) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.User{}).Where("id = ?", id).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return forum.ErrUserNotFound
		}

		var posts []uint
		if err := tx.Model(&models.Post{}).Where("user_id = ?", id).Pluck("id", &posts).Error; err != nil {
			return err
		}
		var roots []uint
		q := tx.Model(&models.Comment{}).Where("user_id = ?", id)
		if len(posts) > 0 {
			q = q.Or("post_id IN ?", posts)
		}
		if err := q.Pluck("id", &roots).Error; err != nil {
			return err
		}
		comments, err := subtree(tx, roots)
		if err != nil {
			return err
		}
		if err := deleteComments(tx, comments); err != nil {
			return err
		}

		if err := tx.Where("voter_id = ?", id).Delete(&models.CommentUpvote{}).Error; err != nil {
			return err
		}
		votes := tx.Where("voter_id = ?", id)
		if len(posts) > 0 {
			votes = votes.Or("post_id IN ?", posts)
		}
		if err := votes.Delete(&models.PostUpvote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}

func (u *Users) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := u.db.WithContext(ctx).Order("id ASC").Find(&users).Error
	return users, err
}

// Find matches users on the non-zero fields of filter.
func (u *Users) Find(ctx context.Context, filter models.User) ([]models.User, error) {
	var users []models.User
	err := u.db.WithContext(ctx).Where(&filter).Order("id ASC").Find(&users).Error
	return users, err
}

// Author loads only the public author fields.
func (u *Users) Author(ctx context.Context, userID uint) (forum.Author, error) {
	var user models.User
	err := u.db.WithContext(ctx).Select("id", "handle").First(&user, userID).Error
	if err != nil {
		return forum.Author{}, notFound(err, forum.ErrUserNotFound)
	}
	return forum.AuthorOf(user), nil
}

type cachedAuthor struct {
	author    forum.Author
	expiresAt time.Time
}

// CachedIdentity keeps recently resolved authors in a bounded LRU.
type CachedIdentity struct {
	next  forum.IdentityLookup
	cache *lru.Cache[uint, cachedAuthor]
	ttl   time.Duration
}

var _ forum.IdentityLookup = (*CachedIdentity)(nil)

// NewCachedIdentity wraps next with an LRU of the given size. Entries older than ttl are reloaded.
func NewCachedIdentity(next forum.IdentityLookup, size int, ttl time.Duration) (*CachedIdentity, error) {
	cache, err := lru.New[uint, cachedAuthor](size)
	if err != nil {
		return nil, err
	}
	return &CachedIdentity{next: next, cache: cache, ttl: ttl}, nil
}

func (c *CachedIdentity) Author(ctx context.Context, userID uint) (forum.Author, error) {
	if item, ok := c.cache.Get(userID); ok {
		if time.Now().Before(item.expiresAt) {
			return item.author, nil
		}
		c.cache.Remove(userID)
	}

	author, err := c.next.Author(ctx, userID)
	if err != nil {
		return forum.Author{}, err
	}
	c.cache.Add(userID, cachedAuthor{author: author, expiresAt: time.Now().Add(c.ttl)})
	return author, nil
}

// Forget drops a cached author, e.g. after the account changes.
func (c *CachedIdentity) Forget(userID uint) {
	c.cache.Remove(userID)
}
