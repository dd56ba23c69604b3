package forum

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/keshan-spec/Discussion-Board-API/internal/models"
)

type memStore struct {
	mu       sync.Mutex
	posts    map[uint]models.Post
	comments map[uint]models.Comment
	users    map[uint]models.User
	nextID   uint
	writes   int
}

func newMemStore() *memStore {
	return &memStore{
		posts:    map[uint]models.Post{},
		comments: map[uint]models.Comment{},
		users:    map[uint]models.User{},
		nextID:   100,
	}
}

func (m *memStore) addUser(id uint, handle string) {
	m.users[id] = models.User{ID: id, Handle: handle}
}

func (m *memStore) addPost(p models.Post) models.Post {
	if p.CreatedOn.IsZero() {
		p.CreatedOn = time.Date(2024, 1, 1, 0, 0, int(p.ID), 0, time.UTC)
	}
	m.posts[p.ID] = p
	return p
}

func (m *memStore) addComment(c models.Comment) {
	m.comments[c.ID] = c
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memStore) Post(_ context.Context, id uint) (models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return models.Post{}, ErrPostNotFound
	}
	return p, nil
}

func (m *memStore) sortedPosts(filter func(models.Post) bool) []models.Post {
	var out []models.Post
	for _, p := range m.posts {
		if filter(p) {
			p.User = m.users[p.UserID]
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedOn.After(out[j].CreatedOn) })
	return out
}

func (m *memStore) PostsPage(_ context.Context, page, size int) ([]models.Post, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sortedPosts(func(models.Post) bool { return true })
	start := (page - 1) * size
	if start >= len(all) {
		return nil, int64(len(all)), nil
	}
	end := min(start+size, len(all))
	return all[start:end], int64(len(all)), nil
}

func (m *memStore) PostsByUser(_ context.Context, userID uint) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedPosts(func(p models.Post) bool { return p.UserID == userID }), nil
}

func (m *memStore) CreatePost(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	post.ID = m.id()
	post.CreatedOn = time.Now().UTC()
	m.posts[post.ID] = *post
	return nil
}

func (m *memStore) ClosePost(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	p := m.posts[id]
	p.IsClosed = true
	m.posts[id] = p
	return nil
}

func (m *memStore) DeletePost(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	delete(m.posts, id)
	for cid, c := range m.comments {
		if c.PostID == id {
			delete(m.comments, cid)
		}
	}
	return nil
}

func (m *memStore) Comment(_ context.Context, id uint) (models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return models.Comment{}, ErrCommentNotFound
	}
	return c, nil
}

func (m *memStore) RepliesForPost(_ context.Context, postID uint) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Comment
	for _, c := range m.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) RepliesByParent(_ context.Context, parentIDs []uint) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	parents := make(map[uint]bool, len(parentIDs))
	for _, id := range parentIDs {
		parents[id] = true
	}
	var out []models.Comment
	for _, c := range m.comments {
		if c.ParentID != nil && parents[*c.ParentID] {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) CreateComment(_ context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	comment.ID = m.id()
	m.comments[comment.ID] = *comment
	return nil
}

func (m *memStore) DeleteComment(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	doomed := []uint{id}
	for len(doomed) > 0 {
		cur := doomed[0]
		doomed = doomed[1:]
		delete(m.comments, cur)
		for cid, c := range m.comments {
			if c.ParentID != nil && *c.ParentID == cur {
				doomed = append(doomed, cid)
			}
		}
	}
	return nil
}

func (m *memStore) CountComments(_ context.Context, postID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, c := range m.comments {
		if c.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CountCommentsByPost(_ context.Context, postIDs []uint) (map[uint]int64, error) {
	out := map[uint]int64{}
	for _, id := range postIDs {
		n, _ := m.CountComments(context.Background(), id)
		if n > 0 {
			out[id] = n
		}
	}
	return out, nil
}

func (m *memStore) Author(_ context.Context, userID uint) (Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return Author{}, ErrUserNotFound
	}
	return AuthorOf(u), nil
}

type voteKey struct{ target, voter uint }

type memVotes struct {
	mu    sync.Mutex
	votes map[voteKey]bool

	// beforeInsert runs without the lock held, letting a test interleave a competing toggle.
	beforeInsert func()
}

func newMemVotes() *memVotes {
	return &memVotes{votes: map[voteKey]bool{}}
}

func (m *memVotes) Insert(_ context.Context, targetID, voterID uint) error {
	if hook := m.beforeInsert; hook != nil {
		m.beforeInsert = nil
		hook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := voteKey{targetID, voterID}
	if m.votes[k] {
		return ErrDuplicateVote
	}
	m.votes[k] = true
	return nil
}

func (m *memVotes) Delete(_ context.Context, targetID, voterID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := voteKey{targetID, voterID}
	if !m.votes[k] {
		return false, nil
	}
	delete(m.votes, k)
	return true, nil
}

func (m *memVotes) Exists(_ context.Context, targetID, voterID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.votes[voteKey{targetID, voterID}], nil
}

func (m *memVotes) Count(_ context.Context, targetID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k := range m.votes {
		if k.target == targetID {
			n++
		}
	}
	return n, nil
}

func (m *memVotes) CountMany(ctx context.Context, targetIDs []uint) (map[uint]int64, error) {
	out := map[uint]int64{}
	for _, id := range targetIDs {
		n, _ := m.Count(ctx, id)
		if n > 0 {
			out[id] = n
		}
	}
	return out, nil
}

type wordList []string

func (w wordList) IsProfane(text string) bool {
	lower := strings.ToLower(text)
	for _, word := range w {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
