package forum

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/keshan-spec/Discussion-Board-API/internal/models"
)

// Deps are the collaborators a Service is built from. Profanity, Sanitizer and
// Renderer are optional.
type Deps struct {
	Store        Store
	PostVotes    VoteStore
	CommentVotes VoteStore
	Identity     IdentityLookup
	Profanity    ProfanityClassifier
	Sanitizer    TextSanitizer
	Renderer     Renderer
	Logger       *slog.Logger
}

// Service is the comment-tree and engagement engine. It holds no per-request state.
type Service struct {
	store        Store
	identity     IdentityLookup
	profanity    ProfanityClassifier
	sanitizer    TextSanitizer
	renderer     Renderer
	postVotes    *Ledger
	commentVotes *Ledger
	assembler    Assembler
	log          *slog.Logger
}

func NewService(d Deps) *Service {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &Service{
		store:        d.Store,
		identity:     d.Identity,
		profanity:    d.Profanity,
		sanitizer:    d.Sanitizer,
		renderer:     d.Renderer,
		postVotes:    NewLedger(LedgerPost, d.PostVotes),
		commentVotes: NewLedger(LedgerComment, d.CommentVotes),
		log:          log.With("component", "forum"),
	}
	if d.Renderer != nil {
		s.assembler.Render = d.Renderer.Render
	}
	return s
}

// VoteStatus answers "has this user voted" together with the current total.
type VoteStatus struct {
	Upvoted bool  `json:"upvoted"`
	Upvotes int64 `json:"upvotes"`
}

// GetPostVerbose loads a post with its author, vote total and full comment tree.
func (s *Service) GetPostVerbose(ctx context.Context, postID uint) (VerbosePost, error) {
	post, err := s.store.Post(ctx, postID)
	if err != nil {
		return VerbosePost{}, storeErr("load post", err)
	}

	var (
		author  Author
		upvotes int64
		forest  []*CommentNode
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := s.identity.Author(gctx, post.UserID)
		if err != nil {
			return storeErr("load author", err)
		}
		author = a
		return nil
	})
	g.Go(func() error {
		n, err := s.postVotes.Count(gctx, post.ID)
		upvotes = n
		return err
	})
	g.Go(func() error {
		f, err := s.commentTree(gctx, post.ID)
		forest = f
		return err
	})
	if err := g.Wait(); err != nil {
		return VerbosePost{}, err
	}

	view := Verbose(post, author, upvotes, forest)
	if s.renderer != nil {
		view.HTML = s.renderer.Render(post.Text)
	}
	return view, nil
}

// commentTree reads one snapshot of a post's comments and their vote totals and assembles it.
func (s *Service) commentTree(ctx context.Context, postID uint) ([]*CommentNode, error) {
	comments, err := s.store.RepliesForPost(ctx, postID)
	if err != nil {
		return nil, storeErr("load comments", err)
	}

	ids := make([]uint, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}
	upvotes, err := s.commentVotes.CountMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	roots, anomalies := s.assembler.Build(postID, comments, upvotes)
	treeBuildDuration.Observe(time.Since(start).Seconds())
	treeSize.Observe(float64(len(comments)))

	for _, a := range anomalies {
		droppedComments.WithLabelValues(a.Reason).Inc()
		s.log.Warn("comment left out of thread",
			"post_id", postID,
			"comment_id", a.CommentID,
			"parent_id", a.ParentID,
			"reason", a.Reason,
		)
	}
	return roots, nil
}

// GetPostsPage returns one page of posts in summary form. page and size start at 1.
func (s *Service) GetPostsPage(ctx context.Context, page, size int, basePath string) (PaginationResult, error) {
	if page < 1 {
		return PaginationResult{}, invalid("page must be at least 1")
	}
	if size < 1 {
		return PaginationResult{}, invalid("limit must be at least 1")
	}
	// the store offset is (page-1)*size
	if page-1 > math.MaxInt/size {
		return PaginationResult{}, invalid("page %d is out of range", page)
	}

	posts, total, err := s.store.PostsPage(ctx, page, size)
	if err != nil {
		return PaginationResult{}, storeErr("load posts page", err)
	}
	items, err := s.summaries(ctx, posts)
	if err != nil {
		return PaginationResult{}, err
	}
	return Paginate(page, size, total, items, basePath), nil
}

// PostsByUser lists an author's posts in summary form, newest first.
func (s *Service) PostsByUser(ctx context.Context, userID uint) ([]SummaryPost, error) {
	posts, err := s.store.PostsByUser(ctx, userID)
	if err != nil {
		return nil, storeErr("load user posts", err)
	}
	return s.summaries(ctx, posts)
}

// summaries expects posts with User preloaded and counts votes and comments in two batched queries.
func (s *Service) summaries(ctx context.Context, posts []models.Post) ([]SummaryPost, error) {
	items := make([]SummaryPost, 0, len(posts))
	if len(posts) == 0 {
		return items, nil
	}

	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	upvotes, err := s.postVotes.CountMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	comments, err := s.store.CountCommentsByPost(ctx, ids)
	if err != nil {
		return nil, storeErr("count comments", err)
	}

	for _, p := range posts {
		items = append(items, Summary(p, AuthorOf(p.User), upvotes[p.ID], comments[p.ID]))
	}
	return items, nil
}

// GetPostSummary renders a single post in listing form.
func (s *Service) GetPostSummary(ctx context.Context, postID uint) (SummaryPost, error) {
	post, err := s.store.Post(ctx, postID)
	if err != nil {
		return SummaryPost{}, storeErr("load post", err)
	}
	author, err := s.identity.Author(ctx, post.UserID)
	if err != nil {
		return SummaryPost{}, storeErr("load author", err)
	}
	upvotes, err := s.postVotes.Count(ctx, post.ID)
	if err != nil {
		return SummaryPost{}, err
	}
	comments, err := s.store.CountComments(ctx, post.ID)
	if err != nil {
		return SummaryPost{}, storeErr("count comments", err)
	}
	return Summary(post, author, upvotes, comments), nil
}

// CreatePost stores a new post owned by authorID.
func (s *Service) CreatePost(ctx context.Context, authorID uint, title, text string) (models.Post, error) {
	title = strings.TrimSpace(s.clean(title))
	text = strings.TrimSpace(s.clean(text))
	if title == "" || text == "" {
		return models.Post{}, invalid("title and text are required")
	}

	post := models.Post{
		UserID:            authorID,
		Title:             title,
		Text:              text,
		ContainsProfanity: s.isProfane(title + "\n" + text),
	}
	if err := s.store.CreatePost(ctx, &post); err != nil {
		return models.Post{}, storeErr("create post", err)
	}
	return post, nil
}

// ClosePost stops further comments on a post. Only the author may close it.
func (s *Service) ClosePost(ctx context.Context, postID, actorID uint) (models.Post, error) {
	post, err := s.ownedPost(ctx, postID, actorID)
	if err != nil {
		return models.Post{}, err
	}
	if post.IsClosed {
		return post, nil
	}
	if err := s.store.ClosePost(ctx, post.ID); err != nil {
		return models.Post{}, storeErr("close post", err)
	}
	post.IsClosed = true
	return post, nil
}

// DeletePost removes a post with its comments and votes. Only the author may delete it.
func (s *Service) DeletePost(ctx context.Context, postID, actorID uint) error {
	post, err := s.ownedPost(ctx, postID, actorID)
	if err != nil {
		return err
	}
	return storeErr("delete post", s.store.DeletePost(ctx, post.ID))
}

func (s *Service) ownedPost(ctx context.Context, postID, actorID uint) (models.Post, error) {
	post, err := s.store.Post(ctx, postID)
	if err != nil {
		return models.Post{}, storeErr("load post", err)
	}
	if post.UserID != actorID {
		return models.Post{}, ErrUnauthorized
	}
	return post, nil
}

// AddComment adds a root comment. It fails with ErrPostNotFound or ErrPostClosed before writing anything.
func (s *Service) AddComment(ctx context.Context, postID, authorID uint, text string) (models.Comment, error) {
	text, err := s.commentText(text)
	if err != nil {
		return models.Comment{}, err
	}
	post, err := s.openPost(ctx, postID)
	if err != nil {
		return models.Comment{}, err
	}
	return s.createComment(ctx, models.Comment{PostID: post.ID, UserID: authorID, Text: text})
}

// AddReply answers an existing comment. The reply always lands in the parent's post.
func (s *Service) AddReply(ctx context.Context, parentCommentID, authorID uint, text string) (models.Comment, error) {
	text, err := s.commentText(text)
	if err != nil {
		return models.Comment{}, err
	}
	parent, err := s.store.Comment(ctx, parentCommentID)
	if err != nil {
		return models.Comment{}, storeErr("load comment", err)
	}
	post, err := s.openPost(ctx, parent.PostID)
	if err != nil {
		return models.Comment{}, err
	}
	parentID := parent.ID
	return s.createComment(ctx, models.Comment{PostID: post.ID, UserID: authorID, ParentID: &parentID, Text: text})
}

func (s *Service) openPost(ctx context.Context, postID uint) (models.Post, error) {
	post, err := s.store.Post(ctx, postID)
	if err != nil {
		return models.Post{}, storeErr("load post", err)
	}
	if post.IsClosed {
		return models.Post{}, ErrPostClosed
	}
	return post, nil
}

func (s *Service) commentText(text string) (string, error) {
	text = strings.TrimSpace(s.clean(text))
	if text == "" {
		return "", invalid("text is required")
	}
	return text, nil
}

func (s *Service) createComment(ctx context.Context, c models.Comment) (models.Comment, error) {
	c.ContainsProfanity = s.isProfane(c.Text)
	if err := s.store.CreateComment(ctx, &c); err != nil {
		return models.Comment{}, storeErr("create comment", err)
	}
	return c, nil
}

// DeleteComment removes a comment and its replies. Only the comment's author may delete it.
func (s *Service) DeleteComment(ctx context.Context, commentID, actorID uint) error {
	comment, err := s.store.Comment(ctx, commentID)
	if err != nil {
		return storeErr("load comment", err)
	}
	if comment.UserID != actorID {
		return ErrUnauthorized
	}
	return storeErr("delete comment", s.store.DeleteComment(ctx, comment.ID))
}

// Replies lists the direct replies to a comment, oldest first.
func (s *Service) Replies(ctx context.Context, commentID uint) ([]models.Comment, error) {
	if _, err := s.store.Comment(ctx, commentID); err != nil {
		return nil, storeErr("load comment", err)
	}
	replies, err := s.store.RepliesByParent(ctx, []uint{commentID})
	if err != nil {
		return nil, storeErr("load replies", err)
	}
	if replies == nil {
		replies = []models.Comment{}
	}
	return replies, nil
}

// ToggleUpvote flips voterID's upvote on a post and returns the new total.
func (s *Service) ToggleUpvote(ctx context.Context, postID, voterID uint) (int64, error) {
	if _, err := s.store.Post(ctx, postID); err != nil {
		return 0, storeErr("load post", err)
	}
	return s.postVotes.Toggle(ctx, postID, voterID)
}

// ToggleCommentUpvote flips voterID's upvote on a comment and returns the new total.
func (s *Service) ToggleCommentUpvote(ctx context.Context, commentID, voterID uint) (int64, error) {
	if _, err := s.store.Comment(ctx, commentID); err != nil {
		return 0, storeErr("load comment", err)
	}
	return s.commentVotes.Toggle(ctx, commentID, voterID)
}

// PostUpvoteStatus reports whether voterID has upvoted the post.
func (s *Service) PostUpvoteStatus(ctx context.Context, postID, voterID uint) (VoteStatus, error) {
	if _, err := s.store.Post(ctx, postID); err != nil {
		return VoteStatus{}, storeErr("load post", err)
	}
	return status(ctx, s.postVotes, postID, voterID)
}

// CommentUpvoteStatus reports whether voterID has upvoted the comment.
func (s *Service) CommentUpvoteStatus(ctx context.Context, commentID, voterID uint) (VoteStatus, error) {
	if _, err := s.store.Comment(ctx, commentID); err != nil {
		return VoteStatus{}, storeErr("load comment", err)
	}
	return status(ctx, s.commentVotes, commentID, voterID)
}

func status(ctx context.Context, l *Ledger, targetID, voterID uint) (VoteStatus, error) {
	voted, err := l.HasVoted(ctx, targetID, voterID)
	if err != nil {
		return VoteStatus{}, err
	}
	n, err := l.Count(ctx, targetID)
	if err != nil {
		return VoteStatus{}, err
	}
	return VoteStatus{Upvoted: voted, Upvotes: n}, nil
}

func (s *Service) clean(text string) string {
	if s.sanitizer == nil {
		return text
	}
	return s.sanitizer.Sanitize(text)
}

func (s *Service) isProfane(text string) bool {
	return s.profanity != nil && s.profanity.IsProfane(text)
}
