package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"dafoerum/internal/cache"
	"dafoerum/internal/metrics"
	"dafoerum/internal/model"
	"dafoerum/internal/repository"
)

const (
	// DefaultLatestPosts is used when a caller asks for zero or fewer posts.
	DefaultLatestPosts = 10
	// MaxLatestPosts caps a latest-posts request.
	MaxLatestPosts = 100
	// MaxSubjectRunes is the longest accepted thread subject.
	MaxSubjectRunes = 200
	// MaxContentRunes is the longest accepted post body.
	MaxContentRunes = 20000
)

var tracer = otel.Tracer("dafoerum/internal/service")

// PostCache caches pages of the newest posts. Pages are versioned by a
// generation that InvalidateLatestPosts advances: GetLatestPosts reports the
// generation it looked under, and a page stored under an older generation is
// never served.
type PostCache interface {
	GetLatestPosts(ctx context.Context, n int) ([]model.Post, int64, error)
	SetLatestPosts(ctx context.Context, n int, gen int64, posts []model.Post, ttl time.Duration) error
	InvalidateLatestPosts(ctx context.Context) error
}

// ForumService defines the forum use cases: browsing categories, forums,
// threads and posts, and writing new threads and replies.
type ForumService interface {
	// ListCategories returns every category with its forums.
	ListCategories(ctx context.Context) ([]model.Category, error)
	// CreateCategory adds an empty category.
	CreateCategory(ctx context.Context, name string) (*model.Category, error)
	// CreateForum adds a forum to an existing category.
	CreateForum(ctx context.Context, categoryID uint32, name string) (*model.Forum, error)

	// GetForum returns a forum and the name of its category.
	GetForum(ctx context.Context, id uint32) (*model.ForumWithCategory, error)
	// ForumStats counts a forum's threads and posts. Unknown forums count zero.
	ForumStats(ctx context.Context, id uint32) (*model.ForumStats, error)
	// ListThreads returns a forum's threads, most recently active first.
	ListThreads(ctx context.Context, forumID uint32) ([]model.ThreadSummary, error)

	// GetThread returns a thread by id.
	GetThread(ctx context.Context, id uint32) (*model.Thread, error)
	// CreateThread opens a thread in a forum together with its origin post.
	CreateThread(ctx context.Context, forumID uint32, subject, content string) (*model.Thread, error)
	// LatestActivity returns the newest post of a thread along with the thread.
	LatestActivity(ctx context.Context, threadID uint32) (*model.LatestActivity, error)

	// ListPosts returns a thread's posts, oldest first.
	ListPosts(ctx context.Context, threadID uint32) ([]model.Post, error)
	// CreatePost appends a reply to a thread.
	CreatePost(ctx context.Context, threadID uint32, content string) (*model.Post, error)
	// GetPost returns a post by id.
	GetPost(ctx context.Context, id uint32) (*model.Post, error)
	// LatestPosts returns the newest n posts across all threads.
	LatestPosts(ctx context.Context, n int) ([]model.Post, error)
}

// ForumOptions carries the optional collaborators of the forum service.
type ForumOptions struct {
	Cache    PostCache
	CacheTTL time.Duration
	Metrics  *metrics.Forum
	Logger   *slog.Logger
	Now      func() time.Time
}

type forumService struct {
	repo     repository.ForumRepository
	cache    PostCache
	cacheTTL time.Duration
	metrics  *metrics.Forum
	log      *slog.Logger
	now      func() time.Time
}

// NewForumService constructs a ForumService on repo.
func NewForumService(repo repository.ForumRepository, opts ForumOptions) ForumService {
	s := &forumService{
		repo:     repo,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		metrics:  opts.Metrics,
		log:      opts.Logger,
		now:      opts.Now,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *forumService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *forumService) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	id, err := s.repo.NextID(ctx, model.KindCategory)
	if err != nil {
		return nil, fmt.Errorf("next category id: %w", err)
	}
	c := &model.Category{ID: id, Name: name, Forums: []model.Forum{}}
	if err := s.repo.InsertCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

func (s *forumService) CreateForum(ctx context.Context, categoryID uint32, name string) (*model.Forum, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	ok, err := s.repo.CategoryExists(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound("category", categoryID)
	}
	id, err := s.repo.NextID(ctx, model.KindForum)
	if err != nil {
		return nil, fmt.Errorf("next forum id: %w", err)
	}
	f := &model.Forum{ID: id, Name: name}
	if err := s.repo.InsertForum(ctx, categoryID, f); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("category", categoryID)
		}
		return nil, fmt.Errorf("insert forum: %w", err)
	}
	return f, nil
}

func (s *forumService) GetForum(ctx context.Context, id uint32) (*model.ForumWithCategory, error) {
	f, categoryName, err := s.repo.FindForum(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "forum", id)
	}
	return &model.ForumWithCategory{Forum: *f, CategoryName: categoryName}, nil
}

func (s *forumService) ForumStats(ctx context.Context, id uint32) (*model.ForumStats, error) {
	threads, err := s.repo.CountThreads(ctx, id)
	if err != nil {
		return nil, err
	}
	posts, err := s.repo.CountForumPosts(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.ForumStats{Threads: threads, Posts: posts}, nil
}

func (s *forumService) ListThreads(ctx context.Context, forumID uint32) ([]model.ThreadSummary, error) {
	if _, _, err := s.repo.FindForum(ctx, forumID); err != nil {
		return nil, lookupErr(err, "forum", forumID)
	}
	threads, err := s.repo.ListThreads(ctx, forumID)
	if err != nil {
		return nil, err
	}

	out := make([]model.ThreadSummary, 0, len(threads))
	for _, t := range threads {
		count, err := s.repo.CountPosts(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		sum := model.ThreadSummary{Thread: t, PostCount: count}
		latest, err := s.repo.LatestPostOf(ctx, t.ID)
		switch {
		case err == nil:
			sum.LatestPost = *latest
		case !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
		out = append(out, sum)
	}

	// Post ids grow with time, so the newest post has the highest id.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LatestPost.ID > out[j].LatestPost.ID
	})
	return out, nil
}

func (s *forumService) GetThread(ctx context.Context, id uint32) (*model.Thread, error) {
	t, err := s.repo.FindThread(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "thread", id)
	}
	return t, nil
}

func (s *forumService) CreateThread(ctx context.Context, forumID uint32, subject, content string) (_ *model.Thread, err error) {
	ctx, span := tracer.Start(ctx, "ForumService.CreateThread",
		trace.WithAttributes(attribute.Int64("forum.id", int64(forumID))))
	defer func() { endSpan(span, err) }()

	subject = strings.TrimSpace(subject)
	content = strings.TrimSpace(content)
	if subject == "" {
		return nil, ErrEmptySubject
	}
	if content == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(subject) > MaxSubjectRunes {
		return nil, ErrSubjectTooLong
	}
	if utf8.RuneCountInString(content) > MaxContentRunes {
		return nil, ErrContentTooLong
	}

	if _, _, err := s.repo.FindForum(ctx, forumID); err != nil {
		return nil, lookupErr(err, "forum", forumID)
	}

	threadID, err := s.repo.NextID(ctx, model.KindThread)
	if err != nil {
		return nil, fmt.Errorf("next thread id: %w", err)
	}
	postID, err := s.repo.NextID(ctx, model.KindPost)
	if err != nil {
		return nil, fmt.Errorf("next post id: %w", err)
	}

	thread := &model.Thread{ID: threadID, OriginPostID: postID, Subject: subject, ForumID: forumID}
	post := &model.Post{ID: postID, Content: content, CreatedAt: s.timestamp(), ThreadID: threadID}

	if err := s.repo.CreateThread(ctx, thread, post); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, lookupErr(err, "forum", forumID)
		}
		return nil, fmt.Errorf("create thread: %w", err)
	}

	s.invalidateLatest(ctx)
	s.metrics.ThreadCreated()
	s.metrics.PostCreated()
	span.SetAttributes(attribute.Int64("thread.id", int64(threadID)), attribute.Int64("post.id", int64(postID)))
	return thread, nil
}

func (s *forumService) LatestActivity(ctx context.Context, threadID uint32) (*model.LatestActivity, error) {
	t, err := s.repo.FindThread(ctx, threadID)
	if err != nil {
		return nil, lookupErr(err, "thread", threadID)
	}
	p, err := s.repo.LatestPostOf(ctx, threadID)
	if err != nil {
		return nil, lookupErr(err, "post of thread", threadID)
	}
	return &model.LatestActivity{Post: *p, Thread: *t}, nil
}

func (s *forumService) ListPosts(ctx context.Context, threadID uint32) ([]model.Post, error) {
	if _, err := s.repo.FindThread(ctx, threadID); err != nil {
		return nil, lookupErr(err, "thread", threadID)
	}
	return s.repo.ListPosts(ctx, threadID)
}

func (s *forumService) CreatePost(ctx context.Context, threadID uint32, content string) (_ *model.Post, err error) {
	ctx, span := tracer.Start(ctx, "ForumService.CreatePost",
		trace.WithAttributes(attribute.Int64("thread.id", int64(threadID))))
	defer func() { endSpan(span, err) }()

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > MaxContentRunes {
		return nil, ErrContentTooLong
	}

	thread, err := s.repo.FindThread(ctx, threadID)
	if err != nil {
		return nil, lookupErr(err, "thread", threadID)
	}

	id, err := s.repo.NextID(ctx, model.KindPost)
	if err != nil {
		return nil, fmt.Errorf("next post id: %w", err)
	}
	post := &model.Post{ID: id, Content: content, CreatedAt: s.timestamp(), ThreadID: threadID}
	if err := s.repo.CreatePost(ctx, post, thread.ForumID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, lookupErr(err, "forum", thread.ForumID)
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.invalidateLatest(ctx)
	s.metrics.PostCreated()
	span.SetAttributes(attribute.Int64("post.id", int64(id)))
	return post, nil
}

func (s *forumService) GetPost(ctx context.Context, id uint32) (*model.Post, error) {
	p, err := s.repo.FindPost(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "post", id)
	}
	return p, nil
}

func (s *forumService) LatestPosts(ctx context.Context, n int) ([]model.Post, error) {
	if n <= 0 {
		n = DefaultLatestPosts
	}
	if n > MaxLatestPosts {
		n = MaxLatestPosts
	}

	// The generation is read before the store so a page loaded across a
	// concurrent write is stored under an already invalidated generation.
	var (
		gen       int64
		cacheable bool
	)
	if s.cache != nil {
		posts, g, err := s.cache.GetLatestPosts(ctx, n)
		if err == nil {
			s.metrics.CacheLookup(true)
			return posts, nil
		}
		s.metrics.CacheLookup(false)
		if errors.Is(err, cache.ErrCacheMiss) {
			gen, cacheable = g, true
		} else {
			s.log.WarnContext(ctx, "latest_posts_cache_get_failed", "error", err.Error())
		}
	}

	posts, err := s.repo.LatestPosts(ctx, n)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.cache.SetLatestPosts(ctx, n, gen, posts, s.cacheTTL); err != nil {
			s.log.WarnContext(ctx, "latest_posts_cache_set_failed", "error", err.Error())
		}
	}
	return posts, nil
}

func (s *forumService) invalidateLatest(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateLatestPosts(ctx); err != nil {
		s.log.WarnContext(ctx, "latest_posts_cache_invalidate_failed", "error", err.Error())
	}
}

// timestamp is truncated to milliseconds, the finest resolution both stores keep.
func (s *forumService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// lookupErr turns a repository miss into a NotFoundError for kind/id.
func lookupErr(err error, kind string, id any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(kind, id)
	}
	return err
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
