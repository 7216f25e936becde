package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bloghub/internal/cache"
	"bloghub/internal/events"
	"bloghub/internal/httpapi/dto"
	"bloghub/internal/httpapi/models"
	"bloghub/internal/httpapi/repository"
	"bloghub/internal/websocket"
)

var ErrMissingFields = errors.New("title and content are required")

// blogListPrefix keys every cached listing page; mutations prefix-delete it.
const blogListPrefix = "blogs:list:"

// Pusher is the live push side of the connection registry, narrowed so the
// pipeline can be tested against a fake.
type Pusher interface {
	Push(userID string, event websocket.Event) bool
}

type BlogService interface {
	Publish(ctx context.Context, author *models.User, title, content string) (*models.Blog, error)
	Update(ctx context.Context, author *models.User, blogID, title, content string) (*models.Blog, error)
	Delete(ctx context.Context, author *models.User, blogID string) error
	GetByID(ctx context.Context, id string) (*models.Blog, error)
	List(ctx context.Context, page int) (*dto.PaginatedBlogsResponse, error)
}

type blogService struct {
	blogRepo  repository.BlogRepository
	notifRepo repository.NotificationRepository
	bus       events.Bus
	push      Pusher
	cache     cache.Cache
	cacheTTL  time.Duration
	pageSize  int
	logger    *slog.Logger
}

func NewBlogService(
	blogRepo repository.BlogRepository,
	notifRepo repository.NotificationRepository,
	bus events.Bus,
	push Pusher,
	c cache.Cache,
	cacheTTL time.Duration,
	pageSize int,
	logger *slog.Logger,
) BlogService {
	return &blogService{
		blogRepo:  blogRepo,
		notifRepo: notifRepo,
		bus:       bus,
		push:      push,
		cache:     c,
		cacheTTL:  cacheTTL,
		pageSize:  pageSize,
		logger:    logger,
	}
}

// Publish runs the blog-creation pipeline: validate, persist, then fan out.
// The persisted blog is the source of truth; every step after the write is
// best-effort and cannot fail the request.
func (s *blogService) Publish(ctx context.Context, author *models.User, title, content string) (*models.Blog, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, ErrMissingFields
	}

	blog := &models.Blog{
		Title:     title,
		Content:   content,
		Published: true,
		AuthorID:  author.ID,
	}
	if err := s.blogRepo.Create(ctx, blog); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Your blog %q was published", blog.Title)
	s.fanOut(ctx, blog, author, events.ActionPublished, message)

	return blog, nil
}

// Update rewrites an owned blog and mirrors the publish fan-out with its own
// message text. Ownership is enforced inside the repository predicate.
func (s *blogService) Update(ctx context.Context, author *models.User, blogID, title, content string) (*models.Blog, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, ErrMissingFields
	}

	blog, err := s.blogRepo.Update(ctx, blogID, author.ID, title, content)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Your blog %q was updated", blog.Title)
	s.fanOut(ctx, blog, author, events.ActionUpdated, message)

	return blog, nil
}

// Delete removes an owned blog. Already-created notifications for the blog
// stay intact; only the listing cache is invalidated.
func (s *blogService) Delete(ctx context.Context, author *models.User, blogID string) error {
	blog, err := s.blogRepo.Delete(ctx, blogID, author.ID)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("Your blog %q was deleted", blog.Title)
	s.fanOut(ctx, blog, author, events.ActionDeleted, message)

	return nil
}

// fanOut runs the post-persist side effects in pipeline order: bus publish,
// stored notification, live push, cache invalidation. Each failure is logged
// and swallowed so the primary write stays the user-visible outcome.
func (s *blogService) fanOut(ctx context.Context, blog *models.Blog, author *models.User, action, message string) {
	event := events.BlogEvent{
		BlogID:      blog.ID,
		AuthorEmail: author.Email,
		Action:      action,
	}
	if payload, err := event.Marshal(); err != nil {
		s.logger.Error("failed to encode blog event", "blog_id", blog.ID, "error", err)
	} else if err := s.bus.Publish(ctx, events.TopicBlogEvents, payload); err != nil {
		s.logger.Error("blog event publish failed", "blog_id", blog.ID, "error", err)
	}

	notification := &models.Notification{
		UserID:  author.ID,
		Message: message,
	}
	if err := s.notifRepo.Create(ctx, notification); err != nil {
		s.logger.Error("notification write failed", "blog_id", blog.ID, "error", err)
	} else {
		s.push.Push(author.ID, websocket.NewNotificationEvent(notification))
	}

	// a stale cached page must not be served after a mutating write
	s.cache.DeletePrefix(ctx, blogListPrefix)
}

func (s *blogService) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	return s.blogRepo.GetByID(ctx, id)
}

// List serves the paginated listing through the cache; a cache failure or
// miss degrades to a direct datastore read.
func (s *blogService) List(ctx context.Context, page int) (*dto.PaginatedBlogsResponse, error) {
	if page < 1 {
		page = 1
	}

	key := fmt.Sprintf("%spage=%d:size=%d", blogListPrefix, page, s.pageSize)
	if cached, ok := s.cache.Get(ctx, key); ok {
		var response dto.PaginatedBlogsResponse
		if err := json.Unmarshal([]byte(cached), &response); err == nil {
			return &response, nil
		}
		s.logger.Warn("discarding undecodable cache entry", "key", key)
	}

	list, total, err := s.blogRepo.GetAll(ctx, page, s.pageSize)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(s.pageSize) - 1) / int64(s.pageSize))
	response := &dto.PaginatedBlogsResponse{
		TotalItems:  total,
		CurrentPage: page,
		All:         list,
		TotalPages:  totalPages,
	}

	if encoded, err := json.Marshal(response); err == nil {
		s.cache.Set(ctx, key, string(encoded), s.cacheTTL)
	}

	return response, nil
}
