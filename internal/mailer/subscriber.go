package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bloghub/internal/events"
	"bloghub/internal/httpapi/repository"
)

// Subscriber consumes blog fan-out events and mails the author. It runs on
// the bus consumer loop, fully decoupled from the request that published the
// event: every failure here is logged and swallowed.
type Subscriber struct {
	blogs  repository.BlogRepository
	mailer Mailer
	logger *slog.Logger
}

func NewSubscriber(blogs repository.BlogRepository, mailer Mailer, logger *slog.Logger) *Subscriber {
	return &Subscriber{
		blogs:  blogs,
		mailer: mailer,
		logger: logger,
	}
}

// Run attaches the subscriber to the fan-out topic.
func (s *Subscriber) Run(ctx context.Context, bus events.Bus) error {
	return bus.Subscribe(ctx, events.TopicBlogEvents, s.Handle)
}

// Handle processes one fan-out message. The payload is not trusted to carry
// fresh content, so the blog is re-fetched by id; a blog deleted before the
// message arrives is a soft failure: logged, dropped, not retried.
func (s *Subscriber) Handle(ctx context.Context, payload []byte) {
	event, err := events.ParseBlogEvent(payload)
	if err != nil {
		s.logger.Error("discarding malformed blog event", "error", err)
		return
	}

	if event.Action == events.ActionDeleted {
		// Nothing to render for a deleted blog
		s.logger.Debug("skipping mail for deleted blog", "blog_id", event.BlogID)
		return
	}

	blog, err := s.blogs.GetByID(ctx, event.BlogID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("blog gone before mail fan-out, dropping",
				"blog_id", event.BlogID, "action", event.Action)
			return
		}
		s.logger.Error("failed to load blog for mail fan-out",
			"blog_id", event.BlogID, "error", err)
		return
	}

	subject, body := renderMail(event.Action, blog.Title, blog.Content)
	if err := s.mailer.Send(ctx, event.AuthorEmail, subject, body); err != nil {
		s.logger.Error("mail delivery failed",
			"blog_id", event.BlogID, "to", event.AuthorEmail, "error", err)
	}
}

func renderMail(action, title, content string) (subject, body string) {
	switch action {
	case events.ActionUpdated:
		subject = fmt.Sprintf("Your blog %q was updated", title)
	default:
		subject = fmt.Sprintf("Your blog %q is live", title)
	}

	preview := content
	if len(preview) > 200 {
		preview = preview[:200] + "..."
	}
	body = fmt.Sprintf("%s\n\n%s\n", subject, preview)
	return subject, body
}
