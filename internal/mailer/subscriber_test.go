package mailer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"bloghub/internal/events"
	"bloghub/internal/httpapi/models"
	"bloghub/internal/httpapi/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBlogRepository mocks the BlogRepository interface
type MockBlogRepository struct {
	mock.Mock
}

func (m *MockBlogRepository) Create(ctx context.Context, blog *models.Blog) error {
	args := m.Called(ctx, blog)
	return args.Error(0)
}

func (m *MockBlogRepository) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blog), args.Error(1)
}

func (m *MockBlogRepository) GetAll(ctx context.Context, page, pageSize int) ([]models.Blog, int64, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Blog), args.Get(1).(int64), args.Error(2)
}

func (m *MockBlogRepository) Update(ctx context.Context, id, authorID, title, content string) (*models.Blog, error) {
	args := m.Called(ctx, id, authorID, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blog), args.Error(1)
}

func (m *MockBlogRepository) Delete(ctx context.Context, id, authorID string) (*models.Blog, error) {
	args := m.Called(ctx, id, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blog), args.Error(1)
}

type recordingMailer struct {
	to       []string
	subjects []string
	bodies   []string
	fail     bool
}

func (r *recordingMailer) Send(ctx context.Context, to, subject, body string) error {
	if r.fail {
		return errors.New("smtp down")
	}
	r.to = append(r.to, to)
	r.subjects = append(r.subjects, subject)
	r.bodies = append(r.bodies, body)
	return nil
}

func testSubscriber(blogs repository.BlogRepository, m Mailer) *Subscriber {
	return NewSubscriber(blogs, m, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func payload(t *testing.T, event events.BlogEvent) []byte {
	t.Helper()
	data, err := event.Marshal()
	require.NoError(t, err)
	return data
}

func TestSubscriber_MailsAuthorOnPublish(t *testing.T) {
	mockRepo := new(MockBlogRepository)
	sent := &recordingMailer{}
	sub := testSubscriber(mockRepo, sent)

	mockRepo.On("GetByID", mock.Anything, "blog-1").
		Return(&models.Blog{ID: "blog-1", Title: "Hello", Content: "World"}, nil).Once()

	sub.Handle(context.Background(), payload(t, events.BlogEvent{
		BlogID:      "blog-1",
		AuthorEmail: "a@x.com",
		Action:      events.ActionPublished,
	}))

	require.Len(t, sent.to, 1)
	assert.Equal(t, "a@x.com", sent.to[0])
	assert.Contains(t, sent.subjects[0], "Hello")
	assert.Contains(t, sent.subjects[0], "is live")
	assert.Contains(t, sent.bodies[0], "World")
	mockRepo.AssertExpectations(t)
}

func TestSubscriber_UpdateGetsDistinctSubject(t *testing.T) {
	mockRepo := new(MockBlogRepository)
	sent := &recordingMailer{}
	sub := testSubscriber(mockRepo, sent)

	mockRepo.On("GetByID", mock.Anything, "blog-1").
		Return(&models.Blog{ID: "blog-1", Title: "Hello", Content: "World"}, nil).Once()

	sub.Handle(context.Background(), payload(t, events.BlogEvent{
		BlogID:      "blog-1",
		AuthorEmail: "a@x.com",
		Action:      events.ActionUpdated,
	}))

	require.Len(t, sent.subjects, 1)
	assert.Contains(t, sent.subjects[0], "was updated")
}

func TestSubscriber_BlogGoneBeforeDelivery(t *testing.T) {
	mockRepo := new(MockBlogRepository)
	sent := &recordingMailer{}
	sub := testSubscriber(mockRepo, sent)

	mockRepo.On("GetByID", mock.Anything, "blog-1").
		Return(nil, repository.ErrNotFound).Once()

	// the blog was deleted between publish and consume: drop, no mail, no panic
	sub.Handle(context.Background(), payload(t, events.BlogEvent{
		BlogID:      "blog-1",
		AuthorEmail: "a@x.com",
		Action:      events.ActionPublished,
	}))

	assert.Empty(t, sent.to)
}

func TestSubscriber_MalformedPayloadDoesNotStopConsumption(t *testing.T) {
	mockRepo := new(MockBlogRepository)
	sent := &recordingMailer{}
	sub := testSubscriber(mockRepo, sent)

	sub.Handle(context.Background(), []byte("{not json"))
	assert.Empty(t, sent.to)

	// the next well-formed message still gets through
	mockRepo.On("GetByID", mock.Anything, "blog-2").
		Return(&models.Blog{ID: "blog-2", Title: "Second", Content: "Post"}, nil).Once()

	sub.Handle(context.Background(), payload(t, events.BlogEvent{
		BlogID:      "blog-2",
		AuthorEmail: "b@x.com",
		Action:      events.ActionPublished,
	}))

	assert.Equal(t, []string{"b@x.com"}, sent.to)
}

func TestSubscriber_DeleteEventsSkipMail(t *testing.T) {
	mockRepo := new(MockBlogRepository)
	sent := &recordingMailer{}
	sub := testSubscriber(mockRepo, sent)

	sub.Handle(context.Background(), payload(t, events.BlogEvent{
		BlogID:      "blog-1",
		AuthorEmail: "a@x.com",
		Action:      events.ActionDeleted,
	}))

	assert.Empty(t, sent.to)
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestSubscriber_DeliveryFailureIsSwallowed(t *testing.T) {
	mockRepo := new(MockBlogRepository)
	sub := testSubscriber(mockRepo, &recordingMailer{fail: true})

	mockRepo.On("GetByID", mock.Anything, "blog-1").
		Return(&models.Blog{ID: "blog-1", Title: "Hello", Content: "World"}, nil).Once()

	sub.Handle(context.Background(), payload(t, events.BlogEvent{
		BlogID:      "blog-1",
		AuthorEmail: "a@x.com",
		Action:      events.ActionPublished,
	}))
}

func TestRenderMail_TruncatesLongContent(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'a'
	}

	_, body := renderMail(events.ActionPublished, "Hello", string(long))
	assert.Contains(t, body, "...")
	assert.Less(t, len(body), 300)
}
