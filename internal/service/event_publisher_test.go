package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/architeacher/svc-blog-events/internal/domain"
	"github.com/architeacher/svc-blog-events/internal/infrastructure"
	"github.com/architeacher/svc-blog-events/pkg/queue"
)

type EventPublisherTestSuite struct {
	suite.Suite
	bus       *mockEventBus
	publisher EventPublisher
}

func TestEventPublisherTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(EventPublisherTestSuite))
}

func (s *EventPublisherTestSuite) SetupTest() {
	s.bus = &mockEventBus{}
	s.publisher = NewEventPublisher(
		s.bus,
		[]queue.PublisherOption{queue.WithPublishingTimeout(0)},
		infrastructure.NewTestLogger(),
	)
}

func (s *EventPublisherTestSuite) TearDownTest() {
	s.bus.AssertExpectations(s.T())
}

func (s *EventPublisherTestSuite) TestPublishesEveryEventToItsQueue() {
	ctx := context.Background()

	userRegistered := domain.UserRegistered{UserID: "u1", Username: "alice", Email: "alice@example.com"}
	postCreated := domain.PostCreated{PostID: "p1", Title: "Hello", AuthorID: "u1", AuthorUsername: "alice", Status: domain.PostStatusPublished}
	postDeleted := domain.PostDeleted{PostID: "p1", AuthorID: "u1"}
	commentCreated := domain.CommentCreated{CommentID: "c1", PostID: "p1", AuthorID: "u2"}
	commentDeleted := domain.CommentDeleted{CommentID: "c1", PostID: "p1"}

	s.bus.On("PublishWithOptions", ctx, queue.UserRegistered, userRegistered, 1).Return(nil).Once()
	s.bus.On("PublishWithOptions", ctx, queue.PostCreated, postCreated, 1).Return(nil).Once()
	s.bus.On("PublishWithOptions", ctx, queue.PostDeleted, postDeleted, 1).Return(nil).Once()
	s.bus.On("PublishWithOptions", ctx, queue.CommentCreated, commentCreated, 1).Return(nil).Once()
	s.bus.On("PublishWithOptions", ctx, queue.CommentDeleted, commentDeleted, 1).Return(nil).Once()

	s.Require().NoError(s.publisher.PublishUserRegistered(ctx, userRegistered))
	s.Require().NoError(s.publisher.PublishPostCreated(ctx, postCreated))
	s.Require().NoError(s.publisher.PublishPostDeleted(ctx, postDeleted))
	s.Require().NoError(s.publisher.PublishCommentCreated(ctx, commentCreated))
	s.Require().NoError(s.publisher.PublishCommentDeleted(ctx, commentDeleted))
}

func (s *EventPublisherTestSuite) TestInvalidEventIsNotPublished() {
	err := s.publisher.PublishPostCreated(context.Background(), domain.PostCreated{PostID: "p1"})

	s.Require().Error(err)
	s.ErrorIs(err, domain.ErrInvalidEvent)

	var domainErr *domain.DomainError
	s.Require().ErrorAs(err, &domainErr)
	s.Equal("INVALID_EVENT", domainErr.Code)
	s.bus.AssertNotCalled(s.T(), "PublishWithOptions", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *EventPublisherTestSuite) TestBrokerUnavailable() {
	ctx := context.Background()
	event := domain.PostDeleted{PostID: "p1", AuthorID: "u1"}

	s.bus.On("PublishWithOptions", ctx, queue.PostDeleted, event, 1).Return(queue.ErrChannelUnavailable).Once()

	err := s.publisher.PublishPostDeleted(ctx, event)

	s.Require().Error(err)
	s.ErrorIs(err, queue.ErrChannelUnavailable)

	var domainErr *domain.DomainError
	s.Require().ErrorAs(err, &domainErr)
	s.Equal("BROKER_UNAVAILABLE", domainErr.Code)
	s.Equal(503, domainErr.StatusCode)
}

func (s *EventPublisherTestSuite) TestSerializationFailure() {
	ctx := context.Background()
	event := domain.CommentDeleted{CommentID: "c1", PostID: "p1"}
	serializationErr := &queue.SerializationError{Queue: queue.CommentDeleted, Op: "encode", Err: errors.New("bad payload")}

	s.bus.On("PublishWithOptions", ctx, queue.CommentDeleted, event, 1).Return(serializationErr).Once()

	err := s.publisher.PublishCommentDeleted(ctx, event)

	s.ErrorIs(err, queue.ErrSerialization)
	s.ErrorIs(err, domain.ErrInvalidEvent)
}

func (s *EventPublisherTestSuite) TestOtherErrorsAreWrapped() {
	ctx := context.Background()
	event := domain.UserRegistered{UserID: "u1", Username: "alice", Email: "alice@example.com"}
	cause := errors.New("unexpected")

	s.bus.On("PublishWithOptions", ctx, queue.UserRegistered, event, 1).Return(cause).Once()

	err := s.publisher.PublishUserRegistered(ctx, event)

	s.ErrorIs(err, cause)
	s.Contains(err.Error(), "user.registered")
}
