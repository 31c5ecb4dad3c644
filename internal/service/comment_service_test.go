package service

import (
	"testing"

	"titlehub/internal/authz"
	"titlehub/internal/dto"
	"titlehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockCommentRepository mocks the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(comment *models.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Update(comment *models.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(id int64) (*models.Comment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByReview(reviewID int64, page, pageSize int) ([]models.Comment, int64, error) {
	args := m.Called(reviewID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Comment), args.Get(1).(int64), args.Error(2)
}

func newTestCommentService() (CommentService, *MockCommentRepository, *MockReviewRepository) {
	commentRepo := new(MockCommentRepository)
	reviewRepo := new(MockReviewRepository)
	return NewCommentService(commentRepo, reviewRepo), commentRepo, reviewRepo
}

func TestCommentCreate_Success(t *testing.T) {
	commentService, commentRepo, reviewRepo := newTestCommentService()

	reviewRepo.On("GetByID", int64(42)).Return(&models.Review{ID: 42, TitleID: 7}, nil)
	commentRepo.On("Create", mock.AnythingOfType("*models.Comment")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Comment).ID = 5
	}).Return(nil)
	commentRepo.On("GetByID", int64(5)).Return(&models.Comment{
		ID: 5, Text: "agreed", AuthorID: "user-1", ReviewID: 42,
		Author: models.User{ID: "user-1", Username: "u-user-1"},
	}, nil)

	resp, err := commentService.Create(userActor("user-1"), 7, 42, dto.CreateCommentRequest{Text: "agreed"})

	assert.NoError(t, err)
	assert.Equal(t, int64(5), resp.ID)
	assert.Equal(t, "u-user-1", resp.Author)
	commentRepo.AssertExpectations(t)
}

func TestCommentCreate_SecondCommentAllowed(t *testing.T) {
	commentService, commentRepo, reviewRepo := newTestCommentService()

	reviewRepo.On("GetByID", int64(42)).Return(&models.Review{ID: 42, TitleID: 7}, nil)
	next := int64(5)
	commentRepo.On("Create", mock.AnythingOfType("*models.Comment")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Comment).ID = next
		next++
	}).Return(nil)
	commentRepo.On("GetByID", mock.AnythingOfType("int64")).Return(&models.Comment{
		ID: 5, ReviewID: 42, Author: models.User{Username: "u-user-1"},
	}, nil)

	_, err := commentService.Create(userActor("user-1"), 7, 42, dto.CreateCommentRequest{Text: "first"})
	assert.NoError(t, err)
	_, err = commentService.Create(userActor("user-1"), 7, 42, dto.CreateCommentRequest{Text: "second"})
	assert.NoError(t, err)
}

func TestCommentCreate_Anonymous(t *testing.T) {
	commentService, _, _ := newTestCommentService()

	_, err := commentService.Create(authz.Anonymous(), 7, 42, dto.CreateCommentRequest{Text: "x"})

	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestCommentCreate_ReviewUnderWrongTitle(t *testing.T) {
	commentService, commentRepo, reviewRepo := newTestCommentService()

	reviewRepo.On("GetByID", int64(42)).Return(&models.Review{ID: 42, TitleID: 7}, nil)

	_, err := commentService.Create(userActor("user-1"), 99, 42, dto.CreateCommentRequest{Text: "x"})

	assert.ErrorIs(t, err, ErrReviewNotFound)
	commentRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCommentUpdate_StrangerForbidden(t *testing.T) {
	commentService, commentRepo, reviewRepo := newTestCommentService()

	reviewRepo.On("GetByID", int64(42)).Return(&models.Review{ID: 42, TitleID: 7}, nil)
	commentRepo.On("GetByID", int64(5)).Return(&models.Comment{ID: 5, AuthorID: "user-1", ReviewID: 42}, nil)

	_, err := commentService.Update(userActor("user-2"), 7, 42, 5, dto.UpdateCommentRequest{Text: "hijack"})

	assert.ErrorIs(t, err, ErrForbidden)
	commentRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestCommentDelete_ModeratorAllowed(t *testing.T) {
	commentService, commentRepo, reviewRepo := newTestCommentService()

	reviewRepo.On("GetByID", int64(42)).Return(&models.Review{ID: 42, TitleID: 7}, nil)
	commentRepo.On("GetByID", int64(5)).Return(&models.Comment{ID: 5, AuthorID: "user-1", ReviewID: 42}, nil)
	commentRepo.On("Delete", int64(5)).Return(nil)

	err := commentService.Delete(moderatorActor(), 7, 42, 5)

	assert.NoError(t, err)
	commentRepo.AssertExpectations(t)
}

func TestCommentGet_WrongReviewIsNotFound(t *testing.T) {
	commentService, commentRepo, reviewRepo := newTestCommentService()

	reviewRepo.On("GetByID", int64(43)).Return(&models.Review{ID: 43, TitleID: 7}, nil)
	commentRepo.On("GetByID", int64(5)).Return(&models.Comment{ID: 5, ReviewID: 42}, nil)

	_, err := commentService.GetByID(7, 43, 5)

	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestCommentList_MissingReview(t *testing.T) {
	commentService, _, reviewRepo := newTestCommentService()

	reviewRepo.On("GetByID", int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := commentService.ListByReview(7, 404, 1, 20)

	assert.ErrorIs(t, err, ErrReviewNotFound)
}
