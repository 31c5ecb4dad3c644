package service

import (
	"testing"

	"titlehub/internal/dto"
	"titlehub/internal/models"
	"titlehub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockCategoryRepository mocks the CategoryRepository interface
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(category *models.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(category *models.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(slug string) error {
	args := m.Called(slug)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetBySlug(slug string) (*models.Category, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) List(search string, page, pageSize int) ([]models.Category, int64, error) {
	args := m.Called(search, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Category), args.Get(1).(int64), args.Error(2)
}

// MockGenreRepository mocks the GenreRepository interface
type MockGenreRepository struct {
	mock.Mock
}

func (m *MockGenreRepository) Create(genre *models.Genre) error {
	args := m.Called(genre)
	return args.Error(0)
}

func (m *MockGenreRepository) Update(genre *models.Genre) error {
	args := m.Called(genre)
	return args.Error(0)
}

func (m *MockGenreRepository) Delete(slug string) error {
	args := m.Called(slug)
	return args.Error(0)
}

func (m *MockGenreRepository) GetBySlug(slug string) (*models.Genre, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Genre), args.Error(1)
}

func (m *MockGenreRepository) List(search string, page, pageSize int) ([]models.Genre, int64, error) {
	args := m.Called(search, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Genre), args.Get(1).(int64), args.Error(2)
}

func newTestTitleService() (TitleService, *MockTitleRepository, *MockCategoryRepository, *MockGenreRepository) {
	titleRepo := new(MockTitleRepository)
	categoryRepo := new(MockCategoryRepository)
	genreRepo := new(MockGenreRepository)
	return NewTitleService(titleRepo, categoryRepo, genreRepo), titleRepo, categoryRepo, genreRepo
}

func TestTitleCreate_AdminWithGenresAndCategory(t *testing.T) {
	titleService, titleRepo, categoryRepo, genreRepo := newTestTitleService()

	genreRepo.On("GetBySlug", "drama").Return(&models.Genre{ID: 1, Name: "Drama", Slug: "drama"}, nil)
	genreRepo.On("GetBySlug", "sci-fi").Return(&models.Genre{ID: 2, Name: "Sci-Fi", Slug: "sci-fi"}, nil)
	categoryRepo.On("GetBySlug", "movie").Return(&models.Category{ID: 3, Name: "Movie", Slug: "movie"}, nil)
	titleRepo.On("Create", mock.AnythingOfType("*models.Title")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Title).ID = 10
	}).Return(nil)

	category := "movie"
	resp, err := titleService.Create(adminActor(), dto.CreateTitleRequest{
		Name:     "Arrival",
		Year:     2016,
		Genres:   []string{"drama", "sci-fi"},
		Category: &category,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(10), resp.ID)
	assert.Equal(t, "Arrival", resp.Name)
	assert.Nil(t, resp.Rating)
	titleRepo.AssertExpectations(t)
}

func TestTitleCreate_RegularUserForbidden(t *testing.T) {
	titleService, titleRepo, _, _ := newTestTitleService()

	_, err := titleService.Create(userActor("u1"), dto.CreateTitleRequest{Name: "Nope", Year: 2024})

	assert.ErrorIs(t, err, ErrForbidden)
	titleRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestTitleCreate_UnknownGenreAbortsBeforeWrite(t *testing.T) {
	titleService, titleRepo, _, genreRepo := newTestTitleService()

	genreRepo.On("GetBySlug", "drama").Return(&models.Genre{ID: 1, Slug: "drama"}, nil)
	genreRepo.On("GetBySlug", "nope").Return(nil, gorm.ErrRecordNotFound)

	_, err := titleService.Create(adminActor(), dto.CreateTitleRequest{
		Name:   "Half Valid",
		Year:   2024,
		Genres: []string{"drama", "nope"},
	})

	assert.ErrorIs(t, err, ErrGenreNotFound)
	titleRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestTitleCreate_UnknownCategoryAbortsBeforeWrite(t *testing.T) {
	titleService, titleRepo, categoryRepo, _ := newTestTitleService()

	categoryRepo.On("GetBySlug", "nope").Return(nil, gorm.ErrRecordNotFound)

	category := "nope"
	_, err := titleService.Create(adminActor(), dto.CreateTitleRequest{
		Name:     "No Home",
		Year:     2024,
		Category: &category,
	})

	assert.ErrorIs(t, err, ErrCategoryNotFound)
	titleRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestTitleUpdate_PartialPatch(t *testing.T) {
	titleService, titleRepo, _, _ := newTestTitleService()

	existing := &models.Title{ID: 10, Name: "Old Name", Year: 2000, Description: "keep me"}
	titleRepo.On("GetByID", int64(10)).Return(existing, nil)
	titleRepo.On("Update", existing, []models.Genre(nil)).Return(nil)

	name := "New Name"
	resp, err := titleService.Update(adminActor(), 10, dto.UpdateTitleRequest{Name: &name})

	assert.NoError(t, err)
	assert.Equal(t, "New Name", resp.Name)
	assert.Equal(t, 2000, resp.Year)
	assert.Equal(t, "keep me", resp.Description)
	titleRepo.AssertExpectations(t)
}

func TestTitleUpdate_ReplacesGenreSet(t *testing.T) {
	titleService, titleRepo, _, genreRepo := newTestTitleService()

	existing := &models.Title{ID: 10, Name: "T", Genres: []models.Genre{{ID: 1, Slug: "drama"}}}
	titleRepo.On("GetByID", int64(10)).Return(existing, nil)
	genreRepo.On("GetBySlug", "horror").Return(&models.Genre{ID: 9, Slug: "horror"}, nil)
	titleRepo.On("Update", existing, []models.Genre{{ID: 9, Slug: "horror"}}).Return(nil)

	genres := []string{"horror"}
	_, err := titleService.Update(adminActor(), 10, dto.UpdateTitleRequest{Genres: &genres})

	assert.NoError(t, err)
	titleRepo.AssertExpectations(t)
}

func TestTitleDelete_Missing(t *testing.T) {
	titleService, titleRepo, _, _ := newTestTitleService()

	titleRepo.On("Delete", int64(404)).Return(gorm.ErrRecordNotFound)

	err := titleService.Delete(adminActor(), 404)

	assert.ErrorIs(t, err, ErrTitleNotFound)
}

func TestTitleGetByID_PublicRead(t *testing.T) {
	titleService, titleRepo, _, _ := newTestTitleService()

	rating := 7.5
	titleRepo.On("GetByID", int64(10)).Return(&models.Title{ID: 10, Name: "Rated", Rating: &rating}, nil)

	resp, err := titleService.GetByID(10)

	assert.NoError(t, err)
	assert.NotNil(t, resp.Rating)
	assert.InDelta(t, 7.5, *resp.Rating, 0.001)
}

func TestTitleGetByID_Missing(t *testing.T) {
	titleService, titleRepo, _, _ := newTestTitleService()

	titleRepo.On("GetByID", int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := titleService.GetByID(404)

	assert.ErrorIs(t, err, ErrTitleNotFound)
}

// anonymousListIsPublic: reads need no actor at all, the signature has none.
func TestTitleList_NoActorRequired(t *testing.T) {
	titleService, titleRepo, _, _ := newTestTitleService()

	titleRepo.On("List", mock.AnythingOfType("repository.TitleFilter"), 1, 20).
		Return([]models.Title{{ID: 1, Name: "A"}}, int64(1), nil)

	resp, err := titleService.List(repository.TitleFilter{}, 1, 20)

	assert.NoError(t, err)
	assert.Len(t, resp.Data, 1)
}
