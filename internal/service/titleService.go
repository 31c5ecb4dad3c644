package service

import (
	"errors"

	"titlehub/internal/authz"
	"titlehub/internal/dto"
	"titlehub/internal/models"
	"titlehub/internal/repository"

	"gorm.io/gorm"
)

type TitleService interface {
	List(filter repository.TitleFilter, page, pageSize int) (*dto.PaginatedTitleResponse, error)
	GetByID(id int64) (*dto.TitleResponse, error)
	Create(actor authz.Actor, req dto.CreateTitleRequest) (*dto.TitleResponse, error)
	Update(actor authz.Actor, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error)
	Delete(actor authz.Actor, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	categoryRepo repository.CategoryRepository
	genreRepo    repository.GenreRepository
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	categoryRepo repository.CategoryRepository,
	genreRepo repository.GenreRepository,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
	}
}

func (s *titleService) List(filter repository.TitleFilter, page, pageSize int) (*dto.PaginatedTitleResponse, error) {
	titles, total, err := s.titleRepo.List(filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TitleResponse, 0, len(titles))
	for i := range titles {
		responses = append(responses, *dto.FromModelToTitleResponse(&titles[i]))
	}
	return dto.NewPaginatedTitleResponse(responses, int(total), page, pageSize), nil
}

func (s *titleService) GetByID(id int64) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}
	return dto.FromModelToTitleResponse(title), nil
}

func (s *titleService) Create(actor authz.Actor, req dto.CreateTitleRequest) (*dto.TitleResponse, error) {
	if d := authz.Authorize(actor, authz.ActionCreate, authz.ResourceTitle, ""); d != authz.Allow {
		return nil, decisionErr(d)
	}
	if len(req.Name) > 256 {
		return nil, ErrInvalidName
	}

	// Resolve every slug before writing anything: all-or-nothing.
	genres, err := s.resolveGenres(req.Genres)
	if err != nil {
		return nil, err
	}
	categoryID, category, err := s.resolveCategory(req.Category)
	if err != nil {
		return nil, err
	}

	title := &models.Title{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		CategoryID:  categoryID,
		Genres:      genres,
	}
	if err := s.titleRepo.Create(title); err != nil {
		return nil, err
	}

	title.Category = category
	return dto.FromModelToTitleResponse(title), nil
}

func (s *titleService) Update(actor authz.Actor, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error) {
	if d := authz.Authorize(actor, authz.ActionUpdate, authz.ResourceTitle, ""); d != authz.Allow {
		return nil, decisionErr(d)
	}
	title, err := s.titleRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		if len(*req.Name) > 256 {
			return nil, ErrInvalidName
		}
		title.Name = *req.Name
	}
	if req.Year != nil {
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = *req.Description
	}

	var genres []models.Genre
	if req.Genres != nil {
		genres, err = s.resolveGenres(*req.Genres)
		if err != nil {
			return nil, err
		}
	}
	if req.Category != nil {
		categoryID, category, err := s.resolveCategory(req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = categoryID
		title.Category = category
	}

	if err := s.titleRepo.Update(title, genres); err != nil {
		return nil, err
	}
	if genres != nil {
		title.Genres = genres
	}
	return dto.FromModelToTitleResponse(title), nil
}

func (s *titleService) Delete(actor authz.Actor, id int64) error {
	if d := authz.Authorize(actor, authz.ActionDelete, authz.ResourceTitle, ""); d != authz.Allow {
		return decisionErr(d)
	}
	if err := s.titleRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}

func (s *titleService) resolveGenres(slugs []string) ([]models.Genre, error) {
	genres := make([]models.Genre, 0, len(slugs))
	for _, slug := range slugs {
		genre, err := s.genreRepo.GetBySlug(slug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrGenreNotFound
			}
			return nil, err
		}
		genres = append(genres, *genre)
	}
	return genres, nil
}

func (s *titleService) resolveCategory(slug *string) (*int64, *models.Category, error) {
	if slug == nil || *slug == "" {
		return nil, nil, nil
	}
	category, err := s.categoryRepo.GetBySlug(*slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCategoryNotFound
		}
		return nil, nil, err
	}
	return &category.ID, category, nil
}
