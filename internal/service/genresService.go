package service

import (
	"errors"

	"titlehub/internal/authz"
	"titlehub/internal/dto"
	"titlehub/internal/models"
	"titlehub/internal/repository"

	"gorm.io/gorm"
)

type GenreService interface {
	List(search string, page, pageSize int) (*dto.PaginatedGenreResponse, error)
	GetBySlug(slug string) (*dto.GenreResponse, error)
	Create(actor authz.Actor, req dto.CreateGenreRequest) (*dto.GenreResponse, error)
	Update(actor authz.Actor, slug string, req dto.UpdateGenreRequest) (*dto.GenreResponse, error)
	Delete(actor authz.Actor, slug string) error
}

type genreService struct {
	genreRepo repository.GenreRepository
}

func NewGenreService(genreRepo repository.GenreRepository) GenreService {
	return &genreService{genreRepo: genreRepo}
}

func (s *genreService) List(search string, page, pageSize int) (*dto.PaginatedGenreResponse, error) {
	genres, total, err := s.genreRepo.List(search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.GenreResponse, 0, len(genres))
	for i := range genres {
		responses = append(responses, *dto.FromModelToGenreResponse(&genres[i]))
	}
	return dto.NewPaginatedGenreResponse(responses, int(total), page, pageSize), nil
}

func (s *genreService) GetBySlug(slug string) (*dto.GenreResponse, error) {
	genre, err := s.genreRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGenreNotFound
		}
		return nil, err
	}
	return dto.FromModelToGenreResponse(genre), nil
}

func (s *genreService) Create(actor authz.Actor, req dto.CreateGenreRequest) (*dto.GenreResponse, error) {
	if d := authz.Authorize(actor, authz.ActionCreate, authz.ResourceGenre, ""); d != authz.Allow {
		return nil, decisionErr(d)
	}
	if len(req.Name) > 256 {
		return nil, ErrInvalidName
	}
	if !slugRe.MatchString(req.Slug) {
		return nil, ErrInvalidSlug
	}

	genre := &models.Genre{Name: req.Name, Slug: req.Slug}
	if err := s.genreRepo.Create(genre); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrSlugInUse
		}
		return nil, err
	}
	return dto.FromModelToGenreResponse(genre), nil
}

func (s *genreService) Update(actor authz.Actor, slug string, req dto.UpdateGenreRequest) (*dto.GenreResponse, error) {
	if d := authz.Authorize(actor, authz.ActionUpdate, authz.ResourceGenre, ""); d != authz.Allow {
		return nil, decisionErr(d)
	}
	genre, err := s.genreRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGenreNotFound
		}
		return nil, err
	}
	if len(req.Name) > 256 {
		return nil, ErrInvalidName
	}

	genre.Name = req.Name
	if err := s.genreRepo.Update(genre); err != nil {
		return nil, err
	}
	return dto.FromModelToGenreResponse(genre), nil
}

func (s *genreService) Delete(actor authz.Actor, slug string) error {
	if d := authz.Authorize(actor, authz.ActionDelete, authz.ResourceGenre, ""); d != authz.Allow {
		return decisionErr(d)
	}
	if err := s.genreRepo.Delete(slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGenreNotFound
		}
		return err
	}
	return nil
}
