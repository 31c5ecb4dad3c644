package service

import (
	"errors"
	"regexp"

	"titlehub/internal/authz"
	"titlehub/internal/dto"
	"titlehub/internal/models"
	"titlehub/internal/repository"

	"gorm.io/gorm"
)

var slugRe = regexp.MustCompile(`^[-a-zA-Z0-9_]{1,50}$`)

type CategoryService interface {
	List(search string, page, pageSize int) (*dto.PaginatedCategoryResponse, error)
	GetBySlug(slug string) (*dto.CategoryResponse, error)
	Create(actor authz.Actor, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	Update(actor authz.Actor, slug string, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	Delete(actor authz.Actor, slug string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(search string, page, pageSize int) (*dto.PaginatedCategoryResponse, error) {
	categories, total, err := s.categoryRepo.List(search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, *dto.FromModelToCategoryResponse(&categories[i]))
	}
	return dto.NewPaginatedCategoryResponse(responses, int(total), page, pageSize), nil
}

func (s *categoryService) GetBySlug(slug string) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return dto.FromModelToCategoryResponse(category), nil
}

func (s *categoryService) Create(actor authz.Actor, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if d := authz.Authorize(actor, authz.ActionCreate, authz.ResourceCategory, ""); d != authz.Allow {
		return nil, decisionErr(d)
	}
	if len(req.Name) > 256 {
		return nil, ErrInvalidName
	}
	if !slugRe.MatchString(req.Slug) {
		return nil, ErrInvalidSlug
	}

	category := &models.Category{Name: req.Name, Slug: req.Slug}
	if err := s.categoryRepo.Create(category); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrSlugInUse
		}
		return nil, err
	}
	return dto.FromModelToCategoryResponse(category), nil
}

func (s *categoryService) Update(actor authz.Actor, slug string, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	if d := authz.Authorize(actor, authz.ActionUpdate, authz.ResourceCategory, ""); d != authz.Allow {
		return nil, decisionErr(d)
	}
	category, err := s.categoryRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	if len(req.Name) > 256 {
		return nil, ErrInvalidName
	}

	category.Name = req.Name
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return dto.FromModelToCategoryResponse(category), nil
}

func (s *categoryService) Delete(actor authz.Actor, slug string) error {
	if d := authz.Authorize(actor, authz.ActionDelete, authz.ResourceCategory, ""); d != authz.Allow {
		return decisionErr(d)
	}
	if err := s.categoryRepo.Delete(slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}
