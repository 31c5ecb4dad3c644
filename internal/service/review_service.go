package service

import (
	"errors"

	"titlehub/internal/authz"
	"titlehub/internal/dto"
	"titlehub/internal/models"
	"titlehub/internal/repository"

	"gorm.io/gorm"
)

type ReviewService interface {
	Create(actor authz.Actor, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	Update(actor authz.Actor, titleID, reviewID int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	Delete(actor authz.Actor, titleID, reviewID int64) error
	GetByID(titleID, reviewID int64) (*dto.ReviewResponse, error)
	ListByTitle(titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
	}
}

// Create persists the review; the repository recomputes the title rating in
// the same transaction. The (title, author) uniqueness comes back from the
// storage constraint as a conflict, so concurrent duplicates cannot both win.
func (s *reviewService) Create(actor authz.Actor, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if d := authz.Authorize(actor, authz.ActionCreate, authz.ResourceReview, ""); d != authz.Allow {
		return nil, decisionErr(d)
	}
	if _, err := s.titleRepo.GetByID(titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}
	if req.Score < 1 || req.Score > 10 {
		return nil, ErrInvalidScore
	}

	// Pre-flight duplicate check for a clean conflict answer; the unique
	// index below still catches concurrent racers.
	if _, err := s.reviewRepo.GetByTitleAndAuthor(titleID, actor.ID); err == nil {
		return nil, ErrReviewExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := &models.Review{
		Text:     req.Text,
		Score:    req.Score,
		AuthorID: actor.ID,
		TitleID:  titleID,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrReviewExists
		}
		return nil, err
	}

	// reload with the author preloaded
	review, err := s.reviewRepo.GetByID(review.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Update(actor authz.Actor, titleID, reviewID int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	review, err := s.getScoped(titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if d := authz.Authorize(actor, authz.ActionUpdate, authz.ResourceReview, review.AuthorID); d != authz.Allow {
		return nil, decisionErr(d)
	}

	if req.Score != nil {
		if *req.Score < 1 || *req.Score > 10 {
			return nil, ErrInvalidScore
		}
		review.Score = *req.Score
	}
	if req.Text != nil {
		review.Text = *req.Text
	}

	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Delete(actor authz.Actor, titleID, reviewID int64) error {
	review, err := s.getScoped(titleID, reviewID)
	if err != nil {
		return err
	}
	if d := authz.Authorize(actor, authz.ActionDelete, authz.ResourceReview, review.AuthorID); d != authz.Allow {
		return decisionErr(d)
	}
	return s.reviewRepo.Delete(review)
}

func (s *reviewService) GetByID(titleID, reviewID int64) (*dto.ReviewResponse, error) {
	review, err := s.getScoped(titleID, reviewID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) ListByTitle(titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error) {
	if _, err := s.titleRepo.GetByID(titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	reviews, total, err := s.reviewRepo.ListByTitle(titleID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *dto.FromModelToReviewResponse(&reviews[i]))
	}
	return dto.NewPaginatedReviewResponse(responses, int(total), page, pageSize), nil
}

// getScoped fetches the review and checks it belongs to the title in the
// path; a review addressed through the wrong title is not found, never leaked.
func (s *reviewService) getScoped(titleID, reviewID int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if review.TitleID != titleID {
		return nil, ErrReviewNotFound
	}
	return review, nil
}
