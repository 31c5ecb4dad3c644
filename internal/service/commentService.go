package service

import (
	"errors"

	"titlehub/internal/authz"
	"titlehub/internal/dto"
	"titlehub/internal/models"
	"titlehub/internal/repository"

	"gorm.io/gorm"
)

type CommentService interface {
	Create(actor authz.Actor, titleID, reviewID int64, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
	Update(actor authz.Actor, titleID, reviewID, commentID int64, req dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	Delete(actor authz.Actor, titleID, reviewID, commentID int64) error
	GetByID(titleID, reviewID, commentID int64) (*dto.CommentResponse, error)
	ListByReview(titleID, reviewID int64, page, pageSize int) (*dto.PaginatedCommentResponse, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
	}
}

// Create adds a comment to a review. No uniqueness constraint: a user may
// comment on the same review any number of times.
func (s *commentService) Create(actor authz.Actor, titleID, reviewID int64, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if d := authz.Authorize(actor, authz.ActionCreate, authz.ResourceComment, ""); d != authz.Allow {
		return nil, decisionErr(d)
	}
	if _, err := s.parentReview(titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:     req.Text,
		AuthorID: actor.ID,
		ReviewID: reviewID,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(comment.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Update(actor authz.Actor, titleID, reviewID, commentID int64, req dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	comment, err := s.getScoped(titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if d := authz.Authorize(actor, authz.ActionUpdate, authz.ResourceComment, comment.AuthorID); d != authz.Allow {
		return nil, decisionErr(d)
	}

	comment.Text = req.Text
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Delete(actor authz.Actor, titleID, reviewID, commentID int64) error {
	comment, err := s.getScoped(titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if d := authz.Authorize(actor, authz.ActionDelete, authz.ResourceComment, comment.AuthorID); d != authz.Allow {
		return decisionErr(d)
	}
	return s.commentRepo.Delete(comment.ID)
}

func (s *commentService) GetByID(titleID, reviewID, commentID int64) (*dto.CommentResponse, error) {
	comment, err := s.getScoped(titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) ListByReview(titleID, reviewID int64, page, pageSize int) (*dto.PaginatedCommentResponse, error) {
	if _, err := s.parentReview(titleID, reviewID); err != nil {
		return nil, err
	}

	comments, total, err := s.commentRepo.ListByReview(reviewID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, *dto.FromModelToCommentResponse(&comments[i]))
	}
	return dto.NewPaginatedCommentResponse(responses, int(total), page, pageSize), nil
}

// parentReview resolves the review through its title path segment.
func (s *commentService) parentReview(titleID, reviewID int64) (*models.Review, error) {
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

// getScoped fetches the comment and checks the full nesting chain
// title -> review -> comment.
func (s *commentService) getScoped(titleID, reviewID, commentID int64) (*models.Comment, error) {
	if _, err := s.parentReview(titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if comment.ReviewID != reviewID {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}
