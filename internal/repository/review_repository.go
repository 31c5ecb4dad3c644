package repository

import (
	"database/sql"

	"titlehub/internal/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	// Create, Update and Delete commit the review write and the title rating
	// recompute as one transaction; a reader never observes one without the
	// other.
	Create(review *models.Review) error
	Update(review *models.Review) error
	Delete(review *models.Review) error
	GetByID(id int64) (*models.Review, error)
	GetByTitleAndAuthor(titleID int64, authorID string) (*models.Review, error)
	ListByTitle(titleID int64, page, pageSize int) ([]models.Review, int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// recomputeTitleRating sets the title's rating to the mean of its review
// scores, or NULL when none remain. Runs inside the caller's transaction.
func recomputeTitleRating(tx *gorm.DB, titleID int64) error {
	var avg sql.NullFloat64
	if err := tx.Model(&models.Review{}).
		Select("AVG(score)").
		Where("title_id = ?", titleID).
		Scan(&avg).Error; err != nil {
		return err
	}

	var rating *float64
	if avg.Valid {
		rating = &avg.Float64
	}
	return tx.Model(&models.Title{}).
		Where("id = ?", titleID).
		Update("rating", rating).Error
}

func (r *reviewRepository) Create(review *models.Review) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		return recomputeTitleRating(tx, review.TitleID)
	})
	return translateError(err)
}

func (r *reviewRepository) Update(review *models.Review) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(review).Error; err != nil {
			return err
		}
		return recomputeTitleRating(tx, review.TitleID)
	})
	return translateError(err)
}

func (r *reviewRepository) Delete(review *models.Review) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Review{}, review.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return recomputeTitleRating(tx, review.TitleID)
	})
}

func (r *reviewRepository) GetByID(id int64) (*models.Review, error) {
	var review models.Review
	if err := r.db.Preload("Author").First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) GetByTitleAndAuthor(titleID int64, authorID string) (*models.Review, error) {
	var review models.Review
	err := r.db.Where("title_id = ? AND author_id = ?", titleID, authorID).
		Preload("Author").
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListByTitle returns the title's reviews ordered by creation time ascending.
func (r *reviewRepository) ListByTitle(titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	if err := r.db.Model(&models.Review{}).Where("title_id = ?", titleID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.db.Where("title_id = ?", titleID).
		Preload("Author").
		Order("created_at ASC").
		Limit(pageSize).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}
