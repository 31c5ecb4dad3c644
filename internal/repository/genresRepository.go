package repository

import (
	"titlehub/internal/models"

	"gorm.io/gorm"
)

type GenreRepository interface {
	Create(genre *models.Genre) error
	Update(genre *models.Genre) error
	Delete(slug string) error
	GetBySlug(slug string) (*models.Genre, error)
	List(search string, page, pageSize int) ([]models.Genre, int64, error)
}

type genreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) Create(genre *models.Genre) error {
	return translateError(r.db.Create(genre).Error)
}

func (r *genreRepository) Update(genre *models.Genre) error {
	return translateError(r.db.Save(genre).Error)
}

// Delete removes the genre and, through the join-table cascade, its linkage
// rows; titles themselves are untouched.
func (r *genreRepository) Delete(slug string) error {
	result := r.db.Where("slug = ?", slug).Delete(&models.Genre{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *genreRepository) GetBySlug(slug string) (*models.Genre, error) {
	var genre models.Genre
	if err := r.db.Where("slug = ?", slug).First(&genre).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

func (r *genreRepository) List(search string, page, pageSize int) ([]models.Genre, int64, error) {
	var genres []models.Genre
	var total int64

	q := r.db.Model(&models.Genre{})
	if search != "" {
		q = q.Where("name ILIKE ?", "%"+search+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := q.Order("name").Limit(pageSize).Offset(offset).Find(&genres).Error; err != nil {
		return nil, 0, err
	}

	return genres, total, nil
}
