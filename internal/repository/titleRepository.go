package repository

import (
	"titlehub/internal/models"

	"gorm.io/gorm"
)

// TitleFilter holds the list filters; all set fields combine with AND.
type TitleFilter struct {
	GenreSlug    string
	CategorySlug string
	Year         *int
	Name         string // case-insensitive substring
}

type TitleRepository interface {
	Create(title *models.Title) error
	Update(title *models.Title, genres []models.Genre) error
	Delete(id int64) error
	GetByID(id int64) (*models.Title, error)
	List(filter TitleFilter, page, pageSize int) ([]models.Title, int64, error)
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

// Create inserts the title together with its genre linkage rows; GORM wraps
// the association writes in a single transaction, so a failed linkage rolls
// back the title row too.
func (r *titleRepository) Create(title *models.Title) error {
	return translateError(r.db.Create(title).Error)
}

// Update saves the title row and replaces its genre set atomically.
func (r *titleRepository) Update(title *models.Title, genres []models.Genre) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Genres", "Category").Save(title).Error; err != nil {
			return err
		}
		if genres != nil {
			if err := tx.Model(title).Association("Genres").Replace(genres); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the title; reviews and their comments go with it through the
// FK cascades.
func (r *titleRepository) Delete(id int64) error {
	result := r.db.Delete(&models.Title{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *titleRepository) GetByID(id int64) (*models.Title, error) {
	var title models.Title
	if err := r.db.Preload("Genres").Preload("Category").First(&title, id).Error; err != nil {
		return nil, err
	}
	return &title, nil
}

// List returns titles ordered by name with all filters ANDed together.
func (r *titleRepository) List(filter TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	var titles []models.Title
	var total int64

	q := r.db.Model(&models.Title{})
	if filter.CategorySlug != "" {
		q = q.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.GenreSlug != "" {
		q = q.Joins("JOIN title_genres ON title_genres.title_id = titles.id").
			Joins("JOIN genres ON genres.id = title_genres.genre_id").
			Where("genres.slug = ?", filter.GenreSlug)
	}
	if filter.Year != nil {
		q = q.Where("titles.year = ?", *filter.Year)
	}
	if filter.Name != "" {
		q = q.Where("titles.name ILIKE ?", "%"+filter.Name+"%")
	}

	if err := q.Distinct("titles.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := q.Distinct().
		Preload("Genres").
		Preload("Category").
		Order("titles.name").
		Limit(pageSize).
		Offset(offset).
		Find(&titles).Error; err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}
