package repository

import (
	"titlehub/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	Delete(user *models.User) error
	FindByUsername(username string) (*models.User, error)
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	List(search string, page, pageSize int) ([]models.User, int64, error)
}

// userRepository is the GORM implementation of UserRepository.
type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return translateError(r.db.Create(user).Error)
}

func (r *userRepository) Update(user *models.User) error {
	return translateError(r.db.Save(user).Error)
}

// Delete removes the user; the FK cascades take their reviews and comments
// with them, so the affected titles' ratings are recomputed in the same
// transaction to keep the mean invariant.
func (r *userRepository) Delete(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var titleIDs []int64
		if err := tx.Model(&models.Review{}).
			Where("author_id = ?", user.ID).
			Distinct().
			Pluck("title_id", &titleIDs).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.User{}, "id = ?", user.ID).Error; err != nil {
			return err
		}
		for _, titleID := range titleIDs {
			if err := recomputeTitleRating(tx, titleID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *userRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	// return nil on error, never a zero-value struct GORM would treat as found
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns users ordered by username, optionally filtered by a
// case-insensitive username substring.
func (r *userRepository) List(search string, page, pageSize int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	q := r.db.Model(&models.User{})
	if search != "" {
		q = q.Where("username ILIKE ?", "%"+search+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := q.Order("username").Limit(pageSize).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
