package models

import "time"

type Title struct {
	ID          int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string `json:"name" gorm:"size:256;not null"`
	Year        int    `json:"year" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`

	// Derived mean of review scores on a 1-10 scale; NULL while the title has
	// no reviews. Written only by the review repository, inside the same
	// transaction as the review mutation.
	Rating *float64 `json:"rating" gorm:"type:decimal(3,1)"`

	CategoryID *int64    `json:"-" gorm:"index"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`

	// associations
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;"`
	Genres   []Genre   `json:"genres,omitempty" gorm:"many2many:title_genres;constraint:OnDelete:CASCADE;"`
}

func (Title) TableName() string {
	return "titles"
}
