package models

import "time"

type Review struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Text string `json:"text" gorm:"not null;type:text"`

	// Composite unique index enforces one review per (title, author) at the
	// storage level; concurrent duplicates surface as a 23505 violation, not a
	// check-then-insert race.
	AuthorID string `json:"author_id" gorm:"type:uuid;not null;index;uniqueIndex:uniq_review_title_author"`
	TitleID  int64  `json:"title_id" gorm:"not null;index;uniqueIndex:uniq_review_title_author"`

	Score     int       `json:"score" gorm:"not null;check:score >= 1 AND score <= 10"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Author User  `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Title  Title `json:"title,omitempty" gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}
