package dto

import (
	"time"

	"titlehub/internal/models"
)

// CreateTitleRequest takes genre and category slugs; unresolvable slugs fail
// with not-found before anything is written.
type CreateTitleRequest struct {
	Name        string   `json:"name" binding:"required,max=256"`
	Year        int      `json:"year" binding:"required"`
	Description string   `json:"description"`
	Genres      []string `json:"genre" binding:"omitempty,dive,max=50"`
	Category    *string  `json:"category" binding:"omitempty,max=50"`
}

// UpdateTitleRequest is a partial update; nil fields are left unchanged.
// Genres, when present, replaces the whole genre set.
type UpdateTitleRequest struct {
	Name        *string   `json:"name" binding:"omitempty,max=256"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Genres      *[]string `json:"genre" binding:"omitempty,dive,max=50"`
	Category    *string   `json:"category" binding:"omitempty,max=50"`
}

// TitleResponse denormalizes category and genres into full objects.
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Description string            `json:"description"`
	Rating      *float64          `json:"rating"`
	Category    *CategoryResponse `json:"category"`
	Genres      []GenreResponse   `json:"genres"`
	CreatedAt   time.Time         `json:"created_at"`
}

func FromModelToTitleResponse(title *models.Title) *TitleResponse {
	resp := &TitleResponse{
		ID:          title.ID,
		Name:        title.Name,
		Year:        title.Year,
		Description: title.Description,
		Rating:      title.Rating,
		Genres:      make([]GenreResponse, 0, len(title.Genres)),
		CreatedAt:   title.CreatedAt,
	}
	if title.Category != nil {
		resp.Category = FromModelToCategoryResponse(title.Category)
	}
	for i := range title.Genres {
		resp.Genres = append(resp.Genres, *FromModelToGenreResponse(&title.Genres[i]))
	}
	return resp
}

type PaginatedTitleResponse struct {
	Data       []TitleResponse `json:"data"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	Total      int             `json:"total"`
	TotalPages int             `json:"total_pages"`
}

func NewPaginatedTitleResponse(data []TitleResponse, total, page, pageSize int) *PaginatedTitleResponse {
	return &PaginatedTitleResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages(total, pageSize),
	}
}
