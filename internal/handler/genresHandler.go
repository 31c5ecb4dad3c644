package handler

import (
	"net/http"

	"titlehub/internal/dto"
	"titlehub/internal/middleware"
	"titlehub/internal/service"

	"github.com/gin-gonic/gin"
)

type GenreHandler struct {
	genreService service.GenreService
}

func NewGenreHandler(genreService service.GenreService) *GenreHandler {
	return &GenreHandler{genreService: genreService}
}

// RegisterRoutes registers genre routes
func (h *GenreHandler) RegisterRoutes(router *gin.RouterGroup) {
	genres := router.Group("/genres")
	{
		genres.GET("", h.List)
		genres.POST("", h.Create)
		genres.GET("/:slug", h.GetBySlug)
		genres.PATCH("/:slug", h.Update)
		genres.DELETE("/:slug", h.Delete)
	}
}

// List retrieves genres with optional name search
// GET /api/v1/genres?search=&page=1&page_size=20
func (h *GenreHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)

	genres, err := h.genreService.List(c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, genres)
}

// GetBySlug retrieves a single genre
// GET /api/v1/genres/:slug
func (h *GenreHandler) GetBySlug(c *gin.Context) {
	genre, err := h.genreService.GetBySlug(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, genre)
}

// Create adds a genre (admin only)
// POST /api/v1/genres
func (h *GenreHandler) Create(c *gin.Context) {
	var req dto.CreateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	genre, err := h.genreService.Create(middleware.ActorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, genre)
}

// Update renames a genre (admin only)
// PATCH /api/v1/genres/:slug
func (h *GenreHandler) Update(c *gin.Context) {
	var req dto.UpdateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	genre, err := h.genreService.Update(middleware.ActorFrom(c), c.Param("slug"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, genre)
}

// Delete removes a genre and its title linkage rows (admin only)
// DELETE /api/v1/genres/:slug
func (h *GenreHandler) Delete(c *gin.Context) {
	if err := h.genreService.Delete(middleware.ActorFrom(c), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
