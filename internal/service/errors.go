package service

import "errors"

// Sentinel errors crossing the service boundary. Handlers map them to HTTP
// statuses with errors.Is; the split mirrors the taxonomy: validation,
// authentication, authorization, not-found, conflict.
var (
	// validation (400)
	ErrInvalidUsername = errors.New("username must be 3-30 characters of letters, digits or underscore")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrInvalidSlug     = errors.New("slug must be at most 50 characters of letters, digits, hyphen or underscore")
	ErrInvalidName     = errors.New("name must be at most 256 characters")
	ErrInvalidScore    = errors.New("score must be between 1 and 10")
	ErrInvalidRole     = errors.New("role must be one of: user, moderator, admin")

	// authentication (401)
	ErrUnauthenticated = errors.New("authentication required")
	ErrInvalidCode     = errors.New("invalid confirmation code")
	ErrInvalidToken    = errors.New("invalid token")
	ErrExpiredToken    = errors.New("token has expired")

	// authorization (403)
	ErrForbidden = errors.New("insufficient permissions")

	// not found (404)
	ErrUserNotFound     = errors.New("user not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrGenreNotFound    = errors.New("genre not found")
	ErrTitleNotFound    = errors.New("title not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrCommentNotFound  = errors.New("comment not found")

	// conflict (409)
	ErrCredentialsInUse = errors.New("either username or email already in use")
	ErrSlugInUse        = errors.New("slug already in use")
	ErrReviewExists     = errors.New("you have already reviewed this title")
)
