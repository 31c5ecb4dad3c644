package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/mail"
	"regexp"
	"time"

	mailpkg "titlehub/internal/mail"
	"titlehub/internal/models"
	"titlehub/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Mixed-case letters, 12 of them, regenerated on every signup request.
const (
	codeChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	codeLength = 12
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

// Claims embedded in access tokens. Stateless: everything policy checks need
// travels in the token.
type Claims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Superuser bool   `json:"superuser,omitempty"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// SignUp creates an unconfirmed user, or re-issues a code when username
	// and email both belong to one existing user. A cross-match (one field
	// taken, the other not, or each taken by different users) is a conflict.
	SignUp(username, email string) (*models.User, error)
	// IssueToken exchanges the current confirmation code for a signed token.
	IssueToken(username, code string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo  repository.UserRepository
	mailer    mailpkg.Mailer
	logger    *slog.Logger
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	mailer mailpkg.Mailer,
	logger *slog.Logger,
	jwtSecret string,
	tokenTTL time.Duration,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		mailer:    mailer,
		logger:    logger,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

func (s *authService) SignUp(username, email string) (*models.User, error) {
	if !usernameRe.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	if _, err := mail.ParseAddress(email); err != nil || len(email) > 254 {
		return nil, ErrInvalidEmail
	}

	byName, nameErr := s.userRepo.FindByUsername(username)
	if nameErr != nil && !errors.Is(nameErr, gorm.ErrRecordNotFound) {
		return nil, nameErr
	}
	byEmail, emailErr := s.userRepo.FindByEmail(email)
	if emailErr != nil && !errors.Is(emailErr, gorm.ErrRecordNotFound) {
		return nil, emailErr
	}

	// Both fields match the same existing user: re-request, resend a fresh
	// code, no error. Any partial match is rejected without revealing which
	// field collided.
	if byName != nil && byEmail != nil && byName.ID == byEmail.ID {
		code, hash, err := newConfirmationCode()
		if err != nil {
			return nil, err
		}
		byName.ConfirmationCode = hash
		if err := s.userRepo.Update(byName); err != nil {
			return nil, err
		}
		s.sendCode(byName.Email, code)
		return byName, nil
	}
	if byName != nil || byEmail != nil {
		return nil, ErrCredentialsInUse
	}

	code, hash, err := newConfirmationCode()
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:         username,
		Email:            email,
		Role:             models.RoleUser,
		ConfirmationCode: hash,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			// lost a race with a concurrent signup for the same identity
			return nil, ErrCredentialsInUse
		}
		return nil, err
	}

	s.sendCode(user.Email, code)
	return user, nil
}

// sendCode is fire-and-forget: a mail failure is logged, never surfaced.
func (s *authService) sendCode(email, code string) {
	body := fmt.Sprintf("Your confirmation code is: %s", code)
	if err := s.mailer.Send(email, "Your confirmation code", body); err != nil {
		s.logger.Warn("failed to send confirmation code", "email", email, "error", err)
	}
}

func (s *authService) IssueToken(username, code string) (string, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.ConfirmationCode), []byte(code)) != nil {
		return "", ErrInvalidCode
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.userRepo.Update(user); err != nil {
		return "", err
	}

	claims := &Claims{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		Superuser: user.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// newConfirmationCode returns a fresh random code and its bcrypt hash; only
// the hash is stored.
func newConfirmationCode() (code, hash string, err error) {
	b := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeChars)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", "", fmt.Errorf("generate confirmation code: %w", err)
		}
		b[i] = codeChars[n.Int64()]
	}
	code = string(b)

	h, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return code, string(h), nil
}
