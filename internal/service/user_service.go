package service

import (
	"errors"

	"titlehub/internal/authz"
	"titlehub/internal/dto"
	"titlehub/internal/models"
	"titlehub/internal/repository"

	"gorm.io/gorm"
)

type UserService interface {
	// admin collection
	List(actor authz.Actor, search string, page, pageSize int) (*dto.PaginatedUserResponse, error)
	Create(actor authz.Actor, req dto.CreateUserRequest) (*dto.UserResponse, error)
	GetByUsername(actor authz.Actor, username string) (*dto.UserResponse, error)
	Update(actor authz.Actor, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(actor authz.Actor, username string) error

	// own profile
	GetMe(actor authz.Actor) (*dto.UserResponse, error)
	UpdateMe(actor authz.Actor, req dto.UpdateMeRequest) (*dto.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func decisionErr(d authz.Decision) error {
	switch d {
	case authz.DenyUnauthenticated:
		return ErrUnauthenticated
	case authz.DenyForbidden:
		return ErrForbidden
	}
	return nil
}

func (s *userService) List(actor authz.Actor, search string, page, pageSize int) (*dto.PaginatedUserResponse, error) {
	if d := authz.Authorize(actor, authz.ActionList, authz.ResourceUser, ""); d != authz.Allow {
		return nil, decisionErr(d)
	}

	users, total, err := s.userRepo.List(search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *dto.FromModelToUserResponse(&users[i]))
	}
	return dto.NewPaginatedUserResponse(responses, int(total), page, pageSize), nil
}

func (s *userService) Create(actor authz.Actor, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if d := authz.Authorize(actor, authz.ActionCreate, authz.ResourceUser, ""); d != authz.Allow {
		return nil, decisionErr(d)
	}
	if !usernameRe.MatchString(req.Username) {
		return nil, ErrInvalidUsername
	}
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	// Admin-provisioned users skip the confirmation flow until they sign up
	// themselves; the stored hash matches no code.
	user := &models.User{
		Username:         req.Username,
		Email:            req.Email,
		Role:             role,
		Bio:              req.Bio,
		ConfirmationCode: "!",
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrCredentialsInUse
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) GetByUsername(actor authz.Actor, username string) (*dto.UserResponse, error) {
	if d := authz.Authorize(actor, authz.ActionRetrieve, authz.ResourceUser, ""); d != authz.Allow {
		return nil, decisionErr(d)
	}
	user, err := s.findByUsername(username)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) Update(actor authz.Actor, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if d := authz.Authorize(actor, authz.ActionUpdate, authz.ResourceUser, ""); d != authz.Allow {
		return nil, decisionErr(d)
	}
	user, err := s.findByUsername(username)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Role != nil {
		// only reachable by admins; the enum is still validated
		if !models.ValidRole(*req.Role) {
			return nil, ErrInvalidRole
		}
		user.Role = *req.Role
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrCredentialsInUse
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) Delete(actor authz.Actor, username string) error {
	if d := authz.Authorize(actor, authz.ActionDelete, authz.ResourceUser, ""); d != authz.Allow {
		return decisionErr(d)
	}
	user, err := s.findByUsername(username)
	if err != nil {
		return err
	}
	return s.userRepo.Delete(user)
}

func (s *userService) GetMe(actor authz.Actor) (*dto.UserResponse, error) {
	if d := authz.Authorize(actor, authz.ActionRetrieve, authz.ResourceProfile, actor.ID); d != authz.Allow {
		return nil, decisionErr(d)
	}
	user, err := s.userRepo.FindByID(actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) UpdateMe(actor authz.Actor, req dto.UpdateMeRequest) (*dto.UserResponse, error) {
	if d := authz.Authorize(actor, authz.ActionUpdate, authz.ResourceProfile, actor.ID); d != authz.Allow {
		return nil, decisionErr(d)
	}
	user, err := s.userRepo.FindByID(actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	// The role field is stripped, not rejected, for non-admin callers.
	if req.Role != nil && user.IsAdmin() {
		if !models.ValidRole(*req.Role) {
			return nil, ErrInvalidRole
		}
		user.Role = *req.Role
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrCredentialsInUse
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) findByUsername(username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
