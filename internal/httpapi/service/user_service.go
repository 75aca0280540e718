package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
)

type UserService interface {
	List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedUserResponse, error)
	Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error)
	UpdateByUsername(ctx context.Context, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteByUsername(ctx context.Context, username string) error
	UpdateProfile(ctx context.Context, user *models.User, req dto.UpdateProfileRequest) (*dto.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedUserResponse, error) {
	users, total, err := s.userRepo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, *dto.FromModelToUserResponse(&users[i]))
	}
	return dto.NewPaginatedUserResponse(items, int(total), page, pageSize), nil
}

func (s *userService) Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := s.checkUnique(ctx, req.Username, req.Email, ""); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameInUse
		}
		return nil, err
	}

	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

// UpdateByUsername is the admin-side patch; unlike UpdateProfile it may
// change the role.
func (s *userService) UpdateByUsername(ctx context.Context, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	newUsername, newEmail := "", ""
	if req.Username != nil && *req.Username != user.Username {
		newUsername = *req.Username
	}
	if req.Email != nil && *req.Email != user.Email {
		newEmail = *req.Email
	}
	if err := s.checkUnique(ctx, newUsername, newEmail, user.ID); err != nil {
		return nil, err
	}

	applyProfileFields(user, req.Username, req.Email, req.FirstName, req.LastName, req.Bio)
	if req.Role != nil {
		user.Role = *req.Role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) DeleteByUsername(ctx context.Context, username string) error {
	if err := s.userRepo.Delete(ctx, username); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// UpdateProfile handles PATCH /users/me. A submitted role change is
// dropped: the stored role stays whatever it was.
func (s *userService) UpdateProfile(ctx context.Context, user *models.User, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	newUsername, newEmail := "", ""
	if req.Username != nil && *req.Username != user.Username {
		newUsername = *req.Username
	}
	if req.Email != nil && *req.Email != user.Email {
		newEmail = *req.Email
	}
	if err := s.checkUnique(ctx, newUsername, newEmail, user.ID); err != nil {
		return nil, err
	}

	applyProfileFields(user, req.Username, req.Email, req.FirstName, req.LastName, req.Bio)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func applyProfileFields(user *models.User, username, email, firstName, lastName, bio *string) {
	if username != nil {
		user.Username = *username
	}
	if email != nil {
		user.Email = *email
	}
	if firstName != nil {
		user.FirstName = *firstName
	}
	if lastName != nil {
		user.LastName = *lastName
	}
	if bio != nil {
		user.Bio = *bio
	}
}

// checkUnique rejects a username or email already held by a different
// account. Empty values are skipped; selfID excludes the account being
// updated.
func (s *userService) checkUnique(ctx context.Context, username, email, selfID string) error {
	if username != "" {
		existing, err := s.userRepo.FindByUsername(ctx, username)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return ErrUsernameInUse
		}
	}
	if email != "" {
		existing, err := s.userRepo.FindByEmail(ctx, email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return ErrEmailInUse
		}
	}
	return nil
}
