package service

import (
	"errors"
	"strings"

	"mekarsari-pos/internal/model"
	"mekarsari-pos/internal/repository"
	"mekarsari-pos/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateUserRequest struct {
	Username string     `json:"username"`
	Password string     `json:"password"`
	FullName string     `json:"full_name"`
	Role     model.Role `json:"role"`
}

type UpdateUserRequest struct {
	Password string     `json:"password"`
	FullName string     `json:"full_name"`
	Role     model.Role `json:"role"`
	IsActive *bool      `json:"is_active"`
}

type UserService interface {
	CreateUser(actorID string, req *CreateUserRequest) (*model.UserResponse, error)
	ListUsers() ([]model.UserResponse, error)
	ListStaff() ([]model.UserResponse, error)
	UpdateUser(actorID string, id uuid.UUID, req *UpdateUserRequest) (*model.UserResponse, error)
	DeactivateUser(id uuid.UUID) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(actorID string, req *CreateUserRequest) (*model.UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, apperr.Validationf("username and password are required")
	}
	if len(req.Password) < 6 {
		return nil, apperr.Validationf("password must be at least 6 characters")
	}
	if !req.Role.Valid() {
		return nil, apperr.Validationf("unknown role '%s'", req.Role)
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, apperr.Conflictf("username '%s' is taken", username)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Persistencef(err, "failed to check username")
	}

	user := &model.User{
		Username: username,
		FullName: req.FullName,
		Role:     req.Role,
		IsActive: true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperr.Persistencef(err, "failed to hash password")
	}
	user.CreatedBy = actorID
	user.UpdatedBy = actorID

	if err := s.userRepo.Create(user); err != nil {
		return nil, apperr.Persistencef(err, "failed to create user")
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) ListUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, apperr.Persistencef(err, "failed to list users")
	}
	return toResponses(users), nil
}

// ListStaff returns the operational accounts (cashier and kitchen), the set
// the admin assigns to shifts.
func (s *userService) ListStaff() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindStaff()
	if err != nil {
		return nil, apperr.Persistencef(err, "failed to list staff")
	}
	return toResponses(users), nil
}

func (s *userService) UpdateUser(actorID string, id uuid.UUID, req *UpdateUserRequest) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("user not found")
		}
		return nil, apperr.Persistencef(err, "failed to load user")
	}

	if req.Password != "" {
		if len(req.Password) < 6 {
			return nil, apperr.Validationf("password must be at least 6 characters")
		}
		if err := user.SetPassword(req.Password); err != nil {
			return nil, apperr.Persistencef(err, "failed to hash password")
		}
	}
	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Role != "" {
		if !req.Role.Valid() {
			return nil, apperr.Validationf("unknown role '%s'", req.Role)
		}
		user.Role = req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = actorID

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperr.Persistencef(err, "failed to update user")
	}

	resp := user.ToResponse()
	return &resp, nil
}

// DeactivateUser soft-deletes the account. History (orders, logs) keeps
// pointing at the row.
func (s *userService) DeactivateUser(id uuid.UUID) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("user not found")
		}
		return apperr.Persistencef(err, "failed to load user")
	}
	if err := s.userRepo.Delete(id); err != nil {
		return apperr.Persistencef(err, "failed to deactivate user")
	}
	return nil
}

func toResponses(users []model.User) []model.UserResponse {
	out := make([]model.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToResponse())
	}
	return out
}
