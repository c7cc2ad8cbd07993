package service

import (
	"errors"

	"bloggers-platform/internal/model"
	"bloggers-platform/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type CreateUserRequest struct {
	Login    string `json:"login" binding:"required,min=3,max=10,alphanum"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=20"`
}

type UserListQuery struct {
	SearchLoginTerm string
	SearchEmailTerm string
	Params          repository.ListParams
}

// UserService is the admin-facing user management surface; regular signup
// goes through AuthService
type UserService interface {
	CreateUser(req CreateUserRequest) (*UserView, error)
	GetUsers(query UserListQuery) (*Paginated, error)
	DeleteUser(id string) error
}

type userService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
}

func NewUserService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository) UserService {
	return &userService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
	}
}

// CreateUser creates a pre-confirmed user (admin bypasses email confirmation)
func (s *userService) CreateUser(req CreateUserRequest) (*UserView, error) {
	if _, err := s.userRepo.FindByLogin(req.Login); err == nil {
		return nil, errors.New("login already taken")
	}
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, errors.New("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &model.User{
		Login:            req.Login,
		Email:            req.Email,
		PasswordHash:     string(hash),
		IsEmailConfirmed: true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, errors.New("failed to create user")
	}

	return mapUserToView(user), nil
}

// GetUsers returns a page of users
func (s *userService) GetUsers(query UserListQuery) (*Paginated, error) {
	users, total, err := s.userRepo.FindAll(query.SearchLoginTerm, query.SearchEmailTerm, query.Params)
	if err != nil {
		return nil, errors.New("failed to get users")
	}

	views := make([]*UserView, 0, len(users))
	for _, user := range users {
		views = append(views, mapUserToView(user))
	}
	return paginate(views, total, query.Params.Page, query.Params.PageSize), nil
}

// DeleteUser removes a user and closes all their sessions
func (s *userService) DeleteUser(id string) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		return errors.New("user not found")
	}
	if err := s.userRepo.Delete(id); err != nil {
		return errors.New("failed to delete user")
	}
	return s.sessionRepo.DeleteByUserID(id)
}
