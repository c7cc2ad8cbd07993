package repository

import (
	"bloggers-platform/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id string) (*model.User, error)
	FindByLogin(login string) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByLoginOrEmail(loginOrEmail string) (*model.User, error)
	FindByConfirmationCode(code string) (*model.User, error)
	FindByRecoveryCode(code string) (*model.User, error)
	FindAll(searchLoginTerm, searchEmailTerm string, params ListParams) ([]*model.User, int64, error)
	Update(user *model.User) error
	Delete(id string) error
}

type userRepository struct {
	db *gorm.DB
}

var userSortColumns = map[string]string{
	"login":     "login",
	"email":     "email",
	"createdAt": "created_at",
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user
func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *userRepository) FindByID(id string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByLogin finds a user by login
func (r *userRepository) FindByLogin(login string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("login = ?", login).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByLoginOrEmail finds a user by login or email (for login form)
func (r *userRepository) FindByLoginOrEmail(loginOrEmail string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("login = ? OR email = ?", loginOrEmail, loginOrEmail).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByConfirmationCode finds a user by email confirmation code
func (r *userRepository) FindByConfirmationCode(code string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("confirmation_code = ?", code).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByRecoveryCode finds a user by password recovery code
func (r *userRepository) FindByRecoveryCode(code string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("password_recovery_code = ?", code).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAll returns a page of users, optionally filtered by login/email substrings
func (r *userRepository) FindAll(searchLoginTerm, searchEmailTerm string, params ListParams) ([]*model.User, int64, error) {
	query := r.db.Model(&model.User{})
	switch {
	case searchLoginTerm != "" && searchEmailTerm != "":
		query = query.Where("login ILIKE ? OR email ILIKE ?", "%"+searchLoginTerm+"%", "%"+searchEmailTerm+"%")
	case searchLoginTerm != "":
		query = query.Where("login ILIKE ?", "%"+searchLoginTerm+"%")
	case searchEmailTerm != "":
		query = query.Where("email ILIKE ?", "%"+searchEmailTerm+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*model.User
	err := query.
		Order(params.OrderClause(userSortColumns)).
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Update updates a user
func (r *userRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

// Delete soft-deletes a user
func (r *userRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.User{}).Error
}
