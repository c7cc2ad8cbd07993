package repository

import (
	"bloggers-platform/internal/model"

	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(session *model.Session) error
	FindByDeviceID(deviceID string) (*model.Session, error)
	FindByUserID(userID string) ([]*model.Session, error)
	Update(session *model.Session) error
	DeleteByDeviceID(deviceID string) error
	DeleteOthers(userID, keepDeviceID string) error
	DeleteByUserID(userID string) error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create creates a new device session
func (r *sessionRepository) Create(session *model.Session) error {
	return r.db.Create(session).Error
}

// FindByDeviceID finds a session by device ID
func (r *sessionRepository) FindByDeviceID(deviceID string) (*model.Session, error) {
	var session model.Session
	if err := r.db.Where("device_id = ?", deviceID).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// FindByUserID returns all active sessions of a user, newest first
func (r *sessionRepository) FindByUserID(userID string) ([]*model.Session, error) {
	var sessions []*model.Session
	err := r.db.Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// Update updates a session (refresh token rotation bumps issued_at)
func (r *sessionRepository) Update(session *model.Session) error {
	return r.db.Save(session).Error
}

// DeleteByDeviceID removes one device session
func (r *sessionRepository) DeleteByDeviceID(deviceID string) error {
	return r.db.Where("device_id = ?", deviceID).Delete(&model.Session{}).Error
}

// DeleteOthers removes all of the user's sessions except the current device
func (r *sessionRepository) DeleteOthers(userID, keepDeviceID string) error {
	return r.db.Where("user_id = ? AND device_id <> ?", userID, keepDeviceID).Delete(&model.Session{}).Error
}

// DeleteByUserID removes every session of a user (logout everywhere, account deletion)
func (r *sessionRepository) DeleteByUserID(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&model.Session{}).Error
}
