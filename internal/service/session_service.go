package service

import (
	"errors"

	"bloggers-platform/internal/repository"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionForbidden = errors.New("session belongs to another user")
)

type SessionService interface {
	GetUserSessions(userID string) ([]*SessionView, error)
	TerminateOtherSessions(userID, currentDeviceID string) error
	TerminateSession(userID, deviceID string) error
}

type sessionService struct {
	sessionRepo repository.SessionRepository
}

func NewSessionService(sessionRepo repository.SessionRepository) SessionService {
	return &sessionService{sessionRepo: sessionRepo}
}

// GetUserSessions returns all active device sessions of a user
func (s *sessionService) GetUserSessions(userID string) ([]*SessionView, error) {
	sessions, err := s.sessionRepo.FindByUserID(userID)
	if err != nil {
		return nil, errors.New("failed to get sessions")
	}

	views := make([]*SessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, mapSessionToView(session))
	}
	return views, nil
}

// TerminateOtherSessions closes every session except the current device
func (s *sessionService) TerminateOtherSessions(userID, currentDeviceID string) error {
	return s.sessionRepo.DeleteOthers(userID, currentDeviceID)
}

// TerminateSession closes one device session; only the owner may do so
func (s *sessionService) TerminateSession(userID, deviceID string) error {
	session, err := s.sessionRepo.FindByDeviceID(deviceID)
	if err != nil {
		return ErrSessionNotFound
	}
	if session.UserID != userID {
		return ErrSessionForbidden
	}
	return s.sessionRepo.DeleteByDeviceID(deviceID)
}
