package service

import (
	"testing"
	"time"

	"bloggers-platform/internal/config"
	"bloggers-platform/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionRepo struct {
	sessions map[string]*model.Session // by device ID
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*model.Session)}
}

func (f *fakeSessionRepo) Create(session *model.Session) error {
	s := *session
	f.sessions[session.DeviceID] = &s
	return nil
}

func (f *fakeSessionRepo) FindByDeviceID(deviceID string) (*model.Session, error) {
	session, ok := f.sessions[deviceID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s := *session
	return &s, nil
}

func (f *fakeSessionRepo) FindByUserID(userID string) ([]*model.Session, error) {
	var out []*model.Session
	for _, session := range f.sessions {
		if session.UserID == userID {
			s := *session
			out = append(out, &s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) Update(session *model.Session) error {
	s := *session
	f.sessions[session.DeviceID] = &s
	return nil
}

func (f *fakeSessionRepo) DeleteByDeviceID(deviceID string) error {
	delete(f.sessions, deviceID)
	return nil
}

func (f *fakeSessionRepo) DeleteOthers(userID, keepDeviceID string) error {
	for deviceID, session := range f.sessions {
		if session.UserID == userID && deviceID != keepDeviceID {
			delete(f.sessions, deviceID)
		}
	}
	return nil
}

func (f *fakeSessionRepo) DeleteByUserID(userID string) error {
	for deviceID, session := range f.sessions {
		if session.UserID == userID {
			delete(f.sessions, deviceID)
		}
	}
	return nil
}

func newSessionTestService(sessions *fakeSessionRepo) *authService {
	return &authService{
		sessionRepo: sessions,
		cfg: &config.Config{
			JWTSecret:       "test-secret",
			AccessTokenTTL:  10 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
		},
	}
}

func mintSession(t *testing.T, svc *authService, sessions *fakeSessionRepo, deviceID string, issuedAt time.Time) string {
	t.Helper()
	user := &model.User{ID: "user-1", Login: "alice"}
	require.NoError(t, sessions.Create(&model.Session{
		UserID:    user.ID,
		DeviceID:  deviceID,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(24 * time.Hour),
	}))
	pair, err := svc.issueTokens(user, deviceID, issuedAt, issuedAt.Add(24*time.Hour))
	require.NoError(t, err)
	return pair.RefreshToken
}

func TestCheckRefreshSession_AcceptsCurrentToken(t *testing.T) {
	sessions := newFakeSessionRepo()
	svc := newSessionTestService(sessions)
	issuedAt := time.Now().Truncate(time.Second)

	token := mintSession(t, svc, sessions, "device-1", issuedAt)

	claims, err := svc.CheckRefreshSession(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "device-1", claims.DeviceID)
}

func TestCheckRefreshSession_RejectsRotatedOutToken(t *testing.T) {
	sessions := newFakeSessionRepo()
	svc := newSessionTestService(sessions)
	issuedAt := time.Now().Add(-time.Hour).Truncate(time.Second)

	oldToken := mintSession(t, svc, sessions, "device-1", issuedAt)

	// rotation bumps the session's issue time; the old token is unexpired
	// but must no longer authorize anything
	session, err := sessions.FindByDeviceID("device-1")
	require.NoError(t, err)
	session.IssuedAt = issuedAt.Add(time.Minute)
	require.NoError(t, sessions.Update(session))

	_, err = svc.CheckRefreshSession(oldToken)
	assert.EqualError(t, err, "refresh token already used")
}

func TestCheckRefreshSession_RejectsClosedSession(t *testing.T) {
	sessions := newFakeSessionRepo()
	svc := newSessionTestService(sessions)
	issuedAt := time.Now().Truncate(time.Second)

	token := mintSession(t, svc, sessions, "device-1", issuedAt)
	require.NoError(t, sessions.DeleteByDeviceID("device-1"))

	_, err := svc.CheckRefreshSession(token)
	assert.EqualError(t, err, "session not found")
}

func TestCheckRefreshSession_RejectsGarbageToken(t *testing.T) {
	svc := newSessionTestService(newFakeSessionRepo())

	_, err := svc.CheckRefreshSession("not-a-jwt")
	assert.EqualError(t, err, "invalid refresh token")
}

func TestLogout_RejectsRotatedOutToken(t *testing.T) {
	sessions := newFakeSessionRepo()
	svc := newSessionTestService(sessions)
	issuedAt := time.Now().Add(-time.Hour).Truncate(time.Second)

	oldToken := mintSession(t, svc, sessions, "device-1", issuedAt)

	session, err := sessions.FindByDeviceID("device-1")
	require.NoError(t, err)
	session.IssuedAt = issuedAt.Add(time.Minute)
	require.NoError(t, sessions.Update(session))

	err = svc.Logout(oldToken)
	assert.EqualError(t, err, "refresh token already used")

	// the session itself must survive the rejected logout
	_, err = sessions.FindByDeviceID("device-1")
	assert.NoError(t, err)
}
