package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"bloggers-platform/internal/config"
	"bloggers-platform/internal/model"
	"bloggers-platform/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Login    string `json:"login" binding:"required,min=3,max=10,alphanum"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=20"`
}

type LoginRequest struct {
	LoginOrEmail string `json:"loginOrEmail" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type MeView struct {
	UserID string `json:"userId"`
	Login  string `json:"login"`
	Email  string `json:"email"`
}

// AccessClaims is the payload of short-lived access tokens
type AccessClaims struct {
	UserID string `json:"userId"`
	Login  string `json:"login"`
	jwt.RegisteredClaims
}

// RefreshClaims additionally binds the token to a device session; rotation
// bumps IssuedAt, which invalidates every previously issued refresh token
// for the same device
type RefreshClaims struct {
	UserID   string `json:"userId"`
	DeviceID string `json:"deviceId"`
	jwt.RegisteredClaims
}

const confirmationCodeTTL = 24 * time.Hour

type AuthService interface {
	Register(req RegisterRequest) error
	ConfirmRegistration(code string) error
	ResendConfirmationEmail(email string) error
	Login(req LoginRequest, ip, userAgent string) (*TokenPair, error)
	RefreshTokens(refreshToken string) (*TokenPair, error)
	Logout(refreshToken string) error
	RecoverPassword(email string) error
	SetNewPassword(recoveryCode, newPassword string) error
	GetMe(userID string) (*MeView, error)
	ParseAccessToken(token string) (*AccessClaims, error)
	ParseRefreshToken(token string) (*RefreshClaims, error)
	CheckRefreshSession(refreshToken string) (*RefreshClaims, error)
}

type authService struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.SessionRepository
	emailService EmailService
	cfg          *config.Config
}

func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	emailService EmailService,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		emailService: emailService,
		cfg:          cfg,
	}
}

// Register creates an unconfirmed user and queues the confirmation email
func (s *authService) Register(req RegisterRequest) error {
	if _, err := s.userRepo.FindByLogin(req.Login); err == nil {
		return errors.New("login already taken")
	}
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return errors.New("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	code := uuid.New().String()
	expiresAt := time.Now().Add(confirmationCodeTTL)

	user := &model.User{
		Login:                     req.Login,
		Email:                     req.Email,
		PasswordHash:              string(hash),
		ConfirmationCode:          &code,
		ConfirmationCodeExpiresAt: &expiresAt,
	}

	if err := s.userRepo.Create(user); err != nil {
		return errors.New("failed to register user")
	}

	if err := s.emailService.PublishConfirmationEmail(user.Email, code); err != nil {
		// Registration already committed, the user can ask for a resend
		log.Printf("failed to queue confirmation email for %s: %v", user.Email, err)
	}

	return nil
}

// ConfirmRegistration marks the user's email as confirmed
func (s *authService) ConfirmRegistration(code string) error {
	user, err := s.userRepo.FindByConfirmationCode(code)
	if err != nil {
		return errors.New("confirmation code is incorrect")
	}
	if user.IsEmailConfirmed {
		return errors.New("email already confirmed")
	}
	if user.ConfirmationCodeExpiresAt == nil || time.Now().After(*user.ConfirmationCodeExpiresAt) {
		return errors.New("confirmation code expired")
	}

	user.IsEmailConfirmed = true
	user.ConfirmationCode = nil
	user.ConfirmationCodeExpiresAt = nil
	return s.userRepo.Update(user)
}

// ResendConfirmationEmail issues a fresh code and queues the email again
func (s *authService) ResendConfirmationEmail(email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return errors.New("email not found")
	}
	if user.IsEmailConfirmed {
		return errors.New("email already confirmed")
	}

	code := uuid.New().String()
	expiresAt := time.Now().Add(confirmationCodeTTL)
	user.ConfirmationCode = &code
	user.ConfirmationCodeExpiresAt = &expiresAt

	if err := s.userRepo.Update(user); err != nil {
		return errors.New("failed to refresh confirmation code")
	}

	return s.emailService.PublishConfirmationEmail(user.Email, code)
}

// Login verifies credentials and opens a new device session
func (s *authService) Login(req LoginRequest, ip, userAgent string) (*TokenPair, error) {
	user, err := s.userRepo.FindByLoginOrEmail(req.LoginOrEmail)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}
	if !user.IsEmailConfirmed {
		return nil, errors.New("email not confirmed")
	}

	deviceID := uuid.New().String()
	issuedAt := time.Now().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.cfg.RefreshTokenTTL)

	if userAgent == "" {
		userAgent = "unknown device"
	}

	session := &model.Session{
		UserID:    user.ID,
		DeviceID:  deviceID,
		IP:        ip,
		Title:     userAgent,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, errors.New("failed to create session")
	}

	return s.issueTokens(user, deviceID, issuedAt, expiresAt)
}

// CheckRefreshSession validates a refresh token against its stored device
// session. A rotated session no longer matches the old token's issue time,
// so tokens superseded by rotation are rejected even before they expire.
func (s *authService) CheckRefreshSession(refreshToken string) (*RefreshClaims, error) {
	claims, err := s.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}

	session, err := s.sessionRepo.FindByDeviceID(claims.DeviceID)
	if err != nil {
		return nil, errors.New("session not found")
	}
	if claims.IssuedAt == nil || !session.IssuedAt.Equal(claims.IssuedAt.Time) {
		return nil, errors.New("refresh token already used")
	}
	return claims, nil
}

// RefreshTokens rotates the refresh token for the device session
func (s *authService) RefreshTokens(refreshToken string) (*TokenPair, error) {
	claims, err := s.CheckRefreshSession(refreshToken)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.FindByDeviceID(claims.DeviceID)
	if err != nil {
		return nil, errors.New("session not found")
	}

	user, err := s.userRepo.FindByID(session.UserID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	issuedAt := time.Now().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.cfg.RefreshTokenTTL)
	session.IssuedAt = issuedAt
	session.ExpiresAt = expiresAt
	if err := s.sessionRepo.Update(session); err != nil {
		return nil, errors.New("failed to rotate session")
	}

	return s.issueTokens(user, session.DeviceID, issuedAt, expiresAt)
}

// Logout closes the device session of the presented refresh token
func (s *authService) Logout(refreshToken string) error {
	claims, err := s.CheckRefreshSession(refreshToken)
	if err != nil {
		return err
	}
	return s.sessionRepo.DeleteByDeviceID(claims.DeviceID)
}

// RecoverPassword issues a recovery code and queues the recovery email.
// Unknown emails are not revealed to the caller.
func (s *authService) RecoverPassword(email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil
	}

	code := uuid.New().String()
	expiresAt := time.Now().Add(confirmationCodeTTL)
	user.PasswordRecoveryCode = &code
	user.PasswordRecoveryCodeExpiresAt = &expiresAt

	if err := s.userRepo.Update(user); err != nil {
		return errors.New("failed to store recovery code")
	}

	return s.emailService.PublishRecoveryEmail(user.Email, code)
}

// SetNewPassword replaces the password using a valid recovery code
func (s *authService) SetNewPassword(recoveryCode, newPassword string) error {
	user, err := s.userRepo.FindByRecoveryCode(recoveryCode)
	if err != nil {
		return errors.New("recovery code is incorrect")
	}
	if user.PasswordRecoveryCodeExpiresAt == nil || time.Now().After(*user.PasswordRecoveryCodeExpiresAt) {
		return errors.New("recovery code expired")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	user.PasswordRecoveryCode = nil
	user.PasswordRecoveryCodeExpiresAt = nil
	if err := s.userRepo.Update(user); err != nil {
		return errors.New("failed to update password")
	}

	// Every existing session is invalid after a password change
	return s.sessionRepo.DeleteByUserID(user.ID)
}

// GetMe returns the authenticated user's own view
func (s *authService) GetMe(userID string) (*MeView, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, errors.New("user not found")
	}
	return &MeView{
		UserID: user.ID,
		Login:  user.Login,
		Email:  user.Email,
	}, nil
}

// ParseAccessToken validates an access token and returns its claims
func (s *authService) ParseAccessToken(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, errors.New("invalid access token")
	}
	return claims, nil
}

// ParseRefreshToken validates a refresh token and returns its claims
func (s *authService) ParseRefreshToken(token string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, errors.New("invalid refresh token")
	}
	return claims, nil
}

func (s *authService) keyFunc(_ *jwt.Token) (interface{}, error) {
	return []byte(s.cfg.JWTSecret), nil
}

func (s *authService) issueTokens(user *model.User, deviceID string, issuedAt, refreshExpiresAt time.Time) (*TokenPair, error) {
	accessClaims := AccessClaims{
		UserID: user.ID,
		Login:  user.Login,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.cfg.AccessTokenTTL)),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshClaims := RefreshClaims{
		UserID:   user.ID,
		DeviceID: deviceID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(refreshExpiresAt),
		},
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
