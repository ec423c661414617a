package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/estudiolex/subastas-backend/internal/config"
	"github.com/estudiolex/subastas-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSessionNotFound    = errors.New("session not found or expired")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// Login validates credentials and issues a signed token. The literal
// token string is persisted as a Session row with a mirrored expiry.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	token, expiresAt, err := s.signToken(&user)
	if err != nil {
		return nil, err
	}

	session := models.Session{
		ID:        uuid.New(),
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	now := time.Now()
	s.db.Model(&user).Update("last_login", now)
	user.LastLogin = &now

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: &user}, nil
}

// Logout deletes the matching session. Absent rows are a no-op.
func (s *AuthService) Logout(token string) error {
	return s.db.Where("token = ?", token).Delete(&models.Session{}).Error
}

// Refresh re-issues a token for a still-live session. The old token must
// carry a valid signature AND key an existing session row; anything else
// fails. The session row is replaced in place, never duplicated.
func (s *AuthService) Refresh(oldToken string) (*LoginResult, error) {
	if _, err := jwt.Parse(oldToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}); err != nil {
		return nil, ErrInvalidToken
	}

	var session models.Session
	if err := s.db.Where("token = ?", oldToken).First(&session).Error; err != nil {
		return nil, ErrSessionNotFound
	}
	if session.Expired(time.Now()) {
		s.db.Delete(&session)
		return nil, ErrSessionNotFound
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", session.UserID).Error; err != nil {
		return nil, ErrSessionNotFound
	}
	if !user.IsActive {
		return nil, ErrSessionNotFound
	}

	token, expiresAt, err := s.signToken(&user)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&session).Updates(map[string]interface{}{
		"token":      token,
		"expires_at": expiresAt,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to rotate session: %w", err)
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: &user}, nil
}

// ChangePassword rehashes and revokes every session of the user, forcing
// a global re-login. Revocation is idempotent.
func (s *AuthService) ChangePassword(userID uuid.UUID, current, newPassword string) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	if len(newPassword) < 8 {
		return ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Model(&user).Update("password", string(hash)).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return s.db.Where("user_id = ?", userID).Delete(&models.Session{}).Error
}

// ValidateSession resolves a bearer token to its active user. Expired
// sessions are purged here, on use, rather than by a background sweep.
func (s *AuthService) ValidateSession(token string) (*models.User, error) {
	var session models.Session
	if err := s.db.Where("token = ?", token).First(&session).Error; err != nil {
		return nil, ErrSessionNotFound
	}
	if session.Expired(time.Now()) {
		s.db.Delete(&session)
		return nil, ErrSessionNotFound
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", session.UserID).Error; err != nil {
		return nil, ErrSessionNotFound
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return &user, nil
}

func (s *AuthService) signToken(user *models.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.cfg.JWTExpire)
	// jti keeps tokens unique even when two logins land in the same
	// second; sessions.token carries a unique index.
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  user.Role,
		"jti":   uuid.NewString(),
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// EnsureAdmin bootstraps the first SUPER_ADMIN from ADMIN_EMAIL and
// ADMIN_PASSWORD. Existing users are never touched.
func (s *AuthService) EnsureAdmin() error {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(s.cfg.AdminEmail))
	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hash),
		Name:     "Administrador",
		Role:     models.RoleSuperAdmin,
		IsActive: true,
	}
	return s.db.Create(&admin).Error
}
