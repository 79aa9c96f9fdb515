// Package auth signs administrators in against the admins table and issues
// HS256 session tokens. Signed-out tokens are remembered in the cache until
// they would have expired anyway.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/farellandr/certportal/internal/cache"
	"github.com/farellandr/certportal/internal/domain"
	"github.com/farellandr/certportal/internal/models"
	"github.com/farellandr/certportal/internal/repository"
)

const (
	MinPasswordLength = 8
	revokedKeyPrefix  = "auth:revoked:"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrTokenRevoked       = errors.New("session token revoked")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

// AdminStore is the subset of the repository auth needs.
type AdminStore interface {
	CountAdmins(ctx context.Context) (int64, error)
	FindAdminByEmail(ctx context.Context, email string) (models.Admin, error)
	GetAdmin(ctx context.Context, id uuid.UUID) (models.Admin, error)
	CreateAdmin(ctx context.Context, admin *models.Admin) error
	UpdateAdmin(ctx context.Context, admin *models.Admin) error
}

type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Session struct {
	Token     string
	TokenID   string
	AdminID   uuid.UUID
	User      domain.User
	ExpiresAt time.Time
}

type Service struct {
	store  AdminStore
	cache  cache.Cache
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(store AdminStore, c cache.Cache, secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Service{store: store, cache: c, secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	admin, err := s.store.FindAdminByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("looking up admin: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.issue(admin)
}

func (s *Service) issue(admin models.Admin) (Session, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		Name:  admin.Name,
		Email: admin.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   admin.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Session{}, fmt.Errorf("signing token: %w", err)
	}

	return Session{
		Token:     token,
		TokenID:   claims.ID,
		AdminID:   admin.ID,
		User:      domain.UserFromRecord(admin),
		ExpiresAt: expiresAt,
	}, nil
}

// Session validates token and returns the session it belongs to, with the
// admin's current profile.
func (s *Service) Session(ctx context.Context, token string) (Session, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(token), claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	adminID, err := uuid.Parse(claims.Subject)
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		return Session{}, ErrInvalidToken
	}

	revoked, err := s.cache.Has(ctx, revokedKeyPrefix+claims.ID)
	if err != nil {
		return Session{}, fmt.Errorf("checking revoked tokens: %w", err)
	}
	if revoked {
		return Session{}, ErrTokenRevoked
	}

	admin, err := s.store.GetAdmin(ctx, adminID)
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, ErrInvalidToken
	}
	if err != nil {
		return Session{}, fmt.Errorf("loading admin: %w", err)
	}

	return Session{
		Token:     token,
		TokenID:   claims.ID,
		AdminID:   admin.ID,
		User:      domain.UserFromRecord(admin),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// SignOut revokes the session's token until its expiry.
func (s *Service) SignOut(ctx context.Context, session Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedKeyPrefix+session.TokenID, []byte{1}, ttl)
}

func (s *Service) ChangePassword(ctx context.Context, adminID uuid.UUID, current, next string) error {
	if len(next) < MinPasswordLength {
		return ErrWeakPassword
	}
	admin, err := s.store.GetAdmin(ctx, adminID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	admin.Password = string(hash)
	return s.store.UpdateAdmin(ctx, &admin)
}

func (s *Service) UpdateProfile(ctx context.Context, adminID uuid.UUID, user domain.User) (domain.User, error) {
	admin, err := s.store.GetAdmin(ctx, adminID)
	if err != nil {
		return domain.User{}, err
	}
	admin.Name = strings.TrimSpace(user.Name)
	admin.Email = user.Email
	if err := s.store.UpdateAdmin(ctx, &admin); err != nil {
		return domain.User{}, err
	}
	return domain.UserFromRecord(admin), nil
}

// SeedAdmin creates the first administrator when the table is empty. It
// reports whether an account was created.
func (s *Service) SeedAdmin(ctx context.Context, name, email, password string) (bool, error) {
	if email == "" {
		return false, nil
	}
	n, err := s.store.CountAdmins(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if len(password) < MinPasswordLength {
		return false, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hashing password: %w", err)
	}
	admin := models.Admin{Name: name, Email: email, Password: string(hash)}
	if err := s.store.CreateAdmin(ctx, &admin); err != nil {
		return false, err
	}
	return true, nil
}
