package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dom/kanban-board/internal/clock"
	"github.com/dom/kanban-board/internal/config"
	"github.com/dom/kanban-board/internal/domain"
	"github.com/dom/kanban-board/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	accessAudience    = "access"
)

var ErrInvalidToken = errors.New("invalid token")

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// BcryptHasher hashes with bcrypt. A zero Cost means bcrypt.DefaultCost.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h BcryptHasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Claims is the access token payload. Stamp is the user's security stamp at
// login time and is checked against the current one on every request.
type Claims struct {
	Stamp string `json:"stamp"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

type AuthService struct {
	users  repository.UserRepository
	codes  *VerificationService
	guard  *SessionGuard
	hasher PasswordHasher
	cfg    *config.Config
	clk    clock.Clock
	log    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	codes *VerificationService,
	guard *SessionGuard,
	hasher PasswordHasher,
	cfg *config.Config,
	clk clock.Clock,
	log *slog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		codes:  codes,
		guard:  guard,
		hasher: hasher,
		cfg:    cfg,
		clk:    clk,
		log:    log,
	}
}

type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Code     string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"accessToken"`
}

// Register consumes the email's verification code and creates the account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, domain.ErrNameRequired
	}
	if len(input.Password) < minPasswordLength {
		return nil, domain.ErrWeakPassword
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailExists
	} else if !isNotFound(err) {
		return nil, storeFailure(s.log, "auth.Register", err)
	}

	if err := s.codes.VerifyCodeAndUpdate(ctx, email, input.Code); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, storeFailure(s.log, "auth.Register", err)
	}

	user := &domain.User{
		FullName:      fullName,
		Email:         email,
		PasswordHash:  hash,
		Active:        true,
		SecurityStamp: uuid.NewString(),
		CreatedAt:     s.clk.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, storeFailure(s.log, "auth.Register", err)
	}

	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		return nil, notFoundAs(s.log, "auth.Login", err, domain.ErrInvalidCredentials)
	}
	if !user.Active || !s.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return s.issue(user)
}

// ChangePassword rotates the security stamp, which invalidates every
// outstanding session of the user. The returned token carries the new stamp.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) (*AuthResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(s.log, "auth.ChangePassword", err, domain.ErrNotAuthorized)
	}
	if !s.hasher.Verify(oldPassword, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	if len(newPassword) < minPasswordLength {
		return nil, domain.ErrWeakPassword
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, storeFailure(s.log, "auth.ChangePassword", err)
	}
	stamp := uuid.NewString()
	if err := s.users.UpdatePassword(ctx, userID, hash, stamp); err != nil {
		return nil, notFoundAs(s.log, "auth.ChangePassword", err, domain.ErrNotAuthorized)
	}
	s.guard.Forget(userID)

	user.PasswordHash = hash
	user.SecurityStamp = stamp
	return s.issue(user)
}

func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(s.log, "auth.GetUserByID", err, domain.ErrNotAuthorized)
	}
	return user, nil
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, storeFailure(s.log, "auth.issue", err)
	}
	return &AuthResult{User: user, AccessToken: token}, nil
}

func (s *AuthService) generateAccessToken(user *domain.User) (string, error) {
	now := s.clk.Now()
	claims := Claims{
		Stamp: user.SecurityStamp,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			Audience:  jwt.ClaimStrings{accessAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ValidateToken checks signature, expiry and audience. It does not check the
// security stamp; that is the SessionGuard's job.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithAudience(accessAudience),
		jwt.WithTimeFunc(s.clk.Now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unexpected signing method")
	}
	return []byte(s.cfg.JWTSecret), nil
}
