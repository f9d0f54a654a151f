package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/observability"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Token types carried in the token_type claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

const minPasswordLength = 8

// TokenPair is the credential pair handed out on register and login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenConfig controls JWT signing and lifetimes.
type TokenConfig struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// RegisterInput is a registration request after binding.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
}

// AuthService registers users and issues and verifies their tokens.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, *TokenPair, error)
	Login(ctx context.Context, identifier, password string) (*domain.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	ParseAccessToken(token string) (int64, error)
}

// --- Service Implementation ---

// authService implements the AuthService interface.
type authService struct {
	userRepo repository.UserRepository
	tokens   TokenConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, tokens TokenConfig, logger *zap.Logger) (AuthService, error) {
	if tokens.Secret == "" {
		return nil, errors.New("jwt secret cannot be empty")
	}
	if tokens.AccessTTL <= 0 || tokens.RefreshTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Register validates the request, stores the user with a bcrypt hash and
// issues the first token pair.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.User, *TokenPair, error) {
	verr := &ValidationError{}
	for _, msg := range passwordProblems(in.Password, in.Username, in.Email) {
		verr.Add("password", msg)
	}
	if err := verr.orNil(); err != nil {
		return nil, nil, err
	}
	if in.Password != in.PasswordConfirm {
		return nil, nil, NewValidationError(NonFieldErrors, msgPasswordMismatch)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hashedPassword),
		IsActive:     true,
	}
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		if verr := duplicateUserError(err); verr != nil {
			return nil, nil, verr
		}
		return nil, nil, err
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID))

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	user.PasswordHash = ""
	return user, pair, nil
}

// Login accepts either the email or the username as identifier. The email
// lookup is tried first; a miss there falls back to the username.
func (s *authService) Login(ctx context.Context, identifier, password string) (*domain.User, *TokenPair, error) {
	if identifier == "" || password == "" {
		return nil, nil, NewValidationError(NonFieldErrors, msgMissingCredentials)
	}

	user, err := s.authenticate(ctx, identifier, password)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		observability.RecordLoginFailure()
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		observability.RecordLoginFailure()
		return nil, nil, ErrAccountDisabled
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	user.PasswordHash = ""
	return user, pair, nil
}

// authenticate returns nil, nil when no user matches the credentials.
func (s *authService) authenticate(ctx context.Context, identifier, password string) (*domain.User, error) {
	lookups := []func(context.Context, string) (*domain.User, error){
		s.userRepo.GetByEmail,
		s.userRepo.GetByUsername,
	}
	for _, lookup := range lookups {
		user, err := lookup(ctx, identifier)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil {
			return user, nil
		}
	}
	return nil, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.parse(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	if !user.IsActive {
		return "", ErrInvalidToken
	}
	return s.sign(userID, TokenTypeAccess, s.tokens.AccessTTL)
}

// ParseAccessToken returns the user id of a valid access token.
func (s *authService) ParseAccessToken(token string) (int64, error) {
	return s.parse(token, TokenTypeAccess)
}

// --- JWT Helpers ---

// tokenClaims defines the structure of the JWT payload.
type tokenClaims struct {
	UserID    int64  `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

func (s *authService) issuePair(userID int64) (*TokenPair, error) {
	access, err := s.sign(userID, TokenTypeAccess, s.tokens.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(userID, TokenTypeRefresh, s.tokens.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *authService) sign(userID int64, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &tokenClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    s.tokens.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.tokens.Secret))
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (s *authService) parse(raw, wantType string) (int64, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.tokens.Secret), nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	if claims.TokenType != wantType || claims.UserID <= 0 {
		return 0, ErrInvalidToken
	}
	if s.tokens.Issuer != "" && !claims.VerifyIssuer(s.tokens.Issuer, true) {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

// passwordProblems lists every password rule the candidate breaks.
func passwordProblems(password, username, email string) []string {
	var problems []string
	if len([]rune(password)) < minPasswordLength {
		problems = append(problems, fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength))
	}
	if password != "" && strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) == -1 {
		problems = append(problems, "This password is entirely numeric.")
	}
	if password != "" && strings.EqualFold(password, username) {
		problems = append(problems, "The password is too similar to the username.")
	}
	if password != "" && strings.EqualFold(password, email) {
		problems = append(problems, "The password is too similar to the email address.")
	}
	return problems
}

// duplicateUserError maps unique violations on users to field errors.
func duplicateUserError(err error) *ValidationError {
	switch {
	case errors.Is(err, repository.ErrDuplicateUsername):
		return NewValidationError("username", msgDuplicateUsername)
	case errors.Is(err, repository.ErrDuplicateEmail):
		return NewValidationError("email", msgDuplicateEmail)
	default:
		return nil
	}
}
