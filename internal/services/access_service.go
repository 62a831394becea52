package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arnowelzel/periodical/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	AccessTokenTTL     = 7 * 24 * time.Hour
	accessTokenSubject = "periodical"
)

var (
	ErrAccessDenied        = errors.New("access denied")
	ErrAccessTokenInvalid  = errors.New("invalid access token")
	ErrAccessSecretMissing = errors.New("access secret missing")
)

type accessClaims struct {
	jwt.RegisteredClaims
}

// AccessService guards the calendar with a single password. Without a stored
// hash the guard is off and every request passes.
type AccessService struct {
	options OptionRepository
	secret  []byte
	now     func() time.Time
}

func NewAccessService(options OptionRepository, secret []byte) *AccessService {
	return &AccessService{
		options: options,
		secret:  secret,
		now:     time.Now,
	}
}

func (service *AccessService) passwordHash(ctx context.Context) (string, error) {
	value, found, err := service.options.Get(ctx, models.OptionAccessPasswordHash)
	if err != nil {
		return "", &StorageError{Op: "get access password", Err: err}
	}
	if !found {
		return "", nil
	}
	return strings.TrimSpace(value), nil
}

func (service *AccessService) Enabled(ctx context.Context) (bool, error) {
	hash, err := service.passwordHash(ctx)
	if err != nil {
		return false, err
	}
	return hash != "", nil
}

// SetPassword stores a bcrypt hash of password. An empty password removes the
// hash and turns the guard off.
func (service *AccessService) SetPassword(ctx context.Context, password string) error {
	if password == "" {
		if err := service.options.Delete(ctx, models.OptionAccessPasswordHash); err != nil {
			return &StorageError{Op: "clear access password", Err: err}
		}
		return nil
	}
	if err := ValidateAccessPassword(password); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash access password: %w", err)
	}
	if err := service.options.Set(ctx, models.OptionAccessPasswordHash, string(hash)); err != nil {
		return &StorageError{Op: "set access password", Err: err}
	}
	return nil
}

// Login checks password and returns a signed token. With the guard off any
// password is accepted.
func (service *AccessService) Login(ctx context.Context, password string) (string, time.Time, error) {
	hash, err := service.passwordHash(ctx)
	if err != nil {
		return "", time.Time{}, err
	}
	if hash != "" && bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", time.Time{}, ErrAccessDenied
	}
	return service.IssueToken()
}

func (service *AccessService) IssueToken() (string, time.Time, error) {
	if len(service.secret) == 0 {
		return "", time.Time{}, ErrAccessSecretMissing
	}
	now := service.now()
	expiresAt := now.Add(AccessTokenTTL)

	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accessTokenSubject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(service.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

func (service *AccessService) VerifyToken(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(service.secret) == 0 {
		return ErrAccessTokenInvalid
	}

	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return service.secret, nil
	}, jwt.WithTimeFunc(service.now))
	if err != nil || !token.Valid {
		return ErrAccessTokenInvalid
	}
	if claims.Subject != accessTokenSubject {
		return ErrAccessTokenInvalid
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(service.now()) {
		return ErrAccessTokenInvalid
	}
	return nil
}
