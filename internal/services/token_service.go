package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aybserve/clickenrent-backend-sub004/internal/config"
	"github.com/aybserve/clickenrent-backend-sub004/internal/models"
)

// Claims — полезная нагрузка access-токена. Subject = username.
type Claims struct {
	AccountID  int64    `json:"account_id"`
	Email      string   `json:"email"`
	Roles      []string `json:"roles"`
	CompanyIDs []int64  `json:"company_ids"`
	jwt.RegisteredClaims
}

// AccountLookup — минимальная зависимость для повторного вывода claims
// при refresh: claims всегда строятся из текущего состояния аккаунта.
type AccountLookup interface {
	GetByUsername(username string) (*models.Account, error)
}

type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	accounts      AccountLookup

	now func() time.Time
}

func NewTokenService(cfg config.AuthConfig, accounts AccountLookup) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL(),
		refreshTTL:    cfg.RefreshTTL(),
		accounts:      accounts,
		now:           time.Now,
	}
}

// ClaimsFor строит свежие claims из текущего состояния аккаунта.
func (s *TokenService) ClaimsFor(a *models.Account) *Claims {
	now := s.now()
	return &Claims{
		AccountID:  a.ID,
		Email:      a.Email,
		Roles:      a.Roles,
		CompanyIDs: a.CompanyIDs,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
}

func (s *TokenService) IssueAccess(a *models.Account) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, s.ClaimsFor(a))
	signed, err := token.SignedString(s.accessSecret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// IssueRefresh — refresh-токен несёт только subject, никаких ролей/тенантов.
func (s *TokenService) IssueRefresh(a *models.Account) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   a.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
	})
	signed, err := token.SignedString(s.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) parse(tokenStr string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		// принимаем только HMAC
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}

// ValidateAccess проверяет подпись и срок действия. Отзыв здесь не
// проверяется: это отдельная явная проверка на стороне вызывающего.
func (s *TokenService) ValidateAccess(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if err := s.parse(tokenStr, claims, s.accessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// ValidateRefresh возвращает subject (username) валидного refresh-токена.
func (s *TokenService) ValidateRefresh(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if err := s.parse(tokenStr, claims, s.refreshSecret); err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// Refresh валидирует refresh-токен и выпускает новый access-токен,
// заново выводя claims из текущего состояния аккаунта, а не из старых claims.
func (s *TokenService) Refresh(refreshToken string) (string, error) {
	subject, err := s.ValidateRefresh(refreshToken)
	if err != nil {
		return "", ErrTokenInvalid
	}
	account, err := s.accounts.GetByUsername(subject)
	if err != nil {
		return "", err
	}
	if account == nil || !account.IsActive {
		return "", ErrTokenInvalid
	}
	return s.IssueAccess(account)
}
