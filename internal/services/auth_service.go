package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/aybserve/clickenrent-backend-sub004/internal/authz"
	"github.com/aybserve/clickenrent-backend-sub004/internal/models"
	"github.com/aybserve/clickenrent-backend-sub004/internal/oauth"
	"github.com/aybserve/clickenrent-backend-sub004/internal/repositories"
)

// AuthService — оркестратор: register/login/refresh/logout, e-mail коды,
// сброс пароля и OAuth-callback поверх остальных сервисов.
type AuthService struct {
	accounts  repositories.AccountRepository
	tokens    *TokenService
	revoked   *RevocationStore
	verify    *VerificationService
	identity  *IdentityService
	emails    EmailService
	providers map[string]oauth.Provider
}

func NewAuthService(
	accounts repositories.AccountRepository,
	tokens *TokenService,
	revoked *RevocationStore,
	verify *VerificationService,
	identity *IdentityService,
	emails EmailService,
	providers ...oauth.Provider,
) *AuthService {
	byName := make(map[string]oauth.Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &AuthService{
		accounts:  accounts,
		tokens:    tokens,
		revoked:   revoked,
		verify:    verify,
		identity:  identity,
		emails:    emails,
		providers: byName,
	}
}

func (s *AuthService) HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Register создаёт аккаунт с неподтверждённым e-mail и отправляет код
// подтверждения. Неудача отправки кода регистрацию не отменяет — код
// можно перезапросить.
func (s *AuthService) Register(req models.RegisterRequest, meta RequestMeta) (*models.Account, error) {
	hash, err := s.HashPassword(strings.TrimSpace(req.Password))
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		PublicID:        uuid.NewString(),
		Username:        strings.TrimSpace(req.Username),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:    &hash,
		IsEmailVerified: false,
		IsActive:        true,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Roles:           authz.DefaultRoles(),
	}
	if err := s.accounts.Create(account); err != nil {
		if err == repositories.ErrDuplicate {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	if err := s.verify.Issue(account, models.PurposeEmailVerification, meta); err != nil {
		log.Printf("[auth][register] warning: issue verification code for account_id=%d failed: %v", account.ID, err)
	}

	log.Printf("[auth][register] account_id=%d username=%s", account.ID, account.Username)
	return account, nil
}

// Login — сообщение об ошибке намеренно одно на все случаи, чтобы по
// ответу нельзя было перечислять адреса.
func (s *AuthService) Login(email, password string) (*models.Account, *models.TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	account, err := s.accounts.GetByEmail(email)
	if err != nil {
		return nil, nil, err
	}
	if account == nil || !account.IsActive || account.IsDeleted || !account.HasPassword() {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*account.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		log.Printf("[auth][login] bcrypt mismatch account_id=%d", account.ID)
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(account)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("[auth][login] success account_id=%d", account.ID)
	return account, pair, nil
}

func (s *AuthService) issueTokens(account *models.Account) (*models.TokenPair, error) {
	access, err := s.tokens.IssueAccess(account)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(account)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) Refresh(refreshToken string) (string, error) {
	return s.tokens.Refresh(refreshToken)
}

// Logout заносит access-токен в чёрный список до его естественного
// истечения. Уже истёкший токен отзывать не нужно.
func (s *AuthService) Logout(accessToken string) error {
	claims, err := s.tokens.ValidateAccess(accessToken)
	if err != nil {
		if err == ErrTokenExpired {
			return nil
		}
		return err
	}
	s.revoked.Revoke(TokenID(accessToken), claims.ExpiresAt.Time)
	log.Printf("[auth][logout] account_id=%d", claims.AccountID)
	return nil
}

// CheckAccess — валидация подписи/срока плюс явная проверка отзыва.
// Композиция именно здесь: refresh-токены через чёрный список не гоняются.
func (s *AuthService) CheckAccess(accessToken string) (*Claims, error) {
	claims, err := s.tokens.ValidateAccess(accessToken)
	if err != nil {
		return nil, err
	}
	if s.revoked.IsRevoked(TokenID(accessToken)) {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

func (s *AuthService) CurrentAccount(claims *Claims) (*models.Account, error) {
	account, err := s.accounts.GetByID(claims.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrNotFound
	}
	return account, nil
}

// --- e-mail verification ---

func (s *AuthService) SendEmailCode(email string, meta RequestMeta) error {
	return s.verify.Resend(email, models.PurposeEmailVerification, meta)
}

func (s *AuthService) VerifyEmailCode(email, code string) (*models.Account, error) {
	return s.verify.Validate(email, models.PurposeEmailVerification, code)
}

func (s *AuthService) ResendEmailCode(email string, meta RequestMeta) error {
	return s.verify.Resend(email, models.PurposeEmailVerification, meta)
}

// --- password reset ---

// InitiatePasswordReset не раскрывает, существует ли адрес: для
// неизвестного e-mail возвращается nil без каких-либо действий.
func (s *AuthService) InitiatePasswordReset(email string, meta RequestMeta) error {
	account, err := s.accounts.GetByEmail(email)
	if err != nil {
		return err
	}
	if account == nil || !account.IsActive {
		log.Printf("[auth][reset] request for unknown or inactive email")
		return nil
	}
	return s.verify.Issue(account, models.PurposePasswordReset, meta)
}

// ValidateResetCode проверяет код, не потребляя его (шаг формы перед
// вводом нового пароля). Неверный код расходует попытку.
func (s *AuthService) ValidateResetCode(email, code string) error {
	_, err := s.verify.Check(email, models.PurposePasswordReset, code)
	return err
}

// ConfirmPasswordReset потребляет код и меняет пароль.
func (s *AuthService) ConfirmPasswordReset(email, code, newPassword string) error {
	newPassword = strings.TrimSpace(newPassword)
	if len(newPassword) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}

	account, err := s.verify.Validate(email, models.PurposePasswordReset, code)
	if err != nil {
		return err
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.accounts.UpdatePassword(account.ID, hash); err != nil {
		return err
	}

	if s.emails != nil {
		if err := s.emails.SendPasswordChangedConfirmation(account.Email, account.FirstName); err != nil {
			log.Printf("[auth][reset] warning: send changed-confirmation to %s failed: %v", account.Email, err)
		}
	}
	log.Printf("[auth][reset] password changed account_id=%d", account.ID)
	return nil
}

// --- OAuth ---

// OAuthCallback обменивает authorization code, получает профиль и
// резолвит локальный аккаунт. Любая ошибка транспорта провайдера
// наружу выходит как Unauthorized с указанием провайдера, но не как
// сырое исключение.
func (s *AuthService) OAuthCallback(ctx context.Context, providerName, code, redirectURI string) (*models.Account, *models.TokenPair, error) {
	provider, ok := s.providers[providerName]
	if !ok {
		return nil, nil, fmt.Errorf("%w: unknown provider %q", ErrUnauthorized, providerName)
	}

	tokens, err := provider.ExchangeCode(ctx, code, redirectURI)
	if err != nil {
		log.Printf("[oauth][callback] provider=%s exchange failed: %v", providerName, err)
		return nil, nil, fmt.Errorf("%w: %s code exchange failed", ErrUnauthorized, providerName)
	}

	info, err := provider.FetchUserInfo(ctx, tokens.AccessToken)
	if err != nil {
		log.Printf("[oauth][callback] provider=%s userinfo failed: %v", providerName, err)
		return nil, nil, fmt.Errorf("%w: %s userinfo fetch failed", ErrUnauthorized, providerName)
	}

	account, err := s.identity.Resolve(providerName, info)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(account)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("[oauth][callback] success provider=%s account_id=%d", providerName, account.ID)
	return account, pair, nil
}
