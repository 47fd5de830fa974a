package services

import (
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/aybserve/clickenrent-backend-sub004/internal/authz"
	"github.com/aybserve/clickenrent-backend-sub004/internal/config"
	"github.com/aybserve/clickenrent-backend-sub004/internal/models"
	"github.com/aybserve/clickenrent-backend-sub004/internal/oauth"
	"github.com/aybserve/clickenrent-backend-sub004/internal/repositories"
)

// IdentityService решает, что делать с внешней идентичностью:
// вернуть уже привязанный аккаунт, довязать её к существующему
// подтверждённому аккаунту или создать новый. Один и тот же код
// для всех провайдеров.
type IdentityService struct {
	accounts repositories.AccountRepository
	cfg      config.AuthConfig
}

func NewIdentityService(accounts repositories.AccountRepository, cfg config.AuthConfig) *IdentityService {
	return &IdentityService{accounts: accounts, cfg: cfg}
}

// Resolve — порядок строго фиксированный, первый матч выигрывает:
//  1. аккаунт уже привязан к паре (provider, subject) — вернуть как есть;
//  2. аккаунт с таким e-mail существует — привязать, но ТОЛЬКО если его
//     e-mail подтверждён; иначе отказ без каких-либо изменений аккаунта
//     (иначе чужую неподтверждённую регистрацию можно захватить, войдя
//     через OAuth с совпадающим адресом);
//  3. совпадений нет — создать новый аккаунт.
func (s *IdentityService) Resolve(provider string, info *oauth.UserInfo) (*models.Account, error) {
	// e-mail, не подтверждённый самим провайдером, не принимаем
	if info.Email == "" || !info.EmailVerified {
		return nil, ErrUnauthorized
	}

	account, err := s.accounts.GetByProvider(provider, info.Subject)
	if err != nil {
		return nil, err
	}
	if account != nil {
		return account, nil
	}

	account, err = s.accounts.GetByEmail(info.Email)
	if err != nil {
		return nil, err
	}
	if account != nil {
		if !account.IsEmailVerified {
			log.Printf("[oauth][resolve] refuse auto-link to unverified account_id=%d provider=%s", account.ID, provider)
			return nil, ErrUnauthorized
		}
		var avatar *string
		if info.Picture != "" {
			avatar = &info.Picture
		}
		if err := s.accounts.BindProvider(account.ID, provider, info.Subject, avatar); err != nil {
			return nil, err
		}
		account.Provider = &provider
		pid := info.Subject
		account.ProviderID = &pid
		account.IsEmailVerified = true
		if account.AvatarURL == nil && avatar != nil {
			account.AvatarURL = avatar
		}
		log.Printf("[oauth][resolve] linked provider=%s account_id=%d", provider, account.ID)
		return account, nil
	}

	return s.createAccount(provider, info)
}

func (s *IdentityService) createAccount(provider string, info *oauth.UserInfo) (*models.Account, error) {
	username, err := s.generateUsername(info.Email)
	if err != nil {
		return nil, err
	}

	pid := info.Subject
	var avatar *string
	if info.Picture != "" {
		avatar = &info.Picture
	}
	account := &models.Account{
		PublicID:        uuid.NewString(),
		Username:        username,
		Email:           strings.ToLower(info.Email),
		PasswordHash:    nil, // social-only
		IsEmailVerified: true,
		IsActive:        true,
		Provider:        &provider,
		ProviderID:      &pid,
		FirstName:       info.GivenName,
		LastName:        info.FamilyName,
		AvatarURL:       avatar,
		Roles:           authz.DefaultRoles(),
	}
	if err := s.accounts.Create(account); err != nil {
		return nil, err
	}
	log.Printf("[oauth][resolve] created account_id=%d provider=%s username=%s", account.ID, provider, username)
	return account, nil
}

// generateUsername строит username из локальной части e-mail (все
// не-алфанумерики схлопываются в точку), пробует ограниченное число
// вариантов с числовым суффиксом и после этого падает на случайный суффикс.
func (s *IdentityService) generateUsername(email string) (string, error) {
	base := usernameBase(email)

	for i := 0; i < s.cfg.UsernameRetryBound; i++ {
		candidate := base
		if i > 0 {
			candidate = base + "." + strconv.Itoa(i)
		}
		existing, err := s.accounts.GetByUsername(candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return base + "." + suffix, nil
}

func usernameBase(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		local = email[:at]
	}
	local = strings.ToLower(local)

	var b strings.Builder
	lastDot := true // не начинаем с точки
	for _, r := range local {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if alnum {
			b.WriteRune(r)
			lastDot = false
		} else if !lastDot {
			b.WriteByte('.')
			lastDot = true
		}
	}
	out := strings.TrimSuffix(b.String(), ".")
	if out == "" {
		out = "user"
	}
	return out
}
