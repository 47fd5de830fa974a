package models

import "time"

type Account struct {
	ID       int64  `json:"id"`
	PublicID string `json:"public_id"`
	Username string `json:"username"`
	Email    string `json:"email"`

	// PasswordHash отсутствует у social-only аккаунтов
	PasswordHash *string `json:"-"`

	IsEmailVerified bool `json:"is_email_verified"`
	IsActive        bool `json:"is_active"`
	IsDeleted       bool `json:"-"`

	// внешняя идентичность (OAuth); пара (Provider, ProviderID) уникальна
	Provider   *string `json:"provider,omitempty"`
	ProviderID *string `json:"-"`

	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	AvatarURL *string `json:"avatar_url,omitempty"`

	Roles      []string `json:"roles"`
	CompanyIDs []int64  `json:"company_ids"`

	CreatedAt time.Time `json:"created_at"`
}

// HasPassword reports whether the account can be used for password login.
func (a *Account) HasPassword() bool {
	return a.PasswordHash != nil && *a.PasswordHash != ""
}

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
