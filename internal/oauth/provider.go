package oauth

import "context"

// TokenResponse — ответ обмена authorization code на токены провайдера.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token,omitempty"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int    `json:"expires_in,omitempty"`
}

// UserInfo — профиль пользователя у провайдера в общем виде.
type UserInfo struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// Provider — контракт внешнего OAuth-провайдера. Для каждого провайдера
// различается только обмен кода и получение профиля; резолюция
// идентичности дальше общая.
type Provider interface {
	Name() string
	ExchangeCode(ctx context.Context, code, redirectURI string) (*TokenResponse, error)
	FetchUserInfo(ctx context.Context, accessToken string) (*UserInfo, error)
}
