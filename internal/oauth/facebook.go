package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	facebookTokenURL    = "https://graph.facebook.com/v19.0/oauth/access_token"
	facebookUserInfoURL = "https://graph.facebook.com/v19.0/me"
)

type FacebookClient struct {
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client
}

func NewFacebookClient(clientID, clientSecret string) *FacebookClient {
	return &FacebookClient{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		HTTPClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *FacebookClient) Name() string { return "facebook" }

func (c *FacebookClient) ExchangeCode(ctx context.Context, code, redirectURI string) (*TokenResponse, error) {
	q := url.Values{
		"client_id":     {c.ClientID},
		"client_secret": {c.ClientSecret},
		"code":          {code},
		"redirect_uri":  {redirectURI},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, facebookTokenURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("facebook token request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("facebook token request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("facebook token exchange failed: status=%d", resp.StatusCode)
	}

	var tr TokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("facebook token parse: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("facebook token exchange: empty access token")
	}
	return &tr, nil
}

func (c *FacebookClient) FetchUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	q := url.Values{
		"fields":       {"id,email,first_name,last_name,picture.type(large)"},
		"access_token": {accessToken},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, facebookUserInfoURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("facebook userinfo request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("facebook userinfo request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("facebook userinfo failed: status=%d", resp.StatusCode)
	}

	var raw struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Picture   struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("facebook userinfo parse: %w", err)
	}
	if raw.ID == "" || raw.Email == "" {
		return nil, fmt.Errorf("facebook userinfo: incomplete profile")
	}

	// Graph API отдаёт e-mail, только если он подтверждён на стороне Facebook.
	return &UserInfo{
		Subject:       raw.ID,
		Email:         raw.Email,
		EmailVerified: true,
		GivenName:     raw.FirstName,
		FamilyName:    raw.LastName,
		Picture:       raw.Picture.Data.URL,
	}, nil
}
