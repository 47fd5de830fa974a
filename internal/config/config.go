package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type OAuthProviderConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

type AuthConfig struct {
	AccessSecret  string `yaml:"access_secret"`
	RefreshSecret string `yaml:"refresh_secret"`

	AccessTTLMinutes int `yaml:"access_ttl_minutes"`
	RefreshTTLHours  int `yaml:"refresh_ttl_hours"`

	CodeLength             int `yaml:"code_length"`
	VerificationTTLMinutes int `yaml:"verification_ttl_minutes"`
	ResetTTLMinutes        int `yaml:"reset_ttl_minutes"`
	MaxAttempts            int `yaml:"max_attempts"`
	UsernameRetryBound     int `yaml:"username_retry_bound"`

	RevocationSweepMinutes int `yaml:"revocation_sweep_minutes"`
}

func (a AuthConfig) AccessTTL() time.Duration  { return time.Duration(a.AccessTTLMinutes) * time.Minute }
func (a AuthConfig) RefreshTTL() time.Duration { return time.Duration(a.RefreshTTLHours) * time.Hour }
func (a AuthConfig) VerificationTTL() time.Duration {
	return time.Duration(a.VerificationTTLMinutes) * time.Minute
}
func (a AuthConfig) ResetTTL() time.Duration { return time.Duration(a.ResetTTLMinutes) * time.Minute }

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Auth  AuthConfig `yaml:"auth"`
	OAuth struct {
		Google   OAuthProviderConfig `yaml:"google"`
		Facebook OAuthProviderConfig `yaml:"facebook"`
	} `yaml:"oauth"`
}

func LoadConfig() *Config {
	f, err := os.Open("config/config.yaml")
	if err != nil {
		panic("Failed to open config.yaml: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}

	// секреты можно переопределить из окружения
	if v := os.Getenv("JWT_ACCESS_SECRET"); v != "" {
		cfg.Auth.AccessSecret = v
	}
	if v := os.Getenv("JWT_REFRESH_SECRET"); v != "" {
		cfg.Auth.RefreshSecret = v
	}

	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	a := &cfg.Auth
	if a.AccessTTLMinutes <= 0 {
		a.AccessTTLMinutes = 15
	}
	if a.RefreshTTLHours <= 0 {
		a.RefreshTTLHours = 30 * 24
	}
	if a.CodeLength <= 0 {
		a.CodeLength = 6
	}
	if a.VerificationTTLMinutes <= 0 {
		a.VerificationTTLMinutes = 15
	}
	if a.ResetTTLMinutes <= 0 {
		a.ResetTTLMinutes = 30
	}
	if a.MaxAttempts <= 0 {
		a.MaxAttempts = 3
	}
	if a.UsernameRetryBound <= 0 {
		a.UsernameRetryBound = 10
	}
	if a.RevocationSweepMinutes <= 0 {
		a.RevocationSweepMinutes = 5
	}
}
