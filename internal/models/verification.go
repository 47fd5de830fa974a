package models

import "time"

// Purpose разделяет коды подтверждения e-mail и коды сброса пароля.
type VerificationPurpose string

const (
	PurposeEmailVerification VerificationPurpose = "email_verification"
	PurposePasswordReset     VerificationPurpose = "password_reset"
)

// VerificationRecord — одна выдача кода. На каждую повторную отправку
// создаётся новая строка, предыдущая активная помечается invalidated.
type VerificationRecord struct {
	ID        int64               `json:"id"`
	AccountID int64               `json:"account_id"`
	Email     string              `json:"email"`
	Purpose   VerificationPurpose `json:"purpose"`
	Code      string              `json:"-"`
	CreatedAt time.Time           `json:"created_at"`
	ExpiresAt time.Time           `json:"expires_at"`
	Attempts  int                 `json:"attempts"`
	Used      bool                `json:"used"`
	UsedAt    *time.Time          `json:"used_at,omitempty"`

	// Invalidated — запись вытеснена более новой выдачей.
	Invalidated bool `json:"-"`

	// метаданные запроса, только для аудита
	RequestIP string `json:"-"`
	UserAgent string `json:"-"`
}

// Active reports whether the record can still be validated against.
// Expiry and attempt lockout are derived at read time, not stored.
func (v *VerificationRecord) Active() bool {
	return !v.Used && !v.Invalidated
}

func (v *VerificationRecord) Expired(now time.Time) bool {
	return !now.Before(v.ExpiresAt)
}
