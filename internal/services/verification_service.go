package services

import (
	"log"
	"time"

	"github.com/aybserve/clickenrent-backend-sub004/internal/config"
	"github.com/aybserve/clickenrent-backend-sub004/internal/models"
	"github.com/aybserve/clickenrent-backend-sub004/internal/repositories"
	"github.com/aybserve/clickenrent-backend-sub004/internal/utils"
)

// RequestMeta — откуда пришёл запрос; пишется в запись кода для аудита.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// VerificationService — общий жизненный цикл кодов подтверждения e-mail
// и сброса пароля: выдача с вытеснением предыдущего активного кода,
// упорядоченная валидация, повторная отправка.
type VerificationService struct {
	accounts repositories.AccountRepository
	records  repositories.VerificationRepository
	emails   EmailService
	cfg      config.AuthConfig

	now func() time.Time
}

func NewVerificationService(
	accounts repositories.AccountRepository,
	records repositories.VerificationRepository,
	emails EmailService,
	cfg config.AuthConfig,
) *VerificationService {
	return &VerificationService{
		accounts: accounts,
		records:  records,
		emails:   emails,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *VerificationService) ttl(purpose models.VerificationPurpose) time.Duration {
	if purpose == models.PurposePasswordReset {
		return s.cfg.ResetTTL()
	}
	return s.cfg.VerificationTTL()
}

// Issue вытесняет предыдущий активный код пары account+purpose, создаёт
// новый (attempts=0) и отправляет его письмом. Ошибка отправки логируется,
// но выдачу не отменяет.
func (s *VerificationService) Issue(account *models.Account, purpose models.VerificationPurpose, meta RequestMeta) error {
	if err := s.records.InvalidateActive(account.ID, purpose); err != nil {
		return err
	}

	code, err := utils.NumericCode(s.cfg.CodeLength)
	if err != nil {
		return err
	}

	now := s.now()
	rec := &models.VerificationRecord{
		AccountID: account.ID,
		Email:     account.Email,
		Purpose:   purpose,
		Code:      code,
		ExpiresAt: now.Add(s.ttl(purpose)),
		RequestIP: meta.IP,
		UserAgent: meta.UserAgent,
	}
	if err := s.records.Create(rec); err != nil {
		return err
	}

	if s.emails != nil {
		var sendErr error
		if purpose == models.PurposePasswordReset {
			sendErr = s.emails.SendPasswordResetCode(account.Email, code, account.FirstName)
		} else {
			sendErr = s.emails.SendVerificationCode(account.Email, code)
		}
		if sendErr != nil {
			log.Printf("[verify][issue] warning: send code email to %s failed: %v", account.Email, sendErr)
		}
	}

	log.Printf("[verify][issue] purpose=%s account_id=%d", purpose, account.ID)
	return nil
}

// Validate проверяет присланный код и при успехе потребляет запись.
// Порядок проверок фиксированный: аккаунт, «уже подтверждён», наличие
// активного кода, срок, лимит попыток, формат+значение.
func (s *VerificationService) Validate(email string, purpose models.VerificationPurpose, submittedCode string) (*models.Account, error) {
	return s.validate(email, purpose, submittedCode, true)
}

// Check — та же валидация, но без потребления записи (для проверки
// кода сброса до фактической смены пароля). Неверный код всё так же
// увеличивает attempts.
func (s *VerificationService) Check(email string, purpose models.VerificationPurpose, submittedCode string) (*models.Account, error) {
	return s.validate(email, purpose, submittedCode, false)
}

func (s *VerificationService) validate(email string, purpose models.VerificationPurpose, submittedCode string, consume bool) (*models.Account, error) {
	account, err := s.accounts.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrNotFound
	}

	// флаг уровня аккаунта есть только у подтверждения e-mail
	if purpose == models.PurposeEmailVerification && account.IsEmailVerified {
		return nil, ErrAlreadyVerified
	}

	rec, err := s.records.GetActive(account.ID, purpose)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNoActiveCode
	}

	// срок — до логики попыток и без инкремента
	if rec.Expired(s.now()) {
		return nil, ErrCodeExpired
	}

	// лимит — до сравнения кода, чтобы после блокировки никакой
	// ответ не зависел от содержимого присланного кода
	if rec.Attempts >= s.cfg.MaxAttempts {
		return nil, ErrTooManyAttempts
	}

	if reason, detail := s.codeMismatch(rec.Code, submittedCode); reason != nil {
		attemptsBefore := rec.Attempts
		if _, incErr := s.records.IncrementAttempts(rec.ID); incErr != nil {
			return nil, incErr
		}
		remaining := s.cfg.MaxAttempts - (attemptsBefore + 1)
		if remaining < 0 {
			remaining = 0
		}
		return nil, &CodeValidationError{Reason: reason, Detail: detail, Remaining: remaining}
	}

	if !consume {
		return account, nil
	}

	if err := s.records.MarkUsed(rec.ID); err != nil {
		return nil, err
	}
	if purpose == models.PurposeEmailVerification {
		if err := s.accounts.SetEmailVerified(account.ID); err != nil {
			return nil, err
		}
		account.IsEmailVerified = true

		if s.emails != nil {
			if err := s.emails.SendWelcome(account.Email, account.FirstName); err != nil {
				log.Printf("[verify][validate] warning: send welcome email to %s failed: %v", account.Email, err)
			}
		}
	}

	log.Printf("[verify][validate] OK purpose=%s account_id=%d", purpose, account.ID)
	return account, nil
}

// codeMismatch различает неверную длину, нецифровой ввод и неверное
// значение. Любой из трёх случаев засчитывается как попытка.
func (s *VerificationService) codeMismatch(stored, submitted string) (reason error, detail string) {
	if len(submitted) != s.cfg.CodeLength {
		return ErrCodeFormat, "wrong length"
	}
	for _, r := range submitted {
		if r < '0' || r > '9' {
			return ErrCodeFormat, "non-numeric"
		}
	}
	if submitted != stored {
		return ErrCodeMismatch, "wrong value"
	}
	return nil, ""
}

// Resend повторно выдаёт код, предварительно перепроверив условие
// «уже подтверждён».
func (s *VerificationService) Resend(email string, purpose models.VerificationPurpose, meta RequestMeta) error {
	account, err := s.accounts.GetByEmail(email)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrNotFound
	}
	if purpose == models.PurposeEmailVerification && account.IsEmailVerified {
		return ErrAlreadyVerified
	}
	return s.Issue(account, purpose, meta)
}
