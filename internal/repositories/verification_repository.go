package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/aybserve/clickenrent-backend-sub004/internal/models"
)

type VerificationRepository interface {
	Create(rec *models.VerificationRecord) error
	GetActive(accountID int64, purpose models.VerificationPurpose) (*models.VerificationRecord, error)
	InvalidateActive(accountID int64, purpose models.VerificationPurpose) error
	IncrementAttempts(id int64) (int, error)
	MarkUsed(id int64) error
}

type verificationRepository struct {
	DB *sql.DB
}

func NewVerificationRepository(db *sql.DB) VerificationRepository {
	return &verificationRepository{DB: db}
}

// Create — новая выдача кода (каждая отправка — новая строка, attempts=0).
func (r *verificationRepository) Create(rec *models.VerificationRecord) error {
	const q = `
		INSERT INTO verification_records (
			account_id, email, purpose, code,
			expires_at, attempts, used, invalidated,
			request_ip, user_agent
		)
		VALUES ($1,$2,$3,$4,$5,0,FALSE,FALSE,$6,$7)
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(q,
		rec.AccountID,
		rec.Email,
		rec.Purpose,
		rec.Code,
		rec.ExpiresAt,
		rec.RequestIP,
		rec.UserAgent,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("verification create: %w", err)
	}
	return nil
}

// GetActive — последняя не использованная и не вытесненная запись.
// Просроченность не фильтруем: её различает сервис (CodeExpired vs NoActiveCode).
func (r *verificationRepository) GetActive(accountID int64, purpose models.VerificationPurpose) (*models.VerificationRecord, error) {
	const q = `
		SELECT id, account_id, email, purpose, code,
		       created_at, expires_at, attempts, used, used_at, invalidated,
		       request_ip, user_agent
		FROM verification_records
		WHERE account_id = $1 AND purpose = $2 AND NOT used AND NOT invalidated
		ORDER BY created_at DESC
		LIMIT 1
	`
	rec := &models.VerificationRecord{}
	var usedAt sql.NullTime
	err := r.DB.QueryRow(q, accountID, purpose).Scan(
		&rec.ID, &rec.AccountID, &rec.Email, &rec.Purpose, &rec.Code,
		&rec.CreatedAt, &rec.ExpiresAt, &rec.Attempts, &rec.Used, &usedAt, &rec.Invalidated,
		&rec.RequestIP, &rec.UserAgent,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("verification get active: %w", err)
	}
	if usedAt.Valid {
		t := usedAt.Time
		rec.UsedAt = &t
	}
	return rec, nil
}

// InvalidateActive вытесняет все активные записи пары account+purpose
// (перед повторной выдачей).
func (r *verificationRepository) InvalidateActive(accountID int64, purpose models.VerificationPurpose) error {
	const q = `
		UPDATE verification_records
		SET invalidated = TRUE
		WHERE account_id = $1 AND purpose = $2 AND NOT used AND NOT invalidated
	`
	if _, err := r.DB.Exec(q, accountID, purpose); err != nil {
		return fmt.Errorf("verification invalidate active: %w", err)
	}
	return nil
}

// IncrementAttempts — +1 попытка, возвращает новое значение attempts.
// Один autocommit UPDATE на общем *sql.DB, вне транзакции вызывающего:
// инкремент фиксируется независимо от исхода внешней валидации.
func (r *verificationRepository) IncrementAttempts(id int64) (int, error) {
	const q = `
		UPDATE verification_records
		SET attempts = attempts + 1
		WHERE id = $1
		RETURNING attempts
	`
	var attempts int
	if err := r.DB.QueryRow(q, id).Scan(&attempts); err != nil {
		return 0, fmt.Errorf("verification increment attempts: %w", err)
	}
	return attempts, nil
}

func (r *verificationRepository) MarkUsed(id int64) error {
	const q = `UPDATE verification_records SET used = TRUE, used_at = NOW() WHERE id = $1`
	if _, err := r.DB.Exec(q, id); err != nil {
		return fmt.Errorf("verification mark used: %w", err)
	}
	return nil
}
