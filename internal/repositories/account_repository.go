package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/aybserve/clickenrent-backend-sub004/internal/models"
)

// ErrDuplicate — нарушение уникальности (email / username / provider pair).
var ErrDuplicate = errors.New("duplicate resource")

type AccountRepository interface {
	Create(a *models.Account) error
	GetByID(id int64) (*models.Account, error)
	GetByEmail(email string) (*models.Account, error)
	GetByUsername(username string) (*models.Account, error)
	GetByProvider(provider, providerID string) (*models.Account, error)

	// provider binding + verification flags
	BindProvider(accountID int64, provider, providerID string, avatarURL *string) error
	SetEmailVerified(accountID int64) error
	UpdatePassword(accountID int64, passwordHash string) error
	Deactivate(accountID int64) error

	// ListByCompany — листинг строго по явному набору company id вызывающего.
	// Предикат передаётся параметром, никакой неявной фильтрации по контексту.
	ListByCompany(companyIDs []int64, limit, offset int) ([]*models.Account, error)
}

type accountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{DB: db}
}

const accountColumns = `
	id, public_id, username, email, password_hash,
	is_email_verified, is_active, is_deleted,
	provider, provider_id, first_name, last_name, avatar_url,
	roles, company_ids, created_at
`

func (r *accountRepository) Create(a *models.Account) error {
	const q = `
		INSERT INTO accounts (
			public_id, username, email, password_hash,
			is_email_verified, is_active, is_deleted,
			provider, provider_id, first_name, last_name, avatar_url,
			roles, company_ids
		)
		VALUES ($1,$2,$3,$4,$5,$6,FALSE,$7,$8,$9,$10,$11,$12,$13)
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(q,
		a.PublicID,
		a.Username,
		a.Email,
		a.PasswordHash,
		a.IsEmailVerified,
		a.IsActive,
		a.Provider,
		a.ProviderID,
		a.FirstName,
		a.LastName,
		a.AvatarURL,
		pq.Array(a.Roles),
		pq.Array(a.CompanyIDs),
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("account create: %w", err)
	}
	return nil
}

func (r *accountRepository) scanOne(row *sql.Row) (*models.Account, error) {
	a := &models.Account{}
	var (
		passwordHash sql.NullString
		provider     sql.NullString
		providerID   sql.NullString
		avatarURL    sql.NullString
	)
	err := row.Scan(
		&a.ID, &a.PublicID, &a.Username, &a.Email, &passwordHash,
		&a.IsEmailVerified, &a.IsActive, &a.IsDeleted,
		&provider, &providerID, &a.FirstName, &a.LastName, &avatarURL,
		pq.Array(&a.Roles), pq.Array(&a.CompanyIDs), &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("account scan: %w", err)
	}
	if passwordHash.Valid {
		s := passwordHash.String
		a.PasswordHash = &s
	}
	if provider.Valid {
		s := provider.String
		a.Provider = &s
	}
	if providerID.Valid {
		s := providerID.String
		a.ProviderID = &s
	}
	if avatarURL.Valid {
		s := avatarURL.String
		a.AvatarURL = &s
	}
	return a, nil
}

func (r *accountRepository) GetByID(id int64) (*models.Account, error) {
	q := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND NOT is_deleted`
	return r.scanOne(r.DB.QueryRow(q, id))
}

func (r *accountRepository) GetByEmail(email string) (*models.Account, error) {
	q := `SELECT ` + accountColumns + ` FROM accounts WHERE LOWER(email) = LOWER($1) AND NOT is_deleted`
	return r.scanOne(r.DB.QueryRow(q, email))
}

func (r *accountRepository) GetByUsername(username string) (*models.Account, error) {
	q := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1 AND NOT is_deleted`
	return r.scanOne(r.DB.QueryRow(q, username))
}

func (r *accountRepository) GetByProvider(provider, providerID string) (*models.Account, error) {
	q := `SELECT ` + accountColumns + ` FROM accounts WHERE provider = $1 AND provider_id = $2 AND NOT is_deleted`
	return r.scanOne(r.DB.QueryRow(q, provider, providerID))
}

// BindProvider привязывает внешнюю идентичность к существующему аккаунту.
// Подтверждает e-mail и дозаполняет аватар, только если он не был задан.
func (r *accountRepository) BindProvider(accountID int64, provider, providerID string, avatarURL *string) error {
	const q = `
		UPDATE accounts
		SET provider = $2,
		    provider_id = $3,
		    is_email_verified = TRUE,
		    avatar_url = COALESCE(avatar_url, $4)
		WHERE id = $1
	`
	res, err := r.DB.Exec(q, accountID, provider, providerID, avatarURL)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("account bind provider: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *accountRepository) SetEmailVerified(accountID int64) error {
	_, err := r.DB.Exec(`UPDATE accounts SET is_email_verified = TRUE WHERE id = $1`, accountID)
	return err
}

func (r *accountRepository) UpdatePassword(accountID int64, passwordHash string) error {
	_, err := r.DB.Exec(`UPDATE accounts SET password_hash = $2 WHERE id = $1`, accountID, passwordHash)
	return err
}

func (r *accountRepository) Deactivate(accountID int64) error {
	_, err := r.DB.Exec(`UPDATE accounts SET is_active = FALSE, is_deleted = TRUE WHERE id = $1`, accountID)
	return err
}

func (r *accountRepository) ListByCompany(companyIDs []int64, limit, offset int) ([]*models.Account, error) {
	const q = `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE NOT is_deleted AND company_ids && $1
		ORDER BY id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.Query(q, pq.Array(companyIDs), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("account list by company: %w", err)
	}
	defer rows.Close()

	var out []*models.Account
	for rows.Next() {
		a := &models.Account{}
		var (
			passwordHash sql.NullString
			provider     sql.NullString
			providerID   sql.NullString
			avatarURL    sql.NullString
		)
		err := rows.Scan(
			&a.ID, &a.PublicID, &a.Username, &a.Email, &passwordHash,
			&a.IsEmailVerified, &a.IsActive, &a.IsDeleted,
			&provider, &providerID, &a.FirstName, &a.LastName, &avatarURL,
			pq.Array(&a.Roles), pq.Array(&a.CompanyIDs), &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("account list scan: %w", err)
		}
		if passwordHash.Valid {
			s := passwordHash.String
			a.PasswordHash = &s
		}
		if provider.Valid {
			s := provider.String
			a.Provider = &s
		}
		if providerID.Valid {
			s := providerID.String
			a.ProviderID = &s
		}
		if avatarURL.Valid {
			s := avatarURL.String
			a.AvatarURL = &s
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
