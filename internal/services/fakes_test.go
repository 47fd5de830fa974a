package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/aybserve/clickenrent-backend-sub004/internal/models"
	"github.com/aybserve/clickenrent-backend-sub004/internal/oauth"
	"github.com/aybserve/clickenrent-backend-sub004/internal/repositories"
)

// --- account repository fake ---

type fakeAccountRepo struct {
	mu       sync.Mutex
	seq      int64
	accounts map[int64]*models.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[int64]*models.Account{}}
}

func (r *fakeAccountRepo) add(a *models.Account) *models.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	a.ID = r.seq
	a.CreatedAt = time.Now()
	r.accounts[a.ID] = a
	return a
}

func (r *fakeAccountRepo) Create(a *models.Account) error {
	r.mu.Lock()
	for _, existing := range r.accounts {
		if existing.Email == a.Email || existing.Username == a.Username {
			r.mu.Unlock()
			return repositories.ErrDuplicate
		}
		if a.Provider != nil && existing.Provider != nil &&
			*existing.Provider == *a.Provider && *existing.ProviderID == *a.ProviderID {
			r.mu.Unlock()
			return repositories.ErrDuplicate
		}
	}
	r.mu.Unlock()
	r.add(a)
	return nil
}

func (r *fakeAccountRepo) GetByID(id int64) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok || a.IsDeleted {
		return nil, nil
	}
	return a, nil
}

func (r *fakeAccountRepo) GetByEmail(email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email && !a.IsDeleted {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) GetByUsername(username string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Username == username && !a.IsDeleted {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) GetByProvider(provider, providerID string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Provider != nil && *a.Provider == provider &&
			a.ProviderID != nil && *a.ProviderID == providerID && !a.IsDeleted {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) BindProvider(accountID int64, provider, providerID string, avatarURL *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[accountID]
	if !ok {
		return errors.New("no such account")
	}
	a.Provider = &provider
	a.ProviderID = &providerID
	a.IsEmailVerified = true
	if a.AvatarURL == nil {
		a.AvatarURL = avatarURL
	}
	return nil
}

func (r *fakeAccountRepo) SetEmailVerified(accountID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[accountID]; ok {
		a.IsEmailVerified = true
	}
	return nil
}

func (r *fakeAccountRepo) UpdatePassword(accountID int64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[accountID]; ok {
		a.PasswordHash = &passwordHash
	}
	return nil
}

func (r *fakeAccountRepo) Deactivate(accountID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[accountID]; ok {
		a.IsActive = false
		a.IsDeleted = true
	}
	return nil
}

func (r *fakeAccountRepo) ListByCompany(companyIDs []int64, limit, offset int) ([]*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := map[int64]struct{}{}
	for _, id := range companyIDs {
		want[id] = struct{}{}
	}
	var out []*models.Account
	for _, a := range r.accounts {
		if a.IsDeleted {
			continue
		}
		for _, id := range a.CompanyIDs {
			if _, ok := want[id]; ok {
				out = append(out, a)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- verification repository fake ---

type fakeVerificationRepo struct {
	mu             sync.Mutex
	seq            int64
	records        map[int64]*models.VerificationRecord
	incrementCalls int
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{records: map[int64]*models.VerificationRecord{}}
}

func (r *fakeVerificationRepo) Create(rec *models.VerificationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	rec.ID = r.seq
	rec.CreatedAt = time.Now()
	cp := *rec
	r.records[rec.ID] = &cp
	return nil
}

func (r *fakeVerificationRepo) GetActive(accountID int64, purpose models.VerificationPurpose) (*models.VerificationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.VerificationRecord
	for _, rec := range r.records {
		if rec.AccountID != accountID || rec.Purpose != purpose || !rec.Active() {
			continue
		}
		if latest == nil || rec.ID > latest.ID {
			latest = rec
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeVerificationRepo) InvalidateActive(accountID int64, purpose models.VerificationPurpose) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.AccountID == accountID && rec.Purpose == purpose && rec.Active() {
			rec.Invalidated = true
		}
	}
	return nil
}

// IncrementAttempts мутирует хранимую запись напрямую: как и autocommit
// UPDATE в настоящем репозитории, результат остаётся видимым независимо
// от того, чем закончится внешний вызов.
func (r *fakeVerificationRepo) IncrementAttempts(id int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.incrementCalls++
	rec, ok := r.records[id]
	if !ok {
		return 0, errors.New("no such record")
	}
	rec.Attempts++
	return rec.Attempts, nil
}

func (r *fakeVerificationRepo) MarkUsed(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return errors.New("no such record")
	}
	rec.Used = true
	now := time.Now()
	rec.UsedAt = &now
	return nil
}

func (r *fakeVerificationRepo) get(id int64) *models.VerificationRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[id]
}

// --- email fake ---

type sentEmail struct {
	Kind string
	To   string
	Code string
	Name string
}

type fakeEmailService struct {
	mu   sync.Mutex
	sent []sentEmail
	fail bool
}

func (f *fakeEmailService) record(e sentEmail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, e)
	return nil
}

func (f *fakeEmailService) SendVerificationCode(email, code string) error {
	return f.record(sentEmail{Kind: "verification", To: email, Code: code})
}

func (f *fakeEmailService) SendWelcome(email, name string) error {
	return f.record(sentEmail{Kind: "welcome", To: email, Name: name})
}

func (f *fakeEmailService) SendPasswordResetCode(email, code, name string) error {
	return f.record(sentEmail{Kind: "reset", To: email, Code: code, Name: name})
}

func (f *fakeEmailService) SendPasswordChangedConfirmation(email, name string) error {
	return f.record(sentEmail{Kind: "changed", To: email, Name: name})
}

func (f *fakeEmailService) byKind(kind string) []sentEmail {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentEmail
	for _, e := range f.sent {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// --- oauth provider fake ---

type fakeProvider struct {
	name        string
	exchangeErr error
	fetchErr    error
	info        *oauth.UserInfo
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) ExchangeCode(_ context.Context, code, redirectURI string) (*oauth.TokenResponse, error) {
	if p.exchangeErr != nil {
		return nil, p.exchangeErr
	}
	return &oauth.TokenResponse{AccessToken: "provider-access-token"}, nil
}

func (p *fakeProvider) FetchUserInfo(_ context.Context, accessToken string) (*oauth.UserInfo, error) {
	if p.fetchErr != nil {
		return nil, p.fetchErr
	}
	return p.info, nil
}
