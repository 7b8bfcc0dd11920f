package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"regportal/internal/models"
)

// MemoryStorage is a thread-safe in-memory implementation of the Storage
// interface, used for tests and zero-dependency development. Data does not
// survive a restart.
type MemoryStorage struct {
	mu sync.RWMutex

	usersByID    map[string]*models.User
	usersByEmail map[string]*models.User
	tokens       map[string]*models.VerificationToken // keyed by token string
	sessions     map[string]*models.Session           // keyed by token hash
	companies    map[string]*models.Company
}

// NewMemoryStorage creates an empty in-memory storage instance.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		usersByID:    make(map[string]*models.User),
		usersByEmail: make(map[string]*models.User),
		tokens:       make(map[string]*models.VerificationToken),
		sessions:     make(map[string]*models.Session),
		companies:    make(map[string]*models.Company),
	}
}

// CreateUser stores a new user, enforcing email uniqueness.
func (ms *MemoryStorage) CreateUser(ctx context.Context, user *models.User) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.usersByEmail[user.Email]; exists {
		return ErrDuplicate
	}
	if _, exists := ms.usersByID[user.ID]; exists {
		return ErrDuplicate
	}

	stored := *user
	ms.usersByID[user.ID] = &stored
	ms.usersByEmail[user.Email] = &stored
	return nil
}

// GetUserByEmail retrieves a user by lowercased email address.
func (ms *MemoryStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	user, exists := ms.usersByEmail[email]
	if !exists {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

// GetUserByID retrieves a user by ID.
func (ms *MemoryStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	user, exists := ms.usersByID[id]
	if !exists {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

// UpdateUser persists changes to an existing user.
func (ms *MemoryStorage) UpdateUser(ctx context.Context, user *models.User) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	existing, exists := ms.usersByID[user.ID]
	if !exists {
		return ErrNotFound
	}

	// Email changes must keep the lookup index consistent.
	if existing.Email != user.Email {
		if _, taken := ms.usersByEmail[user.Email]; taken {
			return ErrDuplicate
		}
		delete(ms.usersByEmail, existing.Email)
	}

	stored := *user
	ms.usersByID[user.ID] = &stored
	ms.usersByEmail[user.Email] = &stored
	return nil
}

// CreateVerificationToken stores a new credential token.
func (ms *MemoryStorage) CreateVerificationToken(ctx context.Context, token *models.VerificationToken) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.tokens[token.Token]; exists {
		return ErrDuplicate
	}
	stored := *token
	ms.tokens[token.Token] = &stored
	return nil
}

// GetVerificationToken retrieves a token record by its exact token string.
func (ms *MemoryStorage) GetVerificationToken(ctx context.Context, token string) (*models.VerificationToken, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	record, exists := ms.tokens[token]
	if !exists {
		return nil, ErrNotFound
	}
	copied := *record
	return &copied, nil
}

// DeleteVerificationToken removes a single token record.
func (ms *MemoryStorage) DeleteVerificationToken(ctx context.Context, token string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.tokens[token]; !exists {
		return ErrNotFound
	}
	delete(ms.tokens, token)
	return nil
}

// DeleteVerificationTokens removes all tokens of a type for an identifier.
func (ms *MemoryStorage) DeleteVerificationTokens(ctx context.Context, identifier string, typ models.TokenType) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var deleted int64
	for key, record := range ms.tokens {
		if record.Identifier == identifier && record.Type == typ {
			delete(ms.tokens, key)
			deleted++
		}
	}
	return deleted, nil
}

// DeleteExpiredVerificationTokens removes all tokens expired before now.
func (ms *MemoryStorage) DeleteExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var deleted int64
	for key, record := range ms.tokens {
		if record.Expires.Before(now) {
			delete(ms.tokens, key)
			deleted++
		}
	}
	return deleted, nil
}

// FindToken returns the live token for an identifier and type. The portal
// enforces at most one such token; this accessor exists for tests that need
// to read an issued token without intercepting email.
func (ms *MemoryStorage) FindToken(ctx context.Context, identifier string, typ models.TokenType) (*models.VerificationToken, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	for _, record := range ms.tokens {
		if record.Identifier == identifier && record.Type == typ {
			copied := *record
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

// CreateSession stores a new session.
func (ms *MemoryStorage) CreateSession(ctx context.Context, session *models.Session) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.sessions[session.TokenHash]; exists {
		return ErrDuplicate
	}
	stored := *session
	ms.sessions[session.TokenHash] = &stored
	return nil
}

// GetSession retrieves a session by its token hash.
func (ms *MemoryStorage) GetSession(ctx context.Context, tokenHash string) (*models.Session, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	session, exists := ms.sessions[tokenHash]
	if !exists {
		return nil, ErrNotFound
	}
	copied := *session
	return &copied, nil
}

// DeleteSession removes a session by its token hash.
func (ms *MemoryStorage) DeleteSession(ctx context.Context, tokenHash string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.sessions[tokenHash]; !exists {
		return ErrNotFound
	}
	delete(ms.sessions, tokenHash)
	return nil
}

// DeleteExpiredSessions removes all sessions expired before now.
func (ms *MemoryStorage) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var deleted int64
	for key, session := range ms.sessions {
		if session.Expires.Before(now) {
			delete(ms.sessions, key)
			deleted++
		}
	}
	return deleted, nil
}

// SearchCompanies scans the normalized columns for substring matches and
// returns up to limit companies ordered by name for stable results.
func (ms *MemoryStorage) SearchCompanies(ctx context.Context, normalizedTerm string, limit int) ([]*models.Company, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var matches []*models.Company
	for _, company := range ms.companies {
		if company.MatchesSearch(normalizedTerm) {
			copied := copyCompany(company)
			matches = append(matches, copied)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Name < matches[j].Name
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// GetCompany retrieves a company with all related records.
func (ms *MemoryStorage) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	company, exists := ms.companies[id]
	if !exists {
		return nil, ErrNotFound
	}
	return copyCompany(company), nil
}

// GetCompaniesByIDs retrieves the companies whose IDs are in ids.
func (ms *MemoryStorage) GetCompaniesByIDs(ctx context.Context, ids []string) ([]*models.Company, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	companies := make([]*models.Company, 0, len(ids))
	for _, id := range ids {
		if company, exists := ms.companies[id]; exists {
			companies = append(companies, copyCompany(company))
		}
	}
	return companies, nil
}

// SaveCompany stores or updates a company and recomputes normalized columns.
func (ms *MemoryStorage) SaveCompany(ctx context.Context, company *models.Company) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	stored := copyCompany(company)
	stored.ComputeNormalized()
	ms.companies[company.ID] = stored
	return nil
}

// Ping always succeeds for memory storage.
func (ms *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for memory storage.
func (ms *MemoryStorage) Close() error {
	return nil
}

// copyCompany deep-copies a company so callers cannot mutate stored state.
func copyCompany(c *models.Company) *models.Company {
	copied := *c
	copied.Owners = append([]models.Owner(nil), c.Owners...)
	copied.BoardMembers = append([]models.BoardMember(nil), c.BoardMembers...)
	copied.BeneficialOwners = append([]models.BeneficialOwner(nil), c.BeneficialOwners...)
	copied.TaxPayments = append([]models.TaxPayment(nil), c.TaxPayments...)
	copied.FinancialRatios = append([]models.FinancialRatio(nil), c.FinancialRatios...)
	return &copied
}
