package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"regportal/internal/models"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint
// violations, used to map insert races onto ErrDuplicate.
const pgUniqueViolation = "23505"

const pgSchema = `
CREATE TABLE IF NOT EXISTS users (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	email          TEXT NOT NULL UNIQUE,
	password_hash  TEXT NOT NULL,
	email_verified TIMESTAMPTZ,
	locale         TEXT NOT NULL DEFAULT 'lv',
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS verification_tokens (
	identifier TEXT NOT NULL,
	token      TEXT NOT NULL UNIQUE,
	type       TEXT NOT NULL,
	expires    TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (identifier, token)
);

CREATE TABLE IF NOT EXISTS sessions (
	token_hash TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	expires    TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS companies (
	id                  TEXT PRIMARY KEY,
	name                TEXT NOT NULL,
	registration_number TEXT NOT NULL,
	tax_number          TEXT NOT NULL,
	address             TEXT NOT NULL DEFAULT '',
	founded             TIMESTAMPTZ,
	normalized_name     TEXT NOT NULL,
	normalized_reg_num  TEXT NOT NULL,
	normalized_tax_num  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_companies_normalized_name ON companies(normalized_name);
CREATE INDEX IF NOT EXISTS idx_companies_normalized_reg ON companies(normalized_reg_num);

CREATE TABLE IF NOT EXISTS company_owners (
	company_id       TEXT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
	name             TEXT NOT NULL,
	share_percentage DOUBLE PRECISION NOT NULL,
	is_historical    BOOLEAN NOT NULL DEFAULT FALSE,
	normalized_name  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_owners_normalized_name ON company_owners(normalized_name);

CREATE TABLE IF NOT EXISTS company_board_members (
	company_id     TEXT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
	name           TEXT NOT NULL,
	role           TEXT NOT NULL,
	appointed_date TIMESTAMPTZ,
	is_historical  BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS company_beneficial_owners (
	company_id TEXT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
	name       TEXT NOT NULL,
	date_from  TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS company_tax_payments (
	company_id TEXT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
	year       INT NOT NULL,
	amount     DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS company_financial_ratios (
	company_id TEXT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
	year       INT NOT NULL,
	turnover   DOUBLE PRECISION NOT NULL,
	profit     DOUBLE PRECISION NOT NULL,
	liquidity  DOUBLE PRECISION NOT NULL,
	employees  INT NOT NULL
);
`

// PostgresStorage implements the Storage interface using PostgreSQL.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage creates a new PostgreSQL storage instance and ensures
// the schema exists.
func NewPostgresStorage(config Config) (Storage, error) {
	if config.ConnectionString == "" {
		return nil, fmt.Errorf("connection string is required for PostgreSQL storage")
	}

	poolConfig, err := pgxpool.ParseConfig(config.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if config.MaxOpenConns > 0 {
		poolConfig.MaxConns = int32(config.MaxOpenConns)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(context.Background(), pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &PostgresStorage{pool: pool}, nil
}

func isPgDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// CreateUser stores a new user, mapping unique email violations to ErrDuplicate.
func (ps *PostgresStorage) CreateUser(ctx context.Context, user *models.User) error {
	_, err := ps.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, email_verified, locale, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.EmailVerified, user.Locale, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isPgDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (ps *PostgresStorage) scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.EmailVerified, &user.Locale, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by lowercased email address.
func (ps *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := ps.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, email_verified, locale, created_at, updated_at
		 FROM users WHERE email = $1`, email)
	return ps.scanUser(row)
}

// GetUserByID retrieves a user by ID.
func (ps *PostgresStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	row := ps.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, email_verified, locale, created_at, updated_at
		 FROM users WHERE id = $1`, id)
	return ps.scanUser(row)
}

// UpdateUser persists changes to an existing user.
func (ps *PostgresStorage) UpdateUser(ctx context.Context, user *models.User) error {
	tag, err := ps.pool.Exec(ctx,
		`UPDATE users SET name = $2, email = $3, password_hash = $4, email_verified = $5,
		 locale = $6, updated_at = $7 WHERE id = $1`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.EmailVerified, user.Locale, user.UpdatedAt)
	if err != nil {
		if isPgDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateVerificationToken stores a new credential token.
func (ps *PostgresStorage) CreateVerificationToken(ctx context.Context, token *models.VerificationToken) error {
	_, err := ps.pool.Exec(ctx,
		`INSERT INTO verification_tokens (identifier, token, type, expires)
		 VALUES ($1, $2, $3, $4)`,
		token.Identifier, token.Token, string(token.Type), token.Expires)
	if err != nil {
		if isPgDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create verification token: %w", err)
	}
	return nil
}

// GetVerificationToken retrieves a token record by its exact token string.
func (ps *PostgresStorage) GetVerificationToken(ctx context.Context, token string) (*models.VerificationToken, error) {
	var record models.VerificationToken
	var typ string
	err := ps.pool.QueryRow(ctx,
		`SELECT identifier, token, type, expires FROM verification_tokens WHERE token = $1`, token).
		Scan(&record.Identifier, &record.Token, &typ, &record.Expires)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get verification token: %w", err)
	}
	record.Type = models.TokenType(typ)
	return &record, nil
}

// DeleteVerificationToken removes a single token record.
func (ps *PostgresStorage) DeleteVerificationToken(ctx context.Context, token string) error {
	tag, err := ps.pool.Exec(ctx, `DELETE FROM verification_tokens WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("failed to delete verification token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteVerificationTokens removes all tokens of a type for an identifier.
func (ps *PostgresStorage) DeleteVerificationTokens(ctx context.Context, identifier string, typ models.TokenType) (int64, error) {
	tag, err := ps.pool.Exec(ctx,
		`DELETE FROM verification_tokens WHERE identifier = $1 AND type = $2`,
		identifier, string(typ))
	if err != nil {
		return 0, fmt.Errorf("failed to delete verification tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteExpiredVerificationTokens removes all tokens expired before now.
func (ps *PostgresStorage) DeleteExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error) {
	tag, err := ps.pool.Exec(ctx, `DELETE FROM verification_tokens WHERE expires < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired verification tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CreateSession stores a new session.
func (ps *PostgresStorage) CreateSession(ctx context.Context, session *models.Session) error {
	_, err := ps.pool.Exec(ctx,
		`INSERT INTO sessions (token_hash, user_id, expires, created_at) VALUES ($1, $2, $3, $4)`,
		session.TokenHash, session.UserID, session.Expires, session.CreatedAt)
	if err != nil {
		if isPgDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by its token hash.
func (ps *PostgresStorage) GetSession(ctx context.Context, tokenHash string) (*models.Session, error) {
	var session models.Session
	err := ps.pool.QueryRow(ctx,
		`SELECT token_hash, user_id, expires, created_at FROM sessions WHERE token_hash = $1`, tokenHash).
		Scan(&session.TokenHash, &session.UserID, &session.Expires, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// DeleteSession removes a session by its token hash.
func (ps *PostgresStorage) DeleteSession(ctx context.Context, tokenHash string) error {
	tag, err := ps.pool.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpiredSessions removes all sessions expired before now.
func (ps *PostgresStorage) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	tag, err := ps.pool.Exec(ctx, `DELETE FROM sessions WHERE expires < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SearchCompanies matches the normalized term against company name,
// registration number, tax number and current owner names.
func (ps *PostgresStorage) SearchCompanies(ctx context.Context, normalizedTerm string, limit int) ([]*models.Company, error) {
	pattern := "%" + escapeLike(normalizedTerm) + "%"
	rows, err := ps.pool.Query(ctx,
		`SELECT DISTINCT c.id, c.name
		 FROM companies c
		 LEFT JOIN company_owners o ON o.company_id = c.id AND o.is_historical = FALSE
		 WHERE c.normalized_name LIKE $1 ESCAPE '\'
		    OR c.normalized_reg_num LIKE $1 ESCAPE '\'
		    OR c.normalized_tax_num LIKE $1 ESCAPE '\'
		    OR o.normalized_name LIKE $1 ESCAPE '\'
		 ORDER BY c.name
		 LIMIT $2`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search companies: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read search results: %w", err)
	}

	return ps.GetCompaniesByIDs(ctx, ids)
}

// GetCompany retrieves a company with all related records.
func (ps *PostgresStorage) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	companies, err := ps.GetCompaniesByIDs(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return nil, ErrNotFound
	}
	return companies[0], nil
}

// GetCompaniesByIDs retrieves the companies whose IDs are in ids, with all
// related records. Missing IDs are skipped.
func (ps *PostgresStorage) GetCompaniesByIDs(ctx context.Context, ids []string) ([]*models.Company, error) {
	if len(ids) == 0 {
		return []*models.Company{}, nil
	}

	rows, err := ps.pool.Query(ctx,
		`SELECT id, name, registration_number, tax_number, address, founded,
		        normalized_name, normalized_reg_num, normalized_tax_num
		 FROM companies WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get companies: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*models.Company)
	for rows.Next() {
		var c models.Company
		var founded *time.Time
		if err := rows.Scan(&c.ID, &c.Name, &c.RegistrationNumber, &c.TaxNumber, &c.Address,
			&founded, &c.NormalizedName, &c.NormalizedRegNum, &c.NormalizedTaxNum); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		if founded != nil {
			c.Founded = *founded
		}
		byID[c.ID] = &c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read companies: %w", err)
	}

	if err := ps.loadCompanyRelations(ctx, byID); err != nil {
		return nil, err
	}

	// Preserve the requested order, skipping missing IDs.
	companies := make([]*models.Company, 0, len(byID))
	for _, id := range ids {
		if c, exists := byID[id]; exists {
			companies = append(companies, c)
		}
	}
	return companies, nil
}

func (ps *PostgresStorage) loadCompanyRelations(ctx context.Context, byID map[string]*models.Company) error {
	if len(byID) == 0 {
		return nil
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	ownerRows, err := ps.pool.Query(ctx,
		`SELECT company_id, name, share_percentage, is_historical, normalized_name
		 FROM company_owners WHERE company_id = ANY($1)
		 ORDER BY share_percentage DESC`, ids)
	if err != nil {
		return fmt.Errorf("failed to get owners: %w", err)
	}
	defer ownerRows.Close()
	for ownerRows.Next() {
		var companyID string
		var o models.Owner
		if err := ownerRows.Scan(&companyID, &o.Name, &o.SharePercentage, &o.IsHistorical, &o.NormalizedName); err != nil {
			return fmt.Errorf("failed to scan owner: %w", err)
		}
		byID[companyID].Owners = append(byID[companyID].Owners, o)
	}
	if err := ownerRows.Err(); err != nil {
		return fmt.Errorf("failed to read owners: %w", err)
	}

	boardRows, err := ps.pool.Query(ctx,
		`SELECT company_id, name, role, appointed_date, is_historical
		 FROM company_board_members WHERE company_id = ANY($1)
		 ORDER BY appointed_date DESC`, ids)
	if err != nil {
		return fmt.Errorf("failed to get board members: %w", err)
	}
	defer boardRows.Close()
	for boardRows.Next() {
		var companyID string
		var m models.BoardMember
		var appointed *time.Time
		if err := boardRows.Scan(&companyID, &m.Name, &m.Role, &appointed, &m.IsHistorical); err != nil {
			return fmt.Errorf("failed to scan board member: %w", err)
		}
		if appointed != nil {
			m.AppointedDate = *appointed
		}
		byID[companyID].BoardMembers = append(byID[companyID].BoardMembers, m)
	}
	if err := boardRows.Err(); err != nil {
		return fmt.Errorf("failed to read board members: %w", err)
	}

	boRows, err := ps.pool.Query(ctx,
		`SELECT company_id, name, date_from
		 FROM company_beneficial_owners WHERE company_id = ANY($1)
		 ORDER BY date_from DESC`, ids)
	if err != nil {
		return fmt.Errorf("failed to get beneficial owners: %w", err)
	}
	defer boRows.Close()
	for boRows.Next() {
		var companyID string
		var bo models.BeneficialOwner
		var dateFrom *time.Time
		if err := boRows.Scan(&companyID, &bo.Name, &dateFrom); err != nil {
			return fmt.Errorf("failed to scan beneficial owner: %w", err)
		}
		if dateFrom != nil {
			bo.DateFrom = *dateFrom
		}
		byID[companyID].BeneficialOwners = append(byID[companyID].BeneficialOwners, bo)
	}
	if err := boRows.Err(); err != nil {
		return fmt.Errorf("failed to read beneficial owners: %w", err)
	}

	taxRows, err := ps.pool.Query(ctx,
		`SELECT company_id, year, amount
		 FROM company_tax_payments WHERE company_id = ANY($1) ORDER BY year DESC`, ids)
	if err != nil {
		return fmt.Errorf("failed to get tax payments: %w", err)
	}
	defer taxRows.Close()
	for taxRows.Next() {
		var companyID string
		var tp models.TaxPayment
		if err := taxRows.Scan(&companyID, &tp.Year, &tp.Amount); err != nil {
			return fmt.Errorf("failed to scan tax payment: %w", err)
		}
		byID[companyID].TaxPayments = append(byID[companyID].TaxPayments, tp)
	}
	if err := taxRows.Err(); err != nil {
		return fmt.Errorf("failed to read tax payments: %w", err)
	}

	ratioRows, err := ps.pool.Query(ctx,
		`SELECT company_id, year, turnover, profit, liquidity, employees
		 FROM company_financial_ratios WHERE company_id = ANY($1) ORDER BY year DESC`, ids)
	if err != nil {
		return fmt.Errorf("failed to get financial ratios: %w", err)
	}
	defer ratioRows.Close()
	for ratioRows.Next() {
		var companyID string
		var fr models.FinancialRatio
		if err := ratioRows.Scan(&companyID, &fr.Year, &fr.Turnover, &fr.Profit, &fr.Liquidity, &fr.Employees); err != nil {
			return fmt.Errorf("failed to scan financial ratio: %w", err)
		}
		byID[companyID].FinancialRatios = append(byID[companyID].FinancialRatios, fr)
	}
	if err := ratioRows.Err(); err != nil {
		return fmt.Errorf("failed to read financial ratios: %w", err)
	}

	return nil
}

// SaveCompany stores or updates a company and its related records inside a
// transaction, recomputing the normalized search columns first.
func (ps *PostgresStorage) SaveCompany(ctx context.Context, company *models.Company) error {
	company.ComputeNormalized()

	tx, err := ps.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var founded *time.Time
	if !company.Founded.IsZero() {
		founded = &company.Founded
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO companies (id, name, registration_number, tax_number, address, founded,
		                        normalized_name, normalized_reg_num, normalized_tax_num)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name,
		   registration_number = EXCLUDED.registration_number,
		   tax_number = EXCLUDED.tax_number,
		   address = EXCLUDED.address,
		   founded = EXCLUDED.founded,
		   normalized_name = EXCLUDED.normalized_name,
		   normalized_reg_num = EXCLUDED.normalized_reg_num,
		   normalized_tax_num = EXCLUDED.normalized_tax_num`,
		company.ID, company.Name, company.RegistrationNumber, company.TaxNumber, company.Address,
		founded, company.NormalizedName, company.NormalizedRegNum, company.NormalizedTaxNum)
	if err != nil {
		return fmt.Errorf("failed to upsert company: %w", err)
	}

	// Related records are replaced wholesale on each save.
	for _, table := range []string{
		"company_owners", "company_board_members", "company_beneficial_owners",
		"company_tax_payments", "company_financial_ratios",
	} {
		if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE company_id = $1`, table), company.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, o := range company.Owners {
		if _, err := tx.Exec(ctx,
			`INSERT INTO company_owners (company_id, name, share_percentage, is_historical, normalized_name)
			 VALUES ($1, $2, $3, $4, $5)`,
			company.ID, o.Name, o.SharePercentage, o.IsHistorical, o.NormalizedName); err != nil {
			return fmt.Errorf("failed to insert owner: %w", err)
		}
	}
	for _, m := range company.BoardMembers {
		var appointed *time.Time
		if !m.AppointedDate.IsZero() {
			appointed = &m.AppointedDate
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO company_board_members (company_id, name, role, appointed_date, is_historical)
			 VALUES ($1, $2, $3, $4, $5)`,
			company.ID, m.Name, m.Role, appointed, m.IsHistorical); err != nil {
			return fmt.Errorf("failed to insert board member: %w", err)
		}
	}
	for _, bo := range company.BeneficialOwners {
		var dateFrom *time.Time
		if !bo.DateFrom.IsZero() {
			dateFrom = &bo.DateFrom
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO company_beneficial_owners (company_id, name, date_from) VALUES ($1, $2, $3)`,
			company.ID, bo.Name, dateFrom); err != nil {
			return fmt.Errorf("failed to insert beneficial owner: %w", err)
		}
	}
	for _, tp := range company.TaxPayments {
		if _, err := tx.Exec(ctx,
			`INSERT INTO company_tax_payments (company_id, year, amount) VALUES ($1, $2, $3)`,
			company.ID, tp.Year, tp.Amount); err != nil {
			return fmt.Errorf("failed to insert tax payment: %w", err)
		}
	}
	for _, fr := range company.FinancialRatios {
		if _, err := tx.Exec(ctx,
			`INSERT INTO company_financial_ratios (company_id, year, turnover, profit, liquidity, employees)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			company.ID, fr.Year, fr.Turnover, fr.Profit, fr.Liquidity, fr.Employees); err != nil {
			return fmt.Errorf("failed to insert financial ratio: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Ping verifies the database connection is alive.
func (ps *PostgresStorage) Ping(ctx context.Context) error {
	return ps.pool.Ping(ctx)
}

// Close closes the connection pool.
func (ps *PostgresStorage) Close() error {
	ps.pool.Close()
	return nil
}
