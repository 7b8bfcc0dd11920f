package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"regportal/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	email          TEXT NOT NULL UNIQUE,
	password_hash  TEXT NOT NULL,
	email_verified TIMESTAMP,
	locale         TEXT NOT NULL DEFAULT 'lv',
	created_at     TIMESTAMP NOT NULL,
	updated_at     TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS verification_tokens (
	identifier TEXT NOT NULL,
	token      TEXT NOT NULL UNIQUE,
	type       TEXT NOT NULL,
	expires    TIMESTAMP NOT NULL,
	PRIMARY KEY (identifier, token)
);

CREATE TABLE IF NOT EXISTS sessions (
	token_hash TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	expires    TIMESTAMP NOT NULL,
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS companies (
	id                  TEXT PRIMARY KEY,
	name                TEXT NOT NULL,
	registration_number TEXT NOT NULL,
	tax_number          TEXT NOT NULL,
	address             TEXT NOT NULL DEFAULT '',
	founded             TIMESTAMP,
	normalized_name     TEXT NOT NULL,
	normalized_reg_num  TEXT NOT NULL,
	normalized_tax_num  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_companies_normalized_name ON companies(normalized_name);

CREATE TABLE IF NOT EXISTS company_owners (
	company_id       TEXT NOT NULL,
	name             TEXT NOT NULL,
	share_percentage REAL NOT NULL,
	is_historical    INTEGER NOT NULL DEFAULT 0,
	normalized_name  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS company_board_members (
	company_id     TEXT NOT NULL,
	name           TEXT NOT NULL,
	role           TEXT NOT NULL,
	appointed_date TIMESTAMP,
	is_historical  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS company_beneficial_owners (
	company_id TEXT NOT NULL,
	name       TEXT NOT NULL,
	date_from  TIMESTAMP
);

CREATE TABLE IF NOT EXISTS company_tax_payments (
	company_id TEXT NOT NULL,
	year       INTEGER NOT NULL,
	amount     REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS company_financial_ratios (
	company_id TEXT NOT NULL,
	year       INTEGER NOT NULL,
	turnover   REAL NOT NULL,
	profit     REAL NOT NULL,
	liquidity  REAL NOT NULL,
	employees  INTEGER NOT NULL
);
`

// SQLiteStorage implements the Storage interface using SQLite, suitable for
// single-node deployments where running PostgreSQL is overkill.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage creates a new SQLite storage instance and ensures the
// schema exists.
func NewSQLiteStorage(config Config) (Storage, error) {
	if config.ConnectionString == "" {
		return nil, fmt.Errorf("connection string is required for SQLite storage")
	}

	db, err := sql.Open("sqlite", config.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// modernc.org/sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func isSQLiteDuplicate(err error) bool {
	// modernc.org/sqlite exposes constraint failures through the error
	// string; there is no exported error type to match on.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// CreateUser stores a new user, mapping unique email violations to ErrDuplicate.
func (ss *SQLiteStorage) CreateUser(ctx context.Context, user *models.User) error {
	_, err := ss.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, email_verified, locale, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.EmailVerified, user.Locale, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isSQLiteDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (ss *SQLiteStorage) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.EmailVerified, &user.Locale, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by lowercased email address.
func (ss *SQLiteStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := ss.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, email_verified, locale, created_at, updated_at
		 FROM users WHERE email = ?`, email)
	return ss.scanUser(row)
}

// GetUserByID retrieves a user by ID.
func (ss *SQLiteStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	row := ss.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, email_verified, locale, created_at, updated_at
		 FROM users WHERE id = ?`, id)
	return ss.scanUser(row)
}

// UpdateUser persists changes to an existing user.
func (ss *SQLiteStorage) UpdateUser(ctx context.Context, user *models.User) error {
	result, err := ss.db.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, password_hash = ?, email_verified = ?,
		 locale = ?, updated_at = ? WHERE id = ?`,
		user.Name, user.Email, user.PasswordHash, user.EmailVerified, user.Locale, user.UpdatedAt, user.ID)
	if err != nil {
		if isSQLiteDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateVerificationToken stores a new credential token.
func (ss *SQLiteStorage) CreateVerificationToken(ctx context.Context, token *models.VerificationToken) error {
	_, err := ss.db.ExecContext(ctx,
		`INSERT INTO verification_tokens (identifier, token, type, expires) VALUES (?, ?, ?, ?)`,
		token.Identifier, token.Token, string(token.Type), token.Expires)
	if err != nil {
		if isSQLiteDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create verification token: %w", err)
	}
	return nil
}

// GetVerificationToken retrieves a token record by its exact token string.
func (ss *SQLiteStorage) GetVerificationToken(ctx context.Context, token string) (*models.VerificationToken, error) {
	var record models.VerificationToken
	var typ string
	err := ss.db.QueryRowContext(ctx,
		`SELECT identifier, token, type, expires FROM verification_tokens WHERE token = ?`, token).
		Scan(&record.Identifier, &record.Token, &typ, &record.Expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get verification token: %w", err)
	}
	record.Type = models.TokenType(typ)
	return &record, nil
}

// DeleteVerificationToken removes a single token record.
func (ss *SQLiteStorage) DeleteVerificationToken(ctx context.Context, token string) error {
	result, err := ss.db.ExecContext(ctx, `DELETE FROM verification_tokens WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("failed to delete verification token: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteVerificationTokens removes all tokens of a type for an identifier.
func (ss *SQLiteStorage) DeleteVerificationTokens(ctx context.Context, identifier string, typ models.TokenType) (int64, error) {
	result, err := ss.db.ExecContext(ctx,
		`DELETE FROM verification_tokens WHERE identifier = ? AND type = ?`,
		identifier, string(typ))
	if err != nil {
		return 0, fmt.Errorf("failed to delete verification tokens: %w", err)
	}
	return result.RowsAffected()
}

// DeleteExpiredVerificationTokens removes all tokens expired before now.
func (ss *SQLiteStorage) DeleteExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error) {
	result, err := ss.db.ExecContext(ctx, `DELETE FROM verification_tokens WHERE expires < ?`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired verification tokens: %w", err)
	}
	return result.RowsAffected()
}

// CreateSession stores a new session.
func (ss *SQLiteStorage) CreateSession(ctx context.Context, session *models.Session) error {
	_, err := ss.db.ExecContext(ctx,
		`INSERT INTO sessions (token_hash, user_id, expires, created_at) VALUES (?, ?, ?, ?)`,
		session.TokenHash, session.UserID, session.Expires, session.CreatedAt)
	if err != nil {
		if isSQLiteDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by its token hash.
func (ss *SQLiteStorage) GetSession(ctx context.Context, tokenHash string) (*models.Session, error) {
	var session models.Session
	err := ss.db.QueryRowContext(ctx,
		`SELECT token_hash, user_id, expires, created_at FROM sessions WHERE token_hash = ?`, tokenHash).
		Scan(&session.TokenHash, &session.UserID, &session.Expires, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// DeleteSession removes a session by its token hash.
func (ss *SQLiteStorage) DeleteSession(ctx context.Context, tokenHash string) error {
	result, err := ss.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = ?`, tokenHash)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpiredSessions removes all sessions expired before now.
func (ss *SQLiteStorage) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	result, err := ss.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires < ?`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}

// SearchCompanies matches the normalized term against company columns and
// current owner names.
func (ss *SQLiteStorage) SearchCompanies(ctx context.Context, normalizedTerm string, limit int) ([]*models.Company, error) {
	pattern := "%" + escapeLike(normalizedTerm) + "%"
	rows, err := ss.db.QueryContext(ctx,
		`SELECT DISTINCT c.id
		 FROM companies c
		 LEFT JOIN company_owners o ON o.company_id = c.id AND o.is_historical = 0
		 WHERE c.normalized_name LIKE ? ESCAPE '\'
		    OR c.normalized_reg_num LIKE ? ESCAPE '\'
		    OR c.normalized_tax_num LIKE ? ESCAPE '\'
		    OR o.normalized_name LIKE ? ESCAPE '\'
		 ORDER BY c.name
		 LIMIT ?`, pattern, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search companies: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read search results: %w", err)
	}

	return ss.GetCompaniesByIDs(ctx, ids)
}

// GetCompany retrieves a company with all related records.
func (ss *SQLiteStorage) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	companies, err := ss.GetCompaniesByIDs(ctx, []string{id})
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
func (ss *SQLiteStorage) GetCompaniesByIDs(ctx context.Context, ids []string) ([]*models.Company, error) {
	companies := make([]*models.Company, 0, len(ids))
	for _, id := range ids {
		company, err := ss.loadCompany(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		companies = append(companies, company)
	}
	return companies, nil
}

func (ss *SQLiteStorage) loadCompany(ctx context.Context, id string) (*models.Company, error) {
	var c models.Company
	var founded sql.NullTime
	err := ss.db.QueryRowContext(ctx,
		`SELECT id, name, registration_number, tax_number, address, founded,
		        normalized_name, normalized_reg_num, normalized_tax_num
		 FROM companies WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.RegistrationNumber, &c.TaxNumber, &c.Address,
			&founded, &c.NormalizedName, &c.NormalizedRegNum, &c.NormalizedTaxNum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	if founded.Valid {
		c.Founded = founded.Time
	}

	ownerRows, err := ss.db.QueryContext(ctx,
		`SELECT name, share_percentage, is_historical, normalized_name
		 FROM company_owners WHERE company_id = ? ORDER BY share_percentage DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get owners: %w", err)
	}
	defer ownerRows.Close()
	for ownerRows.Next() {
		var o models.Owner
		if err := ownerRows.Scan(&o.Name, &o.SharePercentage, &o.IsHistorical, &o.NormalizedName); err != nil {
			return nil, fmt.Errorf("failed to scan owner: %w", err)
		}
		c.Owners = append(c.Owners, o)
	}
	if err := ownerRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read owners: %w", err)
	}

	boardRows, err := ss.db.QueryContext(ctx,
		`SELECT name, role, appointed_date, is_historical
		 FROM company_board_members WHERE company_id = ? ORDER BY appointed_date DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get board members: %w", err)
	}
	defer boardRows.Close()
	for boardRows.Next() {
		var m models.BoardMember
		var appointed sql.NullTime
		if err := boardRows.Scan(&m.Name, &m.Role, &appointed, &m.IsHistorical); err != nil {
			return nil, fmt.Errorf("failed to scan board member: %w", err)
		}
		if appointed.Valid {
			m.AppointedDate = appointed.Time
		}
		c.BoardMembers = append(c.BoardMembers, m)
	}
	if err := boardRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read board members: %w", err)
	}

	boRows, err := ss.db.QueryContext(ctx,
		`SELECT name, date_from FROM company_beneficial_owners WHERE company_id = ? ORDER BY date_from DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get beneficial owners: %w", err)
	}
	defer boRows.Close()
	for boRows.Next() {
		var bo models.BeneficialOwner
		var dateFrom sql.NullTime
		if err := boRows.Scan(&bo.Name, &dateFrom); err != nil {
			return nil, fmt.Errorf("failed to scan beneficial owner: %w", err)
		}
		if dateFrom.Valid {
			bo.DateFrom = dateFrom.Time
		}
		c.BeneficialOwners = append(c.BeneficialOwners, bo)
	}
	if err := boRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read beneficial owners: %w", err)
	}

	taxRows, err := ss.db.QueryContext(ctx,
		`SELECT year, amount FROM company_tax_payments WHERE company_id = ? ORDER BY year DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get tax payments: %w", err)
	}
	defer taxRows.Close()
	for taxRows.Next() {
		var tp models.TaxPayment
		if err := taxRows.Scan(&tp.Year, &tp.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan tax payment: %w", err)
		}
		c.TaxPayments = append(c.TaxPayments, tp)
	}
	if err := taxRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tax payments: %w", err)
	}

	ratioRows, err := ss.db.QueryContext(ctx,
		`SELECT year, turnover, profit, liquidity, employees
		 FROM company_financial_ratios WHERE company_id = ? ORDER BY year DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get financial ratios: %w", err)
	}
	defer ratioRows.Close()
	for ratioRows.Next() {
		var fr models.FinancialRatio
		if err := ratioRows.Scan(&fr.Year, &fr.Turnover, &fr.Profit, &fr.Liquidity, &fr.Employees); err != nil {
			return nil, fmt.Errorf("failed to scan financial ratio: %w", err)
		}
		c.FinancialRatios = append(c.FinancialRatios, fr)
	}
	if err := ratioRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read financial ratios: %w", err)
	}

	return &c, nil
}

// SaveCompany stores or updates a company and its related records inside a
// transaction, recomputing the normalized search columns first.
func (ss *SQLiteStorage) SaveCompany(ctx context.Context, company *models.Company) error {
	company.ComputeNormalized()

	tx, err := ss.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var founded interface{}
	if !company.Founded.IsZero() {
		founded = company.Founded
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO companies (id, name, registration_number, tax_number, address, founded,
		                        normalized_name, normalized_reg_num, normalized_tax_num)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   name = excluded.name,
		   registration_number = excluded.registration_number,
		   tax_number = excluded.tax_number,
		   address = excluded.address,
		   founded = excluded.founded,
		   normalized_name = excluded.normalized_name,
		   normalized_reg_num = excluded.normalized_reg_num,
		   normalized_tax_num = excluded.normalized_tax_num`,
		company.ID, company.Name, company.RegistrationNumber, company.TaxNumber, company.Address,
		founded, company.NormalizedName, company.NormalizedRegNum, company.NormalizedTaxNum)
	if err != nil {
		return fmt.Errorf("failed to upsert company: %w", err)
	}

	for _, table := range []string{
		"company_owners", "company_board_members", "company_beneficial_owners",
		"company_tax_payments", "company_financial_ratios",
	} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE company_id = ?`, table), company.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, o := range company.Owners {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO company_owners (company_id, name, share_percentage, is_historical, normalized_name)
			 VALUES (?, ?, ?, ?, ?)`,
			company.ID, o.Name, o.SharePercentage, o.IsHistorical, o.NormalizedName); err != nil {
			return fmt.Errorf("failed to insert owner: %w", err)
		}
	}
	for _, m := range company.BoardMembers {
		var appointed interface{}
		if !m.AppointedDate.IsZero() {
			appointed = m.AppointedDate
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO company_board_members (company_id, name, role, appointed_date, is_historical)
			 VALUES (?, ?, ?, ?, ?)`,
			company.ID, m.Name, m.Role, appointed, m.IsHistorical); err != nil {
			return fmt.Errorf("failed to insert board member: %w", err)
		}
	}
	for _, bo := range company.BeneficialOwners {
		var dateFrom interface{}
		if !bo.DateFrom.IsZero() {
			dateFrom = bo.DateFrom
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO company_beneficial_owners (company_id, name, date_from) VALUES (?, ?, ?)`,
			company.ID, bo.Name, dateFrom); err != nil {
			return fmt.Errorf("failed to insert beneficial owner: %w", err)
		}
	}
	for _, tp := range company.TaxPayments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO company_tax_payments (company_id, year, amount) VALUES (?, ?, ?)`,
			company.ID, tp.Year, tp.Amount); err != nil {
			return fmt.Errorf("failed to insert tax payment: %w", err)
		}
	}
	for _, fr := range company.FinancialRatios {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO company_financial_ratios (company_id, year, turnover, profit, liquidity, employees)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			company.ID, fr.Year, fr.Turnover, fr.Profit, fr.Liquidity, fr.Employees); err != nil {
			return fmt.Errorf("failed to insert financial ratio: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Ping verifies the database connection is alive.
func (ss *SQLiteStorage) Ping(ctx context.Context) error {
	return ss.db.PingContext(ctx)
}

// Close closes the database connection.
func (ss *SQLiteStorage) Close() error {
	return ss.db.Close()
}
