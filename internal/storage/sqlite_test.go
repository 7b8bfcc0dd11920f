package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regportal/internal/models"
)

func newSQLiteTestStorage(t *testing.T) Storage {
	t.Helper()
	store, err := NewSQLiteStorage(Config{
		Type:             models.StorageTypeSQLite,
		ConnectionString: ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStorageUserRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteTestStorage(t)

	now := time.Now().UTC().Truncate(time.Second)
	user := &models.User{
		ID:           models.NewUserID(),
		Name:         "Anna Ozola",
		Email:        "anna@example.com",
		PasswordHash: "$2a$10$fakefakefakefakefakefake",
		Locale:       "lv",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, store.CreateUser(ctx, user))

	dup := *user
	dup.ID = models.NewUserID()
	assert.ErrorIs(t, store.CreateUser(ctx, &dup), ErrDuplicate)

	got, err := store.GetUserByEmail(ctx, "anna@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Nil(t, got.EmailVerified)

	verified := now.Add(time.Minute)
	got.EmailVerified = &verified
	got.UpdatedAt = verified
	require.NoError(t, store.UpdateUser(ctx, got))

	again, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, again.EmailVerified)
	assert.True(t, again.EmailVerified.Equal(verified))
}

func TestSQLiteStorageTokensAndSessions(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteTestStorage(t)
	now := time.Now().UTC().Truncate(time.Second)

	token := &models.VerificationToken{
		Identifier: "anna@example.com",
		Token:      "tok-1",
		Type:       models.TokenTypePasswordReset,
		Expires:    now.Add(time.Hour),
	}
	require.NoError(t, store.CreateVerificationToken(ctx, token))
	assert.ErrorIs(t, store.CreateVerificationToken(ctx, token), ErrDuplicate)

	got, err := store.GetVerificationToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, models.TokenTypePasswordReset, got.Type)

	deleted, err := store.DeleteVerificationTokens(ctx, "anna@example.com", models.TokenTypePasswordReset)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	session := &models.Session{
		TokenHash: "hash-1",
		UserID:    "user-1",
		Expires:   now.Add(-time.Minute),
		CreatedAt: now.Add(-time.Hour),
	}
	require.NoError(t, store.CreateSession(ctx, session))

	deleted, err = store.DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = store.GetSession(ctx, "hash-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStorageCompanySearch(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteTestStorage(t)

	company := &models.Company{
		ID:                 "c-1",
		Name:               "Jūras Vēji",
		RegistrationNumber: "40001234567",
		TaxNumber:          "LV40001234567",
		Owners: []models.Owner{
			{Name: "Kārlis Liepa", SharePercentage: 60},
			{Name: "Old Owner", SharePercentage: 40, IsHistorical: true},
		},
		TaxPayments: []models.TaxPayment{{Year: 2024, Amount: 12500.50}},
	}
	require.NoError(t, store.SaveCompany(ctx, company))

	results, err := store.SearchCompanies(ctx, models.NormalizeSearch("jūras"), 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "c-1", results[0].ID)

	// Unaccented query folds to the same form.
	results, err = store.SearchCompanies(ctx, models.NormalizeSearch("juras"), 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	// Current owner names are searchable, historical ones are not.
	results, err = store.SearchCompanies(ctx, models.NormalizeSearch("karlis"), 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	results, err = store.SearchCompanies(ctx, models.NormalizeSearch("old owner"), 10)
	require.NoError(t, err)
	assert.Empty(t, results)

	// LIKE metacharacters in the query match literally, never as wildcards.
	results, err = store.SearchCompanies(ctx, models.NormalizeSearch("%"), 10)
	require.NoError(t, err)
	assert.Empty(t, results)
	results, err = store.SearchCompanies(ctx, models.NormalizeSearch("ju_as"), 10)
	require.NoError(t, err)
	assert.Empty(t, results)

	got, err := store.GetCompany(ctx, "c-1")
	require.NoError(t, err)
	assert.Len(t, got.Owners, 2)
	require.Len(t, got.TaxPayments, 1)
	assert.Equal(t, 12500.50, got.TaxPayments[0].Amount)

	// Saving again replaces related records instead of appending.
	company.Owners = company.Owners[:1]
	require.NoError(t, store.SaveCompany(ctx, company))
	got, err = store.GetCompany(ctx, "c-1")
	require.NoError(t, err)
	assert.Len(t, got.Owners, 1)
}

func TestSQLiteStorageSearchEscapesWildcards(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteTestStorage(t)

	require.NoError(t, store.SaveCompany(ctx, &models.Company{
		ID:                 "c-pct",
		Name:               "100% Dabīgs",
		RegistrationNumber: "40007777777",
	}))
	require.NoError(t, store.SaveCompany(ctx, &models.Company{
		ID:                 "c-other",
		Name:               "Cits Uzņēmums",
		RegistrationNumber: "40008888888",
	}))

	// A query containing "%" matches only names that literally contain it.
	results, err := store.SearchCompanies(ctx, models.NormalizeSearch("100% d"), 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "c-pct", results[0].ID)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `plain`, escapeLike(`plain`))
	assert.Equal(t, `100\%`, escapeLike(`100%`))
	assert.Equal(t, `a\_b`, escapeLike(`a_b`))
	assert.Equal(t, `c\\\%d`, escapeLike(`c\%d`))
}
