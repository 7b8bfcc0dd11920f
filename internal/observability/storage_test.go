package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regportal/internal/models"
	"regportal/internal/storage"
	"regportal/internal/version"
)

func setupTestProvider(t *testing.T) *Provider {
	t.Helper()
	metrics := models.MetricsConfig{Enabled: true, Path: "/metrics", Port: 9090}
	obs := models.ObservabilityConfig{
		ServiceName: "test",
		Tracing: models.TracingConfig{
			Enabled:    true,
			Exporter:   "stdout",
			SampleRate: 1.0,
		},
	}
	provider, err := Setup(metrics, obs, version.Info{})
	require.NoError(t, err)
	t.Cleanup(func() { provider.Shutdown(context.Background()) })
	return provider
}

func newInstrumented(t *testing.T) *InstrumentedStorage {
	t.Helper()
	_ = setupTestProvider(t)
	instrumented, err := NewInstrumentedStorage(storage.NewMemoryStorage())
	require.NoError(t, err)
	return instrumented
}

func TestInstrumentedStorage_Ping(t *testing.T) {
	instrumented := newInstrumented(t)
	assert.NoError(t, instrumented.Ping(context.Background()))
}

func TestInstrumentedStorage_UserOperations(t *testing.T) {
	instrumented := newInstrumented(t)
	ctx := context.Background()

	now := time.Now().UTC()
	user := &models.User{
		ID: models.NewUserID(), Name: "Test", Email: "test@example.com",
		PasswordHash: "x", Locale: "lv", CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, instrumented.CreateUser(ctx, user))

	got, err := instrumented.GetUserByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	// Error paths flow through unchanged.
	_, err = instrumented.GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestInstrumentedStorage_TokenAndSessionOperations(t *testing.T) {
	instrumented := newInstrumented(t)
	ctx := context.Background()
	now := time.Now().UTC()

	token := &models.VerificationToken{
		Identifier: "test@example.com", Token: "tok",
		Type: models.TokenTypeEmailVerification, Expires: now.Add(time.Hour),
	}
	require.NoError(t, instrumented.CreateVerificationToken(ctx, token))

	got, err := instrumented.GetVerificationToken(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, token.Identifier, got.Identifier)

	deleted, err := instrumented.DeleteVerificationTokens(ctx, "test@example.com", models.TokenTypeEmailVerification)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	session := &models.Session{TokenHash: "h", UserID: "u", Expires: now.Add(time.Hour), CreatedAt: now}
	require.NoError(t, instrumented.CreateSession(ctx, session))
	require.NoError(t, instrumented.DeleteSession(ctx, "h"))
}

func TestInstrumentedStorage_CompanyOperations(t *testing.T) {
	instrumented := newInstrumented(t)
	ctx := context.Background()

	company := &models.Company{
		ID: "c-1", Name: "Rīgas Piens",
		RegistrationNumber: "40003456789", TaxNumber: "LV40003456789",
	}
	require.NoError(t, instrumented.SaveCompany(ctx, company))

	results, err := instrumented.SearchCompanies(ctx, models.NormalizeSearch("rigas"), 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	got, err := instrumented.GetCompany(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "Rīgas Piens", got.Name)
}
