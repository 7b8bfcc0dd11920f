package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"regportal/internal/models"
	"regportal/internal/storage"
)

// InstrumentedStorage wraps a storage.Storage implementation with
// OpenTelemetry tracing and metrics instrumentation.
type InstrumentedStorage struct {
	inner    storage.Storage
	tracer   trace.Tracer
	duration metric.Float64Histogram
	errors   metric.Int64Counter
}

// NewInstrumentedStorage creates a new storage wrapper that records trace spans,
// operation latency histograms, and error counters for every storage method call.
func NewInstrumentedStorage(inner storage.Storage) (*InstrumentedStorage, error) {
	tracer := otel.Tracer("regportal/storage")
	meter := otel.Meter("regportal/storage")

	duration, err := meter.Float64Histogram(
		"storage.operation.duration",
		metric.WithDescription("Duration of storage operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	errCounter, err := meter.Int64Counter(
		"storage.operation.errors",
		metric.WithDescription("Number of storage operation errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return &InstrumentedStorage{
		inner:    inner,
		tracer:   tracer,
		duration: duration,
		errors:   errCounter,
	}, nil
}

func (s *InstrumentedStorage) startSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "storage."+operation,
		trace.WithAttributes(append([]attribute.KeyValue{
			attribute.String("storage.operation", operation),
		}, attrs...)...),
	)
	return ctx, span
}

func (s *InstrumentedStorage) record(ctx context.Context, span trace.Span, operation string, start time.Time, err error) {
	elapsed := time.Since(start).Seconds()
	attrs := metric.WithAttributes(attribute.String("operation", operation))

	s.duration.Record(ctx, elapsed, attrs)

	if err != nil {
		s.errors.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End()
}

func (s *InstrumentedStorage) CreateUser(ctx context.Context, user *models.User) error {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "CreateUser")
	err := s.inner.CreateUser(ctx, user)
	s.record(ctx, span, "CreateUser", start, err)
	return err
}

func (s *InstrumentedStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "GetUserByEmail")
	user, err := s.inner.GetUserByEmail(ctx, email)
	s.record(ctx, span, "GetUserByEmail", start, err)
	return user, err
}

func (s *InstrumentedStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "GetUserByID")
	user, err := s.inner.GetUserByID(ctx, id)
	s.record(ctx, span, "GetUserByID", start, err)
	return user, err
}

func (s *InstrumentedStorage) UpdateUser(ctx context.Context, user *models.User) error {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "UpdateUser")
	err := s.inner.UpdateUser(ctx, user)
	s.record(ctx, span, "UpdateUser", start, err)
	return err
}

func (s *InstrumentedStorage) CreateVerificationToken(ctx context.Context, token *models.VerificationToken) error {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "CreateVerificationToken",
		attribute.String("token.type", string(token.Type)))
	err := s.inner.CreateVerificationToken(ctx, token)
	s.record(ctx, span, "CreateVerificationToken", start, err)
	return err
}

func (s *InstrumentedStorage) GetVerificationToken(ctx context.Context, token string) (*models.VerificationToken, error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "GetVerificationToken")
	record, err := s.inner.GetVerificationToken(ctx, token)
	s.record(ctx, span, "GetVerificationToken", start, err)
	return record, err
}

func (s *InstrumentedStorage) DeleteVerificationToken(ctx context.Context, token string) error {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "DeleteVerificationToken")
	err := s.inner.DeleteVerificationToken(ctx, token)
	s.record(ctx, span, "DeleteVerificationToken", start, err)
	return err
}

func (s *InstrumentedStorage) DeleteVerificationTokens(ctx context.Context, identifier string, typ models.TokenType) (int64, error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "DeleteVerificationTokens",
		attribute.String("token.type", string(typ)))
	deleted, err := s.inner.DeleteVerificationTokens(ctx, identifier, typ)
	s.record(ctx, span, "DeleteVerificationTokens", start, err)
	return deleted, err
}

func (s *InstrumentedStorage) DeleteExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "DeleteExpiredVerificationTokens")
	deleted, err := s.inner.DeleteExpiredVerificationTokens(ctx, now)
	s.record(ctx, span, "DeleteExpiredVerificationTokens", start, err)
	return deleted, err
}

func (s *InstrumentedStorage) CreateSession(ctx context.Context, session *models.Session) error {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "CreateSession")
	err := s.inner.CreateSession(ctx, session)
	s.record(ctx, span, "CreateSession", start, err)
	return err
}

func (s *InstrumentedStorage) GetSession(ctx context.Context, tokenHash string) (*models.Session, error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "GetSession")
	session, err := s.inner.GetSession(ctx, tokenHash)
	s.record(ctx, span, "GetSession", start, err)
	return session, err
}

func (s *InstrumentedStorage) DeleteSession(ctx context.Context, tokenHash string) error {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "DeleteSession")
	err := s.inner.DeleteSession(ctx, tokenHash)
	s.record(ctx, span, "DeleteSession", start, err)
	return err
}

func (s *InstrumentedStorage) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "DeleteExpiredSessions")
	deleted, err := s.inner.DeleteExpiredSessions(ctx, now)
	s.record(ctx, span, "DeleteExpiredSessions", start, err)
	return deleted, err
}

func (s *InstrumentedStorage) SearchCompanies(ctx context.Context, normalizedTerm string, limit int) ([]*models.Company, error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "SearchCompanies",
		attribute.Int("search.limit", limit))
	companies, err := s.inner.SearchCompanies(ctx, normalizedTerm, limit)
	s.record(ctx, span, "SearchCompanies", start, err)
	return companies, err
}

func (s *InstrumentedStorage) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "GetCompany",
		attribute.String("company.id", id))
	company, err := s.inner.GetCompany(ctx, id)
	s.record(ctx, span, "GetCompany", start, err)
	return company, err
}

func (s *InstrumentedStorage) GetCompaniesByIDs(ctx context.Context, ids []string) ([]*models.Company, error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "GetCompaniesByIDs",
		attribute.Int("company.count", len(ids)))
	companies, err := s.inner.GetCompaniesByIDs(ctx, ids)
	s.record(ctx, span, "GetCompaniesByIDs", start, err)
	return companies, err
}

func (s *InstrumentedStorage) SaveCompany(ctx context.Context, company *models.Company) error {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "SaveCompany",
		attribute.String("company.id", company.ID))
	err := s.inner.SaveCompany(ctx, company)
	s.record(ctx, span, "SaveCompany", start, err)
	return err
}

func (s *InstrumentedStorage) Ping(ctx context.Context) error {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "Ping")
	err := s.inner.Ping(ctx)
	s.record(ctx, span, "Ping", start, err)
	return err
}

func (s *InstrumentedStorage) Close() error {
	return s.inner.Close()
}
