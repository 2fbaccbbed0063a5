package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"personalinfo/internal/personalinfo/metrics"
	"personalinfo/internal/personalinfo/models"
	"personalinfo/internal/prefs"
	"personalinfo/pkg/requestcontext"
)

// Stored keys. date_of_birth holds epoch milliseconds.
const (
	KeyName        = "name"
	KeyDateOfBirth = "date_of_birth"
	KeyEmail       = "email"
)

var recordKeys = []string{KeyName, KeyDateOfBirth, KeyEmail}

// Clock returns the current time; injected for deterministic defaults in tests.
type Clock func() time.Time

// Service persists the single personal info record through a prefs.Backend.
// Writes report success as a bool; reads never fail and fill gaps with defaults.
type Service struct {
	backend prefs.Backend
	logger  *slog.Logger
	metrics *metrics.Metrics
	clock   Clock
	tracer  trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock sets the clock used for the default date of birth. Without it the
// request-scoped time is used.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New constructs a Service over backend.
func New(backend prefs.Backend, opts ...Option) *Service {
	s := &Service{
		backend: backend,
		tracer:  otel.Tracer("personalinfo/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SavePersonalInfo writes all three fields as one commit. It returns true only when the
// backend accepted the commit; on failure the previously stored values are untouched.
func (s *Service) SavePersonalInfo(ctx context.Context, record models.Record) bool {
	ctx, span := s.tracer.Start(ctx, "personalinfo.SavePersonalInfo")
	defer span.End()

	batch := prefs.NewBatch().
		PutString(KeyName, record.Name()).
		PutInt64(KeyDateOfBirth, record.DateOfBirthMillis()).
		PutString(KeyEmail, record.Email())

	start := time.Now()
	err := s.backend.Commit(ctx, batch)
	if s.metrics != nil {
		s.metrics.ObserveCommit(start)
		s.metrics.RecordSave(err == nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit failed")
		s.logError(ctx, "failed to write personal information", "error", err)
		return false
	}
	span.SetAttributes(attribute.Int("personalinfo.keys", batch.Len()))
	s.logInfo(ctx, "personal information saved")
	return true
}

// GetPersonalInfo reads the stored record. Missing or undecodable fields fall back to
// the empty string for name and email and to today's date for date of birth; a backend
// read error yields an all-default record.
func (s *Service) GetPersonalInfo(ctx context.Context) models.Record {
	ctx, span := s.tracer.Start(ctx, "personalinfo.GetPersonalInfo")
	defer span.End()

	today := models.DateOf(s.now(ctx))

	raw, err := s.backend.Read(ctx, recordKeys)
	if err != nil {
		span.RecordError(err)
		s.logWarn(ctx, "failed to read personal information, using defaults", "error", err)
		raw = nil
	}
	values := prefs.Values(raw)

	dob := today
	ms, dobOK := values.LookupInt64(KeyDateOfBirth)
	if dobOK {
		dob = models.DateFromMillis(ms)
	}
	s.recordFallbacks(ctx, values, dobOK)

	return models.NewRecord(
		values.String(KeyName, ""),
		dob,
		values.String(KeyEmail, ""),
	)
}

func (s *Service) now(ctx context.Context) time.Time {
	if s.clock != nil {
		return s.clock()
	}
	return requestcontext.Now(ctx)
}

func (s *Service) recordFallbacks(ctx context.Context, values prefs.Values, dobOK bool) {
	var defaulted []string
	if !values.Has(KeyName) {
		defaulted = append(defaulted, KeyName)
	}
	if !dobOK {
		defaulted = append(defaulted, KeyDateOfBirth)
	}
	if !values.Has(KeyEmail) {
		defaulted = append(defaulted, KeyEmail)
	}
	if len(defaulted) == 0 {
		return
	}
	if s.metrics != nil {
		for _, key := range defaulted {
			s.metrics.RecordFallback(key)
		}
	}
	s.logDebug(ctx, "personal information fields defaulted", "fields", defaulted)
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}

func (s *Service) logWarn(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.WarnContext(ctx, msg, args...)
	}
}

func (s *Service) logError(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.ErrorContext(ctx, msg, args...)
	}
}

func (s *Service) logDebug(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.DebugContext(ctx, msg, args...)
	}
}
