// Package personas implements the persona record lifecycle: validate, mutate
// and verify, on top of a storage.PersonaStore.
package personas

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/louisbranch/agenda/internal/services/agenda/filter"
	"github.com/louisbranch/agenda/internal/services/agenda/storage"
	"github.com/louisbranch/agenda/internal/services/agenda/validation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/agenda/internal/services/agenda/personas"

var (
	// ErrInvalidID reports an id that is not a positive integer.
	ErrInvalidID = errors.New("invalid persona id")
	// ErrInsertUnverified reports an insert that succeeded but left the
	// persona table empty.
	ErrInsertUnverified = errors.New("insert not verified: persona table is empty")
)

// Option configures a Service.
type Option func(*Service)

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) {
		if tp != nil {
			s.tracer = tp.Tracer(tracerName)
		}
	}
}

// Service runs persona operations against a store. It holds no persona state
// between calls.
type Service struct {
	store  storage.PersonaStore
	tracer trace.Tracer
}

// NewService returns a Service backed by store.
func NewService(store storage.PersonaStore, opts ...Option) *Service {
	s := &Service{store: store, tracer: otel.Tracer(tracerName)}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ParseID parses a path or tool id into a positive integer.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}

// List returns every persona in insertion order.
func (s *Service) List(ctx context.Context) (_ []storage.Persona, err error) {
	ctx, span := s.start(ctx, "personas.List")
	defer func() { s.end(span, err) }()

	if err := s.ready(); err != nil {
		return nil, err
	}
	personas, err := s.store.ListPersonas(ctx)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("agenda.persona.count", len(personas)))
	return personas, nil
}

// Search returns personas matching an AIP-160 filter over id, name and email.
// Malformed filters fail with filter.ErrInvalid.
func (s *Service) Search(ctx context.Context, expression string) (_ []storage.Persona, err error) {
	ctx, span := s.start(ctx, "personas.Search")
	defer func() { s.end(span, err) }()

	cond, err := filter.ParsePersonaFilter(expression)
	if err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	personas, err := s.store.SearchPersonas(ctx, cond)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("agenda.persona.count", len(personas)))
	return personas, nil
}

// Get returns one persona. Absence is found=false, not an error.
func (s *Service) Get(ctx context.Context, id int64) (_ storage.Persona, found bool, err error) {
	ctx, span := s.start(ctx, "personas.Get", attribute.Int64("agenda.persona.id", id))
	defer func() {
		span.SetAttributes(attribute.String("agenda.result", storage.LookupKind(found, err).String()))
		s.end(span, err)
	}()

	if err := s.ready(); err != nil {
		return storage.Persona{}, false, err
	}
	return s.store.GetPersona(ctx, id)
}

// Create validates the fields, confirms the persona table exists, inserts and
// verifies the table is no longer empty.
func (s *Service) Create(ctx context.Context, rawName, rawEmail string) (_ storage.Persona, err error) {
	ctx, span := s.start(ctx, "personas.Create")
	defer func() { s.end(span, err) }()

	name, email, err := validation.ValidatePersona(rawName, rawEmail)
	if err != nil {
		return storage.Persona{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Persona{}, err
	}

	exists, err := s.store.TableExists(ctx)
	if err != nil {
		return storage.Persona{}, err
	}
	if !exists {
		return storage.Persona{}, fmt.Errorf("create persona: %w", storage.ErrSchemaMissing)
	}

	id, err := s.store.CreatePersona(ctx, name, email)
	if err != nil {
		return storage.Persona{}, err
	}
	count, err := s.store.CountPersonas(ctx)
	if err != nil {
		return storage.Persona{}, err
	}
	if count == 0 {
		return storage.Persona{}, ErrInsertUnverified
	}

	span.SetAttributes(attribute.Int64("agenda.persona.id", id))
	return storage.Persona{ID: id, Name: name, Email: email}, nil
}

// Update validates the fields and overwrites name and email for id. An absent
// id succeeds without effect.
func (s *Service) Update(ctx context.Context, id int64, rawName, rawEmail string) (_ storage.Persona, err error) {
	ctx, span := s.start(ctx, "personas.Update", attribute.Int64("agenda.persona.id", id))
	defer func() { s.end(span, err) }()

	name, email, err := validation.ValidatePersona(rawName, rawEmail)
	if err != nil {
		return storage.Persona{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Persona{}, err
	}
	if err := s.store.UpdatePersona(ctx, id, name, email); err != nil {
		return storage.Persona{}, err
	}
	return storage.Persona{ID: id, Name: name, Email: email}, nil
}

// Delete removes id permanently. An absent id succeeds without effect.
func (s *Service) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := s.start(ctx, "personas.Delete", attribute.Int64("agenda.persona.id", id))
	defer func() { s.end(span, err) }()

	if err := s.ready(); err != nil {
		return err
	}
	return s.store.DeletePersona(ctx, id)
}

// Ping reports whether storage can serve requests.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.store.Ping(ctx)
}

func (s *Service) ready() error {
	if s == nil || s.store == nil {
		return fmt.Errorf("%w: persona store is not configured", storage.ErrUnavailable)
	}
	return nil
}

func (s *Service) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	if s != nil && s.tracer != nil {
		tracer = s.tracer
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// end records the outcome class. Validation failures are caller errors and
// leave the span status unset.
func (s *Service) end(span trace.Span, err error) {
	defer span.End()
	if err == nil {
		return
	}
	var emptyErr *validation.EmptyFieldError
	var emailErr *validation.MalformedEmailError
	switch {
	case errors.As(err, &emptyErr), errors.As(err, &emailErr), errors.Is(err, filter.ErrInvalid):
		span.SetAttributes(attribute.String("agenda.result", "invalid_argument"))
	case errors.Is(err, ErrInsertUnverified):
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert unverified")
	default:
		kind := storage.KindOf(err)
		span.SetAttributes(attribute.String("agenda.result", kind.String()))
		span.RecordError(err)
		span.SetStatus(codes.Error, kind.String())
	}
}
