// Package storage defines persistence contracts for persona records.
package storage

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnavailable indicates the database could not serve the request:
	// the connection is unreachable or the schema is missing or corrupt.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrSchemaMissing refines ErrUnavailable when the persona table does not
	// exist. errors.Is(err, ErrUnavailable) holds for it too.
	ErrSchemaMissing = fmt.Errorf("%w: persona table is missing", ErrUnavailable)
)

// Persona is one contact record. ID is assigned by the store and never reused.
type Persona struct {
	ID    int64
	Name  string
	Email string
}

// Condition is a parameterized SQL WHERE fragment over persona columns
// (id, name, email). An empty Clause matches every row.
type Condition struct {
	Clause string
	Params []any
}

// PersonaStore persists persona records.
//
// Lookups report absence with found=false rather than an error. Update and
// delete of an absent id succeed without effect.
type PersonaStore interface {
	EnsureSchema(ctx context.Context) error
	ListPersonas(ctx context.Context) ([]Persona, error)
	SearchPersonas(ctx context.Context, cond Condition) ([]Persona, error)
	GetPersona(ctx context.Context, id int64) (Persona, bool, error)
	CreatePersona(ctx context.Context, name, email string) (int64, error)
	UpdatePersona(ctx context.Context, id int64, name, email string) error
	DeletePersona(ctx context.Context, id int64) error
	TableExists(ctx context.Context) (bool, error)
	CountPersonas(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// Kind classifies a storage outcome for callers that pick messages by result.
type Kind int

const (
	// KindOK means the operation succeeded.
	KindOK Kind = iota
	// KindNotFound means the requested record does not exist.
	KindNotFound
	// KindSchemaMissing means the persona table does not exist.
	KindSchemaMissing
	// KindUnavailable means any other storage failure.
	KindUnavailable
)

// String returns the lower-case kind name used in logs and span attributes.
func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindNotFound:
		return "not_found"
	case KindSchemaMissing:
		return "schema_missing"
	default:
		return "unavailable"
	}
}

// KindOf classifies err. nil is KindOK; any unrecognized error is treated as
// KindUnavailable so callers never surface raw driver failures.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrSchemaMissing):
		return KindSchemaMissing
	default:
		return KindUnavailable
	}
}

// LookupKind is KindOf for (value, found, err) lookups.
func LookupKind(found bool, err error) Kind {
	if err != nil {
		return KindOf(err)
	}
	if !found {
		return KindNotFound
	}
	return KindOK
}
