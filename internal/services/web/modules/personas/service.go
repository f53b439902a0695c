package personas

import (
	"context"
	"errors"
	"log"

	corepersonas "github.com/louisbranch/agenda/internal/services/agenda/personas"
	"github.com/louisbranch/agenda/internal/services/agenda/storage"
	"github.com/louisbranch/agenda/internal/services/agenda/validation"
)

// PersonaRecord is the transport-safe view of one persona.
type PersonaRecord struct {
	ID    int64
	Name  string
	Email string
}

// PersonaGateway performs persona storage operations for web handlers.
//
// CreatePersona and UpdatePersona validate their raw input and report
// validation errors before any storage access. GetPersona reports absence with
// found=false. UpdatePersona and DeletePersona succeed without effect for an
// absent id.
type PersonaGateway interface {
	ListPersonas(context.Context) ([]PersonaRecord, error)
	GetPersona(context.Context, int64) (PersonaRecord, bool, error)
	CreatePersona(context.Context, string, string) (PersonaRecord, error)
	UpdatePersona(context.Context, int64, string, string) error
	DeletePersona(context.Context, int64) error
}

type service struct {
	gateway PersonaGateway
}

func newService(gateway PersonaGateway) service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return service{gateway: gateway}
}

func (s service) listPersonas(ctx context.Context) ([]PersonaRecord, error) {
	items, err := s.gateway.ListPersonas(ctx)
	if err != nil {
		log.Printf("personas: list: %v", err)
		return nil, err
	}
	if items == nil {
		return []PersonaRecord{}, nil
	}
	return items, nil
}

func (s service) getPersona(ctx context.Context, id int64) (PersonaRecord, bool, error) {
	item, found, err := s.gateway.GetPersona(ctx, id)
	if err != nil {
		log.Printf("personas: get id=%d: %v", id, err)
		return PersonaRecord{}, false, err
	}
	return item, found, nil
}

func (s service) createPersona(ctx context.Context, name, email string) (PersonaRecord, error) {
	item, err := s.gateway.CreatePersona(ctx, name, email)
	if err != nil {
		if _, invalid := validationKey(err); !invalid {
			log.Printf("personas: create: %v", err)
		}
		return PersonaRecord{}, err
	}
	return item, nil
}

func (s service) updatePersona(ctx context.Context, id int64, name, email string) error {
	if err := s.gateway.UpdatePersona(ctx, id, name, email); err != nil {
		if _, invalid := validationKey(err); !invalid {
			log.Printf("personas: update id=%d: %v", id, err)
		}
		return err
	}
	return nil
}

func (s service) deletePersona(ctx context.Context, id int64) error {
	if err := s.gateway.DeletePersona(ctx, id); err != nil {
		log.Printf("personas: delete id=%d: %v", id, err)
		return err
	}
	return nil
}

// validationKey maps a field validation error to its notice key.
func validationKey(err error) (string, bool) {
	var empty *validation.EmptyFieldError
	var malformed *validation.MalformedEmailError
	switch {
	case errors.As(err, &empty):
		if empty.Field == validation.FieldName {
			return keyNameRequired, true
		}
		return keyEmailRequired, true
	case errors.As(err, &malformed):
		return keyEmailMalformed, true
	default:
		return "", false
	}
}

// createFailureKey maps a create failure to its notice key.
func createFailureKey(err error) string {
	if key, ok := validationKey(err); ok {
		return key
	}
	switch {
	case errors.Is(err, storage.ErrSchemaMissing):
		return keyTableMissing
	case errors.Is(err, corepersonas.ErrInsertUnverified):
		return keyInsertUnverified
	default:
		return keyStorageUnavailable
	}
}

// updateFailureKey maps an update failure to its notice key. Every storage
// failure, a missing table included, reads as a database error.
func updateFailureKey(err error) string {
	if key, ok := validationKey(err); ok {
		return key
	}
	return keyStorageUnavailable
}
