package personas

import (
	"context"
	"fmt"

	"github.com/louisbranch/agenda/internal/services/agenda/storage"
	"github.com/louisbranch/agenda/internal/services/agenda/validation"
)

var errNotConfigured = fmt.Errorf("%w: persona store is not configured", storage.ErrUnavailable)

// unavailableGateway serves degraded mode. Writes still validate first so
// field errors take precedence over the storage error.
type unavailableGateway struct{}

func (unavailableGateway) ListPersonas(context.Context) ([]PersonaRecord, error) {
	return nil, errNotConfigured
}

func (unavailableGateway) GetPersona(context.Context, int64) (PersonaRecord, bool, error) {
	return PersonaRecord{}, false, errNotConfigured
}

func (unavailableGateway) CreatePersona(_ context.Context, name, email string) (PersonaRecord, error) {
	if _, _, err := validation.ValidatePersona(name, email); err != nil {
		return PersonaRecord{}, err
	}
	return PersonaRecord{}, errNotConfigured
}

func (unavailableGateway) UpdatePersona(_ context.Context, _ int64, name, email string) error {
	if _, _, err := validation.ValidatePersona(name, email); err != nil {
		return err
	}
	return errNotConfigured
}

func (unavailableGateway) DeletePersona(context.Context, int64) error {
	return errNotConfigured
}
