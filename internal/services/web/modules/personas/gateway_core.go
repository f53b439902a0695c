package personas

import (
	"context"

	corepersonas "github.com/louisbranch/agenda/internal/services/agenda/personas"
	"github.com/louisbranch/agenda/internal/services/agenda/storage"
)

type coreGateway struct {
	svc *corepersonas.Service
}

// NewCoreGateway adapts the persona lifecycle service. A nil service yields
// the unavailable gateway.
func NewCoreGateway(svc *corepersonas.Service) PersonaGateway {
	if svc == nil {
		return unavailableGateway{}
	}
	return coreGateway{svc: svc}
}

func (g coreGateway) ListPersonas(ctx context.Context) ([]PersonaRecord, error) {
	items, err := g.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]PersonaRecord, 0, len(items))
	for _, item := range items {
		records = append(records, recordFromStorage(item))
	}
	return records, nil
}

func (g coreGateway) GetPersona(ctx context.Context, id int64) (PersonaRecord, bool, error) {
	item, found, err := g.svc.Get(ctx, id)
	if err != nil || !found {
		return PersonaRecord{}, found, err
	}
	return recordFromStorage(item), true, nil
}

func (g coreGateway) CreatePersona(ctx context.Context, name, email string) (PersonaRecord, error) {
	item, err := g.svc.Create(ctx, name, email)
	if err != nil {
		return PersonaRecord{}, err
	}
	return recordFromStorage(item), nil
}

func (g coreGateway) UpdatePersona(ctx context.Context, id int64, name, email string) error {
	_, err := g.svc.Update(ctx, id, name, email)
	return err
}

func (g coreGateway) DeletePersona(ctx context.Context, id int64) error {
	return g.svc.Delete(ctx, id)
}

func recordFromStorage(p storage.Persona) PersonaRecord {
	return PersonaRecord{ID: p.ID, Name: p.Name, Email: p.Email}
}
