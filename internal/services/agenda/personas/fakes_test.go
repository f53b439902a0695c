package personas

import (
	"context"

	"github.com/louisbranch/agenda/internal/services/agenda/storage"
)

// fakeStore is an in-memory PersonaStore with switchable failures.
type fakeStore struct {
	personas     []storage.Persona
	nextID       int64
	tableMissing bool
	countZero    bool
	err          error
	calls        []string
}

func (f *fakeStore) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeStore) EnsureSchema(context.Context) error { return f.record("EnsureSchema") }

func (f *fakeStore) ListPersonas(ctx context.Context) ([]storage.Persona, error) {
	return f.SearchPersonas(ctx, storage.Condition{})
}

func (f *fakeStore) SearchPersonas(context.Context, storage.Condition) ([]storage.Persona, error) {
	if err := f.record("SearchPersonas"); err != nil {
		return nil, err
	}
	out := make([]storage.Persona, len(f.personas))
	copy(out, f.personas)
	return out, nil
}

func (f *fakeStore) GetPersona(_ context.Context, id int64) (storage.Persona, bool, error) {
	if err := f.record("GetPersona"); err != nil {
		return storage.Persona{}, false, err
	}
	for _, p := range f.personas {
		if p.ID == id {
			return p, true, nil
		}
	}
	return storage.Persona{}, false, nil
}

func (f *fakeStore) CreatePersona(_ context.Context, name, email string) (int64, error) {
	if err := f.record("CreatePersona"); err != nil {
		return 0, err
	}
	f.nextID++
	if !f.countZero {
		f.personas = append(f.personas, storage.Persona{ID: f.nextID, Name: name, Email: email})
	}
	return f.nextID, nil
}

func (f *fakeStore) UpdatePersona(_ context.Context, id int64, name, email string) error {
	if err := f.record("UpdatePersona"); err != nil {
		return err
	}
	for i := range f.personas {
		if f.personas[i].ID == id {
			f.personas[i].Name = name
			f.personas[i].Email = email
		}
	}
	return nil
}

func (f *fakeStore) DeletePersona(_ context.Context, id int64) error {
	if err := f.record("DeletePersona"); err != nil {
		return err
	}
	kept := f.personas[:0]
	for _, p := range f.personas {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	f.personas = kept
	return nil
}

func (f *fakeStore) TableExists(context.Context) (bool, error) {
	if err := f.record("TableExists"); err != nil {
		return false, err
	}
	return !f.tableMissing, nil
}

func (f *fakeStore) CountPersonas(context.Context) (int64, error) {
	if err := f.record("CountPersonas"); err != nil {
		return 0, err
	}
	return int64(len(f.personas)), nil
}

func (f *fakeStore) Ping(context.Context) error { return f.record("Ping") }
