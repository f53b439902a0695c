package personas

import (
	"context"
	"sort"
	"sync"

	"github.com/louisbranch/agenda/internal/services/agenda/validation"
	"github.com/louisbranch/agenda/internal/services/web/platform/modulehandler"
)

// fakeGateway implements PersonaGateway over an in-memory map with error
// injection per operation. Like the core gateway it validates writes first;
// creates and updates count only writes that pass validation.
type fakeGateway struct {
	mu      sync.Mutex
	records map[int64]PersonaRecord
	nextID  int64

	listErr   error
	getErr    error
	createErr error
	updateErr error
	deleteErr error

	createCalls int
	updateCalls int
	creates     int
	updates     int
	deletes []int64
}

var _ PersonaGateway = (*fakeGateway)(nil)

func newFakeGateway(records ...PersonaRecord) *fakeGateway {
	g := &fakeGateway{records: map[int64]PersonaRecord{}}
	for _, record := range records {
		g.records[record.ID] = record
		if record.ID > g.nextID {
			g.nextID = record.ID
		}
	}
	return g
}

func (g *fakeGateway) ListPersonas(context.Context) ([]PersonaRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.listErr != nil {
		return nil, g.listErr
	}
	out := make([]PersonaRecord, 0, len(g.records))
	for _, record := range g.records {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (g *fakeGateway) GetPersona(_ context.Context, id int64) (PersonaRecord, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.getErr != nil {
		return PersonaRecord{}, false, g.getErr
	}
	record, ok := g.records[id]
	return record, ok, nil
}

func (g *fakeGateway) CreatePersona(_ context.Context, rawName, rawEmail string) (PersonaRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createCalls++
	name, email, err := validation.ValidatePersona(rawName, rawEmail)
	if err != nil {
		return PersonaRecord{}, err
	}
	g.creates++
	if g.createErr != nil {
		return PersonaRecord{}, g.createErr
	}
	g.nextID++
	record := PersonaRecord{ID: g.nextID, Name: name, Email: email}
	g.records[record.ID] = record
	return record, nil
}

func (g *fakeGateway) UpdatePersona(_ context.Context, id int64, rawName, rawEmail string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updateCalls++
	name, email, err := validation.ValidatePersona(rawName, rawEmail)
	if err != nil {
		return err
	}
	g.updates++
	if g.updateErr != nil {
		return g.updateErr
	}
	if _, ok := g.records[id]; ok {
		g.records[id] = PersonaRecord{ID: id, Name: name, Email: email}
	}
	return nil
}

func (g *fakeGateway) DeletePersona(_ context.Context, id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deletes = append(g.deletes, id)
	if g.deleteErr != nil {
		return g.deleteErr
	}
	delete(g.records, id)
	return nil
}

func personasTestBase() modulehandler.Base {
	return modulehandler.NewTestBase()
}
