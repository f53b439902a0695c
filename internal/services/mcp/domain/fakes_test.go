package domain

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/louisbranch/agenda/internal/services/agenda/filter"
	"github.com/louisbranch/agenda/internal/services/agenda/storage"
	"github.com/louisbranch/agenda/internal/services/agenda/validation"
)

type fakePersonaService struct {
	mu      sync.Mutex
	records map[int64]storage.Persona
	nextID  int64

	err         error
	lastFilter  string
	listCalls   int
	searchCalls int
}

func newFakePersonaService(records ...storage.Persona) *fakePersonaService {
	s := &fakePersonaService{records: map[int64]storage.Persona{}}
	for _, record := range records {
		s.records[record.ID] = record
		if record.ID > s.nextID {
			s.nextID = record.ID
		}
	}
	return s
}

func (s *fakePersonaService) sorted() []storage.Persona {
	out := make([]storage.Persona, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *fakePersonaService) List(context.Context) ([]storage.Persona, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.sorted(), nil
}

// Search supports name = "prefix*" expressions; anything else is invalid.
func (s *fakePersonaService) Search(_ context.Context, expression string) ([]storage.Persona, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchCalls++
	s.lastFilter = expression
	if s.err != nil {
		return nil, s.err
	}
	prefix, ok := strings.CutPrefix(expression, `name = "`)
	if !ok || !strings.HasSuffix(prefix, `*"`) {
		return nil, filter.ErrInvalid
	}
	prefix = strings.TrimSuffix(prefix, `*"`)
	var out []storage.Persona
	for _, record := range s.sorted() {
		if strings.HasPrefix(record.Name, prefix) {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *fakePersonaService) Get(_ context.Context, id int64) (storage.Persona, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return storage.Persona{}, false, s.err
	}
	record, ok := s.records[id]
	return record, ok, nil
}

func (s *fakePersonaService) Create(_ context.Context, rawName, rawEmail string) (storage.Persona, error) {
	name, email, err := validation.ValidatePersona(rawName, rawEmail)
	if err != nil {
		return storage.Persona{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return storage.Persona{}, s.err
	}
	s.nextID++
	record := storage.Persona{ID: s.nextID, Name: name, Email: email}
	s.records[record.ID] = record
	return record, nil
}

func (s *fakePersonaService) Update(_ context.Context, id int64, rawName, rawEmail string) (storage.Persona, error) {
	name, email, err := validation.ValidatePersona(rawName, rawEmail)
	if err != nil {
		return storage.Persona{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return storage.Persona{}, s.err
	}
	record := storage.Persona{ID: id, Name: name, Email: email}
	if _, ok := s.records[id]; ok {
		s.records[id] = record
	}
	return record, nil
}

func (s *fakePersonaService) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	delete(s.records, id)
	return nil
}

type notifyRecorder struct {
	mu   sync.Mutex
	uris []string
}

func (r *notifyRecorder) notify(_ context.Context, uri string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uris = append(r.uris, uri)
}
