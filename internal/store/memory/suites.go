package memory

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/svmpsp/bad-framework/internal/store"
	ltime "github.com/svmpsp/bad-framework/pkg/time"
)

type Suites struct {
	mu    sync.Mutex
	watch ltime.Watch
	byId  map[string]*store.Suite
	order []string
}

var _ store.SuiteService = &Suites{}

func NewSuites(watch ltime.Watch) *Suites {
	return &Suites{
		watch: watch,
		byId:  make(map[string]*store.Suite),
	}
}

func (s *Suites) CreateSuite(ctx context.Context) (*store.Suite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	suite := &store.Suite{
		Id:        store.NewID("suite"),
		CreatedTs: s.watch.Now(),
	}
	s.byId[suite.Id] = suite
	s.order = append(s.order, suite.Id)

	copied := *suite
	return &copied, nil
}

func (s *Suites) GetSuite(ctx context.Context, id string) (*store.Suite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	suite, ok := s.byId[id]
	if !ok {
		return nil, errors.Wrapf(store.ErrNotFound, "suite %s", id)
	}
	copied := *suite
	return &copied, nil
}

func (s *Suites) ListSuites(ctx context.Context) ([]*store.Suite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	suites := make([]*store.Suite, 0, len(s.order))
	for _, id := range s.order {
		copied := *s.byId[id]
		suites = append(suites, &copied)
	}
	return suites, nil
}
