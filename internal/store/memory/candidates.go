package memory

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/svmpsp/bad-framework/internal/grid"
	"github.com/svmpsp/bad-framework/internal/store"
)

type Candidates struct {
	mu    sync.Mutex
	byId  map[string]*store.Candidate
	order []string
}

var _ store.CandidateService = &Candidates{}

func NewCandidates() *Candidates {
	return &Candidates{
		byId: make(map[string]*store.Candidate),
	}
}

func (c *Candidates) CreateCandidate(ctx context.Context, suiteId, name, source string, parameters grid.Grid, requirements []string) (*store.Candidate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	candidate := &store.Candidate{
		Id:           store.NewID("candidate"),
		SuiteId:      suiteId,
		Name:         name,
		Source:       source,
		Parameters:   parameters,
		Requirements: requirements,
	}
	c.byId[candidate.Id] = candidate
	c.order = append(c.order, candidate.Id)

	copied := *candidate
	return &copied, nil
}

func (c *Candidates) GetCandidate(ctx context.Context, id string) (*store.Candidate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	candidate, ok := c.byId[id]
	if !ok {
		return nil, errors.Wrapf(store.ErrNotFound, "candidate %s", id)
	}
	copied := *candidate
	return &copied, nil
}

func (c *Candidates) GetCandidateBySuite(ctx context.Context, suiteId string) (*store.Candidate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range c.order {
		if c.byId[id].SuiteId == suiteId {
			copied := *c.byId[id]
			return &copied, nil
		}
	}
	return nil, errors.Wrapf(store.ErrNotFound, "candidate for suite %s", suiteId)
}
