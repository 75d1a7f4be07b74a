package store

import (
	"context"

	"github.com/svmpsp/bad-framework/internal/grid"
)

// Candidate is an algorithm implementation under test. Immutable after
// creation.
type Candidate struct {
	Id           string
	SuiteId      string
	Name         string
	Source       string
	Parameters   grid.Grid
	Requirements []string
}

type CandidateService interface {
	CreateCandidate(ctx context.Context, suiteId, name, source string, parameters grid.Grid, requirements []string) (*Candidate, error)
	GetCandidate(ctx context.Context, id string) (*Candidate, error)
	GetCandidateBySuite(ctx context.Context, suiteId string) (*Candidate, error)
}
