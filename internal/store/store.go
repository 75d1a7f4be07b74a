package store

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Store groups the per-entity repositories of a master process. All suite
// state is process-lifetime: a restart loses every suite, which is accepted.
type Store interface {
	Suites() SuiteService
	Candidates() CandidateService
	Datasets() DatasetService
	Experiments() ExperimentService
	Workers() WorkerService
}

var ErrNotFound = errors.New("not found")

// NewID builds a short entity id from a tag prefix and a random suffix.
// Collisions are negligible at suite cardinalities.
func NewID(tag string) string {
	if len(tag) > 4 {
		tag = tag[:4]
	}
	return tag + uuid.NewString()[:8]
}
