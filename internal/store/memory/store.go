// Package memory implements the entity store as in-process maps guarded by
// per-repository mutexes. Nothing is persisted: a master restart requires
// resubmitting suites.
package memory

import (
	"github.com/svmpsp/bad-framework/internal/store"
	ltime "github.com/svmpsp/bad-framework/pkg/time"
)

type Store struct {
	suites      *Suites
	candidates  *Candidates
	datasets    *Datasets
	experiments *Experiments
	workers     *Workers
}

var _ store.Store = &Store{}

func NewStore(watch ltime.Watch) *Store {
	return &Store{
		suites:      NewSuites(watch),
		candidates:  NewCandidates(),
		datasets:    NewDatasets(),
		experiments: NewExperiments(watch),
		workers:     NewWorkers(),
	}
}

func (s *Store) Suites() store.SuiteService           { return s.suites }
func (s *Store) Candidates() store.CandidateService   { return s.candidates }
func (s *Store) Datasets() store.DatasetService       { return s.datasets }
func (s *Store) Experiments() store.ExperimentService { return s.experiments }
func (s *Store) Workers() store.WorkerService         { return s.workers }
