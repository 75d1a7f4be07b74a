package memory

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/svmpsp/bad-framework/internal/store"
	ltime "github.com/svmpsp/bad-framework/pkg/time"
)

type Experiments struct {
	mu    sync.Mutex
	watch ltime.Watch
	byId  map[string]*store.Experiment
	order []string
}

var _ store.ExperimentService = &Experiments{}

func NewExperiments(watch ltime.Watch) *Experiments {
	return &Experiments{
		watch: watch,
		byId:  make(map[string]*store.Experiment),
	}
}

func (e *Experiments) CreateExperiment(ctx context.Context, suiteId, candidateId, datasetName, parameters string) (*store.Experiment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	experiment := &store.Experiment{
		Id:          store.NewID("experiment"),
		SuiteId:     suiteId,
		CandidateId: candidateId,
		DatasetName: datasetName,
		Parameters:  parameters,
		Status:      store.StatusCreated,
	}
	e.byId[experiment.Id] = experiment
	e.order = append(e.order, experiment.Id)

	copied := *experiment
	return &copied, nil
}

func (e *Experiments) GetExperiment(ctx context.Context, id string) (*store.Experiment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	experiment, ok := e.byId[id]
	if !ok {
		return nil, errors.Wrapf(store.ErrNotFound, "experiment %s", id)
	}
	copied := *experiment
	return &copied, nil
}

func (e *Experiments) ListExperimentsBySuite(ctx context.Context, suiteId string) ([]*store.Experiment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	experiments := make([]*store.Experiment, 0)
	for _, id := range e.order {
		if e.byId[id].SuiteId == suiteId {
			copied := *e.byId[id]
			experiments = append(experiments, &copied)
		}
	}
	return experiments, nil
}

func (e *Experiments) UpdateExperimentStatus(ctx context.Context, id string, status store.ExperimentStatus) (*store.Experiment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	experiment, ok := e.byId[id]
	if !ok {
		return nil, errors.Wrapf(store.ErrNotFound, "experiment %s", id)
	}
	if err := experiment.Transition(status, e.watch.Now()); err != nil {
		return nil, err
	}
	copied := *experiment
	return &copied, nil
}

func (e *Experiments) AttachExperimentResults(ctx context.Context, id, metricsPath, rocPath string) (*store.Experiment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	experiment, ok := e.byId[id]
	if !ok {
		return nil, errors.Wrapf(store.ErrNotFound, "experiment %s", id)
	}
	if err := experiment.Transition(store.StatusCompleted, e.watch.Now()); err != nil {
		return nil, err
	}
	experiment.MetricsPath = metricsPath
	experiment.RocPath = rocPath
	copied := *experiment
	return &copied, nil
}
