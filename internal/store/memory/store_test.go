package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svmpsp/bad-framework/internal/grid"
	"github.com/svmpsp/bad-framework/internal/store"
	ltime "github.com/svmpsp/bad-framework/pkg/time"
)

func newTestStore() (*Store, *ltime.TestingWatch) {
	watch := &ltime.TestingWatch{Current: time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewStore(watch), watch
}

func TestSuiteLifecycle(t *testing.T) {
	ctx := context.Background()
	s, watch := newTestStore()

	suite, err := s.Suites().CreateSuite(ctx)
	require.NoError(t, err)
	assert.Equal(t, "suit", suite.Id[:4])
	assert.Equal(t, watch.Current, suite.CreatedTs)

	loaded, err := s.Suites().GetSuite(ctx, suite.Id)
	require.NoError(t, err)
	assert.Equal(t, suite.Id, loaded.Id)

	_, err = s.Suites().GetSuite(ctx, "suitmissing0")
	assert.ErrorIs(t, err, store.ErrNotFound)

	suites, err := s.Suites().ListSuites(ctx)
	require.NoError(t, err)
	assert.Len(t, suites, 1)
}

func TestCandidateLookupBySuite(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	parameters := grid.Grid{{Name: "k", Spec: grid.ValueParameter{Value: 3}}}
	candidate, err := s.Candidates().CreateCandidate(ctx, "suit00000001", "KNN", "class KNN:", parameters, []string{"numpy"})
	require.NoError(t, err)
	assert.Equal(t, "cand", candidate.Id[:4])

	bySuite, err := s.Candidates().GetCandidateBySuite(ctx, "suit00000001")
	require.NoError(t, err)
	assert.Equal(t, candidate.Id, bySuite.Id)

	byId, err := s.Candidates().GetCandidate(ctx, candidate.Id)
	require.NoError(t, err)
	assert.Equal(t, "KNN", byId.Name)

	_, err = s.Candidates().GetCandidateBySuite(ctx, "suit00000002")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDatasetLookupByName(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	_, err := s.Datasets().CreateDataset(ctx, "shuttle", "datasets/shuttle.arff")
	require.NoError(t, err)

	dataset, err := s.Datasets().GetDatasetByName(ctx, "shuttle")
	require.NoError(t, err)
	assert.Equal(t, "datasets/shuttle.arff", dataset.Path)

	_, err = s.Datasets().GetDatasetByName(ctx, "kddcup99")
	assert.ErrorIs(t, err, store.ErrNotFound)

	datasets, err := s.Datasets().ListDatasets(ctx)
	require.NoError(t, err)
	assert.Len(t, datasets, 1)
}

func TestExperimentStatusFlow(t *testing.T) {
	ctx := context.Background()
	s, watch := newTestStore()

	experiment, err := s.Experiments().CreateExperiment(ctx, "suit00000001", "cand00000001", "shuttle", "k=3;seed=42")
	require.NoError(t, err)
	assert.Equal(t, store.StatusCreated, experiment.Status)

	_, err = s.Experiments().UpdateExperimentStatus(ctx, experiment.Id, store.StatusScheduled)
	require.NoError(t, err)

	watch.Advance(time.Second)
	running, err := s.Experiments().UpdateExperimentStatus(ctx, experiment.Id, store.StatusRunning)
	require.NoError(t, err)
	assert.Equal(t, watch.Current, running.StartedTs)

	watch.Advance(2500 * time.Millisecond)
	completed, err := s.Experiments().AttachExperimentResults(ctx, experiment.Id, "results/metrics.json", "results/roc.png")
	require.NoError(t, err)
	assert.Equal(t, store.StatusCompleted, completed.Status)
	assert.Equal(t, "results/metrics.json", completed.MetricsPath)
	assert.Equal(t, int64(2500000), completed.ExecutionTime())
}

func TestExperimentBackwardTransitionRejected(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	experiment, err := s.Experiments().CreateExperiment(ctx, "suit00000001", "cand00000001", "shuttle", "k=3")
	require.NoError(t, err)

	_, err = s.Experiments().UpdateExperimentStatus(ctx, experiment.Id, store.StatusRunning)
	require.NoError(t, err)

	_, err = s.Experiments().UpdateExperimentStatus(ctx, experiment.Id, store.StatusScheduled)
	assert.ErrorIs(t, err, store.ErrInvalidTransition)

	// the stored experiment is untouched by the failed update
	loaded, err := s.Experiments().GetExperiment(ctx, experiment.Id)
	require.NoError(t, err)
	assert.Equal(t, store.StatusRunning, loaded.Status)
}

func TestListExperimentsBySuiteOrdered(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	first, err := s.Experiments().CreateExperiment(ctx, "suit00000001", "cand00000001", "shuttle", "k=1")
	require.NoError(t, err)
	_, err = s.Experiments().CreateExperiment(ctx, "suit00000002", "cand00000002", "shuttle", "k=1")
	require.NoError(t, err)
	second, err := s.Experiments().CreateExperiment(ctx, "suit00000001", "cand00000001", "shuttle", "k=2")
	require.NoError(t, err)

	experiments, err := s.Experiments().ListExperimentsBySuite(ctx, "suit00000001")
	require.NoError(t, err)
	require.Len(t, experiments, 2)
	assert.Equal(t, first.Id, experiments[0].Id)
	assert.Equal(t, second.Id, experiments[1].Id)
}

func TestReturnedCopiesAreDetached(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	experiment, err := s.Experiments().CreateExperiment(ctx, "suit00000001", "cand00000001", "shuttle", "k=1")
	require.NoError(t, err)

	experiment.Status = store.StatusFailed

	loaded, err := s.Experiments().GetExperiment(ctx, experiment.Id)
	require.NoError(t, err)
	assert.Equal(t, store.StatusCreated, loaded.Status)
}

func TestWorkerRegistry(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	worker, err := s.Workers().CreateWorker(ctx, "node-1", 3291, "master:3290")
	require.NoError(t, err)
	assert.Equal(t, "node-1:3291", worker.Address())

	_, err = s.Workers().CreateWorker(ctx, "node-2", 3291, "master:3290")
	require.NoError(t, err)

	workers, err := s.Workers().ListWorkers(ctx)
	require.NoError(t, err)
	require.Len(t, workers, 2)
	assert.Equal(t, "node-1", workers[0].Hostname)
	assert.Equal(t, "node-2", workers[1].Hostname)
}
