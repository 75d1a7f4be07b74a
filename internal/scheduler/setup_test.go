package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svmpsp/bad-framework/internal/store"
	"github.com/svmpsp/bad-framework/internal/store/memory"
	ltime "github.com/svmpsp/bad-framework/pkg/time"
)

func newTestInitializer(t *testing.T, numWorkers int) (*Initializer, *fakeDispatcher, store.Store) {
	t.Helper()
	ctx := context.Background()

	entityStore := memory.NewStore(&ltime.TestingWatch{Current: time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)})
	for i := 0; i < numWorkers; i++ {
		_, err := entityStore.Workers().CreateWorker(ctx, "worker", 3291+i, "master:3290")
		require.NoError(t, err)
	}

	dispatcher := &fakeDispatcher{store: entityStore, fail: make(map[string]error)}
	return NewInitializer(entityStore, dispatcher), dispatcher, entityStore
}

func TestSetupWorkersInitializesAll(t *testing.T) {
	initializer, dispatcher, _ := newTestInitializer(t, 3)

	err := initializer.SetupWorkers(context.Background(), "suit00000001", "cand00000001", []string{"numpy"}, []string{"shuttle"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"worker:3291", "worker:3292", "worker:3293"}, dispatcher.setups)
}

func TestSetupWorkersFailsWhenAnyWorkerFails(t *testing.T) {
	initializer, dispatcher, _ := newTestInitializer(t, 3)
	dispatcher.fail["worker:3292"] = errors.New("pip install failed")

	err := initializer.SetupWorkers(context.Background(), "suit00000001", "cand00000001", nil, []string{"shuttle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pip install failed")
}

func TestSetupWorkersReportsEveryFailure(t *testing.T) {
	initializer, dispatcher, _ := newTestInitializer(t, 3)
	dispatcher.fail["worker:3291"] = errors.New("pip install failed")
	dispatcher.fail["worker:3293"] = errors.New("dataset fetch failed")

	err := initializer.SetupWorkers(context.Background(), "suit00000001", "cand00000001", nil, []string{"shuttle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pip install failed")
	assert.Contains(t, err.Error(), "dataset fetch failed")
}

func TestSetupWorkersNoWorkersIsNoop(t *testing.T) {
	initializer, dispatcher, _ := newTestInitializer(t, 0)

	require.NoError(t, initializer.SetupWorkers(context.Background(), "suit00000001", "cand00000001", nil, nil))
	assert.Empty(t, dispatcher.setups)
}
