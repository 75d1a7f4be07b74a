package suite

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svmpsp/bad-framework/internal/store/memory"
	ltime "github.com/svmpsp/bad-framework/pkg/time"
)

func TestRegisterDatasets(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("datasets/raw", 0o755))
	require.NoError(t, afero.WriteFile(fs, "datasets/shuttle.arff", []byte("@relation shuttle"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "datasets/kddcup99.arff", []byte("@relation kddcup99"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "datasets/README.md", []byte("docs"), 0o644))

	s := memory.NewStore(&ltime.TestingWatch{Current: time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, RegisterDatasets(ctx, s, fs, "datasets"))

	datasets, err := s.Datasets().ListDatasets(ctx)
	require.NoError(t, err)
	require.Len(t, datasets, 2)

	shuttle, err := s.Datasets().GetDatasetByName(ctx, "shuttle")
	require.NoError(t, err)
	assert.Equal(t, "datasets/shuttle.arff", shuttle.Path)
}

func TestRegisterDatasetsMissingDir(t *testing.T) {
	s := memory.NewStore(ltime.NewWallWatch())
	err := RegisterDatasets(context.Background(), s, afero.NewMemMapFs(), "nonexistent")
	assert.Error(t, err)
}

func TestRegisterWorkers(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore(ltime.NewWallWatch())

	require.NoError(t, RegisterWorkers(ctx, s, []string{"node-1:3291", " node-2:3291 "}, "master:3290"))

	workers, err := s.Workers().ListWorkers(ctx)
	require.NoError(t, err)
	require.Len(t, workers, 2)
	assert.Equal(t, "node-1:3291", workers[0].Address())
	assert.Equal(t, "node-2:3291", workers[1].Address())
	assert.Equal(t, "master:3290", workers[0].MasterAddress)
}

func TestRegisterWorkersInvalidSpec(t *testing.T) {
	s := memory.NewStore(ltime.NewWallWatch())
	assert.Error(t, RegisterWorkers(context.Background(), s, []string{"node-1"}, "master:3290"))
	assert.Error(t, RegisterWorkers(context.Background(), s, []string{"node-1:abc"}, "master:3290"))
}
