package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientConfigDefaults(t *testing.T) {
	cfg, err := NewClientConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "localhost:3290", cfg.MasterAddress)
	assert.Equal(t, 42, cfg.Seed)
	assert.InDelta(t, 1.0, cfg.TrainsetSize, 1e-9)
	assert.Equal(t, "bad_dump.csv", cfg.DumpFile)
}

func TestClientConfigEnvOverride(t *testing.T) {
	t.Setenv("BAD_MASTER_ADDRESS", "master.example.com:9000")
	t.Setenv("BAD_EXPERIMENT_SEED", "7")

	cfg, err := NewClientConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "master.example.com:9000", cfg.MasterAddress)
	assert.Equal(t, 7, cfg.Seed)
}

func TestApplyClientConfigFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, ".bad.yaml", []byte(
		"master_address: master.example.com:9000\ndump_file: results.csv\n",
	), 0o644))

	cfg := &ClientConfig{MasterAddress: "localhost:3290", DumpFile: "bad_dump.csv"}
	require.NoError(t, ApplyClientConfigFile(fs, ".bad.yaml", cfg))
	assert.Equal(t, "master.example.com:9000", cfg.MasterAddress)
	assert.Equal(t, "results.csv", cfg.DumpFile)
}

func TestApplyClientConfigFilePartial(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, ".bad.yaml", []byte(
		"master_address: master.example.com:9000\n",
	), 0o644))

	cfg := &ClientConfig{MasterAddress: "localhost:3290", DumpFile: "bad_dump.csv"}
	require.NoError(t, ApplyClientConfigFile(fs, ".bad.yaml", cfg))
	assert.Equal(t, "master.example.com:9000", cfg.MasterAddress)
	assert.Equal(t, "bad_dump.csv", cfg.DumpFile)
}

func TestApplyClientConfigFileMissingIsNoop(t *testing.T) {
	cfg := &ClientConfig{MasterAddress: "localhost:3290"}
	require.NoError(t, ApplyClientConfigFile(afero.NewMemMapFs(), ".bad.yaml", cfg))
	assert.Equal(t, "localhost:3290", cfg.MasterAddress)
}

func TestApplyClientConfigFileMalformed(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, ".bad.yaml", []byte("{not yaml"), 0o644))

	cfg := &ClientConfig{}
	assert.Error(t, ApplyClientConfigFile(fs, ".bad.yaml", cfg))
}

func TestMasterConfigWorkerList(t *testing.T) {
	t.Setenv("MASTER_WORKERS", "worker-a:4290,worker-b:4290")

	cfg, err := NewMasterConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"worker-a:4290", "worker-b:4290"}, cfg.Workers)
}
