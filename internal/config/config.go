package config

import (
	"github.com/spf13/afero"

	lconfig "github.com/svmpsp/bad-framework/pkg/config"
)

// MasterConfig configures the master process.
type MasterConfig struct {
	// Address workers use to call back into this master.
	AdvertisedAddress string `env:"MASTER_ADVERTISED_ADDRESS" envDefault:"localhost:3290"`
	// Static worker list as hostname:port pairs. When empty, the list is
	// read from WorkersFile if it exists; failing that, the first suite
	// submission supplies it.
	Workers     []string `env:"MASTER_WORKERS" envSeparator:","`
	WorkersFile string   `env:"MASTER_WORKERS_FILE" envDefault:"workers"`
	DatasetDir  string   `env:"MASTER_DATASET_DIR" envDefault:"datasets"`
	ResultsDir  string   `env:"MASTER_RESULTS_DIR" envDefault:"results"`
}

func NewMasterConfigFromEnv() (*MasterConfig, error) {
	var cfg MasterConfig
	err := lconfig.Parse(&cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WorkerConfig configures a worker process.
type WorkerConfig struct {
	HomeDir string `env:"WORKER_HOME_DIR" envDefault:".bad-worker"`
	// Interpreter and runner script used to execute candidates.
	Interpreter  string `env:"WORKER_INTERPRETER" envDefault:"python3"`
	RunnerScript string `env:"WORKER_RUNNER_SCRIPT" envDefault:"run_candidate.py"`
	Pip          string `env:"WORKER_PIP" envDefault:"pip3"`
}

func NewWorkerConfigFromEnv() (*WorkerConfig, error) {
	var cfg WorkerConfig
	err := lconfig.Parse(&cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ClientConfig configures the command line client.
type ClientConfig struct {
	MasterAddress string `env:"BAD_MASTER_ADDRESS" envDefault:"localhost:3290"`
	// Experiment parameters every suite carries by default.
	Seed         int     `env:"BAD_EXPERIMENT_SEED" envDefault:"42"`
	TrainsetSize float64 `env:"BAD_EXPERIMENT_TRAINSET_SIZE" envDefault:"1.0"`
	DumpFile     string  `env:"BAD_DUMP_FILE" envDefault:"bad_dump.csv"`
}

func NewClientConfigFromEnv() (*ClientConfig, error) {
	var cfg ClientConfig
	err := lconfig.Parse(&cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ClientConfigFile is the per-directory client configuration file. Settings
// found there override the environment.
const ClientConfigFile = ".bad.yaml"

type clientFileConfig struct {
	MasterAddress string `json:"master_address,omitempty"`
	DumpFile      string `json:"dump_file,omitempty"`
}

// ApplyClientConfigFile overlays settings from the given YAML file onto cfg.
// A missing file is not an error.
func ApplyClientConfigFile(fs afero.Fs, path string, cfg *ClientConfig) error {
	if exists, err := afero.Exists(fs, path); err != nil || !exists {
		return err
	}

	var file clientFileConfig
	if err := lconfig.LoadStaticYamlConfig(path, fs, &file); err != nil {
		return err
	}
	if file.MasterAddress != "" {
		cfg.MasterAddress = file.MasterAddress
	}
	if file.DumpFile != "" {
		cfg.DumpFile = file.DumpFile
	}
	return nil
}
