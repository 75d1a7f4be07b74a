package suite

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/svmpsp/bad-framework/internal/store"
)

const datasetExtension = ".arff"

// RegisterDatasets scans dir for dataset files and registers each one under
// its basename without the extension. Called once at master startup.
func RegisterDatasets(ctx context.Context, s store.Store, fs afero.Fs, dir string) error {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return errors.Wrapf(err, "failed to read dataset directory %s", dir)
	}

	registered := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), datasetExtension) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), datasetExtension)
		if _, err := s.Datasets().CreateDataset(ctx, name, filepath.Join(dir, entry.Name())); err != nil {
			return errors.Wrapf(err, "failed to register dataset %s", name)
		}
		registered++
	}
	log.Printf("registered %d datasets from %s", registered, dir)
	return nil
}

// RegisterWorkers registers the static worker list. Each spec is a
// "hostname:port" pair; lines are taken as-is from the master configuration.
func RegisterWorkers(ctx context.Context, s store.Store, specs []string, masterAddress string) error {
	for _, spec := range specs {
		hostname, portString, found := strings.Cut(strings.TrimSpace(spec), ":")
		if !found {
			return errors.Errorf("invalid worker spec %q, want hostname:port", spec)
		}
		port, err := strconv.Atoi(portString)
		if err != nil {
			return errors.Wrapf(err, "invalid worker port in %q", spec)
		}
		if _, err := s.Workers().CreateWorker(ctx, hostname, port, masterAddress); err != nil {
			return errors.Wrapf(err, "failed to register worker %s", spec)
		}
	}
	return nil
}
