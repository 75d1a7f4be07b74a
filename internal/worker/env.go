// Package worker implements the execution agent. A worker prepares one
// environment per suite and runs dispatched experiments one at a time.
package worker

import (
	"context"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/svmpsp/bad-framework/internal/models"
	"github.com/svmpsp/bad-framework/internal/workerapi"
)

// MasterDialer builds a client for the master that dispatched a request.
type MasterDialer func(masterAddress string) *workerapi.MasterClient

// Environment lays out the worker home directory:
//
//	<home>/<suite_id>/candidate.py
//	<home>/datasets/<data_name>.arff
//	<home>/<suite_id>/<experiment_id>/  (scratch space for runs)
type Environment struct {
	fs      afero.Fs
	homeDir string
	dial    MasterDialer
	pip     string
}

func NewEnvironment(fs afero.Fs, homeDir string, dial MasterDialer, pip string) *Environment {
	return &Environment{
		fs:      fs,
		homeDir: homeDir,
		dial:    dial,
		pip:     pip,
	}
}

func (e *Environment) CandidatePath(suiteId string) string {
	return filepath.Join(e.homeDir, suiteId, "candidate.py")
}

func (e *Environment) DatasetPath(dataName string) string {
	return filepath.Join(e.homeDir, "datasets", dataName+".arff")
}

func (e *Environment) ScratchDir(suiteId, experimentId string) string {
	return filepath.Join(e.homeDir, suiteId, experimentId)
}

// Setup prepares the environment for a suite: downloads the candidate
// source, installs its requirements and fetches any dataset not already
// cached from a previous suite.
func (e *Environment) Setup(ctx context.Context, req *models.SetupRequest) error {
	master := e.dial(req.MasterAddress)

	source, err := master.GetCandidate(ctx, req.CandidateId)
	if err != nil {
		return err
	}
	candidatePath := e.CandidatePath(req.SuiteId)
	if err := e.fs.MkdirAll(filepath.Dir(candidatePath), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create suite directory for %s", req.SuiteId)
	}
	if err := afero.WriteFile(e.fs, candidatePath, source, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write candidate for suite %s", req.SuiteId)
	}

	if err := e.installRequirements(ctx, req.Requirements); err != nil {
		return err
	}

	for _, dataName := range req.Datasets {
		if err := e.fetchDataset(ctx, master, dataName); err != nil {
			return err
		}
	}
	return nil
}

func (e *Environment) installRequirements(ctx context.Context, requirements []string) error {
	if len(requirements) == 0 {
		return nil
	}
	args := append([]string{"install"}, requirements...)
	log.Printf("installing %d candidate requirements", len(requirements))
	if output, err := exec.CommandContext(ctx, e.pip, args...).CombinedOutput(); err != nil {
		return errors.Wrapf(err, "requirement installation failed: %s", output)
	}
	return nil
}

// Datasets are immutable, so a file cached by an earlier suite is reused.
func (e *Environment) fetchDataset(ctx context.Context, master *workerapi.MasterClient, dataName string) error {
	path := e.DatasetPath(dataName)
	if exists, _ := afero.Exists(e.fs, path); exists {
		return nil
	}

	content, err := master.GetDataset(ctx, dataName)
	if err != nil {
		return err
	}
	if err := e.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create dataset directory")
	}
	if err := afero.WriteFile(e.fs, path, content, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write dataset %s", dataName)
	}
	return nil
}
