// Package suite turns a suite submission into stored entities and kicks off
// scheduling.
package suite

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/svmpsp/bad-framework/internal/grid"
	"github.com/svmpsp/bad-framework/internal/models"
	"github.com/svmpsp/bad-framework/internal/scheduler"
	"github.com/svmpsp/bad-framework/internal/store"
)

// Coordinator drives suite creation on the master: it materializes the
// submission into entities, initializes the worker environments and launches
// the scheduling loop in the background.
type Coordinator struct {
	store       store.Store
	initializer *scheduler.Initializer
	manager     *scheduler.Manager
}

func NewCoordinator(store store.Store, initializer *scheduler.Initializer, manager *scheduler.Manager) *Coordinator {
	return &Coordinator{
		store:       store,
		initializer: initializer,
		manager:     manager,
	}
}

// Submit creates a suite from a submission and returns its id. It blocks
// until every worker environment is initialized; scheduling then proceeds in
// the background. If any worker fails to initialize, no experiment is
// dispatched.
func (c *Coordinator) Submit(ctx context.Context, settings *models.SuiteSettings) (string, error) {
	parameters, err := parseParameterGrid(settings.CandidateParameters)
	if err != nil {
		return "", err
	}

	datasetNames, err := c.resolveDatasets(ctx, settings.DataName)
	if err != nil {
		return "", err
	}

	if err := c.registerSubmittedWorkers(ctx, settings); err != nil {
		return "", err
	}

	suite, err := c.store.Suites().CreateSuite(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to create suite")
	}

	requirements := make([]string, len(settings.CandidateRequirements))
	copy(requirements, settings.CandidateRequirements)
	sort.Strings(requirements)

	candidate, err := c.store.Candidates().CreateCandidate(ctx, suite.Id, settings.CandidateName, settings.CandidateSource, parameters, requirements)
	if err != nil {
		return "", errors.Wrapf(err, "failed to create candidate for suite %s", suite.Id)
	}

	generated := grid.Settings(datasetNames, parameters)
	for _, setting := range generated {
		if _, err := c.store.Experiments().CreateExperiment(ctx, suite.Id, candidate.Id, setting.DatasetName, setting.Parameters); err != nil {
			return "", errors.Wrapf(err, "failed to create experiments for suite %s", suite.Id)
		}
	}
	log.Printf("created suite %s with %d experiments", suite.Id, len(generated))

	if err := c.initializer.SetupWorkers(ctx, suite.Id, candidate.Id, candidate.Requirements, datasetNames); err != nil {
		return "", err
	}

	c.manager.Launch(suite.Id)
	return suite.Id, nil
}

// registerSubmittedWorkers adopts the submission's worker list when the pool
// is still empty. The first submission wins; later lists are ignored.
func (c *Coordinator) registerSubmittedWorkers(ctx context.Context, settings *models.SuiteSettings) error {
	if len(settings.Workers) == 0 {
		return nil
	}
	existing, err := c.store.Workers().ListWorkers(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to list workers")
	}
	if len(existing) > 0 {
		log.Printf("ignoring submitted worker list, %d workers already registered", len(existing))
		return nil
	}
	return RegisterWorkers(ctx, c.store, settings.Workers, settings.MasterAddress)
}

func (c *Coordinator) resolveDatasets(ctx context.Context, dataName string) ([]string, error) {
	if dataName != "" {
		if _, err := c.store.Datasets().GetDatasetByName(ctx, dataName); err != nil {
			return nil, errors.Wrapf(err, "unknown dataset %s", dataName)
		}
		return []string{dataName}, nil
	}

	datasets, err := c.store.Datasets().ListDatasets(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list datasets")
	}
	if len(datasets) == 0 {
		return nil, errors.New("no datasets registered")
	}
	names := make([]string, len(datasets))
	for i, dataset := range datasets {
		names[i] = dataset.Name
	}
	return names, nil
}

func parseParameterGrid(fields [][]string) (grid.Grid, error) {
	g := make(grid.Grid, 0, len(fields))
	for _, row := range fields {
		parameter, err := grid.ParseParameterFields(row)
		if err != nil {
			return nil, err
		}
		g = append(g, parameter)
	}
	return g, nil
}
