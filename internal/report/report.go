// Package report aggregates suite results into status documents and CSV
// dumps.
package report

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/svmpsp/bad-framework/internal/grid"
	"github.com/svmpsp/bad-framework/internal/models"
	"github.com/svmpsp/bad-framework/internal/store"
)

// Metrics is the document a worker writes after evaluating a candidate on a
// dataset. Extra keys are ignored.
type Metrics struct {
	RocAuc           float64 `json:"roc_auc"`
	AveragePrecision float64 `json:"average_precision"`
}

// Reporter builds suite-level views from the entity store.
type Reporter struct {
	store store.Store
	fs    afero.Fs
}

func NewReporter(store store.Store, fs afero.Fs) *Reporter {
	return &Reporter{store: store, fs: fs}
}

// SuiteStatus returns the status of every experiment in the suite, in
// creation order.
func (r *Reporter) SuiteStatus(ctx context.Context, suiteId string) (*models.SuiteStatus, error) {
	if _, err := r.store.Suites().GetSuite(ctx, suiteId); err != nil {
		return nil, err
	}

	experiments, err := r.store.Experiments().ListExperimentsBySuite(ctx, suiteId)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list experiments for suite %s", suiteId)
	}

	status := &models.SuiteStatus{
		SuiteId:     suiteId,
		Experiments: make([]models.ExperimentStatus, 0, len(experiments)),
	}
	for _, experiment := range experiments {
		status.Experiments = append(status.Experiments, models.ExperimentStatus{
			Id:     experiment.Id,
			Status: experiment.Status.String(),
		})
	}
	return status, nil
}

// WriteDump writes the suite results as CSV. Only completed experiments
// produce rows; experiments in any other state are left out so a dump taken
// mid-run is a valid partial result set.
func (r *Reporter) WriteDump(ctx context.Context, suiteId string, out io.Writer) error {
	if _, err := r.store.Suites().GetSuite(ctx, suiteId); err != nil {
		return err
	}

	candidate, err := r.store.Candidates().GetCandidateBySuite(ctx, suiteId)
	if err != nil {
		return errors.Wrapf(err, "failed to load candidate for suite %s", suiteId)
	}

	experiments, err := r.store.Experiments().ListExperimentsBySuite(ctx, suiteId)
	if err != nil {
		return errors.Wrapf(err, "failed to list experiments for suite %s", suiteId)
	}

	// Parameter columns come after the fixed columns, in lexicographic order.
	paramNames := candidate.Parameters.Names()
	sort.Strings(paramNames)

	writer := csv.NewWriter(out)
	header := []string{"experiment_id", "execution_time_microseconds", "data", "candidate", "roc_auc", "average_precision"}
	header = append(header, paramNames...)
	if err := writer.Write(header); err != nil {
		return errors.Wrap(err, "failed to write dump header")
	}

	for _, experiment := range experiments {
		if experiment.Status != store.StatusCompleted {
			continue
		}

		metrics, err := r.loadMetrics(experiment.MetricsPath)
		if err != nil {
			log.Printf("skipping experiment %s in dump: %v", experiment.Id, err)
			continue
		}

		parameters, err := grid.ParseParameterString(experiment.Parameters)
		if err != nil {
			return errors.Wrapf(err, "corrupt parameters on experiment %s", experiment.Id)
		}

		row := []string{
			experiment.Id,
			strconv.FormatInt(experiment.ExecutionTime(), 10),
			experiment.DatasetName,
			candidate.Name,
			strconv.FormatFloat(metrics.RocAuc, 'f', -1, 64),
			strconv.FormatFloat(metrics.AveragePrecision, 'f', -1, 64),
		}
		for _, name := range paramNames {
			row = append(row, parameters[name])
		}
		if err := writer.Write(row); err != nil {
			return errors.Wrapf(err, "failed to write dump row for experiment %s", experiment.Id)
		}
	}

	writer.Flush()
	return errors.Wrap(writer.Error(), "failed to flush dump")
}

func (r *Reporter) loadMetrics(path string) (*Metrics, error) {
	content, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read metrics file %s", path)
	}
	var metrics Metrics
	if err := json.Unmarshal(content, &metrics); err != nil {
		return nil, errors.Wrapf(err, "failed to parse metrics file %s", path)
	}
	return &metrics, nil
}
