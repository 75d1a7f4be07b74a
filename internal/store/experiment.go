package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

type ExperimentStatus int

const (
	StatusCreated ExperimentStatus = iota
	StatusScheduled
	StatusRunning
	StatusCompleted
	StatusFailed
)

var ErrInvalidTransition = errors.New("invalid status transition")
var ErrUnknownStatus = errors.New("unknown experiment status")

// String maps every status to its canonical wire string. The mapping is
// total: all five states are covered, there is no default fallthrough.
func (s ExperimentStatus) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusScheduled:
		return "scheduled"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	}
	return ""
}

func ParseStatus(status string) (ExperimentStatus, error) {
	for _, s := range []ExperimentStatus{StatusCreated, StatusScheduled, StatusRunning, StatusCompleted, StatusFailed} {
		if s.String() == status {
			return s, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownStatus, "%q", status)
}

// Terminal reports whether no further transitions can occur.
func (s ExperimentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Experiment is one (dataset, parameter assignment) unit of work. Created in
// bulk at suite creation, mutated only through status transitions, never
// deleted.
type Experiment struct {
	Id          string
	SuiteId     string
	CandidateId string
	DatasetName string
	Parameters  string
	Status      ExperimentStatus
	StartedTs   time.Time
	CompletedTs time.Time
	MetricsPath string
	RocPath     string
}

// Transition advances the experiment status. Transitions are strictly
// forward: CREATED -> SCHEDULED -> RUNNING -> {COMPLETED | FAILED}.
// RUNNING stamps the work start time, COMPLETED the completion time.
func (e *Experiment) Transition(status ExperimentStatus, now time.Time) error {
	if e.Status.Terminal() || status <= e.Status {
		return errors.Wrapf(ErrInvalidTransition, "%s -> %s", e.Status, status)
	}
	if status == StatusRunning {
		e.StartedTs = now
	}
	if status == StatusCompleted {
		e.CompletedTs = now
	}
	e.Status = status
	return nil
}

// ExecutionTime is the elapsed run duration in whole microseconds, defined
// only for completed experiments.
func (e *Experiment) ExecutionTime() int64 {
	return e.CompletedTs.Sub(e.StartedTs).Microseconds()
}

type ExperimentService interface {
	CreateExperiment(ctx context.Context, suiteId, candidateId, datasetName, parameters string) (*Experiment, error)
	GetExperiment(ctx context.Context, id string) (*Experiment, error)
	ListExperimentsBySuite(ctx context.Context, suiteId string) ([]*Experiment, error)
	UpdateExperimentStatus(ctx context.Context, id string, status ExperimentStatus) (*Experiment, error)
	AttachExperimentResults(ctx context.Context, id, metricsPath, rocPath string) (*Experiment, error)
}
