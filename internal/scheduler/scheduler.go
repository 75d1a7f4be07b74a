// Package scheduler assigns the experiments of a suite to workers.
package scheduler

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/svmpsp/bad-framework/internal/models"
	"github.com/svmpsp/bad-framework/internal/store"
	"github.com/svmpsp/bad-framework/internal/workerapi"
	ltime "github.com/svmpsp/bad-framework/pkg/time"
)

const defaultDispatchPause = 100 * time.Millisecond

type Config struct {
	DispatchPause time.Duration `env:"SCHEDULER_DISPATCH_PAUSE" envDefault:"100ms"`
}

// Scheduler walks the pending experiments of a suite and dispatches them to
// workers round-robin, keeping at most one running experiment per worker.
type Scheduler struct {
	store      store.Store
	dispatcher workerapi.Dispatcher
	sleeper    ltime.Sleeper
	pause      time.Duration
}

func NewScheduler(store store.Store, dispatcher workerapi.Dispatcher, sleeper ltime.Sleeper, cfg *Config) *Scheduler {
	pause := defaultDispatchPause
	if cfg != nil && cfg.DispatchPause > 0 {
		pause = cfg.DispatchPause
	}
	return &Scheduler{
		store:      store,
		dispatcher: dispatcher,
		sleeper:    sleeper,
		pause:      pause,
	}
}

// Run dispatches every pending experiment of the suite and returns once the
// dispatch queue is empty. It does not wait for the dispatched experiments to
// complete; workers report completion to the master on their own.
func (s *Scheduler) Run(ctx context.Context, suiteId string) error {
	workers, err := s.store.Workers().ListWorkers(ctx)
	if err != nil {
		return errors.Wrapf(err, "failed to list workers for suite %s", suiteId)
	}
	if len(workers) == 0 {
		return errors.Errorf("no workers available for suite %s", suiteId)
	}

	experiments, err := s.store.Experiments().ListExperimentsBySuite(ctx, suiteId)
	if err != nil {
		return errors.Wrapf(err, "failed to list experiments for suite %s", suiteId)
	}

	// Pending experiments are dispatched in creation order.
	todo := make([]string, 0, len(experiments))
	for _, experiment := range experiments {
		if experiment.Status == store.StatusCreated {
			todo = append(todo, experiment.Id)
		}
	}

	log.Printf("scheduling %d experiments on %d workers for suite %s", len(todo), len(workers), suiteId)

	cursor := 0
	for len(todo) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		running, err := s.countRunning(ctx, suiteId)
		if err != nil {
			return errors.Wrapf(err, "failed to count running experiments for suite %s", suiteId)
		}

		if running < len(workers) {
			experimentId := todo[0]
			todo = todo[1:]

			worker := workers[cursor%len(workers)]
			cursor++

			if err := s.dispatch(ctx, experimentId, worker); err != nil {
				// The experiment stays SCHEDULED; failed dispatches are not
				// retried and do not stop the remaining experiments.
				log.Printf("failed to dispatch experiment %s to worker %s: %v", experimentId, worker.Address(), err)
			}
		}

		s.sleeper.Sleep(s.pause)
	}

	log.Printf("dispatch queue for suite %s is empty", suiteId)
	return nil
}

func (s *Scheduler) countRunning(ctx context.Context, suiteId string) (int, error) {
	experiments, err := s.store.Experiments().ListExperimentsBySuite(ctx, suiteId)
	if err != nil {
		return 0, err
	}
	running := 0
	for _, experiment := range experiments {
		if experiment.Status == store.StatusRunning {
			running++
		}
	}
	return running, nil
}

func (s *Scheduler) dispatch(ctx context.Context, experimentId string, worker *store.Worker) error {
	experiment, err := s.store.Experiments().GetExperiment(ctx, experimentId)
	if err != nil {
		return err
	}

	// Marked before the send so a worker reporting RUNNING right away never
	// races an unscheduled experiment.
	if _, err := s.store.Experiments().UpdateExperimentStatus(ctx, experimentId, store.StatusScheduled); err != nil {
		return err
	}

	return s.dispatcher.Run(ctx, worker.Address(), &models.RunRequest{
		SuiteId:       experiment.SuiteId,
		DataName:      experiment.DatasetName,
		ExperimentId:  experiment.Id,
		MasterAddress: worker.MasterAddress,
		Parameters:    experiment.Parameters,
	})
}
