package scheduler

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/svmpsp/bad-framework/internal/models"
	"github.com/svmpsp/bad-framework/internal/store"
	"github.com/svmpsp/bad-framework/internal/workerapi"
)

// Initializer prepares worker environments before scheduling starts.
type Initializer struct {
	store      store.Store
	dispatcher workerapi.Dispatcher
}

func NewInitializer(store store.Store, dispatcher workerapi.Dispatcher) *Initializer {
	return &Initializer{store: store, dispatcher: dispatcher}
}

// SetupWorkers initializes every registered worker for a suite concurrently
// and blocks until all of them finish. If any worker fails, the whole setup
// fails and the suite must not be scheduled.
func (i *Initializer) SetupWorkers(ctx context.Context, suiteId string, candidateId string, requirements []string, datasets []string) error {
	workers, err := i.store.Workers().ListWorkers(ctx)
	if err != nil {
		return errors.Wrapf(err, "failed to list workers for suite %s", suiteId)
	}

	// Every failed worker is reported, not just the first one.
	var mu sync.Mutex
	var failures *multierror.Error

	group, ctx := errgroup.WithContext(ctx)
	for _, worker := range workers {
		worker := worker
		group.Go(func() error {
			log.Printf("initializing worker %s for suite %s", worker.Address(), suiteId)
			err := i.dispatcher.Setup(ctx, worker.Address(), &models.SetupRequest{
				MasterAddress: worker.MasterAddress,
				SuiteId:       suiteId,
				CandidateId:   candidateId,
				Requirements:  requirements,
				Datasets:      datasets,
			})
			if err != nil {
				mu.Lock()
				failures = multierror.Append(failures, errors.Wrapf(err, "worker %s", worker.Address()))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = group.Wait()

	if err := failures.ErrorOrNil(); err != nil {
		return errors.Wrapf(err, "worker setup failed for suite %s", suiteId)
	}
	return nil
}
