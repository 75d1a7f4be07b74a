package scheduler

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Manager runs one scheduling loop per submitted suite in the background.
type Manager struct {
	scheduler *Scheduler
	context   context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func NewManager(ctx context.Context, scheduler *Scheduler) *Manager {
	ctx, cancel := context.WithCancel(ctx)
	return &Manager{
		scheduler: scheduler,
		context:   ctx,
		cancel:    cancel,
	}
}

// Launch starts the scheduling loop for a suite. Submission returns to the
// client immediately; the loop keeps dispatching until its queue drains.
func (m *Manager) Launch(suiteId string) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		if err := m.scheduler.Run(m.context, suiteId); err != nil {
			log.Printf("scheduling loop for suite %s failed: %v", suiteId, err)
		}
	}()
}

func (m *Manager) Finish() {
	m.cancel()
	m.wg.Wait()
}
