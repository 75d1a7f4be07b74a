package memory

import (
	"context"
	"sync"

	"github.com/svmpsp/bad-framework/internal/store"
)

type Workers struct {
	mu    sync.Mutex
	byId  map[string]*store.Worker
	order []string
}

var _ store.WorkerService = &Workers{}

func NewWorkers() *Workers {
	return &Workers{
		byId: make(map[string]*store.Worker),
	}
}

func (w *Workers) CreateWorker(ctx context.Context, hostname string, port int, masterAddress string) (*store.Worker, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	worker := &store.Worker{
		Id:            store.NewID("worker"),
		Hostname:      hostname,
		Port:          port,
		MasterAddress: masterAddress,
	}
	w.byId[worker.Id] = worker
	w.order = append(w.order, worker.Id)

	copied := *worker
	return &copied, nil
}

func (w *Workers) ListWorkers(ctx context.Context) ([]*store.Worker, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	workers := make([]*store.Worker, 0, len(w.order))
	for _, id := range w.order {
		copied := *w.byId[id]
		workers = append(workers, &copied)
	}
	return workers, nil
}
