package memory

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/svmpsp/bad-framework/internal/store"
)

type Datasets struct {
	mu    sync.Mutex
	byId  map[string]*store.Dataset
	order []string
}

var _ store.DatasetService = &Datasets{}

func NewDatasets() *Datasets {
	return &Datasets{
		byId: make(map[string]*store.Dataset),
	}
}

func (d *Datasets) CreateDataset(ctx context.Context, name, path string) (*store.Dataset, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	dataset := &store.Dataset{
		Id:   store.NewID("dataset"),
		Name: name,
		Path: path,
	}
	d.byId[dataset.Id] = dataset
	d.order = append(d.order, dataset.Id)

	copied := *dataset
	return &copied, nil
}

func (d *Datasets) GetDatasetByName(ctx context.Context, name string) (*store.Dataset, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, id := range d.order {
		if d.byId[id].Name == name {
			copied := *d.byId[id]
			return &copied, nil
		}
	}
	return nil, errors.Wrapf(store.ErrNotFound, "dataset %s", name)
}

func (d *Datasets) ListDatasets(ctx context.Context) ([]*store.Dataset, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	datasets := make([]*store.Dataset, 0, len(d.order))
	for _, id := range d.order {
		copied := *d.byId[id]
		datasets = append(datasets, &copied)
	}
	return datasets, nil
}
