package store

import (
	"context"
)

// Dataset is a benchmark data file. The name is the unique lookup key.
type Dataset struct {
	Id   string
	Name string
	Path string
}

type DatasetService interface {
	CreateDataset(ctx context.Context, name, path string) (*Dataset, error)
	GetDatasetByName(ctx context.Context, name string) (*Dataset, error)
	ListDatasets(ctx context.Context) ([]*Dataset, error)
}
