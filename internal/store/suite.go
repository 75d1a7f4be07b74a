package store

import (
	"context"
	"time"
)

type Suite struct {
	Id        string
	CreatedTs time.Time
}

type SuiteService interface {
	CreateSuite(ctx context.Context) (*Suite, error)
	GetSuite(ctx context.Context, id string) (*Suite, error)
	ListSuites(ctx context.Context) ([]*Suite, error)
}
