// Package monitor polls the master for suite progress and renders it to a
// terminal.
package monitor

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/svmpsp/bad-framework/internal/models"
	"github.com/svmpsp/bad-framework/internal/store"
	ltime "github.com/svmpsp/bad-framework/pkg/time"
)

// PollInterval is the heartbeat between status polls.
const PollInterval = 1 * time.Second

// Poller fetches a fresh suite status snapshot.
type Poller interface {
	SuiteStatus(ctx context.Context, suiteId string) (*models.SuiteStatus, error)
}

// Summary counts the experiments of a finished suite by outcome.
type Summary struct {
	Total     int
	Completed int
	Failed    int
}

// Monitor tracks a suite until every experiment reaches a terminal state.
// The ticker paces the polls and stays owned by the caller.
type Monitor struct {
	poller Poller
	ticker ltime.Ticker
	watch  ltime.Watch
	out    io.Writer
}

func NewMonitor(poller Poller, ticker ltime.Ticker, watch ltime.Watch, out io.Writer) *Monitor {
	return &Monitor{
		poller: poller,
		ticker: ticker,
		watch:  watch,
		out:    out,
	}
}

// Wait polls the suite status until all experiments are terminal and returns
// the outcome counts. Each poll replaces the previous snapshot wholesale, so
// a transiently inconsistent read heals on the next cycle. A suite the
// master does not know is a fatal error.
func (m *Monitor) Wait(ctx context.Context, suiteId string) (*Summary, error) {
	started := m.watch.Now()

	status, err := m.poller.SuiteStatus(ctx, suiteId)
	if err != nil {
		return nil, errors.Wrapf(err, "suite %s cannot be monitored", suiteId)
	}

	for !allTerminal(status) {
		m.render(status, m.watch.Now().Sub(started))

		select {
		case <-m.ticker.Channel():
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		status, err = m.poller.SuiteStatus(ctx, suiteId)
		if err != nil {
			return nil, errors.Wrapf(err, "lost contact with master while monitoring suite %s", suiteId)
		}
	}
	m.render(status, m.watch.Now().Sub(started))

	return summarize(status), nil
}

func allTerminal(status *models.SuiteStatus) bool {
	for _, experiment := range status.Experiments {
		parsed, err := store.ParseStatus(experiment.Status)
		if err != nil || !parsed.Terminal() {
			return false
		}
	}
	return true
}

func summarize(status *models.SuiteStatus) *Summary {
	summary := &Summary{Total: len(status.Experiments)}
	for _, experiment := range status.Experiments {
		switch experiment.Status {
		case store.StatusCompleted.String():
			summary.Completed++
		case store.StatusFailed.String():
			summary.Failed++
		}
	}
	return summary
}
