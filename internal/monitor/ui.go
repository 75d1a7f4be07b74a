package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/svmpsp/bad-framework/internal/models"
	"github.com/svmpsp/bad-framework/internal/store"
)

const progressBarWidth = 40

func (m *Monitor) render(status *models.SuiteStatus, elapsed time.Duration) {
	completed, failed := 0, 0
	for _, experiment := range status.Experiments {
		switch experiment.Status {
		case store.StatusCompleted.String():
			completed++
		case store.StatusFailed.String():
			failed++
		}
	}
	terminal := completed + failed

	fmt.Fprintf(m.out, "\r%s %d/%d elapsed %s",
		progressBar(terminal, len(status.Experiments)),
		completed,
		len(status.Experiments),
		formatElapsed(elapsed),
	)
	if failed > 0 {
		fmt.Fprintf(m.out, " (%d failed)", failed)
	}
	if terminal == len(status.Experiments) {
		fmt.Fprintln(m.out)
	}
}

func progressBar(done, total int) string {
	if total == 0 {
		return "[" + strings.Repeat("=", progressBarWidth) + "]"
	}
	filled := done * progressBarWidth / total
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", progressBarWidth-filled) + "]"
}

func formatElapsed(elapsed time.Duration) string {
	seconds := int64(elapsed.Seconds())
	return fmt.Sprintf("%d:%02d:%02d", seconds/3600, (seconds/60)%60, seconds%60)
}
