package worker

import (
	"context"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// RunSpec describes one candidate execution.
type RunSpec struct {
	CandidatePath string
	DatasetPath   string
	Parameters    string
	ScratchDir    string
}

// RunResult carries the artifacts a successful run leaves in its scratch
// directory.
type RunResult struct {
	Metrics []byte
	RocPlot []byte
}

// CandidateRunner executes a candidate against a dataset. A non-nil error
// marks the experiment failed.
type CandidateRunner interface {
	Run(ctx context.Context, spec RunSpec) (*RunResult, error)
}

// ExecRunner shells out to an interpreter that loads the candidate, scores
// the dataset and writes metrics.json and roc.png into the scratch
// directory.
type ExecRunner struct {
	fs          afero.Fs
	interpreter string
	script      string
}

var _ CandidateRunner = &ExecRunner{}

func NewExecRunner(fs afero.Fs, interpreter, script string) *ExecRunner {
	return &ExecRunner{
		fs:          fs,
		interpreter: interpreter,
		script:      script,
	}
}

func (r *ExecRunner) Run(ctx context.Context, spec RunSpec) (*RunResult, error) {
	if err := r.fs.MkdirAll(spec.ScratchDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create scratch directory")
	}

	cmd := exec.CommandContext(ctx, r.interpreter, r.script,
		"--candidate", spec.CandidatePath,
		"--data", spec.DatasetPath,
		"--parameters", spec.Parameters,
		"--output", spec.ScratchDir,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, errors.Wrapf(err, "candidate execution failed: %s", output)
	}

	metrics, err := afero.ReadFile(r.fs, filepath.Join(spec.ScratchDir, "metrics.json"))
	if err != nil {
		return nil, errors.Wrap(err, "candidate produced no metrics file")
	}
	rocPlot, err := afero.ReadFile(r.fs, filepath.Join(spec.ScratchDir, "roc.png"))
	if err != nil {
		return nil, errors.Wrap(err, "candidate produced no roc plot")
	}
	return &RunResult{Metrics: metrics, RocPlot: rocPlot}, nil
}
