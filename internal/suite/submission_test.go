package suite

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svmpsp/bad-framework/internal/grid"
)

const candidateSource = `import numpy as np


class LocalOutlierFactor(BaseCandidate):
    def __init__(self, **kwargs):
        self.k = int(kwargs["k"])
`

func writeFiles(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return fs
}

func TestLoadSubmission(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"candidate.py":     candidateSource,
		"parameters.txt":   "k 1 3 1\n",
		"requirements.txt": "scikit-learn\nnumpy  # arrays\n",
	})

	files := SubmissionFiles{Candidate: "candidate.py", Parameters: "parameters.txt", Requirements: "requirements.txt"}
	settings, err := LoadSubmission(fs, files, "shuttle", SubmissionDefaults{Seed: 42, TrainsetSize: 1.0})
	require.NoError(t, err)

	assert.Equal(t, "LocalOutlierFactor", settings.CandidateName)
	assert.Equal(t, candidateSource, settings.CandidateSource)
	assert.Equal(t, "shuttle", settings.DataName)
	assert.Equal(t, []string{"numpy", "scikit-learn"}, settings.CandidateRequirements)

	// the default parameters ride along with the candidate's own
	require.Len(t, settings.CandidateParameters, 3)
	assert.Equal(t, []string{"k", "1", "3", "1"}, settings.CandidateParameters[0])
	assert.Equal(t, []string{"seed", "42"}, settings.CandidateParameters[1])
	assert.Equal(t, []string{"trainset_size", "1"}, settings.CandidateParameters[2])
}

func TestLoadSubmissionNoRequirementsFile(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"candidate.py":   candidateSource,
		"parameters.txt": "k 3\n",
	})

	settings, err := LoadSubmission(fs, SubmissionFiles{Candidate: "candidate.py", Parameters: "parameters.txt"}, "", SubmissionDefaults{Seed: 42, TrainsetSize: 1.0})
	require.NoError(t, err)
	assert.Empty(t, settings.CandidateRequirements)
	assert.Empty(t, settings.Workers)
}

func TestLoadSubmissionInvalidRangeFailsEarly(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"candidate.py":   candidateSource,
		"parameters.txt": "k 10 1 1\n",
	})

	_, err := LoadSubmission(fs, SubmissionFiles{Candidate: "candidate.py", Parameters: "parameters.txt"}, "", SubmissionDefaults{})
	require.Error(t, err)
	assert.ErrorIs(t, err, grid.ErrInvalidParameter)
}

func TestLoadSubmissionNoClassInCandidate(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"candidate.py":   "def score(x):\n    return 0\n",
		"parameters.txt": "k 3\n",
	})

	_, err := LoadSubmission(fs, SubmissionFiles{Candidate: "candidate.py", Parameters: "parameters.txt"}, "", SubmissionDefaults{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid candidate file")
}

func TestLoadSubmissionWithWorkersFile(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"candidate.py":   candidateSource,
		"parameters.txt": "k 3\n",
		"workers.txt":    "# cluster nodes\nnode-1:3291\nnode-2:3291\n",
	})

	files := SubmissionFiles{Candidate: "candidate.py", Parameters: "parameters.txt", Workers: "workers.txt"}
	settings, err := LoadSubmission(fs, files, "", SubmissionDefaults{Seed: 42, TrainsetSize: 1.0})
	require.NoError(t, err)
	assert.Equal(t, []string{"node-1:3291", "node-2:3291"}, settings.Workers)
}

func TestParseRequirementsSorted(t *testing.T) {
	requirements := ParseRequirements("scipy\n# build tools\nnumpy\n\nmatplotlib  # plotting\n")
	assert.Equal(t, []string{"matplotlib", "numpy", "scipy"}, requirements)
}

func TestParseWorkers(t *testing.T) {
	workers := ParseWorkers("# cluster nodes\nnode-1:3291\nnode-2:3291\n\n")
	assert.Equal(t, []string{"node-1:3291", "node-2:3291"}, workers)
}

func TestSubmissionParametersExpand(t *testing.T) {
	// the wire rows parse back into the same grid the master will expand
	rows := [][]string{{"k", "1", "3", "1"}, {"seed", "42"}}
	g := make(grid.Grid, 0)
	for _, row := range rows {
		parameter, err := grid.ParseParameterFields(row)
		require.NoError(t, err)
		g = append(g, parameter)
	}
	assert.Len(t, grid.Settings([]string{"shuttle", "kddcup99"}, g), 6)
}
