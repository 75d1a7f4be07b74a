package suite

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/svmpsp/bad-framework/internal/grid"
	"github.com/svmpsp/bad-framework/internal/models"
)

// Candidate files declare a single class; its name identifies the candidate.
var candidateClassName = regexp.MustCompile(`^class\s+(\w+)[(:]`)

var fieldSplitter = regexp.MustCompile(`\s+`)

// SubmissionDefaults are the experiment parameters every suite carries in
// addition to the candidate's own.
type SubmissionDefaults struct {
	Seed         int
	TrainsetSize float64
}

// SubmissionFiles names the local files a suite is submitted from.
// Requirements and Workers are optional; an empty workers path leaves the
// worker pool to whatever the master already has.
type SubmissionFiles struct {
	Candidate    string
	Parameters   string
	Requirements string
	Workers      string
}

// LoadSubmission reads the local submission files and builds the suite
// payload. Parameter specifications are validated here so a bad range fails
// before anything reaches the master.
func LoadSubmission(fs afero.Fs, files SubmissionFiles, dataName string, defaults SubmissionDefaults) (*models.SuiteSettings, error) {
	source, err := afero.ReadFile(fs, files.Candidate)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read candidate file %s", files.Candidate)
	}
	name, err := candidateName(string(source))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid candidate file %s", files.Candidate)
	}

	parameterRows, err := loadParameterRows(fs, files.Parameters, defaults)
	if err != nil {
		return nil, err
	}

	requirements := make([]string, 0)
	if files.Requirements != "" {
		content, err := afero.ReadFile(fs, files.Requirements)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read requirements file %s", files.Requirements)
		}
		requirements = ParseRequirements(string(content))
	}

	workers := make([]string, 0)
	if files.Workers != "" {
		content, err := afero.ReadFile(fs, files.Workers)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read workers file %s", files.Workers)
		}
		workers = ParseWorkers(string(content))
	}

	return &models.SuiteSettings{
		CandidateSource:       string(source),
		CandidateName:         name,
		CandidateParameters:   parameterRows,
		CandidateRequirements: requirements,
		DataName:              dataName,
		Workers:               workers,
	}, nil
}

func candidateName(source string) (string, error) {
	for _, line := range strings.Split(source, "\n") {
		if match := candidateClassName.FindStringSubmatch(line); match != nil {
			return match[1], nil
		}
	}
	return "", errors.New("no class definition found")
}

func loadParameterRows(fs afero.Fs, path string, defaults SubmissionDefaults) ([][]string, error) {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read parameter file %s", path)
	}

	rows := make([][]string, 0)
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(strings.SplitN(line, "#", 2)[0])
		if line == "" {
			continue
		}
		fields := fieldSplitter.Split(line, -1)
		if _, err := grid.ParseParameterFields(fields); err != nil {
			return nil, err
		}
		rows = append(rows, fields)
	}

	rows = append(rows,
		[]string{"seed", strconv.Itoa(defaults.Seed)},
		[]string{"trainset_size", strconv.FormatFloat(defaults.TrainsetSize, 'f', -1, 64)},
	)
	return rows, nil
}

// ParseRequirements parses a pip-style requirements file. Comments and blank
// lines are dropped and the result is sorted so equal requirement sets
// serialize identically.
func ParseRequirements(content string) []string {
	requirements := make([]string, 0)
	for _, line := range strings.Split(content, "\n") {
		requirement := strings.TrimSpace(strings.SplitN(line, "#", 2)[0])
		if requirement != "" {
			requirements = append(requirements, requirement)
		}
	}
	sort.Strings(requirements)
	return requirements
}

// ParseWorkers parses a worker list file with one "hostname:port" per line.
func ParseWorkers(content string) []string {
	workers := make([]string, 0)
	for _, line := range strings.Split(content, "\n") {
		worker := strings.TrimSpace(strings.SplitN(line, "#", 2)[0])
		if worker != "" {
			workers = append(workers, worker)
		}
	}
	return workers
}
