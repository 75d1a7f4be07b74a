// Package models holds the wire types exchanged between the client, the
// master and the workers.
package models

// SuiteSettings is the suite submission payload. CandidateParameters carries
// the raw parameter file fields: two entries for a fixed value, four for a
// range.
type SuiteSettings struct {
	CandidateSource       string     `json:"candidate_source"`
	CandidateName         string     `json:"candidate_name"`
	CandidateParameters   [][]string `json:"candidate_parameters"`
	CandidateRequirements []string   `json:"candidate_requirements"`
	DataName              string     `json:"data_name,omitempty"`
	// MasterAddress is the address workers call back on; Workers seeds the
	// worker pool when the master has none registered yet.
	MasterAddress string   `json:"master_address,omitempty"`
	Workers       []string `json:"workers,omitempty"`
}

type SuiteCreated struct {
	SuiteId string `json:"suite_id"`
}

type ExperimentStatus struct {
	Id     string `json:"id"`
	Status string `json:"status"`
}

type SuiteStatus struct {
	SuiteId     string             `json:"suite_id"`
	Experiments []ExperimentStatus `json:"experiments"`
}

// ExperimentFilter narrows a suite status listing. Zero fields match
// everything.
type ExperimentFilter struct {
	Status string `json:"status,omitempty"`
}

type StatusUpdate struct {
	Status string `json:"status"`
}

// SetupRequest initializes a worker environment for a suite.
type SetupRequest struct {
	MasterAddress string   `json:"master_address"`
	SuiteId       string   `json:"suite_id"`
	CandidateId   string   `json:"candidate_id"`
	Requirements  []string `json:"requirements"`
	Datasets      []string `json:"datasets"`
}

// RunRequest dispatches one experiment to a worker.
type RunRequest struct {
	SuiteId       string `json:"suite_id"`
	DataName      string `json:"data_name"`
	ExperimentId  string `json:"experiment_id"`
	MasterAddress string `json:"master_address"`
	Parameters    string `json:"parameters"`
}
