package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svmpsp/bad-framework/internal/models"
	"github.com/svmpsp/bad-framework/internal/workerapi"
	cbhttp "github.com/svmpsp/bad-framework/pkg/clientbase/http"
	sbhttpbase "github.com/svmpsp/bad-framework/pkg/serverbase/http/base"
)

// fakeMaster records the callbacks a worker makes during an experiment.
type fakeMaster struct {
	mu            sync.Mutex
	statusUpdates []string
	resultUploads int
	candidate     string
	datasets      map[string]string
}

func (m *fakeMaster) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/experiment/", func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()
		if strings.HasSuffix(r.URL.Path, "/results") {
			m.resultUploads++
			w.WriteHeader(http.StatusOK)
			return
		}
		var update models.StatusUpdate
		json.NewDecoder(r.Body).Decode(&update)
		m.statusUpdates = append(m.statusUpdates, update.Status)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/candidate/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(m.candidate))
	})
	mux.HandleFunc("/dataset/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/dataset/")
		content, ok := m.datasets[name]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Write([]byte(content))
	})
	return mux
}

type workerFixture struct {
	master  *fakeMaster
	address string
	fs      afero.Fs
	env     *Environment
	dial    MasterDialer
}

func newWorkerFixture(t *testing.T) (*workerFixture, func()) {
	t.Helper()

	master := &fakeMaster{
		candidate: "class KNN:\n    pass\n",
		datasets:  map[string]string{"shuttle": "@relation shuttle"},
	}
	server := httptest.NewServer(master.handler())

	client, err := cbhttp.NewInstance(&cbhttp.Config{Timeout: 5 * time.Second})
	require.NoError(t, err)

	parsed, err := url.Parse(server.URL)
	require.NoError(t, err)

	dial := func(masterAddress string) *workerapi.MasterClient {
		return workerapi.NewMasterClient(client, masterAddress)
	}

	fs := afero.NewMemMapFs()
	fixture := &workerFixture{
		master:  master,
		address: parsed.Host,
		fs:      fs,
		env:     NewEnvironment(fs, "home", dial, "pip3"),
		dial:    dial,
	}
	return fixture, func() {
		server.Close()
		client.Close()
	}
}

func TestEnvironmentSetup(t *testing.T) {
	f, cleanup := newWorkerFixture(t)
	defer cleanup()

	err := f.env.Setup(context.Background(), &models.SetupRequest{
		MasterAddress: f.address,
		SuiteId:       "suit00000001",
		CandidateId:   "cand00000001",
		Datasets:      []string{"shuttle"},
	})
	require.NoError(t, err)

	candidate, err := afero.ReadFile(f.fs, "home/suit00000001/candidate.py")
	require.NoError(t, err)
	assert.Equal(t, f.master.candidate, string(candidate))

	dataset, err := afero.ReadFile(f.fs, "home/datasets/shuttle.arff")
	require.NoError(t, err)
	assert.Equal(t, "@relation shuttle", string(dataset))
}

func TestEnvironmentSetupReusesCachedDataset(t *testing.T) {
	f, cleanup := newWorkerFixture(t)
	defer cleanup()

	require.NoError(t, afero.WriteFile(f.fs, "home/datasets/shuttle.arff", []byte("cached"), 0o644))

	err := f.env.Setup(context.Background(), &models.SetupRequest{
		MasterAddress: f.address,
		SuiteId:       "suit00000001",
		CandidateId:   "cand00000001",
		Datasets:      []string{"shuttle"},
	})
	require.NoError(t, err)

	dataset, err := afero.ReadFile(f.fs, "home/datasets/shuttle.arff")
	require.NoError(t, err)
	assert.Equal(t, "cached", string(dataset))
}

func TestEnvironmentSetupUnknownDataset(t *testing.T) {
	f, cleanup := newWorkerFixture(t)
	defer cleanup()

	err := f.env.Setup(context.Background(), &models.SetupRequest{
		MasterAddress: f.address,
		SuiteId:       "suit00000001",
		CandidateId:   "cand00000001",
		Datasets:      []string{"nonexistent"},
	})
	assert.Error(t, err)
}

// fakeRunner returns canned results without executing anything.
type fakeRunner struct {
	result *RunResult
	err    error
	specs  []RunSpec
}

func (r *fakeRunner) Run(ctx context.Context, spec RunSpec) (*RunResult, error) {
	r.specs = append(r.specs, spec)
	return r.result, r.err
}

func (f *workerFixture) newServer(runner CandidateRunner) *Server {
	return NewServer(context.Background(), f.env, runner, f.dial)
}

func postRun(t *testing.T, server *Server, req *models.RunRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	server.handleRun(&sbhttpbase.Request{
		Writer:  recorder,
		Request: httptest.NewRequest(http.MethodPost, "/run", bytes.NewReader(body)),
	})
	return recorder
}

func TestRunReportsRunningAndUploadsResults(t *testing.T) {
	f, cleanup := newWorkerFixture(t)
	defer cleanup()

	runner := &fakeRunner{result: &RunResult{
		Metrics: []byte(`{"roc_auc":0.9,"average_precision":0.8}`),
		RocPlot: []byte("png-bytes"),
	}}
	server := f.newServer(runner)

	recorder := postRun(t, server, &models.RunRequest{
		SuiteId:       "suit00000001",
		DataName:      "shuttle",
		ExperimentId:  "expe00000001",
		MasterAddress: f.address,
		Parameters:    "k=3;seed=42",
	})
	assert.Equal(t, http.StatusOK, recorder.Code)

	require.NoError(t, server.Shutdown())

	f.master.mu.Lock()
	defer f.master.mu.Unlock()
	assert.Equal(t, []string{"running"}, f.master.statusUpdates)
	assert.Equal(t, 1, f.master.resultUploads)

	require.Len(t, runner.specs, 1)
	assert.Equal(t, "home/suit00000001/candidate.py", runner.specs[0].CandidatePath)
	assert.Equal(t, "home/datasets/shuttle.arff", runner.specs[0].DatasetPath)
	assert.Equal(t, "k=3;seed=42", runner.specs[0].Parameters)
}

func TestRunReportsFailure(t *testing.T) {
	f, cleanup := newWorkerFixture(t)
	defer cleanup()

	runner := &fakeRunner{err: errors.New("candidate crashed")}
	server := f.newServer(runner)

	recorder := postRun(t, server, &models.RunRequest{
		SuiteId:       "suit00000001",
		DataName:      "shuttle",
		ExperimentId:  "expe00000001",
		MasterAddress: f.address,
		Parameters:    "k=3",
	})
	assert.Equal(t, http.StatusOK, recorder.Code)

	require.NoError(t, server.Shutdown())

	f.master.mu.Lock()
	defer f.master.mu.Unlock()
	assert.Equal(t, []string{"running", "failed"}, f.master.statusUpdates)
	assert.Equal(t, 0, f.master.resultUploads)
}

func TestSetupEndpoint(t *testing.T) {
	f, cleanup := newWorkerFixture(t)
	defer cleanup()

	server := f.newServer(&fakeRunner{})

	body, err := json.Marshal(&models.SetupRequest{
		MasterAddress: f.address,
		SuiteId:       "suit00000001",
		CandidateId:   "cand00000001",
		Datasets:      []string{"shuttle"},
	})
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	server.handleSetup(&sbhttpbase.Request{
		Writer:  recorder,
		Request: httptest.NewRequest(http.MethodPost, "/setup", bytes.NewReader(body)),
	})
	assert.Equal(t, http.StatusOK, recorder.Code)

	exists, err := afero.Exists(f.fs, "home/suit00000001/candidate.py")
	require.NoError(t, err)
	assert.True(t, exists)
}
