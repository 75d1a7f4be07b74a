package workerapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svmpsp/bad-framework/internal/models"
	cbhttp "github.com/svmpsp/bad-framework/pkg/clientbase/http"
)

func newMasterClient(t *testing.T, handler http.Handler) (*MasterClient, func()) {
	t.Helper()

	server := httptest.NewServer(handler)
	client, err := cbhttp.NewInstance(&cbhttp.Config{Timeout: 5 * time.Second})
	require.NoError(t, err)

	parsed, err := url.Parse(server.URL)
	require.NoError(t, err)

	return NewMasterClient(client, parsed.Host), func() {
		server.Close()
		client.Close()
	}
}

func TestSubmitSuite(t *testing.T) {
	var received models.SuiteSettings
	mux := http.NewServeMux()
	mux.HandleFunc("/suite", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(&models.SuiteCreated{SuiteId: "suit00000001"})
	})

	client, cleanup := newMasterClient(t, mux)
	defer cleanup()

	suiteId, err := client.SubmitSuite(context.Background(), &models.SuiteSettings{
		CandidateName:       "KNN",
		CandidateParameters: [][]string{{"k", "3"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "suit00000001", suiteId)
	assert.Equal(t, "KNN", received.CandidateName)
}

func TestSuiteStatusFilteredSendsQuery(t *testing.T) {
	var query url.Values
	mux := http.NewServeMux()
	mux.HandleFunc("/suite/suit00000001/experiments", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		json.NewEncoder(w).Encode(&models.SuiteStatus{
			SuiteId: "suit00000001",
			Experiments: []models.ExperimentStatus{
				{Id: "expe00000001", Status: "completed"},
			},
		})
	})

	client, cleanup := newMasterClient(t, mux)
	defer cleanup()

	status, err := client.SuiteStatusFiltered(context.Background(), "suit00000001", &models.ExperimentFilter{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, "completed", query.Get("status"))
	require.Len(t, status.Experiments, 1)
	assert.Equal(t, "expe00000001", status.Experiments[0].Id)
}

func TestSuiteStatusNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such suite", http.StatusNotFound)
	})

	client, cleanup := newMasterClient(t, mux)
	defer cleanup()

	_, err := client.SuiteStatus(context.Background(), "suitmissing0")
	assert.Error(t, err)
}

func TestDownloadDump(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/suite/suit00000001/dump", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("experiment_id,data\nexpe00000001,shuttle\n"))
	})

	client, cleanup := newMasterClient(t, mux)
	defer cleanup()

	var out bytes.Buffer
	require.NoError(t, client.DownloadDump(context.Background(), "suit00000001", &out))
	assert.Contains(t, out.String(), "expe00000001")
}

func TestUploadResultsMultipart(t *testing.T) {
	var metricsContent, rocContent []byte
	mux := http.NewServeMux()
	mux.HandleFunc("/experiment/expe00000001/results", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		metricsFile, _, err := r.FormFile("metrics")
		require.NoError(t, err)
		defer metricsFile.Close()
		var buf bytes.Buffer
		buf.ReadFrom(metricsFile)
		metricsContent = append([]byte(nil), buf.Bytes()...)

		rocFile, _, err := r.FormFile("roc")
		require.NoError(t, err)
		defer rocFile.Close()
		buf.Reset()
		buf.ReadFrom(rocFile)
		rocContent = append([]byte(nil), buf.Bytes()...)

		w.WriteHeader(http.StatusOK)
	})

	client, cleanup := newMasterClient(t, mux)
	defer cleanup()

	err := client.UploadResults(context.Background(), "expe00000001",
		[]byte(`{"roc_auc":0.9}`), []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, `{"roc_auc":0.9}`, string(metricsContent))
	assert.Equal(t, "png-bytes", string(rocContent))
}

func TestUpdateExperimentStatus(t *testing.T) {
	var received models.StatusUpdate
	mux := http.NewServeMux()
	mux.HandleFunc("/experiment/expe00000001/status", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	})

	client, cleanup := newMasterClient(t, mux)
	defer cleanup()

	require.NoError(t, client.UpdateExperimentStatus(context.Background(), "expe00000001", "running"))
	assert.Equal(t, "running", received.Status)
}
