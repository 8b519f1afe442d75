package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forgeci/internal/core"
)

const pipelineYAML = `
pipeline: demo
branches: [stable]
steps:
  - name: build
    run: echo building
  - name: test
    run: echo testing
configurations:
  - name: default
    steps: [build, test]
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	runner := core.NewRunner(core.NewExecutor(time.Minute))
	srv := httptest.NewServer(NewServer(runner, nil, []string{"stable"}).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func submitPipeline(t *testing.T, srv *httptest.Server, body string) string {
	t.Helper()
	resp, err := http.Post(srv.URL+"/pipelines", "application/x-yaml", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out["id"])
	return out["id"]
}

func trigger(t *testing.T, srv *httptest.Server, pipelineID, payload string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/pipelines/"+pipelineID+"/triggers", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

// waitForRun polls until the run reaches a terminal status.
func waitForRun(t *testing.T, srv *httptest.Server, runID string) *core.RunResult {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(srv.URL + "/runs/" + runID)
		require.NoError(t, err)

		var run core.RunResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
		resp.Body.Close()

		if run.Status.Terminal() {
			return &run
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("run %s did not finish in time", runID)
	return nil
}

func TestSubmitInvalidPipeline(t *testing.T) {
	srv := newTestServer(t)

	// Parse error.
	resp, err := http.Post(srv.URL+"/pipelines", "application/x-yaml", strings.NewReader("steps: [:::"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Validation error: configuration with no steps.
	bad := `
steps:
  - name: build
    run: echo hi
configurations:
  - name: default
    steps: []
`
	resp, err = http.Post(srv.URL+"/pipelines", "application/x-yaml", strings.NewReader(bad))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "has no steps")
}

func TestTriggerAndRun(t *testing.T) {
	srv := newTestServer(t)
	id := submitPipeline(t, srv, pipelineYAML)

	resp, out := trigger(t, srv, id, `{"event":"push","branch":"stable"}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, true, out["triggered"])
	runID := out["id"].(string)

	run := waitForRun(t, srv, runID)
	assert.Equal(t, core.StatusPassed, run.Status)
	require.Len(t, run.Configurations, 1)
	require.Len(t, run.Configurations[0].Steps, 2)
	for _, step := range run.Configurations[0].Steps {
		assert.Equal(t, core.StatusPassed, step.Status)
	}
}

func TestTriggerBranchNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	id := submitPipeline(t, srv, pipelineYAML)

	resp, out := trigger(t, srv, id, `{"event":"push","branch":"feature/x"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, out["triggered"])
	_, hasRun := out["id"]
	assert.False(t, hasRun)
}

func TestTriggerUnknownEvent(t *testing.T) {
	srv := newTestServer(t)
	id := submitPipeline(t, srv, pipelineYAML)

	resp, err := http.Post(srv.URL+"/pipelines/"+id+"/triggers", "application/json",
		strings.NewReader(`{"event":"tag","branch":"stable"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTriggerUnknownPipeline(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Post(srv.URL+"/pipelines/p-999/triggers", "application/json",
		strings.NewReader(`{"event":"push","branch":"stable"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetStepLog(t *testing.T) {
	srv := newTestServer(t)
	id := submitPipeline(t, srv, pipelineYAML)

	_, out := trigger(t, srv, id, `{"event":"push","branch":"stable"}`)
	runID := out["id"].(string)
	waitForRun(t, srv, runID)

	resp, err := http.Get(srv.URL + "/runs/" + runID + "/steps/default/build/log")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "building")
}

func TestGetRunNotFound(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/runs/r-999")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestJournalDisabled(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/journal/verify")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPipelineFallsBackToDefaultBranches(t *testing.T) {
	srv := newTestServer(t)
	noBranches := `
pipeline: demo
steps:
  - name: build
    run: echo building
configurations:
  - name: default
    steps: [build]
`
	id := submitPipeline(t, srv, noBranches)

	resp, out := trigger(t, srv, id, `{"event":"pull_request","branch":"stable"}`)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, true, out["triggered"])
}
