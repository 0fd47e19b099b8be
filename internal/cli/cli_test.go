package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TWRT/kanbanize-sync/internal/config"
)

type fakeBoard struct {
	paths    []string
	payloads []map[string]any
	replies  map[string]string
}

func newFakeBoard(t *testing.T, replies map[string]string) *fakeBoard {
	t.Helper()
	fb := &fakeBoard{replies: replies}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("apikey"))
		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		_ = json.Unmarshal(body, &payload)

		action := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/"), "/")[0]
		fb.paths = append(fb.paths, r.URL.Path)
		fb.payloads = append(fb.payloads, payload)

		reply, ok := fb.replies[action]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":"unknown action"}`)
			return
		}
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)

	t.Chdir(t.TempDir())
	t.Setenv(config.EnvAPIKey, "test-key")
	t.Setenv(config.EnvBaseURL, srv.URL+"/api")
	t.Setenv(config.EnvBoardID, "")
	t.Setenv(config.EnvLedger, "")
	t.Setenv(config.EnvTimeout, "")
	t.Setenv(config.EnvLogLevel, "")
	return fb
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSyncCommand(t *testing.T) {
	fb := newFakeBoard(t, map[string]string{
		"create_new_task": `{"id":"42"}`,
		"move_task":       `true`,
		"edit_task":       `1`,
	})

	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.csv")
	require.NoError(t, os.WriteFile(path, []byte("taskid,title,column\n,Write spec,Backlog\n17,Existing,Doing\n"), 0o644))
	ledgerPath := filepath.Join(dir, "ledger.db")

	_, stderr, err := run(t, "--board", "5", "--ledger", ledgerPath, path)
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "taskid,title,column\n42,Write spec,Backlog\n17,Existing,Doing\n", string(got))

	assert.Equal(t, []string{
		"/api/create_new_task/format/json",
		"/api/move_task/format/json",
		"/api/edit_task/format/json",
		"/api/move_task/format/json",
	}, fb.paths)
	assert.Equal(t, "5", fb.payloads[0]["boardid"])
	assert.Equal(t, "Write spec", fb.payloads[0]["title"])
	assert.Equal(t, "42", fb.payloads[1]["taskid"])
	assert.Equal(t, "17", fb.payloads[2]["taskid"])

	assert.Contains(t, stderr, "created new task id:42")
	assert.Contains(t, stderr, "updating csv file")

	stdout, _, err := run(t, "history", "--ledger", ledgerPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "completed")
	assert.Contains(t, stdout, path)
}

func TestSyncCommandCreateFailure(t *testing.T) {
	newFakeBoard(t, map[string]string{"create_new_task": `{}`})

	path := filepath.Join(t.TempDir(), "tasks.csv")
	content := "taskid,boardid,title,column\n,5,Write spec,Backlog\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, _, err := run(t, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected error")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestSyncCommandRequiresFiles(t *testing.T) {
	newFakeBoard(t, nil)
	_, _, err := run(t)
	assert.Error(t, err)
}

func TestSyncCommandRequiresAPIKey(t *testing.T) {
	newFakeBoard(t, nil)
	t.Setenv(config.EnvAPIKey, "")

	_, _, err := run(t, "tasks.csv")
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestListCommand(t *testing.T) {
	fb := newFakeBoard(t, map[string]string{
		"get_all_tasks": `[{"taskid":"38","title":"Task title"}]`,
	})

	stdout, _, err := run(t, "list", "--board", "5")
	require.NoError(t, err)
	assert.Equal(t, []string{"/api/get_all_tasks/boardid/5/format/json"}, fb.paths)

	var docs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "Task title", docs[0]["title"])
}

func TestGetCommand(t *testing.T) {
	fb := newFakeBoard(t, map[string]string{
		"get_task_details": `{"taskid":"17","title":"Existing"}`,
	})

	stdout, _, err := run(t, "get", "17", "--board", "5")
	require.NoError(t, err)
	assert.Equal(t, []string{"/api/get_task_details/boardid/5/taskid/17/format/json"}, fb.paths)
	assert.Contains(t, stdout, `"title": "Existing"`)
}

func TestDeleteCommand(t *testing.T) {
	fb := newFakeBoard(t, map[string]string{"delete_task": `true`})

	_, stderr, err := run(t, "delete", "17", "--board", "5")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"boardid": "5", "taskid": "17"}, fb.payloads[0])
	assert.Contains(t, stderr, "deleted task id:17")
}

func TestDeleteCommandNotConfirmed(t *testing.T) {
	newFakeBoard(t, map[string]string{"delete_task": `false`})

	_, _, err := run(t, "delete", "17", "--board", "5")
	assert.ErrorContains(t, err, "not confirmed")
}

func TestListCommandRequiresBoard(t *testing.T) {
	newFakeBoard(t, nil)

	_, _, err := run(t, "list")
	assert.ErrorContains(t, err, "board id required")
}

func TestHistoryWithoutLedger(t *testing.T) {
	newFakeBoard(t, nil)

	_, _, err := run(t, "history")
	assert.ErrorContains(t, err, "no ledger configured")
}

func TestConfigFileFlag(t *testing.T) {
	fb := newFakeBoard(t, map[string]string{"get_all_tasks": `[]`})
	t.Setenv(config.EnvAPIKey, "")

	cfgPath := filepath.Join(t.TempDir(), "sync.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("api_key: test-key\nboard_id: \"8\"\n"), 0o644))

	stdout, _, err := run(t, "list", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"/api/get_all_tasks/boardid/8/format/json"}, fb.paths)
	assert.Equal(t, "[]\n", stdout)
}
