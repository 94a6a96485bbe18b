package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestGithub spins up an API server for the given mux and connects the
// REST-backed client to it. The connectivity check endpoint is installed
// automatically.
func newTestGithub(t *testing.T, mux *http.ServeMux) Github {
	t.Helper()

	mux.HandleFunc("/rate_limit", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`)) //nolint:errcheck
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	gh, err := New(&Options{
		Token:   "test-token",
		BaseURI: srv.URL,
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	return gh
}

func TestNewRequiresToken(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(&Options{})
	assert.Error(t, err)
}

func TestNewConnectivityCheckFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	_, err := New(&Options{
		Token:   "bad-token",
		BaseURI: srv.URL,
		Timeout: time.Second,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checking GitHub connectivity")
}

func TestRestIssueReadAndPatch(t *testing.T) {
	var patched map[string]interface{}

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octocat/hello-world/issues/5", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{
				"number": 5,
				"state": "open",
				"title": "Found a bug",
				"user": {"login": "octocat"}
			}`)) //nolint:errcheck
		case http.MethodPatch:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&patched))
			w.Write([]byte(`{}`)) //nolint:errcheck
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	gh := newTestGithub(t, mux)
	ctx := context.Background()

	issue := gh.Repos().Get("octocat", "hello-world").Issues().Get(5)
	assert.Equal(t, "octocat/hello-world#5", issue.String())

	smart := NewSmart(issue)

	title, err := smart.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Found a bug", title)

	open, err := smart.IsOpen(ctx)
	require.NoError(t, err)
	assert.True(t, open)

	author, err := smart.Author(ctx)
	require.NoError(t, err)
	assert.Equal(t, "octocat", author.Login())

	require.NoError(t, smart.SetTitle(ctx, "Found a feature"))
	assert.Equal(t, map[string]interface{}{"title": "Found a feature"}, patched)
}

func TestRestIssueCreate(t *testing.T) {
	var posted map[string]interface{}

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octocat/hello-world/issues", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&posted))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"number": 8}`)) //nolint:errcheck
	})

	gh := newTestGithub(t, mux)

	issue, err := gh.Repos().Get("octocat", "hello-world").Issues().Create(
		context.Background(), "Found a bug", "I'm having a problem with this.",
	)
	require.NoError(t, err)
	assert.Equal(t, 8, issue.Number())
	assert.Equal(t, map[string]interface{}{
		"title": "Found a bug",
		"body":  "I'm having a problem with this.",
	}, posted)
}

func TestRestCollections(t *testing.T) {
	var (
		postedComment map[string]interface{}
		addedLabels   map[string]interface{}
		removedLabel  bool
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octocat/hello-world/issues/5/comments", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`[{"body": "first"}, {"body": "second"}]`)) //nolint:errcheck
		case http.MethodPost:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&postedComment))
			w.Write([]byte(`{}`)) //nolint:errcheck
		}
	})
	mux.HandleFunc("/repos/octocat/hello-world/issues/5/labels", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`[{"name": "bug"}, {"name": "ui"}]`)) //nolint:errcheck
		case http.MethodPost:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&addedLabels))
			w.Write([]byte(`[]`)) //nolint:errcheck
		}
	})
	mux.HandleFunc("/repos/octocat/hello-world/issues/5/labels/bug", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		removedLabel = true
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/repos/octocat/hello-world/issues/5/events", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"event": "closed"}]`)) //nolint:errcheck
	})
	mux.HandleFunc("/users/hobo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"login": "hobo", "name": "Hobo"}`)) //nolint:errcheck
	})
	mux.HandleFunc("/repos/octocat/hello-world/pulls/3", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"number": 3, "state": "open"}`)) //nolint:errcheck
	})

	gh := newTestGithub(t, mux)
	ctx := context.Background()

	repo := gh.Repos().Get("octocat", "hello-world")
	issue := repo.Issues().Get(5)

	comments, err := issue.Comments().List(ctx)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	require.NoError(t, issue.Comments().Post(ctx, "me too"))
	assert.Equal(t, map[string]interface{}{"body": "me too"}, postedComment)

	labels, err := issue.Labels().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bug", "ui"}, labels)

	require.NoError(t, issue.Labels().Add(ctx, "question"))
	assert.Equal(t, map[string]interface{}{"labels": []interface{}{"question"}}, addedLabels)

	require.NoError(t, issue.Labels().Remove(ctx, "bug"))
	assert.True(t, removedLabel)

	events, err := issue.Events().List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	event, _ := events[0].Value("event")
	assert.Equal(t, "closed", event)

	user := gh.Users().Get("hobo")
	assert.Equal(t, "hobo", user.Login())
	obj, err := user.JSON(ctx)
	require.NoError(t, err)
	name, _ := obj.Value("name")
	assert.Equal(t, "Hobo", name)

	pull := repo.Pulls().Get(3)
	obj, err = pull.JSON(ctx)
	require.NoError(t, err)
	state, _ := obj.Value("state")
	assert.Equal(t, "open", state)
}
