package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-labs/kestrel-cli/internal/core/domain"
)

func newTestConnector(t *testing.T, handler http.Handler) *Connector {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(context.Background(), domain.GitHubSettings{
		Token:   "ghp_test",
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	return NewConnector(client)
}

func TestConnector_FetchPullRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/pulls/7", func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Authorization"), "ghp_test")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"number": 7,
			"title": "Add retry logic",
			"body": "Retries transient failures.",
			"user": {"login": "octocat"}
		}`))
	})
	mux.HandleFunc("/repos/acme/widgets/pulls/7/files", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"filename": "retry.go", "status": "added", "patch": "@@ -0,0 +1,5 @@", "additions": 5, "deletions": 0},
			{"filename": "retry_test.go", "status": "added", "patch": "@@ -0,0 +1,9 @@", "additions": 9, "deletions": 0}
		]`))
	})

	conn := newTestConnector(t, mux)

	pr, err := conn.FetchPullRequest(context.Background(), "acme", "widgets", 7)
	require.NoError(t, err)

	assert.Equal(t, "acme/widgets", pr.Project())
	assert.Equal(t, "Add retry logic", pr.Title)
	assert.Equal(t, "octocat", pr.Author)
	require.Len(t, pr.Files, 2)
	assert.Equal(t, "retry.go", pr.Files[0].Filename)
	assert.Equal(t, "added", pr.Files[0].Status)
	assert.Equal(t, 5, pr.Files[0].Additions)
}

func TestConnector_FetchPullRequest_PaginatedFiles(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/pulls/7", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"number": 7, "title": "big change"}`))
	})
	mux.HandleFunc("/repos/acme/widgets/pulls/7/files", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			_, _ = w.Write([]byte(`[{"filename": "b.go", "status": "modified"}]`))
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s?page=2>; rel="next"`, "http://"+r.Host+r.URL.Path))
		_, _ = w.Write([]byte(`[{"filename": "a.go", "status": "modified"}]`))
	})

	conn := newTestConnector(t, mux)

	pr, err := conn.FetchPullRequest(context.Background(), "acme", "widgets", 7)
	require.NoError(t, err)
	require.Len(t, pr.Files, 2)
	assert.Equal(t, "a.go", pr.Files[0].Filename)
	assert.Equal(t, "b.go", pr.Files[1].Filename)
}

func TestConnector_FetchPullRequest_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	})

	conn := newTestConnector(t, mux)

	_, err := conn.FetchPullRequest(context.Background(), "acme", "widgets", 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConnector_FetchPullRequest_Unauthorized(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "Bad credentials"}`))
	})

	conn := newTestConnector(t, mux)

	_, err := conn.FetchPullRequest(context.Background(), "acme", "widgets", 7)
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestRateLimiter_UpdateFromResponse(t *testing.T) {
	rl := NewRateLimiter()

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateRemaining, "4200")
	resp.Header.Set(HeaderRateLimit, "5000")

	rl.UpdateFromResponse(resp)
	assert.Equal(t, 4200, rl.Remaining())
	assert.Equal(t, 5000, rl.Limit())
}
