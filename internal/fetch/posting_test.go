package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/job-tailor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func servePage(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestPostingFetcher_Fetch(t *testing.T) {
	server := servePage(t, http.StatusOK, `<html><body>
		<h1>DevOps Engineer</h1>
		<div class="company">Contoso</div>
		<div class="location">Remote</div>
		<main>Kubernetes and Terraform on Azure.</main>
	</body></html>`)

	posting, err := NewPostingFetcher(nil).Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "DevOps Engineer", posting.Title)
	assert.Equal(t, "Contoso", posting.Company)
	assert.Equal(t, "Remote", posting.Location)
	assert.Equal(t, "Kubernetes and Terraform on Azure.", posting.Description)
	assert.Equal(t, server.URL, posting.SourceURL)
}

func TestPostingFetcher_UnreachableUsesDefaults(t *testing.T) {
	server := servePage(t, http.StatusOK, "")
	url := server.URL
	server.Close()

	posting, err := NewPostingFetcher(nil).Fetch(context.Background(), url)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, types.UnknownTitle, posting.Title)
	assert.Equal(t, types.UnknownCompany, posting.Company)
	assert.Equal(t, types.UnknownLocation, posting.Location)
	assert.Equal(t, "", posting.Description)
	assert.Equal(t, url, posting.SourceURL)
}

func TestPostingFetcher_HTTPErrorUsesDefaults(t *testing.T) {
	server := servePage(t, http.StatusForbidden, "<h1>Denied</h1>")

	posting, err := NewPostingFetcher(nil).Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Equal(t, types.UnknownTitle, posting.Title)
}

func TestPostingFetcher_BrowserFallback(t *testing.T) {
	server := servePage(t, http.StatusOK, `<html><body><h1>Engineer</h1><div id="root"></div></body></html>`)
	longDescription := strings.Repeat("Operate Kubernetes clusters. ", 30)

	fetcher := NewPostingFetcher(&PostingFetcherConfig{UseBrowser: true})
	var rendered bool
	fetcher.render = func(_ context.Context, url string, _ time.Duration, _ *zap.Logger) (string, error) {
		rendered = true
		assert.Equal(t, server.URL, url)
		return `<html><body><h1>Engineer</h1><main>` + longDescription + `</main></body></html>`, nil
	}

	posting, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.True(t, rendered)
	assert.Equal(t, strings.TrimSpace(longDescription), posting.Description)
}

func TestPostingFetcher_BrowserFailureKeepsHTTPResult(t *testing.T) {
	server := servePage(t, http.StatusOK, `<html><body><h1>Engineer</h1><main>Short.</main></body></html>`)

	fetcher := NewPostingFetcher(&PostingFetcherConfig{UseBrowser: true})
	fetcher.render = func(context.Context, string, time.Duration, *zap.Logger) (string, error) {
		return "", errors.New("chrome not installed")
	}

	posting, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Short.", posting.Description)
}

func TestPostingFetcher_BrowserDisabled(t *testing.T) {
	server := servePage(t, http.StatusOK, `<html><body><h1>Engineer</h1></body></html>`)

	fetcher := NewPostingFetcher(nil)
	fetcher.render = func(context.Context, string, time.Duration, *zap.Logger) (string, error) {
		t.Fatal("browser should not be used")
		return "", nil
	}

	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
}
