package fetchutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/api.yaml"))
	assert.True(t, IsURL("http://example.com/api.json"))
	assert.False(t, IsURL("api.yaml"))
	assert.False(t, IsURL("./specs/api.yaml"))
	assert.False(t, IsURL("ftp://example.com/api.yaml"))
}

func TestFetchURL(t *testing.T) {
	var gotUserAgent string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("openapi: 3.0.3\n"))
	}))
	defer ts.Close()

	data, err := FetchURL(context.Background(), ts.URL, "truespec/test")
	require.NoError(t, err)
	assert.Equal(t, "openapi: 3.0.3\n", string(data))
	assert.Equal(t, "truespec/test", gotUserAgent)
}

func TestFetchURLNon200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := FetchURL(context.Background(), ts.URL, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchURLTooLarge(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", maxDocumentBytes+10)))
	}))
	defer ts.Close()

	_, err := FetchURL(context.Background(), ts.URL, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}
