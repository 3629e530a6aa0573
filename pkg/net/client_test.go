package net

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModel = `{"generic": {"Frank": {"_intercept": 4}}}`

func newModelServer(t *testing.T, token string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/model.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(testModel))
		case "/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetHTTPClient(t *testing.T) {
	c := GetHTTPClient()
	require.NotNil(t, c)
	assert.NotZero(t, c.Timeout)
}

func TestGetOAuthClient(t *testing.T) {
	ctx := context.Background()
	assert.NotNil(t, GetOAuthClient(ctx, "test-token"))
	assert.Equal(t, GetHTTPClient().Timeout, GetOAuthClient(ctx, "").Timeout)
}

func TestFetch(t *testing.T) {
	srv := newModelServer(t, "")
	b, err := Fetch(context.Background(), srv.URL+"/model.json", "")
	require.NoError(t, err)
	assert.JSONEq(t, testModel, string(b))
}

func TestFetch_Token(t *testing.T) {
	srv := newModelServer(t, "s3cret")
	ctx := context.Background()

	b, err := Fetch(ctx, srv.URL+"/model.json", "s3cret")
	require.NoError(t, err)
	assert.JSONEq(t, testModel, string(b))

	_, err = Fetch(ctx, srv.URL+"/model.json", "wrong")
	assert.Error(t, err)
}

func TestFetch_Errors(t *testing.T) {
	srv := newModelServer(t, "")
	ctx := context.Background()

	_, err := Fetch(ctx, srv.URL+"/missing.json", "")
	assert.ErrorIs(t, err, ErrorURLNotFound)

	_, err = Fetch(ctx, srv.URL+"/broken", "")
	assert.Error(t, err)

	_, err = Fetch(ctx, "model.json", "")
	assert.Error(t, err)
}

func TestDownload(t *testing.T) {
	srv := newModelServer(t, "")
	path := filepath.Join(t.TempDir(), "model.json")

	require.NoError(t, Download(context.Background(), srv.URL+"/model.json", path, ""))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, testModel, string(b))

	err = Download(context.Background(), srv.URL+"/nope", filepath.Join(t.TempDir(), "x"), "")
	assert.ErrorIs(t, err, ErrorURLNotFound)
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/model.json"))
	assert.True(t, IsURL("http://localhost:8080/m"))
	assert.False(t, IsURL("./model.json"))
	assert.False(t, IsURL("/abs/model.json"))
	assert.False(t, IsURL("ftp://example.com/model.json"))
	assert.False(t, IsURL("https://"))
}

func TestPrintHTTPResponse(t *testing.T) {
	PrintHTTPResponse(nil)
	PrintHTTPResponse(&http.Response{StatusCode: 200, Header: http.Header{}, Body: http.NoBody})
}
