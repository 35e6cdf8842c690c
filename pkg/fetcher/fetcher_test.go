package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitegauge/sitegauge/internal/config"
)

func testConfig() config.FetcherConfig {
	return config.FetcherConfig{
		UserAgent:   "sitegauge-test",
		PageTimeout: 5 * time.Second,
		AuxTimeout:  2 * time.Second,
		MaxBodySize: 1 << 20,
	}
}

func TestFetchPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sitegauge-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><head><title>ok</title></head><body></body></html>"))
	}))
	defer server.Close()

	f := New(testConfig())
	page, err := f.FetchPage(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Contains(t, string(page.Body), "<title>ok</title>")
	assert.Equal(t, int64(len(page.Body)), page.ContentLength)
	assert.GreaterOrEqual(t, page.ResponseTimeMs, int64(0))
}

func TestFetchPageServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := New(testConfig())
	page, err := f.FetchPage(context.Background(), server.URL)
	assert.Nil(t, page)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusInternalServerError, fetchErr.StatusCode)
}

func TestFetchPageNonHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	f := New(testConfig())
	_, err := f.FetchPage(context.Background(), server.URL)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.Error(), "not an HTML document")
}

func TestFetchPageTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.PageTimeout = 50 * time.Millisecond
	f := New(cfg)

	_, err := f.FetchPage(context.Background(), server.URL)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.True(t, errors.Is(fetchErr.Err, context.DeadlineExceeded) || fetchErr.Err != nil)
}

func TestFetchAux(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			w.Write([]byte("User-agent: *\nDisallow: /admin\n"))
		case "/missing.txt":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer server.Close()

	f := New(testConfig())

	body, found, err := f.FetchAux(context.Background(), server.URL+"/robots.txt")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Contains(t, string(body), "Disallow: /admin")

	// 404 is absence, not an error.
	_, found, err = f.FetchAux(context.Background(), server.URL+"/missing.txt")
	require.NoError(t, err)
	assert.False(t, found)

	// Other non-2xx statuses are errors.
	_, found, err = f.FetchAux(context.Background(), server.URL+"/blocked")
	assert.Error(t, err)
	assert.False(t, found)
}

func TestFetchPageBodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		for i := 0; i < 1000; i++ {
			w.Write([]byte("0123456789"))
		}
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.MaxBodySize = 100
	f := New(cfg)

	page, err := f.FetchPage(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, int64(100), page.ContentLength)
}
