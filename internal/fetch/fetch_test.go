package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownload_Success(t *testing.T) {
	payload := []byte("fake image bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	d := New(server.Client(), 5*time.Second, 1<<20)
	got, err := d.Download(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestDownload_HTTPErrorNotRetried(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	d := New(server.Client(), 5*time.Second, 1<<20)
	_, err := d.Download(context.Background(), server.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "HTTP rejections are permanent")
}

func TestDownload_SizeLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 64))
	}))
	defer server.Close()

	d := New(server.Client(), 5*time.Second, 32)
	_, err := d.Download(context.Background(), server.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "size limit")
}

func TestDownload_BadScheme(t *testing.T) {
	d := New(nil, time.Second, 0)
	_, err := d.Download(context.Background(), "ftp://example.com/img.jpg")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported URL scheme")
}

func TestRetryConfig_IsRetryable(t *testing.T) {
	rc := DefaultRetryConfig()

	assert.False(t, rc.IsRetryable(nil))
	assert.False(t, rc.IsRetryable(context.Canceled))
	assert.True(t, rc.IsRetryable(assertErr("connection reset by peer")))
	assert.True(t, rc.IsRetryable(assertErr("dial tcp: i/o timeout")))
	assert.False(t, rc.IsRetryable(assertErr("some permanent failure")))
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
