package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTianditu_Lookup(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"code":0,"msg":"ok","result":{"province":"Jiangsu","city":"Nanjing"}}`))
	}))
	defer server.Close()

	client := NewTianditu(server.URL, "my-key", server.Client())
	resp, err := client.Lookup(context.Background(), 32.05, 118.78)

	require.NoError(t, err)
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, "Jiangsu", resp.Result.Province)

	assert.Equal(t, []string{"geocode"}, gotQuery["type"])
	assert.Equal(t, []string{"my-key"}, gotQuery["tk"])
	require.Len(t, gotQuery["postStr"], 1)
	assert.Contains(t, gotQuery["postStr"][0], `"lat":32.05`)
	assert.Contains(t, gotQuery["postStr"][0], `"lon":118.78`)
}

func TestTianditu_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewTianditu(server.URL, "k", server.Client())
	_, err := client.Lookup(context.Background(), 32.0, 118.0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")
}

func TestTianditu_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := NewTianditu(server.URL, "k", server.Client())
	_, err := client.Lookup(context.Background(), 32.0, 118.0)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

// End to end through the resolver with a real HTTP round trip.
func TestResolverWithTianditu(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":0,"result":{"province":"Beijing","city":"Beijing","district":"Haidian"}}`))
	}))
	defer server.Close()

	client := NewTianditu(server.URL, "k", server.Client())
	resolver := NewResolver("k", time.Second, client)

	got := resolver.Resolve(context.Background(), 39.99, 116.3)

	assert.True(t, strings.HasPrefix(got, "Address: "), got)
	assert.Contains(t, got, "Haidian")
}
