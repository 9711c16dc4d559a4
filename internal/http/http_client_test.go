package httpclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/neckchi/vesseleta/internal/exceptions"
	httpclient "github.com/neckchi/vesseleta/internal/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_SendsBrowserHeaders(t *testing.T) {
	t.Parallel()

	var gotUA, gotAccept, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		gotQuery = r.URL.Query().Get("page")
		_, _ = w.Write([]byte("<table></table>"))
	}))
	defer server.Close()

	client := httpclient.CreateHttpClientInstance(httpclient.WithCtxTimeout(time.Second))
	body, err := client.Fetch(context.Background(), "LCB1", server.URL, map[string]string{"page": "berth"}, 0)

	require.NoError(t, err)
	assert.Equal(t, "<table></table>", string(body))
	assert.Contains(t, gotUA, "Mozilla/5.0")
	assert.Contains(t, gotAccept, "text/html")
	assert.Equal(t, "berth", gotQuery)
}

func TestFetch_NonSuccessStatusIsFetchError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := httpclient.CreateHttpClientInstance()
	body, err := client.Fetch(context.Background(), "LCB1", server.URL, nil, time.Second)

	require.Error(t, err)
	assert.Nil(t, body)
	var fe *exceptions.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusServiceUnavailable, fe.Status)
	assert.Equal(t, "LCB1", fe.Terminal)
}

func TestFetch_TimeoutIsFetchError(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := httpclient.CreateHttpClientInstance()
	_, err := client.Fetch(context.Background(), "ESCO", server.URL, nil, 50*time.Millisecond)

	require.Error(t, err)
	assert.True(t, exceptions.IsFetchError(err))
	assert.Contains(t, err.Error(), "timed out")
}
