package fetcher

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type RoundTripFunc func(req *http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func testFetcher(retries int, transport RoundTripFunc, slept *[]time.Duration) Fetcher {
	return Fetcher{
		client:  &http.Client{Transport: transport},
		retries: retries,
		sleep: func(d time.Duration) {
			*slept = append(*slept, d)
		},
	}
}

func TestFetch(t *testing.T) {
	url := "https://tagalog.pinoydictionary.com/list/a/"
	t.Run("success", func(t *testing.T) {
		var slept []time.Duration
		f := testFetcher(2, func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, url, req.URL.String())
			assert.NotEmpty(t, req.Header.Get("User-Agent"))
			return &http.Response{
				StatusCode: 200,
				Body:       io.NopCloser(bytes.NewBufferString("<html>ok</html>")),
				Header:     make(http.Header),
			}, nil
		}, &slept)
		body, err := f.Fetch(context.Background(), url)
		require.NoError(t, err)
		assert.Equal(t, []byte("<html>ok</html>"), body)
		assert.Empty(t, slept)
	})
	t.Run("retries then succeeds", func(t *testing.T) {
		var slept []time.Duration
		calls := 0
		f := testFetcher(2, func(req *http.Request) (*http.Response, error) {
			calls++
			if calls < 3 {
				return &http.Response{
					StatusCode: 503,
					Body:       io.NopCloser(bytes.NewBufferString("busy")),
					Header:     make(http.Header),
				}, nil
			}
			return &http.Response{
				StatusCode: 200,
				Body:       io.NopCloser(bytes.NewBufferString("ok")),
				Header:     make(http.Header),
			}, nil
		}, &slept)
		body, err := f.Fetch(context.Background(), url)
		require.NoError(t, err)
		assert.Equal(t, []byte("ok"), body)
		assert.Equal(t, []time.Duration{4 * time.Second, 6 * time.Second}, slept)
	})
	t.Run("exhausted retries", func(t *testing.T) {
		var slept []time.Duration
		f := testFetcher(1, func(req *http.Request) (*http.Response, error) {
			return &http.Response{}, http.ErrServerClosed
		}, &slept)
		body, err := f.Fetch(context.Background(), url)
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Nil(t, body)
		assert.Len(t, slept, 1)
	})
	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var slept []time.Duration
		f := testFetcher(5, func(req *http.Request) (*http.Response, error) {
			cancel()
			return &http.Response{}, http.ErrServerClosed
		}, &slept)
		_, err := f.Fetch(ctx, url)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, slept)
	})
	t.Run("negative retries clamped", func(t *testing.T) {
		f := New(-3)
		assert.Equal(t, 0, f.retries)
	})
}
