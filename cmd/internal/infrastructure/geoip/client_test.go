package geoip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/json", time.Second)
}

func TestCountry(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json/81.2.69.160", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"success","country":"France"}`))
	})

	country, err := client.Country(context.Background(), "81.2.69.160")
	require.NoError(t, err)
	assert.Equal(t, "France", country)
}

func TestCountryFailureStatus(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"reserved range"}`))
	})

	_, err := client.Country(context.Background(), "10.0.0.1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCountryHTTPErrors(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Country(context.Background(), "8.8.8.8")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestCountryRejectsGarbage(t *testing.T) {
	client := NewClient("http://127.0.0.1:1/", time.Second)
	_, err := client.Country(context.Background(), "../../admin")
	require.Error(t, err)
}

func TestCountryHonoursTimeout(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"country":"France"}`))
	})
	client.httpClient.Timeout = 20 * time.Millisecond

	_, err := client.Country(context.Background(), "8.8.8.8")
	require.Error(t, err)
}
