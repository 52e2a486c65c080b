package geoip

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "status,message,lat,lon", r.URL.Query().Get("fields"))
		_, _ = w.Write([]byte(`{"status":"success","lat":28.5384,"lon":-81.3789}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	coord, err := c.Locate(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 28.5384, coord.Lat, 1e-9)
	assert.InDelta(t, -81.3789, coord.Lng, 1e-9)
}

func TestLocateFailStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	_, err := c.Locate(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "private range")
}

func TestLocateDenied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	_, err := c.Locate(context.Background())
	assert.True(t, errors.Is(err, ErrDenied))
}

func TestLocateBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	_, err := c.Locate(context.Background())
	assert.Error(t, err)
}
