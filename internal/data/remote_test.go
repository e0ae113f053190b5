package data

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/budget.json":
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			w.Write([]byte(sampleJSON))
		case "/budget.yaml":
			w.Write([]byte(sampleYAML))
		case "/private.json":
			w.WriteHeader(http.StatusForbidden)
		case "/broken.json":
			w.WriteHeader(http.StatusBadGateway)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewRemoteClient("secret", nil)
	ctx := context.Background()

	ds, err := c.Fetch(ctx, srv.URL+"/budget.json")
	require.NoError(t, err)
	checkSample(t, ds)

	ds, err = c.Fetch(ctx, srv.URL+"/budget.yaml")
	require.NoError(t, err)
	checkSample(t, ds)

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/private.json", http.StatusForbidden, "UNAUTHORIZED"},
		{"/missing.json", http.StatusNotFound, "NOT_FOUND"},
		{"/broken.json", http.StatusBadGateway, "REMOTE_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := c.Fetch(ctx, srv.URL+tt.path)
			var remote *RemoteError
			require.ErrorAs(t, err, &remote)
			assert.Equal(t, tt.status, remote.StatusCode)
			assert.Equal(t, tt.code, remote.Code)
		})
	}
}

func TestRemoteFetchTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleJSON))
	}))
	defer srv.Close()

	c := NewRemoteClient("", nil)
	c.MaxBytes = int64(len(sampleJSON)) - 1
	_, err := c.Fetch(context.Background(), srv.URL+"/budget.json")
	require.ErrorIs(t, err, ErrDatasetTooLarge)

	c.MaxBytes = int64(len(sampleJSON))
	ds, err := c.Fetch(context.Background(), srv.URL+"/budget.json")
	require.NoError(t, err)
	checkSample(t, ds)
}

func TestRemoteFetchConfinedToBase(t *testing.T) {
	var hits []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, r.URL.Path)
		w.Write([]byte(sampleJSON))
	}))
	defer srv.Close()

	base, err := ParseBase(srv.URL + "/exports")
	require.NoError(t, err)
	assert.Equal(t, "/exports/", base.Path)

	c := NewRemoteClient("secret", nil)
	c.Base = base
	ctx := context.Background()

	ds, err := c.Fetch(ctx, srv.URL+"/exports/2026/budget.json")
	require.NoError(t, err)
	checkSample(t, ds)

	for _, u := range []string{
		"http://attacker.example/exports/budget.json",
		srv.URL + "/exportsX/budget.json",
		srv.URL + "/exports/../secrets.json",
		srv.URL + "/budget.json",
		"https://" + strings.TrimPrefix(srv.URL, "http://") + "/exports/budget.json",
	} {
		_, err := c.Fetch(ctx, u)
		assert.ErrorIs(t, err, ErrOutsideBase, u)
	}
	assert.Equal(t, []string{"/exports/2026/budget.json"}, hits)
}

func TestParseBase(t *testing.T) {
	u, err := ParseBase("https://data.example.com")
	require.NoError(t, err)
	assert.Equal(t, "/", u.Path)

	for _, raw := range []string{"", "ftp://data.example.com/", "/exports", "https:///exports"} {
		_, err := ParseBase(raw)
		assert.Error(t, err, raw)
	}
}

func TestOpen(t *testing.T) {
	assert.True(t, IsRemote("HTTPS://example.com/budget.json"))
	assert.False(t, IsRemote("data/budget.json"))

	path := filepath.Join(t.TempDir(), "budget.json")
	require.NoError(t, SaveDataset(roundTripDataset(), path))

	ds, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, roundTripDataset(), ds)
}
