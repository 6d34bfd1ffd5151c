package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientGetCachesUntilIngest(t *testing.T) {
	var gets atomic.Int32
	title := "first"

	mux := http.NewServeMux()
	mux.HandleFunc("GET /rdmcs/{id}", func(w http.ResponseWriter, r *http.Request) {
		gets.Add(1)
		assert.Equal(t, "rdmc-registry-client", r.Header.Get("User-Agent"))
		json.NewEncoder(w).Encode(map[string]any{"external_id": r.PathValue("id"), "title": title})
	})
	mux.HandleFunc("POST /rdmcs", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req IngestRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		title = "second"
		json.NewEncoder(w).Encode(map[string]any{"external_id": req.ExternalID, "title": title})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := New(server.URL + "/")
	ctx := context.Background()

	d, err := c.Get(ctx, "X-1")
	require.NoError(t, err)
	assert.Equal(t, "first", d.Title)

	d, err = c.Get(ctx, "X-1")
	require.NoError(t, err)
	assert.Equal(t, "first", d.Title)
	assert.Equal(t, int32(1), gets.Load())

	_, err = c.Ingest(ctx, IngestRequest{ExternalID: "X-1", Manifest: json.RawMessage(`{}`)})
	require.NoError(t, err)

	d, err = c.Get(ctx, "X-1")
	require.NoError(t, err)
	assert.Equal(t, "second", d.Title)
	assert.Equal(t, int32(2), gets.Load())
}

func TestClientStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"rdmc not found"}`))
	}))
	defer server.Close()

	_, err := New(server.URL).Get(context.Background(), "missing")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "rdmc not found", statusErr.Message)
}

func TestClientListQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rdmcs":
			assert.Equal(t, "Biology", r.URL.Query().Get("subject"))
			assert.Equal(t, "CC-BY", r.URL.Query().Get("license_"))
			w.Write([]byte(`[{"external_id":"A","title":"t","subject":"Biology","license":"CC-BY","container_concept":null}]`))
		case "/rdmcs/by-contributor":
			assert.Equal(t, "0000-0001", r.URL.Query().Get("orcid"))
			w.Write([]byte(`[{"external_id":"B","title":"t"}]`))
		case "/rdmcs/A/contributors":
			w.Write([]byte(`[{"position":0,"first_name":"Ada","last_name":"Lovelace"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := New(server.URL)
	ctx := context.Background()

	list, err := c.List(ctx, ListOptions{Subject: "Biology", License: "CC-BY"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "A", list[0].ExternalID)
	assert.Nil(t, list[0].ContainerConcept)

	found, err := c.ByContributor(ctx, "0000-0001", "")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "B", found[0].ExternalID)

	contributors, err := c.Contributors(ctx, "A")
	require.NoError(t, err)
	require.Len(t, contributors, 1)
	assert.Equal(t, "Lovelace", contributors[0].LastName)
}

func TestClientGetEscapesExternalID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rdmcs/10.1%2FABC", r.URL.EscapedPath())
		w.Write([]byte(`{"external_id":"10.1/ABC","title":"t"}`))
	}))
	defer server.Close()

	d, err := New(server.URL).Get(context.Background(), "10.1/ABC")
	require.NoError(t, err)
	assert.Equal(t, "10.1/ABC", d.ExternalID)
}
