package es

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/foodhub/internal/models"
)

type recorded struct {
	method string
	path   string
	body   string
}

func newFakeCluster(t *testing.T, searchResponse string) (*elasticsearch.Client, func() []recorded) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{method: r.Method, path: r.URL.Path, body: string(body)})
		mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/_search"):
			_, _ = io.WriteString(w, searchResponse)
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"result":"not_found"}`)
		default:
			_, _ = io.WriteString(w, `{"result":"created"}`)
		}
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	return client, func() []recorded {
		mu.Lock()
		defer mu.Unlock()
		return append([]recorded(nil), reqs...)
	}
}

func TestMenuIndex_Search(t *testing.T) {
	resp := `{"hits":{"total":{"value":2},"hits":[
		{"_source":{"id":"m1","name":"Pad Thai","price":12.99,"is_available":true}},
		{"_source":{"id":"m2","name":"Thai Curry","price":9.5,"is_available":true}}]}}`
	client, reqs := newFakeCluster(t, resp)
	idx := NewMenuIndex(client, "menu_items")

	total, items, err := idx.Search(context.Background(), "thai", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "Pad Thai", items[0].Name)

	got := reqs()
	require.Len(t, got, 1)
	assert.Equal(t, "/menu_items/_search", got[0].path)

	var q map[string]any
	require.NoError(t, json.Unmarshal([]byte(got[0].body), &q))
	assert.EqualValues(t, 10, q["size"])
}

func TestMenuIndex_IndexAndDelete(t *testing.T) {
	client, reqs := newFakeCluster(t, `{}`)
	idx := NewMenuIndex(client, "menu_items")
	ctx := context.Background()

	require.NoError(t, idx.IndexItem(ctx, models.MenuItem{ID: "m1", Name: "Pad Thai"}))
	require.NoError(t, idx.DeleteItem(ctx, "missing"))

	got := reqs()
	require.Len(t, got, 2)
	assert.Equal(t, "/menu_items/_doc/m1", got[0].path)
	assert.Contains(t, got[0].body, `"name":"Pad Thai"`)
	assert.Equal(t, http.MethodDelete, got[1].method)
}
