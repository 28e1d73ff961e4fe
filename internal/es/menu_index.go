package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/foodhub/internal/models"
)

// MenuIndex keeps menu items searchable in one elasticsearch index.
type MenuIndex struct {
	Client *elasticsearch.Client
	Index  string
}

func NewMenuIndex(client *elasticsearch.Client, index string) *MenuIndex {
	return &MenuIndex{Client: client, Index: index}
}

func (m *MenuIndex) IndexItem(ctx context.Context, item models.MenuItem) error {
	body, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("es encode: %w", err)
	}
	res, err := m.Client.Index(m.Index, bytes.NewReader(body),
		m.Client.Index.WithContext(ctx),
		m.Client.Index.WithDocumentID(item.ID),
	)
	if err != nil {
		return fmt.Errorf("es index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index", res.StatusCode, res.Body)
	}
	return nil
}

func (m *MenuIndex) DeleteItem(ctx context.Context, id string) error {
	res, err := m.Client.Delete(m.Index, id, m.Client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("es delete: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete", res.StatusCode, res.Body)
	}
	return nil
}

// Search matches available items by name, description or category.
func (m *MenuIndex) Search(ctx context.Context, query string, from, size int) (int64, []models.MenuItem, error) {
	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     query,
						"fields":    []string{"name^2", "description", "category"},
						"fuzziness": "AUTO",
					},
				},
				"filter": []any{
					map[string]any{"term": map[string]any{"is_available": true}},
				},
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("es encode query: %w", err)
	}

	res, err := m.Client.Search(
		m.Client.Search.WithContext(ctx),
		m.Client.Search.WithIndex(m.Index),
		m.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("es search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, responseError("search", res.StatusCode, res.Body)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.MenuItem `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("es decode: %w", err)
	}

	items := make([]models.MenuItem, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		items[i] = hit.Source
	}
	return r.Hits.Total.Value, items, nil
}

func responseError(op string, status int, body io.Reader) error {
	msg, _ := io.ReadAll(io.LimitReader(body, 512))
	return fmt.Errorf("es %s: status %d: %s", op, status, msg)
}
