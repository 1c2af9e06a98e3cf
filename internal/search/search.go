// Package search mirrors products into Elasticsearch for name lookups.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"storefront/internal/models"

	"github.com/elastic/go-elasticsearch/v9"
)

// Config holds Elasticsearch connection details.
type Config struct {
	URL      string
	Username string
	Password string
	Index    string
}

// ProductIndex keeps one Elasticsearch index of products.
type ProductIndex struct {
	es    *elasticsearch.Client
	index string
}

// NewProductIndex connects to Elasticsearch and checks the cluster answers.
func NewProductIndex(cfg Config) (*ProductIndex, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to get Elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("info", res.StatusCode, res.Body)
	}

	return &ProductIndex{es: client, index: cfg.Index}, nil
}

const indexMapping = `{
  "mappings": {
    "properties": {
      "name":        {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "description": {"type": "text"},
      "price":       {"type": "double"},
      "category":    {"type": "keyword"},
      "created_at":  {"type": "date"}
    }
  }
}`

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (i *ProductIndex) EnsureIndex(ctx context.Context) error {
	res, err := i.es.Indices.Exists([]string{i.index}, i.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", i.index, err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = i.es.Indices.Create(i.index,
		i.es.Indices.Create.WithContext(ctx),
		i.es.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", i.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("create index", res.StatusCode, res.Body)
	}
	return nil
}

// Index stores or replaces the product document.
func (i *ProductIndex) Index(ctx context.Context, product models.Product) error {
	body, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product %s: %w", product.ID, err)
	}

	res, err := i.es.Index(i.index, bytes.NewReader(body),
		i.es.Index.WithContext(ctx),
		i.es.Index.WithDocumentID(product.ID),
		i.es.Index.WithRefresh("wait_for"),
	)
	if err != nil {
		return fmt.Errorf("failed to index product %s: %w", product.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index", res.StatusCode, res.Body)
	}
	return nil
}

// Remove deletes the product document. A missing document is not an error.
func (i *ProductIndex) Remove(ctx context.Context, id string) error {
	res, err := i.es.Delete(i.index, id, i.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to remove product %s: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete", res.StatusCode, res.Body)
	}
	return nil
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func nameQuery(name string, offset, limit int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"wildcard": map[string]any{
				"name.keyword": map[string]any{
					"value":            "*" + wildcardEscaper.Replace(name) + "*",
					"case_insensitive": true,
				},
			},
		},
		"sort":             []any{map[string]any{"created_at": map[string]any{"order": "desc"}}},
		"from":             offset,
		"size":             limit,
		"track_total_hits": true,
	}
}

// SearchByName returns products whose name contains name, ignoring case, newest first.
func (i *ProductIndex) SearchByName(ctx context.Context, name string, offset, limit int) ([]models.Product, int64, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(nameQuery(name, offset, limit)); err != nil {
		return nil, 0, fmt.Errorf("failed to encode search query: %w", err)
	}

	res, err := i.es.Search(
		i.es.Search.WithContext(ctx),
		i.es.Search.WithIndex(i.index),
		i.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, 0, responseError("search", res.StatusCode, res.Body)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, 0, fmt.Errorf("failed to decode search response: %w", err)
	}

	products := make([]models.Product, len(r.Hits.Hits))
	for n, hit := range r.Hits.Hits {
		products[n] = hit.Source
	}
	return products, r.Hits.Total.Value, nil
}

func responseError(op string, status int, body io.Reader) error {
	msg, _ := io.ReadAll(io.LimitReader(body, 1024))
	return fmt.Errorf("elasticsearch %s failed with status %d: %s", op, status, bytes.TrimSpace(msg))
}
