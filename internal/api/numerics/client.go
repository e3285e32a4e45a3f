package numerics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sportnumerics/sportnumerics/internal/source"
)

type Client struct {
	source source.Source
}

func NewClient(src source.Source) *Client {
	return &Client{source: src}
}

// Get decodes the JSON file at key into result and returns its
// modification time.
func (c *Client) Get(ctx context.Context, key string, result interface{}) (time.Time, error) {
	obj, err := c.source.Get(ctx, key)
	if err != nil {
		return time.Time{}, err
	}

	if err := json.Unmarshal(obj.Body, result); err != nil {
		return time.Time{}, fmt.Errorf("error decoding %s: %w", key, err)
	}

	return obj.LastModified, nil
}

func (c *Client) List(ctx context.Context, prefix string) ([]string, error) {
	return c.source.List(ctx, prefix)
}

func (c *Client) Source() source.Source {
	return c.source
}
