package api

import (
	"context"
	"net/http"

	"github.com/binfinder/binfinder/pkg/core"
)

// ListItems fetches every item.
func (c *Client) ListItems(ctx context.Context) ([]core.Item, error) {
	return c.fetchItems(ctx, request{method: http.MethodGet, route: "/items", path: []string{"items"}})
}

// SearchItems fetches items whose name matches name. Matching semantics are
// owned by the backend; name is sent verbatim, percent-encoded.
func (c *Client) SearchItems(ctx context.Context, name string) ([]core.Item, error) {
	return c.fetchItems(ctx, request{
		method:   http.MethodGet,
		route:    "/items/search",
		path:     []string{"items", "search"},
		rawQuery: "name=" + encodeQueryValue(name),
	})
}

func (c *Client) fetchItems(ctx context.Context, req request) ([]core.Item, error) {
	return fetchList[core.Item](ctx, c, req)
}

// CreateItem validates the payload and creates an item.
func (c *Client) CreateItem(ctx context.Context, in core.NewItem) (core.Item, error) {
	if err := c.validate.Struct(in); err != nil {
		return core.Item{}, err
	}
	var out core.Item
	err := c.do(ctx, request{
		method:     http.MethodPost,
		route:      "/items",
		path:       []string{"items"},
		body:       in,
		out:        &out,
		allowEmpty: true,
	})
	return out, err
}

// DeleteItem deletes the item with the given id.
func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		route:  "/items/{id}",
		path:   []string{"items", idSegment(id)},
	})
}
