package api

import (
	"context"
	"net/http"

	"github.com/binfinder/binfinder/pkg/core"
)

// ListAdverts fetches every advert.
func (c *Client) ListAdverts(ctx context.Context) ([]core.Advert, error) {
	return fetchList[core.Advert](ctx, c, request{method: http.MethodGet, route: "/adverts", path: []string{"adverts"}})
}

// CreateAdvert validates the payload and creates an advert.
func (c *Client) CreateAdvert(ctx context.Context, in core.NewAdvert) (core.Advert, error) {
	if err := c.validate.Struct(in); err != nil {
		return core.Advert{}, err
	}
	var out core.Advert
	err := c.do(ctx, request{
		method:     http.MethodPost,
		route:      "/adverts",
		path:       []string{"adverts"},
		body:       in,
		out:        &out,
		allowEmpty: true,
	})
	return out, err
}

// DeleteAdvert deletes the advert with the given id.
func (c *Client) DeleteAdvert(ctx context.Context, id int64) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		route:  "/adverts/{id}",
		path:   []string{"adverts", idSegment(id)},
	})
}
