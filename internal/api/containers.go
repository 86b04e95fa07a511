package api

import (
	"context"
	"net/http"

	"github.com/binfinder/binfinder/pkg/core"
)

// ListContainers fetches the full set of containers.
func (c *Client) ListContainers(ctx context.Context) ([]core.Container, error) {
	return fetchList[core.Container](ctx, c, request{method: http.MethodGet, route: "/containers", path: []string{"containers"}})
}

// CreateContainer validates the payload and creates a container.
func (c *Client) CreateContainer(ctx context.Context, in core.NewContainer) (core.Container, error) {
	if err := c.validate.Struct(in); err != nil {
		return core.Container{}, err
	}
	var out core.Container
	err := c.do(ctx, request{
		method:     http.MethodPost,
		route:      "/containers",
		path:       []string{"containers"},
		body:       in,
		out:        &out,
		allowEmpty: true,
	})
	return out, err
}

// DeleteContainer deletes the container with the given id.
func (c *Client) DeleteContainer(ctx context.Context, id int64) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		route:  "/containers/{id}",
		path:   []string{"containers", idSegment(id)},
	})
}
