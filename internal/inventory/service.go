// Package inventory implements the list and CRUD flows for containers, items
// and adverts on top of the backend client. Every successful mutation is
// broadcast on the notifier so open views can refresh.
package inventory

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/binfinder/binfinder/internal/api"
	"github.com/binfinder/binfinder/internal/notifier"
	"github.com/binfinder/binfinder/pkg/core"
)

// ListItemsPrefix starts the message shown when the item list cannot load.
const ListItemsPrefix = "Could not load the list of items: "

// Backend is the subset of *api.Client the service uses.
type Backend interface {
	ListContainers(ctx context.Context) ([]core.Container, error)
	CreateContainer(ctx context.Context, in core.NewContainer) (core.Container, error)
	DeleteContainer(ctx context.Context, id int64) error

	ListItems(ctx context.Context) ([]core.Item, error)
	CreateItem(ctx context.Context, in core.NewItem) (core.Item, error)
	DeleteItem(ctx context.Context, id int64) error

	ListAdverts(ctx context.Context) ([]core.Advert, error)
	CreateAdvert(ctx context.Context, in core.NewAdvert) (core.Advert, error)
	DeleteAdvert(ctx context.Context, id int64) error
}

// Service wraps a Backend with joins and change notifications.
type Service struct {
	backend Backend
	notify  *notifier.Notifier
	logger  *slog.Logger
}

// New creates a Service. notify may be nil when nobody listens for changes.
func New(backend Backend, notify *notifier.Notifier, logger *slog.Logger) *Service {
	if notify == nil {
		notify = notifier.New()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{backend: backend, notify: notify, logger: logger}
}

// Notifier returns the notifier mutations are broadcast on.
func (s *Service) Notifier() *notifier.Notifier {
	return s.notify
}

// ListItems fetches all items and containers concurrently and joins them.
// Either request failing fails the whole call.
func (s *Service) ListItems(ctx context.Context) ([]core.EnrichedItem, error) {
	var (
		items      []core.Item
		containers []core.Container
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.backend.ListItems(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		containers, err = s.backend.ListContainers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("failed to load item list", "error", err)
		return nil, err
	}

	return core.JoinContainers(items, containers), nil
}

// ListItemsError renders a ListItems failure for display.
func ListItemsError(err error) string {
	return ListItemsPrefix + api.Message(err)
}

// Containers lists every container.
func (s *Service) Containers(ctx context.Context) ([]core.Container, error) {
	return s.backend.ListContainers(ctx)
}

// CreateContainer creates a container.
func (s *Service) CreateContainer(ctx context.Context, in core.NewContainer) (core.Container, error) {
	c, err := s.backend.CreateContainer(ctx, in)
	if err != nil {
		return core.Container{}, err
	}
	s.logger.Info("container created", "id", c.ID, "name", c.Name)
	s.notify.Broadcast(notifier.TopicContainers)
	return c, nil
}

// DeleteContainer deletes a container. Items that referenced it become
// unassigned in joined views, so item listeners are notified too.
func (s *Service) DeleteContainer(ctx context.Context, id int64) error {
	if err := s.backend.DeleteContainer(ctx, id); err != nil {
		return err
	}
	s.logger.Info("container deleted", "id", id)
	s.notify.Broadcast(notifier.TopicContainers)
	s.notify.Broadcast(notifier.TopicItems)
	return nil
}

// AddItemToContainer creates an item named name inside the container.
func (s *Service) AddItemToContainer(ctx context.Context, containerID int64, name string) (core.Item, error) {
	return s.CreateItem(ctx, core.NewItem{Name: name, ContainerID: &containerID})
}

// CreateItem creates an item.
func (s *Service) CreateItem(ctx context.Context, in core.NewItem) (core.Item, error) {
	it, err := s.backend.CreateItem(ctx, in)
	if err != nil {
		return core.Item{}, err
	}
	s.logger.Info("item created", "id", it.ID, "name", it.Name)
	s.notify.Broadcast(notifier.TopicItems)
	return it, nil
}

// DeleteItem deletes an item.
func (s *Service) DeleteItem(ctx context.Context, id int64) error {
	if err := s.backend.DeleteItem(ctx, id); err != nil {
		return err
	}
	s.logger.Info("item deleted", "id", id)
	s.notify.Broadcast(notifier.TopicItems)
	return nil
}

// Adverts lists every advert.
func (s *Service) Adverts(ctx context.Context) ([]core.Advert, error) {
	return s.backend.ListAdverts(ctx)
}

// CreateAdvert creates an advert.
func (s *Service) CreateAdvert(ctx context.Context, in core.NewAdvert) (core.Advert, error) {
	ad, err := s.backend.CreateAdvert(ctx, in)
	if err != nil {
		return core.Advert{}, err
	}
	s.logger.Info("advert created", "id", ad.ID, "title", ad.Title)
	s.notify.Broadcast(notifier.TopicAdverts)
	return ad, nil
}

// DeleteAdvert deletes an advert.
func (s *Service) DeleteAdvert(ctx context.Context, id int64) error {
	if err := s.backend.DeleteAdvert(ctx, id); err != nil {
		return err
	}
	s.logger.Info("advert deleted", "id", id)
	s.notify.Broadcast(notifier.TopicAdverts)
	return nil
}
