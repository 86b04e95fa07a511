package inventory

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binfinder/binfinder/internal/api"
	"github.com/binfinder/binfinder/internal/notifier"
	"github.com/binfinder/binfinder/internal/testutil"
	"github.com/binfinder/binfinder/pkg/core"
)

func setup(t *testing.T) (*Service, *testutil.Backend) {
	t.Helper()
	backend := testutil.NewBackend(t)
	client, err := api.New(api.Config{BaseURL: backend.URL(), Timeout: 5 * time.Second})
	require.NoError(t, err)
	return New(client, notifier.New(), testutil.NewTestLogger(t)), backend
}

func pinged(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	case <-time.After(100 * time.Millisecond):
		return false
	}
}

func TestListItems_Joins(t *testing.T) {
	svc, backend := setup(t)
	two := int64(2)
	missing := int64(99)
	backend.SetContainers(core.Container{ID: 2, Name: "Paper", Color: "blue"})
	backend.SetItems(
		core.Item{ID: 1, Name: "newspaper", ContainerID: &two},
		core.Item{ID: 2, Name: "battery", ContainerID: &missing},
		core.Item{ID: 3, Name: "sock"},
	)

	got, err := svc.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Paper", got[0].Container.Name)
	assert.Nil(t, got[1].Container)
	assert.Nil(t, got[2].Container)
}

func TestListItems_EitherSideFails(t *testing.T) {
	for _, route := range []string{"GET /items", "GET /containers"} {
		t.Run(route, func(t *testing.T) {
			svc, backend := setup(t)
			backend.Fail(route, http.StatusInternalServerError, "storage offline")

			got, err := svc.ListItems(context.Background())
			require.Error(t, err)
			assert.Nil(t, got)
			assert.Equal(t, "Could not load the list of items: storage offline", ListItemsError(err))
		})
	}
}

func TestMutationsBroadcast(t *testing.T) {
	svc, backend := setup(t)
	ctx := context.Background()

	containers := svc.Notifier().Subscribe(notifier.TopicContainers)
	items := svc.Notifier().Subscribe(notifier.TopicItems)
	adverts := svc.Notifier().Subscribe(notifier.TopicAdverts)

	c, err := svc.CreateContainer(ctx, core.NewContainer{Name: "Glass", Color: "green"})
	require.NoError(t, err)
	assert.True(t, pinged(containers))
	assert.False(t, pinged(items))

	it, err := svc.AddItemToContainer(ctx, c.ID, "jar")
	require.NoError(t, err)
	require.NotNil(t, it.ContainerID)
	assert.Equal(t, c.ID, *it.ContainerID)
	assert.True(t, pinged(items))

	require.NoError(t, svc.DeleteContainer(ctx, c.ID))
	assert.True(t, pinged(containers))
	assert.True(t, pinged(items), "deleting a container changes joined items")

	ad, err := svc.CreateAdvert(ctx, core.NewAdvert{Title: "Sale", Description: "Bins"})
	require.NoError(t, err)
	assert.True(t, pinged(adverts))

	require.NoError(t, svc.DeleteAdvert(ctx, ad.ID))
	assert.True(t, pinged(adverts))
	assert.Empty(t, backend.Adverts())

	require.NoError(t, svc.DeleteItem(ctx, it.ID))
	assert.True(t, pinged(items))
}

func TestFailedMutationDoesNotBroadcast(t *testing.T) {
	svc, backend := setup(t)
	backend.Fail("DELETE /items/{id}", http.StatusNotFound, "no such item")

	items := svc.Notifier().Subscribe(notifier.TopicItems)
	err := svc.DeleteItem(context.Background(), 4)
	require.Error(t, err)
	assert.True(t, api.IsNotFound(err))
	assert.False(t, pinged(items))
}
