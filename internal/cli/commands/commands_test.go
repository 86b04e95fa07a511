package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binfinder/binfinder/internal/cli/config"
	clitestutil "github.com/binfinder/binfinder/internal/cli/testutil"
	"github.com/binfinder/binfinder/internal/testutil"
	"github.com/binfinder/binfinder/pkg/core"
)

// execute runs cmd against a fresh configuration and returns stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func id(v int64) *int64 { return &v }

func newProject(t *testing.T) *testutil.Backend {
	t.Helper()
	backend := testutil.NewBackend(t)
	clitestutil.SetupProject(t, backend.URL())
	return backend
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd  *cobra.Command
		use  string
		subs []string
	}{
		{NewSearchCommand(), "search [query]", nil},
		{NewContainersCommand(), "containers", []string{"list", "create", "delete", "add-item"}},
		{NewItemsCommand(), "items", []string{"list", "create", "delete"}},
		{NewAdvertsCommand(), "adverts", []string{"list", "create", "delete"}},
		{NewDoctorCommand(), "doctor", nil},
		{NewUICommand(), "ui", nil},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short)
			for _, name := range tt.subs {
				sub, _, err := tt.cmd.Find([]string{name})
				require.NoError(t, err)
				assert.Equal(t, name, sub.Name())
			}
		})
	}
}

func TestUICommandFlags(t *testing.T) {
	cmd := NewUICommand()
	for _, flag := range []string{"port", "no-browser", "watch"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestSearch_Table(t *testing.T) {
	backend := newProject(t)
	backend.SetContainers(core.Container{ID: 1, Name: "Glass", Color: "green"})
	backend.SetItems(
		core.Item{ID: 1, Name: "jam jar", Type: "glass", ContainerID: id(1)},
		core.Item{ID: 2, Name: "jar lid", Type: "metal"},
	)

	out, err := execute(t, NewSearchCommand(), "jar")
	require.NoError(t, err)

	assert.Contains(t, out, "jam jar")
	assert.Contains(t, out, "Glass")
	assert.Contains(t, out, "jar lid")
	assert.Contains(t, out, "Unassigned")
	clitestutil.AssertNoANSI(t, out)
}

func TestSearch_JoinsMultiWordQuery(t *testing.T) {
	backend := newProject(t)
	backend.SetItems(core.Item{ID: 1, Name: "tin can"})

	out, err := execute(t, NewSearchCommand(), "tin", "can")
	require.NoError(t, err)

	assert.Equal(t, []string{"tin can"}, backend.SearchQueries())
	assert.Contains(t, out, "tin can")
}

func TestSearch_NoMatches(t *testing.T) {
	newProject(t)

	out, err := execute(t, NewSearchCommand(), "unobtainium")
	require.NoError(t, err)
	assert.Contains(t, out, `No matching items found for "unobtainium".`)
}

func TestSearch_Failure(t *testing.T) {
	backend := newProject(t)
	backend.Fail("GET /items/search", 503, "search index rebuilding")

	_, err := execute(t, NewSearchCommand(), "paper")
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch filtered items: search index rebuilding", err.Error())
}

func TestContainers_CreateListDelete(t *testing.T) {
	backend := newProject(t)

	_, err := execute(t, NewContainersCommand(), "create", "--name", "Paper", "--color", "#2196f3", "--description", "blue bin")
	require.NoError(t, err)
	require.Len(t, backend.Containers(), 1)
	created := backend.Containers()[0]
	assert.Equal(t, "Paper", created.Name)

	out, err := execute(t, NewContainersCommand(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Paper")
	assert.Contains(t, out, "blue bin")

	_, err = execute(t, NewContainersCommand(), "delete", "1001")
	require.NoError(t, err)
	assert.Empty(t, backend.Containers())
}

func TestContainers_CreateRejectsBadColor(t *testing.T) {
	backend := newProject(t)

	_, err := execute(t, NewContainersCommand(), "create", "--name", "Paper", "--color", "red; x:y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create container")
	assert.Contains(t, err.Error(), "color")
	assert.Equal(t, 0, backend.Calls("POST /containers"))
}

func TestContainers_DeleteMissing(t *testing.T) {
	newProject(t)

	_, err := execute(t, NewContainersCommand(), "delete", "99")
	require.Error(t, err)
	assert.Equal(t, "failed to delete container: not found", err.Error())
}

func TestContainers_DeleteInvalidID(t *testing.T) {
	_, err := execute(t, NewContainersCommand(), "delete", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid id")
}

func TestContainers_AddItem(t *testing.T) {
	backend := newProject(t)
	backend.SetContainers(core.Container{ID: 2, Name: "Paper", Color: "blue"})

	out, err := execute(t, NewContainersCommand(), "add-item", "2", "--name", "newspaper")
	require.NoError(t, err)
	assert.Contains(t, out, "newspaper")

	items := backend.Items()
	require.Len(t, items, 1)
	require.NotNil(t, items[0].ContainerID)
	assert.Equal(t, int64(2), *items[0].ContainerID)
}

func TestItems_List(t *testing.T) {
	backend := newProject(t)
	backend.SetContainers(core.Container{ID: 1, Name: "Metal", Color: "silver"})
	backend.SetItems(core.Item{ID: 5, Name: "can", ContainerID: id(1)}, core.Item{ID: 6, Name: "orphan", ContainerID: id(9)})

	out, err := execute(t, NewItemsCommand(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Metal")
	assert.Contains(t, out, "orphan")
	assert.Contains(t, out, "Unassigned")
}

func TestItems_ListFailure(t *testing.T) {
	backend := newProject(t)
	backend.Fail("GET /items", 500, "boom")

	_, err := execute(t, NewItemsCommand(), "list")
	require.Error(t, err)
	assert.Equal(t, "Could not load the list of items: boom", err.Error())
}

func TestItems_CreateWithContainer(t *testing.T) {
	backend := newProject(t)

	_, err := execute(t, NewItemsCommand(), "create", "--name", "pizza box", "--type", "cardboard", "--container", "3")
	require.NoError(t, err)

	items := backend.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "cardboard", items[0].Type)
	require.NotNil(t, items[0].ContainerID)
	assert.Equal(t, int64(3), *items[0].ContainerID)
}

func TestItems_CreateWithoutContainer(t *testing.T) {
	backend := newProject(t)

	_, err := execute(t, NewItemsCommand(), "create", "--name", "sock")
	require.NoError(t, err)

	items := backend.Items()
	require.Len(t, items, 1)
	assert.Nil(t, items[0].ContainerID)
}

func TestItems_Delete(t *testing.T) {
	backend := newProject(t)
	backend.SetItems(core.Item{ID: 7, Name: "bottle"})

	_, err := execute(t, NewItemsCommand(), "delete", "7")
	require.NoError(t, err)
	assert.Empty(t, backend.Items())
}

func TestAdverts_CreateAndList(t *testing.T) {
	backend := newProject(t)

	_, err := execute(t, NewAdvertsCommand(), "create", "--title", "Spring clean", "--description", "Free bags", "--photo", "https://example.com/bags.jpg")
	require.NoError(t, err)
	require.Len(t, backend.Adverts(), 1)
	assert.Equal(t, "https://example.com/bags.jpg", backend.Adverts()[0].Photo())

	out, err := execute(t, NewAdvertsCommand(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Spring clean")
}

func TestAdverts_CreateRejectsRelativePhoto(t *testing.T) {
	backend := newProject(t)

	_, err := execute(t, NewAdvertsCommand(), "create", "--title", "T", "--description", "D", "--photo", "bags.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "photoUrl")
	assert.Empty(t, backend.Adverts())
}

func TestAdverts_ListFailure(t *testing.T) {
	backend := newProject(t)
	backend.Fail("GET /adverts", 500, "")

	_, err := execute(t, NewAdvertsCommand(), "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch adverts: ")
}

func TestSearchOutput_JSONShape(t *testing.T) {
	data, err := json.Marshal(SearchOutput{Query: "x", Results: []core.EnrichedItem{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":"x","results":[]}`, string(data))
}
