package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/binfinder/binfinder/internal/api"
	"github.com/binfinder/binfinder/internal/cli/output"
	"github.com/binfinder/binfinder/pkg/core"
)

// NewContainersCommand creates the containers command group.
func NewContainersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "containers",
		Aliases: []string{"container"},
		Short:   "Manage storage containers",
	}

	cmd.AddCommand(newContainersListCommand())
	cmd.AddCommand(newContainersCreateCommand())
	cmd.AddCommand(newContainersDeleteCommand())
	cmd.AddCommand(newContainersAddItemCommand())

	return cmd
}

func newContainersListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List containers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			r := cmdCtx.Renderer

			containers, err := cmdCtx.Inventory.Containers(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load containers: %s", api.Message(err))
			}

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(containers)
			}
			if len(containers) == 0 {
				r.Muted("No containers yet. Create one with 'binfinder containers create'.")
				return nil
			}
			rows := make([][]string, 0, len(containers))
			for _, c := range containers {
				rows = append(rows, []string{strconv.FormatInt(c.ID, 10), c.Name, c.Color, c.Description})
			}
			r.Table([]string{"ID", "Name", "Color", "Description"}, rows)
			return nil
		},
	}
}

func newContainersCreateCommand() *cobra.Command {
	var in core.NewContainer

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a container",
		Example: `  binfinder containers create --name Paper --color "#2196f3"
  binfinder containers create --name Glass --color green --description "Bottles and jars"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			r := cmdCtx.Renderer

			c, err := cmdCtx.Inventory.CreateContainer(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("failed to create container: %s", api.Message(err))
			}

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(c)
			}
			r.Success(fmt.Sprintf("Container %q created (id %d)", c.Name, c.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Container name (required)")
	cmd.Flags().StringVar(&in.Color, "color", "", "CSS color, e.g. #2196f3 or blue (required)")
	cmd.Flags().StringVar(&in.Description, "description", "", "Optional description")

	return cmd
}

func newContainersDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			if err := cmdCtx.Inventory.DeleteContainer(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete container: %s", api.Message(err))
			}
			cmdCtx.Renderer.Success(fmt.Sprintf("Container %d deleted", id))
			return nil
		},
	}
}

func newContainersAddItemCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:     "add-item <container-id>",
		Short:   "Add a new item to a container",
		Example: `  binfinder containers add-item 2 --name newspaper`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			r := cmdCtx.Renderer

			it, err := cmdCtx.Inventory.AddItemToContainer(cmd.Context(), id, name)
			if err != nil {
				return fmt.Errorf("failed to add item: %s", api.Message(err))
			}

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(it)
			}
			r.Success(fmt.Sprintf("Item %q added to container %d", it.Name, id))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Item name (required)")

	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return id, nil
}
