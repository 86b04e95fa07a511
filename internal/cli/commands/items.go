package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/binfinder/binfinder/internal/api"
	"github.com/binfinder/binfinder/internal/cli/output"
	"github.com/binfinder/binfinder/internal/inventory"
	"github.com/binfinder/binfinder/pkg/core"
)

// NewItemsCommand creates the items command group.
func NewItemsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item"},
		Short:   "Manage items",
	}

	cmd.AddCommand(newItemsListCommand())
	cmd.AddCommand(newItemsCreateCommand())
	cmd.AddCommand(newItemsDeleteCommand())

	return cmd
}

func newItemsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every item with its container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			r := cmdCtx.Renderer

			items, err := cmdCtx.Inventory.ListItems(cmd.Context())
			if err != nil {
				return errors.New(inventory.ListItemsError(err))
			}

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(items)
			}
			if len(items) == 0 {
				r.Muted("No items yet.")
				return nil
			}
			rows := make([][]string, 0, len(items))
			for _, it := range items {
				rows = append(rows, []string{strconv.FormatInt(it.ID, 10), it.Name, it.Type, containerName(it.Container)})
			}
			r.Table([]string{"ID", "Name", "Type", "Container"}, rows)
			return nil
		},
	}
}

func newItemsCreateCommand() *cobra.Command {
	var (
		in          core.NewItem
		containerID int64
	)

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create an item",
		Example: `  binfinder items create --name "pizza box" --type cardboard --container 2`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("container") {
				in.ContainerID = &containerID
			}

			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			r := cmdCtx.Renderer

			it, err := cmdCtx.Inventory.CreateItem(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("failed to create item: %s", api.Message(err))
			}

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(it)
			}
			r.Success(fmt.Sprintf("Item %q created (id %d)", it.Name, it.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Item name (required)")
	cmd.Flags().StringVar(&in.Type, "type", "", "Item type, e.g. plastic")
	cmd.Flags().StringVar(&in.Description, "description", "", "Optional description")
	cmd.Flags().Int64Var(&containerID, "container", 0, "ID of the container the item belongs in")

	return cmd
}

func newItemsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an item",
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

			if err := cmdCtx.Inventory.DeleteItem(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete item: %s", api.Message(err))
			}
			cmdCtx.Renderer.Success(fmt.Sprintf("Item %d deleted", id))
			return nil
		},
	}
}
