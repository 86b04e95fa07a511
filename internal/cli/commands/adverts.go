package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/binfinder/binfinder/internal/api"
	"github.com/binfinder/binfinder/internal/cli/output"
	"github.com/binfinder/binfinder/pkg/core"
)

// NewAdvertsCommand creates the adverts command group.
func NewAdvertsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "adverts",
		Aliases: []string{"advert", "ads"},
		Short:   "Manage adverts shown in the display panel",
	}

	cmd.AddCommand(newAdvertsListCommand())
	cmd.AddCommand(newAdvertsCreateCommand())
	cmd.AddCommand(newAdvertsDeleteCommand())

	return cmd
}

func newAdvertsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List adverts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			r := cmdCtx.Renderer

			adverts, err := cmdCtx.Inventory.Adverts(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch adverts: %s", api.Message(err))
			}

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(adverts)
			}
			if len(adverts) == 0 {
				r.Muted("No adverts yet.")
				return nil
			}
			rows := make([][]string, 0, len(adverts))
			for _, ad := range adverts {
				rows = append(rows, []string{strconv.FormatInt(ad.ID, 10), ad.Title, ad.Description, ad.Photo()})
			}
			r.Table([]string{"ID", "Title", "Description", "Photo"}, rows)
			return nil
		},
	}
}

func newAdvertsCreateCommand() *cobra.Command {
	var (
		in    core.NewAdvert
		photo string
	)

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create an advert",
		Example: `  binfinder adverts create --title "Spring clean" --description "Free bin bags" --photo https://example.com/bags.jpg`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if photo != "" {
				in.PhotoURL = &photo
			}

			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			r := cmdCtx.Renderer

			ad, err := cmdCtx.Inventory.CreateAdvert(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("failed to create advert: %s", api.Message(err))
			}

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(ad)
			}
			r.Success(fmt.Sprintf("Advert %q created (id %d)", ad.Title, ad.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "Advert title (required)")
	cmd.Flags().StringVar(&in.Description, "description", "", "Advert text (required)")
	cmd.Flags().StringVar(&photo, "photo", "", "Absolute http(s) URL of a photo")

	return cmd
}

func newAdvertsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an advert",
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

			if err := cmdCtx.Inventory.DeleteAdvert(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete advert: %s", api.Message(err))
			}
			cmdCtx.Renderer.Success(fmt.Sprintf("Advert %d deleted", id))
			return nil
		},
	}
}
