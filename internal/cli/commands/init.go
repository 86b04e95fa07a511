package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/binfinder/binfinder/internal/cli/output"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default binfinder configuration",
		Long: `Write a binfinder.yaml with every setting at its default value, plus a
.env.example listing the environment overrides.`,
		Example: `  # Initialize in current directory
  binfinder init

  # Initialize in a new directory
  binfinder init ./deploy

  # Force overwrite existing config
  binfinder init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "binfinder.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("binfinder.yaml already exists. Use --force to overwrite")
	}

	if err := copyTemplate("default", dir, force); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}

	files, _ := listTemplateFiles("default")
	for _, f := range files {
		r.StatusLine(f, "success", "")
	}

	r.Println("")
	r.Success("binfinder configured!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Point api.base_url at your inventory backend")
	r.Println("  2. Run 'binfinder doctor' to check the connection")
	r.Println("  3. Run 'binfinder ui' to open the web interface")

	return nil
}
