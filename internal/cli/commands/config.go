package commands

import (
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/binfinder/binfinder/internal/cli/config"
	"github.com/binfinder/binfinder/internal/cli/output"
)

const redacted = "********"

// secretKeys are masked when the configuration is printed.
var secretKeys = map[string]bool{
	"ui.session_secret": true,
}

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the merged configuration as YAML",
		Long: `Print the configuration after defaults, binfinder.yaml, .env, environment
variables and flags have been merged. Secrets are masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig()
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
			return runConfigShow(r, cfg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			getConfig()
			path := config.GetConfigFileUsed()
			if path == "" {
				return fmt.Errorf("no config file found; run 'binfinder init' to create one")
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	})

	return cmd
}

func runConfigShow(r *output.Renderer, cfg *config.Config) error {
	tree := configTree(reflect.ValueOf(*cfg), "")

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(tree)
	}

	enc := yaml.NewEncoder(r.Writer())
	enc.SetIndent(2)
	if err := enc.Encode(tree); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return enc.Close()
}

// configTree converts a config struct into nested maps keyed by koanf tag,
// the same shape binfinder.yaml uses.
func configTree(v reflect.Value, prefix string) map[string]any {
	out := map[string]any{}
	t := v.Type()
	for i := range t.NumField() {
		tag := t.Field(i).Tag.Get("koanf")
		if tag == "" || tag == "-" {
			continue
		}
		key := prefix + tag
		field := v.Field(i)

		switch {
		case field.Kind() == reflect.Struct:
			out[tag] = configTree(field, key+".")
		case secretKeys[key]:
			if field.String() != "" {
				out[tag] = redacted
			} else {
				out[tag] = ""
			}
		case field.Type() == reflect.TypeOf(time.Duration(0)):
			out[tag] = time.Duration(field.Int()).String()
		default:
			out[tag] = field.Interface()
		}
	}
	return out
}
