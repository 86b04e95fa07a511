package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/binfinder/binfinder/internal/cli/output"
	"github.com/binfinder/binfinder/internal/resolver"
	"github.com/binfinder/binfinder/internal/tui"
	"github.com/binfinder/binfinder/pkg/core"
)

// SearchOutput is the JSON output for the search command.
type SearchOutput struct {
	Query   string              `json:"query"`
	Results []core.EnrichedItem `json:"results"`
}

// NewSearchCommand creates the search command.
func NewSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Find which container an item belongs in",
		Long: `Search items by name and show the container each one belongs in.

With a query, one search runs and the results are printed. Without one, an
interactive search opens in the terminal and results update as you type.`,
		Example: `  # One-shot search
  binfinder search newspaper

  # Interactive search
  binfinder search

  # Machine-readable output
  binfinder search "tin can" -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if query == "" {
				return runInteractiveSearch(cmd)
			}
			return runSearch(cmd, query)
		},
	}

	return cmd
}

func runSearch(cmd *cobra.Command, query string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	results, err := resolver.Resolve(cmd.Context(), cmdCtx.Client, query)
	if err != nil {
		cmdCtx.Logger.Debug("search failed", "query", query, "error", err)
		return errors.New(resolver.FormatError(err))
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(SearchOutput{Query: query, Results: results})
	}
	renderSearchResults(r, query, results)
	return nil
}

func renderSearchResults(r *output.Renderer, query string, results []core.EnrichedItem) {
	if len(results) == 0 {
		r.Muted(fmt.Sprintf("No matching items found for %q.", query))
		return
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Header(2, fmt.Sprintf("Results for %q", query))
	}

	rows := make([][]string, 0, len(results))
	for _, it := range results {
		rows = append(rows, []string{it.Name, it.Type, containerName(it.Container), containerColor(it.Container)})
	}
	r.Table([]string{"Item", "Type", "Container", "Color"}, rows)
}

func runInteractiveSearch(cmd *cobra.Command) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("a search query is required when not attached to a terminal")
	}

	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	return tui.Run(cmd.Context(), tui.Config{
		Fetcher:  cmdCtx.Client,
		Debounce: cmdCtx.Cfg.Search.Debounce,
		Logger:   cmdCtx.Logger,
	})
}

func containerName(c *core.Container) string {
	if c == nil {
		return "Unassigned"
	}
	return c.Name
}

func containerColor(c *core.Container) string {
	if c == nil {
		return ""
	}
	return c.Color
}
