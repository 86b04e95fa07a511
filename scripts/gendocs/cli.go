package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/binfinder/binfinder/internal/cli"
	"github.com/binfinder/binfinder/internal/cli/config"
	"github.com/binfinder/binfinder/internal/cli/output"
)

// surfaces groups top-level commands on the index page, in display order.
var surfaces = []struct {
	title    string
	intro    string
	commands []string
}{
	{
		title:    "Finding items",
		intro:    "Look up which container an item belongs in, once from a script or interactively.",
		commands: []string{"search", "ui"},
	},
	{
		title:    "Managing the inventory",
		intro:    "Create and delete the records the backend stores. Every change is visible to open web UI pages immediately.",
		commands: []string{"containers", "items", "adverts"},
	},
	{
		title:    "Setup and diagnostics",
		commands: []string{"init", "config", "doctor", "version", "completion"},
	},
}

// generateCLIDocs writes index.md plus one page per top-level command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	commands := documented(root)

	index, err := cliIndex(root, commands)
	if err != nil {
		return fmt.Errorf("failed to generate index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "index.md"), index, 0600); err != nil {
		return err
	}

	for _, cmd := range commands {
		if err := os.WriteFile(filepath.Join(outDir, cmd.Name()+".md"), commandPage(cmd), 0600); err != nil {
			return fmt.Errorf("failed to write page for %s: %w", cmd.Name(), err)
		}
		log.Printf("  %s.md", cmd.Name())
	}
	return nil
}

func documented(parent *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range parent.Commands() {
		if cmd.Hidden || cmd.Name() == "help" {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

func cliIndex(root *cobra.Command, commands []*cobra.Command) ([]byte, error) {
	byName := make(map[string]*cobra.Command, len(commands))
	for _, cmd := range commands {
		byName[cmd.Name()] = cmd
	}

	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "binfinder command reference")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph("binfinder is a front end for the inventory backend. It tells you which container an item belongs in, and lets you manage containers, items and adverts. Every command talks to the backend configured under " + InlineCode("api.base_url") + ".")
	w.CodeBlock("bash", "binfinder <command> [options]")

	for _, s := range surfaces {
		w.Header(2, s.title)
		if s.intro != "" {
			w.Paragraph(s.intro)
		}
		var rows [][]string
		for _, name := range s.commands {
			cmd, ok := byName[name]
			if !ok {
				continue
			}
			delete(byName, name)
			rows = append(rows, []string{fmt.Sprintf("[%s](/cli/%s)", InlineCode(name), name), cleanDescription(cmd.Short)})
		}
		w.Table([]string{"Command", "Description"}, rows)
	}

	if len(byName) > 0 {
		w.Header(2, "Other")
		var rows [][]string
		for _, cmd := range commands {
			if _, ok := byName[cmd.Name()]; ok {
				rows = append(rows, []string{InlineCode(cmd.Name()), cleanDescription(cmd.Short)})
			}
		}
		w.Table([]string{"Command", "Description"}, rows)
	}

	w.Header(2, "Global Options")
	flagsTable(w, root.PersistentFlags())

	w.Header(2, "Output")
	w.Paragraph("List and search commands print in the mode chosen by " + InlineCode("--output") + ":")
	w.Table([]string{"Mode", "Result"}, [][]string{
		{InlineCode(string(output.ModeAuto)), "text on a terminal, markdown when piped"},
		{InlineCode(string(output.ModeText)), "styled tables with container colour swatches"},
		{InlineCode(string(output.ModeMarkdown)), "markdown tables"},
		{InlineCode(string(output.ModeJSON)), "the backend entities as JSON, joined results carry " + InlineCode(`"container": null`) + " when unassigned"},
	})

	fields, err := configFields()
	if err != nil {
		return nil, err
	}
	w.Header(2, "Environment")
	w.Paragraph(fmt.Sprintf("Any config key can be set from the environment. A %s file in the working directory is loaded first. Flags still win.", InlineCode(".env")))
	var rows [][]string
	for _, f := range fields {
		rows = append(rows, []string{InlineCode(envName(f.Key)), InlineCode(f.Key)})
	}
	w.Table([]string{"Variable", "Config key"}, rows)

	w.Paragraph("Commands exit with status 1 and print " + InlineCode("Error: ...") + " to stderr when the backend is unreachable or rejects a request.")
	return w.Bytes(), nil
}

// envName maps a config key to its variable, e.g. api.base_url to
// BINFINDER_API__BASE_URL.
func envName(key string) string {
	return config.EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
}

func commandPage(cmd *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, "binfinder "+cmd.Name())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	subs := documented(cmd)
	if len(subs) == 0 {
		commandBody(w, cmd, 2)
	} else {
		w.CodeBlock("bash", fmt.Sprintf("binfinder %s <subcommand> [options]", cmd.Name()))
		for _, sub := range subs {
			w.Header(2, sub.Name())
			w.Paragraph(cleanDescription(sub.Short))
			commandBody(w, sub, 3)
		}
	}

	if cmd.HasPersistentFlags() || cmd.HasInheritedFlags() {
		w.Header(2, "Global Options")
		w.Paragraph("See the [CLI reference](/cli/) for " + InlineCode("--config") + ", " + InlineCode("--output") + " and the other flags every command accepts.")
	}
	return w.Bytes()
}

// commandBody writes usage, aliases, flags and examples for a leaf command.
func commandBody(w *MarkdownWriter, cmd *cobra.Command, level int) {
	use := cmd.UseLine()
	if !strings.HasPrefix(use, "binfinder") {
		use = "binfinder " + use
	}
	w.CodeBlock("bash", use)

	if len(cmd.Aliases) > 0 {
		var aliases []string
		for _, a := range cmd.Aliases {
			aliases = append(aliases, InlineCode(a))
		}
		w.Paragraph("Aliases:")
		w.BulletList(aliases)
	}

	if cmd.HasLocalFlags() {
		w.Header(level, "Options")
		flagsTable(w, cmd.LocalFlags())
	}

	if cmd.Example != "" {
		w.Header(level, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}
}

func flagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Name == "help" {
			return
		}
		name := InlineCode("--" + f.Name)
		if f.Shorthand != "" {
			name += ", " + InlineCode("-"+f.Shorthand)
		}
		def := f.DefValue
		if def != "" && def != "[]" {
			def = InlineCode(def)
		} else {
			def = ""
		}
		rows = append(rows, []string{name, def, cleanDescription(f.Usage)})
	})
	if len(rows) > 0 {
		w.Table([]string{"Flag", "Default", "Description"}, rows)
	}
}

// dedent strips the indentation cobra examples are written with.
func dedent(s string) string {
	lines := strings.Split(strings.Trim(s, "\n"), "\n")
	indent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	for i, l := range lines {
		if len(l) >= indent && indent > 0 {
			lines[i] = l[indent:]
		}
	}
	return strings.Join(lines, "\n")
}
