package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/binfinder/binfinder/internal/cli/config"
)

// configDescriptions documents each key. Keys found on config.Config but
// missing here fail generation so the reference cannot drift.
var configDescriptions = map[string]string{
	"verbose":                       "Enable verbose output",
	"output":                        "Output format: auto, text, markdown, json",
	"api.base_url":                  "Backend API root, including the /api prefix",
	"api.timeout":                   "Per-request timeout",
	"api.breaker.enabled":           "Wrap backend requests in a circuit breaker",
	"api.breaker.max_requests":      "Requests allowed through while half-open",
	"api.breaker.interval":          "Window after which closed-state counts reset",
	"api.breaker.timeout":           "How long the breaker stays open",
	"api.breaker.failure_threshold": "Failure ratio that opens the breaker",
	"api.breaker.min_requests":      "Requests needed in a window before the ratio counts",
	"search.debounce":               "Quiet period after the last keystroke before a search runs",
	"ui.port":                       "Web UI port",
	"ui.auto_open":                  "Open a browser when the UI starts",
	"ui.watch":                      "Reload runtime settings when this file changes",
	"ui.session_secret":             "Cookie signing secret; random per process when empty",
	"ui.advert_rotation":            "Interval between adverts in the rotating panel",
	"ui.session_idle_timeout":       "Idle time after which a browser session's workspace is closed",
	"log.level":                     "Log level: debug, info, warn, error",
	"log.format":                    "Log format: text or json",
}

// ConfigField is one documented configuration key.
type ConfigField struct {
	Key         string
	Type        string
	Default     string
	Description string
}

// generateConfigDocs writes configuration.md.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	fields, err := configFields()
	if err != nil {
		return err
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "binfinder configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph(fmt.Sprintf("binfinder reads %s from the working directory or the nearest parent. Values are layered: built-in defaults, the config file, a %s file next to it, %s environment variables, then command-line flags.",
		InlineCode(config.ConfigFileNames[0]), InlineCode(".env"), InlineCode(config.EnvPrefix+"*")))

	for _, section := range sections(fields) {
		w.Header(2, section.title)
		var rows [][]string
		for _, f := range section.fields {
			def := f.Default
			if def != "" {
				def = InlineCode(def)
			}
			rows = append(rows, []string{InlineCode(f.Key), f.Type, def, f.Description})
		}
		w.Table([]string{"Key", "Type", "Default", "Description"}, rows)
	}

	w.Header(2, "Example")
	w.CodeBlock("yaml", exampleConfig)

	filename := filepath.Join(outDir, "configuration.md")
	if err := os.WriteFile(filename, w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated configuration.md")
	return nil
}

// configFields walks config.Config by koanf tag.
func configFields() ([]ConfigField, error) {
	defaults := config.Defaults()

	var fields []ConfigField
	var missing []string
	var walk func(t reflect.Type, prefix string)
	walk = func(t reflect.Type, prefix string) {
		for i := range t.NumField() {
			f := t.Field(i)
			tag := f.Tag.Get("koanf")
			if tag == "" || tag == "-" {
				continue
			}
			key := prefix + tag
			if f.Type.Kind() == reflect.Struct {
				walk(f.Type, key+".")
				continue
			}

			desc, ok := configDescriptions[key]
			if !ok {
				missing = append(missing, key)
			}
			def := ""
			if v, ok := defaults[key]; ok {
				def = fmt.Sprint(v)
			}
			fields = append(fields, ConfigField{Key: key, Type: typeName(f.Type), Default: def, Description: desc})
		}
	}
	walk(reflect.TypeOf(config.Config{}), "")

	if len(missing) > 0 {
		return nil, fmt.Errorf("undocumented config keys: %s", strings.Join(missing, ", "))
	}
	return fields, nil
}

func typeName(t reflect.Type) string {
	if t == reflect.TypeOf(time.Duration(0)) {
		return "duration"
	}
	switch t.Kind() {
	case reflect.Uint32, reflect.Int:
		return "int"
	case reflect.Float64:
		return "float"
	default:
		return t.Kind().String()
	}
}

type section struct {
	title  string
	fields []ConfigField
}

// sections groups fields by their first key segment, top-level keys first.
func sections(fields []ConfigField) []section {
	groups := map[string][]ConfigField{}
	for _, f := range fields {
		name := "general"
		if i := strings.Index(f.Key, "."); i > 0 {
			name = f.Key[:i]
		}
		groups[name] = append(groups[name], f)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		if name != "general" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := groups["general"]; ok {
		names = append([]string{"general"}, names...)
	}

	out := make([]section, 0, len(names))
	for _, name := range names {
		title := strings.ToUpper(name[:1]) + name[1:]
		if name == "api" || name == "ui" {
			title = strings.ToUpper(name)
		}
		out = append(out, section{title: title, fields: groups[name]})
	}
	return out
}

const exampleConfig = `api:
  base_url: http://localhost:8080/api
  timeout: 10s
search:
  debounce: 300ms
ui:
  port: 8765
  advert_rotation: 8s
log:
  level: info`
