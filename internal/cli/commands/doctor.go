package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/binfinder/binfinder/internal/api"
	"github.com/binfinder/binfinder/internal/cli/config"
	"github.com/binfinder/binfinder/internal/cli/output"
)

// Check statuses.
const (
	checkPass  = "pass"
	checkWarn  = "warn"
	checkError = "error"
)

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	BaseURL    string        `json:"base_url"`
	ConfigFile string        `json:"config_file,omitempty"`
	Checks     []HealthCheck `json:"checks"`
	Passed     int           `json:"passed"`
	Failed     int           `json:"failed"`
}

// HealthCheck is the result of a single probe.
type HealthCheck struct {
	Name     string `json:"name"`
	Group    string `json:"group"`
	Status   string `json:"status"` // "pass", "warn", "error"
	Detail   string `json:"detail,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// probe is one backend endpoint the doctor exercises.
type probe struct {
	name string
	run  func(ctx context.Context, c *api.Client) (int, error)
}

var backendProbes = []probe{
	{"GET /containers", func(ctx context.Context, c *api.Client) (int, error) {
		cs, err := c.ListContainers(ctx)
		return len(cs), err
	}},
	{"GET /items", func(ctx context.Context, c *api.Client) (int, error) {
		is, err := c.ListItems(ctx)
		return len(is), err
	}},
	{"GET /items/search", func(ctx context.Context, c *api.Client) (int, error) {
		is, err := c.SearchItems(ctx, "a")
		return len(is), err
	}},
	{"GET /adverts", func(ctx context.Context, c *api.Client) (int, error) {
		as, err := c.ListAdverts(ctx)
		return len(as), err
	}},
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and backend connectivity",
		Long: `Check that binfinder is configured and can reach every backend endpoint it uses.

Each endpoint is probed once with a read-only request. The command exits with an
error when any probe fails.`,
		Example: `  # Run health check
  binfinder doctor

  # Against another backend
  binfinder doctor --api-url http://inventory:8080/api

  # Output as JSON
  binfinder doctor -o json`,
		Args: cobra.NoArgs,
		RunE: runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	out := buildDoctorOutput(cmd.Context(), cmdCtx.Client, config.GetConfigFileUsed())

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(out); err != nil {
			return err
		}
	default:
		renderDoctor(r, out)
	}

	if out.Failed > 0 {
		return fmt.Errorf("%d of %d checks failed", out.Failed, len(out.Checks))
	}
	return nil
}

func buildDoctorOutput(ctx context.Context, client *api.Client, configFile string) *DoctorOutput {
	out := &DoctorOutput{BaseURL: client.BaseURL(), ConfigFile: configFile}

	cfgCheck := HealthCheck{Name: "config file", Group: "configuration", Status: checkPass, Detail: configFile}
	if configFile == "" {
		cfgCheck.Status = checkWarn
		cfgCheck.Detail = "no binfinder.yaml found, using defaults"
	}
	out.Checks = append(out.Checks, cfgCheck)

	for _, p := range backendProbes {
		out.Checks = append(out.Checks, runProbe(ctx, client, p))
	}

	for _, c := range out.Checks {
		switch c.Status {
		case checkPass:
			out.Passed++
		case checkError:
			out.Failed++
		}
	}
	return out
}

func runProbe(ctx context.Context, client *api.Client, p probe) HealthCheck {
	start := time.Now()
	n, err := p.run(ctx, client)
	check := HealthCheck{
		Name:     p.name,
		Group:    "backend",
		Duration: time.Since(start).Round(time.Millisecond).String(),
	}
	if err != nil {
		check.Status = checkError
		check.Detail = api.Message(err)
		return check
	}
	check.Status = checkPass
	check.Detail = fmt.Sprintf("%d records", n)
	return check
}

func renderDoctor(r *output.Renderer, out *DoctorOutput) {
	styles := r.Styles()
	markdown := r.EffectiveMode() == output.ModeMarkdown

	if markdown {
		r.Println(output.FormatHeader(1, "binfinder Health Report"))
		r.Println(output.FormatKeyValue("Backend", out.BaseURL))
	} else {
		r.Println("")
		r.Println(styles.Header1.Render("binfinder Health Report"))
		r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
		r.Printf("   Backend: %s\n", out.BaseURL)
	}
	r.Println("")

	titleCaser := cases.Title(language.English)
	currentGroup := ""
	for _, check := range out.Checks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Header(2, titleCaser.String(currentGroup))
		}

		status := "success"
		switch check.Status {
		case checkWarn:
			status = "warn"
		case checkError:
			status = "failed"
		}
		detail := check.Detail
		if check.Duration != "" {
			detail = strings.TrimSpace(detail + " (" + check.Duration + ")")
		}
		r.StatusLine(check.Name, status, detail)
	}
	r.Println("")

	summary := fmt.Sprintf("%d passed, %d failed", out.Passed, out.Failed)
	if out.Failed > 0 {
		r.Warning(summary)
		return
	}
	r.Success(summary)
}
