// Package cli implements the journey command line.
package cli

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/thesyncim/journey/pkg/browser"
	"github.com/thesyncim/journey/pkg/config"
	"github.com/thesyncim/journey/pkg/journey"
)

// RootOptions holds global flags for all commands. Flags override values
// from the config file only when set explicitly.
type RootOptions struct {
	Verbose      bool
	Format       string
	ConfigPath   string
	BaseURL      string
	Plan         string
	Headless     bool
	Timeout      time.Duration
	ProbeTimeout time.Duration
	ChromeBin    string

	openBrowser func(browser.Config) journey.Opener
	httpClient  *http.Client
}

// NewRootCommand creates the root command. Invoked without a subcommand it
// behaves like "journey run".
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{openBrowser: browser.Opener})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	def := config.Default()
	runCmd := NewRunCommand(opts)

	cmd := &cobra.Command{
		Use:   "journey",
		Short: "Browser acceptance journeys against a running web application",
		Long: `journey drives a real Chrome through an ordered plan of user
journeys (log in, register a patient, schedule an appointment, ...) and
reports one PASS/FAIL line per step.

The application must already be running; journey checks that it answers
HTTP before launching the browser.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCmd.RunE,
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging on stderr")
	pf.StringVar(&opts.Format, "format", def.Format, "output format (text|json)")
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file")
	pf.StringVar(&opts.BaseURL, "base-url", def.BaseURL, "base URL of the application under test")
	pf.StringVar(&opts.Plan, "plan", def.Plan, "built-in plan name or path to a plan file")
	pf.BoolVar(&opts.Headless, "headless", def.Browser.Headless, "run Chrome without a window")
	pf.DurationVar(&opts.Timeout, "timeout", def.Browser.Timeout, "default wait for elements and URLs")
	pf.DurationVar(&opts.ProbeTimeout, "probe-timeout", def.ProbeTimeout, "reachability check timeout")
	pf.StringVar(&opts.ChromeBin, "chrome-bin", "", "Chrome binary (default: found or downloaded by rod)")

	cmd.AddCommand(runCmd)
	cmd.AddCommand(NewProbeCommand(opts))
	cmd.AddCommand(NewPlansCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// resolve loads the config file and applies explicitly set flags over it.
func (o *RootOptions) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load configuration", err)
	}

	f := cmd.Flags()
	if f.Changed("base-url") {
		cfg.BaseURL = o.BaseURL
	}
	if f.Changed("plan") {
		cfg.Plan = o.Plan
	}
	if f.Changed("format") {
		cfg.Format = o.Format
	}
	if f.Changed("probe-timeout") {
		cfg.ProbeTimeout = o.ProbeTimeout
	}
	if f.Changed("headless") {
		cfg.Browser.Headless = o.Headless
	}
	if f.Changed("timeout") {
		cfg.Browser.Timeout = o.Timeout
	}
	if f.Changed("chrome-bin") {
		cfg.Browser.Bin = o.ChromeBin
	}

	if err := cfg.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	return cfg, nil
}

// logger returns a text logger on w. Only warnings and errors are shown
// unless verbose output was requested.
func (o *RootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
