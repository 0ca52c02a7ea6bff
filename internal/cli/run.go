package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thesyncim/journey/pkg/config"
	"github.com/thesyncim/journey/pkg/journey"
	"github.com/thesyncim/journey/pkg/probe"
)

// NewRunCommand creates the run command.
func NewRunCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Check the application is up, then run a journey plan",
		Long: `Run a journey plan against the application at --base-url.

Each step is printed as soon as it completes, followed by a summary.
A failing step does not stop the journey.

Exit codes:
  0 - Every step passed
  1 - One or more steps failed, or the run was interrupted
  2 - Application unreachable, invalid configuration, or browser failed to start

Examples:
  journey run
  journey run --base-url http://localhost:3000 --headless
  journey run --plan dental-extended --format json
  journey run --plan ./plans/smoke.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJourney(cmd, opts)
		},
	}
}

func runJourney(cmd *cobra.Command, opts *RootOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	logger := opts.logger(cmd.ErrOrStderr())

	cfg, err := opts.resolve(cmd)
	if err != nil {
		return err
	}
	text := cfg.Format == config.FormatText

	plan, err := journey.LoadPlan(cfg.Plan)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load plan", err)
	}
	steps, err := plan.Build(cfg.BaseURL, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build plan", err)
	}

	if text {
		fmt.Fprintf(out, "%s %s %s %s\n",
			styleBrand.Render("journey"),
			styleValue.Render(plan.Name),
			styleLabel.Render("against"),
			styleValue.Render(cfg.BaseURL))
	}

	if err := probe.Check(ctx, opts.httpClient, cfg.BaseURL, cfg.ProbeTimeout); err != nil {
		if text {
			fmt.Fprintln(out, styleHint.Render("Start the application and try again."))
		}
		return WrapExitError(ExitCommandError, "application is not reachable", err)
	}
	logger.Debug("application reachable", "base_url", cfg.BaseURL)

	runner, err := journey.NewRunner(
		opts.openBrowser(cfg.BrowserConfig()),
		journey.WithLogger(logger),
		journey.WithOnEntry(func(e journey.Entry) {
			if text {
				fmt.Fprintln(out, styledLine(e))
			}
		}),
	)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create runner", err)
	}

	log, runErr := runner.Run(ctx, steps)
	if log == nil {
		return WrapExitError(ExitCommandError, "failed to start browser", runErr)
	}

	summary := journey.Summarize(log)
	if text {
		fmt.Fprintln(out)
		fmt.Fprint(out, journey.FormatText(summary))
	} else {
		data, err := journey.FormatJSON(summary)
		if err != nil {
			return fmt.Errorf("failed to encode summary: %w", err)
		}
		fmt.Fprintln(out, data)
	}

	switch {
	case errors.Is(runErr, journey.ErrInterrupted):
		return WrapExitError(ExitFailure, "run interrupted", runErr)
	case runErr != nil:
		return WrapExitError(ExitFailure, "run finished with errors", runErr)
	case !summary.AllPassed:
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d steps failed", summary.Failed, summary.Total))
	}
	return nil
}
