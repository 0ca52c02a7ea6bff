package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thesyncim/journey/pkg/config"
	"github.com/thesyncim/journey/pkg/probe"
)

// ProbeResult is the JSON form of a reachability check.
type ProbeResult struct {
	BaseURL   string `json:"base_url"`
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
}

// NewProbeCommand creates the probe command.
func NewProbeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Check that the application answers HTTP",
		Long: `Issue a single GET against --base-url without launching a browser.

Exit codes:
  0 - The application answered with a 2xx status
  2 - The application is unreachable`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}

			perr := probe.Check(cmd.Context(), opts.httpClient, cfg.BaseURL, cfg.ProbeTimeout)
			res := ProbeResult{BaseURL: cfg.BaseURL, Reachable: perr == nil}
			if perr != nil {
				res.Error = perr.Error()
			}

			out := cmd.OutOrStdout()
			if cfg.Format == config.FormatJSON {
				if err := json.NewEncoder(out).Encode(res); err != nil {
					return err
				}
			} else if perr == nil {
				fmt.Fprintf(out, "%s %s\n", styleSuccess.Render("reachable"), cfg.BaseURL)
			} else {
				fmt.Fprintf(out, "%s %s\n", styleError.Render("unreachable"), cfg.BaseURL)
			}

			if perr != nil {
				return WrapExitError(ExitCommandError, "application is not reachable", perr)
			}
			return nil
		},
	}
}
