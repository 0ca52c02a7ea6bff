package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thesyncim/journey/pkg/journey"
)

// PlanInfo describes a built-in plan.
type PlanInfo struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Steps       []StepInfo `json:"steps"`
}

// StepInfo describes one step of a plan.
type StepInfo struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// NewPlansCommand creates the plans command.
func NewPlansCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "plans",
		Short:         "List the built-in journey plans",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := make([]PlanInfo, 0)
			for _, name := range journey.ListPlans() {
				p, err := journey.LoadPlan(name)
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to load built-in plan", err)
				}
				info := PlanInfo{Name: p.Name, Description: p.Description}
				for _, s := range p.Steps {
					info.Steps = append(info.Steps, StepInfo{Name: s.Name, Kind: s.Kind})
				}
				infos = append(infos, info)
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}

			for i, info := range infos {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%s %s\n", styleBrand.Render(info.Name),
					styleLabel.Render(fmt.Sprintf("(%d steps)", len(info.Steps))))
				if info.Description != "" {
					fmt.Fprintf(out, "  %s\n", styleHint.Render(info.Description))
				}
				for j, s := range info.Steps {
					fmt.Fprintf(out, "  %2d. %s %s\n", j+1, s.Name, styleLabel.Render(s.Kind))
				}
			}
			return nil
		},
	}
}
