package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

type windowOutput struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func newAvailabilityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "availability",
		Short: "List busy windows from the credential's scheduled meetings",
		Long: `List the busy windows implied by the credential's upcoming scheduled
meetings. The lookup is best-effort: when Zoom cannot be reached an empty
list is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := setup(ctx)
			if err != nil {
				return err
			}
			defer rt.close(ctx)

			windows := rt.adapter.GetAvailability(ctx)
			out := make([]windowOutput, 0, len(windows))
			for _, w := range windows {
				out = append(out, windowOutput{Start: w.Start, End: w.End})
			}
			return printJSON(out)
		},
	}
}
