package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/teemow/meetfollow/internal/workflow"
)

const (
	outputText = "text"
	outputJSON = "json"
)

func newRunCmd(opts *globalOptions) *cobra.Command {
	var (
		eventID string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the follow-up workflow once",
		Long: `Fetch the calendar event, retrieve its transcript, summarize the meeting and
create a follow-up event if the summary lists next steps.

The event defaults to EVENT_ID (or "abc123" when unset).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != outputText && output != outputJSON {
				return fmt.Errorf("unsupported output format: %s (supported: text, json)", output)
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			rt, err := opts.setup(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.shutdown(ctx)

			if eventID == "" {
				eventID = rt.cfg.EventID
			}

			res, err := rt.workflow.Run(ctx, eventID)
			if err != nil {
				return err
			}

			if output == outputJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().StringVar(&eventID, "event-id", "", "Calendar event ID (default: EVENT_ID)")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format: text or json")

	return cmd
}

func printResult(w io.Writer, res *workflow.Result) {
	heading := color.New(color.Bold)

	fmt.Fprintf(w, "Run:     %s (%s)\n", res.RunID, res.Mode)
	fmt.Fprintf(w, "Meeting: %s (%s)\n", res.Event.Title, res.Event.ID)

	heading.Fprintln(w, "\nSummary:")
	fmt.Fprintln(w, res.Analysis.Summary)

	if len(res.Analysis.NextSteps) > 0 {
		heading.Fprintln(w, "\nNext steps:")
		for _, s := range res.Analysis.NextSteps {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}

	if res.Followup != nil {
		color.New(color.FgGreen).Fprintf(w, "\nFollow-up created: %s\n", res.Followup.HTMLLink)
	} else {
		color.New(color.FgYellow).Fprintln(w, "\nNo follow-up created.")
	}
}
