package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spigell/job-assistant/internal/narrative"
)

var interviewsCmd = &cobra.Command{
	Use:   "interviews",
	Short: "Browse saved interview preparations",
}

var interviewsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved interviews, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		items, err := e.newInterviewStore().List()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(items) == 0 {
			fmt.Fprintln(out, "No saved interviews")
			return nil
		}
		for _, item := range items {
			fmt.Fprintf(out, "%s  %s, %s at %s, %d questions (%s)\n",
				item.GeneratedAt.Local().Format("2006-01-02 15:04"),
				item.InterviewType,
				item.JobTitle,
				item.Company,
				item.Questions,
				item.Name,
			)
		}
		return nil
	},
}

var interviewsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a saved interview",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		record, err := e.newInterviewStore().Load(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s for %s at %s (%s)\n\n", record.InterviewType, record.JobTitle, record.Company, record.Difficulty)
		fmt.Fprintln(out, narrative.RenderSet(record.Questions))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(interviewsCmd)
	interviewsCmd.AddCommand(interviewsListCmd, interviewsShowCmd)
}
