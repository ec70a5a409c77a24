package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/spigell/job-assistant/internal/jobs"
	"github.com/spigell/job-assistant/internal/matching"
	"github.com/spigell/job-assistant/internal/session"
)

var matchCmd = &cobra.Command{
	Use:   "match [result-number]",
	Short: "Compare the analysed resume with a job description",
	Long: "Compare the analysed resume with the selected job, the given search result " +
		"or a job description read from --description-file.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		s, err := e.loadSession()
		if err != nil {
			return err
		}
		profile, err := profileOrErr(s)
		if err != nil {
			return err
		}

		var description string
		if file, _ := cmd.Flags().GetString("description-file"); file != "" {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read job description: %w", err)
			}
			description = string(data)
		} else {
			job, err := pickJob(s, args)
			if err != nil {
				return err
			}
			s.SelectedJob = job
			description = job.Description
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", job.Key())
		}

		printReport(cmd.OutOrStdout(), matching.NewScorer(nil).ScoreProfile(profile, description))
		return e.saveSession(s)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().String("description-file", "", "a file holding the job description")
}

// pickJob returns the search result numbered by args[0], or the selected job.
func pickJob(s *session.Session, args []string) (*jobs.Posting, error) {
	if len(args) == 0 {
		if s.SelectedJob == nil {
			return nil, errors.New("no job selected, pass a result number from the last search")
		}
		return s.SelectedJob, nil
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("invalid result number %q", args[0])
	}
	if s.Results == nil || n < 1 || n > s.Results.Len() {
		return nil, fmt.Errorf("result number %d is out of range, the last search has %d results", n, s.Results.Len())
	}
	return s.Results.Items[n-1], nil
}
