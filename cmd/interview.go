package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/job-assistant/internal/interviews"
	"github.com/spigell/job-assistant/internal/narrative"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Generate interview questions for the selected job",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Flags()
		typ, _ := flags.GetString("type")
		difficulty, _ := flags.GetString("difficulty")
		focus, _ := flags.GetStringSlice("focus")
		count, _ := flags.GetInt("count")
		save, _ := flags.GetBool("save")
		generic, _ := flags.GetBool("generic")

		interviewType, err := narrative.ParseInterviewType(typ)
		if err != nil {
			return err
		}
		level, err := narrative.ParseDifficulty(difficulty)
		if err != nil {
			return err
		}

		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		s, err := e.loadSession()
		if err != nil {
			return err
		}

		req := narrative.InterviewRequest{
			Type:       interviewType,
			Difficulty: level,
			FocusAreas: focus,
			Count:      count,
		}
		if !generic {
			req.Job = s.SelectedJob
		}

		ctx := cmd.Context()
		interview := e.newAssistant(ctx).InterviewQuestions(ctx, s.Profile, req)
		s.Interview = &interview

		out := cmd.OutOrStdout()
		printInterview(out, interview)

		if save {
			path, err := e.newInterviewStore().Save(interviews.NewRecord(interview))
			if err != nil {
				return err
			}
			e.logger.Info("interview saved", zap.String("path", path))
		}

		return e.saveSession(s)
	},
}

func init() {
	rootCmd.AddCommand(interviewCmd)

	types := make([]string, 0, len(narrative.InterviewTypes))
	for _, t := range narrative.InterviewTypes {
		types = append(types, string(t))
	}

	f := interviewCmd.Flags()
	f.StringP("type", "t", string(narrative.TechnicalInterview), "interview type: "+strings.Join(types, ", "))
	f.String("difficulty", narrative.Intermediate, "difficulty: "+strings.Join(narrative.Difficulties, ", "))
	f.StringSlice("focus", nil, "focus areas (default depends on the type)")
	f.IntP("count", "n", narrative.DefaultQuestionCount, fmt.Sprintf("number of questions (1..%d)", narrative.MaxQuestionCount))
	f.Bool("save", false, "save the questions to the interviews directory")
	f.Bool("generic", false, "ignore the selected job")
}

func printInterview(out io.Writer, interview narrative.Interview) {
	req := interview.Request
	header := string(req.Type)
	if req.Job != nil {
		header += " for " + req.Job.Key().String()
	}
	fmt.Fprintf(out, "%s (%s, %s)\n", header, req.Difficulty, interview.Source)
	fmt.Fprintf(out, "Focus: %s\n\n", strings.Join(req.FocusAreas, ", "))
	fmt.Fprintln(out, narrative.RenderSet(interview.Questions))
}
