package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spigell/job-assistant/internal/keywords"
)

var errNoProfile = errors.New("no resume analysed yet, run the analyze command first")

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Build search keywords and a job title from the analysed resume",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		s, err := e.loadSession()
		if err != nil {
			return err
		}
		if !s.HasProfile() {
			return errNoProfile
		}

		kw, title := keywords.NewBuilder(limit).Build(s.Profile)
		s.Keywords = kw
		s.Title = title

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Title: %s\n", title)
		fmt.Fprintf(out, "Keywords: %s\n", strings.Join(kw, ", "))
		fmt.Fprintf(out, "Query: %s\n", keywords.Query(kw))

		return e.saveSession(s)
	},
}

func init() {
	rootCmd.AddCommand(keywordsCmd)

	keywordsCmd.Flags().Int("limit", keywords.DefaultLimit,
		fmt.Sprintf("number of keywords (%d..%d)", keywords.MinLimit, keywords.MaxLimit))
}
