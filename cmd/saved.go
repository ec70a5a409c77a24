package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/job-assistant/internal/jobs"
)

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Manage saved jobs",
}

var savedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved jobs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		store, err := e.newSavedStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		items, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		printSaved(cmd.OutOrStdout(), items)
		return nil
	},
}

var savedAddCmd = &cobra.Command{
	Use:   "add [result-number]",
	Short: "Save the selected job or a result of the last search",
	Args:  cobra.MaximumNArgs(1),
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
		job, err := pickJob(s, args)
		if err != nil {
			return err
		}

		store, err := e.newSavedStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.Add(cmd.Context(), job)
		if err != nil {
			return err
		}
		e.logger.Info("job saved", zap.String("id", id), zap.Stringer("job", job.Key()))
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s)\n", job.Key(), id)
		return nil
	},
}

var savedRemoveCmd = &cobra.Command{
	Use:   "remove <title> <company>",
	Short: "Remove every saved job with the given title and company",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		store, err := e.newSavedStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		key := jobs.NewKey(args[0], args[1])
		removed, err := store.Remove(cmd.Context(), key.Title, key.Company)
		if err != nil {
			return err
		}
		if !removed {
			return errors.New("no saved job matches " + key.String())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", key)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(savedCmd)
	savedCmd.AddCommand(savedListCmd, savedAddCmd, savedRemoveCmd)
}

func printSaved(out io.Writer, items []*jobs.SavedJob) {
	if len(items) == 0 {
		fmt.Fprintln(out, "No saved jobs")
		return
	}
	for i, item := range items {
		line := postingLabel(i+1, &item.Posting)
		if !item.SavedAt.IsZero() {
			line += " saved " + item.SavedAt.Format("2006-01-02")
		}
		if item.ApplyURL != "" {
			line += "\n   " + strings.TrimSpace(item.ApplyURL)
		}
		fmt.Fprintln(out, line)
	}
}
