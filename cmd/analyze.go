package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/job-assistant/internal/docs"
	"github.com/spigell/job-assistant/internal/resume"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file|s3://bucket/key>",
	Short: "Extract a profile from a PDF, DOCX or text resume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return analyze(cmd.Context(), cmd, args[0])
	},
}

var critiqueCmd = &cobra.Command{
	Use:   "critique",
	Short: "Critique the analysed resume, against the selected job when there is one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return critique(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd, critiqueCmd)

	analyzeCmd.Flags().Bool("critique", false, "also generate a critique of the resume")
}

func analyze(ctx context.Context, cmd *cobra.Command, location string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	name, data, err := docs.NewLoader(e.config.S3).Load(ctx, location)
	if err != nil {
		return err
	}

	kind, err := docs.KindOf(name, "")
	if err != nil {
		return err
	}

	text, err := docs.Extract(kind, data)
	if err != nil {
		return err
	}

	profile := resume.NewExtractor().Extract(text)
	e.logger.Info("resume analysed",
		zap.String("name", name),
		zap.String("kind", string(kind)),
		zap.Int("skills", len(profile.Skills)),
		zap.Int("experience", len(profile.Experience)),
	)

	s, err := e.loadSession()
	if err != nil {
		return err
	}
	s.SetProfile(name, profile)

	out := cmd.OutOrStdout()
	printProfile(out, name, profile)

	if withCritique, _ := cmd.Flags().GetBool("critique"); withCritique {
		c := e.newAssistant(ctx).Critique(ctx, profile, nil)
		s.Critique = &c
		fmt.Fprintf(out, "\nCritique (%s)\n%s\n", c.Source, c.Text)
	}

	return e.saveSession(s)
}

func critique(ctx context.Context, out io.Writer) error {
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

	c := e.newAssistant(ctx).Critique(ctx, s.Profile, s.SelectedJob)
	s.Critique = &c

	if s.SelectedJob != nil {
		fmt.Fprintf(out, "Critique for %s (%s)\n", s.SelectedJob.Key(), c.Source)
	} else {
		fmt.Fprintf(out, "Critique (%s)\n", c.Source)
	}
	fmt.Fprintln(out, c.Text)

	return e.saveSession(s)
}

func printProfile(out io.Writer, name string, p *resume.Profile) {
	fmt.Fprintf(out, "Resume: %s\n", name)
	if !p.ContactInfo.IsEmpty() {
		fmt.Fprintf(out, "Contact: %s\n", strings.TrimSpace(p.ContactInfo.Email+" "+p.ContactInfo.Phone))
	}
	if p.IsEmpty() {
		fmt.Fprintln(out, "No skills, education or experience were recognised.")
		return
	}

	summary := resume.Summarize(p)
	fmt.Fprintln(out, "\nSkills")
	for _, category := range resume.CategoryOrder {
		if skills := summary.Categories[category]; len(skills) > 0 {
			fmt.Fprintf(out, "  %s: %s\n", category, strings.Join(skills, ", "))
		}
	}

	printList(out, "Education", p.Education)

	groups := resume.OrganizeExperience(p.Experience)
	if len(p.Experience) > 0 {
		fmt.Fprintln(out, "\nExperience")
		for _, group := range resume.ExperienceGroupOrder {
			for _, entry := range groups[group] {
				fmt.Fprintf(out, "  [%s] %s\n", group, entry)
			}
		}
	}

	printList(out, "Strengths", summary.Strengths)
	printList(out, "Improvements", summary.Improvements)
}

func printList(out io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s\n", title)
	for _, item := range items {
		fmt.Fprintf(out, "  - %s\n", item)
	}
}
