package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/job-assistant/internal/filtering"
	"github.com/spigell/job-assistant/internal/jobs"
	"github.com/spigell/job-assistant/internal/jobsearch"
	"github.com/spigell/job-assistant/internal/keywords"
	"github.com/spigell/job-assistant/internal/matching"
	"github.com/spigell/job-assistant/internal/resume"
	"github.com/spigell/job-assistant/internal/session"
)

const (
	PromptSelectJob       = "Select a job"
	PromptReportByCompany = "Report by company"
	PromptDumpToFile      = "Dump results to file"
	PromptExit            = "Exit"
	PromptBack            = "back"
	PromptSaveJob         = "Save job"
	PromptMatchReport     = "Show match report"
)

var errExit = errors.New("exit requested")

var actionPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptSelectJob, PromptReportByCompany, PromptDumpToFile, PromptExit},
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search jobs on the selected platforms and filter the results",
	Long: "Search jobs with the given query, or with the keywords of the analysed resume " +
		"when no query is given. Results are filtered, sorted and kept in the session.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return search(cmd.Context(), cmd, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	f := searchCmd.Flags()
	f.String("location", "", "job location, \"remote\" searches remote positions")
	f.StringSlice("platform", nil, "platforms to search: "+strings.Join(jobs.Platforms, ", ")+" (default all)")
	f.Int("count", jobsearch.DefaultCount, fmt.Sprintf("results per platform (1..%d)", jobsearch.MaxCount))
	f.String("recency", "", "maximum posting age: 1 day, 3 days, 1 week, 2 weeks, 1 month, any time")
	f.StringSlice("job-type", nil, "job types added to the query: "+strings.Join(jobsearch.JobTypes, ", "))
	f.String("experience", jobsearch.DefaultExperienceLevel, "years of experience: "+strings.Join(jobsearch.ExperienceLevels, ", "))
	f.String("sort", jobs.SortMostRecent, "result order: "+strings.Join(jobs.SortOrders, ", "))
	f.String("only-platform", "", "keep results of one platform only")
	f.StringSlice("exclude-company", nil, "companies to drop from the results")
	f.StringSlice("red-flag", nil, "drop postings mentioning any of these terms")
	f.StringP("exclude-file", "e", "", "a dumped results file whose postings are dropped")
	f.Bool("hide-saved", false, "drop postings that are already saved")
	f.Int("min-score", 0, "drop postings matching the resume below this score (0..100)")
	f.BoolP("auto-approve", "y", false, "print the results without the interactive prompt")

	viper.BindPFlag("search.location", f.Lookup("location"))
	viper.BindPFlag("search.platforms", f.Lookup("platform"))
	viper.BindPFlag("search.count", f.Lookup("count"))
	viper.BindPFlag("search.recency", f.Lookup("recency"))
	viper.BindPFlag("filter.platform", f.Lookup("only-platform"))
	viper.BindPFlag("filter.excluded-companies", f.Lookup("exclude-company"))
	viper.BindPFlag("filter.red-flags", f.Lookup("red-flag"))
	viper.BindPFlag("filter.exclude-file", f.Lookup("exclude-file"))
	viper.BindPFlag("filter.hide-saved", f.Lookup("hide-saved"))
	viper.BindPFlag("filter.min-match-score", f.Lookup("min-score"))
}

func search(ctx context.Context, cmd *cobra.Command, query string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	s, err := e.loadSession()
	if err != nil {
		return err
	}

	query, err = searchQuery(query, s)
	if err != nil {
		return err
	}

	jobTypes, _ := cmd.Flags().GetStringSlice("job-type")
	experience, _ := cmd.Flags().GetString("experience")
	order, _ := cmd.Flags().GetString("sort")

	searcher, cleanup, err := e.newSearcher(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	saved, err := e.newSavedStore(ctx)
	if err != nil {
		return err
	}
	defer saved.Close()

	steps := filtering.Default()
	if !s.HasProfile() {
		filtering.DisableByName(steps, "match_score", "no resume analysed")
	}
	if err := filtering.Validate(e.config.Filter, steps); err != nil {
		return err
	}

	e.logger.Info("starting the search", zap.String("query", query))

	result := searcher.Search(ctx, jobsearch.Request{
		Query:     jobsearch.BuildQuery(query, jobTypes, experience),
		Location:  e.config.Search.Location,
		Platforms: e.config.Search.Platforms,
		Count:     e.config.Search.Count,
		Recency:   e.config.Search.Recency,
	})
	for _, notice := range result.Notices {
		e.logger.Warn(notice)
	}

	postings, reports, err := filtering.Run(ctx, e.config.Filter, filtering.Deps{
		Logger:  e.logger,
		Profile: s.Profile,
		Scorer:  matching.NewScorer(nil),
		Saved:   saved,
	}, steps, result.Postings)
	if err != nil {
		return fmt.Errorf("filtering failed: %w", err)
	}

	if err := postings.Sort(order); err != nil {
		return err
	}

	s.SetResults(postings)
	if err := e.saveSession(s); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if postings.Len() == 0 {
		e.logger.Info("exiting", zap.String("reason", "no jobs left after filters"))
		return nil
	}
	printPostings(out, postings, reports)

	if auto, _ := cmd.Flags().GetBool("auto-approve"); auto {
		return nil
	}

	for {
		_, action, err := actionPrompt.Run()
		if err != nil {
			return err
		}
		if err := handleAction(ctx, action, e, s, saved, reports, out); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			return err
		}
	}
}

// searchQuery falls back to the keywords of the session profile.
func searchQuery(query string, s *session.Session) (string, error) {
	if query = strings.TrimSpace(query); query != "" {
		return query, nil
	}
	if len(s.Keywords) > 0 {
		return keywords.Query(s.Keywords), nil
	}
	if s.HasProfile() {
		kw, _ := keywords.NewBuilder(0).Build(s.Profile)
		if len(kw) > 0 {
			return keywords.Query(kw), nil
		}
	}
	return "", errors.New("a search query is required when no resume has been analysed")
}

func handleAction(ctx context.Context, action string, e *env, s *session.Session, saved jobs.Store, reports map[jobs.Key]matching.Report, out io.Writer) error {
	switch action {
	case PromptSelectJob:
		return selectJob(ctx, e, s, saved, reports, out)
	case PromptReportByCompany:
		pretty, _ := json.MarshalIndent(s.Results.ReportByCompany(), "", "  ")
		fmt.Fprintln(out, string(pretty))
		return nil
	case PromptDumpToFile:
		filename, err := s.Results.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		e.logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func selectJob(ctx context.Context, e *env, s *session.Session, saved jobs.Store, reports map[jobs.Key]matching.Report, out io.Writer) error {
	labels := make([]string, 0, s.Results.Len()+1)
	for i, p := range s.Results.Items {
		labels = append(labels, postingLabel(i+1, p))
	}

	jobPrompt := promptui.Select{
		Label: "Choose a job and press ENTER",
		Items: append(labels, PromptBack),
		Size:  10,
	}
	idx, choice, err := jobPrompt.Run()
	if err != nil {
		return err
	}
	if choice == PromptBack {
		return nil
	}

	job := s.Results.Items[idx]
	s.SelectedJob = job
	if err := e.saveSession(s); err != nil {
		return err
	}
	printPosting(out, job)

	for {
		jobActions := promptui.Select{
			Label: job.Key().String(),
			Items: []string{PromptMatchReport, PromptSaveJob, PromptBack},
		}
		_, action, err := jobActions.Run()
		if err != nil {
			return err
		}

		switch action {
		case PromptMatchReport:
			report, ok := reports[job.Key()]
			if !ok {
				if !s.HasProfile() {
					fmt.Fprintln(out, errNoProfile)
					continue
				}
				report = matching.NewScorer(nil).ScoreProfile(s.Profile, job.Description)
			}
			printReport(out, report)
		case PromptSaveJob:
			id, err := saved.Add(ctx, job)
			if err != nil {
				return err
			}
			e.logger.Info("job saved", zap.String("id", id), zap.Stringer("job", job.Key()))
		case PromptBack:
			return nil
		}
	}
}

func postingLabel(n int, p *jobs.Posting) string {
	label := fmt.Sprintf("%d. %s / %s", n, p.Title, p.Company)
	if p.Location != "" {
		label += " / " + p.Location
	}
	if p.Platform != "" {
		label += " [" + p.Platform + "]"
	}
	return label
}

func printPostings(out io.Writer, p *jobs.Postings, reports map[jobs.Key]matching.Report) {
	fmt.Fprintf(out, "Found %d jobs\n", p.Len())
	for i, posting := range p.Items {
		line := postingLabel(i+1, posting)
		if posting.DatePosted != "" {
			line += " (" + posting.DatePosted + ")"
		}
		if report, ok := reports[posting.Key()]; ok {
			line += fmt.Sprintf(" match %d%%", report.MatchScore)
		}
		fmt.Fprintln(out, line)
	}
}

func printPosting(out io.Writer, p *jobs.Posting) {
	fmt.Fprintf(out, "\n%s at %s\n", p.Title, p.Company)
	for _, field := range [][2]string{
		{"Location", p.Location},
		{"Platform", p.Platform},
		{"Posted", p.DatePosted},
		{"Type", p.JobType},
		{"Apply", p.ApplyURL},
	} {
		if field[1] != "" {
			fmt.Fprintf(out, "%s: %s\n", field[0], field[1])
		}
	}
	if p.Description != "" {
		fmt.Fprintf(out, "\n%s\n", p.Description)
	}
}

func printReport(out io.Writer, report matching.Report) {
	report = report.Limit(matching.DisplayLimit)
	fmt.Fprintf(out, "Match score: %d%%\n", report.MatchScore)
	printList(out, "Key matches", report.KeyMatches)
	printList(out, "Gaps", report.Gaps)
	printList(out, "Recommendations", report.Recommendations)
}

// profileOrErr is shared by the commands that need an analysed resume.
func profileOrErr(s *session.Session) (*resume.Profile, error) {
	if !s.HasProfile() {
		return nil, errNoProfile
	}
	return s.Profile, nil
}
