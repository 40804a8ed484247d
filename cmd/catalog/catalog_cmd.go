package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"skill-bridge/internal/catalog"
	"skill-bridge/internal/domain/matching"
	"skill-bridge/internal/domain/rating"

	"github.com/spf13/cobra"
)

func (o *rootOptions) loadCatalog() (*catalog.Catalog, error) {
	if o.catalogDir != "" {
		return catalog.LoadDir(o.catalogDir)
	}
	return catalog.LoadEmbedded()
}

func jobsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "jobs [query]",
		Short: "List job roles, optionally filtered by a search term",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			jobs := cat.SearchJobRoles(query)

			out := cmd.OutOrStdout()
			if opts.json {
				return writeJSON(out, jobs)
			}
			if len(jobs) == 0 {
				fmt.Fprintln(out, "No job roles match your search criteria")
				return nil
			}
			w := newTable(out)
			fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tSKILLS")
			for _, j := range jobs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", j.ID, j.Title, j.Category, len(j.Skills))
			}
			return w.Flush()
		},
	}
}

func jobCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "job <job-id>",
		Short: "Show one job role and its weighted skills",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			job, err := cat.JobRole(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return writeJSON(out, job)
			}
			fmt.Fprintf(out, "%s (%s)\n%s\n\n", job.Title, job.Category, job.Description)
			w := newTable(out)
			fmt.Fprintln(w, "SKILL\tNAME\tCATEGORY\tIMPORTANCE")
			for _, s := range job.Skills {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", s.ID, s.Name, s.Category, s.Importance)
			}
			return w.Flush()
		},
	}
}

func coursesCmd(opts *rootOptions) *cobra.Command {
	var level string

	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List courses with their star rating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := matching.ParseLevelFilter(level)
			if err != nil {
				return err
			}
			cat, err := opts.loadCatalog()
			if err != nil {
				return err
			}

			courses := make([]catalog.Course, 0)
			for _, c := range cat.Courses() {
				if filter == matching.LevelAll || strings.EqualFold(string(c.Level), string(filter)) {
					courses = append(courses, c)
				}
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return writeJSON(out, courses)
			}
			w := newTable(out)
			fmt.Fprintln(w, "ID\tLEVEL\tRATING\tSTARS\tSKILLS")
			for _, c := range courses {
				fmt.Fprintf(w, "%s\t%s\t%.1f\t%s\t%s\n", c.ID, c.Level, c.Rating, starGlyphs(c.Rating), strings.Join(c.Skills, ","))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&level, "level", "all", "Level filter: all, beginner, intermediate or advanced")
	return cmd
}

func analyzeCmd(opts *rootOptions) *cobra.Command {
	var skills []string

	cmd := &cobra.Command{
		Use:   "analyze <job-id>",
		Short: "Compute the match percentage and category breakdown for a set of skills",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			job, err := cat.JobRole(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			res := matching.Calculate(job, skills)

			out := cmd.OutOrStdout()
			if opts.json {
				return writeJSON(out, res)
			}
			fmt.Fprintf(out, "%s: match %d%%, gap %d%%\n\n", job.Title, res.MatchPercentage, res.GapPercentage)
			w := newTable(out)
			fmt.Fprintln(w, "CATEGORY\tMATCHED\tTOTAL\tPERCENT")
			for _, b := range res.Categories {
				fmt.Fprintf(w, "%s\t%d\t%d\t%d%%\n", b.Category, b.MatchedSkills, b.TotalSkills, b.Percentage)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if len(res.MissingSkills) > 0 {
				names := make([]string, 0, len(res.MissingSkills))
				for _, s := range res.MissingSkills {
					names = append(names, s.Name)
				}
				fmt.Fprintf(out, "\nMissing: %s\n", strings.Join(names, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&skills, "skills", nil, "Comma separated skill ids the user has")
	return cmd
}

func recommendCmd(opts *rootOptions) *cobra.Command {
	var (
		skills []string
		level  string
		sortBy string
	)

	cmd := &cobra.Command{
		Use:   "recommend <job-id>",
		Short: "Rank courses that teach the skills missing for a job role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := matching.ParseLevelFilter(level)
			if err != nil {
				return err
			}
			key, err := matching.ParseSortKey(sortBy)
			if err != nil {
				return err
			}
			cat, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			job, err := cat.JobRole(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			missing := matching.MissingSkills(job.Skills, skills)
			ranked := matching.RankCourses(missing, cat.Courses(), job, matching.RankOptions{Level: filter, Sort: key})

			out := cmd.OutOrStdout()
			if opts.json {
				return writeJSON(out, ranked)
			}
			switch {
			case len(missing) == 0:
				fmt.Fprintln(out, "You already have all the skills needed for this role. No further courses are recommended.")
				return nil
			case len(ranked) == 0:
				fmt.Fprintln(out, "No courses found matching your criteria. Try adjusting your filters.")
				return nil
			}
			w := newTable(out)
			fmt.Fprintln(w, "COURSE\tLEVEL\tRATING\tRELEVANCE\tTEACHES")
			for _, rc := range ranked {
				fmt.Fprintf(w, "%s\t%s\t%.1f\t%.1f\t%s\n", rc.Course.ID, rc.Course.Level, rc.Course.Rating, rc.Relevance, strings.Join(rc.MatchedSkills, ","))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringSliceVar(&skills, "skills", nil, "Comma separated skill ids the user has")
	cmd.Flags().StringVar(&level, "level", "all", "Level filter: all, beginner, intermediate or advanced")
	cmd.Flags().StringVar(&sortBy, "sort", "relevance", "Sort key: relevance or rating")
	return cmd
}

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 2, 0, 3, ' ', 0)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var starGlyph = map[rating.Star]string{
	rating.Full:  "★",
	rating.Half:  "½",
	rating.Empty: "☆",
}

func starGlyphs(r float64) string {
	var b strings.Builder
	for _, s := range rating.Stars(r) {
		b.WriteString(starGlyph[s])
	}
	return b.String()
}
