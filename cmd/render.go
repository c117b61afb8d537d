package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spigell/gitrate/internal/filtering"
	"github.com/spigell/gitrate/internal/gitrate"
	"github.com/spigell/gitrate/internal/ranking"
	"github.com/spigell/gitrate/internal/utils"
)

const (
	barWidth   = 30
	dateLayout = "2006-01-02 15:04"
)

func printRating(w io.Writer, r *gitrate.Rating) {
	fmt.Fprintf(w, "%s (@%s)\n", r.Name(), r.Username)
	fmt.Fprintf(w, "Final score: %.1f  Tier: %s\n", r.FinalScore, r.Tier)
	if r.BaseScore > 0 {
		fmt.Fprintf(w, "Base score: %.1f  Context multiplier: %.2f\n", r.BaseScore, r.ContextMultiplier)
	}
	fmt.Fprintln(w)

	for _, metric := range ranking.Metrics() {
		if metric == ranking.MetricFinal {
			continue
		}
		value, _ := ranking.Value(r, metric)
		fmt.Fprintf(w, "  %-13s %s %5.1f\n", ranking.Label(metric), utils.Bar(value, 100, barWidth), value)
	}

	printList(w, "Strengths", r.Strengths)
	printList(w, "Weaknesses", r.Weaknesses)

	if summary := strings.TrimSpace(r.Summary); summary != "" {
		fmt.Fprintf(w, "\nSummary:\n  %s\n", summary)
	}
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

func printRatings(w io.Writer, ratings []gitrate.Rating) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tNAME\tSCORE\tTIER\tSAVED")
	for i := range ratings {
		r := &ratings[i]
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%s\t%s\n", r.Username, r.Name(), r.FinalScore, r.Tier, formatSaved(r.SavedAt))
	}
	tw.Flush()
}

func printCounts(w io.Writer, counts filtering.Counts) {
	parts := make([]string, 0, len(gitrate.Tiers())+1)
	for _, tier := range gitrate.Tiers() {
		parts = append(parts, fmt.Sprintf("%s: %d", tier, counts.ByTier[tier]))
	}
	parts = append(parts, fmt.Sprintf("Total: %d", counts.Total))
	fmt.Fprintln(w, strings.Join(parts, "  "))
}

func printLeaderboard(w io.Writer, entries []ranking.Entry) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tUSERNAME\tSCORE\tTIER")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%s\n", e.Position, e.Rating.Username, e.Rating.FinalScore, e.Rating.Tier)
	}
	tw.Flush()
}

// printMetric draws one bar per rating. Leaders are marked with a star.
func printMetric(w io.Writer, ratings []gitrate.Rating, metric ranking.Metric) {
	leaders := make(map[int]bool, len(metric.Leaders))
	for _, idx := range metric.Leaders {
		leaders[idx] = true
	}

	width := 0
	for i := range ratings {
		if n := len(ratings[i].Username); n > width {
			width = n
		}
	}

	fmt.Fprintf(w, "%s\n", ranking.Label(metric.Name))
	for i, value := range metric.Values {
		mark := " "
		if leaders[i] {
			mark = "*"
		}
		fmt.Fprintf(w, "  %-*s %s %5.1f %s\n", width, ratings[i].Username, utils.Bar(value, 100, barWidth), value, mark)
	}
}

// printMetrics draws every named metric for ratings, in the given order.
func printMetrics(w io.Writer, ratings []gitrate.Rating, names []string) error {
	for _, name := range names {
		metric, err := ranking.CompareMetric(ratings, name)
		if err != nil {
			return err
		}
		fmt.Fprintln(w)
		printMetric(w, ratings, metric)
	}
	return nil
}

func printUserData(w io.Writer, data *gitrate.UserData) {
	p := data.Profile
	fmt.Fprintf(w, "%s (@%s)\n", firstNonEmpty(p.Name, data.Username), data.Username)
	if p.Bio != "" {
		fmt.Fprintf(w, "%s\n", p.Bio)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Company\t%s\n", p.Company)
	fmt.Fprintf(tw, "Location\t%s\n", p.Location)
	fmt.Fprintf(tw, "Followers\t%d\n", p.Followers)
	fmt.Fprintf(tw, "Following\t%d\n", p.Following)
	fmt.Fprintf(tw, "Repositories\t%d (%d original, %d forked)\n", data.ReposSummary.Total, data.ReposSummary.Original, data.ReposSummary.Forked)
	fmt.Fprintf(tw, "Stars / forks\t%d / %d\n", data.ReposSummary.TotalStars, data.ReposSummary.TotalForks)
	fmt.Fprintf(tw, "Pull requests\t%d (%d merged, %.0f%%)\n", data.PullRequests.Total, data.PullRequests.Merged, data.PullRequests.MergeRate*100)
	fmt.Fprintf(tw, "Reviews given\t%d\n", data.PullRequests.ReviewsGiven)
	fmt.Fprintf(tw, "Commits this year\t%d\n", data.Activity.TotalCommitsYear)
	tw.Flush()
}

func formatSaved(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(dateLayout)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
