// Package ranking orders saved ratings into a leaderboard and lines up single metrics
// for side-by-side comparison.
package ranking

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spigell/gitrate/internal/gitrate"
)

// MinProfiles is the smallest set that can be compared.
const MinProfiles = 2

const (
	MetricContribution = "contribution"
	MetricPRQuality    = "pr_quality"
	MetricImpact       = "impact"
	MetricCodeQuality  = "code_quality"
	MetricFinal        = "final"
)

var ErrUnknownMetric = errors.New("unknown metric")

// ComparisonError is returned when fewer than MinProfiles ratings are supplied.
type ComparisonError struct {
	Got int
}

func (e *ComparisonError) Error() string {
	return fmt.Sprintf("need at least %d profiles to compare, got %d", MinProfiles, e.Got)
}

// Entry is a leaderboard row. Position 1 is the best.
type Entry struct {
	Position int
	Rating   gitrate.Rating
}

// Metric holds one metric for every compared rating, in input order.
type Metric struct {
	Name   string
	Values []float64
	Max    float64
	// Leaders are the input indexes holding Max.
	Leaders []int
}

var metrics = []struct {
	name  string
	label string
	value func(*gitrate.Rating) float64
}{
	{MetricContribution, "Contribution", func(r *gitrate.Rating) float64 { return r.ContributionScore }},
	{MetricPRQuality, "PR Quality", func(r *gitrate.Rating) float64 { return r.PRQualityScore }},
	{MetricImpact, "Impact", func(r *gitrate.Rating) float64 { return r.ImpactScore }},
	{MetricCodeQuality, "Code Quality", func(r *gitrate.Rating) float64 { return r.CodeQualityScore }},
	{MetricFinal, "Final Score", func(r *gitrate.Rating) float64 { return r.FinalScore }},
}

// Metrics returns the supported metric names in display order.
func Metrics() []string {
	out := make([]string, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, m.name)
	}
	return out
}

// Label returns a human readable metric name.
func Label(metric string) string {
	for _, m := range metrics {
		if m.name == metric {
			return m.label
		}
	}
	return metric
}

// Rank returns a copy sorted by final score, highest first. Ties keep input order.
func Rank(results []gitrate.Rating) ([]gitrate.Rating, error) {
	if len(results) < MinProfiles {
		return nil, &ComparisonError{Got: len(results)}
	}

	out := append([]gitrate.Rating(nil), results...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FinalScore > out[j].FinalScore
	})

	return out, nil
}

// Leaderboard ranks results and numbers the rows from 1.
func Leaderboard(results []gitrate.Rating) ([]Entry, error) {
	ranked, err := Rank(results)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(ranked))
	for i, r := range ranked {
		entries = append(entries, Entry{Position: i + 1, Rating: r})
	}

	return entries, nil
}

// CompareMetric extracts metric for every rating keeping the input order.
func CompareMetric(results []gitrate.Rating, metric string) (Metric, error) {
	if len(results) < MinProfiles {
		return Metric{}, &ComparisonError{Got: len(results)}
	}

	name := strings.ToLower(strings.TrimSpace(metric))
	for _, m := range metrics {
		if m.name != name {
			continue
		}

		out := Metric{Name: name, Values: make([]float64, 0, len(results))}
		for i := range results {
			v := m.value(&results[i])
			out.Values = append(out.Values, v)

			switch {
			case i == 0 || v > out.Max:
				out.Max = v
				out.Leaders = []int{i}
			case v == out.Max:
				out.Leaders = append(out.Leaders, i)
			}
		}

		return out, nil
	}

	return Metric{}, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
}

// Value returns a single metric of r.
func Value(r *gitrate.Rating, metric string) (float64, error) {
	name := strings.ToLower(strings.TrimSpace(metric))
	for _, m := range metrics {
		if m.name == name {
			return m.value(r), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
}
