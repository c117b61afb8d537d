package filtering

import (
	"strconv"
	"strings"

	"github.com/spigell/gitrate/internal/gitrate"
)

type tierFilter struct {
	tier     gitrate.Tier
	disabled bool
	reason   string
}

// NewTier creates a filter that keeps ratings of a single tier. TierAll disables it.
func NewTier(tier gitrate.Tier) Filter {
	f := &tierFilter{tier: tier}
	if tier == gitrate.TierAll || tier == "" {
		f.Disable("all tiers requested")
	}
	return f
}

func (f *tierFilter) Name() string { return "tier" }

func (f *tierFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *tierFilter) IsEnabled() bool { return !f.disabled }

func (f *tierFilter) Apply(results []gitrate.Rating) ([]gitrate.Rating, Step) {
	kept := FilterByTier(results, f.tier)
	return kept, stepOf(len(results), len(kept))
}

func (f *tierFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"tier": string(f.tier)},
	}
}

type minScoreFilter struct {
	min      float64
	disabled bool
	reason   string
}

// NewMinScore creates a filter that drops ratings scoring below the given final score.
func NewMinScore(score float64) Filter {
	f := &minScoreFilter{min: score}
	if score <= 0 {
		f.Disable("no minimum score")
	}
	return f
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *minScoreFilter) IsEnabled() bool { return !f.disabled }

func (f *minScoreFilter) Apply(results []gitrate.Rating) ([]gitrate.Rating, Step) {
	kept := make([]gitrate.Rating, 0, len(results))
	for _, r := range results {
		if r.FinalScore >= f.min {
			kept = append(kept, r)
		}
	}
	return kept, stepOf(len(results), len(kept))
}

func (f *minScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"min": strconv.FormatFloat(f.min, 'f', -1, 64)},
	}
}

type searchFilter struct {
	text     string
	disabled bool
	reason   string
}

// NewSearch creates a filter matching text against the username and display name,
// ignoring case.
func NewSearch(text string) Filter {
	f := &searchFilter{text: strings.ToLower(strings.TrimSpace(text))}
	if f.text == "" {
		f.Disable("empty search text")
	}
	return f
}

func (f *searchFilter) Name() string { return "search" }

func (f *searchFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *searchFilter) IsEnabled() bool { return !f.disabled }

func (f *searchFilter) Apply(results []gitrate.Rating) ([]gitrate.Rating, Step) {
	kept := make([]gitrate.Rating, 0, len(results))
	for _, r := range results {
		if strings.Contains(strings.ToLower(r.Username), f.text) ||
			strings.Contains(strings.ToLower(r.DisplayName), f.text) {
			kept = append(kept, r)
		}
	}
	return kept, stepOf(len(results), len(kept))
}

func (f *searchFilter) Status() Status {
	details := map[string]string{}
	if f.text != "" {
		details["text"] = f.text
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
