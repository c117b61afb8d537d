package gitrate

import (
	"fmt"
	"strings"
	"time"
)

type Tier string

const (
	TierBeginner     Tier = "Beginner"
	TierIntermediate Tier = "Intermediate"
	TierAdvanced     Tier = "Advanced"
	TierElite        Tier = "Elite"

	// TierAll is a filter wildcard, never a tier of a rating.
	TierAll Tier = "all"
)

// Tiers returns the known tiers from lowest to highest.
func Tiers() []Tier {
	return []Tier{TierBeginner, TierIntermediate, TierAdvanced, TierElite}
}

// ParseTier accepts tier names in any case and the "all" wildcard.
func ParseTier(s string) (Tier, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(TierAll)) {
		return TierAll, nil
	}

	for _, t := range Tiers() {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}

	return "", fmt.Errorf("unknown tier %q", s)
}

// Rating is the scored output for one GitHub username as returned by the rating API
// and kept in the local profile store.
type Rating struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`

	ContributionScore float64 `json:"contribution_score"`
	PRQualityScore    float64 `json:"pr_quality_score"`
	ImpactScore       float64 `json:"impact_score"`
	CodeQualityScore  float64 `json:"code_quality_score"`
	BaseScore         float64 `json:"base_score,omitempty"`
	ContextMultiplier float64 `json:"context_multiplier,omitempty"`
	FinalScore        float64 `json:"final_score"`
	Tier              Tier    `json:"tier"`

	Strengths        []string         `json:"strengths"`
	Weaknesses       []string         `json:"weaknesses"`
	DetailedAnalysis DetailedAnalysis `json:"detailed_analysis"`
	Summary          string           `json:"summary"`

	Profile   *Profile `json:"profile,omitempty"`
	TechStack []any    `json:"tech_stack,omitempty"`
	Stats     *Stats   `json:"stats,omitempty"`

	// SavedAt is owned by the profile store. It is nil for ratings fresh from the API.
	SavedAt *time.Time `json:"saved_at,omitempty"`
}

type DetailedAnalysis struct {
	Contribution string `json:"contribution_analysis"`
	PR           string `json:"pr_analysis"`
	Impact       string `json:"impact_analysis"`
	CodeQuality  string `json:"code_quality_analysis"`
}

type Profile struct {
	Username    string `json:"username" mapstructure:"username"`
	Name        string `json:"name,omitempty" mapstructure:"name"`
	AvatarURL   string `json:"avatar_url,omitempty" mapstructure:"avatar_url"`
	Bio         string `json:"bio,omitempty" mapstructure:"bio"`
	Followers   int    `json:"followers" mapstructure:"followers"`
	PublicRepos int    `json:"public_repos" mapstructure:"public_repos"`
}

type Stats struct {
	TotalStars    int     `json:"total_stars"`
	TotalForks    int     `json:"total_forks"`
	TotalRepos    int     `json:"total_repos"`
	OriginalRepos int     `json:"original_repos"`
	TotalCommits  int     `json:"total_commits"`
	TotalPRs      int     `json:"total_prs"`
	MergedPRs     int     `json:"merged_prs"`
	MergeRate     float64 `json:"merge_rate"`
	ReviewsGiven  int     `json:"reviews_given"`
	Followers     int     `json:"followers"`
}

// Name returns the display name when present, the username otherwise.
func (r *Rating) Name() string {
	if name := strings.TrimSpace(r.DisplayName); name != "" {
		return name
	}
	return r.Username
}

// SavedTime returns the save time, or the Unix epoch when the rating was never saved.
func (r *Rating) SavedTime() time.Time {
	if r.SavedAt == nil {
		return time.Unix(0, 0).UTC()
	}
	return *r.SavedAt
}

// Clone returns a deep copy so callers can never mutate stored slices.
func (r Rating) Clone() Rating {
	out := r
	out.Strengths = append([]string(nil), r.Strengths...)
	out.Weaknesses = append([]string(nil), r.Weaknesses...)
	out.TechStack = append([]any(nil), r.TechStack...)
	if r.Profile != nil {
		p := *r.Profile
		out.Profile = &p
	}
	if r.Stats != nil {
		s := *r.Stats
		out.Stats = &s
	}
	if r.SavedAt != nil {
		t := *r.SavedAt
		out.SavedAt = &t
	}
	return out
}

// normalize fills identity fields the API keeps under profile.
func (r *Rating) normalize(requested string) {
	if r.Profile != nil {
		if r.Username == "" {
			r.Username = r.Profile.Username
		}
		if r.DisplayName == "" {
			r.DisplayName = r.Profile.Name
		}
		if r.AvatarURL == "" {
			r.AvatarURL = r.Profile.AvatarURL
		}
	}

	if r.Username == "" {
		r.Username = requested
	}

	// The API never sets it; a stale value must not leak into the store.
	r.SavedAt = nil
}
