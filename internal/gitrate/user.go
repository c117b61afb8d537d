package gitrate

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// UserData is a typed view over the raw aggregate returned by GetUserData.
// Fields the CLI does not display stay in Raw.
type UserData struct {
	Username     string              `mapstructure:"username"`
	Profile      UserDataProfile     `mapstructure:"profile"`
	ReposSummary ReposSummary        `mapstructure:"repos_summary"`
	PullRequests PullRequestsSummary `mapstructure:"pull_requests"`
	Activity     ActivitySummary     `mapstructure:"activity"`
	Raw          map[string]any
}

type UserDataProfile struct {
	Name        string `mapstructure:"name"`
	Bio         string `mapstructure:"bio"`
	Company     string `mapstructure:"company"`
	Location    string `mapstructure:"location"`
	Followers   int    `mapstructure:"followers"`
	Following   int    `mapstructure:"following"`
	PublicRepos int    `mapstructure:"public_repos"`
	CreatedAt   string `mapstructure:"created_at"`
	AvatarURL   string `mapstructure:"avatar_url"`
}

type ReposSummary struct {
	Total      int `mapstructure:"total"`
	Original   int `mapstructure:"original"`
	Forked     int `mapstructure:"forked"`
	TotalStars int `mapstructure:"total_stars"`
	TotalForks int `mapstructure:"total_forks"`
}

type PullRequestsSummary struct {
	Total        int     `mapstructure:"total"`
	Merged       int     `mapstructure:"merged"`
	MergeRate    float64 `mapstructure:"merge_rate"`
	ReviewsGiven int     `mapstructure:"reviews_given"`
}

type ActivitySummary struct {
	TotalCommitsYear int `mapstructure:"total_commits_year"`
}

// Health is a typed view over the HealthCheck response.
type Health struct {
	Status  string `mapstructure:"status"`
	Service string `mapstructure:"service"`
	Version string `mapstructure:"version"`
}

// OK reports whether the service answered with a healthy status.
func (h *Health) OK() bool {
	return h.Status == "ok" || h.Status == "healthy"
}

func DecodeUserData(raw map[string]any) (*UserData, error) {
	var data UserData
	if err := decodeWeak(raw, &data); err != nil {
		return nil, fmt.Errorf("decode user data: %w", err)
	}

	data.Raw = raw
	return &data, nil
}

func DecodeHealth(raw map[string]any) (*Health, error) {
	var health Health
	if err := decodeWeak(raw, &health); err != nil {
		return nil, fmt.Errorf("decode health: %w", err)
	}

	return &health, nil
}

func decodeWeak(input any, result any) error {
	cfg := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           result,
		WeaklyTypedInput: true,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}
