package gitrate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

const ratingBody = `{
  "contribution_score": 72.5,
  "pr_quality_score": 80,
  "impact_score": 65,
  "code_quality_score": 70,
  "base_score": 71,
  "context_multiplier": 1.1,
  "final_score": 78.1,
  "tier": "Advanced",
  "strengths": ["Consistent commits", "High merge rate"],
  "weaknesses": ["Few reviews"],
  "detailed_analysis": {
    "contribution_analysis": "steady",
    "pr_analysis": "clean",
    "impact_analysis": "moderate",
    "code_quality_analysis": "tested"
  },
  "summary": "A solid developer.",
  "profile": {"username": "octocat", "name": "The Octocat", "avatar_url": "https://example.com/a.png", "followers": 10, "public_repos": 8}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(context.Background(), zap.NewNop(), server.URL+"/api")
}

func TestRateDeveloper(t *testing.T) {
	var gotMethod, gotPath, gotRequestID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotRequestID = r.Header.Get(requestIDHeader)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(ratingBody))
	})

	rating, err := client.RateDeveloper(" octocat ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Fatalf("expected POST, got %s", gotMethod)
	}
	if gotPath != "/api/rate/octocat" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotRequestID == "" {
		t.Fatalf("expected request id header to be set")
	}

	if rating.Username != "octocat" {
		t.Fatalf("expected username from profile, got %q", rating.Username)
	}
	if rating.DisplayName != "The Octocat" {
		t.Fatalf("unexpected display name: %q", rating.DisplayName)
	}
	if rating.AvatarURL != "https://example.com/a.png" {
		t.Fatalf("unexpected avatar url: %q", rating.AvatarURL)
	}
	if rating.FinalScore != 78.1 || rating.Tier != TierAdvanced {
		t.Fatalf("unexpected score/tier: %v %s", rating.FinalScore, rating.Tier)
	}
	if rating.DetailedAnalysis.PR != "clean" {
		t.Fatalf("unexpected pr analysis: %q", rating.DetailedAnalysis.PR)
	}
	if rating.SavedAt != nil {
		t.Fatalf("fresh rating must not carry saved_at")
	}
}

func TestRateDeveloperFallsBackToRequestedUsername(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"final_score": 40, "tier": "Beginner", "saved_at": "2024-01-01T00:00:00Z"}`))
	})

	rating, err := client.RateDeveloper("@ghost")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rating.Username != "ghost" {
		t.Fatalf("expected requested username, got %q", rating.Username)
	}
	if rating.SavedAt != nil {
		t.Fatalf("saved_at from the wire must be dropped")
	}
}

func TestRateDeveloperEscapesUsername(t *testing.T) {
	var gotRawPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotRawPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"final_score": 1}`))
	})

	if _, err := client.RateDeveloper("a/b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotRawPath != "/api/rate/a%2Fb" {
		t.Fatalf("expected escaped path, got %s", gotRawPath)
	}
}

func TestRateDeveloperEmptyUsername(t *testing.T) {
	called := false
	client := newTestClient(t, func(http.ResponseWriter, *http.Request) { called = true })

	_, err := client.RateDeveloper("   ")
	if !errors.Is(err, ErrEmptyUsername) {
		t.Fatalf("expected ErrEmptyUsername, got %v", err)
	}
	if called {
		t.Fatalf("no request expected for empty username")
	}
}

func TestRemoteErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "fastapi detail",
			status:      http.StatusNotFound,
			body:        `{"detail": "User 'nobody' not found"}`,
			wantMessage: "User 'nobody' not found",
		},
		{
			name:        "error field",
			status:      http.StatusBadGateway,
			body:        `{"error": "upstream", "detail": null}`,
			wantMessage: "upstream",
		},
		{
			name:        "plain text",
			status:      http.StatusInternalServerError,
			body:        "boom",
			wantMessage: "boom",
		},
		{
			name:        "empty body",
			status:      http.StatusServiceUnavailable,
			body:        "",
			wantMessage: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.RateDeveloper("nobody")

			var remoteErr *RemoteError
			if !errors.As(err, &remoteErr) {
				t.Fatalf("expected RemoteError, got %T %v", err, err)
			}
			if remoteErr.Status != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, remoteErr.Status)
			}
			if remoteErr.Message != tt.wantMessage {
				t.Fatalf("expected message %q, got %q", tt.wantMessage, remoteErr.Message)
			}
		})
	}
}

func TestInvalidJSONIsRemoteError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})

	_, err := client.HealthCheck()

	var remoteErr *RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected RemoteError, got %T %v", err, err)
	}
	if remoteErr.Status != http.StatusOK {
		t.Fatalf("expected status 200, got %d", remoteErr.Status)
	}
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client := New(context.Background(), zap.NewNop(), url)

	_, err := client.GetUserData("octocat")

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %T %v", err, err)
	}
	if UserMessage(err) != "Could not reach the rating service. Please try again." {
		t.Fatalf("unexpected user message: %q", UserMessage(err))
	}
}

func TestGetUserDataAndHealth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/user/octocat/data":
			if r.Method != http.MethodGet {
				t.Errorf("expected GET, got %s", r.Method)
			}
			_, _ = w.Write([]byte(`{"username": "octocat", "profile": {"name": "The Octocat", "followers": 12}, "repos_summary": {"total": 8, "total_stars": 100}, "pull_requests": {"total": 10, "merged": 9, "merge_rate": 0.9}, "activity": {"total_commits_year": 321}}`))
		case "/api/health":
			_, _ = w.Write([]byte(`{"status": "ok"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	raw, err := client.GetUserData("octocat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := DecodeUserData(raw)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if data.Profile.Followers != 12 || data.ReposSummary.TotalStars != 100 {
		t.Fatalf("unexpected decoded data: %+v", data)
	}
	if data.PullRequests.MergeRate != 0.9 || data.Activity.TotalCommitsYear != 321 {
		t.Fatalf("unexpected pull requests/activity: %+v %+v", data.PullRequests, data.Activity)
	}

	status, err := client.HealthCheck()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	health, err := DecodeHealth(status)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if !health.OK() {
		t.Fatalf("expected healthy status, got %+v", health)
	}
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		expect string
	}{
		{name: "nil", err: nil, expect: ""},
		{name: "empty username", err: ErrEmptyUsername, expect: "Please enter a GitHub username."},
		{name: "not found", err: &RemoteError{Status: http.StatusNotFound}, expect: "GitHub user not found."},
		{name: "server", err: &RemoteError{Status: http.StatusInternalServerError}, expect: "Failed to analyze profile. Please try again."},
		{name: "other", err: errors.New("x"), expect: "Something went wrong. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := UserMessage(tt.err); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
