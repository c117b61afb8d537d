package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/gitrate/internal/ai"
	"github.com/spigell/gitrate/internal/ranking"
	"github.com/spigell/gitrate/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Narrator asks Gemini for a verdict over a compare leaderboard.
type Narrator struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

type leaderboardRow struct {
	Position     int      `json:"position"`
	Username     string   `json:"username"`
	Tier         string   `json:"tier"`
	Final        float64  `json:"final_score"`
	Contribution float64  `json:"contribution_score"`
	PRQuality    float64  `json:"pr_quality_score"`
	Impact       float64  `json:"impact_score"`
	CodeQuality  float64  `json:"code_quality_score"`
	Strengths    []string `json:"strengths,omitempty"`
	Weaknesses   []string `json:"weaknesses,omitempty"`
}

func NewNarrator(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Narrator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Narrator{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (n *Narrator) Narrate(ctx context.Context, leaderboard []ranking.Entry) (*ai.Verdict, error) {
	if len(leaderboard) < ranking.MinProfiles {
		return nil, &ranking.ComparisonError{Got: len(leaderboard)}
	}

	rows := make([]leaderboardRow, 0, len(leaderboard))
	for _, entry := range leaderboard {
		r := entry.Rating
		rows = append(rows, leaderboardRow{
			Position:     entry.Position,
			Username:     r.Username,
			Tier:         string(r.Tier),
			Final:        r.FinalScore,
			Contribution: r.ContributionScore,
			PRQuality:    r.PRQualityScore,
			Impact:       r.ImpactScore,
			CodeQuality:  r.CodeQualityScore,
			Strengths:    r.Strengths,
			Weaknesses:   r.Weaknesses,
		})
	}

	payload, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal leaderboard: %w", err)
	}

	prompt := buildPrompt(string(payload))

	n.logger.Debug("gemini generate content request",
		zap.Int("profiles", len(rows)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, n.maxLogLen)),
	)

	raw, err := n.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	n.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, n.maxLogLen)),
	)

	verdict, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	if !hasUsername(rows, verdict.Winner) {
		n.logger.Debug("winner is not in the leaderboard, using the top entry",
			zap.String("winner", verdict.Winner),
		)
		verdict.Winner = rows[0].Username
	}

	verdict.Raw = raw
	return verdict, nil
}

func buildPrompt(leaderboardJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Leaderboard:\n{{LEADERBOARD_JSON}}\n\nJSON Response:"
	}
	return strings.ReplaceAll(template, "{{LEADERBOARD_JSON}}", leaderboardJSON)
}

func parseResponse(raw string) (*ai.Verdict, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	summary := coerceString(data["summary"])
	if summary == "" {
		return nil, errors.New("gemini response has no summary")
	}

	return &ai.Verdict{
		Winner:  coerceString(data["winner"]),
		Summary: summary,
	}, nil
}

func hasUsername(rows []leaderboardRow, username string) bool {
	for _, row := range rows {
		if strings.EqualFold(row.Username, username) {
			return true
		}
	}
	return false
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case nil:
		return ""
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
