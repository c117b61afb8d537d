package logger

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/gitrate/internal/gitrate"
)

const (
	FieldUsername = "username"
	FieldScore    = "final_score"
	FieldTier     = "tier"
	FieldSavedAt  = "saved_at"
)

// WithFields safely attaches the provided fields to the logger.
// A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// RatingFields describes a rating in structured log fields. Empty values are skipped.
func RatingFields(r *gitrate.Rating) []zap.Field {
	if r == nil {
		return nil
	}

	fields := make([]zap.Field, 0, 4)
	if username := strings.TrimSpace(r.Username); username != "" {
		fields = append(fields, zap.String(FieldUsername, username))
	}

	fields = append(fields, zap.Float64(FieldScore, r.FinalScore))

	if r.Tier != "" {
		fields = append(fields, zap.String(FieldTier, string(r.Tier)))
	}

	if r.SavedAt != nil {
		fields = append(fields, zap.Time(FieldSavedAt, *r.SavedAt))
	}

	return fields
}

// WithRating attaches RatingFields to the logger.
func WithRating(logger *zap.Logger, r *gitrate.Rating) *zap.Logger {
	return WithFields(logger, RatingFields(r)...)
}
