package ai

import (
	"context"

	"github.com/spigell/gitrate/internal/ranking"
)

// Verdict is a short head-to-head commentary over a leaderboard.
type Verdict struct {
	Winner  string
	Summary string
	Raw     string
}

type Narrator interface {
	Narrate(ctx context.Context, leaderboard []ranking.Entry) (*Verdict, error)
}
