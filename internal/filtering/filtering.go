package filtering

import (
	"go.uber.org/zap"

	"github.com/spigell/gitrate/internal/gitrate"
)

// Filter represents a single filtering step applied to saved ratings.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Apply(results []gitrate.Rating) ([]gitrate.Rating, Step)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially and returns what is left.
// The input slice is never modified.
func Run(steps []Filter, results []gitrate.Rating, logger *zap.Logger) []gitrate.Rating {
	if logger == nil {
		logger = zap.NewNop()
	}

	current := append([]gitrate.Rating(nil), results...)
	for _, step := range steps {
		if !step.IsEnabled() {
			logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info := step.Apply(current)

		logger.Debug("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		current = next
	}

	return current
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

func stepOf(initial, left int) Step {
	return Step{Initial: initial, Dropped: initial - left, Left: left}
}
