package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/gitrate/internal/ai"
	"github.com/spigell/gitrate/internal/app"
	"github.com/spigell/gitrate/internal/gitrate"
	"github.com/spigell/gitrate/internal/profiles"
	"github.com/spigell/gitrate/internal/ranking"
	"github.com/spigell/gitrate/internal/utils"
)

const rawLogLength = 500

var compareCmd = &cobra.Command{
	Use:   "compare [usernames...]",
	Short: "Compare saved profiles side by side",
	Long:  "Compare saved profiles side by side. Without arguments every saved profile is compared.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return compare(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().String("metric", "", fmt.Sprintf("show a single metric (%s)", strings.Join(ranking.Metrics(), ", ")))
	compareCmd.Flags().Bool("verdict", false, "ask Gemini for a head-to-head verdict")

	viper.BindPFlag("ai.enabled", compareCmd.Flags().Lookup("verdict"))
}

func compare(cmd *cobra.Command, usernames []string) error {
	metricFlag, _ := cmd.Flags().GetString("metric")

	metricNames := ranking.Metrics()
	if metricFlag != "" {
		if _, err := ranking.Value(&gitrate.Rating{}, metricFlag); err != nil {
			return err
		}
		metricNames = []string{metricFlag}
	}

	rt := setup()
	defer rt.close()

	entries, selected, err := leaderboardFor(rt.controller(), rt.profiles, usernames)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printLeaderboard(out, entries)

	if err := printMetrics(out, selected, metricNames); err != nil {
		return err
	}

	if !rt.config.AI.Enabled {
		return nil
	}

	return printVerdict(cmd, rt, entries)
}

// leaderboardFor ranks the named saved profiles, or all of them through the controller's
// Compare tab when no names are given. selected keeps the order the profiles were chosen in.
func leaderboardFor(c *app.Controller, store *profiles.Store, usernames []string) ([]ranking.Entry, []gitrate.Rating, error) {
	if len(usernames) == 0 {
		if err := c.SelectTab(app.TabCompare); err != nil {
			return nil, nil, err
		}
		entries, err := c.Compare()
		if err != nil {
			return nil, nil, err
		}
		return entries, store.List(), nil
	}

	selected := make([]gitrate.Rating, 0, len(usernames))
	seen := make(map[string]bool, len(usernames))
	var missing []string
	for _, username := range usernames {
		if seen[username] {
			continue
		}
		seen[username] = true

		r, ok := store.Get(username)
		if !ok {
			missing = append(missing, username)
			continue
		}
		selected = append(selected, r)
	}

	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("not saved: %s (run `%s rate <username>` first)", strings.Join(missing, ", "), appName)
	}

	entries, err := ranking.Leaderboard(selected)
	if err != nil {
		return nil, nil, err
	}

	return entries, selected, nil
}

func printVerdict(cmd *cobra.Command, rt *runtime, entries []ranking.Entry) error {
	narrator, err := newNarrator(rt.ctx, rt.config.AI, rt.logger)
	if err != nil {
		return fmt.Errorf("building gemini narrator: %w", err)
	}

	verdict, err := narrator.Narrate(rt.ctx, entries)
	if err != nil {
		return fmt.Errorf("asking gemini for a verdict: %w", err)
	}

	writeVerdict(cmd.OutOrStdout(), rt.logger, verdict)
	return nil
}

func writeVerdict(w io.Writer, logger *zap.Logger, verdict *ai.Verdict) {
	logger.Info("verdict received",
		zap.String("winner", verdict.Winner),
		zap.String("raw", utils.TruncateForLog(verdict.Raw, rawLogLength)),
	)

	fmt.Fprintf(w, "\nVerdict: %s\n  %s\n", verdict.Winner, verdict.Summary)
}
