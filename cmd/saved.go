package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/gitrate/internal/filtering"
	"github.com/spigell/gitrate/internal/gitrate"
)

var errStorageUpdate = errors.New("could not update saved profiles, see the log for details")

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Manage saved profiles",
}

var savedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return listSaved(cmd)
	},
}

var savedRemoveCmd = &cobra.Command{
	Use:   "remove <username>",
	Short: "Remove a saved profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := setup()
		defer rt.close()

		if !rt.profiles.IsSaved(args[0]) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is not saved\n", args[0])
			return nil
		}
		if !rt.profiles.Remove(args[0]) {
			return errStorageUpdate
		}

		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
		return nil
	},
}

var savedClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every saved profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt := setup()
		defer rt.close()

		if !rt.profiles.ClearAll() {
			return errStorageUpdate
		}

		fmt.Fprintln(cmd.OutOrStdout(), "saved profiles cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(savedCmd)
	savedCmd.AddCommand(savedListCmd, savedRemoveCmd, savedClearCmd)

	savedListCmd.Flags().String("tier", "all", "show only one tier (Elite, Advanced, Intermediate, Beginner)")
	savedListCmd.Flags().Float64("min-score", 0, "drop profiles with a lower final score")
	savedListCmd.Flags().String("search", "", "match username or name")
	savedListCmd.Flags().String("sort", string(filtering.SortByDate), "sort key: score, name or date")
	savedListCmd.Flags().String("order", string(filtering.Descending), "sort order: asc or desc")
}

type listOptions struct {
	tier     gitrate.Tier
	minScore float64
	search   string
	key      filtering.SortKey
	order    filtering.SortOrder
}

func parseListOptions(cmd *cobra.Command) (*listOptions, error) {
	flags := cmd.Flags()

	tierFlag, _ := flags.GetString("tier")
	minScore, _ := flags.GetFloat64("min-score")
	search, _ := flags.GetString("search")
	sortFlag, _ := flags.GetString("sort")
	orderFlag, _ := flags.GetString("order")

	tier, err := gitrate.ParseTier(tierFlag)
	if err != nil {
		return nil, err
	}
	key, err := filtering.ParseSortKey(sortFlag)
	if err != nil {
		return nil, err
	}
	order, err := filtering.ParseSortOrder(orderFlag)
	if err != nil {
		return nil, err
	}

	return &listOptions{tier: tier, minScore: minScore, search: search, key: key, order: order}, nil
}

func listSaved(cmd *cobra.Command) error {
	opts, err := parseListOptions(cmd)
	if err != nil {
		return err
	}

	rt := setup()
	defer rt.close()

	saved := rt.profiles.List()
	results, err := selectSaved(saved, opts, rt.logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "no saved profiles match")
	} else {
		printRatings(out, results)
	}

	fmt.Fprintln(out)
	printCounts(out, filtering.TierCounts(saved))
	return nil
}

// selectSaved runs the filter pipeline and sorts what is left.
func selectSaved(saved []gitrate.Rating, opts *listOptions, logger *zap.Logger) ([]gitrate.Rating, error) {
	steps := []filtering.Filter{
		filtering.NewTier(opts.tier),
		filtering.NewMinScore(opts.minScore),
		filtering.NewSearch(opts.search),
	}

	for _, status := range filtering.Describe(steps) {
		logger.Debug("filter configured",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
		)
	}

	return filtering.Sort(filtering.Run(steps, saved, logger), opts.key, opts.order)
}
