package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/gitrate/internal/app"
	"github.com/spigell/gitrate/internal/logger"
)

var rateCmd = &cobra.Command{
	Use:   "rate <username>",
	Short: "Rate a GitHub developer and save the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noSave, _ := cmd.Flags().GetBool("no-save")
		return rate(cmd, args[0], !noSave)
	},
}

func init() {
	rootCmd.AddCommand(rateCmd)

	rateCmd.Flags().Bool("no-save", false, "do not add the result to saved profiles")
}

func rate(cmd *cobra.Command, username string, save bool) error {
	rt := setup()
	defer rt.close()

	c := rt.controller(app.WithAutoSave(save))

	view, err := c.Search(username)
	if err != nil {
		rt.logger.Debug("search failed", zap.String("username", username), zap.Error(err))
		return errors.New(view.Error)
	}

	logger.WithRating(rt.logger, view.Current).Info("developer rated", zap.Bool("saved", save))

	printRating(cmd.OutOrStdout(), view.Current)
	return nil
}
