package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/gitrate/internal/gitrate"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the rating api is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt := setup()
		defer rt.close()

		raw, err := rt.client.HealthCheck()
		if err != nil {
			rt.logger.Debug("health check", zap.String("api_url", rt.client.APIURL), zap.Error(err))
			return errors.New(gitrate.UserMessage(err))
		}

		health, err := gitrate.DecodeHealth(raw)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s", rt.client.APIURL, health.Status)
		if health.Version != "" {
			fmt.Fprintf(cmd.OutOrStdout(), " (version %s)", health.Version)
		}
		fmt.Fprintln(cmd.OutOrStdout())

		if !health.OK() {
			return fmt.Errorf("rating api is not healthy: %q", health.Status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
