package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/gitrate/internal/gitrate"
)

var userCmd = &cobra.Command{
	Use:   "user <username>",
	Short: "Show the raw GitHub data the rating is based on",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")

		rt := setup()
		defer rt.close()

		data, err := rt.client.GetUserData(args[0])
		if err != nil {
			rt.logger.Debug("getting user data", zap.String("username", args[0]), zap.Error(err))
			return errors.New(gitrate.UserMessage(err))
		}

		if raw {
			pretty, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return fmt.Errorf("encode user data: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
			return nil
		}

		decoded, err := gitrate.DecodeUserData(data)
		if err != nil {
			return err
		}

		printUserData(cmd.OutOrStdout(), decoded)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)

	userCmd.Flags().Bool("raw", false, "print the response as json")
}
